package api

import "net/http"

// handleHealth answers green unconditionally. Load-balancer probes and the
// uptime pinger hit this before anything else is initialized, so it must not
// touch the database or any other dependency.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"health": "green"})
}

// handleRoot is the query-parameter selector used by external monitors:
// "?q=health" (or bare "?health") answers the health probe, "?q=latestPrice"
// (or bare "?latestPrice") returns the latest recorded price.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Has("health") || q.Get("q") == "health":
		s.handleHealth(w, r)
	case q.Has("latestPrice") || q.Get("q") == "latestPrice":
		s.handleLatestPrice(w, r)
	default:
		writeError(w, http.StatusNotFound, "unknown query, expected health or latestPrice")
	}
}

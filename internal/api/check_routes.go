package api

import (
	"errors"
	"net/http"

	"github.com/mhargreave/mattress-tracker/internal/checker"
)

type checkResponse struct {
	Price    string `json:"price"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Notified bool   `json:"notified"`
	Warning  string `json:"warning,omitempty"`
}

// handleCheckNow runs the price check synchronously, outside the daily
// schedule.
func (s *Server) handleCheckNow(w http.ResponseWriter, r *http.Request) {
	res, err := s.runner.CheckNow(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, checker.ErrFetch):
			writeError(w, http.StatusBadGateway, "Failed to retrieve price")
		case errors.Is(err, checker.ErrStore):
			writeError(w, http.StatusInternalServerError, "Failed to update price history")
		default:
			writeError(w, http.StatusInternalServerError, "price check failed")
		}
		return
	}

	out := checkResponse{
		Price:    res.Observation.Price.StringFixed(2),
		Date:     res.Observation.Date,
		Time:     res.Observation.Time,
		Notified: res.NotifyErr == nil,
	}
	if res.NotifyErr != nil {
		out.Warning = "price stored, notification failed"
	}
	writeJSON(w, http.StatusOK, out)
}

// handleNotifyNow re-sends the alert for the last recorded price.
func (s *Server) handleNotifyNow(w http.ResponseWriter, r *http.Request) {
	obs, err := s.prices.Latest(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("latest price lookup failed")
		writeError(w, http.StatusInternalServerError, "failed to fetch latest price")
		return
	}
	if obs == nil {
		writeError(w, http.StatusNotFound, "No price history found")
		return
	}

	if err := s.notifier.Notify(r.Context(), obs.Price); err != nil {
		s.log.Error().Err(err).Msg("manual notification failed")
		writeError(w, http.StatusBadGateway, "failed to send notification")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "sent",
		"price":  obs.Price.StringFixed(2),
	})
}

package api

import (
	"encoding/json"
	"net/http"

	"github.com/mhargreave/mattress-tracker/internal/models"
)

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Schedule())
}

// handlePutSchedule persists the new schedule and swaps it into the running
// scheduler. A persistence failure is reported to the operator; the
// already-loaded in-memory schedule stays untouched in that case.
func (s *Server) handlePutSchedule(w http.ResponseWriter, r *http.Request) {
	var in models.Schedule
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	norm, err := models.NormalizeCheckTime(in.CheckTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.CheckTime = norm

	if err := s.schedules.Save(r.Context(), in); err != nil {
		s.log.Error().Err(err).Msg("schedule save failed")
		writeError(w, http.StatusInternalServerError, "failed to save schedule")
		return
	}

	s.runner.UpdateSchedule(in)
	writeJSON(w, http.StatusOK, in)
}

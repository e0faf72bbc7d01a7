package api

import (
	"encoding/json"
	"net/http"

	"github.com/mhargreave/mattress-tracker/internal/models"
)

// timestampLayout is human-readable and keeps the zone abbreviation, for
// operators reading the monitoring output directly.
const timestampLayout = "2006-01-02 15:04:05 MST"

type latestResponse struct {
	LatestPrice json.RawMessage `json:"latestPrice"`
	Timestamp   string          `json:"timestamp"`
}

type observationJSON struct {
	Date       string          `json:"date"`
	Time       string          `json:"time"`
	Price      json.RawMessage `json:"price"`
	RecordedAt string          `json:"recordedAt"`
}

// priceNumber renders a decimal as a bare JSON number with two fractional
// digits, e.g. 1399.00.
func priceNumber(obs *models.PriceObservation) json.RawMessage {
	return json.RawMessage(obs.Price.StringFixed(2))
}

func (s *Server) handleLatestPrice(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, latestResponse{
		LatestPrice: priceNumber(obs),
		Timestamp:   obs.RecordedAt.Local().Format(timestampLayout),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.prices.History(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("history lookup failed")
		writeError(w, http.StatusInternalServerError, "failed to fetch price history")
		return
	}

	out := make([]observationJSON, len(history))
	for i := range history {
		out[i] = observationJSON{
			Date:       history[i].Date,
			Time:       history[i].Time,
			Price:      priceNumber(&history[i]),
			RecordedAt: history[i].RecordedAt.Local().Format(timestampLayout),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

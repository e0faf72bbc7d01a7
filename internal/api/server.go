package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mhargreave/mattress-tracker/internal/checker"
	"github.com/mhargreave/mattress-tracker/internal/models"
)

// PriceReader is the slice of the price store the API reads from.
type PriceReader interface {
	Latest(ctx context.Context) (*models.PriceObservation, error)
	History(ctx context.Context) ([]models.PriceObservation, error)
}

// ScheduleStore persists operator schedule changes.
type ScheduleStore interface {
	Load(ctx context.Context) models.Schedule
	Save(ctx context.Context, s models.Schedule) error
}

// Runner is the live scheduler surface exposed to operators.
type Runner interface {
	CheckNow(ctx context.Context) (*checker.Result, error)
	UpdateSchedule(s models.Schedule)
	Schedule() models.Schedule
}

// NotifySender re-sends an alert for an already-recorded price.
type NotifySender interface {
	Notify(ctx context.Context, price decimal.Decimal) error
}

type Server struct {
	prices     PriceReader
	schedules  ScheduleStore
	runner     Runner
	notifier   NotifySender
	httpServer *http.Server
	apiKey     string
	log        zerolog.Logger
}

func NewServer(prices PriceReader, schedules ScheduleStore, runner Runner, notifier NotifySender,
	port int, apiKey, corsOrigin string, log zerolog.Logger) *Server {

	s := &Server{
		prices:    prices,
		schedules: schedules,
		runner:    runner,
		notifier:  notifier,
		apiKey:    apiKey,
		log:       log.With().Str("component", "api").Logger(),
	}

	mux := http.NewServeMux()

	// Query-parameter selector for external monitors (see handleRoot).
	mux.HandleFunc("GET /{$}", s.handleRoot)

	// Price routes
	mux.HandleFunc("GET /v1/prices/latest", s.handleLatestPrice)
	mux.HandleFunc("GET /v1/prices/history", s.handleHistory)

	// Schedule routes
	mux.HandleFunc("GET /v1/schedule", s.handleGetSchedule)
	mux.HandleFunc("PUT /v1/schedule", s.handlePutSchedule)

	// Manual triggers
	mux.HandleFunc("POST /v1/check", s.handleCheckNow)
	mux.HandleFunc("POST /v1/notify", s.handleNotifyNow)

	// Health check (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)

	handler := s.authMiddleware(corsMiddleware(mux, corsOrigin))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("REST API listening")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Health and the monitoring selector stay open.
		if s.apiKey == "" || r.URL.Path == "/health" || r.URL.Path == "/" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

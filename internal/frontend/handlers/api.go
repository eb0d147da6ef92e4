// Package handlers exposes the calculators, reference tables and predictor
// sessions as an HTTP JSON API.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/cory-johannsen/campredict/internal/game/camping"
	"github.com/cory-johannsen/campredict/internal/game/session"
	"github.com/cory-johannsen/campredict/internal/storage/postgres"
)

// HistoryStore records session predictions.
type HistoryStore interface {
	Save(ctx context.Context, sessionID uuid.UUID, in camping.Input, p camping.Prediction) (postgres.Record, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID, limit int) ([]postgres.Record, error)
	Get(ctx context.Context, id int64) (postgres.Record, error)
}

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context, timeout time.Duration) error
}

// Options configures the optional parts of the API.
type Options struct {
	// History enables the history endpoints and recording; nil disables both.
	History HistoryStore
	// HistoryLimit caps the entries returned by the history endpoint.
	HistoryLimit int
	// Health is consulted by /healthz when set.
	Health HealthChecker
}

// API serves the JSON endpoints.
type API struct {
	tables   *camping.Tables
	sessions *session.Manager
	opts     Options
	logger   *zap.Logger
}

// NewAPI creates an API over validated tables and a session manager.
//
// Precondition: tables, sessions and logger must be non-nil; opts.HistoryLimit
// must be > 0 when opts.History is set.
func NewAPI(tables *camping.Tables, sessions *session.Manager, logger *zap.Logger, opts Options) *API {
	if tables == nil || sessions == nil || logger == nil {
		panic("handlers.NewAPI: precondition violated: tables, sessions and logger must be non-nil")
	}
	if opts.History != nil && opts.HistoryLimit <= 0 {
		panic("handlers.NewAPI: precondition violated: HistoryLimit must be > 0 when history is enabled")
	}
	return &API{tables: tables, sessions: sessions, opts: opts, logger: logger}
}

// Routes returns the router serving every endpoint.
func (a *API) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(a.logRequests)

	r.HandleFunc("/healthz", a.HandleHealth).Methods("GET")

	r.HandleFunc("/api/tables/buildings", a.HandleBuildings).Methods("GET")
	r.HandleFunc("/api/tables/tiers", a.HandleTiers).Methods("GET")
	r.HandleFunc("/api/predict", a.HandlePredict).Methods("POST")

	r.HandleFunc("/api/sessions", a.HandleCreateSession).Methods("POST")
	r.HandleFunc("/api/sessions/{id}", a.HandleGetSession).Methods("GET")
	r.HandleFunc("/api/sessions/{id}", a.HandleDeleteSession).Methods("DELETE")
	r.HandleFunc("/api/sessions/{id}/predict", a.HandleSessionPredict).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/defence", a.HandleSessionDefence).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/warning", a.HandleResetWarning).Methods("DELETE")
	r.HandleFunc("/api/sessions/{id}/history", a.HandleSessionHistory).Methods("GET")
	r.HandleFunc("/api/history/{recordID}", a.HandleHistoryRecord).Methods("GET")
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (a *API) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		a.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

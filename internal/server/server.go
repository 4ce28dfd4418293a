// Package server exposes clubs, simulations and match-days over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/touchline/internal/decision"
	"github.com/verte-zerg/touchline/internal/engine"
	"github.com/verte-zerg/touchline/internal/forecast"
	"github.com/verte-zerg/touchline/internal/model"
	"github.com/verte-zerg/touchline/internal/store"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
	requestIDHeader = "X-Request-ID"
)

// Store is the persistence the API needs.
type Store interface {
	ListClubs(ctx context.Context) ([]model.ClubSummary, error)
	LoadClub(ctx context.Context, id string) (model.Club, error)
	InsertMatchDay(ctx context.Context, report model.MatchDayReport, playedAt time.Time) error
	ListMatchDays(ctx context.Context, q model.SeasonQuery) ([]model.MatchDaySummary, error)
	GetMatchDay(ctx context.Context, id string) (model.MatchDayReport, error)
}

// Server holds the API dependencies.
type Server struct {
	store     Store
	engine    *engine.Engine
	decisions *decision.Resolver
	logger    zerolog.Logger
	now       func() time.Time
}

// New builds a server.
func New(st Store, eng *engine.Engine, decisions *decision.Resolver, logger zerolog.Logger) *Server {
	return &Server{
		store:     st,
		engine:    eng,
		decisions: decisions,
		logger:    logger,
		now:       time.Now,
	}
}

// matchRequest is the body of simulate, play and forecast calls. All fields
// are optional.
type matchRequest struct {
	Config          model.MatchConfig      `json:"config"`
	Decision        string                 `json:"decision,omitempty"`
	DecisionOutcome *model.DecisionOutcome `json:"decisionOutcome,omitempty"`
	Runs            int                    `json:"runs,omitempty"`
	Workers         int                    `json:"workers,omitempty"`
}

type decisionView struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Risk        string  `json:"risk"`
	BaseChance  float64 `json:"baseChance"`
	Sanctions   string  `json:"sanctions,omitempty"`
}

type clubView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MatchDay  int       `json:"matchDay"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type matchDayView struct {
	ID           string    `json:"id"`
	MatchDay     int       `json:"matchDay"`
	PlayedAt     time.Time `json:"playedAt"`
	Opponent     string    `json:"opponent"`
	Home         bool      `json:"home"`
	GoalsFor     int       `json:"goalsFor"`
	GoalsAgainst int       `json:"goalsAgainst"`
	Possession   float64   `json:"possession"`
	XGFor        float64   `json:"xgFor"`
	XGAgainst    float64   `json:"xgAgainst"`
	MVP          string    `json:"mvp"`
	Seed         string    `json:"seed"`
	FinanceNet   string    `json:"financeNet"`
}

// Handler returns the routed API wrapped in CORS handling.
func (s *Server) Handler(origins []string) http.Handler {
	router := mux.NewRouter()
	router.Use(s.logRequests)

	router.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/decisions", s.listDecisions).Methods(http.MethodGet)
	api.HandleFunc("/clubs", s.listClubs).Methods(http.MethodGet)
	api.HandleFunc("/clubs/{id}", s.getClub).Methods(http.MethodGet)
	api.HandleFunc("/clubs/{id}/simulate", s.simulate).Methods(http.MethodPost)
	api.HandleFunc("/clubs/{id}/forecast", s.forecast).Methods(http.MethodPost)
	api.HandleFunc("/clubs/{id}/matchdays", s.playMatchDay).Methods(http.MethodPost)
	api.HandleFunc("/clubs/{id}/matchdays", s.listMatchDays).Methods(http.MethodGet)
	api.HandleFunc("/matchdays/{id}", s.getMatchDay).Methods(http.MethodGet)

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
	})
	return c.Handler(router)
}

// ListenAndServe serves the API until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string, origins []string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(origins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listDecisions(w http.ResponseWriter, _ *http.Request) {
	out := []decisionView{}
	if s.decisions != nil {
		for _, d := range s.decisions.Catalog() {
			out = append(out, decisionView{
				ID:          d.ID,
				Title:       d.Title,
				Description: d.Description,
				Risk:        d.Risk,
				BaseChance:  d.BaseChance,
				Sanctions:   d.Sanctions,
			})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := s.store.ListClubs(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]clubView, 0, len(clubs))
	for _, c := range clubs {
		out = append(out, clubView{ID: c.ID, Name: c.Name, MatchDay: c.MatchDay, UpdatedAt: c.UpdatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getClub(w http.ResponseWriter, r *http.Request) {
	club, err := s.store.LoadClub(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, club)
}

func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	club, req, ok := s.clubAndRequest(w, r)
	if !ok {
		return
	}
	res, err := s.engine.SimulateMatch(club, req.Config, engine.Options{})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) forecast(w http.ResponseWriter, r *http.Request) {
	club, req, ok := s.clubAndRequest(w, r)
	if !ok {
		return
	}
	if v := r.URL.Query().Get("runs"); v != "" {
		runs, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid runs"})
			return
		}
		req.Runs = runs
	}
	res, err := forecast.Run(r.Context(), club, req.Config, req.Runs, req.Workers)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) playMatchDay(w http.ResponseWriter, r *http.Request) {
	club, req, ok := s.clubAndRequest(w, r)
	if !ok {
		return
	}
	report, err := s.engine.PlayMatchDay(club, req.Config, engine.Options{
		Decision:        req.Decision,
		DecisionOutcome: req.DecisionOutcome,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.InsertMatchDay(r.Context(), report, s.now()); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info().
		Str("club", club.ID).
		Int("day", report.MatchDay).
		Str("score", fmt.Sprintf("%d-%d", report.Result.GoalsFor, report.Result.GoalsAgainst)).
		Msg("match-day played")
	writeJSON(w, http.StatusCreated, report)
}

func (s *Server) listMatchDays(w http.ResponseWriter, r *http.Request) {
	q := model.SeasonQuery{ClubID: mux.Vars(r)["id"]}
	if v := r.URL.Query().Get("last"); v != "" {
		last, err := strconv.Atoi(v)
		if err != nil || last < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid last"})
			return
		}
		q.Last = last
	}
	days, err := s.store.ListMatchDays(r.Context(), q)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]matchDayView, 0, len(days))
	for _, d := range days {
		out = append(out, matchDayView{
			ID:           d.ID,
			MatchDay:     d.MatchDay,
			PlayedAt:     d.PlayedAt,
			Opponent:     d.Opponent,
			Home:         d.Home,
			GoalsFor:     d.GoalsFor,
			GoalsAgainst: d.GoalsAgainst,
			Possession:   d.PossessionFor,
			XGFor:        d.XGFor,
			XGAgainst:    d.XGAgainst,
			MVP:          d.MVP,
			Seed:         d.Seed,
			FinanceNet:   d.FinanceNet,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getMatchDay(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.GetMatchDay(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) clubAndRequest(w http.ResponseWriter, r *http.Request) (model.Club, matchRequest, bool) {
	var req matchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid request body: %v", err)})
		return model.Club{}, matchRequest{}, false
	}
	club, err := s.store.LoadClub(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return model.Club{}, matchRequest{}, false
	}
	return club, req, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrStaleClub):
		status = http.StatusConflict
	case errors.Is(err, decision.ErrUnknownDecision):
		status = http.StatusBadRequest
	case errors.Is(err, engine.ErrEmptySquad):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort write; the client is gone.
		_ = err
	}
}

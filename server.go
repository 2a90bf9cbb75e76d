package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/baseball-sim/matchup-engine/models"
	"github.com/baseball-sim/matchup-engine/simulation"
)

// lineupIncompleteMessage is returned whenever a game cannot start
const lineupIncompleteMessage = "Simulation failed - lineup is not complete."

type Server struct {
	db         *pgxpool.Pool
	router     *mux.Router
	httpServer *http.Server
	config     *Config
	simEngine  *simulation.SimulationEngine
	logger     zerolog.Logger
}

// LineupRequest carries a team's profiles inline: nine batters in batting
// order and three pitchers (starter first)
type LineupRequest struct {
	Batters  []*models.BatterProfile  `json:"batters"`
	Rotation []*models.PitcherProfile `json:"rotation"`
}

type SimulationRequest struct {
	Home           LineupRequest `json:"home"`
	Away           LineupRequest `json:"away"`
	SimulationRuns int           `json:"simulation_runs,omitempty"`
	Seed           *int64        `json:"seed,omitempty"`
}

type GameRequest struct {
	Home LineupRequest `json:"home"`
	Away LineupRequest `json:"away"`
	Seed *int64        `json:"seed,omitempty"`
}

type SimulationResponse struct {
	RunID     string    `json:"run_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Seed      int64     `json:"seed"`
	CreatedAt time.Time `json:"created_at"`
}

type SimulationStatus struct {
	RunID         string     `json:"run_id"`
	Status        string     `json:"status"`
	TotalRuns     int        `json:"total_runs"`
	CompletedRuns int        `json:"completed_runs"`
	Progress      float64    `json:"progress"`
	Seed          int64      `json:"seed"`
	Error         string     `json:"error,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

type GameResponse struct {
	Seed   int64                 `json:"seed"`
	Result *models.ContestResult `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer wires the engine into the HTTP router. db may be nil when the
// service runs without persistence.
func NewServer(config *Config, engine *simulation.SimulationEngine, db *pgxpool.Pool, logger zerolog.Logger) *Server {
	s := &Server{
		db:        db,
		config:    config,
		router:    mux.NewRouter(),
		simEngine: engine,
		logger:    logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.HandleFunc("/health", s.healthHandler).Methods("GET")

	// Simulation endpoints
	s.router.HandleFunc("/simulate", s.simulateHandler).Methods("POST")
	s.router.HandleFunc("/simulate/game", s.simulateGameHandler).Methods("POST")
	s.router.HandleFunc("/simulation/{id}/status", s.simulationStatusHandler).Methods("GET")
	s.router.HandleFunc("/simulation/{id}/result", s.simulationResultHandler).Methods("GET")

	// Apply middleware
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.recoveryMiddleware)
}

// Handler returns the router wrapped in CORS
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         86400,
	})
	return c.Handler(s.router)
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info().
		Str("port", s.config.Port).
		Int("workers", s.config.Workers).
		Bool("database", s.db != nil).
		Msg("starting matchup engine")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down matchup engine")

	// Stop taking requests, let batch runs finish their writes, then drop the pool
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if waitErr := s.simEngine.Wait(ctx); waitErr != nil {
		s.logger.Warn().Err(waitErr).Msg("simulation runs still in progress at shutdown")
	}
	if s.db != nil {
		s.db.Close()
	}
	return err
}

// Handlers
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":   "healthy",
		"time":     time.Now().UTC(),
		"workers":  s.config.Workers,
		"database": "disabled",
	}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		health["database"] = "connected"
		if err := s.db.Ping(ctx); err != nil {
			health["database"] = "disconnected"
			health["status"] = "unhealthy"
			writeJSONStatus(w, http.StatusServiceUnavailable, health)
			return
		}
	}

	writeJSON(w, health)
}

func (s *Server) simulateHandler(w http.ResponseWriter, r *http.Request) {
	var req SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	home, away := req.Home.lineup(), req.Away.lineup()
	if home == nil || away == nil {
		writeError(w, http.StatusBadRequest, "Lineup has too many players")
		return
	}

	seed := seedOrNow(req.Seed)
	runID, err := s.simEngine.SubmitRun(r.Context(), *home, *away, req.SimulationRuns, seed)
	if errors.Is(err, simulation.ErrLineupIncomplete) {
		s.logger.Info().Err(err).Msg("rejected simulation request")
		writeError(w, http.StatusUnprocessableEntity, lineupIncompleteMessage)
		return
	}
	if errors.Is(err, simulation.ErrTooManyRuns) {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Simulation runs must not exceed %d", s.simEngine.MaxRuns()))
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to submit simulation")
		writeError(w, http.StatusInternalServerError, "Failed to create simulation")
		return
	}

	status, _ := s.simEngine.GetRunStatus(runID)
	writeJSON(w, SimulationResponse{
		RunID:     runID,
		Status:    "started",
		Message:   fmt.Sprintf("Simulation started with %d runs", status.TotalRuns),
		Seed:      seed,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *Server) simulateGameHandler(w http.ResponseWriter, r *http.Request) {
	var req GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	home, away := req.Home.lineup(), req.Away.lineup()
	if home == nil || away == nil {
		writeError(w, http.StatusBadRequest, "Lineup has too many players")
		return
	}

	seed := seedOrNow(req.Seed)
	result, err := simulation.PlayContest(*home, *away, simulation.NewSeededSource(seed), s.logger)
	if errors.Is(err, simulation.ErrLineupIncomplete) {
		s.logger.Info().Err(err).Msg("rejected game request")
		writeError(w, http.StatusUnprocessableEntity, lineupIncompleteMessage)
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("game simulation failed")
		writeError(w, http.StatusInternalServerError, "Simulation failed")
		return
	}

	writeJSON(w, GameResponse{Seed: seed, Result: result})
}

func (s *Server) simulationStatusHandler(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]

	runStatus, exists := s.simEngine.GetRunStatus(runID)
	if !exists {
		writeError(w, http.StatusNotFound, "Simulation not found")
		return
	}

	writeJSON(w, SimulationStatus{
		RunID:         runStatus.RunID,
		Status:        runStatus.Status,
		TotalRuns:     runStatus.TotalRuns,
		CompletedRuns: runStatus.CompletedRuns,
		Progress:      runStatus.Progress(),
		Seed:          runStatus.Seed,
		Error:         runStatus.Error,
		CreatedAt:     runStatus.StartTime,
		CompletedAt:   runStatus.CompletedTime,
	})
}

func (s *Server) simulationResultHandler(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["id"]

	if runStatus, exists := s.simEngine.GetRunStatus(runID); exists && runStatus.Status != simulation.StatusCompleted {
		if runStatus.Status == simulation.StatusError {
			writeError(w, http.StatusInternalServerError, runStatus.Error)
			return
		}
		writeError(w, http.StatusAccepted, "Simulation not yet complete")
		return
	}

	result, err := s.simEngine.GetRunResult(r.Context(), runID)
	if errors.Is(err, simulation.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "Simulation not found")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Str("run_id", runID).Msg("failed to get simulation results")
		writeError(w, http.StatusInternalServerError, "Results not available")
		return
	}

	writeJSON(w, result)
}

// lineup copies the request into fixed slots. Missing players stay nil and
// are caught by validation; it returns nil when there are too many.
func (lr LineupRequest) lineup() *simulation.Lineup {
	if len(lr.Batters) > simulation.BattingOrderSize || len(lr.Rotation) > simulation.RotationSize {
		return nil
	}
	var l simulation.Lineup
	copy(l.Batters[:], lr.Batters)
	copy(l.Rotation[:], lr.Rotation)
	return &l
}

func seedOrNow(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return time.Now().UnixNano()
}

// Middleware
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lrw, r)

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.RequestURI).
			Int("status", lrw.statusCode).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error().Interface("panic", err).Str("path", r.URL.Path).Msg("panic recovered")
				writeError(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Helper types and functions
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSONStatus(w, status, errorResponse{Error: message})
}

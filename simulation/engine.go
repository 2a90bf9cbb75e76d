package simulation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/baseball-sim/matchup-engine/models"
)

// Run statuses
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// DefaultMaxSimulationRuns caps the games in one run unless SetMaxRuns
// says otherwise
const DefaultMaxSimulationRuns = 100000

var (
	// ErrRunNotFound is returned for run IDs the engine has no record of
	ErrRunNotFound = errors.New("simulation run not found")
	// ErrTooManyRuns is returned when a run asks for more games than the
	// engine allows
	ErrTooManyRuns = errors.New("too many simulation runs requested")
)

// SimulationEngine runs batches of seeded contests across a worker pool
type SimulationEngine struct {
	store          Store
	workers        int
	simulationRuns int
	maxRuns        int
	logger         zerolog.Logger
	mu             sync.RWMutex
	activeRuns     map[string]*RunStatus
	running        sync.WaitGroup
}

// RunStatus tracks the progress of a simulation run
type RunStatus struct {
	RunID            string                   `json:"run_id"`
	Seed             int64                    `json:"seed"`
	TotalRuns        int                      `json:"total_runs"`
	CompletedRuns    int                      `json:"completed_runs"`
	Status           string                   `json:"status"`
	Error            string                   `json:"error,omitempty"`
	StartTime        time.Time                `json:"start_time"`
	CompletedTime    *time.Time               `json:"completed_time,omitempty"`
	AggregatedResult *models.AggregatedResult `json:"-"`
}

// Progress returns the completed fraction of the run
func (rs RunStatus) Progress() float64 {
	if rs.TotalRuns == 0 {
		return 0
	}
	return float64(rs.CompletedRuns) / float64(rs.TotalRuns)
}

// NewSimulationEngine creates a new simulation engine. store may be nil, in
// which case results only live in memory.
func NewSimulationEngine(store Store, workers, simulationRuns int, logger zerolog.Logger) *SimulationEngine {
	if workers < 1 {
		workers = 1
	}
	return &SimulationEngine{
		store:          store,
		workers:        workers,
		simulationRuns: simulationRuns,
		maxRuns:        DefaultMaxSimulationRuns,
		logger:         logger,
		activeRuns:     make(map[string]*RunStatus),
	}
}

// SetMaxRuns sets the largest number of games a single run may ask for.
// Values below one are ignored.
func (se *SimulationEngine) SetMaxRuns(n int) {
	if n > 0 {
		se.maxRuns = n
	}
}

// MaxRuns returns the per-run game limit
func (se *SimulationEngine) MaxRuns() int {
	return se.maxRuns
}

// SubmitRun validates both lineups, registers a run and starts it in the
// background. runs <= 0 uses the engine default.
func (se *SimulationEngine) SubmitRun(ctx context.Context, home, away Lineup, runs int, seed int64) (string, error) {
	if err := validateContest(home, away); err != nil {
		return "", err
	}
	if runs <= 0 {
		runs = se.simulationRuns
	}
	if runs > se.maxRuns {
		return "", fmt.Errorf("%w: %d requested, limit is %d", ErrTooManyRuns, runs, se.maxRuns)
	}

	runID := uuid.New().String()
	se.mu.Lock()
	se.activeRuns[runID] = &RunStatus{
		RunID:     runID,
		Seed:      seed,
		TotalRuns: runs,
		Status:    StatusPending,
		StartTime: time.Now(),
	}
	se.mu.Unlock()

	if se.store != nil {
		if err := se.store.CreateRun(ctx, runID, runs, seed); err != nil {
			se.mu.Lock()
			delete(se.activeRuns, runID)
			se.mu.Unlock()
			return "", fmt.Errorf("failed to create simulation run: %w", err)
		}
	}

	se.running.Add(1)
	go func() {
		defer se.running.Done()
		se.RunSimulation(context.WithoutCancel(ctx), runID, home, away, runs, seed)
	}()
	return runID, nil
}

// Wait blocks until every submitted run has finished or ctx is done
func (se *SimulationEngine) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		se.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunSimulation executes a complete simulation run. Game n is played with a
// source seeded seed+n, so any single game can be replayed on its own.
func (se *SimulationEngine) RunSimulation(ctx context.Context, runID string, home, away Lineup, simulationRuns int, seed int64) {
	logger := se.logger.With().Str("run_id", runID).Logger()

	se.mu.Lock()
	if _, exists := se.activeRuns[runID]; !exists {
		se.activeRuns[runID] = &RunStatus{
			RunID:     runID,
			Seed:      seed,
			TotalRuns: simulationRuns,
			StartTime: time.Now(),
		}
	}
	se.mu.Unlock()

	if simulationRuns < 1 || simulationRuns > se.maxRuns {
		se.setStatus(ctx, runID, StatusError,
			fmt.Sprintf("%d games requested, limit is %d", simulationRuns, se.maxRuns))
		return
	}

	se.setStatus(ctx, runID, StatusRunning, "")

	jobs := make(chan int)
	resultsChan := make(chan models.GameRecord, se.workers)
	var wg sync.WaitGroup

	for i := 0; i < se.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for simNumber := range jobs {
				record, err := se.simulateGame(runID, simNumber, seed, home, away)
				if err != nil {
					logger.Error().Err(err).Int("simulation", simNumber).Msg("game failed")
					continue
				}
				resultsChan <- record
			}
		}()
	}

	go func() {
		for n := 1; n <= simulationRuns; n++ {
			jobs <- n
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	var results []models.GameRecord
	for record := range resultsChan {
		results = append(results, record)

		if se.store != nil {
			if err := se.store.SaveGame(ctx, record); err != nil {
				logger.Error().Err(err).Int("simulation", record.SimulationNumber).Msg("failed to store game")
			}
		}
		se.updateProgress(ctx, runID)
	}

	if len(results) != simulationRuns {
		se.setStatus(ctx, runID, StatusError,
			fmt.Sprintf("%d of %d games failed", simulationRuns-len(results), simulationRuns))
		return
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].SimulationNumber < results[j].SimulationNumber
	})
	aggregated := calculateAggregatedResults(runID, results)

	if se.store != nil {
		if err := se.store.SaveAggregate(ctx, aggregated); err != nil {
			logger.Error().Err(err).Msg("failed to store aggregated results")
		}
	}

	se.mu.Lock()
	var elapsed time.Duration
	if status, exists := se.activeRuns[runID]; exists {
		completedTime := time.Now()
		status.CompletedTime = &completedTime
		status.AggregatedResult = aggregated
		elapsed = completedTime.Sub(status.StartTime)
	}
	se.mu.Unlock()

	se.setStatus(ctx, runID, StatusCompleted, "")

	logger.Info().
		Int("simulations", simulationRuns).
		Dur("elapsed", elapsed).
		Float64("home_win_probability", aggregated.HomeWinProbability).
		Msg("simulation run completed")
}

// simulateGame plays one seeded contest of a run
func (se *SimulationEngine) simulateGame(runID string, simNumber int, seed int64, home, away Lineup) (models.GameRecord, error) {
	gameSeed := seed + int64(simNumber)
	result, err := PlayContest(home, away, NewSeededSource(gameSeed), se.logger)
	if err != nil {
		return models.GameRecord{}, err
	}

	return models.GameRecord{
		RunID:            runID,
		SimulationNumber: simNumber,
		Seed:             gameSeed,
		Result:           *result,
		CreatedAt:        time.Now(),
	}, nil
}

// setStatus records a status change in memory and, if configured, the store
func (se *SimulationEngine) setStatus(ctx context.Context, runID, status, message string) {
	se.mu.Lock()
	completed := 0
	if rs, exists := se.activeRuns[runID]; exists {
		rs.Status = status
		rs.Error = message
		if status == StatusCompleted {
			rs.CompletedRuns = rs.TotalRuns
		}
		completed = rs.CompletedRuns
	}
	se.mu.Unlock()

	if status == StatusError {
		se.logger.Error().Str("run_id", runID).Str("reason", message).Msg("simulation run failed")
	}

	if se.store != nil {
		if err := se.store.UpdateRunStatus(ctx, runID, status, completed); err != nil {
			se.logger.Error().Err(err).Str("run_id", runID).Msg("failed to update run status")
		}
	}
}

// updateProgress bumps the completed count, writing through every 100 games
func (se *SimulationEngine) updateProgress(ctx context.Context, runID string) {
	se.mu.Lock()
	status, exists := se.activeRuns[runID]
	if !exists {
		se.mu.Unlock()
		return
	}
	status.CompletedRuns++
	completed := status.CompletedRuns
	se.mu.Unlock()

	if se.store != nil && completed%100 == 0 {
		if err := se.store.UpdateRunStatus(ctx, runID, StatusRunning, completed); err != nil {
			se.logger.Error().Err(err).Str("run_id", runID).Msg("failed to update progress")
		}
	}
}

// GetRunStatus returns a snapshot of a run's status
func (se *SimulationEngine) GetRunStatus(runID string) (RunStatus, bool) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	status, exists := se.activeRuns[runID]
	if !exists {
		return RunStatus{}, false
	}
	return *status, true
}

// GetRunResult returns the aggregated result of a completed run, falling back
// to the store for runs no longer held in memory
func (se *SimulationEngine) GetRunResult(ctx context.Context, runID string) (*models.AggregatedResult, error) {
	se.mu.RLock()
	if status, exists := se.activeRuns[runID]; exists && status.AggregatedResult != nil {
		se.mu.RUnlock()
		return status.AggregatedResult, nil
	}
	se.mu.RUnlock()

	if se.store == nil {
		return nil, ErrRunNotFound
	}
	return se.store.LoadAggregate(ctx, runID)
}

// CleanupOldRuns removes runs older than maxAge from memory
func (se *SimulationEngine) CleanupOldRuns(maxAge time.Duration) int {
	se.mu.Lock()
	defer se.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for runID, status := range se.activeRuns {
		if status.StartTime.Before(cutoff) && status.Status != StatusRunning {
			delete(se.activeRuns, runID)
			removed++
		}
	}
	return removed
}

// StartCleanup periodically drops day-old runs until ctx is done
func (se *SimulationEngine) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed := se.CleanupOldRuns(24 * time.Hour)
				se.mu.RLock()
				remaining := len(se.activeRuns)
				se.mu.RUnlock()
				se.logger.Info().Int("removed", removed).Int("active", remaining).Msg("simulation engine cleanup")
			}
		}
	}()
}

func validateContest(home, away Lineup) error {
	if err := home.Validate(); err != nil {
		return fmt.Errorf("home: %w", err)
	}
	if err := away.Validate(); err != nil {
		return fmt.Errorf("away: %w", err)
	}
	return nil
}

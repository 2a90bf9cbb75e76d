package simulation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baseball-sim/matchup-engine/models"
)

// Store persists simulation runs and their results
type Store interface {
	CreateRun(ctx context.Context, runID string, totalRuns int, seed int64) error
	UpdateRunStatus(ctx context.Context, runID, status string, completedRuns int) error
	SaveGame(ctx context.Context, record models.GameRecord) error
	SaveAggregate(ctx context.Context, result *models.AggregatedResult) error
	LoadAggregate(ctx context.Context, runID string) (*models.AggregatedResult, error)
}

// DBTX is the subset of *pgxpool.Pool the store uses
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore is a Store backed by PostgreSQL
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore wraps a pool or connection
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS simulation_runs (
		id UUID PRIMARY KEY,
		seed BIGINT NOT NULL,
		total_runs INTEGER NOT NULL,
		completed_runs INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS simulation_results (
		run_id UUID NOT NULL REFERENCES simulation_runs(id),
		simulation_number INTEGER NOT NULL,
		seed BIGINT NOT NULL,
		home_score INTEGER NOT NULL,
		away_score INTEGER NOT NULL,
		winner TEXT NOT NULL,
		total_pitches INTEGER NOT NULL,
		result JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		PRIMARY KEY (run_id, simulation_number)
	)`,
	`CREATE TABLE IF NOT EXISTS simulation_aggregates (
		run_id UUID PRIMARY KEY REFERENCES simulation_runs(id),
		home_win_probability DOUBLE PRECISION NOT NULL,
		away_win_probability DOUBLE PRECISION NOT NULL,
		expected_home_score DOUBLE PRECISION NOT NULL,
		expected_away_score DOUBLE PRECISION NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,
}

// Migrate creates the simulation tables if they do not exist
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// CreateRun inserts a pending run
func (s *PostgresStore) CreateRun(ctx context.Context, runID string, totalRuns int, seed int64) error {
	query := `
		INSERT INTO simulation_runs (id, seed, total_runs, status)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := s.db.Exec(ctx, query, runID, seed, totalRuns, StatusPending); err != nil {
		return fmt.Errorf("failed to create run %s: %w", runID, err)
	}
	return nil
}

// UpdateRunStatus updates the run status and completed count
func (s *PostgresStore) UpdateRunStatus(ctx context.Context, runID, status string, completedRuns int) error {
	query := `
		UPDATE simulation_runs
		SET status = $2, completed_runs = $3, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := s.db.Exec(ctx, query, runID, status, completedRuns)
	if err != nil {
		return fmt.Errorf("failed to update run status for %s: %w", runID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// SaveGame stores an individual contest
func (s *PostgresStore) SaveGame(ctx context.Context, record models.GameRecord) error {
	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal game result: %w", err)
	}

	game := record.Result
	query := `
		INSERT INTO simulation_results (
			run_id, simulation_number, seed, home_score, away_score,
			winner, total_pitches, result, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = s.db.Exec(ctx, query,
		record.RunID,
		record.SimulationNumber,
		record.Seed,
		game.Home.FinalScore,
		game.Away.FinalScore,
		game.Winner,
		game.Home.Statistics.TotalPitches+game.Away.Statistics.TotalPitches,
		resultJSON,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store simulation result: %w", err)
	}
	return nil
}

// SaveAggregate upserts the aggregated results of a run
func (s *PostgresStore) SaveAggregate(ctx context.Context, result *models.AggregatedResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal aggregated result: %w", err)
	}

	query := `
		INSERT INTO simulation_aggregates (
			run_id, home_win_probability, away_win_probability,
			expected_home_score, expected_away_score, payload
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (run_id) DO UPDATE SET
			home_win_probability = EXCLUDED.home_win_probability,
			away_win_probability = EXCLUDED.away_win_probability,
			expected_home_score = EXCLUDED.expected_home_score,
			expected_away_score = EXCLUDED.expected_away_score,
			payload = EXCLUDED.payload,
			updated_at = NOW()
	`

	_, err = s.db.Exec(ctx, query,
		result.RunID,
		result.HomeWinProbability,
		result.AwayWinProbability,
		result.ExpectedHomeScore,
		result.ExpectedAwayScore,
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to store aggregated results: %w", err)
	}
	return nil
}

// LoadAggregate reads a run's aggregated results
func (s *PostgresStore) LoadAggregate(ctx context.Context, runID string) (*models.AggregatedResult, error) {
	var payload []byte
	err := s.db.QueryRow(ctx,
		"SELECT payload FROM simulation_aggregates WHERE run_id = $1", runID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load simulation result: %w", err)
	}

	var result models.AggregatedResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to parse simulation result: %w", err)
	}
	return &result, nil
}

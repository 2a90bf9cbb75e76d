package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/baseball-sim/matchup-engine/simulation"
)

type Config struct {
	Port              string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DatabaseEnabled   bool
	Workers           int
	SimulationRuns    int
	MaxSimulationRuns int
	LogLevel          string
}

func NewConfig() *Config {
	return &Config{
		Port:              getEnv("PORT", "8081"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "baseball_user"),
		DBPassword:        getEnv("DB_PASSWORD", "baseball_pass"),
		DBName:            getEnv("DB_NAME", "baseball_sim"),
		DatabaseEnabled:   getEnvBool("DATABASE_ENABLED", false),
		Workers:           getEnvInt("WORKERS", runtime.NumCPU()),
		SimulationRuns:    getEnvInt("SIMULATION_RUNS", 1000),
		MaxSimulationRuns: getEnvInt("MAX_SIMULATION_RUNS", simulation.DefaultMaxSimulationRuns),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
}

// DatabaseURL builds the pgx connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func newLogger(level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger().
		Level(lvl)
}

func connectDatabase(ctx context.Context, config *Config) (*pgxpool.Pool, error) {
	dbConfig, err := pgxpool.ParseConfig(config.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}

	dbConfig.MaxConns = int32(config.Workers * 2)
	dbConfig.MinConns = int32(config.Workers / 2)
	dbConfig.MaxConnLifetime = time.Hour
	dbConfig.MaxConnIdleTime = time.Minute * 30

	db, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "simulate" {
		os.Exit(runSimulateCommand(os.Args[2:], os.Stdout, os.Stderr))
	}

	_ = godotenv.Load()
	config := NewConfig()
	logger := newLogger(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *pgxpool.Pool
	var store simulation.Store
	if config.DatabaseEnabled {
		var err error
		db, err = connectDatabase(ctx, config)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to set up database")
		}
		pgStore := simulation.NewPostgresStore(db)
		if err := pgStore.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
		store = pgStore
	} else {
		logger.Info().Msg("DATABASE_ENABLED not set, results are kept in memory only")
	}

	engine := simulation.NewSimulationEngine(store, config.Workers, config.SimulationRuns, logger)
	engine.SetMaxRuns(config.MaxSimulationRuns)
	engine.StartCleanup(ctx)

	server := NewServer(config, engine, db, logger)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
	logger.Info().Msg("server exited")
}

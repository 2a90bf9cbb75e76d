package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/baseball-sim/matchup-engine/models"
	"github.com/baseball-sim/matchup-engine/profiles"
	"github.com/baseball-sim/matchup-engine/simulation"
)

// runSimulateCommand plays one seeded game between two lineup files and
// prints both reports. It returns the process exit code.
func runSimulateCommand(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	battersPath := fs.String("batters", "", "CSV file of batter profiles")
	pitchersPath := fs.String("pitchers", "", "CSV file of pitcher profiles")
	homePath := fs.String("home", "", "YAML lineup for the home team")
	awayPath := fs.String("away", "", "YAML lineup for the away team")
	seed := fs.Int64("seed", time.Now().UnixNano(), "random seed")
	logPath := fs.String("log", "", "write plain-text game logs to this file")
	autoFill := fs.Bool("autofill", false, "fill empty lineup slots from the profile pools")
	logLevel := fs.String("log-level", "warn", "engine log level")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *battersPath == "" || *pitchersPath == "" || *homePath == "" || *awayPath == "" {
		fmt.Fprintln(stderr, "simulate: -batters, -pitchers, -home and -away are required")
		fs.Usage()
		return 2
	}

	logger := newLogger(*logLevel).Output(zerolog.ConsoleWriter{Out: stderr, NoColor: true})

	batters, err := loadFile(*battersPath, func(r io.Reader) ([]*models.BatterProfile, error) {
		return profiles.LoadBatters(r, logger)
	})
	if err != nil {
		fmt.Fprintf(stderr, "simulate: %v\n", err)
		return 1
	}
	pitchers, err := loadFile(*pitchersPath, func(r io.Reader) ([]*models.PitcherProfile, error) {
		return profiles.LoadPitchers(r, logger)
	})
	if err != nil {
		fmt.Fprintf(stderr, "simulate: %v\n", err)
		return 1
	}

	lineups := make([]simulation.Lineup, 2)
	for i, path := range []string{*homePath, *awayPath} {
		roster, err := loadFile(path, func(r io.Reader) (*profiles.Roster, error) {
			return profiles.LoadLineupFile(r, batters, pitchers)
		})
		if err != nil {
			fmt.Fprintf(stderr, "simulate: %v\n", err)
			return 1
		}
		if *autoFill {
			roster.AutoFill(batters, pitchers)
		}
		lineups[i], err = roster.Lineup()
		if err != nil {
			logger.Warn().Err(err).Str("lineup", path).Msg("lineup rejected")
			fmt.Fprintln(stderr, lineupIncompleteMessage)
			return 1
		}
	}

	result, err := simulation.PlayContest(lineups[0], lineups[1], simulation.NewSeededSource(*seed), logger)
	if errors.Is(err, simulation.ErrLineupIncomplete) {
		fmt.Fprintln(stderr, lineupIncompleteMessage)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "simulate: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Seed: %d\n", *seed)
	fmt.Fprint(stdout, result.Report())

	if *logPath != "" {
		if err := writeLogFile(*logPath, result); err != nil {
			fmt.Fprintf(stderr, "simulate: %v\n", err)
			return 1
		}
	}
	return 0
}

func loadFile[T any](path string, load func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	v, err := load(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func writeLogFile(path string, result *models.ContestResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create game log: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "### Away")
	if err := simulation.WriteGameLog(f, &result.Away); err != nil {
		return err
	}
	fmt.Fprintln(f, "### Home")
	if err := simulation.WriteGameLog(f, &result.Home); err != nil {
		return err
	}
	return f.Close()
}

package simulation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/baseball-sim/matchup-engine/models"
)

const (
	// BattingOrderSize is the number of batting-order slots
	BattingOrderSize = 9
	// RotationSize is the number of pitchers used in a game
	RotationSize = 3
)

// ErrLineupIncomplete is returned when a game is requested against a lineup
// with missing or mis-slotted players
var ErrLineupIncomplete = errors.New("lineup is not complete")

// ValidationError describes one bad lineup slot
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every bad slot found in a lineup
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (e *ValidationErrors) Error() string {
	messages := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("%s: %s", ErrLineupIncomplete, strings.Join(messages, "; "))
}

// Unwrap lets errors.Is match ErrLineupIncomplete
func (e *ValidationErrors) Unwrap() error {
	return ErrLineupIncomplete
}

// Lineup is a batting order and the three pitchers it faces, starter first
type Lineup struct {
	Batters  [BattingOrderSize]*models.BatterProfile `json:"batters"`
	Rotation [RotationSize]*models.PitcherProfile    `json:"rotation"`
}

// Validate checks every slot before a game starts
func (l *Lineup) Validate() error {
	var errs []ValidationError

	for i, batter := range l.Batters {
		if batter == nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("batting_order[%d]", i),
				Message: "slot is empty",
			})
		}
	}

	for i, pitcher := range l.Rotation {
		field := fmt.Sprintf("rotation[%d]", i)
		want := models.Reliever
		if i == 0 {
			want = models.Starter
		}
		switch {
		case pitcher == nil:
			errs = append(errs, ValidationError{Field: field, Message: "slot is empty"})
		case pitcher.Role != want:
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%s is a %s, slot needs a %s", pitcher.Name, pitcher.Role, want),
			})
		}
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// RotationSlotForInning returns which rotation slot pitches an inning:
// the starter through the fifth, then one reliever each for 6-7 and 8-9
func RotationSlotForInning(inning int) int {
	switch {
	case inning <= 5:
		return 0
	case inning <= 7:
		return 1
	default:
		return 2
	}
}

// PitcherForInning returns the pitcher assigned to an inning
func (l *Lineup) PitcherForInning(inning int) *models.PitcherProfile {
	return l.Rotation[RotationSlotForInning(inning)]
}

// sideState carries one side's batting through a game
type sideState struct {
	lineup Lineup
	cursor int
	result models.SimulationResult
}

func newSideState(lineup Lineup) *sideState {
	return &sideState{lineup: lineup}
}

// playInning plays one half-inning and folds it into the side's result
func (s *sideState) playInning(inning int, src Source, logger zerolog.Logger) {
	pitcher := s.lineup.PitcherForInning(inning)
	half := PlayHalfInning(inning, s.lineup.Batters[:], s.cursor, pitcher, src, logger)

	s.result.InningScores[inning-1] = half.Runs
	s.result.FinalScore += half.Runs
	s.result.Statistics.Add(half.Stats)
	s.result.Plays = append(s.result.Plays, half.Plays...)
	s.result.Faults += half.Faults

	summary := models.InningSummary{
		Inning:       inning,
		Pitcher:      pitcher.Name,
		BattersFaced: half.BattersFaced,
		Runs:         half.Runs,
	}
	s.result.Innings = append(s.result.Innings, summary)
	s.result.Log = append(s.result.Log, summary.LogLine())

	s.cursor = (s.cursor + half.BattersFaced) % BattingOrderSize

	logger.Debug().
		Int("inning", inning).
		Str("pitcher", pitcher.Name).
		Int("batters_faced", half.BattersFaced).
		Int("runs", half.Runs).
		Int("next_batter", s.cursor).
		Msg("half-inning complete")
}

// PlayGame plays nine innings of the lineup's batters against its rotation
func PlayGame(lineup Lineup, src Source, logger zerolog.Logger) (*models.SimulationResult, error) {
	if err := lineup.Validate(); err != nil {
		return nil, err
	}

	side := newSideState(lineup)
	for inning := 1; inning <= models.Innings; inning++ {
		side.playInning(inning, src, logger)
	}
	return &side.result, nil
}

// PlayContest plays a full game between two teams. Each team's batters face
// the other team's rotation; the away side bats first in every inning.
func PlayContest(home, away Lineup, src Source, logger zerolog.Logger) (*models.ContestResult, error) {
	homeBatting := Lineup{Batters: home.Batters, Rotation: away.Rotation}
	awayBatting := Lineup{Batters: away.Batters, Rotation: home.Rotation}

	if err := homeBatting.Validate(); err != nil {
		return nil, fmt.Errorf("home batting against away pitching: %w", err)
	}
	if err := awayBatting.Validate(); err != nil {
		return nil, fmt.Errorf("away batting against home pitching: %w", err)
	}

	homeSide := newSideState(homeBatting)
	awaySide := newSideState(awayBatting)

	for inning := 1; inning <= models.Innings; inning++ {
		awaySide.playInning(inning, src, logger.With().Str("half", "top").Logger())
		homeSide.playInning(inning, src, logger.With().Str("half", "bottom").Logger())
	}

	result := &models.ContestResult{
		Home:   homeSide.result,
		Away:   awaySide.result,
		Winner: "tie",
	}
	if result.Home.FinalScore > result.Away.FinalScore {
		result.Winner = "home"
	} else if result.Away.FinalScore > result.Home.FinalScore {
		result.Winner = "away"
	}
	return result, nil
}

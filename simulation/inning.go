package simulation

import (
	"github.com/rs/zerolog"

	"github.com/baseball-sim/matchup-engine/models"
)

// MaxPlateAppearancesPerHalfInning stops a half-inning whose batters can never
// be retired
const MaxPlateAppearancesPerHalfInning = 200

// HalfInningResult is what one half-inning hands back to the game driver
type HalfInningResult struct {
	Runs         int                `json:"runs"`
	BattersFaced int                `json:"batters_faced"`
	Stats        models.Statistics  `json:"stats"`
	Plays        []models.PlayEvent `json:"plays"`
	Faults       int                `json:"faults,omitempty"`
}

// PlayHalfInning sends batters from the order, beginning at start and wrapping
// around, against one pitcher until three outs are recorded. Counters start
// from zero every call.
func PlayHalfInning(inning int, order []*models.BatterProfile, start int,
	pitcher *models.PitcherProfile, src Source, logger zerolog.Logger) HalfInningResult {

	var result HalfInningResult
	n := len(order)
	if n == 0 || pitcher == nil {
		logger.Error().
			Int("inning", inning).
			Int("batters", n).
			Bool("pitcher", pitcher != nil).
			Msg("half-inning cannot be played, skipping it")
		result.Faults++
		return result
	}

	state := models.InningState{}
	idx := ((start % n) + n) % n

	for !state.IsInningOver() {
		if state.Stats.BattersFaced >= MaxPlateAppearancesPerHalfInning {
			logger.Error().
				Int("inning", inning).
				Str("pitcher", pitcher.Name).
				Int("batters_faced", state.Stats.BattersFaced).
				Msg("half-inning did not end, closing it")
			result.Faults++
			state.Outs = 3
			break
		}

		batter := order[idx]
		if batter == nil {
			logger.Error().
				Int("inning", inning).
				Int("slot", idx).
				Msg("empty batting slot, recording an out")
			result.Faults++
			state.Stats.RecordOutcome(models.Out)
			state.Outs++
			idx = (idx + 1) % n
			continue
		}

		pa, err := ResolvePlateAppearance(batter, pitcher, state.Bases, src)
		if err != nil {
			logger.Warn().
				Err(err).
				Int("inning", inning).
				Str("batter", batter.Name).
				Msg("plate appearance aborted, recording an out")
			result.Faults++
		}

		for _, pt := range pa.Pitches {
			state.Stats.RecordPitch(pt)
		}
		state.Stats.RecordOutcome(pa.Outcome)
		state.Bases = pa.Bases
		if pa.Outcome.IsOut() {
			state.Outs++
		}
		result.Runs += pa.Runs

		result.Plays = append(result.Plays, models.PlayEvent{
			Inning:  inning,
			Batter:  batter.Name,
			Pitcher: pitcher.Name,
			Result:  pa.Outcome,
			Pitches: len(pa.Pitches),
			Count:   pa.Count,
			Runs:    pa.Runs,
			Outs:    state.Outs,
			Bases:   state.Bases,
		})

		idx = (idx + 1) % n
	}

	result.BattersFaced = state.Stats.BattersFaced
	result.Stats = state.Stats
	return result
}

package simulation

import (
	"errors"
	"fmt"

	"github.com/baseball-sim/matchup-engine/models"
)

// MaxPitchesPerPlateAppearance bounds a single plate appearance
const MaxPitchesPerPlateAppearance = 100

// ErrPitchLimitExceeded is returned when a plate appearance fails to end
// within MaxPitchesPerPlateAppearance pitches
var ErrPitchLimitExceeded = errors.New("pitch limit exceeded")

// PlateAppearance is the resolved result of one batter's turn
type PlateAppearance struct {
	Outcome models.Outcome     `json:"outcome"`
	Runs    int                `json:"runs"`
	Bases   models.BaseState   `json:"bases"`
	Pitches []models.PitchType `json:"-"`
	Count   models.Count       `json:"count"`
}

// ResolvePlateAppearance pitches to a batter until a strikeout, walk or ball in
// play, starting from the given bases. On ErrPitchLimitExceeded the returned
// plate appearance is an out so callers can keep playing.
func ResolvePlateAppearance(batter *models.BatterProfile, pitcher *models.PitcherProfile,
	bases models.BaseState, src Source) (PlateAppearance, error) {
	return resolvePlateAppearance(batter, pitcher, bases, src, MaxPitchesPerPlateAppearance)
}

func resolvePlateAppearance(batter *models.BatterProfile, pitcher *models.PitcherProfile,
	bases models.BaseState, src Source, pitchLimit int) (PlateAppearance, error) {

	pa := PlateAppearance{Bases: bases}

	for len(pa.Pitches) < pitchLimit {
		pitch := SelectPitchType(pitcher.PitchMix, src)
		pa.Pitches = append(pa.Pitches, pitch)

		inZone := src.Float64() < pitcher.StrikeProbability()

		if src.Float64() < batter.SwingRate(inZone) {
			if src.Float64() < batter.ContactRate(inZone) {
				outcome := ResolveContact(batter.Split(pitch.Category()), src)
				return pa.finish(outcome), nil
			}
			// Swinging strike, in or out of the zone
			pa.Count.Strikes++
		} else if inZone {
			pa.Count.Strikes++
		} else {
			pa.Count.Balls++
		}

		if pa.Count.IsStrikeout() {
			return pa.finish(models.Strikeout), nil
		}
		if pa.Count.IsWalk() {
			return pa.finish(models.Walk), nil
		}
	}

	return pa.finish(models.Out), fmt.Errorf("%w: %s vs %s after %d pitches",
		ErrPitchLimitExceeded, batter.Name, pitcher.Name, len(pa.Pitches))
}

func (pa PlateAppearance) finish(outcome models.Outcome) PlateAppearance {
	pa.Outcome = outcome
	pa.Bases, pa.Runs = Advance(pa.Bases, outcome)
	return pa
}

// SelectPitchType samples a pitch from the mix by walking the pitch types in
// declaration order. Mixes summing to less than the draw fall back to a
// four-seam fastball.
func SelectPitchType(mix models.PitchMix, src Source) models.PitchType {
	draw := src.Float64()
	cumulative := 0.0
	for _, pt := range models.AllPitchTypes() {
		cumulative += models.ClampRate(mix.Usage(pt))
		if cumulative >= draw {
			return pt
		}
	}
	return models.FourSeam
}

// ResolveContact decides what a ball put in play becomes, using the batter's
// split against the pitch's category.
//
// A split with no plate appearances is an automatic out; it does not fall
// back to the batter's total line.
func ResolveContact(split models.CategorySplit, src Source) models.Outcome {
	s := split.Normalized()
	if s.PlateAppearances == 0 {
		return models.Out
	}

	hitRate := float64(s.Hits) / float64(s.PlateAppearances)
	if src.Float64() >= hitRate {
		return models.Out
	}
	if s.Hits == 0 {
		return models.Out
	}

	hits := float64(s.Hits)
	draw := src.Float64()
	switch {
	case draw < float64(s.Singles)/hits:
		return models.Single
	case draw < float64(s.Singles+s.Doubles)/hits:
		return models.Double
	case draw < float64(s.Singles+s.Doubles+s.Triples)/hits:
		return models.Triple
	default:
		return models.HomeRun
	}
}

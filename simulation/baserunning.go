package simulation

import "github.com/baseball-sim/matchup-engine/models"

// Advance moves runners for a plate appearance outcome and returns the new
// bases with the runs that scored. Outs leave the bases untouched.
func Advance(bases models.BaseState, outcome models.Outcome) (models.BaseState, int) {
	switch outcome {
	case models.Single:
		return advanceSingle(bases)
	case models.Double:
		return advanceDouble(bases)
	case models.Triple:
		return advanceTriple(bases)
	case models.HomeRun:
		return advanceHomeRun(bases)
	case models.Walk:
		return advanceWalk(bases)
	case models.Strikeout, models.Out:
		return bases, 0
	}
	return bases, 0
}

// advanceSingle scores third, moves second to third and first to second
func advanceSingle(bases models.BaseState) (models.BaseState, int) {
	runs := 0
	if bases.Third {
		runs++
	}
	return models.BaseState{
		First:  true,
		Second: bases.First,
		Third:  bases.Second,
	}, runs
}

// advanceDouble scores second and third, moves first to third
func advanceDouble(bases models.BaseState) (models.BaseState, int) {
	runs := 0
	if bases.Third {
		runs++
	}
	if bases.Second {
		runs++
	}
	return models.BaseState{
		First:  false,
		Second: true,
		Third:  bases.First,
	}, runs
}

// advanceTriple scores every runner
func advanceTriple(bases models.BaseState) (models.BaseState, int) {
	return models.BaseState{Third: true}, bases.RunnerCount()
}

// advanceHomeRun scores every runner and the batter
func advanceHomeRun(bases models.BaseState) (models.BaseState, int) {
	return models.BaseState{}, bases.RunnerCount() + 1
}

// advanceWalk only moves runners who are forced
func advanceWalk(bases models.BaseState) (models.BaseState, int) {
	runs := 0
	next := bases
	if bases.First {
		if bases.Second {
			if bases.Third {
				runs++
			}
			next.Third = true
		}
		next.Second = true
	}
	next.First = true
	return next, runs
}

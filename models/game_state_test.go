package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCount tests strikeout and walk thresholds
func TestCount(t *testing.T) {
	tests := []struct {
		name          string
		count         Count
		wantStrikeout bool
		wantWalk      bool
	}{
		{"fresh count", Count{}, false, false},
		{"full count", Count{Balls: 3, Strikes: 2}, false, false},
		{"three strikes", Count{Balls: 1, Strikes: 3}, true, false},
		{"four balls", Count{Balls: 4, Strikes: 2}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStrikeout, tt.count.IsStrikeout())
			assert.Equal(t, tt.wantWalk, tt.count.IsWalk())
		})
	}
}

// TestBaseState tests runner counting and display
func TestBaseState(t *testing.T) {
	tests := []struct {
		name        string
		bases       BaseState
		wantRunners int
		wantString  string
	}{
		{"empty", BaseState{}, 0, "---"},
		{"corners", BaseState{First: true, Third: true}, 2, "1-3"},
		{"scoring position", BaseState{Second: true, Third: true}, 2, "-23"},
		{"loaded", BaseState{First: true, Second: true, Third: true}, 3, "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantRunners, tt.bases.RunnerCount())
			assert.Equal(t, tt.wantString, tt.bases.String())
			assert.Equal(t, tt.wantRunners == 0, tt.bases.IsEmpty())
		})
	}
}

// TestInningStateIsInningOver tests the three-out rule
func TestInningStateIsInningOver(t *testing.T) {
	state := InningState{Outs: 2, Bases: BaseState{First: true}}
	assert.False(t, state.IsInningOver())

	state.Outs++
	assert.True(t, state.IsInningOver())
}

// TestOutcomeClassification tests outs and hits
func TestOutcomeClassification(t *testing.T) {
	tests := []struct {
		outcome Outcome
		isOut   bool
		isHit   bool
	}{
		{Strikeout, true, false},
		{Out, true, false},
		{Walk, false, false},
		{Single, false, true},
		{Double, false, true},
		{Triple, false, true},
		{HomeRun, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			assert.Equal(t, tt.isOut, tt.outcome.IsOut())
			assert.Equal(t, tt.isHit, tt.outcome.IsHit())
		})
	}
}

// TestPlayEventDescription tests the play-by-play line
func TestPlayEventDescription(t *testing.T) {
	event := PlayEvent{
		Inning:  4,
		Batter:  "Slugger",
		Pitcher: "Ace",
		Result:  Double,
		Pitches: 5,
		Count:   Count{Balls: 2, Strikes: 2},
		Runs:    1,
		Outs:    1,
		Bases:   BaseState{Second: true},
	}

	assert.Equal(t, "Slugger vs Ace: double on 5 pitches (2-2), 1 run(s) score [1 out, bases -2-]", event.Description())

	event.Runs = 0
	assert.NotContains(t, event.Description(), "score")
}

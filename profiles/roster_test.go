package profiles

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baseball-sim/matchup-engine/models"
	"github.com/baseball-sim/matchup-engine/simulation"
)

func batterPool(n int) []*models.BatterProfile {
	pool := make([]*models.BatterProfile, n)
	for i := range pool {
		pool[i] = &models.BatterProfile{
			Name: fmt.Sprintf("Batter %d", i+1),
			OPS:  0.600 + float64(i)*0.010,
		}
	}
	return pool
}

func pitcherPool() []*models.PitcherProfile {
	return []*models.PitcherProfile{
		{Name: "Fifth starter", Role: models.Starter, StrikeRate: 0.58},
		{Name: "Ace", Role: models.Starter, StrikeRate: 0.67},
		{Name: "Mop-up", Role: models.Reliever, StrikeRate: 0.55},
		{Name: "Closer", Role: models.Reliever, StrikeRate: 0.70},
		{Name: "Setup", Role: models.Reliever, StrikeRate: 0.65},
	}
}

func fullRoster(t *testing.T) (*Roster, []*models.BatterProfile, []*models.PitcherProfile) {
	t.Helper()
	batters, pitchers := batterPool(9), pitcherPool()
	r := NewRoster("Full")
	for i, b := range batters {
		require.NoError(t, r.SetBatter(i, b))
	}
	require.NoError(t, r.SetPitcher(0, pitchers[1]))
	require.NoError(t, r.SetPitcher(1, pitchers[4]))
	require.NoError(t, r.SetPitcher(2, pitchers[3]))
	return r, batters, pitchers
}

// TestRosterLineup tests turning a full roster into a lineup
func TestRosterLineup(t *testing.T) {
	r, batters, pitchers := fullRoster(t)

	lineup, err := r.Lineup()
	require.NoError(t, err)
	assert.Same(t, batters[0], lineup.Batters[0])
	assert.Same(t, batters[8], lineup.Batters[8])
	assert.Same(t, pitchers[1], lineup.Rotation[0])
	assert.Same(t, pitchers[3], lineup.Rotation[2])
}

// TestRosterIncomplete tests that removing anyone blocks a game
func TestRosterIncomplete(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Roster) error
	}{
		{"batter removed", func(r *Roster) error { return r.RemoveBatter(4) }},
		{"closer removed", func(r *Roster) error { return r.RemovePitcher(2) }},
		{"cleared", func(r *Roster) error { r.Clear(); return nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := fullRoster(t)
			require.NoError(t, tt.mutate(r))

			_, err := r.Lineup()
			assert.ErrorIs(t, err, simulation.ErrLineupIncomplete)
		})
	}
}

// TestRosterSetErrors tests slot and role checks
func TestRosterSetErrors(t *testing.T) {
	r, batters, pitchers := fullRoster(t)

	assert.Error(t, r.SetBatter(9, batters[0]), "slot out of range")
	assert.Error(t, r.SetBatter(-1, batters[0]), "slot out of range")
	assert.Error(t, r.SetBatter(0, nil), "nil batter")
	assert.Error(t, r.SetBatter(0, batters[5]), "already batting sixth")
	assert.NoError(t, r.SetBatter(5, batters[5]), "same slot is a no-op")

	assert.Error(t, r.SetPitcher(0, pitchers[3]), "reliever cannot start")
	assert.Error(t, r.SetPitcher(1, pitchers[0]), "starter cannot relieve")
	assert.Error(t, r.SetPitcher(3, pitchers[2]), "slot out of range")
	assert.Error(t, r.SetPitcher(1, pitchers[3]), "already closing")

	assert.Error(t, r.RemoveBatter(9))
	assert.Error(t, r.RemovePitcher(-1))
}

// TestRosterAutoFill tests filling open slots by OPS and strike rate
func TestRosterAutoFill(t *testing.T) {
	batters, pitchers := batterPool(12), pitcherPool()

	r := NewRoster("Auto")
	require.NoError(t, r.SetBatter(0, batters[0]))
	require.NoError(t, r.SetPitcher(2, pitchers[2]))

	r.AutoFill(batters, pitchers)

	lineup, err := r.Lineup()
	require.NoError(t, err)

	// Slot 0 is kept; the rest go to the highest OPS first
	assert.Equal(t, "Batter 1", lineup.Batters[0].Name)
	assert.Equal(t, "Batter 12", lineup.Batters[1].Name)
	assert.Equal(t, "Batter 5", lineup.Batters[8].Name)

	assert.Equal(t, "Ace", lineup.Rotation[0].Name)
	assert.Equal(t, "Closer", lineup.Rotation[1].Name)
	assert.Equal(t, "Mop-up", lineup.Rotation[2].Name)
}

// TestRosterAutoFillShortPool tests that a thin pool leaves the roster incomplete
func TestRosterAutoFillShortPool(t *testing.T) {
	r := NewRoster("Thin")
	r.AutoFill(batterPool(5), pitcherPool()[:1])

	_, err := r.Lineup()
	assert.ErrorIs(t, err, simulation.ErrLineupIncomplete)
}

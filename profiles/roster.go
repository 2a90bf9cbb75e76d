package profiles

import (
	"fmt"
	"sort"

	"github.com/baseball-sim/matchup-engine/models"
	"github.com/baseball-sim/matchup-engine/simulation"
)

// Roster is a team's editable batting order and pitching rotation. Empty
// slots are nil until filled.
type Roster struct {
	Name     string
	batting  [simulation.BattingOrderSize]*models.BatterProfile
	rotation [simulation.RotationSize]*models.PitcherProfile
}

// NewRoster creates an empty roster
func NewRoster(name string) *Roster {
	return &Roster{Name: name}
}

// SetBatter puts a batter in a batting-order slot (0-8), replacing any occupant
func (r *Roster) SetBatter(slot int, batter *models.BatterProfile) error {
	if slot < 0 || slot >= simulation.BattingOrderSize {
		return fmt.Errorf("batting slot %d out of range", slot)
	}
	if batter == nil {
		return fmt.Errorf("batting slot %d: no batter given", slot)
	}
	for i, b := range r.batting {
		if b == batter && i != slot {
			return fmt.Errorf("%s already bats in slot %d", batter.Name, i)
		}
	}
	r.batting[slot] = batter
	return nil
}

// SetPitcher puts a pitcher in a rotation slot (0 starter, 1-2 relievers)
func (r *Roster) SetPitcher(slot int, pitcher *models.PitcherProfile) error {
	if slot < 0 || slot >= simulation.RotationSize {
		return fmt.Errorf("rotation slot %d out of range", slot)
	}
	if pitcher == nil {
		return fmt.Errorf("rotation slot %d: no pitcher given", slot)
	}
	want := models.Reliever
	if slot == 0 {
		want = models.Starter
	}
	if pitcher.Role != want {
		return fmt.Errorf("rotation slot %d needs a %s, %s is a %s", slot, want, pitcher.Name, pitcher.Role)
	}
	for i, p := range r.rotation {
		if p == pitcher && i != slot {
			return fmt.Errorf("%s already pitches in slot %d", pitcher.Name, i)
		}
	}
	r.rotation[slot] = pitcher
	return nil
}

// RemoveBatter empties a batting-order slot
func (r *Roster) RemoveBatter(slot int) error {
	if slot < 0 || slot >= simulation.BattingOrderSize {
		return fmt.Errorf("batting slot %d out of range", slot)
	}
	r.batting[slot] = nil
	return nil
}

// RemovePitcher empties a rotation slot
func (r *Roster) RemovePitcher(slot int) error {
	if slot < 0 || slot >= simulation.RotationSize {
		return fmt.Errorf("rotation slot %d out of range", slot)
	}
	r.rotation[slot] = nil
	return nil
}

// Clear empties every slot
func (r *Roster) Clear() {
	r.batting = [simulation.BattingOrderSize]*models.BatterProfile{}
	r.rotation = [simulation.RotationSize]*models.PitcherProfile{}
}

// Lineup returns the roster as a validated lineup
func (r *Roster) Lineup() (simulation.Lineup, error) {
	lineup := simulation.Lineup{Batters: r.batting, Rotation: r.rotation}
	if err := lineup.Validate(); err != nil {
		return simulation.Lineup{}, err
	}
	return lineup, nil
}

// AutoFill fills empty slots from the given pools: batters by OPS, starters
// and relievers by strike rate. Players already on the roster are skipped.
func (r *Roster) AutoFill(batters []*models.BatterProfile, pitchers []*models.PitcherProfile) {
	pool := make([]*models.BatterProfile, 0, len(batters))
	for _, b := range batters {
		if b != nil && !r.hasBatter(b) {
			pool = append(pool, b)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].OPS > pool[j].OPS
	})
	for slot := range r.batting {
		if r.batting[slot] == nil && len(pool) > 0 {
			r.batting[slot] = pool[0]
			pool = pool[1:]
		}
	}

	var starters, relievers []*models.PitcherProfile
	for _, p := range pitchers {
		if p == nil || r.hasPitcher(p) {
			continue
		}
		switch p.Role {
		case models.Starter:
			starters = append(starters, p)
		case models.Reliever:
			relievers = append(relievers, p)
		}
	}
	byStrikeRate := func(ps []*models.PitcherProfile) {
		sort.SliceStable(ps, func(i, j int) bool {
			return ps[i].StrikeRate > ps[j].StrikeRate
		})
	}
	byStrikeRate(starters)
	byStrikeRate(relievers)

	if r.rotation[0] == nil && len(starters) > 0 {
		r.rotation[0] = starters[0]
	}
	for slot := 1; slot < simulation.RotationSize; slot++ {
		if r.rotation[slot] == nil && len(relievers) > 0 {
			r.rotation[slot] = relievers[0]
			relievers = relievers[1:]
		}
	}
}

func (r *Roster) hasBatter(b *models.BatterProfile) bool {
	for _, existing := range r.batting {
		if existing == b {
			return true
		}
	}
	return false
}

func (r *Roster) hasPitcher(p *models.PitcherProfile) bool {
	for _, existing := range r.rotation {
		if existing == p {
			return true
		}
	}
	return false
}

package simulation

import (
	"fmt"

	"github.com/baseball-sim/matchup-engine/models"
)

// scriptedSource replays a fixed list of draws and fails loudly when it runs dry
type scriptedSource struct {
	draws []float64
	pos   int
}

func script(draws ...float64) *scriptedSource {
	return &scriptedSource{draws: draws}
}

func (s *scriptedSource) Float64() float64 {
	if s.pos >= len(s.draws) {
		panic(fmt.Sprintf("scripted source exhausted after %d draws", s.pos))
	}
	v := s.draws[s.pos]
	s.pos++
	return v
}

func (s *scriptedSource) used() int {
	return s.pos
}

// constSource returns the same draw forever
type constSource float64

func (c constSource) Float64() float64 {
	return float64(c)
}

func testBatter(name string) *models.BatterProfile {
	split := models.CategorySplit{
		PlateAppearances: 200,
		Hits:             55,
		Singles:          35,
		Doubles:          10,
		Triples:          2,
		HomeRuns:         8,
	}
	return &models.BatterProfile{
		Name:          name,
		Fastball:      split,
		Breaking:      split,
		Offspeed:      split,
		Total:         models.CategorySplit{PlateAppearances: 600, Hits: 165, Singles: 105, Doubles: 30, Triples: 6, HomeRuns: 24},
		InZoneSwing:   0.68,
		InZoneContact: 0.85,
		ChaseSwing:    0.30,
		ChaseContact:  0.60,
		AVG:           0.275,
		OBP:           0.340,
		OPS:           0.780,
	}
}

func testPitcher(name string, role models.RotationRole) *models.PitcherProfile {
	var mix models.PitchMix
	mix[models.FourSeam] = 0.50
	mix[models.Slider] = 0.30
	mix[models.Changeup] = 0.20
	return &models.PitcherProfile{
		Name:       name,
		Role:       role,
		StrikeRate: 0.62,
		BallRate:   0.38,
		PitchMix:   mix,
	}
}

func testLineup(team string) Lineup {
	var l Lineup
	for i := range l.Batters {
		l.Batters[i] = testBatter(fmt.Sprintf("%s batter %d", team, i+1))
	}
	l.Rotation[0] = testPitcher(team+" starter", models.Starter)
	l.Rotation[1] = testPitcher(team+" setup", models.Reliever)
	l.Rotation[2] = testPitcher(team+" closer", models.Reliever)
	return l
}

func fastballOnly() models.PitchMix {
	var mix models.PitchMix
	mix[models.FourSeam] = 1.0
	return mix
}

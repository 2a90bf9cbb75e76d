package models

import (
	"fmt"
	"math"
)

// RotationRole is a pitcher's designated slot type
type RotationRole string

const (
	Starter  RotationRole = "starter"
	Reliever RotationRole = "reliever"
)

// CategorySplit contains a batter's results against one pitch category
type CategorySplit struct {
	PlateAppearances int `json:"pa"`
	Hits             int `json:"h"`
	Singles          int `json:"singles"`
	Doubles          int `json:"doubles"`
	Triples          int `json:"triples"`
	HomeRuns         int `json:"hr"`
}

// BatterProfile represents a hitter by aggregate tendencies
type BatterProfile struct {
	Name string `json:"name"`

	// Splits by pitch category
	Fastball CategorySplit `json:"fastball"`
	Breaking CategorySplit `json:"breaking"`
	Offspeed CategorySplit `json:"offspeed"`
	Total    CategorySplit `json:"total"`

	// Plate discipline
	InZoneSwing   float64 `json:"in_zone_swing"`
	InZoneContact float64 `json:"in_zone_contact"`
	ChaseSwing    float64 `json:"chase_swing"`
	ChaseContact  float64 `json:"chase_contact"`

	// Summary rates
	AVG float64 `json:"avg"`
	OBP float64 `json:"obp"`
	OPS float64 `json:"ops"`
}

// PitcherProfile represents a pitcher by aggregate tendencies
type PitcherProfile struct {
	Name       string       `json:"name"`
	Role       RotationRole `json:"role"`
	StrikeRate float64      `json:"strike_rate"`
	BallRate   float64      `json:"ball_rate"`
	PitchMix   PitchMix     `json:"pitch_mix"`
}

// Split returns the batter's stat split for a pitch category
func (b *BatterProfile) Split(category PitchCategory) CategorySplit {
	switch category {
	case Fastball:
		return b.Fastball
	case Breaking:
		return b.Breaking
	case Offspeed:
		return b.Offspeed
	}
	panic(fmt.Sprintf("unknown pitch category %d", int(category)))
}

// SwingRate returns the chance the batter offers at a pitch
func (b *BatterProfile) SwingRate(inZone bool) float64 {
	if inZone {
		return ClampRate(b.InZoneSwing)
	}
	return ClampRate(b.ChaseSwing)
}

// ContactRate returns the chance a swing makes contact
func (b *BatterProfile) ContactRate(inZone bool) float64 {
	if inZone {
		return ClampRate(b.InZoneContact)
	}
	return ClampRate(b.ChaseContact)
}

// Normalized returns the split with counts clamped to a consistent shape:
// no negative counts and hits never above plate appearances.
func (cs CategorySplit) Normalized() CategorySplit {
	out := CategorySplit{
		PlateAppearances: max(cs.PlateAppearances, 0),
		Hits:             max(cs.Hits, 0),
		Singles:          max(cs.Singles, 0),
		Doubles:          max(cs.Doubles, 0),
		Triples:          max(cs.Triples, 0),
		HomeRuns:         max(cs.HomeRuns, 0),
	}
	if out.Hits > out.PlateAppearances {
		out.Hits = out.PlateAppearances
	}
	return out
}

// HitRate returns hits per plate appearance, zero when there is no sample
func (cs CategorySplit) HitRate() float64 {
	n := cs.Normalized()
	if n.PlateAppearances == 0 {
		return 0
	}
	return float64(n.Hits) / float64(n.PlateAppearances)
}

// IsConsistent reports whether the hit-type breakdown adds up to hits
func (cs CategorySplit) IsConsistent() bool {
	return cs.Hits <= cs.PlateAppearances &&
		cs.Singles+cs.Doubles+cs.Triples+cs.HomeRuns == cs.Hits
}

// StrikeProbability returns the chance a pitch is in the zone
func (p *PitcherProfile) StrikeProbability() float64 {
	return ClampRate(p.StrikeRate)
}

// ClampRate bounds a probability to [0,1]; NaN is treated as zero
func ClampRate(rate float64) float64 {
	if math.IsNaN(rate) {
		return 0
	}
	return math.Max(0, math.Min(1, rate))
}

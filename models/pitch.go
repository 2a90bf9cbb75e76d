package models

import (
	"encoding/json"
	"fmt"
)

// PitchType is one of the named pitches a pitcher can throw
type PitchType int

// Declaration order is the sampling order used when picking a pitch from a
// pitcher's mix. Do not reorder.
const (
	FourSeam PitchType = iota
	TwoSeam
	Cutter
	Sinker
	Slider
	Curve
	Knuckle
	Sweeper
	Slurve
	SplitFinger
	Changeup
	Fork
	Screw

	NumPitchTypes = 13
)

// PitchCategory groups pitch types for selecting a batter's stat split
type PitchCategory int

const (
	Fastball PitchCategory = iota
	Breaking
	Offspeed

	NumCategories = 3
)

// AllPitchTypes returns every pitch type in sampling order
func AllPitchTypes() [NumPitchTypes]PitchType {
	return [NumPitchTypes]PitchType{
		FourSeam, TwoSeam, Cutter, Sinker,
		Slider, Curve, Knuckle, Sweeper, Slurve,
		SplitFinger, Changeup, Fork, Screw,
	}
}

// Category maps a pitch type to its category
func (pt PitchType) Category() PitchCategory {
	switch pt {
	case FourSeam, TwoSeam, Cutter, Sinker:
		return Fastball
	case Slider, Curve, Knuckle, Sweeper, Slurve:
		return Breaking
	case SplitFinger, Changeup, Fork, Screw:
		return Offspeed
	}
	panic(fmt.Sprintf("unknown pitch type %d", int(pt)))
}

func (pt PitchType) String() string {
	switch pt {
	case FourSeam:
		return "four_seam"
	case TwoSeam:
		return "two_seam"
	case Cutter:
		return "cutter"
	case Sinker:
		return "sinker"
	case Slider:
		return "slider"
	case Curve:
		return "curve"
	case Knuckle:
		return "knuckle"
	case Sweeper:
		return "sweeper"
	case Slurve:
		return "slurve"
	case SplitFinger:
		return "split_finger"
	case Changeup:
		return "changeup"
	case Fork:
		return "fork"
	case Screw:
		return "screw"
	}
	return fmt.Sprintf("PitchType(%d)", int(pt))
}

// ParsePitchType resolves a pitch name as written by String
func ParsePitchType(name string) (PitchType, error) {
	for _, pt := range AllPitchTypes() {
		if pt.String() == name {
			return pt, nil
		}
	}
	return 0, fmt.Errorf("unknown pitch type %q", name)
}

func (pc PitchCategory) String() string {
	switch pc {
	case Fastball:
		return "fastball"
	case Breaking:
		return "breaking"
	case Offspeed:
		return "offspeed"
	}
	return fmt.Sprintf("PitchCategory(%d)", int(pc))
}

// PitchMix holds usage probabilities indexed by pitch type
type PitchMix [NumPitchTypes]float64

// Usage returns the usage probability for a pitch type
func (pm PitchMix) Usage(pt PitchType) float64 {
	return pm[pt]
}

// Sum returns the total usage across all pitch types
func (pm PitchMix) Sum() float64 {
	total := 0.0
	for _, p := range pm {
		total += p
	}
	return total
}

// MarshalJSON writes the mix as an object keyed by pitch name
func (pm PitchMix) MarshalJSON() ([]byte, error) {
	out := make(map[string]float64, NumPitchTypes)
	for _, pt := range AllPitchTypes() {
		out[pt.String()] = pm[pt]
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads an object keyed by pitch name; missing pitches are zero
func (pm *PitchMix) UnmarshalJSON(data []byte) error {
	var in map[string]float64
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*pm = PitchMix{}
	for name, p := range in {
		pt, err := ParsePitchType(name)
		if err != nil {
			return err
		}
		pm[pt] = p
	}
	return nil
}

// PitchCounts tallies pitches thrown per pitch type
type PitchCounts [NumPitchTypes]int

// Total returns the number of pitches across all types
func (pc PitchCounts) Total() int {
	total := 0
	for _, n := range pc {
		total += n
	}
	return total
}

// MarshalJSON writes the counts as an object keyed by pitch name
func (pc PitchCounts) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, NumPitchTypes)
	for _, pt := range AllPitchTypes() {
		out[pt.String()] = pc[pt]
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads an object keyed by pitch name
func (pc *PitchCounts) UnmarshalJSON(data []byte) error {
	var in map[string]int
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*pc = PitchCounts{}
	for name, n := range in {
		pt, err := ParsePitchType(name)
		if err != nil {
			return err
		}
		pc[pt] = n
	}
	return nil
}

// CategoryCounts tallies pitches thrown per category
type CategoryCounts [NumCategories]int

// Total returns the number of pitches across all categories
func (cc CategoryCounts) Total() int {
	return cc[Fastball] + cc[Breaking] + cc[Offspeed]
}

// MarshalJSON writes the counts as an object keyed by category name
func (cc CategoryCounts) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]int{
		Fastball.String(): cc[Fastball],
		Breaking.String(): cc[Breaking],
		Offspeed.String(): cc[Offspeed],
	})
}

// UnmarshalJSON reads an object keyed by category name
func (cc *CategoryCounts) UnmarshalJSON(data []byte) error {
	var in map[string]int
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*cc = CategoryCounts{
		in[Fastball.String()],
		in[Breaking.String()],
		in[Offspeed.String()],
	}
	return nil
}

package simulation

import "math/rand"

// Source supplies uniform draws in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSeededSource returns a reproducible source for the given seed
func NewSeededSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

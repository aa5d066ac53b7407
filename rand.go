package verdant

import (
	"math/rand/v2"
	"time"
)

// RandSource supplies uniform samples in [0, 1). Every random attribute in the
// particle engine is drawn through one, so tests can seed it.
type RandSource interface {
	Float64() float64
}

// NewRand returns a deterministic PCG-backed RandSource for the given seed.
func NewRand(seed uint64) RandSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// defaultRand is used when a caller passes a nil RandSource.
func defaultRand() RandSource {
	return NewRand(uint64(time.Now().UnixNano()))
}

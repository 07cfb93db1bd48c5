package genetic

import (
	"math/rand"
	"time"
)

// Rand is the single sequential random source threaded through every phase.
// *rand.Rand satisfies it.
type Rand interface {
	Float32() float32
	Intn(n int) int
}

// NewRand returns a seeded source. A zero seed uses the current time, which
// makes the run non-reproducible.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

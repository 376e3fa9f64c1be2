package cpu

import (
	"math/rand"
	"time"
)

// Rand is the source of random bytes for Cxkk. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a generator seeded with seed. A zero seed is replaced with
// the current time.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

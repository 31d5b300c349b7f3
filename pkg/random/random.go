package random

import (
	"math/rand"
	"time"
)

// NewRand returns a rand.Rand seeded from the wall clock.
// Components take a *rand.Rand explicitly so tests can seed their own.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Jitter draws a random offset uniformly from [-bound, +bound) minutes.
// Fractional minutes are kept, so repeated daily timestamps never look
// machine-generated down to the second.
func Jitter(rng *rand.Rand, boundMinutes float64) time.Duration {
	if boundMinutes <= 0 {
		return 0
	}

	offsetMinutes := (rng.Float64()*2 - 1) * boundMinutes
	return time.Duration(offsetMinutes * float64(time.Minute))
}

// Between draws a random duration uniformly from [min, max)
func Between(rng *rand.Rand, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rng.Int63n(int64(max-min)))
}

package domain

import (
	"math/rand"
	"time"
)

// Clock supplies timestamps to the workers and the telemetry generator.
// Substituted with a fixed clock in tests for reproducible runs.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock Clock used in production. All timestamps
// are normalized to UTC before they reach storage.
type SystemClock struct{}

// Now returns the current UTC time
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Randomness is the single source of nondeterminism in the orchestrator:
// the configure-failure roll. Everything else is derived from node identity.
// Tests substitute fixed sources (always succeed, always fail).
type Randomness interface {
	// Float64 returns a value in [0, 1)
	Float64() float64
}

// MathRandomness draws from math/rand's shared source
type MathRandomness struct{}

// Float64 returns a pseudo-random value in [0, 1)
func (MathRandomness) Float64() float64 {
	return rand.Float64()
}

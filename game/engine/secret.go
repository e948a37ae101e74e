package engine

import (
	"math/rand/v2"
	"time"
)

// timeDivisor spreads the nanosecond clock before it is folded into the guess range.
const timeDivisor = 65537

// SecretSource draws secrets for new games
type SecretSource interface {
	Secret() int
}

// TimeSecrets derives secrets from the sub-second part of the clock.
// Not uniform and predictable; good enough for a casual game.
type TimeSecrets struct {
	Now func() time.Time
}

// Secret returns a number between MinGuess and MaxGuess
func (s TimeSecrets) Secret() int {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	value := now().Nanosecond() % timeDivisor
	return value%MaxGuess + MinGuess
}

// RandomSecrets draws secrets from the process-wide generator
type RandomSecrets struct{}

// Secret returns a number between MinGuess and MaxGuess
func (RandomSecrets) Secret() int {
	return rand.IntN(MaxGuess-MinGuess+1) + MinGuess
}

// FixedSecret always returns the same secret
type FixedSecret int

// Secret returns the fixed value
func (f FixedSecret) Secret() int {
	return int(f)
}

package engine

import (
	"cmp"
	"fmt"
)

// Game is the state of one guessing game
type Game struct {
	secret  int
	guesses int
	done    bool
}

// NewGame creates a game around the given secret
func NewGame(secret int) (*Game, error) {
	if secret < MinGuess || secret > MaxGuess {
		return nil, fmt.Errorf("%w: %d", ErrSecretOutOfRange, secret)
	}

	return &Game{secret: secret}, nil
}

// Submit scores a guess. The guess must already be range checked.
//
// After the game has been won Submit keeps answering Equal with the final
// attempt count and does not count the late guess.
func (g *Game) Submit(guess int) Result {
	if g.done {
		return Result{Ordering: Equal, Attempt: g.guesses}
	}

	g.guesses++
	ord := Ordering(cmp.Compare(guess, g.secret))
	if ord == Equal {
		g.done = true
	}

	return Result{Ordering: ord, Attempt: g.guesses}
}

// Secret returns the secret number
func (g *Game) Secret() int {
	return g.secret
}

// Guesses returns the number of scored guesses
func (g *Game) Guesses() int {
	return g.guesses
}

// Completed reports whether the secret has been guessed
func (g *Game) Completed() bool {
	return g.done
}

package main

import (
	"strings"

	"github.com/wricardo/mcp-training/guessgame/game/engine"
)

// Verdict is what a server reply says about the last guess
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictTooHigh
	VerdictTooLow
	VerdictCorrect
	VerdictRejected
)

// Classify reads a server reply
func Classify(reply string) Verdict {
	switch {
	case strings.HasSuffix(reply, "guess was too high"):
		return VerdictTooHigh
	case strings.HasSuffix(reply, "guess was too low"):
		return VerdictTooLow
	case strings.HasPrefix(reply, "You guessed"):
		return VerdictCorrect
	case strings.HasPrefix(reply, "Please enter"), strings.HasPrefix(reply, "["), reply == "Request too big":
		return VerdictRejected
	default:
		return VerdictUnknown
	}
}

// Bisector narrows the range with every too high or too low answer
type Bisector struct {
	lo, hi int
	last   int
}

func NewBisector() *Bisector {
	return &Bisector{lo: engine.MinGuess, hi: engine.MaxGuess}
}

// Next returns the midpoint of the remaining range
func (b *Bisector) Next() int {
	b.last = b.lo + (b.hi-b.lo)/2
	return b.last
}

// Observe narrows the range after a verdict on the last guess
func (b *Bisector) Observe(v Verdict) {
	switch v {
	case VerdictTooHigh:
		b.hi = b.last - 1
	case VerdictTooLow:
		b.lo = b.last + 1
	}
}

// Exhausted reports a contradiction in the answers
func (b *Bisector) Exhausted() bool {
	return b.lo > b.hi
}

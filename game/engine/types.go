package engine

import "errors"

const (
	// Guess range, inclusive.
	MinGuess = 1
	MaxGuess = 100

	// MaxPayload is the largest client message accepted, in bytes.
	MaxPayload = 8
)

var (
	ErrSecretOutOfRange = errors.New("secret out of range")
	ErrPayloadTooLarge  = errors.New("payload too large")
	ErrCStrDecode       = errors.New("payload has no terminator")
	ErrUTF8Decode       = errors.New("payload is not valid UTF-8")
)

// Ordering is the position of a guess relative to the secret
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

// String returns a lowercase name for the ordering
func (o Ordering) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single Submit call
type Result struct {
	Ordering Ordering `json:"ordering"`
	Attempt  int      `json:"attempt"`
}

package service

import (
	"fmt"

	"github.com/wricardo/mcp-training/guessgame/game/engine"
)

// Text sent to clients
const (
	WelcomeMessage   = "Welcome to the guessing game! Enter a number between 1 and 100"
	TooBigMessage    = "Request too big"
	CStrErrorMessage = "[CStr decode Error]"
	UTF8ErrorMessage = "[UTF-8 Error]"
	RangeHintMessage = "Please enter a number between 1 and 100"
	tooHighFormat    = "Your %s guess was too high"
	tooLowFormat     = "Your %s guess was too low"
	correctFormat    = "You guessed %d on your %s try! Refresh to play again"
)

// Outcome classifies a reply for logging and metrics
type Outcome string

const (
	OutcomeWelcome   Outcome = "welcome"
	OutcomeTooHigh   Outcome = "too_high"
	OutcomeTooLow    Outcome = "too_low"
	OutcomeCorrect   Outcome = "correct"
	OutcomeInvalid   Outcome = "invalid"
	OutcomeCStrError Outcome = "cstr_error"
	OutcomeUTF8Error Outcome = "utf8_error"
	OutcomeTooBig    Outcome = "too_big"
)

// Reply is one text frame for the client. Close asks the transport to send a
// close frame after Text and end the connection.
type Reply struct {
	Text    string         `json:"text"`
	Close   bool           `json:"close"`
	Outcome Outcome        `json:"outcome"`
	Result  *engine.Result `json:"result,omitempty"`
}

// TooBigReply is sent when a payload exceeds engine.MaxPayload
func TooBigReply() Reply {
	return Reply{Text: TooBigMessage, Close: true, Outcome: OutcomeTooBig}
}

// resultReply formats a scored guess
func resultReply(result engine.Result, secret int) Reply {
	reply := Reply{Result: &result}
	nth := engine.Ordinal(result.Attempt)

	switch result.Ordering {
	case engine.Greater:
		reply.Text = fmt.Sprintf(tooHighFormat, nth)
		reply.Outcome = OutcomeTooHigh
	case engine.Less:
		reply.Text = fmt.Sprintf(tooLowFormat, nth)
		reply.Outcome = OutcomeTooLow
	default:
		reply.Text = fmt.Sprintf(correctFormat, secret, nth)
		reply.Outcome = OutcomeCorrect
		reply.Close = true
	}

	return reply
}

// Package engine provides the core game logic for the number guessing game.
//
// The engine package implements:
//   - The per-connection guessing state machine (Game)
//   - Decoding and validation of raw client payloads into guesses
//   - Ordinal formatting of attempt numbers for replies
//   - Secret number generation
//
// Core Types:
//
// Game holds one secret, a guess counter and a completion flag. Submit compares
// a guess against the secret and returns a Result carrying the Ordering
// (Less, Equal, Greater) and the attempt number. Once a game has been won every
// further Submit reports Equal with the final count and leaves the game untouched.
//
// Usage:
//
//	game, err := engine.NewGame(engine.TimeSecrets{}.Secret())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	text, err := engine.DecodePayload(payload)
//	if err != nil {
//		// ErrCStrDecode or ErrUTF8Decode
//	}
//
//	guess, ok := engine.ParseGuess(text)
//	if ok {
//		result := game.Submit(guess)
//		fmt.Printf("Your %s guess was %s\n", engine.Ordinal(result.Attempt), result.Ordering)
//	}
//
// Randomness:
//
// TimeSecrets derives secrets from the sub-second part of the wall clock. It is
// predictable and correlated across connections opened close together, which is
// acceptable for a casual game. RandomSecrets is available when that is not.
package engine

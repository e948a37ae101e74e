// Package session provides the connection-scoped session registry for the guessing game.
//
// The session package implements:
//   - One game per transport connection, keyed by ConnID
//   - Creation on connection open and removal on connection close
//   - Serialized access to every session through a single mutex
//   - Read-only snapshots for listing and statistics
//
// Core Types:
//
// Manager owns all sessions. Session pairs a ConnID with its engine.Game.
// Callers never hold a *Session outside Manager.Update; listings return Info
// values, which hide the secret until the game is won.
//
// Concurrency:
//
// Every operation takes the same exclusive lock for its whole duration. The
// lock must never be held across network I/O: the transport updates a session,
// releases the lock, and only then writes its reply.
//
// Usage:
//
//	manager := session.NewManager(engine.TimeSecrets{}, session.WithLogger(logger))
//
//	id := session.NewConnID()
//	manager.Open(id)
//
//	err := manager.Update(id, func(s *session.Session) error {
//		result = s.Game.Submit(guess)
//		return nil
//	})
//	if errors.Is(err, session.ErrSessionNotFound) {
//		// message for a connection that was never opened or already closed
//	}
//
//	manager.Close(id)
package session

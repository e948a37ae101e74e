package service

import (
	"context"

	"github.com/wricardo/mcp-training/guessgame/game/session"
)

// GameService turns connection events into replies
type GameService interface {
	// Connection lifecycle
	Open(ctx context.Context, id session.ConnID) (Reply, error)
	Close(ctx context.Context, id session.ConnID)

	// Guess handles one size-checked client payload
	Guess(ctx context.Context, id session.ConnID, payload []byte) (Reply, error)

	// Read-only views
	ListSessions(ctx context.Context) ([]session.Info, error)
	Stats(ctx context.Context) (session.Stats, error)
}

// SessionManager defines session registry operations
type SessionManager interface {
	Open(id session.ConnID) (bool, error)
	Update(id session.ConnID, fn func(*session.Session) error) error
	Close(id session.ConnID) bool
	List() []session.Info
	Stats() session.Stats
}

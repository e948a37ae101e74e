package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/mcp-training/guessgame/game/engine"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidConnID   = errors.New("invalid connection ID")
)

// ConnID identifies one transport connection
type ConnID string

// NewConnID returns a fresh connection identifier
func NewConnID() ConnID {
	return ConnID(uuid.NewString())
}

// Session is the game state bound to one connection
type Session struct {
	ID          ConnID
	Game        *engine.Game
	OpenedAt    time.Time
	LastGuessAt time.Time
}

// Info is a point-in-time copy of a session, safe to hand out.
// Secret is only filled in once the game is completed.
type Info struct {
	ID          ConnID    `json:"id"`
	Guesses     int       `json:"guesses"`
	Completed   bool      `json:"completed"`
	Secret      int       `json:"secret,omitempty"`
	OpenedAt    time.Time `json:"opened_at"`
	LastGuessAt time.Time `json:"last_guess_at,omitzero"`
}

// Stats summarizes registry activity
type Stats struct {
	Open        int    `json:"open"`
	TotalOpened uint64 `json:"total_opened"`
	TotalClosed uint64 `json:"total_closed"`
	Peak        int    `json:"peak"`
}

// Manager owns every open session. All access goes through one mutex.
type Manager struct {
	sessions map[ConnID]*Session
	secrets  engine.SecretSource
	logger   *zap.Logger
	now      func() time.Time
	stats    Stats
	mu       sync.Mutex
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger used for lifecycle events
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the time source for session timestamps
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a session manager drawing secrets from the given source
func NewManager(secrets engine.SecretSource, opts ...Option) *Manager {
	if secrets == nil {
		secrets = engine.TimeSecrets{}
	}

	m := &Manager{
		sessions: make(map[ConnID]*Session),
		secrets:  secrets,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Open registers a new connection and starts its game.
// An already registered connection keeps its session and created is false.
func (m *Manager) Open(id ConnID) (bool, error) {
	if id == "" {
		return false, ErrInvalidConnID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; exists {
		m.logger.Warn("connection opened twice", zap.String("conn", string(id)))
		return false, nil
	}

	secret := m.secrets.Secret()
	game, err := engine.NewGame(secret)
	if err != nil {
		return false, fmt.Errorf("failed to create game: %w", err)
	}
	m.logger.Debug("generated secret", zap.String("conn", string(id)), zap.Int("secret", secret))

	m.sessions[id] = &Session{
		ID:       id,
		Game:     game,
		OpenedAt: m.now(),
	}

	m.stats.TotalOpened++
	if len(m.sessions) > m.stats.Peak {
		m.stats.Peak = len(m.sessions)
	}

	m.logger.Info("new websocket session",
		zap.String("conn", string(id)),
		zap.Int("open", len(m.sessions)))

	return true, nil
}

// Update runs fn on the session for id while holding the registry lock.
// fn must not block or keep the session after it returns.
func (m *Manager) Update(id ConnID, fn func(*Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[id]
	if !exists {
		return ErrSessionNotFound
	}

	session.LastGuessAt = m.now()
	return fn(session)
}

// Close removes the session for id. It reports whether one was present.
func (m *Manager) Close(id ConnID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return false
	}

	delete(m.sessions, id)
	m.stats.TotalClosed++

	m.logger.Info("closed websocket session",
		zap.String("conn", string(id)),
		zap.Int("open", len(m.sessions)))

	return true
}

// Get returns a snapshot of one session
func (m *Manager) Get(id ConnID) (Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[id]
	if !exists {
		return Info{}, ErrSessionNotFound
	}

	return session.info(), nil
}

// List returns snapshots of all open sessions
func (m *Manager) List() []Info {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]Info, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session.info())
	}

	return result
}

// Count returns the number of open sessions
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Stats returns registry counters
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.stats
	stats.Open = len(m.sessions)
	return stats
}

func (s *Session) info() Info {
	info := Info{
		ID:          s.ID,
		Guesses:     s.Game.Guesses(),
		Completed:   s.Game.Completed(),
		OpenedAt:    s.OpenedAt,
		LastGuessAt: s.LastGuessAt,
	}
	if info.Completed {
		info.Secret = s.Game.Secret()
	}

	return info
}

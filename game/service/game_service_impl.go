package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/wricardo/mcp-training/guessgame/game/engine"
	"github.com/wricardo/mcp-training/guessgame/game/session"
	"go.uber.org/zap"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	logger   *zap.Logger
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, logger *zap.Logger) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &gameServiceImpl{
		sessions: sessions,
		logger:   logger,
	}
}

// Open starts a game for a new connection
func (s *gameServiceImpl) Open(ctx context.Context, id session.ConnID) (Reply, error) {
	if _, err := s.sessions.Open(id); err != nil {
		return Reply{}, fmt.Errorf("failed to open session %s: %w", id, err)
	}

	return Reply{Text: WelcomeMessage, Outcome: OutcomeWelcome}, nil
}

// Close drops the game of a closed connection
func (s *gameServiceImpl) Close(ctx context.Context, id session.ConnID) {
	s.sessions.Close(id)
}

// Guess decodes a payload, scores it and formats the reply.
// Decode and range problems produce a reply, not an error; the only error is
// a connection with no session.
func (s *gameServiceImpl) Guess(ctx context.Context, id session.ConnID, payload []byte) (Reply, error) {
	logger := s.logger.With(zap.String("conn", string(id)))

	text, err := engine.DecodePayload(payload)
	switch {
	case errors.Is(err, engine.ErrPayloadTooLarge):
		logger.Warn("request too big", zap.Int("len", len(payload)), zap.Int("max", engine.MaxPayload))
		return TooBigReply(), nil
	case errors.Is(err, engine.ErrCStrDecode):
		logger.Warn("failed to decode C string from payload")
		return Reply{Text: CStrErrorMessage, Outcome: OutcomeCStrError}, nil
	case errors.Is(err, engine.ErrUTF8Decode):
		logger.Warn("failed to decode UTF-8 payload")
		return Reply{Text: UTF8ErrorMessage, Outcome: OutcomeUTF8Error}, nil
	}

	guess, ok := engine.ParseGuess(text)
	if !ok {
		logger.Warn("invalid guess", zap.String("input", text), zap.Int("len", len(text)))
		return Reply{Text: RangeHintMessage, Outcome: OutcomeInvalid}, nil
	}

	var (
		result engine.Result
		secret int
		late   bool
	)
	err = s.sessions.Update(id, func(sess *session.Session) error {
		late = sess.Game.Completed()
		result = sess.Game.Submit(guess)
		secret = sess.Game.Secret()
		return nil
	})
	if err != nil {
		return Reply{}, fmt.Errorf("guess for connection %s: %w", id, err)
	}

	if late {
		logger.Warn("guess on completed game", zap.Int("guess", guess))
	}
	logger.Info("guess",
		zap.Int("guess", guess),
		zap.Int("attempt", result.Attempt),
		zap.Stringer("result", result.Ordering))

	return resultReply(result, secret), nil
}

// ListSessions returns snapshots of all open sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]session.Info, error) {
	return s.sessions.List(), nil
}

// Stats returns registry counters
func (s *gameServiceImpl) Stats(ctx context.Context) (session.Stats, error) {
	return s.sessions.Stats(), nil
}

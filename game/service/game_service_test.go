package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/mcp-training/guessgame/game/engine"
	"github.com/wricardo/mcp-training/guessgame/game/service"
	"github.com/wricardo/mcp-training/guessgame/game/session"
)

func newTestService(secret int) (service.GameService, *session.Manager) {
	manager := session.NewManager(engine.FixedSecret(secret))
	return service.NewGameService(manager, nil), manager
}

func TestGameService_Open(t *testing.T) {
	svc, manager := newTestService(50)

	reply, err := svc.Open(context.Background(), "conn-1")
	require.NoError(t, err)

	assert.Equal(t, service.WelcomeMessage, reply.Text)
	assert.Equal(t, service.OutcomeWelcome, reply.Outcome)
	assert.False(t, reply.Close)
	assert.Equal(t, 1, manager.Count())
}

func TestGameService_OpenFailure(t *testing.T) {
	svc := service.NewGameService(session.NewManager(engine.FixedSecret(500)), nil)

	_, err := svc.Open(context.Background(), "conn-1")
	assert.ErrorIs(t, err, engine.ErrSecretOutOfRange)
}

func TestGameService_WinScenario(t *testing.T) {
	ctx := context.Background()
	svc, manager := newTestService(50)
	svc.Open(ctx, "1")

	reply, err := svc.Guess(ctx, "1", []byte("75"))
	require.NoError(t, err)
	assert.Equal(t, "Your first guess was too high", reply.Text)
	assert.Equal(t, service.OutcomeTooHigh, reply.Outcome)
	assert.False(t, reply.Close)
	require.NotNil(t, reply.Result)
	assert.Equal(t, engine.Result{Ordering: engine.Greater, Attempt: 1}, *reply.Result)

	reply, err = svc.Guess(ctx, "1", []byte("25"))
	require.NoError(t, err)
	assert.Equal(t, "Your second guess was too low", reply.Text)
	assert.Equal(t, service.OutcomeTooLow, reply.Outcome)

	reply, err = svc.Guess(ctx, "1", []byte("50"))
	require.NoError(t, err)
	assert.Equal(t, "You guessed 50 on your third try! Refresh to play again", reply.Text)
	assert.Contains(t, reply.Text, "on your third try")
	assert.Equal(t, service.OutcomeCorrect, reply.Outcome)
	assert.True(t, reply.Close)
	assert.Equal(t, engine.Result{Ordering: engine.Equal, Attempt: 3}, *reply.Result)

	t.Run("late message is answered but not scored", func(t *testing.T) {
		reply, err := svc.Guess(ctx, "1", []byte("10"))
		require.NoError(t, err)
		assert.Equal(t, "You guessed 50 on your third try! Refresh to play again", reply.Text)
		assert.True(t, reply.Close)

		infos := manager.List()
		require.Len(t, infos, 1)
		assert.Equal(t, 3, infos[0].Guesses)
	})
}

func TestGameService_RejectedInput(t *testing.T) {
	ctx := context.Background()
	svc, manager := newTestService(50)
	svc.Open(ctx, "conn-1")

	tests := []struct {
		name    string
		payload []byte
		text    string
		outcome service.Outcome
	}{
		{"non numeric", []byte("abc"), service.RangeHintMessage, service.OutcomeInvalid},
		{"empty", []byte(""), service.RangeHintMessage, service.OutcomeInvalid},
		{"zero", []byte("0"), service.RangeHintMessage, service.OutcomeInvalid},
		{"above range", []byte("101"), service.RangeHintMessage, service.OutcomeInvalid},
		{"negative", []byte("-5"), service.RangeHintMessage, service.OutcomeInvalid},
		{"no terminator in full buffer", []byte("00000042"), service.CStrErrorMessage, service.OutcomeCStrError},
		{"invalid utf-8", []byte{'4', 0xc3, 0x28}, service.UTF8ErrorMessage, service.OutcomeUTF8Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := svc.Guess(ctx, "conn-1", tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.text, reply.Text)
			assert.Equal(t, tt.outcome, reply.Outcome)
			assert.False(t, reply.Close, "recoverable errors keep the connection open")
			assert.Nil(t, reply.Result)
		})
	}

	infos := manager.List()
	require.Len(t, infos, 1)
	assert.Zero(t, infos[0].Guesses, "rejected input must not be scored")
}

func TestGameService_PaddedPayload(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(50)
	svc.Open(ctx, "conn-1")

	reply, err := svc.Guess(ctx, "conn-1", []byte(" 60\n\x00xx"))
	require.NoError(t, err)
	assert.Equal(t, "Your first guess was too high", reply.Text)
}

func TestGameService_OversizedPayload(t *testing.T) {
	ctx := context.Background()
	svc, manager := newTestService(50)
	svc.Open(ctx, "conn-1")

	reply, err := svc.Guess(ctx, "conn-1", []byte(strings.Repeat("5", engine.MaxPayload+1)))
	require.NoError(t, err)
	assert.Equal(t, service.TooBigReply(), reply)
	assert.Zero(t, manager.List()[0].Guesses)
}

func TestGameService_UnknownConnection(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(50)
	svc.Open(ctx, "conn-1")
	svc.Close(ctx, "conn-1")

	_, err := svc.Guess(ctx, "conn-1", []byte("42"))
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestGameService_CloseRemovesSession(t *testing.T) {
	ctx := context.Background()
	svc, manager := newTestService(50)
	svc.Open(ctx, "a")
	svc.Open(ctx, "b")

	svc.Close(ctx, "a")
	assert.Equal(t, 1, manager.Count())

	svc.Close(ctx, "missing")
	assert.Equal(t, 1, manager.Count())

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Open)
	assert.Equal(t, uint64(2), stats.TotalOpened)

	sessions, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, session.ConnID("b"), sessions[0].ID)
}

func TestTooBigReply(t *testing.T) {
	reply := service.TooBigReply()
	assert.Equal(t, "Request too big", reply.Text)
	assert.True(t, reply.Close)
	assert.Equal(t, service.OutcomeTooBig, reply.Outcome)
}

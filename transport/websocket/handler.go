package websocket

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/mcp-training/guessgame/game/engine"
	"github.com/wricardo/mcp-training/guessgame/game/service"
	"github.com/wricardo/mcp-training/guessgame/game/session"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	tracerName = "github.com/wricardo/mcp-training/guessgame/transport/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The bundled page may be served through a tunnel on another host
		return true
	},
}

// Handler drives one game per WebSocket connection
type Handler struct {
	service      service.GameService
	logger       *zap.Logger
	metrics      *Metrics
	tracer       trace.Tracer
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// Option configures a Handler
type Option func(*Handler)

func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithTimeouts sets the idle read deadline and the per-frame write deadline.
// Zero disables the corresponding deadline.
func WithTimeouts(read, write time.Duration) Option {
	return func(h *Handler) {
		h.readTimeout = read
		h.writeTimeout = write
	}
}

// NewHandler creates a WebSocket handler backed by the game service
func NewHandler(svc service.GameService, opts ...Option) *Handler {
	h := &Handler{
		service:      svc,
		logger:       zap.NewNop(),
		writeTimeout: writeWait,
		tracer:       otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.metrics == nil {
		h.metrics = NewMetrics(nil)
	}
	return h
}

// ServeHTTP upgrades the request and plays until the game ends or the peer leaves
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		h.metrics.fail("upgrade")
		return
	}

	id := session.NewConnID()
	h.Serve(r.Context(), id, NewConn(ws, h.readTimeout, h.writeTimeout))
}

// Serve runs the open, message and close events of one connection
func (h *Handler) Serve(ctx context.Context, id session.ConnID, conn Conn) {
	logger := h.logger.With(zap.String("conn", string(id)))
	defer conn.Close()

	welcome, err := h.service.Open(ctx, id)
	if err != nil {
		logger.Error("failed to open session", zap.Error(err))
		h.metrics.fail("open")
		return
	}
	h.metrics.opened()
	defer func() {
		h.service.Close(ctx, id)
		h.metrics.closed()
	}()

	if err := h.send(conn, welcome); err != nil {
		logger.Error("failed to send welcome", zap.Error(err))
		return
	}

	for {
		payload, err := conn.ReceivePayload(engine.MaxPayload)

		var reply service.Reply
		switch {
		case errors.Is(err, engine.ErrPayloadTooLarge):
			logger.Warn("request too big", zap.Int("max", engine.MaxPayload))
			reply = service.TooBigReply()
		case err != nil:
			if websocket.IsCloseError(err,
				websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logger.Debug("peer closed connection")
				return
			}
			logger.Error("failed to receive payload", zap.Error(err))
			h.metrics.fail("receive")
			return
		default:
			reply, err = h.handleMessage(ctx, id, payload)
			if err != nil {
				logger.Error("message handling failed", zap.Error(err))
				h.metrics.fail("message")
				return
			}
		}

		if err := h.send(conn, reply); err != nil {
			logger.Error("failed to send reply", zap.Error(err))
			h.metrics.fail("send")
			return
		}
		if reply.Close {
			return
		}
	}
}

// handleMessage scores one payload inside a span
func (h *Handler) handleMessage(ctx context.Context, id session.ConnID, payload []byte) (service.Reply, error) {
	start := time.Now()
	ctx, span := h.tracer.Start(ctx, "guessgame.message",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("guessgame.conn", string(id)),
			attribute.Int("guessgame.payload_len", len(payload)),
		),
	)
	defer span.End()

	reply, err := h.service.Guess(ctx, id, payload)
	h.metrics.messageDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return reply, err
	}

	span.SetAttributes(attribute.String("guessgame.outcome", string(reply.Outcome)))
	if reply.Result != nil {
		span.SetAttributes(attribute.Int("guessgame.attempt", reply.Result.Attempt))
	}
	span.SetStatus(codes.Ok, "")
	return reply, nil
}

// send writes the reply text and, when asked, a close frame
func (h *Handler) send(conn Conn, reply service.Reply) error {
	if err := conn.SendText(reply.Text); err != nil {
		return err
	}
	h.metrics.reply(reply.Outcome)

	if reply.Close {
		return conn.SendClose()
	}
	return nil
}

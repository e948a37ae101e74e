package websocket

import (
	"fmt"
	"io"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/mcp-training/guessgame/game/engine"
)

// Conn is the per-connection transport seen by the handler
type Conn interface {
	// ReceivePayload blocks for the next message. Payloads longer than max
	// return engine.ErrPayloadTooLarge without being read in full.
	ReceivePayload(max int) ([]byte, error)
	SendText(text string) error
	SendClose() error
	Close() error
}

// wsConn adapts a gorilla connection to Conn
type wsConn struct {
	conn         *websocket.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps an upgraded gorilla connection. Zero timeouts disable deadlines.
func NewConn(conn *websocket.Conn, readTimeout, writeTimeout time.Duration) Conn {
	return &wsConn{
		conn:         conn,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// ReceivePayload probes at most max+1 bytes of the next frame before keeping any of it
func (c *wsConn) ReceivePayload(max int) ([]byte, error) {
	if c.readTimeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	_, r, err := c.conn.NextReader()
	if err != nil {
		return nil, err
	}

	probe, err := io.ReadAll(io.LimitReader(r, int64(max)+1))
	if err != nil {
		return nil, err
	}
	if len(probe) > max {
		return nil, fmt.Errorf("%w: more than %d bytes", engine.ErrPayloadTooLarge, max)
	}

	return probe, nil
}

func (c *wsConn) SendText(text string) error {
	c.setWriteDeadline()
	return c.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

func (c *wsConn) SendClose() error {
	c.setWriteDeadline()
	return c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

func (c *wsConn) setWriteDeadline() {
	if c.writeTimeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
}

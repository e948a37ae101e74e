package main

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

// Client is one guessing game connection
type Client struct {
	conn    *websocket.Conn
	timeout time.Duration
}

// Dial connects to the game socket at url
func Dial(ctx context.Context, url string, timeout time.Duration) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, timeout: timeout}, nil
}

// Next returns the next text frame. io.EOF means the server closed the game.
func (c *Client) Next() (string, error) {
	if c.timeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.timeout))
	}

	_, data, err := c.conn.ReadMessage()
	if err != nil {
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) {
			return "", io.EOF
		}
		return "", err
	}
	return string(data), nil
}

// Send submits raw text as one frame
func (c *Client) Send(text string) error {
	return c.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// Guess submits a number
func (c *Client) Guess(n int) error {
	return c.Send(strconv.Itoa(n))
}

func (c *Client) Close() error {
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

// Package websocket provides the WebSocket transport for the guessing game.
//
// Every accepted connection gets its own session and secret. The handler then
// runs a simple loop: receive a payload, hand it to the game service, send
// the reply, and end the connection when the reply asks for it.
//
// Receive Discipline:
//
// Conn.ReceivePayload reads at most max+1 bytes of a frame before deciding
// whether to keep it, so an oversized message is rejected without buffering
// the rest of it. The handler then answers "Request too big" followed by a
// close frame.
//
// Message Protocol:
//
//   - On open: a welcome text frame
//   - Per payload: one text frame (hint, decode error, too high, too low)
//   - On win or oversized payload: one text frame, then a close frame
//
// Usage:
//
//	handler := websocket.NewHandler(gameService,
//		websocket.WithLogger(logger),
//		websocket.WithMetrics(websocket.NewMetrics(prometheus.DefaultRegisterer)),
//	)
//	router.Handle("/ws/guess", handler)
//
// Concurrency:
//
// Each connection is served on the goroutine net/http gives its request. The
// only shared state is the session registry behind the game service.
package websocket

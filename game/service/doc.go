// Package service provides the business logic layer for the guessing game.
//
// The service package sits between the transport layer (WebSocket, HTTP, MCP)
// and the session registry. It owns the reply wording: the welcome text, the
// decode and range errors, and the too-high/too-low/correct messages with their
// ordinal attempt numbers.
//
// Core Interfaces:
//
// GameService is the interface used by transports. SessionManager is the
// subset of session.Manager it depends on.
//
// Replies:
//
// Every call yields a Reply holding exactly one text frame. Replies with Close
// set (a win, or an oversized payload) tell the transport to follow the text
// with a close frame and drop the connection. Malformed input never produces an
// error; an error means the connection has no session, which points at an
// event ordering bug in the transport.
//
// Usage:
//
//	manager := session.NewManager(engine.TimeSecrets{})
//	svc := service.NewGameService(manager, logger)
//
//	reply, _ := svc.Open(ctx, id)         // welcome
//	reply, err := svc.Guess(ctx, id, []byte("50"))
//	svc.Close(ctx, id)
package service

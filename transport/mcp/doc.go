// Package mcp exposes the guessing game server to MCP clients.
//
// The Client is a thin proxy: every tool calls the server's HTTP API and
// formats the answer as text. It never touches the session registry directly,
// so the same tools work against a local or a remote server.
//
// Tools:
//   - server_health: GET /health
//   - station_telemetry: GET /rssi
//   - list_sessions: GET /api/sessions (optional limit and order)
//   - game_rules: GET /api/rules
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// stdio transport
//	server.ServeStdio(client.GetMCPServer())
//
//	// or one JSON-RPC message per HTTP request
//	response := client.GetMCPServer().HandleMessage(ctx, body)
package mcp

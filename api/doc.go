// Package api provides the HTTP surface of the guessing game server.
//
// Endpoints:
//   - GET / - Bundled HTML client (never cached)
//   - GET /health - Plain text "OK"
//   - GET /rssi - Station signal strength and estimated distance
//   - GET /ws/guess - WebSocket game, one secret per connection
//   - GET /api - Endpoint listing
//   - GET /api/sessions - Open sessions and registry counters
//   - GET /api/rules - Game rules as JSON
//   - GET /metrics - Prometheus metrics
//
// The /rssi document is either
//
//	{"rssi": -52, "distance": 3.07, "unit": "meters", "raw_distance": 3.0703}
//
// or, when no station is connected,
//
//	{"rssi": null, "distance": null, "error": "No connected station"}
//
// Session listings never include the secret of a game that is still open.
//
// Usage:
//
//	wsHandler := websocket.NewHandler(gameService)
//	server := api.NewServer(gameService, wsHandler,
//		api.WithTelemetry(telemetry.Static(-52)),
//		api.WithLogger(logger),
//	)
//	http.ListenAndServe(":8080", server)
package api

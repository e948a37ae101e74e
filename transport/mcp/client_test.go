package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/mcp-training/guessgame/api"
	"github.com/wricardo/mcp-training/guessgame/game/session"
	"github.com/wricardo/mcp-training/guessgame/telemetry"
)

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL + "/")

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"open": 2})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall(context.Background(), "GET", "/api/sessions", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["open"] != float64(2) {
		t.Errorf("Expected open 2, got %v", response["open"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall(context.Background(), "GET", "/api", nil, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	t.Run("plain body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "API error: 500") {
			t.Errorf("Expected 'API error: 500', got: %v", err)
		}
	})

	t.Run("json error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "registry unavailable"})
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
		if err == nil || err.Error() != "registry unavailable" {
			t.Errorf("Expected 'registry unavailable', got: %v", err)
		}
	})
}

func TestClient_serverHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("Expected /health, got %s", r.URL.Path)
		}
		w.Write([]byte("OK"))
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleServerHealth(context.Background(), callTool("server_health", nil))
	if err != nil {
		t.Fatalf("server_health failed: %v", err)
	}

	if got := resultText(t, result); got != "Server health: OK" {
		t.Errorf("Unexpected result: %s", got)
	}
}

func TestClient_stationTelemetry(t *testing.T) {
	tests := []struct {
		name   string
		source telemetry.Source
		want   []string
	}{
		{"connected", telemetry.Static(-70), []string{"Station RSSI: -70 dBm", "Estimated distance: 10.00 meters"}},
		{"no station", telemetry.NoStation{}, []string{"No connected station"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(telemetry.Read(tt.source, nil))
			}))
			defer server.Close()

			result, err := NewClient(server.URL).handleStationTelemetry(context.Background(), callTool("station_telemetry", nil))
			if err != nil {
				t.Fatalf("station_telemetry failed: %v", err)
			}

			text := resultText(t, result)
			for _, want := range tt.want {
				if !strings.Contains(text, want) {
					t.Errorf("Expected %q in result, got: %s", want, text)
				}
			}
		})
	}
}

func TestClient_listSessions(t *testing.T) {
	opened := time.Date(2026, 1, 2, 10, 30, 0, 0, time.UTC)
	var gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions" {
			t.Errorf("Expected /api/sessions, got %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery

		json.NewEncoder(w).Encode(sessionList{
			Open:        2,
			TotalOpened: 5,
			TotalClosed: 3,
			Peak:        4,
			Count:       2,
			Sessions: []session.Info{
				{ID: "abc", Guesses: 3, OpenedAt: opened},
				{ID: "def", Guesses: 6, Completed: true, Secret: 37, OpenedAt: opened},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleListSessions(context.Background(), callTool("list_sessions", map[string]interface{}{
		"limit": float64(2),
		"order": "desc",
	}))
	if err != nil {
		t.Fatalf("list_sessions failed: %v", err)
	}

	if gotQuery != "limit=2&order=desc" {
		t.Errorf("Unexpected query: %s", gotQuery)
	}

	text := resultText(t, result)
	for _, want := range []string{
		"Open Sessions (2)",
		"- abc (Guesses: 3, Opened: 10:30:00, playing)",
		"- def (Guesses: 6, Opened: 10:30:00, won, secret 37)",
		"Total opened: 5, total closed: 3, peak: 4",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_listSessions_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleListSessions(context.Background(), callTool("list_sessions", nil))
	if err != nil {
		t.Fatalf("Tool errors should be reported in the result, got: %v", err)
	}
	if !result.IsError {
		t.Error("Expected an error result")
	}
}

func TestClient_gameRules(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.Rules{
			Min:         1,
			Max:         100,
			MaxPayload:  8,
			Endpoint:    "/ws/guess",
			Description: "Guess the secret.",
		})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleGameRules(context.Background(), callTool("game_rules", nil))
	if err != nil {
		t.Fatalf("game_rules failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"between 1 and 100", "/ws/guess", "at most 8 bytes", "Guess the secret."} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/guessgame/api"
	"github.com/wricardo/mcp-training/guessgame/game/session"
	"github.com/wricardo/mcp-training/guessgame/telemetry"
)

const (
	serverName    = "Guessing Game"
	serverVersion = "1.0.0"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Guessing Game - MCP Interface

This is a thin client that proxies read-only requests to the game server.
Games themselves are played over the WebSocket endpoint /ws/guess.

AVAILABLE TOOLS:
- server_health: Check that the server is up
- station_telemetry: Signal strength of the connected station and estimated distance
- list_sessions: Open games, guess counts and registry counters
- game_rules: Range, payload limit and protocol of the game`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "server_health",
		Description: "Check the game server health endpoint",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleServerHealth)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "station_telemetry",
		Description: "Get the RSSI of the connected station and the estimated distance in meters",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleStationTelemetry)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List open game sessions with guess counts",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of sessions to list (optional)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"description": "asc (oldest first, default) or desc",
					"enum":        []string{"asc", "desc"},
				},
			},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Describe the rules and protocol of the guessing game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return nil, fmt.Errorf("%s", msg)
		}
		return nil, fmt.Errorf("API error: %d", resp.StatusCode)
	}

	return resp, nil
}

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func (c *Client) apiText(ctx context.Context, path string) (string, error) {
	resp, err := c.do(ctx, "GET", path, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Tool handlers

func (c *Client) handleServerHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := c.apiText(ctx, "/health")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Server health: %s", strings.TrimSpace(text))), nil
}

func (c *Client) handleStationTelemetry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var reading telemetry.Reading
	if err := c.apiCall(ctx, "GET", "/rssi", nil, &reading); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatReading(reading)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := "/api/sessions"
	query := []string{}
	if limit := request.GetInt("limit", 0); limit > 0 {
		query = append(query, fmt.Sprintf("limit=%d", limit))
	}
	if order := request.GetString("order", ""); order == "asc" || order == "desc" {
		query = append(query, "order="+order)
	}
	if len(query) > 0 {
		path += "?" + strings.Join(query, "&")
	}

	var response sessionList
	if err := c.apiCall(ctx, "GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessions(response)), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var rules api.Rules
	if err := c.apiCall(ctx, "GET", "/api/rules", nil, &rules); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRules(rules)), nil
}

// sessionList mirrors the /api/sessions document
type sessionList struct {
	Open        int            `json:"open"`
	TotalOpened uint64         `json:"total_opened"`
	TotalClosed uint64         `json:"total_closed"`
	Peak        int            `json:"peak"`
	Count       int            `json:"count"`
	Sessions    []session.Info `json:"sessions"`
}

func formatReading(r telemetry.Reading) string {
	if r.RSSI == nil || r.Distance == nil {
		if r.Error != "" {
			return r.Error
		}
		return telemetry.NoStationError
	}
	return fmt.Sprintf("Station RSSI: %d dBm\nEstimated distance: %.2f %s", *r.RSSI, *r.Distance, r.Unit)
}

func formatSessions(list sessionList) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Open Sessions (%d):\n\n", list.Open)
	for _, s := range list.Sessions {
		status := "playing"
		if s.Completed {
			status = fmt.Sprintf("won, secret %d", s.Secret)
		}
		fmt.Fprintf(&b, "- %s (Guesses: %d, Opened: %s, %s)\n",
			s.ID, s.Guesses, s.OpenedAt.Format("15:04:05"), status)
	}
	fmt.Fprintf(&b, "\nTotal opened: %d, total closed: %d, peak: %d\n",
		list.TotalOpened, list.TotalClosed, list.Peak)
	return b.String()
}

func formatRules(r api.Rules) string {
	return fmt.Sprintf("Guess a number between %d and %d.\nConnect to %s and send one guess per message (at most %d bytes).\n\n%s",
		r.Min, r.Max, r.Endpoint, r.MaxPayload, r.Description)
}

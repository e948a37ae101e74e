package api

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wricardo/mcp-training/guessgame/game/engine"
	"github.com/wricardo/mcp-training/guessgame/game/service"
	"github.com/wricardo/mcp-training/guessgame/logging"
	"github.com/wricardo/mcp-training/guessgame/telemetry"
	"go.uber.org/zap"
)

//go:embed static/index.html
var indexHTML []byte

// Server represents the HTTP surface of the game
type Server struct {
	service   service.GameService
	websocket http.Handler
	telemetry telemetry.Source
	gatherer  prometheus.Gatherer
	logger    *zap.Logger
	router    *mux.Router
}

// Option configures a Server
type Option func(*Server)

// WithTelemetry sets the station signal source for /rssi
func WithTelemetry(src telemetry.Source) Option {
	return func(s *Server) { s.telemetry = src }
}

// WithGatherer sets the registry exposed on /metrics
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a new API server. ws serves the game socket.
func NewServer(gameService service.GameService, ws http.Handler, opts ...Option) *Server {
	s := &Server{
		service:   gameService,
		websocket: ws,
		telemetry: telemetry.NoStation{},
		gatherer:  prometheus.DefaultGatherer,
		logger:    zap.NewNop(),
		router:    mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Use(logging.Middleware(s.logger))

	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/rssi", s.handleRSSI).Methods("GET")

	// WebSocket
	s.router.Handle("/ws/guess", s.websocket)

	// Read-only API
	s.router.HandleFunc("/api", s.handleAPIInfo).Methods("GET")
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/rules", s.handleRules).Methods("GET")

	s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
	w.WriteHeader(http.StatusOK)
	w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleRSSI always answers 200; a missing station is reported in the body
func (s *Server) handleRSSI(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, telemetry.Read(s.telemetry, s.logger))
}

func (s *Server) handleAPIInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name": "guessgame",
		"endpoints": []string{
			"GET /health",
			"GET /rssi",
			"GET /ws/guess",
			"GET /api/sessions",
			"GET /api/rules",
			"GET /metrics",
		},
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	stats, err := s.service.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Oldest first unless order=desc
	order := r.URL.Query().Get("order")
	sort.Slice(sessions, func(i, j int) bool {
		if order == "desc" {
			return sessions[i].OpenedAt.After(sessions[j].OpenedAt)
		}
		return sessions[i].OpenedAt.Before(sessions[j].OpenedAt)
	})

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l >= 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"open":         stats.Open,
		"total_opened": stats.TotalOpened,
		"total_closed": stats.TotalClosed,
		"peak":         stats.Peak,
		"count":        len(sessions),
		"sessions":     sessions,
	})
}

const rulesDescription = "Each connection gets a secret number. Send one guess per text frame " +
	"and the server answers too high, too low or correct. Winning closes the connection; " +
	"payloads longer than the limit are rejected and close it too."

// Rules describes the game for API and MCP clients
type Rules struct {
	Min         int    `json:"min"`
	Max         int    `json:"max"`
	MaxPayload  int    `json:"max_payload_bytes"`
	Endpoint    string `json:"endpoint"`
	Description string `json:"description"`
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, Rules{
		Min:         engine.MinGuess,
		Max:         engine.MaxGuess,
		MaxPayload:  engine.MaxPayload,
		Endpoint:    "/ws/guess",
		Description: rulesDescription,
	})
}

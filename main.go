// Command guessgame starts the number guessing game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server with the game socket, status endpoints and an /mcp endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP server if none is available
//
// Flags and GUESS_* environment variables override the optional YAML config
// file; .env files are loaded first.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/guessgame/api"
	"github.com/wricardo/mcp-training/guessgame/game/config"
	"github.com/wricardo/mcp-training/guessgame/game/engine"
	"github.com/wricardo/mcp-training/guessgame/game/service"
	"github.com/wricardo/mcp-training/guessgame/game/session"
	"github.com/wricardo/mcp-training/guessgame/logging"
	"github.com/wricardo/mcp-training/guessgame/telemetry"
	"github.com/wricardo/mcp-training/guessgame/transport/mcp"
	"github.com/wricardo/mcp-training/guessgame/transport/websocket"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Guessing Game Server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file if it exists
	envErr := godotenv.Load()

	if err := newApp(envErr).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the command tree. envErr is the result of loading .env.
func newApp(envErr error) *cli.Command {
	return &cli.Command{
		Name:    "guessgame",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML configuration file",
				Sources: cli.EnvVars("GUESS_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("GUESS_HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("GUESS_PORT"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("GUESS_DEBUG"),
			},
			&cli.StringFlag{
				Name:    "secret-source",
				Value:   config.SecretSourceTime,
				Usage:   "How secrets are drawn: time or random",
				Sources: cli.EnvVars("GUESS_SECRET_SOURCE"),
			},
			&cli.DurationFlag{
				Name:    "read-timeout",
				Usage:   "Close connections idle for this long (0 disables)",
				Sources: cli.EnvVars("GUESS_READ_TIMEOUT"),
			},
			&cli.DurationFlag{
				Name:    "write-timeout",
				Value:   10 * time.Second,
				Usage:   "Deadline for writing one frame",
				Sources: cli.EnvVars("GUESS_WRITE_TIMEOUT"),
			},
			&cli.StringFlag{
				Name:    "telemetry",
				Value:   config.TelemetryNone,
				Usage:   "Station signal source: none, static or proc",
				Sources: cli.EnvVars("GUESS_TELEMETRY"),
			},
			&cli.IntFlag{
				Name:    "rssi",
				Usage:   "RSSI reported by the static telemetry source",
				Sources: cli.EnvVars("GUESS_RSSI"),
			},
			&cli.StringFlag{
				Name:    "wifi-interface",
				Usage:   "Wireless interface read by the proc telemetry source",
				Sources: cli.EnvVars("GUESS_WIFI_INTERFACE"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runHTTPServer(ctx, cmd, envErr)
		},
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with the game socket and MCP endpoint (default)",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runHTTPServer(ctx, cmd, envErr)
				},
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runStdioMCP(ctx, cmd, envErr)
				},
			},
		},
	}
}

// configFromCommand loads the config file and applies explicitly set flags on top
func configFromCommand(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("secret-source") {
		cfg.SecretSource = cmd.String("secret-source")
	}
	if cmd.IsSet("read-timeout") {
		cfg.ReadTimeout = cmd.Duration("read-timeout")
	}
	if cmd.IsSet("write-timeout") {
		cfg.WriteTimeout = cmd.Duration("write-timeout")
	}
	if cmd.IsSet("telemetry") {
		cfg.Telemetry.Source = cmd.String("telemetry")
	}
	if cmd.IsSet("rssi") {
		cfg.Telemetry.RSSI = cmd.Int("rssi")
	}
	if cmd.IsSet("wifi-interface") {
		cfg.Telemetry.Interface = cmd.String("wifi-interface")
	}
	if cmd.IsSet("ngrok") {
		cfg.Ngrok.Enabled = cmd.Bool("ngrok")
	}
	if cmd.IsSet("ngrok-auth") {
		cfg.Ngrok.AuthToken = cmd.String("ngrok-auth")
	}
	if cmd.IsSet("ngrok-domain") {
		cfg.Ngrok.Domain = cmd.String("ngrok-domain")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup resolves the configuration and builds the logger
func setup(cmd *cli.Command, envErr error, mode string) (*config.Config, *zap.Logger, error) {
	cfg, err := configFromCommand(cmd)
	if err != nil {
		return nil, nil, err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Development = cfg.Debug
	if cfg.Debug {
		logCfg.Level = logging.DebugLevel
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	switch {
	case envErr == nil:
		logger.Info("loaded environment variables from .env file")
	case !os.IsNotExist(envErr):
		logger.Warn("error loading .env file", zap.Error(envErr))
	}

	logger.Info("starting",
		zap.String("app", AppName),
		zap.String("version", Version),
		zap.String("mode", mode),
	)
	return cfg, logger, nil
}

// secretSource maps the configured name to an engine.SecretSource
func secretSource(name string) engine.SecretSource {
	if name == config.SecretSourceRandom {
		return engine.RandomSecrets{}
	}
	return engine.TimeSecrets{}
}

// telemetrySource maps the telemetry config to a telemetry.Source
func telemetrySource(cfg config.TelemetryConfig) telemetry.Source {
	switch cfg.Source {
	case config.TelemetryStatic:
		return telemetry.Static(cfg.RSSI)
	case config.TelemetryProc:
		return telemetry.ProcWireless{Path: cfg.Path, Interface: cfg.Interface}
	default:
		return telemetry.NoStation{}
	}
}

// buildHandler wires the registry, game service, transports and API into one handler.
// mcpBaseURL is where the /mcp tools send their HTTP calls.
func buildHandler(cfg *config.Config, logger *zap.Logger, mcpBaseURL string) (http.Handler, *session.Manager) {
	manager := session.NewManager(secretSource(cfg.SecretSource), session.WithLogger(logger))
	gameService := service.NewGameService(manager, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	wsHandler := websocket.NewHandler(gameService,
		websocket.WithLogger(logger),
		websocket.WithMetrics(websocket.NewMetrics(registry)),
		websocket.WithTimeouts(cfg.ReadTimeout, cfg.WriteTimeout),
	)

	apiServer := api.NewServer(gameService, wsHandler,
		api.WithTelemetry(telemetrySource(cfg.Telemetry)),
		api.WithGatherer(registry),
		api.WithLogger(logger),
	)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHTTPHandler(mcp.NewClient(mcpBaseURL)))

	return mainRouter, manager
}

// mcpHTTPHandler answers one JSON-RPC message per POST
func mcpHTTPHandler(client *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := client.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// localURL is the base URL the process uses to reach its own listener
func localURL(cfg *config.Config) string {
	host := cfg.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, fmt.Sprint(cfg.Port)))
}

// runHTTPServer serves until SIGINT or SIGTERM, then shuts down gracefully.
// If ngrok is enabled it also serves through a public tunnel.
func runHTTPServer(ctx context.Context, cmd *cli.Command, envErr error) error {
	cfg, logger, err := setup(cmd, envErr, "server")
	if err != nil {
		return err
	}
	defer logger.Sync()

	addr := cfg.Addr()
	handler, manager := buildHandler(cfg, logger, localURL(cfg))

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Info("http server listening",
			zap.String("addr", addr),
			zap.String("websocket", fmt.Sprintf("ws://%s/ws/guess", addr)),
			zap.String("mcp", fmt.Sprintf("http://%s/mcp", addr)),
		)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			stop()
		}
	}()

	if cfg.Ngrok.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cfg.Ngrok, handler, logger)
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down", zap.Int("open_sessions", manager.Count()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", zap.Error(err))
	}

	wg.Wait()
	logger.Info("server stopped")

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server failed: %w", err)
	default:
		return nil
	}
}

// runNgrok serves handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, cfg config.NgrokConfig, handler http.Handler, logger *zap.Logger) {
	if cfg.AuthToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
		return
	}

	logger.Info("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if cfg.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.Domain))
		logger.Info("using custom ngrok domain", zap.String("domain", cfg.Domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.AuthToken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Error("failed to close ngrok tunnel", zap.Error(err))
		}
	}()

	ngrokURL := tun.URL()
	logger.Info("ngrok tunnel established",
		zap.String("url", ngrokURL),
		zap.String("game", ngrokURL+"/"),
		zap.String("mcp", ngrokURL+"/mcp"),
	)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		logger.Error("ngrok server error", zap.Error(err))
	}
	logger.Info("ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server.
// It reuses a server already listening on the configured address; otherwise it
// starts an internal HTTP server on a random loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command, envErr error) error {
	cfg, logger, err := setup(cmd, envErr, "mcp")
	if err != nil {
		return err
	}
	defer logger.Sync()

	externalURL := localURL(cfg)
	baseURL := externalURL
	logger.Info("checking for external server", zap.String("url", externalURL))

	if !serverAvailable(externalURL) {
		logger.Info("no external server found, starting internal http server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())
		handler, _ := buildHandler(cfg, logger, baseURL)
		httpServer := &http.Server{Handler: handler}

		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("internal http server error", zap.Error(err))
			}
		}()
		defer httpServer.Close()

		logger.Info("internal http server started", zap.String("url", baseURL))
	}

	logger.Info("mcp stdio server ready", zap.String("api", baseURL))

	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		return fmt.Errorf("mcp stdio server error: %w", err)
	}
	return nil
}

// serverAvailable reports whether a guessgame server answers /health at baseURL
func serverAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

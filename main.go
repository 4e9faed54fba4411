// Command partyhub starts the party game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing the REST API,
//     WebSocket hub, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP
//     API if none is available
//
// Runtime settings come from the environment (see package config); flags
// select the mode and optional ngrok tunneling for playing from phones
// outside the LAN.
package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"flag"
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
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/tvdberg/partyhub/api"
	"github.com/tvdberg/partyhub/catalog"
	"github.com/tvdberg/partyhub/config"
	"github.com/tvdberg/partyhub/game/session"
	"github.com/tvdberg/partyhub/transport/mcp"
	"github.com/tvdberg/partyhub/transport/websocket"
)

const (
	Version = "1.0.0"
	AppName = "Party Hub Server"
)

var (
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Enable ngrok tunnel")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp              Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	mode := "server"
	if args := flag.Args(); len(args) > 0 {
		mode = args[0]
	}
	log.Info().Str("mode", mode).Msgf("starting %s v%s", AppName, Version)

	cat := loadCatalog(cfg)
	store := newStore(cfg)

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCP(cfg, cat, store)

	case "server", "http":
		runHTTPServer(cfg, cat, store)

	default:
		log.Fatal().Msgf("unknown mode: %s, use 'server' (default) or 'stdio-mcp'", mode)
	}
}

// loadCatalog reads every data file and renders missing QR images. Any
// failure is fatal: the server never starts with a partial catalog.
func loadCatalog(cfg *config.Config) *catalog.Catalog {
	cat, err := catalog.Load(cfg.DataDir, cfg.QRDir)
	if err != nil {
		log.Fatal().Err(err).Msg("loading game catalog")
	}
	if err := cat.Validate(); err != nil {
		log.Fatal().Err(err).Msg("validating game catalog")
	}

	if cfg.GenerateQR {
		written, err := catalog.EnsureQRCodes(cat.Songs, cfg.QRDir)
		if err != nil {
			log.Fatal().Err(err).Msg("rendering QR codes")
		}
		if written > 0 {
			log.Info().Int("written", written).Msg("rendered QR codes")
		}
	}
	return cat
}

func newStore(cfg *config.Config) *session.Store {
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatal().Err(err).Msg("generating session secret")
		}
		log.Warn().Msg("SESSION_SECRET not set, cookies will not survive a restart")
	}

	return session.NewStore(session.StoreConfig{
		Secret:        secret,
		TTL:           cfg.SessionTTL,
		SweepInterval: cfg.SweepInterval,
		RateCapacity:  cfg.RateLimitPerMin,
		Logger:        log.Logger,
	})
}

// runHTTPServer starts the HTTP server with the REST API, WebSocket hub,
// session sweeper, and an /mcp proxy endpoint. If ngrok is enabled it also
// provisions a public tunnel.
func runHTTPServer(cfg *config.Config, cat *catalog.Catalog, store *session.Store) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go store.Sweep(ctx)

	hub := websocket.NewHub(log.Logger)
	go hub.Run()

	apiServer := api.NewServer(cat, store, hub, log.Logger)

	addr := cfg.Addr()
	mcpClient := mcp.NewClient("http://" + addr)
	mainRouter := buildRouter(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().Str("addr", addr).Msg("HTTP server listening")
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("WebSocket: ws://%s/ws", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	if *ngrokEnabled || cfg.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cfg, mainRouter)
		}()
	}

	sig := <-stop
	log.Info().Str("signal", sig.String()).Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown")
	}

	wg.Wait()
	log.Info().Msg("server stopped")
}

// buildRouter mounts the API at root and the MCP message endpoint at /mcp.
func buildRouter(apiServer *api.Server, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
	return mainRouter
}

func runNgrokTunnel(ctx context.Context, cfg *config.Config, handler http.Handler) {
	if cfg.NgrokAuth == "" {
		log.Warn().Msg("ngrok enabled but NGROK_AUTHTOKEN is not set")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.NgrokAuth))
	if err != nil {
		log.Error().Err(err).Msg("starting ngrok tunnel")
		return
	}
	defer tun.Close()

	log.Info().Str("url", tun.URL()).Msg("ngrok tunnel established")

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("ngrok server")
	}
	log.Info().Msg("ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server. It reuses an external API at the
// configured address when one answers; otherwise it starts an internal API
// on a random loopback port and targets that.
func runStdioMCP(cfg *config.Config, cat *catalog.Catalog, store *session.Store) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	externalURL := "http://" + cfg.Addr()
	baseURL := externalURL

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/healthz")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Info().Str("url", externalURL).Msg("using external API server for MCP")
	} else {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatal().Err(err).Msg("allocating internal port")
		}

		go store.Sweep(ctx)
		hub := websocket.NewHub(log.Logger)
		go hub.Run()
		apiServer := api.NewServer(cat, store, hub, log.Logger)

		go func() {
			if err := (&http.Server{Handler: apiServer}).Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("internal HTTP server")
			}
		}()

		baseURL = fmt.Sprintf("http://%s", listener.Addr())
		log.Info().Str("url", baseURL).Msg("started internal API server for MCP stdio")
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info().Msg("MCP stdio server ready")
	if err := mcpserver.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatal().Err(err).Msg("MCP stdio server")
	}
}

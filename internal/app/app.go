// Package app wires together the HTTP server, event bus, and the
// simulation engine. It owns the daemon's lifecycle and is the single
// entry point cmd/simd constructs.
package app

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/satellabs/ewrange/internal/config"
	"github.com/satellabs/ewrange/internal/demo"
	"github.com/satellabs/ewrange/internal/engine"
	"github.com/satellabs/ewrange/internal/eventbus"
)

// Options holds everything the App needs from the caller.
type Options struct {
	Logger *log.Logger
	Cfg    config.Config
	Bind   string
}

// App is the top-level daemon process: the HTTP server, the event bus,
// and the simulation engine.
type App struct {
	log    *log.Logger
	cfg    config.Config
	bind   string
	server *http.Server

	bus    *eventbus.Bus
	engine *engine.Engine
}

// New creates an App with a freshly constructed engine and event bus.
// Call Run to start serving and ticking.
func New(opts Options) *App {
	bus := eventbus.New()
	a := &App{
		log:    opts.Logger,
		cfg:    opts.Cfg,
		bind:   opts.Bind,
		bus:    bus,
		engine: engine.New(bus, opts.Cfg, opts.Logger),
	}
	return a
}

// Engine returns the underlying simulation engine, used by the CLI's
// in-process demo harness and by tests.
func (a *App) Engine() *engine.Engine { return a.engine }

// Run starts the HTTP server, event bus, scenario seeding, and the
// engine's tick loop. It blocks until the context is cancelled or the
// server returns an error.
func (a *App) Run(ctx context.Context) error {
	bind := a.bind
	if bind == "" && a.cfg.Server.Bind != "" {
		bind = a.cfg.Server.Bind
	}
	if bind == "" {
		bind = "0.0.0.0:8080"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/api/status", a.handleStatus)
	mux.HandleFunc("/api/version", a.handleVersion)
	mux.HandleFunc("/api/config", a.handleConfig)
	mux.HandleFunc("/api/antennas/", a.handleAntenna)
	mux.HandleFunc("/api/transmitters/", a.handleTransmitter)
	mux.HandleFunc("/api/inject", a.handleInject)
	mux.Handle("/ws", a.bus.Handler())

	a.server = &http.Server{
		Addr:              bind,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}
	a.log.Printf("listening on http://%s", bind)

	go a.bus.Run(ctx)

	if len(a.cfg.Antennas) == 0 && len(a.cfg.Satellites) == 0 && a.cfg.Demo.Enabled {
		demo.Seed(a.engine)
		go demo.New(a.engine).Run(ctx)
	} else {
		seedFromConfig(a.engine, a.cfg)
	}

	go a.engine.Run(ctx)

	go func() {
		<-ctx.Done()
		a.log.Printf("shutdown requested")
		_ = a.server.Shutdown(context.Background())
	}()

	return a.server.Serve(ln)
}

func (a *App) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"name":           "ewrange-simd",
		"state":          a.engine.State(),
		"uptime_seconds": int64(time.Since(a.engine.StartedAt()).Seconds()),
		"tick_count":     a.engine.TickCount(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (a *App) handleVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"version":    Version,
		"go_version": GoVersion,
		"built_at":   BuiltAt,
	})
}

func (a *App) handleConfig(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a.cfg)
}

func (a *App) handleInject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := readAll(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	result := a.sendCommand("inject_signal", body)
	writeCommandResult(w, result)
}

// sendCommand sends a command to the engine and waits for the reply.
func (a *App) sendCommand(cmdType string, payload json.RawMessage) engine.CommandResult {
	reply := make(chan engine.CommandResult, 1)
	a.engine.Commands <- engine.Command{Type: cmdType, Payload: payload, Reply: reply}
	return <-reply
}

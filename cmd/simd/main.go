// Simd is the main daemon for the ewrange ground-station RF simulator.
//
// It loads a scenario configuration, starts the HTTP/WebSocket server, and
// runs the fixed-rate simulation engine, seeding the built-in demo scenario
// when the demo is enabled and the scenario configuration supplies no
// antenna and no satellite sections. Shutdown is handled gracefully on
// SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/satellabs/ewrange/internal/app"
	"github.com/satellabs/ewrange/internal/config"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "Path to scenario TOML (auto-discovers if omitted)")
		bind       = pflag.String("bind", "", "HTTP bind address (overrides config)")
	)
	pflag.Parse()

	cfgFile := *configPath
	if cfgFile == "" {
		cfgFile = config.FindConfigFile()
	}

	logger := log.New(os.Stdout, "simd ", log.LstdFlags|log.Lmicroseconds)

	var cfg config.Config
	if cfgFile == "" {
		cfg = config.Default()
		logger.Printf("no scenario file found, using defaults")
		logger.Printf("create %s/scenario.toml to customize", config.DefaultConfigDir())
	} else {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			log.Fatalf("config load failed: %v", err)
		}
		logger.Printf("loaded scenario from %s", cfgFile)
	}

	a := app.New(app.Options{
		Logger: logger,
		Cfg:    cfg,
		Bind:   *bind,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("simd failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
}

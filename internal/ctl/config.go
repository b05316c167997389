package ctl

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Config fetches and displays the daemon's running scenario configuration.
func Config(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var raw json.RawMessage
	if err := getJSON(baseURL, "/api/config", &raw); err != nil {
		return err
	}

	if jsonOutput {
		var v any
		_ = json.Unmarshal(raw, &v)
		return printJSON(v)
	}

	var cfg struct {
		Server struct {
			Bind string `json:"bind"`
		} `json:"server"`
		Logging struct {
			Level string `json:"level"`
		} `json:"logging"`
		Engine struct {
			TickHz float64 `json:"tick_hz"`
		} `json:"engine"`
		Demo struct {
			Enabled      bool   `json:"enabled"`
			ScenarioName string `json:"scenario_name"`
		} `json:"demo"`
		Antennas []struct {
			ID     string `json:"id"`
			Preset string `json:"preset"`
		} `json:"antennas"`
		Transmitters []struct {
			Unit int `json:"unit"`
		} `json:"transmitters"`
		Satellites []struct {
			NoradID int `json:"norad_id"`
		} `json:"satellites"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(header("  SCENARIO CONFIGURATION"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 50)))

	section := func(name string) {
		fmt.Printf("\n  %s\n", colorize(bold, "["+name+"]"))
	}
	field := func(key string, val any) {
		fmt.Printf("    %-20s %v\n", colorize(dim, key+":"), val)
	}

	section("server")
	field("bind", cfg.Server.Bind)

	section("logging")
	field("level", cfg.Logging.Level)

	section("engine")
	field("tick_hz", cfg.Engine.TickHz)

	section("demo")
	field("enabled", cfg.Demo.Enabled)
	field("scenario_name", cfg.Demo.ScenarioName)

	section("antennas")
	for _, a := range cfg.Antennas {
		field(a.ID, a.Preset)
	}

	section("transmitters")
	for _, t := range cfg.Transmitters {
		field(fmt.Sprintf("unit %d", t.Unit), "configured")
	}

	section("satellites")
	for _, s := range cfg.Satellites {
		field(fmt.Sprintf("norad %d", s.NoradID), "configured")
	}

	fmt.Println()

	return nil
}

// Package config handles loading, defaulting, and validation of the
// simulator's TOML scenario file. Every section maps to a typed struct so
// the rest of the codebase gets strong typing without manual key lookups.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration, mirroring the TOML sections.
type Config struct {
	Server  ServerConfig  `toml:"server"  json:"server"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
	Engine  EngineConfig  `toml:"engine"  json:"engine"`
	Demo    DemoConfig    `toml:"demo"    json:"demo"`

	Antennas     []AntennaConfig     `toml:"antenna"     json:"antennas"`
	Transmitters []TransmitterConfig `toml:"transmitter" json:"transmitters"`
	Satellites   []SatelliteConfig   `toml:"satellite"   json:"satellites"`
}

type ServerConfig struct {
	Bind string `toml:"bind" json:"bind"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

// EngineConfig controls the fixed-rate tick loop.
type EngineConfig struct {
	TickHz float64 `toml:"tick_hz" json:"tick_hz"`
}

// DemoConfig enables the built-in scenario seeded at startup when no
// scenario sections are otherwise present.
type DemoConfig struct {
	Enabled      bool   `toml:"enabled"       json:"enabled"`
	ScenarioName string `toml:"scenario_name" json:"scenario_name"`
}

// AntennaConfig describes one antenna instance: which physical preset from
// the catalog it uses, and its operator/identity fields.
type AntennaConfig struct {
	ID       string `toml:"id"        json:"id"`
	TeamID   string `toml:"team_id"   json:"team_id"`
	ServerID string `toml:"server_id" json:"server_id"`
	Preset   string `toml:"preset"    json:"preset"`

	InitialAzimuth   float64 `toml:"initial_azimuth"   json:"initial_azimuth"`
	InitialElevation float64 `toml:"initial_elevation" json:"initial_elevation"`
}

// TransmitterConfig describes one four-modem transmitter case.
type TransmitterConfig struct {
	Unit     int    `toml:"unit"      json:"unit"`
	TeamID   string `toml:"team_id"   json:"team_id"`
	ServerID string `toml:"server_id" json:"server_id"`
}

// SatelliteConfig describes one satellite and its transponder complement.
type SatelliteConfig struct {
	NoradID              int                 `toml:"norad_id"               json:"norad_id"`
	Azimuth              float64             `toml:"azimuth"                json:"azimuth"`
	Elevation            float64             `toml:"elevation"              json:"elevation"`
	FrequencyOffsetHz    float64             `toml:"frequency_offset_hz"    json:"frequency_offset_hz"`
	Transponders         []TransponderConfig `toml:"transponder"            json:"transponders"`
}

// TransponderConfig describes one bent-pipe transponder channel.
type TransponderConfig struct {
	ID                 string  `toml:"id"                   json:"id"`
	UplinkFreqHz       float64 `toml:"uplink_freq_hz"       json:"uplink_freq_hz"`
	DownlinkFreqHz     float64 `toml:"downlink_freq_hz"     json:"downlink_freq_hz"`
	BandwidthHz        float64 `toml:"bandwidth_hz"         json:"bandwidth_hz"`
	MaxPowerDBm        float64 `toml:"max_power_dbm"        json:"max_power_dbm"`
	GainDBi            float64 `toml:"gain_dbi"             json:"gain_dbi"`
	NoiseFigureDB      float64 `toml:"noise_figure_db"      json:"noise_figure_db"`
	SaturationPowerDBm float64 `toml:"saturation_power_dbm" json:"saturation_power_dbm"`
}

// DefaultConfigDir returns the XDG-compliant config directory for the
// simulator. It respects $XDG_CONFIG_HOME and falls back to
// ~/.config/ewrange.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ewrange")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ewrange")
}

// FindConfigFile searches for a scenario file in standard locations:
//  1. $EWRANGE_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/ewrange/scenario.toml
//  3. ~/.config/ewrange/scenario.toml
//  4. configs/example.toml (bundled fallback)
//
// Returns the path to the first file found, or empty string if none exist.
// An empty return means the caller should use Default() directly.
func FindConfigFile() string {
	if env := os.Getenv("EWRANGE_CONFIG"); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env
		}
	}

	xdgPath := filepath.Join(DefaultConfigDir(), "scenario.toml")
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}

	if _, err := os.Stat("configs/example.toml"); err == nil {
		return "configs/example.toml"
	}

	return ""
}

// Default returns a Config populated with sane defaults for the server,
// logging and engine sections. It lists no antennas, transmitters or
// satellites; with none configured, the built-in demo scenario supplies
// them.
func Default() Config {
	return Config{
		Server:  ServerConfig{Bind: "0.0.0.0:8080"},
		Logging: LoggingConfig{Level: "info"},
		Engine:  EngineConfig{TickHz: 60},
		Demo:    DemoConfig{Enabled: true, ScenarioName: "s1_happy_path"},
	}
}

// Load reads the TOML file at path, layers it on top of the defaults, and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Engine.TickHz <= 0 {
		return errors.New("engine.tick_hz must be > 0")
	}
	seen := map[string]bool{}
	for _, a := range cfg.Antennas {
		if a.ID == "" {
			return errors.New("antenna.id must not be empty")
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate antenna id %q", a.ID)
		}
		seen[a.ID] = true
	}
	for _, t := range cfg.Transmitters {
		if t.Unit <= 0 {
			return errors.New("transmitter.unit must be > 0")
		}
	}
	for _, s := range cfg.Satellites {
		if s.NoradID <= 0 {
			return errors.New("satellite.norad_id must be > 0")
		}
	}
	return nil
}

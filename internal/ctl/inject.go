package ctl

import (
	"fmt"
	"strings"
)

// InjectOptions controls the inject command, which adds a synthetic test
// or interferer carrier directly onto a satellite's uplink.
type InjectOptions struct {
	NoradID     int
	SignalID    string
	FrequencyHz float64
	BandwidthHz float64
	PowerDBm    float64
	JSON        bool
}

// Inject sends a signal-injection command to the daemon.
func Inject(baseURL string, opts InjectOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")

	if opts.NoradID == 0 {
		return fmt.Errorf("--norad-id required")
	}
	if opts.SignalID == "" {
		return fmt.Errorf("--signal-id required")
	}

	body := map[string]any{
		"norad_id":     opts.NoradID,
		"signal_id":    opts.SignalID,
		"frequency_hz": opts.FrequencyHz,
		"bandwidth_hz": opts.BandwidthHz,
		"power_dbm":    opts.PowerDBm,
	}

	var resp struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := postJSON(baseURL, "/api/inject", body, &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp)
	}

	fmt.Println()
	if resp.OK {
		fmt.Printf("  %s  %s\n", colorize(green, "INJECTED"), resp.Message)
	} else {
		fmt.Printf("  %s  %s\n", colorize(red, "FAILED"), resp.Error)
	}
	fmt.Println()

	return nil
}

package ctl

import (
	"fmt"
	"strings"
)

// AntennaOptions controls the antenna command.
type AntennaOptions struct {
	ID           string
	Action       string // power, tracking_mode, target, stage, apply, discard, auto_track
	On           bool
	Mode         string
	NoradID      int
	Azimuth      *float64
	Elevation    *float64
	Polarization *float64
	JSON         bool
}

// Antenna fetches an antenna's state, or performs an operator action against
// it when Action is set.
func Antenna(baseURL string, opts AntennaOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")
	if opts.ID == "" {
		return fmt.Errorf("antenna id required")
	}

	var resp map[string]any
	var err error

	switch opts.Action {
	case "":
		err = getJSON(baseURL, "/api/antennas/"+opts.ID, &resp)
	case "power":
		err = postJSON(baseURL, "/api/antennas/"+opts.ID+"/power", map[string]any{"on": opts.On}, &resp)
	case "tracking_mode":
		err = postJSON(baseURL, "/api/antennas/"+opts.ID+"/tracking_mode", map[string]any{"mode": opts.Mode}, &resp)
	case "target":
		err = postJSON(baseURL, "/api/antennas/"+opts.ID+"/target", map[string]any{"norad_id": opts.NoradID}, &resp)
	case "stage":
		err = postJSON(baseURL, "/api/antennas/"+opts.ID+"/stage", map[string]any{
			"azimuth": opts.Azimuth, "elevation": opts.Elevation, "polarization": opts.Polarization,
		}, &resp)
	case "apply":
		err = postJSON(baseURL, "/api/antennas/"+opts.ID+"/apply", nil, &resp)
	case "discard":
		err = postJSON(baseURL, "/api/antennas/"+opts.ID+"/discard", nil, &resp)
	case "auto_track":
		err = postJSON(baseURL, "/api/antennas/"+opts.ID+"/auto_track", map[string]any{"on": opts.On}, &resp)
	default:
		return fmt.Errorf("unknown antenna action: %s", opts.Action)
	}
	if err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  ANTENNA " + opts.ID))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 38)))
	field := func(key string, val any) {
		fmt.Printf("  %-16s %v\n", colorize(dim, key+":"), val)
	}
	field("powered", resp["is_powered"])
	field("locked", resp["is_locked"])
	field("tracking_mode", resp["tracking_mode"])
	field("azimuth", resp["azimuth"])
	field("elevation", resp["elevation"])
	field("polarization", resp["polarization"])
	field("target_norad", resp["target_norad"])
	fmt.Println()

	return nil
}

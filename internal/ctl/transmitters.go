package ctl

import (
	"fmt"
	"strconv"
	"strings"
)

// TransmitterOptions controls the transmitter command.
type TransmitterOptions struct {
	Unit      int
	Modem     int
	Action    string // power, transmit, fault_reset, config
	On        bool
	AntennaID string
	Frequency float64
	Bandwidth float64
	Power     float64
	JSON      bool
}

// Transmitter fetches a transmitter case's state, or performs a modem action
// against it when Action is set.
func Transmitter(baseURL string, opts TransmitterOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")
	base := "/api/transmitters/" + strconv.Itoa(opts.Unit)

	var resp map[string]any
	var err error

	switch opts.Action {
	case "":
		err = getJSON(baseURL, base, &resp)
	case "power":
		err = postJSON(baseURL, fmt.Sprintf("%s/%d/power", base, opts.Modem), map[string]any{"on": opts.On}, &resp)
	case "transmit":
		err = postJSON(baseURL, fmt.Sprintf("%s/%d/transmit", base, opts.Modem), nil, &resp)
	case "fault_reset":
		err = postJSON(baseURL, fmt.Sprintf("%s/%d/fault_reset", base, opts.Modem), nil, &resp)
	case "config":
		err = postJSON(baseURL, fmt.Sprintf("%s/%d/config", base, opts.Modem), map[string]any{
			"AntennaID": opts.AntennaID,
			"Frequency": opts.Frequency,
			"Bandwidth": opts.Bandwidth,
			"Power":     opts.Power,
		}, &resp)
	default:
		return fmt.Errorf("unknown transmitter action: %s", opts.Action)
	}
	if err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header(fmt.Sprintf("  TRANSMITTER %d", opts.Unit)))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 38)))
	modems, _ := resp["modems"].([]any)
	for _, raw := range modems {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		fmt.Printf("  modem %v  antenna=%v  powered=%v  tx=%v  faulted=%v\n",
			m["modem"], m["antenna_id"], m["is_powered"], m["is_transmitting"], m["is_faulted"])
	}
	fmt.Println()

	return nil
}

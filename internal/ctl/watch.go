package ctl

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
)

// WatchOptions controls the watch command behavior.
type WatchOptions struct {
	Filter []string // event types to show (empty = all)
	JSON   bool      // output raw JSON per event
}

// Watch connects to the daemon's WebSocket endpoint and streams events to
// the terminal in a human-readable format until interrupted, reconnecting
// with exponential backoff whenever the connection drops so a daemon
// restart doesn't require the operator to rerun the command.
func Watch(baseURL string, opts WatchOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")

	u, err := url.Parse(baseURL)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	u.Path = "/ws"
	u.RawQuery = ""

	filterSet := make(map[string]bool, len(opts.Filter))
	for _, f := range opts.Filter {
		filterSet[f] = true
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = 15 * time.Second
	bo.MaxElapsedTime = 0 // retry indefinitely until interrupted

	for {
		conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
		if err != nil {
			wait := bo.NextBackOff()
			if !opts.JSON {
				fmt.Printf("  %s %s, retrying in %s\n", colorize(red, "connect failed:"), err, wait.Round(time.Millisecond))
			}
			select {
			case <-sig:
				return nil
			case <-time.After(wait):
				continue
			}
		}
		bo.Reset()

		if !opts.JSON {
			fmt.Println()
			fmt.Printf("  %s %s\n", colorize(green, "connected"), colorize(dim, u.String()))
			if len(opts.Filter) > 0 {
				fmt.Printf("  %s %s\n", colorize(dim, "filter:"), colorize(dim, strings.Join(opts.Filter, ", ")))
			}
			fmt.Println(colorize(dim, "  "+strings.Repeat("─", 50)))
			fmt.Println()
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					return
				}
				if len(filterSet) > 0 {
					var ev map[string]any
					if err := json.Unmarshal(msg, &ev); err == nil {
						evType, _ := ev["type"].(string)
						if !filterSet[evType] {
							continue
						}
					}
				}
				if opts.JSON {
					fmt.Println(string(msg))
				} else {
					renderEvent(msg)
				}
			}
		}()

		select {
		case <-sig:
			if !opts.JSON {
				fmt.Println()
				fmt.Println(colorize(dim, "  disconnecting..."))
			}
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
				time.Now().Add(1*time.Second),
			)
			conn.Close()
			return nil
		case <-done:
			conn.Close()
			if !opts.JSON {
				fmt.Printf("  %s reconnecting...\n", colorize(yellow, "disconnected,"))
			}
		}
	}
}

// renderEvent parses a JSON event and prints it in a human-friendly format.
// Falls back to raw JSON for unrecognized event types.
func renderEvent(raw []byte) {
	var ev map[string]any
	if err := json.Unmarshal(raw, &ev); err != nil {
		fmt.Printf("  %s\n", string(raw))
		return
	}

	evType, _ := ev["type"].(string)
	ts := formatEventTime(ev)

	switch evType {
	case "heartbeat":
		state, _ := ev["state"].(string)
		uptime, _ := ev["uptime_seconds"].(float64)
		tick, _ := ev["tick_count"].(float64)
		fmt.Printf("  %s %s  %s  up %s  tick=%.0f\n",
			colorize(dim, ts),
			colorize(dim, "heartbeat"),
			colorize(stateColor(state), state),
			colorize(dim, formatDuration(time.Duration(uptime)*time.Second)),
			tick,
		)

	case "state":
		from, _ := ev["from"].(string)
		to, _ := ev["to"].(string)
		fmt.Printf("  %s %s  %s %s %s\n",
			colorize(dim, ts), colorize(bold, "STATE"),
			colorize(stateColor(from), from), colorize(dim, "->"), colorize(stateColor(to), to),
		)

	case "antenna_state_changed":
		id, _ := ev["antenna_id"].(string)
		mode, _ := ev["tracking_mode"].(string)
		az, _ := ev["azimuth"].(float64)
		el, _ := ev["elevation"].(float64)
		fmt.Printf("  %s %s  %s  mode=%s  az=%.2f  el=%.2f\n",
			colorize(dim, ts), colorize(cyan, "ANTENNA"), id, mode, az, el)

	case "antenna_fault":
		id, _ := ev["antenna_id"].(string)
		msg, _ := ev["message"].(string)
		fmt.Printf("  %s %s  %s  %s\n", colorize(dim, ts), colorize(red, "FAULT"), id, msg)

	case "antenna_locked":
		id, _ := ev["antenna_id"].(string)
		locked, _ := ev["locked"].(bool)
		state := "UNLOCKED"
		color := yellow
		if locked {
			state, color = "LOCKED", green
		}
		fmt.Printf("  %s %s  %s  %s\n", colorize(dim, ts), colorize(color, state), id, colorize(dim, "antenna"))

	case "tx_error":
		unit, _ := ev["unit"].(float64)
		modem, _ := ev["modem"].(float64)
		msg, _ := ev["message"].(string)
		fmt.Printf("  %s %s  unit=%.0f modem=%.0f  %s\n", colorize(dim, ts), colorize(red, "TX_ERROR"), unit, modem, msg)

	case "satellite_health_changed":
		norad, _ := ev["norad_id"].(float64)
		health, _ := ev["health"].(float64)
		fmt.Printf("  %s %s  norad=%.0f  health=%.1f\n", colorize(dim, ts), colorize(yellow, "SATELLITE"), norad, health)

	case "interference":
		id, _ := ev["antenna_id"].(string)
		wanted, _ := ev["wanted_signal_id"].(string)
		ci, _ := ev["ci_ratio_db"].(float64)
		blocked, _ := ev["blocked"].(bool)
		label := "DEGRADED"
		color := yellow
		if blocked {
			label, color = "BLOCKED", red
		}
		fmt.Printf("  %s %s  %s  wanted=%s  C/I=%.1fdB\n", colorize(dim, ts), colorize(color, label), id, wanted, ci)

	case "receiver_status":
		id, _ := ev["antenna_id"].(string)
		sig, _ := ev["signal_id"].(string)
		status, _ := ev["status"].(string)
		fmt.Printf("  %s %s  %s  %s -> %s\n", colorize(dim, ts), colorize(cyan, "RX"), id, sig, status)

	case "log":
		level, _ := ev["level"].(string)
		message, _ := ev["message"].(string)
		fmt.Printf("  %s %s  %s\n", colorize(dim, ts), formatLogLevel(level), message)

	default:
		pretty, err := json.MarshalIndent(ev, "  ", "  ")
		if err != nil {
			fmt.Printf("  %s\n", string(raw))
			return
		}
		fmt.Printf("  %s\n", string(pretty))
	}
}

// formatEventTime extracts and shortens the timestamp from an event.
func formatEventTime(ev map[string]any) string {
	tsRaw, ok := ev["ts"].(string)
	if !ok {
		return "          "
	}
	t, err := time.Parse(time.RFC3339Nano, tsRaw)
	if err != nil {
		return tsRaw[:10]
	}
	return t.Local().Format("15:04:05")
}

// formatLogLevel returns a colored, fixed-width log level label.
func formatLogLevel(level string) string {
	switch level {
	case "info":
		return colorize(green, "INFO ")
	case "warn":
		return colorize(yellow, "WARN ")
	case "error":
		return colorize(red, "ERROR")
	default:
		return padRight(level, 5)
	}
}

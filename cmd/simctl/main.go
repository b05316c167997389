// Simctl is the command-line client for monitoring and controlling a
// running simd instance. It connects over HTTP and WebSocket to query
// state and stream live telemetry from the simulator.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/satellabs/ewrange/internal/ctl"
)

func main() {
	var (
		host    = pflag.StringP("host", "H", "http://127.0.0.1:8080", "Simulator daemon URL (e.g. http://192.168.8.1:8080)")
		jsonOut = pflag.Bool("json", false, "Output raw JSON instead of formatted text")
		filter  = pflag.StringSlice("filter", nil, "Event types to show in watch (e.g. --filter antenna_state_changed,log)")
	)

	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	var err error
	switch cmd {
	case "status":
		err = ctl.Status(*host, *jsonOut)

	case "health":
		err = ctl.Health(*host, *jsonOut)

	case "version":
		err = ctl.VersionInfo(*host, *jsonOut)

	case "config":
		err = ctl.Config(*host, *jsonOut)

	case "antenna":
		opts := ctl.AntennaOptions{JSON: *jsonOut}
		flags := pflag.NewFlagSet("antenna", pflag.ContinueOnError)
		flags.StringVar(&opts.Action, "action", "", "power|tracking_mode|target|stage|apply|discard|auto_track")
		flags.BoolVar(&opts.On, "on", false, "on/off for power and auto_track actions")
		flags.StringVar(&opts.Mode, "mode", "", "tracking mode for tracking_mode action")
		flags.IntVar(&opts.NoradID, "norad-id", 0, "target satellite for target action")
		az := flags.Float64("azimuth", 0, "staged azimuth degrees")
		el := flags.Float64("elevation", 0, "staged elevation degrees")
		_ = flags.Parse(subArgs)
		if flags.Changed("azimuth") {
			opts.Azimuth = az
		}
		if flags.Changed("elevation") {
			opts.Elevation = el
		}
		if flags.NArg() > 0 {
			opts.ID = flags.Arg(0)
		}
		err = ctl.Antenna(*host, opts)

	case "transmitter":
		opts := ctl.TransmitterOptions{JSON: *jsonOut}
		flags := pflag.NewFlagSet("transmitter", pflag.ContinueOnError)
		flags.IntVar(&opts.Unit, "unit", 1, "transmitter unit number")
		flags.IntVar(&opts.Modem, "modem", 1, "modem number (1-4)")
		flags.StringVar(&opts.Action, "action", "", "power|transmit|fault_reset|config")
		flags.BoolVar(&opts.On, "on", false, "on/off for power action")
		flags.StringVar(&opts.AntennaID, "antenna-id", "", "antenna ID for config action")
		flags.Float64Var(&opts.Frequency, "frequency-hz", 0, "carrier frequency for config action")
		flags.Float64Var(&opts.Bandwidth, "bandwidth-hz", 0, "carrier bandwidth for config action")
		flags.Float64Var(&opts.Power, "power-dbm", 0, "carrier power for config action")
		_ = flags.Parse(subArgs)
		err = ctl.Transmitter(*host, opts)

	case "inject":
		opts := ctl.InjectOptions{JSON: *jsonOut}
		flags := pflag.NewFlagSet("inject", pflag.ContinueOnError)
		flags.IntVar(&opts.NoradID, "norad-id", 0, "target satellite NORAD ID")
		flags.StringVar(&opts.SignalID, "signal-id", "", "unique identifier for the injected carrier")
		flags.Float64Var(&opts.FrequencyHz, "frequency-hz", 0, "carrier frequency in Hz")
		flags.Float64Var(&opts.BandwidthHz, "bandwidth-hz", 0, "carrier bandwidth in Hz")
		flags.Float64Var(&opts.PowerDBm, "power-dbm", 0, "carrier power in dBm")
		_ = flags.Parse(subArgs)
		err = ctl.Inject(*host, opts)

	case "watch":
		err = ctl.Watch(*host, ctl.WatchOptions{Filter: *filter, JSON: *jsonOut})

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`
  simctl — ewrange simulator control CLI

  USAGE
    simctl [flags] <command> [command-flags]

  COMMANDS (query)
    status          Show daemon state, uptime, and tick count
    health          Check daemon liveness
    version         Show CLI and daemon version information
    config          Show the daemon's running scenario configuration

  COMMANDS (control)
    antenna ID      Inspect or drive one antenna's pointing/tracking state
    transmitter     Inspect or drive one transmitter case's modems
    inject          Inject a synthetic carrier onto a satellite's uplink

  COMMANDS (live)
    watch           Stream live telemetry from the daemon (Ctrl-C to stop)

  GLOBAL FLAGS
    -H, --host URL      Daemon base URL (default: http://127.0.0.1:8080)
        --json          Output raw JSON instead of formatted text
        --filter TYPE   Event types to show in watch (comma-separated)

  COMMAND FLAGS
    antenna ID:
        --action ACTION     power|tracking_mode|target|stage|apply|discard|auto_track
        --on                Power/auto-track on
        --mode MODE         stow|maintenance|manual|step_track|program_track
        --norad-id ID       Target satellite for the target action
        --azimuth DEG       Staged azimuth for the stage action
        --elevation DEG     Staged elevation for the stage action

    transmitter:
        --unit N            Transmitter unit (default 1)
        --modem N           Modem number 1-4 (default 1)
        --action ACTION     power|transmit|fault_reset|config
        --on                Power on/off
        --antenna-id ID     Antenna to radiate through (config action)
        --frequency-hz HZ   Carrier frequency (config action)
        --bandwidth-hz HZ   Carrier bandwidth (config action)
        --power-dbm DBM     Carrier power (config action)

    inject:
        --norad-id ID       Target satellite NORAD ID
        --signal-id ID      Unique identifier for the injected carrier
        --frequency-hz HZ   Carrier frequency
        --bandwidth-hz HZ   Carrier bandwidth
        --power-dbm DBM     Carrier power

  EXAMPLES
    simctl status
    simctl --json status
    simctl antenna ANT-1
    simctl antenna ANT-1 --action target --norad-id 40732
    simctl antenna ANT-1 --action tracking_mode --mode program_track
    simctl antenna ANT-1 --action power --on
    simctl transmitter --unit 1
    simctl transmitter --unit 1 --modem 1 --action power --on
    simctl inject --norad-id 40732 --signal-id jammer-1 --frequency-hz 5925e6 --bandwidth-hz 1e6 --power-dbm 10
    simctl --filter interference,receiver_status watch

`)
}

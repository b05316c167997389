// Package demo seeds and scripts the simulator's built-in happy-path
// scenario, so the daemon, CLI, and dashboard can be exercised end to end
// with no scenario configuration file and no operator present.
package demo

import (
	"context"
	"time"

	"github.com/satellabs/ewrange/internal/antenna"
	"github.com/satellabs/ewrange/internal/engine"
	"github.com/satellabs/ewrange/internal/satellite"
	"github.com/satellabs/ewrange/internal/transmitter"
	"github.com/satellabs/ewrange/internal/units"
)

// Demo scenario identifiers, exported so the CLI and HTTP layer can refer
// to the seeded objects by name.
const (
	AntennaID      = "ANT-1"
	SatelliteNorad = 40732
	TransmitterUnit = 1
)

// Seed populates e with one C-band antenna, one four-modem transmitter
// case feeding it, and one GEO satellite with a matching transponder. It
// is invoked at startup when the demo is enabled and the loaded scenario
// configuration has no antenna and no satellite sections of its own.
func Seed(e *engine.Engine) {
	cfg, _ := antenna.ConfigByName("C_BAND_9M_VORTEK")
	e.AddAntenna(AntennaID, "BLUE", "srv-1", cfg)

	sat := satellite.New(SatelliteNorad, 120, 45, units.Hz(units.SatelliteUplinkDownlinkOffsetHz))
	sat.AddTransponder(&satellite.Transponder{
		ID:              "XPDR-1",
		UplinkFreq:      5925e6,
		DownlinkFreq:    3700e6,
		Bandwidth:       36e6,
		MaxPower:        45,
		Gain:            110,
		NoiseFigure:     3,
		SaturationPower: 48,
		Active:          true,
	})
	e.AddSatellite(sat)

	e.AddTransmitter(TransmitterUnit, "BLUE", "srv-1")
}

// Runner scripts a fixed, one-shot sequence of operator actions against the
// seeded scenario: antenna acquisition, transmitter power-up, and a
// steady-state uplink. It exists so the demo produces a realistic
// end-to-end event stream with nobody driving the console; once the
// sequence finishes the scenario's steady state is sustained entirely by
// the engine's tick loop, so Runner does not loop.
type Runner struct {
	Engine *engine.Engine
}

// New constructs a Runner bound to e.
func New(e *engine.Engine) *Runner { return &Runner{Engine: e} }

// Run executes the scripted sequence, returning early if ctx is
// cancelled mid-sequence.
func (r *Runner) Run(ctx context.Context) {
	steps := []struct {
		after time.Duration
		fn    func()
	}{
		{2 * time.Second, r.pointAntenna},
		{4 * time.Second, r.powerTransmitter},
		{8 * time.Second, r.applyModemConfig},
		{9 * time.Second, r.startTransmit},
	}
	for _, step := range steps {
		if !sleepOrCancel(ctx, step.after) {
			return
		}
		step.fn()
	}
}

func (r *Runner) pointAntenna() {
	ant := r.Engine.Antenna(AntennaID)
	if ant == nil {
		return
	}
	ant.State.TargetSatelliteID = SatelliteNorad
	ant.State.SetTrackingMode(antenna.TrackingProgramTrack, r.Engine.Queue(), r.Engine.NowMs())
	ant.State.SetPowered(true)
}

func (r *Runner) powerTransmitter() {
	tx := r.Engine.Transmitter(TransmitterUnit)
	if tx == nil {
		return
	}
	tx.TogglePower(1, true)
}

func (r *Runner) applyModemConfig() {
	tx := r.Engine.Transmitter(TransmitterUnit)
	if tx == nil {
		return
	}
	tx.ApplyChanges(1, transmitter.ModemConfig{
		AntennaID: AntennaID,
		Frequency: 5925e6,
		Bandwidth: 36e6,
		Power:     -95,
	})
}

func (r *Runner) startTransmit() {
	tx := r.Engine.Transmitter(TransmitterUnit)
	if tx == nil {
		return
	}
	tx.ToggleTransmit(1)
}

func sleepOrCancel(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

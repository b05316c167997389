// Package engine drives the fixed-rate tick loop that ties the simulation
// manager, antennas, transmitters, satellites, and event bus together. It
// owns the single authoritative simulation clock every deferred task in
// the system schedules against.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/satellabs/ewrange/internal/antenna"
	"github.com/satellabs/ewrange/internal/config"
	"github.com/satellabs/ewrange/internal/eventbus"
	"github.com/satellabs/ewrange/internal/receiver"
	"github.com/satellabs/ewrange/internal/rfsignal"
	"github.com/satellabs/ewrange/internal/satellite"
	"github.com/satellabs/ewrange/internal/simmanager"
	"github.com/satellabs/ewrange/internal/telemetry"
	"github.com/satellabs/ewrange/internal/timer"
	"github.com/satellabs/ewrange/internal/transmitter"
	"github.com/satellabs/ewrange/internal/units"
)

// Command represents an external command sent to the engine via its
// Commands channel. The Reply channel receives exactly one result.
type Command struct {
	Type    string
	Payload json.RawMessage
	Reply   chan<- CommandResult
}

// CommandResult is the response sent back through a Command's Reply
// channel.
type CommandResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// antennaEntry pairs an antenna core with the cached result of its most
// recent receive pipeline, used by legacy auto-track's lock check.
type antennaEntry struct {
	core              *antenna.Core
	lastBestPowerDBm  units.DBm
	haveLastBestPower bool
}

// Engine is the top-level simulation runner.
type Engine struct {
	Bus *eventbus.Bus
	Cfg config.Config
	Log *log.Logger

	// Commands receives external commands from HTTP/CLI handlers. The
	// engine drains this channel inline between ticks.
	Commands chan Command

	manager      *simmanager.Manager
	antennas     map[string]*antennaEntry
	transmitters map[int]*transmitter.State

	queue     *timer.Queue
	nowMs     int64
	tickCount int64
	startedAt time.Time

	state atomic.Value
}

// New creates an Engine in the BOOTING state with empty satellite,
// antenna, and transmitter registries.
func New(bus *eventbus.Bus, cfg config.Config, logger *log.Logger) *Engine {
	e := &Engine{
		Bus:          bus,
		Cfg:          cfg,
		Log:          logger,
		Commands:     make(chan Command, 8),
		manager:      simmanager.New(),
		antennas:     make(map[string]*antennaEntry),
		transmitters: make(map[int]*transmitter.State),
		queue:        timer.NewQueue(),
		startedAt:    time.Now(),
	}
	e.state.Store("BOOTING")
	return e
}

// clockMs satisfies the clock dependency every deferred-task-scheduling
// component in the system takes, so its timers always land on this
// engine's tick timeline rather than wall-clock time.
func (e *Engine) clockMs() int64 { return e.nowMs }

// AddSatellite registers a satellite with the simulation manager.
func (e *Engine) AddSatellite(sat *satellite.Satellite) { e.manager.AddSatellite(sat) }

// AddAntenna constructs and registers a new antenna core under id, wiring
// its state-change callbacks to the event bus.
func (e *Engine) AddAntenna(id, teamID, serverID string, cfg antenna.Config) *antenna.Core {
	core := antenna.NewCore(cfg, teamID, serverID)
	entry := &antennaEntry{core: core}
	e.antennas[id] = entry

	core.State.OnFault(func(_ *antenna.State, msg string) {
		e.Bus.PublishPhased(telemetry.PhaseSync, &telemetry.AntennaFault{AntennaID: id, Message: msg})
	})
	core.State.OnLocked(func(_ *antenna.State, locked bool) {
		e.Bus.PublishPhased(telemetry.PhaseSync, &telemetry.AntennaLocked{AntennaID: id, Locked: locked})
	})
	core.State.OnStateChanged(func(s *antenna.State) {
		e.Bus.PublishPhased(telemetry.PhaseSync, &telemetry.AntennaStateChanged{
			AntennaID:    id,
			TrackingMode: string(s.TrackingMode),
			Azimuth:      float64(s.Azimuth),
			Elevation:    float64(s.Elevation),
			IsLocked:     s.IsLocked,
			IsPowered:    s.IsPowered,
		})
	})
	core.State.SetCarrierPowerProvider(func() (units.DBm, bool) {
		return entry.lastBestPowerDBm, entry.haveLastBestPower
	})
	return core
}

// AddTransmitter constructs and registers a new four-modem transmitter
// case under unit, wiring its error events to the event bus.
func (e *Engine) AddTransmitter(unit int, teamID, serverID string) *transmitter.State {
	s := transmitter.New(unit, teamID, serverID, e.queue, e.clockMs, func(ev transmitter.ErrorEvent) {
		e.Bus.PublishPhased(telemetry.PhaseSync, &telemetry.TxError{
			Unit: ev.Unit, Modem: ev.Modem, Message: ev.Message,
		})
	})
	e.transmitters[unit] = s
	return s
}

// Antenna returns the registered antenna core for id, or nil.
func (e *Engine) Antenna(id string) *antenna.Core {
	entry, ok := e.antennas[id]
	if !ok {
		return nil
	}
	return entry.core
}

// Transmitter returns the registered transmitter case for unit, or nil.
func (e *Engine) Transmitter(unit int) *transmitter.State { return e.transmitters[unit] }

// Manager returns the underlying satellite registry.
func (e *Engine) Manager() *simmanager.Manager { return e.manager }

// Queue returns the engine's shared deferred-task queue, needed by
// handlers that schedule antenna timers (auto-track lock acquisition).
func (e *Engine) Queue() *timer.Queue { return e.queue }

// NowMs returns the engine's current simulation clock in milliseconds.
func (e *Engine) NowMs() int64 { return e.nowMs }

// SatellitePosition implements antenna.FrontEnd.
func (e *Engine) SatellitePosition(noradID int) (az, el units.Degrees, rangeKm float64, ok bool) {
	sat := e.manager.SatByNorad(noradID)
	if sat == nil {
		return 0, 0, 0, false
	}
	return sat.Az, sat.El, units.GeoSlantRangeKm, true
}

// sceneryAzElToleranceDeg is the default tol_deg for satellite-proximity
// lookups, matching the simulation manager's own default.
const sceneryAzElToleranceDeg = 1.0

// StrongestCarrierNear reports the strongest downlink carrier radiated by
// any satellite near the given pointing direction, for legacy auto-track's
// acquisition check.
func (e *Engine) StrongestCarrierNear(az, el units.Degrees) (satAz, satEl units.Degrees, powerDBm units.DBm, ok bool) {
	return e.manager.StrongestCarrierNear(az, el, sceneryAzElToleranceDeg)
}

// DownlinkSignals implements antenna.FrontEnd.
func (e *Engine) DownlinkSignals(noradID int) []rfsignal.Signal {
	sat := e.manager.SatByNorad(noradID)
	if sat == nil {
		return nil
	}
	return sat.TxSignal
}

// State returns the engine's current lifecycle state string.
func (e *Engine) State() string {
	v, _ := e.state.Load().(string)
	return v
}

// TickCount returns the number of ticks processed since Run started.
func (e *Engine) TickCount() int64 { return e.tickCount }

// StartedAt returns the time the engine was constructed.
func (e *Engine) StartedAt() time.Time { return e.startedAt }

// Run starts the fixed-rate tick loop at the configured tick rate. It
// blocks until ctx is cancelled, draining Commands between ticks.
func (e *Engine) Run(ctx context.Context) {
	interval := time.Duration(float64(time.Second) / e.Cfg.Engine.TickHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.transition("RUNNING")
	heartbeatEveryTicks := int64(e.Cfg.Engine.TickHz)
	if heartbeatEveryTicks <= 0 {
		heartbeatEveryTicks = 60
	}

	for {
		select {
		case <-ctx.Done():
			e.transition("STOPPED")
			return
		case cmd := <-e.Commands:
			e.handleCommand(cmd)
		case <-ticker.C:
			e.tick(interval, heartbeatEveryTicks)
		}
	}
}

// tick advances every component by one simulation step in the order the
// data actually flows: timers, then antenna pointing/rx/tx (which both
// consumes this tick's transmitter carriers and produces this tick's
// satellite uplink), then satellite transponder processing.
func (e *Engine) tick(dt time.Duration, heartbeatEveryTicks int64) {
	dtSec := dt.Seconds()
	e.nowMs += dt.Milliseconds()
	e.tickCount++
	e.queue.Advance(e.nowMs)

	for _, sat := range e.manager.All() {
		sat.ClearRx()
	}

	uplinkByAntenna := make(map[string][]rfsignal.Signal)
	for _, tx := range e.transmitters {
		for antID, carriers := range tx.ActiveCarriersByAntenna() {
			uplinkByAntenna[antID] = append(uplinkByAntenna[antID], carriers...)
		}
	}

	for id, entry := range e.antennas {
		results, txSigs := entry.core.Tick(dtSec, e.queue, e.nowMs, e, uplinkByAntenna[id])

		var best units.DBm
		haveBest := false
		for _, r := range results {
			if !haveBest || r.ReceivedPowerDBm > best {
				best, haveBest = r.ReceivedPowerDBm, true
			}
			status := receiver.Classify(r.ReceivedPowerDBm, noiseFloorFor(entry.core), r.Blocked, r.Degraded)
			e.Bus.PublishPhased(telemetry.PhaseUpdate, &telemetry.ReceiverStatusEvent{
				AntennaID: id, SignalID: r.SignalID, Status: string(status),
			})
			if r.Blocked || r.Degraded {
				e.Bus.PublishPhased(telemetry.PhaseUpdate, &telemetry.InterferenceEvent{
					AntennaID: id, WantedID: r.SignalID,
					CIRatioDB: float64(r.CIRatioDB), Blocked: r.Blocked, Degraded: r.Degraded,
				})
			}
		}
		entry.lastBestPowerDBm, entry.haveLastBestPower = best, haveBest

		if len(txSigs) > 0 && !entry.core.State.IsLoopback {
			st := entry.core.State
			for _, sat := range e.manager.SatsByAzEl(st.NormalizedAzimuth(), st.Elevation, sceneryAzElToleranceDeg) {
				e.manager.RouteUplink(sat.NoradID, txSigs)
			}
		}
	}

	for _, sat := range e.manager.All() {
		prevHealth := sat.Health
		sat.Tick()
		if sat.Health != prevHealth {
			e.Bus.PublishPhased(telemetry.PhaseUpdate, &telemetry.SatelliteHealthChanged{
				NoradID: sat.NoradID, Health: sat.Health,
			})
		}
	}

	if e.tickCount%heartbeatEveryTicks == 0 {
		e.Bus.PublishPhased(telemetry.PhaseSync, &telemetry.Heartbeat{
			State:         e.State(),
			UptimeSeconds: int64(time.Since(e.startedAt).Seconds()),
			TickCount:     e.tickCount,
		})
	}
}

// noiseFloorFor returns the antenna's most recently computed noise floor,
// or a conservative fallback before the first metrics snapshot exists.
func noiseFloorFor(core *antenna.Core) units.DBm {
	if core.State.RFMetrics != nil {
		return core.State.RFMetrics.NoiseFloorDBm
	}
	return units.DBm(-120)
}

// transition atomically updates the engine's lifecycle state and
// broadcasts the change to every connected client.
func (e *Engine) transition(newState string) {
	old := e.State()
	if old == newState {
		return
	}
	e.state.Store(newState)
	e.Bus.PublishPhased(telemetry.PhaseSync, &telemetry.StateTransition{From: old, To: newState})
}

// handleCommand dispatches an incoming command to the appropriate
// handler.
func (e *Engine) handleCommand(cmd Command) {
	switch cmd.Type {
	case "inject_signal":
		e.handleInjectSignal(cmd)
	default:
		cmd.Reply <- CommandResult{OK: false, Error: "unknown command: " + cmd.Type}
	}
}

// handleInjectSignal adds an external test carrier directly to a
// satellite's uplink, bypassing any transmitter/antenna — the mechanism
// the training console uses to inject interferers and known-good test
// carriers.
func (e *Engine) handleInjectSignal(cmd Command) {
	var payload struct {
		NoradID     int     `json:"norad_id"`
		SignalID    string  `json:"signal_id"`
		FrequencyHz float64 `json:"frequency_hz"`
		BandwidthHz float64 `json:"bandwidth_hz"`
		PowerDBm    float64 `json:"power_dbm"`
	}
	if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
		cmd.Reply <- CommandResult{OK: false, Error: "invalid payload: " + err.Error()}
		return
	}
	e.manager.AddSignal(rfsignal.Signal{
		SignalID:  payload.SignalID,
		NoradID:   payload.NoradID,
		Frequency: units.Hz(payload.FrequencyHz),
		Bandwidth: units.Hz(payload.BandwidthHz),
		Power:     units.DBm(payload.PowerDBm),
		Origin:    units.OriginTransmitter,
	})
	cmd.Reply <- CommandResult{
		OK:      true,
		Message: fmt.Sprintf("injected signal %s on satellite %d", payload.SignalID, payload.NoradID),
	}
}

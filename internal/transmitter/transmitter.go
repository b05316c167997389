// Package transmitter models a ground-station transmitter case: four IF
// modems, each capable of producing at most one active outgoing carrier,
// sharing an aggregate power budget enforced across the case.
package transmitter

import (
	"fmt"
	"math"

	"github.com/satellabs/ewrange/internal/rfsignal"
	"github.com/satellabs/ewrange/internal/timer"
	"github.com/satellabs/ewrange/internal/units"
)

// ErrorEvent is emitted (via the caller-supplied sink) whenever a modem
// operation fails or the power budget is exceeded. The core never treats
// this as a reason to abort the tick; it is purely informational.
type ErrorEvent struct {
	Unit    int
	Modem   int
	Message string
}

// State is one transmitter case: four modems sharing a team/server
// identity and a single power budget.
type State struct {
	Unit         int
	TeamID       string
	ServerID     string
	Modems       [4]*Modem
	ActiveModem  int

	queue *timer.Queue
	clock func() int64
	errs  func(ErrorEvent)
}

// New constructs a transmitter case with four idle modems. queue is the
// engine's shared deferred-task queue (see internal/timer); clock returns
// the engine's current simulation clock in milliseconds, so timers
// scheduled here land on the same timeline the engine advances the queue
// with; errs receives TX_ERROR-equivalent notifications.
func New(unit int, teamID, serverID string, queue *timer.Queue, clock func() int64, errs func(ErrorEvent)) *State {
	s := &State{Unit: unit, TeamID: teamID, ServerID: serverID, ActiveModem: 1, queue: queue, clock: clock, errs: errs}
	for i := 0; i < 4; i++ {
		s.Modems[i] = NewModem(fmt.Sprintf("tx%d-modem%d", unit, i+1), i+1)
	}
	return s
}

// modem returns the 1-indexed modem, or nil if out of range.
func (s *State) modem(n int) *Modem {
	if n < 1 || n > 4 {
		return nil
	}
	return s.Modems[n-1]
}

// PowerConsumptionWatts computes a modem configuration's power draw:
// (bandwidth_Hz / 1e6) * 10^((120 + power_dBm)/10).
func PowerConsumptionWatts(bandwidth units.Hz, power units.DBm) float64 {
	return (float64(bandwidth) / 1e6) * math.Pow(10, (120+float64(power))/10)
}

// PowerPercent returns the percentage of the aggregate budget a single
// configuration consumes, rounded to the nearest integer. Monotone
// non-decreasing in both bandwidth and power, per spec.md §8 invariant 5.
func PowerPercent(bandwidth units.Hz, power units.DBm) int {
	pct := 100 * PowerConsumptionWatts(bandwidth, power) / units.PowerBudgetW
	return int(math.Round(pct))
}

// aggregatePowerWatts sums the power consumption of every currently
// transmitting, non-faulted modem's configuration.
func (s *State) aggregatePowerWatts() float64 {
	total := 0.0
	for _, m := range s.Modems {
		if m.IsTransmitting && !m.IsFaulted {
			total += PowerConsumptionWatts(m.Config.Bandwidth, m.Config.Power)
		}
	}
	return total
}

// ToggleTransmit flips the transmit switch for modem n and re-validates
// the power budget. Exceeding the budget faults the offending modem and
// emits a TX_ERROR-equivalent event; it never panics or aborts the tick.
func (s *State) ToggleTransmit(n int) {
	m := s.modem(n)
	if m == nil || !m.IsPowered {
		return
	}
	m.IsTransmittingSwitchUp = !m.IsTransmittingSwitchUp
	m.IsTransmitting = m.IsTransmittingSwitchUp
	s.updateTransmissionState(m)
}

// updateTransmissionState re-checks the aggregate power budget after a
// transmit-state change and faults the modem if the budget is exceeded.
func (s *State) updateTransmissionState(m *Modem) {
	if !m.IsTransmitting {
		return
	}
	if s.aggregatePowerWatts() > units.PowerBudgetW {
		m.IsFaulted = true
		if s.errs != nil {
			s.errs(ErrorEvent{
				Unit:    s.Unit,
				Modem:   m.ModemNumber,
				Message: fmt.Sprintf("modem %d exceeds power budget", m.ModemNumber),
			})
		}
	}
}

// ToggleFaultReset raises the fault-reset switch and schedules a single
// 250 ms deferred action that clears IsFaulted only if the modem is not
// transmitting at that instant, then lowers the switch. A call while a
// reset is already pending cancels it and starts a fresh 250 ms timer, so
// only the last call's reset fires.
func (s *State) ToggleFaultReset(n int) {
	m := s.modem(n)
	if m == nil {
		return
	}
	m.IsFaultSwitchUp = true
	m.faultResetHandle.Cancel() // coalesce: cancel any reset already pending
	m.faultResetHandle = s.queue.Schedule(s.nowMs(), faultResetDelayMs, func() {
		if !m.IsTransmitting {
			m.IsFaulted = false
		}
		m.IsFaultSwitchUp = false
	})
}

// TogglePower powers a modem on or off. Powering off immediately clears
// IsTransmitting and IsFaulted and cancels any pending timers owned by
// this modem — the cancellation contract from spec.md §5. Powering on
// schedules a 4 s ramp before IsPowered becomes true.
func (s *State) TogglePower(n int, on bool) {
	m := s.modem(n)
	if m == nil {
		return
	}
	if !on {
		m.cancelTimers()
		m.IsPowered = false
		m.IsTransmitting = false
		m.IsTransmittingSwitchUp = false
		m.IsFaulted = false
		m.IsFaultSwitchUp = false
		return
	}
	m.cancelTimers()
	m.powerUpHandle = s.queue.Schedule(s.nowMs(), powerUpRampMs, func() {
		m.IsPowered = true
	})
}

// ApplyChanges commits a staged modem configuration into IFSignal and
// re-validates the power budget. This is an all-or-nothing commit in the
// sense that the configuration either fully applies or the modem is
// faulted — there is no partially-applied state.
func (s *State) ApplyChanges(n int, cfg ModemConfig) {
	m := s.modem(n)
	if m == nil {
		return
	}
	m.Config = cfg
	m.AntennaID = cfg.AntennaID
	sig := rfsignal.Signal{
		SignalID:  m.ID,
		ServerID:  s.ServerID,
		Frequency: cfg.Frequency,
		Bandwidth: cfg.Bandwidth,
		Power:     cfg.Power,
		Origin:    units.OriginTransmitter,
	}
	m.IFSignal = &sig
	s.updateTransmissionState(m)
}

// ActiveCarriers returns the IF carrier produced by every modem in this
// case that is currently powered, transmitting, and not faulted — the set
// the RF front end should see as this transmitter's contribution.
func (s *State) ActiveCarriers() []rfsignal.Signal {
	var out []rfsignal.Signal
	for _, m := range s.Modems {
		if c := m.activeCarrier(); c != nil {
			out = append(out, *c)
		}
	}
	return out
}

// ActiveCarriersByAntenna groups this case's active carriers by the
// antenna ID each modem is configured to radiate through, so the engine
// can hand each antenna only the carriers routed to it.
func (s *State) ActiveCarriersByAntenna() map[string][]rfsignal.Signal {
	out := make(map[string][]rfsignal.Signal)
	for _, m := range s.Modems {
		c := m.activeCarrier()
		if c == nil {
			continue
		}
		out[m.AntennaID] = append(out[m.AntennaID], *c)
	}
	return out
}

// nowMs returns the engine's current simulation clock, used as the base
// time for scheduling deferred tasks.
func (s *State) nowMs() int64 {
	return s.clock()
}

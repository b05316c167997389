// Package simmanager implements the process-wide registry of satellites
// that the rest of the simulation core queries against. The original
// browser implementation modeled this as a global singleton; per the
// design notes this is re-architected as a plain owned object threaded
// through the tick loop by the caller (see internal/engine), with no
// package-level mutable state, so tests can construct a fresh Manager per
// case.
package simmanager

import (
	"math"

	"github.com/satellabs/ewrange/internal/rfsignal"
	"github.com/satellabs/ewrange/internal/satellite"
	"github.com/satellabs/ewrange/internal/units"
)

// Manager is a single-threaded registry of satellites keyed by NORAD
// catalog ID. It is owned by the engine's tick loop; nothing else should
// hold a reference across ticks.
type Manager struct {
	sats map[int]*satellite.Satellite

	// DeveloperMode affects only diagnostic status text surfaced to
	// operators; it has no effect on physics or control logic.
	DeveloperMode bool
}

// New returns an empty manager.
func New() *Manager {
	return &Manager{sats: make(map[int]*satellite.Satellite)}
}

// AddSatellite registers sat, keyed by its NoradID. A satellite already
// registered under the same NORAD id is replaced.
func (m *Manager) AddSatellite(sat *satellite.Satellite) {
	m.sats[sat.NoradID] = sat
}

// SatByNorad returns the satellite registered under id, or nil if none is
// registered. Callers must treat a nil return as a no-op rather than an
// error — this is the contract from spec.md §4.1/§7 ("Missing satellite").
func (m *Manager) SatByNorad(id int) *satellite.Satellite {
	return m.sats[id]
}

// SatsByAzEl returns every registered satellite whose Az and El are each
// within tolDeg of the given pointing direction. Azimuth comparison wraps
// at 360 degrees so an antenna pointed at 359 degrees matches a satellite
// parked at 1 degree with a tolerance of 2 or more.
func (m *Manager) SatsByAzEl(az, el units.Degrees, tolDeg float64) []*satellite.Satellite {
	var out []*satellite.Satellite
	az = az.Normalize360()
	for _, sat := range m.sats {
		satAz := units.Degrees(sat.Az).Normalize360()
		azDiff := math.Abs(float64(az - satAz))
		if azDiff > 180 {
			azDiff = 360 - azDiff
		}
		elDiff := math.Abs(float64(el) - float64(sat.El))
		if azDiff <= tolDeg && elDiff <= tolDeg {
			out = append(out, sat)
		}
	}
	return out
}

// StrongestCarrierNear finds the strongest downlink carrier, by power,
// radiated by any satellite returned from SatsByAzEl(az, el, tolDeg). It
// returns that satellite's azimuth and elevation together with the
// carrier's power, used by legacy auto-track to decide what to snap onto.
func (m *Manager) StrongestCarrierNear(az, el units.Degrees, tolDeg float64) (satAz, satEl units.Degrees, powerDBm units.DBm, ok bool) {
	for _, sat := range m.SatsByAzEl(az, el, tolDeg) {
		for _, sig := range sat.TxSignal {
			if !ok || sig.Power > powerDBm {
				satAz, satEl, powerDBm, ok = sat.Az, sat.El, sig.Power, true
			}
		}
	}
	return
}

// AddSignal forwards sig to the satellite whose NoradID matches sig's
// routing key, appending it to that satellite's external ingest queue. A
// missing satellite is a silent no-op, per spec.md §7.
func (m *Manager) AddSignal(sig rfsignal.Signal) {
	sat := m.SatByNorad(sig.NoradID)
	if sat == nil {
		return
	}
	sat.ExternalSignal = append(sat.ExternalSignal, sig)
}

// RemoveSignal removes the first external-ingest signal matching sigID
// from the satellite sig targets, if present.
func (m *Manager) RemoveSignal(noradID int, sigID string) {
	sat := m.SatByNorad(noradID)
	if sat == nil {
		return
	}
	for i, s := range sat.ExternalSignal {
		if s.SignalID == sigID {
			sat.ExternalSignal = append(sat.ExternalSignal[:i], sat.ExternalSignal[i+1:]...)
			return
		}
	}
}

// RouteUplink appends antenna-radiated carriers to the target satellite's
// per-tick RxSignal queue. A missing satellite is a silent no-op.
func (m *Manager) RouteUplink(noradID int, sigs []rfsignal.Signal) {
	sat := m.SatByNorad(noradID)
	if sat == nil {
		return
	}
	sat.RxSignal = append(sat.RxSignal, sigs...)
}

// All returns every registered satellite. Used by the engine's tick loop
// to drive per-satellite processing; order is unspecified.
func (m *Manager) All() []*satellite.Satellite {
	out := make([]*satellite.Satellite, 0, len(m.sats))
	for _, s := range m.sats {
		out = append(out, s)
	}
	return out
}

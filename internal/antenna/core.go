package antenna

import (
	"math"

	"github.com/satellabs/ewrange/internal/rfsignal"
	"github.com/satellabs/ewrange/internal/timer"
	"github.com/satellabs/ewrange/internal/units"
)

// FrontEnd is the antenna core's only dependency on the rest of the
// simulation: it gives the core the information it needs about the
// satellite it is currently targeting without importing the satellite
// package directly.
type FrontEnd interface {
	// SatellitePosition returns the target satellite's current azimuth,
	// elevation, and slant range, or ok=false if no such satellite exists.
	SatellitePosition(noradID int) (az, el units.Degrees, rangeKm float64, ok bool)
	// DownlinkSignals returns the signals currently being transmitted by
	// the target satellite's transponders.
	DownlinkSignals(noradID int) []rfsignal.Signal
}

// RxResult is the classified outcome of receiving one downlink signal.
type RxResult struct {
	SignalID         string
	ReceivedPowerDBm units.DBm
	CIRatioDB        units.DB
	Blocked          bool
	Degraded         bool
}

// Core is the antenna core: the pointing state machine, the RF link
// budget, and the rx/tx signal pipelines for a single antenna instance.
type Core struct {
	State *State
}

// NewCore constructs an antenna core in its initial manual/powered-off
// state.
func NewCore(cfg Config, teamID, serverID string) *Core {
	return &Core{State: NewState(cfg, teamID, serverID)}
}

// angularSeparationDeg returns the great-circle-style angular distance
// between two az/el pointing directions, using the small-angle
// approximation adequate for beamwidths of a few degrees.
func angularSeparationDeg(az1, el1, az2, el2 units.Degrees) float64 {
	dAz := float64((az1 - az2).Normalize360())
	if dAz > 180 {
		dAz = 360 - dAz
	}
	dEl := float64(el1 - el2)
	cosEl := math.Cos(float64(el1) * math.Pi / 180)
	return math.Hypot(dAz*cosEl, dEl)
}

// Tick advances the antenna by one engine tick: it updates pointing
// (program-track re-acquisition and slew integration), evaluates the
// receive pipeline against whatever the target satellite is currently
// transmitting, runs the step-track controller if engaged, recomputes
// operator-facing metrics, and builds the uplink signals this antenna
// contributes to the target satellite from the transmitter carriers
// handed to it.
func (c *Core) Tick(dtSec float64, queue *timer.Queue, nowMs int64, fe FrontEnd, uplinkCarriers []rfsignal.Signal) ([]RxResult, []rfsignal.Signal) {
	s := c.State

	satAz, satEl, rangeKm, haveSat := fe.SatellitePosition(s.TargetSatelliteID)
	if haveSat && s.TrackingMode == TrackingProgramTrack {
		s.TargetAz, s.TargetEl = satAz, satEl
	}

	s.AdvanceSlew(dtSec)

	var incoming []rfsignal.Signal
	if haveSat {
		incoming = fe.DownlinkSignals(s.TargetSatelliteID)
	}
	s.RxSignalsIn = incoming

	pointingErrorDeg := 0.0
	if haveSat {
		pointingErrorDeg = angularSeparationDeg(s.NormalizedAzimuth(), s.Elevation, satAz.Normalize360(), satEl)
	}

	results := make([]RxResult, 0, len(incoming))
	for _, sig := range incoming {
		if sig.Frequency < s.Cfg.RxFreqMinHz || sig.Frequency > s.Cfg.RxFreqMaxHz {
			continue
		}
		budget := s.Cfg.EvaluateLink(sig.Power, 0, sig.Frequency, rangeKm, satEl, sig.Polarization, float64(sig.Rotation), pointingErrorDeg)
		others := make([]rfsignal.Signal, 0, len(incoming))
		for _, o := range incoming {
			if o.SignalID != sig.SignalID {
				ob := s.Cfg.EvaluateLink(o.Power, 0, o.Frequency, rangeKm, satEl, o.Polarization, float64(o.Rotation), pointingErrorDeg)
				others = append(others, o.WithPower(ob.ReceivedPowerDBm))
			}
		}
		verdict := ArbitrateAll(sig.WithPower(budget.ReceivedPowerDBm), others)
		results = append(results, RxResult{
			SignalID:         sig.SignalID,
			ReceivedPowerDBm: budget.ReceivedPowerDBm,
			CIRatioDB:        verdict.CIRatioDB,
			Blocked:          verdict.Blocked,
			Degraded:         verdict.Degraded,
		})

		if s.TrackingMode == TrackingStepTrack && withinBeaconSearch(sig.Frequency, s.BeaconFreqHz, s.BeaconSearchBwHz) {
			s.StepTrackUpdate(budget.ReceivedPowerDBm, true)
		}
	}
	if s.TrackingMode == TrackingStepTrack && len(results) == 0 {
		s.StepTrackUpdate(0, false)
	}

	metrics := s.Cfg.ComputeMetrics(s.BeaconFreqHz, s.Cfg.RxFreqMaxHz-s.Cfg.RxFreqMinHz, 50)
	s.RFMetrics = &metrics

	tx := c.buildUplink(uplinkCarriers, pointingErrorDeg)
	return results, tx
}

// withinBeaconSearch reports whether freq falls within +/- bw/2 of the
// configured beacon center frequency.
func withinBeaconSearch(freq, beaconFreq, bw units.Hz) bool {
	if beaconFreq == 0 || bw == 0 {
		return false
	}
	half := bw / 2
	return freq >= beaconFreq-half && freq <= beaconFreq+half
}

// buildUplink applies this antenna's transmit gain, feed loss, and
// pointing loss to each transmitter-supplied carrier, producing the
// signals this antenna contributes toward the target satellite.
func (c *Core) buildUplink(carriers []rfsignal.Signal, pointingErrorDeg float64) []rfsignal.Signal {
	s := c.State
	if len(carriers) == 0 {
		return nil
	}
	out := make([]rfsignal.Signal, 0, len(carriers))
	for _, carrier := range carriers {
		if carrier.Frequency < s.Cfg.TxFreqMinHz || carrier.Frequency > s.Cfg.TxFreqMaxHz {
			continue
		}
		txGain := s.Cfg.PeakGainDBi(carrier.Frequency)
		hpbw := s.Cfg.HPBWDeg(carrier.Frequency)
		gainAtAngle := s.Cfg.PatternGainDBi(txGain, carrier.Frequency, hpbw, pointingErrorDeg)
		feedLoss := s.Cfg.FeedLoss.LossAt(carrier.Frequency)

		eirp := units.DBm(float64(carrier.Power) + float64(gainAtAngle) - float64(feedLoss))
		out = append(out, carrier.
			WithPower(eirp).
			WithPolarization(s.Cfg.PolType, s.Polarization).
			WithOrigin(units.OriginAntennaTx))
	}
	return out
}

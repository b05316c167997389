package antenna

import (
	"math"

	"github.com/google/uuid"

	"github.com/satellabs/ewrange/internal/rfsignal"
	"github.com/satellabs/ewrange/internal/timer"
	"github.com/satellabs/ewrange/internal/units"
)

// TrackingMode enumerates the antenna's top-level operating mode.
type TrackingMode string

const (
	TrackingStow         TrackingMode = "stow"
	TrackingMaintenance  TrackingMode = "maintenance"
	TrackingManual       TrackingMode = "manual"
	TrackingStepTrack    TrackingMode = "step_track"
	TrackingProgramTrack TrackingMode = "program_track"
)

// Fault carries an antenna-level fault flag and a human-readable message.
type Fault struct {
	On      bool
	Message string
}

// Metrics is the optional, per-tick-recomputed RF summary attached to
// State for operator display (G/T, system noise temperature, etc.). It is
// recomputed wholesale each tick rather than incrementally.
type Metrics struct {
	SystemNoiseTempK float64
	GainOverTempDBK  float64
	NoiseFloorDBm    units.DBm
}

// State is the full mutable pointing/tracking state of one antenna
// instance. Config is held alongside it but never mutated by operator
// actions — only State changes in response to handle_* calls.
type State struct {
	UUID     string
	TeamID   string
	ServerID string

	IsPowered     bool
	IsOperational bool
	IsLoopback    bool
	IsLocked      bool

	IsAutoTrackSwitchUp bool
	IsAutoTrackEnabled  bool

	Azimuth      units.Degrees
	Elevation    units.Degrees
	Polarization units.Degrees

	TargetAz  units.Degrees
	TargetEl  units.Degrees
	TargetPol units.Degrees

	StagedAz        *units.Degrees
	StagedEl        *units.Degrees
	StagedPol       *units.Degrees
	StagedBeaconHz  *units.Hz
	StagedBeaconBwHz *units.Hz

	IsSlewing bool

	TrackingMode       TrackingMode
	TargetSatelliteID  int

	BeaconFreqHz     units.Hz
	BeaconSearchBwHz units.Hz
	BeaconPower      *units.DBm
	IsBeaconLocked   bool

	HeaterOn  bool
	BlowerOn  bool
	PrecipOn  bool

	RxSignalsIn []rfsignal.Signal
	RFMetrics   *Metrics

	Fault Fault

	Cfg Config

	lockTimerHandle *timer.Handle
	stepTrack       *stepTrackState

	// carrierPowerFn, if set, reports the antenna's most recently observed
	// best carrier power, used by legacy direct-mode auto-track's lock
	// acquisition check.
	carrierPowerFn func() (units.DBm, bool)

	// onStateChanged, if set, is invoked after any handler that changes
	// observable state, re-emitting ANTENNA_STATE_CHANGED to the bus —
	// the event-bus re-emission contract from the design notes.
	onStateChanged func(*State)
	onFault        func(*State, string)
	onLocked       func(*State, bool)
}

// NewState constructs a State in the initial manual tracking mode, powered
// off, with a freshly generated UUID.
func NewState(cfg Config, teamID, serverID string) *State {
	return &State{
		UUID:         uuid.NewString(),
		TeamID:       teamID,
		ServerID:     serverID,
		TrackingMode: TrackingManual,
		Cfg:          cfg,
		Polarization: 0,
	}
}

// OnStateChanged registers the callback invoked after a state-changing
// handler runs.
func (s *State) OnStateChanged(fn func(*State)) { s.onStateChanged = fn }

// OnFault registers the callback invoked when a fault is raised.
func (s *State) OnFault(fn func(*State, string)) { s.onFault = fn }

// OnLocked registers the callback invoked when the lock state changes.
func (s *State) OnLocked(fn func(*State, bool)) { s.onLocked = fn }

func (s *State) emitChanged() {
	if s.onStateChanged != nil {
		s.onStateChanged(s)
	}
}

func (s *State) raiseFault(msg string) {
	s.Fault = Fault{On: true, Message: msg}
	if s.onFault != nil {
		s.onFault(s, msg)
	}
}

// HasStagedChanges reports whether any staged_* field is set.
func (s *State) HasStagedChanges() bool {
	return s.StagedAz != nil || s.StagedEl != nil || s.StagedPol != nil ||
		s.StagedBeaconHz != nil || s.StagedBeaconBwHz != nil
}

// clearStaged discards every staged_* value without committing them.
func (s *State) clearStaged() {
	s.StagedAz, s.StagedEl, s.StagedPol = nil, nil, nil
	s.StagedBeaconHz, s.StagedBeaconBwHz = nil, nil
}

// StageAzEl stages a target azimuth/elevation change; it takes effect only
// once ApplyChanges succeeds.
func (s *State) StageAzEl(az, el units.Degrees) {
	s.StagedAz = &az
	s.StagedEl = &el
}

// StagePolarization stages a target polarization change.
func (s *State) StagePolarization(pol units.Degrees) {
	s.StagedPol = &pol
}

// StageBeacon stages a step-track beacon frequency/search-bandwidth change.
func (s *State) StageBeacon(freqHz, bwHz units.Hz) {
	s.StagedBeaconHz = &freqHz
	s.StagedBeaconBwHz = &bwHz
}

// ApplyChanges validates and commits every staged value. On success it
// copies staged values into the live target_* fields and clears staged
// state. On a validation failure (out-of-range azimuth for a
// non-continuous dish, or elevation outside the configured range) it
// raises a FAULT, retains the staged values untouched, and does not
// commit anything — the all-or-nothing transaction semantics required by
// spec.md §5.
func (s *State) ApplyChanges() {
	if s.StagedAz != nil {
		az := *s.StagedAz
		if !s.Cfg.AzContinuous && (az < s.Cfg.AzMin || az > s.Cfg.AzMax) {
			s.raiseFault("azimuth out of range for non-continuous dish")
			return
		}
	}
	if s.StagedEl != nil {
		el := *s.StagedEl
		if el < s.Cfg.ElMin || el > s.Cfg.ElMax {
			s.raiseFault("elevation out of range")
			return
		}
	}

	if s.StagedAz != nil {
		s.TargetAz = *s.StagedAz
	}
	if s.StagedEl != nil {
		s.TargetEl = *s.StagedEl
	}
	if s.StagedPol != nil {
		s.TargetPol = *s.StagedPol
	}
	if s.StagedBeaconHz != nil {
		s.BeaconFreqHz = *s.StagedBeaconHz
	}
	if s.StagedBeaconBwHz != nil {
		s.BeaconSearchBwHz = *s.StagedBeaconBwHz
	}
	s.clearStaged()
	s.Fault = Fault{}
	s.emitChanged()
}

// DiscardStaged throws away any staged changes without committing them,
// leaving live state exactly as it was (the round-trip invariant from
// spec.md §8 invariant 4).
func (s *State) DiscardStaged() {
	s.clearStaged()
}

// SetTrackingMode transitions to a new tracking mode, applying that
// mode's entry effects. Changing mode always cancels the step-track
// controller and any pending lock-acquisition timer, per the
// cancellation semantics in spec.md §5.
func (s *State) SetTrackingMode(mode TrackingMode, queue *timer.Queue, nowMs int64) {
	s.cancelLockTimer()
	s.stepTrack = nil
	s.TrackingMode = mode

	switch mode {
	case TrackingStow:
		s.StageAzEl(0, 0)
	case TrackingMaintenance:
		az := s.Azimuth
		s.StagedAz = &az
		el := units.Degrees(5)
		s.StagedEl = &el
	case TrackingManual:
		s.TargetAz, s.TargetEl = s.Azimuth, s.Elevation
	case TrackingStepTrack:
		s.TargetAz, s.TargetEl = s.Azimuth, s.Elevation
	case TrackingProgramTrack:
		s.TargetAz, s.TargetEl = s.Azimuth, s.Elevation
	}
	s.emitChanged()
}

// cancelLockTimer cancels any pending lock-acquisition timer. Called
// whenever the precondition that justified scheduling it goes away:
// tracking-mode change, lock break, or power-off.
func (s *State) cancelLockTimer() {
	s.lockTimerHandle.Cancel()
	s.lockTimerHandle = nil
}

// BreakLock clears IsLocked and IsAutoTrackEnabled and cancels any
// pending lock timer — breaking the lock always resets both flags
// together, per the State invariant in spec.md §3.
func (s *State) BreakLock() {
	s.cancelLockTimer()
	wasLocked := s.IsLocked
	s.IsLocked = false
	s.IsAutoTrackEnabled = false
	if wasLocked && s.onLocked != nil {
		s.onLocked(s, false)
	}
}

// setLocked sets IsLocked and fires the locked-change callback if the
// value actually changed.
func (s *State) setLocked(v bool) {
	if s.IsLocked == v {
		return
	}
	s.IsLocked = v
	if s.onLocked != nil {
		s.onLocked(s, v)
	}
}

// SetPowered powers the antenna on or off. Powering off breaks the lock
// (cancelling its timer) and marks the antenna non-operational.
func (s *State) SetPowered(on bool) {
	s.IsPowered = on
	if !on {
		s.BreakLock()
		s.IsOperational = false
	} else {
		s.IsOperational = true
	}
	s.emitChanged()
}

// AdvanceSlew integrates azimuth, elevation, and polarization toward
// their targets by at most max_rate*dt per axis (2x rate for
// polarization), and reports whether any axis moved this tick.
func (s *State) AdvanceSlew(dtSec float64) {
	maxDelta := s.Cfg.MaxSlewRateDegPerSec * dtSec
	movedAz := stepToward(&s.Azimuth, s.TargetAz, maxDelta)
	movedEl := stepToward(&s.Elevation, s.TargetEl, maxDelta)
	movedPol := stepToward(&s.Polarization, s.TargetPol, 2*maxDelta)

	if !s.Cfg.AzContinuous {
		s.Azimuth = clampDeg(s.Azimuth, s.Cfg.AzMin, s.Cfg.AzMax)
	}
	s.Elevation = clampDeg(s.Elevation, s.Cfg.ElMin, s.Cfg.ElMax)
	s.Polarization = clampDeg(s.Polarization, -90, 90)

	s.IsSlewing = movedAz || movedEl || movedPol
}

// stepToward moves *cur toward target by at most maxDelta, returning
// whether it moved at all.
func stepToward(cur *units.Degrees, target units.Degrees, maxDelta float64) bool {
	diff := float64(target - *cur)
	if diff == 0 {
		return false
	}
	step := math.Min(math.Abs(diff), maxDelta)
	if diff < 0 {
		step = -step
	}
	*cur += units.Degrees(step)
	return step != 0
}

func clampDeg(v, lo, hi units.Degrees) units.Degrees {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NormalizedAzimuth returns Azimuth folded into [0, 360) for pointing
// comparisons against satellite positions, regardless of whether this
// dish is configured for continuous azimuth travel.
func (s *State) NormalizedAzimuth() units.Degrees {
	return s.Azimuth.Normalize360()
}

package antenna

import (
	"math"

	"github.com/satellabs/ewrange/internal/timer"
	"github.com/satellabs/ewrange/internal/units"
)

// autoTrackLockDelayMs is the deferred delay between auto-track's snap
// to target and the lock-acquisition check firing.
const autoTrackLockDelayMs = 3000

// SetCarrierPowerProvider registers the callback auto-track uses to read
// the currently received carrier power when its lock timer fires. The
// engine supplies this when it registers the antenna, reporting the
// strongest carrier that antenna received on its last tick.
func (s *State) SetCarrierPowerProvider(fn func() (units.DBm, bool)) {
	s.carrierPowerFn = fn
}

// ToggleAutoTrack engages or disengages the legacy auto-track mode. This
// is the "direct mode" called out in the design notes. Engaging it looks
// at the strongest carrier radiated by any satellite near the antenna's
// current pointing direction; if that carrier's power exceeds
// LOCK_THRESHOLD_DBM, the dish snaps straight onto that satellite's az/el
// (taking the shorter arc for azimuth), bypassing the normal slew-rate
// integrator, then a single lock-acquisition check is scheduled. A
// carrier at or below threshold, or no carrier at all, leaves the dish
// where it was: auto-track is marked as switched on, but nothing moves
// and no lock timer is scheduled. Disengaging always breaks any existing
// lock.
func (s *State) ToggleAutoTrack(on bool, queue *timer.Queue, nowMs int64, satAz, satEl units.Degrees, strongestCarrierDBm units.DBm, haveCarrier bool) {
	s.IsAutoTrackSwitchUp = on
	if !on {
		s.BreakLock()
		return
	}
	if !haveCarrier || float64(strongestCarrierDBm) <= units.LockThresholdDBm {
		return
	}

	target := satAz
	if math.Abs(float64(target-s.Azimuth)) > 180 {
		target += 360
	}
	s.Azimuth = target
	s.Elevation = satEl
	s.TargetAz, s.TargetEl = s.Azimuth, s.Elevation

	s.cancelLockTimer()
	s.lockTimerHandle = queue.Schedule(nowMs, autoTrackLockDelayMs, func() {
		s.attemptLock()
	})
}

// attemptLock is the deferred lock-acquisition check: the carrier must be
// above the legacy lock threshold for the lock to be declared.
func (s *State) attemptLock() {
	if s.carrierPowerFn == nil {
		s.setLocked(false)
		return
	}
	p, ok := s.carrierPowerFn()
	if !ok || float64(p) <= units.LockThresholdDBm {
		s.setLocked(false)
		return
	}
	s.IsAutoTrackEnabled = true
	s.setLocked(true)
}

package antenna_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satellabs/ewrange/internal/antenna"
	"github.com/satellabs/ewrange/internal/units"
)

// dwell drives n*10 ticks of StepTrackUpdate with a constant reading, so
// exactly n post-dwell comparisons are made.
func dwell(s *antenna.State, powerDBm units.DBm, haveBeacon bool, cycles int) {
	for c := 0; c < cycles; c++ {
		for i := 0; i < 10; i++ {
			s.StepTrackUpdate(powerDBm, haveBeacon)
		}
	}
}

func TestStepTrackUpdateClearsLockWhenBeaconMissing(t *testing.T) {
	assert := assert.New(t)
	s := antenna.NewState(testConfig(), "team-1", "server-1")
	s.IsBeaconLocked = true

	s.StepTrackUpdate(0, false)
	assert.False(s.IsBeaconLocked)
}

func TestStepTrackUpdateClearsLockWhenBeaconBelowThreshold(t *testing.T) {
	assert := assert.New(t)
	s := antenna.NewState(testConfig(), "team-1", "server-1")

	s.StepTrackUpdate(-150, true)
	assert.False(s.IsBeaconLocked)
}

func TestStepTrackUpdateFirstSampleRecordsBaselineWithoutStepping(t *testing.T) {
	assert := assert.New(t)
	s := antenna.NewState(testConfig(), "team-1", "server-1")

	dwell(s, -80, true, 1)
	assert.Equal(units.Degrees(0), s.TargetAz, "the first post-restart sample must store a baseline, not step")
	assert.False(s.IsBeaconLocked)
	assert.NotNil(s.BeaconPower)
	assert.Equal(units.DBm(-80), *s.BeaconPower)
}

func TestStepTrackUpdateMovesOnceABaselineExists(t *testing.T) {
	assert := assert.New(t)
	s := antenna.NewState(testConfig(), "team-1", "server-1")

	dwell(s, -80, true, 1) // baseline, no move
	assert.Equal(units.Degrees(0), s.TargetAz)

	dwell(s, -75, true, 1) // improves on the baseline, steps
	assert.NotEqual(units.Degrees(0), s.TargetAz)
}

func TestStepTrackUpdateLocksAfterThreeConsecutiveImprovements(t *testing.T) {
	assert := assert.New(t)
	s := antenna.NewState(testConfig(), "team-1", "server-1")

	dwell(s, -90, true, 1) // baseline
	dwell(s, -85, true, 1) // +5dB, consecUp=1
	assert.False(s.IsBeaconLocked)
	dwell(s, -80, true, 1) // +5dB, consecUp=2
	assert.False(s.IsBeaconLocked)
	dwell(s, -75, true, 1) // +5dB, consecUp=3 -> lock
	assert.True(s.IsBeaconLocked)
	assert.NotEqual(units.Degrees(0), s.TargetAz, "each improving move steps the axis under test")
}

func TestStepTrackUpdateHoldsPositionWithinImprovementThreshold(t *testing.T) {
	assert := assert.New(t)
	s := antenna.NewState(testConfig(), "team-1", "server-1")

	dwell(s, -80, true, 1)    // baseline
	dwell(s, -80.02, true, 1) // 0.02dB delta, below the 0.1dB improvement threshold
	assert.True(s.IsBeaconLocked)
	assert.Equal(units.Degrees(0), s.TargetAz, "a reading within the improvement threshold holds position")
}

func TestStepTrackUpdateDegradationReversesDirection(t *testing.T) {
	assert := assert.New(t)
	improving := antenna.NewState(testConfig(), "team-1", "server-1")
	dwell(improving, -90, true, 1)
	dwell(improving, -85, true, 1)

	degrading := antenna.NewState(testConfig(), "team-1", "server-1")
	dwell(degrading, -90, true, 1)
	dwell(degrading, -95, true, 1)

	assert.Greater(float64(improving.TargetAz), 0.0)
	assert.Less(float64(degrading.TargetAz), 0.0, "a degrading move reverses the search direction")
}

func TestStepTrackUpdateSwitchesAxisAfterThreeConsecutiveDegradations(t *testing.T) {
	assert := assert.New(t)
	s := antenna.NewState(testConfig(), "team-1", "server-1")

	dwell(s, -80, true, 1) // baseline
	dwell(s, -85, true, 1) // degrade 1
	dwell(s, -90, true, 1) // degrade 2
	azBeforeSwitch := s.TargetAz

	dwell(s, -95, true, 1) // degrade 3 -> axis switches to elevation mid-cycle
	assert.Equal(azBeforeSwitch, s.TargetAz, "once the axis switches, azimuth no longer moves")
	assert.NotEqual(units.Degrees(0), s.TargetEl)
}

func TestStepTrackUpdateLosingBeaconGrowsStepAndReversesIfWeakening(t *testing.T) {
	assert := assert.New(t)
	s := antenna.NewState(testConfig(), "team-1", "server-1")

	dwell(s, -80, true, 1) // baseline
	s.StepTrackUpdate(-150, true)
	assert.False(s.IsBeaconLocked)
	assert.NotEqual(units.Degrees(0), s.TargetAz, "losing the beacon still perturbs the axis under test")
}

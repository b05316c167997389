package rfsignal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satellabs/ewrange/internal/rfsignal"
	"github.com/satellabs/ewrange/internal/units"
)

func baseSignal() rfsignal.Signal {
	return rfsignal.Signal{
		SignalID:  "tx1-modem1",
		Frequency: 5925e6,
		Bandwidth: 1e6,
		Power:     -10,
	}
}

func TestWithPowerDoesNotMutateOriginal(t *testing.T) {
	assert := assert.New(t)
	s := baseSignal()
	s2 := s.WithPower(5)

	assert.Equal(units.DBm(-10), s.Power)
	assert.Equal(units.DBm(5), s2.Power)
}

func TestDegradeIsMonotoneAndNonMutating(t *testing.T) {
	assert := assert.New(t)
	s := baseSignal()
	assert.False(s.IsDegraded)

	s2 := s.Degrade()
	assert.False(s.IsDegraded)
	assert.True(s2.IsDegraded)

	s3 := s2.Degrade()
	assert.True(s3.IsDegraded)
}

func TestOverlapHzNoOverlap(t *testing.T) {
	assert := assert.New(t)
	a := rfsignal.Signal{Frequency: 5925e6, Bandwidth: 1e6}
	b := rfsignal.Signal{Frequency: 5935e6, Bandwidth: 1e6}
	assert.Equal(units.Hz(0), a.OverlapHz(b))
}

func TestOverlapHzFullOverlap(t *testing.T) {
	assert := assert.New(t)
	a := rfsignal.Signal{Frequency: 5925e6, Bandwidth: 2e6}
	b := rfsignal.Signal{Frequency: 5925e6, Bandwidth: 2e6}
	assert.Equal(units.Hz(2e6), a.OverlapHz(b))
}

func TestOverlapHzPartialOverlap(t *testing.T) {
	assert := assert.New(t)
	// a spans [5924.5, 5925.5] MHz, b spans [5925.0, 5926.0] MHz -> 0.5MHz overlap
	a := rfsignal.Signal{Frequency: 5925e6, Bandwidth: 1e6}
	b := rfsignal.Signal{Frequency: 5925.5e6, Bandwidth: 1e6}
	assert.InDelta(0.5e6, float64(a.OverlapHz(b)), 1.0)
}

func TestOverlapPercentAsymmetric(t *testing.T) {
	assert := assert.New(t)
	// a is narrow (1MHz), b is wide (4MHz), fully containing a.
	a := rfsignal.Signal{Frequency: 5925e6, Bandwidth: 1e6}
	b := rfsignal.Signal{Frequency: 5925e6, Bandwidth: 4e6}

	// From a's perspective the whole 1MHz sits inside b: 100%.
	assert.InDelta(100.0, a.OverlapPercent(b), 0.1)
	// From b's perspective only 1 of its 4MHz overlaps: 25%.
	assert.InDelta(25.0, b.OverlapPercent(a), 0.1)
}

func TestOverlapPercentZeroBandwidth(t *testing.T) {
	assert := assert.New(t)
	a := rfsignal.Signal{Frequency: 5925e6, Bandwidth: 0}
	b := rfsignal.Signal{Frequency: 5925e6, Bandwidth: 1e6}
	assert.Equal(0.0, a.OverlapPercent(b))
}

func TestWithPolarizationSetsRotation(t *testing.T) {
	assert := assert.New(t)
	s := baseSignal()
	s2 := s.WithPolarization(units.PolarizationRHCP, 45)
	assert.Equal(units.PolarizationRHCP, s2.Polarization)
	assert.Equal(units.Degrees(45), s2.Rotation)
	assert.Equal(units.PolarizationNone, s.Polarization)
}

func TestNewIDStable(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("tx1-modem1", rfsignal.NewID(1, 1))
	assert.Equal("tx2-modem3", rfsignal.NewID(2, 3))
}

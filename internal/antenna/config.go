// Package antenna implements the pointing state machine, slew dynamics,
// auto-track and step-track acquisition, RF link-budget physics, and
// per-tick interference arbitration that together make up the Antenna
// Core — the largest component of the simulation.
package antenna

import (
	"math"

	"github.com/satellabs/ewrange/internal/units"
)

// FeedLossModel is either a flat scalar loss or a frequency-dependent
// model L(f) = a + b*sqrt(f_GHz) + c*f_GHz. When UseFormula is false the
// Scalar value is used at every frequency.
type FeedLossModel struct {
	UseFormula bool
	Scalar     units.DB
	A, B, C    float64
}

// LossAt returns the feed loss at the given frequency.
func (m FeedLossModel) LossAt(f units.Hz) units.DB {
	if !m.UseFormula {
		return m.Scalar
	}
	fGHz := f.GHz()
	return units.DB(m.A + m.B*math.Sqrt(fGHz) + m.C*fGHz)
}

// Config is the read-only set of physical parameters describing one
// antenna instance. Values here never change after construction; operator
// actions mutate State, not Config.
type Config struct {
	Name string

	DiameterM  float64
	Efficiency float64 // aperture efficiency base, clamped to [0.01, 0.95]
	PolType    units.Polarization

	RxFreqMinHz, RxFreqMaxHz units.Hz
	TxFreqMinHz, TxFreqMaxHz units.Hz

	FeedLoss FeedLossModel

	SurfaceRMSM      float64 // Ruze surface RMS error, meters
	BlockageFraction float64
	XPDdB            units.DB

	BeamwidthK float64 // HPBW constant, default 70

	PointingSigmaDeg float64

	LNANoiseFigure units.DB
	RxChainLoss    units.DB
	RxPhysTempK    float64

	ElMin, ElMax units.Degrees
	AzContinuous bool
	AzMin, AzMax units.Degrees

	MaxSlewRateDegPerSec float64
}

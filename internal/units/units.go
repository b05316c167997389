// Package units defines the typed scalar wrappers and small enums shared
// across the simulation core. Keeping frequency, power, and angle values in
// distinct Go types (rather than bare float64) prevents the class of bug
// where a dBm value is accidentally added to a dB loss or a Hz value is
// compared against a MHz one.
package units

import "math"

// Hz is a frequency in hertz.
type Hz float64

// MHz returns the frequency expressed in megahertz.
func (f Hz) MHz() float64 { return float64(f) / 1e6 }

// GHz returns the frequency expressed in gigahertz.
func (f Hz) GHz() float64 { return float64(f) / 1e9 }

// DBm is a power level in dBm (decibels relative to one milliwatt).
type DBm float64

// Watts converts a dBm value to linear watts.
func (p DBm) Watts() float64 {
	return 1e-3 * math.Pow(10, float64(p)/10)
}

// DBmFromWatts converts linear watts to dBm.
func DBmFromWatts(w float64) DBm {
	return DBm(10 * math.Log10(w/1e-3))
}

// DB is a dimensionless ratio expressed in decibels, typically a loss or
// gain applied to a power level.
type DB float64

// Linear converts a dB ratio to a linear power ratio.
func (d DB) Linear() float64 {
	return math.Pow(10, float64(d)/10)
}

// DBFromLinear converts a linear power ratio to dB.
func DBFromLinear(ratio float64) DB {
	return DB(10 * math.Log10(ratio))
}

// DBi is an antenna gain in decibels relative to an isotropic radiator.
type DBi float64

// Degrees is an angle in degrees.
type Degrees float64

// Radians converts the angle to radians.
func (d Degrees) Radians() float64 {
	return float64(d) * math.Pi / 180
}

// FromRadians converts a radian value to Degrees.
func FromRadians(r float64) Degrees {
	return Degrees(r * 180 / math.Pi)
}

// Normalize360 folds an azimuth into [0, 360).
func (d Degrees) Normalize360() Degrees {
	v := math.Mod(float64(d), 360)
	if v < 0 {
		v += 360
	}
	return Degrees(v)
}

// Abs returns the absolute value of the angle.
func (d Degrees) Abs() Degrees {
	if d < 0 {
		return -d
	}
	return d
}

// Modulation identifies a digital carrier's modulation scheme.
type Modulation string

const (
	ModulationNone  Modulation = ""
	ModulationBPSK  Modulation = "BPSK"
	ModulationQPSK  Modulation = "QPSK"
	Modulation8QAM  Modulation = "8QAM"
	Modulation16QAM Modulation = "16QAM"
)

// FEC identifies a forward-error-correction code rate.
type FEC string

const (
	FECNone FEC = ""
	FEC1_2  FEC = "1/2"
	FEC2_3  FEC = "2/3"
	FEC3_4  FEC = "3/4"
	FEC5_6  FEC = "5/6"
	FEC7_8  FEC = "7/8"
)

// Polarization identifies a carrier's or antenna's polarization type.
type Polarization string

const (
	PolarizationNone Polarization = ""
	PolarizationH    Polarization = "H"
	PolarizationV    Polarization = "V"
	PolarizationRHCP Polarization = "RHCP"
	PolarizationLHCP Polarization = "LHCP"
)

// IsCircular reports whether the polarization is one of the circular
// handedness values.
func (p Polarization) IsCircular() bool {
	return p == PolarizationRHCP || p == PolarizationLHCP
}

// Opposite returns the linear cross-polarization (H<->V) or the opposite
// circular handedness (RHCP<->LHCP). Used by the transponder's polarization
// flip. Unknown/none polarizations are returned unchanged.
func (p Polarization) Opposite() Polarization {
	switch p {
	case PolarizationH:
		return PolarizationV
	case PolarizationV:
		return PolarizationH
	case PolarizationRHCP:
		return PolarizationLHCP
	case PolarizationLHCP:
		return PolarizationRHCP
	default:
		return p
	}
}

// Origin identifies which stage of the chain produced a signal.
type Origin string

const (
	OriginTransmitter Origin = "Transmitter"
	OriginAntennaTx   Origin = "AntennaTx"
	OriginSatelliteTx Origin = "SatelliteTx"
)

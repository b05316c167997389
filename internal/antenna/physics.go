package antenna

import (
	"math"

	"github.com/satellabs/ewrange/internal/units"
)

// wavelengthM returns the wavelength in meters for a given frequency.
func wavelengthM(f units.Hz) float64 {
	return units.SpeedOfLightMPerS / float64(f)
}

// FSPLdB computes free-space path loss in dB for a slant range given in
// kilometers: 20*log10(d_km) + 20*log10(f_MHz) + 32.45.
func FSPLdB(freqHz units.Hz, rangeKm float64) units.DB {
	return units.DB(20*math.Log10(rangeKm) + 20*math.Log10(freqHz.MHz()) + 32.45)
}

// zenithLossDBPerFreq is the piecewise zenith gaseous-absorption table
// against frequency in GHz.
func zenithLossDBPerFreq(fGHz float64) float64 {
	switch {
	case fGHz < 1:
		return 0.01
	case fGHz < 10:
		return 0.02 + (fGHz-1)*0.005
	case fGHz < 20:
		return 0.1 + (fGHz-10)*0.02
	default:
		return 0.3 + (fGHz-20)*0.05
	}
}

// AtmosphericLossDB computes gaseous and rain attenuation as a base zenith
// loss, looked up from zenithLossDBPerFreq, scaled by the slant-path
// airmass 1/sin(el), capped at 3 to bound the loss as elevation approaches
// the horizon.
func AtmosphericLossDB(freqHz units.Hz, elevation units.Degrees) units.DB {
	el := float64(elevation)
	airmass := 1.0 / math.Sin(el*math.Pi/180)
	if airmass > 3 {
		airmass = 3
	}
	return units.DB(zenithLossDBPerFreq(freqHz.GHz()) * airmass)
}

// PolarizationLossDB computes the loss incurred by a mismatch between the
// transmitted and received polarization. Two linear polarizations use a
// cos^2 law against the relative rotation angle, floored by the
// configured cross-polar discrimination. Two circular polarizations of
// the same handedness are co-polarized (0 dB); opposite handedness incurs
// a fixed 3 dB (half-power) loss rather than full cross-pol isolation,
// since a single ground reflection is enough to partially recover an
// opposite-handed circular signal.
func PolarizationLossDB(txPol, rxPol units.Polarization, relativeRotationDeg float64, xpd units.DB) units.DB {
	if txPol == rxPol {
		return 0
	}
	if txPol.IsCircular() && rxPol.IsCircular() {
		if txPol == rxPol.Opposite() {
			return 3.0
		}
		return 0
	}
	if txPol.IsCircular() != rxPol.IsCircular() {
		return units.DB(xpd)
	}
	theta := relativeRotationDeg * math.Pi / 180
	cos2 := math.Cos(theta) * math.Cos(theta)
	if cos2 < 1e-6 {
		cos2 = 1e-6
	}
	loss := units.DBFromLinear(1 / cos2)
	if loss > xpd {
		return xpd
	}
	return loss
}

// ApertureEfficiency clamps the configured base efficiency to [0.01, 0.95]
// and applies the Ruze surface-error penalty and the aperture blockage:
// eff = eff_base * exp(-(4*pi*rms/lambda)^2) * (1 - blockage)^2.
func (c Config) ApertureEfficiency(freqHz units.Hz) float64 {
	lambda := wavelengthM(freqHz)
	ruze := math.Exp(-math.Pow(4*math.Pi*c.SurfaceRMSM/lambda, 2))
	base := c.Efficiency
	if base < 0.01 {
		base = 0.01
	}
	if base > 0.95 {
		base = 0.95
	}
	unblocked := 1 - c.BlockageFraction
	return base * ruze * unblocked * unblocked
}

// PeakGainDBi computes the boresight gain of a parabolic reflector:
// G = eta * (pi*D/lambda)^2, expressed in dBi.
func (c Config) PeakGainDBi(freqHz units.Hz) units.DBi {
	lambda := wavelengthM(freqHz)
	eta := c.ApertureEfficiency(freqHz)
	ratio := math.Pi * c.DiameterM / lambda
	gainLinear := eta * ratio * ratio
	return units.DBi(10 * math.Log10(gainLinear))
}

// HPBWDeg computes the half-power beamwidth in degrees: k*lambda/D.
func (c Config) HPBWDeg(freqHz units.Hz) float64 {
	lambda := wavelengthM(freqHz)
	return c.BeamwidthK * lambda / c.DiameterM
}

// PatternGainDBi evaluates the antenna's off-boresight gain envelope at
// the given angle, following the ITU-R S.465 sidelobe mask: within
// 1.2 beamwidths of boresight the gain falls off quadratically as
// Gmax - 12*(theta/HPBW)^2; beyond that it follows the
// min(32, 25*log10(theta*D/lambda)) envelope referenced to the aperture's
// electrical size.
func (c Config) PatternGainDBi(peakGainDBi units.DBi, freqHz units.Hz, hpbwDeg, offBoresightDeg float64) units.DBi {
	theta := math.Abs(offBoresightDeg)
	if theta <= 1.2*hpbwDeg {
		frac := theta / hpbwDeg
		return peakGainDBi - units.DBi(12*frac*frac)
	}
	dOverLambda := c.DiameterM / wavelengthM(freqHz)
	arg := theta * dOverLambda
	if arg < 1e-3 {
		arg = 1e-3
	}
	env := 25 * math.Log10(arg)
	if env > 32 {
		env = 32
	}
	return peakGainDBi - units.DBi(env)
}

// PointingLossDB approximates the gain reduction from a pointing error as
// a fraction of beamwidth: 12*(error/hpbw)^2 dB, the standard small-error
// parabolic-dish approximation.
func PointingLossDB(pointingErrorDeg, hpbwDeg float64) units.DB {
	if hpbwDeg <= 0 {
		return 0
	}
	frac := pointingErrorDeg / hpbwDeg
	return units.DB(12 * frac * frac)
}

// LinkBudget is the fully decomposed result of EvaluateLink, kept for
// operator display and test assertions.
type LinkBudget struct {
	FSPLdB           units.DB
	AtmosphericDB    units.DB
	PolarizationDB   units.DB
	FeedLossDB       units.DB
	PointingLossDB   units.DB
	TxGainDBi        units.DBi
	RxGainDBi        units.DBi
	ReceivedPowerDBm units.DBm
}

// EvaluateLink computes the full received-power link budget for a carrier
// arriving at this antenna's receive aperture.
func (c Config) EvaluateLink(txPowerDBm units.DBm, txGainDBi units.DBi, freqHz units.Hz, rangeKm float64, elevation units.Degrees, txPol units.Polarization, relativeRotationDeg, pointingErrorDeg float64) LinkBudget {
	fspl := FSPLdB(freqHz, rangeKm)
	atm := AtmosphericLossDB(freqHz, elevation)
	pol := PolarizationLossDB(txPol, c.PolType, relativeRotationDeg, c.XPDdB)
	feed := c.FeedLoss.LossAt(freqHz)
	rxGain := c.PeakGainDBi(freqHz)
	hpbw := c.HPBWDeg(freqHz)
	pointingLoss := PointingLossDB(pointingErrorDeg, hpbw)

	rxGainAtAngle := c.PatternGainDBi(rxGain, freqHz, hpbw, pointingErrorDeg)

	rx := float64(txPowerDBm) + float64(txGainDBi) + float64(rxGainAtAngle) -
		float64(fspl) - float64(atm) - float64(pol) - float64(feed) - float64(pointingLoss)

	return LinkBudget{
		FSPLdB:           fspl,
		AtmosphericDB:    atm,
		PolarizationDB:   pol,
		FeedLossDB:       feed,
		PointingLossDB:   pointingLoss,
		TxGainDBi:        txGainDBi,
		RxGainDBi:        rxGainAtAngle,
		ReceivedPowerDBm: units.DBm(rx),
	}
}

// SystemNoiseTempK computes the cascaded system noise temperature seen at
// the LNA input: the antenna temperature contribution from a notional sky
// temperature attenuated by the chain loss, plus the physical-temperature
// contribution of that same loss, plus the LNA's own noise contribution,
// per the Friis cascade formula.
func (c Config) SystemNoiseTempK(skyTempK float64) float64 {
	lossLinear := c.RxChainLoss.Linear()
	antennaContribution := skyTempK / lossLinear
	lossContribution := c.RxPhysTempK * (1 - 1/lossLinear)
	lnaContribution := units.RefTempK * (c.LNANoiseFigure.Linear() - 1)
	return antennaContribution + lossContribution + lnaContribution
}

// GainOverTempDBK computes G/T in dB/K.
func (c Config) GainOverTempDBK(peakGainDBi units.DBi, sysNoiseTempK float64) float64 {
	return float64(peakGainDBi) - 10*math.Log10(sysNoiseTempK)
}

// NoiseFloorDBm computes the thermal noise floor over the given bandwidth
// at the given system noise temperature.
func NoiseFloorDBm(bandwidthHz units.Hz, sysNoiseTempK float64) units.DBm {
	noiseW := units.BoltzmannK * sysNoiseTempK * float64(bandwidthHz)
	return units.DBmFromWatts(noiseW)
}

// ComputeMetrics assembles the operator-facing Metrics snapshot for a sky
// temperature estimate (a fixed 50 K notional clear-sky value is used when
// no per-pass atmospheric model is wired in).
func (c Config) ComputeMetrics(freqHz, bandwidthHz units.Hz, skyTempK float64) Metrics {
	peakGain := c.PeakGainDBi(freqHz)
	tSys := c.SystemNoiseTempK(skyTempK)
	return Metrics{
		SystemNoiseTempK: tSys,
		GainOverTempDBK:  c.GainOverTempDBK(peakGain, tSys),
		NoiseFloorDBm:    NoiseFloorDBm(bandwidthHz, tSys),
	}
}

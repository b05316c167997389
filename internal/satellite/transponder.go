package satellite

import (
	"github.com/satellabs/ewrange/internal/units"
)

// Transponder models a single bent-pipe payload channel: it amplifies,
// adds thermal noise to, and frequency-translates whatever arrives on its
// uplink frequency, without demodulating it.
type Transponder struct {
	ID              string
	UplinkFreq      units.Hz
	DownlinkFreq    units.Hz
	Bandwidth       units.Hz
	MaxPower        units.DBm
	Gain            units.DBi
	NoiseFigure     units.DB
	SaturationPower units.DBm
	Active          bool
}

// saturate applies the soft-knee saturation curve: power above the
// saturation point compresses instead of clipping, then the result is
// hard-clamped to MaxPower.
func (t *Transponder) saturate(p units.DBm) units.DBm {
	if p <= t.SaturationPower {
		return p
	}
	over := float64(p - t.SaturationPower)
	compressed := float64(t.SaturationPower) + over/(1+over/10)
	out := units.DBm(compressed)
	if out > t.MaxPower {
		out = t.MaxPower
	}
	return out
}

// thermalNoiseDBm returns the transponder's additive thermal noise power,
// in dBm, from kTB scaled by the noise figure: N = k*T*B*10^(NF/10).
func (t *Transponder) thermalNoiseDBm() units.DBm {
	nWatts := units.BoltzmannK * units.RefTempK * float64(t.Bandwidth) * t.NoiseFigure.Linear()
	return units.DBmFromWatts(nWatts)
}

// addNoise sums a carrier's linear power with the transponder's thermal
// noise floor and returns the combined power in dBm.
func (t *Transponder) addNoise(p units.DBm) units.DBm {
	total := p.Watts() + t.thermalNoiseDBm().Watts()
	return units.DBmFromWatts(total)
}

// sumLinearDBm combines two dBm powers as if they were independent linear
// power sources (used for interference injection and noise summation).
func sumLinearDBm(a, b units.DBm) units.DBm {
	return units.DBmFromWatts(a.Watts() + b.Watts())
}

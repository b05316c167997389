package antenna_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satellabs/ewrange/internal/antenna"
	"github.com/satellabs/ewrange/internal/rfsignal"
)

func TestEvaluateInterferenceNoOverlapIsNoop(t *testing.T) {
	assert := assert.New(t)
	wanted := rfsignal.Signal{SignalID: "w", Frequency: 6000e6, Bandwidth: 1e6, Power: -80}
	interferer := rfsignal.Signal{SignalID: "i", Frequency: 6010e6, Bandwidth: 1e6, Power: 0}

	v := antenna.EvaluateInterference(wanted, interferer)
	assert.False(v.Blocked)
	assert.False(v.Degraded)
}

// TestEvaluateInterferenceScenarioS3BlocksTheWeakerCarrier reproduces the
// literal scenario: -90/-95 dBm, full spectral overlap, C/I=5dB. The weaker
// carrier (-95) is blocked by the stronger one; the stronger carrier
// (-90) survives, degraded by the weaker interferer.
func TestEvaluateInterferenceScenarioS3BlocksTheWeakerCarrier(t *testing.T) {
	assert := assert.New(t)
	strong := rfsignal.Signal{SignalID: "strong", Frequency: 6000e6, Bandwidth: 1e6, Power: -90}
	weak := rfsignal.Signal{SignalID: "weak", Frequency: 6000e6, Bandwidth: 1e6, Power: -95}

	weakVerdict := antenna.EvaluateInterference(weak, strong)
	assert.True(weakVerdict.Blocked)
	assert.InDelta(100, weakVerdict.OverlapPercent, 0.01)
	assert.InDelta(-5, float64(weakVerdict.CIRatioDB), 0.01)

	strongVerdict := antenna.EvaluateInterference(strong, weak)
	assert.False(strongVerdict.Blocked)
	assert.True(strongVerdict.Degraded)
	assert.InDelta(5, float64(strongVerdict.CIRatioDB), 0.01)
}

// TestEvaluateInterferenceScenarioS4DegradesAtPartialOverlap reproduces the
// literal scenario: 30% overlap, C/I=12dB. Below the blocking overlap gate
// (50%) but above the degrading one (25%), so neither carrier is blocked.
func TestEvaluateInterferenceScenarioS4DegradesAtPartialOverlap(t *testing.T) {
	assert := assert.New(t)
	strong := rfsignal.Signal{SignalID: "strong", Frequency: 6000e6, Bandwidth: 1e6, Power: -80}
	weak := rfsignal.Signal{SignalID: "weak", Frequency: 6000.7e6, Bandwidth: 1e6, Power: -92}

	weakVerdict := antenna.EvaluateInterference(weak, strong)
	assert.False(weakVerdict.Blocked)
	assert.True(weakVerdict.Degraded)
	assert.InDelta(30, weakVerdict.OverlapPercent, 0.01)
	assert.InDelta(-12, float64(weakVerdict.CIRatioDB), 0.01)

	strongVerdict := antenna.EvaluateInterference(strong, weak)
	assert.False(strongVerdict.Blocked)
}

func TestEvaluateInterferenceNoVerdictBelowDegradingOverlapGate(t *testing.T) {
	assert := assert.New(t)
	wanted := rfsignal.Signal{SignalID: "w", Frequency: 6000e6, Bandwidth: 1e6, Power: -80}
	interferer := rfsignal.Signal{SignalID: "i", Frequency: 6000.9e6, Bandwidth: 1e6, Power: -81}

	v := antenna.EvaluateInterference(wanted, interferer)
	assert.False(v.Blocked)
	assert.False(v.Degraded)
}

func TestEvaluateInterferenceNoVerdictAboveDegradingCIThreshold(t *testing.T) {
	assert := assert.New(t)
	wanted := rfsignal.Signal{SignalID: "w", Frequency: 6000e6, Bandwidth: 1e6, Power: -80}
	interferer := rfsignal.Signal{SignalID: "i", Frequency: 6000e6, Bandwidth: 1e6, Power: -96}

	v := antenna.EvaluateInterference(wanted, interferer)
	assert.False(v.Blocked)
	assert.False(v.Degraded)
}

func TestArbitrateAllSkipsSelf(t *testing.T) {
	assert := assert.New(t)
	wanted := rfsignal.Signal{SignalID: "w", Frequency: 6000e6, Bandwidth: 1e6, Power: -80}
	candidates := []rfsignal.Signal{wanted}

	v := antenna.ArbitrateAll(wanted, candidates)
	assert.False(v.Blocked)
	assert.False(v.Degraded)
}

func TestArbitrateAllBlockingBeatsDegrading(t *testing.T) {
	assert := assert.New(t)
	wanted := rfsignal.Signal{SignalID: "w", Frequency: 6000e6, Bandwidth: 1e6, Power: -95}
	degrading := rfsignal.Signal{SignalID: "d", Frequency: 6000.6e6, Bandwidth: 1e6, Power: -96}
	blocking := rfsignal.Signal{SignalID: "b", Frequency: 6000e6, Bandwidth: 1e6, Power: -90}

	v := antenna.ArbitrateAll(wanted, []rfsignal.Signal{degrading, blocking})
	assert.True(v.Blocked)
}

func TestArbitrateAllReturnsDegradingWhenNoBlocker(t *testing.T) {
	assert := assert.New(t)
	wanted := rfsignal.Signal{SignalID: "w", Frequency: 6000e6, Bandwidth: 1e6, Power: -80}
	degrading := rfsignal.Signal{SignalID: "d", Frequency: 6000e6, Bandwidth: 1e6, Power: -90}

	v := antenna.ArbitrateAll(wanted, []rfsignal.Signal{degrading})
	assert.True(v.Degraded)
}

// TestArbitrateAllNeverKeepsAWeakerCarrierAtFullOverlap exercises testable
// property 2: the set of surviving carriers never contains a pair a,b with
// b stronger than a, >=50% mutual overlap, and C/I(a,b)<10dB, with a kept
// unblocked.
func TestArbitrateAllNeverKeepsAWeakerCarrierAtFullOverlap(t *testing.T) {
	assert := assert.New(t)
	a := rfsignal.Signal{SignalID: "a", Frequency: 6000e6, Bandwidth: 1e6, Power: -98}
	b := rfsignal.Signal{SignalID: "b", Frequency: 6000e6, Bandwidth: 1e6, Power: -80}

	v := antenna.ArbitrateAll(a, []rfsignal.Signal{b})
	assert.True(v.Blocked)
}

package antenna

import (
	"github.com/satellabs/ewrange/internal/rfsignal"
	"github.com/satellabs/ewrange/internal/units"
)

// blockingCIThresholdDB is the carrier-to-interference ratio below which,
// given sufficient spectral overlap, the wanted carrier is blocked (if the
// interferer is stronger) or degraded (otherwise).
const blockingCIThresholdDB = 10.0

// blockingOverlapPercent is the minimum fractional overlap (of the wanted
// carrier's own bandwidth) required for the blocking threshold to apply.
const blockingOverlapPercent = 50.0

// degradingCIThresholdDB is the carrier-to-interference ratio below which,
// given sufficient spectral overlap, the wanted carrier is degraded.
const degradingCIThresholdDB = 15.0

// degradingOverlapPercent is the minimum fractional overlap required for
// the degrading threshold to apply.
const degradingOverlapPercent = 25.0

// InterferenceVerdict is the outcome of arbitrating one wanted carrier
// against one candidate interferer.
type InterferenceVerdict struct {
	Blocked        bool
	Degraded       bool
	CIRatioDB      units.DB
	OverlapPercent float64
}

// EvaluateInterference arbitrates wanted against interferer. No spectral
// overlap is a no-op verdict. Otherwise the carrier-to-interference ratio,
// combined with the fraction of wanted's band the interferer overlaps,
// decides the outcome: below blockingCIThresholdDB with at least
// blockingOverlapPercent overlap, wanted is blocked outright if interferer
// is the stronger of the two, otherwise merely degraded; below
// degradingCIThresholdDB with at least degradingOverlapPercent overlap,
// wanted is degraded.
func EvaluateInterference(wanted, interferer rfsignal.Signal) InterferenceVerdict {
	overlapHz := wanted.OverlapHz(interferer)
	if overlapHz <= 0 {
		return InterferenceVerdict{}
	}
	overlapPct := wanted.OverlapPercent(interferer)
	pWanted := wanted.Power.Watts()
	pInterferer := interferer.Power.Watts()
	ci := units.DBFromLinear(pWanted / pInterferer)
	v := InterferenceVerdict{
		CIRatioDB:      ci,
		OverlapPercent: overlapPct,
	}
	switch {
	case float64(ci) < blockingCIThresholdDB && overlapPct >= blockingOverlapPercent:
		if pInterferer > pWanted {
			v.Blocked = true
		} else {
			v.Degraded = true
		}
	case float64(ci) < degradingCIThresholdDB && overlapPct >= degradingOverlapPercent:
		v.Degraded = true
	}
	return v
}

// ArbitrateAll evaluates wanted against every candidate interferer and
// returns the worst-case verdict: any blocking interferer blocks the
// carrier outright; absent a blocker, any degrading interferer degrades
// it.
func ArbitrateAll(wanted rfsignal.Signal, candidates []rfsignal.Signal) InterferenceVerdict {
	worst := InterferenceVerdict{}
	for _, c := range candidates {
		if c.SignalID == wanted.SignalID {
			continue
		}
		v := EvaluateInterference(wanted, c)
		if v.Blocked {
			return v
		}
		if v.Degraded {
			worst = v
		}
	}
	return worst
}

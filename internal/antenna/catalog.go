package antenna

import "github.com/satellabs/ewrange/internal/units"

// Catalog is the static table of named preset antenna configurations,
// keyed by stable identifier, mirroring the original simulator's fixed
// hardware roster. Implementers may extend this map; nothing else in the
// package depends on its contents beyond the keys used by a given
// scenario's configuration file.
var Catalog = map[string]Config{
	"C_BAND_9M_VORTEK": {
		Name:                 "C_BAND_9M_VORTEK",
		DiameterM:            9.0,
		Efficiency:           0.68,
		PolType:              units.PolarizationLHCP,
		RxFreqMinHz:          3700e6,
		RxFreqMaxHz:          4200e6,
		TxFreqMinHz:          5850e6,
		TxFreqMaxHz:          6425e6,
		FeedLoss:             FeedLossModel{UseFormula: true, A: 0.1, B: 0.02, C: 0.01},
		SurfaceRMSM:          0.001,
		BlockageFraction:     0.08,
		XPDdB:                27,
		BeamwidthK:           units.DefaultBeamwidthConstant,
		PointingSigmaDeg:     0.02,
		LNANoiseFigure:       0.8,
		RxChainLoss:          0.3,
		RxPhysTempK:          290,
		ElMin:                5,
		ElMax:                90,
		AzContinuous:         true,
		MaxSlewRateDegPerSec: 1.5,
	},
	"KU_BAND_3M_ANTESTAR": {
		Name:                 "KU_BAND_3M_ANTESTAR",
		DiameterM:            3.0,
		Efficiency:           0.62,
		PolType:              units.PolarizationV,
		RxFreqMinHz:          10950e6,
		RxFreqMaxHz:          12750e6,
		TxFreqMinHz:          13750e6,
		TxFreqMaxHz:          14500e6,
		FeedLoss:             FeedLossModel{UseFormula: true, A: 0.2, B: 0.03, C: 0.015},
		SurfaceRMSM:          0.0008,
		BlockageFraction:     0.05,
		XPDdB:                30,
		BeamwidthK:           units.DefaultBeamwidthConstant,
		PointingSigmaDeg:     0.03,
		LNANoiseFigure:       0.6,
		RxChainLoss:          0.4,
		RxPhysTempK:          290,
		ElMin:                5,
		ElMax:                90,
		AzContinuous:         false,
		AzMin:                0,
		AzMax:                360,
		MaxSlewRateDegPerSec: 2.0,
	},
	"KA_BAND_1_2M_SKYFORGE": {
		Name:                 "KA_BAND_1_2M_SKYFORGE",
		DiameterM:            1.2,
		Efficiency:           0.55,
		PolType:              units.PolarizationRHCP,
		RxFreqMinHz:          18200e6,
		RxFreqMaxHz:          20200e6,
		TxFreqMinHz:          29000e6,
		TxFreqMaxHz:          31000e6,
		FeedLoss:             FeedLossModel{UseFormula: true, A: 0.3, B: 0.04, C: 0.02},
		SurfaceRMSM:          0.0005,
		BlockageFraction:     0.04,
		XPDdB:                25,
		BeamwidthK:           units.DefaultBeamwidthConstant,
		PointingSigmaDeg:     0.015,
		LNANoiseFigure:       1.2,
		RxChainLoss:          0.5,
		RxPhysTempK:          290,
		ElMin:                5,
		ElMax:                90,
		AzContinuous:         false,
		AzMin:                0,
		AzMax:                360,
		MaxSlewRateDegPerSec: 3.0,
	},
}

// ConfigByName returns a copy of the named preset and true if found.
func ConfigByName(name string) (Config, bool) {
	c, ok := Catalog[name]
	return c, ok
}

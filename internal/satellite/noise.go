package satellite

import (
	"hash/fnv"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// smoothNoiseUpdateTicks is how many ticks a generator takes to glide from
// one random target toward the next, giving the Perlin-like smoothness the
// spec calls for instead of a ragged tick-to-tick random walk.
const smoothNoiseUpdateTicks = 12

// smoothNoise is a deterministic, seeded smooth-noise generator producing
// values in [-1, 1]. One is kept alive per signal id for the life of the
// satellite (see Satellite.noiseFor), so a given carrier's power-variation
// trace is reproducible across a replay that feeds the same signal ids.
//
// Grounded on the same shape of per-link seeded fading model used by
// ot-ns's radiomodel.fadingModel: a stable seed derived from a stable key,
// cached generator state, and an occasional re-roll of the target value.
type smoothNoise struct {
	rng     *rand.Rand
	uniform distuv.Uniform

	current   float64
	target    float64
	ticksLeft int
}

// newSmoothNoise creates a smooth-noise generator seeded deterministically
// from id, so the same signal id always produces the same noise trace.
func newSmoothNoise(id string) *smoothNoise {
	seed := seedFromID(id)
	rng := rand.New(rand.NewSource(seed))
	sn := &smoothNoise{
		rng:     rng,
		uniform: distuv.Uniform{Min: -1, Max: 1, Src: rng},
	}
	sn.target = sn.uniform.Rand()
	sn.ticksLeft = smoothNoiseUpdateTicks
	return sn
}

// Next advances the generator by one tick and returns the current smoothed
// value in [-1, 1].
func (sn *smoothNoise) Next() float64 {
	if sn.ticksLeft <= 0 {
		sn.target = sn.uniform.Rand()
		sn.ticksLeft = smoothNoiseUpdateTicks
	}
	sn.ticksLeft--
	// Glide current toward target; this is the "smoothing" in smooth noise.
	sn.current += (sn.target - sn.current) * (1.0 / float64(smoothNoiseUpdateTicks))
	return sn.current
}

// seedFromID derives a reproducible int64 seed from a signal id's bytes, as
// called for in the design notes ("seed derives from id bytes so replays
// are reproducible").
func seedFromID(id string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return int64(h.Sum64())
}

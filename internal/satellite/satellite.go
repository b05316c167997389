// Package satellite implements the bent-pipe transponder model: a
// satellite ingests uplink carriers (external test injections and
// antenna-radiated carriers alike), amplifies and frequency-translates
// them per matching transponder, and applies a configurable set of
// signal-degradation effects before publishing a downlink carrier set.
package satellite

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/satellabs/ewrange/internal/rfsignal"
	"github.com/satellabs/ewrange/internal/units"
)

// DegradationConfig toggles and parameterizes the satellite's signal
// degradation effects. Each effect can be disabled independently so a
// scenario can isolate a single impairment for a training exercise.
type DegradationConfig struct {
	PowerVariationEnabled bool
	PowerVariationRangeDB float64

	AtmosphericEnabled bool

	InterferenceInjectionEnabled bool
	InterferenceInjectionDBm     units.DBm

	HealthDegradationEnabled bool

	DropoutEnabled     bool
	DropoutProbability float64
}

// DefaultDegradationConfig returns a config with every effect enabled at
// mild default magnitudes, suitable for seeding a realistic scenario.
func DefaultDegradationConfig() DegradationConfig {
	return DegradationConfig{
		PowerVariationEnabled:        true,
		PowerVariationRangeDB:        1.5,
		AtmosphericEnabled:           true,
		InterferenceInjectionEnabled: false,
		HealthDegradationEnabled:     true,
		DropoutEnabled:               false,
		DropoutProbability:           0,
	}
}

// Satellite is a geostationary bent-pipe relay. Position is supplied
// externally as Az/El (no orbital propagation is performed by this
// package, per the system's explicit non-goals).
type Satellite struct {
	NoradID         int
	Az              units.Degrees
	El              units.Degrees
	FrequencyOffset units.Hz

	Transponders []*Transponder

	// ExternalSignal is a standing set of test-injected uplink carriers
	// (added/removed via the simulation manager's AddSignal/RemoveSignal).
	// Unlike RxSignal it is not cleared automatically each tick.
	ExternalSignal []rfsignal.Signal

	// RxSignal holds this tick's antenna-radiated uplink carriers. It is
	// cleared by ClearRx at the start of each tick's propagation pass and
	// refilled by the antenna TX construction stage before Tick runs, so
	// Tick always sees a fully-built list, never a partial one.
	RxSignal []rfsignal.Signal

	// TxSignal holds this tick's downlink carriers, computed fresh by Tick.
	TxSignal []rfsignal.Signal

	// Health is a slow random walk in [0.5, 1.0] representing payload
	// health; values below 0.9 mark downlink carriers as degraded.
	Health float64

	DegradationConfig DegradationConfig

	noiseGens map[string]*smoothNoise
	rng       *rand.Rand
	uniform   distuv.Uniform
	tickDraws map[string]float64
}

// New creates a satellite at the given NORAD id and initial pointing,
// with health starting at full strength and a private, independently
// seeded random source so multiple satellites never share draws.
func New(noradID int, az, el units.Degrees, freqOffset units.Hz) *Satellite {
	rng := rand.New(rand.NewSource(int64(noradID)*2654435761 + 1))
	return &Satellite{
		NoradID:           noradID,
		Az:                az,
		El:                el,
		FrequencyOffset:   freqOffset,
		Health:            1.0,
		DegradationConfig: DefaultDegradationConfig(),
		noiseGens:         make(map[string]*smoothNoise),
		rng:               rng,
		uniform:           distuv.Uniform{Min: 0, Max: 1, Src: rng},
		tickDraws:         make(map[string]float64),
	}
}

// AddTransponder registers a transponder on the satellite. Transponder
// lookup during processing is by exact uplink frequency match.
func (s *Satellite) AddTransponder(t *Transponder) {
	s.Transponders = append(s.Transponders, t)
}

// transponderFor returns the active transponder whose UplinkFreq exactly
// matches f, or nil if none matches or the match is inactive.
func (s *Satellite) transponderFor(f units.Hz) *Transponder {
	for _, t := range s.Transponders {
		if t.Active && t.UplinkFreq == f {
			return t
		}
	}
	return nil
}

// ClearRx empties the satellite's per-tick antenna-sourced inbound queue.
// The engine calls this once at the start of each tick, before the
// antenna TX construction stage runs, so that stage can refill it from
// scratch.
func (s *Satellite) ClearRx() {
	s.RxSignal = s.RxSignal[:0]
}

// cachedRand returns a uniform [0,1) draw for key, drawing fresh only the
// first time key is requested within the current tick. This is the
// per-tick random cache called for in the concurrency design: it prevents
// double-sampling the same logical random event (e.g. rain fade for a
// given signal) if multiple code paths ask for it within one tick.
func (s *Satellite) cachedRand(key string) float64 {
	if v, ok := s.tickDraws[key]; ok {
		return v
	}
	v := s.uniform.Rand()
	s.tickDraws[key] = v
	return v
}

// noiseFor returns the smooth-noise generator for signalID, creating one
// (seeded from the id) the first time it is requested. The generator is
// kept alive for the life of the satellite.
func (s *Satellite) noiseFor(signalID string) *smoothNoise {
	g, ok := s.noiseGens[signalID]
	if !ok {
		g = newSmoothNoise(signalID)
		s.noiseGens[signalID] = g
	}
	return g
}

// Tick advances the satellite by one simulation step: it clears the
// per-tick random cache, processes every incoming carrier (external
// injections plus this tick's antenna-radiated ones) through its matching
// transponder, walks the health random walk, and republishes TxSignal
// through the dropout filter.
func (s *Satellite) Tick() {
	s.tickDraws = make(map[string]float64)

	var downlink []rfsignal.Signal
	for _, in := range s.allIncoming() {
		t := s.transponderFor(in.Frequency)
		if t == nil {
			continue
		}
		out := s.processThroughTransponder(in, t)
		downlink = append(downlink, out)
	}

	s.walkHealth()
	s.TxSignal = s.applyDropout(downlink)
}

// allIncoming returns the union of ExternalSignal and this tick's RxSignal.
func (s *Satellite) allIncoming() []rfsignal.Signal {
	out := make([]rfsignal.Signal, 0, len(s.ExternalSignal)+len(s.RxSignal))
	out = append(out, s.ExternalSignal...)
	out = append(out, s.RxSignal...)
	return out
}

// processThroughTransponder runs one carrier through saturation, thermal
// noise, gain, frequency translation, polarization flip, and the
// configured degradation effects, returning the resulting downlink
// carrier as a new value (the input is never mutated).
func (s *Satellite) processThroughTransponder(in rfsignal.Signal, t *Transponder) rfsignal.Signal {
	p := t.saturate(in.Power)
	p = t.addNoise(p)
	p += units.DBm(t.Gain)

	out := in.WithFrequency(in.Frequency - s.FrequencyOffset)
	out = out.WithPolarization(in.Polarization.Opposite(), in.Rotation)
	out = out.WithOrigin(units.OriginSatelliteTx)
	out = out.WithPower(p)

	out = s.applyDegradation(out)
	return out
}

// applyDegradation layers the configured degradation effects onto out in
// the order the spec lists them: power variation, atmospheric (rain fade
// + scintillation), optional interference injection, then health
// degradation.
func (s *Satellite) applyDegradation(out rfsignal.Signal) rfsignal.Signal {
	cfg := s.DegradationConfig
	p := out.Power

	if cfg.PowerVariationEnabled {
		noise := s.noiseFor(out.SignalID).Next()
		p += units.DBm(noise * cfg.PowerVariationRangeDB)
	}

	if cfg.AtmosphericEnabled {
		fGHz := out.Frequency.GHz()
		rainFade := (fGHz / 10) * s.cachedRand("rain:"+out.SignalID) * 2
		scintillation := (s.cachedRand("scint:"+out.SignalID) - 0.5) * 1.5
		p -= units.DBm(rainFade)
		p += units.DBm(scintillation)
	}

	if cfg.InterferenceInjectionEnabled {
		p = sumLinearDBm(p, cfg.InterferenceInjectionDBm)
	}

	if cfg.HealthDegradationEnabled {
		p -= units.DBm((1 - s.Health) * 10)
	}

	out = out.WithPower(p)
	if s.Health < 0.9 || out.IsDegraded {
		out = out.Degrade()
	}
	return out
}

// walkHealth performs the slow random walk described in spec.md §4.4: with
// low probability the payload loses health, and with somewhat higher
// probability (only while below full strength) it recovers.
func (s *Satellite) walkHealth() {
	if s.cachedRand("health:degrade") < 1e-4 {
		s.Health -= 0.01
		if s.Health < 0.5 {
			s.Health = 0.5
		}
	}
	if s.Health < 1.0 && s.cachedRand("health:regain") < 1e-3 {
		s.Health += 0.01
		if s.Health > 1.0 {
			s.Health = 1.0
		}
	}
}

// applyDropout filters downlink, independently dropping each carrier with
// probability DropoutProbability when DropoutEnabled is set. With dropout
// disabled every carrier in downlink survives unchanged.
func (s *Satellite) applyDropout(downlink []rfsignal.Signal) []rfsignal.Signal {
	if !s.DegradationConfig.DropoutEnabled {
		return downlink
	}
	out := make([]rfsignal.Signal, 0, len(downlink))
	for _, sig := range downlink {
		if s.cachedRand("dropout:"+sig.SignalID) < s.DegradationConfig.DropoutProbability {
			continue
		}
		out = append(out, sig)
	}
	return out
}

package units

// Bit-exact constants from the specification. Changing these changes
// simulated physics, so they are named, not inlined.
const (
	// PowerBudgetW is the aggregate power budget, in watts, enforced across
	// a transmitter case's four modems.
	PowerBudgetW = 23886.0

	// GeoSlantRangeKm is the nominal geostationary slant range used by the
	// free-space path loss calculation.
	GeoSlantRangeKm = 38000.0

	// LockThresholdDBm is the minimum carrier power for legacy auto-track
	// to acquire a lock.
	LockThresholdDBm = -100.0

	// StepTrackLockThresholdDBm is the minimum beacon power for the
	// step-track hill climber to consider the beacon visible.
	StepTrackLockThresholdDBm = -110.0

	// SatelliteUplinkDownlinkOffsetHz is the default transponder
	// frequency-translation offset.
	SatelliteUplinkDownlinkOffsetHz = 2.225e9

	// BoltzmannK is Boltzmann's constant in J/K.
	BoltzmannK = 1.38e-23

	// RefTempK is the IEEE/ITU reference noise temperature, 290 K.
	RefTempK = 290.0

	// KTBAt290KDBmPerHz is 10*log10(k*290) expressed in dBm/Hz, i.e. the
	// thermal noise floor per hertz of bandwidth at the reference
	// temperature.
	KTBAt290KDBmPerHz = -174.0

	// DefaultBeamwidthConstant is the default value of the antenna
	// beamwidth constant k used in HPBW = k*lambda/D.
	DefaultBeamwidthConstant = 70.0

	// SpeedOfLightMPerS is the speed of light in meters per second, used to
	// convert frequency to wavelength.
	SpeedOfLightMPerS = 299792458.0
)

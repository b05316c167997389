package transmitter

import (
	"github.com/satellabs/ewrange/internal/rfsignal"
	"github.com/satellabs/ewrange/internal/timer"
	"github.com/satellabs/ewrange/internal/units"
)

// faultResetDelayMs is the deferred delay before a fault-reset request
// actually clears IsFaulted, matching spec.md's 250 ms fault-reset defer.
const faultResetDelayMs = 250

// powerUpRampMs is the simulated power-on start sequence delay.
const powerUpRampMs = 4000

// ModemConfig is the staged/applied configuration for one modem's outgoing
// carrier.
type ModemConfig struct {
	AntennaID string
	Frequency units.Hz
	Bandwidth units.Hz
	Power     units.DBm
}

// Modem is one of a transmitter unit's four IF modems.
type Modem struct {
	ID            string
	ModemNumber   int // 1..4
	AntennaID     string
	Config        ModemConfig
	IFSignal      *rfsignal.Signal

	IsPowered               bool
	IsTransmitting          bool
	IsTransmittingSwitchUp  bool
	IsTestMode              bool
	IsFaulted               bool
	IsFaultSwitchUp         bool

	powerUpHandle    *timer.Handle
	faultResetHandle *timer.Handle
}

// NewModem constructs an unpowered, idle modem.
func NewModem(id string, number int) *Modem {
	return &Modem{ID: id, ModemNumber: number}
}

// cancelTimers cancels any pending power-up or fault-reset timer owned by
// this modem. Every precondition change that invalidates a pending timer
// must call this, per the cancellation contract in spec.md §5.
func (m *Modem) cancelTimers() {
	m.powerUpHandle.Cancel()
	m.faultResetHandle.Cancel()
}

// activeCarrier returns the IF carrier this modem contributes to the RF
// front end's input set this tick, or nil if the modem is not actively
// transmitting. Only a modem that is powered, transmitting, and not
// faulted contributes a carrier.
func (m *Modem) activeCarrier() *rfsignal.Signal {
	if m.IsPowered && m.IsTransmitting && !m.IsFaulted && m.IFSignal != nil {
		return m.IFSignal
	}
	return nil
}

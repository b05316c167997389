package transmitter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satellabs/ewrange/internal/timer"
	"github.com/satellabs/ewrange/internal/transmitter"
	"github.com/satellabs/ewrange/internal/units"
)

func newTestState(q *timer.Queue, now *int64, errs func(transmitter.ErrorEvent)) *transmitter.State {
	return transmitter.New(1, "team-1", "server-1", q, func() int64 { return *now }, errs)
}

func TestPowerConsumptionWattsMonotone(t *testing.T) {
	assert := assert.New(t)
	low := transmitter.PowerConsumptionWatts(1e6, 10)
	high := transmitter.PowerConsumptionWatts(2e6, 10)
	assert.Less(low, high)

	low = transmitter.PowerConsumptionWatts(1e6, 10)
	high = transmitter.PowerConsumptionWatts(1e6, 20)
	assert.Less(low, high)
}

func TestPowerPercentMonotone(t *testing.T) {
	assert := assert.New(t)
	a := transmitter.PowerPercent(1e6, 10)
	b := transmitter.PowerPercent(1e6, 30)
	assert.LessOrEqual(a, b)
}

func TestTogglePowerSchedulesRampThenPowers(t *testing.T) {
	assert := assert.New(t)
	q := timer.NewQueue()
	now := int64(0)
	s := newTestState(q, &now, nil)

	s.TogglePower(1, true)
	assert.False(s.Modems[0].IsPowered)

	now = 4000
	q.Advance(now)
	assert.True(s.Modems[0].IsPowered)
}

func TestTogglePowerOffClearsStateAndCancelsTimer(t *testing.T) {
	assert := assert.New(t)
	q := timer.NewQueue()
	now := int64(0)
	s := newTestState(q, &now, nil)

	s.TogglePower(1, true)
	now = 4000
	q.Advance(now)
	s.ApplyChanges(1, transmitter.ModemConfig{AntennaID: "ANT-1", Frequency: 6000e6, Bandwidth: 1e6, Power: 10})
	s.ToggleTransmit(1)
	assert.True(s.Modems[0].IsTransmitting)

	s.TogglePower(1, false)
	assert.False(s.Modems[0].IsPowered)
	assert.False(s.Modems[0].IsTransmitting)
	assert.False(s.Modems[0].IsFaulted)
}

func TestToggleTransmitFaultsOnBudgetExceeded(t *testing.T) {
	assert := assert.New(t)
	q := timer.NewQueue()
	now := int64(0)
	var lastErr transmitter.ErrorEvent
	s := newTestState(q, &now, func(e transmitter.ErrorEvent) { lastErr = e })

	s.TogglePower(1, true)
	now = 4000
	q.Advance(now)
	// A huge bandwidth/power configuration blows the 23886W case budget alone.
	s.ApplyChanges(1, transmitter.ModemConfig{AntennaID: "ANT-1", Frequency: 6000e6, Bandwidth: 500e6, Power: 50})
	s.ToggleTransmit(1)

	assert.True(s.Modems[0].IsFaulted)
	assert.Equal(1, lastErr.Unit)
	assert.Equal(1, lastErr.Modem)
}

func TestToggleFaultResetClearsFaultAfterDelayWhenNotTransmitting(t *testing.T) {
	assert := assert.New(t)
	q := timer.NewQueue()
	now := int64(0)
	s := newTestState(q, &now, nil)
	s.Modems[0].IsFaulted = true

	s.ToggleFaultReset(1)
	now = 250
	q.Advance(now)

	assert.False(s.Modems[0].IsFaulted)
	assert.False(s.Modems[0].IsFaultSwitchUp)
}

func TestToggleFaultResetCoalescesRepeatedCalls(t *testing.T) {
	assert := assert.New(t)
	q := timer.NewQueue()
	now := int64(0)
	s := newTestState(q, &now, nil)
	s.Modems[0].IsFaulted = true

	s.ToggleFaultReset(1)
	now = 100
	s.ToggleFaultReset(1)
	now = 200
	s.ToggleFaultReset(1)

	// Only the last scheduled reset (fires at 200+250=450) should apply.
	now = 350
	q.Advance(now)
	assert.True(s.Modems[0].IsFaulted, "earlier coalesced resets must not fire")

	now = 450
	q.Advance(now)
	assert.False(s.Modems[0].IsFaulted)
}

func TestApplyChangesBuildsIFSignal(t *testing.T) {
	assert := assert.New(t)
	q := timer.NewQueue()
	now := int64(0)
	s := newTestState(q, &now, nil)

	s.ApplyChanges(1, transmitter.ModemConfig{AntennaID: "ANT-1", Frequency: 6000e6, Bandwidth: 1e6, Power: 10})
	assert.NotNil(s.Modems[0].IFSignal)
	assert.Equal(units.Hz(6000e6), s.Modems[0].IFSignal.Frequency)
	assert.Equal("ANT-1", s.Modems[0].AntennaID)
}

func TestActiveCarriersOnlyIncludesPoweredTransmittingUnfaulted(t *testing.T) {
	assert := assert.New(t)
	q := timer.NewQueue()
	now := int64(0)
	s := newTestState(q, &now, nil)

	s.ApplyChanges(1, transmitter.ModemConfig{AntennaID: "ANT-1", Frequency: 6000e6, Bandwidth: 1e6, Power: -80})
	assert.Empty(s.ActiveCarriers(), "not powered or transmitting yet")

	s.TogglePower(1, true)
	now = 4000
	q.Advance(now)
	s.ToggleTransmit(1)
	assert.Len(s.ActiveCarriers(), 1)
}

func TestActiveCarriersByAntennaGroups(t *testing.T) {
	assert := assert.New(t)
	q := timer.NewQueue()
	now := int64(0)
	s := newTestState(q, &now, nil)

	s.TogglePower(1, true)
	s.TogglePower(2, true)
	now = 4000
	q.Advance(now)

	s.ApplyChanges(1, transmitter.ModemConfig{AntennaID: "ANT-1", Frequency: 6000e6, Bandwidth: 1e6, Power: -80})
	s.ApplyChanges(2, transmitter.ModemConfig{AntennaID: "ANT-2", Frequency: 6100e6, Bandwidth: 1e6, Power: -80})
	s.ToggleTransmit(1)
	s.ToggleTransmit(2)

	grouped := s.ActiveCarriersByAntenna()
	assert.Len(grouped["ANT-1"], 1)
	assert.Len(grouped["ANT-2"], 1)
}

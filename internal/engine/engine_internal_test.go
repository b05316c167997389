package engine

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/satellabs/ewrange/internal/antenna"
	"github.com/satellabs/ewrange/internal/config"
	"github.com/satellabs/ewrange/internal/eventbus"
	"github.com/satellabs/ewrange/internal/satellite"
	"github.com/satellabs/ewrange/internal/transmitter"
	"github.com/satellabs/ewrange/internal/units"
)

func testLogger() *log.Logger {
	return log.New(os.Stderr, "test ", 0)
}

func newTestEngine() *Engine {
	cfg := config.Default()
	cfg.Engine.TickHz = 60
	return New(eventbus.New(), cfg, testLogger())
}

func TestNewEngineStartsInBootingState(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()
	assert.Equal("BOOTING", e.State())
}

func TestTransitionPublishesStateChangeOnce(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()
	e.transition("RUNNING")
	assert.Equal("RUNNING", e.State())

	// Transitioning to the same state again must be a no-op.
	e.transition("RUNNING")
	assert.Equal("RUNNING", e.State())
}

func TestTickAdvancesClockAndCount(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()
	e.tick(16*time.Millisecond, 60)
	assert.Equal(int64(1), e.TickCount())
	assert.Equal(int64(16), e.NowMs())
}

func TestTickClearsAndRoutesSatelliteSignals(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	acfg, _ := antenna.ConfigByName("C_BAND_9M_VORTEK")
	e.AddAntenna("ANT-1", "team-1", "server-1", acfg)
	sat := satellite.New(40732, 120, 45, units.Hz(units.SatelliteUplinkDownlinkOffsetHz))
	sat.AddTransponder(&satellite.Transponder{
		ID: "XPDR-1", UplinkFreq: 5925e6, DownlinkFreq: 3700e6, Bandwidth: 36e6,
		MaxPower: 45, Gain: 110, NoiseFigure: 3, SaturationPower: 48, Active: true,
	})
	e.AddSatellite(sat)

	ant := e.Antenna("ANT-1")
	ant.State.TargetSatelliteID = 40732
	ant.State.Azimuth, ant.State.Elevation = 120, 45

	tx := e.AddTransmitter(1, "team-1", "server-1")
	tx.ApplyChanges(1, transmitter.ModemConfig{
		AntennaID: "ANT-1", Frequency: 5925e6, Bandwidth: 36e6, Power: -95,
	})
	tx.Modems[0].IsPowered = true
	tx.ToggleTransmit(1)

	e.tick(16*time.Millisecond, 60)

	assert.NotEmpty(sat.RxSignal, "the antenna's uplink carrier should have been routed to the satellite")
}

func TestHandleInjectSignalAddsExternalSignalAndReplies(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()
	sat := satellite.New(40732, 120, 45, units.Hz(units.SatelliteUplinkDownlinkOffsetHz))
	e.AddSatellite(sat)

	reply := make(chan CommandResult, 1)
	e.handleCommand(Command{
		Type:    "inject_signal",
		Payload: []byte(`{"norad_id":40732,"signal_id":"jammer-1","frequency_hz":6000000000,"bandwidth_hz":1000000,"power_dbm":-60}`),
		Reply:   reply,
	})

	result := <-reply
	assert.True(result.OK)
	assert.NotEmpty(sat.ExternalSignal)
	assert.Equal("jammer-1", sat.ExternalSignal[0].SignalID)
}

func TestHandleCommandUnknownTypeRepliesWithError(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	reply := make(chan CommandResult, 1)
	e.handleCommand(Command{Type: "bogus", Reply: reply})

	result := <-reply
	assert.False(result.OK)
	assert.NotEmpty(result.Error)
}

func TestHandleInjectSignalRejectsInvalidPayload(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	reply := make(chan CommandResult, 1)
	e.handleCommand(Command{Type: "inject_signal", Payload: []byte(`not json`), Reply: reply})

	result := <-reply
	assert.False(result.OK)
	assert.NotEmpty(result.Error)
}

func TestNoiseFloorForFallsBackBeforeFirstMetrics(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	acfg, _ := antenna.ConfigByName("C_BAND_9M_VORTEK")
	core := e.AddAntenna("ANT-1", "team-1", "server-1", acfg)
	assert.Nil(core.State.RFMetrics)
	assert.Equal(units.DBm(-120), noiseFloorFor(core))
}

package demo_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/satellabs/ewrange/internal/config"
	"github.com/satellabs/ewrange/internal/demo"
	"github.com/satellabs/ewrange/internal/engine"
	"github.com/satellabs/ewrange/internal/eventbus"
)

func newTestEngine() *engine.Engine {
	cfg := config.Default()
	return engine.New(eventbus.New(), cfg, log.New(os.Stderr, "test ", 0))
}

func TestSeedRegistersAntennaTransmitterAndSatellite(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	demo.Seed(e)

	assert.NotNil(e.Antenna(demo.AntennaID))
	assert.NotNil(e.Transmitter(demo.TransmitterUnit))
	assert.NotNil(e.Manager().SatByNorad(demo.SatelliteNorad))
}

func TestSeedSatelliteHasMatchingTransponder(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	demo.Seed(e)

	sat := e.Manager().SatByNorad(demo.SatelliteNorad)
	assert.NotNil(sat)
	assert.Len(sat.Transponders, 1)
	assert.Equal("XPDR-1", sat.Transponders[0].ID)
}

func TestRunnerCancelledBeforeFirstStepTakesNoAction(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()
	demo.Seed(e)
	r := demo.New(e)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return promptly after context cancellation")
	}

	ant := e.Antenna(demo.AntennaID)
	assert.Equal(0, ant.State.TargetSatelliteID, "a cancelled Runner must not have pointed the antenna")
}

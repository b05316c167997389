package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/satellabs/ewrange/internal/eventbus"
	"github.com/satellabs/ewrange/internal/telemetry"
)

func TestPublishBeforeRunDoesNotBlock(t *testing.T) {
	assert := assert.New(t)
	bus := eventbus.New()

	assert.NotPanics(func() {
		bus.Publish(telemetry.Heartbeat{State: "RUNNING"})
	})
}

func TestPublishPhasedStampsEventBeforePublishing(t *testing.T) {
	assert := assert.New(t)
	bus := eventbus.New()

	hb := &telemetry.Heartbeat{State: "RUNNING"}
	assert.NotPanics(func() {
		bus.PublishPhased(telemetry.PhaseUpdate, hb)
	})
	assert.Equal(telemetry.PhaseUpdate, hb.Phase)
	assert.NotEmpty(hb.TS)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	assert := assert.New(t)
	bus := eventbus.New()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		bus.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestHandlerIsAnHTTPHandler(t *testing.T) {
	assert := assert.New(t)
	bus := eventbus.New()
	assert.NotNil(bus.Handler())
}

package telemetry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satellabs/ewrange/internal/telemetry"
)

func TestStampSetsPhaseAndNonEmptyTimestamp(t *testing.T) {
	assert := assert.New(t)
	hb := &telemetry.Heartbeat{State: "RUNNING", TickCount: 42}

	hb.Stamp(telemetry.PhaseUpdate)

	assert.Equal(telemetry.PhaseUpdate, hb.Phase)
	assert.NotEmpty(hb.TS)
}

func TestStampOverwritesPreviousTimestamp(t *testing.T) {
	assert := assert.New(t)
	ev := &telemetry.Event{TS: "stale", Phase: telemetry.PhaseDraw}

	ev.Stamp(telemetry.PhaseSync)

	assert.Equal(telemetry.PhaseSync, ev.Phase)
	assert.NotEqual("stale", ev.TS)
}

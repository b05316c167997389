package receiver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satellabs/ewrange/internal/receiver"
)

func TestClassifyBlockedIsAlwaysDenied(t *testing.T) {
	assert := assert.New(t)
	status := receiver.Classify(-50, -120, true, false)
	assert.Equal(receiver.StatusDenied, status)
}

func TestClassifyBelowNoiseFloorIsNoSignal(t *testing.T) {
	assert := assert.New(t)
	status := receiver.Classify(-130, -120, false, false)
	assert.Equal(receiver.StatusNoSignal, status)
}

func TestClassifyAtNoiseFloorIsNoSignal(t *testing.T) {
	assert := assert.New(t)
	status := receiver.Classify(-120, -120, false, false)
	assert.Equal(receiver.StatusNoSignal, status)
}

func TestClassifyThinMarginIsDegraded(t *testing.T) {
	assert := assert.New(t)
	status := receiver.Classify(-115, -120, false, false)
	assert.Equal(receiver.StatusDegraded, status)
}

func TestClassifyDegradedUpstreamOverridesGoodMargin(t *testing.T) {
	assert := assert.New(t)
	status := receiver.Classify(-50, -120, false, true)
	assert.Equal(receiver.StatusDegraded, status)
}

func TestClassifyStrongMarginIsFound(t *testing.T) {
	assert := assert.New(t)
	status := receiver.Classify(-50, -120, false, false)
	assert.Equal(receiver.StatusFound, status)
}

func TestClassifyExactlyAtMarginThresholdIsDegraded(t *testing.T) {
	assert := assert.New(t)
	status := receiver.Classify(-114, -120, false, false)
	assert.Equal(receiver.StatusDegraded, status)
}

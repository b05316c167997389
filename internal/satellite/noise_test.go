package satellite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSmoothNoiseIsDeterministicForSameID(t *testing.T) {
	assert := assert.New(t)
	a := newSmoothNoise("tx1-modem1")
	b := newSmoothNoise("tx1-modem1")

	for i := 0; i < 50; i++ {
		assert.Equal(a.Next(), b.Next())
	}
}

func TestNewSmoothNoiseDiffersAcrossIDs(t *testing.T) {
	assert := assert.New(t)
	a := newSmoothNoise("tx1-modem1")
	b := newSmoothNoise("tx2-modem1")

	var diff bool
	for i := 0; i < 50; i++ {
		if a.Next() != b.Next() {
			diff = true
			break
		}
	}
	assert.True(diff, "distinct signal ids should not produce an identical noise trace")
}

func TestSmoothNoiseStaysBounded(t *testing.T) {
	assert := assert.New(t)
	sn := newSmoothNoise("tx1-modem1")
	for i := 0; i < 1000; i++ {
		v := sn.Next()
		assert.GreaterOrEqual(v, -1.0)
		assert.LessOrEqual(v, 1.0)
	}
}

func TestSeedFromIDStable(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(seedFromID("abc"), seedFromID("abc"))
	assert.NotEqual(seedFromID("abc"), seedFromID("abd"))
}

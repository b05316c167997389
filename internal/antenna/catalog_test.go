package antenna_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satellabs/ewrange/internal/antenna"
)

func TestConfigByNameFindsKnownPreset(t *testing.T) {
	assert := assert.New(t)
	c, ok := antenna.ConfigByName("C_BAND_9M_VORTEK")
	assert.True(ok)
	assert.Equal(9.0, c.DiameterM)
}

func TestConfigByNameMissingPresetReturnsFalse(t *testing.T) {
	assert := assert.New(t)
	_, ok := antenna.ConfigByName("NO_SUCH_PRESET")
	assert.False(ok)
}

func TestCatalogHasThreePresets(t *testing.T) {
	assert := assert.New(t)
	assert.Len(antenna.Catalog, 3)
}

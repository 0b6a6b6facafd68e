package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisabledByDefault(t *testing.T) {
	reset()
	assert.False(t, IsEnabled())
	assert.Nil(t, GetRegistry())
}

func TestInitRegistryEnables(t *testing.T) {
	reset()
	defer reset()

	reg := InitRegistry()
	assert.True(t, IsEnabled())
	assert.Same(t, reg, GetRegistry())
}

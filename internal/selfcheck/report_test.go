package selfcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatGrad(t *testing.T) {
	assert.Equal(t, "8.0", formatGrad(8))
	assert.Equal(t, "-2.0", formatGrad(-2))
	assert.Equal(t, "7.5", formatGrad(7.5))
	assert.Equal(t, "7.9999995", formatGrad(float64(float32(7.9999995))))
	assert.Equal(t, "3", trimFloat(3))
	assert.Equal(t, "8", trimFloat(8))
}

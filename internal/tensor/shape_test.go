package tensor_test

import (
	"testing"

	"github.com/born-ml/borncheck/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_NumElements(t *testing.T) {
	tests := []struct {
		name  string
		shape tensor.Shape
		want  int
	}{
		{"scalar", tensor.Shape{}, 1},
		{"vector", tensor.Shape{5}, 5},
		{"matrix", tensor.Shape{2000, 2000}, 4_000_000},
		{"batch", tensor.Shape{4, 10}, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.shape.NumElements())
		})
	}
}

func TestShape_String(t *testing.T) {
	assert.Equal(t, "(4, 10)", tensor.Shape{4, 10}.String())
	assert.Equal(t, "()", tensor.Shape{}.String())
	assert.Equal(t, "(2000, 2000)", tensor.Shape{2000, 2000}.String())
}

func TestShape_Validate(t *testing.T) {
	assert.NoError(t, tensor.Shape{1, 2}.Validate())
	assert.Error(t, tensor.Shape{1, 0}.Validate())
	assert.Error(t, tensor.Shape{-3}.Validate())
}

func TestShape_ComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, tensor.Shape{2, 3, 4}.ComputeStrides())
	assert.Empty(t, tensor.Shape{}.ComputeStrides())
}

func TestBroadcastShapes(t *testing.T) {
	out, needs, err := tensor.BroadcastShapes(tensor.Shape{3, 1}, tensor.Shape{3, 5})
	require.NoError(t, err)
	assert.True(t, needs)
	assert.Equal(t, tensor.Shape{3, 5}, out)

	out, needs, err = tensor.BroadcastShapes(tensor.Shape{}, tensor.Shape{2, 2})
	require.NoError(t, err)
	assert.True(t, needs)
	assert.Equal(t, tensor.Shape{2, 2}, out)

	out, needs, err = tensor.BroadcastShapes(tensor.Shape{4, 5}, tensor.Shape{4, 5})
	require.NoError(t, err)
	assert.False(t, needs)
	assert.Equal(t, tensor.Shape{4, 5}, out)

	_, _, err = tensor.BroadcastShapes(tensor.Shape{3, 4}, tensor.Shape{3, 5})
	assert.Error(t, err)
}

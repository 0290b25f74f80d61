//go:build windows

package webgpu

import (
	"fmt"
	"math"

	"github.com/born-ml/borncheck/internal/backend/cpu"
	"github.com/born-ml/borncheck/internal/parallel"
	"github.com/born-ml/borncheck/internal/tensor"
)

// host runs the kernels WGSL cannot express here: float64 data, broadcasting
// and layout changes. These see bias rows and scalars, so they stay on the
// calling goroutine.
var host = cpu.NewWithConfig(parallel.Serial)

// MatMul multiplies two float32 matrices on the GPU. The result stays on the
// device and is pending until read.
func (b *Backend) MatMul(a, other *tensor.RawTensor) *tensor.RawTensor {
	if len(a.Shape()) != 2 || len(other.Shape()) != 2 {
		panic(fmt.Sprintf("webgpu: matmul requires 2D tensors, got %s and %s", a.Shape(), other.Shape()))
	}
	m, k, n := a.Shape()[0], a.Shape()[1], other.Shape()[1]
	if other.Shape()[0] != k {
		panic(fmt.Sprintf("webgpu: matmul shape mismatch: %s @ %s", a.Shape(), other.Shape()))
	}
	if a.DType() != other.DType() {
		panic(fmt.Sprintf("webgpu: matmul dtype mismatch: %s vs %s", a.DType(), other.DType()))
	}
	if a.DType() != tensor.Float32 {
		return onHost(host.MatMul, a, other)
	}

	return b.dispatch(kernel{
		name:   "matmul",
		code:   matmulShader,
		params: u32Params(uint32(m), uint32(k), uint32(n)),
		groups: [2]uint32{
			uint32(math.Ceil(float64(n) / tile)),
			uint32(math.Ceil(float64(m) / tile)),
		},
	}, tensor.Shape{m, n}, a, other)
}

// Add adds element-wise, on the GPU when no broadcasting is involved.
func (b *Backend) Add(a, other *tensor.RawTensor) *tensor.RawTensor {
	return b.binary("add", "+", a, other, host.Add)
}

// Mul multiplies element-wise, on the GPU when no broadcasting is involved.
func (b *Backend) Mul(a, other *tensor.RawTensor) *tensor.RawTensor {
	return b.binary("mul", "*", a, other, host.Mul)
}

func (b *Backend) binary(name, op string, a, other *tensor.RawTensor, fallback func(a, b *tensor.RawTensor) *tensor.RawTensor) *tensor.RawTensor {
	if !gpuFriendly(a) || !gpuFriendly(other) || !a.Shape().Equal(other.Shape()) {
		return onHost(fallback, a, other)
	}
	n := a.NumElements()
	return b.dispatch(kernel{
		name:   name,
		code:   binaryShader(op),
		params: u32Params(uint32(n)),
		groups: groups1D(n),
	}, a.Shape().Clone(), a, other)
}

// AddScalar adds scalar to every element.
func (b *Backend) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	if !gpuFriendly(x) {
		return onDevice(host.AddScalar(x, scalar))
	}
	return b.affine(x, 1, float32(scalar))
}

// MulScalar multiplies every element by scalar.
func (b *Backend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	if !gpuFriendly(x) {
		return onDevice(host.MulScalar(x, scalar))
	}
	return b.affine(x, float32(scalar), 0)
}

func (b *Backend) affine(x *tensor.RawTensor, scale, shift float32) *tensor.RawTensor {
	n := x.NumElements()
	params := u32Params(uint32(n), math.Float32bits(scale), math.Float32bits(shift))
	return b.dispatch(kernel{
		name:   "affine",
		code:   affineShader,
		params: params,
		groups: groups1D(n),
	}, x.Shape().Clone(), x)
}

// ReLU computes max(0, x).
func (b *Backend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	if !gpuFriendly(x) {
		return onDevice(host.ReLU(x))
	}
	n := x.NumElements()
	return b.dispatch(kernel{
		name:   "relu",
		code:   reluShader,
		params: u32Params(uint32(n)),
		groups: groups1D(n),
	}, x.Shape().Clone(), x)
}

// Reshape returns x with a new shape.
func (b *Backend) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	return onDevice(host.Reshape(x, newShape))
}

// Transpose permutes the axes of x.
func (b *Backend) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	return onDevice(host.Transpose(x, axes...))
}

// gpuFriendly reports whether x can be fed to a float32 kernel.
func gpuFriendly(x *tensor.RawTensor) bool {
	return x.DType() == tensor.Float32 && x.NumElements() > 0
}

// onHost runs a binary host kernel without letting it write into a or other,
// whose device copies would otherwise go stale.
func onHost(kernel func(a, b *tensor.RawTensor) *tensor.RawTensor, a, other *tensor.RawTensor) *tensor.RawTensor {
	defer a.ForceNonUnique()()
	defer other.ForceNonUnique()()
	return onDevice(kernel(a, other))
}

// onDevice relabels a host result as living on the WebGPU device.
func onDevice(x *tensor.RawTensor) *tensor.RawTensor {
	out, err := tensor.NewRaw(x.Shape().Clone(), x.DType(), tensor.WebGPU)
	if err != nil {
		panic("webgpu: " + err.Error())
	}
	copy(out.Data(), x.Data())
	return out
}

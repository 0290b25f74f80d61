package tensor

// Backend is the set of kernels a compute device must provide.
//
// Implementations:
//   - cpu.CPUBackend: pure Go, matrix multiplication through gonum BLAS
//   - webgpu.Backend: WGSL compute shaders via go-webgpu (Windows)
//   - autodiff.AutodiffBackend: decorator recording operations for gradients
//
// Kernels panic on invalid shapes or dtypes; those are programming errors.
type Backend interface {
	// Element-wise binary operations with NumPy broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor

	// MatMul multiplies 2-D tensors: (M, K) @ (K, N) → (M, N).
	MatMul(a, b *RawTensor) *RawTensor

	// Element-wise operations with a scalar, converted to the tensor's dtype.
	AddScalar(x *RawTensor, scalar float64) *RawTensor
	MulScalar(x *RawTensor, scalar float64) *RawTensor

	// ReLU computes max(0, x) element-wise.
	ReLU(x *RawTensor) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}

// Synchronizer is implemented by backends that dispatch work asynchronously
// with respect to the host. Synchronize blocks until every operation submitted
// so far has completed on the device. Results stay in device memory; reading a
// tensor's data copies it to the host on demand.
//
// Timing such a backend without calling Synchronize first measures only the
// dispatch, not the work.
type Synchronizer interface {
	Synchronize() error
}

// Synchronize waits for pending work on b if b dispatches asynchronously.
// It returns true when a barrier was actually issued.
func Synchronize(b Backend) (bool, error) {
	s, ok := b.(Synchronizer)
	if !ok {
		return false, nil
	}
	return true, s.Synchronize()
}

// Uploader is implemented by backends with their own memory. Upload copies
// the host data of x into device memory and keeps it there, so later kernels
// read x without a transfer. Host writes to x after Upload are not seen by the
// device.
type Uploader interface {
	Upload(x *RawTensor) error
}

// Upload makes every tensor in xs resident on b if b has device memory.
// It returns true when b is an Uploader.
func Upload(b Backend, xs ...*RawTensor) (bool, error) {
	u, ok := b.(Uploader)
	if !ok {
		return false, nil
	}
	for _, x := range xs {
		if err := u.Upload(x); err != nil {
			return true, err
		}
	}
	return true, nil
}

package tensor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Device identifies where a tensor's computation runs.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	WebGPU
)

// String returns the lower-case device name used in diagnostics.
func (d Device) String() string {
	switch d {
	case CPU:
		return "cpu"
	case WebGPU:
		return "webgpu"
	default:
		return "unknown"
	}
}

// tensorBuffer is a reference-counted buffer shared between clones.
// When refCount == 1 backends may write results in place.
type tensorBuffer struct {
	data     []byte
	refCount atomic.Int32
}

func newTensorBuffer(size int) *tensorBuffer {
	buf := &tensorBuffer{data: make([]byte, size)}
	buf.refCount.Store(1)
	return buf
}

func (tb *tensorBuffer) addRef() { tb.refCount.Add(1) }

func (tb *tensorBuffer) release() {
	if tb.refCount.Add(-1) == 0 {
		tb.data = nil
	}
}

func (tb *tensorBuffer) isUnique() bool { return tb.refCount.Load() == 1 }

// pendingData is host memory that an asynchronous backend has not written yet.
// fetch blocks until the device result is available and returns its bytes.
type pendingData struct {
	once  sync.Once
	done  atomic.Bool
	fetch func() ([]byte, error)
	err   error
}

// RawTensor is the untyped tensor representation backends operate on.
type RawTensor struct {
	buffer  *tensorBuffer
	shape   Shape
	stride  []int
	dtype   DataType
	device  Device
	pending *pendingData
}

// NewRaw allocates a zero-filled RawTensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &RawTensor{
		buffer: newTensorBuffer(shape.NumElements() * dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// NewPendingRaw allocates a RawTensor whose contents are produced
// asynchronously. fetch is called at most once, on the first access to the
// data or on an explicit Realize.
func NewPendingRaw(shape Shape, dtype DataType, device Device, fetch func() ([]byte, error)) (*RawTensor, error) {
	r, err := NewRaw(shape, dtype, device)
	if err != nil {
		return nil, err
	}
	r.pending = &pendingData{fetch: fetch}
	return r, nil
}

// IsPending reports whether the tensor still waits on device work.
func (r *RawTensor) IsPending() bool {
	return r.pending != nil && !r.pending.done.Load()
}

// Realize blocks until pending device work for this tensor has completed and
// its bytes have been copied into host memory. It is a no-op for host tensors.
func (r *RawTensor) Realize() error {
	p := r.pending
	if p == nil {
		return nil
	}
	p.once.Do(func() {
		defer p.done.Store(true)
		data, err := p.fetch()
		if err != nil {
			p.err = err
			return
		}
		if len(data) != len(r.buffer.data) {
			p.err = fmt.Errorf("pending tensor %v: device returned %d bytes, want %d", r.shape, len(data), len(r.buffer.data))
			return
		}
		copy(r.buffer.data, data)
	})
	return p.err
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape { return r.shape }

// Strides returns the row-major strides.
func (r *RawTensor) Strides() []int { return r.stride }

// DType returns the element type.
func (r *RawTensor) DType() DataType { return r.dtype }

// Device returns the compute device the tensor was created for.
func (r *RawTensor) Device() Device { return r.device }

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int { return r.shape.NumElements() }

// ByteSize returns the memory size in bytes.
func (r *RawTensor) ByteSize() int { return r.NumElements() * r.dtype.Size() }

// Data returns the raw bytes, realizing pending device work first.
// Panics if the device failed to produce the data.
func (r *RawTensor) Data() []byte {
	if err := r.Realize(); err != nil {
		panic(fmt.Sprintf("tensor data unavailable: %v", err))
	}
	return r.buffer.data
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	data := r.Data()
	//nolint:gosec // length is bounded by NumElements
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), r.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	data := r.Data()
	//nolint:gosec // length is bounded by NumElements
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), r.NumElements())
}

// Clone returns a shallow copy sharing the same buffer.
func (r *RawTensor) Clone() *RawTensor {
	r.buffer.addRef()
	return &RawTensor{
		buffer:  r.buffer,
		shape:   r.shape.Clone(),
		stride:  append([]int(nil), r.stride...),
		dtype:   r.dtype,
		device:  r.device,
		pending: r.pending,
	}
}

// Release drops this reference to the shared buffer.
func (r *RawTensor) Release() { r.buffer.release() }

// IsUnique reports whether this tensor is the only owner of its buffer.
// Backends use it to decide whether an in-place write is safe.
func (r *RawTensor) IsUnique() bool { return r.buffer.isUnique() }

// ForceNonUnique pins the buffer against in-place writes until the returned
// function is called:
//
//	defer x.ForceNonUnique()()
func (r *RawTensor) ForceNonUnique() func() {
	r.buffer.addRef()
	return r.buffer.release
}

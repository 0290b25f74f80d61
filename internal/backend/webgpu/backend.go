//go:build windows

package webgpu

import (
	"fmt"
	"sync"

	"github.com/born-ml/borncheck/internal/tensor"
	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Backend runs tensor kernels on a WebGPU device.
type Backend struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	info     wgpu.AdapterInfo

	mu        sync.RWMutex
	shaders   map[string]*wgpu.ShaderModule
	pipelines map[string]*wgpu.ComputePipeline

	// Device memory. resident maps a tensor to the buffer holding its data,
	// either uploaded or produced by a kernel. retired holds per-dispatch
	// temporaries that are freed once the queue is idle.
	memMu    sync.Mutex
	resident map[*tensor.RawTensor]*wgpu.Buffer
	retired  []releaser
	// fence is the copy source Synchronize orders behind submitted work.
	fence *wgpu.Buffer
}

type releaser interface{ Release() }

var (
	_ tensor.Backend      = (*Backend)(nil)
	_ tensor.Synchronizer = (*Backend)(nil)
	_ tensor.Uploader     = (*Backend)(nil)
)

// New creates a backend on the high-performance adapter.
func New() (backend *Backend, err error) {
	// wgpu panics when the native library cannot be loaded.
	defer func() {
		if r := recover(); r != nil {
			backend = nil
			err = errors.Wrapf(ErrUnavailable, "native library: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, errors.Wrap(err, "webgpu: requesting adapter")
	}
	info := adapter.GetInfo()

	dev, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, errors.Wrap(err, "webgpu: requesting device")
	}
	queue := dev.GetQueue()
	if queue == nil {
		dev.Release()
		adapter.Release()
		instance.Release()
		return nil, errors.New("webgpu: device has no queue")
	}

	klog.V(1).Infof("webgpu: using adapter %q (%s)", info.Device, info.Vendor)
	b := &Backend{
		instance:  instance,
		adapter:   adapter,
		device:    dev,
		queue:     queue,
		info:      info,
		shaders:   make(map[string]*wgpu.ShaderModule),
		pipelines: make(map[string]*wgpu.ComputePipeline),
		resident:  make(map[*tensor.RawTensor]*wgpu.Buffer),
	}
	b.fence = b.upload(make([]byte, fenceSize), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	return b, nil
}

// Open returns a new Backend as a tensor.Backend.
func Open() (tensor.Backend, error) {
	b, err := New()
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Release waits for outstanding work and frees all WebGPU objects. Tensors
// still pending afterwards can no longer be read.
func (b *Backend) Release() {
	if err := b.Synchronize(); err != nil {
		klog.Warningf("webgpu: synchronize on release: %v", err)
	}

	b.memMu.Lock()
	for _, buf := range b.resident {
		buf.Release()
	}
	b.resident = nil
	if b.fence != nil {
		b.fence.Release()
		b.fence = nil
	}
	b.memMu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.pipelines {
		p.Release()
	}
	b.pipelines = nil
	for _, s := range b.shaders {
		s.Release()
	}
	b.shaders = nil

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// Name returns the backend name including the adapter.
func (b *Backend) Name() string {
	if b.info.Device == "" {
		return "WebGPU"
	}
	return fmt.Sprintf("WebGPU (%s)", b.info.Device)
}

// Device returns tensor.WebGPU.
func (b *Backend) Device() tensor.Device {
	return tensor.WebGPU
}

// Synchronize blocks until every kernel submitted so far has completed on the
// device. Results are not copied to the host; reading a pending tensor does
// that on demand.
func (b *Backend) Synchronize() error {
	if err := b.waitIdle(); err != nil {
		return errors.Wrap(err, "webgpu: waiting for queue")
	}

	b.memMu.Lock()
	retired := b.retired
	b.retired = nil
	b.memMu.Unlock()
	for _, r := range retired {
		r.Release()
	}
	return nil
}

// Upload copies the float32 data of x into a device buffer that kernels then
// read directly. Other dtypes run on the host and are left alone.
func (b *Backend) Upload(x *tensor.RawTensor) error {
	if !gpuFriendly(x) {
		return nil
	}
	if _, ok := b.residentBuffer(x); ok {
		return nil
	}
	buf := b.upload(x.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst)
	b.keep(x, buf)
	return nil
}

func (b *Backend) residentBuffer(x *tensor.RawTensor) (*wgpu.Buffer, bool) {
	b.memMu.Lock()
	defer b.memMu.Unlock()
	buf, ok := b.resident[x]
	return buf, ok
}

func (b *Backend) keep(x *tensor.RawTensor, buf *wgpu.Buffer) {
	b.memMu.Lock()
	b.resident[x] = buf
	b.memMu.Unlock()
}

func (b *Backend) retire(rs ...releaser) {
	b.memMu.Lock()
	b.retired = append(b.retired, rs...)
	b.memMu.Unlock()
}

//go:build windows

package webgpu

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/born-ml/borncheck/internal/tensor"
	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"
)

// kernel is one compute dispatch.
type kernel struct {
	name   string
	code   string
	params []byte
	groups [2]uint32
}

// pipeline returns the cached pipeline for name, compiling code on first use.
func (b *Backend) pipeline(name, code string) *wgpu.ComputePipeline {
	b.mu.RLock()
	p, ok := b.pipelines[name]
	b.mu.RUnlock()
	if ok {
		return p
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.pipelines[name]; ok {
		return p
	}
	shader := b.device.CreateShaderModuleWGSL(code)
	b.shaders[name] = shader
	p = b.device.CreateComputePipelineSimple(nil, shader, "main")
	b.pipelines[name] = p
	return p
}

// upload creates a buffer initialised with data.
func (b *Backend) upload(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := alignUp(uint64(len(data)))
	buf := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	mapped := unsafe.Slice((*byte)(buf.GetMappedRange(0, size)), size)
	copy(mapped, data)
	buf.Unmap()
	return buf
}

// readBuffer copies size bytes of src into host memory through a staging
// buffer, blocking until the copy, and all work queued before it, completes.
func (b *Backend) readBuffer(src *wgpu.Buffer, size uint64) ([]byte, error) {
	staging := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  alignUp(size),
	})
	defer staging.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, alignUp(size))
	b.queue.Submit(encoder.Finish(nil))

	if err := staging.MapAsync(b.device, wgpu.MapModeRead, 0, alignUp(size)); err != nil {
		return nil, errors.Wrap(err, "mapping staging buffer")
	}
	defer staging.Unmap()

	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(staging.GetMappedRange(0, alignUp(size))), size))
	return out, nil
}

// waitIdle blocks until all work submitted so far has executed. The queue
// runs in order, so mapping a copy made from the fence buffer after that work
// cannot complete earlier.
func (b *Backend) waitIdle() error {
	staging := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  fenceSize,
	})
	defer staging.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(b.fence, 0, staging, 0, fenceSize)
	b.queue.Submit(encoder.Finish(nil))

	if err := staging.MapAsync(b.device, wgpu.MapModeRead, 0, fenceSize); err != nil {
		return err
	}
	staging.Unmap()
	return nil
}

// dispatch submits k over inputs and returns a float32 tensor of shape out.
// Inputs already resident are bound in place; the others are uploaded for
// this dispatch only. The result stays resident and is read back lazily.
func (b *Backend) dispatch(k kernel, out tensor.Shape, inputs ...*tensor.RawTensor) *tensor.RawTensor {
	pipeline := b.pipeline(k.name, k.code)

	temps := make([]releaser, 0, len(inputs)+2)
	entries := make([]wgpu.BindGroupEntry, 0, len(inputs)+2)
	for i, in := range inputs {
		buf, ok := b.residentBuffer(in)
		if !ok {
			buf = b.upload(in.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
			temps = append(temps, buf)
		}
		entries = append(entries, wgpu.BufferBindingEntry(uint32(i), buf, 0, alignUp(uint64(in.ByteSize()))))
	}

	size := uint64(out.NumElements() * tensor.Float32.Size())
	result := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  alignUp(size),
	})
	entries = append(entries, wgpu.BufferBindingEntry(uint32(len(inputs)), result, 0, alignUp(size)))

	uniform := pad16(k.params)
	params := b.upload(uniform, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	entries = append(entries, wgpu.BufferBindingEntry(uint32(len(inputs)+1), params, 0, uint64(len(uniform))))

	bindGroup := b.device.CreateBindGroupSimple(pipeline.GetBindGroupLayout(0), entries)
	temps = append(temps, params, bindGroup)

	encoder := b.device.CreateCommandEncoder(nil)
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(k.groups[0], k.groups[1], 1)
	pass.End()
	b.queue.Submit(encoder.Finish(nil))
	b.retire(temps...)

	raw, err := tensor.NewPendingRaw(out, tensor.Float32, tensor.WebGPU, func() ([]byte, error) {
		return b.readBuffer(result, size)
	})
	if err != nil {
		result.Release()
		panic("webgpu: " + err.Error())
	}
	b.keep(raw, result)
	return raw
}

// fenceSize is the smallest copyable buffer.
const fenceSize = 4

// groups1D returns the workgroup count covering n elements.
func groups1D(n int) [2]uint32 {
	return [2]uint32{uint32(math.Ceil(float64(n) / elementwiseGroup)), 1}
}

func u32Params(values ...uint32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], v)
	}
	return buf
}

// alignUp rounds n up to the 4-byte copy alignment WebGPU requires.
func alignUp(n uint64) uint64 {
	return (n + 3) &^ 3
}

// pad16 pads uniform data to the 16-byte struct alignment.
func pad16(data []byte) []byte {
	n := (len(data) + 15) &^ 15
	if n == len(data) {
		return data
	}
	out := make([]byte, n)
	copy(out, data)
	return out
}

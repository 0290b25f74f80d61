// Package webgpu implements the accelerated tensor backend on top of
// go-webgpu (github.com/go-webgpu/webgpu), a zero-CGO WebGPU binding.
//
// The native wgpu library is only wired on Windows. On other platforms the
// package compiles to a stub whose Prober always reports the accelerator as
// unavailable and whose Open returns ErrUnavailable, so callers fall back to
// the CPU backend.
//
// Kernels are asynchronous: MatMul encodes and submits a compute pass and
// returns a tensor whose data stays in a device buffer. Backend.Synchronize
// blocks until the GPU has finished; reading the data additionally copies it
// to the host. Backend.Upload moves an input to the device ahead of time so
// that a kernel launch involves no transfer.
package webgpu

import "github.com/pkg/errors"

// ErrUnavailable is returned by Open when no WebGPU adapter can be used.
var ErrUnavailable = errors.New("webgpu: accelerator not available")

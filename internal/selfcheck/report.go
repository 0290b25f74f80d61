package selfcheck

import (
	"strconv"
	"strings"
	"time"

	"github.com/born-ml/borncheck/internal/device"
	"github.com/born-ml/borncheck/internal/tensor"
)

// Report collects the result of every step of a run.
type Report struct {
	Environment EnvironmentResult
	Probe       device.ProbeResult
	Selection   device.Selection
	Benchmark   BenchmarkResult
	Gradient    GradientResult
	Network     NetworkResult
}

// EnvironmentResult holds the reported versions.
type EnvironmentResult struct {
	Library     string
	Accelerator string
	GoRuntime   string
}

// BenchmarkResult is the outcome of the timed matrix multiplication.
type BenchmarkResult struct {
	Device  tensor.Device
	Backend string
	Shape   tensor.Shape
	Elapsed time.Duration
	// Resident is true when both operands were moved to device memory before
	// the start timestamp.
	Resident bool
	// Synchronized is true when a completion barrier was issued before the
	// end timestamp.
	Synchronized bool
	// Bytes is the size of both operands and the result.
	Bytes uint64
}

// GradientResult is the outcome of the differentiation check.
type GradientResult struct {
	X        float64
	Grad     float64
	Expected float64
	TapeOps  int
}

// NetworkResult is the outcome of the forward pass.
type NetworkResult struct {
	Model      string
	Layers     int
	Input      tensor.Shape
	Output     tensor.Shape
	Parameters int
}

// formatGrad prints v with the shortest exact float32 representation and at
// least one decimal, so 8 prints as "8.0".
func formatGrad(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 32)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

package autodiff

import (
	"github.com/born-ml/borncheck/internal/autodiff/ops"
	"github.com/born-ml/borncheck/internal/tensor"
)

// GradientTape records operations in execution order during the forward pass.
type GradientTape struct {
	operations []ops.Operation
	recording  bool
}

// NewGradientTape creates a stopped, empty tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{operations: make([]ops.Operation, 0, 16)}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() { t.recording = true }

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() { t.recording = false }

// IsRecording reports whether operations are being recorded.
func (t *GradientTape) IsRecording() bool { return t.recording }

// Record appends op if the tape is recording.
func (t *GradientTape) Record(op ops.Operation) {
	if t.IsRecording() {
		t.operations = append(t.operations, op)
	}
}

// Clear drops all recorded operations; the recording state is kept.
func (t *GradientTape) Clear() { t.operations = t.operations[:0] }

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int { return len(t.operations) }

// Backward propagates outputGrad from output back through the tape and
// returns the accumulated gradient of every tensor that received one.
//
// Operations are visited in reverse; an operation whose output has no
// gradient is skipped. A tensor used by several operations (x in x*x) gets
// the sum of all contributions. Recording is paused during the walk so the
// gradient computations themselves are not taped.
func (t *GradientTape) Backward(output, outputGrad *tensor.RawTensor, backend tensor.Backend) map[*tensor.RawTensor]*tensor.RawTensor {
	grads := make(map[*tensor.RawTensor]*tensor.RawTensor)
	if len(t.operations) == 0 {
		return grads
	}

	wasRecording := t.IsRecording()
	t.recording = false
	defer func() { t.recording = wasRecording }()

	grads[output] = outputGrad
	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		grad, ok := grads[op.Output()]
		if !ok {
			continue
		}
		inputGrads := op.Backward(grad, backend)
		for j, input := range op.Inputs() {
			if j >= len(inputGrads) || inputGrads[j] == nil {
				continue
			}
			if existing, ok := grads[input]; ok {
				grads[input] = backend.Add(existing, inputGrads[j])
			} else {
				grads[input] = inputGrads[j]
			}
		}
	}
	return grads
}

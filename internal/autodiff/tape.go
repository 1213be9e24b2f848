package autodiff

import (
	"github.com/born-ml/nash/internal/autodiff/ops"
	"github.com/born-ml/nash/internal/tensor"
)

// GradientTape is the list of operations executed while recording.
//
// The Nash trainer clears it before every cost it differentiates, so a tape
// only ever holds one forward pass:
//
//	tape.Clear()
//	cost := AttackerCost(model, x, clean, attacker)
//	grads := tape.Backward(ones, backend) // seeded at cost
type GradientTape struct {
	ops       []ops.Operation // execution order
	recording bool
}

// NewGradientTape returns an empty tape that is not recording.
func NewGradientTape() *GradientTape {
	return &GradientTape{ops: make([]ops.Operation, 0, 64)}
}

// StartRecording makes Record append operations.
func (t *GradientTape) StartRecording() { t.recording = true }

// StopRecording makes Record a no-op.
func (t *GradientTape) StopRecording() { t.recording = false }

// IsRecording reports whether Record appends operations.
func (t *GradientTape) IsRecording() bool { return t.recording }

// Record appends op while recording.
func (t *GradientTape) Record(op ops.Operation) {
	if !t.recording {
		return
	}
	t.ops = append(t.ops, op)
}

// Clear drops every recorded operation and keeps the recording state.
func (t *GradientTape) Clear() {
	clear(t.ops)
	t.ops = t.ops[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.ops)
}

// Backward seeds the output of the last recorded operation with seed and
// propagates gradients to every tensor on the tape, summing the
// contributions of tensors that feed more than one operation.
//
// Recording is paused for the walk so gradient arithmetic never lands on
// the tape.
func (t *GradientTape) Backward(seed *tensor.RawTensor, backend tensor.Backend) map[*tensor.RawTensor]*tensor.RawTensor {
	grads := make(map[*tensor.RawTensor]*tensor.RawTensor)
	if len(t.ops) == 0 {
		return grads
	}

	was := t.recording
	t.recording = false
	defer func() { t.recording = was }()

	grads[t.ops[len(t.ops)-1].Output()] = seed
	for i := len(t.ops) - 1; i >= 0; i-- {
		op := t.ops[i]
		g, ok := grads[op.Output()]
		if !ok {
			continue
		}
		inputGrads := op.Backward(g, backend)
		for j, in := range op.Inputs() {
			if j >= len(inputGrads) || inputGrads[j] == nil {
				continue
			}
			if acc, seen := grads[in]; seen {
				grads[in] = backend.Add(acc, inputGrads[j])
			} else {
				grads[in] = inputGrads[j]
			}
		}
	}
	return grads
}

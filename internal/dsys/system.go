package dsys

import "fmt"

// Default buffer capacities. Standalone blocks keep a short history;
// blocks wired into a closed loop keep enough for a full run.
const (
	DefaultCapacity = 100
	LoopCapacity    = 1024
)

// Stepper is the computation strategy of a discrete block.
//
// Step consumes one input sample and produces one output sample, touching
// only the block's own state. ClearState restores that state to its
// post-construction value. Both are invoked exclusively by System.
type Stepper interface {
	Step(u float64) float64
	ClearState()
}

// System wraps a Stepper with the shared bookkeeping of a discrete block:
// sampling period, step counter, and circular sample history.
type System struct {
	stepper Stepper
	ts      float64
	k       int
	buf     *ring
}

// New builds a System around st. It fails with ErrInvalidSamplingTime if
// ts <= 0 and ErrInvalidDimensions if capacity < 1.
func New(st Stepper, ts float64, capacity int) (*System, error) {
	if ts <= 0 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidSamplingTime, ts)
	}
	if capacity < 1 {
		return nil, fmt.Errorf("%w: buffer capacity must be >= 1, got %d", ErrInvalidDimensions, capacity)
	}
	return &System{stepper: st, ts: ts, buf: newRing(capacity)}, nil
}

// Advance feeds one input sample through the block and returns its output.
// The sequence is fixed: compute, record (u, y, k), increment k.
func (s *System) Advance(u float64) float64 {
	y := s.stepper.Step(u)
	s.buf.push(Sample{In: u, Out: y, K: s.k})
	s.k++
	return y
}

// Reset restores the block to its freshly constructed state: step counter
// to zero, buffer emptied, and the stepper's own state cleared. Sampling
// period and capacity are construction parameters and survive.
func (s *System) Reset() {
	s.k = 0
	s.buf.clear()
	s.stepper.ClearState()
}

// SamplingTime returns the sampling period in seconds.
func (s *System) SamplingTime() float64 { return s.ts }

// K returns the current step index, equal to the number of accepted samples.
func (s *System) K() int { return s.k }

// Count returns the number of valid samples currently buffered.
func (s *System) Count() int { return s.buf.count }

// Capacity returns the fixed buffer capacity.
func (s *System) Capacity() int { return len(s.buf.slots) }

// Samples returns the buffered samples in chronological order.
func (s *System) Samples() []Sample {
	out := make([]Sample, 0, s.buf.count)
	s.buf.each(func(smp Sample) { out = append(out, smp) })
	return out
}

// Package refsignal generates the reference (setpoint) sequences driving a
// control loop. A waveform is a pure formula over time; Signal samples one
// at a fixed period and keeps its own (time, value) history, independent of
// the dsys block buffers.
package refsignal

import (
	"fmt"
	"io"

	"github.com/san-kum/dtsim/internal/dsys"
)

// Waveform evaluates a reference formula at an arbitrary time. Implementations
// are stateless; all sampling state lives in Signal.
type Waveform interface {
	ValueAt(t float64) float64
}

// Point is one sampled (time, value) pair.
type Point struct {
	T float64
	V float64
}

// Signal samples a Waveform at a fixed period, adds a vertical offset, and
// records the sampled history in a fixed-capacity overwrite-oldest buffer.
type Signal struct {
	wave   Waveform
	ts     float64
	offset float64
	t      float64

	hist   []Point
	cursor int
	count  int
}

// New builds a sampled signal. It fails with dsys.ErrInvalidSamplingTime if
// ts <= 0 and dsys.ErrInvalidDimensions if capacity < 1.
func New(w Waveform, ts, offset float64, capacity int) (*Signal, error) {
	if ts <= 0 {
		return nil, fmt.Errorf("%w: got %g", dsys.ErrInvalidSamplingTime, ts)
	}
	if capacity < 1 {
		return nil, fmt.Errorf("%w: history capacity must be >= 1, got %d", dsys.ErrInvalidDimensions, capacity)
	}
	return &Signal{wave: w, ts: ts, offset: offset, hist: make([]Point, capacity)}, nil
}

// Value evaluates the signal at the current time without sampling it.
func (s *Signal) Value() float64 {
	return s.wave.ValueAt(s.t) + s.offset
}

// At evaluates the signal at sample index k (time k*Ts) without mutating
// any state.
func (s *Signal) At(k int) float64 {
	return s.wave.ValueAt(float64(k)*s.ts) + s.offset
}

// Next samples the signal at the current time, records the (time, value)
// pair, advances time by one period, and returns the sampled value.
func (s *Signal) Next() float64 {
	v := s.Value()
	s.hist[s.cursor] = Point{T: s.t, V: v}
	if s.count < len(s.hist) {
		s.count++
	}
	s.cursor = (s.cursor + 1) % len(s.hist)
	s.t += s.ts
	return v
}

// Reset rewinds time to zero and drops the sampled history.
func (s *Signal) Reset() {
	s.t = 0
	s.cursor = 0
	s.count = 0
	for i := range s.hist {
		s.hist[i] = Point{}
	}
}

// SamplingTime returns the sampling period in seconds.
func (s *Signal) SamplingTime() float64 { return s.ts }

// Time returns the time of the next sample.
func (s *Signal) Time() float64 { return s.t }

// Count returns the number of buffered samples.
func (s *Signal) Count() int { return s.count }

// History returns the buffered (time, value) pairs in chronological order.
func (s *Signal) History() []Point {
	start := 0
	if s.count == len(s.hist) {
		start = s.cursor
	}
	out := make([]Point, 0, s.count)
	for i := 0; i < s.count; i++ {
		out = append(out, s.hist[(start+i)%len(s.hist)])
	}
	return out
}

// Dump writes the sampled history as "t,value" CSV lines, oldest first.
func (s *Signal) Dump(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "t,value"); err != nil {
		return err
	}
	for _, p := range s.History() {
		if _, err := fmt.Fprintf(w, "%g,%g\n", p.T, p.V); err != nil {
			return err
		}
	}
	return nil
}

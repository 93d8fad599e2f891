package plant

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dtsim/internal/dsys"
)

// StateSpace realizes the discrete SISO state-space model
//
//	x(k+1) = A x(k) + B u(k)
//	y(k)   = C x(k) + D u(k)
//
// with x in R^n. A, B, C and D are model parameters fixed at construction;
// only x mutates between steps.
type StateSpace struct {
	*dsys.System
	core *ssCore
}

type ssCore struct {
	a *mat.Dense
	b *mat.VecDense
	c *mat.VecDense
	d float64

	x     *mat.VecDense
	xNext *mat.VecDense
}

// NewStateSpace validates the model dimensions and builds the engine with a
// zero initial state. A must be square with n >= 1 rows, and B and C must
// have length n; any violation fails with dsys.ErrInvalidDimensions.
func NewStateSpace(a [][]float64, b, c []float64, d, ts float64, capacity int) (*StateSpace, error) {
	n := len(a)
	if n == 0 {
		return nil, fmt.Errorf("%w: state matrix A is empty", dsys.ErrInvalidDimensions)
	}
	for i, row := range a {
		if len(row) != n {
			return nil, fmt.Errorf("%w: A row %d has %d columns, want %d", dsys.ErrInvalidDimensions, i, len(row), n)
		}
	}
	if len(b) != n {
		return nil, fmt.Errorf("%w: B has length %d, want %d", dsys.ErrInvalidDimensions, len(b), n)
	}
	if len(c) != n {
		return nil, fmt.Errorf("%w: C has length %d, want %d", dsys.ErrInvalidDimensions, len(c), n)
	}

	flat := make([]float64, 0, n*n)
	for _, row := range a {
		flat = append(flat, row...)
	}
	core := &ssCore{
		a:     mat.NewDense(n, n, flat),
		b:     mat.NewVecDense(n, append([]float64(nil), b...)),
		c:     mat.NewVecDense(n, append([]float64(nil), c...)),
		d:     d,
		x:     mat.NewVecDense(n, nil),
		xNext: mat.NewVecDense(n, nil),
	}

	sys, err := dsys.New(core, ts, capacity)
	if err != nil {
		return nil, err
	}
	return &StateSpace{System: sys, core: core}, nil
}

// Order returns the state dimension n.
func (s *StateSpace) Order() int {
	n, _ := s.core.a.Dims()
	return n
}

// State returns a copy of the current state vector x(k).
func (s *StateSpace) State() []float64 {
	out := make([]float64, s.core.x.Len())
	copy(out, s.core.x.RawVector().Data)
	return out
}

// A returns a copy of the state matrix.
func (s *StateSpace) A() [][]float64 {
	n, _ := s.core.a.Dims()
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			out[i][j] = s.core.a.At(i, j)
		}
	}
	return out
}

// B returns a copy of the input vector.
func (s *StateSpace) B() []float64 { return vecCopy(s.core.b) }

// C returns a copy of the output vector.
func (s *StateSpace) C() []float64 { return vecCopy(s.core.c) }

// D returns the feed-through gain.
func (s *StateSpace) D() float64 { return s.core.d }

// Step computes y(k) from the pre-update state, then advances the state.
// The next state is fully assembled in a scratch vector before it replaces
// x, so the output never observes a partially updated state.
func (c *ssCore) Step(u float64) float64 {
	y := mat.Dot(c.c, c.x) + c.d*u

	c.xNext.MulVec(c.a, c.x)
	c.xNext.AddScaledVec(c.xNext, u, c.b)
	c.x, c.xNext = c.xNext, c.x

	return y
}

func (c *ssCore) ClearState() {
	c.x.Zero()
	c.xNext.Zero()
}

func vecCopy(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	copy(out, v.RawVector().Data)
	return out
}

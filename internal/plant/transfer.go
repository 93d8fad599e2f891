package plant

import (
	"fmt"

	"github.com/san-kum/dtsim/internal/dsys"
)

// TransferFunction realizes the rational transfer function
//
//	        b[0] + b[1] z^-1 + ... + b[m] z^-m
//	H(z) = ------------------------------------
//	        a[0] + a[1] z^-1 + ... + a[n] z^-n
//
// as the difference equation
//
//	y(k) = b[0] u(k) + ... + b[m] u(k-m) - a[1] y(k-1) - ... - a[n] y(k-n)
//
// over coefficients normalized so that a[0] == 1.
type TransferFunction struct {
	*dsys.System
	core *tfCore
}

// tfCore holds the coefficient and history state. Histories are stored
// most-recent-first: uHist[0] is u(k), yHist[0] is y(k-1).
type tfCore struct {
	b     []float64
	a     []float64
	uHist []float64
	yHist []float64
}

// NewTransferFunction builds the engine from raw coefficients. Both vectors
// are divided by the original a[0], so the stored denominator always leads
// with 1. It fails with dsys.ErrInvalidCoefficients if b or a is empty or
// a[0] == 0, and propagates the base validation of ts and capacity.
func NewTransferFunction(b, a []float64, ts float64, capacity int) (*TransferFunction, error) {
	if len(a) == 0 {
		return nil, fmt.Errorf("%w: denominator is empty", dsys.ErrInvalidCoefficients)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: numerator is empty", dsys.ErrInvalidCoefficients)
	}
	if a[0] == 0 {
		return nil, fmt.Errorf("%w: a[0] must be nonzero", dsys.ErrInvalidCoefficients)
	}

	a0 := a[0]
	core := &tfCore{
		b:     make([]float64, len(b)),
		a:     make([]float64, len(a)),
		uHist: make([]float64, len(b)),
		yHist: make([]float64, len(a)-1),
	}
	for i, v := range a {
		core.a[i] = v / a0
	}
	for i, v := range b {
		core.b[i] = v / a0
	}

	sys, err := dsys.New(core, ts, capacity)
	if err != nil {
		return nil, err
	}
	return &TransferFunction{System: sys, core: core}, nil
}

// Numerator returns a copy of the normalized numerator coefficients.
func (t *TransferFunction) Numerator() []float64 {
	out := make([]float64, len(t.core.b))
	copy(out, t.core.b)
	return out
}

// Denominator returns a copy of the normalized denominator coefficients.
// Its leading entry is always exactly 1.
func (t *TransferFunction) Denominator() []float64 {
	out := make([]float64, len(t.core.a))
	copy(out, t.core.a)
	return out
}

// Order returns the numerator and denominator orders (m, n).
func (t *TransferFunction) Order() (m, n int) {
	return len(t.core.b) - 1, len(t.core.a) - 1
}

func (c *tfCore) Step(u float64) float64 {
	shiftIn(c.uHist, u)

	var num float64
	for i, bi := range c.b {
		num += bi * c.uHist[i]
	}
	var den float64
	for j := 1; j < len(c.a); j++ {
		den += c.a[j] * c.yHist[j-1]
	}
	y := num - den

	shiftIn(c.yHist, y)
	return y
}

func (c *tfCore) ClearState() {
	zero(c.uHist)
	zero(c.yHist)
}

// shiftIn moves every element one slot towards the tail, discarding the
// oldest, and places v at the front. A no-op on empty slices.
func shiftIn(hist []float64, v float64) {
	if len(hist) == 0 {
		return
	}
	copy(hist[1:], hist[:len(hist)-1])
	hist[0] = v
}

func zero(s []float64) {
	for i := range s {
		s[i] = 0
	}
}

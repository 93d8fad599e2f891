package metrics

import "math"

// IAE is the integral of absolute error, Σ|e(k)|·Ts.
type IAE struct {
	ts  float64
	sum float64
}

func NewIAE(ts float64) *IAE {
	return &IAE{ts: ts}
}

func (m *IAE) Name() string { return "iae" }

func (m *IAE) Observe(r, e, u, y float64) {
	m.sum += math.Abs(e) * m.ts
}

func (m *IAE) Value() float64 { return m.sum }

func (m *IAE) Reset() { m.sum = 0 }

// ISE is the integral of squared error, Σe(k)²·Ts. It weighs large
// transients more heavily than IAE.
type ISE struct {
	ts  float64
	sum float64
}

func NewISE(ts float64) *ISE {
	return &ISE{ts: ts}
}

func (m *ISE) Name() string { return "ise" }

func (m *ISE) Observe(r, e, u, y float64) {
	m.sum += e * e * m.ts
}

func (m *ISE) Value() float64 { return m.sum }

func (m *ISE) Reset() { m.sum = 0 }

// Overshoot tracks the worst excursion of the output beyond the reference,
// relative to the reference magnitude. Zero until the output first crosses
// its reference.
type Overshoot struct {
	peak float64
}

func NewOvershoot() *Overshoot {
	return &Overshoot{}
}

func (m *Overshoot) Name() string { return "overshoot" }

func (m *Overshoot) Observe(r, e, u, y float64) {
	if r == 0 {
		return
	}
	over := (y - r) / math.Abs(r)
	if r < 0 {
		over = (r - y) / math.Abs(r)
	}
	if over > m.peak {
		m.peak = over
	}
}

func (m *Overshoot) Value() float64 { return m.peak }

func (m *Overshoot) Reset() { m.peak = 0 }

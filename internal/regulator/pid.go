// Package regulator implements the digital controllers of the loop,
// currently a velocity-form (incremental) PID built on the dsys block
// abstraction. Its input is the control error e(k) = r(k) - y(k) and its
// output is the absolute actuation u(k).
package regulator

import "github.com/san-kum/dtsim/internal/dsys"

// PID is a discrete PID regulator in incremental form:
//
//	Δu(k) = a0 e(k) + a1 e(k-1) + a2 e(k-2)
//	u(k)  = u(k-1) + Δu(k)
//
// with a0 = Kp + Ki·Ts + Kd/Ts, a1 = -Kp - 2Kd/Ts, a2 = Kd/Ts.
//
// The incremental form carries no integrator accumulator, so it cannot wind
// up; actuator saturation, if any, must be applied by the caller.
type PID struct {
	*dsys.System
	core *pidCore
}

type pidCore struct {
	kp, ki, kd float64
	ts         float64

	// derived coefficients, always consistent with the gains above
	a0, a1, a2 float64

	e1, e2 float64 // e(k-1), e(k-2)
	u1     float64 // u(k-1)
}

// NewPID builds the regulator. ts must be > 0 (also guards the Kd/Ts
// division); capacity follows the closed-loop convention when callers pass
// dsys.LoopCapacity.
func NewPID(kp, ki, kd, ts float64, capacity int) (*PID, error) {
	core := &pidCore{kp: kp, ki: ki, kd: kd, ts: ts}

	sys, err := dsys.New(core, ts, capacity)
	if err != nil {
		return nil, err
	}
	core.updateCoefficients()
	return &PID{System: sys, core: core}, nil
}

// SetKp replaces the proportional gain and recomputes the coefficients.
// Error and output history are untouched, so the new tuning applies from
// the next sample without a restart.
func (p *PID) SetKp(kp float64) {
	p.core.kp = kp
	p.core.updateCoefficients()
}

// SetKi replaces the integral gain and recomputes the coefficients.
func (p *PID) SetKi(ki float64) {
	p.core.ki = ki
	p.core.updateCoefficients()
}

// SetKd replaces the derivative gain and recomputes the coefficients.
func (p *PID) SetKd(kd float64) {
	p.core.kd = kd
	p.core.updateCoefficients()
}

// SetGains replaces all three gains at once and recomputes the coefficients.
func (p *PID) SetGains(kp, ki, kd float64) {
	p.core.kp, p.core.ki, p.core.kd = kp, ki, kd
	p.core.updateCoefficients()
}

// Kp returns the proportional gain.
func (p *PID) Kp() float64 { return p.core.kp }

// Ki returns the integral gain.
func (p *PID) Ki() float64 { return p.core.ki }

// Kd returns the derivative gain.
func (p *PID) Kd() float64 { return p.core.kd }

// Coefficients returns the derived (a0, a1, a2).
func (p *PID) Coefficients() (a0, a1, a2 float64) {
	return p.core.a0, p.core.a1, p.core.a2
}

func (c *pidCore) updateCoefficients() {
	c.a0 = c.kp + c.ki*c.ts + c.kd/c.ts
	c.a1 = -c.kp - 2*c.kd/c.ts
	c.a2 = c.kd / c.ts
}

func (c *pidCore) Step(e float64) float64 {
	du := c.a0*e + c.a1*c.e1 + c.a2*c.e2
	u := c.u1 + du

	c.e2 = c.e1
	c.e1 = e
	c.u1 = u
	return u
}

// ClearState drops the error and output history. Gains and derived
// coefficients are tuning parameters and survive.
func (c *pidCore) ClearState() {
	c.e1 = 0
	c.e2 = 0
	c.u1 = 0
}

// Package converter models the sampling hardware at the loop boundary: an
// ADC that delays its input by one sample and a DAC that passes its input
// through. Both are plain dsys blocks, so they buffer and reset like any
// other stage.
package converter

import "github.com/san-kum/dtsim/internal/dsys"

// ADC models analog-to-digital conversion as a one-sample delay, H(z) = z^-1.
// The delay stands in for conversion time and breaks algebraic loops when
// the converter closes a feedback path.
type ADC struct {
	*dsys.System
	core *delayCore
}

type delayCore struct {
	prev float64
}

func (c *delayCore) Step(u float64) float64 {
	y := c.prev
	c.prev = u
	return y
}

func (c *delayCore) ClearState() { c.prev = 0 }

// NewADC builds an ADC at sampling period ts with the closed-loop buffer
// capacity.
func NewADC(ts float64) (*ADC, error) {
	core := &delayCore{}
	sys, err := dsys.New(core, ts, dsys.LoopCapacity)
	if err != nil {
		return nil, err
	}
	return &ADC{System: sys, core: core}, nil
}

// DAC models digital-to-analog conversion as a direct passthrough, H(z) = 1.
// The zero-order hold between samples is the caller's concern; within the
// sampled domain the block is the identity.
type DAC struct {
	*dsys.System
}

type passCore struct{}

func (passCore) Step(u float64) float64 { return u }
func (passCore) ClearState()            {}

// NewDAC builds a DAC at sampling period ts with the closed-loop buffer
// capacity.
func NewDAC(ts float64) (*DAC, error) {
	sys, err := dsys.New(passCore{}, ts, dsys.LoopCapacity)
	if err != nil {
		return nil, err
	}
	return &DAC{System: sys}, nil
}

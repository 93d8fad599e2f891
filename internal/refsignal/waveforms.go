package refsignal

import "math"

// Step is 0 before StepTime and Amplitude afterwards.
type Step struct {
	Amplitude float64
	StepTime  float64
}

func (s Step) ValueAt(t float64) float64 {
	if t < s.StepTime {
		return 0
	}
	return s.Amplitude
}

// Ramp grows linearly with Slope from StartTime on, and is 0 before.
type Ramp struct {
	Slope     float64
	StartTime float64
}

func (r Ramp) ValueAt(t float64) float64 {
	if t < r.StartTime {
		return 0
	}
	return r.Slope * (t - r.StartTime)
}

// Sine is Amplitude * sin(2π·Freq·t + Phase). Freq is in hertz, Phase in
// radians.
type Sine struct {
	Amplitude float64
	Freq      float64
	Phase     float64
}

func (s Sine) ValueAt(t float64) float64 {
	return s.Amplitude * math.Sin(2*math.Pi*s.Freq*t+s.Phase)
}

// Package loop wires a reference signal, a regulator, converters and a
// plant into a sampled closed control loop and runs it step by step.
package loop

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/dtsim/internal/converter"
	"github.com/san-kum/dtsim/internal/metrics"
	"github.com/san-kum/dtsim/internal/refsignal"
	"github.com/san-kum/dtsim/internal/regulator"
)

// Plant is any discrete system the loop can actuate, one sample at a time.
type Plant interface {
	Advance(u float64) float64
	Reset()
	SamplingTime() float64
}

// Observer is notified after each completed loop step.
type Observer interface {
	OnStep(k int, r, e, u, y float64)
}

// Result collects the trajectories and aggregate metrics of one run.
type Result struct {
	Times    []float64
	Refs     []float64
	Errors   []float64
	Controls []float64
	Outputs  []float64
	Metrics  map[string]float64
	Steps    int
}

// Loop closes the chain reference -> regulator -> DAC -> plant -> ADC.
// The ADC output of step k is the measurement compared against the
// reference of step k+1, so the feedback path carries one sample of
// delay, as a real conversion stage would.
type Loop struct {
	ref       *refsignal.Signal
	pid       *regulator.PID
	dac       *converter.DAC
	plant     Plant
	adc       *converter.ADC
	metrics   []metrics.Metric
	observers []Observer

	k     int
	yMeas float64
}

// New validates that every stage runs on the same sampling period and
// assembles the loop.
func New(ref *refsignal.Signal, pid *regulator.PID, dac *converter.DAC, plant Plant, adc *converter.ADC) (*Loop, error) {
	ts := ref.SamplingTime()
	for name, got := range map[string]float64{
		"regulator": pid.SamplingTime(),
		"dac":       dac.SamplingTime(),
		"plant":     plant.SamplingTime(),
		"adc":       adc.SamplingTime(),
	} {
		if math.Abs(got-ts) > 1e-12 {
			return nil, fmt.Errorf("sampling time mismatch: reference runs at %g but %s runs at %g", ts, name, got)
		}
	}

	return &Loop{
		ref:   ref,
		pid:   pid,
		dac:   dac,
		plant: plant,
		adc:   adc,
	}, nil
}

func (l *Loop) AddMetric(m metrics.Metric) { l.metrics = append(l.metrics, m) }
func (l *Loop) AddObserver(o Observer)     { l.observers = append(l.observers, o) }
func (l *Loop) Regulator() *regulator.PID  { return l.pid }
func (l *Loop) SamplingTime() float64      { return l.ref.SamplingTime() }

// Step advances the whole chain by one sampling period and returns the
// reference, error, actuation and plant output of that step.
func (l *Loop) Step() (r, e, u, y float64) {
	r = l.ref.Next()
	e = r - l.yMeas
	u = l.pid.Advance(e)
	v := l.dac.Advance(u)
	y = l.plant.Advance(v)
	l.yMeas = l.adc.Advance(y)

	for _, m := range l.metrics {
		m.Observe(r, e, u, y)
	}
	for _, obs := range l.observers {
		obs.OnStep(l.k, r, e, u, y)
	}
	l.k++
	return r, e, u, y
}

// Run executes the loop for the given number of steps, honoring context
// cancellation between steps. The partial result is returned alongside
// ctx.Err() when cancelled.
func (l *Loop) Run(ctx context.Context, steps int) (*Result, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", steps)
	}

	for _, m := range l.metrics {
		m.Reset()
	}

	result := &Result{
		Times:    make([]float64, 0, steps),
		Refs:     make([]float64, 0, steps),
		Errors:   make([]float64, 0, steps),
		Controls: make([]float64, 0, steps),
		Outputs:  make([]float64, 0, steps),
		Metrics:  make(map[string]float64),
	}

	ts := l.SamplingTime()
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			l.finish(result)
			return result, ctx.Err()
		default:
		}

		r, e, u, y := l.Step()

		result.Times = append(result.Times, float64(i)*ts)
		result.Refs = append(result.Refs, r)
		result.Errors = append(result.Errors, e)
		result.Controls = append(result.Controls, u)
		result.Outputs = append(result.Outputs, y)
		result.Steps++
	}

	l.finish(result)
	return result, nil
}

func (l *Loop) finish(result *Result) {
	for _, m := range l.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// Reset returns every stage to its initial state. Regulator gains and
// plant coefficients survive, only dynamic state and histories clear.
func (l *Loop) Reset() {
	l.ref.Reset()
	l.pid.Reset()
	l.dac.Reset()
	l.plant.Reset()
	l.adc.Reset()
	l.k = 0
	l.yMeas = 0
	for _, m := range l.metrics {
		m.Reset()
	}
}

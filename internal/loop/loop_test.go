package loop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/dtsim/internal/converter"
	"github.com/san-kum/dtsim/internal/dsys"
	"github.com/san-kum/dtsim/internal/metrics"
	"github.com/san-kum/dtsim/internal/plant"
	"github.com/san-kum/dtsim/internal/refsignal"
	"github.com/san-kum/dtsim/internal/regulator"
)

func newMotorLoop(t *testing.T, kp, ki, kd float64) *Loop {
	t.Helper()
	ts := plant.DefaultMotorPeriod

	ref, err := refsignal.New(refsignal.Step{Amplitude: 1}, ts, 0, dsys.LoopCapacity)
	require.NoError(t, err)
	pid, err := regulator.NewPID(kp, ki, kd, ts, dsys.LoopCapacity)
	require.NoError(t, err)
	dac, err := converter.NewDAC(ts)
	require.NoError(t, err)
	motor, err := plant.NewMotor(ts)
	require.NoError(t, err)
	adc, err := converter.NewADC(ts)
	require.NoError(t, err)

	l, err := New(ref, pid, dac, motor, adc)
	require.NoError(t, err)
	return l
}

func TestLoopStepTrackingConverges(t *testing.T) {
	l := newMotorLoop(t, 0.5, 5, 0)

	result, err := l.Run(context.Background(), 2000)
	require.NoError(t, err)
	require.Equal(t, 2000, result.Steps)

	// Integral action on a unit-gain plant drives the error to zero.
	assert.InDelta(t, 1.0, result.Outputs[len(result.Outputs)-1], 0.02)
	assert.InDelta(t, 0.0, result.Errors[len(result.Errors)-1], 0.02)
}

func TestLoopSamplingTimeMismatch(t *testing.T) {
	ts := 0.01
	ref, err := refsignal.New(refsignal.Step{Amplitude: 1}, ts, 0, 16)
	require.NoError(t, err)
	pid, err := regulator.NewPID(1, 0, 0, 0.02, 16)
	require.NoError(t, err)
	dac, err := converter.NewDAC(ts)
	require.NoError(t, err)
	motor, err := plant.NewMotor(ts)
	require.NoError(t, err)
	adc, err := converter.NewADC(ts)
	require.NoError(t, err)

	_, err = New(ref, pid, dac, motor, adc)
	assert.ErrorContains(t, err, "sampling time mismatch")
}

func TestLoopMetricsReported(t *testing.T) {
	l := newMotorLoop(t, 0.5, 5, 0)
	l.AddMetric(metrics.NewIAE(l.SamplingTime()))
	l.AddMetric(metrics.NewControlEffort())

	result, err := l.Run(context.Background(), 500)
	require.NoError(t, err)

	assert.Greater(t, result.Metrics["iae"], 0.0)
	assert.Greater(t, result.Metrics["control_effort"], 0.0)
}

type recorder struct {
	steps []int
}

func (r *recorder) OnStep(k int, ref, e, u, y float64) { r.steps = append(r.steps, k) }

func TestLoopObserverSeesEveryStep(t *testing.T) {
	l := newMotorLoop(t, 1, 0, 0)
	rec := &recorder{}
	l.AddObserver(rec)

	_, err := l.Run(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, rec.steps)
}

func TestLoopCancellation(t *testing.T) {
	l := newMotorLoop(t, 0.5, 5, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := l.Run(ctx, 100)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.Steps)
}

func TestLoopRejectsNonPositiveSteps(t *testing.T) {
	l := newMotorLoop(t, 1, 0, 0)
	_, err := l.Run(context.Background(), 0)
	assert.Error(t, err)
}

func TestLoopResetReproducesRun(t *testing.T) {
	l := newMotorLoop(t, 0.5, 5, 0)

	first, err := l.Run(context.Background(), 100)
	require.NoError(t, err)

	l.Reset()
	second, err := l.Run(context.Background(), 100)
	require.NoError(t, err)

	assert.Equal(t, first.Outputs, second.Outputs)
	assert.Equal(t, first.Controls, second.Controls)
}

func TestLoopFeedbackDelay(t *testing.T) {
	l := newMotorLoop(t, 1, 0, 0)

	// On the first step nothing has been measured yet, so the full
	// reference appears as error.
	r, e, _, _ := l.Step()
	assert.Equal(t, 1.0, r)
	assert.Equal(t, 1.0, e)
}

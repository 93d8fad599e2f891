package plant

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/dtsim/internal/dsys"
)

func TestTransferFunctionNormalization(t *testing.T) {
	tf, err := NewTransferFunction([]float64{4}, []float64{2, -1}, 0.1, 10)
	if err != nil {
		t.Fatal(err)
	}

	b := tf.Numerator()
	a := tf.Denominator()

	if len(b) != 1 || b[0] != 2 {
		t.Errorf("expected numerator [2], got %v", b)
	}
	if len(a) != 2 || a[0] != 1 || a[1] != -0.5 {
		t.Errorf("expected denominator [1 -0.5], got %v", a)
	}
}

func TestTransferFunctionStepResponse(t *testing.T) {
	// H(z) = 1 / (1 - 0.5 z^-1): geometric approach to steady state 2.
	tf, err := NewTransferFunction([]float64{1}, []float64{1, -0.5}, 0.1, 100)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{1.0, 1.5, 1.75, 1.875}
	for k, w := range want {
		y := tf.Advance(1.0)
		if math.Abs(y-w) > 1e-12 {
			t.Errorf("y[%d]: expected %f, got %f", k, w, y)
		}
	}
}

func TestTransferFunctionValidation(t *testing.T) {
	tests := []struct {
		name string
		b, a []float64
	}{
		{"empty numerator", nil, []float64{1}},
		{"empty denominator", []float64{1}, nil},
		{"zero leading denominator", []float64{1}, []float64{0, 1}},
	}

	for _, tt := range tests {
		_, err := NewTransferFunction(tt.b, tt.a, 0.1, 10)
		if !errors.Is(err, dsys.ErrInvalidCoefficients) {
			t.Errorf("%s: expected ErrInvalidCoefficients, got %v", tt.name, err)
		}
	}

	if _, err := NewTransferFunction([]float64{1}, []float64{1}, 0, 10); !errors.Is(err, dsys.ErrInvalidSamplingTime) {
		t.Errorf("expected ErrInvalidSamplingTime, got %v", err)
	}
}

func TestTransferFunctionResetClearsHistories(t *testing.T) {
	tf, err := NewTransferFunction([]float64{1}, []float64{1, -0.5}, 0.1, 100)
	if err != nil {
		t.Fatal(err)
	}

	first := tf.Advance(1.0)
	tf.Advance(1.0)
	tf.Reset()

	// Coefficients are model parameters and must survive reset.
	if a := tf.Denominator(); a[1] != -0.5 {
		t.Errorf("reset touched coefficients: %v", a)
	}
	if y := tf.Advance(1.0); y != first {
		t.Errorf("expected fresh response %f after reset, got %f", first, y)
	}
}

func TestTransferFunctionFIR(t *testing.T) {
	// Pure moving average, no output feedback: y(k) = (u(k) + u(k-1)) / 2.
	tf, err := NewTransferFunction([]float64{0.5, 0.5}, []float64{1}, 0.1, 10)
	if err != nil {
		t.Fatal(err)
	}

	inputs := []float64{2, 4, 6}
	want := []float64{1, 3, 5}
	for k, u := range inputs {
		y := tf.Advance(u)
		if math.Abs(y-want[k]) > 1e-12 {
			t.Errorf("y[%d]: expected %f, got %f", k, want[k], y)
		}
	}
}

func TestMotorDCGain(t *testing.T) {
	m, err := NewMotor(DefaultMotorPeriod)
	if err != nil {
		t.Fatal(err)
	}

	// Unit step: the first-order plant settles near its DC gain
	// (0.0099+0.0099)/(1-0.9802) = 1.
	var y float64
	for k := 0; k < 2000; k++ {
		y = m.Advance(1.0)
	}
	if math.Abs(y-1.0) > 0.01 {
		t.Errorf("expected settled output near 1.0, got %f", y)
	}
}

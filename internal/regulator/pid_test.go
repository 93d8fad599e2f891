package regulator

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/dtsim/internal/dsys"
)

func TestPIDPureProportional(t *testing.T) {
	pid, err := NewPID(1, 0, 0, 0.1, 100)
	if err != nil {
		t.Fatal(err)
	}

	// Constant error with Ki = Kd = 0: u(k) = Kp * e(k) at every step.
	for k := 0; k < 10; k++ {
		u := pid.Advance(1.0)
		if math.Abs(u-1.0) > 1e-12 {
			t.Errorf("step %d: expected 1.0, got %f", k, u)
		}
	}
}

func TestPIDCoefficients(t *testing.T) {
	pid, err := NewPID(2, 0.5, 0.1, 0.1, 100)
	if err != nil {
		t.Fatal(err)
	}

	a0, a1, a2 := pid.Coefficients()
	// a0 = 2 + 0.5*0.1 + 0.1/0.1, a1 = -2 - 2*0.1/0.1, a2 = 0.1/0.1
	if math.Abs(a0-3.05) > 1e-12 {
		t.Errorf("a0: expected 3.05, got %f", a0)
	}
	if math.Abs(a1-(-4)) > 1e-12 {
		t.Errorf("a1: expected -4, got %f", a1)
	}
	if math.Abs(a2-1) > 1e-12 {
		t.Errorf("a2: expected 1, got %f", a2)
	}
}

func TestPIDIncrementalAgainstManual(t *testing.T) {
	pid, err := NewPID(1.0, 0.5, 0.1, 0.1, 100)
	if err != nil {
		t.Fatal(err)
	}
	a0, a1, a2 := pid.Coefficients()

	errs := []float64{1, 0.8, 0.5, 0.2, -0.1, 0}
	e1, e2, u1 := 0.0, 0.0, 0.0
	for k, e := range errs {
		want := u1 + a0*e + a1*e1 + a2*e2
		got := pid.Advance(e)
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("step %d: expected %f, got %f", k, want, got)
		}
		e2, e1, u1 = e1, e, want
	}
}

func TestPIDRetuningContinuity(t *testing.T) {
	pid, err := NewPID(1.0, 0.5, 0.1, 0.1, 100)
	if err != nil {
		t.Fatal(err)
	}

	errs := []float64{1, 0.7, 0.4}
	for _, e := range errs {
		pid.Advance(e)
	}

	// Track history manually to compare against the post-retune step.
	e1, e2 := errs[2], errs[1]
	u1 := 0.0
	{
		a0, a1, a2 := pid.Coefficients()
		he1, he2, hu1 := 0.0, 0.0, 0.0
		for _, e := range errs {
			hu1 = hu1 + a0*e + a1*he1 + a2*he2
			he2, he1 = he1, e
		}
		u1 = hu1
	}

	pid.SetGains(2.0, 1.0, 0.2)
	if pid.Kp() != 2.0 || pid.Ki() != 1.0 || pid.Kd() != 0.2 {
		t.Fatal("gains not applied")
	}

	// Next output must combine the NEW coefficients with the OLD history.
	a0, a1, a2 := pid.Coefficients()
	e := 0.2
	want := u1 + a0*e + a1*e1 + a2*e2
	got := pid.Advance(e)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("post-retune output: expected %f, got %f", want, got)
	}
}

func TestPIDSingleGainSetters(t *testing.T) {
	pid, err := NewPID(1, 0, 0, 0.5, 100)
	if err != nil {
		t.Fatal(err)
	}

	pid.SetKi(2)
	a0, _, _ := pid.Coefficients()
	if math.Abs(a0-(1+2*0.5)) > 1e-12 {
		t.Errorf("SetKi: a0 expected 2, got %f", a0)
	}

	pid.SetKd(0.25)
	a0, a1, a2 := pid.Coefficients()
	if math.Abs(a2-0.5) > 1e-12 {
		t.Errorf("SetKd: a2 expected 0.5, got %f", a2)
	}
	if math.Abs(a1-(-1-2*0.5)) > 1e-12 {
		t.Errorf("SetKd: a1 expected -2, got %f", a1)
	}

	pid.SetKp(3)
	a0, _, _ = pid.Coefficients()
	if math.Abs(a0-(3+1+0.5)) > 1e-12 {
		t.Errorf("SetKp: a0 expected 4.5, got %f", a0)
	}
}

func TestPIDResetKeepsGains(t *testing.T) {
	pid, err := NewPID(1.5, 0.3, 0.05, 0.1, 100)
	if err != nil {
		t.Fatal(err)
	}
	a0Before, a1Before, a2Before := pid.Coefficients()

	first := pid.Advance(1)
	pid.Advance(0.5)
	pid.Reset()

	a0, a1, a2 := pid.Coefficients()
	if a0 != a0Before || a1 != a1Before || a2 != a2Before {
		t.Error("reset touched derived coefficients")
	}
	if u := pid.Advance(1); math.Abs(u-first) > 1e-12 {
		t.Errorf("expected fresh response %f after reset, got %f", first, u)
	}
}

func TestPIDSamplingTimeValidation(t *testing.T) {
	if _, err := NewPID(1, 1, 1, 0, 100); !errors.Is(err, dsys.ErrInvalidSamplingTime) {
		t.Errorf("expected ErrInvalidSamplingTime, got %v", err)
	}
	if _, err := NewPID(1, 1, 1, -1, 100); !errors.Is(err, dsys.ErrInvalidSamplingTime) {
		t.Errorf("expected ErrInvalidSamplingTime, got %v", err)
	}
}

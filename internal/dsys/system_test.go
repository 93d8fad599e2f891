package dsys

import (
	"errors"
	"strings"
	"testing"
)

// doubler is a stateless block that returns 2*u. clears counts ClearState
// calls so tests can verify the reset protocol reaches the stepper.
type doubler struct {
	clears int
}

func (d *doubler) Step(u float64) float64 { return 2 * u }
func (d *doubler) ClearState()            { d.clears++ }

// accumulator keeps a running sum, so reset behavior is observable.
type accumulator struct {
	sum float64
}

func (a *accumulator) Step(u float64) float64 {
	a.sum += u
	return a.sum
}

func (a *accumulator) ClearState() { a.sum = 0 }

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name     string
		ts       float64
		capacity int
		wantErr  error
	}{
		{"zero ts", 0, 10, ErrInvalidSamplingTime},
		{"negative ts", -0.1, 10, ErrInvalidSamplingTime},
		{"zero capacity", 0.1, 0, ErrInvalidDimensions},
		{"negative capacity", 0.1, -1, ErrInvalidDimensions},
		{"valid", 0.1, 1, nil},
	}

	for _, tt := range tests {
		_, err := New(&doubler{}, tt.ts, tt.capacity)
		if tt.wantErr == nil {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", tt.name, err)
			}
			continue
		}
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.wantErr, err)
		}
	}
}

func TestAdvanceOrdering(t *testing.T) {
	sys, err := New(&doubler{}, 0.1, 10)
	if err != nil {
		t.Fatal(err)
	}

	for k := 0; k < 5; k++ {
		y := sys.Advance(float64(k))
		if y != 2*float64(k) {
			t.Errorf("step %d: expected %f, got %f", k, 2*float64(k), y)
		}
	}

	if sys.K() != 5 {
		t.Errorf("expected step index 5, got %d", sys.K())
	}
	samples := sys.Samples()
	if len(samples) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(samples))
	}
	for i, s := range samples {
		if s.K != i {
			t.Errorf("sample %d: expected step %d, got %d", i, i, s.K)
		}
		if s.In != float64(i) || s.Out != 2*float64(i) {
			t.Errorf("sample %d: got (%f, %f)", i, s.In, s.Out)
		}
	}
}

func TestRingOverwritesOldest(t *testing.T) {
	sys, err := New(&doubler{}, 0.1, 4)
	if err != nil {
		t.Fatal(err)
	}

	for k := 0; k < 10; k++ {
		sys.Advance(float64(k))
	}

	if sys.Count() != 4 {
		t.Fatalf("expected 4 valid samples, got %d", sys.Count())
	}
	samples := sys.Samples()
	// The most recent capacity consecutive steps, in increasing order.
	for i, s := range samples {
		want := 6 + i
		if s.K != want {
			t.Errorf("sample %d: expected step %d, got %d", i, want, s.K)
		}
	}
}

func TestResetIdempotent(t *testing.T) {
	acc := &accumulator{}
	sys, err := New(acc, 0.1, 8)
	if err != nil {
		t.Fatal(err)
	}

	var first []float64
	for k := 0; k < 3; k++ {
		first = append(first, sys.Advance(1.0))
	}

	sys.Reset()
	sys.Reset()

	if sys.K() != 0 {
		t.Errorf("expected step index 0 after reset, got %d", sys.K())
	}
	if sys.Count() != 0 {
		t.Errorf("expected empty buffer after reset, got %d samples", sys.Count())
	}

	// The reset instance must behave like a fresh one.
	for k := 0; k < 3; k++ {
		y := sys.Advance(1.0)
		if y != first[k] {
			t.Errorf("step %d after reset: expected %f, got %f", k, first[k], y)
		}
	}
}

func TestResetReachesStepper(t *testing.T) {
	d := &doubler{}
	sys, err := New(d, 0.1, 4)
	if err != nil {
		t.Fatal(err)
	}
	sys.Reset()
	if d.clears != 1 {
		t.Errorf("expected 1 ClearState call, got %d", d.clears)
	}
}

func TestDumpTSV(t *testing.T) {
	sys, err := New(&doubler{}, 0.1, 10)
	if err != nil {
		t.Fatal(err)
	}
	sys.Advance(1)
	sys.Advance(2)

	var sb strings.Builder
	if err := sys.Dump(&sb, FormatTSV); err != nil {
		t.Fatal(err)
	}

	want := "# k\tu(k)\ty(k)\n0\t1\t2\n1\t2\t4\n"
	if sb.String() != want {
		t.Errorf("unexpected dump:\n%q\nwant:\n%q", sb.String(), want)
	}
}

func TestDumpMatlab(t *testing.T) {
	sys, err := New(&doubler{}, 0.1, 10)
	if err != nil {
		t.Fatal(err)
	}
	sys.Advance(1)
	sys.Advance(2)

	var sb strings.Builder
	if err := sys.Dump(&sb, FormatMatlab); err != nil {
		t.Fatal(err)
	}

	out := sb.String()
	if !strings.Contains(out, "data = [0 1 2; 1 2 4];") {
		t.Errorf("matlab dump missing matrix literal:\n%s", out)
	}
}

func TestDumpEmpty(t *testing.T) {
	sys, err := New(&doubler{}, 0.1, 10)
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	if err := sys.Dump(&sb, FormatTSV); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "empty") {
		t.Errorf("expected empty-buffer marker, got %q", sb.String())
	}
}

func TestDumpChronologicalWhenWrapped(t *testing.T) {
	sys, err := New(&doubler{}, 0.1, 3)
	if err != nil {
		t.Fatal(err)
	}
	for k := 0; k < 5; k++ {
		sys.Advance(float64(k))
	}

	var sb strings.Builder
	if err := sys.Dump(&sb, FormatTSV); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	for i, wantK := range []string{"2", "3", "4"} {
		if !strings.HasPrefix(lines[i+1], wantK+"\t") {
			t.Errorf("row %d: expected step %s first, got %q", i, wantK, lines[i+1])
		}
	}
}

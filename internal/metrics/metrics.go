// Package metrics aggregates per-step measurements of a closed control
// loop: tracking error integrals, control effort and overshoot.
package metrics

// Metric observes one closed-loop step at a time and reduces it to a single
// figure. r is the reference, e the control error, u the actuation and y
// the plant output.
type Metric interface {
	Name() string
	Observe(r, e, u, y float64)
	Value() float64
	Reset()
}

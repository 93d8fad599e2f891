package dsys

// Sample is one processed (input, output, step) triple. Samples are created
// only when a System accepts an input and are never mutated afterwards.
type Sample struct {
	In  float64
	Out float64
	K   int
}

// ring is a fixed-capacity overwrite-oldest buffer of samples.
//
// Invariants: 0 <= count <= len(slots), 0 <= cursor < len(slots).
type ring struct {
	slots  []Sample
	cursor int
	count  int
}

func newRing(capacity int) *ring {
	return &ring{slots: make([]Sample, capacity)}
}

func (r *ring) push(s Sample) {
	r.slots[r.cursor] = s
	if r.count < len(r.slots) {
		r.count++
	}
	r.cursor = (r.cursor + 1) % len(r.slots)
}

// oldest returns the index of the logically oldest valid sample. When the
// buffer is full the next slot to be overwritten holds the oldest survivor.
func (r *ring) oldest() int {
	if r.count == len(r.slots) {
		return r.cursor
	}
	return 0
}

// each visits valid samples in chronological order.
func (r *ring) each(fn func(Sample)) {
	start := r.oldest()
	for i := 0; i < r.count; i++ {
		fn(r.slots[(start+i)%len(r.slots)])
	}
}

// clear drops all samples and restores slots to the zero value. The backing
// array is kept.
func (r *ring) clear() {
	for i := range r.slots {
		r.slots[i] = Sample{}
	}
	r.cursor = 0
	r.count = 0
}

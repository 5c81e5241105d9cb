package chart

// ring is a fixed-capacity float ring buffer. Each chart owns one for its
// mark price history, so charts never share state and dropping a chart
// drops its history with it.
type ring struct {
	buf  []float64
	head int // next write slot
	n    int
}

func newRing(capacity int) *ring {
	if capacity < 2 {
		capacity = 2
	}
	return &ring{buf: make([]float64, capacity)}
}

func (r *ring) push(v float64) {
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
	if r.n < len(r.buf) {
		r.n++
	}
}

func (r *ring) len() int { return r.n }

// last returns the newest value.
func (r *ring) last() (float64, bool) {
	if r.n == 0 {
		return 0, false
	}
	return r.at(r.n - 1), true
}

// prev returns the value before the newest one.
func (r *ring) prev() (float64, bool) {
	if r.n < 2 {
		return 0, false
	}
	return r.at(r.n - 2), true
}

// at indexes oldest-first.
func (r *ring) at(i int) float64 {
	return r.buf[(r.head-r.n+i+len(r.buf))%len(r.buf)]
}

// values copies the retained history oldest-first.
func (r *ring) values() []float64 {
	out := make([]float64, r.n)
	for i := range out {
		out[i] = r.at(i)
	}
	return out
}

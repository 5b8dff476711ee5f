package ga

// SuccessRule adapts the mutation probability from the share of mutation
// events that improved on the last archived best (the 1/5 success rule).
type SuccessRule struct {
	Window   int     // mutation events between adjustments
	Target   float64 // success ratio that leaves the probability unchanged
	Increase float64 // factor applied when the ratio is above target
	Decrease float64 // factor applied when the ratio is below target
	Clamp    bool    // keep the probability within [0, 1]

	successes int
	events    int
}

// NewSuccessRule returns the classic rule: every 5 events, x1.5 above 1/5, x0.9 below
func NewSuccessRule() *SuccessRule {
	return &SuccessRule{Window: 5, Target: 1.0 / 5, Increase: 1.5, Decrease: 0.9, Clamp: true}
}

// Record counts one mutation event
func (r *SuccessRule) Record(improved bool) {
	r.events++
	if improved {
		r.successes++
	}
}

// Counts returns the running success and event counters
func (r *SuccessRule) Counts() (successes, events int) {
	return r.successes, r.events
}

// Reset clears the counters
func (r *SuccessRule) Reset() {
	r.successes = 0
	r.events = 0
}

// Adjust rescales p once the event counter reaches a multiple of the window.
// It reports whether an adjustment round happened; counters reset in that case.
func (r *SuccessRule) Adjust(p float64) (float64, bool) {
	if r.events == 0 || r.Window <= 0 || r.events%r.Window != 0 {
		return p, false
	}

	ratio := float64(r.successes) / float64(r.events)
	switch {
	case ratio > r.Target:
		p *= r.Increase
	case ratio < r.Target:
		p *= r.Decrease
	}
	if r.Clamp {
		p = min(max(p, 0), 1)
	}
	r.Reset()
	return p, true
}

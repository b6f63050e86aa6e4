package lenticular

import "sync"

// progressReporter serializes progress callbacks from worker goroutines and
// enforces the monotonically non-decreasing contract.
type progressReporter struct {
	mu   sync.Mutex
	last float64
	fn   func(float64)
}

func newProgressReporter(fn func(float64)) *progressReporter {
	return &progressReporter{fn: fn}
}

// report forwards fraction to the callback if it advances past the last
// reported value. Safe for concurrent use.
func (p *progressReporter) report(fraction float64) {
	if p == nil || p.fn == nil {
		return
	}
	if fraction > 1 {
		fraction = 1
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if fraction <= p.last {
		return
	}
	p.last = fraction
	p.fn(fraction)
}

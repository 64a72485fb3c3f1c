package nuclino

import (
	"sync"
	"time"
)

// rateGate bounds outgoing request rate to at most `limit` admissions per
// rolling window. One gate is shared by all request methods of a Client.
// Admission blocks: wait() sleeps and rechecks until the oldest admission in
// the window has aged out. There is no backoff, no jitter and no way to abort
// an in-progress wait; the only suspension point is the fixed-interval sleep.
type rateGate struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	interval time.Duration
	stamps   []time.Time

	// Injectable for tests.
	now   func() time.Time
	sleep func(time.Duration)
}

// newRateGate creates a gate admitting at most limit requests per rolling
// minute, rechecking once per second while blocked.
func newRateGate(limit int) *rateGate {
	return newRateGateWindow(limit, time.Minute, time.Second)
}

func newRateGateWindow(limit int, window, interval time.Duration) *rateGate {
	return &rateGate{
		limit:    limit,
		window:   window,
		interval: interval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// wait blocks the calling goroutine until an admission is safe. It never
// fails: any denied check is answered with a fixed sleep and a recheck,
// indefinitely.
func (g *rateGate) wait() {
	for {
		if g.tryAdmit() {
			return
		}
		g.sleep(g.interval)
	}
}

// tryAdmit expires stamps that have left the rolling window, then records an
// admission if capacity remains.
func (g *rateGate) tryAdmit() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	cutoff := now.Add(-g.window)

	i := 0
	for i < len(g.stamps) && !g.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		g.stamps = append(g.stamps[:0], g.stamps[i:]...)
	}

	if len(g.stamps) >= g.limit {
		return false
	}
	g.stamps = append(g.stamps, now)
	return true
}

// occupancy reports how many admissions currently sit in the rolling window.
func (g *rateGate) occupancy() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	cutoff := g.now().Add(-g.window)
	n := 0
	for _, s := range g.stamps {
		if s.After(cutoff) {
			n++
		}
	}
	return n
}

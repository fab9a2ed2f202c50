package calculator

import (
	"sync"
	"time"
)

// DefaultCooldown is the window in which repeated calculations are ignored.
const DefaultCooldown = 150 * time.Millisecond

// Debouncer drops triggers that arrive within cooldown of the last
// accepted one.
type Debouncer struct {
	mu       sync.Mutex
	cooldown time.Duration
	now      func() time.Time
	last     time.Time
}

func NewDebouncer(cooldown time.Duration, now func() time.Time) *Debouncer {
	if now == nil {
		now = time.Now
	}

	return &Debouncer{cooldown: cooldown, now: now}
}

// Allow reports whether the trigger should run and, if so, starts a new
// cooldown.
func (d *Debouncer) Allow() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if !d.last.IsZero() && now.Sub(d.last) < d.cooldown {
		return false
	}

	d.last = now

	return true
}

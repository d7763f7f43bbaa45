// Package circuit provides a circuit breaker for networked dependencies.
package circuit

import (
	"sync"
	"time"
)

// State is the breaker state.
type State int

const (
	// StateClosed lets calls through normally.
	StateClosed State = iota
	// StateOpen short-circuits calls until the cooldown elapses, after
	// which single probe calls are let through.
	StateOpen
)

// StateChange reports a transition caused by a recorded outcome.
type StateChange struct {
	Opened bool
	Closed bool
}

// Breaker counts consecutive failures against a threshold. When the
// threshold is reached the breaker opens and Allow reports false until the
// cooldown elapses. After the cooldown, Allow lets one call per cooldown
// window through as a probe; a successful probe closes the breaker, a failed
// one restarts the cooldown.
type Breaker struct {
	mu        sync.Mutex
	name      string
	state     State
	failures  int
	threshold int
	cooldown  time.Duration
	openedAt  time.Time
	now       func() time.Time
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithFailureThreshold sets how many consecutive failures open the breaker.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.threshold = n
		}
	}
}

// WithCooldown sets how long the breaker stays open before probing again.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates a closed breaker named for logging and metrics labels.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:      name,
		state:     StateClosed,
		threshold: 5,
		cooldown:  30 * time.Second,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the breaker's name.
func (b *Breaker) Name() string { return b.name }

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow reports whether a call should proceed. While open it returns false
// until the cooldown elapses, then grants one probe and restarts the window
// so concurrent callers do not stampede the recovering dependency.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateClosed {
		return true
	}
	if b.now().Sub(b.openedAt) >= b.cooldown {
		b.openedAt = b.now()
		return true
	}
	return false
}

// RecordSuccess resets the failure count and closes an open breaker.
func (b *Breaker) RecordSuccess() StateChange {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	if b.state == StateOpen {
		b.state = StateClosed
		return StateChange{Closed: true}
	}
	return StateChange{}
}

// RecordFailure counts a failure and opens the breaker at the threshold.
// A failure while open (a failed probe) restarts the cooldown.
func (b *Breaker) RecordFailure() StateChange {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	if b.state == StateOpen {
		b.openedAt = b.now()
		return StateChange{}
	}
	if b.failures >= b.threshold {
		b.state = StateOpen
		b.openedAt = b.now()
		return StateChange{Opened: true}
	}
	return StateChange{}
}

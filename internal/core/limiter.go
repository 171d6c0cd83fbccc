package core

// limiter.go bounds how many comparisons run at once.
//
// Each comparison holds two decoded tables and their key sets in memory, so
// parallelism is capped with a semaphore. When every slot is busy a caller
// waits up to maxWait and then fails with ErrTooManyComparisons. WaitForDrain
// lets shutdown wait for in-flight comparisons.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyComparisons is returned when no slot frees up within the wait
// timeout. Clients should retry after a short delay.
var ErrTooManyComparisons = errors.New("too many comparisons in progress, please try again later")

// Limiter defaults.
const (
	DefaultMaxConcurrent = 4
	DefaultMaxWaitTime   = 30 * time.Second
)

// drainPollInterval is how often WaitForDrain checks the active count.
const drainPollInterval = 50 * time.Millisecond

// CompareLimiter is a counting semaphore for comparison work.
type CompareLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewCompareLimiter allows at most maxConcurrent comparisons at once.
// Non-positive arguments fall back to the package defaults.
func NewCompareLimiter(maxConcurrent int, maxWait time.Duration) *CompareLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &CompareLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting up to the configured timeout.
// A cancelled ctx returns ctx.Err(); an expired wait returns
// ErrTooManyComparisons. Callers must Release after a nil return.
func (l *CompareLimiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyComparisons
	}
}

// Release returns a slot taken by Acquire.
func (l *CompareLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// ActiveCount returns the number of comparisons holding a slot.
func (l *CompareLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// MaxConcurrent returns the slot count.
func (l *CompareLimiter) MaxConcurrent() int {
	return cap(l.slots)
}

// Available returns the number of free slots.
func (l *CompareLimiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// WaitForDrain blocks until no comparison holds a slot or ctx ends.
func (l *CompareLimiter) WaitForDrain(ctx context.Context) error {
	if l.ActiveCount() == 0 {
		return nil
	}
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.ActiveCount() == 0 {
				return nil
			}
		}
	}
}

// LimiterStatus is a point-in-time view of a CompareLimiter.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// Status reports the limiter state for the health endpoint.
func (l *CompareLimiter) Status() LimiterStatus {
	return LimiterStatus{
		Active:        l.ActiveCount(),
		Available:     l.Available(),
		MaxConcurrent: cap(l.slots),
	}
}

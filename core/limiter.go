package core

import (
	"fmt"
	"sync"
)

// AttemptLimiter enforces a maximum number of generation attempts per exchange.
type AttemptLimiter struct {
	max   int
	count int
	mu    sync.Mutex
}

// NewAttemptLimiter creates a new limiter with a max number of attempts.
// If max == 0, unlimited attempts are allowed.
func NewAttemptLimiter(max int) *AttemptLimiter {
	return &AttemptLimiter{max: max}
}

// Increment records one attempt and returns an error wrapping
// ErrAttemptsExhausted if the limit is exceeded.
func (al *AttemptLimiter) Increment() error {
	al.mu.Lock()
	defer al.mu.Unlock()

	if al.max > 0 && al.count >= al.max {
		return fmt.Errorf("%w: max %d", ErrAttemptsExhausted, al.max)
	}

	al.count++

	return nil
}

// Count returns the number of attempts recorded.
func (al *AttemptLimiter) Count() int {
	al.mu.Lock()
	defer al.mu.Unlock()

	return al.count
}

// Remaining returns how many attempts are left before hitting the limit.
func (al *AttemptLimiter) Remaining() int {
	al.mu.Lock()
	defer al.mu.Unlock()

	if al.max == 0 {
		return -1 // unlimited
	}

	return al.max - al.count
}

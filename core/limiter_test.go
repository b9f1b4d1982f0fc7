package core

import (
	"errors"
	"testing"
)

func TestAttemptLimiter(t *testing.T) {
	tests := []struct {
		name      string
		max       int
		calls     int
		wantErrAt int // 1-based call index that fails, 0 for none
	}{
		{name: "unlimited", max: 0, calls: 10},
		{name: "within bound", max: 3, calls: 3},
		{name: "exceeds bound", max: 2, calls: 3, wantErrAt: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewAttemptLimiter(tt.max)
			for i := 1; i <= tt.calls; i++ {
				err := l.Increment()
				if i == tt.wantErrAt {
					if !errors.Is(err, ErrAttemptsExhausted) {
						t.Fatalf("call %d: expected ErrAttemptsExhausted, got %v", i, err)
					}
					continue
				}
				if err != nil {
					t.Fatalf("call %d: unexpected error %v", i, err)
				}
			}
		})
	}
}

func TestAttemptLimiter_Remaining(t *testing.T) {
	l := NewAttemptLimiter(3)
	_ = l.Increment()
	if got := l.Remaining(); got != 2 {
		t.Fatalf("expected 2 remaining, got %d", got)
	}
	if got := NewAttemptLimiter(0).Remaining(); got != -1 {
		t.Fatalf("expected -1 for unlimited, got %d", got)
	}
	if l.Count() != 1 {
		t.Fatalf("expected count 1, got %d", l.Count())
	}
}

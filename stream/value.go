package stream

import (
	"context"
	"sync"

	"github.com/hupe1980/contractsmith/core"
)

// ValueReader is the read-only view of a Value handed to callers.
type ValueReader[T any] interface {
	// Current returns the latest published version.
	Current() T
	// IsDone reports whether the writer marked the value terminal.
	IsDone() bool
	// Versions returns every retained version in order.
	Versions() []T
	// Updates replays all retained versions and then follows live updates.
	// The channel is closed after the terminal version has been delivered or
	// when ctx is cancelled.
	Updates(ctx context.Context) <-chan T
	// Wait blocks until the value is done and returns the final version.
	Wait(ctx context.Context) (T, error)
}

// ValueOptions configures a Value.
type ValueOptions struct {
	// History caps the number of retained versions. Older versions are
	// dropped and readers attaching later start at the oldest retained one.
	// Zero keeps every version.
	History int
}

// WithHistory caps the number of retained versions.
func WithHistory(n int) func(o *ValueOptions) {
	return func(o *ValueOptions) {
		o.History = n
	}
}

// Value is a progressive scalar with a single writer and any number of
// readers. The zero value is not usable; construct with NewValue.
type Value[T any] struct {
	mu       sync.Mutex
	versions []T
	base     int // versions dropped from the front
	history  int
	done     bool
	changed  chan struct{} // closed and replaced on every publication
}

var _ ValueReader[int] = (*Value[int])(nil)

// NewValue creates a live value whose first version is initial.
func NewValue[T any](initial T, optFns ...func(o *ValueOptions)) *Value[T] {
	opts := ValueOptions{}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.History < 0 {
		opts.History = 0
	}

	return &Value[T]{
		versions: []T{initial},
		history:  opts.History,
		changed:  make(chan struct{}),
	}
}

// Update publishes a new version. It fails with core.ErrInvalidState once
// the value is done.
func (v *Value[T]) Update(x T) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.done {
		return core.ErrInvalidState
	}

	v.appendLocked(x)
	v.broadcastLocked()

	return nil
}

// Done marks the value terminal keeping the current version.
func (v *Value[T]) Done() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.done {
		return core.ErrInvalidState
	}

	v.done = true
	v.broadcastLocked()

	return nil
}

// DoneWith publishes x as the final version and marks the value terminal.
func (v *Value[T]) DoneWith(x T) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.done {
		return core.ErrInvalidState
	}

	v.appendLocked(x)
	v.done = true
	v.broadcastLocked()

	return nil
}

// Current returns the latest published version.
func (v *Value[T]) Current() T {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.versions[len(v.versions)-1]
}

// IsDone reports whether the value is terminal.
func (v *Value[T]) IsDone() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.done
}

// Versions returns a copy of every retained version.
func (v *Value[T]) Versions() []T {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]T, len(v.versions))
	copy(out, v.versions)

	return out
}

// Updates implements ValueReader.
func (v *Value[T]) Updates(ctx context.Context) <-chan T {
	ch := make(chan T)

	go func() {
		defer close(ch)

		next := 0 // absolute index of the next version to deliver

		for {
			v.mu.Lock()
			if next < v.base {
				next = v.base
			}
			pending := make([]T, v.base+len(v.versions)-next)
			copy(pending, v.versions[next-v.base:])
			next = v.base + len(v.versions)
			done := v.done
			changed := v.changed
			v.mu.Unlock()

			for _, x := range pending {
				select {
				case ch <- x:
				case <-ctx.Done():
					return
				}
			}

			if done {
				return
			}

			select {
			case <-changed:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}

// Wait implements ValueReader.
func (v *Value[T]) Wait(ctx context.Context) (T, error) {
	for {
		v.mu.Lock()
		if v.done {
			x := v.versions[len(v.versions)-1]
			v.mu.Unlock()
			return x, nil
		}
		changed := v.changed
		v.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

func (v *Value[T]) appendLocked(x T) {
	v.versions = append(v.versions, x)

	if v.history > 0 && len(v.versions) > v.history {
		drop := len(v.versions) - v.history
		clear(v.versions[:drop])
		v.versions = v.versions[drop:]
		v.base += drop
	}
}

func (v *Value[T]) broadcastLocked() {
	close(v.changed)
	v.changed = make(chan struct{})
}

package stream

import (
	"context"
	"sync"
)

// NodeReader is the read-only view of a Node handed to callers.
type NodeReader[T any] interface {
	// Snapshot returns the current element list.
	Snapshot() []T
	// IsDone reports whether the writer marked the node terminal.
	IsDone() bool
	// Updates replays every published element list in order, then follows
	// live updates until done or ctx is cancelled.
	Updates(ctx context.Context) <-chan []T
	// Wait blocks until the node is done and returns the final element list.
	Wait(ctx context.Context) ([]T, error)
}

// Node is a progressive, append-capable tree of opaque elements.
//
// The replace target of Update is the root element until the first Append;
// afterwards it is always the newest appended element. Earlier elements are
// never touched by Update, so a writer can clear a transient indicator that
// it appended last without disturbing previous sections.
type Node[T any] struct {
	mu    sync.Mutex
	elems []T
	value *Value[[]T]
}

var _ NodeReader[int] = (*Node[int])(nil)

// NewNode creates a live node whose root element is initial.
func NewNode[T any](initial T) *Node[T] {
	elems := []T{initial}
	return &Node[T]{elems: elems, value: NewValue(clone(elems))}
}

// Update replaces the current replace target with el.
func (n *Node[T]) Update(el T) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	next := clone(n.elems)
	next[len(next)-1] = el

	if err := n.value.Update(clone(next)); err != nil {
		return err
	}

	n.elems = next

	return nil
}

// Append adds el after the current tree; el becomes the replace target.
func (n *Node[T]) Append(el T) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	next := append(clone(n.elems), el)

	if err := n.value.Update(clone(next)); err != nil {
		return err
	}

	n.elems = next

	return nil
}

// Done marks the node terminal keeping the current tree.
func (n *Node[T]) Done() error { return n.value.Done() }

// DoneWith replaces the current replace target with el and marks the node
// terminal in one step.
func (n *Node[T]) DoneWith(el T) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	next := clone(n.elems)
	next[len(next)-1] = el

	if err := n.value.DoneWith(clone(next)); err != nil {
		return err
	}

	n.elems = next

	return nil
}

// Len returns the number of elements in the tree.
func (n *Node[T]) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.elems)
}

// Snapshot implements NodeReader.
func (n *Node[T]) Snapshot() []T { return clone(n.value.Current()) }

// IsDone implements NodeReader.
func (n *Node[T]) IsDone() bool { return n.value.IsDone() }

// Updates implements NodeReader.
func (n *Node[T]) Updates(ctx context.Context) <-chan []T { return n.value.Updates(ctx) }

// Wait implements NodeReader.
func (n *Node[T]) Wait(ctx context.Context) ([]T, error) {
	elems, err := n.value.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return clone(elems), nil
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// Package obs provides last-value reactive cells.
//
// A cell is either a Source, whose value is set by its owner through Publish, or a
// Derived node, whose value is a pure function of one or more parent cells and is
// recomputed whenever any parent publishes. Derived nodes subscribe to their parents
// only while they have listeners of their own, so dropping the last listener of a
// derived node releases the whole upstream chain it was holding.
package obs

import (
	"sync"
)

// Obs is a push-based cell holding the latest known value of type T.
//
// Value returns the zero value of T until the cell is resolved. For pointer types
// (the price graph uses *big.Int) the zero value nil is the "unknown" state.
type Obs[T any] interface {
	// Value returns the current value.
	Value() T

	// Resolved reports whether the cell holds a published or derivable value.
	Resolved() bool

	// Subscribe registers fn. fn is called with the current value right away if the
	// cell is resolved, then with every later value. The returned func removes fn and
	// is safe to call more than once.
	Subscribe(fn func(T)) (unsubscribe func())

	// Listeners returns the number of active subscriptions.
	Listeners() int

	// watch is Subscribe without the value, used by derived nodes to attach to parents
	// of any type.
	watch(fn func()) (unsubscribe func())
}

// listener delivers values to one subscriber, dropping anything older than what it
// already delivered.
type listener[T any] struct {
	mu   sync.Mutex
	seen uint64
	fn   func(T)
}

func (l *listener[T]) deliver(version uint64, v T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if version <= l.seen {
		return
	}

	l.seen = version
	l.fn(v)
}

// removeListener returns ls without l, keeping order.
func removeListener[T any](ls []*listener[T], l *listener[T]) []*listener[T] {
	for i, cur := range ls {
		if cur == l {
			out := make([]*listener[T], 0, len(ls)-1)
			out = append(out, ls[:i]...)

			return append(out, ls[i+1:]...)
		}
	}

	return ls
}

func onceFunc(fn func()) func() {
	var once sync.Once

	return func() { once.Do(fn) }
}

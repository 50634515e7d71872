package obs

import (
	"slices"
	"sync"
)

// Derived is a cell computed from parent cells.
//
// While it has listeners a Derived node is attached: it is subscribed to every parent
// and recomputes on each parent publish. Without listeners it holds no upstream
// subscriptions and Value computes on demand.
type Derived[T any] struct {
	parents []parent
	compute func() T

	// life serializes attach and detach.
	life sync.Mutex

	mu        sync.Mutex
	attached  bool
	unsubs    []func()
	value     T
	version   uint64
	listeners []*listener[T]
}

// parent is the untyped view of an Obs that a derived node needs.
type parent interface {
	Resolved() bool
	watch(fn func()) func()
}

func newDerived[T any](compute func() T, parents ...parent) *Derived[T] {
	return &Derived[T]{
		parents: parents,
		compute: compute,
	}
}

// Map derives a cell from a single parent.
func Map[A, R any](a Obs[A], fn func(A) R) *Derived[R] {
	return newDerived(func() R { return fn(a.Value()) }, a)
}

// Combine2 derives a cell from two parents of possibly different types.
func Combine2[A, B, R any](a Obs[A], b Obs[B], fn func(A, B) R) *Derived[R] {
	return newDerived(func() R { return fn(a.Value(), b.Value()) }, a, b)
}

// CombineAll derives a cell from any number of parents of the same type. fn receives
// the parents' values in order.
func CombineAll[T, R any](parents []Obs[T], fn func([]T) R) *Derived[R] {
	ps := slices.Clone(parents)
	up := make([]parent, len(ps))
	for i, p := range ps {
		up[i] = p
	}

	return newDerived(func() R {
		vals := make([]T, len(ps))
		for i, p := range ps {
			vals[i] = p.Value()
		}

		return fn(vals)
	}, up...)
}

// Value returns the current derived value.
func (d *Derived[T]) Value() T {
	d.mu.Lock()
	if d.attached {
		defer d.mu.Unlock()
		return d.value
	}
	d.mu.Unlock()

	return d.compute()
}

// Resolved reports whether every parent is resolved.
func (d *Derived[T]) Resolved() bool {
	for _, p := range d.parents {
		if !p.Resolved() {
			return false
		}
	}

	return true
}

// Listeners returns the number of active subscriptions.
func (d *Derived[T]) Listeners() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.listeners)
}

// Subscribe implements Obs. The first subscription attaches the node to its parents.
func (d *Derived[T]) Subscribe(fn func(T)) func() {
	l := &listener[T]{fn: fn}

	d.mu.Lock()
	d.listeners = append(d.listeners, l)
	d.mu.Unlock()

	d.attach()

	if d.Resolved() {
		d.mu.Lock()
		v, version := d.value, d.version
		d.mu.Unlock()

		l.deliver(version, v)
	}

	return onceFunc(func() {
		d.mu.Lock()
		d.listeners = removeListener(d.listeners, l)
		empty := len(d.listeners) == 0
		d.mu.Unlock()

		if empty {
			d.detach()
		}
	})
}

func (d *Derived[T]) watch(fn func()) func() {
	return d.Subscribe(func(T) { fn() })
}

func (d *Derived[T]) attach() {
	d.life.Lock()
	defer d.life.Unlock()

	d.mu.Lock()
	if d.attached || len(d.listeners) == 0 {
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()

	// Parents deliver their current value while we subscribe; recompute ignores those
	// until attached is set, and the refresh below covers them.
	unsubs := make([]func(), 0, len(d.parents))
	for _, p := range d.parents {
		unsubs = append(unsubs, p.watch(d.recompute))
	}

	d.mu.Lock()
	d.unsubs = unsubs
	d.attached = true
	d.value = d.compute()
	d.version++
	d.mu.Unlock()
}

func (d *Derived[T]) detach() {
	d.life.Lock()
	defer d.life.Unlock()

	d.mu.Lock()
	if !d.attached || len(d.listeners) > 0 {
		d.mu.Unlock()
		return
	}

	unsubs := d.unsubs
	d.unsubs = nil
	d.attached = false
	d.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

// recompute runs on every parent publish while attached.
func (d *Derived[T]) recompute() {
	d.mu.Lock()
	if !d.attached {
		d.mu.Unlock()
		return
	}

	v := d.compute()
	d.value = v
	d.version++
	version := d.version
	ls := slices.Clone(d.listeners)
	d.mu.Unlock()

	for _, l := range ls {
		l.deliver(version, v)
	}
}

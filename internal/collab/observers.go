package collab

import "sync"

// Observers is a set of callbacks shared by provider implementations.
// Notify copies the set under the lock and calls outside it, so callbacks may
// call back into the provider.
type Observers[T any] struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(T)
}

func (o *Observers[T]) Add(fn func(T)) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.fns == nil {
		o.fns = make(map[int]func(T))
	}
	id := o.nextID
	o.nextID++
	o.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.fns, id)
			o.mu.Unlock()
		})
	}
}

func (o *Observers[T]) Notify(v T) {
	o.mu.Lock()
	fns := make([]func(T), 0, len(o.fns))
	for _, fn := range o.fns {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Len reports how many observers are registered.
func (o *Observers[T]) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.fns)
}

// Clear drops every observer.
func (o *Observers[T]) Clear() {
	o.mu.Lock()
	o.fns = nil
	o.mu.Unlock()
}

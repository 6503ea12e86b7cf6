// Package signal provides a replay-latest broadcast value.
//
// A Value holds the most recent T. Every subscriber receives the current value
// as soon as it subscribes and then every later Set, in subscription order.
// History before the subscription is never replayed.
package signal

import (
	"context"
	"sync"
)

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

type Value[T any] struct {
	mu      sync.RWMutex
	current T
	nextID  uint64
	subs    []subscriber[T]
}

func New[T any](initial T) *Value[T] {
	return &Value[T]{current: initial}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Set stores val and delivers it to every subscriber on the calling goroutine.
// Subscribers are called outside the lock, so they may call Get or Subscribe.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	v.current = val
	subs := make([]subscriber[T], len(v.subs))
	copy(subs, v.subs)
	v.mu.Unlock()

	for _, s := range subs {
		s.fn(val)
	}
}

// Subscribe registers fn, calls it with the current value and returns a
// function that removes the subscription. The returned function is idempotent.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	v.nextID++
	id := v.nextID
	v.subs = append(v.subs, subscriber[T]{id: id, fn: fn})
	current := v.current
	v.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() { v.remove(id) })
	}
}

// Watch exposes the value as a channel. The channel holds at most one pending
// value; a newer value replaces an unread one. It is closed once ctx is done.
func (v *Value[T]) Watch(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	var (
		mu     sync.Mutex
		closed bool
	)
	unsubscribe := v.Subscribe(func(val T) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case <-ch:
		default:
		}
		ch <- val
	})

	go func() {
		<-ctx.Done()
		unsubscribe()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()

	return ch
}

// Subscribers returns the number of live subscriptions.
func (v *Value[T]) Subscribers() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.subs)
}

func (v *Value[T]) remove(id uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, s := range v.subs {
		if s.id == id {
			v.subs = append(v.subs[:i:i], v.subs[i+1:]...)
			return
		}
	}
}

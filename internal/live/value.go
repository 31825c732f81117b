package live

import (
	"context"
	"sync"
)

type Value[T any] struct {
	mu     sync.Mutex
	cur    T
	subs   map[chan T]struct{}
	closed bool
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{cur: initial, subs: make(map[chan T]struct{})}
}

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cur
}

// Set stores x and pushes it to every subscriber. Ignored after Close.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.cur = x
	for ch := range v.subs {
		offer(ch, x)
	}
}

// Update applies fn to the current value atomically and publishes the result.
func (v *Value[T]) Update(fn func(T) T) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return v.cur
	}
	v.cur = fn(v.cur)
	for ch := range v.subs {
		offer(ch, v.cur)
	}
	return v.cur
}

// Subscribe returns a channel that receives the current value immediately
// and every later one. It closes when ctx ends or the Value is closed.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		close(ch)
		return ch
	}
	ch <- v.cur
	v.subs[ch] = struct{}{}
	v.mu.Unlock()

	go func() {
		<-ctx.Done()
		v.mu.Lock()
		defer v.mu.Unlock()
		if _, ok := v.subs[ch]; ok {
			delete(v.subs, ch)
			close(ch)
		}
	}()
	return ch
}

// Close ends every subscription. Later Sets are dropped.
func (v *Value[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	for ch := range v.subs {
		delete(v.subs, ch)
		close(ch)
	}
}

// offer replaces whatever is buffered in ch with x. Callers must be the only
// sender on ch.
func offer[T any](ch chan T, x T) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- x:
	default:
	}
}

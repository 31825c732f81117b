package screen

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/readingtracker/internal/live"
)

const scopeQueue = 64

// scope runs tasks one at a time on a single goroutine until closed.
type scope struct {
	name   string
	ctx    context.Context
	cancel context.CancelFunc
	tasks  chan func(ctx context.Context)
	done   chan struct{}
}

func newScope(name string) *scope {
	ctx, cancel := context.WithCancel(context.Background())
	s := &scope{
		name:   name,
		ctx:    ctx,
		cancel: cancel,
		tasks:  make(chan func(ctx context.Context), scopeQueue),
		done:   make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *scope) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case fn := <-s.tasks:
			if s.ctx.Err() != nil {
				return
			}
			s.exec(fn)
		}
	}
}

func (s *scope) exec(fn func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("screen", s.name).Interface("panic", r).Msg("Recovered panic in screen task")
		}
	}()
	fn(s.ctx)
}

// launch queues fn. It is a no-op once the scope is closed.
func (s *scope) launch(fn func(ctx context.Context)) {
	select {
	case <-s.ctx.Done():
	case s.tasks <- fn:
	}
}

// write runs op off the scope with a context that survives close, then
// queues done with the outcome. After close the outcome is dropped.
func (s *scope) write(op func(ctx context.Context) error, done func(err error)) {
	ctx := context.WithoutCancel(s.ctx)
	go func() {
		err := op(ctx)
		s.launch(func(context.Context) { done(err) })
	}()
}

func (s *scope) closed() bool {
	return s.ctx.Err() != nil
}

// close stops the loop and waits for the running task. It must not be
// called from a task.
func (s *scope) close() {
	s.cancel()
	<-s.done
}

// collect forwards every result of stream onto the scope.
func collect[T any](s *scope, stream <-chan live.Result[T], fn func(res live.Result[T])) {
	go func() {
		for res := range stream {
			s.launch(func(context.Context) { fn(res) })
		}
	}()
}

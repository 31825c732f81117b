package screen

import (
	"context"

	"github.com/mrlokans/readingtracker/internal/live"
)

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "loading"
	}
}

// State is one snapshot of an asynchronous value.
type State[T any] struct {
	Phase Phase
	Data  T
	Err   error
}

func Loading[T any]() State[T] {
	return State[T]{Phase: PhaseLoading}
}

func Succeeded[T any](v T) State[T] {
	return State[T]{Phase: PhaseSuccess, Data: v}
}

func Failed[T any](err error) State[T] {
	return State[T]{Phase: PhaseError, Err: err}
}

func (s State[T]) IsLoading() bool { return s.Phase == PhaseLoading }
func (s State[T]) IsSuccess() bool { return s.Phase == PhaseSuccess }
func (s State[T]) IsError() bool   { return s.Phase == PhaseError }

// Observable is the read side of a live.Value.
type Observable[T any] interface {
	Get() T
	Subscribe(ctx context.Context) <-chan T
}

var _ Observable[int] = (*live.Value[int])(nil)

package live

import "context"

// Result is one delivery of a watched query.
type Result[T any] struct {
	Value T
	Err   error
}

// Watch runs fetch now and again after every change on topics, streaming
// each outcome. Failed fetches are delivered as results too; the watch keeps
// going. The channel closes when ctx ends.
func Watch[T any](ctx context.Context, hub *Hub, fetch func(context.Context) (T, error), topics ...Topic) <-chan Result[T] {
	out := make(chan Result[T], 1)
	// subscribe before the first fetch so no change slips between them
	changes := hub.Subscribe(ctx, topics...)

	go func() {
		defer close(out)
		for {
			v, err := fetch(ctx)
			if ctx.Err() != nil {
				return
			}
			offer(out, Result[T]{Value: v, Err: err})

			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
			}
		}
	}()
	return out
}

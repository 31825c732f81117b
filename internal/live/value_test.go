package live

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestValue_SubscribeGetsCurrent(t *testing.T) {
	v := NewValue(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := v.Subscribe(ctx)
	assert.Equal(t, 1, receive(t, ch))

	v.Set(2)
	assert.Equal(t, 2, receive(t, ch))
	assert.Equal(t, 2, v.Get())
}

func TestValue_Conflates(t *testing.T) {
	v := NewValue("a")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := v.Subscribe(ctx)
	v.Set("b")
	v.Set("c")

	assert.Equal(t, "c", receive(t, ch))
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra value %q", extra)
	default:
	}
}

func TestValue_Update(t *testing.T) {
	v := NewValue(10)
	got := v.Update(func(n int) int { return n + 5 })
	assert.Equal(t, 15, got)
	assert.Equal(t, 15, v.Get())
}

func TestValue_CancelAndClose(t *testing.T) {
	v := NewValue(0)
	ctx, cancel := context.WithCancel(context.Background())

	ch := v.Subscribe(ctx)
	receive(t, ch)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	other := v.Subscribe(context.Background())
	receive(t, other)
	v.Close()
	_, ok := <-other
	assert.False(t, ok)

	v.Set(9)
	assert.Equal(t, 0, v.Get(), "Set after Close is dropped")

	_, ok = <-v.Subscribe(context.Background())
	assert.False(t, ok)
}

package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_FireReachesListenersInOrder(t *testing.T) {
	b := NewBus()
	var got []string
	b.Listen(OrderPlaced, func(_ context.Context, e Event) { got = append(got, "a:"+e.Payload.(string)) })
	b.Listen(OrderPlaced, func(_ context.Context, e Event) { got = append(got, "b:"+e.Payload.(string)) })
	b.Listen(OrderDeleted, func(context.Context, Event) { got = append(got, "deleted") })

	b.Fire(context.Background(), OrderPlaced, "ARS1001")

	assert.Equal(t, []string{"a:ARS1001", "b:ARS1001"}, got)
}

func TestBus_PanickingListenerIsIsolated(t *testing.T) {
	var b Bus
	called := false
	b.Listen(OrderStatusChanged, func(context.Context, Event) { panic("boom") })
	b.Listen(OrderStatusChanged, func(context.Context, Event) { called = true })

	assert.NotPanics(t, func() { b.Fire(context.Background(), OrderStatusChanged, nil) })
	assert.True(t, called)
}

func TestBus_NilIsSafe(t *testing.T) {
	var b *Bus
	assert.NotPanics(t, func() { b.Fire(context.Background(), OrderPlaced, nil) })
}

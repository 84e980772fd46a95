package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSetsCurrentAndNotifies(t *testing.T) {
	bus := NewBus()

	var got []*Notification
	bus.Subscribe(func(n *Notification) { got = append(got, n) })

	bus.Publish(KindSuccess, "Added to cart")

	require.Len(t, got, 1)
	assert.Equal(t, KindSuccess, got[0].Kind)
	assert.Equal(t, "Added to cart", got[0].Message)

	cur := bus.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "Added to cart", cur.Message)
}

func TestPublishReplacesPrevious(t *testing.T) {
	bus := NewBus(WithExpiry(80 * time.Millisecond))

	var events []*Notification
	bus.Subscribe(func(n *Notification) { events = append(events, n) })

	bus.Publish(KindSuccess, "Added to cart")
	bus.Publish(KindError, "Failed")

	cur := bus.Current()
	require.NotNil(t, cur)
	assert.Equal(t, KindError, cur.Kind)
	assert.Equal(t, "Failed", cur.Message)

	// Only the final publish's expiry may fire: exactly one trailing nil.
	time.Sleep(200 * time.Millisecond)
	assert.Nil(t, bus.Current())
	require.Len(t, events, 3)
	assert.NotNil(t, events[0])
	assert.NotNil(t, events[1])
	assert.Nil(t, events[2])
}

func TestSupersededTimerNeverClearsNewerNotification(t *testing.T) {
	bus := NewBus(WithExpiry(50 * time.Millisecond))

	bus.Publish(KindSuccess, "first")
	time.Sleep(30 * time.Millisecond)
	// Re-arm while the first timer is pending.
	bus.Publish(KindWarning, "second")
	time.Sleep(30 * time.Millisecond)

	// First timer's deadline has passed, but the second publish canceled it.
	cur := bus.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "second", cur.Message)

	time.Sleep(50 * time.Millisecond)
	assert.Nil(t, bus.Current())
}

func TestAutoExpiryDismisses(t *testing.T) {
	bus := NewBus(WithExpiry(30 * time.Millisecond))

	bus.Publish(KindWarning, "heads up")
	require.NotNil(t, bus.Current())

	time.Sleep(100 * time.Millisecond)
	assert.Nil(t, bus.Current())
}

func TestDismissIdempotent(t *testing.T) {
	bus := NewBus()

	var calls int
	bus.Subscribe(func(*Notification) { calls++ })

	// Idle dismiss: no observable change, no delivery.
	bus.Dismiss()
	assert.Zero(t, calls)
	assert.Nil(t, bus.Current())

	bus.Publish(KindError, "boom")
	bus.Dismiss()
	bus.Dismiss()
	assert.Nil(t, bus.Current())
	// publish + one effective dismiss
	assert.Equal(t, 2, calls)
}

func TestDismissCancelsPendingExpiry(t *testing.T) {
	bus := NewBus(WithExpiry(40 * time.Millisecond))

	var dismissals int
	bus.Subscribe(func(n *Notification) {
		if n == nil {
			dismissals++
		}
	})

	bus.Publish(KindSuccess, "ok")
	bus.Dismiss()
	time.Sleep(100 * time.Millisecond)

	// The explicit dismiss is the only one; the timer was canceled.
	assert.Equal(t, 1, dismissals)
}

func TestDeliveryInRegistrationOrder(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.Subscribe(func(*Notification) { order = append(order, "a") })
	bus.Subscribe(func(*Notification) { order = append(order, "b") })
	bus.Subscribe(func(*Notification) { order = append(order, "c") })

	bus.Publish(KindSuccess, "hi")
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()

	var a, b int
	unsubA := bus.Subscribe(func(*Notification) { a++ })
	bus.Subscribe(func(*Notification) { b++ })

	bus.Publish(KindSuccess, "one")
	unsubA()
	unsubA() // safe to call twice
	bus.Publish(KindSuccess, "two")

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestSubscribeDoesNotReplayCurrent(t *testing.T) {
	bus := NewBus()
	bus.Publish(KindSuccess, "existing")

	var called bool
	bus.Subscribe(func(*Notification) { called = true })
	assert.False(t, called)

	// The initial-state query is separate.
	require.NotNil(t, bus.Current())
}

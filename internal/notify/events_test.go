package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvents_OnTokenDelivers(t *testing.T) {
	events := NewEvents()

	var got []TokenEvent
	events.OnToken(func(ev TokenEvent) {
		got = append(got, ev)
	})

	events.EmitToken(TokenEvent{UserID: "u1", DeviceToken: "tok", Revoked: false})
	events.EmitToken(TokenEvent{UserID: "u1", DeviceToken: "tok", Revoked: true})

	assert.Len(t, got, 2)
	assert.False(t, got[0].Revoked)
	assert.True(t, got[1].Revoked)
}

func TestEvents_UnsubscribeStopsDelivery(t *testing.T) {
	events := NewEvents()

	calls := 0
	unsubscribe := events.OnToken(func(TokenEvent) { calls++ })

	events.EmitToken(TokenEvent{UserID: "u1"})
	unsubscribe()
	events.EmitToken(TokenEvent{UserID: "u1"})

	assert.Equal(t, 1, calls)

	// Double unsubscribe must not panic or affect other handlers.
	unsubscribe()
}

func TestEvents_UnsubscribeOnlyRemovesOwnHandler(t *testing.T) {
	events := NewEvents()

	first, second := 0, 0
	unsubFirst := events.OnToken(func(TokenEvent) { first++ })
	events.OnToken(func(TokenEvent) { second++ })

	unsubFirst()
	events.EmitToken(TokenEvent{UserID: "u1"})

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestEvents_PurchaseHandlersAreIndependent(t *testing.T) {
	events := NewEvents()

	tokenCalls, purchaseCalls := 0, 0
	events.OnToken(func(TokenEvent) { tokenCalls++ })
	events.OnPurchase(func(PurchaseEvent) { purchaseCalls++ })

	events.EmitPurchase(PurchaseEvent{UserID: "u1", ProductID: "premium", Active: true})

	assert.Equal(t, 0, tokenCalls)
	assert.Equal(t, 1, purchaseCalls)
}

package notify

import (
	"sync"
)

// TokenEvent fires when a device token is registered or revoked.
type TokenEvent struct {
	UserID      string
	DeviceToken string
	Revoked     bool
}

// PurchaseEvent fires when a subscription purchase state changes.
type PurchaseEvent struct {
	UserID    string
	ProductID string
	Active    bool
}

// Unsubscribe removes a previously registered handler. Calling it more than
// once is safe.
type Unsubscribe func()

// Events is an explicit event-subscription registry. Handlers register and
// receive an unsubscribe handle back; there is no global listener table.
type Events struct {
	mu               sync.Mutex
	nextID           int
	tokenHandlers    map[int]func(TokenEvent)
	purchaseHandlers map[int]func(PurchaseEvent)
}

// NewEvents creates an empty registry.
func NewEvents() *Events {
	return &Events{
		tokenHandlers:    make(map[int]func(TokenEvent)),
		purchaseHandlers: make(map[int]func(PurchaseEvent)),
	}
}

// OnToken registers a device-token handler.
func (e *Events) OnToken(fn func(TokenEvent)) Unsubscribe {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.tokenHandlers[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.tokenHandlers, id)
	}
}

// OnPurchase registers a purchase-state handler.
func (e *Events) OnPurchase(fn func(PurchaseEvent)) Unsubscribe {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.purchaseHandlers[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.purchaseHandlers, id)
	}
}

// EmitToken delivers a token event to every registered handler.
func (e *Events) EmitToken(ev TokenEvent) {
	e.mu.Lock()
	handlers := make([]func(TokenEvent), 0, len(e.tokenHandlers))
	for _, fn := range e.tokenHandlers {
		handlers = append(handlers, fn)
	}
	e.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

// EmitPurchase delivers a purchase event to every registered handler.
func (e *Events) EmitPurchase(ev PurchaseEvent) {
	e.mu.Lock()
	handlers := make([]func(PurchaseEvent), 0, len(e.purchaseHandlers))
	for _, fn := range e.purchaseHandlers {
		handlers = append(handlers, fn)
	}
	e.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

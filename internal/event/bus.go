package event

import (
	"fmt"
	"log"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Iron-Ham/taskboard/internal/logging"
)

// Handler is a function that handles an event.
type Handler func(Event)

// wildcard is the pseudo event type used by SubscribeAll.
const wildcard = "*"

// subscription represents a registered event handler.
type subscription struct {
	id        string
	eventType string
	handler   Handler
}

// Bus is a synchronous pub-sub event bus that remembers the most recent
// event of each type. New subscribers to a type are handed that event
// immediately, so a late subscriber always starts from the current state.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[string][]subscription // eventType -> subscriptions
	last          map[string]Event          // eventType -> most recent event
	nextID        atomic.Uint64

	logger *logging.Logger
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		subscriptions: make(map[string][]subscription),
		last:          make(map[string]Event),
	}
}

// SetLogger routes handler panic reports through logger instead of the
// standard library log package.
func (b *Bus) SetLogger(logger *logging.Logger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logger = logger
}

// Subscribe registers a handler for a specific event type and returns a
// subscription ID that can be used to unsubscribe. If an event of that type
// has already been published, the handler receives it before Subscribe
// returns.
func (b *Bus) Subscribe(eventType string, handler Handler) string {
	b.mu.Lock()
	id := b.generateID()
	b.subscriptions[eventType] = append(b.subscriptions[eventType], subscription{
		id:        id,
		eventType: eventType,
		handler:   handler,
	})
	replay, ok := b.last[eventType]
	b.mu.Unlock()

	if ok && eventType != wildcard {
		b.safeCall(handler, replay)
	}
	return id
}

// SubscribeAll registers a handler for all event types. Wildcard handlers
// see only events published after they subscribe.
func (b *Bus) SubscribeAll(handler Handler) string {
	return b.Subscribe(wildcard, handler)
}

// Unsubscribe removes a subscription by ID.
// Returns true if the subscription was found and removed.
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscriptions {
		for i, sub := range subs {
			if sub.id == id {
				remaining := make([]subscription, 0, len(subs)-1)
				remaining = append(remaining, subs[:i]...)
				remaining = append(remaining, subs[i+1:]...)
				b.subscriptions[eventType] = remaining
				return true
			}
		}
	}
	return false
}

// Publish records event as the latest of its type and dispatches it to all
// registered handlers. Specific handlers are called first, followed by
// wildcard handlers, each group in registration order. Handlers run on the
// caller's goroutine with no bus lock held, so they may publish or subscribe
// themselves. A panicking handler is logged and skipped.
func (b *Bus) Publish(event Event) {
	eventType := event.EventType()

	b.mu.Lock()
	b.last[eventType] = event
	specificSubs := make([]subscription, len(b.subscriptions[eventType]))
	copy(specificSubs, b.subscriptions[eventType])
	wildcardSubs := make([]subscription, len(b.subscriptions[wildcard]))
	copy(wildcardSubs, b.subscriptions[wildcard])
	b.mu.Unlock()

	for _, sub := range specificSubs {
		b.safeCall(sub.handler, event)
	}
	for _, sub := range wildcardSubs {
		b.safeCall(sub.handler, event)
	}
}

// Last returns the most recently published event of the given type.
func (b *Bus) Last(eventType string) (Event, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.last[eventType]
	return e, ok
}

// safeCall invokes a handler and recovers from any panics so one
// misbehaving handler cannot block delivery to the others.
func (b *Bus) safeCall(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.mu.RLock()
			logger := b.logger
			b.mu.RUnlock()

			if logger != nil {
				logger.Error("event handler panicked",
					"event_type", event.EventType(),
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()))
				return
			}
			log.Printf("ERROR: event handler panicked for event %s: %v\n%s",
				event.EventType(), r, debug.Stack())
		}
	}()
	handler(event)
}

// generateID creates a unique subscription ID.
func (b *Bus) generateID() string {
	return "sub-" + strconv.FormatUint(b.nextID.Add(1), 10)
}

// Clear removes all subscriptions and forgets every recorded event.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions = make(map[string][]subscription)
	b.last = make(map[string]Event)
}

// SubscriptionCount returns the total number of active subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, subs := range b.subscriptions {
		count += len(subs)
	}
	return count
}

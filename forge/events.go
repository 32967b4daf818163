package forge

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Event names carried on the bus. These are the wire contract with display
// collaborators and must not change without coordinating with the UI.
const (
	EventGenerateRequested  = "request:generate"
	EventGenerationStarted  = "generation:start"
	EventGenerationComplete = "generation:complete"
	EventGenerationError    = "generation:error"
)

// Event is implemented by every payload published on the Bus. Each event name
// maps to exactly one payload type, so handlers can type-switch safely.
type Event interface {
	Name() string
}

// GenerateRequested asks the orchestrator to produce art for a request.
type GenerateRequested struct {
	Request Request
}

// GenerationStarted signals that a render pass has begun. It is not emitted
// for cache hits: a hit completes synchronously and emitting a start for work
// that never happens would force consumers to special-case an instant
// start/complete pair.
type GenerationStarted struct {
	Mode string
}

// GenerationCompleted carries a finished result. The result is shared by
// value and must not be mutated by handlers.
type GenerationCompleted struct {
	Result Result
}

// GenerationFailed carries a human-readable failure notice. Raw errors never
// cross the bus.
type GenerationFailed struct {
	Message string
}

func (GenerateRequested) Name() string   { return EventGenerateRequested }
func (GenerationStarted) Name() string   { return EventGenerationStarted }
func (GenerationCompleted) Name() string { return EventGenerationComplete }
func (GenerationFailed) Name() string    { return EventGenerationError }

// Handler receives events published on the Bus.
type Handler func(Event)

// Subscription identifies a registered handler so it can be removed later.
type Subscription struct {
	event string
	id    uint64
}

type subscriber struct {
	id uint64
	fn Handler
}

// Bus is a synchronous publish/subscribe registry. Emit invokes every handler
// registered for the event's name, in registration order, before returning.
// A panicking handler is recovered and logged; remaining handlers still run.
//
// Construct with NewBus and pass by reference; there is no package-level
// instance.
type Bus struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[string][]subscriber
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]subscriber)}
}

// Subscribe registers fn for events with the given name and returns a token
// for Unsubscribe. Subscribing from within a handler is safe; the new handler
// is not invoked for the emit currently in flight.
func (b *Bus) Subscribe(event string, fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.handlers[event] = append(b.handlers[event], subscriber{id: b.nextID, fn: fn})
	return Subscription{event: event, id: b.nextID}
}

// Unsubscribe removes a previously registered handler. Unknown tokens are
// ignored. Safe to call from within a handler; the removed handler may still
// receive the emit currently in flight.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[sub.event]
	for i, s := range subs {
		if s.id == sub.id {
			b.handlers[sub.event] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Emit dispatches the event synchronously to all current subscribers of its
// name. Dispatch iterates over a snapshot of the handler list, so handlers
// added or removed during dispatch do not shift or skip invocations. Emitting
// with no subscribers is a no-op.
func (b *Bus) Emit(event Event) {
	b.mu.Lock()
	subs := b.handlers[event.Name()]
	snapshot := make([]subscriber, len(subs))
	copy(snapshot, subs)
	b.mu.Unlock()

	if len(snapshot) == 0 {
		log.Debug("event emitted with no subscribers", "event", event.Name())
		return
	}

	for _, s := range snapshot {
		b.dispatch(s, event)
	}
}

func (b *Bus) dispatch(s subscriber, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("event handler panicked",
				"event", event.Name(),
				"handler", s.id,
				"panic", fmt.Sprint(r))
		}
	}()
	s.fn(event)
}

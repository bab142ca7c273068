package health

// EventType defines the kind of combat event.
type EventType string

const (
	EventDamageApplied   EventType = "damage_applied"
	EventSegmentDepleted EventType = "segment_depleted"
	EventHealed          EventType = "healed"
	EventDeath           EventType = "death"
)

// Event is emitted while a Damageable mutates. Amount is the hitpoints
// actually applied (after transforms and clamping), not the raw incoming
// value. SegmentIndex is -1 for events that are not tied to one segment.
type Event struct {
	Type         EventType
	Class        DamageClass
	Amount       float64
	SegmentIndex int
}

// EventHandler handles combat events.
type EventHandler func(evt Event)

// EventEmitter fans events out to registered handlers, synchronously and in
// registration order.
type EventEmitter struct {
	Handlers []EventHandler
}

// Subscribe registers a handler. Nil handlers are ignored.
func (e *EventEmitter) Subscribe(h EventHandler) {
	if e == nil || h == nil {
		return
	}
	e.Handlers = append(e.Handlers, h)
}

// Emit sends an event to all handlers.
func (e *EventEmitter) Emit(evt Event) {
	if e == nil || len(e.Handlers) == 0 {
		return
	}
	for _, h := range e.Handlers {
		if h != nil {
			h(evt)
		}
	}
}

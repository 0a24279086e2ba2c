package infra

import "sync"

// EventType represents the type of event in the system
type EventType int

const (
	ExtractionRequested EventType = iota
	RecordProduced
	DuplicateResolved
	ExtractionFailed
)

// String returns the string representation of the EventType
func (et EventType) String() string {
	switch et {
	case ExtractionRequested:
		return "ExtractionRequested"
	case RecordProduced:
		return "RecordProduced"
	case DuplicateResolved:
		return "DuplicateResolved"
	case ExtractionFailed:
		return "ExtractionFailed"
	default:
		return "Unknown"
	}
}

type Event interface{ EventType() EventType }
type Handler func(Event)

// Bus delivers events synchronously, in subscription order.
type Bus struct {
	mu   sync.RWMutex
	subs map[EventType][]Handler
}

func NewBus() *Bus { return &Bus{subs: map[EventType][]Handler{}} }

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := b.subs[e.EventType()]
	b.mu.RUnlock()
	for _, h := range handlers {
		h(e)
	}
}

func (b *Bus) Subscribe(evt EventType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[evt] = append(b.subs[evt], h)
}

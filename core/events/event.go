package events

// Event represents a structured state change emitted by the wallet core.
type Event interface {
	EventType() string
}

// Emitter broadcasts events to downstream subscribers (indexers, RPC feeds).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter satisfies the Emitter interface while discarding all events.
// Components use it so that event emission stays optional.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}

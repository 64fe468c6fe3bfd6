package types

// Event represents a typed event emitted by a wallet state transition.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

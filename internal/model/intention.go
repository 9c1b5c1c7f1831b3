package model

import "fmt"

// Intention represents what an AI-driven agent is currently doing
type Intention int32

const (
	// IntentionIdle - agent stands still, no goal
	IntentionIdle Intention = iota
	// IntentionActive - agent is free to pick a new goal
	IntentionActive
	// IntentionMoveTo - agent is following a path to a goal
	IntentionMoveTo
)

// String returns human-readable intention name
func (i Intention) String() string {
	switch i {
	case IntentionIdle:
		return "IDLE"
	case IntentionActive:
		return "ACTIVE"
	case IntentionMoveTo:
		return "MOVE_TO"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the intention by name.
func (i Intention) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText decodes an intention name produced by MarshalText.
func (i *Intention) UnmarshalText(text []byte) error {
	switch string(text) {
	case "IDLE":
		*i = IntentionIdle
	case "ACTIVE":
		*i = IntentionActive
	case "MOVE_TO":
		*i = IntentionMoveTo
	default:
		return fmt.Errorf("unknown intention %q", text)
	}
	return nil
}

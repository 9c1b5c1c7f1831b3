package ai

import (
	"github.com/google/uuid"

	"github.com/udisondev/voxnav/internal/model"
)

// Controller represents AI controller interface for agents
type Controller interface {
	// Start starts AI controller
	Start()

	// Stop stops AI controller
	Stop()

	// SetIntention sets AI intention
	SetIntention(intention model.Intention)

	// CurrentIntention returns current AI intention
	CurrentIntention() model.Intention

	// Tick performs AI tick (called once per simulation tick)
	Tick()
}

// Observable is implemented by controllers whose agent state can be inspected
// (debug view, logging).
type Observable interface {
	Snapshot() Snapshot
}

// Snapshot is a point-in-time view of one agent and its route.
type Snapshot struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Intention model.Intention `json:"intention"`
	Position  [3]float64      `json:"position"`
	Goal      *[3]float64     `json:"goal,omitempty"`
	State     string          `json:"state"`
	Nodes     []NodeView      `json:"nodes,omitempty"`
}

// NodeView is a route node as shown to observers.
type NodeView struct {
	Point [3]float64 `json:"point"`
	Type  string     `json:"type"`
}

package ai

import (
	"log/slog"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/voxnav/internal/model"
	"github.com/udisondev/voxnav/internal/pathfinding"
	"github.com/udisondev/voxnav/internal/world"
)

// NavigatorAI drives one entity: physics step, then navigation step.
// Intention: ACTIVE (free) → MOVE_TO (following a goal) → ACTIVE on arrival or failure.
type NavigatorAI struct {
	entity   *world.Entity
	nav      *pathfinding.Navigator
	collider model.Collider
	params   GoalParams

	isRunning atomic.Bool
	intention atomic.Int32
	arrivals  atomic.Int64
	failures  atomic.Int64
}

// GoalParams are the search parameters used for goals issued by the AI.
type GoalParams struct {
	MaxDistance  float64
	Variance     float64
	Capabilities model.Capabilities
}

// DefaultGoalParams matches Navigator.MoveTo defaults.
func DefaultGoalParams() GoalParams {
	return GoalParams{
		MaxDistance:  pathfinding.DefaultMaxDistance,
		Variance:     pathfinding.DefaultVariance,
		Capabilities: model.DefaultCapabilities(),
	}
}

// NewNavigatorAI creates AI for entity steered by nav.
func NewNavigatorAI(entity *world.Entity, nav *pathfinding.Navigator, collider model.Collider, params GoalParams) *NavigatorAI {
	return &NavigatorAI{
		entity:   entity,
		nav:      nav,
		collider: collider,
		params:   params,
	}
}

// Entity returns the controlled entity.
func (ai *NavigatorAI) Entity() *world.Entity {
	return ai.entity
}

// Navigator returns the entity's navigator.
func (ai *NavigatorAI) Navigator() *pathfinding.Navigator {
	return ai.nav
}

// Start starts AI controller
func (ai *NavigatorAI) Start() {
	ai.isRunning.Store(true)
	ai.SetIntention(model.IntentionActive)
	slog.Debug("navigator AI started",
		"agent", ai.entity.Name(),
		"id", ai.entity.ID())
}

// Stop stops AI controller and drops the current goal
func (ai *NavigatorAI) Stop() {
	ai.isRunning.Store(false)
	ai.nav.Reset()
	ai.SetIntention(model.IntentionIdle)
	slog.Debug("navigator AI stopped",
		"agent", ai.entity.Name(),
		"id", ai.entity.ID())
}

// SetIntention sets AI intention
func (ai *NavigatorAI) SetIntention(intention model.Intention) {
	old := model.Intention(ai.intention.Swap(int32(intention)))

	if old != intention && IsDebugEnabled() {
		slog.Debug("AI intention changed",
			"agent", ai.entity.Name(),
			"from", old,
			"to", intention)
	}
}

// CurrentIntention returns current AI intention
func (ai *NavigatorAI) CurrentIntention() model.Intention {
	return model.Intention(ai.intention.Load())
}

// MoveTo asks the navigator for a route to point.
// Returns true if a search was scheduled; arriving immediately counts as an arrival.
func (ai *NavigatorAI) MoveTo(point mgl64.Vec3) bool {
	ok := ai.nav.SetGoal(&pathfinding.Goal{
		Point:        point,
		MinDistance:  ai.entity.BoundingBox().CenterToCorner(),
		MaxDistance:  ai.params.MaxDistance,
		Variance:     ai.params.Variance,
		Capabilities: ai.params.Capabilities,
		OnComplete:   ai.onArrive,
	})
	if ok {
		ai.SetIntention(model.IntentionMoveTo)
	}
	return ok
}

func (ai *NavigatorAI) onArrive() {
	ai.arrivals.Add(1)
	ai.SetIntention(model.IntentionActive)
	if IsDebugEnabled() {
		slog.Debug("agent arrived", "agent", ai.entity.Name(), "position", ai.entity.Position())
	}
}

// Arrivals returns how many goals were reached.
func (ai *NavigatorAI) Arrivals() int64 {
	return ai.arrivals.Load()
}

// Failures returns how many goals were abandoned as unreachable.
func (ai *NavigatorAI) Failures() int64 {
	return ai.failures.Load()
}

// Tick performs AI tick
func (ai *NavigatorAI) Tick() {
	if !ai.isRunning.Load() {
		return
	}
	if ai.entity.Dead() {
		return
	}

	ai.entity.Tick(ai.collider)
	ai.nav.Tick()

	if ai.CurrentIntention() != model.IntentionMoveTo {
		return
	}

	switch ai.nav.State() {
	case pathfinding.StateInvalid, pathfinding.StateTerminated:
		// Unreachable: give the goal up so a new one can be picked.
		if IsDebugEnabled() {
			goal, _ := ai.nav.GoalPosition()
			slog.Debug("goal abandoned", "agent", ai.entity.Name(), "goal", goal)
		}
		ai.failures.Add(1)
		ai.nav.Reset()
		ai.SetIntention(model.IntentionActive)
	case pathfinding.StateNone:
		if _, ok := ai.nav.GoalPosition(); !ok {
			ai.SetIntention(model.IntentionActive)
		}
	}
}

// Snapshot implements Observable.
func (ai *NavigatorAI) Snapshot() Snapshot {
	snap := Snapshot{
		ID:        ai.entity.ID(),
		Name:      ai.entity.Name(),
		Intention: ai.CurrentIntention(),
		Position:  ai.entity.Position(),
		State:     ai.nav.State().String(),
	}
	if goal, ok := ai.nav.GoalPosition(); ok {
		g := [3]float64(goal)
		snap.Goal = &g
	}
	for _, n := range ai.nav.Nodes() {
		snap.Nodes = append(snap.Nodes, NodeView{Point: n.Point(), Type: n.Type().String()})
	}
	return snap
}

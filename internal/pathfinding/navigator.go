package pathfinding

import (
	"log/slog"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/voxnav/internal/model"
)

// Agent is the entity surface a Navigator steers.
type Agent interface {
	Position() mgl64.Vec3
	SetPosition(pos mgl64.Vec3)
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	SetView(yaw, pitch float64)
	OnGround() bool
	BoundingBox() model.BoundingBox
	World() model.World
	Dead() bool
}

// speeder is implemented by agents with their own base movement speed.
type speeder interface {
	MovementSpeed() float64
}

// Goal is a navigation request.
type Goal struct {
	Point        mgl64.Vec3
	MinDistance  float64
	MaxDistance  float64
	Variance     float64
	Capabilities model.Capabilities
	OnComplete   func()
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithMovementSpeed overrides the base movement speed (blocks per tick).
func WithMovementSpeed(speed float64) Option {
	return func(n *Navigator) { n.speed = speed }
}

// WithJumpHeight overrides the jump height used when the route climbs.
func WithJumpHeight(height float64) Option {
	return func(n *Navigator) { n.jumpHeight = height }
}

// Navigator owns the goal and active Path of one agent and steers it once per tick.
// SetGoal, Tick and Reset serialize on a single mutex; completion callbacks run after it is released.
type Navigator struct {
	agent     Agent
	generator *Generator
	collider  model.Collider

	mu          sync.Mutex
	goal        mgl64.Vec3
	hasGoal     bool
	path        *Path
	minDistance float64
	speed       float64
	jumpHeight  float64
}

// NewNavigator creates a navigator for agent.
func NewNavigator(agent Agent, gen *Generator, collider model.Collider, opts ...Option) *Navigator {
	n := &Navigator{
		agent:      agent,
		generator:  gen,
		collider:   collider,
		speed:      DefaultMovementSpeed,
		jumpHeight: DefaultJumpHeight,
	}
	if s, ok := agent.(speeder); ok && s.MovementSpeed() > 0 {
		n.speed = s.MovementSpeed()
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Agent returns the steered agent.
func (n *Navigator) Agent() Agent {
	return n.agent
}

// MoveTo requests a path to point with default parameters.
func (n *Navigator) MoveTo(point mgl64.Vec3) bool {
	return n.SetGoal(&Goal{
		Point:        point,
		MinDistance:  n.agent.BoundingBox().CenterToCorner(),
		MaxDistance:  DefaultMaxDistance,
		Variance:     DefaultVariance,
		Capabilities: model.DefaultCapabilities(),
	})
}

// SetGoal requests a path to goal. A nil goal clears the goal and cancels the active path.
// Returns true iff a new search was scheduled.
func (n *Navigator) SetGoal(goal *Goal) bool {
	n.mu.Lock()

	if goal == nil {
		n.clearLocked()
		n.mu.Unlock()
		return false
	}

	if n.hasGoal && n.path != nil && model.SameBlock(goal.Point, n.goal) {
		n.mu.Unlock()
		return false
	}

	w := n.agent.World()
	if w == nil {
		n.clearLocked()
		n.mu.Unlock()
		return false
	}
	if border := w.Border(); border != nil && !border.Contains(goal.Point) {
		n.mu.Unlock()
		return false
	}
	if !model.ChunkLoaded(w.ChunkAt(goal.Point)) {
		n.mu.Unlock()
		return false
	}

	pos := n.agent.Position()
	n.minDistance = goal.MinDistance
	if model.Distance(pos, goal.Point) < goal.MinDistance {
		n.clearLocked()
		n.mu.Unlock()
		if goal.OnComplete != nil {
			goal.OnComplete()
		}
		return false
	}

	if n.path != nil {
		n.path.Terminate()
	}

	n.path = n.generator.Generate(w, pos, goal.Point, Request{
		CloseDistance: goal.MinDistance,
		MaxDistance:   goal.MaxDistance,
		Variance:      goal.Variance,
		BoundingBox:   n.agent.BoundingBox(),
		Capabilities:  goal.Capabilities,
		OnComplete:    goal.OnComplete,
	})
	n.hasGoal = n.path != nil
	n.goal = goal.Point
	ok := n.hasGoal
	n.mu.Unlock()

	return ok
}

// Reset cancels the active path and clears the goal.
func (n *Navigator) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clearLocked()
}

func (n *Navigator) clearLocked() {
	if n.path != nil {
		n.path.Terminate()
	}
	n.path = nil
	n.hasGoal = false
}

// Tick advances the agent one simulation step along its path.
func (n *Navigator) Tick() {
	n.mu.Lock()
	completed := n.tickLocked()
	n.mu.Unlock()

	if completed != nil {
		completed.runComplete()
	}
}

// tickLocked returns the path whose completion callback must run once the lock is released.
func (n *Navigator) tickLocked() *Path {
	if !n.hasGoal || n.path == nil {
		return nil
	}
	if n.agent.Dead() {
		return nil
	}

	path := n.path
	pos := n.agent.Position()

	if path.State() == StateComputed {
		path.consume(model.BlockOf(pos))
	}
	if path.State() != StateFollowing {
		return nil
	}

	if model.Distance(pos, n.goal) < n.minDistance {
		path.markCompleted()
		n.path = nil
		n.hasGoal = false
		return path
	}

	target := path.Current()
	if target == nil || target.typ == NodeRepath {
		n.regenerateLocked(path, pos)
		return nil
	}

	caps := path.request.Capabilities
	n.moveTowards(target.point, n.speed, caps)

	pos = n.agent.Position()
	climbing := target.typ == NodeJump || target.point[1] > pos[1]+ClimbThreshold
	if climbing && n.agent.OnGround() && caps.CanJump {
		n.jump(n.jumpHeight)
	}

	if model.SameBlock(pos, target.point) {
		path.Advance()
	}
	return nil
}

// regenerateLocked replaces an exhausted partial path with a fresh search using the same request.
func (n *Navigator) regenerateLocked(old *Path, pos mgl64.Vec3) {
	old.Terminate()

	w := n.agent.World()
	if w == nil {
		n.path = nil
		n.hasGoal = false
		return
	}

	n.path = n.generator.Generate(w, pos, n.goal, old.request)
	if n.path == nil {
		slog.Debug("path regeneration found no ground", "position", pos, "goal", n.goal)
		n.hasGoal = false
	}
}

// MoveTowards displaces the agent toward target by up to speed blocks through the collider
// and turns it to face the direction of travel. Gravity is left to the agent; no jump is attempted.
func (n *Navigator) MoveTowards(target mgl64.Vec3, speed float64, caps model.Capabilities) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.moveTowards(target, speed, caps)
}

func (n *Navigator) moveTowards(target mgl64.Vec3, speed float64, caps model.Capabilities) {
	pos := n.agent.Position()
	d := target.Sub(pos)
	dx, dy, dz := d[0], d[1], d[2]

	// Slow down on arrival so the agent does not oscillate around the target.
	if distSquared := d.LenSqr(); speed > distSquared {
		speed = distSquared
	}

	w := n.agent.World()
	inLiquid := false
	if w != nil && w.IsLiquid(model.BlockOf(pos)) {
		speed *= caps.SwimSpeedModifier
		inLiquid = true
	}

	theta := math.Atan2(dz, dx)
	delta := mgl64.Vec3{math.Cos(theta) * speed, 0, math.Sin(theta) * speed}
	if caps.MovesVertically(inLiquid) {
		delta[1] = sign(dy) * VerticalSteerFactor * speed
	}

	next := pos.Add(delta)
	if w != nil && n.collider != nil {
		next = n.collider.Resolve(w, n.agent.BoundingBox(), pos, delta).Position
	}

	n.agent.SetPosition(next)
	n.agent.SetView(model.LookYaw(dx, dz), model.LookPitch(dx, dy, dz))
}

// Jump sets the agent's vertical velocity for a jump of the given height.
func (n *Navigator) Jump(height float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.jump(height)
}

func (n *Navigator) jump(height float64) {
	n.agent.SetVelocity(mgl64.Vec3{0, height * JumpVelocityScale, 0})
}

// State returns the active path state, or StateNone without a path.
func (n *Navigator) State() PathState {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.path == nil {
		return StateNone
	}
	return n.path.State()
}

// IsComplete reports whether there is nothing left to navigate to.
func (n *Navigator) IsComplete() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.path == nil || !n.hasGoal {
		return true
	}
	return model.SameBlock(n.agent.Position(), n.goal)
}

// GoalPosition returns the current goal. ok is false without one.
func (n *Navigator) GoalPosition() (goal mgl64.Vec3, ok bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.goal, n.hasGoal
}

// Nodes returns the active path's published nodes, or nil.
func (n *Navigator) Nodes() []*Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.path == nil {
		return nil
	}
	return n.path.Nodes()
}

// CurrentPath returns the active path, or nil.
func (n *Navigator) CurrentPath() *Path {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

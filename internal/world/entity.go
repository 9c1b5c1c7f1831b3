package world

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/udisondev/voxnav/internal/model"
)

// Physics constants for simulated entities (velocity in blocks per second).
const (
	TicksPerSecond = 20
	Gravity        = 32.0 // blocks/s²
	LiquidGravity  = 4.0
	GroundDrag     = 0.6
	AirDrag        = 0.91
)

// Entity is a simulated agent living in a Voxel world.
// All accessors are safe for concurrent use.
type Entity struct {
	id   uuid.UUID
	name string
	bb   model.BoundingBox

	mu       sync.RWMutex
	world    *Voxel
	position mgl64.Vec3
	velocity mgl64.Vec3
	yaw      float64
	pitch    float64
	onGround bool
	dead     bool
	speed    float64
}

// NewEntity creates an entity with the given footprint and base movement speed.
func NewEntity(id uuid.UUID, name string, bb model.BoundingBox, speed float64) *Entity {
	return &Entity{
		id:    id,
		name:  name,
		bb:    bb,
		speed: speed,
	}
}

// ID returns the entity id (immutable after creation).
func (e *Entity) ID() uuid.UUID {
	return e.id
}

// Name returns the entity name.
func (e *Entity) Name() string {
	return e.name
}

// Spawn places the entity into w at pos.
func (e *Entity) Spawn(w *Voxel, pos mgl64.Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.world = w
	e.position = pos
	e.velocity = mgl64.Vec3{}
	e.onGround = false
}

// World returns the world the entity is in, or nil.
func (e *Entity) World() model.World {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.world == nil {
		return nil
	}
	return e.world
}

// Position returns the bottom center of the entity.
func (e *Entity) Position() mgl64.Vec3 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.position
}

// SetPosition teleports the entity.
func (e *Entity) SetPosition(pos mgl64.Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.position = pos
}

// Velocity returns the current velocity.
func (e *Entity) Velocity() mgl64.Vec3 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.velocity
}

// SetVelocity replaces the current velocity.
func (e *Entity) SetVelocity(v mgl64.Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.velocity = v
}

// View returns yaw and pitch in degrees.
func (e *Entity) View() (yaw, pitch float64) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.yaw, e.pitch
}

// SetView sets yaw and pitch in degrees.
func (e *Entity) SetView(yaw, pitch float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.yaw = yaw
	e.pitch = pitch
}

// OnGround reports whether the entity rested on a solid block after its last physics step.
func (e *Entity) OnGround() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.onGround
}

// BoundingBox returns the entity footprint.
func (e *Entity) BoundingBox() model.BoundingBox {
	return e.bb
}

// MovementSpeed returns the base movement speed in blocks per tick.
func (e *Entity) MovementSpeed() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.speed
}

// Dead reports whether the entity is dead.
func (e *Entity) Dead() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dead
}

// SetDead marks the entity dead or alive.
func (e *Entity) SetDead(dead bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dead = dead
}

// Tick applies gravity and velocity for one simulation tick.
func (e *Entity) Tick(c model.Collider) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.world == nil || e.dead {
		return
	}

	inLiquid := e.world.IsLiquid(model.BlockOf(e.position))
	gravity := Gravity
	if inLiquid {
		gravity = LiquidGravity
	}

	v := e.velocity
	v[1] -= gravity / TicksPerSecond
	delta := v.Mul(1.0 / TicksPerSecond)

	res := c.Resolve(e.world, e.bb, e.position, delta)
	e.position = res.Position

	if res.CollisionY {
		e.onGround = v[1] < 0
		v[1] = 0
	} else {
		e.onGround = false
	}
	if res.CollisionX {
		v[0] = 0
	}
	if res.CollisionZ {
		v[2] = 0
	}

	drag := AirDrag
	if e.onGround {
		drag = GroundDrag
	}
	v[0] *= drag
	v[2] *= drag
	e.velocity = v
}

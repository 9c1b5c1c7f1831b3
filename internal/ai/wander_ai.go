package ai

import (
	"math/rand/v2"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/voxnav/internal/model"
	"github.com/udisondev/voxnav/internal/pathfinding"
	"github.com/udisondev/voxnav/internal/world"
)

// Wander constants.
const (
	randomWalkRate = 30 // 1/30 chance of picking a new goal per idle tick
	retryCooldown  = 20 // ticks to wait after a goal could not be scheduled
)

// WanderAI walks an entity to random points around its home.
type WanderAI struct {
	*NavigatorAI

	home   mgl64.Vec3
	radius int

	cooldown atomic.Int32
	rng      func(n int) int // rand.IntN, replaceable in tests
}

// NewWanderAI creates a wandering AI that keeps within radius blocks of home.
func NewWanderAI(entity *world.Entity, nav *pathfinding.Navigator, collider model.Collider, params GoalParams, home mgl64.Vec3, radius int) *WanderAI {
	return &WanderAI{
		NavigatorAI: NewNavigatorAI(entity, nav, collider, params),
		home:        home,
		radius:      max(radius, 1),
		rng:         rand.IntN,
	}
}

// Home returns the point the entity wanders around.
func (ai *WanderAI) Home() mgl64.Vec3 {
	return ai.home
}

// Tick performs AI tick: navigation first, then maybe a new goal.
func (ai *WanderAI) Tick() {
	ai.NavigatorAI.Tick()

	if !ai.isRunning.Load() || ai.entity.Dead() {
		return
	}
	if ai.CurrentIntention() != model.IntentionActive {
		return
	}
	if ai.cooldown.Load() > 0 {
		ai.cooldown.Add(-1)
		return
	}
	ai.tryRandomWalk()
}

// tryRandomWalk picks a random point near home with 1/randomWalkRate chance.
func (ai *WanderAI) tryRandomWalk() {
	if ai.rng(randomWalkRate) != 0 {
		return
	}

	dx := ai.rng(ai.radius*2+1) - ai.radius
	dz := ai.rng(ai.radius*2+1) - ai.radius
	target := ai.home.Add(mgl64.Vec3{float64(dx), 0, float64(dz)})

	if !ai.MoveTo(target) && ai.CurrentIntention() == model.IntentionActive {
		ai.cooldown.Store(retryCooldown)
	}
}

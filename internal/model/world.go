package model

import "github.com/go-gl/mathgl/mgl64"

// World is the block query surface the navigation core reads.
// Implementations must be safe for concurrent reads: searches run on background goroutines.
type World interface {
	// ChunkAt returns the chunk containing pos, or nil if the chunk does not exist.
	ChunkAt(pos mgl64.Vec3) Chunk
	// IsSolid reports whether the block blocks movement. Only the block type is consulted.
	IsSolid(pos BlockPos) bool
	// IsLiquid reports whether the block is a liquid.
	IsLiquid(pos BlockPos) bool
	// Border returns the world border.
	Border() Border
}

// Chunk is a unit of world storage that can be loaded or not.
type Chunk interface {
	Loaded() bool
}

// Border bounds the playable area of a world.
type Border interface {
	Contains(pos mgl64.Vec3) bool
}

// PhysicsResult is the outcome of moving a box through the world.
type PhysicsResult struct {
	Position   mgl64.Vec3
	CollisionX bool
	CollisionY bool
	CollisionZ bool
}

// Collided reports whether movement was blocked on any axis.
func (r PhysicsResult) Collided() bool {
	return r.CollisionX || r.CollisionY || r.CollisionZ
}

// Collider moves a box through a world without passing through solid blocks.
type Collider interface {
	Resolve(w World, bb BoundingBox, start, delta mgl64.Vec3) PhysicsResult
}

// ChunkLoaded reports whether c is non-nil and loaded.
func ChunkLoaded(c Chunk) bool {
	return c != nil && c.Loaded()
}

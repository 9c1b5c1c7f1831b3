package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BlockPos is a block-quantized position in the voxel grid.
// Value type, passed by value (immutable).
type BlockPos struct {
	X int32
	Y int32
	Z int32
}

// BlockOf truncates a world position to the block containing it.
func BlockOf(pos mgl64.Vec3) BlockPos {
	return BlockPos{
		X: int32(math.Floor(pos[0])),
		Y: int32(math.Floor(pos[1])),
		Z: int32(math.Floor(pos[2])),
	}
}

// Add returns the block offset by (dx, dy, dz).
func (b BlockPos) Add(dx, dy, dz int32) BlockPos {
	return BlockPos{X: b.X + dx, Y: b.Y + dy, Z: b.Z + dz}
}

// Vec returns the minimum corner of the block in world space.
func (b BlockPos) Vec() mgl64.Vec3 {
	return mgl64.Vec3{float64(b.X), float64(b.Y), float64(b.Z)}
}

// Center returns the bottom center of the block, where an agent standing on the block below would be.
func (b BlockPos) Center() mgl64.Vec3 {
	return mgl64.Vec3{float64(b.X) + 0.5, float64(b.Y), float64(b.Z) + 0.5}
}

// SameBlock reports whether two world positions fall into the same block.
func SameBlock(a, b mgl64.Vec3) bool {
	return BlockOf(a) == BlockOf(b)
}

// Distance returns the euclidean distance between two points.
func Distance(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}

// DistanceSquared returns the squared distance (no sqrt, for hot paths).
func DistanceSquared(a, b mgl64.Vec3) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// overlapEpsilon keeps boxes resting exactly on a block face from counting as inside it.
const overlapEpsilon = 1e-7

// BoundingBox is an agent footprint centered horizontally on its position.
// The position is the bottom center of the box.
type BoundingBox struct {
	Width  float64
	Height float64
	Depth  float64
}

// NewBoundingBox creates a footprint with the given dimensions.
func NewBoundingBox(width, height, depth float64) BoundingBox {
	return BoundingBox{Width: width, Height: height, Depth: depth}
}

// Min returns the minimum corner of the box placed at pos.
func (bb BoundingBox) Min(pos mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{pos[0] - bb.Width/2, pos[1], pos[2] - bb.Depth/2}
}

// Max returns the maximum corner of the box placed at pos.
func (bb BoundingBox) Max(pos mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{pos[0] + bb.Width/2, pos[1] + bb.Height, pos[2] + bb.Depth/2}
}

// CenterToCorner returns half of the horizontal diagonal.
func (bb BoundingBox) CenterToCorner() float64 {
	return math.Sqrt(bb.Width*bb.Width+bb.Depth*bb.Depth) / 2
}

// ForEachBlock calls fn for every block the box overlaps when placed at pos.
// Iteration stops when fn returns false.
func (bb BoundingBox) ForEachBlock(pos mgl64.Vec3, fn func(BlockPos) bool) {
	lo := bb.Min(pos)
	hi := bb.Max(pos)
	minX, maxX := BlockSpan(lo[0], hi[0])
	minY, maxY := BlockSpan(lo[1], hi[1])
	minZ, maxZ := BlockSpan(lo[2], hi[2])

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				if !fn(BlockPos{X: x, Y: y, Z: z}) {
					return
				}
			}
		}
	}
}

// ForEachBlockBelow calls fn for every block of the horizontal layer at y under the footprint.
func (bb BoundingBox) ForEachBlockBelow(pos mgl64.Vec3, y int32, fn func(BlockPos) bool) {
	lo := bb.Min(pos)
	hi := bb.Max(pos)
	minX, maxX := BlockSpan(lo[0], hi[0])
	minZ, maxZ := BlockSpan(lo[2], hi[2])

	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			if !fn(BlockPos{X: x, Y: y, Z: z}) {
				return
			}
		}
	}
}

// BlockSpan returns the inclusive block range covered by [lo, hi).
func BlockSpan(lo, hi float64) (int32, int32) {
	first := int32(math.Floor(lo + overlapEpsilon))
	last := int32(math.Floor(hi - overlapEpsilon))
	if last < first {
		last = first
	}
	return first, last
}

package world

import "github.com/udisondev/voxnav/internal/model"

// Flat terrain layout: a stone floor at FloorY so agents stand at y=0, with chunks
// loaded from FlatDepth up to FlatCeiling.
const (
	FloorY      = -1
	FlatDepth   = -16
	FlatCeiling = 31
)

// NewFlat builds a fully loaded world with a stone floor spanning x, z in [-size, size].
func NewFlat(border Border, size int32) *Voxel {
	w := NewVoxel(border)
	w.LoadArea(model.BlockPos{X: -size, Y: FlatDepth, Z: -size}, model.BlockPos{X: size, Y: FlatCeiling, Z: size})
	w.Fill(model.BlockPos{X: -size, Y: FloorY, Z: -size}, model.BlockPos{X: size, Y: FloorY, Z: size}, BlockStone)
	return w
}

// ScatterObstacles places count random stone walls and water pools on a flat world.
// A clear square of radius keepClear around the origin is left untouched.
// rng(n) must return a value in [0, n).
func ScatterObstacles(w *Voxel, size int32, count int, keepClear int32, rng func(n int) int) int {
	placed := 0
	for attempts := 0; placed < count && attempts < count*4; attempts++ {
		x := int32(rng(int(2*size+1))) - size
		z := int32(rng(int(2*size+1))) - size
		length := int32(rng(6)) + 2
		height := int32(rng(3)) + 1

		dx, dz := length-1, int32(0)
		if rng(2) == 0 {
			dx, dz = 0, length-1
		}
		lo := model.BlockPos{X: x, Y: 0, Z: z}
		hi := model.BlockPos{X: min(x+dx, size), Y: height - 1, Z: min(z+dz, size)}
		if overlaps(lo, hi, keepClear) {
			continue
		}

		if rng(5) == 0 {
			// Shallow pool sunk into the floor.
			w.Fill(model.BlockPos{X: lo.X, Y: FloorY, Z: lo.Z}, model.BlockPos{X: hi.X, Y: FloorY, Z: hi.Z}, BlockWater)
			w.Fill(model.BlockPos{X: lo.X, Y: FloorY - 1, Z: lo.Z}, model.BlockPos{X: hi.X, Y: FloorY - 1, Z: hi.Z}, BlockStone)
		} else {
			w.Fill(lo, hi, BlockStone)
		}
		placed++
	}
	return placed
}

func overlaps(lo, hi model.BlockPos, r int32) bool {
	return lo.X <= r && hi.X >= -r && lo.Z <= r && hi.Z >= -r
}

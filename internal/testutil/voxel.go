package testutil

import (
	"github.com/udisondev/voxnav/internal/model"
	"github.com/udisondev/voxnav/internal/world"
)

// FlatWorld builds an unbounded, fully loaded world with a stone floor
// whose walkable surface is y=0 over x, z in [-size, size].
func FlatWorld(size int32) *world.Voxel {
	return world.NewFlat(world.Border{}, size)
}

// Wall fills the inclusive box [from, to] with stone.
func Wall(w *world.Voxel, from, to model.BlockPos) {
	w.Fill(from, to, world.BlockStone)
}

// Pit removes the floor under the inclusive x/z rectangle [from, to], leaving no ground below.
func Pit(w *world.Voxel, from, to model.BlockPos) {
	w.Fill(
		model.BlockPos{X: from.X, Y: -1, Z: from.Z},
		model.BlockPos{X: to.X, Y: -1, Z: to.Z},
		world.BlockAir,
	)
}

// Shell builds a sealed stone box with outer corners from and to and a hollow interior.
func Shell(w *world.Voxel, from, to model.BlockPos) {
	w.Fill(from, to, world.BlockStone)
	w.Fill(
		model.BlockPos{X: from.X + 1, Y: from.Y, Z: from.Z + 1},
		model.BlockPos{X: to.X - 1, Y: to.Y - 1, Z: to.Z - 1},
		world.BlockAir,
	)
}

// AgentBox is the footprint used by test agents.
func AgentBox() model.BoundingBox {
	return model.NewBoundingBox(0.6, 1.8, 0.6)
}

package world

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/voxnav/internal/model"
)

func TestNewFlat(t *testing.T) {
	w := NewFlat(Border{Radius: 10}, 4)

	assert.True(t, w.IsSolid(model.BlockPos{X: -4, Y: FloorY, Z: 4}))
	assert.False(t, w.IsSolid(model.BlockPos{X: 0, Y: 0, Z: 0}))
	assert.False(t, w.IsSolid(model.BlockPos{X: 5, Y: FloorY, Z: 0}))
	assert.Equal(t, 10.0, w.Border().(Border).Radius)

	// x, z chunks -1..0, y chunks -1..1
	assert.Equal(t, 2*3*2, w.ChunkCount())
}

func TestScatterObstacles(t *testing.T) {
	w := NewFlat(Border{}, 24)
	rng := rand.New(rand.NewPCG(1, 2))

	placed := ScatterObstacles(w, 24, 20, 3, rng.IntN)
	assert.Positive(t, placed)
	assert.LessOrEqual(t, placed, 20)

	for x := int32(-3); x <= 3; x++ {
		for z := int32(-3); z <= 3; z++ {
			assert.Equal(t, BlockAir, w.Block(model.BlockPos{X: x, Y: 0, Z: z}), "clear zone at %d,%d", x, z)
			assert.Equal(t, BlockStone, w.Block(model.BlockPos{X: x, Y: FloorY, Z: z}), "floor at %d,%d", x, z)
		}
	}

	solid := 0
	w.ForEachBlock(func(pos model.BlockPos, b Block) bool {
		if pos.Y >= 0 && b == BlockStone {
			solid++
		}
		return true
	})
	assert.Positive(t, solid)
}

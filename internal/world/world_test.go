package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/voxnav/internal/model"
)

func TestChunkOf(t *testing.T) {
	tests := []struct {
		block model.BlockPos
		want  ChunkPos
	}{
		{model.BlockPos{X: 0, Y: 0, Z: 0}, ChunkPos{0, 0, 0}},
		{model.BlockPos{X: 15, Y: 15, Z: 15}, ChunkPos{0, 0, 0}},
		{model.BlockPos{X: 16, Y: 0, Z: 31}, ChunkPos{1, 0, 1}},
		{model.BlockPos{X: -1, Y: -16, Z: -17}, ChunkPos{-1, -1, -2}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ChunkOf(tt.block), "ChunkOf(%v)", tt.block)
	}
}

func TestLocalIndexUnique(t *testing.T) {
	seen := make(map[int]bool, ChunkVolume)
	origin := ChunkPos{X: -2, Y: 1, Z: 3}.Origin()
	for x := int32(0); x < ChunkSize; x++ {
		for y := int32(0); y < ChunkSize; y++ {
			for z := int32(0); z < ChunkSize; z++ {
				idx := localIndex(origin.Add(x, y, z))
				require.False(t, seen[idx], "duplicate index %d", idx)
				seen[idx] = true
			}
		}
	}
	assert.Len(t, seen, ChunkVolume)
}

func TestVoxel_SetBlock(t *testing.T) {
	w := NewVoxel(Border{})

	pos := model.BlockPos{X: -5, Y: 3, Z: 20}
	assert.Equal(t, BlockAir, w.Block(pos))

	w.SetBlock(pos, BlockStone)
	assert.Equal(t, BlockStone, w.Block(pos))
	assert.True(t, w.IsSolid(pos))
	assert.False(t, w.IsLiquid(pos))

	w.SetBlock(pos, BlockWater)
	assert.False(t, w.IsSolid(pos))
	assert.True(t, w.IsLiquid(pos))
}

func TestVoxel_Fill(t *testing.T) {
	w := NewVoxel(Border{})
	w.Fill(model.BlockPos{X: -20, Y: -1, Z: -20}, model.BlockPos{X: 20, Y: -1, Z: 20}, BlockStone)

	assert.True(t, w.IsSolid(model.BlockPos{X: -20, Y: -1, Z: 20}))
	assert.True(t, w.IsSolid(model.BlockPos{X: 7, Y: -1, Z: -3}))
	assert.False(t, w.IsSolid(model.BlockPos{X: 7, Y: 0, Z: -3}))
	assert.False(t, w.IsSolid(model.BlockPos{X: 21, Y: -1, Z: 0}))
}

func TestVoxel_ChunkAt(t *testing.T) {
	w := NewVoxel(Border{})

	assert.Nil(t, w.ChunkAt(mgl64.Vec3{0, 0, 0}), "missing chunk must be untyped nil")
	assert.False(t, model.ChunkLoaded(w.ChunkAt(mgl64.Vec3{0, 0, 0})))

	w.LoadChunk(ChunkPos{0, 0, 0})
	c := w.ChunkAt(mgl64.Vec3{3.5, 2, 15.9})
	require.NotNil(t, c)
	assert.True(t, c.Loaded())

	w.UnloadChunk(ChunkPos{0, 0, 0})
	assert.False(t, c.Loaded())
	assert.False(t, model.ChunkLoaded(w.ChunkAt(mgl64.Vec3{1, 1, 1})))

	w.LoadChunk(ChunkPos{0, 0, 0})
	assert.True(t, c.Loaded())
}

func TestVoxel_LoadArea(t *testing.T) {
	w := NewVoxel(Border{})
	w.LoadArea(model.BlockPos{X: -1, Y: -1, Z: -1}, model.BlockPos{X: 16, Y: 0, Z: 0})

	// x: chunks -1..1, y: -1..0, z: -1..0
	assert.Equal(t, 12, w.ChunkCount())
}

func TestBorder_Contains(t *testing.T) {
	b := Border{CenterX: 10, CenterZ: -10, Radius: 5}

	assert.True(t, b.Contains(mgl64.Vec3{10, 100, -10}))
	assert.True(t, b.Contains(mgl64.Vec3{15, 0, -5}))
	assert.False(t, b.Contains(mgl64.Vec3{15.1, 0, -10}))
	assert.False(t, b.Contains(mgl64.Vec3{10, 0, -16}))

	assert.True(t, Border{}.Contains(mgl64.Vec3{1e9, 0, -1e9}), "zero radius is unbounded")
}

func TestBlock_Parse(t *testing.T) {
	for _, b := range []Block{BlockAir, BlockStone, BlockDirt, BlockWater, BlockLava} {
		assert.Equal(t, b, ParseBlock(b.String()))
	}
	assert.Equal(t, BlockAir, ParseBlock("bedrock"))
}

func TestVoxel_ForEachBlock(t *testing.T) {
	w := NewVoxel(Border{})
	placed := map[model.BlockPos]Block{
		{X: 0, Y: 0, Z: 0}:     BlockStone,
		{X: 15, Y: 3, Z: 7}:    BlockDirt,
		{X: -1, Y: -17, Z: 20}: BlockWater,
		{X: 33, Y: 40, Z: -9}:  BlockLava,
	}
	for pos, b := range placed {
		w.SetBlock(pos, b)
	}
	w.SetBlock(model.BlockPos{X: 1, Y: 1, Z: 1}, BlockAir)

	got := make(map[model.BlockPos]Block)
	w.ForEachBlock(func(pos model.BlockPos, b Block) bool {
		got[pos] = b
		return true
	})
	assert.Equal(t, placed, got)

	visited := 0
	w.ForEachBlock(func(model.BlockPos, Block) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited, "returning false stops iteration")
}

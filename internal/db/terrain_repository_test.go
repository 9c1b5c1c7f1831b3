package db

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/voxnav/internal/model"
	"github.com/udisondev/voxnav/internal/testutil"
	"github.com/udisondev/voxnav/internal/world"
)

func TestTerrainRepository_SaveAndLoad(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewTerrainRepository(pool)
	ctx := t.Context()

	src := testutil.FlatWorld(8)
	testutil.Wall(src, model.BlockPos{X: 2, Y: 0, Z: -2}, model.BlockPos{X: 2, Y: 1, Z: 2})
	src.SetBlock(model.BlockPos{X: -3, Y: 0, Z: -3}, world.BlockWater)

	saved, err := repo.Save(ctx, src)
	require.NoError(t, err)

	// 17x17 floor + 2x5 wall + 1 water
	assert.Equal(t, 17*17+10+1, saved)

	dst := world.NewVoxel(world.Border{})
	loaded, err := repo.LoadInto(ctx, dst)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	assert.Equal(t, world.BlockStone, dst.Block(model.BlockPos{X: 0, Y: -1, Z: 0}))
	assert.Equal(t, world.BlockStone, dst.Block(model.BlockPos{X: 2, Y: 1, Z: 2}))
	assert.Equal(t, world.BlockWater, dst.Block(model.BlockPos{X: -3, Y: 0, Z: -3}))
	assert.Equal(t, world.BlockAir, dst.Block(model.BlockPos{X: 0, Y: 0, Z: 0}))

	// Standing positions above the terrain must be in loaded chunks.
	assert.True(t, model.ChunkLoaded(dst.ChunkAt(mgl64.Vec3{0.5, 3, 0.5})))
}

func TestTerrainRepository_SaveReplaces(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewTerrainRepository(pool)
	ctx := t.Context()

	_, err := repo.Save(ctx, testutil.FlatWorld(8))
	require.NoError(t, err)

	small := testutil.FlatWorld(2)
	n, err := repo.Save(ctx, small)
	require.NoError(t, err)
	assert.Equal(t, 5*5, n)

	rows, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 5*5)
}

func TestTerrainRepository_LoadEmpty(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewTerrainRepository(pool)

	w := world.NewVoxel(world.Border{})
	n, err := repo.LoadInto(t.Context(), w)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, w.ChunkCount())
}

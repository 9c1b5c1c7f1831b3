package db

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnRepository_CRUD(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewSpawnRepository(pool)
	ctx := t.Context()

	created, err := repo.Create(ctx, Spawn{
		Name:         "scout",
		Position:     mgl64.Vec3{4.5, 0, -2.5},
		WanderRadius: 8,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	got, err := repo.LoadByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	fixed := uuid.New()
	_, err = repo.Create(ctx, Spawn{ID: fixed, Name: "guard", Position: mgl64.Vec3{0.5, 0, 0.5}, WanderRadius: 4})
	require.NoError(t, err)

	all, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "scout", all[0].Name)
	assert.Equal(t, fixed, all[1].ID)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.LoadByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrSpawnNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrSpawnNotFound)
}

func TestSpawnRepository_LoadAllEmpty(t *testing.T) {
	pool := setupTestDB(t)

	spawns, err := NewSpawnRepository(pool).LoadAll(t.Context())
	require.NoError(t, err)
	assert.Empty(t, spawns)
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/voxnav/internal/config"
	"github.com/udisondev/voxnav/internal/model"
	"github.com/udisondev/voxnav/internal/spawn"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), "parseLogLevel(%q)", in)
	}
}

func TestBuildWorld_Flat(t *testing.T) {
	cfg := config.DefaultNavSim()
	cfg.World.FlatSize = 16
	cfg.World.Obstacles = 6
	cfg.World.BorderRadius = 20

	w, err := buildWorld(t.Context(), cfg, nil, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)

	assert.True(t, w.IsSolid(model.BlockPos{X: 16, Y: -1, Z: -16}))
	for x := int32(-spawnClearance); x <= spawnClearance; x++ {
		assert.False(t, w.IsSolid(model.BlockPos{X: x, Y: 0, Z: 0}))
	}
}

type stubRepo struct {
	points []spawn.Point
	err    error
	calls  int
}

func (r *stubRepo) LoadAll(context.Context) ([]spawn.Point, error) {
	r.calls++
	return r.points, r.err
}

func TestFallbackRepo(t *testing.T) {
	stored := []spawn.Point{{Name: "stored"}}
	random := []spawn.Point{{Name: "random"}}

	t.Run("primary wins", func(t *testing.T) {
		fb := &stubRepo{points: random}
		got, err := fallbackRepo{primary: &stubRepo{points: stored}, fallback: fb}.LoadAll(t.Context())
		require.NoError(t, err)
		assert.Equal(t, stored, got)
		assert.Zero(t, fb.calls)
	})

	t.Run("empty primary falls back", func(t *testing.T) {
		got, err := fallbackRepo{primary: &stubRepo{}, fallback: &stubRepo{points: random}}.LoadAll(t.Context())
		require.NoError(t, err)
		assert.Equal(t, random, got)
	})

	t.Run("primary error", func(t *testing.T) {
		boom := errors.New("boom")
		fb := &stubRepo{points: random}
		_, err := fallbackRepo{primary: &stubRepo{err: boom}, fallback: fb}.LoadAll(t.Context())
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, fb.calls)
	})
}

func TestSpawnRadius(t *testing.T) {
	cfg := config.DefaultNavSim()
	cfg.World.FlatSize = 64
	cfg.World.BorderRadius = 20
	assert.Equal(t, int32(20), spawnRadius(cfg))

	cfg.World.BorderRadius = 0
	assert.Equal(t, int32(64), spawnRadius(cfg))
}

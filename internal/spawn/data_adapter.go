package spawn

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/udisondev/voxnav/internal/db"
	"github.com/udisondev/voxnav/internal/model"
	"github.com/udisondev/voxnav/internal/world"
)

// DBSpawnRepo implements SpawnRepository on top of the agent_spawns table.
type DBSpawnRepo struct {
	repo *db.SpawnRepository
}

// NewDBSpawnRepo creates a DBSpawnRepo adapter.
func NewDBSpawnRepo(repo *db.SpawnRepository) *DBSpawnRepo {
	return &DBSpawnRepo{repo: repo}
}

// LoadAll loads all spawns from the database.
func (r *DBSpawnRepo) LoadAll(ctx context.Context) ([]Point, error) {
	rows, err := r.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(rows))
	for _, row := range rows {
		points = append(points, Point{
			ID:           row.ID,
			Name:         row.Name,
			Position:     row.Position,
			WanderRadius: row.WanderRadius,
		})
	}
	return points, nil
}

// surfaceScan bounds the column searched for standing room.
const (
	surfaceTop    = 48
	surfaceBottom = -16
)

// RandomSpawnRepo places spawn points on the surface of a world.
type RandomSpawnRepo struct {
	world        *world.Voxel
	count        int
	radius       int32
	wanderRadius int
	clearance    int32 // air blocks required above the surface
	rng          func(n int) int
}

// NewRandomSpawnRepo creates count spawn points within radius blocks of the origin.
// rng(n) returns a value in [0, n); nil uses math/rand.
func NewRandomSpawnRepo(w *world.Voxel, count int, radius int32, wanderRadius int, bb model.BoundingBox, rng func(n int) int) *RandomSpawnRepo {
	if rng == nil {
		rng = rand.IntN
	}
	return &RandomSpawnRepo{
		world:        w,
		count:        count,
		radius:       max(radius, 1),
		wanderRadius: wanderRadius,
		clearance:    max(int32(math.Ceil(bb.Height)), 1),
		rng:          rng,
	}
}

// LoadAll generates the spawn points. Columns without standing room are retried a bounded number of times.
func (r *RandomSpawnRepo) LoadAll(_ context.Context) ([]Point, error) {
	points := make([]Point, 0, r.count)
	for attempts := 0; len(points) < r.count && attempts < r.count*10; attempts++ {
		x := int32(r.rng(int(2*r.radius+1))) - r.radius
		z := int32(r.rng(int(2*r.radius+1))) - r.radius

		y, ok := Surface(r.world, x, z, r.clearance)
		if !ok {
			continue
		}
		points = append(points, Point{
			ID:           uuid.New(),
			Name:         fmt.Sprintf("agent-%d", len(points)),
			Position:     mgl64.Vec3{float64(x) + 0.5, float64(y), float64(z) + 0.5},
			WanderRadius: r.wanderRadius,
		})
	}

	if len(points) < r.count {
		return points, fmt.Errorf("placed %d of %d random spawns", len(points), r.count)
	}
	return points, nil
}

// Surface returns the highest standing height in column x, z: the first y, scanning down,
// that sits on a solid block under clearance non-solid blocks. ok is false if none exists.
func Surface(w *world.Voxel, x, z int32, clearance int32) (int32, bool) {
	free := int32(0)
	for y := int32(surfaceTop); y >= surfaceBottom; y-- {
		pos := model.BlockPos{X: x, Y: y, Z: z}
		if !w.IsSolid(pos) {
			free++
			continue
		}
		if free >= clearance && !w.IsLiquid(pos.Add(0, 1, 0)) {
			return y + 1, true
		}
		free = 0
	}
	return 0, false
}

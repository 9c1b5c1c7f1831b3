package spawn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/udisondev/voxnav/internal/ai"
	"github.com/udisondev/voxnav/internal/model"
	"github.com/udisondev/voxnav/internal/pathfinding"
	"github.com/udisondev/voxnav/internal/world"
)

// VoidDepth is the height below which an agent is considered lost and is despawned.
const VoidDepth = -64

var (
	// ErrOutsideBorder is returned when a spawn point lies outside the world border.
	ErrOutsideBorder = errors.New("spawn point outside world border")
	// ErrChunkNotLoaded is returned when a spawn point lies in an unloaded chunk.
	ErrChunkNotLoaded = errors.New("spawn point chunk not loaded")
)

// Point is a place agents are spawned at.
type Point struct {
	ID           uuid.UUID
	Name         string
	Position     mgl64.Vec3
	WanderRadius int
}

// SpawnRepository interface for loading spawn points
type SpawnRepository interface {
	LoadAll(ctx context.Context) ([]Point, error)
}

// Settings are shared by every spawned agent.
type Settings struct {
	BoundingBox model.BoundingBox
	Speed       float64 // blocks per tick
	JumpHeight  float64
	Goal        ai.GoalParams
}

type agent struct {
	ai    *ai.WanderAI
	point Point
}

// Manager spawns wandering agents at spawn points and registers them with the tick manager.
type Manager struct {
	spawns    sync.Map // map[uuid.UUID]Point, spawnID → point
	agents    sync.Map // map[uuid.UUID]*agent, entityID → agent
	spawnRepo SpawnRepository
	world     *world.Voxel
	generator *pathfinding.Generator
	collider  model.Collider
	aiManager *ai.TickManager
	settings  Settings

	spawnCount atomic.Int32 // cached count of spawns (O(1) access)
	agentCount atomic.Int32
}

// NewManager creates new spawn manager
func NewManager(
	spawnRepo SpawnRepository,
	w *world.Voxel,
	generator *pathfinding.Generator,
	collider model.Collider,
	aiManager *ai.TickManager,
	settings Settings,
) *Manager {
	return &Manager{
		spawnRepo: spawnRepo,
		world:     w,
		generator: generator,
		collider:  collider,
		aiManager: aiManager,
		settings:  settings,
	}
}

// LoadSpawns loads all spawn points from the repository
func (m *Manager) LoadSpawns(ctx context.Context) error {
	points, err := m.spawnRepo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading spawns: %w", err)
	}

	count := 0
	for _, p := range points {
		if _, loaded := m.spawns.LoadOrStore(p.ID, p); !loaded {
			count++
		}
	}
	m.spawnCount.Add(int32(count))

	slog.Info("spawns loaded", "count", count)
	return nil
}

// DoSpawn spawns a wandering agent at p and starts its AI.
func (m *Manager) DoSpawn(p Point) (*ai.WanderAI, error) {
	if border := m.world.Border(); border != nil && !border.Contains(p.Position) {
		return nil, fmt.Errorf("spawn %s at %v: %w", p.ID, p.Position, ErrOutsideBorder)
	}
	if !model.ChunkLoaded(m.world.ChunkAt(p.Position)) {
		return nil, fmt.Errorf("spawn %s at %v: %w", p.ID, p.Position, ErrChunkNotLoaded)
	}

	e := world.NewEntity(uuid.New(), p.Name, m.settings.BoundingBox, m.settings.Speed)
	e.Spawn(m.world, p.Position)

	var opts []pathfinding.Option
	if m.settings.JumpHeight > 0 {
		opts = append(opts, pathfinding.WithJumpHeight(m.settings.JumpHeight))
	}
	nav := pathfinding.NewNavigator(e, m.generator, m.collider, opts...)
	wander := ai.NewWanderAI(e, nav, m.collider, m.settings.Goal, p.Position, p.WanderRadius)

	m.agents.Store(e.ID(), &agent{ai: wander, point: p})
	m.agentCount.Add(1)
	m.aiManager.Register(e.ID(), wander)

	slog.Debug("agent spawned",
		"id", e.ID(),
		"name", p.Name,
		"spawnID", p.ID,
		"position", p.Position)

	return wander, nil
}

// Despawn stops and unregisters the agent. Returns the point it was spawned at.
func (m *Manager) Despawn(id uuid.UUID) (Point, bool) {
	value, ok := m.agents.LoadAndDelete(id)
	if !ok {
		return Point{}, false
	}
	a := value.(*agent)
	m.agentCount.Add(-1)

	m.aiManager.Unregister(id)
	a.ai.Entity().SetDead(true)

	slog.Debug("agent despawned", "id", id, "name", a.point.Name, "spawnID", a.point.ID)
	return a.point, true
}

// RemoveFallen despawns agents that fell below VoidDepth and returns their spawn points.
func (m *Manager) RemoveFallen() []Point {
	var fallen []uuid.UUID
	m.agents.Range(func(key, value any) bool {
		if value.(*agent).ai.Entity().Position()[1] < VoidDepth {
			fallen = append(fallen, key.(uuid.UUID))
		}
		return true
	})

	points := make([]Point, 0, len(fallen))
	for _, id := range fallen {
		if p, ok := m.Despawn(id); ok {
			points = append(points, p)
		}
	}
	return points
}

// GetSpawn returns spawn point by ID
func (m *Manager) GetSpawn(id uuid.UUID) (Point, bool) {
	value, ok := m.spawns.Load(id)
	if !ok {
		return Point{}, false
	}
	return value.(Point), true
}

// SpawnCount returns total number of spawn points
func (m *Manager) SpawnCount() int {
	return int(m.spawnCount.Load())
}

// AgentCount returns number of live agents
func (m *Manager) AgentCount() int {
	return int(m.agentCount.Load())
}

// SpawnAll spawns one agent for every loaded spawn point
func (m *Manager) SpawnAll() error {
	count := 0
	var firstErr error

	m.spawns.Range(func(_, value any) bool {
		p := value.(Point)
		if _, err := m.DoSpawn(p); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			slog.Error("failed to spawn agent", "spawnID", p.ID, "name", p.Name, "error", err)
			return true // continue with next spawn
		}
		count++
		return true
	})

	if firstErr != nil {
		slog.Warn("SpawnAll completed with errors", "spawned", count, "error", firstErr)
		return fmt.Errorf("spawning all agents: %w", firstErr)
	}

	slog.Info("all agents spawned", "count", count)
	return nil
}

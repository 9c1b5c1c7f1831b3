package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/voxnav/internal/model"
)

// Terrain sources for the simulated world.
const (
	TerrainFlat = "flat"
	TerrainDB   = "db"
)

// NavSim holds all configuration for the navigation simulator.
type NavSim struct {
	LogLevel      string        `yaml:"log_level"`
	TickInterval  time.Duration `yaml:"tick_interval"`
	SearchWorkers int           `yaml:"search_workers"` // max concurrent path searches

	World       WorldConfig       `yaml:"world"`
	Pathfinding PathfindingConfig `yaml:"pathfinding"`
	Agents      AgentsConfig      `yaml:"agents"`
	Database    DatabaseConfig    `yaml:"database"`
	DebugView   DebugViewConfig   `yaml:"debug_view"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// WorldConfig describes the simulated world.
type WorldConfig struct {
	BorderRadius float64 `yaml:"border_radius"` // 0 = unbounded
	Terrain      string  `yaml:"terrain"`       // flat | db
	FlatSize     int32   `yaml:"flat_size"`     // half extent of the flat floor, blocks
	Obstacles    int     `yaml:"obstacles"`     // random walls on the flat floor
	Seed         uint64  `yaml:"seed"`          // obstacle and spawn layout; 0 = random
	SaveTerrain  bool    `yaml:"save_terrain"`  // store generated flat terrain in the database
}

// PathfindingConfig holds search and steering parameters.
type PathfindingConfig struct {
	MaxDistance   float64 `yaml:"max_distance"`
	Variance      float64 `yaml:"variance"`
	MovementSpeed float64 `yaml:"movement_speed"` // blocks per tick
	SwimSpeed     float64 `yaml:"swim_speed"`     // multiplier in liquids
	JumpHeight    float64 `yaml:"jump_height"`
	Type          string  `yaml:"type"` // land | aquatic | amphibious | flying
	CanJump       bool    `yaml:"can_jump"`
	CanSwim       bool    `yaml:"can_swim"`
}

// Capabilities returns the movement capabilities described by the config.
func (p PathfindingConfig) Capabilities() model.Capabilities {
	return model.Capabilities{
		Type:              model.ParsePathfinderType(p.Type),
		CanJump:           p.CanJump,
		CanSwim:           p.CanSwim,
		SwimSpeedModifier: p.SwimSpeed,
	}
}

// AgentsConfig describes spawned agents (used when terrain is flat or the spawn table is empty).
type AgentsConfig struct {
	Count        int           `yaml:"count"`
	WanderRadius int           `yaml:"wander_radius"`
	Width        float64       `yaml:"width"`
	Height       float64       `yaml:"height"`
	RespawnDelay time.Duration `yaml:"respawn_delay"` // after falling out of the world
}

// DebugViewConfig configures the websocket path viewer.
type DebugViewConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Address        string `yaml:"address"`
	BroadcastEvery int    `yaml:"broadcast_every"` // ticks
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// DefaultNavSim returns NavSim config with sensible defaults.
func DefaultNavSim() NavSim {
	return NavSim{
		LogLevel:      "info",
		TickInterval:  50 * time.Millisecond,
		SearchWorkers: runtime.NumCPU(),
		World: WorldConfig{
			BorderRadius: 128,
			Terrain:      TerrainFlat,
			FlatSize:     64,
			Obstacles:    12,
		},
		Pathfinding: PathfindingConfig{
			MaxDistance:   25,
			Variance:      5,
			MovementSpeed: 0.1,
			SwimSpeed:     0.4,
			JumpHeight:    4,
			Type:          "land",
			CanJump:       true,
			CanSwim:       true,
		},
		Agents: AgentsConfig{
			Count:        16,
			WanderRadius: 12,
			Width:        0.6,
			Height:       1.8,
			RespawnDelay: 3 * time.Second,
		},
		Database: DefaultDatabase(),
		DebugView: DebugViewConfig{
			Address:        "127.0.0.1:8090",
			BroadcastEvery: 4,
		},
		Metrics: MetricsConfig{
			Address: "127.0.0.1:9090",
		},
	}
}

// Validate checks values that would make the simulator misbehave.
func (c NavSim) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.Pathfinding.MaxDistance <= 0 {
		return fmt.Errorf("pathfinding.max_distance must be positive, got %g", c.Pathfinding.MaxDistance)
	}
	if c.Pathfinding.Variance < 0 {
		return fmt.Errorf("pathfinding.variance must not be negative, got %g", c.Pathfinding.Variance)
	}
	switch c.World.Terrain {
	case TerrainFlat:
		if c.World.FlatSize <= 0 {
			return fmt.Errorf("world.flat_size must be positive, got %d", c.World.FlatSize)
		}
	case TerrainDB:
		if !c.Database.Enabled {
			return fmt.Errorf("world.terrain %q requires database.enabled", TerrainDB)
		}
	default:
		return fmt.Errorf("unknown world.terrain %q", c.World.Terrain)
	}
	if c.Agents.Width <= 0 || c.Agents.Height <= 0 {
		return fmt.Errorf("agents.width and agents.height must be positive")
	}
	return nil
}

// LoadNavSim loads simulator config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadNavSim(path string) (NavSim, error) {
	cfg := DefaultNavSim()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

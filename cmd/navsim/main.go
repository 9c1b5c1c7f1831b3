package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/voxnav/internal/ai"
	"github.com/udisondev/voxnav/internal/config"
	"github.com/udisondev/voxnav/internal/db"
	"github.com/udisondev/voxnav/internal/debugview"
	"github.com/udisondev/voxnav/internal/model"
	"github.com/udisondev/voxnav/internal/pathfinding"
	"github.com/udisondev/voxnav/internal/spawn"
	"github.com/udisondev/voxnav/internal/world"
)

const ConfigPath = "config/navsim.yaml"

// spawnClearance keeps the world origin free of obstacles so agents always have somewhere to stand.
const spawnClearance = 3

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("VOXNAV_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadNavSim(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("voxnav simulator starting",
		"log_level", cfg.LogLevel,
		"tick_interval", cfg.TickInterval,
		"terrain", cfg.World.Terrain,
		"search_workers", cfg.SearchWorkers)

	seed := cfg.World.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	var database *db.DB
	if cfg.Database.Enabled {
		database, err = db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if _, err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
	}

	w, err := buildWorld(ctx, cfg, database, rng)
	if err != nil {
		return err
	}

	generator := pathfinding.NewGenerator(world.Physics{}, cfg.SearchWorkers)
	defer generator.Close()

	aiMgr := ai.NewTickManager(cfg.TickInterval)

	box := model.NewBoundingBox(cfg.Agents.Width, cfg.Agents.Height, cfg.Agents.Width)
	spawnMgr := spawn.NewManager(spawnSource(cfg, database, w, box, rng), w, generator, world.Physics{}, aiMgr, spawn.Settings{
		BoundingBox: box,
		Speed:       cfg.Pathfinding.MovementSpeed,
		JumpHeight:  cfg.Pathfinding.JumpHeight,
		Goal: ai.GoalParams{
			MaxDistance:  cfg.Pathfinding.MaxDistance,
			Variance:     cfg.Pathfinding.Variance,
			Capabilities: cfg.Pathfinding.Capabilities(),
		},
	})
	if err := spawnMgr.LoadSpawns(ctx); err != nil {
		return fmt.Errorf("loading spawns: %w", err)
	}
	if err := spawnMgr.SpawnAll(); err != nil {
		// Partial spawns are usable; the failures are already logged.
		slog.Warn("some agents failed to spawn", "spawned", spawnMgr.AgentCount(), "error", err)
	}

	respawnMgr := spawn.NewRespawnTaskManager(spawnMgr, cfg.Agents.RespawnDelay)
	aiMgr.OnTick(respawnMgr.OnTick)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting AI tick manager", "interval", cfg.TickInterval, "agents", aiMgr.Count())
		if err := aiMgr.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("AI tick manager: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := respawnMgr.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("respawn task manager: %w", err)
		}
		return nil
	})

	if cfg.DebugView.Enabled {
		view := debugview.NewServer(aiMgr, cfg.DebugView.BroadcastEvery)
		aiMgr.OnTick(view.OnTick)
		g.Go(func() error {
			return view.ListenAndServe(gctx, cfg.DebugView.Address)
		})
	}

	if cfg.Metrics.Enabled {
		g.Go(func() error {
			return serveMetrics(gctx, cfg.Metrics.Address)
		})
	}

	slog.Info("simulator running", "agents", spawnMgr.AgentCount(), "seed", seed)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulator error: %w", err)
	}

	slog.Info("simulator stopped", "ticks", aiMgr.Ticks())
	return nil
}

// buildWorld creates the world from the configured terrain source.
func buildWorld(ctx context.Context, cfg config.NavSim, database *db.DB, rng *rand.Rand) (*world.Voxel, error) {
	border := world.Border{Radius: cfg.World.BorderRadius}

	switch cfg.World.Terrain {
	case config.TerrainDB:
		w := world.NewVoxel(border)
		n, err := database.Terrain().LoadInto(ctx, w)
		if err != nil {
			return nil, fmt.Errorf("loading terrain: %w", err)
		}
		if n == 0 {
			return nil, errors.New("terrain table is empty")
		}
		return w, nil

	default:
		w := world.NewFlat(border, cfg.World.FlatSize)
		placed := world.ScatterObstacles(w, cfg.World.FlatSize, cfg.World.Obstacles, spawnClearance, rng.IntN)
		slog.Info("flat world generated", "size", cfg.World.FlatSize, "obstacles", placed, "chunks", w.ChunkCount())

		if database != nil && cfg.World.SaveTerrain {
			n, err := database.Terrain().Save(ctx, w)
			if err != nil {
				return nil, fmt.Errorf("saving terrain: %w", err)
			}
			slog.Info("terrain saved", "blocks", n)
		}
		return w, nil
	}
}

// spawnSource prefers stored spawn points and falls back to random ones.
func spawnSource(cfg config.NavSim, database *db.DB, w *world.Voxel, box model.BoundingBox, rng *rand.Rand) spawn.SpawnRepository {
	random := spawn.NewRandomSpawnRepo(w, cfg.Agents.Count, spawnRadius(cfg), cfg.Agents.WanderRadius, box, rng.IntN)
	if database == nil {
		return random
	}
	return fallbackRepo{primary: spawn.NewDBSpawnRepo(database.Spawns()), fallback: random}
}

func spawnRadius(cfg config.NavSim) int32 {
	r := cfg.World.FlatSize
	if cfg.World.BorderRadius > 0 {
		r = min(r, int32(cfg.World.BorderRadius))
	}
	return r
}

// fallbackRepo loads from primary, or from fallback when primary has nothing.
type fallbackRepo struct {
	primary, fallback spawn.SpawnRepository
}

func (r fallbackRepo) LoadAll(ctx context.Context) ([]spawn.Point, error) {
	points, err := r.primary.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(points) > 0 {
		return points, nil
	}
	slog.Info("no stored spawns, placing random agents")
	return r.fallback.LoadAll(ctx)
}

// serveMetrics exposes Prometheus metrics until ctx is cancelled.
func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listen on %s: %w", addr, err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("metrics listening", "address", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

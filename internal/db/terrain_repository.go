package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/voxnav/internal/model"
	"github.com/udisondev/voxnav/internal/world"
)

// headroom is how many blocks above the highest stored block get loaded chunks,
// so agents standing on top of the terrain are inside a loaded chunk.
const headroom = 4

// BlockRow is one stored non-air block.
type BlockRow struct {
	Pos   model.BlockPos
	Block world.Block
}

// TerrainRepository stores voxel terrain in PostgreSQL.
type TerrainRepository struct {
	pool *pgxpool.Pool
}

// NewTerrainRepository creates a new terrain repository
func NewTerrainRepository(pool *pgxpool.Pool) *TerrainRepository {
	return &TerrainRepository{pool: pool}
}

// LoadAll loads all stored blocks.
func (r *TerrainRepository) LoadAll(ctx context.Context) ([]BlockRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT x, y, z, block FROM terrain_blocks`)
	if err != nil {
		return nil, fmt.Errorf("loading terrain: %w", err)
	}
	defer rows.Close()

	blocks := make([]BlockRow, 0, 4096)
	for rows.Next() {
		var (
			x, y, z int32
			block   int16
		)
		if err := rows.Scan(&x, &y, &z, &block); err != nil {
			return nil, fmt.Errorf("scanning terrain row: %w", err)
		}
		blocks = append(blocks, BlockRow{
			Pos:   model.BlockPos{X: x, Y: y, Z: z},
			Block: world.Block(block),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating terrain rows: %w", err)
	}

	return blocks, nil
}

// LoadInto writes stored blocks into w and loads every chunk spanning them.
// Returns the number of blocks loaded.
func (r *TerrainRepository) LoadInto(ctx context.Context, w *world.Voxel) (int, error) {
	blocks, err := r.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(blocks) == 0 {
		return 0, nil
	}

	lo, hi := blocks[0].Pos, blocks[0].Pos
	for _, b := range blocks {
		w.SetBlock(b.Pos, b.Block)
		lo = model.BlockPos{X: min(lo.X, b.Pos.X), Y: min(lo.Y, b.Pos.Y), Z: min(lo.Z, b.Pos.Z)}
		hi = model.BlockPos{X: max(hi.X, b.Pos.X), Y: max(hi.Y, b.Pos.Y), Z: max(hi.Z, b.Pos.Z)}
	}
	w.LoadArea(lo, hi.Add(0, headroom, 0))

	slog.Info("terrain loaded", "blocks", len(blocks), "min", lo, "max", hi, "chunks", w.ChunkCount())
	return len(blocks), nil
}

// Save replaces the stored terrain with every non-air block of w.
func (r *TerrainRepository) Save(ctx context.Context, w *world.Voxel) (int, error) {
	rows := make([][]any, 0, 4096)
	w.ForEachBlock(func(pos model.BlockPos, b world.Block) bool {
		rows = append(rows, []any{pos.X, pos.Y, pos.Z, int16(b)})
		return true
	})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin terrain transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("terrain rollback failed", "error", err)
		}
	}()

	if _, err := tx.Exec(ctx, `TRUNCATE terrain_blocks`); err != nil {
		return 0, fmt.Errorf("clearing terrain: %w", err)
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"terrain_blocks"},
		[]string{"x", "y", "z", "block"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting terrain: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit terrain: %w", err)
	}

	slog.Debug("terrain saved", "blocks", n)
	return int(n), nil
}

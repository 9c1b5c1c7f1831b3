package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSpawnNotFound is returned when a spawn id does not exist.
var ErrSpawnNotFound = errors.New("spawn not found")

// Spawn is a persisted agent spawn point.
type Spawn struct {
	ID           uuid.UUID
	Name         string
	Position     mgl64.Vec3
	WanderRadius int
}

// SpawnRepository handles agent spawn CRUD operations
type SpawnRepository struct {
	pool *pgxpool.Pool
}

// NewSpawnRepository creates a new spawn repository
func NewSpawnRepository(pool *pgxpool.Pool) *SpawnRepository {
	return &SpawnRepository{pool: pool}
}

// LoadAll loads all spawns ordered by creation time
func (r *SpawnRepository) LoadAll(ctx context.Context) ([]Spawn, error) {
	query := `
		SELECT id, name, x, y, z, wander_radius
		FROM agent_spawns
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("loading all spawns: %w", err)
	}
	defer rows.Close()

	spawns := make([]Spawn, 0, 32)
	for rows.Next() {
		var s Spawn
		if err := rows.Scan(&s.ID, &s.Name, &s.Position[0], &s.Position[1], &s.Position[2], &s.WanderRadius); err != nil {
			return nil, fmt.Errorf("scanning spawn row: %w", err)
		}
		spawns = append(spawns, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating spawn rows: %w", err)
	}

	return spawns, nil
}

// LoadByID loads spawn by id
func (r *SpawnRepository) LoadByID(ctx context.Context, id uuid.UUID) (Spawn, error) {
	query := `
		SELECT id, name, x, y, z, wander_radius
		FROM agent_spawns
		WHERE id = $1
	`

	var s Spawn
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Position[0], &s.Position[1], &s.Position[2], &s.WanderRadius,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Spawn{}, fmt.Errorf("spawn %s: %w", id, ErrSpawnNotFound)
	}
	if err != nil {
		return Spawn{}, fmt.Errorf("loading spawn %s: %w", id, err)
	}
	return s, nil
}

// Create inserts a new spawn. A zero ID is replaced with a fresh one.
func (r *SpawnRepository) Create(ctx context.Context, s Spawn) (Spawn, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	query := `
		INSERT INTO agent_spawns (id, name, x, y, z, wander_radius)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.pool.Exec(ctx, query, s.ID, s.Name, s.Position[0], s.Position[1], s.Position[2], s.WanderRadius); err != nil {
		return Spawn{}, fmt.Errorf("creating spawn %q: %w", s.Name, err)
	}
	return s, nil
}

// Delete deletes spawn from database
func (r *SpawnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM agent_spawns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting spawn %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("spawn %s: %w", id, ErrSpawnNotFound)
	}
	return nil
}

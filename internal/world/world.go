package world

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/voxnav/internal/model"
)

// Voxel is an in-memory block world split into chunks.
// Safe for concurrent use: searches read while the simulation edits.
type Voxel struct {
	mu     sync.RWMutex
	chunks map[ChunkPos]*Chunk
	border Border
}

// NewVoxel creates an empty world with the given border.
func NewVoxel(border Border) *Voxel {
	return &Voxel{
		chunks: make(map[ChunkPos]*Chunk),
		border: border,
	}
}

// LoadChunk marks the chunk loaded, creating an empty one if needed.
func (w *Voxel) LoadChunk(pos ChunkPos) *Chunk {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loadChunkLocked(pos)
}

func (w *Voxel) loadChunkLocked(pos ChunkPos) *Chunk {
	c, ok := w.chunks[pos]
	if !ok {
		c = newChunk(pos)
		w.chunks[pos] = c
		return c
	}
	c.loaded.Store(true)
	return c
}

// UnloadChunk marks the chunk unloaded. Its blocks are kept.
func (w *Voxel) UnloadChunk(pos ChunkPos) {
	w.mu.RLock()
	c := w.chunks[pos]
	w.mu.RUnlock()
	if c != nil {
		c.loaded.Store(false)
	}
}

// LoadArea loads every chunk intersecting the block box [min, max].
func (w *Voxel) LoadArea(min, max model.BlockPos) {
	lo := ChunkOf(min)
	hi := ChunkOf(max)

	w.mu.Lock()
	defer w.mu.Unlock()
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				w.loadChunkLocked(ChunkPos{X: x, Y: y, Z: z})
			}
		}
	}
}

// ChunkCount returns the number of chunks known to the world.
func (w *Voxel) ChunkCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// SetBlock sets a block, loading its chunk if it does not exist yet.
func (w *Voxel) SetBlock(pos model.BlockPos, b Block) {
	w.mu.Lock()
	defer w.mu.Unlock()

	cp := ChunkOf(pos)
	c, ok := w.chunks[cp]
	if !ok {
		c = newChunk(cp)
		w.chunks[cp] = c
	}
	c.blocks[localIndex(pos)] = b
}

// Fill sets every block in the inclusive box [min, max].
func (w *Voxel) Fill(min, max model.BlockPos, b Block) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for x := min.X; x <= max.X; x++ {
		for y := min.Y; y <= max.Y; y++ {
			for z := min.Z; z <= max.Z; z++ {
				pos := model.BlockPos{X: x, Y: y, Z: z}
				cp := ChunkOf(pos)
				c, ok := w.chunks[cp]
				if !ok {
					c = newChunk(cp)
					w.chunks[cp] = c
				}
				c.blocks[localIndex(pos)] = b
			}
		}
	}
}

// Block returns the block at pos (air if its chunk does not exist).
func (w *Voxel) Block(pos model.BlockPos) Block {
	w.mu.RLock()
	defer w.mu.RUnlock()

	c, ok := w.chunks[ChunkOf(pos)]
	if !ok {
		return BlockAir
	}
	return c.blocks[localIndex(pos)]
}

// ChunkAt implements model.World.
func (w *Voxel) ChunkAt(pos mgl64.Vec3) model.Chunk {
	w.mu.RLock()
	c, ok := w.chunks[ChunkOf(model.BlockOf(pos))]
	w.mu.RUnlock()
	if !ok {
		// Untyped nil: a typed nil pointer would not compare equal to nil.
		return nil
	}
	return c
}

// IsSolid implements model.World.
func (w *Voxel) IsSolid(pos model.BlockPos) bool {
	return w.Block(pos).Solid()
}

// IsLiquid implements model.World.
func (w *Voxel) IsLiquid(pos model.BlockPos) bool {
	return w.Block(pos).Liquid()
}

// Border implements model.World.
func (w *Voxel) Border() model.Border {
	return w.border
}

var _ model.World = (*Voxel)(nil)

// ForEachBlock calls fn for every non-air block in the world, chunk by chunk.
// Iteration order is unspecified. fn must not modify the world.
func (w *Voxel) ForEachBlock(fn func(pos model.BlockPos, b Block) bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for cp, c := range w.chunks {
		origin := cp.Origin()
		for i, b := range c.blocks {
			if b == BlockAir {
				continue
			}
			pos := model.BlockPos{
				X: origin.X + int32(i&0xF),
				Y: origin.Y + int32(i>>8),
				Z: origin.Z + int32((i>>4)&0xF),
			}
			if !fn(pos, b) {
				return
			}
		}
	}
}

package world

import "sync/atomic"

// Chunk stores a 16×16×16 cube of blocks.
// Block data is guarded by the owning Voxel's lock; the loaded flag is atomic
// so searches can poll it without taking the world lock.
type Chunk struct {
	pos    ChunkPos
	blocks [ChunkVolume]Block
	loaded atomic.Bool
}

func newChunk(pos ChunkPos) *Chunk {
	c := &Chunk{pos: pos}
	c.loaded.Store(true)
	return c
}

// Pos returns the chunk coordinates.
func (c *Chunk) Pos() ChunkPos {
	return c.pos
}

// Loaded reports whether the chunk is loaded.
func (c *Chunk) Loaded() bool {
	return c.loaded.Load()
}

package world

import "github.com/udisondev/voxnav/internal/model"

// Chunk grid constants.
const (
	// ShiftBy - shift by N bits for 2^N blocks per chunk edge (2^4 = 16)
	ShiftBy = 4

	// ChunkSize is the chunk edge length in blocks.
	ChunkSize = 1 << ShiftBy // 16

	// ChunkVolume is the number of blocks stored per chunk.
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize // 4096

	chunkMask = ChunkSize - 1
)

// ChunkPos identifies a chunk in the chunk grid.
type ChunkPos struct {
	X, Y, Z int32
}

// ChunkOf returns the chunk containing block b.
// Arithmetic shift floors negative coordinates correctly.
func ChunkOf(b model.BlockPos) ChunkPos {
	return ChunkPos{X: b.X >> ShiftBy, Y: b.Y >> ShiftBy, Z: b.Z >> ShiftBy}
}

// localIndex returns the index of block b inside its chunk.
// Layout: idx = x | (z<<4) | (y<<8)
func localIndex(b model.BlockPos) int {
	x := int(b.X & chunkMask)
	y := int(b.Y & chunkMask)
	z := int(b.Z & chunkMask)
	return x | z<<ShiftBy | y<<(2*ShiftBy)
}

// Origin returns the minimum block of the chunk.
func (c ChunkPos) Origin() model.BlockPos {
	return model.BlockPos{X: c.X << ShiftBy, Y: c.Y << ShiftBy, Z: c.Z << ShiftBy}
}

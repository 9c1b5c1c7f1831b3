package world

// Block is a block type id.
type Block uint8

// Block types known to the voxel world.
const (
	BlockAir Block = iota
	BlockStone
	BlockDirt
	BlockWater
	BlockLava
)

// Solid reports whether the block blocks movement.
func (b Block) Solid() bool {
	return b == BlockStone || b == BlockDirt
}

// Liquid reports whether the block is a liquid.
func (b Block) Liquid() bool {
	return b == BlockWater || b == BlockLava
}

// String returns human-readable block name
func (b Block) String() string {
	switch b {
	case BlockAir:
		return "air"
	case BlockStone:
		return "stone"
	case BlockDirt:
		return "dirt"
	case BlockWater:
		return "water"
	case BlockLava:
		return "lava"
	default:
		return "unknown"
	}
}

// ParseBlock maps a block name to its id. Unknown names map to air.
func ParseBlock(name string) Block {
	switch name {
	case "stone":
		return BlockStone
	case "dirt":
		return BlockDirt
	case "water":
		return BlockWater
	case "lava":
		return BlockLava
	default:
		return BlockAir
	}
}

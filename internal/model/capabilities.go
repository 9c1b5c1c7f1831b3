package model

// PathfinderType is the movement domain of an agent.
type PathfinderType int32

const (
	// PathfinderLand walks on solid ground only.
	PathfinderLand PathfinderType = iota
	// PathfinderAquatic moves freely in three dimensions inside liquids.
	PathfinderAquatic
	// PathfinderAmphibious walks on land and swims vertically in liquids.
	PathfinderAmphibious
	// PathfinderFlying moves freely in three dimensions.
	PathfinderFlying
)

// String returns human-readable pathfinder type name
func (t PathfinderType) String() string {
	switch t {
	case PathfinderLand:
		return "LAND"
	case PathfinderAquatic:
		return "AQUATIC"
	case PathfinderAmphibious:
		return "AMPHIBIOUS"
	case PathfinderFlying:
		return "FLYING"
	default:
		return "UNKNOWN"
	}
}

// ParsePathfinderType maps a config string to a PathfinderType (LAND for unknown values).
func ParsePathfinderType(s string) PathfinderType {
	switch s {
	case "aquatic", "AQUATIC":
		return PathfinderAquatic
	case "amphibious", "AMPHIBIOUS":
		return PathfinderAmphibious
	case "flying", "FLYING":
		return PathfinderFlying
	default:
		return PathfinderLand
	}
}

// Capabilities describe how an agent may move. Immutable for the duration of one search.
type Capabilities struct {
	Type              PathfinderType
	CanJump           bool
	CanSwim           bool
	SwimSpeedModifier float64
}

// DefaultCapabilities returns land movement with jumping and swimming at 0.4 speed.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		Type:              PathfinderLand,
		CanJump:           true,
		CanSwim:           true,
		SwimSpeedModifier: 0.4,
	}
}

// MovesVertically reports whether steering should produce vertical velocity.
func (c Capabilities) MovesVertically(inLiquid bool) bool {
	switch c.Type {
	case PathfinderAquatic, PathfinderFlying:
		return true
	case PathfinderAmphibious:
		return inLiquid
	default:
		return false
	}
}

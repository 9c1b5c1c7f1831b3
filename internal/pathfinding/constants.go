package pathfinding

// Search configuration.
const (
	// BudgetPerBlock scales max search distance to the closed-set budget.
	BudgetPerBlock = 10

	// MinCloseDistance floors the arrival radius of a search.
	MinCloseDistance = 0.8

	// StepFriction discounts planar step cost so diagonals do not inflate g.
	StepFriction = 0.98

	// NeighborSnapDepth is how far successor candidates may drop.
	NeighborSnapDepth = 20

	// EndpointSnapDepth is how far start and goal may drop to reach ground.
	EndpointSnapDepth = 100

	// MaxJumpRise is the highest step a jump successor may climb.
	MaxJumpRise = 2.0

	// StartTrimRadius drops leading route nodes this close to the start.
	StartTrimRadius = 1.5
)

// Steering configuration.
const (
	// JumpVelocityScale converts jump height to vertical velocity.
	JumpVelocityScale = 2.5

	// DefaultJumpHeight is the jump height used when a route climbs.
	DefaultJumpHeight = 4.0

	// DefaultMovementSpeed is used for agents without their own speed.
	DefaultMovementSpeed = 0.1

	// VerticalSteerFactor scales vertical steering for swimmers and flyers.
	VerticalSteerFactor = 0.5

	// ClimbThreshold is how far above the agent a target must be to trigger a jump.
	ClimbThreshold = 0.1

	// DefaultMaxDistance and DefaultVariance are used by MoveTo.
	DefaultMaxDistance = 25.0
	DefaultVariance    = 5.0
)

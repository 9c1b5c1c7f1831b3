package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Border is a square world border centered on (CenterX, CenterZ).
// A zero Radius means the world is unbounded.
type Border struct {
	CenterX float64
	CenterZ float64
	Radius  float64
}

// Contains reports whether pos lies inside the border (edges inclusive).
func (b Border) Contains(pos mgl64.Vec3) bool {
	if b.Radius <= 0 {
		return true
	}
	return math.Abs(pos[0]-b.CenterX) <= b.Radius && math.Abs(pos[2]-b.CenterZ) <= b.Radius
}

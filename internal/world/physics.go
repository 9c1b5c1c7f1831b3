package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/voxnav/internal/model"
)

const faceEpsilon = 1e-7

// Physics resolves box movement against solid blocks, one axis at a time (Y, X, Z).
// Each axis is swept across every block layer it crosses, so long moves cannot tunnel.
type Physics struct{}

// Resolve implements model.Collider.
func (Physics) Resolve(w model.World, bb model.BoundingBox, start, delta mgl64.Vec3) model.PhysicsResult {
	res := model.PhysicsResult{Position: start}
	if w == nil {
		res.Position = start.Add(delta)
		return res
	}

	res.Position, res.CollisionY = sweepAxis(w, bb, res.Position, 1, delta[1])
	res.Position, res.CollisionX = sweepAxis(w, bb, res.Position, 0, delta[0])
	res.Position, res.CollisionZ = sweepAxis(w, bb, res.Position, 2, delta[2])
	return res
}

// sweepAxis moves pos by d along axis and stops at the first solid layer.
func sweepAxis(w model.World, bb model.BoundingBox, pos mgl64.Vec3, axis int, d float64) (mgl64.Vec3, bool) {
	if d == 0 {
		return pos, false
	}

	lo := bb.Min(pos)
	hi := bb.Max(pos)

	if d > 0 {
		edge := hi[axis]
		first := int32(math.Floor(edge-faceEpsilon)) + 1
		last := int32(math.Floor(edge + d - faceEpsilon))
		for layer := first; layer <= last; layer++ {
			if layerBlocked(w, lo, hi, axis, layer) {
				pos[axis] += float64(layer) - edge
				return pos, true
			}
		}
	} else {
		edge := lo[axis]
		first := int32(math.Floor(edge+faceEpsilon)) - 1
		last := int32(math.Floor(edge + d + faceEpsilon))
		for layer := first; layer >= last; layer-- {
			if layerBlocked(w, lo, hi, axis, layer) {
				pos[axis] += float64(layer+1) - edge
				return pos, true
			}
		}
	}

	pos[axis] += d
	return pos, false
}

// layerBlocked reports whether any solid block of the given layer overlaps the box
// on the two remaining axes.
func layerBlocked(w model.World, lo, hi mgl64.Vec3, axis int, layer int32) bool {
	var spans [3][2]int32
	for a := 0; a < 3; a++ {
		if a == axis {
			spans[a] = [2]int32{layer, layer}
			continue
		}
		first, last := model.BlockSpan(lo[a], hi[a])
		spans[a] = [2]int32{first, last}
	}

	for x := spans[0][0]; x <= spans[0][1]; x++ {
		for y := spans[1][0]; y <= spans[1][1]; y++ {
			for z := spans[2][0]; z <= spans[2][1]; z++ {
				if w.IsSolid(model.BlockPos{X: x, Y: y, Z: z}) {
					return true
				}
			}
		}
	}
	return false
}

var _ model.Collider = Physics{}

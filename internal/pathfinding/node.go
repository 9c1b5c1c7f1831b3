package pathfinding

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/voxnav/internal/model"
)

// NodeType tags how an agent reaches a node.
type NodeType int32

const (
	// NodeWalk is reached by walking on the same level.
	NodeWalk NodeType = iota
	// NodeJump is reached by jumping up to two blocks.
	NodeJump
	// NodeFall is reached by walking off an edge and dropping.
	NodeFall
	// NodeRepath marks the end of a partial route: regenerate once reached.
	NodeRepath
)

// String returns human-readable node type name
func (t NodeType) String() string {
	switch t {
	case NodeWalk:
		return "WALK"
	case NodeJump:
		return "JUMP"
	case NodeFall:
		return "FALL"
	case NodeRepath:
		return "REPATH"
	default:
		return "UNKNOWN"
	}
}

// Node is a vertex of the search graph.
// Identity is the block-quantized position: two nodes in the same block are the same node.
// Parent links point from child to ancestor only and are fixed at construction.
type Node struct {
	point  mgl64.Vec3
	block  model.BlockPos
	g      float64
	h      float64
	typ    NodeType
	parent *Node

	seq uint64 // insertion order, heap tie-break
}

func newNode(point mgl64.Vec3, g, h float64, typ NodeType, parent *Node) *Node {
	return &Node{
		point:  point,
		block:  model.BlockOf(point),
		g:      g,
		h:      h,
		typ:    typ,
		parent: parent,
	}
}

// Point returns the node position.
func (n *Node) Point() mgl64.Vec3 { return n.point }

// Block returns the block-quantized identity of the node.
func (n *Node) Block() model.BlockPos { return n.block }

// G returns the accumulated cost from the search start.
func (n *Node) G() float64 { return n.g }

// H returns the straight-line estimate to the goal.
func (n *Node) H() float64 { return n.h }

// F returns g + h.
func (n *Node) F() float64 { return n.g + n.h }

// Type returns the movement tag.
func (n *Node) Type() NodeType { return n.typ }

// Parent returns the node this one was reached from, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

func (n *Node) String() string {
	return fmt.Sprintf("Node{point=%v, f=%.3f, type=%s}", n.point, n.F(), n.typ)
}

// ClosedSet holds block positions already queued or expanded.
type ClosedSet map[model.BlockPos]struct{}

// Contains reports whether b is closed.
func (c ClosedSet) Contains(b model.BlockPos) bool {
	_, ok := c[b]
	return ok
}

// Add closes b.
func (c ClosedSet) Add(b model.BlockPos) {
	c[b] = struct{}{}
}

// heuristic is the straight-line distance between two points.
func heuristic(node, target mgl64.Vec3) float64 {
	return model.Distance(node, target)
}

// Nearby generates the successors of n that are not closed.
// Every successor is a fresh allocation owned by the caller.
func (n *Node) Nearby(w model.World, c model.Collider, closed ClosedSet, goal mgl64.Vec3, bb model.BoundingBox) []*Node {
	stepSize := int32(math.Max(math.Floor(bb.Width/2), 1))
	nearby := make([]*Node, 0, 16)

	for x := -stepSize; x <= stepSize; x++ {
		for z := -stepSize; z <= stepSize; z++ {
			if x == 0 && z == 0 {
				continue
			}
			cost := math.Sqrt(float64(x*x+z*z)) * StepFriction

			column := mgl64.Vec3{
				float64(n.block.X) + 0.5 + float64(x),
				n.point[1],
				float64(n.block.Z) + 0.5 + float64(z),
			}
			floorPoint, floorOK := gravitySnap(w, column, bb, NeighborSnapDepth)
			jumpPoint, jumpOK := gravitySnap(w, column.Add(mgl64.Vec3{0, 1, 0}), bb, NeighborSnapDepth)

			if floorOK {
				if walk := n.createWalk(w, c, floorPoint, bb, cost, goal, closed); walk != nil {
					nearby = append(nearby, walk)
				}
			}

			if !jumpOK {
				continue
			}
			if floorOK && model.SameBlock(floorPoint, jumpPoint) {
				continue
			}
			if jump := n.createJump(w, jumpPoint, bb, cost, goal, closed); jump != nil {
				nearby = append(nearby, jump)
			}
		}
	}

	return nearby
}

func (n *Node) createWalk(w model.World, c model.Collider, point mgl64.Vec3, bb model.BoundingBox, cost float64, goal mgl64.Vec3, closed ClosedSet) *Node {
	if closed.Contains(model.BlockOf(point)) {
		return nil
	}

	typ := NodeWalk
	if point[1] < n.point[1] {
		level := mgl64.Vec3{point[0], n.point[1], point[2]}
		if !canMoveTowards(w, c, n.point, level, bb) {
			return nil
		}
		typ = NodeFall
	} else if !canMoveTowards(w, c, n.point, point, bb) {
		return nil
	}

	return newNode(point, n.g+cost, heuristic(point, goal), typ, n)
}

func (n *Node) createJump(w model.World, point mgl64.Vec3, bb model.BoundingBox, cost float64, goal mgl64.Vec3, closed ClosedSet) *Node {
	rise := point[1] - n.point[1]
	if rise <= 0 || rise > MaxJumpRise {
		return nil
	}
	if pointInvalid(w, point, bb) {
		return nil
	}
	if pointInvalid(w, n.point.Add(mgl64.Vec3{0, 1, 0}), bb) {
		return nil
	}
	if closed.Contains(model.BlockOf(point)) {
		return nil
	}

	return newNode(point, n.g+cost, heuristic(point, goal), NodeJump, n)
}

// pointInvalid reports whether the box placed at point overlaps a solid block.
func pointInvalid(w model.World, point mgl64.Vec3, bb model.BoundingBox) bool {
	invalid := false
	bb.ForEachBlock(point, func(b model.BlockPos) bool {
		if w.IsSolid(b) {
			invalid = true
			return false
		}
		return true
	})
	return invalid
}

// canMoveTowards reports whether the box can travel in a straight line without hitting anything.
func canMoveTowards(w model.World, c model.Collider, start, end mgl64.Vec3, bb model.BoundingBox) bool {
	res := c.Resolve(w, bb, start, end.Sub(start))
	return !res.Collided()
}

// gravitySnap scans down from point for the first solid layer under the footprint
// and returns the standable position on top of it.
func gravitySnap(w model.World, point mgl64.Vec3, bb model.BoundingBox, maxFall int) (mgl64.Vec3, bool) {
	if w.ChunkAt(point) == nil {
		return mgl64.Vec3{}, false
	}

	for fall := 1; fall <= maxFall; fall++ {
		layer := int32(math.Floor(point[1] - float64(fall)))
		solid := false
		bb.ForEachBlockBelow(point, layer, func(b model.BlockPos) bool {
			if w.IsSolid(b) {
				solid = true
				return false
			}
			return true
		})
		if solid {
			return mgl64.Vec3{point[0], float64(layer + 1), point[2]}, true
		}
	}

	return mgl64.Vec3{}, false
}

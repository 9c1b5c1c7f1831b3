package pathfinding

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/voxnav/internal/model"
)

// PathState is the lifecycle state of a Path.
type PathState int32

const (
	// StateNone is reported by a Navigator without an active path.
	StateNone PathState = iota
	// StateComputing - search is running in the background.
	StateComputing
	// StateComputed - route is published but not yet consumed by the navigator.
	StateComputed
	// StateFollowing - navigator is steering along the route.
	StateFollowing
	// StateCompleted - agent arrived (terminal).
	StateCompleted
	// StateInvalid - search found nothing usable (terminal).
	StateInvalid
	// StateTerminating - cancellation requested, not yet observed.
	StateTerminating
	// StateTerminated - cancellation observed (terminal).
	StateTerminated
)

// String returns human-readable path state name
func (s PathState) String() string {
	switch s {
	case StateNone:
		return "NONE"
	case StateComputing:
		return "COMPUTING"
	case StateComputed:
		return "COMPUTED"
	case StateFollowing:
		return "FOLLOWING"
	case StateCompleted:
		return "COMPLETED"
	case StateInvalid:
		return "INVALID"
	case StateTerminating:
		return "TERMINATING"
	case StateTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further transition is possible.
func (s PathState) Terminal() bool {
	return s == StateCompleted || s == StateInvalid || s == StateTerminated
}

// Request holds the parameters of one search. Kept on the Path for silent regeneration.
type Request struct {
	CloseDistance float64
	MaxDistance   float64
	Variance      float64
	BoundingBox   model.BoundingBox
	Capabilities  model.Capabilities
	OnComplete    func()
}

// Path is a route plus its lifecycle.
//
// The node list is written once by the search goroutine before the state is published
// as Computed; after that it is read-only. The state is the only field touched from
// both the search goroutine and the tick goroutine. The cursor belongs to the tick side.
type Path struct {
	request Request
	start   mgl64.Vec3 // snapped start
	target  mgl64.Vec3 // snapped goal
	goal    mgl64.Vec3 // goal as requested

	nodes []*Node
	index int

	state        atomic.Int32
	done         chan struct{}
	doneOnce     sync.Once
	completeOnce sync.Once
}

func newPath(req Request, start, target, goal mgl64.Vec3) *Path {
	p := &Path{
		request: req,
		start:   start,
		target:  target,
		goal:    goal,
		done:    make(chan struct{}),
	}
	p.state.Store(int32(StateComputing))
	return p
}

// State returns the current lifecycle state.
func (p *Path) State() PathState {
	return PathState(p.state.Load())
}

// Request returns the parameters the path was searched with.
func (p *Path) Request() Request {
	return p.request
}

// Start returns the ground-snapped search start.
func (p *Path) Start() mgl64.Vec3 {
	return p.start
}

// Goal returns the goal as requested (not snapped).
func (p *Path) Goal() mgl64.Vec3 {
	return p.goal
}

// Done is closed once the search resolved (Computed, Invalid or Terminated).
func (p *Path) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the search resolved or ctx is done.
func (p *Path) Wait(ctx context.Context) (PathState, error) {
	select {
	case <-p.done:
		return p.State(), nil
	case <-ctx.Done():
		return p.State(), ctx.Err()
	}
}

// Nodes returns the published route, or nil while it is not published.
func (p *Path) Nodes() []*Node {
	switch p.State() {
	case StateComputing, StateTerminating, StateInvalid:
		return nil
	default:
		return p.nodes
	}
}

// Current returns the node under the cursor, or nil past the end.
func (p *Path) Current() *Node {
	if p.index >= len(p.nodes) {
		return nil
	}
	return p.nodes[p.index]
}

// CurrentType returns the type of the node under the cursor.
// ok is false past the end.
func (p *Path) CurrentType() (NodeType, bool) {
	n := p.Current()
	if n == nil {
		return 0, false
	}
	return n.typ, true
}

// Advance moves the cursor to the next node. Saturates at the end.
func (p *Path) Advance() {
	if p.index >= len(p.nodes) {
		return
	}
	p.index++
}

// Index returns the cursor position.
func (p *Path) Index() int {
	return p.index
}

// Terminate requests cooperative cancellation. Returns false if the path was
// already terminal or terminating.
//
// A path whose search already finished has nobody left to observe the request,
// so it goes straight to Terminated.
func (p *Path) Terminate() bool {
	for {
		cur := p.State()
		if cur.Terminal() || cur == StateTerminating {
			return false
		}
		if !p.state.CompareAndSwap(int32(cur), int32(StateTerminating)) {
			continue
		}
		if cur != StateComputing {
			p.state.CompareAndSwap(int32(StateTerminating), int32(StateTerminated))
		}
		return true
	}
}

// terminationRequested is polled by the search once per dequeue.
func (p *Path) terminationRequested() bool {
	return p.State() == StateTerminating
}

// acknowledgeTermination is the last thing a search does to a cancelled path.
func (p *Path) acknowledgeTermination() {
	p.nodes = nil
	if !p.state.CompareAndSwap(int32(StateTerminating), int32(StateTerminated)) {
		p.state.CompareAndSwap(int32(StateComputing), int32(StateTerminated))
	}
	p.resolve()
}

// publish stores the route and makes it visible to the consumer.
func (p *Path) publish(nodes []*Node) bool {
	p.nodes = nodes
	if p.state.CompareAndSwap(int32(StateComputing), int32(StateComputed)) {
		p.resolve()
		return true
	}
	p.acknowledgeTermination()
	return false
}

// fail resolves the path as Invalid.
func (p *Path) fail() bool {
	if p.state.CompareAndSwap(int32(StateComputing), int32(StateInvalid)) {
		p.resolve()
		return true
	}
	p.acknowledgeTermination()
	return false
}

func (p *Path) resolve() {
	p.doneOnce.Do(func() { close(p.done) })
}

// consume trims the cursor to the first node in the agent's block and starts following.
func (p *Path) consume(agentBlock model.BlockPos) bool {
	if p.State() != StateComputed {
		return false
	}
	for i, n := range p.nodes {
		if n.block == agentBlock {
			p.index = i
			break
		}
	}
	return p.state.CompareAndSwap(int32(StateComputed), int32(StateFollowing))
}

// markCompleted moves a followed path to Completed.
func (p *Path) markCompleted() bool {
	return p.state.CompareAndSwap(int32(StateFollowing), int32(StateCompleted))
}

// runComplete invokes the completion callback at most once.
func (p *Path) runComplete() {
	p.completeOnce.Do(func() {
		if p.request.OnComplete != nil {
			p.request.OnComplete()
		}
	})
}

package pathfinding

import (
	"container/heap"
	"context"
	"log/slog"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/semaphore"

	"github.com/udisondev/voxnav/internal/model"
)

// searchResult classifies how a search resolved.
type searchResult string

const (
	resultFound      searchResult = "found"
	resultPartial    searchResult = "partial"
	resultInvalid    searchResult = "invalid"
	resultTerminated searchResult = "terminated"
)

// searchStats describes one finished search.
type searchStats struct {
	result   searchResult
	closed   int
	expanded int
	budget   int
}

// Generator runs path searches on background goroutines.
// At most `workers` searches execute at once; the rest wait without blocking callers.
type Generator struct {
	collider model.Collider
	sem      *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewGenerator creates a generator. workers <= 0 means runtime.NumCPU().
func NewGenerator(collider model.Collider, workers int) *Generator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Generator{
		collider: collider,
		sem:      semaphore.NewWeighted(int64(workers)),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Close cancels running searches and waits for them to resolve.
func (g *Generator) Close() {
	g.cancel()
	g.wg.Wait()
}

// Generate snaps start and goal to the ground and schedules a search.
// Returns nil when either endpoint has no ground within EndpointSnapDepth.
// Search failure is reported through the returned Path's state, never here.
func (g *Generator) Generate(w model.World, start, goal mgl64.Vec3, req Request) *Path {
	if w == nil {
		return nil
	}

	snappedStart, ok := gravitySnap(w, start, req.BoundingBox, EndpointSnapDepth)
	if !ok {
		return nil
	}
	snappedGoal, ok := gravitySnap(w, goal, req.BoundingBox, EndpointSnapDepth)
	if !ok {
		return nil
	}

	path := newPath(req, snappedStart, snappedGoal, goal)

	g.wg.Add(1)
	go g.run(w, path)

	return path
}

// run is the background body of one search.
func (g *Generator) run(w model.World, path *Path) {
	defer g.wg.Done()

	if err := g.sem.Acquire(g.ctx, 1); err != nil {
		path.acknowledgeTermination()
		searchTotal.WithLabelValues(string(resultTerminated)).Inc()
		return
	}
	defer g.sem.Release(1)

	searchesInFlight.Inc()
	defer searchesInFlight.Dec()

	began := time.Now()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("path search panicked",
				"panic", r,
				"start", path.start,
				"goal", path.goal)
			path.fail()
			searchTotal.WithLabelValues(string(resultInvalid)).Inc()
		}
	}()

	stats := g.compute(g.ctx, w, path)
	elapsed := time.Since(began)

	searchTotal.WithLabelValues(string(stats.result)).Inc()
	searchDuration.Observe(elapsed.Seconds())
	searchClosedNodes.Observe(float64(stats.closed))

	slog.Debug("path search resolved",
		"result", stats.result,
		"closed", stats.closed,
		"expanded", stats.expanded,
		"budget", stats.budget,
		"duration", elapsed)
}

// compute runs the budget-bounded best-first search and resolves path.
func (g *Generator) compute(ctx context.Context, w model.World, path *Path) searchStats {
	req := path.request
	start := path.start
	target := path.target

	closeDistance := math.Max(MinCloseDistance, req.CloseDistance)
	straightDistance := heuristic(start, target)
	budget := int(math.Floor(req.MaxDistance * BudgetPerBlock))
	stats := searchStats{budget: budget}

	open := &nodeHeap{}
	heap.Init(open)
	closed := make(ClosedSet, max(budget, 0))

	var seq uint64
	push := func(n *Node) {
		seq++
		n.seq = seq
		heap.Push(open, n)
		closed.Add(n.block)
	}

	push(newNode(start, 0, heuristic(start, target), NodeWalk, nil))

	// A fallback must make progress: nodes no closer than the start never qualify.
	var found, closest *Node
	closestDistance := straightDistance

	for open.Len() > 0 && len(closed) < budget {
		if path.terminationRequested() || ctx.Err() != nil {
			path.acknowledgeTermination()
			stats.result = resultTerminated
			stats.closed = len(closed)
			return stats
		}

		current := heap.Pop(open).(*Node)

		if !model.ChunkLoaded(w.ChunkAt(current.point)) {
			continue
		}
		if current.F()-straightDistance > req.Variance {
			continue
		}
		if !withinDistance(current.point, start, req.MaxDistance) {
			continue
		}
		if withinDistance(current.point, target, closeDistance) {
			found = current
			break
		}

		if current.h < closestDistance {
			closestDistance = current.h
			closest = current
		}

		stats.expanded++
		for _, next := range current.Nearby(w, g.collider, closed, target, req.BoundingBox) {
			if len(closed) >= budget {
				break
			}
			if closed.Contains(next.block) {
				continue
			}
			if model.Distance(next.point, start) <= req.MaxDistance {
				push(next)
			}
		}
	}
	stats.closed = len(closed)

	end := found
	stats.result = resultFound
	if found == nil {
		if closest == nil {
			stats.result = resultInvalid
			if !path.fail() {
				stats.result = resultTerminated
			}
			return stats
		}
		stats.result = resultPartial
		end = closest
		if open.Len() > 0 {
			end = newNode(closest.point, closest.g, closest.h, NodeRepath, closest)
		}
	}

	if !path.publish(buildRoute(end, start, path.goal)) {
		stats.result = resultTerminated
	}
	return stats
}

// buildRoute walks parent links from end back to the root (excluded), reverses them,
// trims leading nodes near start and appends a terminal node at goal.
func buildRoute(end *Node, start, goal mgl64.Vec3) []*Node {
	var nodes []*Node
	for n := end; n.parent != nil; n = n.parent {
		nodes = append(nodes, n)
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}

	// Prevents doubling back to points the agent has already passed.
	trim := 0
	for trim < len(nodes) && nodes[trim].typ != NodeRepath && model.Distance(nodes[trim].point, start) < StartTrimRadius {
		trim++
	}
	nodes = nodes[trim:]

	lastPoint, lastG := start, 0.0
	if len(nodes) > 0 {
		last := nodes[len(nodes)-1]
		lastPoint, lastG = last.point, last.g
	}
	terminal := newNode(goal, lastG+model.Distance(lastPoint, goal), 0, NodeWalk, nil)

	return append(nodes, terminal)
}

func withinDistance(point, target mgl64.Vec3, distance float64) bool {
	return model.DistanceSquared(point, target) < distance*distance
}

package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultTickInterval is one simulation tick at 20 ticks per second.
const DefaultTickInterval = 50 * time.Millisecond

// TickFunc is called after every completed tick with the tick number.
type TickFunc func(tick uint64)

// TickManager manages AI ticks for all registered agents
type TickManager struct {
	controllers     sync.Map // map[uuid.UUID]Controller, agent id → controller
	interval        time.Duration
	stopCh          chan struct{}
	stopOnce        sync.Once
	controllerCount atomic.Int32 // cached count of controllers (O(1) access)
	ticks           atomic.Uint64

	hooksMu sync.RWMutex
	hooks   []TickFunc
}

// NewTickManager creates new AI tick manager. interval <= 0 uses DefaultTickInterval.
func NewTickManager(interval time.Duration) *TickManager {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &TickManager{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Register registers AI controller for agent
func (m *TickManager) Register(id uuid.UUID, controller Controller) {
	previous, loaded := m.controllers.Swap(id, controller)
	if loaded {
		if old := previous.(Controller); old != controller {
			old.Stop()
		}
	} else {
		m.controllerCount.Add(1)
	}
	controller.Start()

	slog.Debug("AI controller registered",
		"agent", id,
		"intention", controller.CurrentIntention())
}

// Unregister unregisters AI controller
func (m *TickManager) Unregister(id uuid.UUID) {
	value, ok := m.controllers.LoadAndDelete(id)
	if !ok {
		return
	}

	m.controllerCount.Add(-1)

	controller := value.(Controller)
	controller.Stop()

	slog.Debug("AI controller unregistered", "agent", id)
}

// OnTick adds a hook called after every tick.
func (m *TickManager) OnTick(fn TickFunc) {
	m.hooksMu.Lock()
	defer m.hooksMu.Unlock()
	m.hooks = append(m.hooks, fn)
}

// Start starts AI tick loop (blocks until context is canceled or Stop is called)
func (m *TickManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("AI tick manager started", "interval", m.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("AI tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("AI tick manager stopped")
			return nil

		case <-ticker.C:
			m.tickAll()
		}
	}
}

// Stop stops AI tick loop
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// tickAll ticks all registered controllers sequentially, then runs hooks
func (m *TickManager) tickAll() {
	count := 0

	m.controllers.Range(func(key, value any) bool {
		controller := value.(Controller)
		controller.Tick()
		count++
		return true
	})

	tick := m.ticks.Add(1)

	m.hooksMu.RLock()
	hooks := m.hooks
	m.hooksMu.RUnlock()
	for _, fn := range hooks {
		fn(tick)
	}

	if count > 0 && IsDebugEnabled() && tick%TicksPerDebugReport == 0 {
		slog.Debug("AI tick completed", "tick", tick, "controllers", count)
	}
}

// TicksPerDebugReport throttles the per-tick debug line.
const TicksPerDebugReport = 100

// Count returns number of registered controllers (O(1) cached count)
func (m *TickManager) Count() int {
	return int(m.controllerCount.Load())
}

// Ticks returns number of completed ticks
func (m *TickManager) Ticks() uint64 {
	return m.ticks.Load()
}

// GetController returns controller for agent
func (m *TickManager) GetController(id uuid.UUID) (Controller, error) {
	value, ok := m.controllers.Load(id)
	if !ok {
		return nil, fmt.Errorf("controller not found for agent %s", id)
	}
	return value.(Controller), nil
}

// Snapshots returns snapshots of every registered observable controller.
func (m *TickManager) Snapshots() []Snapshot {
	snaps := make([]Snapshot, 0, m.Count())
	m.controllers.Range(func(_, value any) bool {
		if o, ok := value.(Observable); ok {
			snaps = append(snaps, o.Snapshot())
		}
		return true
	})
	return snaps
}

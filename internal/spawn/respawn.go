package spawn

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RespawnTask represents a scheduled respawn task
type RespawnTask struct {
	Spawn       Point
	RespawnTime time.Time
}

// RespawnTaskManager returns fallen agents to their spawn points after a delay.
type RespawnTaskManager struct {
	spawnManager *Manager
	delay        time.Duration
	interval     time.Duration
	stopCh       chan struct{}
	stopOnce     sync.Once
	now          func() time.Time

	mu    sync.RWMutex
	tasks map[uuid.UUID]*RespawnTask // spawnID → task
}

// NewRespawnTaskManager creates new respawn task manager
func NewRespawnTaskManager(spawnManager *Manager, delay time.Duration) *RespawnTaskManager {
	return &RespawnTaskManager{
		spawnManager: spawnManager,
		delay:        delay,
		interval:     time.Second,
		stopCh:       make(chan struct{}),
		now:          time.Now,
		tasks:        make(map[uuid.UUID]*RespawnTask),
	}
}

// Start starts respawn task manager (blocks until context is canceled)
func (m *RespawnTaskManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("respawn task manager started", "interval", m.interval, "delay", m.delay)

	for {
		select {
		case <-ctx.Done():
			slog.Info("respawn task manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("respawn task manager stopped")
			return nil

		case now := <-ticker.C:
			m.processTasks(now)
		}
	}
}

// Stop stops respawn task manager
func (m *RespawnTaskManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// OnTick collects fallen agents and schedules their respawn.
// Meant to be registered with ai.TickManager.OnTick.
func (m *RespawnTaskManager) OnTick(uint64) {
	for _, p := range m.spawnManager.RemoveFallen() {
		m.ScheduleRespawn(p, m.delay)
	}
}

// ScheduleRespawn schedules respawn at p after delay
func (m *RespawnTaskManager) ScheduleRespawn(p Point, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	respawnTime := m.now().Add(delay)
	m.tasks[p.ID] = &RespawnTask{
		Spawn:       p,
		RespawnTime: respawnTime,
	}

	slog.Debug("respawn scheduled",
		"spawnID", p.ID,
		"name", p.Name,
		"delay", delay,
		"respawnTime", respawnTime.Format(time.RFC3339))
}

// CancelRespawn cancels scheduled respawn
func (m *RespawnTaskManager) CancelRespawn(spawnID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tasks, spawnID)

	slog.Debug("respawn cancelled", "spawnID", spawnID)
}

// processTasks respawns every task that is due at now
func (m *RespawnTaskManager) processTasks(now time.Time) {
	m.mu.Lock()
	due := make([]*RespawnTask, 0)
	for spawnID, task := range m.tasks {
		if !now.Before(task.RespawnTime) {
			due = append(due, task)
			delete(m.tasks, spawnID)
		}
	}
	m.mu.Unlock()

	for _, task := range due {
		wander, err := m.spawnManager.DoSpawn(task.Spawn)
		if err != nil {
			slog.Error("respawn failed", "spawnID", task.Spawn.ID, "error", err)
			continue
		}

		slog.Info("agent respawned",
			"id", wander.Entity().ID(),
			"name", task.Spawn.Name,
			"spawnID", task.Spawn.ID)
	}
}

// TaskCount returns number of scheduled respawn tasks
func (m *RespawnTaskManager) TaskCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tasks)
}

// GetTask returns respawn task for spawn (for testing)
func (m *RespawnTaskManager) GetTask(spawnID uuid.UUID) (*RespawnTask, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	task, ok := m.tasks[spawnID]
	return task, ok
}

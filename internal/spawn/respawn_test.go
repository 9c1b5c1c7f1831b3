package spawn

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/voxnav/internal/testutil"
)

func TestRespawnTaskManager_ScheduleRespawn(t *testing.T) {
	mgr, _ := newTestManager(t, testutil.FlatWorld(8))
	respawnMgr := NewRespawnTaskManager(mgr, 5*time.Second)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	respawnMgr.now = func() time.Time { return now }

	p := point("scout", 0.5, 0, 0.5)
	respawnMgr.ScheduleRespawn(p, 5*time.Second)

	require.Equal(t, 1, respawnMgr.TaskCount())
	task, ok := respawnMgr.GetTask(p.ID)
	require.True(t, ok)
	assert.Equal(t, p, task.Spawn)
	assert.Equal(t, now.Add(5*time.Second), task.RespawnTime)

	respawnMgr.CancelRespawn(p.ID)
	assert.Zero(t, respawnMgr.TaskCount())
}

func TestRespawnTaskManager_ProcessTasks(t *testing.T) {
	mgr, aiMgr := newTestManager(t, testutil.FlatWorld(8))
	respawnMgr := NewRespawnTaskManager(mgr, time.Second)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	respawnMgr.now = func() time.Time { return now }

	p := point("scout", 0.5, 0, 0.5)
	respawnMgr.ScheduleRespawn(p, time.Second)

	respawnMgr.processTasks(now.Add(500 * time.Millisecond))
	assert.Equal(t, 1, respawnMgr.TaskCount(), "not due yet")
	assert.Zero(t, mgr.AgentCount())

	respawnMgr.processTasks(now.Add(time.Second))
	assert.Zero(t, respawnMgr.TaskCount())
	assert.Equal(t, 1, mgr.AgentCount())
	assert.Equal(t, 1, aiMgr.Count())
}

func TestRespawnTaskManager_OnTickCollectsFallen(t *testing.T) {
	mgr, _ := newTestManager(t, testutil.FlatWorld(8))
	respawnMgr := NewRespawnTaskManager(mgr, 3*time.Second)

	p := point("faller", 2.5, 0, 2.5)
	wander, err := mgr.DoSpawn(p)
	require.NoError(t, err)

	respawnMgr.OnTick(1)
	assert.Zero(t, respawnMgr.TaskCount())

	wander.Entity().SetPosition(mgl64.Vec3{2.5, VoidDepth - 10, 2.5})
	respawnMgr.OnTick(2)

	assert.Zero(t, mgr.AgentCount())
	task, ok := respawnMgr.GetTask(p.ID)
	require.True(t, ok)
	assert.Equal(t, p, task.Spawn)
}

func TestRespawnTaskManager_Stop(t *testing.T) {
	mgr, _ := newTestManager(t, testutil.FlatWorld(4))
	respawnMgr := NewRespawnTaskManager(mgr, time.Second)

	done := make(chan error, 1)
	go func() { done <- respawnMgr.Start(t.Context()) }()

	respawnMgr.Stop()
	respawnMgr.Stop() // idempotent

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

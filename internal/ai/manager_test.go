package ai

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/voxnav/internal/model"
)

// countingController counts ticks and lifecycle calls.
type countingController struct {
	intention atomic.Int32
	ticks     atomic.Int32
	started   atomic.Bool
	stopped   atomic.Bool
}

func (c *countingController) Start()                         { c.started.Store(true); c.SetIntention(model.IntentionActive) }
func (c *countingController) Stop()                          { c.stopped.Store(true); c.SetIntention(model.IntentionIdle) }
func (c *countingController) SetIntention(i model.Intention) { c.intention.Store(int32(i)) }
func (c *countingController) CurrentIntention() model.Intention {
	return model.Intention(c.intention.Load())
}
func (c *countingController) Tick() { c.ticks.Add(1) }

func TestTickManager_RegisterUnregister(t *testing.T) {
	mgr := NewTickManager(time.Millisecond)
	id := uuid.New()
	c := &countingController{}

	mgr.Register(id, c)
	assert.Equal(t, 1, mgr.Count())
	assert.True(t, c.started.Load())

	// Re-registering the same id replaces the controller without double counting.
	c2 := &countingController{}
	mgr.Register(id, c2)
	assert.Equal(t, 1, mgr.Count())
	assert.True(t, c.stopped.Load(), "replaced controller is stopped")
	assert.False(t, c2.stopped.Load())

	// Registering the same controller again keeps it running.
	mgr.Register(id, c2)
	assert.False(t, c2.stopped.Load())

	got, err := mgr.GetController(id)
	require.NoError(t, err)
	assert.Same(t, c2, got)
	assert.Equal(t, model.IntentionActive, got.CurrentIntention())

	mgr.Unregister(id)
	assert.Equal(t, 0, mgr.Count())
	assert.True(t, c2.stopped.Load())
	assert.Equal(t, model.IntentionIdle, c2.CurrentIntention())

	_, err = mgr.GetController(id)
	assert.Error(t, err)

	mgr.Unregister(id) // no-op
	assert.Equal(t, 0, mgr.Count())
}

func TestTickManager_Start(t *testing.T) {
	mgr := NewTickManager(5 * time.Millisecond)
	c := &countingController{}
	mgr.Register(uuid.New(), c)

	var hookTicks atomic.Uint64
	mgr.OnTick(func(tick uint64) { hookTicks.Store(tick) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- mgr.Start(ctx)
	}()

	require.Eventually(t, func() bool { return c.ticks.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop after context cancel")
	}

	assert.GreaterOrEqual(t, mgr.Ticks(), uint64(3))
	assert.Equal(t, mgr.Ticks(), hookTicks.Load())
}

func TestTickManager_Stop(t *testing.T) {
	mgr := NewTickManager(0)
	assert.Equal(t, DefaultTickInterval, mgr.interval)

	done := make(chan error, 1)
	go func() {
		done <- mgr.Start(context.Background())
	}()

	mgr.Stop()
	mgr.Stop() // idempotent

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop")
	}
}

func TestTickManager_TickAllSequential(t *testing.T) {
	mgr := NewTickManager(time.Hour)
	controllers := make([]*countingController, 10)
	for i := range controllers {
		controllers[i] = &countingController{}
		mgr.Register(uuid.New(), controllers[i])
	}

	for range 3 {
		mgr.tickAll()
	}

	for _, c := range controllers {
		assert.Equal(t, int32(3), c.ticks.Load())
	}
	assert.Equal(t, uint64(3), mgr.Ticks())
	assert.Empty(t, mgr.Snapshots(), "counting controllers are not observable")
}

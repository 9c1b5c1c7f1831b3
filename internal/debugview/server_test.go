package debugview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/voxnav/internal/ai"
	"github.com/udisondev/voxnav/internal/model"
)

type staticSource []ai.Snapshot

func (s staticSource) Snapshots() []ai.Snapshot { return s }

func testSource() staticSource {
	goal := [3]float64{5.5, 0, 5.5}
	return staticSource{{
		ID:        uuid.MustParse("6f1c2a52-8d1e-4a57-9f43-0c7c1f7a9e01"),
		Name:      "agent-0",
		Intention: model.IntentionMoveTo,
		Position:  [3]float64{0.5, 0, 0.5},
		Goal:      &goal,
		State:     "FOLLOWING",
		Nodes:     []ai.NodeView{{Point: [3]float64{1.5, 0, 1.5}, Type: "WALK"}},
	}}
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestServer_Snapshot(t *testing.T) {
	s := NewServer(testSource(), 1)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var raw map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	agents := raw["agents"].([]any)
	require.Len(t, agents, 1)
	agent := agents[0].(map[string]any)
	assert.Equal(t, "MOVE_TO", agent["intention"])
	assert.Equal(t, "agent-0", agent["name"])
	assert.Equal(t, "6f1c2a52-8d1e-4a57-9f43-0c7c1f7a9e01", agent["id"])
}

func TestServer_Broadcast(t *testing.T) {
	s := NewServer(testSource(), 4)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return s.Hub().Count() == 1 }, time.Second, 5*time.Millisecond)

	// Ticks 1..3 are skipped; tick 4 is broadcast.
	for tick := uint64(1); tick <= 4; tick++ {
		s.OnTick(tick)
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame Frame
	require.NoError(t, conn.ReadJSON(&frame))

	assert.Equal(t, uint64(4), frame.Tick)
	require.Len(t, frame.Agents, 1)
	assert.Equal(t, "FOLLOWING", frame.Agents[0].State)
	require.NotNil(t, frame.Agents[0].Goal)
	assert.Equal(t, [3]float64{5.5, 0, 5.5}, *frame.Agents[0].Goal)
	assert.Equal(t, "WALK", frame.Agents[0].Nodes[0].Type)
}

func TestServer_ClientDisconnect(t *testing.T) {
	s := NewServer(testSource(), 1)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return s.Hub().Count() == 1 }, time.Second, 5*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return s.Hub().Count() == 0 }, time.Second, 5*time.Millisecond)

	// No clients: broadcasting is a no-op.
	s.OnTick(1)
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	s := NewServer(testSource(), 1)
	ctx, cancel := context.WithCancel(t.Context())

	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

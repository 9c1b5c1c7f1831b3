// Package debugview streams agent and route snapshots to websocket clients.
package debugview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/udisondev/voxnav/internal/ai"
)

const (
	writeWait    = 5 * time.Second
	shutdownWait = 5 * time.Second
)

// Source provides the snapshots to stream.
type Source interface {
	Snapshots() []ai.Snapshot
}

// Frame is one broadcast message.
type Frame struct {
	Tick   uint64        `json:"tick"`
	Agents []ai.Snapshot `json:"agents"`
}

// Server serves the debug view.
//
// GET /snapshot returns the current Frame as JSON.
// GET /ws upgrades to a websocket that receives a Frame every broadcast.
type Server struct {
	source   Source
	hub      *Hub
	upgrader websocket.Upgrader
	every    uint64
}

// NewServer creates a debug view over source broadcasting every n ticks (n <= 0 means every tick).
func NewServer(source Source, every int) *Server {
	if every <= 0 {
		every = 1
	}
	return &Server{
		source: source,
		hub:    NewHub(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		every: uint64(every),
	}
}

// Hub returns the client hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

// OnTick is meant to be registered with ai.TickManager.OnTick.
func (s *Server) OnTick(tick uint64) {
	if tick%s.every != 0 || s.hub.Count() == 0 {
		return
	}
	data, err := s.encode(tick)
	if err != nil {
		slog.Error("encoding debug frame", "tick", tick, "error", err)
		return
	}
	s.hub.Broadcast(data)
}

func (s *Server) encode(tick uint64) ([]byte, error) {
	return json.Marshal(Frame{Tick: tick, Agents: s.source.Snapshots()})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := s.encode(0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("debug view upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := s.hub.add(conn)
	slog.Debug("debug view client connected", "remote", conn.RemoteAddr(), "clients", s.hub.Count())

	go s.readLoop(c)
	s.writeLoop(c)
}

// readLoop discards client messages and unregisters the client once the connection drops.
func (s *Server) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			s.hub.remove(c)
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()

	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.hub.remove(c)
			return
		}
	}

	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("debug view listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.hub.closeAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("debug view shutdown", "error", err)
		}
	}()

	slog.Info("debug view listening", "address", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("debug view serve: %w", err)
	}
	return nil
}

package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrStreamBacklog is returned by Publish when the send queue is full.
// The window is dropped rather than stalling the simulation.
var ErrStreamBacklog = errors.New("stream queue full")

const (
	streamQueueSize    = 64
	streamWriteTimeout = 5 * time.Second
)

// StreamMessage is the JSON frame sent to stream clients for every stats window.
type StreamMessage struct {
	Type   string      `json:"type"`
	RunID  int64       `json:"run_id"`
	Window WindowStats `json:"window"`
}

// Broadcaster fans stats windows out to websocket clients.
// One goroutine owns all writes; client handlers only read.
type Broadcaster struct {
	mu         sync.RWMutex
	clients    map[*websocket.Conn]bool
	upgrader   websocket.Upgrader
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewBroadcaster creates a broadcaster and starts its hub goroutine.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, streamQueueSize),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	b.wg.Add(1)
	go b.run()
	return b
}

// ServeHTTP upgrades the request to a websocket and streams windows until the client leaves.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("stream upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	select {
	case b.register <- conn:
	case <-b.done:
		conn.Close()
		return
	}

	// Drain client frames so close and ping control messages are handled.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	select {
	case b.unregister <- conn:
	case <-b.done:
	}
}

// Publish queues a window for all connected clients without blocking.
func (b *Broadcaster) Publish(runID int64, stats WindowStats) error {
	if b == nil {
		return nil
	}
	data, err := json.Marshal(StreamMessage{Type: "window", RunID: runID, Window: stats})
	if err != nil {
		return fmt.Errorf("encoding stream message: %w", err)
	}

	select {
	case <-b.done:
		return nil
	default:
	}
	select {
	case b.broadcast <- data:
		return nil
	default:
		return ErrStreamBacklog
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *Broadcaster) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.done:
			return

		case conn := <-b.register:
			b.mu.Lock()
			b.clients[conn] = true
			b.mu.Unlock()

		case conn := <-b.unregister:
			b.mu.Lock()
			if b.clients[conn] {
				delete(b.clients, conn)
				conn.Close()
			}
			b.mu.Unlock()

		case data := <-b.broadcast:
			b.send(data)
		}
	}
}

// send writes data to every client, dropping the ones that fail.
func (b *Broadcaster) send(data []byte) {
	b.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(b.clients))
	for conn := range b.clients {
		conns = append(conns, conn)
	}
	b.mu.RUnlock()

	var failed []*websocket.Conn
	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			failed = append(failed, conn)
		}
	}
	if len(failed) == 0 {
		return
	}

	b.mu.Lock()
	for _, conn := range failed {
		delete(b.clients, conn)
		conn.Close()
	}
	b.mu.Unlock()
}

// Close stops the hub and disconnects every client.
func (b *Broadcaster) Close() error {
	if b == nil {
		return nil
	}
	b.closeOnce.Do(func() {
		close(b.done)
		b.wg.Wait()

		b.mu.Lock()
		for conn := range b.clients {
			conn.Close()
			delete(b.clients, conn)
		}
		b.mu.Unlock()
	})
	return nil
}

// StreamServer serves a Broadcaster on /stream.
type StreamServer struct {
	srv      *http.Server
	listener net.Listener
}

// StartStreamServer listens on addr and serves b in the background.
func StartStreamServer(addr string, b *Broadcaster) (*StreamServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/stream", b)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("stream server stopped", "error", err)
		}
	}()
	return &StreamServer{srv: srv, listener: ln}, nil
}

// Addr returns the address the server listens on.
func (s *StreamServer) Addr() string {
	return s.listener.Addr().String()
}

// Close shuts the server down immediately.
func (s *StreamServer) Close() error {
	if s == nil {
		return nil
	}
	return s.srv.Close()
}

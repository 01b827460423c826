// Package gateway serves the table over HTTP: WebSocket seats, a health probe,
// admission counters and a read-only table snapshot.
package gateway

import (
	"encoding/json"
	"net/http"
	"sync"

	"blackjack-lite/apps/server/internal/codec"
	"blackjack-lite/apps/server/internal/lobby"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict to configured origins once a web client ships
	},
}

// Gateway manages WebSocket connections
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*wsConn
	lobby       *lobby.Lobby
	log         *zap.Logger
}

// New creates a new Gateway instance
func New(lby *lobby.Lobby, logger *zap.Logger) *Gateway {
	return &Gateway{
		connections: make(map[string]*wsConn),
		lobby:       lby,
		log:         logger.Named("gateway"),
	}
}

// Routes returns the HTTP handler for all gateway endpoints. Extra route
// sets, such as the round ledger, are mounted on the same router.
func (g *Gateway) Routes(extra ...func(chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", g.handleHealth)
	r.Get("/table", g.handleTable)
	r.Get("/stats", g.handleStats)
	r.Get("/ws", g.HandleWebSocket)
	for _, register := range extra {
		register(r)
	}
	return r
}

// ConnectionCount returns the number of open WebSocket connections.
func (g *Gateway) ConnectionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.connections)
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (g *Gateway) handleTable(w http.ResponseWriter, r *http.Request) {
	data, err := codec.MarshalSnapshot(g.lobby.Table().Snapshot())
	if err != nil {
		g.log.Error("snapshot encode failed", zap.Error(err))
		http.Error(w, "snapshot unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

type statsResponse struct {
	Accepted             uint64 `json:"accepted"`
	Rejected             uint64 `json:"rejected"`
	Seats                int    `json:"seats"`
	WebSocketConnections int    `json:"websocket_connections"`
}

func (g *Gateway) handleStats(w http.ResponseWriter, r *http.Request) {
	st := g.lobby.Stats()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(statsResponse{
		Accepted:             st.Accepted,
		Rejected:             st.Rejected,
		Seats:                g.lobby.Table().SeatCount(),
		WebSocketConnections: g.ConnectionCount(),
	})
}

// HandleWebSocket upgrades the request and seats the connection at the table.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn("upgrade failed", zap.Error(err))
		return
	}

	c := newWSConn(uuid.NewString(), ws, g.removeConnection)
	g.mu.Lock()
	g.connections[c.ID] = c
	total := len(g.connections)
	g.mu.Unlock()
	g.log.Info("client connected", zap.String("conn_id", c.ID), zap.Int("total", total))

	seat, err := g.lobby.Admit(c)
	if err != nil {
		return
	}
	g.log.Info("websocket seated", zap.String("conn_id", c.ID), zap.Int("seat", seat.ID))
}

func (g *Gateway) removeConnection(c *wsConn) {
	g.mu.Lock()
	delete(g.connections, c.ID)
	total := len(g.connections)
	g.mu.Unlock()
	g.log.Info("client disconnected", zap.String("conn_id", c.ID), zap.Int("total", total))
}

// Close drops every open connection.
func (g *Gateway) Close() {
	g.mu.RLock()
	conns := make([]*wsConn, 0, len(g.connections))
	for _, c := range g.connections {
		conns = append(conns, c)
	}
	g.mu.RUnlock()
	for _, c := range conns {
		_ = c.Close()
	}
}

package ws

import (
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
)

// Event is the envelope every realtime frame uses in both directions.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Handle is one live connection as seen by the hub.
type Handle interface {
	// Deliver queues payload without blocking and reports whether it was accepted.
	Deliver(payload []byte) bool
	Close()
}

// Hub maps user ids to their live connections. A user may hold several
// connections at once (devices, tabs). Delivery is best effort: nothing is
// queued for offline users and a handle that cannot accept a frame is evicted.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[Handle]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[string]map[Handle]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(userID string, handle Handle) {
	h.mu.Lock()
	conns, ok := h.clients[userID]
	if !ok {
		conns = make(map[Handle]struct{})
		h.clients[userID] = conns
	}
	conns[handle] = struct{}{}
	count := len(conns)
	h.mu.Unlock()

	if !ok {
		h.logger.Info("user online", "user_id", userID)
	}
	h.logger.Debug("connection registered", "user_id", userID, "connections", count)
}

// Unregister removes handle and reports whether the user went offline.
func (h *Hub) Unregister(userID string, handle Handle) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.removeLocked(userID, handle)
}

func (h *Hub) removeLocked(userID string, handle Handle) bool {
	conns, ok := h.clients[userID]
	if !ok {
		return false
	}
	if _, exists := conns[handle]; !exists {
		return false
	}
	delete(conns, handle)
	if len(conns) > 0 {
		return false
	}
	delete(h.clients, userID)
	h.logger.Info("user offline", "user_id", userID)
	return true
}

// SendToUser fans ev out to every connection of userID and returns how many
// accepted it.
func (h *Hub) SendToUser(userID string, ev Event) int {
	h.mu.RLock()
	conns := make([]Handle, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		return 0
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("failed to encode event", "type", ev.Type, "error", err)
		return 0
	}

	delivered := 0
	var failed []Handle
	for _, c := range conns {
		if c.Deliver(payload) {
			delivered++
			continue
		}
		failed = append(failed, c)
	}

	if len(failed) > 0 {
		h.mu.Lock()
		for _, c := range failed {
			h.removeLocked(userID, c)
		}
		h.mu.Unlock()
		for _, c := range failed {
			c.Close()
		}
		h.logger.Warn("evicted stalled connections", "user_id", userID, "count", len(failed))
	}
	return delivered
}

func (h *Hub) SendToUsers(userIDs []string, ev Event) int {
	total := 0
	for _, id := range userIDs {
		total += h.SendToUser(id, ev)
	}
	return total
}

func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// OnlineUsers returns the ids of connected users in sorted order.
func (h *Hub) OnlineUsers() []string {
	h.mu.RLock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, conns := range h.clients {
		n += len(conns)
	}
	return n
}

package live

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Entry is the hub's record for one address. The whole state lives in
// memory and is lost on restart; the Status API owns the durable record.
type Entry struct {
	Status    string `json:"status"`
	TeamID    string `json:"teamId"`
	Timestamp string `json:"timestamp"`
}

// Event is the frame broadcast to every connected client after a write.
type Event struct {
	Type      string `json:"type"`
	AddressID string `json:"addressId"`
	Status    string `json:"status"`
	TeamID    string `json:"teamId"`
	Timestamp string `json:"timestamp"`
}

const EventStatusUpdated = "status_updated"

// Hub holds the ephemeral status map and the set of connected websocket
// clients. All methods are safe for concurrent use.
type Hub struct {
	mu       sync.RWMutex
	statuses map[string]Entry
	clients  map[*client]struct{}
	closed   bool
	logger   *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		statuses: make(map[string]Entry),
		clients:  make(map[*client]struct{}),
		logger:   logger,
	}
}

// SetStatus stores the entry and returns the broadcast event for it. An
// empty timestamp is filled with the current time.
func (h *Hub) SetStatus(addressID, status, teamID, timestamp string) Event {
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	h.mu.Lock()
	h.statuses[addressID] = Entry{Status: status, TeamID: teamID, Timestamp: timestamp}
	total := len(h.statuses)
	h.mu.Unlock()

	h.logger.Debug("Status stored",
		zap.String("address_id", addressID),
		zap.String("status", status),
		zap.Int("total", total),
	)

	return Event{
		Type:      EventStatusUpdated,
		AddressID: addressID,
		Status:    status,
		TeamID:    teamID,
		Timestamp: timestamp,
	}
}

// Statuses returns the entries for the requested ids; unknown ids are
// simply absent from the result.
func (h *Hub) Statuses(ids []string) map[string]Entry {
	out := make(map[string]Entry)
	h.mu.RLock()
	for _, id := range ids {
		if entry, ok := h.statuses[id]; ok {
			out[id] = entry
		}
	}
	h.mu.RUnlock()
	return out
}

// Broadcast fans the event out to every connected client. Clients whose
// send buffer is full are dropped rather than blocking the writer.
func (h *Hub) Broadcast(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("Broadcast marshal failed", zap.Error(err))
		return
	}

	var stale []*client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		h.logger.Warn("Dropping slow client", zap.String("client_id", c.id))
		h.remove(c)
	}
}

// ClientCount reports the number of connected websocket clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new registrations.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.close()
	}
}

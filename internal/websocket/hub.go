package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"en-garde-armory-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

type Hub struct {
	// Registered clients map: SessionID -> List of Clients (several tabs may watch one session)
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication, nil when running single-instance
	rdb *redis.Client

	// closed when Run returns
	done chan struct{}

	// instanceID tags frames this hub published so it skips them when they come back from redis
	instanceID string

	logger logger.ILogger
}

type clusterFrame struct {
	Origin          string          `json:"origin"`
	TargetSessionID string          `json:"target_session_id"`
	Message         json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		done:       make(chan struct{}),
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run processes registrations until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.SessionID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.SessionID]) == 0 {
		delete(h.clients, client.SessionID)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"session_id": client.SessionID})
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, clients := range h.clients {
		for _, c := range clients {
			close(c.Send)
		}
		delete(h.clients, id)
	}
}

// SendToSession delivers a frame to every local socket of the session and, when redis is
// configured, to the sockets other instances hold.
func (h *Hub) SendToSession(sessionID string, frame []byte) {
	h.deliverLocal(sessionID, frame)

	if h.rdb != nil {
		payload, err := json.Marshal(clusterFrame{
			Origin:          h.instanceID,
			TargetSessionID: sessionID,
			Message:         frame,
		})
		if err != nil {
			h.logger.Error("Hub", "Frame is not valid JSON, not fanned out", map[string]interface{}{"session_id": sessionID, "error": err.Error()})
			return
		}
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to fan out frame", map[string]interface{}{"session_id": sessionID, "error": err.Error()})
		}
	}
}

// DisconnectSession closes every local socket of an ended session.
func (h *Hub) DisconnectSession(sessionID string) {
	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[sessionID]...)
	h.mu.RUnlock()

	for _, c := range clients {
		h.drop(c)
	}
}

// Connected reports how many local sockets watch a session.
func (h *Hub) Connected(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// deliverLocal holds the read lock while sending; remove closes Send under the write lock.
func (h *Hub) deliverLocal(sessionID string, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[sessionID] {
		select {
		case client.Send <- frame:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping client", map[string]interface{}{"session_id": sessionID})
			h.drop(client)
		}
	}
}

// drop hands the client to Run for removal without blocking the caller.
func (h *Hub) drop(c *Client) {
	go h.leave(c)
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var frame clusterFrame
			if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
				h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if frame.Origin == h.instanceID {
				continue
			}
			h.deliverLocal(frame.TargetSessionID, frame.Message)
		}
	}
}

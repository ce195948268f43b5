package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"crimecity-server/internal/shared/redis"

	goredis "github.com/redis/go-redis/v9"
)

const (
	clientBufferSize = 16
	presenceKey      = "presence:online"
)

// Hub fans notifications out to the open sockets of each player. Delivery
// is best effort: a player with no connection, a full client buffer, or a
// failed Redis publish never fails the operation that produced the
// notification.
type Hub struct {
	mu      sync.RWMutex
	clients map[int]map[*client]struct{}

	redis  *redis.Client
	logger *slog.Logger
}

type client struct {
	playerID int
	send     chan []byte
}

func NewHub(redisClient *redis.Client, logger *slog.Logger) *Hub {
	logger.Debug("Initializing notification hub")

	return &Hub{
		clients: make(map[int]map[*client]struct{}),
		redis:   redisClient,
		logger:  logger,
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	conns, ok := h.clients[c.playerID]
	if !ok {
		conns = make(map[*client]struct{})
		h.clients[c.playerID] = conns
	}
	conns[c] = struct{}{}
	total := len(conns)
	h.mu.Unlock()

	h.logger.Debug("Notification client registered", "player_id", c.playerID, "connections", total)
	if total == 1 {
		h.publishPresence(c.playerID, 1)
	}
}

func (h *Hub) unregister(c *client) {
	lastSocket := false
	h.mu.Lock()
	if conns, ok := h.clients[c.playerID]; ok {
		if _, present := conns[c]; present {
			delete(conns, c)
			close(c.send)
			if len(conns) == 0 {
				delete(h.clients, c.playerID)
				lastSocket = true
			}
		}
	}
	h.mu.Unlock()

	h.logger.Debug("Notification client unregistered", "player_id", c.playerID)
	if lastSocket {
		h.publishPresence(c.playerID, -1)
	}
}

// Notify pushes a notification at a single player. With Redis configured
// the message routes through pub/sub so every instance can deliver it;
// otherwise it goes straight to local sockets.
func (h *Hub) Notify(playerID int, n Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("Failed to marshal notification", "error", err, "player_id", playerID)
		return
	}

	if h.redis != nil {
		h.publish(fmt.Sprintf("notify:player:%d", playerID), payload)
		return
	}

	h.deliver(playerID, payload)
}

// Broadcast pushes a notification at every connected player.
func (h *Hub) Broadcast(n Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast notification", "error", err)
		return
	}

	if h.redis != nil {
		h.publish("notify:broadcast", payload)
		return
	}

	h.deliverAll(payload)
}

// Run consumes the Redis notification channels and routes messages to
// local sockets. It blocks until the context is cancelled and is a no-op
// without Redis.
func (h *Hub) Run(ctx context.Context) {
	if h.redis == nil {
		return
	}

	sub := h.redis.PSubscribe(ctx, "notify:player:*", "notify:broadcast")
	defer sub.Close()

	h.logger.Info("Notification hub subscribed to Redis channels")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			if msg.Channel == "notify:broadcast" {
				h.deliverAll([]byte(msg.Payload))
				continue
			}

			var playerID int
			if _, err := fmt.Sscanf(msg.Channel, "notify:player:%d", &playerID); err != nil {
				h.logger.Warn("Unrecognized notification channel", "channel", msg.Channel)
				continue
			}
			h.deliver(playerID, []byte(msg.Payload))
		}
	}
}

// OnlineCount reports how many distinct players hold at least one open
// socket on this instance.
func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OnlinePlayers reports how many distinct players are connected across
// all instances, read from the shared Redis counter. Without Redis, or
// when the read fails, it falls back to this instance's own count.
func (h *Hub) OnlinePlayers(ctx context.Context) int {
	if h.redis == nil {
		return h.OnlineCount()
	}

	n, err := h.redis.Get(ctx, presenceKey).Int()
	if err != nil {
		if err != goredis.Nil {
			h.logger.Warn("Failed to read presence counter", "error", err)
			return h.OnlineCount()
		}
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}

func (h *Hub) deliverAll(payload []byte) {
	h.mu.RLock()
	ids := make([]int, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	for _, id := range ids {
		h.deliver(id, payload)
	}
}

func (h *Hub) deliver(playerID int, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[playerID] {
		select {
		case c.send <- payload:
		default:
			// Slow consumer; drop rather than block the sender
			h.logger.Warn("Dropping notification for slow client", "player_id", playerID)
		}
	}
}

func (h *Hub) publish(channel string, payload []byte) {
	if err := h.redis.Publish(context.Background(), channel, payload).Err(); err != nil {
		h.logger.Warn("Failed to publish notification to Redis", "error", err, "channel", channel)
	}
}

func (h *Hub) publishPresence(playerID, delta int) {
	if h.redis == nil {
		return
	}

	ctx := context.Background()
	var err error
	if delta > 0 {
		err = h.redis.Incr(ctx, presenceKey).Err()
	} else {
		err = h.redis.Decr(ctx, presenceKey).Err()
	}
	if err != nil {
		h.logger.Warn("Failed to update presence counter", "error", err, "player_id", playerID)
	}
}

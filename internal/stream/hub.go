package stream

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix  = "runs:"
	channelSuffix  = ":events"
	channelPattern = channelPrefix + "*" + channelSuffix
)

// Event is the envelope pushed to run subscribers.
type Event struct {
	Type  string `json:"type"`
	RunID string `json:"run_id"`
	Data  any    `json:"data,omitempty"`
}

// Hub fans run events out to websocket clients. With Redis configured,
// events travel through pub/sub so every replica delivers them; without it
// delivery is local only.
type Hub struct {
	redis   *redis.Client
	pubsub  *redis.PubSub
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	RunID string
	Send  chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		ctx := context.Background()
		pubsub := redisClient.PSubscribe(ctx, channelPattern)
		if _, err := pubsub.Receive(ctx); err != nil {
			log.Printf("redis subscribe error, falling back to local delivery: %v", err)
			_ = pubsub.Close()
		} else {
			h.redis = redisClient
			h.pubsub = pubsub
			go h.forward(pubsub.Channel())
		}
	}
	return h
}

func (h *Hub) Register(runID string) *Client {
	client := &Client{
		RunID: runID,
		Send:  make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[runID] == nil {
		h.clients[runID] = map[*Client]struct{}{}
	}
	h.clients[runID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if runClients, ok := h.clients[client.RunID]; ok {
		if _, registered := runClients[client]; !registered {
			return
		}
		delete(runClients, client)
		if len(runClients) == 0 {
			delete(h.clients, client.RunID)
		}
		close(client.Send)
	}
}

// Publish encodes ev and broadcasts it to the run's subscribers.
func (h *Hub) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return h.Broadcast(ctx, ev.RunID, payload)
}

func (h *Hub) Broadcast(ctx context.Context, runID string, payload []byte) error {
	if h.redis == nil {
		h.deliver(runID, payload)
		return nil
	}
	if err := h.redis.Publish(ctx, redisChannel(runID), payload).Err(); err != nil {
		log.Printf("redis publish error: %v", err)
		h.deliver(runID, payload)
		return err
	}
	return nil
}

// Close stops the Redis subscription.
func (h *Hub) Close() error {
	if h.pubsub == nil {
		return nil
	}
	return h.pubsub.Close()
}

func (h *Hub) forward(messages <-chan *redis.Message) {
	for msg := range messages {
		runID := runIDFromChannel(msg.Channel)
		if runID == "" {
			continue
		}
		h.deliver(runID, []byte(msg.Payload))
	}
}

func (h *Hub) deliver(runID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[runID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func redisChannel(runID string) string {
	return channelPrefix + runID + channelSuffix
}

func runIDFromChannel(ch string) string {
	// runs:{id}:events
	if !strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	if len(ch) <= len(channelPrefix)+len(channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}

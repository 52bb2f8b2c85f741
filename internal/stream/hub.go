package stream

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix  = "navigation:"
	channelSuffix  = ":progress"
	channelPattern = channelPrefix + "*" + channelSuffix
	sendBuffer     = 64
)

// Hub fans trip progress out to websocket clients. With redis configured,
// broadcasts also reach clients connected to other instances.
type Hub struct {
	id      string
	redis   *redis.Client
	pubsub  *redis.PubSub
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	TripID string
	Send   chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		id:      uuid.NewString(),
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		ctx := context.Background()
		pubsub := redisClient.PSubscribe(ctx, channelPattern)
		if _, err := pubsub.Receive(ctx); err != nil {
			log.Printf("redis subscribe error: %v", err)
			_ = pubsub.Close()
		} else {
			h.pubsub = pubsub
			go h.subscribeRedis()
		}
	}
	return h
}

func (h *Hub) Register(tripID string) *Client {
	client := &Client{
		TripID: tripID,
		Send:   make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[tripID] == nil {
		h.clients[tripID] = map[*Client]struct{}{}
	}
	h.clients[tripID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tripClients, ok := h.clients[client.TripID]
	if !ok {
		return
	}
	if _, ok := tripClients[client]; !ok {
		return
	}
	delete(tripClients, client)
	if len(tripClients) == 0 {
		delete(h.clients, client.TripID)
	}
	close(client.Send)
}

// Clients returns the number of local subscribers for tripID.
func (h *Hub) Clients(tripID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[tripID])
}

func (h *Hub) Broadcast(tripID string, payload []byte) {
	h.deliver(tripID, payload)

	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(tripID), h.id+"|"+string(payload)).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

// Close stops the redis subscription. Local delivery keeps working.
func (h *Hub) Close() error {
	if h.pubsub == nil {
		return nil
	}
	return h.pubsub.Close()
}

// deliver drops the message for clients whose buffer is full.
func (h *Hub) deliver(tripID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[tripID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	for msg := range h.pubsub.Channel() {
		origin, payload, ok := strings.Cut(msg.Payload, "|")
		if !ok || origin == h.id {
			continue
		}
		tripID := tripIDFromChannel(msg.Channel)
		if tripID == "" {
			continue
		}
		h.deliver(tripID, []byte(payload))
	}
}

func redisChannel(tripID string) string {
	return channelPrefix + tripID + channelSuffix
}

func tripIDFromChannel(ch string) string {
	if !strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	if len(ch) <= len(channelPrefix)+len(channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}

package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Event struct {
	ID   int64       `json:"id"`
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type subscriber struct {
	ch chan Event
}

// Hub fans board change events out to connected clients, per project.
// Events are also appended to a redis list so a reconnecting client can
// replay what it missed via Last-Event-ID.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uint][]*subscriber // projectID -> subscribers
	rdb         *redis.Client
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		subscribers: make(map[uint][]*subscriber),
		rdb:         rdb,
	}
}

func streamKey(projectID uint) string {
	return fmt.Sprintf("board:stream:%d", projectID)
}

func (h *Hub) Subscribe(projectID uint) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{ch: make(chan Event, 256)}
	h.subscribers[projectID] = append(h.subscribers[projectID], sub)

	unsub := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs := h.subscribers[projectID]
		for i, s := range subs {
			if s == sub {
				h.subscribers[projectID] = append(subs[:i], subs[i+1:]...)
				close(sub.ch)
				break
			}
		}
		if len(h.subscribers[projectID]) == 0 {
			delete(h.subscribers, projectID)
		}
	}
	return sub.ch, unsub
}

func (h *Hub) Broadcast(projectID uint, event Event) {
	ctx := context.Background()
	key := streamKey(projectID)

	data, _ := json.Marshal(event)
	h.rdb.RPush(ctx, key, string(data))

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subscribers[projectID] {
		select {
		case sub.ch <- event:
		default:
			// drop if full
		}
	}
}

func (h *Hub) ReplayFrom(projectID uint, fromID int64) ([]Event, error) {
	ctx := context.Background()

	items, err := h.rdb.LRange(ctx, streamKey(projectID), fromID, -1).Result()
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(items))
	for i, item := range items {
		var ev Event
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			continue
		}
		ev.ID = fromID + int64(i)
		events = append(events, ev)
	}
	return events, nil
}

func (h *Hub) SetExpire(projectID uint, ttl time.Duration) {
	ctx := context.Background()
	h.rdb.Expire(ctx, streamKey(projectID), ttl)
}

func ParseLastEventID(header string) int64 {
	if header == "" {
		return 0
	}
	id, _ := strconv.ParseInt(header, 10, 64)
	return id
}

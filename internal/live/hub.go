package live

import (
	"context"
	"sync"
)

// Topic names a table whose rows changed.
type Topic string

const (
	TopicBooks       Topic = "books"
	TopicReviews     Topic = "reviews"
	TopicInsights    Topic = "insights"
	TopicMotivations Topic = "motivations"
)

// AllTopics is what a book delete touches through cascade.
var AllTopics = []Topic{TopicBooks, TopicReviews, TopicInsights, TopicMotivations}

type Hub struct {
	mu   sync.RWMutex
	subs map[Topic]map[chan struct{}]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[Topic]map[chan struct{}]struct{})}
}

// Publish notifies subscribers of any of topics. It never blocks; pending
// notices coalesce.
func (h *Hub) Publish(topics ...Topic) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[chan struct{}]struct{})
	for _, t := range topics {
		for ch := range h.subs[t] {
			if _, ok := seen[ch]; ok {
				continue
			}
			seen[ch] = struct{}{}
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}
}

// Subscribe returns a channel signalled after any change to topics. It
// closes when ctx ends.
func (h *Hub) Subscribe(ctx context.Context, topics ...Topic) <-chan struct{} {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	for _, t := range topics {
		if h.subs[t] == nil {
			h.subs[t] = make(map[chan struct{}]struct{})
		}
		h.subs[t][ch] = struct{}{}
	}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		for _, t := range topics {
			delete(h.subs[t], ch)
		}
		h.mu.Unlock()
		close(ch)
	}()
	return ch
}

// Subscribers counts live subscriptions on a topic.
func (h *Hub) Subscribers(topic Topic) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}

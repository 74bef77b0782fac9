// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/danielhkuo/jury-live/metrics"
	"github.com/danielhkuo/jury-live/models"
)

// DefaultBuffer is the per-subscriber queue length used when New is given
// a non-positive size.
const DefaultBuffer = 16

// Subscription is one live subscriber's handle. Messages carries
// pre-serialized envelopes; Done is closed once the subscriber is removed.
type Subscription struct {
	ID uuid.UUID

	send chan []byte
	done chan struct{}
	once sync.Once
}

func (s *Subscription) Messages() <-chan []byte {
	return s.send
}

func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) stop() bool {
	stopped := false
	s.once.Do(func() {
		close(s.done)
		stopped = true
	})
	return stopped
}

// Hub fans score updates out to every subscriber.
type Hub struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]*Subscription
	closed bool

	buffer  int
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(buffer int, logger *slog.Logger, m *metrics.Metrics) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:    make(map[uuid.UUID]*Subscription),
		buffer:  buffer,
		logger:  logger,
		metrics: m,
	}
}

// Subscribe registers a new subscriber. After Close the returned
// subscription is already done.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		ID:   uuid.New(),
		send: make(chan []byte, h.buffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.stop()
		return sub
	}

	h.subs[sub.ID] = sub
	h.metrics.SetSubscribers(len(h.subs))
	h.logger.Debug("subscriber connected", "subscriber_id", sub.ID, "subscribers", len(h.subs))
	return sub
}

// Unsubscribe removes sub. Safe to call more than once.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	h.remove(sub)
}

func (h *Hub) remove(sub *Subscription) bool {
	h.mu.Lock()
	if cur, ok := h.subs[sub.ID]; ok && cur == sub {
		delete(h.subs, sub.ID)
		h.metrics.SetSubscribers(len(h.subs))
	}
	n := len(h.subs)
	h.mu.Unlock()

	if !sub.stop() {
		return false
	}
	h.logger.Debug("subscriber disconnected", "subscriber_id", sub.ID, "subscribers", n)
	return true
}

// Publish serializes the score_update envelope once and queues it for every
// current subscriber without blocking. A subscriber whose queue is full is
// evicted; the others are unaffected.
func (h *Hub) Publish(snapshot models.Snapshot) {
	payload, err := json.Marshal(models.NewScoreUpdate(snapshot))
	if err != nil {
		h.logger.Error("failed to marshal score update", "error", err)
		return
	}

	h.mu.Lock()
	targets := make([]*Subscription, 0, len(h.subs))
	for _, sub := range h.subs {
		targets = append(targets, sub)
	}
	h.mu.Unlock()

	h.metrics.RecordBroadcast()

	for _, sub := range targets {
		select {
		case <-sub.done:
			continue
		default:
		}

		select {
		case sub.send <- payload:
		default:
			if h.remove(sub) {
				h.metrics.RecordEviction()
				h.logger.Warn("evicted slow subscriber", "subscriber_id", sub.ID)
			}
		}
	}
}

// Len returns the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close removes every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := h.subs
	h.subs = make(map[uuid.UUID]*Subscription)
	h.metrics.SetSubscribers(0)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
	h.logger.Info("hub closed", "subscribers", len(subs))
}

package realtime

import (
	"sync"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultBuffer = 32

// Hub fans out newly stored messages to every subscriber of the order they
// belong to. Delivery never blocks the publisher: a subscriber whose buffer
// is full is dropped and its channel closed, and the client is expected to
// reopen with the timestamp of the last message it saw.
type Hub struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]map[*Subscription]struct{}
	buffer int
	logger *zap.Logger
}

type Subscription struct {
	hub     *Hub
	orderID uuid.UUID
	ch      chan models.Message
	closed  bool
	dropped bool
}

func NewHub(logger *zap.Logger, buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		subs:   make(map[uuid.UUID]map[*Subscription]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

func (h *Hub) Subscribe(orderID uuid.UUID) *Subscription {
	sub := &Subscription{hub: h, orderID: orderID, ch: make(chan models.Message, h.buffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[orderID] == nil {
		h.subs[orderID] = make(map[*Subscription]struct{})
	}
	h.subs[orderID][sub] = struct{}{}
	h.logger.Debug("subscribed to order channel", zap.String("order_id", orderID.String()), zap.Int("subscribers", len(h.subs[orderID])))
	return sub
}

func (h *Hub) Publish(msg models.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[msg.OrderID] {
		select {
		case sub.ch <- msg:
		default:
			h.logger.Warn("dropping slow subscriber", zap.String("order_id", msg.OrderID.String()))
			sub.dropped = true
			h.remove(sub)
		}
	}
}

func (h *Hub) Subscribers(orderID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[orderID])
}

// remove must be called with h.mu held.
func (h *Hub) remove(sub *Subscription) {
	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.ch)

	delete(h.subs[sub.orderID], sub)
	if len(h.subs[sub.orderID]) == 0 {
		delete(h.subs, sub.orderID)
	}
}

// C yields messages in publish order. It is closed by Close or when the hub
// drops the subscription.
func (s *Subscription) C() <-chan models.Message {
	return s.ch
}

func (s *Subscription) Close() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	s.hub.remove(s)
}

// Dropped reports whether the hub closed the subscription because the
// consumer fell behind.
func (s *Subscription) Dropped() bool {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	return s.dropped
}

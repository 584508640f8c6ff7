package services

import (
	"context"
	"sync"
	"time"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/anjiri1684/tutor_market/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const panelEventBuffer = 16

// Panel is one viewer's live view of an order conversation. Messages stay in
// arrival order and each message id appears at most once, whether it came
// from the initial load, from Send or from the hub.
type Panel struct {
	svc      *MessagingService
	viewerID uuid.UUID
	orderID  uuid.UUID
	sub      *realtime.Subscription

	mu       sync.Mutex
	messages []models.Message
	seen     map[uuid.UUID]struct{}
	newest   time.Time

	// emitMu orders appends with their events and guards eventsClosed.
	emitMu       sync.Mutex
	events       chan models.Message
	eventsClosed bool
	done         chan struct{}
	closeOnce    sync.Once
}

func newPanel(svc *MessagingService, viewerID, orderID uuid.UUID, sub *realtime.Subscription, history []models.Message) *Panel {
	p := &Panel{
		svc:      svc,
		viewerID: viewerID,
		orderID:  orderID,
		sub:      sub,
		seen:     make(map[uuid.UUID]struct{}, len(history)),
		events:   make(chan models.Message, panelEventBuffer),
		done:     make(chan struct{}),
	}
	for _, m := range history {
		p.append(m)
	}
	return p
}

// append reports whether m was new.
func (p *Panel) append(m models.Message) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.seen[m.ID]; ok {
		return false
	}
	p.seen[m.ID] = struct{}{}
	p.messages = append(p.messages, m)
	if m.CreatedAt.After(p.newest) {
		p.newest = m.CreatedAt
	}
	return true
}

// deliver appends m and emits it as an event when it was new.
func (p *Panel) deliver(m models.Message) bool {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()
	if p.eventsClosed || !p.append(m) {
		return false
	}
	select {
	case p.events <- m:
	case <-p.done:
	}
	return true
}

func (p *Panel) closeEvents() {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()
	p.eventsClosed = true
	close(p.events)
}

func (p *Panel) run() {
	defer p.closeEvents()
	for {
		select {
		case <-p.done:
			return
		case m, ok := <-p.sub.C():
			if !ok {
				if p.sub.Dropped() {
					p.svc.logger.Info("panel fell behind, client must reconnect",
						zap.String("order_id", p.orderID.String()),
						zap.String("viewer_id", p.viewerID.String()))
				}
				return
			}
			if !p.deliver(m) {
				continue
			}
			if m.ReceiverID == p.viewerID {
				if _, err := p.svc.store.MarkMessagesRead(context.Background(), p.orderID, p.viewerID); err != nil {
					p.svc.logger.Warn("could not mark message read", zap.String("message_id", m.ID.String()), zap.Error(err))
				}
			}
		}
	}
}

// Messages returns a copy of the conversation as currently displayed.
func (p *Panel) Messages() []models.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// Events yields every message appended after the panel opened, whether it
// arrived from the hub or was sent through the panel. It is closed when the
// panel is closed or the hub drops the subscription.
func (p *Panel) Events() <-chan models.Message {
	return p.events
}

// Cursor is the latest creation time among displayed messages, used to
// reopen the panel after a disconnect. Hub events can arrive out of creation
// order, so this is not necessarily the last message shown.
func (p *Panel) Cursor() *time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.messages) == 0 {
		return nil
	}
	newest := p.newest
	return &newest
}

// Send stores a message as the viewer and shows it right away. Whichever of
// this call and the hub echo arrives second is ignored.
func (p *Panel) Send(ctx context.Context, text string) (*models.Message, error) {
	m, err := p.svc.Send(ctx, p.viewerID, p.orderID, text)
	if err != nil {
		return nil, err
	}
	p.deliver(*m)
	return m, nil
}

func (p *Panel) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.sub.Close()
	})
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/anjiri1684/tutor_market/realtime"
	"github.com/anjiri1684/tutor_market/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MessagingService struct {
	store  repository.Store
	hub    *realtime.Hub
	logger *zap.Logger
}

func NewMessagingService(store repository.Store, hub *realtime.Hub, logger *zap.Logger) *MessagingService {
	return &MessagingService{store: store, hub: hub, logger: logger}
}

func (s *MessagingService) participantOrder(ctx context.Context, viewerID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsParticipant(viewerID) {
		return nil, ErrForbidden
	}
	return order, nil
}

// History returns the conversation oldest first and marks as read every
// message addressed to the viewer.
func (s *MessagingService) History(ctx context.Context, viewerID, orderID uuid.UUID) ([]models.Message, error) {
	if _, err := s.participantOrder(ctx, viewerID, orderID); err != nil {
		return nil, err
	}
	return s.load(ctx, viewerID, orderID, nil)
}

func (s *MessagingService) load(ctx context.Context, viewerID, orderID uuid.UUID, after *time.Time) ([]models.Message, error) {
	messages, err := s.store.ListMessages(ctx, orderID, after)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if _, err := s.store.MarkMessagesRead(ctx, orderID, viewerID); err != nil {
		return nil, fmt.Errorf("mark messages read: %w", err)
	}
	return messages, nil
}

// Send stores one unread message for the other participant and pushes it to
// everyone watching the order.
func (s *MessagingService) Send(ctx context.Context, senderID, orderID uuid.UUID, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	order, err := s.participantOrder(ctx, senderID, orderID)
	if err != nil {
		return nil, err
	}

	message := models.Message{
		OrderID:     order.ID,
		SenderID:    senderID,
		ReceiverID:  order.Counterpart(senderID),
		MessageText: text,
		IsRead:      false,
	}
	if err := s.store.CreateMessage(ctx, &message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.hub.Publish(message)
	s.logger.Debug("message sent", zap.String("order_id", order.ID.String()), zap.String("message_id", message.ID.String()))
	return &message, nil
}

// OpenPanel subscribes to the order before reading its history, so nothing
// inserted in between is lost. With a non-nil after only newer messages are
// loaded, which is how a dropped client catches up.
func (s *MessagingService) OpenPanel(ctx context.Context, viewerID, orderID uuid.UUID, after *time.Time) (*Panel, error) {
	if _, err := s.participantOrder(ctx, viewerID, orderID); err != nil {
		return nil, err
	}

	sub := s.hub.Subscribe(orderID)
	history, err := s.load(ctx, viewerID, orderID, after)
	if err != nil {
		sub.Close()
		return nil, err
	}

	p := newPanel(s, viewerID, orderID, sub, history)
	go p.run()
	return p, nil
}

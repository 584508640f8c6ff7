package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/anjiri1684/tutor_market/services"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SendMessageRequest struct {
	MessageText string `json:"message_text" validate:"required,max=5000"`
}

// chatFrame is every frame exchanged on the order chat socket.
type chatFrame struct {
	Type        string           `json:"type"`
	Token       string           `json:"token,omitempty"`
	OrderID     string           `json:"order_id,omitempty"`
	After       string           `json:"after,omitempty"`
	MessageText string           `json:"message_text,omitempty"`
	Message     *models.Message  `json:"message,omitempty"`
	Messages    []models.Message `json:"messages,omitempty"`
	Cursor      *time.Time       `json:"cursor,omitempty"`
	Error       string           `json:"error,omitempty"`
}

func (h *Handler) GetMessages(c *fiber.Ctx) error {
	orderID, ok, err := paramUUID(c, "orderId")
	if !ok {
		return err
	}
	viewerID, _, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "errors.invalid_credentials")
	}

	messages, err := h.Messaging.History(c.UserContext(), viewerID, orderID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(messages)
}

func (h *Handler) SendMessage(c *fiber.Ctx) error {
	orderID, ok, err := paramUUID(c, "orderId")
	if !ok {
		return err
	}
	var req SendMessageRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	senderID, _, err := currentUser(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "errors.invalid_credentials")
	}

	message, err := h.Messaging.Send(c.UserContext(), senderID, orderID, req.MessageText)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

// UpgradeChat lets only websocket upgrades through to the chat route.
func UpgradeChat(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ServeOrderChat runs one order conversation over a websocket. The first
// frame authenticates and names the order:
//
//	{"type":"auth","token":"<jwt>","order_id":"<uuid>","after":"<RFC3339 cursor, optional>"}
//
// The server answers with a history frame, then pushes message frames. Client
// frames of type send store a message. When the server drops a slow client it
// sends a reconnect frame carrying the cursor to resume from.
func (h *Handler) ServeOrderChat(c *websocket.Conn) {
	loc := h.Catalog.Localizer(h.Catalog.Match(c.Query("lang"), ""))
	defer c.Close()

	var writeMu sync.Mutex
	write := func(frame chatFrame) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return c.WriteJSON(frame)
	}
	writeError := func(err error) {
		_, key := classify(err)
		_ = write(chatFrame{Type: "error", Error: loc.T(key)})
	}

	var auth chatFrame
	if err := c.ReadJSON(&auth); err != nil || auth.Type != "auth" {
		h.Logger.Debug("chat auth frame missing", zap.Error(err))
		writeError(services.ErrInvalidCredentials)
		return
	}
	userID, _, err := h.Auth.ParseToken(auth.Token)
	if err != nil {
		writeError(err)
		return
	}
	orderID, err := uuid.Parse(auth.OrderID)
	if err != nil {
		writeError(services.ErrNotFound)
		return
	}
	var after *time.Time
	if auth.After != "" {
		cursor, err := time.Parse(time.RFC3339Nano, auth.After)
		if err != nil {
			writeError(services.ErrInvalidInput)
			return
		}
		after = &cursor
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	panel, err := h.Messaging.OpenPanel(ctx, userID, orderID, after)
	if err != nil {
		writeError(err)
		return
	}
	defer panel.Close()

	if err := write(chatFrame{Type: "history", Messages: panel.Messages()}); err != nil {
		return
	}
	h.Logger.Info("chat opened", zap.String("order_id", orderID.String()), zap.String("user_id", userID.String()))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for m := range panel.Events() {
			msg := m
			if err := write(chatFrame{Type: "message", Message: &msg}); err != nil {
				return
			}
		}
		select {
		case <-ctx.Done():
		default:
			// the hub dropped us; tell the client where to resume
			_ = write(chatFrame{Type: "reconnect", Cursor: panel.Cursor()})
			_ = c.Close()
		}
	}()

	for {
		var frame chatFrame
		if err := c.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logger.Warn("chat read error", zap.String("order_id", orderID.String()), zap.Error(err))
			}
			break
		}
		if frame.Type != "send" {
			continue
		}
		if _, err := panel.Send(ctx, frame.MessageText); err != nil {
			writeError(err)
		}
	}

	cancel()
	panel.Close()
	<-done
}

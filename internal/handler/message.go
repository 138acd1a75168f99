package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/novaschool/parent-portal/internal/metrics"
	"github.com/novaschool/parent-portal/internal/model"
	"github.com/novaschool/parent-portal/internal/queue"
)

// MessageHandler serves the direct-messaging endpoints available to
// every authenticated user.
type MessageHandler struct {
	Messages MessageStore
	Users    UserStore
	Events   EventPublisher
}

func NewMessageHandler(m MessageStore, u UserStore, ev EventPublisher) *MessageHandler {
	return &MessageHandler{Messages: m, Users: u, Events: ev}
}

type sendMessageReq struct {
	RecipientID uint64  `json:"recipient_id" validate:"required"`
	StudentID   *uint64 `json:"student_id"`
	Subject     string  `json:"subject" validate:"required,min=1"`
	Content     string  `json:"content" validate:"required,min=1"`
}

// List returns every message the caller sent or received, newest
// first.
func (h *MessageHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Messages.ListByUser(ctx, callerID(c))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, emptyList(out))
}

// Send creates a direct message from the caller. The sender is always
// the authenticated user, never taken from the body.
func (h *MessageHandler) Send(c echo.Context) error {
	var req sendMessageReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, req.RecipientID); err != nil {
		return repoError(c, err)
	}

	m := model.Message{
		SenderID:    callerID(c),
		RecipientID: req.RecipientID,
		StudentID:   req.StudentID,
		Subject:     req.Subject,
		Content:     req.Content,
	}
	if err := h.Messages.Create(ctx, &m); err != nil {
		return repoError(c, err)
	}

	metrics.MessagesSent.WithLabelValues("direct").Inc()
	h.publish(queue.MessageCreatedEvent{
		Kind:         "direct",
		SenderID:     m.SenderID,
		RecipientIDs: []uint64{m.RecipientID},
		Subject:      m.Subject,
		SentAt:       m.CreatedAt.UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusCreated, m)
}

// MarkRead flips the read flag on a message. Any authenticated user
// may mark any message read; the flag never reverts.
func (h *MessageHandler) MarkRead(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid message id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Messages.GetByID(ctx, id); err != nil {
		return repoError(c, err)
	}
	if err := h.Messages.MarkRead(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// UnreadCount returns how many received messages are still unread,
// for the inbox badge.
func (h *MessageHandler) UnreadCount(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Messages.UnreadCount(ctx, callerID(c))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}

// Teachers lists the staff accounts a parent can address messages to.
func (h *MessageHandler) Teachers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Users.ListStaff(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, emptyList(out))
}

// publish fires the broker event without blocking or failing the
// request.
func (h *MessageHandler) publish(ev queue.MessageCreatedEvent) {
	if h.Events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.Events.PublishMessageCreated(ctx, ev)
	}()
}

package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stillhouse/domain"
	"stillhouse/internal/api/presenters"
	"stillhouse/pkg/realtime"
	"stillhouse/pkg/session"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const keepAliveInterval = 15 * time.Second

type (
	StreamHandler interface {
		Stream(c *fiber.Ctx) error
	}

	streamHandler struct {
		sessions *session.Manager
		logger   *zap.Logger
	}
)

func NewStreamHandler(sessions *session.Manager, logger *zap.Logger) StreamHandler {
	return &streamHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// Stream sends a snapshot event with the full collection on connect and
// after every change, until the client goes away or the session is closed.
func (h *streamHandler) Stream(c *fiber.Ctx) error {
	sessionID := c.Locals("session_id").(string)
	userID := c.Locals("user_id").(string)
	collection := c.Params("collection")
	expiresAt, _ := c.Locals("token_exp").(time.Time)

	s := h.sessions.Open(sessionID, userID, expiresAt)
	// the subscription outlives this handler; the stream writer releases it
	sub, err := s.Subscribe(context.WithoutCancel(c.UserContext()), collection)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrUnknownCollection):
			status = fiber.StatusNotFound
		case errors.Is(err, domain.ErrSessionClosed):
			status = fiber.StatusUnauthorized
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedSubscribe, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer s.Release(sub)

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		for {
			select {
			case snap, ok := <-sub.C:
				if !ok {
					return
				}
				s.Remember(snap)
				if err := writeSnapshot(w, snap); err != nil {
					h.logger.Debug("stream closed", zap.String("collection", collection), zap.Error(err))
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeSnapshot(w *bufio.Writer, snap realtime.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}

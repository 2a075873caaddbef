package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"contribution-hub/internal/adapters/persistence/repositories"
	"contribution-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// EventHandler streams store change events to dashboards
type EventHandler struct {
	notifier  repositories.ChangeNotifier
	heartbeat time.Duration
}

// NewEventHandler creates a new event handler
func NewEventHandler(notifier repositories.ChangeNotifier) *EventHandler {
	return &EventHandler{notifier: notifier, heartbeat: 25 * time.Second}
}

// Stream sends one "change" event per rewritten collection
// @Summary Change stream
// @Description Server-sent events naming each collection as it is rewritten; clients re-fetch on receipt
// @Tags Events
// @Produce text/event-stream
// @Security BearerAuth
// @Param token query string false "Access token for EventSource clients"
// @Success 200 {string} string "event stream"
// @Router /events [get]
func (h *EventHandler) Stream(c *fiber.Ctx) error {
	ctx, cancel := context.WithCancel(context.Background())
	events, err := h.notifier.Subscribe(ctx)
	if err != nil {
		cancel()
		log.Printf("❌ Change subscription failed: %v", err)
		return response.InternalServerError(c, "Event stream unavailable")
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	heartbeat := h.heartbeat
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		fmt.Fprint(w, ": connected\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				payload, err := json.Marshal(event)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
			}

			// A failed flush means the client went away
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))

	return nil
}

package handlers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/biosecret/go-tasks/events"
)

const (
	sseBuffer = 16
	sseRetry  = 15000
)

func formatSSEMessage(ev events.Event) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(ev); err != nil {
		return "", err
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("event: %s\n", ev.Type))
	sb.WriteString(fmt.Sprintf("retry: %d\n", sseRetry))
	sb.WriteString(fmt.Sprintf("data: %s\n\n", strings.TrimRight(buf.String(), "\n")))
	return sb.String(), nil
}

// HandleTaskEvents godoc
// @Summary Stream task changes
// @Description Server-Sent Events: task.created, task.updated, task.deleted.
// @Tags Tasks
// @Produce text/event-stream
// @Success 200 {string} string "event stream"
// @Router /tasks/events [get]
func (h *Handler) HandleTaskEvents(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	sub := h.events.Subscribe(sseBuffer)
	notify := c.Context().Done()
	log := h.log.WithField("remote", c.IP())
	log.Debug("event stream opened")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		keepAlive := time.NewTicker(h.keepAlive)
		defer keepAlive.Stop()
		defer sub.Close()

		for {
			select {
			case <-notify:
				return
			case ev, ok := <-sub.C:
				if !ok {
					log.Debug("event stream closed by broker")
					return
				}
				msg, err := formatSSEMessage(ev)
				if err != nil {
					log.WithError(err).Warn("format sse message")
					continue
				}
				if _, err := w.WriteString(msg); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					log.Debug("event stream client gone")
					return
				}
			case <-keepAlive.C:
				if _, err := w.WriteString(":keepalive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					log.Debug("event stream client gone")
					return
				}
			}
		}
	}))

	return nil
}

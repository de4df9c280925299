package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/campusbites/campusbites-client/internal/realtime"
	pkgerrors "github.com/campusbites/campusbites-client/pkg/errors"
	"github.com/campusbites/campusbites-client/pkg/logger"
	"github.com/campusbites/campusbites-client/web/responses"
)

type eventSource interface {
	On(event string, handler realtime.Handler) *realtime.Subscription
	Off(sub *realtime.Subscription)
	State() realtime.State
	IsConnected() bool
}

// browserEvents are the upstream events forwarded to pages over SSE.
var browserEvents = []string{
	realtime.EventOrderWaiting,
	realtime.EventOrderTaken,
	realtime.EventPickerUpdate,
}

const heartbeatInterval = 25 * time.Second

type sseMessage struct {
	event string
	data  json.RawMessage
}

// EventStream bridges the upstream event socket to the browser as
// server-sent events. Each open page holds its own subscriptions; closing
// the page tears them down.
func EventStream(src eventSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		// A slow page drops messages rather than blocking the dispatch
		// goroutine.
		messages := make(chan sseMessage, 16)
		subs := make([]*realtime.Subscription, 0, len(browserEvents))
		for _, event := range browserEvents {
			event := event
			subs = append(subs, src.On(event, func(data json.RawMessage) {
				select {
				case messages <- sseMessage{event: event, data: data}:
				default:
				}
			}))
		}
		defer func() {
			for _, sub := range subs {
				src.Off(sub)
			}
		}()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-heartbeat.C:
				fmt.Fprint(w, ": keepalive\n\n")
				flusher.Flush()
			case msg := <-messages:
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.event, msg.data)
				flusher.Flush()
			}
		}
	}
}

// RealtimeStatus reports the upstream socket state as JSON for page scripts.
func RealtimeStatus(src eventSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"state":     src.State().String(),
			"connected": src.IsConnected(),
		})
	}
}

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/hireloop/interview-core-go/internal/errors"
	"github.com/hireloop/interview-core-go/internal/stream"
	"github.com/hireloop/interview-core-go/internal/util"
)

// EventsHandler streams persisted suggestions for one session to dashboard
// clients over SSE.
type EventsHandler struct {
	broker *stream.Broker
}

func NewEventsHandler(broker *stream.Broker) *EventsHandler {
	return &EventsHandler{broker: broker}
}

// GET /v1/sessions/{sessionID}/suggestions/events
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if !util.IsValidUUID(sessionID) {
		writeError(w, apperrors.ValidationError("Invalid session id"))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, apperrors.Internal("Streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := h.broker.Subscribe(sessionID)
	defer h.broker.Unsubscribe(client)

	log.Info().
		Str("sessionId", sessionID).
		Msg("suggestion stream connection established")

	h.sendEvent(w, flusher, "connected", map[string]string{"sessionId": sessionID})

	ctx := r.Context()
	heartbeat := time.NewTicker(stream.HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().
				Str("sessionId", sessionID).
				Msg("suggestion stream connection closed")
			return

		case <-client.Done:
			return

		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()

		case event := <-client.Events:
			h.sendEvent(w, flusher, event.Type, event.Data)
		}
	}
}

func (h *EventsHandler) sendEvent(w http.ResponseWriter, flusher http.Flusher, eventType string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("marshal sse event")
		return
	}

	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
	flusher.Flush()
}

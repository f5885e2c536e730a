package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/WellArtDev/absenin-project-sub000/internal/domain/message"
	"github.com/WellArtDev/absenin-project-sub000/internal/handler/http/response"
	"github.com/WellArtDev/absenin-project-sub000/internal/pkg/geo"
	"github.com/WellArtDev/absenin-project-sub000/internal/service/webhook"
)

type WebhookHandler interface {
	ReceiveMessage(w http.ResponseWriter, r *http.Request)
}

type webhookHandlerImpl struct {
	processor      *webhook.Processor
	token          string
	processTimeout time.Duration
}

func NewWebhookHandler(processor *webhook.Processor, token string) WebhookHandler {
	return &webhookHandlerImpl{
		processor:      processor,
		token:          token,
		processTimeout: 2 * time.Minute,
	}
}

type inboundPayload struct {
	SenderPhone string `json:"sender_phone"`
	Text        string `json:"text"`
	DeviceLine  string `json:"device_line,omitempty"`
	Location    *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location,omitempty"`
	Image string `json:"image,omitempty"`
}

// ReceiveMessage implements WebhookHandler. The provider is acknowledged
// immediately; the state machine runs on its own goroutine so a slow selfie
// or geocode call can never make the provider redeliver out of impatience.
func (h *webhookHandlerImpl) ReceiveMessage(w http.ResponseWriter, r *http.Request) {
	if h.token != "" {
		got := r.Header.Get("X-Webhook-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
			response.Unauthorized(w, "Invalid webhook token")
			return
		}
	}

	var payload inboundPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.Warn("failed to decode webhook payload", "error", err)
		response.BadRequest(w, "Invalid payload")
		return
	}

	ev := message.InboundEvent{
		SenderPhone: payload.SenderPhone,
		Text:        payload.Text,
		DeviceLine:  payload.DeviceLine,
		Image:       payload.Image,
	}
	if payload.Location != nil {
		ev.Location = &geo.Point{
			Latitude:  payload.Location.Latitude,
			Longitude: payload.Location.Longitude,
		}
	}

	// Delivery id ties the accept log line to the async processing logs.
	deliveryID := uuid.NewString()
	slog.Info("webhook delivery accepted", "delivery_id", deliveryID, "device_line", payload.DeviceLine)

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.processTimeout)
		defer cancel()
		h.processor.Process(ctx, ev)
		slog.Debug("webhook delivery processed", "delivery_id", deliveryID)
	}()

	response.Success(w, "Message received")
}

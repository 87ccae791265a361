package api

import (
	"encoding/json"
	"net/http"

	"golang.org/x/time/rate"

	"parkscan/internal/entities"
	apperrors "parkscan/internal/errors"
	"parkscan/internal/service"
)

// WebhookHandler receives order webhooks from the e-commerce platform.
// The endpoint is public (webhook senders cannot authenticate), so it
// carries a rate limit.
type WebhookHandler struct {
	Service *service.WebhookService
	limiter *rate.Limiter
}

func NewWebhookHandler(svc *service.WebhookService, requestsPerSecond int) *WebhookHandler {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}
	return &WebhookHandler{
		Service: svc,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond*2),
	}
}

func (h *WebhookHandler) HandleOrder(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: "Too many requests"})
		return
	}

	var req entities.OrderWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidArgument("Invalid request body"))
		return
	}

	result, err := h.Service.IngestOrder(&req)
	if err != nil {
		writeError(w, err)
		return
	}

	// Redelivered orders answer 409 but still carry the existing
	// reservation so retrying senders get usable data.
	status := http.StatusCreated
	message := "Reservation created successfully"
	if !result.Created {
		status = http.StatusConflict
		message = "Reservation already exists for this order"
	}
	writeJSON(w, status, OrderWebhookResponse{
		Message:       message,
		Reservation:   result.Reservation,
		QRCodeDataURL: result.Reservation.QRCodeDataURL,
	})
}

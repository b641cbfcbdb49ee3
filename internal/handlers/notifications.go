package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/teslys/teslys-backend/internal/db"
	"github.com/teslys/teslys-backend/internal/middleware"
	"github.com/teslys/teslys-backend/internal/models"
	"github.com/teslys/teslys-backend/internal/notify"
)

// NotificationHandler manages the push subscription lifecycle for the
// authenticated user.
type NotificationHandler struct {
	subscriptions db.SubscriptionCollection
	events        *notify.Events
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(subscriptions db.SubscriptionCollection, events *notify.Events) *NotificationHandler {
	return &NotificationHandler{subscriptions: subscriptions, events: events}
}

type subscribeRequest struct {
	DeviceToken string `json:"device_token"`
	Platform    string `json:"platform"`
}

// Subscribe registers a device token for push delivery.
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req subscribeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.DeviceToken == "" {
		http.Error(w, "device_token is required", http.StatusBadRequest)
		return
	}
	if req.Platform == "" {
		req.Platform = "web"
	}

	sub := models.PushSubscription{
		UserID:      claims.UserID,
		DeviceToken: req.DeviceToken,
		Platform:    req.Platform,
	}
	if err := h.subscriptions.InsertSubscription(r.Context(), sub); err != nil {
		log.WithError(err).Error("Failed to store push subscription")
		http.Error(w, "Failed to subscribe", http.StatusInternalServerError)
		return
	}

	h.events.EmitToken(notify.TokenEvent{UserID: claims.UserID, DeviceToken: req.DeviceToken})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "Subscribed successfully"})
}

// Unsubscribe revokes a device token.
func (h *NotificationHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req subscribeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.DeviceToken == "" {
		http.Error(w, "device_token is required", http.StatusBadRequest)
		return
	}

	if err := h.subscriptions.DeleteSubscription(r.Context(), claims.UserID, req.DeviceToken); err != nil {
		log.WithError(err).Error("Failed to delete push subscription")
		http.Error(w, "Failed to unsubscribe", http.StatusInternalServerError)
		return
	}

	h.events.EmitToken(notify.TokenEvent{UserID: claims.UserID, DeviceToken: req.DeviceToken, Revoked: true})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Unsubscribed successfully"})
}

// ListSubscriptions returns the caller's registered device tokens.
func (h *NotificationHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	subs, err := h.subscriptions.FindSubscriptionsByUser(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to fetch subscriptions", http.StatusInternalServerError)
		return
	}
	if subs == nil {
		subs = []models.PushSubscription{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(subs)
}

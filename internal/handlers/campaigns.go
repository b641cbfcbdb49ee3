package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/teslys/teslys-backend/internal/attribution"
	"github.com/teslys/teslys-backend/internal/db"
	"github.com/teslys/teslys-backend/internal/mailer"
	"github.com/teslys/teslys-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// CampaignHandler sends admin email campaigns to hosts and clients.
type CampaignHandler struct {
	users       db.UserCollection
	sender      mailer.Sender
	attribution *attribution.Client
}

// NewCampaignHandler creates a new campaign handler. The attribution client
// may be nil when marketing analytics is disabled.
func NewCampaignHandler(users db.UserCollection, sender mailer.Sender, attributionClient *attribution.Client) *CampaignHandler {
	return &CampaignHandler{users: users, sender: sender, attribution: attributionClient}
}

// CampaignRequest is an admin campaign payload. Audience selects recipients
// by role; empty means everyone.
type CampaignRequest struct {
	Subject  string      `json:"subject"`
	Body     string      `json:"body"`
	Audience models.Role `json:"audience,omitempty"`
}

// SendCampaign fans an email campaign out to the selected audience. Admin
// only (enforced by route middleware).
func (h *CampaignHandler) SendCampaign(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req CampaignRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Subject == "" || req.Body == "" {
		http.Error(w, "Subject and body are required", http.StatusBadRequest)
		return
	}
	if req.Audience != "" && !models.IsValidRole(req.Audience) {
		http.Error(w, "Invalid audience", http.StatusBadRequest)
		return
	}

	filter := bson.M{"is_active": true}
	if req.Audience != "" {
		filter["role"] = req.Audience
	}

	cursor, err := h.users.FindUsers(r.Context(), filter)
	if err != nil {
		log.WithError(err).Error("Failed to query campaign audience")
		http.Error(w, "Failed to fetch recipients", http.StatusInternalServerError)
		return
	}

	var users []models.User
	if err := cursor.All(r.Context(), &users); err != nil {
		http.Error(w, "Failed to decode recipients", http.StatusInternalServerError)
		return
	}

	recipients := make([]string, 0, len(users))
	for _, u := range users {
		if u.Email != "" {
			recipients = append(recipients, u.Email)
		}
	}

	result := mailer.SendCampaign(r.Context(), h.sender, recipients, req.Subject, req.Body)

	if h.attribution != nil && h.attribution.Initialized() {
		event := attribution.Event{
			Name:   attribution.EventCampaignOpen,
			Params: map[string]interface{}{"subject": req.Subject, "recipients": len(recipients)},
		}
		if err := h.attribution.Track(r.Context(), event); err != nil {
			log.WithError(err).Warn("Failed to track campaign event")
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/teslys/teslys-backend/internal/db"
	"github.com/teslys/teslys-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClaimHandler handles insurance claim records. Hosts file claims; admins
// review them.
type ClaimHandler struct {
	claims   db.ClaimCollection
	cars     db.CarCollection
	notifier ConflictNotifier
}

// NewClaimHandler creates a new claim handler.
func NewClaimHandler(claims db.ClaimCollection, cars db.CarCollection, notifier ConflictNotifier) *ClaimHandler {
	return &ClaimHandler{claims: claims, cars: cars, notifier: notifier}
}

// CreateClaim files a new claim. Status always starts out pending.
func (h *ClaimHandler) CreateClaim(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var claim models.Claim
	if err := json.Unmarshal(body, &claim); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if claim.CarID == "" {
		http.Error(w, "car_id is required", http.StatusBadRequest)
		return
	}
	if claim.ClaimedAmount <= 0 {
		http.Error(w, "claimed_amount must be positive", http.StatusBadRequest)
		return
	}

	claim.ID = primitive.NewObjectID()
	claim.Status = models.ClaimStatusPending
	if err := h.claims.InsertClaim(r.Context(), claim); err != nil {
		log.WithError(err).Error("Failed to insert claim")
		http.Error(w, "Failed to create claim", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(claim)
}

// ListClaims returns claim records, optionally filtered by car or status.
func (h *ClaimHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if carID := r.URL.Query().Get("car_id"); carID != "" {
		filter["car_id"] = carID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.claims.FindClaims(r.Context(), filter)
	if err != nil {
		log.WithError(err).Error("Failed to query claims")
		http.Error(w, "Failed to fetch claims", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	claims := []models.Claim{}
	if err := cursor.All(r.Context(), &claims); err != nil {
		http.Error(w, "Failed to decode claims", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(claims)
}

// GetClaim returns a single claim.
func (h *ClaimHandler) GetClaim(w http.ResponseWriter, r *http.Request) {
	claim, err := h.claims.FindClaimByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Claim not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(claim)
}

// ReviewClaim transitions a claim's status. Admin only (enforced by route
// middleware); an approval may record the approved amount.
func (h *ClaimHandler) ReviewClaim(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var reviewReq struct {
		Status         models.ClaimStatus `json:"status"`
		ApprovedAmount *float64           `json:"approved_amount,omitempty"`
	}
	if err := json.Unmarshal(body, &reviewReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if !models.IsValidClaimStatus(reviewReq.Status) {
		http.Error(w, "Invalid claim status", http.StatusBadRequest)
		return
	}

	if err := h.claims.UpdateClaimStatus(r.Context(), id, reviewReq.Status, reviewReq.ApprovedAmount); err != nil {
		http.Error(w, "Failed to update claim", http.StatusInternalServerError)
		return
	}

	log.WithFields(log.Fields{"claim_id": id, "status": reviewReq.Status}).Info("Claim reviewed")
	h.notifyClaimUpdate(r.Context(), id, reviewReq.Status)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Claim updated successfully"})
}

// DeleteClaim removes a claim record.
func (h *ClaimHandler) DeleteClaim(w http.ResponseWriter, r *http.Request) {
	if err := h.claims.DeleteClaim(r.Context(), r.PathValue("id")); err != nil {
		http.Error(w, "Failed to delete claim", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Claim deleted successfully"})
}

// notifyClaimUpdate pushes the review outcome to the car's owner. Best
// effort: failures are logged only.
func (h *ClaimHandler) notifyClaimUpdate(ctx context.Context, claimID string, status models.ClaimStatus) {
	if h.notifier == nil {
		return
	}

	claim, err := h.claims.FindClaimByID(ctx, claimID)
	if err != nil {
		return
	}
	car, err := h.cars.FindCarByID(ctx, claim.CarID)
	if err != nil {
		return
	}

	n := models.Notification{
		UserID:    car.ClientID,
		Kind:      models.NotificationClaimUpdate,
		Title:     "Claim update",
		Body:      fmt.Sprintf("Your claim for the %s %s is now %s", car.Make, car.Model, status),
		CreatedAt: time.Now(),
	}
	if err := h.notifier.Notify(ctx, n); err != nil {
		log.WithError(err).Warn("Failed to push claim update")
	}
}

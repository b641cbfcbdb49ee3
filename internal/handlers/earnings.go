package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/teslys/teslys-backend/internal/analytics"
	"github.com/teslys/teslys-backend/internal/db"
	"github.com/teslys/teslys-backend/internal/middleware"
	"github.com/teslys/teslys-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConflictNotifier delivers a user-facing warning when a booking conflict is
// detected. A nil notifier disables delivery.
type ConflictNotifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// EarningHandler handles earning records and booking date validation.
type EarningHandler struct {
	earnings db.EarningCollection
	expenses db.ExpenseCollection
	notifier ConflictNotifier
}

// NewEarningHandler creates a new earning handler.
func NewEarningHandler(earnings db.EarningCollection, expenses db.ExpenseCollection, notifier ConflictNotifier) *EarningHandler {
	return &EarningHandler{earnings: earnings, expenses: expenses, notifier: notifier}
}

// ValidateDatesRequest is the payload for a booking date check.
type ValidateDatesRequest struct {
	CarID     string    `json:"car_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	ExcludeID string    `json:"exclude_id,omitempty"`
}

// ValidateDates checks a candidate booking range against existing earnings
// for the car. Conflicts are reported in the response and surfaced to the
// caller as a push warning.
func (h *EarningHandler) ValidateDates(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req ValidateDatesRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	result := analytics.ValidateDates(r.Context(), h.earnings, req.CarID, req.StartDate, req.EndDate, req.ExcludeID)
	h.warnOnConflict(r.Context(), &result)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// warnOnConflict pushes a booking-conflict warning to the caller. Delivery
// failures are logged, never returned: the validation result already carries
// the conflicts.
func (h *EarningHandler) warnOnConflict(ctx context.Context, result *analytics.DateValidation) {
	if h.notifier == nil || result.IsValid || len(result.Conflicts) == 0 {
		return
	}

	claims, ok := middleware.GetUserFromContext(ctx)
	if !ok {
		return
	}

	n := models.Notification{
		UserID:    claims.UserID,
		Kind:      models.NotificationBookingConflict,
		Title:     "Booking conflict",
		Body:      fmt.Sprintf("The selected dates overlap %d existing booking(s) for this car", len(result.Conflicts)),
		CreatedAt: time.Now(),
	}
	if err := h.notifier.Notify(ctx, n); err != nil {
		log.WithError(err).Warn("Failed to push booking conflict warning")
	}
}

// CreateEarning records a completed trip's revenue. The booking range is
// validated against existing earnings before insert.
func (h *EarningHandler) CreateEarning(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var earning models.Earning
	if err := json.Unmarshal(body, &earning); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	result := analytics.ValidateDates(r.Context(), h.earnings, earning.CarID, earning.PeriodStart, earning.PeriodEnd, "")
	if !result.IsValid {
		h.warnOnConflict(r.Context(), &result)
		writeDateConflict(w, &result)
		return
	}

	earning.ID = primitive.NewObjectID()
	if err := h.earnings.InsertEarning(r.Context(), earning); err != nil {
		log.WithError(err).Error("Failed to insert earning")
		http.Error(w, "Failed to create earning", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(earning)
}

// ListEarnings returns earning records, optionally filtered by car.
func (h *EarningHandler) ListEarnings(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if carID := r.URL.Query().Get("car_id"); carID != "" {
		filter["car_id"] = carID
	}

	cursor, err := h.earnings.FindEarnings(r.Context(), filter)
	if err != nil {
		log.WithError(err).Error("Failed to query earnings")
		http.Error(w, "Failed to fetch earnings", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	earnings := []models.Earning{}
	if err := cursor.All(r.Context(), &earnings); err != nil {
		http.Error(w, "Failed to decode earnings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(earnings)
}

// GetEarning returns one earning record, with its matched-expense breakdown.
func (h *EarningHandler) GetEarning(w http.ResponseWriter, r *http.Request) {
	earning, err := h.earnings.FindEarningByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Earning not found", http.StatusNotFound)
		return
	}

	expenses, err := h.tripExpenses(r.Context(), earning)
	if err != nil {
		log.WithError(err).Error("Failed to query trip expenses")
		http.Error(w, "Failed to fetch trip expenses", http.StatusInternalServerError)
		return
	}

	response := struct {
		models.Earning
		NetAmount   float64 `json:"net_amount"`
		ClientShare float64 `json:"client_share"`
	}{
		Earning:     *earning,
		NetAmount:   analytics.NetEarningAmount(earning, expenses),
		ClientShare: analytics.ClientShare(earning, expenses),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// UpdateEarning replaces an earning record. The record being edited is
// excluded from its own conflict check.
func (h *EarningHandler) UpdateEarning(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var earning models.Earning
	if err := json.Unmarshal(body, &earning); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	result := analytics.ValidateDates(r.Context(), h.earnings, earning.CarID, earning.PeriodStart, earning.PeriodEnd, id)
	if !result.IsValid {
		h.warnOnConflict(r.Context(), &result)
		writeDateConflict(w, &result)
		return
	}

	if err := h.earnings.UpdateEarning(r.Context(), id, earning); err != nil {
		http.Error(w, "Failed to update earning", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Earning updated successfully"})
}

// DeleteEarning removes an earning record.
func (h *EarningHandler) DeleteEarning(w http.ResponseWriter, r *http.Request) {
	if err := h.earnings.DeleteEarning(r.Context(), r.PathValue("id")); err != nil {
		http.Error(w, "Failed to delete earning", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Earning deleted successfully"})
}

// tripExpenses loads the expense rows joined to an earning's trip.
func (h *EarningHandler) tripExpenses(ctx context.Context, earning *models.Earning) ([]models.Expense, error) {
	if earning.TripID == nil || *earning.TripID == "" {
		return nil, nil
	}

	cursor, err := h.expenses.FindExpenses(ctx, bson.M{"trip_id": *earning.TripID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var expenses []models.Expense
	if err := cursor.All(ctx, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// writeDateConflict responds with the validation outcome. Field errors are
// 400s; overlapping bookings are 409s.
func writeDateConflict(w http.ResponseWriter, result *analytics.DateValidation) {
	status := http.StatusConflict
	if result.Error != "" {
		status = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(result)
}

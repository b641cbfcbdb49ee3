package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/teslys/teslys-backend/internal/db"
	"github.com/teslys/teslys-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExpenseHandler handles expense records.
type ExpenseHandler struct {
	expenses db.ExpenseCollection
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(expenses db.ExpenseCollection) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// expenseResponse always carries the recomputed total; the stored components
// are the source of truth, never a persisted sum.
type expenseResponse struct {
	models.Expense
	Total float64 `json:"total"`
}

func toExpenseResponse(e models.Expense) expenseResponse {
	return expenseResponse{Expense: e, Total: e.Total()}
}

// CreateExpense records a cost entry, optionally tied to a trip.
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var expense models.Expense
	if err := json.Unmarshal(body, &expense); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if expense.CarID == "" {
		http.Error(w, "car_id is required", http.StatusBadRequest)
		return
	}

	expense.ID = primitive.NewObjectID()
	if err := h.expenses.InsertExpense(r.Context(), expense); err != nil {
		log.WithError(err).Error("Failed to insert expense")
		http.Error(w, "Failed to create expense", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toExpenseResponse(expense))
}

// ListExpenses returns expense records, optionally filtered by car or trip.
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if carID := r.URL.Query().Get("car_id"); carID != "" {
		filter["car_id"] = carID
	}
	if tripID := r.URL.Query().Get("trip_id"); tripID != "" {
		filter["trip_id"] = tripID
	}

	cursor, err := h.expenses.FindExpenses(r.Context(), filter)
	if err != nil {
		log.WithError(err).Error("Failed to query expenses")
		http.Error(w, "Failed to fetch expenses", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	expenses := []models.Expense{}
	if err := cursor.All(r.Context(), &expenses); err != nil {
		http.Error(w, "Failed to decode expenses", http.StatusInternalServerError)
		return
	}

	responses := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		responses = append(responses, toExpenseResponse(e))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// GetExpense returns a single expense record.
func (h *ExpenseHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := h.expenses.FindExpenseByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Expense not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toExpenseResponse(*expense))
}

// UpdateExpense replaces an expense record.
func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var expense models.Expense
	if err := json.Unmarshal(body, &expense); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := h.expenses.UpdateExpense(r.Context(), id, expense); err != nil {
		http.Error(w, "Failed to update expense", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Expense updated successfully"})
}

// DeleteExpense removes an expense record.
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.expenses.DeleteExpense(r.Context(), r.PathValue("id")); err != nil {
		http.Error(w, "Failed to delete expense", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Expense deleted successfully"})
}

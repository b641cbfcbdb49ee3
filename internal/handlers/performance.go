package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/teslys/teslys-backend/internal/analytics"
	"github.com/teslys/teslys-backend/internal/db"
	"github.com/teslys/teslys-backend/internal/middleware"
	"github.com/teslys/teslys-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// PerformanceHandler serves the derived per-car and portfolio aggregates.
// Everything is recomputed from the stored rows on each request.
type PerformanceHandler struct {
	cars     db.CarCollection
	earnings db.EarningCollection
	expenses db.ExpenseCollection
	claims   db.ClaimCollection
}

// NewPerformanceHandler creates a new performance handler.
func NewPerformanceHandler(cars db.CarCollection, earnings db.EarningCollection, expenses db.ExpenseCollection, claims db.ClaimCollection) *PerformanceHandler {
	return &PerformanceHandler{cars: cars, earnings: earnings, expenses: expenses, claims: claims}
}

// GetCarPerformance returns the derived performance record for one car.
func (h *PerformanceHandler) GetCarPerformance(w http.ResponseWriter, r *http.Request) {
	car, err := h.cars.FindCarByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Car not found", http.StatusNotFound)
		return
	}

	earnings, expenses, claims, err := h.carRecords(r.Context(), car.ID.Hex())
	if err != nil {
		log.WithError(err).Error("Failed to load car records")
		http.Error(w, "Failed to fetch car records", http.StatusInternalServerError)
		return
	}

	perf := analytics.CarPerformanceFor(car, earnings, expenses, claims, time.Now())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(perf)
}

// GetPortfolioSummary returns the top-line totals across all of the caller's
// cars. Admins may pass ?client_id= to inspect another client's portfolio.
func (h *PerformanceHandler) GetPortfolioSummary(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	clientID := claims.UserID
	if claims.Role == models.RoleAdmin {
		if q := r.URL.Query().Get("client_id"); q != "" {
			clientID = q
		}
	}

	carIDs, err := h.clientCarIDs(r.Context(), clientID)
	if err != nil {
		log.WithError(err).Error("Failed to load client cars")
		http.Error(w, "Failed to fetch cars", http.StatusInternalServerError)
		return
	}

	var allEarnings []models.Earning
	var allExpenses []models.Expense
	var allClaims []models.Claim
	for _, carID := range carIDs {
		earnings, expenses, carClaims, err := h.carRecords(r.Context(), carID)
		if err != nil {
			log.WithError(err).Error("Failed to load car records")
			http.Error(w, "Failed to fetch car records", http.StatusInternalServerError)
			return
		}
		allEarnings = append(allEarnings, earnings...)
		allExpenses = append(allExpenses, expenses...)
		allClaims = append(allClaims, carClaims...)
	}

	summary := analytics.PortfolioSummaryFor(allEarnings, allExpenses, allClaims)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// carRecords loads all earnings, expenses and claims for one car.
func (h *PerformanceHandler) carRecords(ctx context.Context, carID string) ([]models.Earning, []models.Expense, []models.Claim, error) {
	filter := bson.M{"car_id": carID}

	earningCursor, err := h.earnings.FindEarnings(ctx, filter)
	if err != nil {
		return nil, nil, nil, err
	}
	defer earningCursor.Close(ctx)
	var earnings []models.Earning
	if err := earningCursor.All(ctx, &earnings); err != nil {
		return nil, nil, nil, err
	}

	expenseCursor, err := h.expenses.FindExpenses(ctx, filter)
	if err != nil {
		return nil, nil, nil, err
	}
	defer expenseCursor.Close(ctx)
	var expenses []models.Expense
	if err := expenseCursor.All(ctx, &expenses); err != nil {
		return nil, nil, nil, err
	}

	claimCursor, err := h.claims.FindClaims(ctx, filter)
	if err != nil {
		return nil, nil, nil, err
	}
	defer claimCursor.Close(ctx)
	var claimRecords []models.Claim
	if err := claimCursor.All(ctx, &claimRecords); err != nil {
		return nil, nil, nil, err
	}

	return earnings, expenses, claimRecords, nil
}

// clientCarIDs returns the hex IDs of all cars owned by a client.
func (h *PerformanceHandler) clientCarIDs(ctx context.Context, clientID string) ([]string, error) {
	cursor, err := h.cars.FindCars(ctx, bson.M{"client_id": clientID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cars []models.Car
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(cars))
	for _, car := range cars {
		ids = append(ids, car.ID.Hex())
	}
	return ids, nil
}

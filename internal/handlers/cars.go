package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/teslys/teslys-backend/internal/db"
	"github.com/teslys/teslys-backend/internal/middleware"
	"github.com/teslys/teslys-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CarHandler handles car management requests.
type CarHandler struct {
	cars db.CarCollection
}

// NewCarHandler creates a new car handler.
func NewCarHandler(cars db.CarCollection) *CarHandler {
	return &CarHandler{cars: cars}
}

// CreateCar registers a new car for a client.
func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var car models.Car
	if err := json.Unmarshal(body, &car); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if car.Make == "" || car.Model == "" {
		http.Error(w, "Make and model are required", http.StatusBadRequest)
		return
	}

	if car.Status == "" {
		car.Status = models.CarStatusAvailable
	}
	if !models.IsValidCarStatus(car.Status) {
		http.Error(w, "Invalid car status", http.StatusBadRequest)
		return
	}

	// A client registering a car owns it; admins may register on behalf of
	// a named client.
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	if claims.Role != models.RoleAdmin || car.ClientID == "" {
		car.ClientID = claims.UserID
	}

	car.ID = primitive.NewObjectID()
	if err := h.cars.InsertCar(r.Context(), car); err != nil {
		log.WithError(err).Error("Failed to insert car")
		http.Error(w, "Failed to create car", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(car)
}

// ListCars returns the caller's cars; admins see all cars.
func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	filter := bson.M{}
	if claims.Role != models.RoleAdmin {
		filter["client_id"] = claims.UserID
	}

	cursor, err := h.cars.FindCars(r.Context(), filter)
	if err != nil {
		log.WithError(err).Error("Failed to query cars")
		http.Error(w, "Failed to fetch cars", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	cars := []models.Car{}
	if err := cursor.All(r.Context(), &cars); err != nil {
		http.Error(w, "Failed to decode cars", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cars)
}

// GetCar returns a single car by ID.
func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	car, err := h.cars.FindCarByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "Car not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(car)
}

// UpdateCar updates a car's details.
func (h *CarHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var car models.Car
	if err := json.Unmarshal(body, &car); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if car.Status != "" && !models.IsValidCarStatus(car.Status) {
		http.Error(w, "Invalid car status", http.StatusBadRequest)
		return
	}

	if err := h.cars.UpdateCar(r.Context(), id, car); err != nil {
		http.Error(w, "Failed to update car", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Car updated successfully"})
}

// UpdateCarStatus transitions a car's hosting status. Return requests and
// admin maintenance flows both land here.
func (h *CarHandler) UpdateCarStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var statusReq struct {
		Status models.CarStatus `json:"status"`
	}
	if err := json.Unmarshal(body, &statusReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if !models.IsValidCarStatus(statusReq.Status) {
		http.Error(w, "Invalid car status", http.StatusBadRequest)
		return
	}

	if err := h.cars.UpdateCarStatus(r.Context(), id, statusReq.Status); err != nil {
		http.Error(w, "Failed to update car status", http.StatusInternalServerError)
		return
	}

	log.WithFields(log.Fields{"car_id": id, "status": statusReq.Status}).Info("Car status updated")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Car status updated successfully"})
}

// DeleteCar removes a car.
func (h *CarHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	if err := h.cars.DeleteCar(r.Context(), r.PathValue("id")); err != nil {
		http.Error(w, "Failed to delete car", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Car deleted successfully"})
}

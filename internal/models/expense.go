package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Expense represents a cost entry optionally tied to a trip.
type Expense struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CarID          string             `json:"car_id" bson:"car_id"`
	TripID         *string            `json:"trip_id,omitempty" bson:"trip_id,omitempty"`
	Type           string             `json:"type" bson:"type"`     // "maintenance", "cleaning", "charging", "insurance", "other"
	Amount         float64            `json:"amount" bson:"amount"` // base amount in USD
	TollAmount     float64            `json:"toll_amount" bson:"toll_amount"`
	DeliveryAmount float64            `json:"delivery_amount" bson:"delivery_amount"`
	CarwashAmount  float64            `json:"carwash_amount" bson:"carwash_amount"`
	EVChargeAmount float64            `json:"ev_charge_amount" bson:"ev_charge_amount"`
	Date           time.Time          `json:"date" bson:"date"`
	Notes          string             `json:"notes" bson:"notes"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// Total recomputes the full expense as the sum of all five cost components.
// No persisted total is ever trusted.
func (e *Expense) Total() float64 {
	return e.Amount + e.TollAmount + e.DeliveryAmount + e.CarwashAmount + e.EVChargeAmount
}

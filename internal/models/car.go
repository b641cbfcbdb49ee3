package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// CarStatus represents the hosting state of a car.
type CarStatus string

const (
	CarStatusAvailable   CarStatus = "available"
	CarStatusHosted      CarStatus = "hosted"
	CarStatusMaintenance CarStatus = "maintenance"
	CarStatusUnavailable CarStatus = "unavailable"
)

// IsValidCarStatus checks if a car status is one of the known states.
func IsValidCarStatus(status CarStatus) bool {
	switch status {
	case CarStatusAvailable, CarStatusHosted, CarStatusMaintenance, CarStatusUnavailable:
		return true
	default:
		return false
	}
}

// Car represents a client-owned vehicle under a hosting arrangement.
type Car struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID         string             `bson:"client_id" json:"client_id"`
	HostID           string             `bson:"host_id,omitempty" json:"host_id,omitempty"`
	Make             string             `bson:"make" json:"make"`
	Model            string             `bson:"model" json:"model"`
	Year             int                `bson:"year" json:"year"`
	Status           CarStatus          `bson:"status" json:"status"`
	MonthlyFixedCost float64            `bson:"monthly_fixed_cost" json:"monthly_fixed_cost"` // in USD
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultClientProfitPercent is applied when an earning carries no explicit
// profit percentage. A missing percentage means the standard 70/30 split,
// not a 0% share.
const DefaultClientProfitPercent = 70.0

// Earning represents one completed hosting trip's revenue record.
type Earning struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CarID               string             `json:"car_id" bson:"car_id"`
	TripID              *string            `json:"trip_id,omitempty" bson:"trip_id,omitempty"`
	PeriodStart         time.Time          `json:"period_start" bson:"period_start"`
	PeriodEnd           time.Time          `json:"period_end" bson:"period_end"`
	GrossAmount         float64            `json:"gross_amount" bson:"gross_amount"` // in USD
	ClientProfitPercent *float64           `json:"client_profit_percent,omitempty" bson:"client_profit_percent,omitempty"`
	GuestName           string             `json:"guest_name" bson:"guest_name"`
	GuestPhone          string             `json:"guest_phone" bson:"guest_phone"`
	GuestEmail          string             `json:"guest_email" bson:"guest_email"`
	CreatedAt           time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at" bson:"updated_at"`
}

// ProfitPercent returns the earning's client profit percentage, defaulting
// to DefaultClientProfitPercent when none was recorded.
func (e *Earning) ProfitPercent() float64 {
	if e.ClientProfitPercent == nil {
		return DefaultClientProfitPercent
	}
	return *e.ClientProfitPercent
}

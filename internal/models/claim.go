package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClaimStatus represents the review state of an insurance claim.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusDenied   ClaimStatus = "denied"
	ClaimStatusClosed   ClaimStatus = "closed"
)

// IsValidClaimStatus checks if a claim status is one of the known states.
func IsValidClaimStatus(status ClaimStatus) bool {
	switch status {
	case ClaimStatusPending, ClaimStatusApproved, ClaimStatusDenied, ClaimStatusClosed:
		return true
	default:
		return false
	}
}

// Claim represents an insurance claim record for a hosted car.
type Claim struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CarID          string             `json:"car_id" bson:"car_id"`
	Status         ClaimStatus        `json:"status,omitempty" bson:"status,omitempty"`
	ClaimedAmount  float64            `json:"claimed_amount" bson:"claimed_amount"` // in USD
	ApprovedAmount *float64           `json:"approved_amount,omitempty" bson:"approved_amount,omitempty"`
	Description    string             `json:"description" bson:"description"`
	IncidentDate   time.Time          `json:"incident_date" bson:"incident_date"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// EffectiveStatus returns the claim's status, treating a missing status as
// pending. Older rows were written before the status field existed.
func (c *Claim) EffectiveStatus() ClaimStatus {
	if c.Status == "" {
		return ClaimStatusPending
	}
	return c.Status
}

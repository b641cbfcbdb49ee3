package analytics

import (
	"context"
	"time"

	"github.com/teslys/teslys-backend/internal/models"
)

// EarningFinder is the slice of the earning store the conflict validator
// needs. The overlap computation itself runs store-side; the validator's
// local job is input checking and excluding the record being edited.
type EarningFinder interface {
	FindOverlapping(ctx context.Context, carID string, start, end time.Time) ([]models.Earning, error)
}

// Conflict describes an existing earning whose period overlaps a candidate
// booking range.
type Conflict struct {
	EarningID   string    `json:"earning_id"`
	TripID      *string   `json:"trip_id,omitempty"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	GuestName   string    `json:"guest_name"`
	GrossAmount float64   `json:"gross_amount"`
}

// DateValidation is the outcome of a booking date check. Error carries either
// a field validation message or the store error verbatim; the caller decides
// how to surface it.
type DateValidation struct {
	IsValid   bool       `json:"is_valid"`
	Conflicts []Conflict `json:"conflicts"`
	Error     string     `json:"error,omitempty"`
}

func invalidDates(msg string) DateValidation {
	return DateValidation{IsValid: false, Conflicts: []Conflict{}, Error: msg}
}

// ValidateDates checks whether the closed interval [start, end] for a car
// overlaps any existing earning period. excludeID names the earning being
// edited, if any; it is never reported as its own conflict. Store errors are
// passed through without retry.
func ValidateDates(ctx context.Context, store EarningFinder, carID string, start, end time.Time, excludeID string) DateValidation {
	if carID == "" {
		return invalidDates("car_id is required")
	}
	if start.IsZero() {
		return invalidDates("start_date is required")
	}
	if end.IsZero() {
		return invalidDates("end_date is required")
	}
	if start.After(end) {
		return invalidDates("start_date must be on or before end_date")
	}

	earnings, err := store.FindOverlapping(ctx, carID, start, end)
	if err != nil {
		return invalidDates(err.Error())
	}

	conflicts := make([]Conflict, 0, len(earnings))
	for i := range earnings {
		e := &earnings[i]
		if excludeID != "" && e.ID.Hex() == excludeID {
			continue
		}
		conflicts = append(conflicts, Conflict{
			EarningID:   e.ID.Hex(),
			TripID:      e.TripID,
			PeriodStart: e.PeriodStart,
			PeriodEnd:   e.PeriodEnd,
			GuestName:   e.GuestName,
			GrossAmount: e.GrossAmount,
		})
	}

	return DateValidation{IsValid: len(conflicts) == 0, Conflicts: conflicts}
}

package analytics

import (
	"github.com/teslys/teslys-backend/internal/models"
)

// TripExpensesTotal sums the five cost components of every expense recorded
// against the given trip. A nil trip id has no join key and matches nothing.
func TripExpensesTotal(tripID *string, expenses []models.Expense) float64 {
	if tripID == nil || *tripID == "" {
		return 0
	}

	total := 0.0
	for i := range expenses {
		e := &expenses[i]
		if e.TripID != nil && *e.TripID == *tripID {
			total += e.Total()
		}
	}
	return total
}

// ClientShare computes the owner's cut of an earning after deducting the
// trip's matched expenses. The split defaulting lives on the model:
// Earning.ProfitPercent treats a missing percentage as the standard split,
// never zero.
func ClientShare(e *models.Earning, expenses []models.Expense) float64 {
	return NetEarningAmount(e, expenses) * e.ProfitPercent() / 100
}

// NetEarningAmount returns the gross amount minus the trip's matched expenses,
// before the profit split. Used for display alongside the client share.
func NetEarningAmount(e *models.Earning, expenses []models.Expense) float64 {
	return e.GrossAmount - TripExpensesTotal(e.TripID, expenses)
}

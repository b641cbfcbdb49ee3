package analytics

import (
	"github.com/teslys/teslys-backend/internal/models"
)

// PortfolioSummaryFor folds all of a client's earnings, expenses and claims,
// across every car, into top-line totals. The folds are strictly additive;
// there is no cross-car weighting.
func PortfolioSummaryFor(earnings []models.Earning, expenses []models.Expense, claims []models.Claim) models.PortfolioSummary {
	summary := models.PortfolioSummary{
		TotalTrips:  len(earnings),
		TotalClaims: len(claims),
	}

	for i := range earnings {
		summary.TotalEarnings += ClientShare(&earnings[i], expenses)
	}

	for i := range expenses {
		summary.TotalExpenses += expenses[i].Total()
	}

	summary.NetProfit = summary.TotalEarnings - summary.TotalExpenses
	summary.ActiveDays = distinctActiveDays(earnings)

	for i := range claims {
		if claims[i].EffectiveStatus() == models.ClaimStatusPending {
			summary.PendingClaims++
		}
	}

	return summary
}

package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teslys/teslys-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPortfolioSummaryFor_Empty(t *testing.T) {
	summary := PortfolioSummaryFor(nil, nil, nil)

	assert.Equal(t, models.PortfolioSummary{}, summary)
}

func TestPortfolioSummaryFor_Totals(t *testing.T) {
	trip1 := "trip-1"
	pct50 := 50.0

	earnings := []models.Earning{
		{
			ID:          primitive.NewObjectID(),
			CarID:       "car-1",
			TripID:      &trip1,
			PeriodStart: day("2024-01-01"),
			PeriodEnd:   day("2024-01-02"),
			GrossAmount: 100,
		},
		{
			ID:                  primitive.NewObjectID(),
			CarID:               "car-2",
			PeriodStart:         day("2024-02-01"),
			PeriodEnd:           day("2024-02-01"),
			GrossAmount:         200,
			ClientProfitPercent: &pct50,
		},
	}
	expenses := []models.Expense{
		{CarID: "car-1", TripID: &trip1, Amount: 20},
		{CarID: "car-2", CarwashAmount: 10},
	}
	claims := []models.Claim{
		{CarID: "car-1", Status: models.ClaimStatusPending, ClaimedAmount: 300},
		{CarID: "car-2", Status: models.ClaimStatusDenied, ClaimedAmount: 150},
	}

	summary := PortfolioSummaryFor(earnings, expenses, claims)

	// (100-20)*70% + 200*50% = 56 + 100
	assert.Equal(t, 156.0, summary.TotalEarnings)
	assert.Equal(t, 30.0, summary.TotalExpenses)
	assert.Equal(t, 126.0, summary.NetProfit)
	assert.Equal(t, 3, summary.ActiveDays)
	assert.Equal(t, 2, summary.TotalTrips)
	assert.Equal(t, 2, summary.TotalClaims)
	assert.Equal(t, 1, summary.PendingClaims)
}

func TestPortfolioSummaryFor_MissingClaimStatusIsPending(t *testing.T) {
	claims := []models.Claim{
		{CarID: "car-1", ClaimedAmount: 100},
		{CarID: "car-1", Status: models.ClaimStatusApproved, ClaimedAmount: 100},
		{CarID: "car-2", ClaimedAmount: 50},
	}

	summary := PortfolioSummaryFor(nil, nil, claims)

	assert.Equal(t, 3, summary.TotalClaims)
	assert.Equal(t, 2, summary.PendingClaims)
}

func TestPortfolioSummaryFor_Additivity(t *testing.T) {
	trip1, trip2 := "trip-1", "trip-2"

	car1Earnings := []models.Earning{
		{ID: primitive.NewObjectID(), CarID: "car-1", TripID: &trip1, PeriodStart: day("2024-01-01"), PeriodEnd: day("2024-01-03"), GrossAmount: 400},
	}
	car1Expenses := []models.Expense{
		{CarID: "car-1", TripID: &trip1, Amount: 40, TollAmount: 10},
	}
	car1Claims := []models.Claim{
		{CarID: "car-1", Status: models.ClaimStatusPending, ClaimedAmount: 120},
	}

	car2Earnings := []models.Earning{
		{ID: primitive.NewObjectID(), CarID: "car-2", TripID: &trip2, PeriodStart: day("2024-02-10"), PeriodEnd: day("2024-02-11"), GrossAmount: 600},
	}
	car2Expenses := []models.Expense{
		{CarID: "car-2", TripID: &trip2, EVChargeAmount: 25},
	}
	car2Claims := []models.Claim{
		{CarID: "car-2", Status: models.ClaimStatusClosed, ClaimedAmount: 80},
	}

	combined := PortfolioSummaryFor(
		append(append([]models.Earning{}, car1Earnings...), car2Earnings...),
		append(append([]models.Expense{}, car1Expenses...), car2Expenses...),
		append(append([]models.Claim{}, car1Claims...), car2Claims...),
	)
	only1 := PortfolioSummaryFor(car1Earnings, car1Expenses, car1Claims)
	only2 := PortfolioSummaryFor(car2Earnings, car2Expenses, car2Claims)

	// No cross-car weighting: every field folds additively. Active-day
	// periods are disjoint so the distinct count is additive too.
	assert.Equal(t, only1.TotalEarnings+only2.TotalEarnings, combined.TotalEarnings)
	assert.Equal(t, only1.NetProfit+only2.NetProfit, combined.NetProfit)
	assert.Equal(t, only1.ActiveDays+only2.ActiveDays, combined.ActiveDays)
	assert.Equal(t, only1.TotalTrips+only2.TotalTrips, combined.TotalTrips)
	assert.Equal(t, only1.TotalClaims+only2.TotalClaims, combined.TotalClaims)
	assert.Equal(t, only1.PendingClaims+only2.PendingClaims, combined.PendingClaims)
	assert.Equal(t, only1.TotalExpenses+only2.TotalExpenses, combined.TotalExpenses)
}

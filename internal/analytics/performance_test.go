package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teslys/teslys-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testCar(fixedCost float64) *models.Car {
	return &models.Car{
		ID:               primitive.NewObjectID(),
		Make:             "Tesla",
		Model:            "Model 3",
		Year:             2023,
		Status:           models.CarStatusHosted,
		MonthlyFixedCost: fixedCost,
	}
}

func earningOn(start, end string, gross float64) models.Earning {
	return models.Earning{
		ID:          primitive.NewObjectID(),
		CarID:       "car-1",
		PeriodStart: day(start),
		PeriodEnd:   day(end),
		GrossAmount: gross,
	}
}

func TestCarPerformanceFor_EmptyInputs(t *testing.T) {
	perf := CarPerformanceFor(testCar(500), nil, nil, nil, day("2024-06-30"))

	assert.Equal(t, 0.0, perf.TotalEarnings)
	assert.Equal(t, -500.0, perf.TrueNetProfit)
	assert.Equal(t, 0.0, perf.ProfitMargin, "no division by zero on zero earnings")
	assert.Equal(t, 0, perf.ActiveDays)
	assert.Equal(t, 0, perf.TotalTrips)
	assert.Equal(t, 0.0, perf.AveragePerTrip)
	assert.Equal(t, 0.0, perf.UtilizationRate)
	assert.Equal(t, models.RecommendationMonitor, perf.Recommendation)
	assert.NotEmpty(t, perf.RecommendationReason)
}

func TestCarPerformanceFor_BasicMetrics(t *testing.T) {
	now := day("2024-06-30")
	earnings := []models.Earning{
		earningOn("2024-06-01", "2024-06-03", 1000),
		earningOn("2024-06-10", "2024-06-12", 1000),
	}

	perf := CarPerformanceFor(testCar(400), earnings, nil, nil, now)

	// 70% default split on each gross
	assert.Equal(t, 1400.0, perf.TotalEarnings)
	assert.Equal(t, 1000.0, perf.TrueNetProfit)
	assert.InDelta(t, 71.43, perf.ProfitMargin, 0.01)
	assert.Equal(t, 6, perf.ActiveDays)
	assert.Equal(t, 2, perf.TotalTrips)
	assert.Equal(t, 700.0, perf.AveragePerTrip)
	assert.InDelta(t, 6.67, perf.UtilizationRate, 0.01)
}

func TestCarPerformanceFor_TripExpensesReduceShare(t *testing.T) {
	now := day("2024-06-30")
	tripID := "trip-1"
	earnings := []models.Earning{
		{
			ID:          primitive.NewObjectID(),
			CarID:       "car-1",
			TripID:      &tripID,
			PeriodStart: day("2024-06-01"),
			PeriodEnd:   day("2024-06-02"),
			GrossAmount: 100,
		},
	}
	expenses := []models.Expense{
		{TripID: &tripID, Amount: 20, TollAmount: 10},
	}

	perf := CarPerformanceFor(testCar(0), earnings, expenses, nil, now)

	// (100 - 30) * 70% = 49
	assert.Equal(t, 49.0, perf.TotalEarnings)
}

func TestCarPerformanceFor_UtilizationUnclamped(t *testing.T) {
	now := day("2024-06-30")
	// Two trips a day for the trailing month: 45 trips in a 30-day window.
	var earnings []models.Earning
	start := day("2024-06-05")
	for i := 0; i < 45; i++ {
		d := start.AddDate(0, 0, i/2)
		earnings = append(earnings, earningOn(d.Format("2006-01-02"), d.Format("2006-01-02"), 100))
	}

	perf := CarPerformanceFor(testCar(0), earnings, nil, nil, now)

	// The formula deliberately allows >100%: trips/30*100 with multiple
	// trips per day.
	assert.Equal(t, 150.0, perf.UtilizationRate)
}

func TestCarPerformanceFor_HighRiskRecommendsReturn(t *testing.T) {
	now := day("2024-06-30")
	earnings := []models.Earning{earningOn("2024-06-10", "2024-06-11", 500)}
	claims := []models.Claim{
		{Status: models.ClaimStatusPending, ClaimedAmount: 2000, IncidentDate: day("2024-06-11")},
		{Status: models.ClaimStatusDenied, ClaimedAmount: 1500, IncidentDate: day("2024-06-15")},
	}

	perf := CarPerformanceFor(testCar(0), earnings, nil, claims, now)

	assert.GreaterOrEqual(t, perf.RiskScore, models.RiskBandHigh)
	assert.Equal(t, "high", models.RiskLevel(perf.RiskScore))
	assert.Equal(t, models.RecommendationReturn, perf.Recommendation)
}

func TestCarPerformanceFor_ResolvedClaimsScoreLower(t *testing.T) {
	now := day("2024-06-30")
	var earnings []models.Earning
	for i := 0; i < 10; i++ {
		d := day("2024-06-01").AddDate(0, 0, i)
		earnings = append(earnings, earningOn(d.Format("2006-01-02"), d.Format("2006-01-02"), 500))
	}

	approved := 500.0
	resolved := []models.Claim{
		{Status: models.ClaimStatusApproved, ClaimedAmount: 500, ApprovedAmount: &approved},
	}
	unresolved := []models.Claim{
		{Status: models.ClaimStatusPending, ClaimedAmount: 500},
	}

	lowPerf := CarPerformanceFor(testCar(0), earnings, nil, resolved, now)
	highPerf := CarPerformanceFor(testCar(0), earnings, nil, unresolved, now)

	assert.Less(t, lowPerf.RiskScore, highPerf.RiskScore)
}

func TestCarPerformanceFor_MissingClaimStatusIsPending(t *testing.T) {
	now := day("2024-06-30")
	earnings := []models.Earning{earningOn("2024-06-10", "2024-06-11", 500)}

	missing := []models.Claim{{ClaimedAmount: 1000}}
	pending := []models.Claim{{Status: models.ClaimStatusPending, ClaimedAmount: 1000}}

	missingPerf := CarPerformanceFor(testCar(0), earnings, nil, missing, now)
	pendingPerf := CarPerformanceFor(testCar(0), earnings, nil, pending, now)

	assert.Equal(t, pendingPerf.RiskScore, missingPerf.RiskScore)
}

func TestCarPerformanceFor_NegativeMarginRecommendsReturn(t *testing.T) {
	now := day("2024-06-30")
	earnings := []models.Earning{earningOn("2024-06-10", "2024-06-11", 100)}

	perf := CarPerformanceFor(testCar(1000), earnings, nil, nil, now)

	assert.Less(t, perf.ProfitMargin, 0.0)
	assert.Equal(t, models.RecommendationReturn, perf.Recommendation)
}

func TestCarPerformanceFor_HealthyCarKeepsActive(t *testing.T) {
	now := day("2024-06-30")
	var earnings []models.Earning
	for i := 0; i < 12; i++ {
		d := day("2024-06-05").AddDate(0, 0, i*2)
		earnings = append(earnings, earningOn(d.Format("2006-01-02"), d.Format("2006-01-02"), 500))
	}

	perf := CarPerformanceFor(testCar(300), earnings, nil, nil, now)

	assert.Greater(t, perf.ProfitMargin, 20.0)
	assert.Equal(t, "low", models.RiskLevel(perf.RiskScore))
	assert.Equal(t, models.RecommendationKeepActive, perf.Recommendation)
}

package analytics

import (
	"fmt"
	"time"

	"github.com/teslys/teslys-backend/internal/models"
)

// utilizationWindowDays is the trailing window used for utilization and risk.
const utilizationWindowDays = 30

// Risk score weights. The three terms are each normalized to [0,1] so the
// score lands in 0-100.
const (
	riskWeightClaimFrequency = 40.0
	riskWeightUnresolved     = 35.0
	riskWeightUtilization    = 25.0
)

// CarPerformanceFor folds one car's earnings, expenses and claims into its
// derived performance record. Empty inputs produce an all-zero record, never
// an error.
func CarPerformanceFor(car *models.Car, earnings []models.Earning, expenses []models.Expense, claims []models.Claim, now time.Time) models.CarPerformance {
	perf := models.CarPerformance{
		CarID:             car.ID.Hex(),
		MonthlyFixedCosts: car.MonthlyFixedCost,
	}

	for i := range earnings {
		perf.TotalEarnings += ClientShare(&earnings[i], expenses)
	}

	perf.TrueNetProfit = perf.TotalEarnings - perf.MonthlyFixedCosts
	if perf.TotalEarnings != 0 {
		perf.ProfitMargin = perf.TrueNetProfit / perf.TotalEarnings * 100
	}

	perf.ActiveDays = distinctActiveDays(earnings)
	perf.TotalTrips = len(earnings)
	if perf.TotalTrips > 0 {
		perf.AveragePerTrip = perf.TotalEarnings / float64(perf.TotalTrips)
	}

	// Trips per trailing-30-day window, as a percentage. Deliberately not
	// clamped: multiple trips per day push it past 100.
	perf.UtilizationRate = float64(tripsInWindow(earnings, now)) / utilizationWindowDays * 100

	perf.RiskScore = riskScore(claims, perf.TotalTrips, perf.UtilizationRate)
	perf.Recommendation, perf.RecommendationReason = recommend(&perf)

	return perf
}

// tripsInWindow counts earnings whose period touches the trailing window
// ending at now.
func tripsInWindow(earnings []models.Earning, now time.Time) int {
	windowStart := now.AddDate(0, 0, -utilizationWindowDays)
	count := 0
	for i := range earnings {
		e := &earnings[i]
		if !e.PeriodEnd.Before(windowStart) && !e.PeriodStart.After(now) {
			count++
		}
	}
	return count
}

// riskScore combines claim frequency, the claimed-amount share of unresolved
// (denied or pending) claims, and deviation from a 50% utilization target.
func riskScore(claims []models.Claim, totalTrips int, utilizationRate float64) float64 {
	claimFrequency := 0.0
	if len(claims) > 0 {
		claimFrequency = 1.0
		if totalTrips > 0 {
			claimFrequency = float64(len(claims)) / float64(totalTrips)
			if claimFrequency > 1 {
				claimFrequency = 1
			}
		}
	}

	unresolvedShare := 0.0
	if len(claims) > 0 {
		totalClaimed := 0.0
		unresolvedClaimed := 0.0
		unresolvedCount := 0
		for i := range claims {
			c := &claims[i]
			totalClaimed += c.ClaimedAmount
			switch c.EffectiveStatus() {
			case models.ClaimStatusDenied, models.ClaimStatusPending:
				unresolvedClaimed += c.ClaimedAmount
				unresolvedCount++
			}
		}
		if totalClaimed > 0 {
			unresolvedShare = unresolvedClaimed / totalClaimed
		} else {
			unresolvedShare = float64(unresolvedCount) / float64(len(claims))
		}
	}

	utilizationDeviation := (utilizationRate - 50) / 50
	if utilizationDeviation < 0 {
		utilizationDeviation = -utilizationDeviation
	}
	if utilizationDeviation > 1 {
		utilizationDeviation = 1
	}

	return riskWeightClaimFrequency*claimFrequency +
		riskWeightUnresolved*unresolvedShare +
		riskWeightUtilization*utilizationDeviation
}

// recommend derives the categorical action from margin, risk and utilization.
func recommend(perf *models.CarPerformance) (models.Recommendation, string) {
	switch {
	case perf.TotalTrips == 0:
		return models.RecommendationMonitor, "No completed trips recorded yet"
	case perf.RiskScore >= models.RiskBandHigh:
		return models.RecommendationReturn,
			fmt.Sprintf("High risk score (%.0f) from claim history and utilization", perf.RiskScore)
	case perf.ProfitMargin < 0:
		return models.RecommendationReturn,
			fmt.Sprintf("Operating at a loss: %.1f%% margin after fixed costs", perf.ProfitMargin)
	case perf.RiskScore >= models.RiskBandMedium || perf.ProfitMargin < 20:
		return models.RecommendationOptimize,
			fmt.Sprintf("Thin margin (%.1f%%) or elevated risk (%.0f)", perf.ProfitMargin, perf.RiskScore)
	case perf.UtilizationRate < 30:
		return models.RecommendationMonitor,
			fmt.Sprintf("Low utilization (%.0f%%) over the last %d days", perf.UtilizationRate, utilizationWindowDays)
	default:
		return models.RecommendationKeepActive, "Healthy margin, utilization and claim history"
	}
}

// distinctActiveDays counts calendar days covered by at least one earning
// period.
func distinctActiveDays(earnings []models.Earning) int {
	days := make(map[string]struct{})
	for i := range earnings {
		e := &earnings[i]
		if e.PeriodStart.IsZero() || e.PeriodEnd.Before(e.PeriodStart) {
			continue
		}
		for d := e.PeriodStart; !d.After(e.PeriodEnd); d = d.AddDate(0, 0, 1) {
			days[d.Format("2006-01-02")] = struct{}{}
		}
	}
	return len(days)
}

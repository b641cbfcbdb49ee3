package models

// Recommendation is the categorical action suggested for a hosted car.
type Recommendation string

const (
	RecommendationKeepActive Recommendation = "keep_active"
	RecommendationOptimize   Recommendation = "optimize"
	RecommendationMonitor    Recommendation = "monitor"
	RecommendationReturn     Recommendation = "return"
)

// Risk score grading bands used for display and recommendations.
const (
	RiskBandMedium = 30.0
	RiskBandHigh   = 60.0
)

// CarPerformance is the derived per-car summary. It is computed on each data
// refresh and never persisted.
type CarPerformance struct {
	CarID                string         `json:"car_id"`
	TotalEarnings        float64        `json:"total_earnings"`
	MonthlyFixedCosts    float64        `json:"monthly_fixed_costs"`
	TrueNetProfit        float64        `json:"true_net_profit"`
	ProfitMargin         float64        `json:"profit_margin"`
	ActiveDays           int            `json:"active_days"`
	TotalTrips           int            `json:"total_trips"`
	AveragePerTrip       float64        `json:"average_per_trip"`
	UtilizationRate      float64        `json:"utilization_rate"`
	RiskScore            float64        `json:"risk_score"`
	Recommendation       Recommendation `json:"recommendation"`
	RecommendationReason string         `json:"recommendation_reason"`
}

// RiskLevel grades a risk score into "low", "medium" or "high".
func RiskLevel(score float64) string {
	switch {
	case score >= RiskBandHigh:
		return "high"
	case score >= RiskBandMedium:
		return "medium"
	default:
		return "low"
	}
}

// PortfolioSummary is the derived top-line summary across all of a client's
// cars.
type PortfolioSummary struct {
	TotalEarnings float64 `json:"total_earnings"`
	NetProfit     float64 `json:"net_profit"`
	ActiveDays    int     `json:"active_days"`
	TotalTrips    int     `json:"total_trips"`
	TotalClaims   int     `json:"total_claims"`
	PendingClaims int     `json:"pending_claims"`
	TotalExpenses float64 `json:"total_expenses"`
}

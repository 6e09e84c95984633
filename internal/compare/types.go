package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/webxl/inflation-planner/internal/calculation"
	"github.com/webxl/inflation-planner/internal/domain"
)

// ComparisonResult represents a single plan variant with calculated metrics
type ComparisonResult struct {
	ScenarioName string `json:"scenarioName"`
	Description  string `json:"description"`

	// Key Metrics
	FinalBalance             decimal.Decimal    `json:"finalBalance"`
	BalanceAtWithdrawalStart decimal.Decimal    `json:"balanceAtWithdrawalStart"`
	ExhaustedDate            string             `json:"exhaustedDate,omitempty"`
	TotalContributions       decimal.Decimal    `json:"totalContributions"`
	TotalWithdrawal          decimal.Decimal    `json:"totalWithdrawal"`
	TotalReturn              decimal.Decimal    `json:"totalReturn"`
	TotalInflation           decimal.Decimal    `json:"totalInflation"`
	HasShortfall             bool               `json:"hasShortfall"`
	Status                   calculation.Status `json:"status"`

	// Comparison to Base
	FinalBalanceDiffFromBase decimal.Decimal `json:"finalBalanceDiffFromBase"`
	FinalBalancePctFromBase  decimal.Decimal `json:"finalBalancePctFromBase"`
	WithdrawalDiffFromBase   decimal.Decimal `json:"withdrawalDiffFromBase"`
	ShortfallResolved        bool            `json:"shortfallResolved"`

	// Plan specifics (extracted from the parameters for display)
	WithdrawalStart     string          `json:"withdrawalStart"`
	MonthlyContribution decimal.Decimal `json:"monthlyContribution"`
	MonthlyWithdrawal   decimal.Decimal `json:"monthlyWithdrawal"`
	ReturnRate          decimal.Decimal `json:"returnRate"`
}

// ComparisonSet represents a collection of plan comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath"`
}

// MetricsCalculator extracts key metrics from projections
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// CalculateMetrics computes all comparison metrics for one projection of p
func (mc *MetricsCalculator) CalculateMetrics(name string, p domain.ProjectionParameters, result *domain.ProjectionResult) ComparisonResult {
	summary := calculation.Analyze(p, result)

	cr := ComparisonResult{
		ScenarioName:             name,
		FinalBalance:             money(summary.FinalBalance),
		BalanceAtWithdrawalStart: money(summary.BalanceAtWithdrawalStart),
		TotalContributions:       money(result.Breakdown.Contributions),
		TotalWithdrawal:          money(result.Breakdown.Withdrawal),
		TotalReturn:              money(result.Breakdown.Return),
		TotalInflation:           money(result.Breakdown.Inflation),
		HasShortfall:             summary.HasShortfall,
		Status:                   summary.Status,
		WithdrawalStart:          p.WithdrawalStart.String(),
		MonthlyContribution:      money(p.MonthlyContribution),
		MonthlyWithdrawal:        money(p.MonthlyWithdrawal),
		ReturnRate:               decimal.NewFromFloat(p.ReturnRate),
	}
	if summary.ExhaustedDate != nil {
		cr.ExhaustedDate = summary.ExhaustedDate.String()
	}
	return cr
}

// CalculateComparison computes comparison metrics between a variant and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.FinalBalanceDiffFromBase = scenario.FinalBalance.Sub(base.FinalBalance)

	if !base.FinalBalance.IsZero() {
		scenario.FinalBalancePctFromBase = scenario.FinalBalanceDiffFromBase.
			Div(base.FinalBalance.Abs()).
			Mul(decimal.NewFromInt(100))
	}

	scenario.WithdrawalDiffFromBase = scenario.TotalWithdrawal.Sub(base.TotalWithdrawal)
	scenario.ShortfallResolved = base.HasShortfall && !scenario.HasShortfall

	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	// Find best variant by final balance
	best := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.FinalBalance.GreaterThan(best.FinalBalance) {
			best = alt
		}
	}

	if best != compSet.BaseResult {
		diff := best.FinalBalance.Sub(compSet.BaseResult.FinalBalance)
		recommendations = append(recommendations,
			"Best Outcome: "+best.ScenarioName+" ends with $"+diff.StringFixed(0)+
				" more than the base plan")
	}

	// Variants that fix a shortfall
	for _, alt := range compSet.AlternativeResults {
		if alt.ShortfallResolved {
			recommendations = append(recommendations,
				"Resolves Shortfall: "+alt.ScenarioName+" ("+alt.Description+")")
		}
	}

	// Variant whose savings last longest when everything runs out
	if compSet.BaseResult.ExhaustedDate != "" {
		longest := compSet.BaseResult
		for i := range compSet.AlternativeResults {
			alt := &compSet.AlternativeResults[i]
			if alt.ExhaustedDate == "" {
				continue
			}
			if alt.ExhaustedDate > longest.ExhaustedDate {
				longest = alt
			}
		}
		if longest != compSet.BaseResult {
			recommendations = append(recommendations,
				fmt.Sprintf("Longest Lasting: %s keeps savings until %s (base runs out %s)",
					longest.ScenarioName, longest.ExhaustedDate, compSet.BaseResult.ExhaustedDate))
		}
	}

	return recommendations
}

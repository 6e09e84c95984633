package compare

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/webxl/inflation-planner/internal/calculation"
	"github.com/webxl/inflation-planner/internal/domain"
	"github.com/webxl/inflation-planner/pkg/dateutil"
)

func testParameters() domain.ProjectionParameters {
	return domain.ProjectionParameters{
		InitialBalance:      10000,
		ContributionStart:   dateutil.MustParse("2020-01-01"),
		MonthlyContribution: 500,
		WithdrawalStart:     dateutil.MustParse("2030-01-01"),
		WithdrawalEnd:       dateutil.MustParse("2040-01-01"),
		MonthlyWithdrawal:   1500,
		InflationRate:       0.03,
		ReturnRate:          0.06,
	}
}

func TestMetricsCalculator_CalculateMetrics(t *testing.T) {
	calc := NewMetricsCalculator()
	p := testParameters()

	projection, err := calculation.Project(p)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	result := calc.CalculateMetrics("Test Plan", p, projection)

	if result.ScenarioName != "Test Plan" {
		t.Errorf("Expected scenario name 'Test Plan', got %s", result.ScenarioName)
	}

	expectedFinal := decimal.NewFromFloat(projection.FinalBalance()).Round(2)
	if !result.FinalBalance.Equal(expectedFinal) {
		t.Errorf("Expected final balance %s, got %s", expectedFinal, result.FinalBalance)
	}

	if result.WithdrawalStart != "2030-01-01" {
		t.Errorf("Expected withdrawal start 2030-01-01, got %s", result.WithdrawalStart)
	}

	if !result.MonthlyWithdrawal.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Expected monthly withdrawal 1500, got %s", result.MonthlyWithdrawal)
	}

	if !result.TotalContributions.IsPositive() || !result.TotalWithdrawal.IsPositive() {
		t.Error("Expected positive contribution and withdrawal totals")
	}

	if result.HasShortfall != (projection.FinalBalance() < 0) {
		t.Error("Shortfall flag does not match the final balance")
	}
}

func TestMetricsCalculator_ExhaustedDate(t *testing.T) {
	p := testParameters()
	p.MonthlyWithdrawal = 5000

	projection, err := calculation.Project(p)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	result := NewMetricsCalculator().CalculateMetrics("Overspend", p, projection)
	if !result.HasShortfall {
		t.Fatal("Expected a shortfall")
	}
	if result.Status != calculation.StatusInsufficient {
		t.Errorf("Expected insufficient status, got %s", result.Status)
	}
	if result.ExhaustedDate == "" || result.ExhaustedDate < "2030-01-01" {
		t.Errorf("Expected an exhaustion date after retirement, got %q", result.ExhaustedDate)
	}
}

func TestMetricsCalculator_CalculateComparison(t *testing.T) {
	calc := NewMetricsCalculator()

	base := ComparisonResult{
		ScenarioName:    "Base",
		FinalBalance:    decimal.NewFromInt(-20000),
		TotalWithdrawal: decimal.NewFromInt(300000),
		HasShortfall:    true,
	}

	scenario := ComparisonResult{
		ScenarioName:    "Alternative",
		FinalBalance:    decimal.NewFromInt(10000),
		TotalWithdrawal: decimal.NewFromInt(270000),
	}

	result := calc.CalculateComparison(scenario, base)

	if !result.FinalBalanceDiffFromBase.Equal(decimal.NewFromInt(30000)) {
		t.Errorf("Expected diff 30000, got %s", result.FinalBalanceDiffFromBase)
	}

	// 30000 / |-20000| * 100 = 150%
	if !result.FinalBalancePctFromBase.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected 150%%, got %s", result.FinalBalancePctFromBase)
	}

	if !result.WithdrawalDiffFromBase.Equal(decimal.NewFromInt(-30000)) {
		t.Errorf("Expected withdrawal diff -30000, got %s", result.WithdrawalDiffFromBase)
	}

	if !result.ShortfallResolved {
		t.Error("Expected shortfall to be resolved")
	}

	zeroBase := calc.CalculateComparison(scenario, ComparisonResult{})
	if !zeroBase.FinalBalancePctFromBase.IsZero() {
		t.Errorf("Expected 0%% against a zero base, got %s", zeroBase.FinalBalancePctFromBase)
	}
}

func TestGenerateRecommendations(t *testing.T) {
	baseResult := &ComparisonResult{
		ScenarioName:  "Base",
		FinalBalance:  decimal.NewFromInt(-20000),
		HasShortfall:  true,
		ExhaustedDate: "2038-03-01",
	}

	compSet := &ComparisonSet{
		BaseScenarioName: "Base",
		BaseResult:       baseResult,
		AlternativeResults: []ComparisonResult{
			{
				ScenarioName:      "Save More",
				Description:       "Contribute 25% more each month",
				FinalBalance:      decimal.NewFromInt(5000),
				ShortfallResolved: true,
			},
			{
				ScenarioName:  "Spend Less",
				Description:   "Withdraw 10% less each month",
				FinalBalance:  decimal.NewFromInt(-2000),
				HasShortfall:  true,
				ExhaustedDate: "2039-06-01",
			},
		},
	}

	recommendations := GenerateRecommendations(compSet)

	if len(recommendations) != 3 {
		t.Fatalf("Expected 3 recommendations, got %d: %v", len(recommendations), recommendations)
	}

	if !strings.Contains(recommendations[0], "Best Outcome: Save More") || !strings.Contains(recommendations[0], "$25000") {
		t.Errorf("Unexpected best outcome recommendation: %s", recommendations[0])
	}

	if !strings.Contains(recommendations[1], "Resolves Shortfall: Save More") {
		t.Errorf("Unexpected shortfall recommendation: %s", recommendations[1])
	}

	if !strings.Contains(recommendations[2], "Longest Lasting: Spend Less keeps savings until 2039-06-01") {
		t.Errorf("Unexpected longevity recommendation: %s", recommendations[2])
	}
}

func TestGenerateRecommendations_EmptyAlternatives(t *testing.T) {
	compSet := &ComparisonSet{
		BaseResult: &ComparisonResult{ScenarioName: "Base"},
	}

	recommendations := GenerateRecommendations(compSet)
	if len(recommendations) != 0 {
		t.Errorf("Expected no recommendations, got %v", recommendations)
	}
}

func TestGenerateRecommendations_NoBetterThanBase(t *testing.T) {
	compSet := &ComparisonSet{
		BaseResult: &ComparisonResult{ScenarioName: "Base", FinalBalance: decimal.NewFromInt(100000)},
		AlternativeResults: []ComparisonResult{
			{ScenarioName: "Worse", FinalBalance: decimal.NewFromInt(90000)},
		},
	}

	recommendations := GenerateRecommendations(compSet)
	if len(recommendations) != 0 {
		t.Errorf("Expected no recommendations, got %v", recommendations)
	}
}

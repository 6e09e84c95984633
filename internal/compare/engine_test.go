package compare

import (
	"context"
	"strings"
	"testing"

	"github.com/webxl/inflation-planner/internal/calculation"
)

func TestCompareEngine_Compare(t *testing.T) {
	engine := NewCompareEngine(calculation.NewCalculationEngine())

	compSet, err := engine.Compare(context.Background(), testParameters(), CompareOptions{
		BaseScenarioName: "plan",
		Templates:        []string{"delay_1yr", "SAVE_25PCT_MORE", "scale_withdrawal:factor=0.5"},
		ConfigPath:       "plan.yaml",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if compSet.BaseScenarioName != "plan" || compSet.ConfigPath != "plan.yaml" {
		t.Errorf("Unexpected set metadata: %+v", compSet)
	}
	if len(compSet.AlternativeResults) != 3 {
		t.Fatalf("Expected 3 alternatives, got %d", len(compSet.AlternativeResults))
	}

	delay := compSet.AlternativeResults[0]
	if delay.ScenarioName != "plan_delay_1yr" {
		t.Errorf("Unexpected name %s", delay.ScenarioName)
	}
	if delay.WithdrawalStart != "2031-01-01" {
		t.Errorf("Expected delayed withdrawal start, got %s", delay.WithdrawalStart)
	}

	for _, alt := range compSet.AlternativeResults {
		if !alt.FinalBalanceDiffFromBase.IsPositive() {
			t.Errorf("%s: expected a better final balance than base", alt.ScenarioName)
		}
	}

	halved := compSet.AlternativeResults[2]
	if !strings.Contains(halved.Description, "0.50x") {
		t.Errorf("Expected transform description, got %q", halved.Description)
	}
	if len(compSet.Recommendations) == 0 {
		t.Error("Expected recommendations")
	}
}

func TestCompareEngine_Errors(t *testing.T) {
	engine := NewCompareEngine(nil)

	if _, err := engine.Compare(context.Background(), testParameters(), CompareOptions{Templates: []string{"nope"}}); err == nil {
		t.Error("Expected error for unknown template")
	}

	if _, err := engine.Compare(context.Background(), testParameters(), CompareOptions{Templates: []string{"bogus:x=1"}}); err == nil {
		t.Error("Expected error for unknown transform spec")
	}

	invalid := testParameters()
	invalid.WithdrawalEnd = invalid.WithdrawalStart.AddDays(-1)
	if _, err := engine.Compare(context.Background(), invalid, CompareOptions{}); err == nil {
		t.Error("Expected error for invalid base parameters")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Compare(ctx, testParameters(), CompareOptions{Templates: []string{"delay_1yr"}}); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

type countingLogger struct {
	calculation.NopLogger
	debug int
}

func (l *countingLogger) Debugf(string, ...any) { l.debug++ }

func TestCompareEngine_ProjectsEveryPlanThroughEngine(t *testing.T) {
	calc := calculation.NewCalculationEngine()
	logger := &countingLogger{}
	calc.SetLogger(logger)
	calc.Debug = true

	compSet, err := NewCompareEngine(calc).Compare(context.Background(), testParameters(), CompareOptions{
		Templates: []string{"delay_1yr", "spend_10pct_less"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if logger.debug != 3 {
		t.Errorf("Expected 3 projections logged (base + 2), got %d", logger.debug)
	}

	want, err := calculation.FinalBalance(testParameters())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := compSet.BaseResult.FinalBalance.InexactFloat64(); got-want > 0.01 || want-got > 0.01 {
		t.Errorf("Base final balance %.2f, want %.2f", got, want)
	}
	if compSet.AlternativeResults[1].ScenarioName != "base_spend_10pct_less" {
		t.Errorf("Alternatives out of order: %s", compSet.AlternativeResults[1].ScenarioName)
	}
}

func TestCompareEngine_DefaultBaseName(t *testing.T) {
	compSet, err := NewCompareEngine(nil).Compare(context.Background(), testParameters(), CompareOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if compSet.BaseScenarioName != "base" || compSet.BaseResult.ScenarioName != "base" {
		t.Errorf("Expected default base name, got %s", compSet.BaseScenarioName)
	}
	if len(compSet.AlternativeResults) != 0 {
		t.Error("Expected no alternatives")
	}
}

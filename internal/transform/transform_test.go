package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/webxl/inflation-planner/internal/domain"
	"github.com/webxl/inflation-planner/pkg/dateutil"
)

func createTestParameters() domain.ProjectionParameters {
	return domain.ProjectionParameters{
		InitialBalance:      50000,
		ContributionStart:   dateutil.MustParse("2025-01-01"),
		MonthlyContribution: 1000,
		WithdrawalStart:     dateutil.MustParse("2045-01-01"),
		WithdrawalEnd:       dateutil.MustParse("2070-01-01"),
		MonthlyWithdrawal:   4000,
		InflationRate:       0.03,
		ReturnRate:          0.07,
	}
}

func TestApplyTransforms_EmptyTransforms(t *testing.T) {
	base := createTestParameters()

	result, err := ApplyTransforms(base, nil)
	if err != nil {
		t.Fatalf("Expected no error for empty transforms, got: %v", err)
	}
	if result != base {
		t.Error("Expected unchanged parameters")
	}
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	_, err := ApplyTransforms(createTestParameters(), []ParameterTransform{&ShiftReturnRate{Delta: 0.01}, nil})
	if err == nil {
		t.Fatal("Expected error for nil transform")
	}
}

func TestApplyTransforms_Sequence(t *testing.T) {
	base := createTestParameters()

	result, err := ApplyTransforms(base, []ParameterTransform{
		&PostponeWithdrawal{Months: 12},
		&ScaleMonthlyContribution{Factor: 1.5},
		&ShiftReturnRate{Delta: -0.02},
		&SetMonthlyWithdrawal{Amount: 3500},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.WithdrawalStart.String() != "2046-01-01" {
		t.Errorf("Expected withdrawal start 2046-01-01, got %s", result.WithdrawalStart)
	}
	if result.WithdrawalEnd != base.WithdrawalEnd {
		t.Errorf("Withdrawal end should not move, got %s", result.WithdrawalEnd)
	}
	if result.MonthlyContribution != 1500 {
		t.Errorf("Expected contribution 1500, got %.2f", result.MonthlyContribution)
	}
	if math.Abs(result.ReturnRate-0.05) > 1e-12 {
		t.Errorf("Expected return 0.05, got %.4f", result.ReturnRate)
	}
	if result.MonthlyWithdrawal != 3500 {
		t.Errorf("Expected withdrawal 3500, got %.2f", result.MonthlyWithdrawal)
	}

	if base.MonthlyContribution != 1000 || base.WithdrawalStart.String() != "2045-01-01" {
		t.Error("Base parameters must not be modified")
	}
}

func TestApplyTransforms_ValidationFailure(t *testing.T) {
	base := createTestParameters()

	_, err := ApplyTransforms(base, []ParameterTransform{&PostponeWithdrawal{Months: 12 * 30}})
	if err == nil {
		t.Fatal("Expected error when postponing past the withdrawal end")
	}

	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransformError, got %T", err)
	}
	if te.TransformName != "postpone_withdrawal" || te.Operation != "validate" {
		t.Errorf("Unexpected error fields: %+v", te)
	}
}

func TestApplyTransforms_RejectsInvalidResult(t *testing.T) {
	base := createTestParameters()

	_, err := ApplyTransforms(base, []ParameterTransform{&SetWithdrawalStart{Date: base.ContributionStart.AddDays(-1)}})
	if err == nil {
		t.Fatal("Expected error for a withdrawal start before contributions")
	}
}

func TestSetters_NonFinite(t *testing.T) {
	base := createTestParameters()
	setters := []ParameterTransform{
		&SetInitialBalance{Amount: math.NaN()},
		&SetMonthlyContribution{Amount: math.Inf(1)},
		&SetMonthlyWithdrawal{Amount: math.Inf(-1)},
		&SetReturnRate{Rate: math.NaN()},
		&ScaleMonthlyContribution{Factor: math.NaN()},
		&ShiftReturnRate{Delta: math.Inf(1)},
	}

	for _, s := range setters {
		if err := s.Validate(base); err == nil {
			t.Errorf("%s: expected validation error", s.Name())
		}
	}
}

func TestScale_NegativeFactor(t *testing.T) {
	base := createTestParameters()
	for _, s := range []ParameterTransform{&ScaleMonthlyContribution{Factor: -1}, &ScaleMonthlyWithdrawal{Factor: -0.5}} {
		if err := s.Validate(base); err == nil {
			t.Errorf("%s: expected error for negative factor", s.Name())
		}
	}
}

func TestForTarget(t *testing.T) {
	base := createTestParameters()
	date := dateutil.MustParse("2050-06-01")

	for _, target := range domain.AllTargets {
		transform, err := ForTarget(target, 0.123, date)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", target, err)
		}

		viaTransform, err := ApplyTransforms(base, []ParameterTransform{transform})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", target, err)
		}

		var viaDomain domain.ProjectionParameters
		if target.IsDate() {
			viaDomain, err = base.WithDate(target, date)
		} else {
			viaDomain, err = base.WithValue(target, 0.123)
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", target, err)
		}

		if viaTransform != viaDomain {
			t.Errorf("%s: typed setter and domain setter disagree", target)
		}
	}

	if _, err := ForTarget("inflation_rate", 1, 0); !errors.Is(err, domain.ErrUnknownTarget) {
		t.Errorf("Expected ErrUnknownTarget, got %v", err)
	}
}

func TestForAdjustment(t *testing.T) {
	adj := domain.Adjustment{Target: domain.TargetMonthlyWithdrawal, Value: 2750}

	transform, err := ForAdjustment(adj)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result, err := transform.Apply(createTestParameters())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.MonthlyWithdrawal != 2750 {
		t.Errorf("Expected 2750, got %.2f", result.MonthlyWithdrawal)
	}
}

func TestTransformError(t *testing.T) {
	cause := errors.New("boom")
	err := NewTransformError("shift_return", "apply", "failed", cause)

	if err.Error() != "transform shift_return (apply): failed: boom" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected error to unwrap to cause")
	}

	plain := NewTransformError("shift_return", "validate", "bad", nil)
	if plain.Error() != "transform shift_return (validate): bad" {
		t.Errorf("Unexpected message: %s", plain.Error())
	}
}

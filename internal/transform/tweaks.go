package transform

import (
	"fmt"

	"github.com/webxl/inflation-planner/internal/domain"
)

// ScaleMonthlyContribution multiplies the monthly contribution by Factor.
// A factor of 1.10 saves 10% more.
type ScaleMonthlyContribution struct {
	Factor float64
}

func (s *ScaleMonthlyContribution) Name() string { return "scale_contribution" }

func (s *ScaleMonthlyContribution) Description() string {
	return fmt.Sprintf("Scale monthly contribution by %.2fx", s.Factor)
}

func (s *ScaleMonthlyContribution) Validate(domain.ProjectionParameters) error {
	if err := validateFinite(s.Name(), "factor", s.Factor); err != nil {
		return err
	}
	if s.Factor < 0 {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("factor must be non-negative, got %.4f", s.Factor), nil)
	}
	return nil
}

func (s *ScaleMonthlyContribution) Apply(base domain.ProjectionParameters) (domain.ProjectionParameters, error) {
	base.MonthlyContribution *= s.Factor
	return base, nil
}

// ScaleMonthlyWithdrawal multiplies the monthly withdrawal by Factor.
type ScaleMonthlyWithdrawal struct {
	Factor float64
}

func (s *ScaleMonthlyWithdrawal) Name() string { return "scale_withdrawal" }

func (s *ScaleMonthlyWithdrawal) Description() string {
	return fmt.Sprintf("Scale monthly withdrawal by %.2fx", s.Factor)
}

func (s *ScaleMonthlyWithdrawal) Validate(domain.ProjectionParameters) error {
	if err := validateFinite(s.Name(), "factor", s.Factor); err != nil {
		return err
	}
	if s.Factor < 0 {
		return NewTransformError(s.Name(), "validate", fmt.Sprintf("factor must be non-negative, got %.4f", s.Factor), nil)
	}
	return nil
}

func (s *ScaleMonthlyWithdrawal) Apply(base domain.ProjectionParameters) (domain.ProjectionParameters, error) {
	base.MonthlyWithdrawal *= s.Factor
	return base, nil
}

// ShiftReturnRate adds Delta to the annual return rate (0.01 = +1 point).
type ShiftReturnRate struct {
	Delta float64
}

func (s *ShiftReturnRate) Name() string { return "shift_return" }

func (s *ShiftReturnRate) Description() string {
	return fmt.Sprintf("Shift annual return by %+.2f points", s.Delta*100)
}

func (s *ShiftReturnRate) Validate(domain.ProjectionParameters) error {
	return validateFinite(s.Name(), "delta", s.Delta)
}

func (s *ShiftReturnRate) Apply(base domain.ProjectionParameters) (domain.ProjectionParameters, error) {
	base.ReturnRate += s.Delta
	return base, nil
}

// PostponeWithdrawal delays the first withdrawal by Months, keeping the
// withdrawal end fixed. This is the "work one more year" scenario.
type PostponeWithdrawal struct {
	Months int
}

func (pw *PostponeWithdrawal) Name() string { return "postpone_withdrawal" }

func (pw *PostponeWithdrawal) Description() string {
	return fmt.Sprintf("Postpone withdrawals by %d months", pw.Months)
}

func (pw *PostponeWithdrawal) Validate(base domain.ProjectionParameters) error {
	if pw.Months < 0 {
		return NewTransformError(pw.Name(), "validate", fmt.Sprintf("months must be non-negative, got %d", pw.Months), nil)
	}
	if moved := base.WithdrawalStart.AddMonths(pw.Months); moved.After(base.WithdrawalEnd) {
		return NewTransformError(pw.Name(), "validate",
			fmt.Sprintf("withdrawal start %s would fall after withdrawal end %s", moved, base.WithdrawalEnd), nil)
	}
	return nil
}

func (pw *PostponeWithdrawal) Apply(base domain.ProjectionParameters) (domain.ProjectionParameters, error) {
	base.WithdrawalStart = base.WithdrawalStart.AddMonths(pw.Months)
	return base, nil
}

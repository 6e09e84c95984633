package transform

import (
	"fmt"
	"math"

	"github.com/webxl/inflation-planner/internal/domain"
	"github.com/webxl/inflation-planner/pkg/dateutil"
)

func validateFinite(name, field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NewTransformError(name, "validate", fmt.Sprintf("%s must be finite, got %v", field, v), nil)
	}
	return nil
}

// SetInitialBalance replaces the starting balance. Negative amounts model
// starting in debt.
type SetInitialBalance struct {
	Amount float64
}

func (s *SetInitialBalance) Name() string { return "set_initial_balance" }

func (s *SetInitialBalance) Description() string {
	return fmt.Sprintf("Set initial balance to %.2f", s.Amount)
}

func (s *SetInitialBalance) Validate(domain.ProjectionParameters) error {
	return validateFinite(s.Name(), "amount", s.Amount)
}

func (s *SetInitialBalance) Apply(base domain.ProjectionParameters) (domain.ProjectionParameters, error) {
	base.InitialBalance = s.Amount
	return base, nil
}

// SetMonthlyContribution replaces the monthly contribution.
type SetMonthlyContribution struct {
	Amount float64
}

func (s *SetMonthlyContribution) Name() string { return "set_monthly_contribution" }

func (s *SetMonthlyContribution) Description() string {
	return fmt.Sprintf("Set monthly contribution to %.2f", s.Amount)
}

func (s *SetMonthlyContribution) Validate(domain.ProjectionParameters) error {
	return validateFinite(s.Name(), "amount", s.Amount)
}

func (s *SetMonthlyContribution) Apply(base domain.ProjectionParameters) (domain.ProjectionParameters, error) {
	base.MonthlyContribution = s.Amount
	return base, nil
}

// SetMonthlyWithdrawal replaces the monthly withdrawal.
type SetMonthlyWithdrawal struct {
	Amount float64
}

func (s *SetMonthlyWithdrawal) Name() string { return "set_monthly_withdrawal" }

func (s *SetMonthlyWithdrawal) Description() string {
	return fmt.Sprintf("Set monthly withdrawal to %.2f", s.Amount)
}

func (s *SetMonthlyWithdrawal) Validate(domain.ProjectionParameters) error {
	return validateFinite(s.Name(), "amount", s.Amount)
}

func (s *SetMonthlyWithdrawal) Apply(base domain.ProjectionParameters) (domain.ProjectionParameters, error) {
	base.MonthlyWithdrawal = s.Amount
	return base, nil
}

// SetReturnRate replaces the annual return rate (0.07 = 7%).
type SetReturnRate struct {
	Rate float64
}

func (s *SetReturnRate) Name() string { return "set_return_rate" }

func (s *SetReturnRate) Description() string {
	return fmt.Sprintf("Set annual return to %.2f%%", s.Rate*100)
}

func (s *SetReturnRate) Validate(domain.ProjectionParameters) error {
	return validateFinite(s.Name(), "rate", s.Rate)
}

func (s *SetReturnRate) Apply(base domain.ProjectionParameters) (domain.ProjectionParameters, error) {
	base.ReturnRate = s.Rate
	return base, nil
}

// SetWithdrawalStart moves the first withdrawal day. The withdrawal end is
// left in place.
type SetWithdrawalStart struct {
	Date dateutil.Date
}

func (s *SetWithdrawalStart) Name() string { return "set_withdrawal_start" }

func (s *SetWithdrawalStart) Description() string {
	return fmt.Sprintf("Start withdrawals on %s", s.Date)
}

func (s *SetWithdrawalStart) Validate(base domain.ProjectionParameters) error {
	if s.Date.Before(base.ContributionStart) {
		return NewTransformError(s.Name(), "validate",
			fmt.Sprintf("date %s is before contribution start %s", s.Date, base.ContributionStart), nil)
	}
	if s.Date.After(base.WithdrawalEnd) {
		return NewTransformError(s.Name(), "validate",
			fmt.Sprintf("date %s is after withdrawal end %s", s.Date, base.WithdrawalEnd), nil)
	}
	return nil
}

func (s *SetWithdrawalStart) Apply(base domain.ProjectionParameters) (domain.ProjectionParameters, error) {
	base.WithdrawalStart = s.Date
	return base, nil
}

// ForTarget returns the typed setter for target. value is used for numeric
// targets and date for date targets.
func ForTarget(target domain.AdjustmentTarget, value float64, date dateutil.Date) (ParameterTransform, error) {
	switch target {
	case domain.TargetInitialBalance:
		return &SetInitialBalance{Amount: value}, nil
	case domain.TargetMonthlyContribution:
		return &SetMonthlyContribution{Amount: value}, nil
	case domain.TargetMonthlyWithdrawal:
		return &SetMonthlyWithdrawal{Amount: value}, nil
	case domain.TargetReturnRate:
		return &SetReturnRate{Rate: value}, nil
	case domain.TargetWithdrawalStart:
		return &SetWithdrawalStart{Date: date}, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTarget, target)
}

// ForAdjustment returns the setter that applies adj.
func ForAdjustment(adj domain.Adjustment) (ParameterTransform, error) {
	return ForTarget(adj.Target, adj.Value, adj.Date)
}

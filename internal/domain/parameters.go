package domain

import (
	"math"

	"github.com/webxl/inflation-planner/pkg/dateutil"
)

// ProjectionParameters is the full input to one projection run. It is a
// value type; every setter returns a modified copy.
type ProjectionParameters struct {
	InitialBalance       float64       `yaml:"initial_balance" json:"initial_balance"`
	ContributionStart    dateutil.Date `yaml:"contribution_start" json:"contribution_start"`
	MonthlyContribution  float64       `yaml:"monthly_contribution" json:"monthly_contribution"`
	WithdrawalStart      dateutil.Date `yaml:"withdrawal_start" json:"withdrawal_start"`
	WithdrawalEnd        dateutil.Date `yaml:"withdrawal_end" json:"withdrawal_end"`
	MonthlyWithdrawal    float64       `yaml:"monthly_withdrawal" json:"monthly_withdrawal"`
	InflationRate        float64       `yaml:"inflation_rate" json:"inflation_rate"`
	ReturnRate           float64       `yaml:"return_rate" json:"return_rate"`
	EscalateContribution bool          `yaml:"escalate_contribution" json:"escalate_contribution"`
	EscalateWithdrawal   bool          `yaml:"escalate_withdrawal" json:"escalate_withdrawal"`
}

// Validate enforces the ordering ContributionStart <= WithdrawalStart <=
// WithdrawalEnd and finite amounts and rates. Any failure unwraps to
// ErrInvalidParameters.
func (p ProjectionParameters) Validate() error {
	amounts := []struct {
		field string
		value float64
	}{
		{"initial_balance", p.InitialBalance},
		{"monthly_contribution", p.MonthlyContribution},
		{"monthly_withdrawal", p.MonthlyWithdrawal},
		{"inflation_rate", p.InflationRate},
		{"return_rate", p.ReturnRate},
	}
	for _, a := range amounts {
		if math.IsNaN(a.value) || math.IsInf(a.value, 0) {
			return newParameterError(a.field, "must be a finite number, got %v", a.value)
		}
	}

	if p.WithdrawalStart.Before(p.ContributionStart) {
		return newParameterError("withdrawal_start", "%s is before contribution start %s",
			p.WithdrawalStart, p.ContributionStart)
	}
	if p.WithdrawalEnd.Before(p.WithdrawalStart) {
		return newParameterError("withdrawal_end", "%s is before withdrawal start %s",
			p.WithdrawalEnd, p.WithdrawalStart)
	}
	return nil
}

// SimulatedDays is the number of daily steps a projection of p performs.
func (p ProjectionParameters) SimulatedDays() int {
	days := p.ContributionStart.DaysUntil(p.WithdrawalEnd)
	if days < 0 {
		return 0
	}
	return days
}

// WithValue returns a copy of p with the numeric field behind target set to v.
func (p ProjectionParameters) WithValue(target AdjustmentTarget, v float64) (ProjectionParameters, error) {
	switch target {
	case TargetInitialBalance:
		p.InitialBalance = v
	case TargetMonthlyContribution:
		p.MonthlyContribution = v
	case TargetMonthlyWithdrawal:
		p.MonthlyWithdrawal = v
	case TargetReturnRate:
		p.ReturnRate = v
	default:
		return p, unknownTarget(target, "numeric")
	}
	return p, nil
}

// WithDate returns a copy of p with the date field behind target set to d.
func (p ProjectionParameters) WithDate(target AdjustmentTarget, d dateutil.Date) (ProjectionParameters, error) {
	if target != TargetWithdrawalStart {
		return p, unknownTarget(target, "date")
	}
	p.WithdrawalStart = d
	return p, nil
}

// CurrentValue reads the numeric field behind target.
func (p ProjectionParameters) CurrentValue(target AdjustmentTarget) (float64, bool) {
	switch target {
	case TargetInitialBalance:
		return p.InitialBalance, true
	case TargetMonthlyContribution:
		return p.MonthlyContribution, true
	case TargetMonthlyWithdrawal:
		return p.MonthlyWithdrawal, true
	case TargetReturnRate:
		return p.ReturnRate, true
	}
	return 0, false
}

// Default planning horizon used when a caller supplies no dates.
const (
	DefaultAccumulationYears = 30
	DefaultDecumulationYears = 25
	DefaultRetirementAge     = 67
)

// DefaultParameters returns the starter plan anchored at today. The caller
// supplies today; nothing here reads the clock.
func DefaultParameters(today dateutil.Date) ProjectionParameters {
	return ProjectionParameters{
		InitialBalance:      200000,
		ContributionStart:   today,
		MonthlyContribution: 1000,
		WithdrawalStart:     today.AddYears(DefaultAccumulationYears),
		WithdrawalEnd:       today.AddYears(DefaultAccumulationYears + DefaultDecumulationYears),
		MonthlyWithdrawal:   6000,
		InflationRate:       0.03,
		ReturnRate:          0.07,
	}
}

// WithRetirementAge moves the withdrawal window so it opens when someone
// who is currentAge at ContributionStart reaches DefaultRetirementAge, and
// lasts DefaultDecumulationYears. A window that would open before
// ContributionStart is clamped to it.
func (p ProjectionParameters) WithRetirementAge(currentAge int) ProjectionParameters {
	start := p.ContributionStart.AddYears(DefaultRetirementAge - currentAge)
	if start.Before(p.ContributionStart) {
		start = p.ContributionStart
	}
	p.WithdrawalStart = start
	p.WithdrawalEnd = start.AddYears(DefaultDecumulationYears)
	return p
}

package domain

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/webxl/inflation-planner/pkg/dateutil"
)

// AdjustmentTarget names the single parameter a shortfall adjustment may
// change.
type AdjustmentTarget string

const (
	TargetInitialBalance      AdjustmentTarget = "initial_balance"
	TargetMonthlyContribution AdjustmentTarget = "monthly_contribution"
	TargetMonthlyWithdrawal   AdjustmentTarget = "monthly_withdrawal"
	TargetReturnRate          AdjustmentTarget = "return_rate"
	TargetWithdrawalStart     AdjustmentTarget = "withdrawal_start"
)

// AllTargets lists every adjustable parameter in menu order.
var AllTargets = []AdjustmentTarget{
	TargetMonthlyContribution,
	TargetMonthlyWithdrawal,
	TargetReturnRate,
	TargetWithdrawalStart,
	TargetInitialBalance,
}

var targetAliases = map[string]AdjustmentTarget{
	"initialsavingsamount":      TargetInitialBalance,
	"initialbalance":            TargetInitialBalance,
	"monthlycontributionamount": TargetMonthlyContribution,
	"monthlycontribution":       TargetMonthlyContribution,
	"withdrawalmonthlyamount":   TargetMonthlyWithdrawal,
	"monthlywithdrawal":         TargetMonthlyWithdrawal,
	"expectedrateofreturn":      TargetReturnRate,
	"annualreturnrate":          TargetReturnRate,
	"returnrate":                TargetReturnRate,
	"withdrawalstart":           TargetWithdrawalStart,
	"withdrawalstartdate":       TargetWithdrawalStart,
}

// ParseAdjustmentTarget accepts snake_case, camelCase and kebab-case names.
func ParseAdjustmentTarget(s string) (AdjustmentTarget, error) {
	if t := AdjustmentTarget(strings.TrimSpace(s)); t.Valid() {
		return t, nil
	}
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.TrimSpace(s)))
	if t, ok := targetAliases[key]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTarget, s)
}

// Valid reports whether t is one of AllTargets.
func (t AdjustmentTarget) Valid() bool {
	for _, known := range AllTargets {
		if t == known {
			return true
		}
	}
	return false
}

// IsDate reports whether t adjusts a date rather than an amount or rate.
func (t AdjustmentTarget) IsDate() bool {
	return t == TargetWithdrawalStart
}

// Label is the short call to action shown next to a correction option.
func (t AdjustmentTarget) Label() string {
	switch t {
	case TargetInitialBalance:
		return "Increase Initial Savings"
	case TargetMonthlyContribution:
		return "Save More"
	case TargetMonthlyWithdrawal:
		return "Spend Less"
	case TargetReturnRate:
		return "Increase Investment Return"
	case TargetWithdrawalStart:
		return "Delay Retirement"
	}
	return string(t)
}

// Iteration records one solver step. For date targets Guess holds the day
// offset since 1970-01-01.
type Iteration struct {
	Guess          float64 `json:"guess"`
	FinalBalance   float64 `json:"final_balance"`
	ClosestValue   float64 `json:"closest_value"`
	ClosestBalance float64 `json:"closest_balance"`
}

// Adjustment is the single-field patch produced by a shortfall solve.
// Exactly one of Value and Date is meaningful, chosen by Target.IsDate.
type Adjustment struct {
	Target       AdjustmentTarget `json:"target"`
	Value        float64          `json:"-"`
	Date         dateutil.Date    `json:"-"`
	Converged    bool             `json:"converged"`
	FinalBalance float64          `json:"final_balance"`
	Iterations   int              `json:"iterations"`
	Trace        []Iteration      `json:"trace,omitempty"`
}

// Result returns the adjusted value as a float64 or a dateutil.Date.
func (a Adjustment) Result() any {
	if a.Target.IsDate() {
		return a.Date
	}
	return a.Value
}

// Patch returns the {parameter: value} pair a caller merges into its
// parameter set.
func (a Adjustment) Patch() map[string]any {
	return map[string]any{string(a.Target): a.Result()}
}

// Apply merges the adjustment into a copy of p.
func (a Adjustment) Apply(p ProjectionParameters) (ProjectionParameters, error) {
	if a.Target.IsDate() {
		return p.WithDate(a.Target, a.Date)
	}
	return p.WithValue(a.Target, a.Value)
}

// ValueString formats the adjusted value for display.
func (a Adjustment) ValueString() string {
	switch {
	case a.Target.IsDate():
		return a.Date.String()
	case a.Target == TargetReturnRate:
		return fmt.Sprintf("%.4f%%", a.Value*100)
	default:
		return fmt.Sprintf("%.2f", a.Value)
	}
}

func (a Adjustment) MarshalJSON() ([]byte, error) {
	type plain Adjustment
	return json.Marshal(struct {
		plain
		Adjusted any    `json:"value"`
		Label    string `json:"label"`
	}{plain(a), a.Result(), a.Target.Label()})
}

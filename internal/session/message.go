package session

import (
	"fmt"

	"github.com/webxl/inflation-planner/internal/domain"
	"github.com/webxl/inflation-planner/internal/output"
)

// AdjustmentMessage describes an applied adjustment the way the alert
// banner shows it. A second line warns when the adjustment alone leaves a
// shortfall.
func AdjustmentMessage(adj *domain.Adjustment) string {
	var msg string
	switch adj.Target {
	case domain.TargetMonthlyContribution:
		msg = "Your monthly contribution amount has been adjusted to " + output.FormatCurrency(adj.Value)
	case domain.TargetMonthlyWithdrawal:
		msg = "Your monthly withdrawal amount has been adjusted to " + output.FormatCurrency(adj.Value)
	case domain.TargetWithdrawalStart:
		msg = fmt.Sprintf("Your withdrawal start date has been adjusted to %s.", adj.Date)
	case domain.TargetReturnRate:
		msg = "Your expected rate of return has been adjusted to " + output.FormatPercentage(adj.Value)
	case domain.TargetInitialBalance:
		msg = "Your initial savings amount has been adjusted to " + output.FormatCurrency(adj.Value)
	default:
		msg = fmt.Sprintf("%s has been adjusted to %s", adj.Target, adj.ValueString())
	}
	if adj.FinalBalance < 0 {
		msg += "\nNote: This adjustment did not prevent a shortfall. Adjust other parameters until the shortfall is resolved."
	}
	return msg
}

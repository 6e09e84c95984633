package calculation

import (
	"github.com/webxl/inflation-planner/internal/domain"
	"github.com/webxl/inflation-planner/pkg/dateutil"
)

// Status classifies how comfortably a projection reaches the withdrawal end.
type Status string

const (
	StatusSufficient   Status = "sufficient"
	StatusJustBarely   Status = "just_barely"
	StatusInsufficient Status = "insufficient"
)

// JustBarelyThreshold is the final balance below which a plan that does not
// run out is still flagged as thin.
const JustBarelyThreshold = 10000

// Summary is the headline view of a projection.
type Summary struct {
	FinalBalance             float64        `json:"final_balance"`
	BalanceAtWithdrawalStart float64        `json:"balance_at_withdrawal_start"`
	ExhaustedDate            *dateutil.Date `json:"exhausted_date,omitempty"`
	HasShortfall             bool           `json:"has_shortfall"`
	Status                   Status         `json:"status"`
	Headline                 string         `json:"headline"`
	Message                  string         `json:"message"`
}

// Analyze summarizes result, which must be the projection of p.
func Analyze(p domain.ProjectionParameters, result *domain.ProjectionResult) Summary {
	final := result.FinalBalance()
	s := Summary{
		FinalBalance: final,
		HasShortfall: final < 0,
	}

	for _, pt := range result.Series {
		if pt.Date.SameMonth(p.WithdrawalStart) {
			s.BalanceAtWithdrawalStart = pt.Balance
			break
		}
	}

	for i := 1; i < len(result.Series); i++ {
		if result.Series[i].Balance <= 0 {
			d := result.Series[i].Date
			s.ExhaustedDate = &d
			break
		}
	}

	switch {
	case final < 0:
		s.Status = StatusInsufficient
		s.Headline = "Insufficient Funds!"
		s.Message = "You will run out of savings before the end of the withdrawal period. Choose a correction below."
	case final < JustBarelyThreshold:
		s.Status = StatusJustBarely
		s.Headline = "Congratulations!"
		s.Message = "You will have saved just barely enough to retire!"
	default:
		s.Status = StatusSufficient
		s.Headline = "Congratulations!"
		s.Message = "You will have saved enough to retire!"
	}
	return s
}

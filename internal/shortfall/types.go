package shortfall

import (
	"github.com/webxl/inflation-planner/internal/domain"
)

// DefaultTolerance is the largest positive final balance accepted as an
// exact break-even.
const DefaultTolerance = 100.0

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Tolerance     float64 // Accept 0 < final balance <= Tolerance
	MaxIterations int     // Hard cap on projections per solve
	RecordTrace   bool    // Keep every iteration in Adjustment.Trace
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     DefaultTolerance,
		MaxIterations: 500,
		RecordTrace:   false,
	}
}

// bracket is the search interval for a numeric target. step is the amount
// the bound moves past the tested guess. inverse flips the direction for
// parameters where a larger value lowers the final balance.
type bracket struct {
	low, high float64
	step      float64
	inverse   bool
}

// bracketFor covers the numeric targets. Callers check Valid first.
func bracketFor(target domain.AdjustmentTarget, p domain.ProjectionParameters) bracket {
	switch target {
	case domain.TargetInitialBalance:
		return bracket{low: p.InitialBalance, high: 1e8, step: 5}
	case domain.TargetMonthlyContribution:
		return bracket{low: p.MonthlyContribution, high: 1e7, step: 0.001}
	case domain.TargetMonthlyWithdrawal:
		return bracket{low: 0, high: p.MonthlyWithdrawal, step: 0.001, inverse: true}
	case domain.TargetReturnRate:
		return bracket{low: 0, high: 1, step: 1e-7}
	}
	return bracket{}
}

// TargetResult is one target's entry in a MultiResult.
type TargetResult struct {
	Adjustment          *domain.Adjustment `json:"adjustment"`
	Current             string             `json:"current"`
	RelativeChange      float64            `json:"relative_change"`
	EliminatesShortfall bool               `json:"eliminates_shortfall"`
}

// MultiResult contains the adjustment for every target
type MultiResult struct {
	BaseFinalBalance float64        `json:"base_final_balance"`
	HasShortfall     bool           `json:"has_shortfall"`
	Results          []TargetResult `json:"results"`
	Smallest         *TargetResult  `json:"smallest,omitempty"`
	Recommendations  []string       `json:"recommendations"`
}

// SolverError represents errors from the shortfall solver
type SolverError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *SolverError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *SolverError) Unwrap() error {
	return e.Cause
}

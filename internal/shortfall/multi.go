package shortfall

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/webxl/inflation-planner/internal/domain"
)

// SolveAll runs the solver for every adjustable target and compares the
// results.
func (s *Solver) SolveAll(ctx context.Context, params domain.ProjectionParameters) (*MultiResult, error) {
	baseFinal, err := s.engine().FinalBalance(params)
	if err != nil {
		return nil, &SolverError{
			Operation: "solve_all",
			Message:   "invalid base parameters",
			Cause:     err,
		}
	}

	result := &MultiResult{
		BaseFinalBalance: baseFinal,
		HasShortfall:     baseFinal < 0,
		Results:          make([]TargetResult, 0, len(domain.AllTargets)),
	}

	for _, target := range domain.AllTargets {
		adj, err := s.Solve(ctx, target, params)
		if err != nil {
			return nil, err
		}

		current := currentAdjustment(target, params)
		result.Results = append(result.Results, TargetResult{
			Adjustment:          adj,
			Current:             current.ValueString(),
			RelativeChange:      relativeChange(params, current, *adj),
			EliminatesShortfall: adj.FinalBalance >= 0,
		})
	}

	for i := range result.Results {
		r := &result.Results[i]
		if !r.EliminatesShortfall {
			continue
		}
		if result.Smallest == nil || math.Abs(r.RelativeChange) < math.Abs(result.Smallest.RelativeChange) {
			result.Smallest = r
		}
	}

	result.Recommendations = s.generateRecommendations(result)
	return result, nil
}

// currentAdjustment describes the unadjusted value of target as an
// Adjustment so both sides format the same way.
func currentAdjustment(target domain.AdjustmentTarget, p domain.ProjectionParameters) domain.Adjustment {
	adj := domain.Adjustment{Target: target, Date: p.WithdrawalStart}
	if v, ok := p.CurrentValue(target); ok {
		adj.Value = v
	}
	return adj
}

// relativeChange is the fractional change from current to adjusted. For the
// withdrawal start it is the share of the original withdrawal period given
// up.
func relativeChange(p domain.ProjectionParameters, current, adjusted domain.Adjustment) float64 {
	if current.Target.IsDate() {
		period := p.WithdrawalStart.DaysUntil(p.WithdrawalEnd)
		if period == 0 {
			return 0
		}
		return float64(current.Date.DaysUntil(adjusted.Date)) / float64(period)
	}
	switch {
	case current.Value != 0:
		return (adjusted.Value - current.Value) / math.Abs(current.Value)
	case adjusted.Value == 0:
		return 0
	default:
		return 1
	}
}

func describeTarget(t domain.AdjustmentTarget) string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// generateRecommendations creates recommendations from the per-target results
func (s *Solver) generateRecommendations(result *MultiResult) []string {
	var recommendations []string

	if !result.HasShortfall {
		recommendations = append(recommendations,
			fmt.Sprintf("No adjustment needed: the plan ends with %.2f", result.BaseFinalBalance))
	}

	for _, r := range result.Results {
		adj := r.Adjustment
		if !r.EliminatesShortfall {
			recommendations = append(recommendations,
				fmt.Sprintf("%s alone cannot close the gap (best %s = %s leaves %.2f)",
					adj.Target.Label(), describeTarget(adj.Target), adj.ValueString(), adj.FinalBalance))
			continue
		}
		if !result.HasShortfall {
			continue
		}
		recommendations = append(recommendations,
			fmt.Sprintf("%s: change %s from %s to %s",
				adj.Target.Label(), describeTarget(adj.Target), r.Current, adj.ValueString()))
	}

	if result.HasShortfall && result.Smallest != nil {
		recommendations = append(recommendations,
			fmt.Sprintf("⭐ Smallest change: %s (%+.1f%%)",
				describeTarget(result.Smallest.Adjustment.Target), result.Smallest.RelativeChange*100))
	}

	return recommendations
}

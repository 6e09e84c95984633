package calculation

import (
	"context"
	"fmt"

	"github.com/webxl/inflation-planner/internal/domain"
)

// CalculationEngine wraps the projection functions with logging and
// cancellation for callers that run many projections.
type CalculationEngine struct {
	Logger Logger
	Debug  bool // Log a summary line for every projection
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{Logger: NopLogger{}}
}

// SetLogger installs l, or a no-op logger when l is nil.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

func (ce *CalculationEngine) logger() Logger {
	if ce.Logger == nil {
		return NopLogger{}
	}
	return ce.Logger
}

// Project runs a full projection of p.
func (ce *CalculationEngine) Project(p domain.ProjectionParameters) (*domain.ProjectionResult, error) {
	result, err := Project(p)
	if err != nil {
		ce.logger().Warnf("projection rejected: %v", err)
		return nil, err
	}
	if ce.Debug {
		ce.logger().Debugf("projected %d days from %s to %s, final balance %.2f",
			len(result.Series), p.ContributionStart, p.WithdrawalEnd, result.FinalBalance())
	}
	return result, nil
}

// FinalBalance returns only the last balance of a projection of p.
func (ce *CalculationEngine) FinalBalance(p domain.ProjectionParameters) (float64, error) {
	final, err := FinalBalance(p)
	if err != nil {
		ce.logger().Warnf("projection rejected: %v", err)
		return 0, err
	}
	return final, nil
}

// ProjectAll runs each parameter set in order and stops at the first error.
func (ce *CalculationEngine) ProjectAll(ctx context.Context, params []domain.ProjectionParameters) ([]*domain.ProjectionResult, error) {
	results := make([]*domain.ProjectionResult, 0, len(params))
	for i, p := range params {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		result, err := ce.Project(p)
		if err != nil {
			return nil, fmt.Errorf("projection %d: %w", i, err)
		}
		results = append(results, result)
	}
	return results, nil
}

package shortfall

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/webxl/inflation-planner/internal/calculation"
	"github.com/webxl/inflation-planner/internal/domain"
	"github.com/webxl/inflation-planner/pkg/dateutil"
)

var defaultEngine = calculation.NewCalculationEngine()

// Solver finds the single-parameter change that brings a plan's final
// balance to just above zero.
type Solver struct {
	CalcEngine *calculation.CalculationEngine
	Options    SolverOptions
}

// NewSolver creates a new shortfall solver
func NewSolver(calcEngine *calculation.CalculationEngine, options SolverOptions) *Solver {
	if calcEngine == nil {
		calcEngine = calculation.NewCalculationEngine()
	}
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.CalculationEngine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

func (s *Solver) engine() *calculation.CalculationEngine {
	if s.CalcEngine == nil {
		return defaultEngine
	}
	return s.CalcEngine
}

func (s *Solver) logger() calculation.Logger {
	if l := s.engine().Logger; l != nil {
		return l
	}
	return calculation.NopLogger{}
}

func (s *Solver) maxIterations() int {
	if s.Options.MaxIterations <= 0 {
		return DefaultSolverOptions().MaxIterations
	}
	return s.Options.MaxIterations
}

// Solve searches for the value of target that makes the final balance of
// params land in (0, Tolerance]. When no such value exists within the
// search bounds it returns the value whose final balance was closest to
// zero. params is never modified.
func (s *Solver) Solve(ctx context.Context, target domain.AdjustmentTarget, params domain.ProjectionParameters) (*domain.Adjustment, error) {
	if err := params.Validate(); err != nil {
		return nil, &SolverError{
			Operation: "solve",
			Message:   "invalid base parameters",
			Cause:     err,
		}
	}

	if !target.Valid() {
		return nil, &SolverError{
			Operation: "solve",
			Message:   fmt.Sprintf("unsupported adjustment target: %s", target),
			Cause:     domain.ErrUnknownTarget,
		}
	}

	var (
		adj *domain.Adjustment
		err error
	)
	if target.IsDate() {
		adj, err = s.solveWithdrawalStart(ctx, params)
	} else {
		adj, err = s.solveNumeric(ctx, target, bracketFor(target, params), params)
	}
	if err != nil {
		return nil, err
	}

	s.logger().Debugf("solved %s = %s in %d iterations (converged=%t, final=%.2f)",
		target, adj.ValueString(), adj.Iterations, adj.Converged, adj.FinalBalance)
	return adj, nil
}

func (s *Solver) evaluate(p domain.ProjectionParameters) (float64, error) {
	final, err := s.engine().FinalBalance(p)
	if err != nil {
		return 0, &SolverError{
			Operation: "evaluate",
			Message:   "failed to project trial parameters",
			Cause:     err,
		}
	}
	return final, nil
}

// solveNumeric bisects [low, high]. Each bound moves one step past the
// tested guess so the loop always terminates with low > high.
func (s *Solver) solveNumeric(ctx context.Context, target domain.AdjustmentTarget, b bracket, base domain.ProjectionParameters) (*domain.Adjustment, error) {
	tolerance := s.Options.Tolerance
	low, high := b.low, b.high
	guess := (low + high) / 2

	closestValue := guess
	closestBalance := math.Inf(1)
	adj := &domain.Adjustment{Target: target}
	var value float64

	for low <= high && adj.Iterations < s.maxIterations() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		adj.Iterations++

		trial, err := base.WithValue(target, guess)
		if err != nil {
			return nil, err
		}
		final, err := s.evaluate(trial)
		if err != nil {
			return nil, err
		}

		if math.Abs(final) < math.Abs(closestBalance) {
			closestBalance = final
			closestValue = guess
		}
		if s.Options.RecordTrace {
			adj.Trace = append(adj.Trace, domain.Iteration{
				Guess:          guess,
				FinalBalance:   final,
				ClosestValue:   closestValue,
				ClosestBalance: closestBalance,
			})
		}

		if final > 0 && final <= tolerance {
			adj.Converged = true
			value = guess
			break
		}
		if (!b.inverse && final < 0) || (b.inverse && final > 0) {
			low = guess + b.step
		} else {
			high = guess - b.step
		}
		guess = (low + high) / 2
	}

	if !adj.Converged {
		value = closestValue
	}
	if target != domain.TargetReturnRate {
		value = roundCents(value)
	}
	adj.Value = value

	final, err := s.finalAt(adj, base)
	if err != nil {
		return nil, err
	}
	adj.FinalBalance = final
	return adj, nil
}

// solveWithdrawalStart bisects whole days between the current withdrawal
// start and the withdrawal end. A later start shortens decumulation and
// lengthens accumulation, so the final balance grows with the date.
func (s *Solver) solveWithdrawalStart(ctx context.Context, base domain.ProjectionParameters) (*domain.Adjustment, error) {
	tolerance := s.Options.Tolerance
	low, high := base.WithdrawalStart, base.WithdrawalEnd
	guess := dateutil.Midpoint(low, high)

	closestDate := low
	closestBalance := math.Inf(1)
	adj := &domain.Adjustment{Target: domain.TargetWithdrawalStart}

	for low <= high && adj.Iterations < s.maxIterations() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		adj.Iterations++

		trial := base
		trial.WithdrawalStart = guess
		final, err := s.evaluate(trial)
		if err != nil {
			return nil, err
		}

		if math.Abs(final) < math.Abs(closestBalance) {
			closestBalance = final
			closestDate = guess
		}
		if s.Options.RecordTrace {
			adj.Trace = append(adj.Trace, domain.Iteration{
				Guess:          float64(guess),
				FinalBalance:   final,
				ClosestValue:   float64(closestDate),
				ClosestBalance: closestBalance,
			})
		}

		if final > 0 && final <= tolerance {
			adj.Converged = true
			closestDate = guess
			break
		}
		if final < 0 {
			low = guess.AddDays(1)
		} else {
			high = guess.AddDays(-1)
		}
		guess = dateutil.Midpoint(low, high)
	}

	adj.Date = closestDate
	final, err := s.finalAt(adj, base)
	if err != nil {
		return nil, err
	}
	adj.FinalBalance = final
	return adj, nil
}

// finalAt projects base with adj merged in.
func (s *Solver) finalAt(adj *domain.Adjustment, base domain.ProjectionParameters) (float64, error) {
	adjusted, err := adj.Apply(base)
	if err != nil {
		return 0, err
	}
	return s.evaluate(adjusted)
}

// roundCents scales to cents in float64 and rounds halves toward +Inf, so
// -0.125 becomes -0.12 and 1.005 (stored just below) becomes 1.00.
func roundCents(v float64) float64 {
	cents := decimal.NewFromFloat(v * 100).Add(decimal.New(5, -1)).Floor()
	return cents.Div(decimal.NewFromInt(100)).InexactFloat64()
}

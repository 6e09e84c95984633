package calculation

import (
	"math"

	"github.com/webxl/inflation-planner/internal/domain"
	"github.com/webxl/inflation-planner/pkg/dateutil"
)

// DaysPerYear is the day-count convention for converting annual rates and
// monthly flows into daily increments.
const DaysPerYear = 365.24

const daysPerMonth = DaysPerYear / 12

// Project simulates p one day at a time and returns the balance series and
// the cumulative breakdown. It is pure: identical input gives identical
// output and nothing outside the call is touched.
func Project(p domain.ProjectionParameters) (*domain.ProjectionResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	series := make([]domain.BalancePoint, 0, p.SimulatedDays())
	_, breakdown, series := simulate(p, series)
	return &domain.ProjectionResult{Series: series, Breakdown: breakdown}, nil
}

// FinalBalance runs the same simulation as Project without building the
// series. The solver calls it once per iteration.
func FinalBalance(p domain.ProjectionParameters) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	final, _, _ := simulate(p, nil)
	return final, nil
}

// simulate appends one point per day to series when series is non-nil.
//
// Return and inflation are tracked as informational components of the net
// multiplier. During decumulation they stop accruing once the balance is
// exhausted, while the multiplier itself keeps applying so a negative
// balance compounds the same way a positive one does.
func simulate(p domain.ProjectionParameters, series []domain.BalancePoint) (float64, domain.Breakdown, []domain.BalancePoint) {
	record := series != nil
	breakdown := domain.Breakdown{Initial: p.InitialBalance}
	balance := p.InitialBalance
	multiplier := 1 + (p.ReturnRate-p.InflationRate)/DaysPerYear

	contribution := newEscalator(p.ContributionStart, p.InflationRate, p.EscalateContribution)
	for day := p.ContributionStart; day < p.WithdrawalStart; day++ {
		flow := p.MonthlyContribution * contribution.factor(day) / daysPerMonth
		balance += flow
		breakdown.Contributions += flow

		breakdown.Return += balance * p.ReturnRate / DaysPerYear
		breakdown.Inflation += balance * p.InflationRate / DaysPerYear
		balance *= multiplier

		if record {
			series = append(series, domain.BalancePoint{Date: day, Balance: balance})
		}
	}

	withdrawal := newEscalator(p.WithdrawalStart, p.InflationRate, p.EscalateWithdrawal)
	for day := p.WithdrawalStart; day < p.WithdrawalEnd; day++ {
		flow := p.MonthlyWithdrawal * withdrawal.factor(day) / daysPerMonth
		balance -= flow
		breakdown.Withdrawal += flow

		if balance > 0 {
			breakdown.Return += balance * p.ReturnRate / DaysPerYear
			breakdown.Inflation += balance * p.InflationRate / DaysPerYear
		}
		balance *= multiplier

		if record {
			series = append(series, domain.BalancePoint{Date: day, Balance: balance})
		}
	}

	return balance, breakdown, series
}

// escalator yields (1+inflation)^(year - baseYear) for a phase whose days are
// visited in increasing order. The power is recomputed only when the
// calendar year changes.
type escalator struct {
	enabled  bool
	growth   float64
	baseYear int
	nextYear dateutil.Date
	current  float64
}

func newEscalator(phaseStart dateutil.Date, inflationRate float64, enabled bool) escalator {
	e := escalator{enabled: enabled, current: 1}
	if enabled {
		e.growth = 1 + inflationRate
		e.baseYear = phaseStart.Year()
		e.nextYear = phaseStart.FirstOfNextYear()
	}
	return e
}

func (e *escalator) factor(day dateutil.Date) float64 {
	if !e.enabled {
		return 1
	}
	for day >= e.nextYear {
		e.current = math.Pow(e.growth, float64(e.nextYear.Year()-e.baseYear))
		e.nextYear = e.nextYear.FirstOfNextYear()
	}
	return e.current
}

package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webxl/inflation-planner/pkg/dateutil"
)

func testParameters() ProjectionParameters {
	return ProjectionParameters{
		InitialBalance:      10000,
		ContributionStart:   dateutil.MustParse("2020-01-01"),
		MonthlyContribution: 500,
		WithdrawalStart:     dateutil.MustParse("2021-01-01"),
		WithdrawalEnd:       dateutil.MustParse("2022-01-01"),
		MonthlyWithdrawal:   800,
		InflationRate:       0.03,
		ReturnRate:          0.06,
	}
}

func TestProjectionParameters_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *ProjectionParameters)
		field  string
	}{
		{"valid", func(p *ProjectionParameters) {}, ""},
		{"equal dates", func(p *ProjectionParameters) {
			p.WithdrawalStart = p.ContributionStart
			p.WithdrawalEnd = p.ContributionStart
		}, ""},
		{"negative balance is debt", func(p *ProjectionParameters) { p.InitialBalance = -5000 }, ""},
		{"withdrawal before contribution", func(p *ProjectionParameters) {
			p.WithdrawalStart = p.ContributionStart.AddDays(-1)
		}, "withdrawal_start"},
		{"end before withdrawal start", func(p *ProjectionParameters) {
			p.WithdrawalEnd = p.WithdrawalStart.AddDays(-1)
		}, "withdrawal_end"},
		{"NaN balance", func(p *ProjectionParameters) { p.InitialBalance = math.NaN() }, "initial_balance"},
		{"infinite return", func(p *ProjectionParameters) { p.ReturnRate = math.Inf(1) }, "return_rate"},
		{"infinite inflation", func(p *ProjectionParameters) { p.InflationRate = math.Inf(-1) }, "inflation_rate"},
		{"NaN withdrawal", func(p *ProjectionParameters) { p.MonthlyWithdrawal = math.NaN() }, "monthly_withdrawal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParameters()
			tt.mutate(&p)
			err := p.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParameters))
			var pe *ParameterError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestProjectionParameters_SimulatedDays(t *testing.T) {
	assert.Equal(t, 731, testParameters().SimulatedDays())

	p := testParameters()
	p.WithdrawalEnd = p.ContributionStart.AddDays(-10)
	assert.Equal(t, 0, p.SimulatedDays())
}

func TestProjectionParameters_WithValue(t *testing.T) {
	base := testParameters()

	for _, target := range AllTargets {
		if target.IsDate() {
			continue
		}
		updated, err := base.WithValue(target, 42)
		require.NoError(t, err, target)
		got, ok := updated.CurrentValue(target)
		require.True(t, ok)
		assert.Equal(t, 42.0, got, target)
	}

	_, err := base.WithValue(TargetWithdrawalStart, 1)
	assert.True(t, errors.Is(err, ErrUnknownTarget))

	assert.Equal(t, 10000.0, base.InitialBalance, "setters must not touch the receiver")
}

func TestProjectionParameters_WithDate(t *testing.T) {
	base := testParameters()
	newStart := dateutil.MustParse("2021-06-01")

	updated, err := base.WithDate(TargetWithdrawalStart, newStart)
	require.NoError(t, err)
	assert.Equal(t, newStart, updated.WithdrawalStart)
	assert.Equal(t, dateutil.MustParse("2021-01-01"), base.WithdrawalStart)

	_, err = base.WithDate(TargetReturnRate, newStart)
	assert.True(t, errors.Is(err, ErrUnknownTarget))
}

func TestDefaultParameters(t *testing.T) {
	today := dateutil.MustParse("2025-03-10")
	p := DefaultParameters(today)

	assert.Equal(t, 200000.0, p.InitialBalance)
	assert.Equal(t, 1000.0, p.MonthlyContribution)
	assert.Equal(t, 6000.0, p.MonthlyWithdrawal)
	assert.Equal(t, 0.03, p.InflationRate)
	assert.Equal(t, 0.07, p.ReturnRate)
	assert.Equal(t, today, p.ContributionStart)
	assert.Equal(t, "2055-03-10", p.WithdrawalStart.String())
	assert.Equal(t, "2080-03-10", p.WithdrawalEnd.String())
	assert.NoError(t, p.Validate())
}

func TestWithRetirementAge(t *testing.T) {
	p := DefaultParameters(dateutil.MustParse("2025-01-01")).WithRetirementAge(37)

	assert.Equal(t, "2055-01-01", p.WithdrawalStart.String())
	assert.Equal(t, "2080-01-01", p.WithdrawalEnd.String())

	late := DefaultParameters(dateutil.MustParse("2025-01-01")).WithRetirementAge(70)
	assert.Equal(t, late.ContributionStart, late.WithdrawalStart, "already past retirement age")
	assert.NoError(t, late.Validate())
}

func TestParseAdjustmentTarget(t *testing.T) {
	tests := map[string]AdjustmentTarget{
		"initial_balance":           TargetInitialBalance,
		"initialSavingsAmount":      TargetInitialBalance,
		"monthlyContributionAmount": TargetMonthlyContribution,
		"monthly-contribution":      TargetMonthlyContribution,
		"withdrawalMonthlyAmount":   TargetMonthlyWithdrawal,
		"expectedRateOfReturn":      TargetReturnRate,
		"annualReturnRate":          TargetReturnRate,
		"withdrawalStart":           TargetWithdrawalStart,
		"withdrawalStartDate":       TargetWithdrawalStart,
	}
	for in, want := range tests {
		got, err := ParseAdjustmentTarget(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, target := range AllTargets {
		got, err := ParseAdjustmentTarget(" " + string(target) + " ")
		require.NoError(t, err, target)
		assert.Equal(t, target, got)
	}

	for _, bad := range []string{"inflation_rate", "", "  "} {
		_, err := ParseAdjustmentTarget(bad)
		assert.True(t, errors.Is(err, ErrUnknownTarget), "%q", bad)
	}
}

func TestAdjustmentTarget_Labels(t *testing.T) {
	assert.Equal(t, "Save More", TargetMonthlyContribution.Label())
	assert.Equal(t, "Spend Less", TargetMonthlyWithdrawal.Label())
	assert.Equal(t, "Delay Retirement", TargetWithdrawalStart.Label())
	assert.True(t, TargetWithdrawalStart.IsDate())
	assert.False(t, TargetReturnRate.IsDate())
	assert.False(t, AdjustmentTarget("bogus").Valid())
	for _, target := range AllTargets {
		assert.True(t, target.Valid())
	}
}

func TestAdjustment_PatchAndApply(t *testing.T) {
	base := testParameters()

	numeric := Adjustment{Target: TargetMonthlyContribution, Value: 1234.56}
	assert.Equal(t, map[string]any{"monthly_contribution": 1234.56}, numeric.Patch())
	applied, err := numeric.Apply(base)
	require.NoError(t, err)
	assert.Equal(t, 1234.56, applied.MonthlyContribution)

	date := Adjustment{Target: TargetWithdrawalStart, Date: dateutil.MustParse("2021-09-01")}
	assert.Equal(t, map[string]any{"withdrawal_start": dateutil.MustParse("2021-09-01")}, date.Patch())
	applied, err = date.Apply(base)
	require.NoError(t, err)
	assert.Equal(t, "2021-09-01", applied.WithdrawalStart.String())
	assert.Equal(t, "2021-09-01", date.ValueString())
}

func TestAdjustment_MarshalJSON(t *testing.T) {
	adj := Adjustment{
		Target:       TargetWithdrawalStart,
		Date:         dateutil.MustParse("2040-02-01"),
		Converged:    true,
		FinalBalance: 12.5,
		Iterations:   9,
	}

	data, err := json.Marshal(adj)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "withdrawal_start", decoded["target"])
	assert.Equal(t, "2040-02-01", decoded["value"])
	assert.Equal(t, "Delay Retirement", decoded["label"])
	assert.Equal(t, true, decoded["converged"])
	assert.Equal(t, 9.0, decoded["iterations"])
	assert.NotContains(t, decoded, "trace")
}

func TestBreakdown_Entries(t *testing.T) {
	b := Breakdown{Initial: 100, Contributions: 50, Withdrawal: 30, Return: 20, Inflation: 10}

	entries := b.Entries()
	require.Len(t, entries, 5)
	assert.Equal(t, CategoryInitial, entries[0].Category)
	assert.Equal(t, CategoryInflation, entries[4].Category)
	assert.Equal(t, 30.0, b.Get(CategoryWithdrawal))
	assert.InDelta(t, 130.0, b.Net(), 1e-9)
}

func TestProjectionResult_FinalBalanceAndMonthly(t *testing.T) {
	empty := &ProjectionResult{Breakdown: Breakdown{Initial: 750}}
	assert.Equal(t, 750.0, empty.FinalBalance())
	assert.Nil(t, empty.Monthly())

	start := dateutil.MustParse("2020-01-30")
	series := make([]BalancePoint, 40)
	for i := range series {
		series[i] = BalancePoint{Date: start.AddDays(i), Balance: float64(i)}
	}
	r := &ProjectionResult{Series: series}

	assert.Equal(t, 39.0, r.FinalBalance())
	monthly := r.Monthly()
	require.Len(t, monthly, 4)
	assert.Equal(t, "2020-01-30", monthly[0].Date.String())
	assert.Equal(t, "2020-02-01", monthly[1].Date.String())
	assert.Equal(t, "2020-03-01", monthly[2].Date.String())
	assert.Equal(t, "2020-03-09", monthly[3].Date.String())
}

package domain

import (
	"github.com/webxl/inflation-planner/pkg/dateutil"
)

// BalancePoint is the balance at the end of one simulated day.
type BalancePoint struct {
	Date    dateutil.Date `json:"date"`
	Balance float64       `json:"balance"`
}

// Category identifies one component of the cash-flow breakdown.
type Category string

const (
	CategoryInitial       Category = "initial"
	CategoryContributions Category = "contributions"
	CategoryWithdrawal    Category = "withdrawal"
	CategoryReturn        Category = "return"
	CategoryInflation     Category = "inflation"
)

// Categories lists the breakdown categories in display order.
var Categories = []Category{
	CategoryInitial,
	CategoryContributions,
	CategoryWithdrawal,
	CategoryReturn,
	CategoryInflation,
}

// Breakdown holds cumulative cash-flow components of a projection. Withdrawal
// and Inflation are magnitudes of amounts removed, reported as positives.
type Breakdown struct {
	Initial       float64 `json:"initial"`
	Contributions float64 `json:"contributions"`
	Withdrawal    float64 `json:"withdrawal"`
	Return        float64 `json:"return"`
	Inflation     float64 `json:"inflation"`
}

// BreakdownEntry is one (category, value) pair.
type BreakdownEntry struct {
	Category Category `json:"id"`
	Value    float64  `json:"value"`
}

// Get returns the cumulative value of c.
func (b Breakdown) Get(c Category) float64 {
	switch c {
	case CategoryInitial:
		return b.Initial
	case CategoryContributions:
		return b.Contributions
	case CategoryWithdrawal:
		return b.Withdrawal
	case CategoryReturn:
		return b.Return
	case CategoryInflation:
		return b.Inflation
	}
	return 0
}

// Entries returns the breakdown in display order.
func (b Breakdown) Entries() []BreakdownEntry {
	entries := make([]BreakdownEntry, len(Categories))
	for i, c := range Categories {
		entries[i] = BreakdownEntry{Category: c, Value: b.Get(c)}
	}
	return entries
}

// Net is the balance implied by the tracked components.
func (b Breakdown) Net() float64 {
	return b.Initial + b.Contributions + b.Return - b.Withdrawal - b.Inflation
}

// ProjectionResult is the output of one projection run. Each run builds a
// fresh result; nothing mutates it afterwards.
type ProjectionResult struct {
	Series    []BalancePoint `json:"series"`
	Breakdown Breakdown      `json:"breakdown"`
}

// FinalBalance is the balance after the last simulated day, or the initial
// balance when no day was simulated.
func (r *ProjectionResult) FinalBalance() float64 {
	if len(r.Series) == 0 {
		return r.Breakdown.Initial
	}
	return r.Series[len(r.Series)-1].Balance
}

// Monthly keeps the first point of every calendar month plus the final
// point, for charting long horizons.
func (r *ProjectionResult) Monthly() []BalancePoint {
	if len(r.Series) == 0 {
		return nil
	}
	sampled := make([]BalancePoint, 0, len(r.Series)/28+2)
	for i, pt := range r.Series {
		if i == 0 || !pt.Date.SameMonth(r.Series[i-1].Date) {
			sampled = append(sampled, pt)
		}
	}
	if last := r.Series[len(r.Series)-1]; sampled[len(sampled)-1].Date != last.Date {
		sampled = append(sampled, last)
	}
	return sampled
}

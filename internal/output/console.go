package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/webxl/inflation-planner/internal/calculation"
	"github.com/webxl/inflation-planner/internal/domain"
)

var (
	colorSuccess = lipgloss.Color("#04B575")
	colorWarning = lipgloss.Color("#FFB000")
	colorDanger  = lipgloss.Color("#FF5F87")

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder())
	labelStyle = lipgloss.NewStyle().Width(26)
)

func statusColor(s calculation.Status) lipgloss.Color {
	switch s {
	case calculation.StatusInsufficient:
		return colorDanger
	case calculation.StatusJustBarely:
		return colorWarning
	default:
		return colorSuccess
	}
}

// ConsoleFormatter renders a human-readable projection summary with a
// year-end balance table.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	p := r.Parameters

	title := "SAVINGS PROJECTION"
	if r.Name != "" {
		title += ": " + r.Name
	}
	fmt.Fprintln(&buf, strings.Repeat("=", 60))
	fmt.Fprintln(&buf, title)
	fmt.Fprintln(&buf, strings.Repeat("=", 60))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "PLAN:")
	row(&buf, "Initial Savings:", FormatCurrency(p.InitialBalance))
	row(&buf, "Contributions:", fmt.Sprintf("%s/mo from %s%s", FormatCurrency(p.MonthlyContribution), p.ContributionStart, escalated(p.EscalateContribution)))
	row(&buf, "Withdrawals:", fmt.Sprintf("%s/mo from %s to %s%s", FormatCurrency(p.MonthlyWithdrawal), p.WithdrawalStart, p.WithdrawalEnd, escalated(p.EscalateWithdrawal)))
	row(&buf, "Expected Return:", FormatPercentage(p.ReturnRate))
	row(&buf, "Inflation:", FormatPercentage(p.InflationRate))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "BREAKDOWN:")
	for _, e := range r.Result.Breakdown.Entries() {
		row(&buf, categoryLabel(e.Category)+":", FormatCurrency(e.Value))
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "MILESTONES:")
	row(&buf, "Balance at Withdrawal:", FormatCurrency(r.Summary.BalanceAtWithdrawalStart))
	row(&buf, "Final Balance:", FormatCurrency(r.Summary.FinalBalance))
	if r.Summary.ExhaustedDate != nil {
		row(&buf, "Savings Run Out:", r.Summary.ExhaustedDate.String())
	}
	fmt.Fprintln(&buf)

	if years := yearEndBalances(r.Result.Series); len(years) > 0 {
		fmt.Fprintln(&buf, "YEAR-END BALANCES:")
		fmt.Fprintf(&buf, "  %-12s %18s\n", "Date", "Balance")
		fmt.Fprintln(&buf, "  "+strings.Repeat("-", 31))
		for _, pt := range years {
			fmt.Fprintf(&buf, "  %-12s %18s\n", pt.Date, FormatCurrency(pt.Balance))
		}
		fmt.Fprintln(&buf)
	}

	banner := bannerStyle.
		Foreground(statusColor(r.Summary.Status)).
		BorderForeground(statusColor(r.Summary.Status)).
		Render(r.Summary.Headline + "\n" + r.Summary.Message)
	fmt.Fprintln(&buf, banner)

	return buf.Bytes(), nil
}

func row(buf *bytes.Buffer, label, value string) {
	fmt.Fprintf(buf, "  %s%s\n", labelStyle.Render(label), value)
}

func escalated(on bool) string {
	if on {
		return " (grows with inflation)"
	}
	return ""
}

func categoryLabel(c domain.Category) string {
	switch c {
	case domain.CategoryInitial:
		return "Initial Savings"
	case domain.CategoryContributions:
		return "Contributions"
	case domain.CategoryWithdrawal:
		return "Withdrawals"
	case domain.CategoryReturn:
		return "Investment Return"
	case domain.CategoryInflation:
		return "Inflation"
	}
	return string(c)
}

// yearEndBalances keeps the last point of each calendar year.
func yearEndBalances(series []domain.BalancePoint) []domain.BalancePoint {
	var out []domain.BalancePoint
	for i, pt := range series {
		if i == len(series)-1 || series[i+1].Date.Year() != pt.Date.Year() {
			out = append(out, pt)
		}
	}
	return out
}

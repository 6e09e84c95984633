package shortfall

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/webxl/inflation-planner/internal/domain"
	"github.com/webxl/inflation-planner/pkg/dateutil"
)

// TableFormatter formats adjustment results as a console table
type TableFormatter struct{}

// Format generates a formatted table for a single adjustment
func (tf *TableFormatter) Format(adj *domain.Adjustment) string {
	var sb strings.Builder

	sb.WriteString("SHORTFALL ADJUSTMENT\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Adjustment:          %s\n", adj.Target.Label()))
	sb.WriteString(fmt.Sprintf("Parameter:           %s\n", adj.Target))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(adj.Converged)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", adj.Iterations))
	sb.WriteString("\n")

	sb.WriteString("RESULT\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("New Value:           %s\n", adj.ValueString()))
	sb.WriteString(fmt.Sprintf("Final Balance:       $%s\n", tf.formatCurrency(adj.FinalBalance)))
	sb.WriteString("\n")

	if len(adj.Trace) > 0 {
		sb.WriteString("ITERATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("%5s %20s %20s %20s\n", "#", "Guess", "Final Balance", "Closest Balance"))
		for i, it := range adj.Trace {
			sb.WriteString(fmt.Sprintf("%5d %20s %20s %20s\n",
				i+1, tf.formatGuess(adj.Target, it.Guess),
				tf.formatCurrency(it.FinalBalance), tf.formatCurrency(it.ClosestBalance)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatMulti formats results from solving every target
func (tf *TableFormatter) FormatMulti(result *MultiResult) string {
	var sb strings.Builder

	sb.WriteString("SHORTFALL ADJUSTMENT OPTIONS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")
	sb.WriteString(fmt.Sprintf("Current Final Balance: $%s\n\n", tf.formatCurrency(result.BaseFinalBalance)))

	sb.WriteString("SUMMARY OF ALL ADJUSTMENTS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-26s %14s %14s %10s %12s\n",
		"Adjustment", "Current", "Adjusted", "Change", "Final"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, r := range result.Results {
		sb.WriteString(fmt.Sprintf("%-26s %14s %14s %10s %12s\n",
			tf.truncate(r.Adjustment.Target.Label(), 26),
			r.Current,
			r.Adjustment.ValueString(),
			fmt.Sprintf("%+.1f%%", r.RelativeChange*100),
			"$"+tf.formatShort(r.Adjustment.FinalBalance)))
	}
	sb.WriteString("\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(adj *domain.Adjustment) (string, error) {
	return jf.marshal(adj)
}

// FormatMulti formats multi-target results as JSON
func (jf *JSONFormatter) FormatMulti(result *MultiResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(converged bool) string {
	if converged {
		return "✓ Converged"
	}
	return "⚠ Did not converge (closest value shown)"
}

func (tf *TableFormatter) formatCurrency(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func (tf *TableFormatter) formatGuess(target domain.AdjustmentTarget, guess float64) string {
	switch {
	case target.IsDate():
		return dateutil.Date(guess).String()
	case target == domain.TargetReturnRate:
		return domain.Adjustment{Target: target, Value: guess}.ValueString()
	default:
		return decimal.NewFromFloat(guess).StringFixed(3)
	}
}

func (tf *TableFormatter) formatShort(v float64) string {
	d := decimal.NewFromFloat(v)
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Withdrawal Start",
		"Final Balance",
		"Balance At Withdrawal Start",
		"Exhausted Date",
		"Total Contributions",
		"Total Withdrawal",
		"Total Return",
		"Total Inflation",
		"Status",
		"Final Balance Diff from Base",
		"Final Balance % Change",
		"Shortfall Resolved",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
		return "", err
	}

	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		result.WithdrawalStart,
		result.FinalBalance.StringFixed(2),
		result.BalanceAtWithdrawalStart.StringFixed(2),
		result.ExhaustedDate,
		result.TotalContributions.StringFixed(2),
		result.TotalWithdrawal.StringFixed(2),
		result.TotalReturn.StringFixed(2),
		result.TotalInflation.StringFixed(2),
		string(result.Status),
		result.FinalBalanceDiffFromBase.StringFixed(2),
		result.FinalBalancePctFromBase.StringFixed(2),
		strconv.FormatBool(result.ShortfallResolved),
	}
}

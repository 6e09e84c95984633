package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/webxl/inflation-planner/internal/calculation"
	"github.com/webxl/inflation-planner/internal/domain"
)

// Sampling modes for the series written by a formatter.
const (
	SampleDaily   = "daily"
	SampleMonthly = "monthly"
)

// Report is everything a formatter needs to render one projection.
type Report struct {
	Name       string
	Parameters domain.ProjectionParameters
	Result     *domain.ProjectionResult
	Summary    calculation.Summary
	// Series is Result.Series, or a monthly sample of it.
	Series []domain.BalancePoint
}

// NewReport analyzes result and picks the series for the requested sample
// mode. An empty or unknown mode means daily.
func NewReport(name string, p domain.ProjectionParameters, result *domain.ProjectionResult, sample string) (*Report, error) {
	r := &Report{
		Name:       name,
		Parameters: p,
		Result:     result,
		Summary:    calculation.Analyze(p, result),
	}
	switch strings.ToLower(sample) {
	case "", SampleDaily:
		r.Series = result.Series
	case SampleMonthly:
		r.Series = result.Monthly()
	default:
		return nil, fmt.Errorf("unsupported sample mode: %s", sample)
	}
	return r, nil
}

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic formatting).
type Formatter interface {
	Format(report *Report) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID string
	F  func(*Report) ([]byte, error)
}

func (ff FormatterFunc) Format(r *Report) ([]byte, error) { return ff.F(r) }
func (ff FormatterFunc) Name() string                     { return ff.ID }

// WriteFormatted runs a formatter and writes output to a timestamped file
// in dir.
func WriteFormatted(f Formatter, report *Report, dir, ext string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	filename := filepath.Join(dir, fmt.Sprintf("savings_projection_%s.%s", time.Now().Format("20060102_150405"), ext))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// FileExtension is the extension used when a formatter's output is written
// to disk.
func FileExtension(name string) string {
	if n := NormalizeFormatName(name); n != "console" {
		return n
	}
	return "txt"
}

var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	CSVFormatter{},
	JSONFormatter{},
}

// GetFormatterByName fetches a registered formatter.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"text":        "console",
	"table":       "console",
	"json-pretty": "json",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// FormatCurrency formats an amount as USD with 2 decimals.
func FormatCurrency(amount float64) string {
	d := decimal.NewFromFloat(amount)
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// FormatPercentage formats a fractional rate as a percentage with 2 decimals.
func FormatPercentage(rate float64) string {
	return decimal.NewFromFloat(rate).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

package output

import (
	"github.com/goccy/go-json"

	"github.com/webxl/inflation-planner/internal/calculation"
	"github.com/webxl/inflation-planner/internal/domain"
)

// ProjectionDocument is the JSON shape shared by the CLI and the API.
type ProjectionDocument struct {
	Name       string                      `json:"name,omitempty"`
	Parameters domain.ProjectionParameters `json:"parameters"`
	Summary    calculation.Summary         `json:"summary"`
	Breakdown  []domain.BreakdownEntry     `json:"breakdown"`
	Series     []domain.BalancePoint       `json:"series"`
}

// Document converts a report into its JSON shape.
func (r *Report) Document() ProjectionDocument {
	series := r.Series
	if series == nil {
		series = []domain.BalancePoint{}
	}
	return ProjectionDocument{
		Name:       r.Name,
		Parameters: r.Parameters,
		Summary:    r.Summary,
		Breakdown:  r.Result.Breakdown.Entries(),
		Series:     series,
	}
}

// JSONFormatter emits an indented ProjectionDocument.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(r *Report) ([]byte, error) {
	return json.MarshalIndent(r.Document(), "", "  ")
}

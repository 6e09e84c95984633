package compare

import (
	"context"
	"fmt"
	"strings"

	"github.com/webxl/inflation-planner/internal/calculation"
	"github.com/webxl/inflation-planner/internal/domain"
	"github.com/webxl/inflation-planner/internal/transform"
)

// CompareEngine orchestrates what-if comparison
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	TransformRegistry *transform.TransformRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	if calcEngine == nil {
		calcEngine = calculation.NewCalculationEngine()
	}
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
		TransformRegistry: transform.NewTransformRegistry(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string   // Display name of the base plan
	Templates        []string // Template names or transform specs ("name:key=value")
	ConfigPath       string   // Source file, for display
}

// resolve looks name up as a template, or parses it as a one-off transform
// spec when it contains a colon.
func (ce *CompareEngine) resolve(name string) (transform.Template, error) {
	if template, ok := ce.TemplateRegistry.Get(name); ok {
		return template, nil
	}
	if strings.Contains(name, ":") {
		t, err := ce.TransformRegistry.ParseTransformSpec(name)
		if err != nil {
			return transform.Template{}, err
		}
		return transform.Template{
			Name:        name,
			Description: t.Description(),
			Transforms:  []transform.ParameterTransform{t},
		}, nil
	}
	return transform.Template{}, fmt.Errorf("template %s not found", name)
}

// Compare projects base and every requested variant of it
func (ce *CompareEngine) Compare(
	ctx context.Context,
	base domain.ProjectionParameters,
	options CompareOptions,
) (*ComparisonSet, error) {

	baseName := options.BaseScenarioName
	if baseName == "" {
		baseName = "base"
	}

	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("failed to calculate base plan: %w", err)
	}

	templates := make([]transform.Template, 0, len(options.Templates))
	plans := []domain.ProjectionParameters{base}
	for _, templateName := range options.Templates {
		template, err := ce.resolve(templateName)
		if err != nil {
			return nil, err
		}
		modified, err := transform.ApplyTemplate(base, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}
		templates = append(templates, template)
		plans = append(plans, modified)
	}

	// Base first, then one projection per template in request order.
	projections, err := ce.CalcEngine.ProjectAll(ctx, plans)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to calculate plans: %w", err)
	}

	baseResult := ce.MetricsCalculator.CalculateMetrics(baseName, base, projections[0])
	baseResult.Description = "Plan as entered"

	alternatives := make([]ComparisonResult, 0, len(templates))
	for i, template := range templates {
		altResult := ce.MetricsCalculator.CalculateMetrics(baseName+"_"+template.Name, plans[i+1], projections[i+1])
		altResult.Description = template.Description
		altResult = ce.MetricsCalculator.CalculateComparison(altResult, baseResult)
		alternatives = append(alternatives, altResult)
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
		ConfigPath:         options.ConfigPath,
	}

	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

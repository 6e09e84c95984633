package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/webxl/inflation-planner/internal/domain"
)

// TemplateRegistry manages named what-if templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ParameterTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names in sorted order
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with the common
// corrections for a savings plan
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	// Retirement timing
	registry.Register(Template{
		Name:        "delay_1yr",
		Description: "Start withdrawals 1 year (12 months) later",
		Transforms:  []ParameterTransform{&PostponeWithdrawal{Months: 12}},
	})
	registry.Register(Template{
		Name:        "delay_2yr",
		Description: "Start withdrawals 2 years (24 months) later",
		Transforms:  []ParameterTransform{&PostponeWithdrawal{Months: 24}},
	})

	// Saving
	registry.Register(Template{
		Name:        "save_10pct_more",
		Description: "Contribute 10% more each month",
		Transforms:  []ParameterTransform{&ScaleMonthlyContribution{Factor: 1.10}},
	})
	registry.Register(Template{
		Name:        "save_25pct_more",
		Description: "Contribute 25% more each month",
		Transforms:  []ParameterTransform{&ScaleMonthlyContribution{Factor: 1.25}},
	})

	// Spending
	registry.Register(Template{
		Name:        "spend_10pct_less",
		Description: "Withdraw 10% less each month",
		Transforms:  []ParameterTransform{&ScaleMonthlyWithdrawal{Factor: 0.90}},
	})
	registry.Register(Template{
		Name:        "spend_20pct_less",
		Description: "Withdraw 20% less each month",
		Transforms:  []ParameterTransform{&ScaleMonthlyWithdrawal{Factor: 0.80}},
	})

	// Market assumptions
	registry.Register(Template{
		Name:        "return_plus_1pct",
		Description: "Earn one percentage point more per year",
		Transforms:  []ParameterTransform{&ShiftReturnRate{Delta: 0.01}},
	})
	registry.Register(Template{
		Name:        "conservative_return",
		Description: "Earn one percentage point less per year",
		Transforms:  []ParameterTransform{&ShiftReturnRate{Delta: -0.01}},
	})

	return registry
}

// ApplyTemplate applies a template to base
func ApplyTemplate(base domain.ProjectionParameters, template Template) (domain.ProjectionParameters, error) {
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := map[string][]Template{}
	order := []string{"Retirement Timing", "Saving", "Spending", "Market Assumptions"}
	for _, name := range registry.List() {
		template := registry.templates[name]
		switch {
		case strings.HasPrefix(name, "delay_"):
			categories["Retirement Timing"] = append(categories["Retirement Timing"], template)
		case strings.HasPrefix(name, "save_"):
			categories["Saving"] = append(categories["Saving"], template)
		case strings.HasPrefix(name, "spend_"):
			categories["Spending"] = append(categories["Spending"], template)
		default:
			categories["Market Assumptions"] = append(categories["Market Assumptions"], template)
		}
	}

	for _, category := range order {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-22s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  planner compare plan.yaml --with delay_1yr,save_10pct_more\n")
	sb.WriteString("  planner compare plan.yaml --with scale_withdrawal:factor=0.85\n")

	return sb.String()
}

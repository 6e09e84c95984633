package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/webxl/inflation-planner/internal/domain"
	"github.com/webxl/inflation-planner/pkg/dateutil"
)

// Plan is a parameter file: the projection inputs plus an optional name used
// when comparing scenarios.
type Plan struct {
	Name        string
	Description string
	Parameters  domain.ProjectionParameters
}

// planDocument mirrors the file layout. Dates are pointers so a missing key
// can be told apart from 1970-01-01.
type planDocument struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	CurrentAge  *int   `yaml:"current_age,omitempty"`

	InitialBalance       float64        `yaml:"initial_balance"`
	ContributionStart    *dateutil.Date `yaml:"contribution_start"`
	MonthlyContribution  float64        `yaml:"monthly_contribution"`
	WithdrawalStart      *dateutil.Date `yaml:"withdrawal_start"`
	WithdrawalEnd        *dateutil.Date `yaml:"withdrawal_end"`
	MonthlyWithdrawal    float64        `yaml:"monthly_withdrawal"`
	InflationRate        float64        `yaml:"inflation_rate"`
	ReturnRate           float64        `yaml:"return_rate"`
	EscalateContribution bool           `yaml:"escalate_contribution"`
	EscalateWithdrawal   bool           `yaml:"escalate_withdrawal"`
}

// InputParser handles parsing of parameter files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Marshal renders plan in the layout Parse reads.
func (ip *InputParser) Marshal(plan *Plan) ([]byte, error) {
	p := plan.Parameters
	doc := planDocument{
		Name:                 plan.Name,
		Description:          plan.Description,
		InitialBalance:       p.InitialBalance,
		ContributionStart:    &p.ContributionStart,
		MonthlyContribution:  p.MonthlyContribution,
		WithdrawalStart:      &p.WithdrawalStart,
		WithdrawalEnd:        &p.WithdrawalEnd,
		MonthlyWithdrawal:    p.MonthlyWithdrawal,
		InflationRate:        p.InflationRate,
		ReturnRate:           p.ReturnRate,
		EscalateContribution: p.EscalateContribution,
		EscalateWithdrawal:   p.EscalateWithdrawal,
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}
	return buf.Bytes(), nil
}

// Parse decodes and validates a plan document. Unknown keys are rejected.
func (ip *InputParser) Parse(data []byte) (*Plan, error) {
	var doc planDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	plan, err := ip.buildPlan(&doc)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return plan, nil
}

func (ip *InputParser) buildPlan(doc *planDocument) (*Plan, error) {
	if doc.ContributionStart == nil {
		return nil, fmt.Errorf("contribution_start is required")
	}

	p := domain.ProjectionParameters{
		InitialBalance:       doc.InitialBalance,
		ContributionStart:    *doc.ContributionStart,
		MonthlyContribution:  doc.MonthlyContribution,
		MonthlyWithdrawal:    doc.MonthlyWithdrawal,
		InflationRate:        doc.InflationRate,
		ReturnRate:           doc.ReturnRate,
		EscalateContribution: doc.EscalateContribution,
		EscalateWithdrawal:   doc.EscalateWithdrawal,
	}

	switch {
	case doc.WithdrawalStart != nil && doc.WithdrawalEnd != nil:
		p.WithdrawalStart = *doc.WithdrawalStart
		p.WithdrawalEnd = *doc.WithdrawalEnd
	case doc.WithdrawalStart == nil && doc.WithdrawalEnd == nil && doc.CurrentAge != nil:
		if *doc.CurrentAge < 0 {
			return nil, fmt.Errorf("current_age cannot be negative")
		}
		p = p.WithRetirementAge(*doc.CurrentAge)
	case doc.WithdrawalStart == nil:
		return nil, fmt.Errorf("withdrawal_start is required")
	default:
		return nil, fmt.Errorf("withdrawal_end is required")
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &Plan{Name: doc.Name, Description: doc.Description, Parameters: p}, nil
}

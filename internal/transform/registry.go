package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/webxl/inflation-planner/pkg/dateutil"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ParameterTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("set_initial_balance", amountFactory("set_initial_balance", func(v float64) ParameterTransform {
		return &SetInitialBalance{Amount: v}
	}))
	registry.Register("set_monthly_contribution", amountFactory("set_monthly_contribution", func(v float64) ParameterTransform {
		return &SetMonthlyContribution{Amount: v}
	}))
	registry.Register("set_monthly_withdrawal", amountFactory("set_monthly_withdrawal", func(v float64) ParameterTransform {
		return &SetMonthlyWithdrawal{Amount: v}
	}))
	registry.Register("set_return_rate", createSetReturnRate)
	registry.Register("set_withdrawal_start", createSetWithdrawalStart)
	registry.Register("scale_contribution", createScaleContribution)
	registry.Register("scale_withdrawal", createScaleWithdrawal)
	registry.Register("shift_return", createShiftReturn)
	registry.Register("postpone_withdrawal", createPostponeWithdrawal)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ParameterTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a one-off transform string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "postpone_withdrawal:months=18"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ParameterTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

func decimalParam(transform, key string, params map[string]string) (float64, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d.InexactFloat64(), nil
}

func amountFactory(name string, build func(float64) ParameterTransform) TransformFactory {
	return func(params map[string]string) (ParameterTransform, error) {
		amount, err := decimalParam(name, "amount", params)
		if err != nil {
			return nil, err
		}
		return build(amount), nil
	}
}

func createSetReturnRate(params map[string]string) (ParameterTransform, error) {
	rate, err := decimalParam("set_return_rate", "rate", params)
	if err != nil {
		return nil, err
	}
	return &SetReturnRate{Rate: rate}, nil
}

func createSetWithdrawalStart(params map[string]string) (ParameterTransform, error) {
	dateStr, ok := params["date"]
	if !ok {
		return nil, fmt.Errorf("set_withdrawal_start requires 'date' parameter")
	}

	date, err := dateutil.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date format, expected YYYY-MM-DD: %w", err)
	}

	return &SetWithdrawalStart{Date: date}, nil
}

func createScaleContribution(params map[string]string) (ParameterTransform, error) {
	factor, err := decimalParam("scale_contribution", "factor", params)
	if err != nil {
		return nil, err
	}
	return &ScaleMonthlyContribution{Factor: factor}, nil
}

func createScaleWithdrawal(params map[string]string) (ParameterTransform, error) {
	factor, err := decimalParam("scale_withdrawal", "factor", params)
	if err != nil {
		return nil, err
	}
	return &ScaleMonthlyWithdrawal{Factor: factor}, nil
}

func createShiftReturn(params map[string]string) (ParameterTransform, error) {
	delta, err := decimalParam("shift_return", "delta", params)
	if err != nil {
		return nil, err
	}
	return &ShiftReturnRate{Delta: delta}, nil
}

func createPostponeWithdrawal(params map[string]string) (ParameterTransform, error) {
	monthsStr, ok := params["months"]
	if !ok {
		return nil, fmt.Errorf("postpone_withdrawal requires 'months' parameter")
	}

	months, err := strconv.Atoi(monthsStr)
	if err != nil {
		return nil, fmt.Errorf("invalid months value: %w", err)
	}

	return &PostponeWithdrawal{Months: months}, nil
}

package transform

import (
	"testing"
)

func TestTransformRegistry_ParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry()
	base := createTestParameters()

	tests := []struct {
		spec  string
		name  string
		check func(t *testing.T, tr ParameterTransform)
	}{
		{"postpone_withdrawal:months=18", "postpone_withdrawal", func(t *testing.T, tr ParameterTransform) {
			p, err := tr.Apply(base)
			if err != nil {
				t.Fatal(err)
			}
			if p.WithdrawalStart.String() != "2046-07-01" {
				t.Errorf("Expected 2046-07-01, got %s", p.WithdrawalStart)
			}
		}},
		{"scale_withdrawal:factor=0.85", "scale_withdrawal", func(t *testing.T, tr ParameterTransform) {
			if tr.(*ScaleMonthlyWithdrawal).Factor != 0.85 {
				t.Errorf("Unexpected factor %v", tr.(*ScaleMonthlyWithdrawal).Factor)
			}
		}},
		{"set_monthly_contribution:amount=1234.56", "set_monthly_contribution", func(t *testing.T, tr ParameterTransform) {
			if tr.(*SetMonthlyContribution).Amount != 1234.56 {
				t.Errorf("Unexpected amount %v", tr.(*SetMonthlyContribution).Amount)
			}
		}},
		{"set_withdrawal_start:date=2050-03-01", "set_withdrawal_start", func(t *testing.T, tr ParameterTransform) {
			if tr.(*SetWithdrawalStart).Date.String() != "2050-03-01" {
				t.Errorf("Unexpected date %s", tr.(*SetWithdrawalStart).Date)
			}
		}},
		{"shift_return:delta=-0.005", "shift_return", nil},
		{"set_return_rate:rate=0.05", "set_return_rate", nil},
		{"set_initial_balance:amount=-2500", "set_initial_balance", nil},
		{"scale_contribution:factor=2", "scale_contribution", nil},
		{"set_monthly_withdrawal:amount=100", "set_monthly_withdrawal", nil},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			tr, err := registry.ParseTransformSpec(tt.spec)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tr.Name() != tt.name {
				t.Errorf("Expected %s, got %s", tt.name, tr.Name())
			}
			if tt.check != nil {
				tt.check(t, tr)
			}
		})
	}
}

func TestTransformRegistry_Errors(t *testing.T) {
	registry := NewTransformRegistry()

	bad := []string{
		"postpone_withdrawal",
		"postpone_withdrawal:months",
		"postpone_withdrawal:months=abc",
		"postpone_withdrawal:years=1",
		"scale_withdrawal:factor=lots",
		"set_withdrawal_start:date=03/01/2050",
		"unknown_transform:x=1",
	}
	for _, spec := range bad {
		if _, err := registry.ParseTransformSpec(spec); err == nil {
			t.Errorf("%s: expected error", spec)
		}
	}
}

func TestTransformRegistry_List(t *testing.T) {
	names := NewTransformRegistry().List()
	if len(names) != 9 {
		t.Errorf("Expected 9 transforms, got %d: %v", len(names), names)
	}
}

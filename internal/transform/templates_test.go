package transform

import (
	"strings"
	"testing"
)

func TestTemplateRegistry_RegisterAndGet(t *testing.T) {
	registry := NewTemplateRegistry()

	template := Template{
		Name:        "test_template",
		Description: "A test template",
		Transforms:  []ParameterTransform{},
	}

	registry.Register(template)

	retrieved, ok := registry.Get("test_template")
	if !ok {
		t.Fatal("Expected to find template")
	}
	if retrieved.Name != template.Name {
		t.Errorf("Expected name %s, got %s", template.Name, retrieved.Name)
	}

	if _, ok = registry.Get("TEST_TEMPLATE"); !ok {
		t.Fatal("Expected case-insensitive lookup to work")
	}

	if _, ok = registry.Get("nonexistent"); ok {
		t.Error("Expected not to find nonexistent template")
	}
}

func TestTemplateRegistry_List(t *testing.T) {
	registry := NewTemplateRegistry()

	registry.Register(Template{Name: "template2", Description: "Second"})
	registry.Register(Template{Name: "template1", Description: "First"})

	names := registry.List()
	if len(names) != 2 {
		t.Fatalf("Expected 2 templates, got %d", len(names))
	}
	if names[0] != "template1" {
		t.Errorf("Expected sorted names, got %v", names)
	}
}

func TestCreateBuiltInTemplates(t *testing.T) {
	registry := CreateBuiltInTemplates()

	expected := []string{
		"delay_1yr", "delay_2yr",
		"save_10pct_more", "save_25pct_more",
		"spend_10pct_less", "spend_20pct_less",
		"return_plus_1pct", "conservative_return",
	}
	for _, name := range expected {
		if _, ok := registry.Get(name); !ok {
			t.Errorf("Expected built-in template %s", name)
		}
	}
	if len(registry.List()) != len(expected) {
		t.Errorf("Expected %d templates, got %d", len(expected), len(registry.List()))
	}
}

func TestApplyTemplate(t *testing.T) {
	registry := CreateBuiltInTemplates()
	base := createTestParameters()

	delay, _ := registry.Get("delay_2yr")
	result, err := ApplyTemplate(base, delay)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.WithdrawalStart.String() != "2047-01-01" {
		t.Errorf("Expected 2047-01-01, got %s", result.WithdrawalStart)
	}

	spend, _ := registry.Get("spend_20pct_less")
	result, err = ApplyTemplate(base, spend)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.MonthlyWithdrawal != 3200 {
		t.Errorf("Expected 3200, got %.2f", result.MonthlyWithdrawal)
	}

	conservative, _ := registry.Get("conservative_return")
	result, err = ApplyTemplate(base, conservative)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.ReturnRate >= base.ReturnRate {
		t.Errorf("Expected a lower return, got %.4f", result.ReturnRate)
	}
}

func TestParseTemplateList(t *testing.T) {
	got := ParseTemplateList(" delay_1yr, ,save_10pct_more ,")
	if len(got) != 2 || got[0] != "delay_1yr" || got[1] != "save_10pct_more" {
		t.Errorf("Unexpected parse result: %v", got)
	}
	if ParseTemplateList("") != nil {
		t.Error("Expected nil for empty list")
	}
}

func TestGetTemplateHelp(t *testing.T) {
	help := GetTemplateHelp(CreateBuiltInTemplates())

	for _, want := range []string{"Retirement Timing:", "Saving:", "Spending:", "Market Assumptions:", "delay_1yr", "conservative_return"} {
		if !strings.Contains(help, want) {
			t.Errorf("Expected help to contain %q", want)
		}
	}

	if GetTemplateHelp(NewTemplateRegistry()) != "No templates registered" {
		t.Error("Expected empty registry message")
	}
}

package validation_test

import (
	"testing"

	"github.com/jmillet/stockroom/framework/http/validation"
)

func TestValidator_Passes(t *testing.T) {
	v := validation.Make(map[string]string{
		"name":        "Widget",
		"quantity":    "3",
		"restockedAt": "2026-08-01",
	}, validation.Rules{
		"name":        "required|min:2|max:100",
		"quantity":    "integer|gte:0",
		"restockedAt": "date",
	})
	if v.Fails() {
		t.Fatalf("unexpected failure: %v", v.Errors().Bag)
	}
}

func TestValidator_Required(t *testing.T) {
	v := validation.Make(map[string]string{"name": "  "}, validation.Rules{"name": "required"})
	if !v.Fails() {
		t.Fatal("blank value should fail required")
	}
	if v.Errors().First("name") == "" {
		t.Error("expected a message for name")
	}
}

func TestValidator_OptionalFieldsSkipWhenAbsent(t *testing.T) {
	// restockedAt not supplied: only "required" may complain about absence.
	v := validation.Make(map[string]string{"name": "Widget"}, validation.Rules{
		"name":        "required",
		"restockedAt": "date",
	})
	if v.Fails() {
		t.Fatalf("absent optional field must not fail: %v", v.Errors().Bag)
	}
}

func TestValidator_Date(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"2026-08-25", true},
		{"2026-13-01", false},
		{"yesterday", false},
		{"25/08/2026", false},
	}
	for _, tt := range tests {
		v := validation.Make(map[string]string{"d": tt.value}, validation.Rules{"d": "date"})
		if v.Passes() != tt.ok {
			t.Errorf("date %q: passes = %v, want %v", tt.value, v.Passes(), tt.ok)
		}
	}
}

func TestValidator_Numbers(t *testing.T) {
	v := validation.Make(map[string]string{
		"quantity": "-1",
	}, validation.Rules{
		"quantity": "integer|gte:0",
	})
	if !v.Fails() {
		t.Fatal("-1 should fail gte:0")
	}

	v = validation.Make(map[string]string{"quantity": "2.5"}, validation.Rules{"quantity": "integer"})
	if !v.Fails() {
		t.Fatal("2.5 should fail integer")
	}
}

func TestValidator_MinMax(t *testing.T) {
	v := validation.Make(map[string]string{"name": "a"}, validation.Rules{"name": "min:2"})
	if !v.Fails() {
		t.Fatal("short value should fail min")
	}
	v = validation.Make(map[string]string{"name": "abcdef"}, validation.Rules{"name": "max:3"})
	if !v.Fails() {
		t.Fatal("long value should fail max")
	}
}

func TestErrors_Flatten(t *testing.T) {
	v := validation.Make(map[string]string{}, validation.Rules{"name": "required"})
	v.Fails()
	if v.Errors().Flatten() == "" {
		t.Error("flatten should produce a message")
	}
}

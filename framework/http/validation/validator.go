package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the accepted wire format for date fields.
const DateLayout = "2006-01-02"

// ── Types ────────────────────────────────────────────────────────────────────

// Errors holds validation errors per field.
// JSON output: {"errors": {"field": ["msg1", "msg2"]}}
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

func (e *Errors) add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Flatten joins every message into one line, for error envelopes.
func (e *Errors) Flatten() string {
	var parts []string
	for _, msgs := range e.Bag {
		parts = append(parts, msgs...)
	}
	return strings.Join(parts, " ")
}

// ── Validator ────────────────────────────────────────────────────────────────

// Rules is a map of field → pipe-separated rule string.
// e.g. Rules{"name": "required|min:2", "quantity": "integer|gte:0"}
type Rules map[string]string

// Validator validates a flat map of input values.
type Validator struct {
	data   map[string]string
	rules  Rules
	errors *Errors
}

// Make creates a new Validator over the given data and rules.
func Make(data map[string]string, rules Rules) *Validator {
	return &Validator{
		data:   data,
		rules:  rules,
		errors: &Errors{},
	}
}

// Fails runs validation and returns true if any rule fails.
func (v *Validator) Fails() bool {
	v.validate()
	return v.errors.Has()
}

// Passes runs validation and returns true if all rules pass.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the validation error bag.
func (v *Validator) Errors() *Errors { return v.errors }

// ── Core validation loop ─────────────────────────────────────────────────────

func (v *Validator) validate() {
	for field, ruleStr := range v.rules {
		value := v.data[field]
		rules := strings.Split(ruleStr, "|")

		for _, rule := range rules {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}

			// Parse rule name and optional parameter: min:3 → name=min, param=3
			name, param, _ := strings.Cut(rule, ":")

			// Optional fields: absent values only fail "required"
			if value == "" && name != "required" {
				continue
			}

			if !v.applyRule(field, value, name, param) {
				break // stop on first failure per field
			}
		}
	}
}

// applyRule returns true if the rule passes.
func (v *Validator) applyRule(field, value, rule, param string) bool {
	switch rule {
	case "required":
		if strings.TrimSpace(value) == "" {
			v.errors.add(field, fmt.Sprintf("The %s field is required.", field))
			return false
		}

	case "numeric":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			v.errors.add(field, fmt.Sprintf("The %s must be a number.", field))
			return false
		}

	case "integer":
		if _, err := strconv.Atoi(value); err != nil {
			v.errors.add(field, fmt.Sprintf("The %s must be an integer.", field))
			return false
		}

	case "date":
		if _, err := time.Parse(DateLayout, value); err != nil {
			v.errors.add(field, fmt.Sprintf("The %s must be a valid date (%s).", field, DateLayout))
			return false
		}

	case "min":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) < n {
			v.errors.add(field, fmt.Sprintf("The %s must be at least %d characters.", field, n))
			return false
		}

	case "max":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) > n {
			v.errors.add(field, fmt.Sprintf("The %s may not be greater than %d characters.", field, n))
			return false
		}

	case "gte":
		limit, _ := strconv.ParseFloat(param, 64)
		got, err := strconv.ParseFloat(value, 64)
		if err != nil || got < limit {
			v.errors.add(field, fmt.Sprintf("The %s must be at least %v.", field, param))
			return false
		}
	}
	return true
}

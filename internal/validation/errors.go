package validation

import (
	"fmt"
	"strings"

	"katalog/internal/i18n"

	ut "github.com/go-playground/universal-translator"
)

// Violation is one failed rule on one field. Key() is the message key.
type Violation struct {
	Field string
	Rule  string
}

// Key returns the "field.rule" message key of the violation.
func (v Violation) Key() string {
	return v.Field + "." + v.Rule
}

// Errors collects every violation of a request, in field then rule order.
type Errors struct {
	violations []Violation
}

// NewErrors builds an Errors from explicit violations.
func NewErrors(violations ...Violation) *Errors {
	return &Errors{violations: violations}
}

// Add records a failed rule.
func (e *Errors) Add(field, rule string) {
	e.violations = append(e.violations, Violation{Field: field, Rule: rule})
}

// Empty reports whether no rule failed.
func (e *Errors) Empty() bool {
	return len(e.violations) == 0
}

// Violations returns a copy of the recorded violations.
func (e *Errors) Violations() []Violation {
	return append([]Violation(nil), e.violations...)
}

// Has reports whether field failed rule.
func (e *Errors) Has(field, rule string) bool {
	for _, v := range e.violations {
		if v.Field == field && v.Rule == rule {
			return true
		}
	}
	return false
}

// Messages translates the violations into the field → messages map sent to
// clients.
func (e *Errors) Messages(trans ut.Translator) map[string][]string {
	out := make(map[string][]string)
	for _, v := range e.violations {
		out[v.Field] = append(out[v.Field], i18n.T(trans, v.Key()))
	}
	return out
}

func (e *Errors) Error() string {
	keys := make([]string, 0, len(e.violations))
	for _, v := range e.violations {
		keys = append(keys, v.Key())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

package poker

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// FieldError describes one invalid field.
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) String() string {
	return f.Field + " " + f.Message
}

// ValidationError reports every invalid field of a rejected record.
// A record that fails validation is never persisted.
type ValidationError struct {
	Kind   string // "tournament", "session", "bankroll entry"
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("invalid %s: %s", e.Kind, strings.Join(parts, "; "))
}

// Has reports whether field is among the rejected fields.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// validator accumulates field errors for one record.
type validator struct {
	kind   string
	fields []FieldError
}

func (v *validator) fail(field, format string, args ...any) {
	v.fields = append(v.fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) required(field, value string) {
	if value == "" {
		v.fail(field, "is required")
	}
}

func (v *validator) date(field, value string, required bool) {
	if value == "" {
		if required {
			v.fail(field, "is required")
		}
		return
	}
	if _, err := ParseDate(value); err != nil {
		v.fail(field, "must be an ISO-8601 date or date-time, got %q", value)
	}
}

func (v *validator) finite(field string, value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		v.fail(field, "must be a finite number")
	}
}

func (v *validator) nonNegative(field string, value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		v.fail(field, "must be a non-negative number")
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Kind: v.kind, Fields: v.fields}
}

// Validate checks a tournament. Either name or site must be set.
func (t Tournament) Validate() error {
	v := validator{kind: "tournament"}
	if t.Name == "" && t.Site == "" {
		v.fail("name", "or site is required")
	}
	v.date("date", t.Date, true)
	v.nonNegative("buyin", t.BuyIn)
	if t.Status != "" && !slices.Contains(Statuses, t.Status) {
		v.fail("status", "must be one of %s", strings.Join(Statuses, ", "))
	}
	if t.ReEntryCount < 0 {
		v.fail("reEntryCount", "must be >= 0")
	}
	return v.err()
}

// Validate checks a session.
func (s Session) Validate() error {
	v := validator{kind: "session"}
	v.date("date", s.Date, true)
	v.nonNegative("buyin", s.BuyIn)
	v.nonNegative("cashout", s.Cashout)
	if s.TournamentID < 0 {
		v.fail("tournamentId", "must be >= 0")
	}
	return v.err()
}

// Validate checks a bankroll entry. Amounts may be negative.
func (b BankrollEntry) Validate() error {
	v := validator{kind: "bankroll entry"}
	v.required("site", b.Site)
	v.required("currency", b.Currency)
	v.finite("amount", b.Amount)
	v.date("date", b.Date, false)
	return v.err()
}

// dateLayouts are the accepted ISO-8601 forms, most specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseDate parses an ISO-8601 date or date-time string.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("poker: unrecognized date %q", s)
}

// ParseAmount parses user input for a numeric field. Empty input is treated
// as missing. The returned error is a *ValidationError naming kind and field.
func ParseAmount(kind, field, input string) (float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, &ValidationError{Kind: kind, Fields: []FieldError{{Field: field, Message: "is required"}}}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &ValidationError{Kind: kind, Fields: []FieldError{{Field: field, Message: fmt.Sprintf("must be a number, got %q", input)}}}
	}
	return f, nil
}

// ParseCount parses an optional non-negative integer field. Empty input is 0.
func ParseCount(kind, field, input string) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, &ValidationError{Kind: kind, Fields: []FieldError{{Field: field, Message: fmt.Sprintf("must be a non-negative integer, got %q", input)}}}
	}
	return n, nil
}

// Package recurrence parses recurrence rule expressions and expands
// them into lazy sequences of occurrence instants.
//
// The grammar is the RFC 5545 RRULE subset used by calendar clients:
// FREQ, INTERVAL, COUNT, UNTIL, BYDAY, BYMONTHDAY, BYMONTH. Grammar
// parsing is delegated to rrule-go; this package layers the domain
// validation on top (COUNT and UNTIL are mutually exclusive, INTERVAL
// must be positive, SECONDLY is not accepted).
package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// InvalidRuleError reports a recurrence rule expression that failed
// validation. Rule preserves the offending text for diagnostics.
type InvalidRuleError struct {
	Rule   string
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("invalid recurrence rule %q: %s", e.Rule, e.Reason)
}

// Rule is a parsed, validated recurrence rule.
type Rule struct {
	text string
	opt  rrule.ROption
}

// String returns the normalized rule expression, e.g. "FREQ=DAILY;COUNT=3".
func (r *Rule) String() string { return r.text }

// Count returns the COUNT bound, or 0 if the rule has none.
func (r *Rule) Count() int { return r.opt.Count }

// Until returns the UNTIL instant and whether the rule has one.
func (r *Rule) Until() (time.Time, bool) {
	return r.opt.Until, !r.opt.Until.IsZero()
}

// ParseRule parses and validates a recurrence rule expression. A
// leading "RRULE:" prefix is tolerated. All failures return
// *InvalidRuleError carrying the original expression.
func ParseRule(expr string) (*Rule, error) {
	text := strings.ToUpper(strings.TrimSpace(expr))
	text = strings.TrimPrefix(text, "RRULE:")
	if text == "" {
		return nil, &InvalidRuleError{Rule: expr, Reason: "empty expression"}
	}

	if err := validateParts(text); err != nil {
		return nil, &InvalidRuleError{Rule: expr, Reason: err.Error()}
	}

	opt, err := rrule.StrToROption(text)
	if err != nil {
		return nil, &InvalidRuleError{Rule: expr, Reason: err.Error()}
	}
	if opt.Freq == rrule.SECONDLY {
		return nil, &InvalidRuleError{Rule: expr, Reason: "unsupported frequency SECONDLY"}
	}
	if opt.Interval < 0 {
		return nil, &InvalidRuleError{Rule: expr, Reason: "interval must be positive"}
	}
	if opt.Interval == 0 {
		opt.Interval = 1
	}

	return &Rule{text: text, opt: *opt}, nil
}

// Validate checks a rule expression without keeping the parsed rule.
func Validate(expr string) error {
	_, err := ParseRule(expr)
	return err
}

// validateParts applies the constraints rrule-go is lenient about:
// FREQ is mandatory, INTERVAL and COUNT must be positive integers, and
// COUNT/UNTIL are mutually exclusive.
func validateParts(text string) error {
	var hasFreq, hasCount, hasUntil bool
	for _, part := range strings.Split(text, ";") {
		name, value, found := strings.Cut(part, "=")
		if !found || value == "" {
			return fmt.Errorf("malformed component %q", part)
		}
		switch name {
		case "FREQ":
			hasFreq = true
		case "INTERVAL":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return fmt.Errorf("interval must be a positive integer, got %q", value)
			}
		case "COUNT":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return fmt.Errorf("count must be a positive integer, got %q", value)
			}
			hasCount = true
		case "UNTIL":
			hasUntil = true
		}
	}
	if !hasFreq {
		return fmt.Errorf("missing FREQ")
	}
	if hasCount && hasUntil {
		return fmt.Errorf("COUNT and UNTIL are mutually exclusive")
	}
	return nil
}

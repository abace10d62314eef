// Package validator checks relationships between date answers: the format of
// each date, the ordering of a range, and the gap between a baseline and a
// treatment range.
package validator

import (
	"fmt"
	"time"

	"github.com/helmcode/questionnaire/pkg/model"
)

// DateLayout is the only accepted date format.
const DateLayout = "2006-01-02"

const (
	largeGapDays     = 30
	carryoverGapDays = 7
	plausibleYears   = 5
)

// Period is a parsed date range.
type Period struct {
	Start time.Time
	End   time.Time
}

// Days returns the length of the period in whole days.
func (p Period) Days() int {
	return DaysBetween(p.Start, p.End)
}

// Validator applies the date rules against an injectable clock.
type Validator struct {
	now func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// New returns a Validator using the wall clock unless overridden.
func New(opts ...Option) *Validator {
	v := &Validator{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD format (e.g. 2024-01-15)", s)
	}
	return t, nil
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// ValidateDate checks the format of a single date.
func (v *Validator) ValidateDate(s string) model.ValidationOutcome {
	if _, err := ParseDate(s); err != nil {
		return model.Fail("Invalid date format. Please use YYYY-MM-DD format (e.g., 2024-01-15)")
	}
	return model.Ok()
}

// ValidateRange checks that start precedes end and warns about implausible
// endpoints.
func (v *Validator) ValidateRange(start, end string) model.ValidationOutcome {
	s, errS := ParseDate(start)
	e, errE := ParseDate(end)
	if errS != nil || errE != nil {
		return model.Fail("Invalid date format")
	}

	out := model.Ok()
	if !s.Before(e) {
		out.Error("Start date must be before end date")
	}

	today := v.today()
	if s.After(today) {
		out.Warn("Start date is in the future")
	}
	if e.After(today) {
		out.Warn("End date is in the future")
	}
	cutoff := today.AddDate(-plausibleYears, 0, 0)
	if s.Before(cutoff) {
		out.Warn("Start date is more than 5 years ago")
	}
	if e.Before(cutoff) {
		out.Warn("End date is more than 5 years ago")
	}
	return out
}

// ValidateTiming checks that the baseline ends before the treatment starts
// and classifies the gap between them.
func (v *Validator) ValidateTiming(baseline, treatment Period) model.ValidationOutcome {
	out := model.Ok()
	if !baseline.End.Before(treatment.Start) {
		out.Error("Control period should end before test period begins for proper baseline comparison")
	}

	gap := DaysBetween(baseline.End, treatment.Start)
	switch {
	case gap > largeGapDays:
		out.Warn(fmt.Sprintf("Large gap (%d days) between control and test periods may affect comparison validity", gap))
	case gap < 0:
		out.Warn("Control and test periods overlap - this may invalidate your baseline comparison")
	}
	if gap >= 0 && gap <= carryoverGapDays {
		out.Warn("Very small gap between control and test periods - ensure no carryover effects")
	}
	return out
}

// ValidateTimingText parses four dates and runs ValidateTiming.
func (v *Validator) ValidateTimingText(baselineStart, baselineEnd, treatmentStart, treatmentEnd string) model.ValidationOutcome {
	var dates [4]time.Time
	for i, s := range []string{baselineStart, baselineEnd, treatmentStart, treatmentEnd} {
		t, err := ParseDate(s)
		if err != nil {
			return model.Fail("Date format error - cannot validate timing relationship")
		}
		dates[i] = t
	}
	return v.ValidateTiming(Period{dates[0], dates[1]}, Period{dates[2], dates[3]})
}

func (v *Validator) today() time.Time {
	now := v.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

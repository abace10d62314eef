package validator

import (
	"testing"
	"time"

	"github.com/helmcode/questionnaire/pkg/catalog"
	"github.com/helmcode/questionnaire/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() Option {
	return WithClock(func() time.Time {
		return time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)
	})
}

func mustPeriod(t *testing.T, start, end string) Period {
	t.Helper()
	s, err := ParseDate(start)
	require.NoError(t, err)
	e, err := ParseDate(end)
	require.NoError(t, err)
	return Period{Start: s, End: e}
}

func TestValidateDate(t *testing.T) {
	v := New(fixedClock())

	for _, s := range []string{"2024-01-15", "2023-12-31", "2024-02-29"} {
		assert.True(t, v.ValidateDate(s).Valid, s)
	}
	for _, s := range []string{"", "2024/01/15", "15-01-2024", "2024-13-01", "2023-02-29", "2024-1-5", "yesterday"} {
		out := v.ValidateDate(s)
		assert.False(t, out.Valid, s)
		assert.Len(t, out.Errors, 1, s)
	}
}

func TestValidateRange(t *testing.T) {
	v := New(fixedClock())

	tests := []struct {
		name     string
		start    string
		end      string
		valid    bool
		errors   int
		warnings []string
	}{
		{name: "ordered past range", start: "2024-01-01", end: "2024-01-31", valid: true},
		{name: "same day", start: "2024-01-01", end: "2024-01-01", valid: false, errors: 1},
		{name: "reversed", start: "2024-02-01", end: "2024-01-01", valid: false, errors: 1},
		{
			name: "future end", start: "2024-05-01", end: "2024-07-01", valid: true,
			warnings: []string{"End date is in the future"},
		},
		{
			name: "future start and end", start: "2024-07-01", end: "2024-08-01", valid: true,
			warnings: []string{"Start date is in the future", "End date is in the future"},
		},
		{
			name: "both older than five years", start: "2019-01-01", end: "2019-03-01", valid: true,
			warnings: []string{"Start date is more than 5 years ago", "End date is more than 5 years ago"},
		},
		{name: "bad format", start: "2024-01-01", end: "Jan 31", valid: false, errors: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := v.ValidateRange(tt.start, tt.end)
			assert.Equal(t, tt.valid, out.Valid)
			assert.Len(t, out.Errors, tt.errors)
			if tt.warnings == nil {
				assert.Empty(t, out.Warnings)
			} else {
				assert.Equal(t, tt.warnings, out.Warnings)
			}
		})
	}
}

func TestValidateTiming(t *testing.T) {
	v := New(fixedClock())

	t.Run("fifteen day gap has no warnings", func(t *testing.T) {
		out := v.ValidateTiming(mustPeriod(t, "2024-01-01", "2024-01-31"), mustPeriod(t, "2024-02-15", "2024-03-15"))
		assert.True(t, out.Valid)
		assert.Empty(t, out.Warnings)
		assert.Empty(t, out.Errors)
	})

	t.Run("overlap is one error and one warning", func(t *testing.T) {
		out := v.ValidateTiming(mustPeriod(t, "2024-01-20", "2024-02-20"), mustPeriod(t, "2024-02-15", "2024-03-15"))
		assert.False(t, out.Valid)
		require.Len(t, out.Errors, 1)
		require.Len(t, out.Warnings, 1)
		assert.Contains(t, out.Warnings[0], "overlap")
	})

	t.Run("one day gap warns about carryover", func(t *testing.T) {
		out := v.ValidateTiming(mustPeriod(t, "2024-01-15", "2024-02-14"), mustPeriod(t, "2024-02-15", "2024-03-15"))
		assert.True(t, out.Valid)
		assert.Empty(t, out.Errors)
		require.Len(t, out.Warnings, 1)
		assert.Contains(t, out.Warnings[0], "carryover")
	})

	t.Run("seven day gap still warns about carryover", func(t *testing.T) {
		out := v.ValidateTiming(mustPeriod(t, "2024-01-01", "2024-02-08"), mustPeriod(t, "2024-02-15", "2024-03-15"))
		assert.True(t, out.Valid)
		require.Len(t, out.Warnings, 1)
		assert.Contains(t, out.Warnings[0], "carryover")
	})

	t.Run("eight day gap is quiet", func(t *testing.T) {
		out := v.ValidateTiming(mustPeriod(t, "2024-01-01", "2024-02-07"), mustPeriod(t, "2024-02-15", "2024-03-15"))
		assert.True(t, out.Valid)
		assert.Empty(t, out.Warnings)
	})

	t.Run("zero gap is an error and a carryover warning", func(t *testing.T) {
		out := v.ValidateTiming(mustPeriod(t, "2024-01-01", "2024-02-15"), mustPeriod(t, "2024-02-15", "2024-03-15"))
		assert.False(t, out.Valid)
		assert.Len(t, out.Errors, 1)
		require.Len(t, out.Warnings, 1)
		assert.Contains(t, out.Warnings[0], "carryover")
	})

	t.Run("large gap", func(t *testing.T) {
		out := v.ValidateTiming(mustPeriod(t, "2023-10-01", "2023-12-01"), mustPeriod(t, "2024-02-15", "2024-03-15"))
		assert.True(t, out.Valid)
		require.Len(t, out.Warnings, 1)
		assert.Contains(t, out.Warnings[0], "Large gap (76 days)")
	})

	t.Run("text form reports bad dates", func(t *testing.T) {
		out := v.ValidateTimingText("2024-01-01", "nope", "2024-02-15", "2024-03-15")
		assert.False(t, out.Valid)
	})
}

func TestGateIncremental(t *testing.T) {
	set := catalog.ExperimentMonitoring(nil)
	gate := NewGate(New(fixedClock()))
	responses := model.NewResponseMap()

	accept := func(id, value string) model.ValidationOutcome {
		t.Helper()
		out := gate.Check(set, responses, id, model.Text(value))
		if out.Valid {
			responses = responses.With(id, model.Text(value))
		}
		return out
	}

	assert.True(t, gate.Check(set, responses, "experiment_description", model.Text("not a date")).Valid)

	out := accept("test_start_date", "02/15/2024")
	assert.False(t, out.Valid, "format is checked on every date field")

	require.True(t, accept("test_start_date", "2024-02-15").Valid)

	out = accept("test_end_date", "2024-02-01")
	assert.False(t, out.Valid, "range order is checked once both ends are known")

	require.True(t, accept("test_end_date", "2024-03-15").Valid)

	out = accept("control_start_date", "2024-02-20")
	assert.False(t, out.Valid, "control start after test start is rejected before control end is known")
	assert.Contains(t, out.Errors[0], "Control period start date")

	require.True(t, accept("control_start_date", "2024-01-01").Valid)

	out = accept("control_end_date", "2024-02-20")
	assert.False(t, out.Valid)
	assert.Len(t, out.Errors, 1)
	assert.Contains(t, out.Warnings, "Control and test periods overlap - this may invalidate your baseline comparison")

	out = accept("control_end_date", "2024-01-31")
	assert.True(t, out.Valid)
	assert.Empty(t, out.Warnings)
	assert.Equal(t, "2024-01-31", responses.Text("control_end_date"))
}

func TestGateSkipsEmptyOptionalDates(t *testing.T) {
	set := model.QuestionSet{
		ID: "window",
		Questions: []model.QuestionSpec{
			{ID: "from", Prompt: "From?", Type: model.FreeText},
			{ID: "to", Prompt: "To?", Type: model.FreeText},
		},
		Ranges: []model.DateRange{{Name: "window", StartID: "from", EndID: "to"}},
	}
	gate := NewGate(New(fixedClock()))
	assert.True(t, gate.Check(set, model.NewResponseMap(), "from", model.Text("")).Valid)
}

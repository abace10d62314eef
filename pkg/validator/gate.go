package validator

import "github.com/helmcode/questionnaire/pkg/model"

// Gate re-runs the date rules incrementally while a set is being answered.
// An outcome with errors blocks the answer being entered.
type Gate struct {
	v *Validator
}

// NewGate returns a Gate backed by v.
func NewGate(v *Validator) *Gate {
	return &Gate{v: v}
}

// Check validates answer as the value of question id given the answers
// accepted so far. Fields that are not range endpoints always pass.
func (g *Gate) Check(set model.QuestionSet, responses model.ResponseMap, id string, answer model.Answer) model.ValidationOutcome {
	if !isEndpoint(set, id) || answer.IsEmpty() {
		return model.Ok()
	}

	out := g.v.ValidateDate(answer.String())
	if !out.Valid {
		return out
	}

	known := responses.With(id, answer)
	for _, r := range set.AllRanges() {
		if r.StartID != id && r.EndID != id {
			continue
		}
		start, end := known.Text(r.StartID), known.Text(r.EndID)
		if start == "" || end == "" {
			continue
		}
		out = out.Merge(g.v.ValidateRange(start, end))
	}

	if c := set.Comparison; c != nil && touches(c, id) {
		out = out.Merge(g.checkComparison(c, known))
	}
	return out
}

func (g *Gate) checkComparison(c *model.Comparison, known model.ResponseMap) model.ValidationOutcome {
	baseStart, baseEnd := known.Text(c.Baseline.StartID), known.Text(c.Baseline.EndID)
	treatStart := known.Text(c.Treatment.StartID)

	switch {
	case baseEnd != "" && treatStart != "":
		end, err1 := ParseDate(baseEnd)
		start, err2 := ParseDate(treatStart)
		if err1 != nil || err2 != nil {
			return model.Fail("Date format error - cannot validate timing relationship")
		}
		return g.v.ValidateTiming(Period{End: end}, Period{Start: start})
	case baseStart != "" && treatStart != "":
		bs, err1 := ParseDate(baseStart)
		ts, err2 := ParseDate(treatStart)
		if err1 != nil || err2 != nil {
			return model.Ok()
		}
		if !bs.Before(ts) {
			return model.Fail("Control period start date cannot be on or after test period start date")
		}
	}
	return model.Ok()
}

func isEndpoint(set model.QuestionSet, id string) bool {
	for _, r := range set.AllRanges() {
		if r.StartID == id || r.EndID == id {
			return true
		}
	}
	return false
}

func touches(c *model.Comparison, id string) bool {
	switch id {
	case c.Baseline.StartID, c.Baseline.EndID, c.Treatment.StartID, c.Treatment.EndID:
		return true
	}
	return false
}

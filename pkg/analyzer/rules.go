package analyzer

import (
	"fmt"
	"strings"
	"time"

	"github.com/helmcode/questionnaire/pkg/model"
)

// Input is everything a rule can look at.
type Input struct {
	Set       model.QuestionSet
	Responses model.ResponseMap
	Now       time.Time
}

// FieldRule turns one answered question into a section. The answer is echoed
// under Key and followed by whatever Interpret returns.
type FieldRule struct {
	ID        string
	Section   string
	Key       string
	Interpret func(model.Answer) []model.Entry
}

// ListRule turns a multi-choice answer into a section with a per-item
// priority and a per-item action list.
type ListRule struct {
	ID       string
	Section  string
	Key      string
	Priority *PriorityTable
	Actions  *ActionTable
}

// PriorityTable maps items to a priority label; unknown items get "Medium".
type PriorityTable struct {
	Key    string
	Levels map[string]string
}

// ActionTable maps items to suggested actions; unknown items get Default.
type ActionTable struct {
	Key     string
	Actions map[string][]string
	Default []string
}

// DerivedRule builds a section from several answers. Returning false omits it.
type DerivedRule struct {
	Section string
	Build   func(Input) ([]model.Entry, bool)
}

// Condition adds Weight to the verdict score when When holds.
type Condition struct {
	Weight int
	When   func(Input) bool
}

// Verdict buckets the weighted condition score into three tiers.
type Verdict struct {
	Conditions      []Condition
	High            int
	Medium          int
	Recommendations map[model.Tier][]string

	// Extra recommendations appended after the tier list.
	Extra func(Input, model.Tier) []string
	// Health overrides the tier based health label.
	Health func(Input, model.Tier) string
	// HealthRecommendations, when set, replaces the tier list with the list
	// for the health label.
	HealthRecommendations map[string][]string
	// Details appends kind specific entries to the overall assessment.
	Details func(Input, model.Tier, int) []model.Entry
}

// Default verdict thresholds.
const (
	DefaultHighThreshold   = 5
	DefaultMediumThreshold = 3
)

// Tier maps a score onto the verdict tiers.
func (v Verdict) Tier(score int) model.Tier {
	high, medium := v.High, v.Medium
	if high == 0 {
		high = DefaultHighThreshold
	}
	if medium == 0 {
		medium = DefaultMediumThreshold
	}
	switch {
	case score >= high:
		return model.TierHigh
	case score >= medium:
		return model.TierMedium
	default:
		return model.TierLow
	}
}

// Score sums the weights of the conditions that hold.
func (v Verdict) Score(in Input) int {
	score := 0
	for _, c := range v.Conditions {
		if c.When(in) {
			score += c.Weight
		}
	}
	return score
}

// HealthFor returns the default health label of a tier.
func HealthFor(tier model.Tier) string {
	switch tier {
	case model.TierLow:
		return "Good"
	case model.TierMedium:
		return "Fair"
	default:
		return "Concerning"
	}
}

// Rating tier labels, best first.
const (
	RatingExcellent = "Excellent - High satisfaction level"
	RatingGood      = "Good - Satisfactory level with room for improvement"
	RatingFair      = "Fair - Some concerns that need attention"
	RatingPoor      = "Poor - Significant issues requiring immediate attention"
	RatingVeryPoor  = "Very Poor - Critical issues requiring urgent action"
)

// Percent returns score as a percentage of scale.
func Percent(score, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	return score / scale * 100
}

// InterpretRating labels a rating by its share of the scale at 80/60/40/20.
func InterpretRating(score, scale float64) string {
	pct := Percent(score, scale)
	switch {
	case pct >= 80:
		return RatingExcellent
	case pct >= 60:
		return RatingGood
	case pct >= 40:
		return RatingFair
	case pct >= 20:
		return RatingPoor
	default:
		return RatingVeryPoor
	}
}

// PercentTiers holds recommendations for the >=80, >=60, >=40 and lower bands.
type PercentTiers [4][]string

func (t PercentTiers) For(score, scale float64) []string {
	pct := Percent(score, scale)
	switch {
	case pct >= 80:
		return t[0]
	case pct >= 60:
		return t[1]
	case pct >= 40:
		return t[2]
	default:
		return t[3]
	}
}

// ScoreTiers holds recommendations for raw scores >=4, >=3 and lower.
type ScoreTiers [3][]string

func (t ScoreTiers) For(score float64) []string {
	switch {
	case score >= 4:
		return t[0]
	case score >= 3:
		return t[1]
	default:
		return t[2]
	}
}

// lookupList echoes a single-choice answer and lists the table entry for it.
func lookupList(key string, table map[string][]string, fallback ...string) func(model.Answer) []model.Entry {
	return func(a model.Answer) []model.Entry {
		items, ok := table[a.String()]
		if !ok {
			items = fallback
		}
		return []model.Entry{model.E(key, model.ListOf(items...))}
	}
}

// lookupText is lookupList for a single label.
func lookupText(key string, table map[string]string, fallback string) func(model.Answer) []model.Entry {
	return func(a model.Answer) []model.Entry {
		label, ok := table[a.String()]
		if !ok {
			label = fallback
		}
		return []model.Entry{model.E(key, model.TextOf(label))}
	}
}

// phrase pairs a substring with the label chosen when it is present.
type phrase struct {
	contains string
	label    string
}

// matchPhrase labels an answer by the first phrase it contains.
func matchPhrase(key string, phrases []phrase, fallback string) func(model.Answer) []model.Entry {
	return func(a model.Answer) []model.Entry {
		s := a.String()
		for _, p := range phrases {
			if strings.Contains(s, p.contains) {
				return []model.Entry{model.E(key, model.TextOf(p.label))}
			}
		}
		return []model.Entry{model.E(key, model.TextOf(fallback))}
	}
}

// ratingRule builds the score/interpretation/recommendations section of a
// rating question.
func ratingRule(id, section string, scale float64, recommend func(float64) []string) FieldRule {
	return FieldRule{
		ID:      id,
		Section: section,
		Key:     "score",
		Interpret: func(a model.Answer) []model.Entry {
			return []model.Entry{
				model.E("interpretation", model.TextOf(InterpretRating(a.Number, scale))),
				model.E("recommendations", model.ListOf(recommend(a.Number)...)),
			}
		},
	}
}

// answerValue converts an answer into a section value.
func answerValue(a model.Answer) model.Value {
	switch a.Shape {
	case model.ListAnswer:
		return model.ListOf(a.List...)
	case model.NumberAnswer:
		return model.NumberOf(a.Number)
	default:
		return model.TextOf(a.String())
	}
}

// equals holds when the text answer of id is one of values.
func equals(id string, values ...string) func(Input) bool {
	return func(in Input) bool {
		got := in.Responses.Text(id)
		for _, v := range values {
			if got == v {
				return true
			}
		}
		return false
	}
}

// moreThan holds when the list answer of id has more than n items.
func moreThan(id string, n int) func(Input) bool {
	return func(in Input) bool {
		return len(in.Responses.List(id)) > n
	}
}

func plural(n int, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss", n, unit)
	}
	return fmt.Sprintf("%d %s", n, unit)
}

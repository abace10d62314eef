// Package analyzer maps a completed set of responses to sections of derived
// data and one overall verdict. Every question-set kind is described by a
// Profile; the Engine itself knows nothing about individual kinds.
package analyzer

import (
	"time"

	"github.com/helmcode/questionnaire/pkg/model"
	"go.uber.org/zap"
)

// Profile is the analysis configuration of one question-set kind.
type Profile struct {
	Kind    model.Kind
	Fields  []FieldRule
	Lists   []ListRule
	Derived []DerivedRule
	Verdict Verdict
}

type Engine struct {
	profiles map[model.Kind]Profile
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now for rules that look at the current date.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithProfile registers p, replacing any profile of the same kind.
func WithProfile(p Profile) Option {
	return func(e *Engine) { e.profiles[p.Kind] = p }
}

// New returns an Engine loaded with the built-in profiles.
func New(opts ...Option) *Engine {
	e := &Engine{
		profiles: map[model.Kind]Profile{},
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, p := range builtinProfiles() {
		e.profiles[p.Kind] = p
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Profile returns the profile used for kind. Unknown kinds get the generic
// profile.
func (e *Engine) Profile(kind model.Kind) Profile {
	if p, ok := e.profiles[kind]; ok {
		return p
	}
	return e.profiles[model.KindCustom]
}

// Analyze runs the profile of set.Kind over responses. Sections whose
// source questions were not answered are omitted.
func (e *Engine) Analyze(set model.QuestionSet, responses model.ResponseMap) model.AnalysisResult {
	p := e.Profile(set.Kind)
	in := Input{Set: set, Responses: responses, Now: e.now()}

	var result model.AnalysisResult
	for _, rule := range p.Fields {
		a, ok := responses.Get(rule.ID)
		if !ok || a.IsEmpty() {
			continue
		}
		entries := []model.Entry{model.E(rule.Key, answerValue(a))}
		if rule.Interpret != nil {
			entries = append(entries, rule.Interpret(a)...)
		}
		result.Sections = append(result.Sections, model.Section{Name: rule.Section, Entries: entries})
	}

	for _, rule := range p.Lists {
		items := responses.List(rule.ID)
		if len(items) == 0 {
			continue
		}
		result.Sections = append(result.Sections, model.Section{Name: rule.Section, Entries: listEntries(rule, items)})
	}

	for _, rule := range p.Derived {
		entries, ok := rule.Build(in)
		if !ok {
			continue
		}
		result.Sections = append(result.Sections, model.Section{Name: rule.Section, Entries: entries})
	}

	result.Overall = overall(p.Verdict, in)
	e.logger.Debug("analysis complete",
		zap.String("set", set.ID),
		zap.String("kind", p.Kind.String()),
		zap.Int("sections", len(result.Sections)),
		zap.Int("score", result.Overall.Score),
		zap.String("verdict", string(result.Overall.Verdict)))
	return result
}

func listEntries(rule ListRule, items []string) []model.Entry {
	entries := []model.Entry{model.E(rule.Key, model.ListOf(items...))}

	if t := rule.Priority; t != nil {
		levels := make([]model.Entry, 0, len(items))
		for _, item := range items {
			level, ok := t.Levels[item]
			if !ok {
				level = string(model.TierMedium)
			}
			levels = append(levels, model.E(item, model.TextOf(level)))
		}
		entries = append(entries, model.E(t.Key, model.MapOf(levels...)))
	}

	if t := rule.Actions; t != nil {
		actions := make([]model.Entry, 0, len(items))
		for _, item := range items {
			list, ok := t.Actions[item]
			if !ok {
				list = t.Default
			}
			actions = append(actions, model.E(item, model.ListOf(list...)))
		}
		entries = append(entries, model.E(t.Key, model.MapOf(actions...)))
	}
	return entries
}

func overall(v Verdict, in Input) model.Overall {
	score := v.Score(in)
	tier := v.Tier(score)

	health := HealthFor(tier)
	if v.Health != nil {
		health = v.Health(in, tier)
	}

	recs := append([]string{}, v.Recommendations[tier]...)
	if v.HealthRecommendations != nil {
		recs = append([]string{}, v.HealthRecommendations[health]...)
	}
	if v.Extra != nil {
		recs = append(recs, v.Extra(in, tier)...)
	}

	o := model.Overall{
		Verdict:         tier,
		Score:           score,
		Health:          health,
		Recommendations: recs,
		Details:         []model.Entry{},
	}
	if v.Details != nil {
		o.Details = append(o.Details, v.Details(in, tier, score)...)
	}
	return o
}

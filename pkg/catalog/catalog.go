// Package catalog holds the built-in question sets and builds custom ones.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/helmcode/questionnaire/pkg/model"
)

// Category groups question sets for display.
type Category struct {
	ID          string
	Name        string
	Description string
	SetIDs      []string
}

// Catalog is the registry of question sets available to a run.
type Catalog struct {
	sets       []model.QuestionSet
	categories []Category
}

// New returns a catalog with the built-in sets. metricOptions feeds the
// experiment monitoring set; nil selects DefaultMetricOptions.
func New(metricOptions []string) *Catalog {
	return &Catalog{
		sets: []model.QuestionSet{
			businessAnalysis(),
			investmentAnalysis(),
			projectManagement(),
			customerSatisfaction(),
			employeeSatisfaction(),
			ExperimentMonitoring(metricOptions),
		},
		categories: builtinCategories(),
	}
}

// Get returns the set registered under id.
func (c *Catalog) Get(id string) (model.QuestionSet, bool) {
	for _, s := range c.sets {
		if s.ID == id {
			return s, true
		}
	}
	return model.QuestionSet{}, false
}

// Sets returns all registered sets in registration order.
func (c *Catalog) Sets() []model.QuestionSet {
	return append([]model.QuestionSet(nil), c.sets...)
}

// Categories returns the categories, including any added by Register.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		cat.SetIDs = append([]string(nil), cat.SetIDs...)
		out[i] = cat
	}
	return out
}

// Register adds a custom set. The id must not already be taken.
func (c *Catalog) Register(set model.QuestionSet) error {
	if _, exists := c.Get(set.ID); exists {
		return fmt.Errorf("question set %q already registered", set.ID)
	}
	c.sets = append(c.sets, set)
	for i := range c.categories {
		if c.categories[i].ID == set.Category {
			c.categories[i].SetIDs = append(c.categories[i].SetIDs, set.ID)
			return nil
		}
	}
	c.categories = append(c.categories, Category{
		ID:     set.Category,
		Name:   titleCase(set.Category) + " Analysis",
		SetIDs: []string{set.ID},
	})
	return nil
}

// ValidateQuestion checks the structural invariants of one question.
func ValidateQuestion(q model.QuestionSpec) error {
	var errs []error
	if strings.TrimSpace(q.ID) == "" {
		errs = append(errs, errors.New("missing id"))
	}
	if strings.TrimSpace(q.Prompt) == "" {
		errs = append(errs, errors.New("missing question text"))
	}
	switch q.Type {
	case model.SingleChoice, model.MultiChoice:
		if len(q.Options) == 0 {
			errs = append(errs, fmt.Errorf("%s question requires options", q.Type))
		}
		seen := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				errs = append(errs, errors.New("empty option"))
				continue
			}
			if seen[opt] {
				errs = append(errs, fmt.Errorf("duplicate option %q", opt))
			}
			seen[opt] = true
		}
	case model.Rating:
		if q.Scale <= 0 {
			errs = append(errs, errors.New("rating question requires a positive scale"))
		}
	case model.FreeText, model.Numeric:
	default:
		errs = append(errs, fmt.Errorf("unknown question type %d", int(q.Type)))
	}
	if len(errs) > 0 {
		label := q.ID
		if label == "" {
			label = "<no id>"
		}
		return fmt.Errorf("question %s: %w", label, errors.Join(errs...))
	}
	return nil
}

// NewCustomSet validates every question and builds a custom-kind set.
// No set is returned when any question is invalid or ids repeat.
func NewCustomSet(id, name, description, category string, questions []model.QuestionSpec) (model.QuestionSet, error) {
	set := model.QuestionSet{
		ID:          id,
		Kind:        model.KindCustom,
		Name:        name,
		Description: description,
		Category:    category,
		Questions:   append([]model.QuestionSpec(nil), questions...),
	}
	if err := validateSet(set); err != nil {
		return model.QuestionSet{}, err
	}
	return set, nil
}

func validateSet(set model.QuestionSet) error {
	if strings.TrimSpace(set.ID) == "" {
		return errors.New("question set id is required")
	}
	if strings.TrimSpace(set.Name) == "" {
		return fmt.Errorf("question set %s: name is required", set.ID)
	}
	if len(set.Questions) == 0 {
		return fmt.Errorf("question set %s: no questions", set.ID)
	}
	ids := make(map[string]bool, len(set.Questions))
	for i, q := range set.Questions {
		if err := ValidateQuestion(q); err != nil {
			return fmt.Errorf("question set %s: #%d: %w", set.ID, i+1, err)
		}
		if ids[q.ID] {
			return fmt.Errorf("question set %s: duplicate question id %q", set.ID, q.ID)
		}
		ids[q.ID] = true
	}
	for _, r := range set.AllRanges() {
		for _, id := range []string{r.StartID, r.EndID} {
			q, ok := set.Question(id)
			if !ok {
				return fmt.Errorf("question set %s: range %q references unknown question %q", set.ID, r.Name, id)
			}
			if q.Type != model.FreeText {
				return fmt.Errorf("question set %s: range %q field %q must be free_text", set.ID, r.Name, id)
			}
		}
	}
	return nil
}

func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

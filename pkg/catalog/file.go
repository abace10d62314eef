package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/helmcode/questionnaire/pkg/model"
	"gopkg.in/yaml.v3"
)

// QuestionDef is one question as written in a set definition file.
type QuestionDef struct {
	ID       string   `yaml:"id" json:"id"`
	Question string   `yaml:"question" json:"question"`
	Type     string   `yaml:"type" json:"type"`
	Options  []string `yaml:"options" json:"options"`
	Scale    int      `yaml:"scale" json:"scale"`
	Required bool     `yaml:"required" json:"required"`
	Help     string   `yaml:"help" json:"help"`
	HelpText string   `yaml:"help_text" json:"help_text"`
}

// SetDef is a custom question set definition file.
type SetDef struct {
	ID          string            `yaml:"id" json:"id"`
	Kind        string            `yaml:"kind" json:"kind"`
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	Category    string            `yaml:"category" json:"category"`
	Questions   []QuestionDef     `yaml:"questions" json:"questions"`
	Ranges      []model.DateRange `yaml:"ranges" json:"ranges"`
	Comparison  *model.Comparison `yaml:"comparison" json:"comparison"`
}

// Spec converts the definition into a QuestionSpec and validates it.
func (d QuestionDef) Spec() (model.QuestionSpec, error) {
	q := model.QuestionSpec{
		ID:       strings.TrimSpace(d.ID),
		Prompt:   d.Question,
		Options:  d.Options,
		Scale:    d.Scale,
		Required: d.Required,
		Help:     d.Help,
	}
	if q.Help == "" {
		q.Help = d.HelpText
	}
	if strings.TrimSpace(d.Type) == "" {
		return q, fmt.Errorf("question %s: missing type", q.ID)
	}
	t, err := model.ParseQuestionType(d.Type)
	if err != nil {
		return q, fmt.Errorf("question %s: %w", q.ID, err)
	}
	q.Type = t
	if t == model.Rating && q.Scale == 0 {
		q.Scale = 5
	}
	return q, ValidateQuestion(q)
}

// Check validates every question independently and returns one entry per
// question: nil when that question is valid.
func (d SetDef) Check() []error {
	out := make([]error, len(d.Questions))
	for i, qd := range d.Questions {
		_, out[i] = qd.Spec()
	}
	return out
}

// Build converts the definition into a validated QuestionSet.
func (d SetDef) Build() (model.QuestionSet, error) {
	questions := make([]model.QuestionSpec, 0, len(d.Questions))
	for i, qd := range d.Questions {
		q, err := qd.Spec()
		if err != nil {
			return model.QuestionSet{}, fmt.Errorf("question set %s: #%d: %w", d.ID, i+1, err)
		}
		questions = append(questions, q)
	}
	category := d.Category
	if category == "" {
		category = "custom"
	}
	set, err := NewCustomSet(d.ID, d.Name, d.Description, category, questions)
	if err != nil {
		return model.QuestionSet{}, err
	}
	if d.Kind != "" {
		kind, err := model.ParseKind(d.Kind)
		if err != nil {
			return model.QuestionSet{}, fmt.Errorf("question set %s: %w", d.ID, err)
		}
		set.Kind = kind
	}
	set.Ranges = d.Ranges
	set.Comparison = d.Comparison
	if err := validateSet(set); err != nil {
		return model.QuestionSet{}, err
	}
	return set, nil
}

// ReadFile decodes a set definition. Files ending in .json are decoded as
// JSON, anything else as YAML.
func ReadFile(path string) (*SetDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question set file: %w", err)
	}
	var def SetDef
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &def)
	} else {
		err = yaml.Unmarshal(data, &def)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse question set file %s: %w", path, err)
	}
	if def.ID == "" {
		base := filepath.Base(path)
		def.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return &def, nil
}

// LoadFile reads and builds a custom question set.
func LoadFile(path string) (model.QuestionSet, error) {
	def, err := ReadFile(path)
	if err != nil {
		return model.QuestionSet{}, err
	}
	set, err := def.Build()
	if err != nil {
		return model.QuestionSet{}, fmt.Errorf("invalid question set file %s: %w", path, err)
	}
	return set, nil
}

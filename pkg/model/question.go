package model

import (
	"fmt"
	"strings"
)

// QuestionType is the closed set of answer shapes a question can ask for.
type QuestionType int

const (
	SingleChoice QuestionType = iota + 1
	MultiChoice
	FreeText
	Numeric
	Rating
)

var questionTypeNames = map[QuestionType]string{
	SingleChoice: "single_choice",
	MultiChoice:  "multi_choice",
	FreeText:     "free_text",
	Numeric:      "numeric",
	Rating:       "rating",
}

// legacy tags used by older question files
var questionTypeAliases = map[string]QuestionType{
	"multiple_choice": SingleChoice,
	"multi_select":    MultiChoice,
	"text":            FreeText,
}

func (t QuestionType) String() string {
	if name, ok := questionTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("QuestionType(%d)", int(t))
}

// IsChoice reports whether the type presents a list of options.
func (t QuestionType) IsChoice() bool {
	return t == SingleChoice || t == MultiChoice
}

// ParseQuestionType converts a type tag into a QuestionType.
func ParseQuestionType(tag string) (QuestionType, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for t, name := range questionTypeNames {
		if name == tag {
			return t, nil
		}
	}
	if t, ok := questionTypeAliases[tag]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown question type %q", tag)
}

func (t QuestionType) MarshalText() ([]byte, error) {
	if _, ok := questionTypeNames[t]; !ok {
		return nil, fmt.Errorf("invalid question type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *QuestionType) UnmarshalText(text []byte) error {
	parsed, err := ParseQuestionType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// QuestionSpec describes a single question of a set.
type QuestionSpec struct {
	ID       string       `json:"id" yaml:"id"`
	Prompt   string       `json:"question" yaml:"question"`
	Type     QuestionType `json:"type" yaml:"type"`
	Options  []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Scale    int          `json:"scale,omitempty" yaml:"scale,omitempty"`
	Required bool         `json:"required" yaml:"required"`
	Help     string       `json:"help,omitempty" yaml:"help,omitempty"`
}

// DateRange names the two free_text questions holding a start and end date.
type DateRange struct {
	Name    string `json:"name" yaml:"name"`
	StartID string `json:"start_id" yaml:"start_id"`
	EndID   string `json:"end_id" yaml:"end_id"`
}

// Comparison declares a baseline range that must end before the treatment range starts.
type Comparison struct {
	Baseline  DateRange `json:"baseline" yaml:"baseline"`
	Treatment DateRange `json:"treatment" yaml:"treatment"`
}

// QuestionSet is a named, ordered list of questions plus metadata.
type QuestionSet struct {
	ID          string         `json:"id" yaml:"id"`
	Kind        Kind           `json:"kind" yaml:"kind"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Category    string         `json:"category" yaml:"category"`
	Questions   []QuestionSpec `json:"questions" yaml:"questions"`
	Ranges      []DateRange    `json:"ranges,omitempty" yaml:"ranges,omitempty"`
	Comparison  *Comparison    `json:"comparison,omitempty" yaml:"comparison,omitempty"`
}

// Question returns the question with the given id.
func (s QuestionSet) Question(id string) (QuestionSpec, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return QuestionSpec{}, false
}

// AllRanges returns the declared ranges followed by the comparison ranges.
func (s QuestionSet) AllRanges() []DateRange {
	ranges := append([]DateRange(nil), s.Ranges...)
	if s.Comparison != nil {
		ranges = append(ranges, s.Comparison.Baseline, s.Comparison.Treatment)
	}
	return ranges
}

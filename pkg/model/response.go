package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AnswerShape is the JSON shape of a stored answer.
type AnswerShape int

const (
	NullAnswer AnswerShape = iota
	TextAnswer
	ListAnswer
	NumberAnswer
)

// Answer is one collected value: a string, a list of strings, a number or null.
type Answer struct {
	Shape  AnswerShape
	Text   string
	List   []string
	Number float64
}

func Text(s string) Answer { return Answer{Shape: TextAnswer, Text: s} }

func List(items ...string) Answer {
	return Answer{Shape: ListAnswer, List: append(make([]string, 0, len(items)), items...)}
}

func Number(n float64) Answer { return Answer{Shape: NumberAnswer, Number: n} }

func Null() Answer { return Answer{} }

// IsEmpty reports whether the answer carries no value.
func (a Answer) IsEmpty() bool {
	switch a.Shape {
	case TextAnswer:
		return a.Text == ""
	case ListAnswer:
		return len(a.List) == 0
	case NumberAnswer:
		return false
	default:
		return true
	}
}

// String formats the answer for display.
func (a Answer) String() string {
	switch a.Shape {
	case TextAnswer:
		return a.Text
	case ListAnswer:
		return strings.Join(a.List, ", ")
	case NumberAnswer:
		return FormatNumber(a.Number)
	default:
		return ""
	}
}

// FormatNumber prints integral values without a fractional part.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Shape {
	case TextAnswer:
		return json.Marshal(a.Text)
	case ListAnswer:
		return json.Marshal(append(make([]string, 0, len(a.List)), a.List...))
	case NumberAnswer:
		return json.Marshal(a.Number)
	default:
		return []byte("null"), nil
	}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = Null()
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Text(s)
	case len(data) > 0 && data[0] == '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("answer list: %w", err)
		}
		*a = List(items...)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("answer: %w", err)
		}
		*a = Number(n)
	}
	return nil
}

func (a Answer) MarshalYAML() (interface{}, error) {
	switch a.Shape {
	case TextAnswer:
		return a.Text, nil
	case ListAnswer:
		return a.List, nil
	case NumberAnswer:
		return a.Number, nil
	default:
		return nil, nil
	}
}

// ResponseMap holds the answers of one run in the order they were given.
// It is immutable: With returns a new map.
type ResponseMap struct {
	ids     []string
	answers map[string]Answer
}

// NewResponseMap returns an empty response map.
func NewResponseMap() ResponseMap {
	return ResponseMap{answers: map[string]Answer{}}
}

// With returns a copy of m with id set to a.
func (m ResponseMap) With(id string, a Answer) ResponseMap {
	next := ResponseMap{
		ids:     append(make([]string, 0, len(m.ids)+1), m.ids...),
		answers: make(map[string]Answer, len(m.answers)+1),
	}
	for k, v := range m.answers {
		next.answers[k] = v
	}
	if _, exists := next.answers[id]; !exists {
		next.ids = append(next.ids, id)
	}
	next.answers[id] = a
	return next
}

func (m ResponseMap) Get(id string) (Answer, bool) {
	a, ok := m.answers[id]
	return a, ok
}

// Text returns the text answer for id, or "" when absent or not text.
func (m ResponseMap) Text(id string) string {
	if a, ok := m.answers[id]; ok && a.Shape == TextAnswer {
		return a.Text
	}
	return ""
}

// List returns the list answer for id, or nil.
func (m ResponseMap) List(id string) []string {
	if a, ok := m.answers[id]; ok && a.Shape == ListAnswer {
		return a.List
	}
	return nil
}

// Number returns the numeric answer for id.
func (m ResponseMap) Number(id string) (float64, bool) {
	if a, ok := m.answers[id]; ok && a.Shape == NumberAnswer {
		return a.Number, true
	}
	return 0, false
}

func (m ResponseMap) Len() int { return len(m.ids) }

// IDs returns the answered question ids in insertion order.
func (m ResponseMap) IDs() []string {
	return append([]string(nil), m.ids...)
}

// Equal reports whether both maps hold the same answers in the same order.
func (m ResponseMap) Equal(other ResponseMap) bool {
	if len(m.ids) != len(other.ids) {
		return false
	}
	for i, id := range m.ids {
		if other.ids[i] != id || !m.answers[id].Equal(other.answers[id]) {
			return false
		}
	}
	return true
}

// Equal compares two answers by shape and value.
func (a Answer) Equal(other Answer) bool {
	if a.Shape != other.Shape || a.Text != other.Text || a.Number != other.Number || len(a.List) != len(other.List) {
		return false
	}
	for i := range a.List {
		if a.List[i] != other.List[i] {
			return false
		}
	}
	return true
}

func (m ResponseMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range m.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.answers[id])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *ResponseMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("responses: %w", err)
	}
	out := NewResponseMap()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("responses: unexpected key %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var a Answer
		if err := a.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("responses[%s]: %w", key, err)
		}
		out = out.With(key, a)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return fmt.Errorf("responses: %w", err)
	}
	*m = out
	return nil
}

func (m ResponseMap) MarshalYAML() (interface{}, error) {
	return orderedNode(m.ids, func(id string) (interface{}, error) {
		return m.answers[id].MarshalYAML()
	})
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// OverallSection is the reserved section name carrying the verdict.
const OverallSection = "overall_assessment"

// ValueKind tags the content of a Value.
type ValueKind int

const (
	TextValue ValueKind = iota
	NumberValue
	FlagValue
	ListValue
	MapValue
)

// Value is a section field: text, number, flag, list or nested mapping.
type Value struct {
	Kind    ValueKind
	Text    string
	Number  float64
	Flag    bool
	Items   []Value
	Entries []Entry
}

// Entry is a key/value pair of an ordered mapping.
type Entry struct {
	Key   string
	Value Value
}

func TextOf(s string) Value { return Value{Kind: TextValue, Text: s} }
func NumberOf(n float64) Value { return Value{Kind: NumberValue, Number: n} }
func IntOf(n int) Value { return NumberOf(float64(n)) }
func FlagOf(b bool) Value { return Value{Kind: FlagValue, Flag: b} }
func MapOf(entries ...Entry) Value {
	return Value{Kind: MapValue, Entries: append(make([]Entry, 0, len(entries)), entries...)}
}

// ListOf builds a list of text values.
func ListOf(items ...string) Value {
	v := Value{Kind: ListValue, Items: make([]Value, 0, len(items))}
	for _, s := range items {
		v.Items = append(v.Items, TextOf(s))
	}
	return v
}

// E is shorthand for an Entry.
func E(key string, v Value) Entry { return Entry{Key: key, Value: v} }

// Lookup returns the entry value for key in a mapping value.
func (v Value) Lookup(key string) (Value, bool) {
	return lookup(v.Entries, key)
}

// Strings returns the text of each list item.
func (v Value) Strings() []string {
	out := make([]string, 0, len(v.Items))
	for _, item := range v.Items {
		out = append(out, item.Scalar())
	}
	return out
}

// Scalar formats text, number and flag values.
func (v Value) Scalar() string {
	switch v.Kind {
	case NumberValue:
		return FormatNumber(v.Number)
	case FlagValue:
		if v.Flag {
			return "true"
		}
		return "false"
	default:
		return v.Text
	}
}

// Equal compares two values recursively; nil and empty collections are equal.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case TextValue:
		return v.Text == other.Text
	case NumberValue:
		return v.Number == other.Number
	case FlagValue:
		return v.Flag == other.Flag
	case ListValue:
		if len(v.Items) != len(other.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(other.Items[i]) {
				return false
			}
		}
		return true
	case MapValue:
		if len(v.Entries) != len(other.Entries) {
			return false
		}
		for i := range v.Entries {
			if v.Entries[i].Key != other.Entries[i].Key || !v.Entries[i].Value.Equal(other.Entries[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

func lookup(entries []Entry, key string) (Value, bool) {
	for _, e := range entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Section is one named block of analysis data.
type Section struct {
	Name    string
	Entries []Entry
}

// Get returns the value stored under key.
func (s Section) Get(key string) (Value, bool) {
	return lookup(s.Entries, key)
}

// Overall is the aggregate verdict of a run.
type Overall struct {
	Verdict         Tier
	Score           int
	Health          string
	Recommendations []string
	Details         []Entry
}

// AnalysisResult is the read-only outcome of analysing one ResponseMap.
type AnalysisResult struct {
	Sections []Section
	Overall  Overall
}

// Section returns the named section.
func (r AnalysisResult) Section(name string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

func (o Overall) entries() []Entry {
	entries := []Entry{
		E("verdict", TextOf(string(o.Verdict))),
		E("score", IntOf(o.Score)),
		E("overall_health", TextOf(o.Health)),
		E("key_recommendations", ListOf(o.Recommendations...)),
	}
	return append(entries, o.Details...)
}

func overallFromEntries(entries []Entry) (Overall, error) {
	o := Overall{Recommendations: []string{}, Details: []Entry{}}
	for _, e := range entries {
		switch e.Key {
		case "verdict":
			o.Verdict = Tier(e.Value.Text)
		case "score":
			o.Score = int(e.Value.Number)
		case "overall_health":
			o.Health = e.Value.Text
		case "key_recommendations":
			if e.Value.Kind != ListValue {
				return o, fmt.Errorf("key_recommendations: expected list")
			}
			o.Recommendations = e.Value.Strings()
		default:
			o.Details = append(o.Details, e)
		}
	}
	return o, nil
}

// Entries returns the overall assessment as an ordered mapping.
func (o Overall) Entries() []Entry { return o.entries() }

func (r AnalysisResult) asValue() Value {
	root := Value{Kind: MapValue, Entries: make([]Entry, 0, len(r.Sections)+1)}
	for _, s := range r.Sections {
		root.Entries = append(root.Entries, E(s.Name, MapOf(s.Entries...)))
	}
	root.Entries = append(root.Entries, E(OverallSection, MapOf(r.Overall.entries()...)))
	return root
}

// Equal compares two results section by section.
func (r AnalysisResult) Equal(other AnalysisResult) bool {
	return r.asValue().Equal(other.asValue())
}

func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.asValue())
}

func (r *AnalysisResult) UnmarshalJSON(data []byte) error {
	var root Value
	if err := root.UnmarshalJSON(data); err != nil {
		return err
	}
	if root.Kind != MapValue {
		return fmt.Errorf("analysis: expected object")
	}
	out := AnalysisResult{Sections: make([]Section, 0, len(root.Entries))}
	for _, e := range root.Entries {
		if e.Value.Kind != MapValue {
			return fmt.Errorf("analysis section %q: expected object", e.Key)
		}
		if e.Key == OverallSection {
			overall, err := overallFromEntries(e.Value.Entries)
			if err != nil {
				return fmt.Errorf("analysis %s: %w", OverallSection, err)
			}
			out.Overall = overall
			continue
		}
		out.Sections = append(out.Sections, Section{Name: e.Key, Entries: e.Value.Entries})
	}
	*r = out
	return nil
}

func (r AnalysisResult) MarshalYAML() (interface{}, error) {
	return r.asValue().MarshalYAML()
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case TextValue:
		return json.Marshal(v.Text)
	case NumberValue:
		return json.Marshal(v.Number)
	case FlagValue:
		return json.Marshal(v.Flag)
	case ListValue:
		items := v.Items
		if items == nil {
			items = []Value{}
		}
		return json.Marshal(items)
	case MapValue:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, e := range v.Entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(e.Key)
			if err != nil {
				return nil, err
			}
			val, err := e.Value.MarshalJSON()
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
	return nil, fmt.Errorf("unknown value kind %d", v.Kind)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	out, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case string:
		return TextOf(t), nil
	case bool:
		return FlagOf(t), nil
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return NumberOf(n), nil
	case nil:
		return TextOf(""), nil
	case json.Delim:
		switch t {
		case '[':
			v := Value{Kind: ListValue, Items: []Value{}}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				v.Items = append(v.Items, item)
			}
			_, err := dec.Token()
			return v, err
		case '{':
			v := Value{Kind: MapValue, Entries: []Entry{}}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("unexpected key %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				v.Entries = append(v.Entries, E(key, val))
			}
			_, err := dec.Token()
			return v, err
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func (v Value) MarshalYAML() (interface{}, error) {
	switch v.Kind {
	case TextValue:
		return v.Text, nil
	case NumberValue:
		return v.Number, nil
	case FlagValue:
		return v.Flag, nil
	case ListValue:
		return v.Items, nil
	case MapValue:
		keys := make([]string, len(v.Entries))
		for i, e := range v.Entries {
			keys[i] = e.Key
		}
		return orderedNode(keys, func(key string) (interface{}, error) {
			val, _ := v.Lookup(key)
			return val.MarshalYAML()
		})
	}
	return nil, fmt.Errorf("unknown value kind %d", v.Kind)
}

// orderedNode builds a YAML mapping node that keeps key order.
func orderedNode(keys []string, value func(string) (interface{}, error)) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range keys {
		raw, err := value(key)
		if err != nil {
			return nil, err
		}
		var valNode yaml.Node
		if err := valNode.Encode(raw); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&valNode,
		)
	}
	return node, nil
}

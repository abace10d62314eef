// Package sqltemplate fills the experiment monitoring query with the answers
// of an experiment questionnaire.
//
// Templates use {name} placeholders. Substitution is a single pass over the
// template: inserted values are never scanned for further placeholders.
package sqltemplate

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/helmcode/questionnaire/pkg/model"
)

//go:embed default_query.sql
var DefaultTemplate string

// Placeholder names understood by Render.
const (
	ExperimentDescription = "experiment_description"
	IdentifierFilter      = "identifier_filter"
	IdentifierList        = "identifier_list"
	BaselineStartDate     = "baseline_start_date"
	BaselineEndDate       = "baseline_end_date"
	TreatmentStartDate    = "treatment_start_date"
	TreatmentEndDate      = "treatment_end_date"
)

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// IdentifierKind selects the column the identifier list filters on.
type IdentifierKind int

const (
	MerchantARIs IdentifierKind = iota
	MerchantPartnerARIs
)

// ParseIdentifierKind maps the ari_type answer onto a kind. Anything other
// than "Merchant Partner ARIs" filters on merchant ARIs.
func ParseIdentifierKind(label string) IdentifierKind {
	if label == "Merchant Partner ARIs" {
		return MerchantPartnerARIs
	}
	return MerchantARIs
}

func (k IdentifierKind) String() string {
	if k == MerchantPartnerARIs {
		return "Merchant Partner ARIs"
	}
	return "Merchant ARIs"
}

// Column is the qualified column the kind filters on.
func (k IdentifierKind) Column() string {
	if k == MerchantPartnerARIs {
		return "md.merchant_partner_ari"
	}
	return "md.merchant_ari"
}

// ParseIdentifiers splits a pasted identifier list. The separator is the
// first of comma, newline, semicolon that occurs in text, falling back to
// whitespace. Items are trimmed and empty items dropped.
func ParseIdentifiers(text string) []string {
	var parts []string
	switch {
	case strings.Contains(text, ","):
		parts = strings.Split(text, ",")
	case strings.Contains(text, "\n"):
		parts = strings.Split(text, "\n")
	case strings.Contains(text, ";"):
		parts = strings.Split(text, ";")
	default:
		parts = strings.Fields(text)
	}

	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

// Params are the values substituted into a template.
type Params struct {
	ExperimentDescription string
	Kind                  IdentifierKind
	Identifiers           []string
	BaselineStart         string
	BaselineEnd           string
	TreatmentStart        string
	TreatmentEnd          string
}

// ParamsFromResponses reads the experiment questionnaire answers. The
// control period is the baseline and the test period the treatment.
func ParamsFromResponses(responses model.ResponseMap) Params {
	return Params{
		ExperimentDescription: responses.Text("experiment_description"),
		Kind:                  ParseIdentifierKind(responses.Text("ari_type")),
		Identifiers:           ParseIdentifiers(responses.Text("merchant_aris")),
		BaselineStart:         responses.Text("control_start_date"),
		BaselineEnd:           responses.Text("control_end_date"),
		TreatmentStart:        responses.Text("test_start_date"),
		TreatmentEnd:          responses.Text("test_end_date"),
	}
}

// Quote renders s as a SQL string literal.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (p Params) values() map[string]string {
	v := map[string]string{}
	set := func(name, raw string) {
		if raw != "" {
			v[name] = Quote(raw)
		}
	}
	set(ExperimentDescription, p.ExperimentDescription)
	set(BaselineStartDate, p.BaselineStart)
	set(BaselineEndDate, p.BaselineEnd)
	set(TreatmentStartDate, p.TreatmentStart)
	set(TreatmentEndDate, p.TreatmentEnd)

	if len(p.Identifiers) > 0 {
		quoted := make([]string, len(p.Identifiers))
		for i, id := range p.Identifiers {
			quoted[i] = Quote(id)
		}
		list := strings.Join(quoted, ", ")
		v[IdentifierList] = list
		v[IdentifierFilter] = fmt.Sprintf("WHERE %s IN (%s)", p.Kind.Column(), list)
	}
	return v
}

// Placeholders returns the known placeholder names used in tmpl, sorted.
func Placeholders(tmpl string) []string {
	seen := map[string]bool{}
	for _, m := range placeholderRe.FindAllStringSubmatch(tmpl, -1) {
		if known(m[1]) {
			seen[m[1]] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func known(name string) bool {
	switch name {
	case ExperimentDescription, IdentifierFilter, IdentifierList,
		BaselineStartDate, BaselineEndDate, TreatmentStartDate, TreatmentEndDate:
		return true
	}
	return false
}

// Render substitutes params into tmpl. Every known placeholder used by tmpl
// must have a value; unknown {words} are left untouched.
func Render(tmpl string, params Params) (string, error) {
	values := params.values()

	var missing []string
	for _, name := range Placeholders(tmpl) {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("missing values for placeholders: %s", strings.Join(missing, ", "))
	}

	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		if v, ok := values[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	}), nil
}

// Load reads a template file; an empty path returns DefaultTemplate.
func Load(path string) (string, error) {
	if path == "" {
		return DefaultTemplate, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read SQL template: %w", err)
	}
	return string(data), nil
}

var (
	aliasRe     = regexp.MustCompile(`(?i),\s*[^,]+\s+as\s+(\w+)`)
	aggregateRe = regexp.MustCompile(`(?i),\s*(?:count|sum|avg|max|min|coalesce)\s*\([^)]+\)\s+as\s+(\w+)`)
)

var countColumns = map[string]bool{
	"authenticated":       true,
	"identity_approved":   true,
	"fraud_approved":      true,
	"applied":             true,
	"approved_checkouts":  true,
	"confirmed_checkouts": true,
	"authed_checkouts":    true,
	"checkouts":           true,
}

var dimensionKeywords = []string{"period", "bucket", "person", "type"}

// ExtractMetrics lists display names for the metric columns a template
// selects, in order of appearance. Count columns get a "Num" prefix and
// dimension columns are skipped.
func ExtractMetrics(tmpl string) []string {
	var columns []string
	for _, re := range []*regexp.Regexp{aliasRe, aggregateRe} {
		for _, m := range re.FindAllStringSubmatch(tmpl, -1) {
			columns = append(columns, m[1])
		}
	}

	seen := map[string]bool{}
	var metrics []string
	for _, col := range columns {
		name := MetricName(col)
		if seen[name] || isDimension(name) {
			continue
		}
		seen[name] = true
		metrics = append(metrics, name)
	}
	return metrics
}

// CountPrefix marks metric names built from count columns.
const CountPrefix = "Num "

// MetricName turns a column alias into a display name: "take_up_rate"
// becomes "Take Up Rate", "checkouts" becomes "Num Checkouts".
func MetricName(column string) string {
	name := titleCase(strings.ReplaceAll(column, "_", " "))
	if countColumns[strings.ToLower(column)] {
		name = CountPrefix + name
	}
	return name
}

func isDimension(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range dimensionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// titleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest, so "e2e conversion" becomes "E2E Conversion".
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/questionnaire/pkg/model"
)

// Output formats accepted by DisplayResults.
const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatHuman, FormatJSON, FormatYAML}

// ValidFormat reports whether format is an output format.
func ValidFormat(format string) bool {
	return slices.Contains(Formats, format)
}

// Report is what DisplayResults prints.
type Report struct {
	Title     string               `json:"title" yaml:"title"`
	Responses model.ResponseMap    `json:"responses" yaml:"responses"`
	Analysis  model.AnalysisResult `json:"analysis" yaml:"analysis"`
}

// DisplayResults formats and displays the report
func DisplayResults(w io.Writer, report Report, format string) error {
	switch format {
	case FormatJSON:
		return displayJSON(w, report)
	case FormatYAML:
		return displayYAML(w, report)
	case FormatHuman:
		fallthrough
	default:
		displayHuman(w, report)
	}
	return nil
}

func displayJSON(w io.Writer, report Report) error {
	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func displayYAML(w io.Writer, report Report) error {
	output, err := yaml.Marshal(report)
	if err != nil {
		return err
	}
	fmt.Fprint(w, string(output))
	return nil
}

func displayHuman(w io.Writer, report Report) {
	r := NewRenderer(w)
	r.Render(w, report.Title, report.Analysis)

	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "💡 %s\n", r.paint(color.New(color.FgHiBlack), "Run with -o json or -o yaml for machine-readable output"))
}

// Renderer writes an analysis as indented text.
type Renderer struct {
	color bool
}

// NewRenderer colors its output only when w is a terminal.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{color: IsTerminal(w) && !color.NoColor}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render writes result to w without color. Rendering the same result twice
// yields the same text.
func Render(w io.Writer, title string, result model.AnalysisResult) {
	(&Renderer{}).Render(w, title, result)
}

// Render writes every section in order followed by the overall assessment.
func (r *Renderer) Render(w io.Writer, title string, result model.AnalysisResult) {
	cyan := color.New(color.FgCyan, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	fmt.Fprintln(w)
	fmt.Fprintln(w, r.paint(cyan, "📋 "+strings.ToUpper(title)+" - ANALYSIS REPORT"))
	fmt.Fprintln(w, strings.Repeat("═", 80))

	for _, s := range result.Sections {
		fmt.Fprintln(w)
		fmt.Fprintln(w, r.paint(white, "▸ "+Heading(s.Name)))
		r.entries(w, s.Entries, "  ")
	}

	o := result.Overall
	fmt.Fprintln(w)
	fmt.Fprintln(w, r.paint(tierColor(o.Verdict), "📊 "+strings.ToUpper(Heading(model.OverallSection))))
	r.entries(w, o.Entries(), "  ")
	fmt.Fprintln(w)
}

func (r *Renderer) entries(w io.Writer, entries []model.Entry, indent string) {
	for _, e := range entries {
		r.value(w, Heading(e.Key), e.Value, indent)
	}
}

func (r *Renderer) value(w io.Writer, label string, v model.Value, indent string) {
	switch v.Kind {
	case model.ListValue:
		if len(v.Items) == 0 {
			fmt.Fprintf(w, "%s%s: %s\n", indent, label, r.paint(color.New(color.FgHiBlack), "(none)"))
			return
		}
		fmt.Fprintf(w, "%s%s:\n", indent, label)
		for _, item := range v.Items {
			if item.Kind == model.MapValue {
				r.entries(w, item.Entries, indent+"    ")
				continue
			}
			fmt.Fprintf(w, "%s  • %s\n", indent, item.Scalar())
		}
	case model.MapValue:
		fmt.Fprintf(w, "%s%s:\n", indent, label)
		r.entries(w, v.Entries, indent+"  ")
	default:
		fmt.Fprintf(w, "%s%s: %s\n", indent, label, v.Scalar())
	}
}

func (r *Renderer) paint(c *color.Color, s string) string {
	if !r.color {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

func tierColor(t model.Tier) *color.Color {
	switch t {
	case model.TierHigh:
		return color.New(color.FgRed, color.Bold)
	case model.TierMedium:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgGreen, color.Bold)
	}
}

var identifierRe = regexp.MustCompile(`^[a-z0-9_]+$`)

// Heading turns a snake_case key into Title Case. Keys that are not
// identifiers, such as option labels, are returned unchanged.
func Heading(key string) string {
	if !identifierRe.MatchString(key) {
		return key
	}
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// Package export writes a completed run to disk as JSON, CSV or a plain text
// report, and reads JSON exports back.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/helmcode/questionnaire/pkg/formatter"
	"github.com/helmcode/questionnaire/pkg/model"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatText = "txt"
)

// Formats lists the accepted export formats.
var Formats = []string{FormatJSON, FormatCSV, FormatText}

// timestampLayout is used in default file names.
const timestampLayout = "20060102_150405"

// Document is everything saved about one run.
type Document struct {
	RunID     string               `json:"run_id"`
	Timestamp time.Time            `json:"timestamp"`
	SetID     string               `json:"question_set"`
	Set       model.QuestionSet    `json:"set_info"`
	Responses model.ResponseMap    `json:"responses"`
	Analysis  model.AnalysisResult `json:"analysis"`
}

// NewDocument stamps a run with a fresh id.
func NewDocument(set model.QuestionSet, responses model.ResponseMap, analysis model.AnalysisResult, now time.Time) Document {
	return Document{
		RunID:     uuid.NewString(),
		Timestamp: now,
		SetID:     set.ID,
		Set:       set,
		Responses: responses,
		Analysis:  analysis,
	}
}

// ValidFormat reports whether format is an export format.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// DefaultFilename is <set>_YYYYMMDD_HHMMSS.<format>.
func DefaultFilename(setID, format string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", setID, now.Format(timestampLayout), format)
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// ReadJSON decodes a document written by WriteJSON.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("failed to decode export: %w", err)
	}
	return doc, nil
}

// Load reads a JSON export from path.
func Load(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, &model.CollaboratorError{Collaborator: "filesystem", Op: "open " + path, Err: err}
	}
	defer f.Close()
	return ReadJSON(f)
}

// Row is one line of the CSV export.
type Row struct {
	Section string
	Field   string
	Value   string
	Details string
}

// Rows flattens doc: answers first, then every analysis section, then the
// overall assessment. Lists give one row per item and nested mappings give
// "key / sub" fields.
func Rows(doc Document) []Row {
	var rows []Row
	for _, id := range doc.Responses.IDs() {
		a, _ := doc.Responses.Get(id)
		field, details := id, ""
		if q, ok := doc.Set.Question(id); ok {
			field, details = q.Prompt, q.Type.String()
		}
		if a.Shape == model.ListAnswer {
			for _, item := range a.List {
				rows = append(rows, Row{"Responses", field, item, details})
			}
			continue
		}
		rows = append(rows, Row{"Responses", field, a.String(), details})
	}

	for _, s := range doc.Analysis.Sections {
		rows = appendEntries(rows, formatter.Heading(s.Name), "", s.Entries)
	}
	overall := formatter.Heading(model.OverallSection)
	return appendEntries(rows, overall, "", doc.Analysis.Overall.Entries())
}

func appendEntries(rows []Row, section, prefix string, entries []model.Entry) []Row {
	for _, e := range entries {
		field := formatter.Heading(e.Key)
		if prefix != "" {
			field = prefix + " / " + field
		}
		switch e.Value.Kind {
		case model.MapValue:
			rows = appendEntries(rows, section, field, e.Value.Entries)
		case model.ListValue:
			for _, item := range e.Value.Items {
				if item.Kind == model.MapValue {
					rows = appendEntries(rows, section, field, item.Entries)
					continue
				}
				rows = append(rows, Row{section, field, item.Scalar(), ""})
			}
		default:
			rows = append(rows, Row{section, field, e.Value.Scalar(), ""})
		}
	}
	return rows
}

// WriteCSV writes the Section,Field,Value,Details table.
func WriteCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Section", "Field", "Value", "Details"}); err != nil {
		return err
	}
	for _, r := range Rows(doc) {
		if err := cw.Write([]string{r.Section, r.Field, r.Value, r.Details}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteText writes the plain text report: a header, the answers, then the
// rendered analysis.
func WriteText(w io.Writer, doc Document) error {
	var b bytes.Buffer
	title := doc.Set.Name
	if title == "" {
		title = doc.SetID
	}

	b.WriteString(strings.Repeat("=", 80) + "\n")
	b.WriteString(centered(strings.ToUpper(title)+" RESULTS", 80) + "\n")
	b.WriteString(strings.Repeat("=", 80) + "\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", doc.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Run ID: %s\n\n", doc.RunID)

	b.WriteString("RESPONSES\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	for _, id := range doc.Responses.IDs() {
		a, _ := doc.Responses.Get(id)
		label := id
		if q, ok := doc.Set.Question(id); ok {
			label = q.Prompt
		}
		if a.Shape == model.ListAnswer {
			fmt.Fprintf(&b, "%s\n", label)
			for _, item := range a.List {
				fmt.Fprintf(&b, "  • %s\n", item)
			}
			continue
		}
		fmt.Fprintf(&b, "%s\n  %s\n", label, a.String())
	}

	formatter.Render(&b, title, doc.Analysis)
	_, err := w.Write(b.Bytes())
	return err
}

func centered(s string, width int) string {
	pad := (width - len([]rune(s))) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

// Encode renders doc in format.
func Encode(format string, doc Document) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatJSON:
		err = WriteJSON(&buf, doc)
	case FormatCSV:
		err = WriteCSV(&buf, doc)
	case FormatText:
		err = WriteText(&buf, doc)
	default:
		return nil, fmt.Errorf("unknown export format %q (use json, csv or txt)", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes doc to path in format. The file is replaced atomically while
// holding path.lock, so a reader never sees a partial export.
func Save(path, format string, doc Document) error {
	data, err := Encode(format, doc)
	if err != nil {
		return err
	}
	if err := LockAndWrite(path, data); err != nil {
		return &model.CollaboratorError{Collaborator: "filesystem", Op: "save " + filepath.Base(path), Err: err}
	}
	return nil
}

package formatter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/questionnaire/pkg/model"
)

func sampleReport() Report {
	return Report{
		Title: "Business Analysis",
		Responses: model.NewResponseMap().
			With("growth_rate", model.Text("Declining")).
			With("challenges", model.List("Market competition", "Talent acquisition")),
		Analysis: model.AnalysisResult{
			Sections: []model.Section{
				{Name: "growth_analysis", Entries: []model.Entry{
					model.E("growth_rate", model.TextOf("Declining")),
					model.E("implications", model.ListOf("Revenue pressure", "Cost cutting")),
				}},
				{Name: "challenges_analysis", Entries: []model.Entry{
					model.E("challenges", model.ListOf("Market competition")),
					model.E("priority_levels", model.MapOf(model.E("Market competition", model.TextOf("High")))),
					model.E("empty", model.ListOf()),
				}},
			},
			Overall: model.Overall{
				Verdict:         model.TierHigh,
				Score:           5,
				Health:          "Concerning",
				Recommendations: []string{"Act now"},
				Details:         []model.Entry{},
			},
		},
	}
}

func TestHeading(t *testing.T) {
	assert.Equal(t, "Growth Analysis", Heading("growth_analysis"))
	assert.Equal(t, "E2e Conversion", Heading("e2e_conversion"))
	assert.Equal(t, "Market competition", Heading("Market competition"))
	assert.Equal(t, "Pet name?", Heading("Pet name?"))
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	r := sampleReport()
	Render(&buf, r.Title, r.Analysis)

	want := `
📋 BUSINESS ANALYSIS - ANALYSIS REPORT
` + strings.Repeat("═", 80) + `

▸ Growth Analysis
  Growth Rate: Declining
  Implications:
    • Revenue pressure
    • Cost cutting

▸ Challenges Analysis
  Challenges:
    • Market competition
  Priority Levels:
    Market competition: High
  Empty: (none)

📊 OVERALL ASSESSMENT
  Verdict: High
  Score: 5
  Overall Health: Concerning
  Key Recommendations:
    • Act now

`
	assert.Equal(t, want, buf.String())
}

func TestRenderIsDeterministic(t *testing.T) {
	r := sampleReport()
	var a, b bytes.Buffer
	Render(&a, r.Title, r.Analysis)
	Render(&b, r.Title, r.Analysis)
	assert.Equal(t, a.String(), b.String())
}

func TestRenderOverallLast(t *testing.T) {
	var buf bytes.Buffer
	r := sampleReport()
	Render(&buf, r.Title, r.Analysis)

	out := buf.String()
	assert.Greater(t, strings.Index(out, "OVERALL ASSESSMENT"), strings.Index(out, "Challenges Analysis"))
}

func TestValidFormat(t *testing.T) {
	for _, f := range Formats {
		assert.True(t, ValidFormat(f), f)
	}
	assert.False(t, ValidFormat("jsno"))
	assert.False(t, ValidFormat(""))
}

func TestDisplayResults(t *testing.T) {
	r := sampleReport()

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, DisplayResults(&buf, r, FormatJSON))

		var decoded struct {
			Title     string               `json:"title"`
			Responses model.ResponseMap    `json:"responses"`
			Analysis  model.AnalysisResult `json:"analysis"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, r.Title, decoded.Title)
		assert.True(t, r.Responses.Equal(decoded.Responses))
		assert.True(t, r.Analysis.Equal(decoded.Analysis))
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, DisplayResults(&buf, r, FormatYAML))

		var decoded map[string]interface{}
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "Business Analysis", decoded["title"])
		assert.Contains(t, buf.String(), "overall_assessment:")
	})

	t.Run("human", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, DisplayResults(&buf, r, FormatHuman))
		assert.Contains(t, buf.String(), "▸ Growth Analysis")
		assert.Contains(t, buf.String(), "Run with -o json or -o yaml")
		assert.NotContains(t, buf.String(), "\x1b[")
	})
}

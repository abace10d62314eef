package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/questionnaire/pkg/catalog"
	"github.com/helmcode/questionnaire/pkg/model"
	"github.com/helmcode/questionnaire/pkg/sqltemplate"
)

type answer struct {
	id string
	a  model.Answer
}

func responses(answers ...answer) model.ResponseMap {
	m := model.NewResponseMap()
	for _, a := range answers {
		m = m.With(a.id, a.a)
	}
	return m
}

func text(id, s string) answer { return answer{id, model.Text(s)} }
func num(id string, n float64) answer { return answer{id, model.Number(n)} }
func list(id string, s ...string) answer { return answer{id, model.List(s...)} }

func builtinSet(t *testing.T, id string) model.QuestionSet {
	t.Helper()
	set, ok := catalog.New(nil).Get(id)
	require.True(t, ok, "set %s", id)
	return set
}

func sectionValue(t *testing.T, r model.AnalysisResult, section, key string) model.Value {
	t.Helper()
	s, ok := r.Section(section)
	require.True(t, ok, "section %s missing", section)
	v, ok := s.Get(key)
	require.True(t, ok, "%s.%s missing", section, key)
	return v
}

func sectionNames(r model.AnalysisResult) []string {
	names := make([]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		names = append(names, s.Name)
	}
	return names
}

func TestTierThresholds(t *testing.T) {
	kinds := []model.Kind{
		model.KindCustom, model.KindBusiness, model.KindInvestment,
		model.KindProject, model.KindCustomer, model.KindEmployee,
	}
	e := New()
	for _, k := range kinds {
		v := e.Profile(k).Verdict
		assert.Equal(t, model.TierHigh, v.Tier(5), k.String())
		assert.Equal(t, model.TierMedium, v.Tier(3), k.String())
		assert.Equal(t, model.TierLow, v.Tier(2), k.String())
	}

	exp := e.Profile(model.KindExperiment).Verdict
	assert.Equal(t, model.TierHigh, exp.Tier(5))
	assert.Equal(t, model.TierHigh, exp.Tier(4))
	assert.Equal(t, model.TierMedium, exp.Tier(2))
	assert.Equal(t, model.TierLow, exp.Tier(1))
}

func TestInterpretRating(t *testing.T) {
	tests := []struct {
		score, scale float64
		want         string
	}{
		{9, 10, RatingExcellent},
		{8, 10, RatingExcellent},
		{3, 5, RatingGood},
		{2, 5, RatingFair},
		{1, 5, RatingPoor},
		{1, 10, RatingVeryPoor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InterpretRating(tt.score, tt.scale), "%v/%v", tt.score, tt.scale)
	}
}

func TestEmployeeJobSatisfaction(t *testing.T) {
	set := builtinSet(t, "employee_satisfaction")
	r := New().Analyze(set, responses(num("job_satisfaction", 9)))

	assert.Equal(t, model.NumberOf(9), sectionValue(t, r, "job_satisfaction_analysis", "score"))
	assert.Equal(t, model.TextOf(RatingExcellent), sectionValue(t, r, "job_satisfaction_analysis", "interpretation"))
	assert.Equal(t, model.ListOf(jobSatisfactionTiers[0]...), sectionValue(t, r, "job_satisfaction_analysis", "recommendations"))
	assert.Equal(t, []string{"job_satisfaction_analysis"}, sectionNames(r))
}

func TestEmployeeVerdict(t *testing.T) {
	set := builtinSet(t, "employee_satisfaction")

	t.Run("unhappy", func(t *testing.T) {
		r := New().Analyze(set, responses(
			num("job_satisfaction", 1),
			num("work_life_balance", 1),
			num("compensation", 1),
			list("concerns", "Compensation", "Career growth", "Management", "Job security"),
			num("recommendation_likelihood", 2),
		))

		assert.Equal(t, 7, r.Overall.Score)
		assert.Equal(t, model.TierHigh, r.Overall.Verdict)
		assert.Equal(t, "Poor", r.Overall.Health)
		assert.Equal(t, "Critical intervention required", r.Overall.Recommendations[0])
		assert.Equal(t, []model.Entry{
			model.E("average_score", model.NumberOf(1)),
			model.E("response_count", model.IntOf(5)),
			model.E("nps_category", model.TextOf("Detractor")),
		}, r.Overall.Details)

		assert.Equal(t, model.TextOf("Detractor"), sectionValue(t, r, "recommendation_analysis", "nps_category"))
		priorities := sectionValue(t, r, "concerns_analysis", "priority_levels")
		level, ok := priorities.Lookup("Job security")
		require.True(t, ok)
		assert.Equal(t, model.TextOf("Medium"), level)
	})

	t.Run("happy", func(t *testing.T) {
		r := New().Analyze(set, responses(
			num("job_satisfaction", 9),
			num("work_life_balance", 5),
			num("recommendation_likelihood", 10),
		))

		assert.Equal(t, 0, r.Overall.Score)
		assert.Equal(t, model.TierLow, r.Overall.Verdict)
		assert.Equal(t, "Excellent", r.Overall.Health)
		assert.Equal(t, []string{
			"Maintain current practices and policies",
			"Continue monitoring employee satisfaction",
			"Share best practices across the organization",
		}, r.Overall.Recommendations)
	})

	t.Run("recommendations follow health", func(t *testing.T) {
		// average 3 is Good although no condition fires
		r := New().Analyze(set, responses(
			num("job_satisfaction", 3),
			num("work_life_balance", 3),
		))

		assert.Equal(t, model.TierLow, r.Overall.Verdict)
		assert.Equal(t, "Good", r.Overall.Health)
		assert.Equal(t, "Address areas with lower scores", r.Overall.Recommendations[0])
	})
}

func TestNPSCategory(t *testing.T) {
	assert.Equal(t, "Promoter", NPSCategory(9))
	assert.Equal(t, "Passive", NPSCategory(7))
	assert.Equal(t, "Passive", NPSCategory(8))
	assert.Equal(t, "Detractor", NPSCategory(6))
}

func TestBusinessVerdict(t *testing.T) {
	set := builtinSet(t, "business_analysis")
	r := New().Analyze(set, responses(
		text("growth_rate", "Declining"),
		text("market_position", "Niche player"),
		list("challenges", "Market competition"),
	))

	assert.Equal(t, 5, r.Overall.Score)
	assert.Equal(t, model.TierHigh, r.Overall.Verdict)
	assert.Equal(t, "Concerning", r.Overall.Health)
	assert.Equal(t, []string{
		"Immediate action required on key challenges",
		"Consider strategic partnerships or acquisitions",
		"Review and strengthen risk management processes",
	}, r.Overall.Recommendations)
	assert.Empty(t, r.Overall.Details)
}

func TestUnansweredSectionsAreOmitted(t *testing.T) {
	set := builtinSet(t, "business_analysis")
	r := New().Analyze(set, responses(
		text("growth_rate", "Stable"),
		list("challenges"),
		text("opportunities", ""),
	))

	assert.Equal(t, []string{"growth_analysis"}, sectionNames(r))
	assert.Equal(t, model.TierLow, r.Overall.Verdict)
	assert.Equal(t, "Good", r.Overall.Health)
}

func TestListRuleDefaults(t *testing.T) {
	rule := ListRule{
		ID: "x", Section: "x_analysis", Key: "items",
		Priority: &PriorityTable{Key: "priority", Levels: map[string]string{"a": "High"}},
		Actions:  &ActionTable{Key: "actions", Default: []string{"plan"}, Actions: map[string][]string{"a": {"fix"}}},
	}
	entries := listEntries(rule, []string{"a", "b"})

	assert.Equal(t, []model.Entry{
		model.E("items", model.ListOf("a", "b")),
		model.E("priority", model.MapOf(model.E("a", model.TextOf("High")), model.E("b", model.TextOf("Medium")))),
		model.E("actions", model.MapOf(model.E("a", model.ListOf("fix")), model.E("b", model.ListOf("plan")))),
	}, entries)
}

func TestGenericProfile(t *testing.T) {
	set, err := catalog.NewCustomSet("pets", "Pets", "About pets", "custom", []model.QuestionSpec{
		{ID: "name", Prompt: "Pet name?", Type: model.FreeText},
		{ID: "count", Prompt: "How many?", Type: model.Numeric},
	})
	require.NoError(t, err)

	r := New().Analyze(set, responses(text("name", "Rex")))

	assert.Equal(t, []string{"generic_analysis"}, sectionNames(r))
	assert.Equal(t, model.IntOf(2), sectionValue(t, r, "generic_analysis", "total_questions"))
	assert.Equal(t, model.IntOf(1), sectionValue(t, r, "generic_analysis", "completed_questions"))
	summary := sectionValue(t, r, "generic_analysis", "response_summary")
	entry, ok := summary.Lookup("Pet name?")
	require.True(t, ok)
	assert.Equal(t, model.MapOf(
		model.E("response", model.TextOf("Rex")),
		model.E("type", model.TextOf(model.FreeText.String())),
	), entry)

	assert.Equal(t, model.TierLow, r.Overall.Verdict)
	assert.Equal(t, GenericRecommendations[model.TierLow], r.Overall.Recommendations)
}

func TestWithProfileReplacesBuiltin(t *testing.T) {
	e := New(WithProfile(Profile{
		Kind: model.KindBusiness,
		Verdict: Verdict{
			Conditions:      []Condition{{Weight: 9, When: func(Input) bool { return true }}},
			Recommendations: map[model.Tier][]string{model.TierHigh: {"panic"}},
		},
	}))
	r := e.Analyze(builtinSet(t, "business_analysis"), responses(text("growth_rate", "Stable")))

	assert.Empty(t, r.Sections)
	assert.Equal(t, []string{"panic"}, r.Overall.Recommendations)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	set := builtinSet(t, "customer_satisfaction")
	resp := responses(
		text("satisfaction_level", "Dissatisfied"),
		list("pain_points", "Price", "Customer service"),
	)
	e := New()
	assert.True(t, e.Analyze(set, resp).Equal(e.Analyze(set, resp)))
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
}

func TestExperimentAnalysis(t *testing.T) {
	set := builtinSet(t, "experiment_monitoring")
	resp := responses(
		text("experiment_description", "New checkout button"),
		text("merchant_aris", "a, b, c"),
		text("ari_type", "Merchant ARIs"),
		text("test_start_date", "2024-02-01"),
		text("test_end_date", "2024-02-29"),
		text("control_start_date", "2024-01-01"),
		text("control_end_date", "2024-01-31"),
		list("metrics_to_monitor", "Authed GMV", "AOV", catalog.OtherOption),
		text("custom_metrics", "Foo"),
		list("monitoring_segmentation", "Overall"),
		list("experiment_goals", "Increase average order value"),
		text("success_criteria", "Increase AOV by 5%"),
	)
	r := New(WithClock(fixedNow)).Analyze(set, resp)

	assert.Equal(t, []string{
		"experiment_analysis",
		"merchant_ari_analysis",
		"test_timing_analysis",
		"control_period_analysis",
		"metrics_analysis",
		"segmentation_analysis",
		"goals_analysis",
		"success_criteria_analysis",
	}, sectionNames(r))

	assert.Equal(t, model.IntOf(3), sectionValue(t, r, "merchant_ari_analysis", "total_aris"))
	assert.Equal(t, model.TextOf("4 weeks"), sectionValue(t, r, "test_timing_analysis", "test_duration"))
	assert.Equal(t, model.TextOf(Freshness(10)), sectionValue(t, r, "test_timing_analysis", "timing_implications"))
	assert.Equal(t, model.TextOf("1 month"), sectionValue(t, r, "control_period_analysis", "control_duration"))
	assert.Equal(t, model.TextOf(ControlPeriodImplications(30)), sectionValue(t, r, "control_period_analysis", "statistical_implications"))

	valid, ok := sectionValue(t, r, "control_period_analysis", "timing_validation").Lookup("is_valid")
	require.True(t, ok)
	assert.Equal(t, model.FlagOf(true), valid)

	assert.Equal(t, model.IntOf(3), sectionValue(t, r, "metrics_analysis", "total_metrics"))
	assert.Equal(t, model.MapOf(
		model.E("Financial Metrics", model.ListOf("Authed GMV", "AOV")),
		model.E("Other/Uncategorized", model.ListOf("Foo")),
	), sectionValue(t, r, "metrics_analysis", "metric_categories"))

	assert.Equal(t, model.TextOf("Excellent alignment (100%) - metrics well-aligned with goals"),
		sectionValue(t, r, "goals_analysis", "goal_metric_alignment"))
	assert.Equal(t, model.TextOf("Highly measurable - specific percentage targets with clear direction"),
		sectionValue(t, r, "success_criteria_analysis", "measurability"))
	assert.Equal(t, model.TextOf("Good alignment - criteria mention 1 selected metrics"),
		sectionValue(t, r, "success_criteria_analysis", "metric_alignment"))

	assert.Equal(t, 0, r.Overall.Score)
	assert.Equal(t, model.TierLow, r.Overall.Verdict)
	assert.Equal(t, []model.Entry{
		model.E("monitoring_scope", model.TextOf("Small")),
		model.E("experiment_readiness", model.TextOf("Ready")),
	}, r.Overall.Details)
}

func TestExperimentVerdictHigh(t *testing.T) {
	set := builtinSet(t, "experiment_monitoring")
	resp := responses(
		text("merchant_aris", "a1 a2 a3 a4 a5 a6 a7 a8 a9 a10 a11 a12"),
		text("ari_type", "Merchant Partner ARIs"),
		text("control_start_date", "2024-01-01"),
		text("control_end_date", "2024-01-11"),
		list("metrics_to_monitor", "Authed GMV", "AOV", "Checkouts", "E2E Conversion", "Approval Rate", "Auth Rate"),
	)
	r := New(WithClock(fixedNow)).Analyze(set, resp)

	assert.Equal(t, 4, r.Overall.Score)
	assert.Equal(t, model.TierHigh, r.Overall.Verdict)
	assert.Contains(t, r.Overall.Recommendations, "Large number of ARIs - consider sampling or prioritization")
	assert.Contains(t, r.Overall.Recommendations, "Define clear success criteria for better experiment evaluation")
	assert.Contains(t, r.Overall.Recommendations, "Partner ARIs selected - ensure proper data access and permissions")
	assert.Equal(t, []model.Entry{
		model.E("monitoring_scope", model.TextOf("Large")),
		model.E("experiment_readiness", model.TextOf("Needs Planning")),
	}, r.Overall.Details)
}

func TestDuration(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{-1, "Invalid date range (end date before start date)"},
		{0, "Same day"},
		{1, "1 day"},
		{6, "6 days"},
		{7, "1 week"},
		{10, "1 week and 3 days"},
		{45, "1 month and 15 days"},
		{60, "2 months"},
		{365, "1 year"},
		{400, "1 year and 1 month"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Duration(tt.days), "%d days", tt.days)
	}
}

func TestCompileMetrics(t *testing.T) {
	resp := responses(
		list("metrics_to_monitor", "AOV", catalog.OtherOption),
		text("custom_metrics", "Foo, Bar\nBaz"),
	)
	assert.Equal(t, []string{"AOV", "Foo", "Bar", "Baz"}, CompileMetrics(resp))

	resp = responses(
		list("metrics_to_monitor", "AOV"),
		text("custom_metrics", "ignored"),
	)
	assert.Equal(t, []string{"AOV"}, CompileMetrics(resp))
}

func TestSegmentation(t *testing.T) {
	assert.Equal(t, "Low complexity - overall monitoring only", SegmentationComplexity([]string{"Overall"}))
	assert.Equal(t, "Medium complexity - manageable segmentation", SegmentationComplexity([]string{"FICO Bands"}))
	assert.Equal(t, "Very high complexity - requires dedicated monitoring infrastructure",
		SegmentationComplexity([]string{"a", "b", "c", "d", "e"}))

	assert.Equal(t, "Overall monitoring provides baseline performance", SegmentationImplications([]string{"Overall"}))
	assert.Equal(t,
		"Multiple segmentation approaches: Overall monitoring provides baseline performance; "+
			"Credit quality segmentation - important for risk assessment and approval patterns",
		SegmentationImplications([]string{"FICO Bands", "Overall"}))
	assert.Equal(t, "Custom segmentation - define how each segment will be compared",
		SegmentationImplications([]string{"Region"}))
}

func TestMetricKey(t *testing.T) {
	assert.Equal(t, MetricKey("Checkouts"), MetricKey("Num Checkouts"))
	assert.Equal(t, MetricKey("Take-up Rate"), MetricKey("Take Up Rate"))
	assert.Equal(t, MetricKey("Authed GMV"), MetricKey("Authed Gmv"))
	assert.NotEqual(t, MetricKey("Approval Rate"), MetricKey("Approved Checkouts"))
}

func TestTemplateMetricOptionsAreRecognised(t *testing.T) {
	set := catalog.ExperimentMonitoring(sqltemplate.ExtractMetrics(sqltemplate.DefaultTemplate))
	q, ok := set.Question("metrics_to_monitor")
	require.True(t, ok)
	options := q.Options[:len(q.Options)-1]
	require.NotContains(t, options, catalog.OtherOption)

	for _, m := range options {
		assert.NotEqual(t, "Metric description not available", MetricDescription(m), m)
	}
	for _, e := range CategorizeMetrics(options) {
		assert.NotEqual(t, "Other/Uncategorized", e.Key, "%v", e.Value)
	}

	goals := []string{"Increase average order value", "Increase conversion rates"}
	assert.Equal(t, "Excellent alignment (100%) - metrics well-aligned with goals",
		GoalAlignment(goals, []string{"Aov", "E2E Conversion"}))

	r := New(WithClock(func() time.Time { return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC) })).Analyze(set, responses(
		list("metrics_to_monitor", "Num Checkouts", "Authed Gmv"),
		list("experiment_goals", goals[0]),
	))
	categories := sectionValue(t, r, "metrics_analysis", "metric_categories")
	financial, ok := categories.Lookup("Financial Metrics")
	require.True(t, ok)
	assert.Equal(t, model.ListOf("Authed Gmv"), financial)
	conversion, ok := categories.Lookup("Conversion Metrics")
	require.True(t, ok)
	assert.Equal(t, model.ListOf("Num Checkouts"), conversion)
}

func TestMeasurability(t *testing.T) {
	assert.Equal(t, "Well measurable - specific numeric targets with clear direction", Measurability("Improve approval rate"))
	assert.Equal(t, "Moderately measurable - clear direction but may need specific targets", Measurability("Reduce friction"))
	assert.Equal(t, "Low measurability - consider adding specific, measurable targets", Measurability("Users like it"))
}

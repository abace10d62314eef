package analyzer

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/helmcode/questionnaire/pkg/catalog"
	"github.com/helmcode/questionnaire/pkg/model"
	"github.com/helmcode/questionnaire/pkg/sqltemplate"
	"github.com/helmcode/questionnaire/pkg/validator"
)

const (
	partnerARIs     = "Merchant Partner ARIs"
	dateFormatError = "Date format error - please use YYYY-MM-DD format"
)

// metricCategories lists the known metrics per category, in display order.
var metricCategories = []struct {
	name    string
	metrics []string
}{
	{"Financial Metrics", []string{"Authed GMV", "AOV"}},
	{"Conversion Metrics", []string{"Checkouts", "E2E Conversion", "Application Rate", "Authentication Rate", "Approval Rate", "Take-up Rate", "Auth Rate"}},
	{"Funnel Metrics", []string{"Authenticated", "Identity Approved", "Fraud Approved", "Applied", "Approved Checkouts", "Confirmed Checkouts"}},
	{"Credit Quality Metrics", []string{"Median FICO", "% Prime+ Population", "Median ITACS"}},
	{"Product Metrics", []string{"Terms distribution", "% Z-term"}},
}

var metricDescriptions = map[string]string{
	"Authed GMV":          "Gross Merchandise Value from authenticated users - Total transaction value after user authentication",
	"Checkouts":           "Number of completed checkout processes - Count of users who reached checkout completion",
	"E2E Conversion":      "End-to-end conversion rate - Users who complete the full journey from start to finish",
	"AOV":                 "Average Order Value - Total revenue divided by number of orders",
	"Application Rate":    "Rate of users who submit applications - Applications submitted / total users",
	"Authentication Rate": "Rate of successful user authentications - Successful auths / total attempts",
	"Approval Rate":       "Rate of approved applications - Approved applications / total applications",
	"Take-up Rate":        "Rate of users who accept offers - Accepted offers / total offers presented",
	"Auth Rate":           "Overall authentication success rate - Successful authentications / total attempts",
	"Median FICO":         "Median FICO score of users - Middle value of all user FICO scores",
	"% Prime+ Population": "Percentage of users with Prime+ status - Prime+ users / total users",
	"Median ITACS":        "Median ITACS score of users - Middle value of all user ITACS scores",
	"Terms distribution":  "Distribution of loan terms selected - Breakdown of term lengths chosen",
	"% Z-term":            "Percentage of zero-term or immediate transactions - Zero-term transactions / total transactions",
	"Authenticated":       "Checkouts that passed user authentication - Count of authenticated checkouts",
	"Identity Approved":   "Checkouts that passed identity verification - Count of identity-approved checkouts",
	"Fraud Approved":      "Checkouts that passed fraud screening - Count of fraud-approved checkouts",
	"Applied":             "Checkouts that reached a credit application - Count of submitted applications",
	"Approved Checkouts":  "Checkouts with an approved application - Count of credit approvals",
	"Confirmed Checkouts": "Checkouts completed by the customer - Count of confirmed orders",
}

var goalMetrics = map[string][]string{
	"Increase conversion rates":         {"E2E Conversion", "Application Rate", "Approval Rate", "Take-up Rate", "Confirmed Checkouts"},
	"Improve user engagement":           {"Checkouts", "Authentication Rate", "Auth Rate", "Authenticated"},
	"Reduce customer acquisition costs": {"Application Rate", "Authentication Rate"},
	"Increase average order value":      {"AOV", "Authed GMV"},
	"Improve customer satisfaction":     {"E2E Conversion", "Take-up Rate"},
	"Test new features or designs":      {"Checkouts", "E2E Conversion", "Application Rate"},
	"Optimize pricing strategy":         {"AOV", "Authed GMV", "Terms distribution", "% Z-term"},
	"Improve checkout process":          {"Checkouts", "E2E Conversion", "Application Rate", "Confirmed Checkouts"},
	"Test APR/pricing changes":          {"AOV", "Authed GMV", "Terms distribution", "% Z-term", "Take-up Rate"},
	"Improve credit approval rates":     {"Approval Rate", "Median FICO", "% Prime+ Population", "Median ITACS", "Approved Checkouts"},
	"Increase loan take-up":             {"Take-up Rate", "E2E Conversion", "Application Rate", "Applied"},
	"Optimize risk assessment":          {"Median FICO", "% Prime+ Population", "Median ITACS", "Approval Rate", "Fraud Approved"},
}

// MetricKey folds a metric name so the names generated from query aliases
// ("Num Checkouts", "Authed Gmv", "Take Up Rate") match the catalog names
// ("Checkouts", "Authed GMV", "Take-up Rate").
func MetricKey(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), sqltemplate.CountPrefix)
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hasMetric(metrics []string, name string) bool {
	key := MetricKey(name)
	return slices.ContainsFunc(metrics, func(m string) bool { return MetricKey(m) == key })
}

var descriptionsByKey = func() map[string]string {
	out := make(map[string]string, len(metricDescriptions))
	for name, d := range metricDescriptions {
		out[MetricKey(name)] = d
	}
	return out
}()

var segmentImplications = []struct {
	segment     string
	implication string
}{
	{"Overall", "Overall monitoring provides baseline performance"},
	{"NTA vs. Repeat", "Customer type segmentation - useful for understanding new vs. existing customer behavior"},
	{"FICO Bands", "Credit quality segmentation - important for risk assessment and approval patterns"},
	{"AOV Bands", "Transaction value segmentation - useful for understanding spending behavior"},
	{"ITACS Bands", "Income segmentation - important for affordability and loan sizing"},
	{"Loan Type (IB vs. 0%)", "Product segmentation - critical for understanding product preference and performance"},
}

func experimentProfile() Profile {
	return Profile{
		Kind: model.KindExperiment,
		Fields: []FieldRule{{
			ID:      "experiment_description",
			Section: "experiment_analysis",
			Key:     "description",
			Interpret: func(a model.Answer) []model.Entry {
				return []model.Entry{
					model.E("description_length", model.IntOf(utf8.RuneCountInString(a.Text))),
					model.E("clarity_assessment", model.TextOf(Clarity(a.Text))),
				}
			},
		}},
		Derived: []DerivedRule{
			{Section: "merchant_ari_analysis", Build: ariSection},
			{Section: "test_timing_analysis", Build: testTimingSection},
			{Section: "control_period_analysis", Build: controlPeriodSection},
			{Section: "metrics_analysis", Build: metricsSection},
			{Section: "segmentation_analysis", Build: segmentationSection},
			{Section: "goals_analysis", Build: goalsSection},
			{Section: "success_criteria_analysis", Build: successCriteriaSection},
			{Section: "additional_context_analysis", Build: contextSection},
		},
		Verdict: Verdict{
			High:   4,
			Medium: 2,
			Conditions: []Condition{
				{Weight: 2, When: countBetween(ariCount, 10, math.MaxInt)},
				{Weight: 1, When: countBetween(ariCount, 5, 10)},
				{Weight: 2, When: countBetween(metricCount, 10, math.MaxInt)},
				{Weight: 1, When: countBetween(metricCount, 5, 10)},
				{Weight: 1, When: shortControlPeriod},
			},
			Recommendations: map[model.Tier][]string{
				model.TierHigh: {
					"Consider using monitoring dashboards or tools",
					"Implement automated reporting systems",
					"Establish clear monitoring schedules",
					"Consider breaking into smaller experiments",
				},
				model.TierMedium: {
					"Use organized monitoring approaches",
					"Establish regular review cycles",
					"Consider monitoring templates",
				},
				model.TierLow: {
					"Standard monitoring approach should be sufficient",
					"Focus on data quality and consistency",
					"Establish baseline measurements",
				},
			},
			Extra:   experimentExtras,
			Details: experimentDetails,
		},
	}
}

func experimentExtras(in Input, _ model.Tier) []string {
	var recs []string
	if ariCount(in) > 10 {
		recs = append(recs, "Large number of ARIs - consider sampling or prioritization")
	}
	if metricCount(in) > 10 {
		recs = append(recs, "Many metrics - consider grouping or prioritization")
	}
	if in.Responses.Text("success_criteria") == "" {
		recs = append(recs, "Define clear success criteria for better experiment evaluation")
	}
	if in.Responses.Text("ari_type") == partnerARIs {
		recs = append(recs, "Partner ARIs selected - ensure proper data access and permissions")
	}
	return recs
}

func experimentDetails(in Input, tier model.Tier, _ int) []model.Entry {
	aris, metrics := ariCount(in), metricCount(in)
	scope := "Small"
	switch {
	case aris > 10 || metrics > 10:
		scope = "Large"
	case aris > 5 || metrics > 5:
		scope = "Medium"
	}
	readiness := "Ready"
	if tier == model.TierHigh {
		readiness = "Needs Planning"
	}
	return []model.Entry{
		model.E("monitoring_scope", model.TextOf(scope)),
		model.E("experiment_readiness", model.TextOf(readiness)),
	}
}

func ariCount(in Input) int {
	return len(sqltemplate.ParseIdentifiers(in.Responses.Text("merchant_aris")))
}

func metricCount(in Input) int {
	return len(CompileMetrics(in.Responses))
}

// countBetween holds when count is in (low, high].
func countBetween(count func(Input) int, low, high int) func(Input) bool {
	return func(in Input) bool {
		n := count(in)
		return n > low && n <= high
	}
}

// shortControlPeriod holds for control periods under two weeks and for
// control dates that do not parse.
func shortControlPeriod(in Input) bool {
	start, end := in.Responses.Text("control_start_date"), in.Responses.Text("control_end_date")
	if start == "" || end == "" {
		return false
	}
	days, err := daysBetween(start, end)
	return err != nil || days < 14
}

func daysBetween(start, end string) (int, error) {
	s, err := validator.ParseDate(start)
	if err != nil {
		return 0, err
	}
	e, err := validator.ParseDate(end)
	if err != nil {
		return 0, err
	}
	return validator.DaysBetween(s, e), nil
}

// Clarity grades free text by its word count.
func Clarity(text string) string {
	switch n := len(strings.Fields(text)); {
	case n < 10:
		return "Too brief - may need more detail for clear understanding"
	case n < 25:
		return "Brief but clear - provides good overview"
	case n < 50:
		return "Detailed - comprehensive description"
	default:
		return "Very detailed - may be overly verbose"
	}
}

// MonitoringScope grades the number of identifiers being monitored.
func MonitoringScope(n int) string {
	switch {
	case n == 0:
		return "No ARIs selected - monitoring not possible"
	case n == 1:
		return "Single ARI - focused monitoring"
	case n <= 5:
		return "Small scope - manageable monitoring"
	case n <= 15:
		return "Medium scope - moderate complexity"
	case n <= 30:
		return "Large scope - high complexity"
	default:
		return "Very large scope - may need monitoring strategy"
	}
}

// Duration phrases the length of a date range in days, weeks, months or years.
func Duration(days int) string {
	switch {
	case days < 0:
		return "Invalid date range (end date before start date)"
	case days == 0:
		return "Same day"
	case days < 7:
		return plural(days, "day")
	case days < 30:
		return withRemainder(days/7, "week", days%7, "day")
	case days < 365:
		return withRemainder(days/30, "month", days%30, "day")
	default:
		years, rest := days/365, days%365
		if rest == 0 {
			return plural(years, "year")
		}
		return plural(years, "year") + " and " + plural(rest/30, "month")
	}
}

func withRemainder(n int, unit string, rest int, restUnit string) string {
	if rest == 0 {
		return plural(n, unit)
	}
	return plural(n, unit) + " and " + plural(rest, restUnit)
}

// Freshness describes how recent a test that ended daysSinceEnd ago is.
func Freshness(daysSinceEnd int) string {
	switch {
	case daysSinceEnd <= 1:
		return "Very recent test - excellent data freshness and relevance"
	case daysSinceEnd <= 7:
		return "Recent test - good data freshness and relevance"
	case daysSinceEnd <= 30:
		return "Recent test - reasonable data age, verify availability"
	case daysSinceEnd <= 90:
		return "Older test - data may need validation, check availability"
	default:
		return "Old test - significant data age, verify availability and relevance"
	}
}

// ControlPeriodImplications grades a control period by its length in days.
func ControlPeriodImplications(days int) string {
	switch {
	case days < 7:
		return "Very short control period - may have seasonal bias, consider longer period for statistical significance"
	case days < 14:
		return "Short control period - adequate for some metrics, consider longer period for stability"
	case days < 30:
		return "Good control period - balances stability and relevance"
	case days < 90:
		return "Excellent control period - good statistical stability and seasonal coverage"
	case days < 180:
		return "Long control period - excellent stability, good seasonal coverage"
	default:
		return "Very long control period - excellent stability, comprehensive seasonal coverage"
	}
}

// MonitoringComplexity grades the number of metrics being monitored.
func MonitoringComplexity(n int) string {
	switch {
	case n == 0:
		return "No metrics selected - monitoring not possible"
	case n <= 3:
		return "Low complexity - easy to monitor and analyze"
	case n <= 7:
		return "Medium complexity - manageable monitoring"
	case n <= 12:
		return "High complexity - requires organized monitoring approach"
	default:
		return "Very high complexity - consider monitoring dashboard or tools"
	}
}

func ariSection(in Input) ([]model.Entry, bool) {
	list, kind := in.Responses.Text("merchant_aris"), in.Responses.Text("ari_type")
	if list == "" || kind == "" {
		return nil, false
	}
	n := len(sqltemplate.ParseIdentifiers(list))
	return []model.Entry{
		model.E("ari_list", model.TextOf(list)),
		model.E("ari_type", model.TextOf(kind)),
		model.E("total_aris", model.IntOf(n)),
		model.E("monitoring_scope", model.TextOf(MonitoringScope(n))),
	}, true
}

func durationPhrase(start, end string) string {
	days, err := daysBetween(start, end)
	if err != nil {
		return dateFormatError
	}
	return Duration(days)
}

func testTimingSection(in Input) ([]model.Entry, bool) {
	start, end := in.Responses.Text("test_start_date"), in.Responses.Text("test_end_date")
	if start == "" || end == "" {
		return nil, false
	}
	v := validator.New(validator.WithClock(func() time.Time { return in.Now }))

	implications := dateFormatError
	if e, err := validator.ParseDate(end); err == nil {
		implications = Freshness(validator.DaysBetween(e, in.Now))
	}
	return []model.Entry{
		model.E("test_start_date", model.TextOf(start)),
		model.E("test_end_date", model.TextOf(end)),
		model.E("test_duration", model.TextOf(durationPhrase(start, end))),
		model.E("timing_implications", model.TextOf(implications)),
		model.E("date_validation", v.ValidateRange(start, end).AsValue()),
	}, true
}

func controlPeriodSection(in Input) ([]model.Entry, bool) {
	start, end := in.Responses.Text("control_start_date"), in.Responses.Text("control_end_date")
	if start == "" || end == "" {
		return nil, false
	}
	v := validator.New(validator.WithClock(func() time.Time { return in.Now }))

	implications := dateFormatError
	if days, err := daysBetween(start, end); err == nil {
		implications = ControlPeriodImplications(days)
	}
	timing := v.ValidateTimingText(start, end, in.Responses.Text("test_start_date"), in.Responses.Text("test_end_date"))
	return []model.Entry{
		model.E("control_start_date", model.TextOf(start)),
		model.E("control_end_date", model.TextOf(end)),
		model.E("control_duration", model.TextOf(durationPhrase(start, end))),
		model.E("statistical_implications", model.TextOf(implications)),
		model.E("timing_validation", timing.AsValue()),
	}, true
}

// CompileMetrics returns the selected metrics without the "Other" option,
// followed by the custom metrics when "Other" was selected.
func CompileMetrics(responses model.ResponseMap) []string {
	return compileWithOther(responses.List("metrics_to_monitor"), responses.Text("custom_metrics"))
}

// CompileGoals is CompileMetrics for experiment goals.
func CompileGoals(responses model.ResponseMap) []string {
	return compileWithOther(responses.List("experiment_goals"), responses.Text("custom_goals"))
}

func compileWithOther(selected []string, custom string) []string {
	out := make([]string, 0, len(selected))
	other := false
	for _, s := range selected {
		if s == catalog.OtherOption {
			other = true
			continue
		}
		out = append(out, s)
	}
	if other {
		for _, item := range strings.Split(strings.ReplaceAll(custom, "\n", ","), ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// CategorizeMetrics groups metrics by category; unknown metrics land in
// "Other/Uncategorized".
func CategorizeMetrics(metrics []string) []model.Entry {
	known := map[string]bool{}
	var out []model.Entry
	for _, c := range metricCategories {
		var found []string
		for _, m := range metrics {
			if hasMetric(c.metrics, m) {
				found = append(found, m)
				known[m] = true
			}
		}
		if len(found) > 0 {
			out = append(out, model.E(c.name, model.ListOf(found...)))
		}
	}
	var rest []string
	for _, m := range metrics {
		if !known[m] {
			rest = append(rest, m)
		}
	}
	if len(rest) > 0 {
		out = append(out, model.E("Other/Uncategorized", model.ListOf(rest...)))
	}
	return out
}

// MetricDescription explains a known metric.
func MetricDescription(metric string) string {
	if d, ok := descriptionsByKey[MetricKey(metric)]; ok {
		return d
	}
	return "Metric description not available"
}

func metricsSection(in Input) ([]model.Entry, bool) {
	selected := in.Responses.List("metrics_to_monitor")
	if len(selected) == 0 {
		return nil, false
	}
	metrics := CompileMetrics(in.Responses)
	descriptions := make([]model.Entry, 0, len(metrics))
	for _, m := range metrics {
		descriptions = append(descriptions, model.E(m, model.TextOf(MetricDescription(m))))
	}
	return []model.Entry{
		model.E("selected_metrics", model.ListOf(selected...)),
		model.E("total_metrics", model.IntOf(len(metrics))),
		model.E("metric_categories", model.MapOf(CategorizeMetrics(metrics)...)),
		model.E("monitoring_complexity", model.TextOf(MonitoringComplexity(len(metrics)))),
		model.E("metric_descriptions", model.MapOf(descriptions...)),
	}, true
}

// SegmentationComplexity grades the chosen segmentation.
func SegmentationComplexity(segments []string) string {
	switch {
	case len(segments) == 1 && segments[0] == "Overall":
		return "Low complexity - overall monitoring only"
	case len(segments) <= 2:
		return "Medium complexity - manageable segmentation"
	case len(segments) <= 4:
		return "High complexity - consider monitoring tools and dashboards"
	default:
		return "Very high complexity - requires dedicated monitoring infrastructure"
	}
}

// SegmentationImplications explains what each chosen segment is good for.
func SegmentationImplications(segments []string) string {
	var found []string
	for _, s := range segmentImplications {
		if slices.Contains(segments, s.segment) {
			found = append(found, s.implication)
		}
	}
	switch len(found) {
	case 0:
		return "Custom segmentation - define how each segment will be compared"
	case 1:
		return found[0]
	}
	return "Multiple segmentation approaches: " + strings.Join(found, "; ")
}

func segmentationSection(in Input) ([]model.Entry, bool) {
	segments := in.Responses.List("monitoring_segmentation")
	if len(segments) == 0 {
		return nil, false
	}
	return []model.Entry{
		model.E("selected_segmentation", model.ListOf(segments...)),
		model.E("total_segments", model.IntOf(len(segments))),
		model.E("segmentation_complexity", model.TextOf(SegmentationComplexity(segments))),
		model.E("segmentation_implications", model.TextOf(SegmentationImplications(segments))),
	}, true
}

// GoalAlignment reports the share of goals that have at least one related
// metric selected.
func GoalAlignment(goals, metrics []string) string {
	if len(goals) == 0 || len(metrics) == 0 {
		return "Cannot assess alignment - missing goals or metrics"
	}
	aligned := 0
	for _, g := range goals {
		for _, m := range goalMetrics[g] {
			if hasMetric(metrics, m) {
				aligned++
				break
			}
		}
	}
	pct := float64(aligned) / float64(len(goals)) * 100
	switch {
	case pct >= 80:
		return fmt.Sprintf("Excellent alignment (%.0f%%) - metrics well-aligned with goals", pct)
	case pct >= 60:
		return fmt.Sprintf("Good alignment (%.0f%%) - most goals have relevant metrics", pct)
	case pct >= 40:
		return fmt.Sprintf("Moderate alignment (%.0f%%) - some goals lack relevant metrics", pct)
	default:
		return fmt.Sprintf("Poor alignment (%.0f%%) - consider adding relevant metrics", pct)
	}
}

func goalsSection(in Input) ([]model.Entry, bool) {
	if len(in.Responses.List("experiment_goals")) == 0 {
		return nil, false
	}
	goals := CompileGoals(in.Responses)
	return []model.Entry{
		model.E("goals", model.ListOf(goals...)),
		model.E("total_goals", model.IntOf(len(goals))),
		model.E("goal_metric_alignment", model.TextOf(GoalAlignment(goals, CompileMetrics(in.Responses)))),
	}, true
}

var (
	directionWords  = []string{"increase", "decrease", "improve", "reduce", "achieve", "reach", "maintain", "exceed"}
	percentageWords = []string{"%", "percent", "percentage"}
	numberWords     = []string{"number", "count", "amount", "value", "rate"}
)

// Measurability grades success criteria by the target words they use.
func Measurability(criteria string) string {
	lower := strings.ToLower(criteria)
	direction := containsAny(lower, directionWords)
	switch {
	case direction && containsAny(lower, percentageWords):
		return "Highly measurable - specific percentage targets with clear direction"
	case direction && containsAny(lower, numberWords):
		return "Well measurable - specific numeric targets with clear direction"
	case direction:
		return "Moderately measurable - clear direction but may need specific targets"
	default:
		return "Low measurability - consider adding specific, measurable targets"
	}
}

// CriteriaMetricAlignment counts the selected metrics named in the criteria.
func CriteriaMetricAlignment(criteria string, metrics []string) string {
	if criteria == "" || len(metrics) == 0 {
		return "Cannot assess alignment - missing criteria or metrics"
	}
	lower := strings.ToLower(criteria)
	mentioned := 0
	for _, m := range metrics {
		if strings.Contains(lower, strings.ToLower(m)) {
			mentioned++
		}
	}
	if mentioned == 0 {
		return "Limited alignment - consider ensuring success criteria reference selected metrics"
	}
	return fmt.Sprintf("Good alignment - criteria mention %d selected metrics", mentioned)
}

func successCriteriaSection(in Input) ([]model.Entry, bool) {
	criteria := in.Responses.Text("success_criteria")
	if criteria == "" {
		return nil, false
	}
	return []model.Entry{
		model.E("criteria", model.TextOf(criteria)),
		model.E("measurability", model.TextOf(Measurability(criteria))),
		model.E("metric_alignment", model.TextOf(CriteriaMetricAlignment(criteria, CompileMetrics(in.Responses)))),
	}, true
}

func contextSection(in Input) ([]model.Entry, bool) {
	text := in.Responses.Text("additional_context")
	if text == "" {
		return nil, false
	}
	return []model.Entry{
		model.E("context", model.TextOf(text)),
		model.E("context_length", model.IntOf(utf8.RuneCountInString(text))),
		model.E("context_clarity", model.TextOf(Clarity(text))),
	}, true
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

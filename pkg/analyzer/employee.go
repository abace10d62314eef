package analyzer

import (
	"math"

	"github.com/helmcode/questionnaire/pkg/model"
)

// ratedFields are the satisfaction ratings averaged into the overall score.
var ratedFields = []string{
	"job_satisfaction",
	"work_life_balance",
	"career_growth",
	"compensation",
	"management_support",
	"team_collaboration",
	"company_culture",
}

var jobSatisfactionTiers = PercentTiers{
	{"Maintain current practices", "Recognize and reward success", "Share best practices"},
	{"Identify improvement areas", "Gather specific feedback", "Implement targeted improvements"},
	{"Conduct detailed surveys", "Address major concerns", "Develop improvement plans"},
	{"Immediate intervention required", "Conduct exit interviews", "Develop retention strategies"},
}

func employeeProfile() Profile {
	return Profile{
		Kind: model.KindEmployee,
		Fields: []FieldRule{
			ratingRule("job_satisfaction", "job_satisfaction_analysis", 10, func(s float64) []string {
				return jobSatisfactionTiers.For(s, 10)
			}),
			ratingRule("work_life_balance", "work_life_balance_analysis", 5, ScoreTiers{
				{"Maintain current policies", "Share best practices", "Monitor workload"},
				{"Review workload distribution", "Implement flexible policies", "Promote time management"},
				{"Immediate workload review", "Implement flexible work arrangements", "Consider additional resources"},
			}.For),
			ratingRule("career_growth", "career_growth_analysis", 5, ScoreTiers{
				{"Maintain development programs", "Expand opportunities", "Succession planning"},
				{"Enhance development programs", "Create growth paths", "Mentorship programs"},
				{"Develop career framework", "Create growth opportunities", "Regular career discussions"},
			}.For),
			ratingRule("compensation", "compensation_analysis", 5, ScoreTiers{
				{"Maintain competitive compensation", "Regular market reviews", "Performance-based rewards"},
				{"Review compensation structure", "Market benchmarking", "Performance incentives"},
				{"Comprehensive compensation review", "Market analysis", "Consider adjustments"},
			}.For),
			ratingRule("management_support", "management_analysis", 5, ScoreTiers{
				{"Maintain management standards", "Share best practices", "Leadership development"},
				{"Management training", "Feedback mechanisms", "Support systems"},
				{"Immediate management review", "Training programs", "Support structures"},
			}.For),
			ratingRule("team_collaboration", "team_collaboration_analysis", 5, ScoreTiers{
				{"Maintain team dynamics", "Cross-team collaboration", "Team building activities"},
				{"Enhance communication", "Team building", "Collaboration tools"},
				{"Team dynamics review", "Communication training", "Collaboration processes"},
			}.For),
			ratingRule("company_culture", "company_culture_analysis", 5, ScoreTiers{
				{"Maintain culture", "Reinforce values", "Culture ambassadors"},
				{"Culture assessment", "Values clarification", "Culture initiatives"},
				{"Culture transformation", "Values definition", "Cultural change management"},
			}.For),
			{
				ID:      "recommendation_likelihood",
				Section: "recommendation_analysis",
				Key:     "score",
				Interpret: func(a model.Answer) []model.Entry {
					return []model.Entry{
						model.E("interpretation", model.TextOf(InterpretRating(a.Number, 10))),
						model.E("nps_category", model.TextOf(NPSCategory(a.Number))),
					}
				},
			},
		},
		Lists: []ListRule{{
			ID: "concerns", Section: "concerns_analysis", Key: "concerns",
			Priority: &PriorityTable{Key: "priority_levels", Levels: map[string]string{
				"Compensation":      "High",
				"Career growth":     "High",
				"Work-life balance": "High",
				"Management":        "High",
				"Company direction": "Medium",
				"Job security":      "Medium",
			}},
			Actions: &ActionTable{Key: "action_items", Default: []string{"Develop specific action plan"}, Actions: map[string][]string{
				"Compensation":      {"Market benchmarking", "Compensation review", "Performance-based rewards"},
				"Career growth":     {"Career framework", "Development programs", "Growth opportunities"},
				"Work-life balance": {"Flexible policies", "Workload review", "Wellness programs"},
				"Management":        {"Management training", "Feedback systems", "Support structures"},
				"Company direction": {"Communication strategy", "Vision clarity", "Employee involvement"},
				"Job security":      {"Business transparency", "Growth plans", "Employee development"},
			}},
		}},
		Verdict: Verdict{
			Conditions: []Condition{
				{Weight: 2, When: averageBelow(3)},
				{Weight: 1, When: averageBelow(2)},
				{Weight: 2, When: moreThan("concerns", 3)},
				{Weight: 2, When: func(in Input) bool {
					n, ok := in.Responses.Number("recommendation_likelihood")
					return ok && NPSCategory(n) == "Detractor"
				}},
			},
			HealthRecommendations: map[string][]string{
				"Excellent": {
					"Maintain current practices and policies",
					"Continue monitoring employee satisfaction",
					"Share best practices across the organization",
				},
				"Good": {
					"Address areas with lower scores",
					"Implement targeted improvements",
					"Regular feedback collection and review",
				},
				"Fair": {
					"Immediate attention to low-scoring areas",
					"Develop comprehensive improvement plans",
					"Consider external consultation",
				},
				"Poor": {
					"Critical intervention required",
					"Comprehensive organizational review",
					"Immediate action on all fronts",
				},
			},
			Health: func(in Input, _ model.Tier) string {
				avg, _ := AverageRating(in.Responses)
				return SatisfactionHealth(avg)
			},
			Details: func(in Input, _ model.Tier, _ int) []model.Entry {
				avg, _ := AverageRating(in.Responses)
				details := []model.Entry{
					model.E("average_score", model.NumberOf(math.Round(avg*100)/100)),
					model.E("response_count", model.IntOf(in.Responses.Len())),
				}
				if n, ok := in.Responses.Number("recommendation_likelihood"); ok {
					details = append(details, model.E("nps_category", model.TextOf(NPSCategory(n))))
				}
				return details
			},
		},
	}
}

// NPSCategory buckets a 0-10 recommendation score.
func NPSCategory(score float64) string {
	switch {
	case score >= 9:
		return "Promoter"
	case score >= 7:
		return "Passive"
	default:
		return "Detractor"
	}
}

// AverageRating averages the answered satisfaction ratings. ok is false when
// none were answered.
func AverageRating(responses model.ResponseMap) (avg float64, ok bool) {
	var sum float64
	var n int
	for _, id := range ratedFields {
		if v, answered := responses.Number(id); answered && v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func averageBelow(limit float64) func(Input) bool {
	return func(in Input) bool {
		avg, ok := AverageRating(in.Responses)
		return ok && avg < limit
	}
}

// SatisfactionHealth labels an average rating.
func SatisfactionHealth(avg float64) string {
	switch {
	case avg >= 4:
		return "Excellent"
	case avg >= 3:
		return "Good"
	case avg >= 2:
		return "Fair"
	default:
		return "Poor"
	}
}

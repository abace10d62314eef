package catalog

import "github.com/helmcode/questionnaire/pkg/model"

// OtherOption is the free-form escape hatch offered in experiment multi-selects.
const OtherOption = "Other (specify below)"

// DefaultMetricOptions are offered when no SQL template supplies metric names.
var DefaultMetricOptions = []string{
	"Authed GMV",
	"Checkouts",
	"E2E Conversion",
	"AOV",
	"Application Rate",
	"Authentication Rate",
	"Approval Rate",
	"Take-up Rate",
	"Auth Rate",
	"Median FICO",
	"% Prime+ Population",
	"Median ITACS",
	"Terms distribution",
	"% Z-term",
}

func choice(id, prompt string, options ...string) model.QuestionSpec {
	return model.QuestionSpec{ID: id, Prompt: prompt, Type: model.SingleChoice, Options: options, Required: true}
}

func multi(id, prompt string, required bool, options ...string) model.QuestionSpec {
	return model.QuestionSpec{ID: id, Prompt: prompt, Type: model.MultiChoice, Options: options, Required: required}
}

func text(id, prompt string, required bool) model.QuestionSpec {
	return model.QuestionSpec{ID: id, Prompt: prompt, Type: model.FreeText, Required: required}
}

func rating(id, prompt string, scale int) model.QuestionSpec {
	return model.QuestionSpec{ID: id, Prompt: prompt, Type: model.Rating, Scale: scale, Required: true}
}

func businessAnalysis() model.QuestionSet {
	return model.QuestionSet{
		ID:          "business_analysis",
		Kind:        model.KindBusiness,
		Name:        "Business Analysis",
		Description: "Comprehensive business analysis covering type, size, revenue, growth, and challenges",
		Category:    "business",
		Questions: []model.QuestionSpec{
			choice("business_type", "What type of business are you analyzing?",
				"Technology", "Finance", "Healthcare", "Retail", "Manufacturing", "Other"),
			choice("company_size", "What is the approximate size of the company?",
				"1-10 employees", "11-50 employees", "51-200 employees", "201-1000 employees", "1000+ employees"),
			choice("revenue_range", "What is the annual revenue range?",
				"Under $100K", "$100K - $1M", "$1M - $10M", "$10M - $100M", "$100M+"),
			choice("growth_rate", "What is the current growth rate?",
				"Declining", "Stable", "Growing slowly (1-10%)", "Growing moderately (10-25%)", "Growing rapidly (25%+)"),
			choice("market_position", "How would you describe the company's market position?",
				"Market leader", "Strong competitor", "Established player", "Emerging player", "Niche player"),
			multi("challenges", "What are the main challenges the company faces? (Select all that apply)", true,
				"Market competition", "Regulatory compliance", "Technology disruption", "Talent acquisition",
				"Financial constraints", "Supply chain issues", "Customer retention"),
			text("opportunities", "What opportunities do you see for the company?", false),
			text("risk_factors", "What are the main risk factors?", false),
			text("recommendations", "What recommendations would you make?", false),
		},
	}
}

func investmentAnalysis() model.QuestionSet {
	return model.QuestionSet{
		ID:          "investment_analysis",
		Kind:        model.KindInvestment,
		Name:        "Investment Analysis",
		Description: "Investment evaluation covering type, risk tolerance, market conditions, and goals",
		Category:    "finance",
		Questions: []model.QuestionSpec{
			choice("investment_type", "What type of investment are you analyzing?",
				"Stocks", "Bonds", "Real Estate", "Startup/Private Equity", "Commodities", "Cryptocurrency", "Other"),
			choice("investment_horizon", "What is your investment time horizon?",
				"Short-term (1-3 years)", "Medium-term (3-10 years)", "Long-term (10+ years)"),
			choice("risk_tolerance", "What is your risk tolerance level?",
				"Conservative", "Moderate", "Aggressive"),
			choice("expected_return", "What is your expected annual return?",
				"2-5%", "5-10%", "10-15%", "15-25%", "25%+"),
			choice("market_conditions", "How would you describe current market conditions?",
				"Bear market", "Sideways/Volatile", "Bull market", "Uncertain"),
			choice("diversification", "How diversified is your current portfolio?",
				"Not diversified", "Somewhat diversified", "Well diversified", "Highly diversified"),
			choice("liquidity_needs", "What are your liquidity needs?",
				"High (need cash within 1 year)", "Medium (1-3 years)", "Low (3+ years)"),
			multi("investment_goals", "What are your primary investment goals?", true,
				"Capital preservation", "Income generation", "Capital appreciation", "Tax efficiency", "Inflation protection"),
			text("concerns", "What are your main investment concerns?", false),
		},
	}
}

func projectManagement() model.QuestionSet {
	return model.QuestionSet{
		ID:          "project_management",
		Kind:        model.KindProject,
		Name:        "Project Management",
		Description: "Project assessment covering scope, resources, risks, and success criteria",
		Category:    "management",
		Questions: []model.QuestionSpec{
			choice("project_type", "What type of project is this?",
				"Software Development", "Construction", "Marketing Campaign", "Research", "Process Improvement", "Other"),
			choice("project_size", "What is the project size/complexity?",
				"Small (1-3 months)", "Medium (3-12 months)", "Large (1-3 years)", "Enterprise (3+ years)"),
			choice("team_size", "What is the team size?",
				"1-3 people", "4-8 people", "9-20 people", "20+ people"),
			choice("budget_range", "What is the budget range?",
				"Under $10K", "$10K - $100K", "$100K - $1M", "$1M+"),
			choice("timeline_pressure", "How much timeline pressure is there?",
				"No pressure", "Some pressure", "High pressure", "Critical deadline"),
			choice("stakeholder_complexity", "How complex are the stakeholder relationships?",
				"Simple", "Moderate", "Complex", "Very complex"),
			multi("technical_risks", "What technical risks exist?", true,
				"New technology", "Integration challenges", "Performance requirements", "Security concerns",
				"Scalability issues", "None"),
			choice("resource_availability", "How would you rate resource availability?",
				"Excellent", "Good", "Fair", "Poor"),
			text("success_criteria", "What are the key success criteria?", false),
			text("potential_issues", "What potential issues do you foresee?", false),
		},
	}
}

func customerSatisfaction() model.QuestionSet {
	return model.QuestionSet{
		ID:          "customer_satisfaction",
		Kind:        model.KindCustomer,
		Name:        "Customer Satisfaction",
		Description: "Customer experience analysis covering satisfaction, loyalty, and pain points",
		Category:    "customer",
		Questions: []model.QuestionSpec{
			choice("customer_segment", "What customer segment are you analyzing?",
				"B2B Enterprise", "B2B SMB", "B2C Premium", "B2C Mass Market", "Government", "Non-profit"),
			choice("interaction_channel", "What is the primary interaction channel?",
				"In-person", "Phone", "Email", "Website", "Mobile App", "Social Media", "Multiple channels"),
			choice("satisfaction_level", "What is the current satisfaction level?",
				"Very dissatisfied", "Dissatisfied", "Neutral", "Satisfied", "Very satisfied"),
			choice("loyalty_level", "How loyal are customers?",
				"Not loyal", "Somewhat loyal", "Loyal", "Very loyal", "Extremely loyal"),
			multi("pain_points", "What are the main customer pain points?", true,
				"Product quality", "Customer service", "Pricing", "Ease of use", "Support response time",
				"Documentation", "None"),
			text("improvement_areas", "What areas need improvement?", false),
			text("positive_feedback", "What positive feedback do you receive?", false),
			choice("recommendation_likelihood", "How likely are customers to recommend you?",
				"Very unlikely", "Unlikely", "Neutral", "Likely", "Very likely"),
		},
	}
}

func employeeSatisfaction() model.QuestionSet {
	return model.QuestionSet{
		ID:          "employee_satisfaction",
		Kind:        model.KindEmployee,
		Name:        "Employee Satisfaction Survey",
		Description: "Comprehensive employee satisfaction and engagement analysis",
		Category:    "hr",
		Questions: []model.QuestionSpec{
			choice("department", "What department do you work in?",
				"Engineering", "Sales", "Marketing", "HR", "Finance", "Operations", "Other"),
			choice("tenure", "How long have you been with the company?",
				"Less than 1 year", "1-3 years", "3-5 years", "5-10 years", "10+ years"),
			rating("job_satisfaction", "How satisfied are you with your current job?", 10),
			rating("work_life_balance", "How would you rate your work-life balance?", 5),
			rating("career_growth", "How satisfied are you with career growth opportunities?", 5),
			rating("compensation", "How satisfied are you with your compensation?", 5),
			rating("management_support", "How would you rate the support from your manager?", 5),
			rating("team_collaboration", "How would you rate team collaboration?", 5),
			rating("company_culture", "How would you rate the company culture?", 5),
			multi("concerns", "What are your main concerns about working here?", false,
				"Compensation", "Career growth", "Work-life balance", "Management", "Company direction",
				"Job security", "None"),
			text("suggestions", "What suggestions do you have for improving the workplace?", false),
			rating("recommendation_likelihood", "How likely are you to recommend this company as a place to work?", 10),
		},
	}
}

// ExperimentMonitoring builds the experiment monitoring set. metricOptions
// replaces the default metric list when non-empty; OtherOption is always last.
func ExperimentMonitoring(metricOptions []string) model.QuestionSet {
	metrics := withOther(metricOptions)
	dateHelp := "Use YYYY-MM-DD format (e.g. 2024-01-15)"

	return model.QuestionSet{
		ID:          "experiment_monitoring",
		Kind:        model.KindExperiment,
		Name:        "Experiment Monitoring Questionnaire",
		Description: "Comprehensive experiment monitoring setup and configuration",
		Category:    "experiment",
		Questions: []model.QuestionSpec{
			text("experiment_description", "Briefly describe the experiment.", true),
			text("merchant_aris", "Please provide a list of merchant ARIs or merchant partner ARIs.", true),
			choice("ari_type", "Are you providing merchant ARIs or merchant partner ARIs?",
				"Merchant ARIs", "Merchant Partner ARIs"),
			{ID: "test_start_date", Prompt: "What is the start date of the test period? (YYYY-MM-DD)", Type: model.FreeText, Required: true, Help: dateHelp},
			{ID: "test_end_date", Prompt: "What is the end date of the test period? (YYYY-MM-DD)", Type: model.FreeText, Required: true, Help: dateHelp},
			{ID: "control_start_date", Prompt: "What is the start date of the control period? (YYYY-MM-DD)", Type: model.FreeText, Required: true, Help: dateHelp},
			{ID: "control_end_date", Prompt: "What is the end date of the control period? (YYYY-MM-DD)", Type: model.FreeText, Required: true, Help: dateHelp},
			multi("metrics_to_monitor", "What metrics would you like to monitor?", true, metrics...),
			text("custom_metrics", "If you selected 'Other', please specify the metrics:", false),
			multi("monitoring_segmentation", "What segmentation should we use for monitoring?", true,
				"Overall", "NTA vs. Repeat", "FICO Bands", "AOV Bands", "ITACS Bands", "Loan Type (IB vs. 0%)"),
			multi("experiment_goals", "What are the primary goals of this experiment?", false,
				"Increase conversion rates", "Improve user engagement", "Reduce customer acquisition costs",
				"Increase average order value", "Improve customer satisfaction", "Test new features or designs",
				"Optimize pricing strategy", "Improve checkout process", "Test APR/pricing changes",
				"Improve credit approval rates", "Increase loan take-up", "Optimize risk assessment", OtherOption),
			text("custom_goals", "If you selected 'Other' for goals, please specify:", false),
			text("success_criteria", "What would you consider a successful outcome for this experiment?", false),
			{
				ID:     "additional_context",
				Prompt: "Please provide any additional context that may be useful for the interpretation of results.",
				Type:   model.FreeText,
				Help:   "Experiment goals, business context, expected outcomes, or anything else that helps interpret the results.",
			},
		},
		Comparison: &model.Comparison{
			Baseline:  model.DateRange{Name: "control period", StartID: "control_start_date", EndID: "control_end_date"},
			Treatment: model.DateRange{Name: "test period", StartID: "test_start_date", EndID: "test_end_date"},
		},
	}
}

func withOther(options []string) []string {
	if len(options) == 0 {
		options = DefaultMetricOptions
	}
	out := make([]string, 0, len(options)+1)
	for _, o := range options {
		if o != OtherOption {
			out = append(out, o)
		}
	}
	return append(out, OtherOption)
}

func builtinCategories() []Category {
	return []Category{
		{ID: "business", Name: "Business Analysis", Description: "General business and organizational analysis",
			SetIDs: []string{"business_analysis", "project_management"}},
		{ID: "finance", Name: "Financial Analysis", Description: "Investment and financial decision analysis",
			SetIDs: []string{"investment_analysis"}},
		{ID: "management", Name: "Management Analysis", Description: "Project and operational management analysis",
			SetIDs: []string{"project_management"}},
		{ID: "customer", Name: "Customer Analysis", Description: "Customer experience and satisfaction analysis",
			SetIDs: []string{"customer_satisfaction"}},
		{ID: "hr", Name: "People Analysis", Description: "Employee satisfaction and engagement analysis",
			SetIDs: []string{"employee_satisfaction"}},
		{ID: "experiment", Name: "Experiment Analysis", Description: "Experiment setup and monitoring analysis",
			SetIDs: []string{"experiment_monitoring"}},
	}
}

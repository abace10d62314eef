package analyzer

import (
	"github.com/helmcode/questionnaire/pkg/model"
)

func builtinProfiles() []Profile {
	return []Profile{
		genericProfile(),
		businessProfile(),
		investmentProfile(),
		projectProfile(),
		customerProfile(),
		employeeProfile(),
		experimentProfile(),
	}
}

// GenericRecommendations is the verdict table of profiles without their own.
var GenericRecommendations = map[model.Tier][]string{
	model.TierHigh:   {"Immediate action required", "Professional consultation recommended", "Risk mitigation planning"},
	model.TierMedium: {"Monitor situation closely", "Implement improvement plans", "Regular assessment needed"},
	model.TierLow:    {"Maintain current approach", "Continue monitoring", "Look for enhancement opportunities"},
}

func genericProfile() Profile {
	return Profile{
		Kind: model.KindCustom,
		Derived: []DerivedRule{{
			Section: "generic_analysis",
			Build: func(in Input) ([]model.Entry, bool) {
				summary := make([]model.Entry, 0, in.Responses.Len())
				for _, id := range in.Responses.IDs() {
					q, ok := in.Set.Question(id)
					if !ok {
						continue
					}
					a, _ := in.Responses.Get(id)
					summary = append(summary, model.E(q.Prompt, model.MapOf(
						model.E("response", answerValue(a)),
						model.E("type", model.TextOf(q.Type.String())),
					)))
				}
				return []model.Entry{
					model.E("total_questions", model.IntOf(len(in.Set.Questions))),
					model.E("completed_questions", model.IntOf(in.Responses.Len())),
					model.E("response_summary", model.MapOf(summary...)),
				}, true
			},
		}},
		Verdict: Verdict{Recommendations: GenericRecommendations},
	}
}

func businessProfile() Profile {
	return Profile{
		Kind: model.KindBusiness,
		Fields: []FieldRule{
			{ID: "business_type", Section: "business_insights", Key: "type",
				Interpret: lookupList("characteristics", map[string][]string{
					"Technology":    {"Innovation-driven", "Fast-paced", "High R&D investment", "Talent-dependent"},
					"Finance":       {"Regulated", "Risk-averse", "Compliance-focused", "Customer trust critical"},
					"Healthcare":    {"Highly regulated", "Quality-focused", "Long sales cycles", "Ethical considerations"},
					"Retail":        {"Customer-centric", "Seasonal", "Inventory management", "Location-dependent"},
					"Manufacturing": {"Capital-intensive", "Supply chain dependent", "Quality control", "Efficiency-focused"},
					"Other":         {"Industry-specific factors", "Market dynamics", "Regulatory environment"},
				}, "Industry-specific characteristics")},
			{ID: "company_size", Section: "size_analysis", Key: "size",
				Interpret: lookupList("implications", map[string][]string{
					"1-10 employees":     {"Agile decision-making", "Limited resources", "Owner-dependent", "Personal relationships"},
					"11-50 employees":    {"Growing structure", "Process development", "Team building", "Scaling challenges"},
					"51-200 employees":   {"Established processes", "Department structure", "Management layers", "Growth opportunities"},
					"201-1000 employees": {"Corporate structure", "Standardized processes", "Multiple locations", "Professional management"},
					"1000+ employees":    {"Enterprise scale", "Complex bureaucracy", "Global presence", "Institutional processes"},
				}, "Size-specific implications")},
			{ID: "revenue_range", Section: "revenue_analysis", Key: "revenue_range",
				Interpret: matchPhrase("financial_health", []phrase{
					{"Under $100K", "Early stage/Startup - Focus on growth and funding"},
					{"$100K - $1M", "Growth stage - Focus on scaling operations"},
					{"$1M - $10M", "Established - Focus on market expansion"},
					{"$10M - $100M", "Mature - Focus on efficiency and diversification"},
				}, "Enterprise - Focus on optimization and innovation")},
			{ID: "growth_rate", Section: "growth_analysis", Key: "growth_rate",
				Interpret: matchPhrase("stage", []phrase{
					{"Declining", "Decline phase - Focus on turnaround strategies"},
					{"Stable", "Maturity phase - Focus on efficiency and innovation"},
					{"Growing slowly", "Growth phase - Focus on market penetration"},
					{"Growing moderately", "Expansion phase - Focus on market development"},
				}, "Hypergrowth phase - Focus on scaling and infrastructure")},
			{ID: "market_position", Section: "market_analysis", Key: "position",
				Interpret: lookupList("strategic_implications", map[string][]string{
					"Market leader":      {"Defend position", "Innovate continuously", "Expand markets", "Acquire competitors"},
					"Strong competitor":  {"Challenge leader", "Differentiate offerings", "Improve efficiency", "Expand capabilities"},
					"Established player": {"Maintain position", "Improve operations", "Explore new markets", "Innovate products"},
					"Emerging player":    {"Gain market share", "Build brand", "Develop capabilities", "Secure funding"},
					"Niche player":       {"Deepen expertise", "Expand niche", "Build relationships", "Consider diversification"},
				}, "Position-specific strategies")},
		},
		Lists: []ListRule{{
			ID: "challenges", Section: "challenges_analysis", Key: "challenges",
			Priority: &PriorityTable{Key: "priority_levels", Levels: map[string]string{
				"Market competition":    "High",
				"Regulatory compliance": "Medium",
				"Technology disruption": "High",
				"Talent acquisition":    "Medium",
				"Financial constraints": "High",
				"Supply chain issues":   "Medium",
				"Customer retention":    "High",
			}},
			Actions: &ActionTable{Key: "mitigation_strategies", Default: []string{"Develop specific strategies"}, Actions: map[string][]string{
				"Market competition":    {"Differentiate offerings", "Improve customer service", "Innovate products"},
				"Regulatory compliance": {"Hire compliance experts", "Implement compliance systems", "Regular audits"},
				"Technology disruption": {"Invest in R&D", "Partner with tech companies", "Hire tech talent"},
				"Talent acquisition":    {"Improve employer brand", "Offer competitive compensation", "Develop internal talent"},
				"Financial constraints": {"Optimize operations", "Seek funding", "Improve cash flow"},
				"Supply chain issues":   {"Diversify suppliers", "Build relationships", "Implement monitoring"},
				"Customer retention":    {"Improve customer experience", "Loyalty programs", "Regular feedback"},
			}},
		}},
		Verdict: Verdict{
			Conditions: []Condition{
				{Weight: 3, When: equals("growth_rate", "Declining")},
				{Weight: 2, When: equals("market_position", "Niche player", "Emerging player")},
				{Weight: 2, When: moreThan("challenges", 3)},
			},
			Recommendations: map[model.Tier][]string{
				model.TierHigh: {
					"Immediate action required on key challenges",
					"Consider strategic partnerships or acquisitions",
					"Review and strengthen risk management processes",
				},
				model.TierMedium: {
					"Address priority challenges systematically",
					"Monitor market conditions closely",
					"Strengthen competitive positioning",
				},
				model.TierLow: {
					"Maintain current strategies",
					"Focus on growth opportunities",
					"Continue monitoring for emerging risks",
				},
			},
		},
	}
}

func investmentProfile() Profile {
	return Profile{
		Kind: model.KindInvestment,
		Fields: []FieldRule{
			{ID: "investment_type", Section: "investment_type_analysis", Key: "type",
				Interpret: lookupList("characteristics", map[string][]string{
					"Stocks":                 {"Equity ownership", "Market volatility", "Dividend potential", "Growth potential"},
					"Bonds":                  {"Fixed income", "Lower risk", "Interest payments", "Maturity dates"},
					"Real Estate":            {"Tangible asset", "Rental income", "Appreciation potential", "Illiquid"},
					"Startup/Private Equity": {"High risk", "High return potential", "Illiquid", "Long-term horizon"},
					"Commodities":            {"Inflation hedge", "Volatile", "No income", "Global factors"},
					"Cryptocurrency":         {"Digital asset", "Extremely volatile", "24/7 trading", "Regulatory uncertainty"},
				}, "Type-specific characteristics")},
			{ID: "risk_tolerance", Section: "risk_profile", Key: "tolerance",
				Interpret: lookupList("recommendations", map[string][]string{
					"Conservative": {"Focus on bonds and stable dividend stocks", "Maintain high cash reserves", "Consider annuities"},
					"Moderate":     {"Balanced portfolio of stocks and bonds", "Diversify across sectors", "Regular rebalancing"},
					"Aggressive":   {"Higher allocation to stocks", "Consider alternative investments", "Active management"},
				}, "Consult with financial advisor")},
			{ID: "market_conditions", Section: "market_analysis", Key: "conditions",
				Interpret: lookupList("strategies", map[string][]string{
					"Bear market":       {"Dollar-cost averaging", "Defensive stocks", "Bond allocation", "Cash reserves"},
					"Sideways/Volatile": {"Diversification", "Regular rebalancing", "Quality companies", "Patience"},
					"Bull market":       {"Growth stocks", "Sector rotation", "Take profits", "Monitor valuations"},
					"Uncertain":         {"Conservative approach", "Quality over quantity", "Regular monitoring", "Professional advice"},
				}, "Adapt strategy to conditions")},
			{ID: "diversification", Section: "portfolio_analysis", Key: "diversification",
				Interpret: lookupList("improvement_suggestions", map[string][]string{
					"Not diversified":      {"Start with index funds", "Add different asset classes", "Consider ETFs", "Professional guidance"},
					"Somewhat diversified": {"Add international exposure", "Include bonds", "Sector diversification", "Regular review"},
					"Well diversified":     {"Maintain current strategy", "Rebalance regularly", "Monitor correlations", "Tax optimization"},
					"Highly diversified":   {"Consider consolidation", "Focus on quality", "Reduce complexity", "Cost optimization"},
				}, "Assess current allocation")},
		},
		Verdict: Verdict{
			Conditions: []Condition{
				{Weight: 2, When: equals("risk_tolerance", "Aggressive")},
				{Weight: 2, When: equals("market_conditions", "Bear market", "Uncertain")},
				{Weight: 3, When: equals("diversification", "Not diversified")},
			},
			Recommendations: map[model.Tier][]string{
				model.TierHigh: {
					"Review risk tolerance and portfolio allocation",
					"Consider professional financial advice",
					"Implement risk management strategies",
				},
				model.TierMedium: {
					"Monitor portfolio performance regularly",
					"Consider rebalancing",
					"Stay informed about market conditions",
				},
				model.TierLow: {
					"Maintain current investment strategy",
					"Continue regular monitoring",
					"Consider new opportunities within risk parameters",
				},
			},
		},
	}
}

func projectProfile() Profile {
	return Profile{
		Kind: model.KindProject,
		Fields: []FieldRule{
			{ID: "project_size", Section: "complexity_analysis", Key: "size",
				Interpret: lookupList("management_implications", map[string][]string{
					"Small (1-3 months)":    {"Simple planning", "Minimal documentation", "Direct communication", "Quick execution"},
					"Medium (3-12 months)":  {"Detailed planning", "Regular reviews", "Team coordination", "Risk management"},
					"Large (1-3 years)":     {"Complex planning", "Multiple phases", "Stakeholder management", "Change control"},
					"Enterprise (3+ years)": {"Strategic planning", "Portfolio management", "Governance structure", "Continuous monitoring"},
				}, "Size-specific management approach")},
			{ID: "resource_availability", Section: "resource_analysis", Key: "availability",
				Interpret: lookupList("recommendations", map[string][]string{
					"Excellent": {"Optimize utilization", "Consider expansion", "Skill development", "Innovation focus"},
					"Good":      {"Maintain efficiency", "Plan for growth", "Cross-training", "Process improvement"},
					"Fair":      {"Prioritize critical needs", "Resource optimization", "External support", "Efficiency focus"},
					"Poor":      {"Critical path focus", "External resources", "Scope reduction", "Timeline adjustment"},
				}, "Assess resource needs")},
		},
		Lists: []ListRule{{
			ID: "technical_risks", Section: "risk_assessment", Key: "technical_risks",
			Actions: &ActionTable{Key: "mitigation_strategies", Default: []string{"Develop specific mitigation plan"}, Actions: map[string][]string{
				"New technology":           {"Proof of concept", "Expert consultation", "Training programs", "Fallback plans"},
				"Integration challenges":   {"API documentation", "Testing protocols", "Vendor support", "Gradual rollout"},
				"Performance requirements": {"Load testing", "Performance monitoring", "Optimization", "Scalability planning"},
				"Security concerns":        {"Security audits", "Penetration testing", "Compliance review", "Incident response"},
				"Scalability issues":       {"Architecture review", "Performance testing", "Capacity planning", "Monitoring tools"},
			}},
		}},
		Verdict: Verdict{
			Conditions: []Condition{
				{Weight: 2, When: equals("timeline_pressure", "High pressure", "Critical deadline")},
				{Weight: 2, When: equals("resource_availability", "Fair", "Poor")},
				{Weight: 2, When: moreThan("technical_risks", 2)},
			},
			Recommendations: map[model.Tier][]string{
				model.TierHigh: {
					"Immediate risk mitigation planning",
					"Consider project scope reduction",
					"Increase stakeholder communication",
				},
				model.TierMedium: {
					"Implement risk monitoring processes",
					"Regular status reviews",
					"Prepare contingency plans",
				},
				model.TierLow: {
					"Continue current project management approach",
					"Regular risk assessment",
					"Focus on optimization and efficiency",
				},
			},
		},
	}
}

func customerProfile() Profile {
	return Profile{
		Kind: model.KindCustomer,
		Fields: []FieldRule{
			{ID: "satisfaction_level", Section: "satisfaction_analysis", Key: "level",
				Interpret: lookupText("interpretation", map[string]string{
					"Very dissatisfied": "Critical issues requiring immediate attention",
					"Dissatisfied":      "Significant problems need urgent resolution",
					"Neutral":           "Room for improvement to increase satisfaction",
					"Satisfied":         "Good performance with opportunities for enhancement",
					"Very satisfied":    "Excellent performance, focus on maintaining standards",
				}, "Level-specific interpretation")},
			{ID: "loyalty_level", Section: "loyalty_analysis", Key: "level",
				Interpret: lookupList("improvement_areas", map[string][]string{
					"Not loyal":       {"Build trust", "Improve product quality", "Enhance customer service", "Loyalty programs"},
					"Somewhat loyal":  {"Strengthen relationships", "Personalized experiences", "Regular communication", "Value demonstration"},
					"Loyal":           {"Maintain standards", "Innovation", "Exclusive benefits", "Community building"},
					"Very loyal":      {"Advocacy programs", "Referral incentives", "Exclusive access", "Partnership opportunities"},
					"Extremely loyal": {"Brand ambassadors", "Co-creation opportunities", "Exclusive experiences", "Strategic partnerships"},
				}, "Assess loyalty drivers")},
		},
		Lists: []ListRule{{
			ID: "pain_points", Section: "pain_points_analysis", Key: "points",
			Priority: &PriorityTable{Key: "priority", Levels: map[string]string{
				"Product quality":       "High",
				"Customer service":      "High",
				"Pricing":               "Medium",
				"Ease of use":           "Medium",
				"Support response time": "High",
				"Documentation":         "Low",
			}},
			Actions: &ActionTable{Key: "solutions", Default: []string{"Develop specific solution"}, Actions: map[string][]string{
				"Product quality":       {"Quality assurance processes", "Customer feedback loops", "Regular testing", "Continuous improvement"},
				"Customer service":      {"Staff training", "Service standards", "Response time targets", "Customer feedback"},
				"Pricing":               {"Competitive analysis", "Value proposition", "Pricing strategy", "Customer segmentation"},
				"Ease of use":           {"User experience design", "User testing", "Interface improvements", "Documentation"},
				"Support response time": {"Support team expansion", "Automation tools", "Response time targets", "Escalation procedures"},
				"Documentation":         {"Content review", "User testing", "Regular updates", "Multiple formats"},
			}},
		}},
		Verdict: Verdict{
			Conditions: []Condition{
				{Weight: 3, When: equals("satisfaction_level", "Very dissatisfied", "Dissatisfied")},
				{Weight: 2, When: equals("loyalty_level", "Not loyal", "Somewhat loyal")},
				{Weight: 2, When: moreThan("pain_points", 3)},
			},
			Recommendations: map[model.Tier][]string{
				model.TierHigh: {
					"Immediate customer experience improvements",
					"Address critical pain points",
					"Implement customer feedback systems",
				},
				model.TierMedium: {
					"Systematic improvement planning",
					"Regular customer satisfaction monitoring",
					"Focus on high-impact improvements",
				},
				model.TierLow: {
					"Maintain current service standards",
					"Continue monitoring customer feedback",
					"Look for enhancement opportunities",
				},
			},
		},
	}
}

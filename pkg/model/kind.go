package model

import "fmt"

// Kind selects the analysis profile used for a question set.
type Kind int

const (
	KindCustom Kind = iota
	KindBusiness
	KindInvestment
	KindProject
	KindCustomer
	KindEmployee
	KindExperiment
)

var kindNames = []string{
	KindCustom:     "custom",
	KindBusiness:   "business_analysis",
	KindInvestment: "investment_analysis",
	KindProject:    "project_management",
	KindCustomer:   "customer_satisfaction",
	KindEmployee:   "employee_satisfaction",
	KindExperiment: "experiment_monitoring",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind converts a kind tag into a Kind.
func ParseKind(tag string) (Kind, error) {
	for i, name := range kindNames {
		if name == tag {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown question set kind %q", tag)
}

func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("invalid kind %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Tier is a verdict bucket for an aggregate score.
type Tier string

const (
	TierLow    Tier = "Low"
	TierMedium Tier = "Medium"
	TierHigh   Tier = "High"
)

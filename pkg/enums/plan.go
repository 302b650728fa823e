package enums

import "fmt"

// Plan identifies the subscription tier attached to an admin tenant. Members
// provisioned by the admin inherit the admin's plan.
type Plan string

const (
	PlanBasico        Plan = "basico"
	PlanIntermediario Plan = "intermediario"
	PlanPremium       Plan = "premium"
)

var validPlans = []Plan{
	PlanBasico,
	PlanIntermediario,
	PlanPremium,
}

func (p Plan) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Plan.
func (p Plan) IsValid() bool {
	for _, candidate := range validPlans {
		if candidate == p {
			return true
		}
	}
	return false
}

// MemberQuota returns the maximum number of members the plan allows.
// Zero means unlimited.
func (p Plan) MemberQuota() int {
	switch p {
	case PlanBasico:
		return 3
	case PlanIntermediario:
		return 10
	default:
		return 0
	}
}

// ParsePlan converts raw input into a Plan.
func ParsePlan(value string) (Plan, error) {
	for _, candidate := range validPlans {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid plan %q", value)
}

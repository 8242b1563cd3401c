package members

import "strings"

// Plan is a membership tier with its monthly-or-yearly price and how long
// a membership bought on it stays valid.
type Plan struct {
	Name         string
	Amount       int
	ValidityDays int
}

var planCatalog = map[string]Plan{
	"basic":    {Name: "basic", Amount: 2500, ValidityDays: 30},
	"standard": {Name: "standard", Amount: 4500, ValidityDays: 30},
	"premium":  {Name: "premium", Amount: 7500, ValidityDays: 365},
}

// LookupPlan resolves a requested plan name. Unrecognized names are not an
// error: they price at the basic rate with a one year validity, matching
// the historical fallback behavior.
func LookupPlan(name string) Plan {
	if plan, ok := planCatalog[strings.ToLower(strings.TrimSpace(name))]; ok {
		return plan
	}
	return Plan{Name: strings.ToLower(strings.TrimSpace(name)), Amount: 2500, ValidityDays: 365}
}

// PlanLabel returns the display label stored on a member, e.g. "Premium Plan".
func PlanLabel(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:] + " Plan"
}

package members

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupPlan(t *testing.T) {
	tests := []struct {
		name         string
		amount       int
		validityDays int
	}{
		{"basic", 2500, 30},
		{"standard", 4500, 30},
		{"premium", 7500, 365},
		{"PREMIUM", 7500, 365},
		{" basic ", 2500, 30},
		{"platinum", 2500, 365},
		{"", 2500, 365},
	}
	for _, tt := range tests {
		plan := LookupPlan(tt.name)
		assert.Equal(t, tt.amount, plan.Amount, "plan %q amount", tt.name)
		assert.Equal(t, tt.validityDays, plan.ValidityDays, "plan %q validity", tt.name)
	}
}

func TestPlanLabel(t *testing.T) {
	assert.Equal(t, "Basic Plan", PlanLabel("basic"))
	assert.Equal(t, "Premium Plan", PlanLabel(" PREMIUM "))
	assert.Equal(t, "", PlanLabel(""))
}

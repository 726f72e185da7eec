package domain

import "testing"

func TestParseAction(t *testing.T) {
	tests := []struct {
		input    string
		expected ActionType
	}{
		{"PLAN_MOVE", ActionPlanMove},
		{"plan_move", ActionPlanMove},
		{"Plan_Recruit", ActionPlanRecruit},
		{"SUPPOSE_DEAD", ActionSupposeDead},
		{"END_TURN", ActionEndTurn},
		{"MOVE", ActionUnknown},
		{"", ActionUnknown},
	}

	for _, tt := range tests {
		result := ParseAction(tt.input)
		if result != tt.expected {
			t.Errorf("ParseAction(%q) = %v, want %v", tt.input, result, tt.expected)
		}
	}
}

func TestActionType_String(t *testing.T) {
	tests := []struct {
		action   ActionType
		expected string
	}{
		{ActionPlanAttack, "PLAN_ATTACK"},
		{ActionExecuteNext, "EXECUTE_NEXT"},
		{ActionUnknown, "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.action.String(); got != tt.expected {
			t.Errorf("ActionType(%d).String() = %q, want %q", tt.action, got, tt.expected)
		}
	}
}

func TestActionType_MutatesQueue(t *testing.T) {
	if !ActionBump.MutatesQueue() {
		t.Error("BUMP should mutate queue")
	}
	if ActionHover.MutatesQueue() || ActionEndTurn.MutatesQueue() {
		t.Error("HOVER and END_TURN must not mutate queue")
	}
}

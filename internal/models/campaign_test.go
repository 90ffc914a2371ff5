package models

import "testing"

func TestIsValidLinkTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		{LinkStatusInvited, LinkStatusAccepted, true},
		{LinkStatusInvited, LinkStatusDeclined, true},

		{LinkStatusAccepted, LinkStatusDeclined, false},
		{LinkStatusDeclined, LinkStatusAccepted, false},
		{LinkStatusAccepted, LinkStatusInvited, false},
		{LinkStatusDeclined, LinkStatusInvited, false},
		{LinkStatusInvited, LinkStatusInvited, false},
		{"nonexistent", LinkStatusAccepted, false},
		{LinkStatusInvited, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidLinkTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidLinkTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestRespondedStatusesAreTerminal(t *testing.T) {
	for _, status := range []string{LinkStatusAccepted, LinkStatusDeclined} {
		transitions := ValidLinkTransitions[status]
		if len(transitions) != 0 {
			t.Errorf("status %q should have no transitions, got %v", status, transitions)
		}
	}
}

package models

import "testing"

func TestIsValidWithdrawalTransition(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		// Happy path
		{WithdrawalStatusPending, WithdrawalStatusApproved, true},
		{WithdrawalStatusApproved, WithdrawalStatusProcessing, true},
		{WithdrawalStatusProcessing, WithdrawalStatusCompleted, true},

		// Review outcomes
		{WithdrawalStatusPending, WithdrawalStatusRejected, true},
		{WithdrawalStatusPending, WithdrawalStatusCancelled, true},

		// Retry loop
		{WithdrawalStatusProcessing, WithdrawalStatusFailed, true},
		{WithdrawalStatusFailed, WithdrawalStatusApproved, true},
		{WithdrawalStatusFailed, WithdrawalStatusRejected, true},

		// Invalid transitions
		{WithdrawalStatusPending, WithdrawalStatusProcessing, false},
		{WithdrawalStatusPending, WithdrawalStatusCompleted, false},
		{WithdrawalStatusApproved, WithdrawalStatusCancelled, false},
		{WithdrawalStatusCompleted, WithdrawalStatusFailed, false},
		{WithdrawalStatusRejected, WithdrawalStatusApproved, false},
		{WithdrawalStatusCancelled, WithdrawalStatusPending, false},
		{WithdrawalStatusCompleted, WithdrawalStatusPending, false},
		{"nonexistent", WithdrawalStatusApproved, false},
		{WithdrawalStatusPending, "nonexistent", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			result := IsValidWithdrawalTransition(tt.from, tt.to)
			if result != tt.expected {
				t.Errorf("IsValidWithdrawalTransition(%q, %q) = %v, want %v", tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestAllWithdrawalStatusesHaveTransitionEntry(t *testing.T) {
	allStatuses := []string{
		WithdrawalStatusPending, WithdrawalStatusApproved, WithdrawalStatusProcessing,
		WithdrawalStatusCompleted, WithdrawalStatusFailed, WithdrawalStatusRejected,
		WithdrawalStatusCancelled,
	}

	for _, status := range allStatuses {
		if _, ok := ValidWithdrawalTransitions[status]; !ok {
			t.Errorf("status %q missing from ValidWithdrawalTransitions map", status)
		}
	}
}

func TestTerminalWithdrawalStatuses(t *testing.T) {
	terminal := []string{WithdrawalStatusCompleted, WithdrawalStatusRejected, WithdrawalStatusCancelled}
	for _, status := range terminal {
		transitions := ValidWithdrawalTransitions[status]
		if len(transitions) != 0 {
			t.Errorf("terminal status %q should have no transitions, got %v", status, transitions)
		}
	}
}

func TestAllowanceReached(t *testing.T) {
	tests := []struct {
		limitCount int
		count      int
		want       bool
	}{
		{0, 100, false}, // zero = unlimited
		{1, 0, false},
		{1, 1, true},
		{3, 2, false},
		{3, 3, true},
		{3, 5, true},
	}
	for _, tt := range tests {
		s := WithdrawalSettings{LimitCount: tt.limitCount, LimitDays: 1}
		if got := s.AllowanceReached(tt.count); got != tt.want {
			t.Errorf("AllowanceReached(%d) with limit %d = %v, want %v", tt.count, tt.limitCount, got, tt.want)
		}
	}
}

func TestRefundsBalance(t *testing.T) {
	if !RefundsBalance(WithdrawalStatusRejected) || !RefundsBalance(WithdrawalStatusCancelled) {
		t.Error("rejected and cancelled must refund the held amount")
	}
	if RefundsBalance(WithdrawalStatusCompleted) || RefundsBalance(WithdrawalStatusFailed) {
		t.Error("completed and failed must not refund")
	}
}

package repositories

import (
	"errors"
	"testing"

	"github.com/shrinkearn/backend/internal/models"
)

func TestTransitionGuard(t *testing.T) {
	tests := []struct {
		name    string
		current string
		from    string
		to      string
		wantErr error
	}{
		{
			name:    "clean move",
			current: models.WithdrawalStatusPending,
			from:    models.WithdrawalStatusPending,
			to:      models.WithdrawalStatusRejected,
		},
		{
			name:    "lost race to another rejecter",
			current: models.WithdrawalStatusRejected,
			from:    models.WithdrawalStatusPending,
			to:      models.WithdrawalStatusRejected,
			wantErr: ErrStatusConflict,
		},
		{
			name:    "cancel racing a reject",
			current: models.WithdrawalStatusRejected,
			from:    models.WithdrawalStatusPending,
			to:      models.WithdrawalStatusCancelled,
			wantErr: ErrStatusConflict,
		},
		{
			name:    "approve racing the expiry sweep",
			current: models.WithdrawalStatusCancelled,
			from:    models.WithdrawalStatusPending,
			to:      models.WithdrawalStatusApproved,
			wantErr: ErrStatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := transitionGuard(tt.current, tt.from, tt.to)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("transitionGuard: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransitionGuardInvalidMove(t *testing.T) {
	// Matching from-status but a move the table forbids.
	err := transitionGuard(models.WithdrawalStatusCompleted, models.WithdrawalStatusCompleted, models.WithdrawalStatusPending)
	if err == nil {
		t.Fatal("expected error for completed -> pending")
	}
	if errors.Is(err, ErrStatusConflict) {
		t.Errorf("err = %v, want a plain invalid-transition error", err)
	}
}

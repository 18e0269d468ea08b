package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shrinkearn/backend/internal/models"
)

var (
	// ErrInsufficientBalance is returned when the hold would take the
	// balance below zero.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrStatusConflict is returned when a status change loses a race:
	// the row no longer carries the status the caller decided against.
	ErrStatusConflict = errors.New("withdrawal status changed concurrently")

	// ErrAllowanceExceeded is returned when the frequency allowance for
	// the window is already used up.
	ErrAllowanceExceeded = errors.New("withdrawal allowance exceeded")
)

type WithdrawalRepo struct {
	pool *pgxpool.Pool
}

func NewWithdrawalRepo(pool *pgxpool.Pool) *WithdrawalRepo {
	return &WithdrawalRepo{pool: pool}
}

const withdrawalColumns = `id, user_id, payment_method_id, provider, account_name, account_number,
	currency, amount_usd, amount_local, rate_used, status, reject_reason, created_at, updated_at`

func scanWithdrawal(row pgx.Row) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := row.Scan(&w.ID, &w.UserID, &w.PaymentMethodID, &w.Provider, &w.AccountName, &w.AccountNumber,
		&w.Currency, &w.AmountUSD, &w.AmountLocal, &w.RateUsed, &w.Status, &w.RejectReason,
		&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// transitionGuard validates a status change against the row as it exists
// under the transaction's lock. current is the locked row's status; from is
// the status the caller observed when it decided to move. A mismatch means
// another mover got there first.
func transitionGuard(current, from, to string) error {
	if current != from {
		return fmt.Errorf("%w: now %s, expected %s", ErrStatusConflict, current, from)
	}
	if !models.IsValidWithdrawalTransition(from, to) {
		return fmt.Errorf("invalid transition from %s to %s", from, to)
	}
	return nil
}

// CreateWithHold debits the user's balance and inserts the pending
// withdrawal in one transaction. The guarded debit locks the user row,
// which serializes a user's submissions; the frequency allowance is
// counted under that lock so two concurrent submissions cannot both
// slip under the limit.
func (r *WithdrawalRepo) CreateWithHold(ctx context.Context, w *models.Withdrawal, settings models.WithdrawalSettings) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE users SET balance_usd = balance_usd - $1
		WHERE id = $2 AND balance_usd >= $1
	`, w.AmountUSD, w.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientBalance
	}

	if settings.LimitCount > 0 {
		since := time.Now().AddDate(0, 0, -settings.LimitDays)
		var count int
		err := tx.QueryRow(ctx, `
			SELECT count(*) FROM withdrawals
			WHERE user_id = $1 AND created_at >= $2 AND status NOT IN ($3, $4)
		`, w.UserID, since, models.WithdrawalStatusRejected, models.WithdrawalStatusCancelled).Scan(&count)
		if err != nil {
			return err
		}
		if settings.AllowanceReached(count) {
			return ErrAllowanceExceeded
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO withdrawals (user_id, payment_method_id, provider, account_name, account_number,
			currency, amount_usd, amount_local, rate_used, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, w.UserID, w.PaymentMethodID, w.Provider, w.AccountName, w.AccountNumber,
		w.Currency, w.AmountUSD, w.AmountLocal, w.RateUsed, w.Status).
		Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateStatusWithRefund moves a withdrawal from one status to another
// and, when the new status returns the held amount, credits it back in
// the same transaction. The transition is re-validated against the row
// read under FOR UPDATE and the write is conditional on the from-status,
// so a mover that lost a race gets ErrStatusConflict instead of a second
// refund.
func (r *WithdrawalRepo) UpdateStatusWithRefund(ctx context.Context, id uuid.UUID, from, to string, rejectReason *string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	w, err := scanWithdrawal(tx.QueryRow(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return err
	}
	if err := transitionGuard(w.Status, from, to); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE withdrawals SET status = $1, reject_reason = COALESCE($2, reject_reason), updated_at = now()
		WHERE id = $3 AND status = $4
	`, to, rejectReason, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusConflict
	}

	if models.RefundsBalance(to) {
		if _, err := tx.Exec(ctx,
			`UPDATE users SET balance_usd = balance_usd + $1 WHERE id = $2`, w.AmountUSD, w.UserID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *WithdrawalRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	return scanWithdrawal(r.pool.QueryRow(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`, id))
}

func (r *WithdrawalRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Withdrawal, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+withdrawalColumns+` FROM withdrawals
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWithdrawals(rows)
}

func (r *WithdrawalRepo) ListByStatus(ctx context.Context, status string, limit int) ([]models.Withdrawal, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+withdrawalColumns+` FROM withdrawals
		WHERE status = $1 ORDER BY created_at LIMIT $2
	`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWithdrawals(rows)
}

// ListStalePending returns pending withdrawals older than the cutoff, for
// the worker's expiry sweep.
func (r *WithdrawalRepo) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]models.Withdrawal, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+withdrawalColumns+` FROM withdrawals
		WHERE status = $1 AND created_at < $2 ORDER BY created_at LIMIT $3
	`, models.WithdrawalStatusPending, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWithdrawals(rows)
}

func collectWithdrawals(rows pgx.Rows) ([]models.Withdrawal, error) {
	var out []models.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

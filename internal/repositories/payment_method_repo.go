package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shrinkearn/backend/internal/models"
)

type PaymentMethodRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentMethodRepo(pool *pgxpool.Pool) *PaymentMethodRepo {
	return &PaymentMethodRepo{pool: pool}
}

const paymentMethodColumns = `id, user_id, provider, account_name, account_number, currency, fee_usd, is_default, created_at, updated_at`

func scanPaymentMethod(row pgx.Row) (*models.PaymentMethod, error) {
	var m models.PaymentMethod
	err := row.Scan(&m.ID, &m.UserID, &m.Provider, &m.AccountName, &m.AccountNumber,
		&m.Currency, &m.FeeUSD, &m.IsDefault, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a method; when it is flagged default the previous default
// is cleared in the same transaction.
func (r *PaymentMethodRepo) Create(ctx context.Context, m *models.PaymentMethod) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if m.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE payment_methods SET is_default = false WHERE user_id = $1`, m.UserID); err != nil {
			return err
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO payment_methods (user_id, provider, account_name, account_number, currency, fee_usd, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, m.UserID, m.Provider, m.AccountName, m.AccountNumber, m.Currency, m.FeeUSD, m.IsDefault).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PaymentMethodRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	return scanPaymentMethod(r.pool.QueryRow(ctx,
		`SELECT `+paymentMethodColumns+` FROM payment_methods WHERE id = $1`, id))
}

func (r *PaymentMethodRepo) GetDefault(ctx context.Context, userID uuid.UUID) (*models.PaymentMethod, error) {
	return scanPaymentMethod(r.pool.QueryRow(ctx,
		`SELECT `+paymentMethodColumns+` FROM payment_methods WHERE user_id = $1 AND is_default`, userID))
}

func (r *PaymentMethodRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentMethodColumns+` FROM payment_methods WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []models.PaymentMethod
	for rows.Next() {
		m, err := scanPaymentMethod(rows)
		if err != nil {
			return nil, err
		}
		methods = append(methods, *m)
	}
	return methods, nil
}

func (r *PaymentMethodRepo) SetDefault(ctx context.Context, userID, methodID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE payment_methods SET is_default = false WHERE user_id = $1`, userID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE payment_methods SET is_default = true, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`, methodID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

func (r *PaymentMethodRepo) Delete(ctx context.Context, userID, methodID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payment_methods WHERE id = $1 AND user_id = $2`, methodID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

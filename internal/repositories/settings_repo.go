package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shrinkearn/backend/internal/models"
)

// SettingsRepo stores the single global withdrawal-settings row.
type SettingsRepo struct {
	pool *pgxpool.Pool
}

func NewSettingsRepo(pool *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

func (r *SettingsRepo) Get(ctx context.Context) (models.WithdrawalSettings, error) {
	var s models.WithdrawalSettings
	err := r.pool.QueryRow(ctx, `
		SELECT min_withdrawal, max_withdrawal, limit_count, limit_days, updated_at
		FROM withdrawal_settings WHERE id = 1
	`).Scan(&s.MinWithdrawal, &s.MaxWithdrawal, &s.LimitCount, &s.LimitDays, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.DefaultWithdrawalSettings(), nil
	}
	return s, err
}

func (r *SettingsRepo) Update(ctx context.Context, s models.WithdrawalSettings) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO withdrawal_settings (id, min_withdrawal, max_withdrawal, limit_count, limit_days)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			min_withdrawal = EXCLUDED.min_withdrawal,
			max_withdrawal = EXCLUDED.max_withdrawal,
			limit_count = EXCLUDED.limit_count,
			limit_days = EXCLUDED.limit_days,
			updated_at = now()
	`, s.MinWithdrawal, s.MaxWithdrawal, s.LimitCount, s.LimitDays)
	return err
}

package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shrinkearn/backend/internal/models"
)

type AdRateRepo struct {
	pool *pgxpool.Pool
}

func NewAdRateRepo(pool *pgxpool.Pool) *AdRateRepo {
	return &AdRateRepo{pool: pool}
}

func (r *AdRateRepo) Upsert(ctx context.Context, rate *models.AdRate) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO ad_rates (level, country, cpc_usd)
		VALUES ($1, $2, $3)
		ON CONFLICT (level, country) DO UPDATE SET
			cpc_usd = EXCLUDED.cpc_usd,
			updated_at = now()
		RETURNING id, updated_at
	`, rate.Level, rate.Country, rate.CPCUSD).Scan(&rate.ID, &rate.UpdatedAt)
}

func (r *AdRateRepo) List(ctx context.Context) ([]models.AdRate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, level, country, cpc_usd, updated_at FROM ad_rates ORDER BY level, country
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []models.AdRate
	for rows.Next() {
		var a models.AdRate
		if err := rows.Scan(&a.ID, &a.Level, &a.Country, &a.CPCUSD, &a.UpdatedAt); err != nil {
			return nil, err
		}
		rates = append(rates, a)
	}
	return rates, rows.Err()
}

// GetForClick returns the country-specific rate for a level, falling back
// to the level's default row.
func (r *AdRateRepo) GetForClick(ctx context.Context, level int, country string) (*models.AdRate, error) {
	var a models.AdRate
	err := r.pool.QueryRow(ctx, `
		SELECT id, level, country, cpc_usd, updated_at FROM ad_rates
		WHERE level = $1 AND country IN ($2, '')
		ORDER BY country DESC LIMIT 1
	`, level, country).Scan(&a.ID, &a.Level, &a.Country, &a.CPCUSD, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdRateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ad_rates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

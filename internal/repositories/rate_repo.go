package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/shrinkearn/backend/internal/models"
)

type RateRepo struct {
	pool *pgxpool.Pool
}

func NewRateRepo(pool *pgxpool.Pool) *RateRepo {
	return &RateRepo{pool: pool}
}

func (r *RateRepo) Upsert(ctx context.Context, currency string, rate decimal.Decimal, source string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO exchange_rates (currency, rate, source)
		VALUES ($1, $2, $3)
		ON CONFLICT (currency) DO UPDATE SET
			rate = EXCLUDED.rate,
			source = EXCLUDED.source,
			updated_at = now()
	`, currency, rate, source)
	return err
}

func (r *RateRepo) GetAll(ctx context.Context) ([]models.ExchangeRate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT currency, rate, source, updated_at FROM exchange_rates ORDER BY currency
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []models.ExchangeRate
	for rows.Next() {
		var er models.ExchangeRate
		if err := rows.Scan(&er.Currency, &er.Rate, &er.Source, &er.UpdatedAt); err != nil {
			return nil, err
		}
		rates = append(rates, er)
	}
	return rates, rows.Err()
}

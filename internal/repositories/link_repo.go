package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shrinkearn/backend/internal/models"
)

type LinkRepo struct {
	pool *pgxpool.Pool
}

func NewLinkRepo(pool *pgxpool.Pool) *LinkRepo {
	return &LinkRepo{pool: pool}
}

const linkColumns = `id, user_id, alias, target_url, title, ad_level, status, clicks, created_at, updated_at`

func scanLink(row pgx.Row) (*models.Link, error) {
	var l models.Link
	err := row.Scan(&l.ID, &l.UserID, &l.Alias, &l.TargetURL, &l.Title, &l.AdLevel, &l.Status, &l.Clicks, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LinkRepo) Create(ctx context.Context, l *models.Link) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO links (user_id, alias, target_url, title, ad_level, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, clicks, created_at, updated_at
	`, l.UserID, l.Alias, l.TargetURL, l.Title, l.AdLevel, l.Status).Scan(&l.ID, &l.Clicks, &l.CreatedAt, &l.UpdatedAt)
}

func (r *LinkRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Link, error) {
	return scanLink(r.pool.QueryRow(ctx, `SELECT `+linkColumns+` FROM links WHERE id = $1`, id))
}

func (r *LinkRepo) GetByAlias(ctx context.Context, alias string) (*models.Link, error) {
	return scanLink(r.pool.QueryRow(ctx, `SELECT `+linkColumns+` FROM links WHERE alias = $1`, alias))
}

func (r *LinkRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Link, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+linkColumns+` FROM links WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *l)
	}
	return links, rows.Err()
}

func (r *LinkRepo) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	_, err := r.pool.Exec(ctx, `UPDATE links SET title = $1, updated_at = now() WHERE id = $2`, title, id)
	return err
}

func (r *LinkRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, `UPDATE links SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

func (r *LinkRepo) IncrementClicks(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE links SET clicks = clicks + 1 WHERE id = $1`, id)
	return err
}

func (r *LinkRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM links WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"food-rescue-marketplace/internal/domain"
	"food-rescue-marketplace/internal/domain/model"
	"food-rescue-marketplace/internal/domain/ports/repository"
)

var _ repository.OfferRepository = (*offerRepo)(nil)

type offerRepo struct {
	pool *pgxpool.Pool
}

func NewOfferRepo(pool *pgxpool.Pool) *offerRepo {
	return &offerRepo{pool: pool}
}

const offerColumns = `id, provider_id, title, description, tags, window_start, window_end, status, created_at`

func (r *offerRepo) Save(ctx context.Context, tx repository.Tx, o *model.Offer) error {
	const q = `
INSERT INTO offers (id, provider_id, title, description, tags, window_start, window_end, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  title=$3, description=$4, tags=$5, window_start=$6, window_end=$7, status=$8;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	if _, err := ex.Exec(ctx, q, o.ID, o.ProviderID, o.Title, o.Description, o.Tags,
		o.Window.Start, o.Window.End, string(o.Status), o.CreatedAt); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *offerRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Offer, error) {
	const q = `SELECT ` + offerColumns + ` FROM offers WHERE id=$1;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	return scanOffer(ex.QueryRow(ctx, q, id))
}

func (r *offerRepo) FindAvailable(ctx context.Context, tx repository.Tx) ([]*model.Offer, error) {
	const q = `SELECT ` + offerColumns + ` FROM offers WHERE status='available' ORDER BY created_at DESC;`
	return r.queryMany(ctx, tx, q)
}

func (r *offerRepo) FindByProvider(ctx context.Context, tx repository.Tx, providerID string) ([]*model.Offer, error) {
	const q = `SELECT ` + offerColumns + ` FROM offers WHERE provider_id=$1 ORDER BY created_at DESC;`
	return r.queryMany(ctx, tx, q, providerID)
}

func (r *offerRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.OfferStatus]int, error) {
	const q = `SELECT status, COUNT(*) FROM offers GROUP BY status;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	counts := make(map[model.OfferStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		counts[model.OfferStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return counts, nil
}

func (r *offerRepo) queryMany(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Offer, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q, args...)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func scanOffer(row pgx.Row) (*model.Offer, error) {
	var o model.Offer
	var status string
	err := row.Scan(&o.ID, &o.ProviderID, &o.Title, &o.Description, &o.Tags,
		&o.Window.Start, &o.Window.End, &status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	o.Status = model.OfferStatus(status)
	return &o, nil
}

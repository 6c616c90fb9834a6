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

var _ repository.PickupRepository = (*pickupRepo)(nil)

type pickupRepo struct {
	pool *pgxpool.Pool
}

func NewPickupRepo(pool *pgxpool.Pool) *pickupRepo {
	return &pickupRepo{pool: pool}
}

const pickupColumns = `id, reservation_id, pickup_code, status, created_at, completed_at`

func (r *pickupRepo) Save(ctx context.Context, tx repository.Tx, p *model.Pickup) error {
	const q = `
INSERT INTO pickups (id, reservation_id, pickup_code, status, created_at, completed_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
  status=$4, completed_at=$6;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	if _, err := ex.Exec(ctx, q, p.ID, p.ReservationID, p.Code.String(),
		string(p.Status), p.CreatedAt, p.CompletedAt); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *pickupRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Pickup, error) {
	const q = `SELECT ` + pickupColumns + ` FROM pickups WHERE id=$1;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	return scanPickup(ex.QueryRow(ctx, q, id))
}

func (r *pickupRepo) FindByReservation(ctx context.Context, tx repository.Tx, reservationID string) ([]*model.Pickup, error) {
	const q = `SELECT ` + pickupColumns + ` FROM pickups WHERE reservation_id=$1 ORDER BY created_at;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q, reservationID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Pickup
	for rows.Next() {
		p, err := scanPickup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func scanPickup(row pgx.Row) (*model.Pickup, error) {
	var p model.Pickup
	var code, status string
	err := row.Scan(&p.ID, &p.ReservationID, &code, &status, &p.CreatedAt, &p.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	parsed, err := model.ParsePickupCode(code)
	if err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	p.Code = parsed
	p.Status = model.PickupStatus(status)
	return &p, nil
}

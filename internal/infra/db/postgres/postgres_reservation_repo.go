package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"food-rescue-marketplace/internal/domain"
	"food-rescue-marketplace/internal/domain/model"
	"food-rescue-marketplace/internal/domain/ports/repository"
)

var _ repository.ReservationRepository = (*reservationRepo)(nil)

type reservationRepo struct {
	pool *pgxpool.Pool
}

func NewReservationRepo(pool *pgxpool.Pool) *reservationRepo {
	return &reservationRepo{pool: pool}
}

const reservationColumns = `id, offer_id, requester_id, pickup_code, status, created_at, completed_at, cancelled_at`

func (r *reservationRepo) Save(ctx context.Context, tx repository.Tx, res *model.Reservation) error {
	const q = `
INSERT INTO reservations (id, offer_id, requester_id, pickup_code, status, created_at, completed_at, cancelled_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  status=$5, completed_at=$7, cancelled_at=$8;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	if _, err := ex.Exec(ctx, q, res.ID, res.OfferID, res.RequesterID, res.Code.String(),
		string(res.Status), res.CreatedAt, res.CompletedAt, res.CancelledAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// reservations_active_offer_idx: the offer already has a live claim.
			return domain.ErrAlreadyExists
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *reservationRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id=$1;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	return scanReservation(ex.QueryRow(ctx, q, id))
}

func (r *reservationRepo) FindByRequester(ctx context.Context, tx repository.Tx, requesterID string) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE requester_id=$1 ORDER BY created_at DESC;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q, requesterID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *reservationRepo) CountActiveByRequester(ctx context.Context, tx repository.Tx, requesterID string) (int, error) {
	const q = `SELECT COUNT(*) FROM reservations WHERE requester_id=$1 AND status='active';`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := ex.QueryRow(ctx, q, requesterID).Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func scanReservation(row pgx.Row) (*model.Reservation, error) {
	var res model.Reservation
	var code, status string
	err := row.Scan(&res.ID, &res.OfferID, &res.RequesterID, &code, &status,
		&res.CreatedAt, &res.CompletedAt, &res.CancelledAt)
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
	res.Code = parsed
	res.Status = model.ReservationStatus(status)
	return &res, nil
}

package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/repository"
)

type confirmationRepository struct {
	db DBTX
}

func NewConfirmationRepository(db DBTX) repository.ConfirmationRepository {
	return &confirmationRepository{db: db}
}

func (r *confirmationRepository) Create(ctx context.Context, c *domain.PendingConfirmation) error {
	query := `INSERT INTO payment_confirmations (key, client_id, payment_ids, total, created_at, expires_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, c.Key, c.ClientID, int32Array(c.PaymentIDs), c.Total, c.CreatedAt, c.ExpiresAt)
	return mapError(err)
}

func (r *confirmationRepository) GetByKey(ctx context.Context, key string) (*domain.PendingConfirmation, error) {
	c := &domain.PendingConfirmation{}
	var ids pq.Int32Array
	query := `SELECT key, client_id, payment_ids, total, created_at, expires_at FROM payment_confirmations WHERE key = $1`
	err := r.db.QueryRowContext(ctx, query, key).Scan(&c.Key, &c.ClientID, &ids, &c.Total, &c.CreatedAt, &c.ExpiresAt)
	if err != nil {
		return nil, mapError(err)
	}
	c.PaymentIDs = []int32(ids)
	return c, nil
}

func (r *confirmationRepository) Delete(ctx context.Context, key string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM payment_confirmations WHERE key = $1`, key)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NotFoundf("confirmation %q", key)
	}
	return nil
}

func (r *confirmationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM payment_confirmations WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

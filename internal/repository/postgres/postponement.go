package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/logger"
	"scooter-rent-backend/internal/repository"
	"scooter-rent-backend/internal/utils"
)

type postponementRepository struct {
	db DBTX
}

func NewPostponementRepository(db DBTX) repository.PostponementRepository {
	return &postponementRepository{db: db}
}

const postponementColumns = `id, scooter_id, original_date, scheduled_date, with_fine, fine_amount, is_closed, requested_at, closed_at`

func scanPostponement(row rowScanner) (*domain.Postponement, error) {
	p := &domain.Postponement{}
	var closedAt sql.NullTime
	if err := row.Scan(&p.ID, &p.ScooterID, &p.OriginalDate, &p.RescheduledDate, &p.WithFine, &p.FineAmount, &p.IsClosed, &p.RequestedAt, &closedAt); err != nil {
		return nil, err
	}
	p.OriginalDate = utils.DateOnly(p.OriginalDate)
	p.RescheduledDate = utils.DateOnly(p.RescheduledDate)
	if closedAt.Valid {
		t := closedAt.Time
		p.ClosedAt = &t
	}
	return p, nil
}

func (r *postponementRepository) Create(ctx context.Context, p *domain.Postponement) error {
	logger.EnterMethod("postponementRepository.Create", "scooterID", p.ScooterID, "originalDate", utils.FormatDate(p.OriginalDate))

	query := `INSERT INTO payment_postpones (scooter_id, original_date, scheduled_date, with_fine, fine_amount, is_closed, requested_at)
	          VALUES ($1, $2, $3, $4, $5, FALSE, $6) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		p.ScooterID, utils.DateOnly(p.OriginalDate), utils.DateOnly(p.RescheduledDate), p.WithFine, p.FineAmount, p.RequestedAt,
	).Scan(&p.ID)
	if err != nil {
		logger.ExitMethodWithError("postponementRepository.Create", err, "scooterID", p.ScooterID)
		return mapError(err)
	}
	p.IsClosed = false

	logger.ExitMethod("postponementRepository.Create", "postponementID", p.ID)
	return nil
}

func (r *postponementRepository) GetOpenByScooter(ctx context.Context, scooterID int32) (*domain.Postponement, error) {
	query := `SELECT ` + postponementColumns + ` FROM payment_postpones WHERE scooter_id = $1 AND is_closed = FALSE`
	p, err := scanPostponement(r.db.QueryRowContext(ctx, query, scooterID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postponementRepository) ListByScooter(ctx context.Context, scooterID int32) ([]domain.Postponement, error) {
	query := `SELECT ` + postponementColumns + ` FROM payment_postpones WHERE scooter_id = $1 ORDER BY requested_at`
	return r.list(ctx, query, scooterID)
}

func (r *postponementRepository) ListOpenByScooters(ctx context.Context, scooterIDs []int32) ([]domain.Postponement, error) {
	if len(scooterIDs) == 0 {
		return []domain.Postponement{}, nil
	}
	query := `SELECT ` + postponementColumns + ` FROM payment_postpones
	          WHERE scooter_id = ANY($1) AND is_closed = FALSE ORDER BY scooter_id`
	return r.list(ctx, query, int32Array(scooterIDs))
}

func (r *postponementRepository) ListOpen(ctx context.Context) ([]domain.Postponement, error) {
	query := `SELECT ` + postponementColumns + ` FROM payment_postpones WHERE is_closed = FALSE ORDER BY scooter_id`
	return r.list(ctx, query)
}

func (r *postponementRepository) list(ctx context.Context, query string, args ...any) ([]domain.Postponement, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Postponement{}
	for rows.Next() {
		p, err := scanPostponement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *postponementRepository) Close(ctx context.Context, id int32, closedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE payment_postpones SET is_closed = TRUE, closed_at = $1 WHERE id = $2 AND is_closed = FALSE`,
		closedAt, id)
	if err != nil {
		return mapError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NotFoundf("open postponement %d", id)
	}
	return nil
}

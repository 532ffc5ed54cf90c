package postgres

import (
	"context"
	"database/sql"
	"time"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/logger"
	"scooter-rent-backend/internal/repository"
	"scooter-rent-backend/internal/utils"
)

type scooterRepository struct {
	db DBTX
}

func NewScooterRepository(db DBTX) repository.ScooterRepository {
	return &scooterRepository{db: db}
}

const scooterColumns = `id, client_id, model, vin, tariff_type, weekly_price, buyout_weeks, issue_date, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScooter(row rowScanner) (*domain.Scooter, error) {
	s := &domain.Scooter{}
	var buyout sql.NullInt32
	var issue sql.NullTime
	if err := row.Scan(&s.ID, &s.ClientID, &s.Model, &s.VIN, &s.Tariff, &s.WeeklyPrice, &buyout, &issue, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if buyout.Valid {
		s.BuyoutWeeks = buyout.Int32
	}
	if issue.Valid {
		d := utils.DateOnly(issue.Time)
		s.IssueDate = &d
	}
	return s, nil
}

func nullableBuyout(s *domain.Scooter) sql.NullInt32 {
	return sql.NullInt32{Int32: s.BuyoutWeeks, Valid: s.BuyoutWeeks > 0}
}

func nullableDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: utils.DateOnly(*t), Valid: true}
}

func (r *scooterRepository) Create(ctx context.Context, s *domain.Scooter) error {
	logger.EnterMethod("scooterRepository.Create", "clientID", s.ClientID, "tariff", s.Tariff)

	query := `INSERT INTO scooters (client_id, model, vin, tariff_type, weekly_price, buyout_weeks, issue_date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		s.ClientID, s.Model, s.VIN, s.Tariff, s.WeeklyPrice, nullableBuyout(s), nullableDate(s.IssueDate), now, now,
	).Scan(&s.ID)
	if err != nil {
		logger.ExitMethodWithError("scooterRepository.Create", err, "clientID", s.ClientID)
		return mapError(err)
	}
	s.CreatedAt, s.UpdatedAt = now, now

	logger.ExitMethod("scooterRepository.Create", "scooterID", s.ID)
	return nil
}

func (r *scooterRepository) GetByID(ctx context.Context, id int32) (*domain.Scooter, error) {
	query := `SELECT ` + scooterColumns + ` FROM scooters WHERE id = $1`
	s, err := scanScooter(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (r *scooterRepository) LockByID(ctx context.Context, id int32) (*domain.Scooter, error) {
	query := `SELECT ` + scooterColumns + ` FROM scooters WHERE id = $1 FOR UPDATE`
	logger.DatabaseCall("SELECT FOR UPDATE", "scooters", "scooterID", id)
	s, err := scanScooter(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		logger.DatabaseResult("SELECT FOR UPDATE", 0, err, "scooterID", id)
		return nil, mapError(err)
	}
	logger.DatabaseResult("SELECT FOR UPDATE", 1, nil, "scooterID", id)
	return s, nil
}

func (r *scooterRepository) Update(ctx context.Context, s *domain.Scooter) error {
	query := `UPDATE scooters SET model=$1, vin=$2, tariff_type=$3, weekly_price=$4, buyout_weeks=$5, issue_date=$6, updated_at=$7
	          WHERE id=$8`
	now := time.Now()
	result, err := r.db.ExecContext(ctx, query, s.Model, s.VIN, s.Tariff, s.WeeklyPrice, nullableBuyout(s), nullableDate(s.IssueDate), now, s.ID)
	if err != nil {
		return mapError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NotFoundf("scooter %d", s.ID)
	}
	s.UpdatedAt = now
	return nil
}

func (r *scooterRepository) ListByClient(ctx context.Context, clientID int32) ([]domain.Scooter, error) {
	query := `SELECT ` + scooterColumns + ` FROM scooters WHERE client_id = $1 ORDER BY id`
	return r.list(ctx, query, clientID)
}

func (r *scooterRepository) List(ctx context.Context) ([]domain.Scooter, error) {
	return r.list(ctx, `SELECT `+scooterColumns+` FROM scooters ORDER BY client_id, id`)
}

func (r *scooterRepository) list(ctx context.Context, query string, args ...any) ([]domain.Scooter, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scooters []domain.Scooter
	for rows.Next() {
		s, err := scanScooter(rows)
		if err != nil {
			return nil, err
		}
		scooters = append(scooters, *s)
	}
	return scooters, rows.Err()
}

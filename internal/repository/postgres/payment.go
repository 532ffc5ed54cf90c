package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/logger"
	"scooter-rent-backend/internal/repository"
	"scooter-rent-backend/internal/utils"
)

type paymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `p.id, p.scooter_id, p.payment_date, p.amount, p.is_paid, p.paid_at`

func scanPayment(row rowScanner, extra ...any) (domain.Payment, error) {
	var p domain.Payment
	var paidAt sql.NullTime
	dest := append([]any{&p.ID, &p.ScooterID, &p.DueDate, &p.Amount, &p.IsPaid, &paidAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return p, err
	}
	p.DueDate = utils.DateOnly(p.DueDate)
	if paidAt.Valid {
		t := paidAt.Time
		p.PaidAt = &t
	}
	return p, nil
}

func (r *paymentRepository) listPayments(ctx context.Context, query string, args ...any) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) ListByScooter(ctx context.Context, scooterID int32) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments p WHERE p.scooter_id = $1 ORDER BY p.payment_date`
	return r.listPayments(ctx, query, scooterID)
}

func (r *paymentRepository) ListByClient(ctx context.Context, clientID int32) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments p
	          JOIN scooters s ON s.id = p.scooter_id
	          WHERE s.client_id = $1
	          ORDER BY p.payment_date, p.scooter_id`
	return r.listPayments(ctx, query, clientID)
}

func (r *paymentRepository) ListByIDs(ctx context.Context, ids []int32) ([]domain.Payment, error) {
	if len(ids) == 0 {
		return []domain.Payment{}, nil
	}
	query := `SELECT ` + paymentColumns + ` FROM payments p WHERE p.id = ANY($1) ORDER BY p.payment_date, p.scooter_id`
	return r.listPayments(ctx, query, int32Array(ids))
}

const scooterPaymentQuery = `SELECT ` + paymentColumns + `,
	       s.client_id, s.model, s.vin, s.tariff_type, s.weekly_price,
	       c.telegram_id, c.full_name, c.phone, c.username
	FROM payments p
	JOIN scooters s ON s.id = p.scooter_id
	JOIN clients c ON c.id = s.client_id`

func (r *paymentRepository) listScooterPayments(ctx context.Context, query string, args ...any) ([]domain.ScooterPayment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ScooterPayment{}
	for rows.Next() {
		var sp domain.ScooterPayment
		p, err := scanPayment(rows,
			&sp.Scooter.ClientID, &sp.Scooter.Model, &sp.Scooter.VIN, &sp.Scooter.Tariff, &sp.Scooter.WeeklyPrice,
			&sp.Client.TelegramID, &sp.Client.FullName, &sp.Client.Phone, &sp.Client.Username,
		)
		if err != nil {
			return nil, err
		}
		sp.Payment = p
		sp.Scooter.ID = p.ScooterID
		sp.Client.ID = sp.Scooter.ClientID
		out = append(out, sp)
	}
	return out, rows.Err()
}

func (r *paymentRepository) ListUnpaidByDates(ctx context.Context, dates []time.Time) ([]domain.ScooterPayment, error) {
	if len(dates) == 0 {
		return []domain.ScooterPayment{}, nil
	}
	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = utils.FormatDate(d)
	}
	query := scooterPaymentQuery + `
	WHERE p.payment_date = ANY($1::date[]) AND p.is_paid = FALSE
	ORDER BY p.payment_date, c.full_name`
	return r.listScooterPayments(ctx, query, pq.StringArray(keys))
}

func (r *paymentRepository) ListUnpaidDueBy(ctx context.Context, date time.Time) ([]domain.ScooterPayment, error) {
	query := scooterPaymentQuery + `
	WHERE p.payment_date <= $1 AND p.is_paid = FALSE
	ORDER BY c.id, p.payment_date, p.scooter_id`
	return r.listScooterPayments(ctx, query, utils.DateOnly(date))
}

func (r *paymentRepository) ListAll(ctx context.Context) ([]domain.ScooterPayment, error) {
	query := scooterPaymentQuery + `
	ORDER BY c.full_name, c.id, p.scooter_id, p.payment_date`
	return r.listScooterPayments(ctx, query)
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (scooter_id, payment_date, amount, is_paid, paid_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var paidAt sql.NullTime
	if p.PaidAt != nil {
		paidAt = sql.NullTime{Time: *p.PaidAt, Valid: true}
	}
	err := r.db.QueryRowContext(ctx, query, p.ScooterID, utils.DateOnly(p.DueDate), p.Amount, p.IsPaid, paidAt).Scan(&p.ID)
	return mapError(err)
}

func (r *paymentRepository) InsertBatch(ctx context.Context, payments []domain.NewPayment) (int64, error) {
	if len(payments) == 0 {
		return 0, nil
	}
	logger.EnterMethod("paymentRepository.InsertBatch", "count", len(payments), "scooterID", payments[0].ScooterID)

	var sb strings.Builder
	sb.WriteString(`INSERT INTO payments (scooter_id, payment_date, amount, is_paid) VALUES `)
	args := make([]any, 0, len(payments)*3)
	for i, p := range payments {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := len(args)
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, FALSE)", n+1, n+2, n+3))
		args = append(args, p.ScooterID, utils.DateOnly(p.DueDate), p.Amount)
	}
	sb.WriteString(` ON CONFLICT (scooter_id, payment_date) DO NOTHING`)

	logger.DatabaseCall("INSERT", "payments", "rows", len(payments))
	result, err := r.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err)
		logger.ExitMethodWithError("paymentRepository.InsertBatch", err)
		return 0, mapError(err)
	}
	n, err := result.RowsAffected()
	logger.DatabaseResult("INSERT", n, err)
	logger.ExitMethod("paymentRepository.InsertBatch", "inserted", n)
	return n, err
}

func (r *paymentRepository) DeleteUnpaid(ctx context.Context, scooterID int32, ids []int32) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `DELETE FROM payments WHERE scooter_id = $1 AND id = ANY($2) AND is_paid = FALSE`
	logger.DatabaseCall("DELETE", "payments", "scooterID", scooterID, "count", len(ids))
	result, err := r.db.ExecContext(ctx, query, scooterID, int32Array(ids))
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return 0, mapError(err)
	}
	n, err := result.RowsAffected()
	logger.DatabaseResult("DELETE", n, err)
	return n, err
}

func (r *paymentRepository) UpdateAmount(ctx context.Context, id int32, amount int32) error {
	result, err := r.db.ExecContext(ctx, `UPDATE payments SET amount = $1 WHERE id = $2`, amount, id)
	if err != nil {
		return mapError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NotFoundf("payment %d", id)
	}
	return nil
}

func (r *paymentRepository) MarkPaid(ctx context.Context, ids []int32, paidAt time.Time) ([]domain.Payment, error) {
	if len(ids) == 0 {
		return []domain.Payment{}, nil
	}
	query := `UPDATE payments p SET is_paid = TRUE, paid_at = $1
	          WHERE p.id = ANY($2) AND p.is_paid = FALSE AND p.amount > 0
	          RETURNING ` + paymentColumns
	logger.DatabaseCall("UPDATE", "payments", "count", len(ids))
	payments, err := r.listPayments(ctx, query, paidAt, int32Array(ids))
	logger.DatabaseResult("UPDATE", int64(len(payments)), err)
	if err != nil {
		return nil, mapError(err)
	}
	return payments, nil
}

package repository

import (
	"context"
	"time"

	"scooter-rent-backend/internal/domain"
)

type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id int32) (*domain.Client, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
}

type ScooterRepository interface {
	Create(ctx context.Context, scooter *domain.Scooter) error
	GetByID(ctx context.Context, id int32) (*domain.Scooter, error)
	// LockByID loads the scooter and holds a row lock until the surrounding
	// transaction ends. All schedule mutations of a scooter go through it.
	LockByID(ctx context.Context, id int32) (*domain.Scooter, error)
	Update(ctx context.Context, scooter *domain.Scooter) error
	ListByClient(ctx context.Context, clientID int32) ([]domain.Scooter, error)
	List(ctx context.Context) ([]domain.Scooter, error)
}

type PaymentRepository interface {
	ListByScooter(ctx context.Context, scooterID int32) ([]domain.Payment, error)
	ListByClient(ctx context.Context, clientID int32) ([]domain.Payment, error)
	ListByIDs(ctx context.Context, ids []int32) ([]domain.Payment, error)
	ListUnpaidByDates(ctx context.Context, dates []time.Time) ([]domain.ScooterPayment, error)
	ListUnpaidDueBy(ctx context.Context, date time.Time) ([]domain.ScooterPayment, error)
	ListAll(ctx context.Context) ([]domain.ScooterPayment, error)

	Create(ctx context.Context, payment *domain.Payment) error
	// InsertBatch inserts payments, skipping any (scooter, date) that already exists.
	InsertBatch(ctx context.Context, payments []domain.NewPayment) (int64, error)
	DeleteUnpaid(ctx context.Context, scooterID int32, ids []int32) (int64, error)
	UpdateAmount(ctx context.Context, id int32, amount int32) error
	// MarkPaid marks unpaid payments with a positive amount as paid and
	// returns the ones it changed.
	MarkPaid(ctx context.Context, ids []int32, paidAt time.Time) ([]domain.Payment, error)
}

type PostponementRepository interface {
	Create(ctx context.Context, p *domain.Postponement) error
	// GetOpenByScooter returns nil without error when the scooter has no
	// open postponement.
	GetOpenByScooter(ctx context.Context, scooterID int32) (*domain.Postponement, error)
	ListByScooter(ctx context.Context, scooterID int32) ([]domain.Postponement, error)
	ListOpenByScooters(ctx context.Context, scooterIDs []int32) ([]domain.Postponement, error)
	ListOpen(ctx context.Context) ([]domain.Postponement, error)
	Close(ctx context.Context, id int32, closedAt time.Time) error
}

type ConfirmationRepository interface {
	Create(ctx context.Context, c *domain.PendingConfirmation) error
	GetByKey(ctx context.Context, key string) (*domain.PendingConfirmation, error)
	Delete(ctx context.Context, key string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	Exists(ctx context.Context, chatID int64, kind domain.ReminderKind, forDate time.Time) (bool, error)
	ListByClient(ctx context.Context, clientID int32, limit int32) ([]domain.Notification, error)
}

// Repositories is the set of repositories bound to one connection or
// transaction.
type Repositories struct {
	Clients       ClientRepository
	Scooters      ScooterRepository
	Payments      PaymentRepository
	Postponements PostponementRepository
	Confirmations ConfirmationRepository
	Notifications NotificationRepository
}

// UnitOfWork runs fn inside a single transaction. fn's repositories are bound
// to that transaction; returning an error rolls everything back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(r Repositories) error) error
	// View runs fn in a read-only transaction over a single snapshot.
	View(ctx context.Context, fn func(r Repositories) error) error
}

package service

import (
	"context"
	"time"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/utils"
)

type ClientService interface {
	CreateClient(ctx context.Context, client *domain.Client) error
	GetClient(ctx context.Context, id int32) (*domain.Client, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
}

type ScheduleService interface {
	CreateContract(ctx context.Context, scooter *domain.Scooter) ([]domain.Payment, error)
	UpdateScooter(ctx context.Context, id int32, update domain.ScooterUpdate) (*domain.Scooter, []domain.Payment, error)
	GenerateSchedule(anchor time.Time, weeks int) ([]time.Time, error)
	RefreshSchedule(ctx context.Context, scooterID int32, totalWeeks int, price int32) ([]domain.Payment, error)
	// RefreshFromContract refreshes using the scooter's own term and price.
	RefreshFromContract(ctx context.Context, scooterID int32) ([]domain.Payment, error)
	ExtendSchedule(ctx context.Context, scooterID int32, weeks int) ([]domain.Payment, error)
	ListPayments(ctx context.Context, scooterID int32) ([]domain.Payment, error)
	ClassifyScooter(ctx context.Context, scooterID int32, today time.Time) (domain.Classification, error)
	ClassifyClient(ctx context.Context, clientID int32, today time.Time) (domain.Classification, error)
	UnpaidDashboard(ctx context.Context, today time.Time) (*domain.UnpaidDashboard, error)
}

type PostponementService interface {
	Request(ctx context.Context, scooterID int32, originalDate, requestedAt time.Time) (domain.PostponementResult, error)
	Preview(ctx context.Context, scooterID int32, originalDate, requestedAt time.Time) (domain.PostponementResult, error)
	CloseIfBothPaid(ctx context.Context, scooterID int32) (bool, error)
	AdministrativeClose(ctx context.Context, scooterID int32, date time.Time) (*domain.Postponement, error)
	Active(ctx context.Context, scooterID int32) (*domain.Postponement, error)
	HasOpen(ctx context.Context, scooterID int32) (bool, error)
	PostponedDateSets(ctx context.Context, clientID int32) (domain.PostponedDates, error)
	// ReconcileAll runs CloseIfBothPaid for every scooter with an open
	// postponement and returns how many were closed.
	ReconcileAll(ctx context.Context) (int, error)
}

type PaymentService interface {
	MarkPaid(ctx context.Context, paymentIDs []int32) (*domain.MarkPaidResult, error)
	QuoteWeeks(ctx context.Context, clientID int32, today time.Time, weeks int) (domain.Quote, error)
	QuoteOverdue(ctx context.Context, clientID int32, today time.Time) (domain.Quote, error)
	QuotePostponed(ctx context.Context, clientID int32, today time.Time) (domain.Quote, error)
}

type ConfirmationService interface {
	Create(ctx context.Context, clientID int32, paymentIDs []int32) (*domain.PendingConfirmation, error)
	Confirm(ctx context.Context, key string) (*domain.MarkPaidResult, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error) // access token, expiry
}

// Notifier delivers a text message to a chat.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Settings are the schedule rules shared by the services.
type Settings struct {
	DefaultWeeks    int
	Fines           utils.FineSchedule
	ConfirmationTTL time.Duration
	Location        *time.Location
	AdminChatIDs    []int64
	Now             func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// today is the calendar date of t in the business time zone.
func (s Settings) today(t time.Time) time.Time {
	return utils.Today(t, s.Location)
}

func (s Settings) defaultWeeks() int {
	if s.DefaultWeeks > 0 {
		return s.DefaultWeeks
	}
	return 10
}

// resolveToday returns today as a date, defaulting to the current date.
func (s Settings) resolveToday(today time.Time) time.Time {
	if today.IsZero() {
		return s.today(s.now())
	}
	return utils.DateOnly(today)
}

type ReminderService interface {
	SendDueToday(ctx context.Context, today time.Time) (int, error)
	SendOverdue(ctx context.Context, today time.Time) (int, error)
	SendPostponed(ctx context.Context, today time.Time) (int, error)
}

type ExportService interface {
	// ExportSchedules renders every schedule as an xlsx workbook.
	ExportSchedules(ctx context.Context, today time.Time) ([]byte, error)
}

package http

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"scooter-rent-backend/internal/domain"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) CreateClient(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}
func (m *MockClientService) GetClient(ctx context.Context, id int32) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Client), args.Error(1)
}

type MockScheduleService struct {
	mock.Mock
}

func (m *MockScheduleService) CreateContract(ctx context.Context, scooter *domain.Scooter) ([]domain.Payment, error) {
	args := m.Called(ctx, scooter)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockScheduleService) UpdateScooter(ctx context.Context, id int32, update domain.ScooterUpdate) (*domain.Scooter, []domain.Payment, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Scooter), args.Get(1).([]domain.Payment), args.Error(2)
}
func (m *MockScheduleService) GenerateSchedule(anchor time.Time, weeks int) ([]time.Time, error) {
	args := m.Called(anchor, weeks)
	return args.Get(0).([]time.Time), args.Error(1)
}
func (m *MockScheduleService) RefreshSchedule(ctx context.Context, scooterID int32, totalWeeks int, price int32) ([]domain.Payment, error) {
	args := m.Called(ctx, scooterID, totalWeeks, price)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockScheduleService) RefreshFromContract(ctx context.Context, scooterID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, scooterID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockScheduleService) ExtendSchedule(ctx context.Context, scooterID int32, weeks int) ([]domain.Payment, error) {
	args := m.Called(ctx, scooterID, weeks)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockScheduleService) ListPayments(ctx context.Context, scooterID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, scooterID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockScheduleService) ClassifyScooter(ctx context.Context, scooterID int32, today time.Time) (domain.Classification, error) {
	args := m.Called(ctx, scooterID, today)
	return args.Get(0).(domain.Classification), args.Error(1)
}
func (m *MockScheduleService) ClassifyClient(ctx context.Context, clientID int32, today time.Time) (domain.Classification, error) {
	args := m.Called(ctx, clientID, today)
	return args.Get(0).(domain.Classification), args.Error(1)
}
func (m *MockScheduleService) UnpaidDashboard(ctx context.Context, today time.Time) (*domain.UnpaidDashboard, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UnpaidDashboard), args.Error(1)
}

type MockPostponementService struct {
	mock.Mock
}

func (m *MockPostponementService) Request(ctx context.Context, scooterID int32, originalDate, requestedAt time.Time) (domain.PostponementResult, error) {
	args := m.Called(ctx, scooterID, originalDate, requestedAt)
	return args.Get(0).(domain.PostponementResult), args.Error(1)
}
func (m *MockPostponementService) Preview(ctx context.Context, scooterID int32, originalDate, requestedAt time.Time) (domain.PostponementResult, error) {
	args := m.Called(ctx, scooterID, originalDate, requestedAt)
	return args.Get(0).(domain.PostponementResult), args.Error(1)
}
func (m *MockPostponementService) CloseIfBothPaid(ctx context.Context, scooterID int32) (bool, error) {
	args := m.Called(ctx, scooterID)
	return args.Bool(0), args.Error(1)
}
func (m *MockPostponementService) AdministrativeClose(ctx context.Context, scooterID int32, date time.Time) (*domain.Postponement, error) {
	args := m.Called(ctx, scooterID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Postponement), args.Error(1)
}
func (m *MockPostponementService) Active(ctx context.Context, scooterID int32) (*domain.Postponement, error) {
	args := m.Called(ctx, scooterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Postponement), args.Error(1)
}
func (m *MockPostponementService) HasOpen(ctx context.Context, scooterID int32) (bool, error) {
	args := m.Called(ctx, scooterID)
	return args.Bool(0), args.Error(1)
}
func (m *MockPostponementService) PostponedDateSets(ctx context.Context, clientID int32) (domain.PostponedDates, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(domain.PostponedDates), args.Error(1)
}
func (m *MockPostponementService) ReconcileAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) MarkPaid(ctx context.Context, paymentIDs []int32) (*domain.MarkPaidResult, error) {
	args := m.Called(ctx, paymentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MarkPaidResult), args.Error(1)
}
func (m *MockPaymentService) QuoteWeeks(ctx context.Context, clientID int32, today time.Time, weeks int) (domain.Quote, error) {
	args := m.Called(ctx, clientID, today, weeks)
	return args.Get(0).(domain.Quote), args.Error(1)
}
func (m *MockPaymentService) QuoteOverdue(ctx context.Context, clientID int32, today time.Time) (domain.Quote, error) {
	args := m.Called(ctx, clientID, today)
	return args.Get(0).(domain.Quote), args.Error(1)
}
func (m *MockPaymentService) QuotePostponed(ctx context.Context, clientID int32, today time.Time) (domain.Quote, error) {
	args := m.Called(ctx, clientID, today)
	return args.Get(0).(domain.Quote), args.Error(1)
}

type MockConfirmationService struct {
	mock.Mock
}

func (m *MockConfirmationService) Create(ctx context.Context, clientID int32, paymentIDs []int32) (*domain.PendingConfirmation, error) {
	args := m.Called(ctx, clientID, paymentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingConfirmation), args.Error(1)
}
func (m *MockConfirmationService) Confirm(ctx context.Context, key string) (*domain.MarkPaidResult, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MarkPaidResult), args.Error(1)
}
func (m *MockConfirmationService) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportSchedules(ctx context.Context, today time.Time) ([]byte, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

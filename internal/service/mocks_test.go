package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/repository"
)

// fakeUoW runs fn directly against the mock repositories.
type fakeUoW struct {
	repos repository.Repositories
	calls int
}

func (u *fakeUoW) Do(ctx context.Context, fn func(r repository.Repositories) error) error {
	u.calls++
	return fn(u.repos)
}

func (u *fakeUoW) View(ctx context.Context, fn func(r repository.Repositories) error) error {
	u.calls++
	return fn(u.repos)
}

type mocks struct {
	clients       *MockClientRepo
	scooters      *MockScooterRepo
	payments      *MockPaymentRepo
	postponements *MockPostponementRepo
	confirmations *MockConfirmationRepo
	notifications *MockNotificationRepo
	uow           *fakeUoW
}

func newMocks() *mocks {
	m := &mocks{
		clients:       new(MockClientRepo),
		scooters:      new(MockScooterRepo),
		payments:      new(MockPaymentRepo),
		postponements: new(MockPostponementRepo),
		confirmations: new(MockConfirmationRepo),
		notifications: new(MockNotificationRepo),
	}
	m.uow = &fakeUoW{repos: repository.Repositories{
		Clients:       m.clients,
		Scooters:      m.scooters,
		Payments:      m.payments,
		Postponements: m.postponements,
		Confirmations: m.confirmations,
		Notifications: m.notifications,
	}}
	return m
}

func (m *mocks) assertExpectations(t mock.TestingT) {
	m.clients.AssertExpectations(t)
	m.scooters.AssertExpectations(t)
	m.payments.AssertExpectations(t)
	m.postponements.AssertExpectations(t)
	m.confirmations.AssertExpectations(t)
	m.notifications.AssertExpectations(t)
}

// MockClientRepo
type MockClientRepo struct {
	mock.Mock
}

func (m *MockClientRepo) Create(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}
func (m *MockClientRepo) GetByID(ctx context.Context, id int32) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.Client, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientRepo) List(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Client), args.Error(1)
}

// MockScooterRepo
type MockScooterRepo struct {
	mock.Mock
}

func (m *MockScooterRepo) Create(ctx context.Context, scooter *domain.Scooter) error {
	args := m.Called(ctx, scooter)
	return args.Error(0)
}
func (m *MockScooterRepo) GetByID(ctx context.Context, id int32) (*domain.Scooter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scooter), args.Error(1)
}
func (m *MockScooterRepo) LockByID(ctx context.Context, id int32) (*domain.Scooter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scooter), args.Error(1)
}
func (m *MockScooterRepo) Update(ctx context.Context, scooter *domain.Scooter) error {
	args := m.Called(ctx, scooter)
	return args.Error(0)
}
func (m *MockScooterRepo) ListByClient(ctx context.Context, clientID int32) ([]domain.Scooter, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]domain.Scooter), args.Error(1)
}
func (m *MockScooterRepo) List(ctx context.Context) ([]domain.Scooter, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Scooter), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) ListByScooter(ctx context.Context, scooterID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, scooterID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ListByClient(ctx context.Context, clientID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ListByIDs(ctx context.Context, ids []int32) ([]domain.Payment, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ListUnpaidByDates(ctx context.Context, dates []time.Time) ([]domain.ScooterPayment, error) {
	args := m.Called(ctx, dates)
	return args.Get(0).([]domain.ScooterPayment), args.Error(1)
}
func (m *MockPaymentRepo) ListUnpaidDueBy(ctx context.Context, date time.Time) ([]domain.ScooterPayment, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.ScooterPayment), args.Error(1)
}
func (m *MockPaymentRepo) ListAll(ctx context.Context) ([]domain.ScooterPayment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ScooterPayment), args.Error(1)
}
func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}
func (m *MockPaymentRepo) InsertBatch(ctx context.Context, payments []domain.NewPayment) (int64, error) {
	args := m.Called(ctx, payments)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockPaymentRepo) DeleteUnpaid(ctx context.Context, scooterID int32, ids []int32) (int64, error) {
	args := m.Called(ctx, scooterID, ids)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockPaymentRepo) UpdateAmount(ctx context.Context, id int32, amount int32) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}
func (m *MockPaymentRepo) MarkPaid(ctx context.Context, ids []int32, paidAt time.Time) ([]domain.Payment, error) {
	args := m.Called(ctx, ids, paidAt)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// MockPostponementRepo
type MockPostponementRepo struct {
	mock.Mock
}

func (m *MockPostponementRepo) Create(ctx context.Context, p *domain.Postponement) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPostponementRepo) GetOpenByScooter(ctx context.Context, scooterID int32) (*domain.Postponement, error) {
	args := m.Called(ctx, scooterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Postponement), args.Error(1)
}
func (m *MockPostponementRepo) ListByScooter(ctx context.Context, scooterID int32) ([]domain.Postponement, error) {
	args := m.Called(ctx, scooterID)
	return args.Get(0).([]domain.Postponement), args.Error(1)
}
func (m *MockPostponementRepo) ListOpenByScooters(ctx context.Context, scooterIDs []int32) ([]domain.Postponement, error) {
	args := m.Called(ctx, scooterIDs)
	return args.Get(0).([]domain.Postponement), args.Error(1)
}
func (m *MockPostponementRepo) ListOpen(ctx context.Context) ([]domain.Postponement, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Postponement), args.Error(1)
}
func (m *MockPostponementRepo) Close(ctx context.Context, id int32, closedAt time.Time) error {
	args := m.Called(ctx, id, closedAt)
	return args.Error(0)
}

// MockConfirmationRepo
type MockConfirmationRepo struct {
	mock.Mock
}

func (m *MockConfirmationRepo) Create(ctx context.Context, c *domain.PendingConfirmation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockConfirmationRepo) GetByKey(ctx context.Context, key string) (*domain.PendingConfirmation, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingConfirmation), args.Error(1)
}
func (m *MockConfirmationRepo) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
func (m *MockConfirmationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *MockNotificationRepo) Exists(ctx context.Context, chatID int64, kind domain.ReminderKind, forDate time.Time) (bool, error) {
	args := m.Called(ctx, chatID, kind, forDate)
	return args.Bool(0), args.Error(1)
}
func (m *MockNotificationRepo) ListByClient(ctx context.Context, clientID int32, limit int32) ([]domain.Notification, error) {
	args := m.Called(ctx, clientID, limit)
	return args.Get(0).([]domain.Notification), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

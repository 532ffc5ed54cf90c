package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/service"
)

func TestPostponementService_Request(t *testing.T) {
	ctx := context.Background()
	requestedAt := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC) // Wednesday
	scooter := &domain.Scooter{ID: 10, ClientID: 1, Model: "Kugoo", VIN: "VIN1", Tariff: domain.TariffSingleBattery, WeeklyPrice: 2000}

	t.Run("WednesdayRequest", func(t *testing.T) {
		m := newMocks()
		notifier := new(MockNotifier)
		settings := testSettings()
		settings.AdminChatIDs = []int64{555}
		svc := service.NewPostponementService(m.uow, notifier, m.notifications, settings)

		payments := []domain.Payment{
			{ID: 1, ScooterID: 10, DueDate: date(2025, 3, 7), Amount: 2000},
			{ID: 2, ScooterID: 10, DueDate: date(2025, 3, 14), Amount: 2000},
		}
		m.scooters.On("LockByID", ctx, int32(10)).Return(scooter, nil).Once()
		m.payments.On("ListByScooter", ctx, int32(10)).Return(payments, nil).Once()
		m.postponements.On("GetOpenByScooter", ctx, int32(10)).Return(nil, nil).Once()
		m.postponements.On("Create", ctx, mock.MatchedBy(func(p *domain.Postponement) bool {
			return p.OriginalDate.Equal(date(2025, 3, 7)) &&
				p.RescheduledDate.Equal(date(2025, 3, 14)) &&
				p.WithFine && p.FineAmount == 1000
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Postponement).ID = 7
		}).Return(nil).Once()
		m.payments.On("UpdateAmount", ctx, int32(2), int32(5000)).Return(nil).Once()
		notifier.On("Send", ctx, int64(555), mock.AnythingOfType("string")).Return(nil).Once()
		m.notifications.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.Kind == domain.ReminderPostponeAdmin && n.ChatID == 555 && n.Attributes["postponement_id"] == "7"
		})).Return(nil).Once()

		result, err := svc.Request(ctx, 10, date(2025, 3, 7), requestedAt)
		require.NoError(t, err)
		assert.Equal(t, date(2025, 3, 14), result.RescheduledDate)
		assert.Equal(t, int32(1000), result.Fine)
		assert.Equal(t, int32(5000), result.Amount)
		assert.Equal(t, int32(7), result.Postponement.ID)
		m.assertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("CreatesMissingRescheduledPayment", func(t *testing.T) {
		m := newMocks()
		svc := service.NewPostponementService(m.uow, new(MockNotifier), m.notifications, testSettings())

		friday := time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)
		m.scooters.On("LockByID", ctx, int32(10)).Return(scooter, nil).Once()
		m.payments.On("ListByScooter", ctx, int32(10)).Return([]domain.Payment{
			{ID: 1, ScooterID: 10, DueDate: date(2025, 3, 7), Amount: 2000},
		}, nil).Once()
		m.postponements.On("GetOpenByScooter", ctx, int32(10)).Return(nil, nil).Once()
		m.postponements.On("Create", ctx, mock.AnythingOfType("*domain.Postponement")).Return(nil).Once()
		m.payments.On("Create", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.ScooterID == 10 && p.DueDate.Equal(date(2025, 3, 14)) && p.Amount == 5500
		})).Return(nil).Once()

		result, err := svc.Request(ctx, 10, date(2025, 3, 7), friday)
		require.NoError(t, err)
		assert.Equal(t, int32(1500), result.Fine)
		m.assertExpectations(t)
	})

	t.Run("SecondRequestWhileOpen", func(t *testing.T) {
		m := newMocks()
		svc := service.NewPostponementService(m.uow, new(MockNotifier), m.notifications, testSettings())

		open := &domain.Postponement{ID: 7, ScooterID: 10, OriginalDate: date(2025, 3, 7), RescheduledDate: date(2025, 3, 14)}
		m.scooters.On("LockByID", ctx, int32(10)).Return(scooter, nil).Once()
		m.payments.On("ListByScooter", ctx, int32(10)).Return([]domain.Payment{
			{ID: 2, ScooterID: 10, DueDate: date(2025, 3, 14), Amount: 5000},
			{ID: 3, ScooterID: 10, DueDate: date(2025, 3, 21), Amount: 2000},
		}, nil).Once()
		m.postponements.On("GetOpenByScooter", ctx, int32(10)).Return(open, nil).Once()

		_, err := svc.Request(ctx, 10, date(2025, 3, 21), requestedAt)
		assert.ErrorIs(t, err, domain.ErrPostponementActive)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
		m.postponements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		m.payments.AssertNotCalled(t, "UpdateAmount", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NotFriday", func(t *testing.T) {
		m := newMocks()
		svc := service.NewPostponementService(m.uow, new(MockNotifier), m.notifications, testSettings())

		m.scooters.On("LockByID", ctx, int32(10)).Return(scooter, nil).Once()
		m.payments.On("ListByScooter", ctx, int32(10)).Return([]domain.Payment{}, nil).Once()
		m.postponements.On("GetOpenByScooter", ctx, int32(10)).Return(nil, nil).Once()

		_, err := svc.Request(ctx, 10, date(2025, 3, 6), requestedAt)
		assert.ErrorIs(t, err, domain.ErrNotFriday)
	})

	t.Run("OnlyNextUnpaidPayment", func(t *testing.T) {
		m := newMocks()
		svc := service.NewPostponementService(m.uow, new(MockNotifier), m.notifications, testSettings())

		m.scooters.On("LockByID", ctx, int32(10)).Return(scooter, nil).Once()
		m.payments.On("ListByScooter", ctx, int32(10)).Return([]domain.Payment{
			{ID: 1, ScooterID: 10, DueDate: date(2025, 2, 28), Amount: 2000},
			{ID: 2, ScooterID: 10, DueDate: date(2025, 3, 7), Amount: 2000},
			{ID: 3, ScooterID: 10, DueDate: date(2025, 3, 14), Amount: 2000},
		}, nil).Once()
		m.postponements.On("GetOpenByScooter", ctx, int32(10)).Return(nil, nil).Once()

		_, err := svc.Request(ctx, 10, date(2025, 3, 7), requestedAt)
		assert.ErrorIs(t, err, domain.ErrValidation)
		m.postponements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		m.payments.AssertNotCalled(t, "UpdateAmount", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NotifierFailureDoesNotFailRequest", func(t *testing.T) {
		m := newMocks()
		notifier := new(MockNotifier)
		settings := testSettings()
		settings.AdminChatIDs = []int64{555}
		svc := service.NewPostponementService(m.uow, notifier, m.notifications, settings)

		m.scooters.On("LockByID", ctx, int32(10)).Return(scooter, nil).Once()
		m.payments.On("ListByScooter", ctx, int32(10)).Return([]domain.Payment{
			{ID: 1, ScooterID: 10, DueDate: date(2025, 3, 7), Amount: 2000},
			{ID: 2, ScooterID: 10, DueDate: date(2025, 3, 14), Amount: 5000},
		}, nil).Once()
		m.postponements.On("GetOpenByScooter", ctx, int32(10)).Return(nil, nil).Once()
		m.postponements.On("Create", ctx, mock.AnythingOfType("*domain.Postponement")).Return(nil).Once()
		notifier.On("Send", ctx, int64(555), mock.AnythingOfType("string")).Return(errors.New("telegram down")).Once()

		_, err := svc.Request(ctx, 10, date(2025, 3, 7), requestedAt)
		require.NoError(t, err)
		m.notifications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestPostponementService_Preview(t *testing.T) {
	ctx := context.Background()
	m := newMocks()
	svc := service.NewPostponementService(m.uow, nil, m.notifications, testSettings())

	saturday := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m.scooters.On("GetByID", ctx, int32(10)).Return(&domain.Scooter{ID: 10, WeeklyPrice: 2000}, nil).Once()
	m.postponements.On("GetOpenByScooter", ctx, int32(10)).Return(nil, nil).Once()

	result, err := svc.Preview(ctx, 10, date(2025, 3, 7), saturday)
	require.NoError(t, err)
	assert.Equal(t, int32(0), result.Fine)
	assert.False(t, result.Postponement.WithFine)
	assert.Equal(t, int32(4000), result.Amount)
	assert.False(t, result.AlreadyOpen)
	m.assertExpectations(t)

	_, err = svc.Preview(ctx, 10, date(2025, 3, 8), saturday)
	assert.ErrorIs(t, err, domain.ErrNotFriday)
}

func TestPostponementService_CloseIfBothPaid(t *testing.T) {
	ctx := context.Background()
	paidAt := date(2025, 3, 14)
	open := &domain.Postponement{ID: 7, ScooterID: 10, OriginalDate: date(2025, 3, 7), RescheduledDate: date(2025, 3, 14)}

	t.Run("BothPaid", func(t *testing.T) {
		m := newMocks()
		settings := testSettings()
		svc := service.NewPostponementService(m.uow, nil, m.notifications, settings)

		m.scooters.On("LockByID", ctx, int32(10)).Return(&domain.Scooter{ID: 10}, nil).Once()
		m.postponements.On("GetOpenByScooter", ctx, int32(10)).Return(open, nil).Once()
		m.payments.On("ListByScooter", ctx, int32(10)).Return([]domain.Payment{
			{ID: 1, ScooterID: 10, DueDate: date(2025, 3, 7), Amount: 2000, IsPaid: true, PaidAt: &paidAt},
			{ID: 2, ScooterID: 10, DueDate: date(2025, 3, 14), Amount: 5000, IsPaid: true, PaidAt: &paidAt},
		}, nil).Once()
		m.payments.On("UpdateAmount", ctx, int32(1), int32(0)).Return(nil).Once()
		m.postponements.On("Close", ctx, int32(7), settings.Now()).Return(nil).Once()

		closed, err := svc.CloseIfBothPaid(ctx, 10)
		require.NoError(t, err)
		assert.True(t, closed)
		m.assertExpectations(t)
	})

	t.Run("RescheduledUnpaid", func(t *testing.T) {
		m := newMocks()
		svc := service.NewPostponementService(m.uow, nil, m.notifications, testSettings())

		m.scooters.On("LockByID", ctx, int32(10)).Return(&domain.Scooter{ID: 10}, nil).Once()
		m.postponements.On("GetOpenByScooter", ctx, int32(10)).Return(open, nil).Once()
		m.payments.On("ListByScooter", ctx, int32(10)).Return([]domain.Payment{
			{ID: 1, ScooterID: 10, DueDate: date(2025, 3, 7), Amount: 2000, IsPaid: true, PaidAt: &paidAt},
			{ID: 2, ScooterID: 10, DueDate: date(2025, 3, 14), Amount: 5000},
		}, nil).Once()

		closed, err := svc.CloseIfBothPaid(ctx, 10)
		require.NoError(t, err)
		assert.False(t, closed)
		m.postponements.AssertNotCalled(t, "Close", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NothingOpen", func(t *testing.T) {
		m := newMocks()
		svc := service.NewPostponementService(m.uow, nil, m.notifications, testSettings())

		m.scooters.On("LockByID", ctx, int32(10)).Return(&domain.Scooter{ID: 10}, nil).Once()
		m.postponements.On("GetOpenByScooter", ctx, int32(10)).Return(nil, nil).Once()

		closed, err := svc.CloseIfBothPaid(ctx, 10)
		require.NoError(t, err)
		assert.False(t, closed)
	})
}

func TestPostponementService_AdministrativeClose(t *testing.T) {
	ctx := context.Background()
	settings := testSettings()
	all := []domain.Postponement{
		{ID: 3, ScooterID: 10, OriginalDate: date(2025, 1, 10), RescheduledDate: date(2025, 1, 17), IsClosed: true},
		{ID: 7, ScooterID: 10, OriginalDate: date(2025, 3, 7), RescheduledDate: date(2025, 3, 14)},
	}

	t.Run("ByRescheduledDate", func(t *testing.T) {
		m := newMocks()
		svc := service.NewPostponementService(m.uow, nil, m.notifications, settings)

		m.scooters.On("LockByID", ctx, int32(10)).Return(&domain.Scooter{ID: 10}, nil).Once()
		m.postponements.On("ListByScooter", ctx, int32(10)).Return(all, nil).Once()
		m.postponements.On("Close", ctx, int32(7), settings.Now()).Return(nil).Once()

		closed, err := svc.AdministrativeClose(ctx, 10, date(2025, 3, 14))
		require.NoError(t, err)
		assert.Equal(t, int32(7), closed.ID)
		assert.True(t, closed.IsClosed)
		m.assertExpectations(t)
	})

	t.Run("NoMatch", func(t *testing.T) {
		m := newMocks()
		svc := service.NewPostponementService(m.uow, nil, m.notifications, settings)

		m.scooters.On("LockByID", ctx, int32(10)).Return(&domain.Scooter{ID: 10}, nil).Once()
		m.postponements.On("ListByScooter", ctx, int32(10)).Return(all, nil).Once()

		_, err := svc.AdministrativeClose(ctx, 10, date(2025, 1, 10))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPostponementService_PostponedDateSets(t *testing.T) {
	ctx := context.Background()
	m := newMocks()
	svc := service.NewPostponementService(m.uow, nil, m.notifications, testSettings())

	m.clients.On("GetByID", ctx, int32(1)).Return(&domain.Client{ID: 1}, nil).Once()
	m.scooters.On("ListByClient", ctx, int32(1)).Return([]domain.Scooter{{ID: 10}, {ID: 11}}, nil).Once()
	m.postponements.On("ListOpenByScooters", ctx, []int32{10, 11}).Return([]domain.Postponement{
		{ID: 7, ScooterID: 11, OriginalDate: date(2025, 3, 7), RescheduledDate: date(2025, 3, 14)},
	}, nil).Once()

	dates, err := svc.PostponedDateSets(ctx, 1)
	require.NoError(t, err)
	assert.True(t, dates.IsOriginal(date(2025, 3, 7)))
	assert.True(t, dates.IsRescheduled(date(2025, 3, 14)))
	assert.False(t, dates.Contains(date(2025, 3, 21)))
	m.assertExpectations(t)
}

func TestPostponementService_ReconcileAll(t *testing.T) {
	ctx := context.Background()
	settings := testSettings()
	m := newMocks()
	svc := service.NewPostponementService(m.uow, nil, m.notifications, settings)
	paidAt := date(2025, 3, 14)

	m.postponements.On("ListOpen", ctx).Return([]domain.Postponement{
		{ID: 7, ScooterID: 10, OriginalDate: date(2025, 3, 7), RescheduledDate: date(2025, 3, 14)},
		{ID: 8, ScooterID: 11, OriginalDate: date(2025, 3, 7), RescheduledDate: date(2025, 3, 14)},
	}, nil).Once()

	// Scooter 10 closes.
	m.scooters.On("LockByID", ctx, int32(10)).Return(&domain.Scooter{ID: 10}, nil).Once()
	m.postponements.On("GetOpenByScooter", ctx, int32(10)).Return(&domain.Postponement{
		ID: 7, ScooterID: 10, OriginalDate: date(2025, 3, 7), RescheduledDate: date(2025, 3, 14),
	}, nil).Once()
	m.payments.On("ListByScooter", ctx, int32(10)).Return([]domain.Payment{
		{ID: 1, ScooterID: 10, DueDate: date(2025, 3, 7), Amount: 0, IsPaid: true, PaidAt: &paidAt},
		{ID: 2, ScooterID: 10, DueDate: date(2025, 3, 14), Amount: 5000, IsPaid: true, PaidAt: &paidAt},
	}, nil).Once()
	m.postponements.On("Close", ctx, int32(7), settings.Now()).Return(nil).Once()

	// Scooter 11 fails and does not stop the run.
	m.scooters.On("LockByID", ctx, int32(11)).Return(nil, errors.New("lock timeout")).Once()

	closed, err := svc.ReconcileAll(ctx)
	assert.Equal(t, 1, closed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scooter 11")
	m.assertExpectations(t)
}

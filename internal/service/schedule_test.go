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
	"scooter-rent-backend/internal/utils"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testSettings() service.Settings {
	return service.Settings{
		DefaultWeeks:    10,
		Fines:           utils.DefaultFineSchedule(),
		ConfirmationTTL: 24 * time.Hour,
		Location:        time.UTC,
		Now:             func() time.Time { return time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC) },
	}
}

func TestScheduleService_CreateContract(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		m := newMocks()
		svc := service.NewScheduleService(m.uow, testSettings())

		issue := date(2025, 1, 1)
		scooter := &domain.Scooter{ClientID: 1, Model: "Kugoo M4", VIN: "VIN1", Tariff: domain.TariffSingleBattery, WeeklyPrice: 2000, IssueDate: &issue}

		m.clients.On("GetByID", ctx, int32(1)).Return(&domain.Client{ID: 1}, nil).Once()
		m.scooters.On("Create", ctx, scooter).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Scooter).ID = 10
		}).Return(nil).Once()
		m.payments.On("InsertBatch", ctx, mock.MatchedBy(func(batch []domain.NewPayment) bool {
			return len(batch) == 10 &&
				batch[0].DueDate.Equal(date(2025, 1, 10)) &&
				batch[9].DueDate.Equal(date(2025, 3, 14)) &&
				batch[0].ScooterID == 10 && batch[0].Amount == 2000
		})).Return(int64(10), nil).Once()
		m.payments.On("ListByScooter", ctx, int32(10)).Return([]domain.Payment{{ID: 1, ScooterID: 10, DueDate: date(2025, 1, 10), Amount: 2000}}, nil).Once()

		payments, err := svc.CreateContract(ctx, scooter)
		require.NoError(t, err)
		assert.Len(t, payments, 1)
		assert.Equal(t, int32(10), scooter.ID)
		m.assertExpectations(t)
	})

	t.Run("MissingIssueDate", func(t *testing.T) {
		m := newMocks()
		svc := service.NewScheduleService(m.uow, testSettings())

		_, err := svc.CreateContract(ctx, &domain.Scooter{ClientID: 1, Tariff: domain.TariffSingleBattery, WeeklyPrice: 2000})
		assert.ErrorIs(t, err, domain.ErrMissingAnchor)
		assert.Equal(t, 0, m.uow.calls)
	})

	t.Run("InvalidTariff", func(t *testing.T) {
		m := newMocks()
		svc := service.NewScheduleService(m.uow, testSettings())

		issue := date(2025, 1, 1)
		_, err := svc.CreateContract(ctx, &domain.Scooter{ClientID: 1, Tariff: "RENT", WeeklyPrice: 2000, IssueDate: &issue})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("PartialInsertIsConflict", func(t *testing.T) {
		m := newMocks()
		svc := service.NewScheduleService(m.uow, testSettings())

		issue := date(2025, 1, 1)
		scooter := &domain.Scooter{ClientID: 1, Tariff: domain.TariffSingleBattery, WeeklyPrice: 2000, IssueDate: &issue}
		m.clients.On("GetByID", ctx, int32(1)).Return(&domain.Client{ID: 1}, nil).Once()
		m.scooters.On("Create", ctx, scooter).Return(nil).Once()
		m.payments.On("InsertBatch", ctx, mock.AnythingOfType("[]domain.NewPayment")).Return(int64(9), nil).Once()

		_, err := svc.CreateContract(ctx, scooter)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestScheduleService_RefreshSchedule(t *testing.T) {
	ctx := context.Background()

	t.Run("BuyoutKeepsPaidRows", func(t *testing.T) {
		m := newMocks()
		svc := service.NewScheduleService(m.uow, testSettings())

		issue := date(2025, 1, 15)
		scooter := &domain.Scooter{ID: 10, Tariff: domain.TariffBuyout, WeeklyPrice: 3000, BuyoutWeeks: 10, IssueDate: &issue}
		paidAt := date(2025, 2, 7)
		existing := []domain.Payment{
			{ID: 1, ScooterID: 10, DueDate: date(2025, 1, 24), Amount: 3000, IsPaid: true, PaidAt: &paidAt},
			{ID: 2, ScooterID: 10, DueDate: date(2025, 1, 31), Amount: 3000, IsPaid: true, PaidAt: &paidAt},
			{ID: 3, ScooterID: 10, DueDate: date(2025, 2, 7), Amount: 3000, IsPaid: true, PaidAt: &paidAt},
			{ID: 4, ScooterID: 10, DueDate: date(2025, 2, 14), Amount: 3000},
			{ID: 5, ScooterID: 10, DueDate: date(2025, 2, 21), Amount: 3000},
		}

		m.scooters.On("LockByID", ctx, int32(10)).Return(scooter, nil).Once()
		m.payments.On("ListByScooter", ctx, int32(10)).Return(existing, nil).Once()
		m.postponements.On("GetOpenByScooter", ctx, int32(10)).Return(nil, nil).Once()
		m.payments.On("DeleteUnpaid", ctx, int32(10), []int32{4, 5}).Return(int64(2), nil).Once()
		m.payments.On("InsertBatch", ctx, mock.MatchedBy(func(batch []domain.NewPayment) bool {
			return len(batch) == 7 &&
				batch[0].DueDate.Equal(date(2025, 2, 14)) &&
				batch[6].DueDate.Equal(date(2025, 3, 28)) &&
				batch[0].Amount == 3000
		})).Return(int64(7), nil).Once()
		m.payments.On("ListByScooter", ctx, int32(10)).Return(existing[:3], nil).Once()

		_, err := svc.RefreshSchedule(ctx, 10, 10, 3000)
		require.NoError(t, err)
		m.assertExpectations(t)
	})

	t.Run("KeepsPostponementAmount", func(t *testing.T) {
		m := newMocks()
		svc := service.NewScheduleService(m.uow, testSettings())

		issue := date(2025, 2, 26)
		scooter := &domain.Scooter{ID: 10, Tariff: domain.TariffSingleBattery, WeeklyPrice: 2000, IssueDate: &issue}
		existing := []domain.Payment{
			{ID: 1, ScooterID: 10, DueDate: date(2025, 3, 7), Amount: 2000},
			{ID: 2, ScooterID: 10, DueDate: date(2025, 3, 14), Amount: 5000},
		}
		open := &domain.Postponement{ID: 7, ScooterID: 10, OriginalDate: date(2025, 3, 7), RescheduledDate: date(2025, 3, 14), WithFine: true, FineAmount: 1000}

		m.scooters.On("LockByID", ctx, int32(10)).Return(scooter, nil).Once()
		m.payments.On("ListByScooter", ctx, int32(10)).Return(existing, nil)
		m.postponements.On("GetOpenByScooter", ctx, int32(10)).Return(open, nil).Once()
		// the original-date row of the open postponement is left in place
		m.payments.On("DeleteUnpaid", ctx, int32(10), []int32{2}).Return(int64(1), nil).Once()
		m.payments.On("InsertBatch", ctx, []domain.NewPayment{
			{ScooterID: 10, DueDate: date(2025, 3, 14), Amount: 6000},
			{ScooterID: 10, DueDate: date(2025, 3, 21), Amount: 2500},
		}).Return(int64(2), nil).Once()

		_, err := svc.RefreshSchedule(ctx, 10, 3, 2500)
		require.NoError(t, err)
		m.assertExpectations(t)
	})

	t.Run("RescheduledPaidKeepsOriginal", func(t *testing.T) {
		m := newMocks()
		svc := service.NewScheduleService(m.uow, testSettings())

		issue := date(2025, 2, 26)
		paidAt := date(2025, 3, 14)
		scooter := &domain.Scooter{ID: 10, Tariff: domain.TariffSingleBattery, WeeklyPrice: 2000, IssueDate: &issue}
		existing := []domain.Payment{
			{ID: 1, ScooterID: 10, DueDate: date(2025, 3, 7), Amount: 2000},
			{ID: 2, ScooterID: 10, DueDate: date(2025, 3, 14), Amount: 5000, IsPaid: true, PaidAt: &paidAt},
			{ID: 3, ScooterID: 10, DueDate: date(2025, 3, 21), Amount: 2000},
		}
		open := &domain.Postponement{ID: 7, ScooterID: 10, OriginalDate: date(2025, 3, 7), RescheduledDate: date(2025, 3, 14), WithFine: true, FineAmount: 1000}

		m.scooters.On("LockByID", ctx, int32(10)).Return(scooter, nil).Once()
		m.payments.On("ListByScooter", ctx, int32(10)).Return(existing, nil)
		m.postponements.On("GetOpenByScooter", ctx, int32(10)).Return(open, nil).Once()
		m.payments.On("DeleteUnpaid", ctx, int32(10), []int32{3}).Return(int64(1), nil).Once()
		m.payments.On("InsertBatch", ctx, []domain.NewPayment{
			{ScooterID: 10, DueDate: date(2025, 3, 21), Amount: 2500},
			{ScooterID: 10, DueDate: date(2025, 3, 28), Amount: 2500},
		}).Return(int64(2), nil).Once()

		_, err := svc.RefreshSchedule(ctx, 10, 2, 2500)
		require.NoError(t, err)
		m.assertExpectations(t)
	})

	t.Run("ScooterNotFound", func(t *testing.T) {
		m := newMocks()
		svc := service.NewScheduleService(m.uow, testSettings())

		m.scooters.On("LockByID", ctx, int32(99)).Return(nil, domain.NotFoundf("scooter 99")).Once()

		_, err := svc.RefreshSchedule(ctx, 99, 10, 2000)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestScheduleService_UpdateScooter(t *testing.T) {
	ctx := context.Background()
	m := newMocks()
	svc := service.NewScheduleService(m.uow, testSettings())

	issue := date(2025, 1, 1)
	current := &domain.Scooter{ID: 10, Model: "Kugoo", Tariff: domain.TariffSingleBattery, WeeklyPrice: 2000, IssueDate: &issue}
	existing := []domain.Payment{{ID: 1, ScooterID: 10, DueDate: date(2025, 1, 10), Amount: 2000}}

	t.Run("RenameDoesNotRefresh", func(t *testing.T) {
		model := "Kugoo Kirin"
		m.scooters.On("LockByID", ctx, int32(10)).Return(current, nil).Once()
		m.scooters.On("Update", ctx, mock.MatchedBy(func(s *domain.Scooter) bool { return s.Model == model })).Return(nil).Once()
		m.payments.On("ListByScooter", ctx, int32(10)).Return(existing, nil).Once()

		updated, payments, err := svc.UpdateScooter(ctx, 10, domain.ScooterUpdate{Model: &model})
		require.NoError(t, err)
		assert.Equal(t, model, updated.Model)
		assert.Equal(t, existing, payments)
	})

	t.Run("Empty", func(t *testing.T) {
		_, _, err := svc.UpdateScooter(ctx, 10, domain.ScooterUpdate{})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	m.assertExpectations(t)
}

func TestScheduleService_ExtendSchedule(t *testing.T) {
	ctx := context.Background()
	m := newMocks()
	svc := service.NewScheduleService(m.uow, testSettings())

	scooter := &domain.Scooter{ID: 10, Tariff: domain.TariffSingleBattery, WeeklyPrice: 2000}
	existing := []domain.Payment{{ID: 1, ScooterID: 10, DueDate: date(2025, 3, 14), Amount: 2000}}

	m.scooters.On("LockByID", ctx, int32(10)).Return(scooter, nil).Once()
	m.payments.On("ListByScooter", ctx, int32(10)).Return(existing, nil)
	m.payments.On("InsertBatch", ctx, []domain.NewPayment{
		{ScooterID: 10, DueDate: date(2025, 3, 21), Amount: 2000},
		{ScooterID: 10, DueDate: date(2025, 3, 28), Amount: 2000},
	}).Return(int64(1), nil).Once()

	_, err := svc.ExtendSchedule(ctx, 10, 2)
	require.NoError(t, err)
	m.assertExpectations(t)

	t.Run("NoSchedule", func(t *testing.T) {
		m := newMocks()
		svc := service.NewScheduleService(m.uow, testSettings())
		m.scooters.On("LockByID", ctx, int32(11)).Return(&domain.Scooter{ID: 11}, nil).Once()
		m.payments.On("ListByScooter", ctx, int32(11)).Return([]domain.Payment{}, nil).Once()

		_, err := svc.ExtendSchedule(ctx, 11, 2)
		assert.ErrorIs(t, err, domain.ErrNoSchedule)
	})
}

func TestScheduleService_UnpaidDashboard(t *testing.T) {
	ctx := context.Background()
	m := newMocks()
	svc := service.NewScheduleService(m.uow, testSettings())

	today := date(2025, 3, 12) // Wednesday
	rows := []domain.ScooterPayment{
		{Payment: domain.Payment{ID: 1, ScooterID: 10, DueDate: date(2025, 3, 7), Amount: 2000}},
		{Payment: domain.Payment{ID: 2, ScooterID: 11, DueDate: date(2025, 3, 7), Amount: 2000}},
		{Payment: domain.Payment{ID: 3, ScooterID: 11, DueDate: date(2025, 3, 14), Amount: 5000}},
		{Payment: domain.Payment{ID: 4, ScooterID: 10, DueDate: date(2025, 3, 14), Amount: 2000}},
	}
	open := []domain.Postponement{{ID: 7, ScooterID: 11, OriginalDate: date(2025, 3, 7), RescheduledDate: date(2025, 3, 14), FineAmount: 1000}}

	m.payments.On("ListUnpaidByDates", ctx, []time.Time{date(2025, 3, 7), date(2025, 3, 14)}).Return(rows, nil).Once()
	m.postponements.On("ListOpenByScooters", ctx, []int32{10, 11}).Return(open, nil).Once()

	dash, err := svc.UnpaidDashboard(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 3, 7), dash.LastFriday)
	assert.Equal(t, date(2025, 3, 14), dash.NextFriday)
	require.Len(t, dash.Entries, 4)

	statuses := map[int32]domain.PaymentStatus{}
	for _, e := range dash.Entries {
		statuses[e.ID] = e.Status
	}
	assert.Equal(t, domain.StatusOverdue, statuses[1])
	assert.Equal(t, domain.StatusPostponed, statuses[2])
	assert.Equal(t, domain.StatusPostponed, statuses[3])
	assert.Equal(t, domain.StatusUpcoming, statuses[4])
	assert.Equal(t, domain.PostponedOriginal, dash.Entries[1].Role)
	m.assertExpectations(t)

	t.Run("RepositoryError", func(t *testing.T) {
		m := newMocks()
		svc := service.NewScheduleService(m.uow, testSettings())
		boom := errors.New("boom")
		m.payments.On("ListUnpaidByDates", ctx, mock.Anything).Return([]domain.ScooterPayment(nil), boom).Once()

		_, err := svc.UnpaidDashboard(ctx, today)
		assert.ErrorIs(t, err, boom)
	})
}

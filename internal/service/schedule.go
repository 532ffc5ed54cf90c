package service

import (
	"context"
	"fmt"
	"time"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/engine"
	"scooter-rent-backend/internal/logger"
	"scooter-rent-backend/internal/repository"
	"scooter-rent-backend/internal/utils"
)

type scheduleService struct {
	uow      repository.UnitOfWork
	settings Settings
}

func NewScheduleService(uow repository.UnitOfWork, settings Settings) ScheduleService {
	return &scheduleService{uow: uow, settings: settings}
}

func (s *scheduleService) CreateContract(ctx context.Context, scooter *domain.Scooter) ([]domain.Payment, error) {
	logger.EnterMethod("scheduleService.CreateContract", "clientID", scooter.ClientID, "tariff", scooter.Tariff)

	if err := scooter.Validate(); err != nil {
		logger.ExitMethodWithError("scheduleService.CreateContract", err)
		return nil, err
	}
	if scooter.IssueDate == nil {
		return nil, domain.ErrMissingAnchor
	}

	var payments []domain.Payment
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		if _, err := r.Clients.GetByID(ctx, scooter.ClientID); err != nil {
			return err
		}
		if err := r.Scooters.Create(ctx, scooter); err != nil {
			return err
		}
		batch, err := engine.PlanContract(*scooter, s.settings.defaultWeeks())
		if err != nil {
			return err
		}
		if err := insertAll(ctx, r, batch); err != nil {
			return err
		}
		payments, err = r.Payments.ListByScooter(ctx, scooter.ID)
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("scheduleService.CreateContract", err, "clientID", scooter.ClientID)
		return nil, err
	}

	logger.ExitMethod("scheduleService.CreateContract", "scooterID", scooter.ID, "payments", len(payments))
	return payments, nil
}

func (s *scheduleService) UpdateScooter(ctx context.Context, id int32, update domain.ScooterUpdate) (*domain.Scooter, []domain.Payment, error) {
	logger.EnterMethod("scheduleService.UpdateScooter", "scooterID", id)

	if update.Empty() {
		return nil, nil, domain.ValidationErrorf("nothing to update")
	}

	var updated domain.Scooter
	var payments []domain.Payment
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		current, err := r.Scooters.LockByID(ctx, id)
		if err != nil {
			return err
		}
		updated, err = update.Apply(*current)
		if err != nil {
			return err
		}
		if err := r.Scooters.Update(ctx, &updated); err != nil {
			return err
		}
		if update.ChangesSchedule() {
			payments, err = s.refreshLocked(ctx, r, updated, updated.TotalWeeks(s.settings.defaultWeeks()), updated.WeeklyPrice)
			return err
		}
		payments, err = r.Payments.ListByScooter(ctx, id)
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("scheduleService.UpdateScooter", err, "scooterID", id)
		return nil, nil, err
	}

	logger.ExitMethod("scheduleService.UpdateScooter", "scooterID", id, "refreshed", update.ChangesSchedule())
	return &updated, payments, nil
}

func (s *scheduleService) GenerateSchedule(anchor time.Time, weeks int) ([]time.Time, error) {
	return engine.GenerateSchedule(anchor, weeks)
}

func (s *scheduleService) RefreshSchedule(ctx context.Context, scooterID int32, totalWeeks int, price int32) ([]domain.Payment, error) {
	logger.EnterMethod("scheduleService.RefreshSchedule", "scooterID", scooterID, "totalWeeks", totalWeeks, "price", price)

	var payments []domain.Payment
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		scooter, err := r.Scooters.LockByID(ctx, scooterID)
		if err != nil {
			return err
		}
		payments, err = s.refreshLocked(ctx, r, *scooter, totalWeeks, price)
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("scheduleService.RefreshSchedule", err, "scooterID", scooterID)
		return nil, err
	}

	logger.ExitMethod("scheduleService.RefreshSchedule", "scooterID", scooterID, "payments", len(payments))
	return payments, nil
}

func (s *scheduleService) RefreshFromContract(ctx context.Context, scooterID int32) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		scooter, err := r.Scooters.LockByID(ctx, scooterID)
		if err != nil {
			return err
		}
		payments, err = s.refreshLocked(ctx, r, *scooter, scooter.TotalWeeks(s.settings.defaultWeeks()), scooter.WeeklyPrice)
		return err
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// refreshLocked replaces the unpaid tail. The caller must hold the scooter lock.
func (s *scheduleService) refreshLocked(ctx context.Context, r repository.Repositories, scooter domain.Scooter, totalWeeks int, price int32) ([]domain.Payment, error) {
	payments, err := r.Payments.ListByScooter(ctx, scooter.ID)
	if err != nil {
		return nil, err
	}
	open, err := r.Postponements.GetOpenByScooter(ctx, scooter.ID)
	if err != nil {
		return nil, err
	}

	plan, err := engine.PlanRefresh(scooter, payments, open, totalWeeks, price)
	if err != nil {
		return nil, err
	}
	logger.WithScooter(scooter.ID).Debug("Refresh planned",
		"anchor", utils.FormatDate(plan.Anchor), "remaining", plan.Remaining, "delete", len(plan.Delete))

	if _, err := r.Payments.DeleteUnpaid(ctx, scooter.ID, plan.Delete); err != nil {
		return nil, err
	}
	if err := insertAll(ctx, r, plan.Insert); err != nil {
		return nil, err
	}
	return r.Payments.ListByScooter(ctx, scooter.ID)
}

// insertAll inserts a batch that must not collide with existing rows.
func insertAll(ctx context.Context, r repository.Repositories, batch []domain.NewPayment) error {
	n, err := r.Payments.InsertBatch(ctx, batch)
	if err != nil {
		return err
	}
	if n != int64(len(batch)) {
		return fmt.Errorf("%w: inserted %d of %d payments", domain.ErrConflict, n, len(batch))
	}
	return nil
}

func (s *scheduleService) ExtendSchedule(ctx context.Context, scooterID int32, weeks int) ([]domain.Payment, error) {
	logger.EnterMethod("scheduleService.ExtendSchedule", "scooterID", scooterID, "weeks", weeks)

	var payments []domain.Payment
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		scooter, err := r.Scooters.LockByID(ctx, scooterID)
		if err != nil {
			return err
		}
		existing, err := r.Payments.ListByScooter(ctx, scooterID)
		if err != nil {
			return err
		}
		batch, err := engine.PlanExtend(*scooter, existing, weeks)
		if err != nil {
			return err
		}
		// Dates that already exist are skipped by the insert.
		if _, err := r.Payments.InsertBatch(ctx, batch); err != nil {
			return err
		}
		payments, err = r.Payments.ListByScooter(ctx, scooterID)
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("scheduleService.ExtendSchedule", err, "scooterID", scooterID)
		return nil, err
	}

	logger.ExitMethod("scheduleService.ExtendSchedule", "scooterID", scooterID, "payments", len(payments))
	return payments, nil
}

func (s *scheduleService) ListPayments(ctx context.Context, scooterID int32) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := s.uow.View(ctx, func(r repository.Repositories) error {
		if _, err := r.Scooters.GetByID(ctx, scooterID); err != nil {
			return err
		}
		var err error
		payments, err = r.Payments.ListByScooter(ctx, scooterID)
		return err
	})
	return payments, err
}

func (s *scheduleService) ClassifyScooter(ctx context.Context, scooterID int32, today time.Time) (domain.Classification, error) {
	today = s.settings.resolveToday(today)

	var c domain.Classification
	err := s.uow.View(ctx, func(r repository.Repositories) error {
		if _, err := r.Scooters.GetByID(ctx, scooterID); err != nil {
			return err
		}
		payments, err := r.Payments.ListByScooter(ctx, scooterID)
		if err != nil {
			return err
		}
		open, err := r.Postponements.ListOpenByScooters(ctx, []int32{scooterID})
		if err != nil {
			return err
		}
		c = engine.Classify(payments, open, today)
		return nil
	})
	return c, err
}

func (s *scheduleService) ClassifyClient(ctx context.Context, clientID int32, today time.Time) (domain.Classification, error) {
	today = s.settings.resolveToday(today)

	var c domain.Classification
	err := s.uow.View(ctx, func(r repository.Repositories) error {
		payments, open, err := clientSnapshot(ctx, r, clientID)
		if err != nil {
			return err
		}
		c = engine.Classify(payments, open, today)
		return nil
	})
	return c, err
}

func (s *scheduleService) UnpaidDashboard(ctx context.Context, today time.Time) (*domain.UnpaidDashboard, error) {
	today = s.settings.resolveToday(today)
	last, next := utils.LastAndNextFriday(today)

	dash := &domain.UnpaidDashboard{Today: today, LastFriday: last, NextFriday: next, Entries: []domain.DashboardEntry{}}
	err := s.uow.View(ctx, func(r repository.Repositories) error {
		rows, err := r.Payments.ListUnpaidByDates(ctx, []time.Time{last, next})
		if err != nil {
			return err
		}
		payments := make([]domain.Payment, len(rows))
		var ids []int32
		for i, row := range rows {
			payments[i] = row.Payment
			ids = append(ids, row.ScooterID)
		}
		open, err := r.Postponements.ListOpenByScooters(ctx, uniqueIDs(ids))
		if err != nil {
			return err
		}

		idx := engine.Annotate(engine.Classify(payments, open, today))
		for _, row := range rows {
			a, ok := idx[row.ID]
			if !ok {
				continue
			}
			dash.Entries = append(dash.Entries, domain.DashboardEntry{
				ScooterPayment: row,
				Status:         a.Status,
				Role:           a.Role,
				Postponement:   a.Postponement,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dash, nil
}

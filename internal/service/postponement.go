package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/engine"
	"scooter-rent-backend/internal/logger"
	"scooter-rent-backend/internal/repository"
	"scooter-rent-backend/internal/utils"
)

type postponementService struct {
	uow      repository.UnitOfWork
	notifier Notifier
	noteRepo repository.NotificationRepository
	settings Settings
}

func NewPostponementService(uow repository.UnitOfWork, notifier Notifier, noteRepo repository.NotificationRepository, settings Settings) PostponementService {
	return &postponementService{
		uow:      uow,
		notifier: notifier,
		noteRepo: noteRepo,
		settings: settings,
	}
}

func (s *postponementService) Request(ctx context.Context, scooterID int32, originalDate, requestedAt time.Time) (domain.PostponementResult, error) {
	logger.EnterMethod("postponementService.Request", "scooterID", scooterID, "originalDate", utils.FormatDate(originalDate))

	if requestedAt.IsZero() {
		requestedAt = s.settings.now()
	}
	requestDay := s.settings.today(requestedAt)

	var plan engine.PostponementPlan
	var scooter *domain.Scooter
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		var err error
		scooter, err = r.Scooters.LockByID(ctx, scooterID)
		if err != nil {
			return err
		}
		payments, err := r.Payments.ListByScooter(ctx, scooterID)
		if err != nil {
			return err
		}
		open, err := r.Postponements.GetOpenByScooter(ctx, scooterID)
		if err != nil {
			return err
		}

		plan, err = engine.PlanPostponement(*scooter, payments, open, originalDate, requestedAt, requestDay, s.settings.Fines)
		if err != nil {
			return err
		}
		if err := r.Postponements.Create(ctx, &plan.Postponement); err != nil {
			return err
		}

		if plan.Existing == nil {
			return r.Payments.Create(ctx, &domain.Payment{
				ScooterID: scooterID,
				DueDate:   plan.Postponement.RescheduledDate,
				Amount:    plan.Amount,
			})
		}
		if plan.Existing.Amount != plan.Amount {
			return r.Payments.UpdateAmount(ctx, plan.Existing.ID, plan.Amount)
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("postponementService.Request", err, "scooterID", scooterID)
		return domain.PostponementResult{}, err
	}

	s.notifyAdmins(ctx, scooter, plan)

	logger.ExitMethod("postponementService.Request", "postponementID", plan.Postponement.ID,
		"rescheduledDate", utils.FormatDate(plan.Postponement.RescheduledDate), "fine", plan.Fine)
	return plan.Result(), nil
}

// notifyAdmins tells every admin chat about a new postponement. Delivery
// failures are logged and do not fail the request.
func (s *postponementService) notifyAdmins(ctx context.Context, scooter *domain.Scooter, plan engine.PostponementPlan) {
	if s.notifier == nil || scooter == nil {
		return
	}
	p := plan.Postponement
	text := fmt.Sprintf("Payment postponed: scooter %s (%s, #%d). %s moved to %s, fine %d, due %d.",
		scooter.Model, scooter.VIN, scooter.ID,
		utils.FormatDate(p.OriginalDate), utils.FormatDate(p.RescheduledDate), plan.Fine, plan.Amount)

	clientID := scooter.ClientID
	for _, chatID := range s.settings.AdminChatIDs {
		if err := s.notifier.Send(ctx, chatID, text); err != nil {
			logger.Warn("Failed to notify admin about postponement", "chatID", chatID, "error", err)
			continue
		}
		note := &domain.Notification{
			ClientID: &clientID,
			ChatID:   chatID,
			Kind:     domain.ReminderPostponeAdmin,
			ForDate:  p.OriginalDate,
			Message:  text,
			Attributes: map[string]string{
				"scooter_id":      fmt.Sprintf("%d", scooter.ID),
				"postponement_id": fmt.Sprintf("%d", p.ID),
			},
		}
		if err := s.noteRepo.Create(ctx, note); err != nil {
			logger.Warn("Failed to record admin notification", "chatID", chatID, "error", err)
		}
	}
}

func (s *postponementService) Preview(ctx context.Context, scooterID int32, originalDate, requestedAt time.Time) (domain.PostponementResult, error) {
	if requestedAt.IsZero() {
		requestedAt = s.settings.now()
	}
	if !utils.IsFriday(originalDate) {
		return domain.PostponementResult{}, fmt.Errorf("%w: %s", domain.ErrNotFriday, utils.FormatDate(originalDate))
	}

	var result domain.PostponementResult
	err := s.uow.View(ctx, func(r repository.Repositories) error {
		scooter, err := r.Scooters.GetByID(ctx, scooterID)
		if err != nil {
			return err
		}
		open, err := r.Postponements.GetOpenByScooter(ctx, scooterID)
		if err != nil {
			return err
		}
		result = engine.Preview(*scooter, open, originalDate, requestedAt, s.settings.today(requestedAt), s.settings.Fines)
		return nil
	})
	return result, err
}

func (s *postponementService) CloseIfBothPaid(ctx context.Context, scooterID int32) (bool, error) {
	var closed *domain.Postponement
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		if _, err := r.Scooters.LockByID(ctx, scooterID); err != nil {
			return err
		}
		var err error
		closed, err = reconcileScooter(ctx, r, scooterID, s.settings.now())
		return err
	})
	if err != nil {
		return false, err
	}
	return closed != nil, nil
}

func (s *postponementService) AdministrativeClose(ctx context.Context, scooterID int32, date time.Time) (*domain.Postponement, error) {
	logger.EnterMethod("postponementService.AdministrativeClose", "scooterID", scooterID, "date", utils.FormatDate(date))

	var closed *domain.Postponement
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		if _, err := r.Scooters.LockByID(ctx, scooterID); err != nil {
			return err
		}
		all, err := r.Postponements.ListByScooter(ctx, scooterID)
		if err != nil {
			return err
		}
		match, err := engine.MatchForClose(all, date)
		if err != nil {
			return err
		}
		now := s.settings.now()
		if err := r.Postponements.Close(ctx, match.ID, now); err != nil {
			return err
		}
		match.IsClosed = true
		match.ClosedAt = &now
		closed = match
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("postponementService.AdministrativeClose", err, "scooterID", scooterID)
		return nil, err
	}

	logger.ExitMethod("postponementService.AdministrativeClose", "postponementID", closed.ID)
	return closed, nil
}

func (s *postponementService) Active(ctx context.Context, scooterID int32) (*domain.Postponement, error) {
	var open *domain.Postponement
	err := s.uow.View(ctx, func(r repository.Repositories) error {
		if _, err := r.Scooters.GetByID(ctx, scooterID); err != nil {
			return err
		}
		var err error
		open, err = r.Postponements.GetOpenByScooter(ctx, scooterID)
		return err
	})
	return open, err
}

func (s *postponementService) HasOpen(ctx context.Context, scooterID int32) (bool, error) {
	open, err := s.Active(ctx, scooterID)
	if err != nil {
		return false, err
	}
	return open != nil, nil
}

func (s *postponementService) PostponedDateSets(ctx context.Context, clientID int32) (domain.PostponedDates, error) {
	var dates domain.PostponedDates
	err := s.uow.View(ctx, func(r repository.Repositories) error {
		if _, err := r.Clients.GetByID(ctx, clientID); err != nil {
			return err
		}
		scooters, err := r.Scooters.ListByClient(ctx, clientID)
		if err != nil {
			return err
		}
		open, err := r.Postponements.ListOpenByScooters(ctx, scooterIDs(scooters))
		if err != nil {
			return err
		}
		dates = domain.NewPostponedDates(open...)
		return nil
	})
	if err != nil {
		return domain.NewPostponedDates(), err
	}
	return dates, nil
}

func (s *postponementService) ReconcileAll(ctx context.Context) (int, error) {
	var open []domain.Postponement
	err := s.uow.View(ctx, func(r repository.Repositories) error {
		var err error
		open, err = r.Postponements.ListOpen(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}

	ids := make([]int32, len(open))
	for i, p := range open {
		ids[i] = p.ScooterID
	}

	closed := 0
	var errs []error
	for _, id := range uniqueIDs(ids) {
		ok, err := s.CloseIfBothPaid(ctx, id)
		if err != nil {
			logger.Error("Failed to reconcile postponement", "scooterID", id, "error", err)
			errs = append(errs, fmt.Errorf("scooter %d: %w", id, err))
			continue
		}
		if ok {
			closed++
		}
	}
	return closed, errors.Join(errs...)
}

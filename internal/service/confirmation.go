package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/engine"
	"scooter-rent-backend/internal/logger"
	"scooter-rent-backend/internal/repository"
)

const (
	confirmationKeyLength = 8
	// Short keys can collide; Create retries with a fresh one.
	confirmationKeyAttempts = 3
)

type confirmationService struct {
	uow      repository.UnitOfWork
	confRepo repository.ConfirmationRepository
	settings Settings
}

func NewConfirmationService(uow repository.UnitOfWork, confRepo repository.ConfirmationRepository, settings Settings) ConfirmationService {
	return &confirmationService{uow: uow, confRepo: confRepo, settings: settings}
}

func newConfirmationKey() string {
	return uuid.NewString()[:confirmationKeyLength]
}

// Create records the payments a client says they paid. The total is what the
// client owes for them today: amounts plus the late fee for overdue ones.
// Original dates of open postponements are absorbed into the rescheduled
// payment and add nothing.
func (s *confirmationService) Create(ctx context.Context, clientID int32, paymentIDs []int32) (*domain.PendingConfirmation, error) {
	logger.EnterMethod("confirmationService.Create", "clientID", clientID, "paymentIDs", paymentIDs)

	ids := uniqueIDs(paymentIDs)
	if len(ids) == 0 {
		return nil, domain.ValidationErrorf("no payments given")
	}

	now := s.settings.now()
	var conf *domain.PendingConfirmation
	var err error
	for attempt := 1; attempt <= confirmationKeyAttempts; attempt++ {
		conf = &domain.PendingConfirmation{
			Key:        newConfirmationKey(),
			ClientID:   clientID,
			PaymentIDs: ids,
			CreatedAt:  now,
			ExpiresAt:  now.Add(s.settings.ConfirmationTTL),
		}
		err = s.createOnce(ctx, conf, now)
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
		logger.Warn("Confirmation key collision, retrying", "key", conf.Key, "attempt", attempt)
	}
	if err != nil {
		logger.ExitMethodWithError("confirmationService.Create", err, "clientID", clientID)
		return nil, err
	}

	logger.ExitMethod("confirmationService.Create", "key", conf.Key, "total", conf.Total)
	return conf, nil
}

// createOnce prices conf and stores it in one transaction.
func (s *confirmationService) createOnce(ctx context.Context, conf *domain.PendingConfirmation, now time.Time) error {
	clientID, ids := conf.ClientID, conf.PaymentIDs
	return s.uow.Do(ctx, func(r repository.Repositories) error {
		all, open, err := clientSnapshot(ctx, r, clientID)
		if err != nil {
			return err
		}
		byID := make(map[int32]domain.Payment, len(all))
		for _, p := range all {
			byID[p.ID] = p
		}

		idx := engine.Annotate(engine.Classify(all, open, s.settings.today(now)))
		for _, id := range ids {
			p, ok := byID[id]
			if !ok {
				return domain.NotFoundf("payment %d for client %d", id, clientID)
			}
			if p.IsPaid {
				return domain.InvalidStatef("payment %d is already paid", id)
			}
			a := idx[id]
			if a.Role == domain.PostponedOriginal {
				continue
			}
			conf.Total += p.Amount
			if a.Status == domain.StatusOverdue {
				conf.Total += s.settings.Fines.OverduePerWeek
			}
		}
		return r.Confirmations.Create(ctx, conf)
	})
}

func (s *confirmationService) Confirm(ctx context.Context, key string) (*domain.MarkPaidResult, error) {
	logger.EnterMethod("confirmationService.Confirm", "key", key)

	var result *domain.MarkPaidResult
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		conf, err := r.Confirmations.GetByKey(ctx, key)
		if err != nil {
			return err
		}
		now := s.settings.now()
		if conf.Expired(now) {
			return domain.ErrConfirmationExpired
		}
		result, err = markPaidAndReconcile(ctx, r, conf.PaymentIDs, now)
		if err != nil {
			return err
		}
		return r.Confirmations.Delete(ctx, key)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrConfirmationExpired) {
			logger.ExitMethodWithError("confirmationService.Confirm", err, "key", key)
		}
		return nil, err
	}

	logger.ExitMethod("confirmationService.Confirm", "key", key, "paid", len(result.Paid))
	return result, nil
}

func (s *confirmationService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.confRepo.DeleteExpired(ctx, s.settings.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info("Expired payment confirmations purged", "count", n)
	}
	return n, nil
}

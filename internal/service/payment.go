package service

import (
	"context"
	"time"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/engine"
	"scooter-rent-backend/internal/logger"
	"scooter-rent-backend/internal/repository"
)

type paymentService struct {
	uow      repository.UnitOfWork
	settings Settings
}

func NewPaymentService(uow repository.UnitOfWork, settings Settings) PaymentService {
	return &paymentService{uow: uow, settings: settings}
}

func (s *paymentService) MarkPaid(ctx context.Context, paymentIDs []int32) (*domain.MarkPaidResult, error) {
	logger.EnterMethod("paymentService.MarkPaid", "paymentIDs", paymentIDs)

	var result *domain.MarkPaidResult
	err := s.uow.Do(ctx, func(r repository.Repositories) error {
		var err error
		result, err = markPaidAndReconcile(ctx, r, paymentIDs, s.settings.now())
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("paymentService.MarkPaid", err)
		return nil, err
	}

	logger.ExitMethod("paymentService.MarkPaid", "paid", len(result.Paid), "closedPostponements", len(result.ClosedPostponements))
	return result, nil
}

func (s *paymentService) snapshot(ctx context.Context, clientID int32) ([]domain.Payment, []domain.Postponement, error) {
	var payments []domain.Payment
	var open []domain.Postponement
	err := s.uow.View(ctx, func(r repository.Repositories) error {
		var err error
		payments, open, err = clientSnapshot(ctx, r, clientID)
		return err
	})
	return payments, open, err
}

func (s *paymentService) QuoteWeeks(ctx context.Context, clientID int32, today time.Time, weeks int) (domain.Quote, error) {
	today = s.settings.resolveToday(today)
	payments, open, err := s.snapshot(ctx, clientID)
	if err != nil {
		return domain.Quote{}, err
	}
	return engine.QuoteWeeks(payments, open, today, weeks, s.settings.Fines.OverduePerWeek)
}

func (s *paymentService) QuoteOverdue(ctx context.Context, clientID int32, today time.Time) (domain.Quote, error) {
	today = s.settings.resolveToday(today)
	payments, open, err := s.snapshot(ctx, clientID)
	if err != nil {
		return domain.Quote{}, err
	}
	return engine.QuoteOverdue(engine.Classify(payments, open, today), s.settings.Fines.OverduePerWeek), nil
}

func (s *paymentService) QuotePostponed(ctx context.Context, clientID int32, today time.Time) (domain.Quote, error) {
	today = s.settings.resolveToday(today)
	payments, open, err := s.snapshot(ctx, clientID)
	if err != nil {
		return domain.Quote{}, err
	}
	return engine.QuotePostponed(engine.Classify(payments, open, today), payments), nil
}

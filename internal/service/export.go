package service

import (
	"context"
	"time"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/engine"
	"scooter-rent-backend/internal/export"
	"scooter-rent-backend/internal/repository"
)

type exportService struct {
	uow       repository.UnitOfWork
	generator *export.Generator
	settings  Settings
}

func NewExportService(uow repository.UnitOfWork, generator *export.Generator, settings Settings) ExportService {
	return &exportService{uow: uow, generator: generator, settings: settings}
}

func (s *exportService) ExportSchedules(ctx context.Context, today time.Time) ([]byte, error) {
	today = s.settings.resolveToday(today)

	var entries []domain.DashboardEntry
	err := s.uow.View(ctx, func(r repository.Repositories) error {
		rows, err := r.Payments.ListAll(ctx)
		if err != nil {
			return err
		}
		open, err := r.Postponements.ListOpen(ctx)
		if err != nil {
			return err
		}
		payments := make([]domain.Payment, len(rows))
		for i, row := range rows {
			payments[i] = row.Payment
		}

		idx := engine.Annotate(engine.Classify(payments, open, today))
		entries = make([]domain.DashboardEntry, len(rows))
		for i, row := range rows {
			e := domain.DashboardEntry{ScooterPayment: row, Status: domain.StatusPaid}
			if a, ok := idx[row.ID]; ok {
				e.Status, e.Role, e.Postponement = a.Status, a.Role, a.Postponement
			}
			entries[i] = e
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.generator.Generate(today, entries)
}

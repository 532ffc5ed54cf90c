package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/engine"
	"scooter-rent-backend/internal/logger"
	"scooter-rent-backend/internal/repository"
	"scooter-rent-backend/internal/utils"
)

type reminderService struct {
	uow      repository.UnitOfWork
	noteRepo repository.NotificationRepository
	notifier Notifier
	settings Settings
}

func NewReminderService(uow repository.UnitOfWork, noteRepo repository.NotificationRepository, notifier Notifier, settings Settings) ReminderService {
	return &reminderService{
		uow:      uow,
		noteRepo: noteRepo,
		notifier: notifier,
		settings: settings,
	}
}

// classified is an unpaid payment with its client and bucket.
type classified struct {
	domain.ScooterPayment
	engine.Annotation
}

// load classifies unpaid rows returned by fetch as of today.
func (s *reminderService) load(ctx context.Context, today time.Time, fetch func(r repository.Repositories) ([]domain.ScooterPayment, error)) ([]classified, error) {
	var out []classified
	err := s.uow.View(ctx, func(r repository.Repositories) error {
		rows, err := fetch(r)
		if err != nil {
			return err
		}
		payments := make([]domain.Payment, len(rows))
		ids := make([]int32, len(rows))
		for i, row := range rows {
			payments[i] = row.Payment
			ids[i] = row.ScooterID
		}
		open, err := r.Postponements.ListOpenByScooters(ctx, uniqueIDs(ids))
		if err != nil {
			return err
		}
		idx := engine.Annotate(engine.Classify(payments, open, today))
		for _, row := range rows {
			if a, ok := idx[row.ID]; ok {
				out = append(out, classified{ScooterPayment: row, Annotation: a})
			}
		}
		return nil
	})
	return out, err
}

func (s *reminderService) SendDueToday(ctx context.Context, today time.Time) (int, error) {
	today = s.settings.resolveToday(today)
	if !utils.IsFriday(today) {
		return 0, nil
	}
	rows, err := s.load(ctx, today, func(r repository.Repositories) ([]domain.ScooterPayment, error) {
		return r.Payments.ListUnpaidByDates(ctx, []time.Time{today})
	})
	if err != nil {
		return 0, err
	}
	due := filter(rows, func(c classified) bool { return c.Status == domain.StatusDueToday })

	return s.sendPerClient(ctx, domain.ReminderDueToday, today, due, func(client domain.Client, items []classified) string {
		var b strings.Builder
		fmt.Fprintf(&b, "Hello, %s! Today (%s) your weekly rent is due:\n", client.FullName, utils.FormatDate(today))
		var total int32
		for _, c := range items {
			fmt.Fprintf(&b, "- %s %s: %d\n", c.Scooter.Model, c.Scooter.VIN, c.Amount)
			total += c.Amount
		}
		fmt.Fprintf(&b, "Total: %d", total)
		return b.String()
	})
}

func (s *reminderService) SendOverdue(ctx context.Context, today time.Time) (int, error) {
	today = s.settings.resolveToday(today)
	rows, err := s.load(ctx, today, func(r repository.Repositories) ([]domain.ScooterPayment, error) {
		return r.Payments.ListUnpaidDueBy(ctx, today.AddDate(0, 0, -1))
	})
	if err != nil {
		return 0, err
	}
	overdue := filter(rows, func(c classified) bool { return c.Status == domain.StatusOverdue })

	fine := s.settings.Fines.OverduePerWeek
	return s.sendPerClient(ctx, domain.ReminderOverdue, today, overdue, func(client domain.Client, items []classified) string {
		var b strings.Builder
		fmt.Fprintf(&b, "%s, you have overdue rent payments:\n", client.FullName)
		var total int32
		for _, c := range items {
			fmt.Fprintf(&b, "- %s %s due %s: %d + late fee %d\n", c.Scooter.Model, c.Scooter.VIN, utils.FormatDate(c.DueDate), c.Amount, fine)
			total += c.Amount + fine
		}
		fmt.Fprintf(&b, "Total to pay: %d", total)
		return b.String()
	})
}

func (s *reminderService) SendPostponed(ctx context.Context, today time.Time) (int, error) {
	today = s.settings.resolveToday(today)
	rows, err := s.load(ctx, today, func(r repository.Repositories) ([]domain.ScooterPayment, error) {
		return r.Payments.ListUnpaidByDates(ctx, []time.Time{today})
	})
	if err != nil {
		return 0, err
	}
	due := filter(rows, func(c classified) bool {
		return c.Status == domain.StatusPostponed && c.Role == domain.PostponedRescheduled
	})

	return s.sendPerClient(ctx, domain.ReminderPostponed, today, due, func(client domain.Client, items []classified) string {
		var b strings.Builder
		fmt.Fprintf(&b, "%s, your postponed payments are due today:\n", client.FullName)
		var total int32
		for _, c := range items {
			fmt.Fprintf(&b, "- %s %s (moved from %s): %d\n", c.Scooter.Model, c.Scooter.VIN,
				utils.FormatDate(c.Postponement.OriginalDate), c.Amount)
			total += c.Amount
		}
		fmt.Fprintf(&b, "Total: %d", total)
		return b.String()
	})
}

// sendPerClient sends one message per client, skipping clients that already
// got this kind of reminder for the day. It returns the number of messages
// sent.
func (s *reminderService) sendPerClient(ctx context.Context, kind domain.ReminderKind, day time.Time, items []classified, render func(domain.Client, []classified) string) (int, error) {
	byClient := map[int32][]classified{}
	var clientIDs []int32
	for _, c := range items {
		if _, ok := byClient[c.Client.ID]; !ok {
			clientIDs = append(clientIDs, c.Client.ID)
		}
		byClient[c.Client.ID] = append(byClient[c.Client.ID], c)
	}
	sort.Slice(clientIDs, func(i, j int) bool { return clientIDs[i] < clientIDs[j] })

	sent := 0
	for _, id := range clientIDs {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		group := byClient[id]
		client := group[0].Client
		if client.TelegramID == 0 {
			continue
		}

		exists, err := s.noteRepo.Exists(ctx, client.TelegramID, kind, day)
		if err != nil {
			return sent, err
		}
		if exists {
			logger.Debug("Reminder already sent", "clientID", id, "kind", kind)
			continue
		}

		text := render(client, group)
		if err := s.notifier.Send(ctx, client.TelegramID, text); err != nil {
			logger.Error("Failed to send reminder", "clientID", id, "kind", kind, "error", err)
			continue
		}

		clientID := id
		paymentIDs := make([]string, len(group))
		for i, c := range group {
			paymentIDs[i] = fmt.Sprintf("%d", c.ID)
		}
		note := &domain.Notification{
			ClientID:   &clientID,
			ChatID:     client.TelegramID,
			Kind:       kind,
			ForDate:    day,
			Message:    text,
			Attributes: map[string]string{"payment_ids": strings.Join(paymentIDs, ",")},
		}
		if err := s.noteRepo.Create(ctx, note); err != nil {
			logger.Error("Failed to record reminder", "clientID", id, "kind", kind, "error", err)
		}
		sent++
	}
	return sent, nil
}

func filter(items []classified, keep func(classified) bool) []classified {
	var out []classified
	for _, c := range items {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

package engine

import (
	"fmt"
	"sort"
	"time"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/utils"
)

// QuoteOverdue prices every overdue payment in c, adding the late fee per
// payment.
func QuoteOverdue(c domain.Classification, overdueFine int32) domain.Quote {
	q := domain.Quote{Kind: domain.QuoteOverdue, PaymentIDs: []int32{}, Payments: []domain.Payment{}}
	for _, p := range c.Overdue {
		addToQuote(&q, p)
	}
	q.OverdueCount = len(c.Overdue)
	q.OverdueFine = int32(q.OverdueCount) * overdueFine
	q.Total = q.Base + q.OverdueFine
	return q
}

// QuotePostponed prices the open postponements in c. Both the original and
// the rescheduled payment are included; only the rescheduled amount is
// charged since the original is absorbed into it on reconciliation.
func QuotePostponed(c domain.Classification, all []domain.Payment) domain.Quote {
	q := domain.Quote{Kind: domain.QuotePostponed, PaymentIDs: []int32{}, Payments: []domain.Payment{}}
	seen := map[int32]bool{}
	for _, e := range c.Postponed {
		if seen[e.Postponement.ID] {
			continue
		}
		seen[e.Postponement.ID] = true

		for _, date := range []time.Time{e.Postponement.OriginalDate, e.Postponement.RescheduledDate} {
			for _, p := range all {
				if p.ScooterID != e.Postponement.ScooterID || p.IsPaid || !utils.DateOnly(p.DueDate).Equal(utils.DateOnly(date)) {
					continue
				}
				q.PaymentIDs = append(q.PaymentIDs, p.ID)
				q.Payments = append(q.Payments, p)
				if date.Equal(e.Postponement.RescheduledDate) {
					q.Base += p.Amount
				}
			}
		}
	}
	q.Total = q.Base
	return q
}

// QuoteWeeks selects the first weeks unpaid payments of every scooter,
// skipping dates tied to an open postponement. Each selected payment that is
// already past due carries the late fee.
func QuoteWeeks(unpaid []domain.Payment, postponed []domain.Postponement, today time.Time, weeks int, overdueFine int32) (domain.Quote, error) {
	today = utils.DateOnly(today)
	grouped := map[int32][]domain.Payment{}
	var scooterIDs []int32
	for _, p := range unpaid {
		if p.IsPaid {
			continue
		}
		if pp, _ := postponementFor(postponed, p.ScooterID, utils.DateOnly(p.DueDate)); pp != nil {
			continue
		}
		if _, ok := grouped[p.ScooterID]; !ok {
			scooterIDs = append(scooterIDs, p.ScooterID)
		}
		grouped[p.ScooterID] = append(grouped[p.ScooterID], p)
	}
	if len(grouped) == 0 {
		return domain.Quote{}, domain.InvalidStatef("nothing to pay")
	}
	sort.Slice(scooterIDs, func(i, j int) bool { return scooterIDs[i] < scooterIDs[j] })

	maxWeeks := -1
	for _, id := range scooterIDs {
		ps := grouped[id]
		sort.Slice(ps, func(i, j int) bool { return ps[i].DueDate.Before(ps[j].DueDate) })
		if maxWeeks < 0 || len(ps) < maxWeeks {
			maxWeeks = len(ps)
		}
	}
	if weeks < 1 || weeks > maxWeeks {
		return domain.Quote{MaxWeeks: maxWeeks}, fmt.Errorf("%w: weeks must be between 1 and %d, got %d", domain.ErrValidation, maxWeeks, weeks)
	}

	q := domain.Quote{Kind: domain.QuoteWeeks, Weeks: weeks, MaxWeeks: maxWeeks, PaymentIDs: []int32{}, Payments: []domain.Payment{}}
	for i := 0; i < weeks; i++ {
		for _, id := range scooterIDs {
			p := grouped[id][i]
			addToQuote(&q, p)
			if utils.DateOnly(p.DueDate).Before(today) {
				q.OverdueCount++
			}
		}
	}
	q.OverdueFine = int32(q.OverdueCount) * overdueFine
	q.Total = q.Base + q.OverdueFine
	return q, nil
}

func addToQuote(q *domain.Quote, p domain.Payment) {
	q.PaymentIDs = append(q.PaymentIDs, p.ID)
	q.Payments = append(q.Payments, p)
	q.Base += p.Amount
}

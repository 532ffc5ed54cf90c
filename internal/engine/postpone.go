package engine

import (
	"fmt"
	"time"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/utils"
)

// RescheduledAmount is the amount due on the rescheduled date: the deferred
// week, the rescheduled week itself, and the fine.
func RescheduledAmount(weeklyPrice, fine int32) int32 {
	return 2*weeklyPrice + fine
}

// PostponementPlan is what a postponement request writes.
type PostponementPlan struct {
	Postponement domain.Postponement
	Fine         int32
	Amount       int32

	// Existing is the payment already scheduled on the rescheduled date. When
	// nil the payment has to be created.
	Existing *domain.Payment
}

// PlanPostponement validates a request to defer originalDate and computes
// the rescheduled date, fine, and amount. open is the scooter's current
// open postponement, if any.
func PlanPostponement(
	scooter domain.Scooter,
	payments []domain.Payment,
	open *domain.Postponement,
	originalDate time.Time,
	requestedAt time.Time,
	requestDay time.Time,
	fines utils.FineSchedule,
) (PostponementPlan, error) {
	if open != nil && !open.IsClosed {
		return PostponementPlan{}, domain.ErrPostponementActive
	}
	originalDate = utils.DateOnly(originalDate)
	if !utils.IsFriday(originalDate) {
		return PostponementPlan{}, fmt.Errorf("%w: %s", domain.ErrNotFriday, utils.FormatDate(originalDate))
	}
	original := domain.FindByDate(payments, originalDate)
	if original == nil {
		return PostponementPlan{}, domain.NotFoundf("no payment due on %s for scooter %d", utils.FormatDate(originalDate), scooter.ID)
	}
	if original.IsPaid {
		return PostponementPlan{}, domain.InvalidStatef("payment due on %s is already paid", utils.FormatDate(originalDate))
	}
	// Only the next unpaid payment can be moved.
	for _, p := range payments {
		if !p.IsPaid && utils.DateOnly(p.DueDate).Before(originalDate) {
			return PostponementPlan{}, domain.ValidationErrorf("only the next unpaid payment (%s) can be postponed", utils.FormatDate(p.DueDate))
		}
	}

	rescheduled := utils.FirstDueDate(originalDate)
	fine := fines.PostponementFine(requestDay)
	amount := RescheduledAmount(scooter.WeeklyPrice, fine)

	plan := PostponementPlan{
		Postponement: domain.Postponement{
			ScooterID:       scooter.ID,
			OriginalDate:    originalDate,
			RescheduledDate: rescheduled,
			WithFine:        fine > 0,
			FineAmount:      fine,
			RequestedAt:     requestedAt,
		},
		Fine:   fine,
		Amount: amount,
	}

	if existing := domain.FindByDate(payments, rescheduled); existing != nil {
		e := *existing
		plan.Existing = &e
		if e.IsPaid && e.Amount > amount {
			plan.Amount = e.Amount
		}
	}
	return plan, nil
}

// PlanCloseIfBothPaid reports whether an open postponement can be closed and
// returns the original payment whose amount is absorbed into the
// rescheduled one.
func PlanCloseIfBothPaid(open *domain.Postponement, payments []domain.Payment) (bool, *domain.Payment) {
	if open == nil || open.IsClosed {
		return false, nil
	}
	original := domain.FindByDate(payments, utils.DateOnly(open.OriginalDate))
	rescheduled := domain.FindByDate(payments, utils.DateOnly(open.RescheduledDate))
	if original == nil || rescheduled == nil {
		return false, nil
	}
	if !original.IsPaid || !rescheduled.IsPaid {
		return false, nil
	}
	return true, original
}

// MatchForClose returns the open postponement whose original or rescheduled
// date equals date.
func MatchForClose(postponements []domain.Postponement, date time.Time) (*domain.Postponement, error) {
	date = utils.DateOnly(date)
	for i := range postponements {
		p := &postponements[i]
		if !p.IsClosed && p.Matches(date) {
			return p, nil
		}
	}
	return nil, domain.NotFoundf("no open postponement matches %s", utils.FormatDate(date))
}

// Preview returns what a request would produce without validating that no
// postponement is open. If one is open it is returned instead.
func Preview(scooter domain.Scooter, open *domain.Postponement, originalDate, requestedAt, requestDay time.Time, fines utils.FineSchedule) domain.PostponementResult {
	if open != nil && !open.IsClosed {
		return domain.PostponementResult{
			Postponement:    *open,
			RescheduledDate: open.RescheduledDate,
			Fine:            open.FineAmount,
			Amount:          RescheduledAmount(scooter.WeeklyPrice, open.FineAmount),
			AlreadyOpen:     true,
		}
	}
	originalDate = utils.DateOnly(originalDate)
	fine := fines.PostponementFine(requestDay)
	rescheduled := utils.FirstDueDate(originalDate)
	return domain.PostponementResult{
		Postponement: domain.Postponement{
			ScooterID:       scooter.ID,
			OriginalDate:    originalDate,
			RescheduledDate: rescheduled,
			WithFine:        fine > 0,
			FineAmount:      fine,
			RequestedAt:     requestedAt,
		},
		RescheduledDate: rescheduled,
		Fine:            fine,
		Amount:          RescheduledAmount(scooter.WeeklyPrice, fine),
	}
}

// Result converts a plan into the caller-facing result.
func (p PostponementPlan) Result() domain.PostponementResult {
	return domain.PostponementResult{
		Postponement:    p.Postponement,
		RescheduledDate: p.Postponement.RescheduledDate,
		Fine:            p.Fine,
		Amount:          p.Amount,
	}
}

package engine

import (
	"fmt"
	"slices"
	"time"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/utils"
)

// RefreshPlan describes how the unpaid tail of a schedule is rebuilt.
type RefreshPlan struct {
	Anchor    time.Time
	Remaining int
	Delete    []int32
	Insert    []domain.NewPayment
}

// PlanRefresh rebuilds the unpaid tail of a scooter's schedule. Paid
// payments are never part of the plan. The unpaid original-date row of an
// open postponement is kept as is, so the postponement can still close once
// both dates are paid. When its rescheduled date falls in the new tail, that
// row keeps the postponement amount.
func PlanRefresh(scooter domain.Scooter, payments []domain.Payment, open *domain.Postponement, totalWeeks int, price int32) (RefreshPlan, error) {
	if totalWeeks < 1 {
		return RefreshPlan{}, fmt.Errorf("%w: got %d", domain.ErrNonPositiveWeeks, totalWeeks)
	}
	if price <= 0 {
		return RefreshPlan{}, domain.ValidationErrorf("weekly price must be positive, got %d", price)
	}

	var anchor time.Time
	if latest := domain.LatestPaid(payments); latest != nil {
		anchor = utils.DateOnly(latest.DueDate).AddDate(0, 0, 7)
	} else if scooter.IssueDate != nil {
		anchor = utils.FirstDueDate(*scooter.IssueDate)
	} else {
		return RefreshPlan{}, domain.ErrMissingAnchor
	}

	remaining := totalWeeks
	if scooter.IsBuyout() {
		remaining = totalWeeks - domain.CountPaid(payments)
	}

	active := open != nil && !open.IsClosed
	var kept *domain.Payment
	if active {
		if orig := domain.FindByDate(payments, utils.DateOnly(open.OriginalDate)); orig != nil && !orig.IsPaid {
			kept = orig
		}
	}

	plan := RefreshPlan{Anchor: anchor, Remaining: max(remaining, 0)}
	for _, p := range payments {
		if !p.IsPaid && (kept == nil || p.ID != kept.ID) {
			plan.Delete = append(plan.Delete, p.ID)
		}
	}
	if plan.Remaining == 0 {
		return plan, nil
	}

	dates, err := utils.FridaysFrom(anchor, plan.Remaining)
	if err != nil {
		return RefreshPlan{}, err
	}
	if kept != nil {
		dates = slices.DeleteFunc(dates, func(d time.Time) bool {
			return d.Equal(utils.DateOnly(kept.DueDate))
		})
	}
	plan.Insert = newPayments(scooter.ID, dates, price)

	if active {
		for i := range plan.Insert {
			if plan.Insert[i].DueDate.Equal(utils.DateOnly(open.RescheduledDate)) {
				plan.Insert[i].Amount = RescheduledAmount(price, open.FineAmount)
			}
		}
	}
	return plan, nil
}

// Tail returns the dates a refresh would produce, for comparing plans.
func (p RefreshPlan) Tail() []time.Time {
	out := make([]time.Time, len(p.Insert))
	for i, np := range p.Insert {
		out[i] = np.DueDate
	}
	return out
}

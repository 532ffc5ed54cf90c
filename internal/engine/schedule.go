// Package engine holds the payment schedule rules. Every function here is a
// pure function of its inputs; persistence and locking live in the service
// and repository layers.
package engine

import (
	"fmt"
	"time"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/utils"
)

// GenerateSchedule returns weeks Friday due dates for an anchor date.
func GenerateSchedule(anchor time.Time, weeks int) ([]time.Time, error) {
	return utils.NextFridays(anchor, weeks)
}

func newPayments(scooterID int32, dates []time.Time, amount int32) []domain.NewPayment {
	out := make([]domain.NewPayment, len(dates))
	for i, d := range dates {
		out[i] = domain.NewPayment{ScooterID: scooterID, DueDate: d, Amount: amount}
	}
	return out
}

// PlanContract returns the initial schedule for a freshly signed contract.
func PlanContract(scooter domain.Scooter, defaultWeeks int) ([]domain.NewPayment, error) {
	if err := scooter.Validate(); err != nil {
		return nil, err
	}
	if scooter.IssueDate == nil {
		return nil, domain.ErrMissingAnchor
	}
	dates, err := GenerateSchedule(*scooter.IssueDate, scooter.TotalWeeks(defaultWeeks))
	if err != nil {
		return nil, err
	}
	return newPayments(scooter.ID, dates, scooter.WeeklyPrice), nil
}

// PlanExtend returns a renewal batch of weeks payments starting after the
// last existing due date.
func PlanExtend(scooter domain.Scooter, existing []domain.Payment, weeks int) ([]domain.NewPayment, error) {
	if weeks < 1 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrNonPositiveWeeks, weeks)
	}
	last, ok := domain.LastDueDate(existing)
	if !ok {
		return nil, domain.ErrNoSchedule
	}
	dates, err := GenerateSchedule(last.AddDate(0, 0, 1), weeks)
	if err != nil {
		return nil, err
	}
	return newPayments(scooter.ID, dates, scooter.WeeklyPrice), nil
}

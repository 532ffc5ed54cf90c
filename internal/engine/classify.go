package engine

import (
	"sort"
	"time"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/utils"
)

// Classify partitions the unpaid payments in payments relative to today.
// open holds the open postponements of the scooters the payments belong to.
func Classify(payments []domain.Payment, open []domain.Postponement, today time.Time) domain.Classification {
	today = utils.DateOnly(today)
	c := domain.Classification{
		Today:     today,
		Overdue:   []domain.Payment{},
		DueToday:  []domain.Payment{},
		Upcoming:  []domain.Payment{},
		Postponed: []domain.PostponedEntry{},
	}

	sorted := make([]domain.Payment, len(payments))
	copy(sorted, payments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].DueDate.Equal(sorted[j].DueDate) {
			return sorted[i].DueDate.Before(sorted[j].DueDate)
		}
		return sorted[i].ScooterID < sorted[j].ScooterID
	})

	for _, p := range sorted {
		if p.IsPaid {
			continue
		}
		due := utils.DateOnly(p.DueDate)

		if pp, role := postponementFor(open, p.ScooterID, due); pp != nil {
			if role == domain.PostponedOriginal || !due.Before(today) {
				c.Postponed = append(c.Postponed, domain.PostponedEntry{Payment: p, Postponement: *pp, Role: role})
				continue
			}
		}

		switch {
		case due.Before(today):
			c.Overdue = append(c.Overdue, p)
		case due.Equal(today):
			c.DueToday = append(c.DueToday, p)
		default:
			c.Upcoming = append(c.Upcoming, p)
		}
	}
	return c
}

func postponementFor(open []domain.Postponement, scooterID int32, due time.Time) (*domain.Postponement, domain.PostponedRole) {
	for i := range open {
		pp := &open[i]
		if pp.IsClosed || pp.ScooterID != scooterID {
			continue
		}
		if utils.DateOnly(pp.OriginalDate).Equal(due) {
			return pp, domain.PostponedOriginal
		}
		if utils.DateOnly(pp.RescheduledDate).Equal(due) {
			return pp, domain.PostponedRescheduled
		}
	}
	return nil, ""
}

// Annotation is the bucket a payment landed in.
type Annotation struct {
	Status       domain.PaymentStatus
	Role         domain.PostponedRole
	Postponement *domain.Postponement
}

// Annotate indexes the classified payments by id. Payments missing from the
// index were paid when c was computed.
func Annotate(c domain.Classification) map[int32]Annotation {
	idx := make(map[int32]Annotation, len(c.Overdue)+len(c.DueToday)+len(c.Upcoming)+len(c.Postponed))
	for _, p := range c.Overdue {
		idx[p.ID] = Annotation{Status: domain.StatusOverdue}
	}
	for _, p := range c.DueToday {
		idx[p.ID] = Annotation{Status: domain.StatusDueToday}
	}
	for _, p := range c.Upcoming {
		idx[p.ID] = Annotation{Status: domain.StatusUpcoming}
	}
	for _, e := range c.Postponed {
		pp := e.Postponement
		idx[e.Payment.ID] = Annotation{Status: domain.StatusPostponed, Role: e.Role, Postponement: &pp}
	}
	return idx
}

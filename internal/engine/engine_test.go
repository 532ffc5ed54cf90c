package engine

import (
	"time"

	"scooter-rent-backend/internal/domain"
)

func date(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	d := date(s)
	return &d
}

// weekly builds consecutive Friday payments starting at first; the first
// paid entries are marked paid.
func weekly(scooterID int32, first string, n, paid int, amount int32) []domain.Payment {
	start := date(first)
	out := make([]domain.Payment, n)
	for i := range out {
		out[i] = domain.Payment{
			ID:        int32(i + 1),
			ScooterID: scooterID,
			DueDate:   start.AddDate(0, 0, 7*i),
			Amount:    amount,
		}
		if i < paid {
			paidAt := out[i].DueDate.Add(10 * time.Hour)
			out[i].IsPaid = true
			out[i].PaidAt = &paidAt
		}
	}
	return out
}

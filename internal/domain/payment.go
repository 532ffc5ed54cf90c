package domain

import "time"

type Payment struct {
	ID        int32      `json:"id"`
	ScooterID int32      `json:"scooter_id"`
	DueDate   time.Time  `json:"due_date"`
	Amount    int32      `json:"amount"`
	IsPaid    bool       `json:"is_paid"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

// NewPayment is a row to be inserted into a schedule.
type NewPayment struct {
	ScooterID int32
	DueDate   time.Time
	Amount    int32
}

// ScooterPayment is a payment joined with the contract and client it
// belongs to. Used by cross-client reports and reminders.
type ScooterPayment struct {
	Payment
	Scooter Scooter `json:"scooter"`
	Client  Client  `json:"client"`
}

// MarkPaidResult reports what a payment confirmation changed.
type MarkPaidResult struct {
	Paid []Payment `json:"paid"`
	// ClosedPostponements lists the postponements reconciled as a result.
	ClosedPostponements []int32 `json:"closed_postponements"`
}

// LatestPaid returns the paid payment with the greatest due date, or nil.
func LatestPaid(payments []Payment) *Payment {
	var latest *Payment
	for i := range payments {
		p := &payments[i]
		if !p.IsPaid {
			continue
		}
		if latest == nil || p.DueDate.After(latest.DueDate) {
			latest = p
		}
	}
	return latest
}

func CountPaid(payments []Payment) int {
	n := 0
	for _, p := range payments {
		if p.IsPaid {
			n++
		}
	}
	return n
}

// LastDueDate returns the greatest due date in payments, paid or not.
func LastDueDate(payments []Payment) (time.Time, bool) {
	var last time.Time
	found := false
	for _, p := range payments {
		if !found || p.DueDate.After(last) {
			last = p.DueDate
			found = true
		}
	}
	return last, found
}

// FindByDate returns the payment due on date, if any.
func FindByDate(payments []Payment, date time.Time) *Payment {
	for i := range payments {
		if payments[i].DueDate.Equal(date) {
			return &payments[i]
		}
	}
	return nil
}

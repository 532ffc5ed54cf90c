package domain

import "time"

type PostponedRole string

const (
	PostponedOriginal    PostponedRole = "ORIGINAL"
	PostponedRescheduled PostponedRole = "RESCHEDULED"
)

type PostponedEntry struct {
	Payment      Payment       `json:"payment"`
	Postponement Postponement  `json:"postponement"`
	Role         PostponedRole `json:"role"`
}

// Classification partitions unpaid payments relative to a day. The buckets
// are disjoint. The original date of an open postponement is never overdue;
// its rescheduled date is listed under Postponed until it has passed.
type Classification struct {
	Today     time.Time        `json:"today"`
	Overdue   []Payment        `json:"overdue"`
	DueToday  []Payment        `json:"due_today"`
	Upcoming  []Payment        `json:"upcoming"`
	Postponed []PostponedEntry `json:"postponed"`
}

type QuoteKind string

const (
	QuoteWeeks     QuoteKind = "WEEKS"
	QuoteOverdue   QuoteKind = "OVERDUE"
	QuotePostponed QuoteKind = "POSTPONED"
)

// Quote is the amount a client is asked to pay and the payments it covers.
type Quote struct {
	Kind         QuoteKind `json:"kind"`
	PaymentIDs   []int32   `json:"payment_ids"`
	Payments     []Payment `json:"payments"`
	Weeks        int       `json:"weeks,omitempty"`
	MaxWeeks     int       `json:"max_weeks,omitempty"`
	Base         int32     `json:"base"`
	OverdueCount int       `json:"overdue_count"`
	OverdueFine  int32     `json:"overdue_fine"`
	Total        int32     `json:"total"`
}

type PaymentStatus string

const (
	StatusOverdue   PaymentStatus = "OVERDUE"
	StatusDueToday  PaymentStatus = "DUE_TODAY"
	StatusUpcoming  PaymentStatus = "UPCOMING"
	StatusPostponed PaymentStatus = "POSTPONED"
	StatusPaid      PaymentStatus = "PAID"
)

// DashboardEntry is one unpaid payment on the admin dashboard.
type DashboardEntry struct {
	ScooterPayment
	Status       PaymentStatus `json:"status"`
	Role         PostponedRole `json:"postponed_role,omitempty"`
	Postponement *Postponement `json:"postponement,omitempty"`
}

// UnpaidDashboard lists unpaid payments due on the last and the next Friday
// relative to Today.
type UnpaidDashboard struct {
	Today      time.Time        `json:"today"`
	LastFriday time.Time        `json:"last_friday"`
	NextFriday time.Time        `json:"next_friday"`
	Entries    []DashboardEntry `json:"entries"`
}

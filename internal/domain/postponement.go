package domain

import (
	"encoding/json"
	"sort"
	"time"
)

const DateLayout = "2006-01-02"

type PostponementState string

const (
	PostponementNone   PostponementState = "NONE"
	PostponementOpen   PostponementState = "OPEN"
	PostponementClosed PostponementState = "CLOSED"
)

// Postponement defers one due date of a scooter to the following Friday.
// At most one row per scooter has IsClosed == false.
type Postponement struct {
	ID              int32      `json:"id"`
	ScooterID       int32      `json:"scooter_id"`
	OriginalDate    time.Time  `json:"original_date"`
	RescheduledDate time.Time  `json:"rescheduled_date"`
	WithFine        bool       `json:"with_fine"`
	FineAmount      int32      `json:"fine_amount"`
	IsClosed        bool       `json:"is_closed"`
	RequestedAt     time.Time  `json:"requested_at"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
}

func (p *Postponement) State() PostponementState {
	if p == nil {
		return PostponementNone
	}
	if p.IsClosed {
		return PostponementClosed
	}
	return PostponementOpen
}

// Matches reports whether date is either end of the postponement.
func (p *Postponement) Matches(date time.Time) bool {
	return p.OriginalDate.Equal(date) || p.RescheduledDate.Equal(date)
}

// PostponementResult is returned to the caller after a request or a preview.
type PostponementResult struct {
	Postponement    Postponement `json:"postponement"`
	RescheduledDate time.Time    `json:"rescheduled_date"`
	Fine            int32        `json:"fine"`
	Amount          int32        `json:"amount"`
	AlreadyOpen     bool         `json:"already_open,omitempty"`
}

// PostponedDates is the set of original and rescheduled dates of open
// postponements across a client's scooters.
type PostponedDates struct {
	original    map[string]bool
	rescheduled map[string]bool
}

func NewPostponedDates(open ...Postponement) PostponedDates {
	d := PostponedDates{
		original:    map[string]bool{},
		rescheduled: map[string]bool{},
	}
	for _, p := range open {
		d.Add(p)
	}
	return d
}

func (d PostponedDates) Add(p Postponement) {
	if p.IsClosed {
		return
	}
	d.original[dateKey(p.OriginalDate)] = true
	d.rescheduled[dateKey(p.RescheduledDate)] = true
}

func (d PostponedDates) IsOriginal(date time.Time) bool {
	return d.original[dateKey(date)]
}

func (d PostponedDates) IsRescheduled(date time.Time) bool {
	return d.rescheduled[dateKey(date)]
}

func (d PostponedDates) Contains(date time.Time) bool {
	return d.IsOriginal(date) || d.IsRescheduled(date)
}

// Lists returns both sets as sorted yyyy-mm-dd strings.
func (d PostponedDates) Lists() (original, rescheduled []string) {
	return sortedKeys(d.original), sortedKeys(d.rescheduled)
}

func (d PostponedDates) MarshalJSON() ([]byte, error) {
	orig, resched := d.Lists()
	return json.Marshal(struct {
		Original    []string `json:"original"`
		Rescheduled []string `json:"rescheduled"`
	}{orig, resched})
}

func dateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

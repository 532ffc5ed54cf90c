package domain

import "time"

type ReminderKind string

const (
	ReminderDueToday      ReminderKind = "DUE_TODAY"
	ReminderOverdue       ReminderKind = "OVERDUE"
	ReminderPostponed     ReminderKind = "POSTPONED"
	ReminderPostponeAdmin ReminderKind = "POSTPONE_ADMIN"
)

// Notification is a reminder delivered to a client (or admin) chat. Sent
// reminders are recorded so that a job re-run on the same day does not
// message a client twice.
type Notification struct {
	ID         int32             `json:"id"`
	ClientID   *int32            `json:"client_id,omitempty"`
	ChatID     int64             `json:"chat_id"`
	Kind       ReminderKind      `json:"kind"`
	ForDate    time.Time         `json:"for_date"`
	Message    string            `json:"message"`
	Attributes map[string]string `json:"attributes,omitempty"`
	SentAt     time.Time         `json:"sent_at"`
}

package domain

import "time"

// PendingConfirmation is a client's "I paid" claim waiting for an admin to
// confirm it. It expires after a configured TTL.
type PendingConfirmation struct {
	Key        string    `json:"key"`
	ClientID   int32     `json:"client_id"`
	PaymentIDs []int32   `json:"payment_ids"`
	Total      int32     `json:"total"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func (c *PendingConfirmation) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

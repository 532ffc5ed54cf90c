package domain

import "time"

type Client struct {
	ID         int32     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Username   string    `json:"username,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Admin is a back-office operator allowed to call the admin API.
type Admin struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	TelegramID   int64  `json:"telegram_id,omitempty"`
}

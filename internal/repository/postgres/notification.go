package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/logger"
	"scooter-rent-backend/internal/repository"
	"scooter-rent-backend/internal/utils"
)

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	logger.EnterMethod("notificationRepository.Create", "chatID", n.ChatID, "kind", n.Kind)

	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "reason", "failed to marshal attributes")
		return err
	}

	var clientID sql.NullInt32
	if n.ClientID != nil {
		clientID = sql.NullInt32{Int32: *n.ClientID, Valid: true}
	}
	if n.SentAt.IsZero() {
		n.SentAt = time.Now()
	}

	query := `INSERT INTO notifications (client_id, chat_id, kind, for_date, message, attributes, sent_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	logger.DatabaseCall("INSERT", "notifications", "chatID", n.ChatID, "kind", n.Kind)
	err = r.db.QueryRowContext(ctx, query, clientID, n.ChatID, n.Kind, utils.DateOnly(n.ForDate), n.Message, attrs, n.SentAt).Scan(&n.ID)
	logger.DatabaseResult("INSERT", 1, err, "notificationID", n.ID)

	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "chatID", n.ChatID)
		return mapError(err)
	}
	logger.ExitMethod("notificationRepository.Create", "notificationID", n.ID)
	return nil
}

func (r *notificationRepository) Exists(ctx context.Context, chatID int64, kind domain.ReminderKind, forDate time.Time) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM notifications WHERE chat_id = $1 AND kind = $2 AND for_date = $3)`
	err := r.db.QueryRowContext(ctx, query, chatID, kind, utils.DateOnly(forDate)).Scan(&exists)
	return exists, err
}

func (r *notificationRepository) ListByClient(ctx context.Context, clientID int32, limit int32) ([]domain.Notification, error) {
	query := `SELECT id, client_id, chat_id, kind, for_date, message, attributes, sent_at
	          FROM notifications WHERE client_id = $1 ORDER BY sent_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, clientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		var cid sql.NullInt32
		var attrs []byte
		if err := rows.Scan(&n.ID, &cid, &n.ChatID, &n.Kind, &n.ForDate, &n.Message, &attrs, &n.SentAt); err != nil {
			return nil, err
		}
		if cid.Valid {
			id := cid.Int32
			n.ClientID = &id
		}
		n.ForDate = utils.DateOnly(n.ForDate)
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, err
			}
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

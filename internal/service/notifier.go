package service

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"scooter-rent-backend/internal/logger"
)

type telegramNotifier struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramNotifier authorizes the bot token and returns a notifier that
// sends plain text messages.
func NewTelegramNotifier(token string) (Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	logger.Info("Telegram bot authorized", "username", bot.Self.UserName)
	return &telegramNotifier{bot: bot}, nil
}

func (n *telegramNotifier) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger.ExternalServiceCall("telegram", "sendMessage", "chatID", chatID)
	_, err := n.bot.Send(tgbotapi.NewMessage(chatID, text))
	logger.ExternalServiceResult("telegram", "sendMessage", err, "chatID", chatID)
	return err
}

type logNotifier struct{}

// NewLogNotifier returns a notifier that only logs. Used when Telegram is
// disabled.
func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) Send(ctx context.Context, chatID int64, text string) error {
	logger.Info("Notification (telegram disabled)", "chatID", chatID, "text", text)
	return nil
}

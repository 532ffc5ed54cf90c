package jobs

import (
	"context"

	"scooter-rent-backend/internal/logger"
	"scooter-rent-backend/internal/utils"
)

// SendDueTodayReminders messages clients whose weekly payments are due today.
// It does nothing on days other than Friday.
func (jr *JobRunner) SendDueTodayReminders() {
	jr.runWithRecovery("SendDueTodayReminders", func(ctx context.Context) {
		today := jr.today()
		sent, err := jr.services.Reminder.SendDueToday(ctx, today)
		if err != nil {
			logger.Error("Failed to send due-today reminders", "date", utils.FormatDate(today), "sent", sent, "error", err)
			return
		}
		logger.Info("Sent due-today reminders", "date", utils.FormatDate(today), "count", sent)
	})
}

// SendOverdueReminders messages clients with payments past their due date.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func(ctx context.Context) {
		today := jr.today()
		sent, err := jr.services.Reminder.SendOverdue(ctx, today)
		if err != nil {
			logger.Error("Failed to send overdue reminders", "date", utils.FormatDate(today), "sent", sent, "error", err)
			return
		}
		logger.Info("Sent overdue reminders", "date", utils.FormatDate(today), "count", sent)
	})
}

// SendPostponedReminders messages clients whose postponed payment falls due
// today.
func (jr *JobRunner) SendPostponedReminders() {
	jr.runWithRecovery("SendPostponedReminders", func(ctx context.Context) {
		today := jr.today()
		sent, err := jr.services.Reminder.SendPostponed(ctx, today)
		if err != nil {
			logger.Error("Failed to send postponed reminders", "date", utils.FormatDate(today), "sent", sent, "error", err)
			return
		}
		logger.Info("Sent postponed reminders", "date", utils.FormatDate(today), "count", sent)
	})
}

package jobs

import (
	"context"
	"fmt"
	"sort"
	"time"

	"scooter-rent-backend/internal/config"
	"scooter-rent-backend/internal/logger"
	"scooter-rent-backend/internal/service"
	"scooter-rent-backend/internal/utils"
)

// jobTimeout bounds a single job run.
const jobTimeout = 10 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
	now      func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Reminder     service.ReminderService
	Postponement service.PostponementService
	Confirmation service.ConfirmationService
	Export       service.ExportService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
		now:      time.Now,
	}
}

// Config returns the configuration the runner was built with.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// today is the current date in the business time zone.
func (jr *JobRunner) today() time.Time {
	return utils.Today(jr.now(), jr.config.Location())
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	log := logger.WithJob(jobName)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := jr.now()
	log.Info("Starting job")
	jobFunc(ctx)
	log.Info("Job completed", "duration", jr.now().Sub(start).String())
}

// jobs maps the names accepted by RunByName to job functions.
func (jr *JobRunner) jobs() map[string]func() {
	return map[string]func(){
		"send-due-today-reminders": jr.SendDueTodayReminders,
		"send-overdue-reminders":   jr.SendOverdueReminders,
		"send-postponed-reminders": jr.SendPostponedReminders,
		"reconcile-postponements":  jr.ReconcilePostponements,
		"expire-confirmations":     jr.ExpireConfirmations,
		"export-schedules":         jr.ExportSchedules,
		"all-daily":                jr.RunAllDailyJobs,
	}
}

// JobNames lists the names accepted by RunByName.
func (jr *JobRunner) JobNames() []string {
	names := make([]string, 0, len(jr.jobs()))
	for name := range jr.jobs() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunByName runs a single job (for manual execution)
func (jr *JobRunner) RunByName(name string) error {
	job, ok := jr.jobs()[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	job()
	return nil
}

// RunAllDailyJobs runs all daily jobs (for manual execution)
func (jr *JobRunner) RunAllDailyJobs() {
	jr.ReconcilePostponements()
	jr.ExpireConfirmations()
	jr.SendDueTodayReminders()
	jr.SendPostponedReminders()
	jr.SendOverdueReminders()
	jr.ExportSchedules()
}

package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"scooter-rent-backend/internal/logger"
	"scooter-rent-backend/internal/utils"
)

// ExportSchedules writes the workbook of all rental schedules to the export
// directory, one file per day. A re-run on the same day overwrites the file.
func (jr *JobRunner) ExportSchedules() {
	jr.runWithRecovery("ExportSchedules", func(ctx context.Context) {
		if _, err := jr.exportSchedules(ctx); err != nil {
			logger.Error("Failed to export schedules", "error", err)
		}
	})
}

func (jr *JobRunner) exportSchedules(ctx context.Context) (string, error) {
	today := jr.today()
	data, err := jr.services.Export.ExportSchedules(ctx, today)
	if err != nil {
		return "", err
	}

	dir := jr.config.Export.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("schedules-%s.xlsx", utils.FormatDate(today)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}

	logger.Info("Exported schedules", "path", path, "bytes", len(data))
	return path, nil
}

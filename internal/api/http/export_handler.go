package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"scooter-rent-backend/internal/logger"
	"scooter-rent-backend/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportSchedules streams the schedule workbook as an attachment.
func (h *Handlers) ExportSchedules(w http.ResponseWriter, r *http.Request) {
	today, err := todayParam(r)
	if err != nil {
		handleError(w, err)
		return
	}

	data, err := h.Export.ExportSchedules(r.Context(), today)
	if err != nil {
		handleError(w, err)
		return
	}

	name := "schedules.xlsx"
	if !today.IsZero() {
		name = fmt.Sprintf("schedules-%s.xlsx", utils.FormatDate(today))
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Warn("Failed to write export", "error", err)
	}
}

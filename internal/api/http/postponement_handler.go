package http

import (
	"context"
	"net/http"
	"time"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/logger"
)

type postponementRequest struct {
	OriginalDate string `json:"original_date"`
	RequestedAt  string `json:"requested_at"`
}

func (req postponementRequest) parse() (time.Time, time.Time, error) {
	original, err := parseDate(req.OriginalDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if original.IsZero() {
		return time.Time{}, time.Time{}, domain.ValidationErrorf("original_date is required")
	}
	requestedAt, err := parseTimestamp(req.RequestedAt)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return original, requestedAt, nil
}

type postponeFunc func(ctx context.Context, scooterID int32, originalDate, requestedAt time.Time) (domain.PostponementResult, error)

func (h *Handlers) RequestPostponement(w http.ResponseWriter, r *http.Request) {
	h.postpone(w, r, h.Postponements.Request, http.StatusCreated)
}

func (h *Handlers) PreviewPostponement(w http.ResponseWriter, r *http.Request) {
	h.postpone(w, r, h.Postponements.Preview, http.StatusOK)
}

func (h *Handlers) postpone(w http.ResponseWriter, r *http.Request, fn postponeFunc, status int) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}
	var req postponementRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}
	original, requestedAt, err := req.parse()
	if err != nil {
		handleError(w, err)
		return
	}

	result, err := fn(r.Context(), id, original, requestedAt)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, status, result)
}

type activePostponementResponse struct {
	State        domain.PostponementState `json:"state"`
	Postponement *domain.Postponement     `json:"postponement,omitempty"`
}

func (h *Handlers) ActivePostponement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}
	open, err := h.Postponements.Active(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activePostponementResponse{State: open.State(), Postponement: open})
}

func (h *Handlers) ReconcilePostponement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}
	closed, err := h.Postponements.CloseIfBothPaid(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"closed": closed})
}

type closePostponementRequest struct {
	Date string `json:"date"`
}

func (h *Handlers) ClosePostponement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}
	var req closePostponementRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		handleError(w, err)
		return
	}
	if date.IsZero() {
		handleError(w, domain.ValidationErrorf("date is required"))
		return
	}

	closed, err := h.Postponements.AdministrativeClose(r.Context(), id, date)
	if err != nil {
		handleError(w, err)
		return
	}
	admin, _ := AdminFromContext(r.Context())
	logger.Info("Postponement closed administratively", "scooter_id", id, "postponement_id", closed.ID, "admin", admin)
	writeJSON(w, http.StatusOK, closed)
}

func (h *Handlers) ClientPostponedDates(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}
	dates, err := h.Postponements.PostponedDateSets(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

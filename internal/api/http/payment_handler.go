package http

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"scooter-rent-backend/internal/domain"
)

type quoteRequest struct {
	Kind  domain.QuoteKind `json:"kind"` // WEEKS (default), OVERDUE, POSTPONED
	Weeks int              `json:"weeks"`
	Today string           `json:"today"`
}

func (h *Handlers) ClientQuote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}
	var req quoteRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}
	today, err := parseDate(req.Today)
	if err != nil {
		handleError(w, err)
		return
	}

	var q domain.Quote
	switch domain.QuoteKind(strings.ToUpper(string(req.Kind))) {
	case "", domain.QuoteWeeks:
		q, err = h.Payments.QuoteWeeks(r.Context(), id, today, req.Weeks)
	case domain.QuoteOverdue:
		q, err = h.Payments.QuoteOverdue(r.Context(), id, today)
	case domain.QuotePostponed:
		q, err = h.Payments.QuotePostponed(r.Context(), id, today)
	default:
		err = domain.ValidationErrorf("unknown quote kind %q", req.Kind)
	}
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

type createConfirmationRequest struct {
	ClientID   int32   `json:"client_id"`
	PaymentIDs []int32 `json:"payment_ids"`
}

func (h *Handlers) CreateConfirmation(w http.ResponseWriter, r *http.Request) {
	var req createConfirmationRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}
	conf, err := h.Confirmations.Create(r.Context(), req.ClientID, req.PaymentIDs)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conf)
}

func (h *Handlers) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	result, err := h.Confirmations.Confirm(r.Context(), key)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type markPaidRequest struct {
	PaymentIDs []int32 `json:"payment_ids"`
}

func (h *Handlers) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req markPaidRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}
	result, err := h.Payments.MarkPaid(r.Context(), req.PaymentIDs)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) UnpaidDashboard(w http.ResponseWriter, r *http.Request) {
	today, err := todayParam(r)
	if err != nil {
		handleError(w, err)
		return
	}
	dash, err := h.Schedule.UnpaidDashboard(r.Context(), today)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

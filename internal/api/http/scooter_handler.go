package http

import (
	"net/http"

	"scooter-rent-backend/internal/domain"
)

type createClientRequest struct {
	TelegramID int64  `json:"telegram_id"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Username   string `json:"username"`
}

func (h *Handlers) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}
	client := &domain.Client{TelegramID: req.TelegramID, FullName: req.FullName, Phone: req.Phone, Username: req.Username}
	if err := h.Clients.CreateClient(r.Context(), client); err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

type createScooterRequest struct {
	ClientID    int32             `json:"client_id"`
	Model       string            `json:"model"`
	VIN         string            `json:"vin"`
	Tariff      domain.TariffKind `json:"tariff"`
	WeeklyPrice int32             `json:"weekly_price"`
	BuyoutWeeks int32             `json:"buyout_weeks"`
	IssueDate   string            `json:"issue_date"`
}

type scheduleResponse struct {
	Scooter  *domain.Scooter  `json:"scooter,omitempty"`
	Payments []domain.Payment `json:"payments"`
}

func (h *Handlers) CreateScooter(w http.ResponseWriter, r *http.Request) {
	var req createScooterRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}
	issue, err := parseDate(req.IssueDate)
	if err != nil {
		handleError(w, err)
		return
	}

	scooter := &domain.Scooter{
		ClientID:    req.ClientID,
		Model:       req.Model,
		VIN:         req.VIN,
		Tariff:      req.Tariff,
		WeeklyPrice: req.WeeklyPrice,
		BuyoutWeeks: req.BuyoutWeeks,
	}
	if !issue.IsZero() {
		scooter.IssueDate = &issue
	}

	payments, err := h.Schedule.CreateContract(r.Context(), scooter)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, scheduleResponse{Scooter: scooter, Payments: payments})
}

type updateScooterRequest struct {
	Model       *string            `json:"model"`
	VIN         *string            `json:"vin"`
	Tariff      *domain.TariffKind `json:"tariff"`
	WeeklyPrice *int32             `json:"weekly_price"`
	BuyoutWeeks *int32             `json:"buyout_weeks"`
	IssueDate   *string            `json:"issue_date"`
}

func (h *Handlers) UpdateScooter(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}
	var req updateScooterRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}

	update := domain.ScooterUpdate{
		Model:       req.Model,
		VIN:         req.VIN,
		Tariff:      req.Tariff,
		WeeklyPrice: req.WeeklyPrice,
		BuyoutWeeks: req.BuyoutWeeks,
	}
	if req.IssueDate != nil {
		issue, err := parseDate(*req.IssueDate)
		if err != nil || issue.IsZero() {
			handleError(w, domain.ValidationErrorf("invalid issue_date %q", *req.IssueDate))
			return
		}
		update.IssueDate = &issue
	}

	scooter, payments, err := h.Schedule.UpdateScooter(r.Context(), id, update)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduleResponse{Scooter: scooter, Payments: payments})
}

type refreshRequest struct {
	TotalWeeks  int   `json:"total_weeks"`
	WeeklyPrice int32 `json:"weekly_price"`
}

// RefreshSchedule rebuilds the unpaid tail. An empty body uses the
// contract's own term and price.
func (h *Handlers) RefreshSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}
	var req refreshRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}

	var payments []domain.Payment
	if req.TotalWeeks == 0 && req.WeeklyPrice == 0 {
		payments, err = h.Schedule.RefreshFromContract(r.Context(), id)
	} else {
		payments, err = h.Schedule.RefreshSchedule(r.Context(), id, req.TotalWeeks, req.WeeklyPrice)
	}
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduleResponse{Payments: payments})
}

type extendRequest struct {
	Weeks int `json:"weeks"`
}

func (h *Handlers) ExtendSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}
	var req extendRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, err)
		return
	}
	payments, err := h.Schedule.ExtendSchedule(r.Context(), id, req.Weeks)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduleResponse{Payments: payments})
}

type classificationResponse struct {
	Payments       []domain.Payment      `json:"payments,omitempty"`
	Classification domain.Classification `json:"classification"`
}

func (h *Handlers) ScooterPayments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}
	today, err := todayParam(r)
	if err != nil {
		handleError(w, err)
		return
	}

	payments, err := h.Schedule.ListPayments(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	c, err := h.Schedule.ClassifyScooter(r.Context(), id, today)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, classificationResponse{Payments: payments, Classification: c})
}

func (h *Handlers) ClientPayments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}
	today, err := todayParam(r)
	if err != nil {
		handleError(w, err)
		return
	}
	c, err := h.Schedule.ClassifyClient(r.Context(), id, today)
	if err != nil {
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, classificationResponse{Classification: c})
}

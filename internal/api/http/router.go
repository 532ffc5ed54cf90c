package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"scooter-rent-backend/internal/security"
)

// NewRouter registers the admin API. Route names key the security levels in
// config.EndpointSecurityConfig.
func NewRouter(h *Handlers, tokens security.TokenManager) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestLogger)
	router.Use(NewAuthMiddleware(tokens).Handler)

	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet).Name("health")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost).Name("login")

	api.HandleFunc("/clients", h.CreateClient).Methods(http.MethodPost).Name("createClient")
	api.HandleFunc("/clients/{id:[0-9]+}/payments", h.ClientPayments).Methods(http.MethodGet).Name("clientPayments")
	api.HandleFunc("/clients/{id:[0-9]+}/postponed-dates", h.ClientPostponedDates).Methods(http.MethodGet).Name("clientPostponedDates")
	api.HandleFunc("/clients/{id:[0-9]+}/quote", h.ClientQuote).Methods(http.MethodPost).Name("clientQuote")

	api.HandleFunc("/scooters", h.CreateScooter).Methods(http.MethodPost).Name("createScooter")
	api.HandleFunc("/scooters/{id:[0-9]+}", h.UpdateScooter).Methods(http.MethodPatch).Name("updateScooter")
	api.HandleFunc("/scooters/{id:[0-9]+}/schedule/refresh", h.RefreshSchedule).Methods(http.MethodPost).Name("refreshSchedule")
	api.HandleFunc("/scooters/{id:[0-9]+}/schedule/extend", h.ExtendSchedule).Methods(http.MethodPost).Name("extendSchedule")
	api.HandleFunc("/scooters/{id:[0-9]+}/payments", h.ScooterPayments).Methods(http.MethodGet).Name("scooterPayments")

	api.HandleFunc("/scooters/{id:[0-9]+}/postponements", h.RequestPostponement).Methods(http.MethodPost).Name("requestPostponement")
	api.HandleFunc("/scooters/{id:[0-9]+}/postponements/preview", h.PreviewPostponement).Methods(http.MethodPost).Name("previewPostponement")
	api.HandleFunc("/scooters/{id:[0-9]+}/postponements/active", h.ActivePostponement).Methods(http.MethodGet).Name("activePostponement")
	api.HandleFunc("/scooters/{id:[0-9]+}/postponements/reconcile", h.ReconcilePostponement).Methods(http.MethodPost).Name("reconcilePostponement")
	api.HandleFunc("/scooters/{id:[0-9]+}/postponements/close", h.ClosePostponement).Methods(http.MethodPost).Name("closePostponement")

	api.HandleFunc("/confirmations", h.CreateConfirmation).Methods(http.MethodPost).Name("createConfirmation")
	api.HandleFunc("/confirmations/{key}/confirm", h.ConfirmPayment).Methods(http.MethodPost).Name("confirmPayment")
	api.HandleFunc("/payments/paid", h.MarkPaid).Methods(http.MethodPost).Name("markPaid")
	api.HandleFunc("/payments/unpaid", h.UnpaidDashboard).Methods(http.MethodGet).Name("unpaidDashboard")

	api.HandleFunc("/export/schedules.xlsx", h.ExportSchedules).Methods(http.MethodGet).Name("exportSchedules")

	return router
}

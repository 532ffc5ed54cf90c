package http

import (
	"scooter-rent-backend/internal/service"
)

// Handlers serves the admin API.
type Handlers struct {
	Auth          service.AuthService
	Clients       service.ClientService
	Schedule      service.ScheduleService
	Postponements service.PostponementService
	Payments      service.PaymentService
	Confirmations service.ConfirmationService
	Export        service.ExportService
}

package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Admin access token required
)

// EndpointSecurityConfig maps route names to their required security level.
// Route names are the names given to gorilla/mux routes.
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Public
	"health": SecurityPublic,
	"login":  SecurityPublic,

	// Clients and contracts
	"createClient":         SecurityAccess,
	"createScooter":        SecurityAccess,
	"updateScooter":        SecurityAccess,
	"refreshSchedule":      SecurityAccess,
	"extendSchedule":       SecurityAccess,
	"scooterPayments":      SecurityAccess,
	"clientPayments":       SecurityAccess,
	"clientPostponedDates": SecurityAccess,
	"clientQuote":          SecurityAccess,

	// Postponements
	"requestPostponement":   SecurityAccess,
	"previewPostponement":   SecurityAccess,
	"activePostponement":    SecurityAccess,
	"reconcilePostponement": SecurityAccess,
	"closePostponement":     SecurityAccess,

	// Payments
	"createConfirmation": SecurityAccess,
	"confirmPayment":     SecurityAccess,
	"markPaid":           SecurityAccess,
	"unpaidDashboard":    SecurityAccess,
	"exportSchedules":    SecurityAccess,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}

package http

import (
	"context"

	"scooter-rent-backend/internal/security"
)

type contextKey string

const adminClaimsKey contextKey = "admin-claims"

func withAdmin(ctx context.Context, claims *security.AdminClaims) context.Context {
	return context.WithValue(ctx, adminClaimsKey, claims)
}

// AdminFromContext returns the authenticated admin's username, if any.
func AdminFromContext(ctx context.Context) (string, bool) {
	claims, ok := ctx.Value(adminClaimsKey).(*security.AdminClaims)
	if !ok || claims == nil {
		return "", false
	}
	return claims.Username, true
}

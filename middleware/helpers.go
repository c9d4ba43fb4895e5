package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/papaya-padel/tournament-system/models"
)

type contextKey string

const callerContextKey contextKey = "caller"

// Имена JWT claims
const (
	jwtClaimUserID = "user_id"
	jwtClaimRole   = "role"
)

var ErrNoCaller = errors.New("caller not found in context")

func WithCaller(ctx context.Context, caller models.Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

// CallerFromContext returns the identity stored by Authenticate.
func CallerFromContext(ctx context.Context) (models.Caller, error) {
	caller, ok := ctx.Value(callerContextKey).(models.Caller)
	if !ok {
		return models.Caller{}, ErrNoCaller
	}
	return caller, nil
}

func roleFromClaim(roleStr string) (models.UserRole, error) {
	if roleStr == "" {
		return "", fmt.Errorf("missing '%s' claim in token", jwtClaimRole)
	}
	role, ok := models.ParseUserRole(roleStr)
	if !ok {
		return "", fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
	return role, nil
}

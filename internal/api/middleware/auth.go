package middleware

import (
	"codecourse/internal/common"
	"codecourse/internal/common/security"
	"codecourse/internal/domain/model"
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey   contextKey = "userID"
	UsernameCtxKey contextKey = "username"
	UserRoleCtxKey contextKey = "userRole"
)

const credentialsDetail = "Could not validate credentials"

// userFromToken reads the identity jwtauth.Verifier left in the context.
func userFromToken(ctx context.Context) (context.Context, bool) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return ctx, false
	}

	username, err := security.GetUsernameFromClaims(claims)
	if err != nil {
		return ctx, false
	}
	userID, err := security.GetUserIDFromClaims(claims)
	if err != nil {
		return ctx, false
	}
	// Tokens minted without a role are treated as students.
	role, err := security.GetUserRoleFromClaims(claims)
	if err != nil {
		role = model.RoleStudent
	}

	ctx = context.WithValue(ctx, UserIDCtxKey, userID)
	ctx = context.WithValue(ctx, UsernameCtxKey, username)
	ctx = context.WithValue(ctx, UserRoleCtxKey, role)
	return ctx, true
}

// Authenticator rejects requests without a valid bearer token.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, ok := userFromToken(r.Context())
		if !ok {
			w.Header().Set("WWW-Authenticate", "Bearer")
			common.RespondWithError(w, http.StatusUnauthorized, credentialsDetail)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalUser attaches the caller's identity when a valid token is present
// and lets anonymous or badly authenticated requests through unchanged.
func OptionalUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, _ := userFromToken(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly must run after Authenticator.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(UserRoleCtxKey).(string)
		if !ok || role != model.RoleAdmin {
			common.RespondWithError(w, http.StatusForbidden, "You do not have administrative privileges")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameCtxKey).(string)
	return username, ok
}

func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	userRole, ok := ctx.Value(UserRoleCtxKey).(string)
	return userRole, ok
}

package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"taskify/internal/common"
	"taskify/internal/domain/model"
)

type contextKey string

const UserCtxKey contextKey = "user"

// UserAuthenticator resolves a bearer token to an active user.
type UserAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// Authenticator rejects requests without a valid bearer token for an active
// user and stores the resolved user in the request context. Every rejection
// produces the same 401 response.
func Authenticator(auth UserAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := jwtauth.TokenFromHeader(r)
			if token == "" {
				common.RespondWithAppError(w, r, common.ErrUnauthorized)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, common.ErrUnauthorized) {
					log.Printf("WARN: rejected token for %s %s: %v", r.Method, r.URL.Path, err)
				}
				common.RespondWithAppError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserCtxKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user stored by Authenticator.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(*model.User)
	return user, ok && user != nil
}

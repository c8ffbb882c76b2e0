package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pumpkin-store/models"
	"pumpkin-store/store"
	"pumpkin-store/utils"
)

// Key type for context
type contextKey string

const userContextKey = contextKey("user")

// Auth verifies the session cookie and enforces role-based access.
type Auth struct {
	Tokens *utils.TokenService
	Users  store.UserStore
}

// NewAuth creates the access guard.
func NewAuth(tokens *utils.TokenService, users store.UserStore) *Auth {
	return &Auth{Tokens: tokens, Users: users}
}

// VerifyUserAuth checks the session cookie, resolves the user from the store
// and attaches it to the request context. A token referencing a deleted user
// yields an empty identity; the role gate rejects it downstream.
func (a *Auth) VerifyUserAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(utils.TokenCookie)
		if err != nil || cookie.Value == "" {
			WriteError(w, utils.NewUnauthorized("Please login to access this resource"))
			return
		}

		claims, err := a.Tokens.Parse(cookie.Value)
		if err != nil {
			WriteError(w, utils.NewUnauthorized("Please login to access this resource"))
			return
		}

		user := &models.User{}
		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err == nil {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			resolved, err := a.Users.FindByID(ctx, id)
			cancel()
			if err != nil && !errors.Is(err, store.ErrNoDocuments) {
				WriteError(w, utils.NewInternal("Internal Server Error"))
				return
			}
			if resolved != nil {
				user = resolved
			}
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects any authenticated user whose role is not in the
// allowed set.
func (a *Auth) RequireRole(roles ...models.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				WriteError(w, utils.NewUnauthorized("Please login to access this resource"))
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			WriteError(w, utils.NewForbidden(fmt.Sprintf("Role - %s is not allowed to access this resource", user.Role)))
		})
	}
}

// UserFromContext returns the authenticated user attached by VerifyUserAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// ContextWithUser is used by tests to seed an authenticated request.
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

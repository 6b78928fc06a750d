package middleware

import (
	"context"
	"net/http"

	"inkwell/internal/models"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

// AuthHeader is the header carrying an API access key as an alternative to
// the session cookie.
const AuthHeader = "Auth-Token"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// userKey is the context key for the authenticated user.
const userKey contextKey = "user"

// Authenticate resolves the request's credential to a user and stores it
// in the request context. An Auth-Token header wins over a session cookie;
// a token that is presented but invalid is rejected outright, even on
// routes that don't require auth. This middleware does NOT enforce
// authentication — RequireUser does.
func Authenticate(users *store.UserStore, sessions *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := r.Header.Get(AuthHeader); token != "" {
				user, err := users.FindByToken(token)
				if err != nil {
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				if user == nil {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
				return
			}

			sess, err := sessions.Get(r.Context(), r)
			if err != nil || sess == nil {
				// No session — continue unauthenticated.
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.FindByID(sess.UserID)
			if err != nil || user == nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

// RequireUser rejects unauthenticated requests with 401. Must be applied
// after Authenticate in the middleware chain.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromCtx(r.Context()) == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromCtx extracts the authenticated user from the request context.
// Returns nil if the request carries no valid credential.
func UserFromCtx(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

func withUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

package middleware

import (
	"context"
	"net/http"

	"github.com/shopgo-app/shopgo/pkg/session"
)

type userIDKey struct{}

// UserID returns the authenticated user's ID from the request context.
// Only set inside routes wrapped by RequireUser / RequireAdmin.
func UserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey{}).(uint)
	return id, ok
}

// RequireUser redirects unauthenticated requests to the login page,
// carrying the original URL so login can bounce back.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)

		uid, ok := sess.GetUint("user_id")
		if !ok || uid == 0 {
			http.Redirect(w, r, "/account/login?return_url="+r.URL.Path, http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin additionally checks the session role; non-admins land on
// the access denied page.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)

		role, _ := sess.GetString("role")
		if role != "admin" {
			http.Redirect(w, r, "/account/access-denied", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	}))
}

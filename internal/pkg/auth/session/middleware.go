package session

import (
	"context"
	"net/http"

	"github.com/ProJug/Grunt/internal/app/user"
	"github.com/ProJug/Grunt/internal/pkg/logx"
)

// Principal is the authenticated identity resolved for a request or
// connection, valid for its whole lifetime.
type Principal struct {
	Username string
	User     user.User
}

// UserResolver maps a username to its current account record.
type UserResolver interface {
	GetUser(username string) (user.User, bool)
}

// contextKey prevents collisions with other packages' context values.
type contextKey string

// contextPrincipalKey stores the resolved *Principal in the request context.
const contextPrincipalKey contextKey = "session_principal"

// Middleware resolves the session cookie into a Principal and injects it
// into the request context. It never interrupts the request: a missing,
// invalid, or dangling session leaves the request anonymous, and each
// handler decides whether that is acceptable.
func Middleware(secretKey string, resolver UserResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, ok := FromRequest(r, secretKey)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			u, exists := resolver.GetUser(username)
			if !exists {
				// Valid token for a deleted account. Treat as anonymous.
				logx.Warn("Session token for unknown account, treating as anonymous", "username", username)
				next.ServeHTTP(w, r)
				return
			}

			principal := &Principal{Username: username, User: u}
			ctx := context.WithValue(r.Context(), contextPrincipalKey, principal)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal extracts the authenticated Principal from the request
// context. A nil return means the request is anonymous.
func GetPrincipal(r *http.Request) *Principal {
	principal, ok := r.Context().Value(contextPrincipalKey).(*Principal)
	if !ok {
		return nil
	}
	return principal
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/dashboard-builder/pkg/logger"
)

// TokenVerifier checks Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Middleware struct {
	AuthClient TokenVerifier
}

func NewMiddleware(client TokenVerifier) *Middleware {
	return &Middleware{AuthClient: client}
}

// context key
type contextKey string

const UIDKey contextKey = "uid"

// FirebaseAuth rejects requests without a valid bearer token.
func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return m.authenticate(next, true)
}

// OptionalAuth lets anonymous requests through with an empty uid, so public and
// password-protected dashboards can be read. A bad token is still rejected.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return m.authenticate(next, false)
}

func (m *Middleware) authenticate(next http.Handler, required bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			if required {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "invalid Authorization header", http.StatusUnauthorized)
			return
		}

		token, err := m.AuthClient.VerifyIDToken(r.Context(), parts[1])
		if err != nil {
			logger.FromContext(r.Context()).Warn("token verification failed", "error", err)
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UIDKey, token.UID)
		_, ctx = logger.With(ctx, "uid", token.UID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Helper to extract UID
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}

// WithUID stores a uid the way the auth middleware does.
func WithUID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, UIDKey, uid)
}

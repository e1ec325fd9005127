package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shoplist/api/internal/auth"
	appErr "github.com/shoplist/api/pkg/errors"
)

// MsgUnauthorized is the body message for requests without a usable token.
const MsgUnauthorized = "Token is missing or invalid."

// TokenParser turns a bearer token into the caller identity.
type TokenParser interface {
	Parse(token string) (auth.Identity, error)
}

// IdentityHandlerFunc is a handler that needs the authenticated caller.
type IdentityHandlerFunc func(w http.ResponseWriter, r *http.Request, caller auth.Identity)

// Auth validates a Bearer JWT and stores the caller identity in the request context.
func Auth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}
			id, err := tokens.Parse(tokenStr)
			if err != nil {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), id)))
		})
	}
}

// WithIdentity adapts fn to http.HandlerFunc, passing the identity set by Auth
// as an argument. Requests that reach it without one are rejected.
func WithIdentity(fn IdentityHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.FromContext(r.Context())
		if !ok {
			unauthorized(w)
			return
		}
		fn(w, r, id)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	ah := r.Header.Get("Authorization")
	if len(ah) < len("Bearer ") || !strings.EqualFold(ah[:len("Bearer ")], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(ah[len("Bearer "):])
	return tok, tok != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    string(appErr.CodeUnauthorized),
		"message": MsgUnauthorized,
	})
}

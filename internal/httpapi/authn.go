package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"clientdesk.org/internal/auth"
	"clientdesk.org/internal/obs"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// withAuth validates a bearer token when one is presented and stores the
// resulting principal in the request context. Requests without a token pass
// through anonymously; each handler decides whether it requires a principal.
// A presented token that fails validation is always rejected, even on routes
// that would accept anonymous requests.
func (a *API) withAuth(next http.Handler) http.Handler {
	if a == nil || a.auth == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		header := strings.TrimSpace(r.Header.Get(authHeader))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimSpace(header[len(bearer):])
		if token == "" {
			obs.ObserveGateRejection("invalid")
			writeError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}

		principal, err := a.auth.AuthenticateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				obs.ObserveGateRejection("expired")
				writeError(w, r, http.StatusUnauthorized, "token expired")
			case errors.Is(err, auth.ErrInvalidToken):
				obs.ObserveGateRejection("invalid")
				writeError(w, r, http.StatusUnauthorized, "invalid token")
			case errors.Is(err, auth.ErrStoreUnavailable):
				obs.ObserveGateRejection("unavailable")
				writeError(w, r, http.StatusServiceUnavailable, "authentication unavailable")
			default:
				writeError(w, r, http.StatusInternalServerError, "authentication error")
			}
			return
		}

		ctx := auth.ContextWithPrincipal(r.Context(), principal)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requirePrincipal rejects anonymous requests. It returns the principal and
// true when the request is authenticated.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return auth.Principal{}, false
	}
	return principal, true
}

// requireRole rejects requests whose principal lacks the given role.
func requireRole(w http.ResponseWriter, r *http.Request, role string) (auth.Principal, bool) {
	principal, ok := requirePrincipal(w, r)
	if !ok {
		return auth.Principal{}, false
	}
	if !strings.EqualFold(principal.Role, role) {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, r, http.StatusForbidden, "insufficient role")
		return auth.Principal{}, false
	}
	return principal, true
}

package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"clientdesk.org/internal/auth"
	"clientdesk.org/internal/obs"
)

type authenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authenticateResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (a *API) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req authenticateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	session, err := a.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		// Unknown email and wrong password produce the same answer so the
		// endpoint cannot be used to probe which emails exist.
		case errors.Is(err, auth.ErrNotFound), errors.Is(err, auth.ErrInvalidCredentials):
			obs.ObserveLogin("denied")
			writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, auth.ErrStoreUnavailable):
			obs.ObserveLogin("error")
			writeError(w, r, http.StatusServiceUnavailable, "authentication unavailable")
		default:
			obs.ObserveLogin("error")
			writeError(w, r, http.StatusInternalServerError, "authentication error")
		}
		return
	}

	obs.ObserveLogin("ok")
	writeJSON(w, http.StatusOK, authenticateResponse{
		Token:     session.Token,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
	})
}

package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/openshelf/library-api/internal/api/httpx"
	jwtutil "github.com/openshelf/library-api/internal/security/jwt"
	"github.com/openshelf/library-api/internal/security/password"
)

type Handler struct {
	Store StaffStore
}

func New(store StaffStore) *Handler {
	return &Handler{Store: store}
}

// Login exchanges staff email+password for a short-lived access token.
// Unknown email and wrong password are indistinguishable to the caller.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ErrorJSON(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		httpx.ErrorJSON(w, http.StatusBadRequest, "email and password are required")
		return
	}

	st, err := h.Store.FindByEmail(req.Email)
	if err != nil {
		httpx.ErrorJSON(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	ok, err := password.Verify(req.Password, st.PasswordHash)
	if err != nil || !ok {
		httpx.ErrorJSON(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, _, err := jwtutil.SignAccess(st.ID, st.Role)
	if err != nil {
		httpx.ErrorJSON(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	httpx.OK(w, LoginResponse{AccessToken: token, Role: st.Role})
}

package api

import (
	"net/http"

	"github.com/okian/talker/internal/domain/validation"
	"github.com/okian/talker/pkg/logger"
)

// LoginHandler handles login requests.
type LoginHandler struct {
	issuer TokenIssuer
	chain  *validation.Chain[validation.LoginRequest]
	logger logger.Logger
}

// NewLoginHandler creates a new login handler.
func NewLoginHandler(issuer TokenIssuer, log logger.Logger) *LoginHandler {
	return &LoginHandler{
		issuer: issuer,
		chain:  validation.LoginChain(),
		logger: log,
	}
}

// HandleLogin handles POST /login. Credentials are shape-checked only.
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req := validation.NewLoginRequest(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if f := h.chain.Validate(req); f != nil {
		rejectRequest(w, r, h.logger, f)
		return
	}

	tok, err := h.issuer.IssueToken(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: tok})
}

package handler

import (
	"net/http"
	"strings"

	"github.com/yndnr/tokauth/internal/core/domain"
	"github.com/yndnr/tokauth/internal/telemetry/logger"
	"github.com/yndnr/tokauth/internal/telemetry/metric"
)

// handleRegister handles POST /v1/register.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !h.decode(w, r, &req) {
		return
	}

	creds := domain.NewCredentials(req.Username, req.Password)
	ok := h.auth.Register(r.Context(), creds)
	h.recordAuth(metric.OpRegister, ok)
	if !ok {
		logger.L(r.Context()).Info("registration rejected", "username", creds.Username)
		h.writeDomainError(w, r, domain.ErrRegistrationRejected)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, RegisterResponse{Registered: true})
}

// handleLogin handles POST /v1/login.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !h.decode(w, r, &req) {
		return
	}

	creds := domain.NewCredentials(req.Username, req.Password)
	token, ok := h.auth.Login(r.Context(), creds)
	h.recordAuth(metric.OpLogin, ok)
	if !ok {
		logger.L(r.Context()).Info("login refused", "username", creds.Username)
		h.writeDomainError(w, r, domain.ErrInvalidCredentials)
		return
	}

	logger.L(r.Context()).Info("login succeeded", "username", creds.Username, "token", token)
	h.writeJSON(w, r, http.StatusOK, LoginResponse{Token: token.String()})
}

// handleAuthenticate handles POST /v1/authenticate.
func (h *Handler) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var req AuthenticateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Token == "" {
		h.writeDomainError(w, r, domain.ErrMissingArgument.WithDetails("token is required"))
		return
	}
	h.authenticate(w, r, domain.Token(req.Token))
}

// handleWhoAmI handles GET /v1/whoami.
func (h *Handler) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		h.writeDomainError(w, r, domain.ErrMissingArgument.WithDetails("bearer token is required"))
		return
	}
	h.authenticate(w, r, token)
}

func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, token domain.Token) {
	username, ok := h.auth.Authenticate(r.Context(), token)
	h.recordAuth(metric.OpAuthenticate, ok)
	if !ok {
		h.writeDomainError(w, r, domain.ErrTokenInvalid)
		return
	}
	h.writeJSON(w, r, http.StatusOK, IdentityResponse{Username: username})
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (domain.Token, bool) {
	scheme, value, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return domain.Token(value), true
}

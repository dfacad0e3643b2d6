// Package auth wires the login and logout endpoints. The upstream token is
// never returned to the browser; it lives in an http-only cookie.
package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cofre-app/cofre/internal/platform/httpx"
	"github.com/cofre-app/cofre/internal/platform/upstream"
)

// CookieName is the session cookie carrying the upstream bearer token.
const CookieName = "auth-token"

const loginPath = "/api/v1/auth/login"

// TokenFromRequest reads the bearer credential from the session cookie,
// returning "" when absent.
func TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	client    *upstream.Client
	validator *validator.Validate
	ttl       time.Duration
	secure    bool
}

// NewHandler constructs a Handler. ttl is the cookie lifetime; secure marks
// the cookie Secure in production.
func NewHandler(logger *slog.Logger, client *upstream.Client, ttl time.Duration, secure bool) *Handler {
	return &Handler{
		logger:    logger,
		client:    client,
		validator: validator.New(),
		ttl:       ttl,
		secure:    secure,
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.RespondError(w, httpx.NewError(http.StatusBadRequest, "Corpo da requisição inválido", nil))
		return
	}
	body.Identifier = strings.TrimSpace(body.Identifier)
	if err := h.validator.Struct(body); err != nil {
		httpx.RespondError(w, httpx.NewError(http.StatusBadRequest, "Identifier e senha são obrigatórios", nil))
		return
	}

	res, err := h.client.Do(r.Context(), http.MethodPost, loginPath, nil, body, "")
	if err != nil {
		httpx.RespondError(w, loginError(err))
		return
	}

	var login loginResponse
	if decodeErr := res.DecodeJSON(&login); decodeErr != nil || login.Token == "" {
		h.logger.Error("login response missing token")
		httpx.RespondError(w, httpx.NewError(http.StatusInternalServerError, "No token received from authentication service", nil))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    login.Token,
		Path:     "/",
		MaxAge:   int(h.ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Login successful"})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// loginError keeps the upstream status and message but tags the detail
// payload with the login error code.
func loginError(err error) *httpx.Error {
	var fault *upstream.Fault
	if !errors.As(err, &fault) {
		return httpx.Normalize(err)
	}
	message := fault.Message
	if message == "" {
		message = "Login failed"
	}
	code := fault.Code
	if code == "" {
		code = "LOGIN_ERROR"
	}
	return httpx.NewError(fault.StatusCode, message, map[string]any{
		"code":    code,
		"details": fault.Details,
	})
}

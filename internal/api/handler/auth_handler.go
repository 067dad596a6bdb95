package handler

import (
	"encoding/json"
	"net/http"

	"portfolio_backend/internal/api/middleware"
	"portfolio_backend/internal/app/service"
	"portfolio_backend/internal/common"
	"portfolio_backend/internal/common/security"
	"portfolio_backend/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
	tokens      *security.TokenService
}

func NewAuthHandler(authService *service.AuthService, tokens *security.TokenService) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens}
}

// RegisterPublicRoutes mounts the endpoints that need no access token.
func (h *AuthHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	r.Post("/refresh-token", h.refreshToken)
	r.Post("/request-password-reset", h.requestPasswordReset)
	r.Post("/reset-password/{token}", h.resetPassword)
}

// RegisterProtectedRoutes mounts the endpoints behind the access-token
// middleware. The admin panel additionally requires the Admin role.
func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/logout", h.logout)
	r.Get("/me", h.me)
	r.With(middleware.RequireRole(model.RoleAdmin)).Get("/admin-panel", h.adminPanel)
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.authService.Signup(r.Context(), req); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), common.UserMessage(err))
		return
	}
	common.RespondWithMessage(w, http.StatusCreated, "User created successfully")
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	pair, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), common.UserMessage(err))
		return
	}

	setAuthCookie(w, middleware.AccessTokenCookie, pair.AccessToken, h.tokens.AccessTTL())
	setAuthCookie(w, refreshTokenCookie, pair.RefreshToken, h.tokens.RefreshTTL())
	common.RespondWithMessage(w, http.StatusOK, "Login successful")
}

func (h *AuthHandler) refreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		common.RespondWithError(w, http.StatusUnauthorized, common.ErrMissingToken.Error())
		return
	}

	accessToken, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), common.UserMessage(err))
		return
	}

	setAuthCookie(w, middleware.AccessTokenCookie, accessToken, h.tokens.AccessTTL())
	common.RespondWithMessage(w, http.StatusOK, "Access token refreshed")
}

// logout clears the access cookie only. Issued tokens stay valid until they
// expire; there is no server-side denylist.
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w, middleware.AccessTokenCookie)
	common.RespondWithMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *AuthHandler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	h.authService.RequestPasswordReset(r.Context(), req.Email)

	// Identical response whether or not the account exists.
	common.RespondWithMessage(w, http.StatusOK, "If that email exists, a reset link was sent.")
}

func (h *AuthHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.authService.ResetPassword(r.Context(), token, req.Password); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), common.UserMessage(err))
		return
	}
	common.RespondWithMessage(w, http.StatusOK, "Password has been reset successfully.")
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, common.ErrUnauthenticated.Error())
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch user info")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (h *AuthHandler) adminPanel(w http.ResponseWriter, r *http.Request) {
	common.RespondWithMessage(w, http.StatusOK, "Welcome to the admin panel")
}

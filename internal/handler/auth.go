package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/storefront-system/internal/middleware"
	"github.com/mmeshcher/storefront-system/internal/model"
	"github.com/mmeshcher/storefront-system/internal/validation"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    int64      `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

func (h *Handler) issueTokens(w http.ResponseWriter, r *http.Request, u *model.User) bool {
	refreshToken, err := h.authMiddleware.IssueTokens(w, u.ID, u.Role)
	if err != nil {
		h.logger.Error("issue tokens error", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return false
	}

	if err := h.service.StoreRefreshToken(r.Context(), u.ID, refreshToken, middleware.RefreshTokenTTL); err != nil {
		h.logger.Error("store refresh token error", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "error processing refresh token")
		return false
	}

	return true
}

// Signup обрабатывает регистрацию нового пользователя.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}
	if !validation.IsValidEmail(req.Email) {
		h.writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if !validation.IsValidPassword(req.Password) {
		h.writeError(w, http.StatusBadRequest, "password must be at least 6 characters long")
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.serviceError(w, err, "register user error")
		return
	}

	if !h.issueTokens(w, r, user) {
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]any{
		"user":    newUserResponse(user),
		"message": "User created successfully.",
	})
}

// Login выполняет аутентификацию пользователя и выставляет cookie с токенами.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		h.serviceError(w, err, "login user error")
		return
	}

	if !h.issueTokens(w, r, user) {
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"user": newUserResponse(user)})
}

// Logout отзывает refresh-токен и очищает cookie аутентификации.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, _, err := h.authMiddleware.ReadRefreshToken(r)
	if err != nil {
		h.authMiddleware.ClearAuthCookies(w)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.service.RevokeRefreshToken(r.Context(), claims.UserID); err != nil {
		h.logger.Error("revoke refresh token error", zap.Error(err))
	}

	h.authMiddleware.ClearAuthCookies(w)
	h.writeJSON(w, http.StatusOK, messageResponse{Message: "Logout successful!"})
}

// RefreshToken обновляет access-токен по действительному refresh-токену.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	claims, token, err := h.authMiddleware.ReadRefreshToken(r)
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "refresh token not found")
		return
	}

	if err := h.service.ValidateRefreshToken(r.Context(), claims.UserID, token); err != nil {
		h.serviceError(w, err, "validate refresh token error")
		return
	}

	if err := h.authMiddleware.RefreshAccessToken(w, claims.UserID, claims.Role); err != nil {
		h.logger.Error("refresh access token error", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	h.writeJSON(w, http.StatusOK, messageResponse{Message: "Token refreshed successfully"})
}

// Profile возвращает данные текущего пользователя.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), user.ID)
	if err != nil {
		h.serviceError(w, err, "get profile error")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"user": newUserResponse(profile)})
}

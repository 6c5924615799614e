// Package middleware содержит HTTP middleware для сервиса storefront.
package middleware

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmeshcher/storefront-system/internal/model"
)

type contextKey string

const userKey contextKey = "user"

const (
	accessCookieName  = "access_token"
	refreshCookieName = "refresh_token"

	// AccessTokenTTL — время жизни access-токена.
	AccessTokenTTL = 15 * time.Minute
	// RefreshTokenTTL — время жизни refresh-токена.
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// AuthUser содержит идентификатор и роль аутентифицированного пользователя.
type AuthUser struct {
	ID   int64
	Role model.Role
}

// Claims описывает полезную нагрузку JWT-токенов сервиса.
type Claims struct {
	UserID int64      `json:"user_id"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware выполняет проверку аутентификации по паре JWT-cookie:
// короткоживущий access-токен и долгоживущий refresh-токен.
type AuthMiddleware struct {
	accessSecret  []byte
	refreshSecret []byte
	secureCookies bool
}

// NewAuthMiddleware создаёт AuthMiddleware с указанными секретными ключами.
// При secureCookies cookie выставляются только по HTTPS.
func NewAuthMiddleware(accessSecret, refreshSecret string, secureCookies bool) *AuthMiddleware {
	return &AuthMiddleware{
		accessSecret:  keyOrRandom(accessSecret),
		refreshSecret: keyOrRandom(refreshSecret),
		secureCookies: secureCookies,
	}
}

func keyOrRandom(secret string) []byte {
	if secret != "" {
		return []byte(secret)
	}

	randomKey := make([]byte, 32)
	if _, err := rand.Read(randomKey); err != nil {
		return []byte("default-secret-key")
	}
	return randomKey
}

// Middleware проверяет access-токен в cookie и добавляет пользователя в контекст запроса.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(accessCookieName)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		claims, err := a.parseToken(cookie.Value, a.accessSecret)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		user := AuthUser{ID: claims.UserID, Role: claims.Role}
		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin пропускает только пользователей с ролью admin.
// Должен применяться после Middleware.
func (a *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUserFromContext(r.Context())
		if !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		if user.Role != model.RoleAdmin {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *AuthMiddleware) signToken(userID int64, role model.Role, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (a *AuthMiddleware) parseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (a *AuthMiddleware) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

// IssueTokens генерирует пару токенов, выставляет cookie и возвращает
// refresh-токен для сохранения на сервере.
func (a *AuthMiddleware) IssueTokens(w http.ResponseWriter, userID int64, role model.Role) (string, error) {
	accessToken, err := a.signToken(userID, role, a.accessSecret, AccessTokenTTL)
	if err != nil {
		return "", err
	}

	refreshToken, err := a.signToken(userID, role, a.refreshSecret, RefreshTokenTTL)
	if err != nil {
		return "", err
	}

	a.setCookie(w, accessCookieName, accessToken, AccessTokenTTL)
	a.setCookie(w, refreshCookieName, refreshToken, RefreshTokenTTL)

	return refreshToken, nil
}

// RefreshAccessToken генерирует новый access-токен и выставляет его cookie.
func (a *AuthMiddleware) RefreshAccessToken(w http.ResponseWriter, userID int64, role model.Role) error {
	accessToken, err := a.signToken(userID, role, a.accessSecret, AccessTokenTTL)
	if err != nil {
		return err
	}
	a.setCookie(w, accessCookieName, accessToken, AccessTokenTTL)
	return nil
}

// ReadRefreshToken извлекает refresh-токен из cookie запроса и проверяет его подпись.
func (a *AuthMiddleware) ReadRefreshToken(r *http.Request) (*Claims, string, error) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		return nil, "", fmt.Errorf("refresh cookie: %w", err)
	}

	claims, err := a.parseToken(cookie.Value, a.refreshSecret)
	if err != nil {
		return nil, "", err
	}

	return claims, cookie.Value, nil
}

// ClearAuthCookies удаляет cookie аутентификации (выход из системы).
func (a *AuthMiddleware) ClearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{accessCookieName, refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   a.secureCookies,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// GetUserFromContext извлекает аутентифицированного пользователя из контекста запроса.
func GetUserFromContext(ctx context.Context) (AuthUser, bool) {
	user, ok := ctx.Value(userKey).(AuthUser)
	return user, ok
}

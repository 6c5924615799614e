package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/storefront-system/internal/cache"
	"github.com/mmeshcher/storefront-system/internal/model"
)

// RegisterUser регистрирует нового пользователя с ролью customer.
// Пароль хранится только в виде bcrypt-хеша.
func (s *Service) RegisterUser(ctx context.Context, name, email, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.repo.CreateUser(ctx, name, email, hash)
}

// AuthenticateUser проверяет email и пароль пользователя.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// GetProfile возвращает пользователя по идентификатору.
func (s *Service) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// StoreRefreshToken сохраняет refresh-токен пользователя в кеше.
func (s *Service) StoreRefreshToken(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.StoreRefreshToken(ctx, userID, token, ttl)
}

// ValidateRefreshToken сравнивает предъявленный refresh-токен с сохранённым.
func (s *Service) ValidateRefreshToken(ctx context.Context, userID int64, token string) error {
	if s.cache == nil {
		return ErrInvalidRefreshToken
	}

	stored, err := s.cache.GetRefreshToken(ctx, userID)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return ErrInvalidRefreshToken
		}
		return err
	}

	if stored != token {
		return ErrInvalidRefreshToken
	}

	return nil
}

// RevokeRefreshToken удаляет сохранённый refresh-токен пользователя.
func (s *Service) RevokeRefreshToken(ctx context.Context, userID int64) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeleteRefreshToken(ctx, userID)
}

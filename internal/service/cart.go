package service

import (
	"context"

	"github.com/mmeshcher/storefront-system/internal/model"
)

// GetCart возвращает корзину пользователя.
func (s *Service) GetCart(ctx context.Context, userID int64) ([]model.CartItem, error) {
	return s.repo.GetCartItems(ctx, userID)
}

// AddToCart добавляет товар в корзину пользователя. Повторное добавление
// увеличивает количество на единицу.
func (s *Service) AddToCart(ctx context.Context, userID, productID int64) ([]model.CartItem, error) {
	// Товар должен существовать, иначе вернётся ErrProductNotFound
	if _, err := s.repo.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}

	if err := s.repo.AddCartItem(ctx, userID, productID); err != nil {
		return nil, err
	}

	return s.repo.GetCartItems(ctx, userID)
}

// UpdateCartItem устанавливает количество товара в корзине.
// Нулевое количество удаляет позицию, отрицательное недопустимо.
func (s *Service) UpdateCartItem(ctx context.Context, userID, productID int64, quantity int) ([]model.CartItem, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	if err := s.repo.SetCartItemQuantity(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}

	return s.repo.GetCartItems(ctx, userID)
}

// RemoveFromCart удаляет товар из корзины пользователя.
func (s *Service) RemoveFromCart(ctx context.Context, userID, productID int64) ([]model.CartItem, error) {
	if err := s.repo.RemoveCartItem(ctx, userID, productID); err != nil {
		return nil, err
	}

	return s.repo.GetCartItems(ctx, userID)
}

// ClearCart очищает корзину пользователя.
func (s *Service) ClearCart(ctx context.Context, userID int64) error {
	return s.repo.ClearCart(ctx, userID)
}

package service

import (
	"context"
	"errors"

	"github.com/mmeshcher/storefront-system/internal/model"
	"github.com/mmeshcher/storefront-system/internal/repository"
)

const (
	defaultOrdersPage  = 1
	defaultOrdersLimit = 10
	maxOrdersLimit     = 100
)

// OrdersPage описывает страницу заказов для панели администратора.
type OrdersPage struct {
	Orders     []model.Order
	Total      int64
	TotalPages int64
	Page       int
}

// ListAdminOrders возвращает страницу заказов с фильтром по статусу.
// Пустой статус или "all" отключает фильтрацию.
func (s *Service) ListAdminOrders(ctx context.Context, status model.OrderStatus, page, limit int) (*OrdersPage, error) {
	if status != "" && status != "all" && !model.ValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}

	if page < 1 {
		page = defaultOrdersPage
	}
	if limit < 1 {
		limit = defaultOrdersLimit
	}
	if limit > maxOrdersLimit {
		limit = maxOrdersLimit
	}

	offset := (page - 1) * limit

	orders, total, err := s.repo.GetAdminOrders(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	return &OrdersPage{
		Orders:     orders,
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
	}, nil
}

// ListUserOrders возвращает все заказы пользователя от новых к старым.
func (s *Service) ListUserOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	return s.repo.GetOrdersByUser(ctx, userID)
}

// GetOrder возвращает заказ по идентификатору. Просматривать заказ может
// только его владелец или администратор; чужой заказ даёт ErrForbidden,
// отличимый от отсутствия заказа.
func (s *Service) GetOrder(ctx context.Context, userID int64, role model.Role, orderID int64) (*model.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if role != model.RoleAdmin && order.UserID != userID {
		return nil, ErrForbidden
	}

	return order, nil
}

// ChangeOrderStatus переводит заказ в новый статус по таблице переходов:
// delivered и cancelled — конечные состояния.
func (s *Service) ChangeOrderStatus(ctx context.Context, orderID int64, to model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(to) {
		return nil, ErrInvalidStatus
	}

	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransition(to) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, orderID, order.Status, to)
	if err != nil {
		// Статус изменился конкурентно между чтением и условным обновлением
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	return updated, nil
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/storefront-system/internal/model"
	"github.com/mmeshcher/storefront-system/internal/repository"
)

type stubRepo struct {
	user    *model.User
	userErr error

	products    []model.Product
	productsErr error
	product     *model.Product
	productErr  error

	cartItems    []model.CartItem
	cartItemsErr error

	activeCoupon    *model.Coupon
	activeCouponErr error

	redeemCoupon *model.Coupon
	redeemErr    error
	redeemCalls  int

	createdCoupons  []model.Coupon
	createCouponErr error

	deactivatedCouponIDs []int64

	createdOrder   *model.Order
	createOrderErr error

	orders      []model.Order
	ordersTotal int64
	ordersErr   error

	order    *model.Order
	orderErr error

	updatedOrder   *model.Order
	updateOrderErr error

	summary    *model.AnalyticsSummary
	summaryErr error

	dailySales    []model.SalesPoint
	dailySalesErr error
}

func (s *stubRepo) Close() error { return nil }

func (s *stubRepo) CreateUser(ctx context.Context, name, email string, passwordHash []byte) (*model.User, error) {
	return s.user, s.userErr
}

func (s *stubRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.user, s.userErr
}

func (s *stubRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return s.user, s.userErr
}

func (s *stubRepo) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	return s.products, s.productsErr
}

func (s *stubRepo) GetFeaturedProducts(ctx context.Context) ([]model.Product, error) {
	return s.products, s.productsErr
}

func (s *stubRepo) GetProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	return s.products, s.productsErr
}

func (s *stubRepo) GetRandomProducts(ctx context.Context, limit int) ([]model.Product, error) {
	if limit < len(s.products) {
		return s.products[:limit], s.productsErr
	}
	return s.products, s.productsErr
}

func (s *stubRepo) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	return s.product, s.productErr
}

func (s *stubRepo) CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	return p, s.productErr
}

func (s *stubRepo) UpdateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	return p, s.productErr
}

func (s *stubRepo) ToggleProductFeatured(ctx context.Context, id int64) (*model.Product, error) {
	return s.product, s.productErr
}

func (s *stubRepo) DeleteProduct(ctx context.Context, id int64) error {
	return s.productErr
}

func (s *stubRepo) GetCartItems(ctx context.Context, userID int64) ([]model.CartItem, error) {
	return s.cartItems, s.cartItemsErr
}

func (s *stubRepo) AddCartItem(ctx context.Context, userID, productID int64) error {
	return s.cartItemsErr
}

func (s *stubRepo) SetCartItemQuantity(ctx context.Context, userID, productID int64, quantity int) error {
	return s.cartItemsErr
}

func (s *stubRepo) RemoveCartItem(ctx context.Context, userID, productID int64) error {
	return s.cartItemsErr
}

func (s *stubRepo) ClearCart(ctx context.Context, userID int64) error {
	return s.cartItemsErr
}

func (s *stubRepo) CreateCoupon(ctx context.Context, c *model.Coupon) (*model.Coupon, error) {
	if s.createCouponErr != nil {
		return nil, s.createCouponErr
	}
	s.createdCoupons = append(s.createdCoupons, *c)
	return c, nil
}

func (s *stubRepo) GetActiveCoupon(ctx context.Context, userID int64, code string) (*model.Coupon, error) {
	return s.activeCoupon, s.activeCouponErr
}

func (s *stubRepo) GetUserCoupon(ctx context.Context, userID int64) (*model.Coupon, error) {
	return s.activeCoupon, s.activeCouponErr
}

func (s *stubRepo) DeactivateCoupon(ctx context.Context, couponID int64) error {
	s.deactivatedCouponIDs = append(s.deactivatedCouponIDs, couponID)
	return nil
}

// RedeemCoupon погашает купон только один раз, имитируя атомарное условное
// обновление: повторный вызов возвращает ErrCouponNotFound.
func (s *stubRepo) RedeemCoupon(ctx context.Context, userID int64, code string) (*model.Coupon, error) {
	s.redeemCalls++
	if s.redeemErr != nil {
		return nil, s.redeemErr
	}
	if s.redeemCalls > 1 {
		return nil, repository.ErrCouponNotFound
	}
	return s.redeemCoupon, nil
}

func (s *stubRepo) CreateOrder(ctx context.Context, o *model.Order) (*model.Order, error) {
	if s.createOrderErr != nil {
		return nil, s.createOrderErr
	}
	o.ID = 1
	s.createdOrder = o
	return o, nil
}

func (s *stubRepo) GetAdminOrders(ctx context.Context, status model.OrderStatus, limit, offset int) ([]model.Order, int64, error) {
	if s.ordersErr != nil {
		return nil, 0, s.ordersErr
	}
	if offset >= len(s.orders) {
		return nil, s.ordersTotal, nil
	}
	end := offset + limit
	if end > len(s.orders) {
		end = len(s.orders)
	}
	return s.orders[offset:end], s.ordersTotal, nil
}

func (s *stubRepo) GetOrdersByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return s.orders, s.ordersErr
}

func (s *stubRepo) GetOrderByID(ctx context.Context, id int64) (*model.Order, error) {
	return s.order, s.orderErr
}

func (s *stubRepo) GetOrderBySessionID(ctx context.Context, sessionID string) (*model.Order, error) {
	return s.order, s.orderErr
}

func (s *stubRepo) UpdateOrderStatus(ctx context.Context, id int64, from, to model.OrderStatus) (*model.Order, error) {
	if s.updateOrderErr != nil {
		return nil, s.updateOrderErr
	}
	return s.updatedOrder, nil
}

func (s *stubRepo) GetAnalyticsSummary(ctx context.Context) (*model.AnalyticsSummary, error) {
	return s.summary, s.summaryErr
}

func (s *stubRepo) GetDailySales(ctx context.Context, start, end time.Time) ([]model.SalesPoint, error) {
	return s.dailySales, s.dailySalesErr
}

func newTestService(repo *stubRepo) *Service {
	return NewService(repo, nil, nil, "http://localhost:5173", zap.NewNop())
}

func TestRegisterUser_PropagatesDuplicateError(t *testing.T) {
	repo := &stubRepo{userErr: repository.ErrUserExists}
	svc := newTestService(repo)

	_, err := svc.RegisterUser(context.Background(), "User", "user@example.com", "password")
	if !errors.Is(err, repository.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func mustHash(t *testing.T, password string) []byte {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt hash error: %v", err)
	}
	return hash
}

func TestAuthenticateUser_WrongPassword(t *testing.T) {
	hash := mustHash(t, "correct")
	repo := &stubRepo{
		user: &model.User{ID: 1, Email: "user@example.com", PasswordHash: hash},
	}
	svc := newTestService(repo)

	_, err := svc.AuthenticateUser(context.Background(), "user@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateUser_CorrectPassword(t *testing.T) {
	hash := mustHash(t, "correct")
	repo := &stubRepo{
		user: &model.User{ID: 1, Email: "user@example.com", PasswordHash: hash},
	}
	svc := newTestService(repo)

	u, err := svc.AuthenticateUser(context.Background(), "user@example.com", "correct")
	if err != nil {
		t.Fatalf("AuthenticateUser error: %v", err)
	}
	if u.ID != 1 {
		t.Fatalf("user ID = %d, want 1", u.ID)
	}
}

func TestValidateRefreshToken_NoCache(t *testing.T) {
	svc := newTestService(&stubRepo{})

	err := svc.ValidateRefreshToken(context.Background(), 1, "token")
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken without cache, got %v", err)
	}
}

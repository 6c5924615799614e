// Package service реализует бизнес-логику интернет-магазина.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/storefront-system/internal/model"
	"github.com/mmeshcher/storefront-system/internal/payment"
	"github.com/mmeshcher/storefront-system/internal/repository"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidCoupon возвращается, если код купона не найден, неактивен или просрочен.
	ErrInvalidCoupon = errors.New("invalid coupon code")
	// ErrEmptyOrder возвращается при оформлении заказа без позиций.
	ErrEmptyOrder = errors.New("order must contain at least one item")
	// ErrInvalidQuantity возвращается при неположительном количестве товара.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	// ErrInvalidPaymentMethod возвращается при недопустимом способе оплаты.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	// ErrMissingAddress возвращается, если для оплаты при получении не указан адрес.
	ErrMissingAddress = errors.New("address, city and postal code are required for cash on delivery")
	// ErrPaymentNotCompleted возвращается, если платёжная сессия не оплачена.
	ErrPaymentNotCompleted = errors.New("payment has not been completed")
	// ErrInvalidStatus возвращается при неизвестном статусе заказа.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidTransition возвращается при запрещённом переходе статуса заказа.
	ErrInvalidTransition = errors.New("order status transition is not allowed")
	// ErrForbidden возвращается при попытке доступа к чужому ресурсу.
	ErrForbidden = errors.New("access denied")
	// ErrInvalidRefreshToken возвращается, если refresh-токен не совпадает с сохранённым.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error

	CreateUser(ctx context.Context, name, email string, passwordHash []byte) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)

	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetFeaturedProducts(ctx context.Context) ([]model.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]model.Product, error)
	GetRandomProducts(ctx context.Context, limit int) ([]model.Product, error)
	GetProductByID(ctx context.Context, id int64) (*model.Product, error)
	CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, p *model.Product) (*model.Product, error)
	ToggleProductFeatured(ctx context.Context, id int64) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	GetCartItems(ctx context.Context, userID int64) ([]model.CartItem, error)
	AddCartItem(ctx context.Context, userID, productID int64) error
	SetCartItemQuantity(ctx context.Context, userID, productID int64, quantity int) error
	RemoveCartItem(ctx context.Context, userID, productID int64) error
	ClearCart(ctx context.Context, userID int64) error

	CreateCoupon(ctx context.Context, c *model.Coupon) (*model.Coupon, error)
	GetActiveCoupon(ctx context.Context, userID int64, code string) (*model.Coupon, error)
	GetUserCoupon(ctx context.Context, userID int64) (*model.Coupon, error)
	DeactivateCoupon(ctx context.Context, couponID int64) error
	RedeemCoupon(ctx context.Context, userID int64, code string) (*model.Coupon, error)

	CreateOrder(ctx context.Context, o *model.Order) (*model.Order, error)
	GetAdminOrders(ctx context.Context, status model.OrderStatus, limit, offset int) ([]model.Order, int64, error)
	GetOrdersByUser(ctx context.Context, userID int64) ([]model.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*model.Order, error)
	GetOrderBySessionID(ctx context.Context, sessionID string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, from, to model.OrderStatus) (*model.Order, error)

	GetAnalyticsSummary(ctx context.Context) (*model.AnalyticsSummary, error)
	GetDailySales(ctx context.Context, start, end time.Time) ([]model.SalesPoint, error)
}

// Cache описывает контракт кеша и хранилища refresh-токенов.
type Cache interface {
	GetFeaturedProducts(ctx context.Context) ([]model.Product, error)
	SetFeaturedProducts(ctx context.Context, products []model.Product) error
	StoreRefreshToken(ctx context.Context, userID int64, token string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, userID int64) (string, error)
	DeleteRefreshToken(ctx context.Context, userID int64) error
}

// PaymentGateway описывает контракт платёжного шлюза для карточных оплат.
type PaymentGateway interface {
	CreateSession(ctx context.Context, req *payment.SessionRequest) (*payment.Session, error)
	GetSession(ctx context.Context, sessionID string) (*payment.Session, error)
}

// Service содержит бизнес-логику интернет-магазина.
type Service struct {
	repo      Repository
	cache     Cache
	gateway   PaymentGateway
	clientURL string
	logger    *zap.Logger
	now       func() time.Time
}

// NewService создаёт сервис с указанными зависимостями. Кеш и платёжный шлюз
// могут отсутствовать: кеш деградирует до чтения из БД, карточная оплата
// становится недоступной.
func NewService(repo Repository, cache Cache, gateway PaymentGateway, clientURL string, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		gateway:   gateway,
		clientURL: clientURL,
		logger:    logger,
		now:       time.Now,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// couponNotFound сообщает, что купон не найден либо уже погашен.
func couponNotFound(err error) bool {
	return errors.Is(err, repository.ErrCouponNotFound)
}

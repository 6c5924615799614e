// Package handler содержит HTTP-обработчики API интернет-магазина.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/storefront-system/internal/middleware"
	"github.com/mmeshcher/storefront-system/internal/model"
	"github.com/mmeshcher/storefront-system/internal/repository"
	"github.com/mmeshcher/storefront-system/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	RegisterUser(ctx context.Context, name, email, password string) (*model.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (*model.User, error)
	GetProfile(ctx context.Context, userID int64) (*model.User, error)
	StoreRefreshToken(ctx context.Context, userID int64, token string, ttl time.Duration) error
	ValidateRefreshToken(ctx context.Context, userID int64, token string) error
	RevokeRefreshToken(ctx context.Context, userID int64) error

	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetFeaturedProducts(ctx context.Context) ([]model.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]model.Product, error)
	GetRecommendedProducts(ctx context.Context) ([]model.Product, error)
	CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, p *model.Product) (*model.Product, error)
	ToggleProductFeatured(ctx context.Context, id int64) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	GetCart(ctx context.Context, userID int64) ([]model.CartItem, error)
	AddToCart(ctx context.Context, userID, productID int64) ([]model.CartItem, error)
	UpdateCartItem(ctx context.Context, userID, productID int64, quantity int) ([]model.CartItem, error)
	RemoveFromCart(ctx context.Context, userID, productID int64) ([]model.CartItem, error)
	ClearCart(ctx context.Context, userID int64) error

	GetUserCoupon(ctx context.Context, userID int64) (*model.Coupon, error)
	ValidateCoupon(ctx context.Context, userID int64, code string) (*model.Coupon, error)

	CreateCheckoutSession(ctx context.Context, userID int64, items []service.CheckoutItem, couponCode string) (*service.CheckoutSession, error)
	ConfirmCheckout(ctx context.Context, userID int64, sessionID string) (*model.Order, error)
	PlaceDirectOrder(ctx context.Context, userID int64, req *service.DirectOrderRequest) (*model.Order, error)

	ListAdminOrders(ctx context.Context, status model.OrderStatus, page, limit int) (*service.OrdersPage, error)
	ListUserOrders(ctx context.Context, userID int64) ([]model.Order, error)
	GetOrder(ctx context.Context, userID int64, role model.Role, orderID int64) (*model.Order, error)
	ChangeOrderStatus(ctx context.Context, orderID int64, to model.OrderStatus) (*model.Order, error)

	GetAnalytics(ctx context.Context, start, end time.Time) (*service.Analytics, error)
}

// Handler реализует HTTP-обработчики API интернет-магазина.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

// toCents переводит сумму из основных денежных единиц в сентаво.
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// toMajor переводит сумму из сентаво в основные денежные единицы.
func toMajor(cents int64) float64 {
	return float64(cents) / 100
}

type messageResponse struct {
	Message string `json:"message"`
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("write response error", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, statusCode int, message string) {
	h.writeJSON(w, statusCode, messageResponse{Message: message})
}

// serviceError сопоставляет ошибку бизнес-логики с HTTP-статусом и сообщением.
// Неопознанные ошибки логируются и превращаются в 500 без деталей для клиента.
func (h *Handler) serviceError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrMissingAddress),
		errors.Is(err, service.ErrInvalidCoupon),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, repository.ErrUserExists):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidRefreshToken):
		h.writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrPaymentNotCompleted):
		h.writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, service.ErrForbidden):
		h.writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrCouponNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		h.writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error(logMsg, zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (middleware.AuthUser, bool) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	return user, ok
}

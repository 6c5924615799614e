package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mmeshcher/storefront-system/internal/model"
	"github.com/mmeshcher/storefront-system/internal/payment"
	"github.com/mmeshcher/storefront-system/internal/repository"
)

// CheckoutItem описывает позицию оформляемого заказа. Цена в сентаво —
// снимок на момент оформления.
type CheckoutItem struct {
	ProductID  int64
	Name       string
	Image      string
	PriceCents int64
	Quantity   int
}

// CheckoutSession описывает созданную платёжную сессию для карточной оплаты.
type CheckoutSession struct {
	SessionID  string
	URL        string
	TotalCents int64
}

// DirectOrderRequest описывает запрос на оформление заказа без карточной оплаты.
type DirectOrderRequest struct {
	Items         []CheckoutItem
	CouponCode    string
	PaymentMethod model.PaymentMethod
	Customer      model.CustomerInfo
}

func validateItems(items []CheckoutItem) error {
	if len(items) == 0 {
		return ErrEmptyOrder
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return ErrInvalidQuantity
		}
		if item.PriceCents < 0 {
			return fmt.Errorf("%w: negative price", ErrInvalidQuantity)
		}
	}
	return nil
}

func subtotalCents(items []CheckoutItem) int64 {
	var sum int64
	for _, item := range items {
		sum += item.PriceCents * int64(item.Quantity)
	}
	return sum
}

// applyDiscount уменьшает сумму на указанный процент с округлением скидки вниз.
func applyDiscount(subtotal int64, discountPercentage int) int64 {
	discount := subtotal * int64(discountPercentage) / 100
	return subtotal - discount
}

type orderItemMeta struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

func itemsToOrderItems(items []CheckoutItem) []model.OrderItem {
	result := make([]model.OrderItem, len(items))
	for i, item := range items {
		result[i] = model.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			PriceCents:  item.PriceCents,
		}
	}
	return result
}

// CreateCheckoutSession создаёт платёжную сессию для карточной оплаты корзины.
// Указанный купон проверяется, но погашается только при подтверждении оплаты.
func (s *Service) CreateCheckoutSession(ctx context.Context, userID int64, items []CheckoutItem, couponCode string) (*CheckoutSession, error) {
	if s.gateway == nil {
		return nil, errors.New("payment gateway not configured")
	}

	if err := validateItems(items); err != nil {
		return nil, err
	}

	subtotal := subtotalCents(items)
	total := subtotal
	discountPercentage := 0

	if couponCode != "" {
		coupon, err := s.ValidateCoupon(ctx, userID, couponCode)
		if err != nil {
			if couponNotFound(err) {
				return nil, ErrInvalidCoupon
			}
			return nil, err
		}
		discountPercentage = coupon.DiscountPercentage
		total = applyDiscount(subtotal, discountPercentage)
	}

	lineItems := make([]payment.LineItem, len(items))
	for i, item := range items {
		lineItems[i] = payment.LineItem{
			Name:       item.Name,
			Image:      item.Image,
			UnitAmount: item.PriceCents,
			Quantity:   item.Quantity,
		}
	}

	productsMeta := make([]orderItemMeta, len(items))
	for i, item := range items {
		productsMeta[i] = orderItemMeta{
			ProductID:  item.ProductID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		}
	}
	metaJSON, err := json.Marshal(productsMeta)
	if err != nil {
		return nil, fmt.Errorf("marshal products metadata: %w", err)
	}

	session, err := s.gateway.CreateSession(ctx, &payment.SessionRequest{
		LineItems:          lineItems,
		DiscountPercentage: discountPercentage,
		SuccessURL:         s.clientURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:          s.clientURL + "/payment-cancelled",
		Metadata: map[string]string{
			"user_id":     strconv.FormatInt(userID, 10),
			"products":    string(metaJSON),
			"coupon_code": couponCode,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create payment session: %w", err)
	}

	if total >= giftCouponThresholdCents {
		s.grantGiftCoupon(ctx, userID)
	}

	return &CheckoutSession{
		SessionID:  session.ID,
		URL:        session.URL,
		TotalCents: total,
	}, nil
}

// ConfirmCheckout подтверждает карточную оплату: проверяет статус платёжной
// сессии, погашает купон, создаёт заказ и очищает корзину. Повторное
// подтверждение той же сессии возвращает уже созданный заказ.
func (s *Service) ConfirmCheckout(ctx context.Context, userID int64, sessionID string) (*model.Order, error) {
	if s.gateway == nil {
		return nil, errors.New("payment gateway not configured")
	}

	session, err := s.gateway.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get payment session: %w", err)
	}

	// Сессию может подтвердить только тот, кто её создал
	if owner := session.Metadata["user_id"]; owner != "" {
		ownerID, err := strconv.ParseInt(owner, 10, 64)
		if err != nil || ownerID != userID {
			return nil, ErrForbidden
		}
	}

	if session.PaymentStatus != payment.PaymentStatusPaid {
		return nil, ErrPaymentNotCompleted
	}

	var items []orderItemMeta
	if raw := session.Metadata["products"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, fmt.Errorf("unmarshal products metadata: %w", err)
		}
	}

	if couponCode := session.Metadata["coupon_code"]; couponCode != "" {
		// Купон мог быть погашен предыдущей попыткой подтверждения —
		// это не мешает завершить уже оплаченный заказ.
		if _, err := s.repo.RedeemCoupon(ctx, userID, couponCode); err != nil && !couponNotFound(err) {
			return nil, err
		}
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	orderItems := make([]model.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = model.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			PriceCents:  item.PriceCents,
		}
	}

	order := &model.Order{
		UserID:           userID,
		Items:            orderItems,
		TotalCents:       session.AmountTotal,
		PaymentMethod:    model.PaymentMethodCard,
		Status:           model.OrderStatusPaid,
		PaymentSessionID: sessionID,
		Customer: model.CustomerInfo{
			FullName: user.Name,
			Email:    user.Email,
		},
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		if errors.Is(err, repository.ErrSessionAlreadyProcessed) {
			return s.repo.GetOrderBySessionID(ctx, sessionID)
		}
		return nil, err
	}

	return created, nil
}

// PlaceDirectOrder оформляет заказ с оплатой при получении или самовывозом.
// Купон погашается атомарно, заказ и очистка корзины выполняются в одной
// транзакции.
func (s *Service) PlaceDirectOrder(ctx context.Context, userID int64, req *DirectOrderRequest) (*model.Order, error) {
	if req.PaymentMethod != model.PaymentMethodCOD && req.PaymentMethod != model.PaymentMethodPickup {
		return nil, ErrInvalidPaymentMethod
	}

	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	customer := req.Customer
	if req.PaymentMethod == model.PaymentMethodCOD {
		if customer.Address == "" || customer.City == "" || customer.PostalCode == "" {
			return nil, ErrMissingAddress
		}
	} else {
		// Адрес не имеет смысла для самовывоза
		customer.Address = ""
		customer.City = ""
		customer.PostalCode = ""
	}

	subtotal := subtotalCents(req.Items)
	total := subtotal

	if req.CouponCode != "" {
		coupon, err := s.repo.RedeemCoupon(ctx, userID, req.CouponCode)
		if err != nil {
			if couponNotFound(err) {
				return nil, ErrInvalidCoupon
			}
			return nil, err
		}
		total = applyDiscount(subtotal, coupon.DiscountPercentage)
	}

	status := model.OrderStatusPending
	if req.PaymentMethod == model.PaymentMethodPickup {
		status = model.OrderStatusProcessing
	}

	// Платёжная сессия существует только у карточных заказов
	order := &model.Order{
		UserID:        userID,
		Items:         itemsToOrderItems(req.Items),
		TotalCents:    total,
		PaymentMethod: req.PaymentMethod,
		Status:        status,
		Customer:      customer,
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	if total >= giftCouponThresholdCents {
		s.grantGiftCoupon(ctx, userID)
	}

	return created, nil
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/storefront-system/internal/model"
	"github.com/mmeshcher/storefront-system/internal/payment"
	"github.com/mmeshcher/storefront-system/internal/repository"
)

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		name     string
		subtotal int64
		percent  int
		want     int64
	}{
		{"no discount", 10000, 0, 10000},
		{"ten percent", 10000, 10, 9000},
		{"half", 10000, 50, 5000},
		{"full", 10000, 100, 0},
		{"rounds discount down", 999, 10, 900},
		{"single centavo", 1, 50, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyDiscount(tt.subtotal, tt.percent)
			if got != tt.want {
				t.Fatalf("applyDiscount(%d, %d) = %d, want %d", tt.subtotal, tt.percent, got, tt.want)
			}
		})
	}
}

func TestPlaceDirectOrder_COD(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(repo)

	order, err := svc.PlaceDirectOrder(context.Background(), 1, &DirectOrderRequest{
		Items: []CheckoutItem{
			{ProductID: 1, Name: "Spicy Tuna Roll", PriceCents: 1000, Quantity: 2},
			{ProductID: 2, Name: "Miso Soup", PriceCents: 500, Quantity: 1},
		},
		PaymentMethod: model.PaymentMethodCOD,
		Customer: model.CustomerInfo{
			FullName:   "Juan dela Cruz",
			Email:      "juan@example.com",
			Address:    "123 Rizal St",
			City:       "Manila",
			PostalCode: "1000",
		},
	})
	if err != nil {
		t.Fatalf("PlaceDirectOrder error: %v", err)
	}

	if order.TotalCents != 2500 {
		t.Fatalf("TotalCents = %d, want 2500", order.TotalCents)
	}
	if order.Status != model.OrderStatusPending {
		t.Fatalf("Status = %s, want pending", order.Status)
	}
	if order.PaymentMethod != model.PaymentMethodCOD {
		t.Fatalf("PaymentMethod = %s, want cod", order.PaymentMethod)
	}
	if order.PaymentSessionID != "" {
		t.Fatalf("cod order must not carry a payment session id, got %q", order.PaymentSessionID)
	}
}

func TestPlaceDirectOrder_PickupClearsAddress(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(repo)

	order, err := svc.PlaceDirectOrder(context.Background(), 1, &DirectOrderRequest{
		Items:         []CheckoutItem{{ProductID: 1, Name: "Ramen", PriceCents: 1500, Quantity: 1}},
		PaymentMethod: model.PaymentMethodPickup,
		Customer: model.CustomerInfo{
			FullName: "Juan dela Cruz",
			Email:    "juan@example.com",
			Address:  "should be dropped",
			City:     "should be dropped",
		},
	})
	if err != nil {
		t.Fatalf("PlaceDirectOrder error: %v", err)
	}

	if order.Status != model.OrderStatusProcessing {
		t.Fatalf("Status = %s, want processing", order.Status)
	}
	if order.Customer.Address != "" || order.Customer.City != "" {
		t.Fatalf("pickup order must not keep address fields: %+v", order.Customer)
	}
	if order.PaymentSessionID != "" {
		t.Fatalf("pickup order must not carry a payment session id, got %q", order.PaymentSessionID)
	}
}

func TestPlaceDirectOrder_CODRequiresAddress(t *testing.T) {
	svc := newTestService(&stubRepo{})

	_, err := svc.PlaceDirectOrder(context.Background(), 1, &DirectOrderRequest{
		Items:         []CheckoutItem{{ProductID: 1, Name: "Ramen", PriceCents: 1500, Quantity: 1}},
		PaymentMethod: model.PaymentMethodCOD,
		Customer:      model.CustomerInfo{FullName: "Juan", Email: "juan@example.com"},
	})
	if !errors.Is(err, ErrMissingAddress) {
		t.Fatalf("expected ErrMissingAddress, got %v", err)
	}
}

func TestPlaceDirectOrder_RejectsCardMethod(t *testing.T) {
	svc := newTestService(&stubRepo{})

	_, err := svc.PlaceDirectOrder(context.Background(), 1, &DirectOrderRequest{
		Items:         []CheckoutItem{{ProductID: 1, Name: "Ramen", PriceCents: 1500, Quantity: 1}},
		PaymentMethod: model.PaymentMethodCard,
	})
	if !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
	}
}

func TestPlaceDirectOrder_EmptyItems(t *testing.T) {
	svc := newTestService(&stubRepo{})

	_, err := svc.PlaceDirectOrder(context.Background(), 1, &DirectOrderRequest{
		PaymentMethod: model.PaymentMethodPickup,
	})
	if !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("expected ErrEmptyOrder, got %v", err)
	}
}

func TestPlaceDirectOrder_AppliesCouponOnce(t *testing.T) {
	repo := &stubRepo{
		redeemCoupon: &model.Coupon{
			Code:               "GIFT-AAAA1111",
			DiscountPercentage: 10,
			IsActive:           true,
		},
	}
	svc := newTestService(repo)

	req := &DirectOrderRequest{
		Items:         []CheckoutItem{{ProductID: 1, Name: "Ramen", PriceCents: 10000, Quantity: 1}},
		CouponCode:    "GIFT-AAAA1111",
		PaymentMethod: model.PaymentMethodPickup,
		Customer:      model.CustomerInfo{FullName: "Juan", Email: "juan@example.com"},
	}

	order, err := svc.PlaceDirectOrder(context.Background(), 1, req)
	if err != nil {
		t.Fatalf("PlaceDirectOrder error: %v", err)
	}
	if order.TotalCents != 9000 {
		t.Fatalf("TotalCents = %d, want 9000", order.TotalCents)
	}

	// Повторное использование того же кода должно быть отклонено
	_, err = svc.PlaceDirectOrder(context.Background(), 1, req)
	if !errors.Is(err, ErrInvalidCoupon) {
		t.Fatalf("expected ErrInvalidCoupon on second redemption, got %v", err)
	}
}

func TestPlaceDirectOrder_InvalidCoupon(t *testing.T) {
	repo := &stubRepo{redeemErr: repository.ErrCouponNotFound}
	svc := newTestService(repo)

	_, err := svc.PlaceDirectOrder(context.Background(), 1, &DirectOrderRequest{
		Items:         []CheckoutItem{{ProductID: 1, Name: "Ramen", PriceCents: 10000, Quantity: 1}},
		CouponCode:    "NO-SUCH-CODE",
		PaymentMethod: model.PaymentMethodPickup,
	})
	if !errors.Is(err, ErrInvalidCoupon) {
		t.Fatalf("expected ErrInvalidCoupon, got %v", err)
	}
	if repo.createdOrder != nil {
		t.Fatalf("order must not be created with invalid coupon")
	}
}

func TestPlaceDirectOrder_GrantsGiftCoupon(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(repo)

	_, err := svc.PlaceDirectOrder(context.Background(), 1, &DirectOrderRequest{
		Items:         []CheckoutItem{{ProductID: 1, Name: "Party Tray", PriceCents: giftCouponThresholdCents, Quantity: 1}},
		PaymentMethod: model.PaymentMethodPickup,
	})
	if err != nil {
		t.Fatalf("PlaceDirectOrder error: %v", err)
	}

	if len(repo.createdCoupons) != 1 {
		t.Fatalf("expected one gift coupon, got %d", len(repo.createdCoupons))
	}

	coupon := repo.createdCoupons[0]
	if !strings.HasPrefix(coupon.Code, "GIFT-") {
		t.Fatalf("gift coupon code = %q, want GIFT- prefix", coupon.Code)
	}
	if coupon.DiscountPercentage != giftCouponDiscount {
		t.Fatalf("gift coupon discount = %d, want %d", coupon.DiscountPercentage, giftCouponDiscount)
	}
}

func TestPlaceDirectOrder_NoGiftCouponBelowThreshold(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(repo)

	_, err := svc.PlaceDirectOrder(context.Background(), 1, &DirectOrderRequest{
		Items:         []CheckoutItem{{ProductID: 1, Name: "Miso Soup", PriceCents: giftCouponThresholdCents - 1, Quantity: 1}},
		PaymentMethod: model.PaymentMethodPickup,
	})
	if err != nil {
		t.Fatalf("PlaceDirectOrder error: %v", err)
	}

	if len(repo.createdCoupons) != 0 {
		t.Fatalf("gift coupon must not be granted below threshold")
	}
}

type stubGateway struct {
	session       *payment.Session
	createErr     error
	getErr        error
	createRequest *payment.SessionRequest
}

func (g *stubGateway) CreateSession(ctx context.Context, req *payment.SessionRequest) (*payment.Session, error) {
	g.createRequest = req
	return g.session, g.createErr
}

func (g *stubGateway) GetSession(ctx context.Context, sessionID string) (*payment.Session, error) {
	return g.session, g.getErr
}

func TestCreateCheckoutSession_NoGateway(t *testing.T) {
	svc := newTestService(&stubRepo{})

	_, err := svc.CreateCheckoutSession(context.Background(), 1, []CheckoutItem{
		{ProductID: 1, Name: "Ramen", PriceCents: 1000, Quantity: 1},
	}, "")
	if err == nil {
		t.Fatalf("expected error without payment gateway")
	}
}

func TestCreateCheckoutSession_PassesDiscount(t *testing.T) {
	repo := &stubRepo{
		activeCoupon: &model.Coupon{
			ID:                 7,
			Code:               "GIFT-AAAA1111",
			DiscountPercentage: 10,
			IsActive:           true,
			ExpiresAt:          time.Now().Add(time.Hour),
		},
	}
	gateway := &stubGateway{
		session: &payment.Session{ID: "cs_1", URL: "https://pay.example/cs_1"},
	}
	svc := NewService(repo, nil, gateway, "http://localhost:5173", zap.NewNop())

	result, err := svc.CreateCheckoutSession(context.Background(), 1, []CheckoutItem{
		{ProductID: 1, Name: "Ramen", PriceCents: 10000, Quantity: 1},
	}, "GIFT-AAAA1111")
	if err != nil {
		t.Fatalf("CreateCheckoutSession error: %v", err)
	}

	if result.TotalCents != 9000 {
		t.Fatalf("TotalCents = %d, want 9000", result.TotalCents)
	}
	if gateway.createRequest.DiscountPercentage != 10 {
		t.Fatalf("DiscountPercentage = %d, want 10", gateway.createRequest.DiscountPercentage)
	}
	if repo.redeemCalls != 0 {
		t.Fatalf("coupon must not be redeemed before payment confirmation")
	}
}

func TestConfirmCheckout_UnpaidSession(t *testing.T) {
	gateway := &stubGateway{
		session: &payment.Session{ID: "cs_1", PaymentStatus: "unpaid"},
	}
	repo := &stubRepo{}
	svc := NewService(repo, nil, gateway, "http://localhost:5173", zap.NewNop())

	_, err := svc.ConfirmCheckout(context.Background(), 1, "cs_1")
	if !errors.Is(err, ErrPaymentNotCompleted) {
		t.Fatalf("expected ErrPaymentNotCompleted, got %v", err)
	}
	if repo.createdOrder != nil {
		t.Fatalf("order must not be created for unpaid session")
	}
}

func TestConfirmCheckout_CreatesPaidOrder(t *testing.T) {
	gateway := &stubGateway{
		session: &payment.Session{
			ID:            "cs_1",
			PaymentStatus: payment.PaymentStatusPaid,
			AmountTotal:   9000,
			Metadata: map[string]string{
				"user_id":  "1",
				"products": `[{"product_id":1,"name":"Ramen","quantity":1,"price_cents":10000}]`,
			},
		},
	}
	repo := &stubRepo{
		user: &model.User{ID: 1, Name: "Juan", Email: "juan@example.com"},
	}
	svc := NewService(repo, nil, gateway, "http://localhost:5173", zap.NewNop())

	order, err := svc.ConfirmCheckout(context.Background(), 1, "cs_1")
	if err != nil {
		t.Fatalf("ConfirmCheckout error: %v", err)
	}

	if order.Status != model.OrderStatusPaid {
		t.Fatalf("Status = %s, want paid", order.Status)
	}
	if order.TotalCents != 9000 {
		t.Fatalf("TotalCents = %d, want 9000", order.TotalCents)
	}
	if order.PaymentSessionID != "cs_1" {
		t.Fatalf("PaymentSessionID = %q, want cs_1", order.PaymentSessionID)
	}
	if len(order.Items) != 1 || order.Items[0].ProductName != "Ramen" {
		t.Fatalf("unexpected order items: %+v", order.Items)
	}
}

func TestConfirmCheckout_RejectsForeignSession(t *testing.T) {
	gateway := &stubGateway{
		session: &payment.Session{
			ID:            "cs_1",
			PaymentStatus: payment.PaymentStatusPaid,
			AmountTotal:   9000,
			Metadata: map[string]string{
				"user_id":  "1",
				"products": `[{"product_id":1,"name":"Ramen","quantity":1,"price_cents":10000}]`,
			},
		},
	}
	repo := &stubRepo{
		user: &model.User{ID: 2, Name: "Maria", Email: "maria@example.com"},
	}
	svc := NewService(repo, nil, gateway, "http://localhost:5173", zap.NewNop())

	_, err := svc.ConfirmCheckout(context.Background(), 2, "cs_1")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a session created by another user, got %v", err)
	}
	if repo.createdOrder != nil {
		t.Fatalf("order must not be created for a foreign session")
	}
	if repo.redeemCalls != 0 {
		t.Fatalf("coupon must not be redeemed for a foreign session")
	}
}

func TestConfirmCheckout_IdempotentOnDuplicateSession(t *testing.T) {
	existing := &model.Order{ID: 42, PaymentSessionID: "cs_1", Status: model.OrderStatusPaid}
	gateway := &stubGateway{
		session: &payment.Session{
			ID:            "cs_1",
			PaymentStatus: payment.PaymentStatusPaid,
			AmountTotal:   9000,
		},
	}
	repo := &stubRepo{
		user:           &model.User{ID: 1, Name: "Juan", Email: "juan@example.com"},
		createOrderErr: repository.ErrSessionAlreadyProcessed,
		order:          existing,
	}
	svc := NewService(repo, nil, gateway, "http://localhost:5173", zap.NewNop())

	order, err := svc.ConfirmCheckout(context.Background(), 1, "cs_1")
	if err != nil {
		t.Fatalf("ConfirmCheckout error: %v", err)
	}
	if order.ID != existing.ID {
		t.Fatalf("expected existing order %d, got %d", existing.ID, order.ID)
	}
}

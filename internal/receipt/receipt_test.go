package receipt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mmeshcher/storefront-system/internal/model"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "PHP 0.00"},
		{1, "PHP 0.01"},
		{100, "PHP 1.00"},
		{12550, "PHP 125.50"},
		{123456789, "PHP 1,234,567.89"},
		{100000000, "PHP 1,000,000.00"},
		{-12550, "PHP -125.50"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.cents); got != tt.want {
			t.Fatalf("FormatAmount(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestPaymentMethodLabel(t *testing.T) {
	tests := []struct {
		method model.PaymentMethod
		want   string
	}{
		{model.PaymentMethodCard, "Credit Card"},
		{model.PaymentMethodCOD, "Cash on Delivery"},
		{model.PaymentMethodPickup, "In-store Pickup"},
	}

	for _, tt := range tests {
		if got := paymentMethodLabel(tt.method); got != tt.want {
			t.Fatalf("paymentMethodLabel(%s) = %q, want %q", tt.method, got, tt.want)
		}
	}
}

func testOrder() *model.Order {
	return &model.Order{
		ID:            42,
		UserID:        1,
		TotalCents:    25100,
		PaymentMethod: model.PaymentMethodCOD,
		Status:        model.OrderStatusPending,
		CreatedAt:     time.Date(2026, 8, 1, 15, 4, 0, 0, time.UTC),
		Customer: model.CustomerInfo{
			FullName:   "Juan dela Cruz",
			Email:      "juan@example.com",
			Phone:      "+63-900-000-0000",
			Address:    "123 Rizal St",
			City:       "Manila",
			PostalCode: "1000",
		},
		Items: []model.OrderItem{
			{ProductID: 1, ProductName: "Spicy Tuna Roll", Quantity: 2, PriceCents: 10000},
			{ProductID: 2, ProductName: "Miso Soup", Quantity: 1, PriceCents: 5100},
		},
	}
}

func TestGenerate_ProducesPDF(t *testing.T) {
	var buf bytes.Buffer

	if err := Generate(testOrder(), &buf); err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if buf.Len() == 0 {
		t.Fatalf("generated PDF is empty")
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Fatalf("output does not start with PDF header")
	}
}

func TestGenerate_EmptyOrder(t *testing.T) {
	order := testOrder()
	order.Items = nil
	order.TotalCents = 0

	var buf bytes.Buffer
	if err := Generate(order, &buf); err != nil {
		t.Fatalf("Generate error for empty order: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Fatalf("output does not start with PDF header")
	}
}

func TestGenerate_ManyItemsPaginates(t *testing.T) {
	order := testOrder()
	order.Items = nil
	for i := 0; i < 120; i++ {
		order.Items = append(order.Items, model.OrderItem{
			ProductID:   int64(i + 1),
			ProductName: "California Roll",
			Quantity:    1,
			PriceCents:  10000,
		})
	}

	var buf bytes.Buffer
	if err := Generate(order, &buf); err != nil {
		t.Fatalf("Generate error for long order: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Fatalf("output does not start with PDF header")
	}
	// Длинный заказ обязан занять больше одной страницы
	var short bytes.Buffer
	if err := Generate(testOrder(), &short); err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if buf.Len() <= short.Len() {
		t.Fatalf("long order PDF (%d bytes) must be larger than short one (%d bytes)", buf.Len(), short.Len())
	}
}

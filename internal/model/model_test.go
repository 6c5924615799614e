package model

import (
	"testing"
	"time"
)

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusProcessing, OrderStatusPaid,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
	} {
		if !ValidOrderStatus(s) {
			t.Fatalf("%s must be a valid status", s)
		}
	}

	for _, s := range []OrderStatus{"", "all", "teleported", "Pending"} {
		if ValidOrderStatus(s) {
			t.Fatalf("%q must not be a valid status", s)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	if !OrderStatusDelivered.Terminal() || !OrderStatusCancelled.Terminal() {
		t.Fatalf("delivered and cancelled must be terminal")
	}

	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusPaid, OrderStatusShipped} {
		if s.Terminal() {
			t.Fatalf("%s must not be terminal", s)
		}
	}
}

func TestOrderStatusCanTransition(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderStatusPending, OrderStatusShipped, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPaid, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusShipped, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusShipped, false},
		{OrderStatusPending, "teleported", false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Fatalf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCouponExpired(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	c := &Coupon{ExpiresAt: now.Add(time.Hour)}
	if c.Expired(now) {
		t.Fatalf("coupon expiring in an hour must not be expired")
	}

	c = &Coupon{ExpiresAt: now}
	if !c.Expired(now) {
		t.Fatalf("coupon is expired at the expiry instant")
	}

	c = &Coupon{ExpiresAt: now.Add(-time.Second)}
	if !c.Expired(now) {
		t.Fatalf("coupon past expiry must be expired")
	}
}

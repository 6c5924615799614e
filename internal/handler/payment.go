package handler

import (
	"net/http"

	"github.com/mmeshcher/storefront-system/internal/model"
	"github.com/mmeshcher/storefront-system/internal/service"
)

type checkoutProduct struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type checkoutSessionRequest struct {
	Products   []checkoutProduct `json:"products"`
	CouponCode string            `json:"couponCode"`
}

type checkoutSuccessRequest struct {
	SessionID string `json:"sessionId"`
}

type customerInfoRequest struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Notes      string `json:"notes"`
}

type alternativeOrderRequest struct {
	Products      []checkoutProduct   `json:"products"`
	CouponCode    string              `json:"couponCode"`
	PaymentMethod string              `json:"paymentMethod"`
	CustomerInfo  customerInfoRequest `json:"customerInfo"`
}

func toCheckoutItems(products []checkoutProduct) []service.CheckoutItem {
	items := make([]service.CheckoutItem, len(products))
	for i, p := range products {
		items[i] = service.CheckoutItem{
			ProductID:  p.ID,
			Name:       p.Name,
			Image:      p.Image,
			PriceCents: toCents(p.Price),
			Quantity:   p.Quantity,
		}
	}
	return items
}

// CreateCheckoutSession создаёт платёжную сессию для карточной оплаты.
func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req checkoutSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.service.CreateCheckoutSession(r.Context(), user.ID, toCheckoutItems(req.Products), req.CouponCode)
	if err != nil {
		h.serviceError(w, err, "create checkout session error")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"id":          session.SessionID,
		"url":         session.URL,
		"totalAmount": toMajor(session.TotalCents),
	})
}

// CheckoutSuccess подтверждает оплату сессии и создаёт заказ.
// Повторный вызов с той же сессией возвращает уже созданный заказ.
func (h *Handler) CheckoutSuccess(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req checkoutSuccessRequest
	if err := decodeJSON(r, &req); err != nil || req.SessionID == "" {
		h.writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	order, err := h.service.ConfirmCheckout(r.Context(), user.ID, req.SessionID)
	if err != nil {
		h.serviceError(w, err, "checkout success error")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Payment successful and order created.",
		"orderId": order.ID,
	})
}

// CreateAlternativeOrder оформляет заказ с оплатой при получении или самовывозом.
func (h *Handler) CreateAlternativeOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req alternativeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.PlaceDirectOrder(r.Context(), user.ID, &service.DirectOrderRequest{
		Items:         toCheckoutItems(req.Products),
		CouponCode:    req.CouponCode,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		Customer: model.CustomerInfo{
			FullName:   req.CustomerInfo.FullName,
			Email:      req.CustomerInfo.Email,
			Phone:      req.CustomerInfo.Phone,
			Address:    req.CustomerInfo.Address,
			City:       req.CustomerInfo.City,
			PostalCode: req.CustomerInfo.PostalCode,
			Notes:      req.CustomerInfo.Notes,
		},
	})
	if err != nil {
		h.serviceError(w, err, "create alternative order error")
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Order created successfully.",
		"orderId": order.ID,
	})
}

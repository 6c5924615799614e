package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/mmeshcher/storefront-system/internal/model"
	"github.com/mmeshcher/storefront-system/internal/repository"
	"github.com/mmeshcher/storefront-system/internal/service"
)

type couponResponse struct {
	Code               string `json:"code"`
	DiscountPercentage int    `json:"discountPercentage"`
	ExpiresAt          string `json:"expirationDate"`
	IsActive           bool   `json:"isActive"`
}

func newCouponResponse(c *model.Coupon) couponResponse {
	return couponResponse{
		Code:               c.Code,
		DiscountPercentage: c.DiscountPercentage,
		ExpiresAt:          c.ExpiresAt.Format(time.RFC3339),
		IsActive:           c.IsActive,
	}
}

type validateCouponRequest struct {
	Code string `json:"code"`
}

// GetCoupon возвращает действующий купон текущего пользователя или null.
func (h *Handler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	coupon, err := h.service.GetUserCoupon(r.Context(), user.ID)
	switch {
	case errors.Is(err, repository.ErrCouponNotFound), errors.Is(err, service.ErrInvalidCoupon):
		// Отсутствие купона — нормальное состояние, а не ошибка
		h.writeJSON(w, http.StatusOK, nil)
	case err != nil:
		h.serviceError(w, err, "get coupon error")
	default:
		h.writeJSON(w, http.StatusOK, newCouponResponse(coupon))
	}
}

// ValidateCoupon проверяет купон по коду без его погашения.
func (h *Handler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req validateCouponRequest
	if err := decodeJSON(r, &req); err != nil || req.Code == "" {
		h.writeError(w, http.StatusBadRequest, "coupon code is required")
		return
	}

	coupon, err := h.service.ValidateCoupon(r.Context(), user.ID, req.Code)
	if err != nil {
		h.serviceError(w, err, "validate coupon error")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"message":            "Coupon is valid",
		"code":               coupon.Code,
		"discountPercentage": coupon.DiscountPercentage,
	})
}

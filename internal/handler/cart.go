package handler

import (
	"net/http"

	"github.com/mmeshcher/storefront-system/internal/model"
)

type cartItemResponse struct {
	productResponse
	Quantity int `json:"quantity"`
}

func newCartResponse(items []model.CartItem) []cartItemResponse {
	resp := make([]cartItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, cartItemResponse{
			productResponse: newProductResponse(&items[i].Product),
			Quantity:        items[i].Quantity,
		})
	}
	return resp
}

type cartProductRequest struct {
	ProductID int64 `json:"productId"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart возвращает корзину текущего пользователя.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	items, err := h.service.GetCart(r.Context(), user.ID)
	if err != nil {
		h.serviceError(w, err, "get cart error")
		return
	}

	h.writeJSON(w, http.StatusOK, newCartResponse(items))
}

// AddToCart добавляет товар в корзину текущего пользователя.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req cartProductRequest
	if err := decodeJSON(r, &req); err != nil || req.ProductID < 1 {
		h.writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	items, err := h.service.AddToCart(r.Context(), user.ID, req.ProductID)
	if err != nil {
		h.serviceError(w, err, "add to cart error")
		return
	}

	h.writeJSON(w, http.StatusOK, newCartResponse(items))
}

// UpdateCartItem устанавливает количество товара в корзине.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	productID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req cartQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items, err := h.service.UpdateCartItem(r.Context(), user.ID, productID, req.Quantity)
	if err != nil {
		h.serviceError(w, err, "update cart item error")
		return
	}

	h.writeJSON(w, http.StatusOK, newCartResponse(items))
}

// RemoveFromCart удаляет товар из корзины. Запрос без productId очищает корзину целиком.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req cartProductRequest
	// Тело может отсутствовать
	_ = decodeJSON(r, &req)

	if req.ProductID < 1 {
		if err := h.service.ClearCart(r.Context(), user.ID); err != nil {
			h.serviceError(w, err, "clear cart error")
			return
		}
		h.writeJSON(w, http.StatusOK, []cartItemResponse{})
		return
	}

	items, err := h.service.RemoveFromCart(r.Context(), user.ID, req.ProductID)
	if err != nil {
		h.serviceError(w, err, "remove from cart error")
		return
	}

	h.writeJSON(w, http.StatusOK, newCartResponse(items))
}

// ClearCart очищает корзину текущего пользователя.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.ClearCart(r.Context(), user.ID); err != nil {
		h.serviceError(w, err, "clear cart error")
		return
	}

	h.writeJSON(w, http.StatusOK, messageResponse{Message: "Cart cleared"})
}

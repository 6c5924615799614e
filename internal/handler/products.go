package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/storefront-system/internal/model"
)

type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	IsFeatured  bool    `json:"isFeatured"`
}

type productResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	IsFeatured  bool    `json:"isFeatured"`
	CreatedAt   string  `json:"createdAt"`
}

func newProductResponse(p *model.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       toMajor(p.PriceCents),
		Image:       p.Image,
		Category:    p.Category,
		IsFeatured:  p.IsFeatured,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func newProductListResponse(products []model.Product) []productResponse {
	resp := make([]productResponse, 0, len(products))
	for i := range products {
		resp = append(resp, newProductResponse(&products[i]))
	}
	return resp
}

// pathID извлекает числовой идентификатор из параметра маршрута.
// Синтаксически некорректный идентификатор неотличим от отсутствующего ресурса.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id < 1 {
		h.writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
		return 0, false
	}
	return id, true
}

// GetAllProducts возвращает весь каталог (панель администратора).
func (h *Handler) GetAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAllProducts(r.Context())
	if err != nil {
		h.serviceError(w, err, "get products error")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"products": newProductListResponse(products)})
}

// GetFeaturedProducts возвращает рекомендуемые товары.
func (h *Handler) GetFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetFeaturedProducts(r.Context())
	if err != nil {
		h.serviceError(w, err, "get featured products error")
		return
	}

	h.writeJSON(w, http.StatusOK, newProductListResponse(products))
}

// GetProductsByCategory возвращает товары указанной категории.
func (h *Handler) GetProductsByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	products, err := h.service.GetProductsByCategory(r.Context(), category)
	if err != nil {
		h.serviceError(w, err, "get products by category error")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"products": newProductListResponse(products)})
}

// GetRecommendedProducts возвращает случайную подборку товаров.
func (h *Handler) GetRecommendedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetRecommendedProducts(r.Context())
	if err != nil {
		h.serviceError(w, err, "get recommended products error")
		return
	}

	h.writeJSON(w, http.StatusOK, newProductListResponse(products))
}

// CreateProduct сохраняет новый товар каталога.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Price < 0 {
		h.writeError(w, http.StatusBadRequest, "name is required and price must not be negative")
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &model.Product{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  toCents(req.Price),
		Image:       req.Image,
		Category:    req.Category,
		IsFeatured:  req.IsFeatured,
	})
	if err != nil {
		h.serviceError(w, err, "create product error")
		return
	}

	h.writeJSON(w, http.StatusCreated, newProductResponse(product))
}

// UpdateProduct обновляет товар каталога.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Price < 0 {
		h.writeError(w, http.StatusBadRequest, "name is required and price must not be negative")
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), &model.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  toCents(req.Price),
		Image:       req.Image,
		Category:    req.Category,
		IsFeatured:  req.IsFeatured,
	})
	if err != nil {
		h.serviceError(w, err, "update product error")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Product updated successfully",
		"product": newProductResponse(product),
	})
}

// ToggleFeaturedProduct переключает признак "рекомендуемый" у товара.
func (h *Handler) ToggleFeaturedProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	product, err := h.service.ToggleProductFeatured(r.Context(), id)
	if err != nil {
		h.serviceError(w, err, "toggle featured product error")
		return
	}

	h.writeJSON(w, http.StatusOK, newProductResponse(product))
}

// DeleteProduct удаляет товар каталога.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		h.serviceError(w, err, "delete product error")
		return
	}

	h.writeJSON(w, http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}

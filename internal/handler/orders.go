package handler

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/storefront-system/internal/model"
	"github.com/mmeshcher/storefront-system/internal/receipt"
)

type orderItemResponse struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type customerInfoResponse struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID            int64                `json:"id"`
	UserID        int64                `json:"userId"`
	Items         []orderItemResponse  `json:"items"`
	TotalAmount   float64              `json:"totalAmount"`
	PaymentMethod model.PaymentMethod  `json:"paymentMethod"`
	Status        model.OrderStatus    `json:"status"`
	CustomerInfo  customerInfoResponse `json:"customerInfo"`
	CreatedAt     string               `json:"createdAt"`
}

func newOrderResponse(o *model.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			Price:     toMajor(item.PriceCents),
		})
	}

	return orderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		Items:         items,
		TotalAmount:   toMajor(o.TotalCents),
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		CustomerInfo: customerInfoResponse{
			FullName:   o.Customer.FullName,
			Email:      o.Customer.Email,
			Phone:      o.Customer.Phone,
			Address:    o.Customer.Address,
			City:       o.Customer.City,
			PostalCode: o.Customer.PostalCode,
			Notes:      o.Customer.Notes,
		},
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
}

func newOrderListResponse(orders []model.Order) []orderResponse {
	resp := make([]orderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, newOrderResponse(&orders[i]))
	}
	return resp
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

// GetAdminOrders возвращает страницу заказов для панели администратора.
// Параметры запроса: status (фильтр, "all" отключает), page, limit.
func (h *Handler) GetAdminOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	status := model.OrderStatus(q.Get("status"))

	result, err := h.service.ListAdminOrders(r.Context(), status, page, limit)
	if err != nil {
		h.serviceError(w, err, "get admin orders error")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"orders":      newOrderListResponse(result.Orders),
		"totalOrders": result.Total,
		"totalPages":  result.TotalPages,
		"currentPage": result.Page,
	})
}

// GetUserOrders возвращает заказы текущего пользователя от новых к старым.
func (h *Handler) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	orders, err := h.service.ListUserOrders(r.Context(), user.ID)
	if err != nil {
		h.serviceError(w, err, "get user orders error")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"orders": newOrderListResponse(orders)})
}

// GetOrder возвращает заказ по идентификатору. Чужой заказ доступен только
// администратору.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	orderID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.service.GetOrder(r.Context(), user.ID, user.Role, orderID)
	if err != nil {
		h.serviceError(w, err, "get order error")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"order": newOrderResponse(order)})
}

// UpdateOrderStatus переводит заказ в новый статус по таблице переходов.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req changeStatusRequest
	if err := decodeJSON(r, &req); err != nil || req.Status == "" {
		h.writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	order, err := h.service.ChangeOrderStatus(r.Context(), orderID, model.OrderStatus(req.Status))
	if err != nil {
		h.serviceError(w, err, "update order status error")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Order status updated successfully",
		"order":   newOrderResponse(order),
	})
}

// DownloadReceipt формирует PDF-квитанцию заказа и отдаёт её на скачивание.
func (h *Handler) DownloadReceipt(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	orderID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.service.GetOrder(r.Context(), user.ID, user.Role, orderID)
	if err != nil {
		h.serviceError(w, err, "get order for receipt error")
		return
	}

	f, err := os.CreateTemp("", "receipt-*.pdf")
	if err != nil {
		h.logger.Error("create receipt file error", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "error generating receipt")
		return
	}
	defer func() {
		f.Close()
		if err := os.Remove(f.Name()); err != nil {
			h.logger.Warn("remove receipt file failed", zap.String("path", f.Name()), zap.Error(err))
		}
	}()

	if err := receipt.Generate(order, f); err != nil {
		h.logger.Error("generate receipt error", zap.Int64("orderID", order.ID), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "error generating receipt")
		return
	}

	if _, err := f.Seek(0, 0); err != nil {
		h.logger.Error("seek receipt file error", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "error generating receipt")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%d.pdf", order.ID))
	http.ServeContent(w, r, "", time.Time{}, f)
}

package handler

import (
	"net/http"
	"time"
)

type salesPointResponse struct {
	Date    string  `json:"date"`
	Sales   int64   `json:"sales"`
	Revenue float64 `json:"revenue"`
}

// GetAnalytics возвращает сводные показатели и продажи по дням. По умолчанию
// период — последняя неделя; параметры startDate и endDate (YYYY-MM-DD)
// задают произвольный диапазон.
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	end := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	start := end.Add(-7 * 24 * time.Hour)

	q := r.URL.Query()
	if raw := q.Get("startDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid startDate, expected YYYY-MM-DD")
			return
		}
		start = parsed
	}
	if raw := q.Get("endDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid endDate, expected YYYY-MM-DD")
			return
		}
		// Конец диапазона включает указанный день целиком
		end = parsed.Add(24 * time.Hour)
	}
	if !end.After(start) {
		h.writeError(w, http.StatusBadRequest, "endDate must not be before startDate")
		return
	}

	analytics, err := h.service.GetAnalytics(r.Context(), start, end)
	if err != nil {
		h.serviceError(w, err, "get analytics error")
		return
	}

	daily := make([]salesPointResponse, 0, len(analytics.DailySales))
	for _, p := range analytics.DailySales {
		daily = append(daily, salesPointResponse{
			Date:    p.Date.Format("2006-01-02"),
			Sales:   p.Sales,
			Revenue: toMajor(p.RevenueCents),
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"analyticsData": map[string]any{
			"users":        analytics.Summary.Users,
			"products":     analytics.Summary.Products,
			"totalSales":   analytics.Summary.Sales,
			"totalRevenue": toMajor(analytics.Summary.RevenueCents),
		},
		"dailySalesData": daily,
	})
}

package service

import (
	"context"
	"time"

	"github.com/mmeshcher/storefront-system/internal/model"
)

// Analytics содержит сводные показатели и продажи по дням.
type Analytics struct {
	Summary    model.AnalyticsSummary
	DailySales []model.SalesPoint
}

// GetAnalytics возвращает сводную аналитику и продажи по дням за период
// [start, end). Дни без заказов заполняются нулями.
func (s *Service) GetAnalytics(ctx context.Context, start, end time.Time) (*Analytics, error) {
	summary, err := s.repo.GetAnalyticsSummary(ctx)
	if err != nil {
		return nil, err
	}

	points, err := s.repo.GetDailySales(ctx, start, end)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]model.SalesPoint, len(points))
	for _, p := range points {
		byDay[p.Date.UTC().Format("2006-01-02")] = p
	}

	var daily []model.SalesPoint
	for day := start.UTC().Truncate(24 * time.Hour); day.Before(end); day = day.Add(24 * time.Hour) {
		key := day.Format("2006-01-02")
		if p, ok := byDay[key]; ok {
			daily = append(daily, model.SalesPoint{
				Date:         day,
				Sales:        p.Sales,
				RevenueCents: p.RevenueCents,
			})
			continue
		}
		daily = append(daily, model.SalesPoint{Date: day})
	}

	return &Analytics{
		Summary:    *summary,
		DailySales: daily,
	}, nil
}

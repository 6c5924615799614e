package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mmeshcher/storefront-system/internal/cache"
	"github.com/mmeshcher/storefront-system/internal/model"
)

const recommendedProductsLimit = 4

// GetAllProducts возвращает весь каталог.
func (s *Service) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	return s.repo.GetAllProducts(ctx)
}

// GetFeaturedProducts возвращает рекомендуемые товары, используя кеш со
// сквозным чтением. Ошибки кеша не прерывают запрос: данные читаются из БД.
func (s *Service) GetFeaturedProducts(ctx context.Context) ([]model.Product, error) {
	if s.cache != nil {
		products, err := s.cache.GetFeaturedProducts(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("featured products cache read failed", zap.Error(err))
		}
	}

	products, err := s.repo.GetFeaturedProducts(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetFeaturedProducts(ctx, products); err != nil {
			s.logger.Warn("featured products cache write failed", zap.Error(err))
		}
	}

	return products, nil
}

// refreshFeaturedCache перечитывает рекомендуемые товары из БД и перезаписывает
// кеш. Сбой кеша логируется и не прерывает основной запрос.
func (s *Service) refreshFeaturedCache(ctx context.Context) {
	if s.cache == nil {
		return
	}

	products, err := s.repo.GetFeaturedProducts(ctx)
	if err != nil {
		s.logger.Warn("featured products cache refresh failed", zap.Error(err))
		return
	}

	if err := s.cache.SetFeaturedProducts(ctx, products); err != nil {
		s.logger.Warn("featured products cache refresh failed", zap.Error(err))
	}
}

// GetProductsByCategory возвращает товары указанной категории.
func (s *Service) GetProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	return s.repo.GetProductsByCategory(ctx, category)
}

// GetRecommendedProducts возвращает случайную подборку товаров.
func (s *Service) GetRecommendedProducts(ctx context.Context) ([]model.Product, error) {
	return s.repo.GetRandomProducts(ctx, recommendedProductsLimit)
}

// CreateProduct сохраняет новый товар каталога.
func (s *Service) CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	created, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		return nil, err
	}

	if created.IsFeatured {
		s.refreshFeaturedCache(ctx)
	}

	return created, nil
}

// UpdateProduct обновляет товар и освежает кеш рекомендуемых товаров,
// поскольку обновление могло изменить признак is_featured.
func (s *Service) UpdateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	updated, err := s.repo.UpdateProduct(ctx, p)
	if err != nil {
		return nil, err
	}

	s.refreshFeaturedCache(ctx)

	return updated, nil
}

// ToggleProductFeatured переключает признак "рекомендуемый" и освежает кеш.
func (s *Service) ToggleProductFeatured(ctx context.Context, id int64) (*model.Product, error) {
	updated, err := s.repo.ToggleProductFeatured(ctx, id)
	if err != nil {
		return nil, err
	}

	s.refreshFeaturedCache(ctx)

	return updated, nil
}

// DeleteProduct удаляет товар. Если товар был рекомендуемым, кеш освежается.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	p, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	if p.IsFeatured {
		s.refreshFeaturedCache(ctx)
	}

	return nil
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/storefront-system/internal/cache"
	"github.com/mmeshcher/storefront-system/internal/model"
)

type stubCache struct {
	featured    []model.Product
	featuredErr error

	setCalls int
	setErr   error

	tokens map[int64]string
}

func (c *stubCache) GetFeaturedProducts(ctx context.Context) ([]model.Product, error) {
	return c.featured, c.featuredErr
}

func (c *stubCache) SetFeaturedProducts(ctx context.Context, products []model.Product) error {
	c.setCalls++
	if c.setErr != nil {
		return c.setErr
	}
	c.featured = products
	c.featuredErr = nil
	return nil
}

func (c *stubCache) StoreRefreshToken(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	if c.tokens == nil {
		c.tokens = make(map[int64]string)
	}
	c.tokens[userID] = token
	return nil
}

func (c *stubCache) GetRefreshToken(ctx context.Context, userID int64) (string, error) {
	token, ok := c.tokens[userID]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return token, nil
}

func (c *stubCache) DeleteRefreshToken(ctx context.Context, userID int64) error {
	delete(c.tokens, userID)
	return nil
}

func TestGetFeaturedProducts_CacheHit(t *testing.T) {
	repo := &stubRepo{productsErr: errors.New("db must not be touched")}
	cch := &stubCache{
		featured: []model.Product{{ID: 1, Name: "Ramen", IsFeatured: true}},
	}
	svc := NewService(repo, cch, nil, "", zap.NewNop())

	products, err := svc.GetFeaturedProducts(context.Background())
	if err != nil {
		t.Fatalf("GetFeaturedProducts error: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Ramen" {
		t.Fatalf("unexpected products: %+v", products)
	}
}

func TestGetFeaturedProducts_CacheMissFallsBackToDB(t *testing.T) {
	repo := &stubRepo{
		products: []model.Product{{ID: 2, Name: "Udon", IsFeatured: true}},
	}
	cch := &stubCache{featuredErr: cache.ErrCacheMiss}
	svc := NewService(repo, cch, nil, "", zap.NewNop())

	products, err := svc.GetFeaturedProducts(context.Background())
	if err != nil {
		t.Fatalf("GetFeaturedProducts error: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Udon" {
		t.Fatalf("unexpected products: %+v", products)
	}
	if cch.setCalls != 1 {
		t.Fatalf("cache must be filled after miss, setCalls = %d", cch.setCalls)
	}
}

func TestGetFeaturedProducts_CacheErrorDoesNotFailRequest(t *testing.T) {
	repo := &stubRepo{
		products: []model.Product{{ID: 3, Name: "Gyoza", IsFeatured: true}},
	}
	cch := &stubCache{
		featuredErr: errors.New("redis down"),
		setErr:      errors.New("redis down"),
	}
	svc := NewService(repo, cch, nil, "", zap.NewNop())

	products, err := svc.GetFeaturedProducts(context.Background())
	if err != nil {
		t.Fatalf("cache failure must not fail the request: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("unexpected products: %+v", products)
	}
}

func TestGetFeaturedProducts_NoCache(t *testing.T) {
	repo := &stubRepo{
		products: []model.Product{{ID: 4, Name: "Tempura", IsFeatured: true}},
	}
	svc := newTestService(repo)

	products, err := svc.GetFeaturedProducts(context.Background())
	if err != nil {
		t.Fatalf("GetFeaturedProducts error: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("unexpected products: %+v", products)
	}
}

func TestToggleProductFeatured_RefreshesCache(t *testing.T) {
	repo := &stubRepo{
		product:  &model.Product{ID: 5, Name: "Sashimi", IsFeatured: true},
		products: []model.Product{{ID: 5, Name: "Sashimi", IsFeatured: true}},
	}
	cch := &stubCache{featuredErr: cache.ErrCacheMiss}
	svc := NewService(repo, cch, nil, "", zap.NewNop())

	if _, err := svc.ToggleProductFeatured(context.Background(), 5); err != nil {
		t.Fatalf("ToggleProductFeatured error: %v", err)
	}
	if cch.setCalls != 1 {
		t.Fatalf("cache must be refreshed after toggle, setCalls = %d", cch.setCalls)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	cch := &stubCache{}
	svc := NewService(&stubRepo{}, cch, nil, "", zap.NewNop())

	if err := svc.StoreRefreshToken(context.Background(), 1, "token-a", time.Hour); err != nil {
		t.Fatalf("StoreRefreshToken error: %v", err)
	}
	if err := svc.ValidateRefreshToken(context.Background(), 1, "token-a"); err != nil {
		t.Fatalf("ValidateRefreshToken error: %v", err)
	}
	if err := svc.ValidateRefreshToken(context.Background(), 1, "token-b"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("mismatched token must be rejected, got %v", err)
	}

	if err := svc.RevokeRefreshToken(context.Background(), 1); err != nil {
		t.Fatalf("RevokeRefreshToken error: %v", err)
	}
	if err := svc.ValidateRefreshToken(context.Background(), 1, "token-a"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("revoked token must be rejected, got %v", err)
	}
}

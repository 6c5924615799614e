// Package cache реализует работу с Redis: кеш рекомендуемых товаров
// и хранилище refresh-токенов.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmeshcher/storefront-system/internal/model"
)

const (
	featuredProductsKey = "featured_products"
	refreshTokenPrefix  = "refresh_token:"

	// TTL кеша рекомендуемых товаров. Кеш инвалидируется явно при каждом
	// изменении признака is_featured; TTL страхует от пропущенной инвалидации.
	featuredProductsTTL = time.Hour
)

// ErrCacheMiss возвращается, когда значения нет в кеше.
var ErrCacheMiss = errors.New("cache miss")

// Cache предоставляет доступ к Redis.
type Cache struct {
	client *redis.Client
}

// New создаёт подключение к Redis по указанному адресу.
func New(addr string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Cache{client: client}, nil
}

// Close закрывает подключение к Redis.
func (c *Cache) Close() error {
	return c.client.Close()
}

// GetFeaturedProducts возвращает закешированный список рекомендуемых товаров.
func (c *Cache) GetFeaturedProducts(ctx context.Context) ([]model.Product, error) {
	data, err := c.client.Get(ctx, featuredProductsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("get featured products: %w", err)
	}

	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal featured products: %w", err)
	}

	return products, nil
}

// SetFeaturedProducts перезаписывает кеш рекомендуемых товаров.
func (c *Cache) SetFeaturedProducts(ctx context.Context, products []model.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal featured products: %w", err)
	}

	if err := c.client.Set(ctx, featuredProductsKey, data, featuredProductsTTL).Err(); err != nil {
		return fmt.Errorf("set featured products: %w", err)
	}

	return nil
}

// StoreRefreshToken сохраняет refresh-токен пользователя на время его действия.
func (c *Cache) StoreRefreshToken(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	key := refreshTokenPrefix + strconv.FormatInt(userID, 10)
	if err := c.client.Set(ctx, key, token, ttl).Err(); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken возвращает сохранённый refresh-токен пользователя.
func (c *Cache) GetRefreshToken(ctx context.Context, userID int64) (string, error) {
	key := refreshTokenPrefix + strconv.FormatInt(userID, 10)
	token, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("get refresh token: %w", err)
	}
	return token, nil
}

// DeleteRefreshToken удаляет refresh-токен пользователя (выход из системы).
func (c *Cache) DeleteRefreshToken(ctx context.Context, userID int64) error {
	key := refreshTokenPrefix + strconv.FormatInt(userID, 10)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

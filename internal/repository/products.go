package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/storefront-system/internal/model"
)

const productColumns = `id, name, description, price_cents, image, category, is_featured, created_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Image, &p.Category, &p.IsFeatured, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

func (r *PostgresRepository) queryProducts(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}

// GetAllProducts возвращает все товары каталога.
func (r *PostgresRepository) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
}

// GetFeaturedProducts возвращает товары с признаком "рекомендуемый".
func (r *PostgresRepository) GetFeaturedProducts(ctx context.Context) ([]model.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE is_featured ORDER BY created_at DESC`)
}

// GetProductsByCategory возвращает товары указанной категории.
func (r *PostgresRepository) GetProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE category = $1 ORDER BY created_at DESC`, category)
}

// GetRandomProducts возвращает случайную выборку товаров для блока рекомендаций.
func (r *PostgresRepository) GetRandomProducts(ctx context.Context, limit int) ([]model.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY random() LIMIT $1`, limit)
}

// GetProductByID возвращает товар по идентификатору.
func (r *PostgresRepository) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

// CreateProduct сохраняет новый товар и возвращает его с заполненным идентификатором.
func (r *PostgresRepository) CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO products (name, description, price_cents, image, category, is_featured)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+productColumns,
		p.Name, p.Description, p.PriceCents, p.Image, p.Category, p.IsFeatured,
	)
	return scanProduct(row)
}

// UpdateProduct обновляет поля товара и возвращает обновлённую запись.
func (r *PostgresRepository) UpdateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE products
		 SET name = $2, description = $3, price_cents = $4, image = $5, category = $6, is_featured = $7
		 WHERE id = $1
		 RETURNING `+productColumns,
		p.ID, p.Name, p.Description, p.PriceCents, p.Image, p.Category, p.IsFeatured,
	)
	return scanProduct(row)
}

// ToggleProductFeatured переключает признак "рекомендуемый" и возвращает обновлённый товар.
func (r *PostgresRepository) ToggleProductFeatured(ctx context.Context, id int64) (*model.Product, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE products SET is_featured = NOT is_featured WHERE id = $1 RETURNING `+productColumns,
		id,
	)
	return scanProduct(row)
}

// DeleteProduct удаляет товар по идентификатору.
func (r *PostgresRepository) DeleteProduct(ctx context.Context, id int64) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/storefront-system/internal/model"
)

const couponColumns = `id, code, user_id, discount_percentage, is_active, expires_at, created_at`

func scanCoupon(row pgx.Row) (*model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(&c.ID, &c.Code, &c.UserID, &c.DiscountPercentage, &c.IsActive, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("scan coupon: %w", err)
	}
	return &c, nil
}

// CreateCoupon сохраняет новый купон пользователя.
func (r *PostgresRepository) CreateCoupon(ctx context.Context, c *model.Coupon) (*model.Coupon, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO coupons (code, user_id, discount_percentage, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+couponColumns,
		c.Code, c.UserID, c.DiscountPercentage, c.ExpiresAt,
	)
	return scanCoupon(row)
}

// GetActiveCoupon возвращает активный купон пользователя по коду.
func (r *PostgresRepository) GetActiveCoupon(ctx context.Context, userID int64, code string) (*model.Coupon, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1 AND user_id = $2 AND is_active`,
		code, userID,
	)
	return scanCoupon(row)
}

// GetUserCoupon возвращает последний активный купон пользователя, если он есть.
func (r *PostgresRepository) GetUserCoupon(ctx context.Context, userID int64) (*model.Coupon, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+couponColumns+`
		 FROM coupons
		 WHERE user_id = $1 AND is_active
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID,
	)
	return scanCoupon(row)
}

// DeactivateCoupon деактивирует купон без проверки его состояния.
// Используется для снятия с учёта просроченных купонов.
func (r *PostgresRepository) DeactivateCoupon(ctx context.Context, couponID int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE coupons SET is_active = FALSE WHERE id = $1`, couponID)
	if err != nil {
		return fmt.Errorf("deactivate coupon: %w", err)
	}
	return nil
}

// RedeemCoupon атомарно проверяет и деактивирует купон пользователя: условие
// is_active входит в сам UPDATE, поэтому два конкурентных оформления не могут
// погасить один купон дважды. Возвращает погашенный купон либо ErrCouponNotFound.
func (r *PostgresRepository) RedeemCoupon(ctx context.Context, userID int64, code string) (*model.Coupon, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE coupons
		 SET is_active = FALSE
		 WHERE code = $1 AND user_id = $2 AND is_active AND expires_at > now()
		 RETURNING `+couponColumns,
		code, userID,
	)
	return scanCoupon(row)
}

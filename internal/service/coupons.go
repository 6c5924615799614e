package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/storefront-system/internal/model"
)

const (
	// Порог суммы заказа (в сентаво), после которого пользователю выдаётся
	// подарочный купон.
	giftCouponThresholdCents = 20000 * 100

	giftCouponDiscount = 10
	giftCouponLifetime = 30 * 24 * time.Hour
)

// GetUserCoupon возвращает актуальный активный купон пользователя.
// Просроченный купон деактивируется и не возвращается.
func (s *Service) GetUserCoupon(ctx context.Context, userID int64) (*model.Coupon, error) {
	c, err := s.repo.GetUserCoupon(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.checkCouponExpiry(ctx, c)
}

// ValidateCoupon проверяет код купона пользователя, не погашая его.
func (s *Service) ValidateCoupon(ctx context.Context, userID int64, code string) (*model.Coupon, error) {
	c, err := s.repo.GetActiveCoupon(ctx, userID, code)
	if err != nil {
		return nil, err
	}

	return s.checkCouponExpiry(ctx, c)
}

// checkCouponExpiry деактивирует просроченный купон и возвращает ErrInvalidCoupon.
func (s *Service) checkCouponExpiry(ctx context.Context, c *model.Coupon) (*model.Coupon, error) {
	if !c.Expired(s.now()) {
		return c, nil
	}

	if err := s.repo.DeactivateCoupon(ctx, c.ID); err != nil {
		s.logger.Warn("deactivate expired coupon failed",
			zap.Int64("couponID", c.ID), zap.Error(err))
	}

	return nil, ErrInvalidCoupon
}

// grantGiftCoupon создаёт подарочный купон для пользователя, оформившего
// заказ на крупную сумму. Сбой не прерывает оформление заказа и лишь логируется.
func (s *Service) grantGiftCoupon(ctx context.Context, userID int64) {
	code := "GIFT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])

	_, err := s.repo.CreateCoupon(ctx, &model.Coupon{
		Code:               code,
		UserID:             userID,
		DiscountPercentage: giftCouponDiscount,
		ExpiresAt:          s.now().Add(giftCouponLifetime),
	})
	if err != nil {
		s.logger.Warn("grant gift coupon failed", zap.Int64("userID", userID), zap.Error(err))
		return
	}

	s.logger.Info("gift coupon granted", zap.Int64("userID", userID), zap.String("code", code))
}

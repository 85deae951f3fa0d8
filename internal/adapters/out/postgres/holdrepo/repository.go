package holdrepo

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/hold"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// GormHoldRepository implements HoldRepository using GORM.
type GormHoldRepository struct {
	db *gorm.DB
}

// NewGormHoldRepository creates a new GORM hold repository.
func NewGormHoldRepository(db *gorm.DB) *GormHoldRepository {
	return &GormHoldRepository{db: db}
}

var _ ports.HoldRepository = (*GormHoldRepository)(nil)

// Add saves the hold and its lines.
func (r *GormHoldRepository) Add(ctx context.Context, h *hold.StockHold) error {
	if err := h.Validate(); err != nil {
		return err
	}

	dto := fromDomain(h)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ConfirmLive confirms unconfirmed holds of the order that have not lapsed.
func (r *GormHoldRepository) ConfirmLive(ctx context.Context, orderID kernel.UUID, now time.Time) (int64, error) {
	if err := orderID.Validate(); err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).
		Model(&HoldDTO{}).
		Where("order_id = ? AND confirmed = ? AND expires_at > ?", orderID.Bytes(), false, now).
		Update("confirmed", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteExpired removes lapsed unconfirmed holds together with their lines.
func (r *GormHoldRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	db := r.db.WithContext(ctx)
	expired := db.Model(&HoldDTO{}).
		Select("id").
		Where("confirmed = ? AND expires_at <= ?", false, now)

	if err := db.Where("hold_id IN (?)", expired).Delete(&HoldLineDTO{}).Error; err != nil {
		return 0, err
	}

	result := db.Where("confirmed = ? AND expires_at <= ?", false, now).Delete(&HoldDTO{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

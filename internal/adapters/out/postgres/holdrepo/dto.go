// Package holdrepo persists stock holds and their lines.
package holdrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/hold"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldDTO represents a stock hold row.
type HoldDTO struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID     `gorm:"type:uuid;not null;index"`
	Confirmed bool          `gorm:"not null;default:false"`
	ExpiresAt time.Time     `gorm:"not null;index"`
	CreatedAt time.Time     `gorm:"not null"`
	Lines     []HoldLineDTO `gorm:"foreignKey:HoldID;constraint:OnDelete:CASCADE"`
}

func (HoldDTO) TableName() string {
	return "stock_holds"
}

// HoldLineDTO represents one reserved quantity. Lines are looked up by
// (product, unit) when availability is computed.
type HoldLineDTO struct {
	ID       uint            `gorm:"primaryKey;autoIncrement"`
	HoldID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Product  string          `gorm:"type:varchar(128);not null;index:idx_stock_hold_lines_key,priority:1"`
	Unit     string          `gorm:"type:varchar(32);not null;index:idx_stock_hold_lines_key,priority:2"`
	Quantity decimal.Decimal `gorm:"type:numeric(14,3);not null"`
}

func (HoldLineDTO) TableName() string {
	return "stock_hold_lines"
}

func fromDomain(h *hold.StockHold) HoldDTO {
	lines := make([]HoldLineDTO, 0, len(h.Lines()))
	for _, l := range h.Lines() {
		lines = append(lines, HoldLineDTO{
			HoldID:   h.ID().Bytes(),
			Product:  l.Product(),
			Unit:     l.Unit(),
			Quantity: l.Quantity(),
		})
	}

	return HoldDTO{
		ID:        h.ID().Bytes(),
		OrderID:   h.OrderID().Bytes(),
		Confirmed: h.IsConfirmed(),
		ExpiresAt: h.ExpiresAt(),
		CreatedAt: h.CreatedAt(),
		Lines:     lines,
	}
}

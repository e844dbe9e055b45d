package domain

import (
	"time"

	"gorm.io/gorm"
)

// SparePart is an inventory item consumed by maintenance orders. Read-only
// to the life tracker except for stock adjustments.
type SparePart struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	CompanyID      uint           `json:"company_id" gorm:"not null;index"`
	Name           string         `json:"name" gorm:"not null"`
	Category       string         `json:"category" gorm:"index"`
	ExpectedLifeKm *int64         `json:"expected_life_km,omitempty"`
	UnitCost       float64        `json:"unit_cost"`
	StockQty       int            `json:"stock_qty" gorm:"column:stock_qty;not null;default:0"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (SparePart) TableName() string {
	return "spare_parts"
}

// SparePartLifeEvent is one replacement record. Exactly one row exists per
// (company, part, vehicle, order); re-completing the same order re-derives
// the row in place.
type SparePartLifeEvent struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	CompanyID         uint      `json:"company_id" gorm:"not null;uniqueIndex:idx_life_event_key"`
	SparePartID       uint      `json:"spare_part_id" gorm:"not null;uniqueIndex:idx_life_event_key"`
	VehicleID         uint      `json:"vehicle_id" gorm:"not null;uniqueIndex:idx_life_event_key"`
	OrderID           uint      `json:"order_id" gorm:"not null;uniqueIndex:idx_life_event_key"`
	CompletionMileage int64     `json:"completion_mileage" gorm:"not null"`
	DeltaKm           *int64    `json:"delta_km,omitempty"`
	Quantity          int       `json:"quantity" gorm:"not null;default:1"`
	ExpectedLifeKm    *int64    `json:"expected_life_km,omitempty"`
	RecordedAt        time.Time `json:"recorded_at"`
}

// TableName specifies the table name
func (SparePartLifeEvent) TableName() string {
	return "spare_part_life_events"
}

// SparePartLifeStat is the materialized rolling aggregate per (company,
// part), recomputed in full from all events on every new event.
type SparePartLifeStat struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	CompanyID      uint       `json:"company_id" gorm:"not null;uniqueIndex:idx_life_stat_key"`
	SparePartID    uint       `json:"spare_part_id" gorm:"not null;uniqueIndex:idx_life_stat_key"`
	LastEventAt    *time.Time `json:"last_event_at,omitempty"`
	LastMileage    *int64     `json:"last_mileage,omitempty"`
	LastDeltaKm    *int64     `json:"last_delta_km,omitempty"`
	MedianDeltaKm  *int64     `json:"median_delta_km,omitempty"`
	AverageDeltaKm *int64     `json:"average_delta_km,omitempty"`
	SampleCount    int        `json:"sample_count" gorm:"not null;default:0"`
	LastRatio      *float64   `json:"last_ratio,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (SparePartLifeStat) TableName() string {
	return "spare_part_life_stats"
}

// SparePartRepository defines the contract for spare part data access
type SparePartRepository interface {
	Create(part *SparePart) error
	FindByID(companyID, id uint) (*SparePart, error)
	AdjustStock(companyID, id uint, delta int) error
	Update(part *SparePart) error
}

// LifeEventRepository defines the contract for life event data access.
// FindPrevious returns the most recent event for the same part and
// vehicle excluding the given order, by completion mileage.
type LifeEventRepository interface {
	Upsert(event *SparePartLifeEvent) error
	FindPrevious(companyID, partID, vehicleID, excludeOrderID uint) (*SparePartLifeEvent, error)
	ListByPart(companyID, partID uint) ([]SparePartLifeEvent, error)
	CountByOrder(companyID, orderID uint) (int64, error)
}

// LifeStatRepository defines the contract for life stat data access
type LifeStatRepository interface {
	Save(stat *SparePartLifeStat) error
	FindByPart(companyID, partID uint) (*SparePartLifeStat, error)
}

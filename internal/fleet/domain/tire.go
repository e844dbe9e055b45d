package domain

import (
	"time"

	"gorm.io/gorm"
)

// Tire usage classes. A traction tire must never be mounted on a
// directional position.
const (
	TireUsageTraction    = "traction"
	TireUsageDirectional = "directional"
)

// Tire statuses
const (
	TireStatusAvailable = "disponible"
	TireStatusMounted   = "montado"
	TireStatusDiscarded = "descartado"
)

// TireType defines a tire model and its usage class.
type TireType struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CompanyID uint           `json:"company_id" gorm:"not null;index"`
	Name      string         `json:"name" gorm:"not null"`
	Usage     string         `json:"usage" gorm:"column:usage_class;not null;default:'traction'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (TireType) TableName() string {
	return "tire_types"
}

// Tire represents one physical tire owned by a company.
type Tire struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CompanyID  uint           `json:"company_id" gorm:"not null;index"`
	TireTypeID uint           `json:"tire_type_id" gorm:"not null;index"`
	Type       *TireType      `json:"type,omitempty" gorm:"foreignKey:TireTypeID"`
	Code       string         `json:"code" gorm:"not null"`
	Status     string         `json:"status" gorm:"not null;default:'disponible'"`
	DepthNewMM float64        `json:"depth_new_mm" gorm:"column:depth_new_mm"`
	MinDepthMM float64        `json:"min_depth_mm" gorm:"column:min_depth_mm"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Tire) TableName() string {
	return "tires"
}

// Directional reports whether the tire may be mounted on a directional
// position. Usage lives on the type.
func (t *Tire) Directional() bool {
	return t.Type != nil && t.Type.Usage == TireUsageDirectional
}

// TireRepository defines the contract for tire data access. Every lookup
// is scoped to a company; rows outside the tenant do not exist.
type TireRepository interface {
	Create(tire *Tire) error
	FindByID(companyID, id uint) (*Tire, error)
	UpdateStatus(companyID, id uint, status string) error
	Update(tire *Tire) error
}

// TireTypeRepository defines the contract for tire type data access
type TireTypeRepository interface {
	Create(tireType *TireType) error
	FindByID(companyID, id uint) (*TireType, error)
}

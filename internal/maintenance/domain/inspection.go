package domain

import (
	"time"

	"gorm.io/gorm"
)

// Inspection overall statuses, derived from linked maintenance orders.
const (
	InspectionStatusOK          = "ok"
	InspectionStatusMaintenance = "mantenimiento"
)

// Inspection is an external aggregate whose overall status is a derived
// output of this core.
type Inspection struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	CompanyID     uint           `json:"company_id" gorm:"not null;index"`
	VehicleID     uint           `json:"vehicle_id" gorm:"not null;index"`
	OverallStatus string         `json:"overall_status" gorm:"not null;default:'ok'"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Inspection) TableName() string {
	return "inspections"
}

// InspectionRepository defines the contract for inspection data access
type InspectionRepository interface {
	Create(inspection *Inspection) error
	FindByID(companyID, id uint) (*Inspection, error)
	UpdateOverallStatus(companyID, id uint, status string) error
}

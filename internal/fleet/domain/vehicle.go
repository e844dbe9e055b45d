package domain

import (
	"time"

	"gorm.io/gorm"
)

// Vehicle statuses, derived from open maintenance orders.
const (
	VehicleStatusActive      = "activo"
	VehicleStatusMaintenance = "mantenimiento"
)

// Position roles
const (
	PositionRoleTraction    = "traction"
	PositionRoleDirectional = "directional"
)

// Vehicle represents a fleet vehicle. Status, mileage and last service
// date are derived outputs of the maintenance pipeline, not caller inputs.
type Vehicle struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	CompanyID       uint           `json:"company_id" gorm:"not null;index"`
	Plate           string         `json:"plate" gorm:"not null"`
	Status          string         `json:"status" gorm:"not null;default:'activo'"`
	MileageKm       int64          `json:"mileage_km" gorm:"column:mileage_km;not null;default:0"`
	LastServiceDate *time.Time     `json:"last_service_date,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Vehicle) TableName() string {
	return "vehicles"
}

// TirePosition is one mounting slot on a vehicle. PositionCode is unique
// per vehicle.
type TirePosition struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	CompanyID    uint           `json:"company_id" gorm:"not null;index"`
	VehicleID    uint           `json:"vehicle_id" gorm:"not null;uniqueIndex:idx_position_code"`
	AxleIndex    int            `json:"axle_index" gorm:"not null"`
	PositionCode string         `json:"position_code" gorm:"not null;uniqueIndex:idx_position_code"`
	PositionRole string         `json:"position_role" gorm:"not null;default:'traction'"`
	IsSpare      bool           `json:"is_spare" gorm:"not null;default:false"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (TirePosition) TableName() string {
	return "tire_positions"
}

// VehicleRepository defines the contract for vehicle data access
type VehicleRepository interface {
	Create(vehicle *Vehicle) error
	FindByID(companyID, id uint) (*Vehicle, error)
	Update(vehicle *Vehicle) error
	UpdateStatus(companyID, id uint, status string) error
}

// TirePositionRepository defines the contract for tire position data
// access. Delete refuses positions that still hold an active assignment.
type TirePositionRepository interface {
	Create(position *TirePosition) error
	FindByID(companyID, id uint) (*TirePosition, error)
	ListByVehicle(companyID, vehicleID uint) ([]TirePosition, error)
	Delete(companyID, id uint) error
}

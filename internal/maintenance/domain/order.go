package domain

import (
	"time"

	"gorm.io/gorm"
)

// Maintenance order statuses
const (
	OrderStatusPending    = "pendiente"
	OrderStatusInProgress = "en_progreso"
	OrderStatusCompleted  = "completada"
	OrderStatusCancelled  = "cancelada"
)

// OrderMetadata carries optional cross-references of an order. Stored as
// JSON.
type OrderMetadata struct {
	InspectionID *uint `json:"inspection_id,omitempty"`
}

// MaintenanceOrder drives all derived-status recomputation: vehicle
// status/mileage, inspection status and spare-part life events.
type MaintenanceOrder struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	CompanyID         uint           `json:"company_id" gorm:"not null;index"`
	VehicleID         uint           `json:"vehicle_id" gorm:"not null;index"`
	Status            string         `json:"status" gorm:"not null;default:'pendiente'"`
	Description       string         `json:"description"`
	CompletionMileage *int64         `json:"completion_mileage,omitempty"`
	CompletionDate    *time.Time     `json:"completion_date,omitempty"`
	Metadata          OrderMetadata  `json:"metadata" gorm:"serializer:json"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (MaintenanceOrder) TableName() string {
	return "maintenance_orders"
}

// Open reports whether the order still blocks the vehicle.
func (o *MaintenanceOrder) Open() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusInProgress
}

// Completed reports whether the order finished.
func (o *MaintenanceOrder) Completed() bool {
	return o.Status == OrderStatusCompleted
}

// OrderPartLine is one spare-part line item consumed by an order.
type OrderPartLine struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CompanyID   uint      `json:"company_id" gorm:"not null;index"`
	OrderID     uint      `json:"order_id" gorm:"not null;index"`
	SparePartID uint      `json:"spare_part_id" gorm:"not null"`
	Quantity    int       `json:"quantity" gorm:"not null;default:1"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (OrderPartLine) TableName() string {
	return "maintenance_order_parts"
}

// MaintenanceOrderRepository defines the contract for order data access
type MaintenanceOrderRepository interface {
	Create(order *MaintenanceOrder) error
	FindByID(companyID, id uint) (*MaintenanceOrder, error)
	Update(order *MaintenanceOrder) error
	CountOpenByVehicle(companyID, vehicleID uint) (int64, error)
	ListByInspection(companyID, inspectionID uint) ([]MaintenanceOrder, error)
	ListPartLines(companyID, orderID uint) ([]OrderPartLine, error)
	SavePartLine(line *OrderPartLine) error
	DeletePartLine(companyID, lineID uint) error
}

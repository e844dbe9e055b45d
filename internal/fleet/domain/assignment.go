package domain

import (
	"time"
)

// Dismount reasons
const (
	DismountReasonRelocated = "reubicado"
	DismountReasonRemoved   = "desmonte"
)

// TireAssignment links one tire to one position over [MountedAt,
// DismountedAt). A null DismountedAt marks the assignment active. Per
// company, at most one active assignment may exist per tire and per
// position; rows are never deleted, only closed.
type TireAssignment struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	CompanyID         uint       `json:"company_id" gorm:"not null;index"`
	TireID            uint       `json:"tire_id" gorm:"not null;index"`
	PositionID        uint       `json:"position_id" gorm:"not null;index"`
	VehicleID         uint       `json:"vehicle_id" gorm:"not null;index"`
	MountedAt         time.Time  `json:"mounted_at" gorm:"not null"`
	MountedMileage    *int64     `json:"mounted_mileage,omitempty"`
	DismountedAt      *time.Time `json:"dismounted_at,omitempty" gorm:"index"`
	DismountedMileage *int64     `json:"dismounted_mileage,omitempty"`
	Reason            string     `json:"reason,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (TireAssignment) TableName() string {
	return "tire_assignments"
}

// Active reports whether the tire is still mounted.
func (a *TireAssignment) Active() bool {
	return a.DismountedAt == nil
}

// Close ends the assignment. The reason is only defaulted when empty; an
// explicit reason is never overwritten.
func (a *TireAssignment) Close(at time.Time, mileage *int64, defaultReason string) {
	a.DismountedAt = &at
	a.DismountedMileage = mileage
	if a.Reason == "" {
		a.Reason = defaultReason
	}
}

// TireAssignmentRepository defines the contract for assignment data
// access. FindActive* return (nil, nil) when no active row exists; the
// ForUpdate variants lock the returned row for the transaction.
type TireAssignmentRepository interface {
	Create(assignment *TireAssignment) error
	Update(assignment *TireAssignment) error
	FindActiveByTireForUpdate(companyID, tireID uint) (*TireAssignment, error)
	FindActiveByPositionForUpdate(companyID, positionID uint) (*TireAssignment, error)
	HasActiveByPosition(companyID, positionID uint) (bool, error)
	ListByTire(companyID, tireID uint) ([]TireAssignment, error)
	ListActiveByVehicle(companyID, vehicleID uint) ([]TireAssignment, error)
}

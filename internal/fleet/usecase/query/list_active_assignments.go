package query

import (
	"context"

	"gorm.io/gorm"

	"github.com/fleetops/fleetcore/internal/fleet/domain"
	"github.com/fleetops/fleetcore/internal/fleet/repository"
	"github.com/fleetops/fleetcore/pkg/fault"
)

// ListActiveAssignmentsQuery represents the query for a vehicle's
// currently mounted tires
type ListActiveAssignmentsQuery struct {
	CompanyID uint
	VehicleID uint
}

// ListActiveAssignmentsHandler lists the active assignments of a vehicle.
type ListActiveAssignmentsHandler struct {
	db *gorm.DB
}

// NewListActiveAssignmentsHandler creates a new list handler
func NewListActiveAssignmentsHandler(db *gorm.DB) *ListActiveAssignmentsHandler {
	return &ListActiveAssignmentsHandler{db: db}
}

// Handle executes the query
func (h *ListActiveAssignmentsHandler) Handle(ctx context.Context, q ListActiveAssignmentsQuery) ([]domain.TireAssignment, error) {
	if q.CompanyID == 0 || q.VehicleID == 0 {
		return nil, fault.Validation("company and vehicle ids are required")
	}

	vehicles := repository.NewGormVehicleRepository(h.db.WithContext(ctx))
	vehicle, err := vehicles.FindByID(q.CompanyID, q.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, fault.NotFound("vehicle %d not found", q.VehicleID)
	}

	assignments := repository.NewGormTireAssignmentRepository(h.db.WithContext(ctx))
	return assignments.ListActiveByVehicle(q.CompanyID, q.VehicleID)
}

package command

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/fleetops/fleetcore/internal/audit"
	"github.com/fleetops/fleetcore/internal/fleet/domain"
	"github.com/fleetops/fleetcore/internal/fleet/repository"
	"github.com/fleetops/fleetcore/kafka"
	"github.com/fleetops/fleetcore/pkg/fault"
	"github.com/fleetops/fleetcore/pkg/logger"
	"github.com/fleetops/fleetcore/pkg/metrics"
)

// AssignTireCommand represents the command to mount a tire on a position
type AssignTireCommand struct {
	CompanyID      uint
	TireID         uint
	PositionID     uint
	VehicleID      uint
	MountedAt      time.Time
	MountedMileage *int64
	Reason         string
}

// AssignTireHandler handles the tire mount command. One call is one
// transaction; active assignments for the tire and the position are read
// under row locks so concurrent mounts cannot both create a row.
type AssignTireHandler struct {
	db       *gorm.DB
	notifier audit.Notifier
}

// NewAssignTireHandler creates a new assign tire handler
func NewAssignTireHandler(db *gorm.DB, notifier audit.Notifier) *AssignTireHandler {
	return &AssignTireHandler{db: db, notifier: notifier}
}

// Handle executes the assign tire command. Re-mounting a tire on the
// position it already occupies returns the existing assignment unchanged.
func (h *AssignTireHandler) Handle(ctx context.Context, cmd AssignTireCommand) (*domain.TireAssignment, error) {
	if cmd.CompanyID == 0 {
		return nil, fault.Validation("company id is required")
	}
	if cmd.TireID == 0 || cmd.PositionID == 0 || cmd.VehicleID == 0 {
		return nil, fault.Validation("tire, position and vehicle ids are required")
	}
	if cmd.MountedAt.IsZero() {
		cmd.MountedAt = time.Now().UTC()
	}

	var (
		result  *domain.TireAssignment
		created bool
		closed  []domain.TireAssignment
	)

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tires := repository.NewGormTireRepository(tx)
		positions := repository.NewGormTirePositionRepository(tx)
		assignments := repository.NewGormTireAssignmentRepository(tx)

		tire, err := tires.FindByID(cmd.CompanyID, cmd.TireID)
		if err != nil {
			return err
		}
		if tire == nil {
			return fault.NotFound("tire %d not found", cmd.TireID)
		}

		position, err := positions.FindByID(cmd.CompanyID, cmd.PositionID)
		if err != nil {
			return err
		}
		if position == nil {
			return fault.NotFound("position %d not found", cmd.PositionID)
		}
		if position.VehicleID != cmd.VehicleID {
			return fault.Conflict("position does not belong to vehicle")
		}
		if position.PositionRole == domain.PositionRoleDirectional && !tire.Directional() {
			return fault.Conflict("traction tire cannot be mounted on directional position")
		}

		current, err := assignments.FindActiveByTireForUpdate(cmd.CompanyID, cmd.TireID)
		if err != nil {
			return err
		}
		if current != nil && current.PositionID == cmd.PositionID {
			// Already mounted exactly here.
			result = current
			return nil
		}
		if current != nil {
			current.Close(cmd.MountedAt, cmd.MountedMileage, domain.DismountReasonRelocated)
			if err := assignments.Update(current); err != nil {
				return err
			}
			closed = append(closed, *current)
		}

		occupying, err := assignments.FindActiveByPositionForUpdate(cmd.CompanyID, cmd.PositionID)
		if err != nil {
			return err
		}
		if occupying != nil {
			occupying.Close(cmd.MountedAt, cmd.MountedMileage, domain.DismountReasonRelocated)
			if err := assignments.Update(occupying); err != nil {
				return err
			}
			if err := tires.UpdateStatus(cmd.CompanyID, occupying.TireID, domain.TireStatusAvailable); err != nil {
				return err
			}
			closed = append(closed, *occupying)
		}

		assignment := &domain.TireAssignment{
			CompanyID:      cmd.CompanyID,
			TireID:         cmd.TireID,
			PositionID:     cmd.PositionID,
			VehicleID:      cmd.VehicleID,
			MountedAt:      cmd.MountedAt,
			MountedMileage: cmd.MountedMileage,
			Reason:         cmd.Reason,
		}
		if err := assignments.Create(assignment); err != nil {
			return err
		}
		if err := tires.UpdateStatus(cmd.CompanyID, cmd.TireID, domain.TireStatusMounted); err != nil {
			return err
		}

		result = assignment
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		metrics.TireAssignmentsCreated.Inc()
		for i := range closed {
			metrics.TireAssignmentsClosed.WithLabelValues(closed[i].Reason).Inc()
		}
		h.notifier.Notify(ctx, audit.Event{
			CompanyID: cmd.CompanyID,
			Action:    kafka.ActionTireAssignmentCreated,
			Entity:    "tire_assignment",
			After:     result,
		})

		logger.Info(ctx).
			Uint("company_id", cmd.CompanyID).
			Uint("tire_id", cmd.TireID).
			Uint("position_id", cmd.PositionID).
			Uint("vehicle_id", cmd.VehicleID).
			Int("closed_assignments", len(closed)).
			Msg("Tire assigned")
	}

	return result, nil
}

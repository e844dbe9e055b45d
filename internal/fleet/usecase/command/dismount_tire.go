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

// DismountTireCommand represents the command to take a tire off its
// current position
type DismountTireCommand struct {
	CompanyID         uint
	TireID            uint
	DismountedAt      time.Time
	DismountedMileage *int64
	Reason            string
}

// DismountTireHandler handles explicit tire dismounts.
type DismountTireHandler struct {
	db       *gorm.DB
	notifier audit.Notifier
}

// NewDismountTireHandler creates a new dismount tire handler
func NewDismountTireHandler(db *gorm.DB, notifier audit.Notifier) *DismountTireHandler {
	return &DismountTireHandler{db: db, notifier: notifier}
}

// Handle closes the tire's active assignment.
func (h *DismountTireHandler) Handle(ctx context.Context, cmd DismountTireCommand) (*domain.TireAssignment, error) {
	if cmd.CompanyID == 0 || cmd.TireID == 0 {
		return nil, fault.Validation("company and tire ids are required")
	}
	if cmd.DismountedAt.IsZero() {
		cmd.DismountedAt = time.Now().UTC()
	}

	var (
		before domain.TireAssignment
		result *domain.TireAssignment
	)

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tires := repository.NewGormTireRepository(tx)
		assignments := repository.NewGormTireAssignmentRepository(tx)

		active, err := assignments.FindActiveByTireForUpdate(cmd.CompanyID, cmd.TireID)
		if err != nil {
			return err
		}
		if active == nil {
			return fault.Conflict("tire %d has no active assignment", cmd.TireID)
		}
		before = *active

		reason := cmd.Reason
		if reason == "" {
			reason = domain.DismountReasonRemoved
		}
		active.Close(cmd.DismountedAt, cmd.DismountedMileage, reason)
		if err := assignments.Update(active); err != nil {
			return err
		}
		if err := tires.UpdateStatus(cmd.CompanyID, cmd.TireID, domain.TireStatusAvailable); err != nil {
			return err
		}

		result = active
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TireAssignmentsClosed.WithLabelValues(result.Reason).Inc()
	h.notifier.Notify(ctx, audit.Event{
		CompanyID: cmd.CompanyID,
		Action:    kafka.ActionTireAssignmentClosed,
		Entity:    "tire_assignment",
		Before:    &before,
		After:     result,
	})

	logger.Info(ctx).
		Uint("company_id", cmd.CompanyID).
		Uint("tire_id", cmd.TireID).
		Str("reason", result.Reason).
		Msg("Tire dismounted")

	return result, nil
}

package command

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fleetops/fleetcore/internal/audit"
	fleetdomain "github.com/fleetops/fleetcore/internal/fleet/domain"
	fleetrepo "github.com/fleetops/fleetcore/internal/fleet/repository"
	"github.com/fleetops/fleetcore/internal/maintenance/domain"
	"github.com/fleetops/fleetcore/internal/maintenance/repository"
	partliferepo "github.com/fleetops/fleetcore/internal/partlife/repository"
	partlifecmd "github.com/fleetops/fleetcore/internal/partlife/usecase/command"
	"github.com/fleetops/fleetcore/kafka"
	"github.com/fleetops/fleetcore/pkg/fault"
	"github.com/fleetops/fleetcore/pkg/logger"
	"github.com/fleetops/fleetcore/pkg/metrics"
)

// PartUsage is one requested part line of the order payload.
type PartUsage struct {
	SparePartID uint
	Quantity    int
}

// SyncOrderEffectsCommand triggers the side-effect pipeline after an
// order was created, updated or deleted. VehicleID and InspectionID are
// carried explicitly so the pipeline still runs when the order row is
// gone. A nil PartsUsed leaves the stored part lines untouched.
type SyncOrderEffectsCommand struct {
	CompanyID    uint
	OrderID      uint
	VehicleID    uint
	InspectionID *uint
	PartsUsed    []PartUsage
}

// SyncOrderEffectsHandler recomputes every status derived from
// maintenance orders. The steps are independent and idempotent but run in
// a fixed order inside one transaction: vehicle status, vehicle mileage,
// inspection status, parts usage, part life events.
type SyncOrderEffectsHandler struct {
	db       *gorm.DB
	life     *partlifecmd.RecordOrderEventsHandler
	notifier audit.Notifier
}

// NewSyncOrderEffectsHandler creates a new sync order effects handler
func NewSyncOrderEffectsHandler(db *gorm.DB, life *partlifecmd.RecordOrderEventsHandler, notifier audit.Notifier) *SyncOrderEffectsHandler {
	return &SyncOrderEffectsHandler{db: db, life: life, notifier: notifier}
}

type pipelineState struct {
	cmd   SyncOrderEffectsCommand
	order *domain.MaintenanceOrder // nil when the order no longer exists
	lines []domain.OrderPartLine
}

type pipelineStep struct {
	name string
	run  func(ctx context.Context, tx *gorm.DB, st *pipelineState) error
}

// Handle runs the pipeline. A failing step rolls back everything and is
// named in the returned error.
func (h *SyncOrderEffectsHandler) Handle(ctx context.Context, cmd SyncOrderEffectsCommand) error {
	if cmd.CompanyID == 0 {
		return fault.Validation("company id is required")
	}
	if cmd.VehicleID == 0 {
		return fault.Validation("vehicle id is required")
	}

	started := time.Now()
	steps := []pipelineStep{
		{"vehicle_status", h.refreshVehicleStatus},
		{"vehicle_mileage", h.syncVehicleMileage},
		{"inspection_status", h.propagateInspectionStatus},
		{"parts_usage", h.syncPartsUsage},
		{"part_life", h.recordPartLifeEvents},
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repository.NewGormMaintenanceOrderRepository(tx)
		order, err := orders.FindByID(cmd.CompanyID, cmd.OrderID)
		if err != nil {
			return err
		}

		st := &pipelineState{cmd: cmd, order: order}
		for _, step := range steps {
			if err := step.run(ctx, tx, st); err != nil {
				return fmt.Errorf("order effects step %s: %w", step.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.OrderEffectsDuration.Observe(time.Since(started).Seconds())
	h.notifier.Notify(ctx, audit.Event{
		CompanyID: cmd.CompanyID,
		Action:    kafka.ActionOrderEffectsSynced,
		Entity:    "maintenance_order",
		After:     map[string]any{"order_id": cmd.OrderID, "vehicle_id": cmd.VehicleID},
	})

	logger.Info(ctx).
		Uint("company_id", cmd.CompanyID).
		Uint("order_id", cmd.OrderID).
		Uint("vehicle_id", cmd.VehicleID).
		Dur("duration", time.Since(started)).
		Msg("Order side effects synced")

	return nil
}

// refreshVehicleStatus recomputes the vehicle status from current order
// data; it is never patched incrementally.
func (h *SyncOrderEffectsHandler) refreshVehicleStatus(ctx context.Context, tx *gorm.DB, st *pipelineState) error {
	vehicles := fleetrepo.NewGormVehicleRepository(tx)
	vehicle, err := vehicles.FindByID(st.cmd.CompanyID, st.cmd.VehicleID)
	if err != nil {
		return err
	}
	if vehicle == nil {
		return fault.NotFound("vehicle %d not found", st.cmd.VehicleID)
	}

	orders := repository.NewGormMaintenanceOrderRepository(tx)
	open, err := orders.CountOpenByVehicle(st.cmd.CompanyID, st.cmd.VehicleID)
	if err != nil {
		return err
	}

	status := fleetdomain.VehicleStatusActive
	if open > 0 {
		status = fleetdomain.VehicleStatusMaintenance
	}
	if vehicle.Status == status {
		return nil
	}
	return vehicles.UpdateStatus(st.cmd.CompanyID, st.cmd.VehicleID, status)
}

// syncVehicleMileage raises the vehicle mileage to the order's completion
// mileage. It never decreases.
func (h *SyncOrderEffectsHandler) syncVehicleMileage(ctx context.Context, tx *gorm.DB, st *pipelineState) error {
	if st.order == nil || !st.order.Completed() || st.order.CompletionMileage == nil {
		return nil
	}

	vehicles := fleetrepo.NewGormVehicleRepository(tx)
	vehicle, err := vehicles.FindByID(st.cmd.CompanyID, st.cmd.VehicleID)
	if err != nil {
		return err
	}
	if vehicle == nil {
		return fault.NotFound("vehicle %d not found", st.cmd.VehicleID)
	}

	changed := false
	if *st.order.CompletionMileage > vehicle.MileageKm {
		vehicle.MileageKm = *st.order.CompletionMileage
		changed = true
	}
	if st.order.CompletionDate != nil {
		vehicle.LastServiceDate = st.order.CompletionDate
		changed = true
	}
	if !changed {
		return nil
	}
	return vehicles.Update(vehicle)
}

// propagateInspectionStatus derives the inspection's overall status from
// every order linking to it. Zero linked orders keep the last state.
func (h *SyncOrderEffectsHandler) propagateInspectionStatus(ctx context.Context, tx *gorm.DB, st *pipelineState) error {
	inspectionID := st.cmd.InspectionID
	if inspectionID == nil && st.order != nil {
		inspectionID = st.order.Metadata.InspectionID
	}
	if inspectionID == nil {
		return nil
	}

	inspections := repository.NewGormInspectionRepository(tx)
	inspection, err := inspections.FindByID(st.cmd.CompanyID, *inspectionID)
	if err != nil {
		return err
	}
	if inspection == nil {
		return nil
	}

	orders := repository.NewGormMaintenanceOrderRepository(tx)
	linked, err := orders.ListByInspection(st.cmd.CompanyID, *inspectionID)
	if err != nil {
		return err
	}
	if len(linked) == 0 {
		return nil
	}

	status := domain.InspectionStatusOK
	for i := range linked {
		if !linked[i].Completed() {
			status = domain.InspectionStatusMaintenance
			break
		}
	}
	if inspection.OverallStatus == status {
		return nil
	}
	return inspections.UpdateOverallStatus(st.cmd.CompanyID, *inspectionID, status)
}

// syncPartsUsage reconciles the stored part lines with the requested
// payload and applies the stock delta of each change.
func (h *SyncOrderEffectsHandler) syncPartsUsage(ctx context.Context, tx *gorm.DB, st *pipelineState) error {
	orders := repository.NewGormMaintenanceOrderRepository(tx)

	if st.cmd.PartsUsed == nil || st.order == nil {
		if st.order != nil {
			lines, err := orders.ListPartLines(st.cmd.CompanyID, st.cmd.OrderID)
			if err != nil {
				return err
			}
			st.lines = lines
		}
		return nil
	}

	parts := partliferepo.NewGormSparePartRepository(tx)
	existing, err := orders.ListPartLines(st.cmd.CompanyID, st.cmd.OrderID)
	if err != nil {
		return err
	}
	existingByPart := make(map[uint]*domain.OrderPartLine, len(existing))
	for i := range existing {
		existingByPart[existing[i].SparePartID] = &existing[i]
	}

	requested := make(map[uint]int, len(st.cmd.PartsUsed))
	for _, usage := range st.cmd.PartsUsed {
		if usage.Quantity <= 0 {
			continue
		}
		requested[usage.SparePartID] = usage.Quantity
	}

	for partID, quantity := range requested {
		part, err := parts.FindByID(st.cmd.CompanyID, partID)
		if err != nil {
			return err
		}
		if part == nil {
			logger.Warn(ctx).
				Uint("company_id", st.cmd.CompanyID).
				Uint("spare_part_id", partID).
				Msg("Skipping usage for unknown spare part")
			continue
		}

		line, ok := existingByPart[partID]
		if !ok {
			line = &domain.OrderPartLine{
				CompanyID:   st.cmd.CompanyID,
				OrderID:     st.cmd.OrderID,
				SparePartID: partID,
			}
		}
		delta := quantity - line.Quantity
		line.Quantity = quantity
		if err := orders.SavePartLine(line); err != nil {
			return err
		}
		if delta != 0 {
			if err := parts.AdjustStock(st.cmd.CompanyID, partID, -delta); err != nil {
				return err
			}
		}
		st.lines = append(st.lines, *line)
	}

	// Removed lines restore their stock.
	for partID, line := range existingByPart {
		if _, keep := requested[partID]; keep {
			continue
		}
		if err := orders.DeletePartLine(st.cmd.CompanyID, line.ID); err != nil {
			return err
		}
		if err := parts.AdjustStock(st.cmd.CompanyID, partID, line.Quantity); err != nil {
			return err
		}
	}

	return nil
}

// recordPartLifeEvents hands the completed order to the life tracker.
func (h *SyncOrderEffectsHandler) recordPartLifeEvents(ctx context.Context, tx *gorm.DB, st *pipelineState) error {
	if st.order == nil {
		return nil
	}

	usage := partlifecmd.OrderUsage{
		CompanyID:         st.cmd.CompanyID,
		OrderID:           st.cmd.OrderID,
		VehicleID:         st.order.VehicleID,
		Completed:         st.order.Completed(),
		CompletionMileage: st.order.CompletionMileage,
		CompletionDate:    st.order.CompletionDate,
	}
	for i := range st.lines {
		usage.Lines = append(usage.Lines, partlifecmd.UsageLine{
			SparePartID: st.lines[i].SparePartID,
			Quantity:    st.lines[i].Quantity,
		})
	}

	return h.life.HandleInTx(ctx, tx, usage)
}

package command

import (
	"context"
	"math"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fleetops/fleetcore/internal/partlife/domain"
	"github.com/fleetops/fleetcore/internal/partlife/repository"
	"github.com/fleetops/fleetcore/pkg/config"
	"github.com/fleetops/fleetcore/pkg/database"
	"github.com/fleetops/fleetcore/pkg/fault"
	"github.com/fleetops/fleetcore/pkg/logger"
	"github.com/fleetops/fleetcore/pkg/metrics"
)

// Advisory lock class for life-stat recomputes.
const lockClassLifeStat int32 = 2

// UsageLine is one part line of a completed order.
type UsageLine struct {
	SparePartID uint
	Quantity    int
}

// OrderUsage carries the order fields the tracker needs. Completed mirrors
// the order's status; recording is a no-op for anything else.
type OrderUsage struct {
	CompanyID         uint
	OrderID           uint
	VehicleID         uint
	Completed         bool
	CompletionMileage *int64
	CompletionDate    *time.Time
	Lines             []UsageLine
}

// RecordOrderEventsHandler derives one life event per part line of a
// completed order and recomputes the per-part rolling statistics from the
// full event history.
type RecordOrderEventsHandler struct {
	db    *gorm.DB
	cache *redis.Client
	cfg   config.PartLifeConfig
}

// NewRecordOrderEventsHandler creates a new record order events handler.
// The cache client may be nil.
func NewRecordOrderEventsHandler(db *gorm.DB, cache *redis.Client, cfg config.PartLifeConfig) *RecordOrderEventsHandler {
	return &RecordOrderEventsHandler{db: db, cache: cache, cfg: cfg}
}

// Handle records the order's life events in its own transaction.
func (h *RecordOrderEventsHandler) Handle(ctx context.Context, usage OrderUsage) error {
	if usage.CompanyID == 0 {
		return fault.Validation("company id is required")
	}
	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return h.HandleInTx(ctx, tx, usage)
	})
}

// HandleInTx records the order's life events inside an existing
// transaction, so the maintenance pipeline stays atomic end to end.
// Re-running for the same order is idempotent: events are keyed by
// (company, part, vehicle, order) and stats are recomputed from scratch.
func (h *RecordOrderEventsHandler) HandleInTx(ctx context.Context, tx *gorm.DB, usage OrderUsage) error {
	if !usage.Completed || usage.CompletionMileage == nil || usage.VehicleID == 0 {
		return nil
	}
	if len(usage.Lines) == 0 {
		return nil
	}

	parts := repository.NewGormSparePartRepository(tx)
	events := repository.NewGormLifeEventRepository(tx)
	statRepo := repository.NewGormLifeStatRepository(tx)

	mileage := *usage.CompletionMileage
	now := time.Now().UTC()

	for _, line := range usage.Lines {
		part, err := parts.FindByID(usage.CompanyID, line.SparePartID)
		if err != nil {
			return err
		}
		if part == nil {
			// Out of tenant scope; skip the line rather than fail the order.
			logger.Warn(ctx).
				Uint("company_id", usage.CompanyID).
				Uint("spare_part_id", line.SparePartID).
				Msg("Skipping life event for unknown spare part")
			continue
		}

		prev, err := events.FindPrevious(usage.CompanyID, part.ID, usage.VehicleID, usage.OrderID)
		if err != nil {
			return err
		}

		// Non-monotonic mileage is a data-quality condition: the delta is
		// discarded, not recorded as negative.
		var delta *int64
		if prev != nil {
			if d := mileage - prev.CompletionMileage; d > 0 {
				delta = &d
			}
		}

		stat, err := statRepo.FindByPart(usage.CompanyID, part.ID)
		if err != nil {
			return err
		}
		expected, _ := domain.ResolveExpectedLife(part, h.cfg.CategoryLifeKm, stat)

		event := &domain.SparePartLifeEvent{
			CompanyID:         usage.CompanyID,
			SparePartID:       part.ID,
			VehicleID:         usage.VehicleID,
			OrderID:           usage.OrderID,
			CompletionMileage: mileage,
			DeltaKm:           delta,
			Quantity:          line.Quantity,
			ExpectedLifeKm:    expected,
			RecordedAt:        now,
		}
		if err := events.Upsert(event); err != nil {
			return err
		}

		if err := h.recomputeStat(tx, usage.CompanyID, part.ID); err != nil {
			return err
		}

		metrics.PartLifeEventsRecorded.Inc()
		h.invalidateSnapshot(ctx, usage.CompanyID, part.ID)
	}

	return nil
}

// recomputeStat rebuilds the stat row from every stored event of the
// part. Full recompute keeps out-of-order and backfilled events correct;
// the advisory lock serializes concurrent recomputes for the same part.
func (h *RecordOrderEventsHandler) recomputeStat(tx *gorm.DB, companyID, partID uint) error {
	if err := database.AdvisoryXactLock(tx, lockClassLifeStat, partID); err != nil {
		return err
	}

	events := repository.NewGormLifeEventRepository(tx)
	all, err := events.ListByPart(companyID, partID)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return nil
	}

	last := all[len(all)-1]

	var deltas []float64
	for i := range all {
		if all[i].DeltaKm != nil {
			deltas = append(deltas, float64(*all[i].DeltaKm))
		}
	}

	stat := &domain.SparePartLifeStat{
		CompanyID:   companyID,
		SparePartID: partID,
		SampleCount: len(deltas),
		UpdatedAt:   time.Now().UTC(),
	}
	lastEventAt := last.RecordedAt
	lastMileage := last.CompletionMileage
	stat.LastEventAt = &lastEventAt
	stat.LastMileage = &lastMileage
	stat.LastDeltaKm = last.DeltaKm

	if len(deltas) > 0 {
		median, err := stats.Median(deltas)
		if err != nil {
			return err
		}
		mean, err := stats.Mean(deltas)
		if err != nil {
			return err
		}
		medianKm := int64(math.Round(median))
		averageKm := int64(math.Round(mean))
		stat.MedianDeltaKm = &medianKm
		stat.AverageDeltaKm = &averageKm
	}

	if last.DeltaKm != nil && *last.DeltaKm > 0 &&
		last.ExpectedLifeKm != nil && *last.ExpectedLifeKm > 0 {
		ratio := float64(*last.DeltaKm) / float64(*last.ExpectedLifeKm)
		stat.LastRatio = &ratio
	}

	return repository.NewGormLifeStatRepository(tx).Save(stat)
}

func (h *RecordOrderEventsHandler) invalidateSnapshot(ctx context.Context, companyID, partID uint) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Del(ctx, domain.SnapshotCacheKey(companyID, partID)).Err(); err != nil {
		logger.Warn(ctx).
			Err(err).
			Uint("spare_part_id", partID).
			Msg("Failed to invalidate snapshot cache")
	}
}

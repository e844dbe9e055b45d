package query

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fleetops/fleetcore/internal/partlife/domain"
	"github.com/fleetops/fleetcore/internal/partlife/repository"
	"github.com/fleetops/fleetcore/pkg/config"
	"github.com/fleetops/fleetcore/pkg/fault"
	"github.com/fleetops/fleetcore/pkg/logger"
	"github.com/fleetops/fleetcore/pkg/metrics"
)

// Snapshot statuses
const (
	SnapshotStatusOK      = "ok"
	SnapshotStatusLow     = "low"
	SnapshotStatusUnknown = "unknown"
)

const snapshotCacheTTL = 5 * time.Minute

// PartLifeSnapshot is the user-facing wear summary of a spare part.
type PartLifeSnapshot struct {
	SparePartID       uint     `json:"spare_part_id"`
	ExpectedKm        *int64   `json:"expected_km,omitempty"`
	ExpectedSource    string   `json:"expected_source"`
	LastDeltaKm       *int64   `json:"last_delta_km,omitempty"`
	LastRatio         *float64 `json:"last_ratio,omitempty"`
	Status            string   `json:"status"`
	SampleCount       int      `json:"sample_count"`
	CostMultiplier    *float64 `json:"cost_multiplier,omitempty"`
	EffectiveUnitCost *float64 `json:"effective_unit_cost,omitempty"`
}

// GetSnapshotQuery represents the snapshot query
type GetSnapshotQuery struct {
	CompanyID   uint
	SparePartID uint
}

// GetSnapshotHandler builds the snapshot, with a Redis read-through cache
// when a client is configured.
type GetSnapshotHandler struct {
	db    *gorm.DB
	cache *redis.Client
	cfg   config.PartLifeConfig
}

// NewGetSnapshotHandler creates a new get snapshot handler. The cache
// client may be nil.
func NewGetSnapshotHandler(db *gorm.DB, cache *redis.Client, cfg config.PartLifeConfig) *GetSnapshotHandler {
	return &GetSnapshotHandler{db: db, cache: cache, cfg: cfg}
}

// Handle executes the snapshot query
func (h *GetSnapshotHandler) Handle(ctx context.Context, q GetSnapshotQuery) (*PartLifeSnapshot, error) {
	if q.CompanyID == 0 || q.SparePartID == 0 {
		return nil, fault.Validation("company and spare part ids are required")
	}

	if cached := h.fromCache(ctx, q); cached != nil {
		return cached, nil
	}

	parts := repository.NewGormSparePartRepository(h.db.WithContext(ctx))
	part, err := parts.FindByID(q.CompanyID, q.SparePartID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, fault.NotFound("spare part %d not found", q.SparePartID)
	}

	statRepo := repository.NewGormLifeStatRepository(h.db.WithContext(ctx))
	stat, err := statRepo.FindByPart(q.CompanyID, q.SparePartID)
	if err != nil {
		return nil, err
	}

	snapshot := BuildSnapshot(part, stat, h.cfg)
	h.store(ctx, q, snapshot)
	return snapshot, nil
}

// BuildSnapshot derives the wear summary from the part and its stat row.
// The cost multiplier projects the effective unit cost of parts wearing
// out faster than expected.
func BuildSnapshot(part *domain.SparePart, stat *domain.SparePartLifeStat, cfg config.PartLifeConfig) *PartLifeSnapshot {
	expected, source := domain.ResolveExpectedLife(part, cfg.CategoryLifeKm, stat)

	snapshot := &PartLifeSnapshot{
		SparePartID:    part.ID,
		ExpectedKm:     expected,
		ExpectedSource: source,
		Status:         SnapshotStatusUnknown,
	}

	if stat != nil {
		snapshot.LastDeltaKm = stat.LastDeltaKm
		snapshot.LastRatio = stat.LastRatio
		snapshot.SampleCount = stat.SampleCount
	}

	if snapshot.LastRatio != nil {
		if *snapshot.LastRatio < cfg.WarningRatio {
			snapshot.Status = SnapshotStatusLow
		} else {
			snapshot.Status = SnapshotStatusOK
		}
	}

	if expected != nil && snapshot.LastDeltaKm != nil && *snapshot.LastDeltaKm > 0 {
		multiplier := float64(*expected) / float64(*snapshot.LastDeltaKm)
		effectiveCost := part.UnitCost * multiplier
		snapshot.CostMultiplier = &multiplier
		snapshot.EffectiveUnitCost = &effectiveCost
	}

	return snapshot
}

func (h *GetSnapshotHandler) fromCache(ctx context.Context, q GetSnapshotQuery) *PartLifeSnapshot {
	if h.cache == nil {
		return nil
	}
	raw, err := h.cache.Get(ctx, domain.SnapshotCacheKey(q.CompanyID, q.SparePartID)).Bytes()
	if err != nil || len(raw) == 0 {
		metrics.SnapshotCacheMisses.Inc()
		return nil
	}
	var snapshot PartLifeSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		metrics.SnapshotCacheMisses.Inc()
		return nil
	}
	metrics.SnapshotCacheHits.Inc()
	return &snapshot
}

func (h *GetSnapshotHandler) store(ctx context.Context, q GetSnapshotQuery, snapshot *PartLifeSnapshot) {
	if h.cache == nil {
		return
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	key := domain.SnapshotCacheKey(q.CompanyID, q.SparePartID)
	if err := h.cache.Set(ctx, key, raw, snapshotCacheTTL).Err(); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("cache_key", key).
			Msg("Failed to cache part life snapshot")
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TireAssignmentsCreated counts new tire assignments.
	TireAssignmentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fleetcore_tire_assignments_created_total",
		Help: "Number of tire assignments created",
	})

	// TireAssignmentsClosed counts assignments closed, by reason.
	TireAssignmentsClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetcore_tire_assignments_closed_total",
		Help: "Number of tire assignments closed",
	}, []string{"reason"})

	// PartLifeEventsRecorded counts spare-part life events written,
	// including idempotent re-derivations.
	PartLifeEventsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fleetcore_part_life_events_recorded_total",
		Help: "Number of spare part life events recorded",
	})

	// OrderEffectsDuration observes the full side-effect pipeline latency.
	OrderEffectsDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fleetcore_order_effects_duration_seconds",
		Help:    "Duration of the maintenance order side-effect pipeline",
		Buckets: prometheus.DefBuckets,
	})

	// SnapshotCacheHits and SnapshotCacheMisses track the part-life
	// snapshot cache.
	SnapshotCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fleetcore_part_life_snapshot_cache_hits_total",
		Help: "Part life snapshot cache hits",
	})
	SnapshotCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fleetcore_part_life_snapshot_cache_misses_total",
		Help: "Part life snapshot cache misses",
	})
)

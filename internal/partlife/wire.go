//go:build wireinject
// +build wireinject

package partlife

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fleetops/fleetcore/internal/partlife/usecase/command"
	"github.com/fleetops/fleetcore/internal/partlife/usecase/query"
	"github.com/fleetops/fleetcore/pkg/config"
)

// Handlers bundles the part-life handlers
type Handlers struct {
	RecordHandler   *command.RecordOrderEventsHandler
	SnapshotHandler *query.GetSnapshotHandler
}

func ProvideRecordOrderEventsHandler(db *gorm.DB, cache *redis.Client, cfg config.PartLifeConfig) *command.RecordOrderEventsHandler {
	return command.NewRecordOrderEventsHandler(db, cache, cfg)
}

func ProvideGetSnapshotHandler(db *gorm.DB, cache *redis.Client, cfg config.PartLifeConfig) *query.GetSnapshotHandler {
	return query.NewGetSnapshotHandler(db, cache, cfg)
}

func ProvideHandlers(
	recordHandler *command.RecordOrderEventsHandler,
	snapshotHandler *query.GetSnapshotHandler,
) *Handlers {
	return &Handlers{
		RecordHandler:   recordHandler,
		SnapshotHandler: snapshotHandler,
	}
}

var HandlerSet = wire.NewSet(
	ProvideRecordOrderEventsHandler,
	ProvideGetSnapshotHandler,
	ProvideHandlers,
)

// InitializeHandlers builds the part-life handlers
func InitializeHandlers(db *gorm.DB, cache *redis.Client, cfg config.PartLifeConfig) (*Handlers, error) {
	wire.Build(HandlerSet)
	return nil, nil
}

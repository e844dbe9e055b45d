//go:build wireinject
// +build wireinject

package maintenance

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/fleetops/fleetcore/internal/audit"
	"github.com/fleetops/fleetcore/internal/maintenance/usecase/command"
	partlifecmd "github.com/fleetops/fleetcore/internal/partlife/usecase/command"
	"github.com/fleetops/fleetcore/pkg/config"
)

func ProvideRecordOrderEventsHandler(db *gorm.DB, cache *redis.Client, cfg config.PartLifeConfig) *partlifecmd.RecordOrderEventsHandler {
	return partlifecmd.NewRecordOrderEventsHandler(db, cache, cfg)
}

func ProvideSyncOrderEffectsHandler(db *gorm.DB, life *partlifecmd.RecordOrderEventsHandler, notifier audit.Notifier) *command.SyncOrderEffectsHandler {
	return command.NewSyncOrderEffectsHandler(db, life, notifier)
}

var HandlerSet = wire.NewSet(
	ProvideRecordOrderEventsHandler,
	ProvideSyncOrderEffectsHandler,
)

// InitializeSyncOrderEffectsHandler builds the side-effect pipeline handler
func InitializeSyncOrderEffectsHandler(db *gorm.DB, cache *redis.Client, cfg config.PartLifeConfig, notifier audit.Notifier) (*command.SyncOrderEffectsHandler, error) {
	wire.Build(HandlerSet)
	return nil, nil
}

//go:build wireinject
// +build wireinject

package fleet

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/fleetops/fleetcore/internal/audit"
	"github.com/fleetops/fleetcore/internal/fleet/usecase/command"
	"github.com/fleetops/fleetcore/internal/fleet/usecase/query"
)

// CommandHandlers bundles the fleet command handlers
type CommandHandlers struct {
	AssignHandler   *command.AssignTireHandler
	DismountHandler *command.DismountTireHandler
}

// QueryHandlers bundles the fleet query handlers
type QueryHandlers struct {
	TireHistoryHandler       *query.GetTireHistoryHandler
	ActiveAssignmentsHandler *query.ListActiveAssignmentsHandler
}

func ProvideAssignTireHandler(db *gorm.DB, notifier audit.Notifier) *command.AssignTireHandler {
	return command.NewAssignTireHandler(db, notifier)
}

func ProvideDismountTireHandler(db *gorm.DB, notifier audit.Notifier) *command.DismountTireHandler {
	return command.NewDismountTireHandler(db, notifier)
}

func ProvideGetTireHistoryHandler(db *gorm.DB) *query.GetTireHistoryHandler {
	return query.NewGetTireHistoryHandler(db)
}

func ProvideListActiveAssignmentsHandler(db *gorm.DB) *query.ListActiveAssignmentsHandler {
	return query.NewListActiveAssignmentsHandler(db)
}

func ProvideCommandHandlers(
	assignHandler *command.AssignTireHandler,
	dismountHandler *command.DismountTireHandler,
) *CommandHandlers {
	return &CommandHandlers{
		AssignHandler:   assignHandler,
		DismountHandler: dismountHandler,
	}
}

func ProvideQueryHandlers(
	tireHistoryHandler *query.GetTireHistoryHandler,
	activeAssignmentsHandler *query.ListActiveAssignmentsHandler,
) *QueryHandlers {
	return &QueryHandlers{
		TireHistoryHandler:       tireHistoryHandler,
		ActiveAssignmentsHandler: activeAssignmentsHandler,
	}
}

var CommandHandlerSet = wire.NewSet(
	ProvideAssignTireHandler,
	ProvideDismountTireHandler,
	ProvideCommandHandlers,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetTireHistoryHandler,
	ProvideListActiveAssignmentsHandler,
	ProvideQueryHandlers,
)

// InitializeCommandHandlers builds the fleet command handlers
func InitializeCommandHandlers(db *gorm.DB, notifier audit.Notifier) (*CommandHandlers, error) {
	wire.Build(CommandHandlerSet)
	return nil, nil
}

// InitializeQueryHandlers builds the fleet query handlers
func InitializeQueryHandlers(db *gorm.DB) (*QueryHandlers, error) {
	wire.Build(QueryHandlerSet)
	return nil, nil
}

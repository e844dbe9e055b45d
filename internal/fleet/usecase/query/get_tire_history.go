package query

import (
	"context"

	"gorm.io/gorm"

	"github.com/fleetops/fleetcore/internal/fleet/domain"
	"github.com/fleetops/fleetcore/internal/fleet/repository"
	"github.com/fleetops/fleetcore/pkg/fault"
)

// GetTireHistoryQuery represents the query for a tire's mount history
type GetTireHistoryQuery struct {
	CompanyID uint
	TireID    uint
}

// GetTireHistoryHandler returns a tire's assignments, newest mount first.
type GetTireHistoryHandler struct {
	db *gorm.DB
}

// NewGetTireHistoryHandler creates a new get tire history handler
func NewGetTireHistoryHandler(db *gorm.DB) *GetTireHistoryHandler {
	return &GetTireHistoryHandler{db: db}
}

// Handle executes the query
func (h *GetTireHistoryHandler) Handle(ctx context.Context, q GetTireHistoryQuery) ([]domain.TireAssignment, error) {
	if q.CompanyID == 0 || q.TireID == 0 {
		return nil, fault.Validation("company and tire ids are required")
	}

	tires := repository.NewGormTireRepository(h.db.WithContext(ctx))
	tire, err := tires.FindByID(q.CompanyID, q.TireID)
	if err != nil {
		return nil, err
	}
	if tire == nil {
		return nil, fault.NotFound("tire %d not found", q.TireID)
	}

	assignments := repository.NewGormTireAssignmentRepositoryWithTracing(h.db.WithContext(ctx))
	return assignments.ListByTireWithContext(ctx, q.CompanyID, q.TireID)
}

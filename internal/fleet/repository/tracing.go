package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/fleetops/fleetcore/internal/fleet/domain"
)

var tracer = otel.Tracer("fleet-repository")

// GormTireRepositoryWithTracing wraps GormTireRepository with tracing
type GormTireRepositoryWithTracing struct {
	*GormTireRepository
}

// NewGormTireRepositoryWithTracing creates a new repository with tracing
func NewGormTireRepositoryWithTracing(db *gorm.DB) *GormTireRepositoryWithTracing {
	return &GormTireRepositoryWithTracing{
		GormTireRepository: NewGormTireRepository(db),
	}
}

// FindByID with tracing
func (r *GormTireRepositoryWithTracing) FindByIDWithContext(ctx context.Context, companyID, id uint) (*domain.Tire, error) {
	_, span := tracer.Start(ctx, "repository.Tire.FindByID",
		trace.WithAttributes(
			attribute.Int64("company.id", int64(companyID)),
			attribute.Int64("tire.id", int64(id)),
		),
	)
	defer span.End()

	tire, err := r.GormTireRepository.FindByID(companyID, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return tire, nil
}

// GormTireAssignmentRepositoryWithTracing wraps the assignment repository
// with tracing
type GormTireAssignmentRepositoryWithTracing struct {
	*GormTireAssignmentRepository
}

// NewGormTireAssignmentRepositoryWithTracing creates a new repository with tracing
func NewGormTireAssignmentRepositoryWithTracing(db *gorm.DB) *GormTireAssignmentRepositoryWithTracing {
	return &GormTireAssignmentRepositoryWithTracing{
		GormTireAssignmentRepository: NewGormTireAssignmentRepository(db),
	}
}

// ListByTire with tracing
func (r *GormTireAssignmentRepositoryWithTracing) ListByTireWithContext(ctx context.Context, companyID, tireID uint) ([]domain.TireAssignment, error) {
	_, span := tracer.Start(ctx, "repository.TireAssignment.ListByTire",
		trace.WithAttributes(
			attribute.Int64("company.id", int64(companyID)),
			attribute.Int64("tire.id", int64(tireID)),
		),
	)
	defer span.End()

	assignments, err := r.GormTireAssignmentRepository.ListByTire(companyID, tireID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("assignments.count", len(assignments)))
	return assignments, nil
}

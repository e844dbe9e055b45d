package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/fleetops/fleetcore/internal/fleet/domain"
	"github.com/fleetops/fleetcore/pkg/database"
	"github.com/fleetops/fleetcore/pkg/fault"
)

type GormTireRepository struct {
	db *gorm.DB
}

func NewGormTireRepository(db *gorm.DB) *GormTireRepository {
	return &GormTireRepository{db: db}
}

func (r *GormTireRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.TireType{},
		&domain.Tire{},
		&domain.Vehicle{},
		&domain.TirePosition{},
		&domain.TireAssignment{},
	)
}

func (r *GormTireRepository) Create(tire *domain.Tire) error {
	return r.db.Create(tire).Error
}

func (r *GormTireRepository) FindByID(companyID, id uint) (*domain.Tire, error) {
	var tire domain.Tire
	err := r.db.Preload("Type").
		Where("company_id = ?", companyID).
		First(&tire, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tire, nil
}

func (r *GormTireRepository) UpdateStatus(companyID, id uint, status string) error {
	return r.db.Model(&domain.Tire{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Update("status", status).Error
}

func (r *GormTireRepository) Update(tire *domain.Tire) error {
	return r.db.Save(tire).Error
}

type GormTireTypeRepository struct {
	db *gorm.DB
}

func NewGormTireTypeRepository(db *gorm.DB) *GormTireTypeRepository {
	return &GormTireTypeRepository{db: db}
}

func (r *GormTireTypeRepository) Create(tireType *domain.TireType) error {
	return r.db.Create(tireType).Error
}

func (r *GormTireTypeRepository) FindByID(companyID, id uint) (*domain.TireType, error) {
	var tireType domain.TireType
	err := r.db.Where("company_id = ?", companyID).First(&tireType, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tireType, nil
}

type GormVehicleRepository struct {
	db *gorm.DB
}

func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

func (r *GormVehicleRepository) Create(vehicle *domain.Vehicle) error {
	return r.db.Create(vehicle).Error
}

func (r *GormVehicleRepository) FindByID(companyID, id uint) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	err := r.db.Where("company_id = ?", companyID).First(&vehicle, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vehicle, nil
}

func (r *GormVehicleRepository) Update(vehicle *domain.Vehicle) error {
	return r.db.Save(vehicle).Error
}

func (r *GormVehicleRepository) UpdateStatus(companyID, id uint, status string) error {
	return r.db.Model(&domain.Vehicle{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Update("status", status).Error
}

type GormTirePositionRepository struct {
	db *gorm.DB
}

func NewGormTirePositionRepository(db *gorm.DB) *GormTirePositionRepository {
	return &GormTirePositionRepository{db: db}
}

func (r *GormTirePositionRepository) Create(position *domain.TirePosition) error {
	return r.db.Create(position).Error
}

func (r *GormTirePositionRepository) FindByID(companyID, id uint) (*domain.TirePosition, error) {
	var position domain.TirePosition
	err := r.db.Where("company_id = ?", companyID).First(&position, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &position, nil
}

func (r *GormTirePositionRepository) ListByVehicle(companyID, vehicleID uint) ([]domain.TirePosition, error) {
	var positions []domain.TirePosition
	err := r.db.Where("company_id = ? AND vehicle_id = ?", companyID, vehicleID).
		Order("axle_index, position_code").
		Find(&positions).Error
	return positions, err
}

// Delete removes the position unless a tire is still mounted on it.
func (r *GormTirePositionRepository) Delete(companyID, id uint) error {
	assignments := NewGormTireAssignmentRepository(r.db)
	occupied, err := assignments.HasActiveByPosition(companyID, id)
	if err != nil {
		return err
	}
	if occupied {
		return fault.Conflict("position %d has an active tire assignment", id)
	}
	return r.db.Where("company_id = ?", companyID).
		Delete(&domain.TirePosition{}, id).Error
}

type GormTireAssignmentRepository struct {
	db *gorm.DB
}

func NewGormTireAssignmentRepository(db *gorm.DB) *GormTireAssignmentRepository {
	return &GormTireAssignmentRepository{db: db}
}

func (r *GormTireAssignmentRepository) Create(assignment *domain.TireAssignment) error {
	return r.db.Create(assignment).Error
}

func (r *GormTireAssignmentRepository) Update(assignment *domain.TireAssignment) error {
	return r.db.Save(assignment).Error
}

func (r *GormTireAssignmentRepository) FindActiveByTireForUpdate(companyID, tireID uint) (*domain.TireAssignment, error) {
	var assignment domain.TireAssignment
	err := database.LockForUpdate(r.db).
		Where("company_id = ? AND tire_id = ? AND dismounted_at IS NULL", companyID, tireID).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *GormTireAssignmentRepository) FindActiveByPositionForUpdate(companyID, positionID uint) (*domain.TireAssignment, error) {
	var assignment domain.TireAssignment
	err := database.LockForUpdate(r.db).
		Where("company_id = ? AND position_id = ? AND dismounted_at IS NULL", companyID, positionID).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *GormTireAssignmentRepository) HasActiveByPosition(companyID, positionID uint) (bool, error) {
	var count int64
	err := r.db.Model(&domain.TireAssignment{}).
		Where("company_id = ? AND position_id = ? AND dismounted_at IS NULL", companyID, positionID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormTireAssignmentRepository) ListByTire(companyID, tireID uint) ([]domain.TireAssignment, error) {
	var assignments []domain.TireAssignment
	err := r.db.Where("company_id = ? AND tire_id = ?", companyID, tireID).
		Order("mounted_at DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *GormTireAssignmentRepository) ListActiveByVehicle(companyID, vehicleID uint) ([]domain.TireAssignment, error) {
	var assignments []domain.TireAssignment
	err := r.db.Where("company_id = ? AND vehicle_id = ? AND dismounted_at IS NULL", companyID, vehicleID).
		Order("position_id").
		Find(&assignments).Error
	return assignments, err
}

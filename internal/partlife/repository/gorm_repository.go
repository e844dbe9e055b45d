package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fleetops/fleetcore/internal/partlife/domain"
)

type GormSparePartRepository struct {
	db *gorm.DB
}

func NewGormSparePartRepository(db *gorm.DB) *GormSparePartRepository {
	return &GormSparePartRepository{db: db}
}

func (r *GormSparePartRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.SparePart{},
		&domain.SparePartLifeEvent{},
		&domain.SparePartLifeStat{},
	)
}

func (r *GormSparePartRepository) Create(part *domain.SparePart) error {
	return r.db.Create(part).Error
}

func (r *GormSparePartRepository) FindByID(companyID, id uint) (*domain.SparePart, error) {
	var part domain.SparePart
	err := r.db.Where("company_id = ?", companyID).First(&part, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &part, nil
}

func (r *GormSparePartRepository) AdjustStock(companyID, id uint, delta int) error {
	return r.db.Model(&domain.SparePart{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Update("stock_qty", gorm.Expr("stock_qty + ?", delta)).Error
}

func (r *GormSparePartRepository) Update(part *domain.SparePart) error {
	return r.db.Save(part).Error
}

type GormLifeEventRepository struct {
	db *gorm.DB
}

func NewGormLifeEventRepository(db *gorm.DB) *GormLifeEventRepository {
	return &GormLifeEventRepository{db: db}
}

// Upsert writes the event keyed by (company, part, vehicle, order);
// re-running for the same order rewrites the derived columns in place.
func (r *GormLifeEventRepository) Upsert(event *domain.SparePartLifeEvent) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "company_id"},
			{Name: "spare_part_id"},
			{Name: "vehicle_id"},
			{Name: "order_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"completion_mileage", "delta_km", "quantity",
			"expected_life_km", "recorded_at",
		}),
	}).Create(event).Error
}

func (r *GormLifeEventRepository) FindPrevious(companyID, partID, vehicleID, excludeOrderID uint) (*domain.SparePartLifeEvent, error) {
	var event domain.SparePartLifeEvent
	err := r.db.
		Where("company_id = ? AND spare_part_id = ? AND vehicle_id = ? AND order_id <> ?",
			companyID, partID, vehicleID, excludeOrderID).
		Order("completion_mileage DESC").
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *GormLifeEventRepository) ListByPart(companyID, partID uint) ([]domain.SparePartLifeEvent, error) {
	var events []domain.SparePartLifeEvent
	err := r.db.
		Where("company_id = ? AND spare_part_id = ?", companyID, partID).
		Order("completion_mileage ASC").
		Find(&events).Error
	return events, err
}

func (r *GormLifeEventRepository) CountByOrder(companyID, orderID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.SparePartLifeEvent{}).
		Where("company_id = ? AND order_id = ?", companyID, orderID).
		Count(&count).Error
	return count, err
}

type GormLifeStatRepository struct {
	db *gorm.DB
}

func NewGormLifeStatRepository(db *gorm.DB) *GormLifeStatRepository {
	return &GormLifeStatRepository{db: db}
}

// Save upserts the stat row keyed by (company, part).
func (r *GormLifeStatRepository) Save(stat *domain.SparePartLifeStat) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "company_id"},
			{Name: "spare_part_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"last_event_at", "last_mileage", "last_delta_km",
			"median_delta_km", "average_delta_km", "sample_count",
			"last_ratio", "updated_at",
		}),
	}).Create(stat).Error
}

func (r *GormLifeStatRepository) FindByPart(companyID, partID uint) (*domain.SparePartLifeStat, error) {
	var stat domain.SparePartLifeStat
	err := r.db.
		Where("company_id = ? AND spare_part_id = ?", companyID, partID).
		First(&stat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stat, nil
}

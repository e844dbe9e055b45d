package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/fleetops/fleetcore/internal/maintenance/domain"
)

type GormMaintenanceOrderRepository struct {
	db *gorm.DB
}

func NewGormMaintenanceOrderRepository(db *gorm.DB) *GormMaintenanceOrderRepository {
	return &GormMaintenanceOrderRepository{db: db}
}

func (r *GormMaintenanceOrderRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.MaintenanceOrder{},
		&domain.OrderPartLine{},
		&domain.Inspection{},
	)
}

func (r *GormMaintenanceOrderRepository) Create(order *domain.MaintenanceOrder) error {
	return r.db.Create(order).Error
}

func (r *GormMaintenanceOrderRepository) FindByID(companyID, id uint) (*domain.MaintenanceOrder, error) {
	var order domain.MaintenanceOrder
	err := r.db.Where("company_id = ?", companyID).First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormMaintenanceOrderRepository) Update(order *domain.MaintenanceOrder) error {
	return r.db.Save(order).Error
}

func (r *GormMaintenanceOrderRepository) CountOpenByVehicle(companyID, vehicleID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.MaintenanceOrder{}).
		Where("company_id = ? AND vehicle_id = ? AND status IN ?",
			companyID, vehicleID,
			[]string{domain.OrderStatusPending, domain.OrderStatusInProgress}).
		Count(&count).Error
	return count, err
}

// ListByInspection matches on the JSON metadata back-reference.
func (r *GormMaintenanceOrderRepository) ListByInspection(companyID, inspectionID uint) ([]domain.MaintenanceOrder, error) {
	var all []domain.MaintenanceOrder
	err := r.db.Where("company_id = ?", companyID).Find(&all).Error
	if err != nil {
		return nil, err
	}
	var linked []domain.MaintenanceOrder
	for i := range all {
		if all[i].Metadata.InspectionID != nil && *all[i].Metadata.InspectionID == inspectionID {
			linked = append(linked, all[i])
		}
	}
	return linked, nil
}

func (r *GormMaintenanceOrderRepository) ListPartLines(companyID, orderID uint) ([]domain.OrderPartLine, error) {
	var lines []domain.OrderPartLine
	err := r.db.Where("company_id = ? AND order_id = ?", companyID, orderID).
		Order("id").
		Find(&lines).Error
	return lines, err
}

func (r *GormMaintenanceOrderRepository) SavePartLine(line *domain.OrderPartLine) error {
	return r.db.Save(line).Error
}

func (r *GormMaintenanceOrderRepository) DeletePartLine(companyID, lineID uint) error {
	return r.db.Where("company_id = ?", companyID).
		Delete(&domain.OrderPartLine{}, lineID).Error
}

type GormInspectionRepository struct {
	db *gorm.DB
}

func NewGormInspectionRepository(db *gorm.DB) *GormInspectionRepository {
	return &GormInspectionRepository{db: db}
}

func (r *GormInspectionRepository) Create(inspection *domain.Inspection) error {
	return r.db.Create(inspection).Error
}

func (r *GormInspectionRepository) FindByID(companyID, id uint) (*domain.Inspection, error) {
	var inspection domain.Inspection
	err := r.db.Where("company_id = ?", companyID).First(&inspection, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inspection, nil
}

func (r *GormInspectionRepository) UpdateOverallStatus(companyID, id uint, status string) error {
	return r.db.Model(&domain.Inspection{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Update("overall_status", status).Error
}

package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fleetops/fleetcore/internal/partlife/domain"
	"github.com/fleetops/fleetcore/internal/partlife/repository"
	"github.com/fleetops/fleetcore/internal/partlife/usecase/command"
	"github.com/fleetops/fleetcore/pkg/config"
	"github.com/fleetops/fleetcore/pkg/fault"
)

const (
	testCompany uint = 1
	testVehicle uint = 10
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repository.NewGormSparePartRepository(db).AutoMigrate())
	return db
}

func record(t *testing.T, db *gorm.DB, partID, orderID uint, mileage int64) {
	t.Helper()
	h := command.NewRecordOrderEventsHandler(db, nil, config.DefaultPartLife())
	require.NoError(t, h.Handle(context.Background(), command.OrderUsage{
		CompanyID:         testCompany,
		OrderID:           orderID,
		VehicleID:         testVehicle,
		Completed:         true,
		CompletionMileage: &mileage,
		Lines:             []command.UsageLine{{SparePartID: partID, Quantity: 1}},
	}))
}

func TestGetSnapshot_UnknownStatusWithoutHistory(t *testing.T) {
	db := newTestDB(t)
	part := domain.SparePart{CompanyID: testCompany, Name: "alternator", Category: "electrico"}
	require.NoError(t, db.Create(&part).Error)

	handler := NewGetSnapshotHandler(db, nil, config.DefaultPartLife())
	snapshot, err := handler.Handle(context.Background(), GetSnapshotQuery{
		CompanyID: testCompany, SparePartID: part.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, SnapshotStatusUnknown, snapshot.Status)
	assert.Equal(t, domain.ExpectedSourceUnknown, snapshot.ExpectedSource)
	assert.Nil(t, snapshot.ExpectedKm)
	assert.Nil(t, snapshot.CostMultiplier)
}

func TestGetSnapshot_LowWhenWearingOutEarly(t *testing.T) {
	db := newTestDB(t)
	expected := int64(40000)
	part := domain.SparePart{
		CompanyID: testCompany, Name: "brake-pad", Category: "frenos",
		ExpectedLifeKm: &expected, UnitCost: 100,
	}
	require.NoError(t, db.Create(&part).Error)

	record(t, db, part.ID, 100, 10000)
	record(t, db, part.ID, 101, 30000) // delta 20000, half the expected life

	handler := NewGetSnapshotHandler(db, nil, config.DefaultPartLife())
	snapshot, err := handler.Handle(context.Background(), GetSnapshotQuery{
		CompanyID: testCompany, SparePartID: part.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, SnapshotStatusLow, snapshot.Status)
	assert.Equal(t, domain.ExpectedSourcePart, snapshot.ExpectedSource)
	require.NotNil(t, snapshot.LastRatio)
	assert.InDelta(t, 0.5, *snapshot.LastRatio, 1e-9)
	require.NotNil(t, snapshot.CostMultiplier)
	assert.InDelta(t, 2.0, *snapshot.CostMultiplier, 1e-9)
	require.NotNil(t, snapshot.EffectiveUnitCost)
	assert.InDelta(t, 200.0, *snapshot.EffectiveUnitCost, 1e-9)
}

func TestGetSnapshot_OKAtFullLife(t *testing.T) {
	db := newTestDB(t)
	expected := int64(20000)
	part := domain.SparePart{
		CompanyID: testCompany, Name: "brake-pad", Category: "frenos",
		ExpectedLifeKm: &expected, UnitCost: 100,
	}
	require.NoError(t, db.Create(&part).Error)

	record(t, db, part.ID, 100, 10000)
	record(t, db, part.ID, 101, 30000)

	handler := NewGetSnapshotHandler(db, nil, config.DefaultPartLife())
	snapshot, err := handler.Handle(context.Background(), GetSnapshotQuery{
		CompanyID: testCompany, SparePartID: part.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, SnapshotStatusOK, snapshot.Status)
}

func TestGetSnapshot_CategoryFallback(t *testing.T) {
	db := newTestDB(t)
	part := domain.SparePart{CompanyID: testCompany, Name: "brake-pad", Category: "frenos"}
	require.NoError(t, db.Create(&part).Error)

	handler := NewGetSnapshotHandler(db, nil, config.DefaultPartLife())
	snapshot, err := handler.Handle(context.Background(), GetSnapshotQuery{
		CompanyID: testCompany, SparePartID: part.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ExpectedSourceCategory, snapshot.ExpectedSource)
	require.NotNil(t, snapshot.ExpectedKm)
	assert.Equal(t, int64(40000), *snapshot.ExpectedKm)
}

func TestGetSnapshot_MedianFallback(t *testing.T) {
	db := newTestDB(t)
	part := domain.SparePart{CompanyID: testCompany, Name: "custom-part", Category: "especial"}
	require.NoError(t, db.Create(&part).Error)

	record(t, db, part.ID, 100, 10000)
	record(t, db, part.ID, 101, 25000)
	record(t, db, part.ID, 102, 40000)

	handler := NewGetSnapshotHandler(db, nil, config.DefaultPartLife())
	snapshot, err := handler.Handle(context.Background(), GetSnapshotQuery{
		CompanyID: testCompany, SparePartID: part.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ExpectedSourceMedian, snapshot.ExpectedSource)
	require.NotNil(t, snapshot.ExpectedKm)
	assert.Equal(t, int64(15000), *snapshot.ExpectedKm)
}

func TestGetSnapshot_UnknownPart(t *testing.T) {
	db := newTestDB(t)
	handler := NewGetSnapshotHandler(db, nil, config.DefaultPartLife())

	_, err := handler.Handle(context.Background(), GetSnapshotQuery{
		CompanyID: testCompany, SparePartID: 42,
	})
	require.Error(t, err)
	assert.True(t, fault.IsNotFound(err))
}

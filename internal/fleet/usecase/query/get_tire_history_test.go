package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fleetops/fleetcore/internal/audit"
	"github.com/fleetops/fleetcore/internal/fleet/domain"
	"github.com/fleetops/fleetcore/internal/fleet/repository"
	"github.com/fleetops/fleetcore/internal/fleet/usecase/command"
	"github.com/fleetops/fleetcore/pkg/fault"
)

const testCompany uint = 1

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repository.NewGormTireRepository(db).AutoMigrate())
	return db
}

func TestGetTireHistory_ReturnsNewestFirst(t *testing.T) {
	db := newTestDB(t)

	vehicle := domain.Vehicle{CompanyID: testCompany, Plate: "ABC-123"}
	tireType := domain.TireType{CompanyID: testCompany, Name: "295/80R22.5", Usage: domain.TireUsageTraction}
	require.NoError(t, db.Create(&vehicle).Error)
	require.NoError(t, db.Create(&tireType).Error)

	tire := domain.Tire{CompanyID: testCompany, TireTypeID: tireType.ID, Code: "T1"}
	require.NoError(t, db.Create(&tire).Error)

	posA := domain.TirePosition{CompanyID: testCompany, VehicleID: vehicle.ID, AxleIndex: 1, PositionCode: "1L"}
	posB := domain.TirePosition{CompanyID: testCompany, VehicleID: vehicle.ID, AxleIndex: 1, PositionCode: "1R"}
	require.NoError(t, db.Create(&posA).Error)
	require.NoError(t, db.Create(&posB).Error)

	assign := command.NewAssignTireHandler(db, audit.NopNotifier{})
	_, err := assign.Handle(context.Background(), command.AssignTireCommand{
		CompanyID: testCompany, TireID: tire.ID, PositionID: posA.ID, VehicleID: vehicle.ID,
	})
	require.NoError(t, err)
	_, err = assign.Handle(context.Background(), command.AssignTireCommand{
		CompanyID: testCompany, TireID: tire.ID, PositionID: posB.ID, VehicleID: vehicle.ID,
	})
	require.NoError(t, err)

	handler := NewGetTireHistoryHandler(db)
	history, err := handler.Handle(context.Background(), GetTireHistoryQuery{
		CompanyID: testCompany, TireID: tire.ID,
	})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].Active())
	assert.Equal(t, posB.ID, history[0].PositionID)
	assert.NotNil(t, history[1].DismountedAt)
}

func TestGetTireHistory_UnknownTire(t *testing.T) {
	db := newTestDB(t)
	handler := NewGetTireHistoryHandler(db)

	_, err := handler.Handle(context.Background(), GetTireHistoryQuery{
		CompanyID: testCompany, TireID: 42,
	})
	require.Error(t, err)
	assert.True(t, fault.IsNotFound(err))
}

func TestListActiveAssignments_OnlyActiveRows(t *testing.T) {
	db := newTestDB(t)

	vehicle := domain.Vehicle{CompanyID: testCompany, Plate: "ABC-123"}
	tireType := domain.TireType{CompanyID: testCompany, Name: "295/80R22.5", Usage: domain.TireUsageTraction}
	require.NoError(t, db.Create(&vehicle).Error)
	require.NoError(t, db.Create(&tireType).Error)

	t1 := domain.Tire{CompanyID: testCompany, TireTypeID: tireType.ID, Code: "T1"}
	t2 := domain.Tire{CompanyID: testCompany, TireTypeID: tireType.ID, Code: "T2"}
	require.NoError(t, db.Create(&t1).Error)
	require.NoError(t, db.Create(&t2).Error)

	pos := domain.TirePosition{CompanyID: testCompany, VehicleID: vehicle.ID, AxleIndex: 1, PositionCode: "1L"}
	require.NoError(t, db.Create(&pos).Error)

	assign := command.NewAssignTireHandler(db, audit.NopNotifier{})
	_, err := assign.Handle(context.Background(), command.AssignTireCommand{
		CompanyID: testCompany, TireID: t1.ID, PositionID: pos.ID, VehicleID: vehicle.ID,
	})
	require.NoError(t, err)
	_, err = assign.Handle(context.Background(), command.AssignTireCommand{
		CompanyID: testCompany, TireID: t2.ID, PositionID: pos.ID, VehicleID: vehicle.ID,
	})
	require.NoError(t, err)

	handler := NewListActiveAssignmentsHandler(db)
	active, err := handler.Handle(context.Background(), ListActiveAssignmentsQuery{
		CompanyID: testCompany, VehicleID: vehicle.ID,
	})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, t2.ID, active[0].TireID)
}

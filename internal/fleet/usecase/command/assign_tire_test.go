package command

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fleetops/fleetcore/internal/audit"
	"github.com/fleetops/fleetcore/internal/fleet/domain"
	"github.com/fleetops/fleetcore/internal/fleet/repository"
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

type fixtures struct {
	vehicle        domain.Vehicle
	tractionType   domain.TireType
	directionalTyp domain.TireType
	tireT1         domain.Tire
	tireT2         domain.Tire
	tireD1         domain.Tire
	posTraction    domain.TirePosition
	posDirectional domain.TirePosition
}

func seedFixtures(t *testing.T, db *gorm.DB) fixtures {
	t.Helper()
	f := fixtures{
		vehicle:        domain.Vehicle{CompanyID: testCompany, Plate: "ABC-123"},
		tractionType:   domain.TireType{CompanyID: testCompany, Name: "295/80R22.5", Usage: domain.TireUsageTraction},
		directionalTyp: domain.TireType{CompanyID: testCompany, Name: "315/70R22.5", Usage: domain.TireUsageDirectional},
	}
	require.NoError(t, db.Create(&f.vehicle).Error)
	require.NoError(t, db.Create(&f.tractionType).Error)
	require.NoError(t, db.Create(&f.directionalTyp).Error)

	f.tireT1 = domain.Tire{CompanyID: testCompany, TireTypeID: f.tractionType.ID, Code: "T1"}
	f.tireT2 = domain.Tire{CompanyID: testCompany, TireTypeID: f.tractionType.ID, Code: "T2"}
	f.tireD1 = domain.Tire{CompanyID: testCompany, TireTypeID: f.directionalTyp.ID, Code: "D1"}
	require.NoError(t, db.Create(&f.tireT1).Error)
	require.NoError(t, db.Create(&f.tireT2).Error)
	require.NoError(t, db.Create(&f.tireD1).Error)

	f.posTraction = domain.TirePosition{
		CompanyID: testCompany, VehicleID: f.vehicle.ID,
		AxleIndex: 2, PositionCode: "2L", PositionRole: domain.PositionRoleTraction,
	}
	f.posDirectional = domain.TirePosition{
		CompanyID: testCompany, VehicleID: f.vehicle.ID,
		AxleIndex: 1, PositionCode: "1L", PositionRole: domain.PositionRoleDirectional,
	}
	require.NoError(t, db.Create(&f.posTraction).Error)
	require.NoError(t, db.Create(&f.posDirectional).Error)
	return f
}

func mileagePtr(km int64) *int64 {
	return &km
}

func TestAssignTire_CreatesActiveAssignment(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	handler := NewAssignTireHandler(db, audit.NopNotifier{})

	assignment, err := handler.Handle(context.Background(), AssignTireCommand{
		CompanyID:      testCompany,
		TireID:         f.tireT1.ID,
		PositionID:     f.posTraction.ID,
		VehicleID:      f.vehicle.ID,
		MountedMileage: mileagePtr(10000),
	})
	require.NoError(t, err)
	require.NotNil(t, assignment)
	assert.True(t, assignment.Active())
	assert.Equal(t, f.tireT1.ID, assignment.TireID)
	assert.False(t, assignment.MountedAt.IsZero())

	var tire domain.Tire
	require.NoError(t, db.First(&tire, f.tireT1.ID).Error)
	assert.Equal(t, domain.TireStatusMounted, tire.Status)
}

func TestAssignTire_SameTireSamePositionIsNoOp(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	handler := NewAssignTireHandler(db, audit.NopNotifier{})

	first, err := handler.Handle(context.Background(), AssignTireCommand{
		CompanyID: testCompany, TireID: f.tireT1.ID,
		PositionID: f.posTraction.ID, VehicleID: f.vehicle.ID,
	})
	require.NoError(t, err)

	second, err := handler.Handle(context.Background(), AssignTireCommand{
		CompanyID: testCompany, TireID: f.tireT1.ID,
		PositionID: f.posTraction.ID, VehicleID: f.vehicle.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Active())

	var count int64
	require.NoError(t, db.Model(&domain.TireAssignment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAssignTire_TractionTireRejectedOnDirectionalPosition(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	handler := NewAssignTireHandler(db, audit.NopNotifier{})

	_, err := handler.Handle(context.Background(), AssignTireCommand{
		CompanyID: testCompany, TireID: f.tireT1.ID,
		PositionID: f.posDirectional.ID, VehicleID: f.vehicle.ID,
	})
	require.Error(t, err)
	assert.True(t, fault.IsConflict(err))

	var count int64
	require.NoError(t, db.Model(&domain.TireAssignment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAssignTire_DirectionalTireAllowedOnDirectionalPosition(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	handler := NewAssignTireHandler(db, audit.NopNotifier{})

	assignment, err := handler.Handle(context.Background(), AssignTireCommand{
		CompanyID: testCompany, TireID: f.tireD1.ID,
		PositionID: f.posDirectional.ID, VehicleID: f.vehicle.ID,
	})
	require.NoError(t, err)
	assert.True(t, assignment.Active())
}

func TestAssignTire_PositionVehicleMismatch(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)

	other := domain.Vehicle{CompanyID: testCompany, Plate: "XYZ-999"}
	require.NoError(t, db.Create(&other).Error)

	handler := NewAssignTireHandler(db, audit.NopNotifier{})
	_, err := handler.Handle(context.Background(), AssignTireCommand{
		CompanyID: testCompany, TireID: f.tireT1.ID,
		PositionID: f.posTraction.ID, VehicleID: other.ID,
	})
	require.Error(t, err)
	assert.True(t, fault.IsConflict(err))
}

func TestAssignTire_UnknownTireAndPosition(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	handler := NewAssignTireHandler(db, audit.NopNotifier{})

	_, err := handler.Handle(context.Background(), AssignTireCommand{
		CompanyID: testCompany, TireID: 9999,
		PositionID: f.posTraction.ID, VehicleID: f.vehicle.ID,
	})
	assert.True(t, fault.IsNotFound(err))

	_, err = handler.Handle(context.Background(), AssignTireCommand{
		CompanyID: testCompany, TireID: f.tireT1.ID,
		PositionID: 9999, VehicleID: f.vehicle.ID,
	})
	assert.True(t, fault.IsNotFound(err))
}

func TestAssignTire_TenantScopingHidesForeignRows(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	handler := NewAssignTireHandler(db, audit.NopNotifier{})

	_, err := handler.Handle(context.Background(), AssignTireCommand{
		CompanyID: 2, TireID: f.tireT1.ID,
		PositionID: f.posTraction.ID, VehicleID: f.vehicle.ID,
	})
	require.Error(t, err)
	assert.True(t, fault.IsNotFound(err))
}

func TestAssignTire_ReplacesOccupyingTire(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	handler := NewAssignTireHandler(db, audit.NopNotifier{})

	first, err := handler.Handle(context.Background(), AssignTireCommand{
		CompanyID: testCompany, TireID: f.tireT1.ID,
		PositionID: f.posTraction.ID, VehicleID: f.vehicle.ID,
		MountedMileage: mileagePtr(10000),
	})
	require.NoError(t, err)

	second, err := handler.Handle(context.Background(), AssignTireCommand{
		CompanyID: testCompany, TireID: f.tireT2.ID,
		PositionID: f.posTraction.ID, VehicleID: f.vehicle.ID,
		MountedMileage: mileagePtr(15000),
	})
	require.NoError(t, err)
	assert.True(t, second.Active())

	var closed domain.TireAssignment
	require.NoError(t, db.First(&closed, first.ID).Error)
	require.NotNil(t, closed.DismountedAt)
	require.NotNil(t, closed.DismountedMileage)
	assert.Equal(t, int64(15000), *closed.DismountedMileage)
	assert.Equal(t, domain.DismountReasonRelocated, closed.Reason)
	assert.Equal(t, second.MountedAt.Unix(), closed.DismountedAt.Unix())

	var t1 domain.Tire
	require.NoError(t, db.First(&t1, f.tireT1.ID).Error)
	assert.Equal(t, domain.TireStatusAvailable, t1.Status)
}

func TestAssignTire_MovingTireClosesItsOldAssignment(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	handler := NewAssignTireHandler(db, audit.NopNotifier{})

	first, err := handler.Handle(context.Background(), AssignTireCommand{
		CompanyID: testCompany, TireID: f.tireD1.ID,
		PositionID: f.posDirectional.ID, VehicleID: f.vehicle.ID,
	})
	require.NoError(t, err)

	// Directional tires may also run on traction positions.
	second, err := handler.Handle(context.Background(), AssignTireCommand{
		CompanyID: testCompany, TireID: f.tireD1.ID,
		PositionID: f.posTraction.ID, VehicleID: f.vehicle.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	var old domain.TireAssignment
	require.NoError(t, db.First(&old, first.ID).Error)
	assert.NotNil(t, old.DismountedAt)
	assert.Equal(t, domain.DismountReasonRelocated, old.Reason)
}

func TestAssignTire_ExplicitReasonIsNeverOverwritten(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	handler := NewAssignTireHandler(db, audit.NopNotifier{})

	first, err := handler.Handle(context.Background(), AssignTireCommand{
		CompanyID: testCompany, TireID: f.tireT1.ID,
		PositionID: f.posTraction.ID, VehicleID: f.vehicle.ID,
		Reason: "rotacion preventiva",
	})
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), AssignTireCommand{
		CompanyID: testCompany, TireID: f.tireT2.ID,
		PositionID: f.posTraction.ID, VehicleID: f.vehicle.ID,
	})
	require.NoError(t, err)

	var closed domain.TireAssignment
	require.NoError(t, db.First(&closed, first.ID).Error)
	assert.Equal(t, "rotacion preventiva", closed.Reason)
}

// After any sequence of assigns, at most one active assignment may exist
// per tire and per position.
func TestAssignTire_RandomSequencesKeepSingleActivePerTireAndPosition(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	handler := NewAssignTireHandler(db, audit.NopNotifier{})

	extra := domain.TirePosition{
		CompanyID: testCompany, VehicleID: f.vehicle.ID,
		AxleIndex: 2, PositionCode: "2R", PositionRole: domain.PositionRoleTraction,
	}
	require.NoError(t, db.Create(&extra).Error)

	tires := []uint{f.tireT1.ID, f.tireT2.ID, f.tireD1.ID}
	positions := []uint{f.posTraction.ID, extra.ID}

	rng := rand.New(rand.NewSource(42))
	mounted := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 200; i++ {
		mounted = mounted.Add(time.Hour)
		_, err := handler.Handle(context.Background(), AssignTireCommand{
			CompanyID:  testCompany,
			TireID:     tires[rng.Intn(len(tires))],
			PositionID: positions[rng.Intn(len(positions))],
			VehicleID:  f.vehicle.ID,
			MountedAt:  mounted,
		})
		require.NoError(t, err)

		for _, tireID := range tires {
			var count int64
			require.NoError(t, db.Model(&domain.TireAssignment{}).
				Where("tire_id = ? AND dismounted_at IS NULL", tireID).
				Count(&count).Error)
			assert.LessOrEqual(t, count, int64(1), "tire %d has %d active assignments", tireID, count)
		}
		for _, positionID := range positions {
			var count int64
			require.NoError(t, db.Model(&domain.TireAssignment{}).
				Where("position_id = ? AND dismounted_at IS NULL", positionID).
				Count(&count).Error)
			assert.LessOrEqual(t, count, int64(1), "position %d has %d active assignments", positionID, count)
		}
	}
}

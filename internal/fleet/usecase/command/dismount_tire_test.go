package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/fleetcore/internal/audit"
	"github.com/fleetops/fleetcore/internal/fleet/domain"
	"github.com/fleetops/fleetcore/pkg/fault"
)

func TestDismountTire_ClosesActiveAssignment(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)

	assign := NewAssignTireHandler(db, audit.NopNotifier{})
	_, err := assign.Handle(context.Background(), AssignTireCommand{
		CompanyID: testCompany, TireID: f.tireT1.ID,
		PositionID: f.posTraction.ID, VehicleID: f.vehicle.ID,
	})
	require.NoError(t, err)

	dismount := NewDismountTireHandler(db, audit.NopNotifier{})
	closed, err := dismount.Handle(context.Background(), DismountTireCommand{
		CompanyID: testCompany, TireID: f.tireT1.ID,
		DismountedMileage: mileagePtr(22000),
		Reason:            "desgaste",
	})
	require.NoError(t, err)
	require.NotNil(t, closed.DismountedAt)
	assert.Equal(t, int64(22000), *closed.DismountedMileage)
	assert.Equal(t, "desgaste", closed.Reason)

	var tire domain.Tire
	require.NoError(t, db.First(&tire, f.tireT1.ID).Error)
	assert.Equal(t, domain.TireStatusAvailable, tire.Status)
}

func TestDismountTire_DefaultsReason(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)

	assign := NewAssignTireHandler(db, audit.NopNotifier{})
	_, err := assign.Handle(context.Background(), AssignTireCommand{
		CompanyID: testCompany, TireID: f.tireT1.ID,
		PositionID: f.posTraction.ID, VehicleID: f.vehicle.ID,
	})
	require.NoError(t, err)

	dismount := NewDismountTireHandler(db, audit.NopNotifier{})
	closed, err := dismount.Handle(context.Background(), DismountTireCommand{
		CompanyID: testCompany, TireID: f.tireT1.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DismountReasonRemoved, closed.Reason)
}

func TestDismountTire_NoActiveAssignment(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)

	dismount := NewDismountTireHandler(db, audit.NopNotifier{})
	_, err := dismount.Handle(context.Background(), DismountTireCommand{
		CompanyID: testCompany, TireID: f.tireT1.ID,
	})
	require.Error(t, err)
	assert.True(t, fault.IsConflict(err))
}

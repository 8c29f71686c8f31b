package audit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-site/internal/audit"
	"github.com/BruksfildServices01/barbershop-site/internal/db/dbtest"
	"github.com/BruksfildServices01/barbershop-site/internal/models"
)

func TestDispatcherWritesOnClose(t *testing.T) {
	db := dbtest.Open(t)
	d := audit.NewDispatcher(audit.New(db), nil)

	actor := "admin-1"
	entity := "appt-1"
	d.Dispatch(audit.Event{
		ActorID:  &actor,
		Action:   "appointment_confirmed",
		Entity:   "appointment",
		EntityID: &entity,
		Metadata: map[string]string{"from": "pending"},
	})
	d.Close()

	var logs []models.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "appointment_confirmed", logs[0].Action)
	assert.Equal(t, "admin-1", *logs[0].ActorID)
	assert.JSONEq(t, `{"from":"pending"}`, logs[0].Metadata)
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *audit.Dispatcher
	assert.NotPanics(t, func() {
		d.Dispatch(audit.Event{Action: "x"})
		d.Close()
	})
}

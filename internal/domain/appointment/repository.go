package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-site/internal/models"
)

type Repository interface {
	// -------- Create / conflict --------

	// CreatePending inserts the appointment unless a confirmed appointment
	// already holds the slot; the check and the insert share one transaction.
	CreatePending(
		ctx context.Context,
		ap *models.Appointment,
	) error

	HasConfirmedConflict(
		ctx context.Context,
		barberID string,
		date string,
		timeOfDay string,
		excludeID string,
	) (bool, error)

	// -------- Read --------
	Get(
		ctx context.Context,
		id string,
	) (*models.Appointment, error)

	List(ctx context.Context) ([]models.Appointment, error)

	ListConfirmedTimes(
		ctx context.Context,
		barberID string,
		date string,
	) ([]string, error)

	CountByStatus(ctx context.Context) (map[Status]int64, error)

	// -------- State change --------
	Update(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// ConfirmAndRevokeDeletion saves a confirmed appointment and cancels any
	// deletion job still waiting for it.
	ConfirmAndRevokeDeletion(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// CancelAndScheduleDeletion saves a cancelled appointment and upserts its
	// single deletion job to run at runAt.
	CancelAndScheduleDeletion(
		ctx context.Context,
		ap *models.Appointment,
		runAt time.Time,
	) error

	Delete(
		ctx context.Context,
		id string,
	) error
}

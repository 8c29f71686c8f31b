package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barbershop-site/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-site/internal/httperr"
	"github.com/BruksfildServices01/barbershop-site/internal/models"
)

type AppointmentGormRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewAppointmentGormRepository(db *gorm.DB, timeout time.Duration) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db, timeout: timeout}
}

// --------------------------------------------------
// Create / conflict
// --------------------------------------------------

func (r *AppointmentGormRepository) CreatePending(
	ctx context.Context,
	ap *models.Appointment,
) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := confirmedConflict(tx, ap.BarberID, ap.Date, ap.Time, "", true)
		if err != nil {
			return err
		}
		if taken {
			return httperr.ErrBusiness(httperr.CodeSlotAlreadyBooked)
		}
		return tx.Create(ap).Error
	})

	return mapErr("create appointment", err, "")
}

func (r *AppointmentGormRepository) HasConfirmedConflict(
	ctx context.Context,
	barberID string,
	date string,
	timeOfDay string,
	excludeID string,
) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	taken, err := confirmedConflict(r.db.WithContext(ctx), barberID, date, timeOfDay, excludeID, false)
	if err != nil {
		return false, mapErr("check slot", err, "")
	}
	return taken, nil
}

func confirmedConflict(
	tx *gorm.DB,
	barberID, date, timeOfDay, excludeID string,
	lock bool,
) (bool, error) {
	q := tx.Model(&models.Appointment{}).
		Select("id").
		Where(
			"barber_id = ? AND date = ? AND time = ? AND status = ?",
			barberID, date, timeOfDay, string(domain.StatusConfirmed),
		)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var ids []string
	if err := q.Limit(1).Find(&ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (r *AppointmentGormRepository) Get(
	ctx context.Context,
	id string,
) (*models.Appointment, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, "id = ?", id).Error; err != nil {
		return nil, mapErr("get appointment", err, httperr.CodeAppointmentNotFound)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) List(ctx context.Context) ([]models.Appointment, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&aps).Error; err != nil {
		return nil, mapErr("list appointments", err, "")
	}
	return aps, nil
}

func (r *AppointmentGormRepository) ListConfirmedTimes(
	ctx context.Context,
	barberID string,
	date string,
) ([]string, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	times := []string{}
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"barber_id = ? AND date = ? AND status = ?",
			barberID, date, string(domain.StatusConfirmed),
		).
		Order("time ASC").
		Pluck("time", &times).Error; err != nil {
		return nil, mapErr("list booked times", err, "")
	}
	return times, nil
}

func (r *AppointmentGormRepository) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var rows []struct {
		Status string
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, mapErr("count appointments", err, "")
	}

	out := make(map[domain.Status]int64, len(rows))
	for _, row := range rows {
		out[domain.Status(row.Status)] = row.Total
	}
	return out, nil
}

// --------------------------------------------------
// State change
// --------------------------------------------------

func (r *AppointmentGormRepository) Update(
	ctx context.Context,
	ap *models.Appointment,
) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return mapErr("update appointment", saveExisting(r.db.WithContext(ctx), ap), httperr.CodeAppointmentNotFound)
}

func (r *AppointmentGormRepository) ConfirmAndRevokeDeletion(
	ctx context.Context,
	ap *models.Appointment,
) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveExisting(tx, ap); err != nil {
			return err
		}
		return tx.Model(&models.DeletionJob{}).
			Where("appointment_id = ? AND status = ?", ap.ID, models.JobPending).
			Update("status", models.JobCancelled).Error
	})

	return mapErr("confirm appointment", err, httperr.CodeAppointmentNotFound)
}

func (r *AppointmentGormRepository) CancelAndScheduleDeletion(
	ctx context.Context,
	ap *models.Appointment,
	runAt time.Time,
) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	runAt = runAt.UTC()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveExisting(tx, ap); err != nil {
			return err
		}

		job := models.DeletionJob{
			AppointmentID:  ap.ID,
			ExpectedStatus: string(domain.StatusCancelled),
			RunAt:          runAt,
			Status:         models.JobPending,
			MaxAttempts:    5,
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "appointment_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"expected_status": job.ExpectedStatus,
				"run_at":          runAt,
				"status":          models.JobPending,
				"attempts":        0,
				"last_error":      "",
				"updated_at":      time.Now(),
			}),
		}).Create(&job).Error
	})

	return mapErr("cancel appointment", err, httperr.CodeAppointmentNotFound)
}

func (r *AppointmentGormRepository) Delete(
	ctx context.Context,
	id string,
) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Appointment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.DeletionJob{}).
			Where("appointment_id = ? AND status = ?", id, models.JobPending).
			Update("status", models.JobCancelled).Error
	})

	return mapErr("delete appointment", err, httperr.CodeAppointmentNotFound)
}

// saveExisting writes every column of an existing row. Unlike Save it never
// inserts, so a concurrently deleted appointment is not brought back.
func saveExisting(tx *gorm.DB, ap *models.Appointment) error {
	res := tx.Model(ap).Select("*").Omit("id", "created_at").Updates(ap)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)

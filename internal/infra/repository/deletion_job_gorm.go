package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barbershop-site/internal/models"
)

// DeletionJobGormRepository backs the deletion worker. Claiming and
// finishing a batch happen inside the caller's transaction.
type DeletionJobGormRepository struct {
	db *gorm.DB
}

func NewDeletionJobGormRepository(db *gorm.DB) *DeletionJobGormRepository {
	return &DeletionJobGormRepository{db: db}
}

func (r *DeletionJobGormRepository) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// ClaimDue locks up to limit pending jobs whose run_at has passed.
// Other workers skip locked rows.
func (r *DeletionJobGormRepository) ClaimDue(tx *gorm.DB, now time.Time, limit int) ([]models.DeletionJob, error) {
	var jobs []models.DeletionJob
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ? AND run_at <= ?", models.JobPending, now.UTC()).
		Order("run_at ASC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

// DeleteAppointmentIf removes the appointment only while it is still in
// the expected status. Zero rows means there was nothing to do.
func (r *DeletionJobGormRepository) DeleteAppointmentIf(tx *gorm.DB, appointmentID, status string) (int64, error) {
	res := tx.Where("id = ? AND status = ?", appointmentID, status).Delete(&models.Appointment{})
	return res.RowsAffected, res.Error
}

func (r *DeletionJobGormRepository) MarkDone(tx *gorm.DB, id string) error {
	return tx.Model(&models.DeletionJob{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": models.JobDone, "last_error": ""}).Error
}

// MarkFailed records the error and either pushes run_at back or gives up
// once the job has used its attempts.
func (r *DeletionJobGormRepository) MarkFailed(tx *gorm.DB, job models.DeletionJob, nextRun time.Time, cause error) error {
	attempts := job.Attempts + 1
	status := models.JobPending
	if attempts >= job.MaxAttempts {
		status = models.JobFailed
	}

	msg := cause.Error()
	if len(msg) > 500 {
		msg = msg[:500]
	}

	return tx.Model(&models.DeletionJob{}).
		Where("id = ?", job.ID).
		Updates(map[string]any{
			"status":     status,
			"attempts":   attempts,
			"run_at":     nextRun.UTC(),
			"last_error": msg,
		}).Error
}

func (r *DeletionJobGormRepository) ForAppointment(ctx context.Context, appointmentID string) (*models.DeletionJob, error) {
	var job models.DeletionJob
	err := r.db.WithContext(ctx).First(&job, "appointment_id = ?", appointmentID).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

package jobs

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-site/internal/infra/repository"
)

// DeletionWorker purges cancelled appointments once their deletion job is
// due. Jobs live in the database, so a restart only delays them.
type DeletionWorker struct {
	repo      *repository.DeletionJobGormRepository
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
	backoff   time.Duration
	now       func() time.Time
}

type WorkerConfig struct {
	Interval  time.Duration
	BatchSize int
	Backoff   time.Duration
	// Clock defaults to time.Now.
	Clock func() time.Time
}

func NewDeletionWorker(repo *repository.DeletionJobGormRepository, logger *slog.Logger, cfg WorkerConfig) *DeletionWorker {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 30 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DeletionWorker{
		repo:      repo,
		logger:    logger,
		interval:  cfg.Interval,
		batchSize: cfg.BatchSize,
		backoff:   cfg.Backoff,
		now:       cfg.Clock,
	}
}

func (w *DeletionWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("deletion worker started", "interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("deletion worker stopped")
			return
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil {
				w.logger.Error("deletion batch failed", "err", err)
			}
		}
	}
}

// ProcessBatch handles the jobs due now and reports how many appointments it
// removed. A job whose appointment is gone or no longer cancelled is closed
// without deleting anything.
func (w *DeletionWorker) ProcessBatch(ctx context.Context) (int, error) {
	now := w.now()
	var deleted []string

	err := w.repo.InTx(ctx, func(tx *gorm.DB) error {
		due, err := w.repo.ClaimDue(tx, now, w.batchSize)
		if err != nil {
			return err
		}

		for _, job := range due {
			var removed int64
			err := tx.Transaction(func(sub *gorm.DB) error {
				n, err := w.repo.DeleteAppointmentIf(sub, job.AppointmentID, job.ExpectedStatus)
				if err != nil {
					return err
				}
				removed = n
				return w.repo.MarkDone(sub, job.ID)
			})
			if err != nil {
				w.logger.Warn("deletion job failed",
					"job_id", job.ID,
					"appointment_id", job.AppointmentID,
					"attempt", job.Attempts+1,
					"err", err,
				)
				if err := w.repo.MarkFailed(tx, job, now.Add(w.backoff), err); err != nil {
					return err
				}
				continue
			}

			if removed > 0 {
				deleted = append(deleted, job.AppointmentID)
			} else {
				w.logger.Info("deletion skipped, appointment gone or reinstated", "appointment_id", job.AppointmentID)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, id := range deleted {
		w.logger.Info("auto-deleted cancelled appointment", "appointment_id", id)
	}
	return len(deleted), nil
}

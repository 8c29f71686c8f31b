package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barbershop-site/internal/domain/appointment"
	barberdomain "github.com/BruksfildServices01/barbershop-site/internal/domain/barber"
	reviewdomain "github.com/BruksfildServices01/barbershop-site/internal/domain/review"
	"github.com/BruksfildServices01/barbershop-site/internal/dto"
	"github.com/BruksfildServices01/barbershop-site/internal/models"
	"github.com/BruksfildServices01/barbershop-site/internal/timezone"
)

const UnknownBarber = "Unknown barber"

// ======================================================
// LIST
// ======================================================

type ListAppointments struct {
	repo    domain.Repository
	barbers barberdomain.Repository
}

func NewListAppointments(
	repo domain.Repository,
	barbers barberdomain.Repository,
) *ListAppointments {
	return &ListAppointments{
		repo:    repo,
		barbers: barbers,
	}
}

// Execute lists every appointment, most recent first, with barber names.
func (uc *ListAppointments) Execute(ctx context.Context) ([]dto.AppointmentListDTO, error) {
	appointments, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	barbers, err := uc.barbers.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(barbers))
	for _, b := range barbers {
		names[b.ID] = b.Name
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, toListDTO(ap, names))
	}
	return out, nil
}

func toListDTO(ap models.Appointment, names map[string]string) dto.AppointmentListDTO {
	name, ok := names[ap.BarberID]
	if !ok {
		name = UnknownBarber
	}
	return dto.AppointmentListDTO{
		ID:            ap.ID,
		CustomerName:  ap.CustomerName,
		CustomerEmail: ap.CustomerEmail,
		CustomerPhone: ap.CustomerPhone,
		BarberID:      ap.BarberID,
		BarberName:    name,
		Service:       ap.Service,
		Date:          ap.Date,
		DateDisplay:   timezone.Display(ap.Date),
		Time:          ap.Time,
		Status:        ap.Status,
		Notes:         ap.Notes,
		CreatedAt:     ap.CreatedAt,
	}
}

// ======================================================
// STATS
// ======================================================

type GetDashboardStats struct {
	repo    domain.Repository
	reviews reviewdomain.Repository
}

func NewGetDashboardStats(
	repo domain.Repository,
	reviews reviewdomain.Repository,
) *GetDashboardStats {
	return &GetDashboardStats{
		repo:    repo,
		reviews: reviews,
	}
}

func (uc *GetDashboardStats) Execute(ctx context.Context) (dto.DashboardStats, error) {
	counts, err := uc.repo.CountByStatus(ctx)
	if err != nil {
		return dto.DashboardStats{}, err
	}

	pendingReviews, err := uc.reviews.CountPending(ctx)
	if err != nil {
		return dto.DashboardStats{}, err
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	return dto.DashboardStats{
		Pending:        counts[domain.StatusPending],
		Confirmed:      counts[domain.StatusConfirmed],
		Total:          total,
		PendingReviews: pendingReviews,
	}, nil
}

// ======================================================
// GET
// ======================================================

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(ctx context.Context, id string) (*models.Appointment, error) {
	return uc.repo.Get(ctx, id)
}

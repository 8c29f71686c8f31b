package barber

import (
	"context"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/barbershop-site/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-site/internal/domain/barber"
	"github.com/BruksfildServices01/barbershop-site/internal/models"
	"github.com/BruksfildServices01/barbershop-site/internal/validators"
)

// ImageStore is satisfied by media.Images.
type ImageStore interface {
	Save(ctx context.Context, prefix string, r io.Reader) (string, error)
	Remove(ctx context.Context, ref string) error
}

// ======================================================
// CREATE
// ======================================================

type CreateBarberInput struct {
	Name         string `form:"name" validate:"notblank,max=100"`
	Specialty    string `form:"specialty" validate:"notblank,max=100"`
	Experience   int    `form:"experience" validate:"gte=0,lte=80"`
	WorkingHours string `form:"workingHours" validate:"max=100"`
	Bio          string `form:"bio" validate:"max=2000"`
}

var createLabels = map[string]string{
	"Name":         "Name",
	"Specialty":    "Specialty",
	"Experience":   "Experience",
	"WorkingHours": "Working hours",
	"Bio":          "Bio",
}

type CreateBarber struct {
	repo     domain.Repository
	images   ImageStore
	validate *validator.Validate
	audit    *audit.Dispatcher
}

func NewCreateBarber(
	repo domain.Repository,
	images ImageStore,
	validate *validator.Validate,
	audit *audit.Dispatcher,
) *CreateBarber {
	return &CreateBarber{
		repo:     repo,
		images:   images,
		validate: validate,
		audit:    audit,
	}
}

// Execute stores the photo first, when one is given, and removes it again if
// the barber cannot be saved.
func (uc *CreateBarber) Execute(
	ctx context.Context,
	actorID string,
	in CreateBarberInput,
	image io.Reader,
) (*models.Barber, error) {

	in.Name = strings.TrimSpace(in.Name)
	in.Specialty = strings.TrimSpace(in.Specialty)
	in.WorkingHours = strings.TrimSpace(in.WorkingHours)
	in.Bio = strings.TrimSpace(in.Bio)

	if err := validators.Check(uc.validate, in, createLabels); err != nil {
		return nil, err
	}

	b := &models.Barber{
		Name:         in.Name,
		Specialty:    in.Specialty,
		Experience:   in.Experience,
		WorkingHours: in.WorkingHours,
		Bio:          in.Bio,
		Available:    true,
	}

	if image != nil && uc.images != nil {
		ref, err := uc.images.Save(ctx, "barbers", image)
		if err != nil {
			return nil, err
		}
		b.Image = ref
	}

	if err := uc.repo.Create(ctx, b); err != nil {
		if b.Image != "" {
			_ = uc.images.Remove(ctx, b.Image)
		}
		return nil, err
	}

	uc.audit.Dispatch(barberEvent(actorID, "barber_created", b, nil))

	return b, nil
}

// ======================================================
// DELETE
// ======================================================

type DeleteBarber struct {
	repo   domain.Repository
	images ImageStore
	audit  *audit.Dispatcher
}

func NewDeleteBarber(
	repo domain.Repository,
	images ImageStore,
	audit *audit.Dispatcher,
) *DeleteBarber {
	return &DeleteBarber{
		repo:   repo,
		images: images,
		audit:  audit,
	}
}

// DeleteResult reports the removed barber. ImageErr is set when the photo
// could not be removed; the barber is gone either way.
type DeleteResult struct {
	Barber   *models.Barber
	ImageErr error
}

// Execute removes the barber. Appointments keep the dangling id.
func (uc *DeleteBarber) Execute(
	ctx context.Context,
	actorID string,
	barberID string,
) (*DeleteResult, error) {

	b, err := uc.repo.Get(ctx, barberID)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Delete(ctx, b.ID); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(barberEvent(actorID, "barber_deleted", b, map[string]string{"name": b.Name}))

	res := &DeleteResult{Barber: b}
	if uc.images != nil {
		res.ImageErr = uc.images.Remove(ctx, b.Image)
	}
	return res, nil
}

// ======================================================
// AVAILABILITY
// ======================================================

type SetAvailability struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSetAvailability(repo domain.Repository, audit *audit.Dispatcher) *SetAvailability {
	return &SetAvailability{repo: repo, audit: audit}
}

func (uc *SetAvailability) Execute(
	ctx context.Context,
	actorID string,
	barberID string,
	available bool,
) (*models.Barber, error) {

	b, err := uc.repo.Get(ctx, barberID)
	if err != nil {
		return nil, err
	}
	if b.Available == available {
		return b, nil
	}

	b.Available = available
	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(barberEvent(actorID, "barber_availability_changed", b, map[string]bool{"available": available}))

	return b, nil
}

// ======================================================
// QUERIES
// ======================================================

type ListBarbers struct {
	repo domain.Repository
}

func NewListBarbers(repo domain.Repository) *ListBarbers {
	return &ListBarbers{repo: repo}
}

// Available lists bookable barbers; limit <= 0 returns all of them.
func (uc *ListBarbers) Available(ctx context.Context, limit int) ([]models.Barber, error) {
	return uc.repo.ListAvailable(ctx, limit)
}

func (uc *ListBarbers) All(ctx context.Context) ([]models.Barber, error) {
	return uc.repo.ListAll(ctx)
}

func (uc *ListBarbers) Get(ctx context.Context, id string) (*models.Barber, error) {
	return uc.repo.Get(ctx, id)
}

func barberEvent(actorID, action string, b *models.Barber, meta any) audit.Event {
	ev := audit.Event{
		Action:   action,
		Entity:   "barber",
		EntityID: &b.ID,
		Metadata: meta,
	}
	if actorID != "" {
		ev.ActorID = &actorID
	}
	return ev
}

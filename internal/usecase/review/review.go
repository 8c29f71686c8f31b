package review

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/barbershop-site/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-site/internal/domain/review"
	"github.com/BruksfildServices01/barbershop-site/internal/models"
	"github.com/BruksfildServices01/barbershop-site/internal/validators"
)

// ======================================================
// SUBMIT
// ======================================================

type SubmitReviewInput struct {
	CustomerName string `form:"customerName" validate:"notblank,max=100"`
	Rating       int    `form:"rating" validate:"min=1,max=5"`
	Comment      string `form:"comment" validate:"notblank,max=2000"`
}

var submitLabels = map[string]string{
	"CustomerName": "Name",
	"Rating":       "Rating",
	"Comment":      "Comment",
}

type SubmitReview struct {
	repo     domain.Repository
	validate *validator.Validate
}

func NewSubmitReview(repo domain.Repository, validate *validator.Validate) *SubmitReview {
	return &SubmitReview{repo: repo, validate: validate}
}

// Execute stores the review unapproved; it stays off the site until an admin
// approves it.
func (uc *SubmitReview) Execute(ctx context.Context, in SubmitReviewInput) (*models.Review, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Comment = strings.TrimSpace(in.Comment)

	if err := validators.Check(uc.validate, in, submitLabels); err != nil {
		return nil, err
	}

	r := &models.Review{
		CustomerName: in.CustomerName,
		Rating:       in.Rating,
		Comment:      in.Comment,
		Approved:     false,
	}
	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ======================================================
// MODERATION
// ======================================================

type ModerateReview struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewModerateReview(repo domain.Repository, audit *audit.Dispatcher) *ModerateReview {
	return &ModerateReview{repo: repo, audit: audit}
}

func (uc *ModerateReview) Approve(ctx context.Context, actorID, reviewID string) error {
	if err := uc.repo.Approve(ctx, reviewID); err != nil {
		return err
	}
	uc.audit.Dispatch(reviewEvent(actorID, "review_approved", reviewID))
	return nil
}

func (uc *ModerateReview) Delete(ctx context.Context, actorID, reviewID string) error {
	if err := uc.repo.Delete(ctx, reviewID); err != nil {
		return err
	}
	uc.audit.Dispatch(reviewEvent(actorID, "review_deleted", reviewID))
	return nil
}

// ======================================================
// QUERIES
// ======================================================

type ListReviews struct {
	repo domain.Repository
}

func NewListReviews(repo domain.Repository) *ListReviews {
	return &ListReviews{repo: repo}
}

// Approved lists published reviews, most recent first; limit <= 0 returns all.
func (uc *ListReviews) Approved(ctx context.Context, limit int) ([]models.Review, error) {
	return uc.repo.ListApproved(ctx, limit)
}

func (uc *ListReviews) All(ctx context.Context) ([]models.Review, error) {
	return uc.repo.ListAll(ctx)
}

func reviewEvent(actorID, action, reviewID string) audit.Event {
	ev := audit.Event{
		Action:   action,
		Entity:   "review",
		EntityID: &reviewID,
	}
	if actorID != "" {
		ev.ActorID = &actorID
	}
	return ev
}

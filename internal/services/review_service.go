package services

import (
	"context"
	"math"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bootcamper/internal/authz"
	"bootcamper/internal/domain"
	"bootcamper/internal/domain/models"
)

type ReviewService struct {
	Reviews   ReviewStore
	Bootcamps BootcampStore
	Log       *zap.Logger
}

func (s *ReviewService) List(ctx context.Context, params url.Values) (Page[models.Review], error) {
	return listPage(ctx, params, s.Reviews.List)
}

func (s *ReviewService) ListByBootcamp(ctx context.Context, bootcampID string) ([]models.Review, error) {
	b, err := s.Bootcamps.GetByID(ctx, bootcampID)
	if err != nil {
		return nil, err
	}
	return s.Reviews.ListByBootcamp(ctx, b.ID)
}

func (s *ReviewService) Get(ctx context.Context, id string) (models.Review, error) {
	return s.Reviews.GetByID(ctx, id)
}

// Create adds a review for a bootcamp. The unique (bootcamp, user) index
// turns a second review from the same account into a validation error.
func (s *ReviewService) Create(ctx context.Context, p domain.Principal, bootcampID string, in models.Review) (models.Review, error) {
	if err := authz.CanContribute(p); err != nil {
		return models.Review{}, err
	}
	if err := validateRating(in.Rating); err != nil {
		return models.Review{}, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return models.Review{}, domain.ValidationError{Field: "title", Msg: "is required"}
	}

	b, err := s.Bootcamps.GetByID(ctx, bootcampID)
	if err != nil {
		return models.Review{}, err
	}
	owner, err := ownerObjectID(p)
	if err != nil {
		return models.Review{}, err
	}

	in.Bootcamp = b.ID
	in.Owner = owner
	if err := s.Reviews.Insert(ctx, &in); err != nil {
		return models.Review{}, err
	}
	s.refreshAverageRating(ctx, b.ID)
	return in, nil
}

func (s *ReviewService) Update(ctx context.Context, p domain.Principal, id string, patch map[string]interface{}) (models.Review, error) {
	existing, err := s.Reviews.GetByID(ctx, id)
	if err != nil {
		return models.Review{}, err
	}
	if err := authz.CanMutate(p, existing.Owner.Hex()); err != nil {
		return models.Review{}, err
	}

	update := sanitizePatch(patch, "user", "bootcamp")
	if raw, ok := update["rating"]; ok {
		rating, isNum := raw.(float64)
		if !isNum {
			return models.Review{}, domain.ValidationError{Field: "rating", Msg: "must be a number"}
		}
		if rating != math.Trunc(rating) {
			return models.Review{}, domain.ValidationError{Field: "rating", Msg: "must be a whole number"}
		}
		if err := validateRating(int(rating)); err != nil {
			return models.Review{}, err
		}
		// Store the integer so the document matches the Rating field type.
		update["rating"] = int(rating)
	}
	if len(update) == 0 {
		return existing, nil
	}
	updated, err := s.Reviews.Update(ctx, existing.ID, update)
	if err != nil {
		return models.Review{}, err
	}
	if _, ok := update["rating"]; ok {
		s.refreshAverageRating(ctx, existing.Bootcamp)
	}
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, p domain.Principal, id string) error {
	existing, err := s.Reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CanMutate(p, existing.Owner.Hex()); err != nil {
		return err
	}
	if err := s.Reviews.Delete(ctx, existing.ID); err != nil {
		return err
	}
	s.refreshAverageRating(ctx, existing.Bootcamp)
	return nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 10 {
		return domain.ValidationError{Field: "rating", Msg: "must be between 1 and 10"}
	}
	return nil
}

func (s *ReviewService) refreshAverageRating(ctx context.Context, bootcampID primitive.ObjectID) {
	avg, err := s.Reviews.AverageRating(ctx, bootcampID)
	if err == nil {
		_, err = s.Bootcamps.Update(ctx, bootcampID, bson.M{"averageRating": avg})
	}
	if err != nil {
		s.Log.Warn("average rating refresh failed",
			zap.String("bootcamp_id", bootcampID.Hex()),
			zap.Error(err))
	}
}

package services

import (
	"context"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bootcamper/internal/authz"
	"bootcamper/internal/domain"
	"bootcamper/internal/domain/models"
)

type CourseService struct {
	Courses   CourseStore
	Bootcamps BootcampStore
	Log       *zap.Logger
}

func (s *CourseService) List(ctx context.Context, params url.Values) (Page[models.Course], error) {
	return listPage(ctx, params, s.Courses.List)
}

// ListByBootcamp returns the courses of one bootcamp without pagination,
// failing if the bootcamp does not exist.
func (s *CourseService) ListByBootcamp(ctx context.Context, bootcampID string) ([]models.Course, error) {
	b, err := s.Bootcamps.GetByID(ctx, bootcampID)
	if err != nil {
		return nil, err
	}
	return s.Courses.ListByBootcamp(ctx, b.ID)
}

func (s *CourseService) Get(ctx context.Context, id string) (models.Course, error) {
	return s.Courses.GetByID(ctx, id)
}

// Create attaches a course to a bootcamp. Any authenticated principal may
// contribute; the owner is always the acting principal.
func (s *CourseService) Create(ctx context.Context, p domain.Principal, bootcampID string, in models.Course) (models.Course, error) {
	if err := authz.CanContribute(p); err != nil {
		return models.Course{}, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return models.Course{}, domain.ValidationError{Field: "title", Msg: "is required"}
	}
	if in.Tuition < 0 {
		return models.Course{}, domain.ValidationError{Field: "tuition", Msg: "cannot be negative"}
	}

	b, err := s.Bootcamps.GetByID(ctx, bootcampID)
	if err != nil {
		return models.Course{}, err
	}
	owner, err := ownerObjectID(p)
	if err != nil {
		return models.Course{}, err
	}

	in.Bootcamp = b.ID
	in.Owner = owner
	if err := s.Courses.Insert(ctx, &in); err != nil {
		return models.Course{}, err
	}
	s.refreshAverageCost(ctx, b.ID)
	return in, nil
}

func (s *CourseService) Update(ctx context.Context, p domain.Principal, id string, patch map[string]interface{}) (models.Course, error) {
	existing, err := s.Courses.GetByID(ctx, id)
	if err != nil {
		return models.Course{}, err
	}
	if err := authz.CanMutate(p, existing.Owner.Hex()); err != nil {
		return models.Course{}, err
	}

	update := sanitizePatch(patch, "user", "bootcamp")
	if raw, ok := update["tuition"]; ok {
		tuition, isNum := raw.(float64)
		if !isNum {
			return models.Course{}, domain.ValidationError{Field: "tuition", Msg: "must be a number"}
		}
		if tuition < 0 {
			return models.Course{}, domain.ValidationError{Field: "tuition", Msg: "cannot be negative"}
		}
	}
	if len(update) == 0 {
		return existing, nil
	}
	updated, err := s.Courses.Update(ctx, existing.ID, update)
	if err != nil {
		return models.Course{}, err
	}
	if _, ok := update["tuition"]; ok {
		s.refreshAverageCost(ctx, existing.Bootcamp)
	}
	return updated, nil
}

func (s *CourseService) Delete(ctx context.Context, p domain.Principal, id string) error {
	existing, err := s.Courses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CanMutate(p, existing.Owner.Hex()); err != nil {
		return err
	}
	if err := s.Courses.Delete(ctx, existing.ID); err != nil {
		return err
	}
	s.refreshAverageCost(ctx, existing.Bootcamp)
	return nil
}

// refreshAverageCost recomputes the bootcamp's average tuition. Failures are
// logged, not propagated: the primary mutation already succeeded.
func (s *CourseService) refreshAverageCost(ctx context.Context, bootcampID primitive.ObjectID) {
	avg, err := s.Courses.AverageTuition(ctx, bootcampID)
	if err == nil {
		_, err = s.Bootcamps.Update(ctx, bootcampID, bson.M{"averageCost": avg})
	}
	if err != nil {
		s.Log.Warn("average cost refresh failed",
			zap.String("bootcamp_id", bootcampID.Hex()),
			zap.Error(err))
	}
}

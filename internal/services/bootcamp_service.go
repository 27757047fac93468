package services

import (
	"context"
	"mime/multipart"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"bootcamper/internal/authz"
	"bootcamper/internal/domain"
	"bootcamper/internal/domain/models"
	"bootcamper/internal/geocode"
)

// earthRadiusMiles converts a mile distance into the radian measure the
// geospatial query expects.
const earthRadiusMiles = 3963.0

// PhotoSaver persists an uploaded image and returns its stored name.
type PhotoSaver interface {
	Save(fh *multipart.FileHeader, resourceID string) (string, error)
}

type BootcampService struct {
	Bootcamps BootcampStore
	Courses   CourseStore
	Reviews   ReviewStore
	Geocoder  geocode.Geocoder
	Photos    PhotoSaver
	Log       *zap.Logger
}

func (s *BootcampService) List(ctx context.Context, params url.Values) (Page[models.Bootcamp], error) {
	return listPage(ctx, params, s.Bootcamps.List)
}

func (s *BootcampService) Get(ctx context.Context, id string) (models.Bootcamp, error) {
	return s.Bootcamps.GetByID(ctx, id)
}

// Create publishes a bootcamp owned by the acting principal. Publisher role
// is required and a publisher may only publish once.
func (s *BootcampService) Create(ctx context.Context, p domain.Principal, in models.Bootcamp) (models.Bootcamp, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Bootcamp{}, domain.ValidationError{Field: "name", Msg: "is required"}
	}
	if strings.TrimSpace(in.Description) == "" {
		return models.Bootcamp{}, domain.ValidationError{Field: "description", Msg: "is required"}
	}

	owner, err := ownerObjectID(p)
	if err != nil {
		return models.Bootcamp{}, err
	}

	var owned int64
	if p.Role == domain.RolePublisher {
		owned, err = s.Bootcamps.CountByOwner(ctx, owner)
		if err != nil {
			return models.Bootcamp{}, err
		}
	}
	if err := authz.CanPublishBootcamp(p, owned); err != nil {
		return models.Bootcamp{}, err
	}

	in.Owner = owner
	in.Slug = slugify(in.Name)
	in.AverageRating = 0
	in.AverageCost = 0
	in.Photo = ""

	if s.Geocoder != nil && strings.TrimSpace(in.Address) != "" {
		loc, err := s.Geocoder.Geocode(ctx, in.Address)
		if err != nil {
			return models.Bootcamp{}, err
		}
		in.Location = &models.Location{
			Type:             "Point",
			Coordinates:      []float64{loc.Lng, loc.Lat},
			FormattedAddress: loc.FormattedAddress,
			Street:           loc.Street,
			City:             loc.City,
			State:            loc.State,
			Zipcode:          loc.Zipcode,
			Country:          loc.Country,
		}
		in.Address = ""
	}

	if err := s.Bootcamps.Insert(ctx, &in); err != nil {
		return models.Bootcamp{}, err
	}
	s.Log.Info("bootcamp created",
		zap.String("bootcamp_id", in.ID.Hex()),
		zap.String("owner_id", p.ID))
	return in, nil
}

// Update patches a bootcamp after an ownership check. Ownership and derived
// fields cannot be rewritten through this path.
func (s *BootcampService) Update(ctx context.Context, p domain.Principal, id string, patch map[string]interface{}) (models.Bootcamp, error) {
	existing, err := s.Bootcamps.GetByID(ctx, id)
	if err != nil {
		return models.Bootcamp{}, err
	}
	if err := authz.CanMutate(p, existing.Owner.Hex()); err != nil {
		return models.Bootcamp{}, err
	}

	update := sanitizePatch(patch, "user", "slug", "averageRating", "averageCost", "photo", "location")
	if name, ok := update["name"].(string); ok {
		update["slug"] = slugify(name)
	}
	if len(update) == 0 {
		return existing, nil
	}
	return s.Bootcamps.Update(ctx, existing.ID, update)
}

// Delete removes a bootcamp and cascades to its courses and reviews.
func (s *BootcampService) Delete(ctx context.Context, p domain.Principal, id string) error {
	existing, err := s.Bootcamps.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CanMutate(p, existing.Owner.Hex()); err != nil {
		return err
	}
	if err := s.Bootcamps.Delete(ctx, existing.ID); err != nil {
		return err
	}
	if err := s.Courses.DeleteByBootcamp(ctx, existing.ID); err != nil {
		return err
	}
	if err := s.Reviews.DeleteByBootcamp(ctx, existing.ID); err != nil {
		return err
	}
	s.Log.Info("bootcamp deleted",
		zap.String("bootcamp_id", existing.ID.Hex()),
		zap.String("actor_id", p.ID))
	return nil
}

// WithinRadius geocodes a zipcode and returns the bootcamps inside the given
// distance in miles.
func (s *BootcampService) WithinRadius(ctx context.Context, zipcode string, distanceMiles float64) ([]models.Bootcamp, error) {
	if distanceMiles <= 0 {
		return nil, domain.ValidationError{Field: "distance", Msg: "must be a positive number of miles"}
	}
	loc, err := s.Geocoder.Geocode(ctx, zipcode)
	if err != nil {
		return nil, err
	}
	return s.Bootcamps.FindWithinRadius(ctx, loc.Lng, loc.Lat, distanceMiles/earthRadiusMiles)
}

// UploadPhoto stores an image for a bootcamp and records its filename. When
// the file lands on disk but the record update fails, the error says so
// explicitly so the caller can clean up.
func (s *BootcampService) UploadPhoto(ctx context.Context, p domain.Principal, id string, fh *multipart.FileHeader) (string, error) {
	existing, err := s.Bootcamps.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := authz.CanMutate(p, existing.Owner.Hex()); err != nil {
		return "", err
	}

	name, err := s.Photos.Save(fh, existing.ID.Hex())
	if err != nil {
		return "", err
	}
	if _, err := s.Bootcamps.Update(ctx, existing.ID, bson.M{"photo": name}); err != nil {
		return "", domain.InternalError{
			Msg: "photo stored but bootcamp record not updated",
			Err: err,
		}
	}
	return name, nil
}

// Package services implements the resource operations: list/get/create/
// update/delete around the query translator, the authorization gate and the
// repositories.
package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bootcamper/internal/domain"
	"bootcamper/internal/domain/models"
	"bootcamper/internal/query"
)

// Page is the shared result shape for list operations.
type Page[T any] struct {
	Items      []T
	Total      int64
	Pagination query.Pagination
}

// listPage runs the full translate -> store -> paginate pipeline.
func listPage[T any](ctx context.Context, params url.Values,
	list func(context.Context, query.Descriptor) ([]T, int64, error)) (Page[T], error) {

	d, err := query.Translate(params)
	if err != nil {
		return Page[T]{}, err
	}
	items, total, err := list(ctx, d)
	if err != nil {
		return Page[T]{}, err
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Pagination: query.Paginate(total, d.Page, d.Limit),
	}, nil
}

// sanitizePatch copies a JSON patch into a store update document, dropping
// the keys a client may never rewrite (identity, ownership, derived fields).
func sanitizePatch(patch map[string]interface{}, protected ...string) bson.M {
	out := bson.M{}
	for k, v := range patch {
		out[k] = v
	}
	for _, k := range protected {
		delete(out, k)
	}
	delete(out, "_id")
	delete(out, "id")
	delete(out, "createdAt")
	return out
}

// slugify produces the URL-safe slug stored alongside a bootcamp name.
func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ownerObjectID converts the principal id back into a store id for
// ownership stamping. An unparsable id means the credential is unusable.
func ownerObjectID(p domain.Principal) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return primitive.NilObjectID, domain.UnauthorizedError{Msg: "invalid principal", Err: err}
	}
	return oid, nil
}

// Store contracts, implemented by the repositories package and by test
// fakes.

type BootcampStore interface {
	List(ctx context.Context, d query.Descriptor) ([]models.Bootcamp, int64, error)
	GetByID(ctx context.Context, id string) (models.Bootcamp, error)
	Insert(ctx context.Context, b *models.Bootcamp) error
	Update(ctx context.Context, id primitive.ObjectID, patch bson.M) (models.Bootcamp, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error)
	FindWithinRadius(ctx context.Context, lng, lat, radians float64) ([]models.Bootcamp, error)
}

type CourseStore interface {
	List(ctx context.Context, d query.Descriptor) ([]models.Course, int64, error)
	ListByBootcamp(ctx context.Context, bootcampID primitive.ObjectID) ([]models.Course, error)
	GetByID(ctx context.Context, id string) (models.Course, error)
	Insert(ctx context.Context, c *models.Course) error
	Update(ctx context.Context, id primitive.ObjectID, patch bson.M) (models.Course, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByBootcamp(ctx context.Context, bootcampID primitive.ObjectID) error
	AverageTuition(ctx context.Context, bootcampID primitive.ObjectID) (float64, error)
}

type ReviewStore interface {
	List(ctx context.Context, d query.Descriptor) ([]models.Review, int64, error)
	ListByBootcamp(ctx context.Context, bootcampID primitive.ObjectID) ([]models.Review, error)
	GetByID(ctx context.Context, id string) (models.Review, error)
	Insert(ctx context.Context, r *models.Review) error
	Update(ctx context.Context, id primitive.ObjectID, patch bson.M) (models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByBootcamp(ctx context.Context, bootcampID primitive.ObjectID) error
	AverageRating(ctx context.Context, bootcampID primitive.ObjectID) (float64, error)
}

type UserStore interface {
	List(ctx context.Context, d query.Descriptor) ([]models.User, int64, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByResetToken(ctx context.Context, tokenDigest string, now time.Time) (models.User, error)
	Insert(ctx context.Context, u *models.User) error
	Update(ctx context.Context, id primitive.ObjectID, patch bson.M) (models.User, error)
	ClearResetToken(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

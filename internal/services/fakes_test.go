package services

import (
	"context"
	"mime/multipart"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bootcamper/internal/domain"
	"bootcamper/internal/domain/models"
	"bootcamper/internal/geocode"
	"bootcamper/internal/query"
)

// In-memory store fakes. List applies the descriptor's window over the
// insertion order, which is all the pipeline tests need.

func window[T any](items []T, d query.Descriptor) ([]T, int64) {
	total := int64(len(items))
	start := d.Offset()
	if start > total {
		return []T{}, total
	}
	end := start + int64(d.Limit)
	if end > total {
		end = total
	}
	return items[start:end], total
}

type fakeBootcampStore struct {
	items      []models.Bootcamp
	updates    []bson.M
	radiusArgs []float64
}

func (f *fakeBootcampStore) List(_ context.Context, d query.Descriptor) ([]models.Bootcamp, int64, error) {
	got, total := window(f.items, d)
	return got, total, nil
}

func (f *fakeBootcampStore) GetByID(_ context.Context, id string) (models.Bootcamp, error) {
	for _, b := range f.items {
		if b.ID.Hex() == id {
			return b, nil
		}
	}
	return models.Bootcamp{}, domain.NotFoundError{Resource: "bootcamp"}
}

func (f *fakeBootcampStore) Insert(_ context.Context, b *models.Bootcamp) error {
	b.ID = primitive.NewObjectID()
	b.CreatedAt = time.Now()
	f.items = append(f.items, *b)
	return nil
}

func (f *fakeBootcampStore) Update(_ context.Context, id primitive.ObjectID, patch bson.M) (models.Bootcamp, error) {
	f.updates = append(f.updates, patch)
	for i, b := range f.items {
		if b.ID == id {
			if name, ok := patch["name"].(string); ok {
				b.Name = name
			}
			if photo, ok := patch["photo"].(string); ok {
				b.Photo = photo
			}
			f.items[i] = b
			return b, nil
		}
	}
	return models.Bootcamp{}, domain.NotFoundError{Resource: "bootcamp"}
}

func (f *fakeBootcampStore) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, b := range f.items {
		if b.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.NotFoundError{Resource: "bootcamp"}
}

func (f *fakeBootcampStore) CountByOwner(_ context.Context, owner primitive.ObjectID) (int64, error) {
	var n int64
	for _, b := range f.items {
		if b.Owner == owner {
			n++
		}
	}
	return n, nil
}

func (f *fakeBootcampStore) FindWithinRadius(_ context.Context, lng, lat, radians float64) ([]models.Bootcamp, error) {
	f.radiusArgs = []float64{lng, lat, radians}
	return f.items, nil
}

type fakeCourseStore struct {
	items   []models.Course
	average float64
}

func (f *fakeCourseStore) List(_ context.Context, d query.Descriptor) ([]models.Course, int64, error) {
	got, total := window(f.items, d)
	return got, total, nil
}

func (f *fakeCourseStore) ListByBootcamp(_ context.Context, bootcampID primitive.ObjectID) ([]models.Course, error) {
	out := []models.Course{}
	for _, c := range f.items {
		if c.Bootcamp == bootcampID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourseStore) GetByID(_ context.Context, id string) (models.Course, error) {
	for _, c := range f.items {
		if c.ID.Hex() == id {
			return c, nil
		}
	}
	return models.Course{}, domain.NotFoundError{Resource: "course"}
}

func (f *fakeCourseStore) Insert(_ context.Context, c *models.Course) error {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now()
	f.items = append(f.items, *c)
	return nil
}

func (f *fakeCourseStore) Update(_ context.Context, id primitive.ObjectID, patch bson.M) (models.Course, error) {
	for i, c := range f.items {
		if c.ID == id {
			if tuition, ok := patch["tuition"].(float64); ok {
				c.Tuition = tuition
			}
			f.items[i] = c
			return c, nil
		}
	}
	return models.Course{}, domain.NotFoundError{Resource: "course"}
}

func (f *fakeCourseStore) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, c := range f.items {
		if c.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.NotFoundError{Resource: "course"}
}

func (f *fakeCourseStore) DeleteByBootcamp(_ context.Context, bootcampID primitive.ObjectID) error {
	kept := f.items[:0]
	for _, c := range f.items {
		if c.Bootcamp != bootcampID {
			kept = append(kept, c)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeCourseStore) AverageTuition(_ context.Context, _ primitive.ObjectID) (float64, error) {
	return f.average, nil
}

type fakeReviewStore struct {
	items   []models.Review
	average float64
}

func (f *fakeReviewStore) List(_ context.Context, d query.Descriptor) ([]models.Review, int64, error) {
	got, total := window(f.items, d)
	return got, total, nil
}

func (f *fakeReviewStore) ListByBootcamp(_ context.Context, bootcampID primitive.ObjectID) ([]models.Review, error) {
	out := []models.Review{}
	for _, r := range f.items {
		if r.Bootcamp == bootcampID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewStore) GetByID(_ context.Context, id string) (models.Review, error) {
	for _, r := range f.items {
		if r.ID.Hex() == id {
			return r, nil
		}
	}
	return models.Review{}, domain.NotFoundError{Resource: "review"}
}

func (f *fakeReviewStore) Insert(_ context.Context, r *models.Review) error {
	for _, existing := range f.items {
		if existing.Bootcamp == r.Bootcamp && existing.Owner == r.Owner {
			return domain.ValidationError{Field: "review", Msg: "duplicate field value entered"}
		}
	}
	r.ID = primitive.NewObjectID()
	r.CreatedAt = time.Now()
	f.items = append(f.items, *r)
	return nil
}

func (f *fakeReviewStore) Update(_ context.Context, id primitive.ObjectID, patch bson.M) (models.Review, error) {
	for i, r := range f.items {
		if r.ID == id {
			if rating, ok := patch["rating"].(int); ok {
				r.Rating = rating
			}
			f.items[i] = r
			return r, nil
		}
	}
	return models.Review{}, domain.NotFoundError{Resource: "review"}
}

func (f *fakeReviewStore) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, r := range f.items {
		if r.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.NotFoundError{Resource: "review"}
}

func (f *fakeReviewStore) DeleteByBootcamp(_ context.Context, bootcampID primitive.ObjectID) error {
	kept := f.items[:0]
	for _, r := range f.items {
		if r.Bootcamp != bootcampID {
			kept = append(kept, r)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeReviewStore) AverageRating(_ context.Context, _ primitive.ObjectID) (float64, error) {
	return f.average, nil
}

type fakeUserStore struct {
	items []models.User
}

func (f *fakeUserStore) List(_ context.Context, d query.Descriptor) ([]models.User, int64, error) {
	got, total := window(f.items, d)
	return got, total, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	for _, u := range f.items {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return models.User{}, domain.NotFoundError{Resource: "user"}
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range f.items {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, domain.NotFoundError{Resource: "user"}
}

func (f *fakeUserStore) GetByResetToken(_ context.Context, tokenDigest string, now time.Time) (models.User, error) {
	for _, u := range f.items {
		if u.ResetPasswordToken == tokenDigest && u.ResetPasswordExpire.After(now) {
			return u, nil
		}
	}
	return models.User{}, domain.NotFoundError{Resource: "user"}
}

func (f *fakeUserStore) Insert(_ context.Context, u *models.User) error {
	for _, existing := range f.items {
		if existing.Email == u.Email {
			return domain.ValidationError{Field: "user", Msg: "duplicate field value entered"}
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now()
	f.items = append(f.items, *u)
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, id primitive.ObjectID, patch bson.M) (models.User, error) {
	for i, u := range f.items {
		if u.ID == id {
			if name, ok := patch["name"].(string); ok {
				u.Name = name
			}
			if email, ok := patch["email"].(string); ok {
				u.Email = email
			}
			if pw, ok := patch["password"].(string); ok {
				u.PasswordHash = pw
			}
			if tok, ok := patch["resetPasswordToken"].(string); ok {
				u.ResetPasswordToken = tok
			}
			if exp, ok := patch["resetPasswordExpire"].(time.Time); ok {
				u.ResetPasswordExpire = exp
			}
			f.items[i] = u
			return u, nil
		}
	}
	return models.User{}, domain.NotFoundError{Resource: "user"}
}

func (f *fakeUserStore) ClearResetToken(_ context.Context, id primitive.ObjectID) error {
	for i, u := range f.items {
		if u.ID == id {
			u.ResetPasswordToken = ""
			u.ResetPasswordExpire = time.Time{}
			f.items[i] = u
			return nil
		}
	}
	return domain.NotFoundError{Resource: "user"}
}

func (f *fakeUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, u := range f.items {
		if u.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.NotFoundError{Resource: "user"}
}

type fakeGeocoder struct {
	loc  geocode.Location
	err  error
	last string
}

func (f *fakeGeocoder) Geocode(_ context.Context, address string) (geocode.Location, error) {
	f.last = address
	if f.err != nil {
		return geocode.Location{}, f.err
	}
	return f.loc, nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to+": "+subject)
	return nil
}

type fakePhotoSaver struct {
	name string
	err  error
}

func (f *fakePhotoSaver) Save(_ *multipart.FileHeader, resourceID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.name == "" {
		return "photo_" + resourceID + ".jpg", nil
	}
	return f.name, nil
}

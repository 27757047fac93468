package services

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bootcamper/internal/domain"
	"bootcamper/internal/domain/models"
	"bootcamper/internal/geocode"
	"bootcamper/internal/query"
)

func newBootcampService(bs *fakeBootcampStore) (*BootcampService, *fakeGeocoder) {
	geo := &fakeGeocoder{loc: geocode.Location{Lat: 42.35, Lng: -71.05, City: "Boston", Zipcode: "02118"}}
	return &BootcampService{
		Bootcamps: bs,
		Courses:   &fakeCourseStore{},
		Reviews:   &fakeReviewStore{},
		Geocoder:  geo,
		Photos:    &fakePhotoSaver{},
		Log:       zap.NewNop(),
	}, geo
}

func publisher() domain.Principal {
	return domain.Principal{ID: primitive.NewObjectID().Hex(), Role: domain.RolePublisher}
}

func seedBootcamps(bs *fakeBootcampStore, n int) {
	for i := 0; i < n; i++ {
		bs.items = append(bs.items, models.Bootcamp{
			ID:    primitive.NewObjectID(),
			Name:  "Bootcamp",
			Owner: primitive.NewObjectID(),
		})
	}
}

func TestBootcampListPagination(t *testing.T) {
	bs := &fakeBootcampStore{}
	seedBootcamps(bs, 25)
	svc, _ := newBootcampService(bs)

	page, err := svc.List(context.Background(), url.Values{"page": {"3"}, "limit": {"10"}})
	require.NoError(t, err)

	assert.Len(t, page.Items, 5)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, &query.PageRef{Page: 2, Limit: 10}, page.Pagination.Prev)
	assert.Nil(t, page.Pagination.Next)
}

func TestBootcampListBeyondLastPage(t *testing.T) {
	bs := &fakeBootcampStore{}
	seedBootcamps(bs, 5)
	svc, _ := newBootcampService(bs)

	page, err := svc.List(context.Background(), url.Values{"page": {"4"}, "limit": {"10"}})
	require.NoError(t, err)

	assert.Empty(t, page.Items)
	assert.Nil(t, page.Pagination.Next)
	assert.Equal(t, &query.PageRef{Page: 3, Limit: 10}, page.Pagination.Prev)
}

func TestBootcampListRejectsBadOperator(t *testing.T) {
	svc, _ := newBootcampService(&fakeBootcampStore{})

	_, err := svc.List(context.Background(), url.Values{"name[where]": {"1"}})
	assert.True(t, domain.IsInvalidQuery(err))
}

func TestBootcampCreateByPublisher(t *testing.T) {
	bs := &fakeBootcampStore{}
	svc, _ := newBootcampService(bs)
	p := publisher()

	b, err := svc.Create(context.Background(), p, models.Bootcamp{
		Name:        "Devworks",
		Description: "Learn to code",
		Address:     "233 Bay State Rd Boston MA 02215",
	})
	require.NoError(t, err)

	assert.Equal(t, p.ID, b.Owner.Hex())
	assert.Equal(t, "devworks", b.Slug)
	require.NotNil(t, b.Location)
	assert.Equal(t, "Point", b.Location.Type)
	assert.Equal(t, []float64{-71.05, 42.35}, b.Location.Coordinates)
	assert.Empty(t, b.Address)
}

func TestBootcampCreateSecondByPublisherConflicts(t *testing.T) {
	bs := &fakeBootcampStore{}
	svc, _ := newBootcampService(bs)
	p := publisher()

	_, err := svc.Create(context.Background(), p, models.Bootcamp{Name: "One", Description: "d"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), p, models.Bootcamp{Name: "Two", Description: "d"})
	assert.True(t, domain.IsConflict(err))
}

func TestBootcampCreateAdminUnlimited(t *testing.T) {
	bs := &fakeBootcampStore{}
	svc, _ := newBootcampService(bs)
	admin := domain.Principal{ID: primitive.NewObjectID().Hex(), Role: domain.RoleAdmin}

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), admin, models.Bootcamp{Name: "B", Description: "d"})
		require.NoError(t, err)
	}
}

func TestBootcampCreateUserForbidden(t *testing.T) {
	svc, _ := newBootcampService(&fakeBootcampStore{})
	p := domain.Principal{ID: primitive.NewObjectID().Hex(), Role: domain.RoleUser}

	_, err := svc.Create(context.Background(), p, models.Bootcamp{Name: "B", Description: "d"})
	assert.True(t, domain.IsForbidden(err))
}

func TestBootcampUpdateOwnershipChecks(t *testing.T) {
	bs := &fakeBootcampStore{}
	svc, _ := newBootcampService(bs)
	owner := publisher()

	created, err := svc.Create(context.Background(), owner, models.Bootcamp{Name: "Mine", Description: "d"})
	require.NoError(t, err)
	id := created.ID.Hex()

	// A stranger with role user is denied.
	stranger := domain.Principal{ID: primitive.NewObjectID().Hex(), Role: domain.RoleUser}
	_, err = svc.Update(context.Background(), stranger, id, map[string]interface{}{"name": "Stolen"})
	assert.True(t, domain.IsForbidden(err))

	// The owner succeeds, and the ownership field cannot be rewritten.
	updated, err := svc.Update(context.Background(), owner, id, map[string]interface{}{
		"name": "Renamed",
		"user": primitive.NewObjectID().Hex(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, owner.ID, updated.Owner.Hex())

	// An admin may update without owning.
	admin := domain.Principal{ID: primitive.NewObjectID().Hex(), Role: domain.RoleAdmin}
	_, err = svc.Update(context.Background(), admin, id, map[string]interface{}{"name": "Admin rename"})
	assert.NoError(t, err)
}

func TestBootcampUpdateMissing(t *testing.T) {
	svc, _ := newBootcampService(&fakeBootcampStore{})

	_, err := svc.Update(context.Background(), publisher(), primitive.NewObjectID().Hex(), map[string]interface{}{"name": "x"})
	assert.True(t, domain.IsNotFound(err))
}

func TestBootcampDeleteCascadesAndIsNotIdempotent(t *testing.T) {
	bs := &fakeBootcampStore{}
	cs := &fakeCourseStore{}
	rs := &fakeReviewStore{}
	svc := &BootcampService{
		Bootcamps: bs, Courses: cs, Reviews: rs,
		Geocoder: &fakeGeocoder{}, Photos: &fakePhotoSaver{}, Log: zap.NewNop(),
	}
	owner := publisher()
	created, err := svc.Create(context.Background(), owner, models.Bootcamp{Name: "B", Description: "d"})
	require.NoError(t, err)

	cs.items = append(cs.items, models.Course{ID: primitive.NewObjectID(), Bootcamp: created.ID})
	rs.items = append(rs.items, models.Review{ID: primitive.NewObjectID(), Bootcamp: created.ID})

	require.NoError(t, svc.Delete(context.Background(), owner, created.ID.Hex()))
	assert.Empty(t, cs.items)
	assert.Empty(t, rs.items)

	// Second delete of the same id reports not-found.
	err = svc.Delete(context.Background(), owner, created.ID.Hex())
	assert.True(t, domain.IsNotFound(err))
}

func TestBootcampWithinRadius(t *testing.T) {
	bs := &fakeBootcampStore{}
	seedBootcamps(bs, 2)
	svc, geo := newBootcampService(bs)

	got, err := svc.WithinRadius(context.Background(), "02118", 10)
	require.NoError(t, err)

	assert.Len(t, got, 2)
	assert.Equal(t, "02118", geo.last)
	require.Len(t, bs.radiusArgs, 3)
	assert.InDelta(t, -71.05, bs.radiusArgs[0], 1e-9)
	assert.InDelta(t, 42.35, bs.radiusArgs[1], 1e-9)
	assert.InDelta(t, 10.0/3963.0, bs.radiusArgs[2], 1e-9)
}

func TestBootcampWithinRadiusBadDistance(t *testing.T) {
	svc, _ := newBootcampService(&fakeBootcampStore{})

	_, err := svc.WithinRadius(context.Background(), "02118", 0)
	assert.True(t, domain.IsValidation(err))
}

func TestBootcampUploadPhoto(t *testing.T) {
	bs := &fakeBootcampStore{}
	svc, _ := newBootcampService(bs)
	owner := publisher()
	created, err := svc.Create(context.Background(), owner, models.Bootcamp{Name: "B", Description: "d"})
	require.NoError(t, err)

	name, err := svc.UploadPhoto(context.Background(), owner, created.ID.Hex(), nil)
	require.NoError(t, err)
	assert.Equal(t, "photo_"+created.ID.Hex()+".jpg", name)

	stranger := domain.Principal{ID: primitive.NewObjectID().Hex(), Role: domain.RoleUser}
	_, err = svc.UploadPhoto(context.Background(), stranger, created.ID.Hex(), nil)
	assert.True(t, domain.IsForbidden(err))
}

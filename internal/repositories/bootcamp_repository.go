package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bootcamper/internal/domain/models"
	"bootcamper/internal/query"
	"bootcamper/internal/store"
)

type BootcampRepository struct {
	coll *mongo.Collection
}

func NewBootcampRepository(s *store.Store) *BootcampRepository {
	return &BootcampRepository{coll: s.Collection(store.CollectionBootcamps)}
}

func (r *BootcampRepository) List(ctx context.Context, d query.Descriptor) ([]models.Bootcamp, int64, error) {
	return findPage[models.Bootcamp](ctx, r.coll, d)
}

func (r *BootcampRepository) GetByID(ctx context.Context, id string) (models.Bootcamp, error) {
	return findOneByID[models.Bootcamp](ctx, r.coll, id, "bootcamp")
}

func (r *BootcampRepository) Insert(ctx context.Context, b *models.Bootcamp) error {
	b.ID = primitive.NewObjectID()
	b.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, b)
	return translateWriteErr(err, "bootcamp")
}

func (r *BootcampRepository) Update(ctx context.Context, id primitive.ObjectID, patch bson.M) (models.Bootcamp, error) {
	return updateByID[models.Bootcamp](ctx, r.coll, id, patch, "bootcamp")
}

func (r *BootcampRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.coll, id, "bootcamp")
}

// CountByOwner backs the one-bootcamp-per-publisher rule.
func (r *BootcampRepository) CountByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"user": owner})
}

// FindWithinRadius returns bootcamps whose location falls inside a sphere
// cap centered on (lng, lat) with the radius given in radians.
func (r *BootcampRepository) FindWithinRadius(ctx context.Context, lng, lat, radians float64) ([]models.Bootcamp, error) {
	filter := bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{lng, lat}, radians},
			},
		},
	}
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]models.Bootcamp, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

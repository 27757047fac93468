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

type ReviewRepository struct {
	coll *mongo.Collection
}

func NewReviewRepository(s *store.Store) *ReviewRepository {
	return &ReviewRepository{coll: s.Collection(store.CollectionReviews)}
}

func (r *ReviewRepository) List(ctx context.Context, d query.Descriptor) ([]models.Review, int64, error) {
	return findPage[models.Review](ctx, r.coll, d)
}

func (r *ReviewRepository) ListByBootcamp(ctx context.Context, bootcampID primitive.ObjectID) ([]models.Review, error) {
	cur, err := r.coll.Find(ctx, bson.M{"bootcamp": bootcampID})
	if err != nil {
		return nil, err
	}
	out := make([]models.Review, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (models.Review, error) {
	return findOneByID[models.Review](ctx, r.coll, id, "review")
}

func (r *ReviewRepository) Insert(ctx context.Context, rv *models.Review) error {
	rv.ID = primitive.NewObjectID()
	rv.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, rv)
	return translateWriteErr(err, "review")
}

func (r *ReviewRepository) Update(ctx context.Context, id primitive.ObjectID, patch bson.M) (models.Review, error) {
	return updateByID[models.Review](ctx, r.coll, id, patch, "review")
}

func (r *ReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.coll, id, "review")
}

func (r *ReviewRepository) DeleteByBootcamp(ctx context.Context, bootcampID primitive.ObjectID) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"bootcamp": bootcampID})
	return err
}

// AverageRating aggregates the mean rating across a bootcamp's reviews.
func (r *ReviewRepository) AverageRating(ctx context.Context, bootcampID primitive.ObjectID) (float64, error) {
	return average(ctx, r.coll, bootcampID, "$rating")
}

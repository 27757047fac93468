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

type CourseRepository struct {
	coll *mongo.Collection
}

func NewCourseRepository(s *store.Store) *CourseRepository {
	return &CourseRepository{coll: s.Collection(store.CollectionCourses)}
}

func (r *CourseRepository) List(ctx context.Context, d query.Descriptor) ([]models.Course, int64, error) {
	return findPage[models.Course](ctx, r.coll, d)
}

func (r *CourseRepository) ListByBootcamp(ctx context.Context, bootcampID primitive.ObjectID) ([]models.Course, error) {
	cur, err := r.coll.Find(ctx, bson.M{"bootcamp": bootcampID})
	if err != nil {
		return nil, err
	}
	out := make([]models.Course, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (models.Course, error) {
	return findOneByID[models.Course](ctx, r.coll, id, "course")
}

func (r *CourseRepository) Insert(ctx context.Context, c *models.Course) error {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, c)
	return translateWriteErr(err, "course")
}

func (r *CourseRepository) Update(ctx context.Context, id primitive.ObjectID, patch bson.M) (models.Course, error) {
	return updateByID[models.Course](ctx, r.coll, id, patch, "course")
}

func (r *CourseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.coll, id, "course")
}

func (r *CourseRepository) DeleteByBootcamp(ctx context.Context, bootcampID primitive.ObjectID) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"bootcamp": bootcampID})
	return err
}

// AverageTuition aggregates the mean tuition across a bootcamp's courses.
// Zero with no error means the bootcamp has no courses.
func (r *CourseRepository) AverageTuition(ctx context.Context, bootcampID primitive.ObjectID) (float64, error) {
	return average(ctx, r.coll, bootcampID, "$tuition")
}

// average runs the shared group pipeline used for tuition and rating stats.
func average(ctx context.Context, coll *mongo.Collection, bootcampID primitive.ObjectID, field string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"bootcamp": bootcampID}}},
		{{Key: "$group", Value: bson.M{
			"_id": "$bootcamp",
			"avg": bson.M{"$avg": field},
		}}},
	}
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var rows []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Avg, nil
}

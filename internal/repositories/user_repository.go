package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bootcamper/internal/domain"
	"bootcamper/internal/domain/models"
	"bootcamper/internal/query"
	"bootcamper/internal/store"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(s *store.Store) *UserRepository {
	return &UserRepository{coll: s.Collection(store.CollectionUsers)}
}

func (r *UserRepository) List(ctx context.Context, d query.Descriptor) ([]models.User, int64, error) {
	return findPage[models.User](ctx, r.coll, d)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	return findOneByID[models.User](ctx, r.coll, id, "user")
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return u, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

// GetByResetToken finds the user holding an unexpired reset-token digest.
func (r *UserRepository) GetByResetToken(ctx context.Context, tokenDigest string, now time.Time) (models.User, error) {
	var u models.User
	err := r.coll.FindOne(ctx, bson.M{
		"resetPasswordToken":  tokenDigest,
		"resetPasswordExpire": bson.M{"$gt": now},
	}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return u, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

func (r *UserRepository) Insert(ctx context.Context, u *models.User) error {
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, u)
	return translateWriteErr(err, "user")
}

func (r *UserRepository) Update(ctx context.Context, id primitive.ObjectID, patch bson.M) (models.User, error) {
	return updateByID[models.User](ctx, r.coll, id, patch, "user")
}

// ClearResetToken removes the reset-token fields after use or failure.
func (r *UserRepository) ClearResetToken(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
	})
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.coll, id, "user")
}

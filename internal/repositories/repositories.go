// Package repositories implements the MongoDB-backed persistence layer.
// Each repository owns one collection and translates driver errors into the
// domain error taxonomy.
package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bootcamper/internal/domain"
	"bootcamper/internal/query"
)

// parseID converts an API-surface hex id into an ObjectID. A malformed id
// behaves like a missing document, so handlers cannot distinguish the two.
func parseID(id, resource string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.NotFoundError{Resource: resource, Err: err}
	}
	return oid, nil
}

// translateWriteErr maps driver write failures onto domain errors.
// Duplicate keys surface as validation failures, everything else passes
// through for the boundary to treat as a server error.
func translateWriteErr(err error, resource string) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return domain.ValidationError{Field: resource, Msg: "duplicate field value entered", Err: err}
	}
	return err
}

// findPage runs a translated descriptor against a collection and returns the
// window plus the filtered total.
func findPage[T any](ctx context.Context, coll *mongo.Collection, d query.Descriptor) ([]T, int64, error) {
	filter := d.Filter
	if filter == nil {
		filter = bson.M{}
	}

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip(d.Offset()).
		SetLimit(int64(d.Limit)).
		SetSort(d.SortDoc())
	if d.Projection != nil {
		opts.SetProjection(d.Projection)
	}

	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	out := make([]T, 0, d.Limit)
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// findOneByID fetches a single document or a typed not-found error.
func findOneByID[T any](ctx context.Context, coll *mongo.Collection, id, resource string) (T, error) {
	var out T
	oid, err := parseID(id, resource)
	if err != nil {
		return out, err
	}
	err = coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return out, domain.NotFoundError{Resource: resource}
	}
	return out, err
}

// updateByID applies a $set patch and returns the updated document.
func updateByID[T any](ctx context.Context, coll *mongo.Collection, oid primitive.ObjectID, patch bson.M, resource string) (T, error) {
	var out T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": patch}, opts).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return out, domain.NotFoundError{Resource: resource}
	}
	return out, translateWriteErr(err, resource)
}

// deleteByID removes a document, reporting not-found when nothing matched so
// repeated deletes stay observable.
func deleteByID(ctx context.Context, coll *mongo.Collection, oid primitive.ObjectID, resource string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.NotFoundError{Resource: resource}
	}
	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	models "github.com/phillip/sports-academy-go/models"
)

// Connect dials MongoDB and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Members:     newMongoRepository[models.Member](db.Collection(MembersCollection)),
		Activities:  newMongoRepository[models.Activity](db.Collection(ActivitiesCollection)),
		Donations:   newMongoRepository[models.Donation](db.Collection(DonationsCollection)),
		Expenses:    newMongoRepository[models.Expense](db.Collection(ExpensesCollection)),
		Experiences: newMongoRepository[models.Experience](db.Collection(ExperiencesCollection)),
		HeroSlides:  newMongoRepository[models.HeroSlide](db.Collection(HeroSlidesCollection)),
		Gallery:     newMongoRepository[models.GalleryItem](db.Collection(GalleryCollection)),
		WeeklyFees:  newMongoRepository[models.WeeklyFee](db.Collection(WeeklyFeesCollection)),
		Dashboards:  newMongoRepository[models.Dashboard](db.Collection(DashboardsCollection)),
		ping: func(ctx context.Context) error {
			return translate(db.Client().Ping(ctx, readpref.Primary()))
		},
	}
}

// EnsureIndexes creates the lookup indexes and the partial unique index that
// keeps featured gallery slots distinct.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string]mongo.IndexModel{
		WeeklyFeesCollection: {
			Keys: bson.D{{Key: "memberId", Value: 1}},
		},
		GalleryCollection: {
			Keys: bson.D{{Key: "order", Value: 1}},
			Options: options.Index().
				SetName("featured_order_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isTopFive": true}),
		},
		DashboardsCollection: {
			Keys: bson.D{{Key: "lastUpdated", Value: -1}},
		},
	}
	for name, model := range indexes {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", name, err)
		}
	}
	return nil
}

type mongoRepository[T any] struct {
	col *mongo.Collection
}

func newMongoRepository[T any](col *mongo.Collection) *mongoRepository[T] {
	return &mongoRepository[T]{col: col}
}

func sortDoc(opts FindOptions) bson.D {
	dir := 1
	if opts.Descending {
		dir = -1
	}
	return bson.D{{Key: opts.SortBy, Value: dir}}
}

func (r *mongoRepository[T]) Find(ctx context.Context, filter bson.M, opts FindOptions) ([]T, error) {
	findOpts := options.Find()
	if opts.SortBy != "" {
		findOpts.SetSort(sortDoc(opts))
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := r.col.Find(ctx, orEmpty(filter), findOpts)
	if err != nil {
		return nil, translate(err)
	}
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *mongoRepository[T]) FindOne(ctx context.Context, filter bson.M, opts FindOptions) (*T, error) {
	findOpts := options.FindOne()
	if opts.SortBy != "" {
		findOpts.SetSort(sortDoc(opts))
	}
	var doc T
	if err := r.col.FindOne(ctx, orEmpty(filter), findOpts).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (r *mongoRepository[T]) Get(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return r.FindOne(ctx, bson.M{"_id": id}, FindOptions{})
}

func (r *mongoRepository[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	n, err := r.col.CountDocuments(ctx, orEmpty(filter))
	return n, translate(err)
}

func (r *mongoRepository[T]) Insert(ctx context.Context, doc *T) error {
	_, err := r.col.InsertOne(ctx, doc)
	return translate(err)
}

func (r *mongoRepository[T]) Replace(ctx context.Context, id primitive.ObjectID, doc *T) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRepository[T]) UpdateFields(ctx context.Context, filter bson.M, set bson.M) (int64, error) {
	res, err := r.col.UpdateMany(ctx, orEmpty(filter), bson.M{"$set": set})
	if err != nil {
		return 0, translate(err)
	}
	return res.MatchedCount, nil
}

func (r *mongoRepository[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRepository[T]) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	res, err := r.col.DeleteMany(ctx, orEmpty(filter))
	if err != nil {
		return 0, translate(err)
	}
	return res.DeletedCount, nil
}

// translate maps driver errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

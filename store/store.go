// Package store is the entity store: one generic repository per collection,
// backed by MongoDB in production and by an in-memory document set in tests.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/phillip/sports-academy-go/models"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicate   = errors.New("duplicate key")
	ErrUnavailable = errors.New("store unavailable")
)

// Collection names match the existing academy database.
const (
	MembersCollection     = "members"
	ActivitiesCollection  = "activities"
	DonationsCollection   = "donations"
	ExpensesCollection    = "expenses"
	ExperiencesCollection = "experiences"
	HeroSlidesCollection  = "heroslides"
	GalleryCollection     = "galleries"
	WeeklyFeesCollection  = "weeklyfees"
	DashboardsCollection  = "dashboards"
)

type FindOptions struct {
	SortBy     string
	Descending bool
	Limit      int64
}

// Repository is the per-collection contract. Filters are bson documents of
// field equality, optionally using {"$ne": v}.
type Repository[T any] interface {
	Find(ctx context.Context, filter bson.M, opts FindOptions) ([]T, error)
	FindOne(ctx context.Context, filter bson.M, opts FindOptions) (*T, error)
	Get(ctx context.Context, id primitive.ObjectID) (*T, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Insert(ctx context.Context, doc *T) error
	Replace(ctx context.Context, id primitive.ObjectID, doc *T) error
	UpdateFields(ctx context.Context, filter bson.M, set bson.M) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, filter bson.M) (int64, error)
}

type Store struct {
	Members     Repository[models.Member]
	Activities  Repository[models.Activity]
	Donations   Repository[models.Donation]
	Expenses    Repository[models.Expense]
	Experiences Repository[models.Experience]
	HeroSlides  Repository[models.HeroSlide]
	Gallery     Repository[models.GalleryItem]
	WeeklyFees  Repository[models.WeeklyFee]
	Dashboards  Repository[models.Dashboard]

	ping func(ctx context.Context) error
}

// Ping checks the backing store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func orEmpty(filter bson.M) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return filter
}

package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/phillip/sports-academy-go/models"
)

// NewMemoryStore returns a process-local store with the same filter, sort and
// featured-slot uniqueness behaviour as the MongoDB store.
func NewMemoryStore() *Store {
	return &Store{
		Members:     newMemoryRepository[models.Member](),
		Activities:  newMemoryRepository[models.Activity](),
		Donations:   newMemoryRepository[models.Donation](),
		Expenses:    newMemoryRepository[models.Expense](),
		Experiences: newMemoryRepository[models.Experience](),
		HeroSlides:  newMemoryRepository[models.HeroSlide](),
		Gallery: newMemoryRepository[models.GalleryItem](
			uniqueIndex{field: "order", partial: bson.M{"isTopFive": true}},
		),
		WeeklyFees: newMemoryRepository[models.WeeklyFee](),
		Dashboards: newMemoryRepository[models.Dashboard](),
	}
}

type uniqueIndex struct {
	field   string
	partial bson.M
}

type memoryRepository[T any] struct {
	mu     sync.RWMutex
	docs   []bson.M
	unique []uniqueIndex
}

func newMemoryRepository[T any](unique ...uniqueIndex) *memoryRepository[T] {
	return &memoryRepository[T]{unique: unique}
}

func (r *memoryRepository[T]) Find(ctx context.Context, filter bson.M, opts FindOptions) ([]T, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var hits []bson.M
	for _, doc := range r.docs {
		if matches(doc, filter) {
			hits = append(hits, doc)
		}
	}
	if opts.SortBy != "" {
		sort.SliceStable(hits, func(i, j int) bool {
			c := compareValues(hits[i][opts.SortBy], hits[j][opts.SortBy])
			if opts.Descending {
				return c > 0
			}
			return c < 0
		})
	}
	if opts.Limit > 0 && int64(len(hits)) > opts.Limit {
		hits = hits[:opts.Limit]
	}

	out := make([]T, 0, len(hits))
	for _, doc := range hits {
		v, err := fromDoc[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (r *memoryRepository[T]) FindOne(ctx context.Context, filter bson.M, opts FindOptions) (*T, error) {
	opts.Limit = 1
	found, err := r.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return &found[0], nil
}

func (r *memoryRepository[T]) Get(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return r.FindOne(ctx, bson.M{"_id": id}, FindOptions{})
}

func (r *memoryRepository[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, doc := range r.docs {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

func (r *memoryRepository[T]) Insert(ctx context.Context, doc *T) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	m, err := toDoc(doc)
	if err != nil {
		return err
	}
	id, err := docID(m)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(id) >= 0 {
		return fmt.Errorf("%w: _id %s", ErrDuplicate, id.Hex())
	}
	if field, bad := r.violatesUnique(m, id); bad {
		return fmt.Errorf("%w: %s", ErrDuplicate, field)
	}
	r.docs = append(r.docs, m)
	return nil
}

func (r *memoryRepository[T]) Replace(ctx context.Context, id primitive.ObjectID, doc *T) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	m, err := toDoc(doc)
	if err != nil {
		return err
	}
	m["_id"] = id

	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	if field, bad := r.violatesUnique(m, id); bad {
		return fmt.Errorf("%w: %s", ErrDuplicate, field)
	}
	r.docs[i] = m
	return nil
}

func (r *memoryRepository[T]) UpdateFields(ctx context.Context, filter bson.M, set bson.M) (int64, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	values, err := toDoc(set)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var matched int64
	for i, doc := range r.docs {
		if !matches(doc, filter) {
			continue
		}
		updated := make(bson.M, len(doc))
		for k, v := range doc {
			updated[k] = v
		}
		for k, v := range values {
			updated[k] = v
		}
		id, _ := docID(updated)
		if field, bad := r.violatesUnique(updated, id); bad {
			return matched, fmt.Errorf("%w: %s", ErrDuplicate, field)
		}
		r.docs[i] = updated
		matched++
	}
	return matched, nil
}

func (r *memoryRepository[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.docs = append(r.docs[:i], r.docs[i+1:]...)
	return nil
}

func (r *memoryRepository[T]) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.docs[:0]
	var deleted int64
	for _, doc := range r.docs {
		if matches(doc, filter) {
			deleted++
			continue
		}
		kept = append(kept, doc)
	}
	r.docs = kept
	return deleted, nil
}

func (r *memoryRepository[T]) indexOf(id primitive.ObjectID) int {
	for i, doc := range r.docs {
		if got, _ := docID(doc); got == id {
			return i
		}
	}
	return -1
}

func (r *memoryRepository[T]) violatesUnique(candidate bson.M, id primitive.ObjectID) (string, bool) {
	for _, idx := range r.unique {
		if !matches(candidate, idx.partial) {
			continue
		}
		for _, other := range r.docs {
			if otherID, _ := docID(other); otherID == id {
				continue
			}
			if matches(other, idx.partial) && equalValues(other[idx.field], candidate[idx.field]) {
				return idx.field, true
			}
		}
	}
	return "", false
}

func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func toDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("memory store encode: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("memory store decode: %w", err)
	}
	return m, nil
}

func fromDoc[T any](m bson.M) (*T, error) {
	raw, err := bson.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("memory store encode: %w", err)
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("memory store decode: %w", err)
	}
	return &out, nil
}

func docID(m bson.M) (primitive.ObjectID, error) {
	id, ok := m["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		return primitive.NilObjectID, errors.New("memory store: document has no _id")
	}
	return id, nil
}

func matches(doc, filter bson.M) bool {
	for field, cond := range filter {
		if op, ok := cond.(bson.M); ok {
			if ne, has := op["$ne"]; has {
				if equalValues(doc[field], ne) {
					return false
				}
				continue
			}
		}
		if !equalValues(doc[field], cond) {
			return false
		}
	}
	return true
}

// equalValues compares a stored value with a filter value after putting the
// filter value through the same bson encoding the stored value went through.
func equalValues(stored, want any) bool {
	return reflect.DeepEqual(normalize(stored), filterValue(want))
}

func filterValue(v any) any {
	m, err := toDoc(bson.M{"v": v})
	if err != nil {
		return normalize(v)
	}
	return normalize(m["v"])
}

func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	}
	return v
}

func compareValues(a, b any) int {
	a, b = normalize(a), normalize(b)
	switch x := a.(type) {
	case int64:
		y, _ := b.(int64)
		return cmp.Compare(x, y)
	case float64:
		y, _ := b.(float64)
		return cmp.Compare(x, y)
	case string:
		y, _ := b.(string)
		return strings.Compare(x, y)
	case primitive.DateTime:
		y, _ := b.(primitive.DateTime)
		return cmp.Compare(x, y)
	case primitive.ObjectID:
		y, _ := b.(primitive.ObjectID)
		return strings.Compare(x.Hex(), y.Hex())
	case bool:
		y, _ := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	}
	return 0
}

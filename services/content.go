package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/sports-academy-go/store"
)

// Document is the pointer type of a stored record.
type Document[T any] interface {
	*T
	Validate() error
	Stamp(now time.Time)
	Key() primitive.ObjectID
	Modified() time.Time
}

// Content is plain CRUD over one collection.
type Content[T any, P Document[T]] struct {
	label   string
	repo    store.Repository[T]
	listing store.FindOptions
	now     func() time.Time
	prepare func(P)
}

func newContent[T any, P Document[T]](label string, repo store.Repository[T], listing store.FindOptions, now func() time.Time) *Content[T, P] {
	return &Content[T, P]{label: label, repo: repo, listing: listing, now: now}
}

// Label names the record type in messages, e.g. "Donation".
func (c *Content[T, P]) Label() string { return c.label }

func (c *Content[T, P]) List(ctx context.Context) ([]T, error) {
	return c.Find(ctx, nil, c.listing)
}

func (c *Content[T, P]) Find(ctx context.Context, filter bson.M, opts store.FindOptions) ([]T, error) {
	items, err := c.repo.Find(ctx, filter, opts)
	if err != nil {
		return nil, fromStore(c.label, err)
	}
	return items, nil
}

func (c *Content[T, P]) Get(ctx context.Context, id primitive.ObjectID) (P, error) {
	doc, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, fromStore(c.label, err)
	}
	return P(doc), nil
}

func (c *Content[T, P]) Count(ctx context.Context) (int64, error) {
	n, err := c.repo.Count(ctx, nil)
	return n, fromStore(c.label, err)
}

func (c *Content[T, P]) Create(ctx context.Context, doc P) (P, error) {
	if c.prepare != nil {
		c.prepare(doc)
	}
	if err := doc.Validate(); err != nil {
		return nil, invalid(err)
	}
	doc.Stamp(c.now())
	if err := c.repo.Insert(ctx, (*T)(doc)); err != nil {
		return nil, fromStore(c.label, err)
	}
	return doc, nil
}

// Update loads the record, applies fn, validates and replaces it.
func (c *Content[T, P]) Update(ctx context.Context, id primitive.ObjectID, fn func(P) error) (P, error) {
	doc, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, asValidation(err)
	}
	if c.prepare != nil {
		c.prepare(doc)
	}
	if err := doc.Validate(); err != nil {
		return nil, invalid(err)
	}
	doc.Stamp(c.now())
	if err := c.repo.Replace(ctx, id, (*T)(doc)); err != nil {
		return nil, fromStore(c.label, err)
	}
	return doc, nil
}

func (c *Content[T, P]) Delete(ctx context.Context, id primitive.ObjectID) (P, error) {
	doc, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.repo.Delete(ctx, id); err != nil {
		return nil, fromStore(c.label, err)
	}
	return doc, nil
}

// asValidation keeps typed errors and treats anything else from a mutator as bad input.
func asValidation(err error) error {
	if _, ok := err.(*Error); ok {
		return err
	}
	return invalid(err)
}

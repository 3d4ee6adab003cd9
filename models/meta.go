package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meta is the identity and timestamp block shared by every stored record.
type Meta struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (m *Meta) Key() primitive.ObjectID { return m.ID }

func (m *Meta) Modified() time.Time { return m.UpdatedAt }

// Stamp assigns an id on first save and bumps UpdatedAt.
func (m *Meta) Stamp(now time.Time) {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

package utils

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerateETag derives a strong validator for one record.
func GenerateETag(id primitive.ObjectID, updatedAt time.Time) string {
	return fmt.Sprintf(`"%s-%d"`, id.Hex(), updatedAt.UnixMilli())
}

// GenerateListETag is GenerateETag for a collection, keyed by its most recently
// updated record and its size so deletions change it too.
func GenerateListETag(id primitive.ObjectID, updatedAt time.Time, count int) string {
	return fmt.Sprintf(`"%s-%d-%d"`, id.Hex(), updatedAt.UnixMilli(), count)
}

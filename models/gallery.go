package models

import (
	"errors"
	"strings"
)

// MaxFeatured is the number of top-five slots.
const MaxFeatured = 5

type GalleryItem struct {
	Meta `bson:",inline"`

	Title     string `bson:"title" json:"title"`
	URL       string `bson:"url" json:"url"`
	Album     string `bson:"album" json:"album"`
	IsTopFive bool   `bson:"isTopFive" json:"isTopFive"`
	Order     int    `bson:"order" json:"order"` // 0, or slot 1..5 while featured
}

func ValidImageURL(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

func (g *GalleryItem) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return errors.New("title is required")
	}
	if !ValidImageURL(g.URL) {
		return errors.New("url must start with http:// or https://")
	}
	return nil
}

// Unfeature clears the slot.
func (g *GalleryItem) Unfeature() {
	g.IsTopFive = false
	g.Order = 0
}

func (g *GalleryItem) Feature(slot int) {
	g.IsTopFive = true
	g.Order = slot
}

// GalleryPatch carries the editable descriptive fields. Featured state is
// owned by the ordering operations.
type GalleryPatch struct {
	Title *string `json:"title"`
	URL   *string `json:"url"`
	Album *string `json:"album"`
}

func (p GalleryPatch) Apply(g *GalleryItem) error {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.URL != nil {
		g.URL = *p.URL
	}
	if p.Album != nil {
		g.Album = *p.Album
	}
	return nil
}

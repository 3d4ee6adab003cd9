package services

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/sports-academy-go/locks"
	models "github.com/phillip/sports-academy-go/models"
	"github.com/phillip/sports-academy-go/store"
)

// galleryLock serializes every change to featured state across the whole
// collection.
const galleryLock = "gallery:featured"

const capacityMessage = "Maximum 5 featured photos allowed. Remove one first."

type GalleryService struct {
	*Content[models.GalleryItem, *models.GalleryItem]

	locker locks.Locker
	images ImageHost
	log    *slog.Logger
}

type GalleryInput struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Album     string `json:"album"`
	IsTopFive bool   `json:"isTopFive"`
}

// ListFeatured returns the featured items by slot.
func (s *GalleryService) ListFeatured(ctx context.Context) ([]models.GalleryItem, error) {
	return s.Find(ctx, bson.M{"isTopFive": true}, store.FindOptions{SortBy: "order", Limit: models.MaxFeatured})
}

func (s *GalleryService) ByAlbum(ctx context.Context, album string) ([]models.GalleryItem, error) {
	return s.Find(ctx, bson.M{"album": album}, s.listing)
}

// Create inserts an item. A featured request takes the lowest free slot.
func (s *GalleryService) Create(ctx context.Context, in GalleryInput) (*models.GalleryItem, error) {
	item := &models.GalleryItem{Title: in.Title, URL: in.URL, Album: in.Album}
	if !in.IsTopFive {
		return s.Content.Create(ctx, item)
	}

	release, err := s.locker.Lock(ctx, galleryLock)
	if err != nil {
		return nil, lockErr(err)
	}
	defer release()

	slot, err := s.freeSlot(ctx)
	if err != nil {
		return nil, err
	}
	item.Feature(slot)
	return s.Content.Create(ctx, item)
}

// Upload stores the file with the image host and creates the item for it.
func (s *GalleryService) Upload(ctx context.Context, file io.Reader, filename string, in GalleryInput) (*models.GalleryItem, error) {
	if s.images == nil {
		return nil, invalidf("image uploads are not configured")
	}
	if in.Title == "" {
		return nil, invalidf("title is required")
	}
	url, err := s.images.Upload(ctx, file, filename)
	if err != nil {
		return nil, &Error{Kind: KindInternal, Message: "image upload failed", Err: err}
	}
	in.URL = url
	item, err := s.Create(ctx, in)
	if err != nil {
		s.destroy(ctx, url)
		return nil, err
	}
	return item, nil
}

// Update edits the descriptive fields. It holds the gallery lock so a
// concurrent reorder is not overwritten.
func (s *GalleryService) Update(ctx context.Context, id primitive.ObjectID, patch models.GalleryPatch) (*models.GalleryItem, error) {
	release, err := s.locker.Lock(ctx, galleryLock)
	if err != nil {
		return nil, lockErr(err)
	}
	defer release()
	return s.Content.Update(ctx, id, func(g *models.GalleryItem) error { return patch.Apply(g) })
}

func (s *GalleryService) Delete(ctx context.Context, id primitive.ObjectID) (*models.GalleryItem, error) {
	release, err := s.locker.Lock(ctx, galleryLock)
	if err != nil {
		return nil, lockErr(err)
	}
	deleted, err := s.Content.Delete(ctx, id)
	release()
	if err != nil {
		return nil, err
	}
	s.destroy(ctx, deleted.URL)
	return deleted, nil
}

// ToggleFeatured unfeatures a featured item, or features it in the lowest
// free slot. A sixth featured item is refused.
func (s *GalleryService) ToggleFeatured(ctx context.Context, id primitive.ObjectID) (*models.GalleryItem, error) {
	release, err := s.locker.Lock(ctx, galleryLock)
	if err != nil {
		return nil, lockErr(err)
	}
	defer release()

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.IsTopFive {
		item.Unfeature()
	} else {
		slot, err := s.freeSlot(ctx)
		if err != nil {
			return nil, err
		}
		item.Feature(slot)
	}
	return s.save(ctx, item)
}

// SetOrder moves the item into slot, unfeaturing whichever other item held it.
func (s *GalleryService) SetOrder(ctx context.Context, id primitive.ObjectID, slot int) (*models.GalleryItem, error) {
	if slot < 1 || slot > models.MaxFeatured {
		return nil, invalidf("Order must be between 1 and %d", models.MaxFeatured)
	}
	release, err := s.locker.Lock(ctx, galleryLock)
	if err != nil {
		return nil, lockErr(err)
	}
	defer release()

	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	holder, err := s.repo.FindOne(ctx, bson.M{"isTopFive": true, "order": slot, "_id": bson.M{"$ne": id}}, store.FindOptions{})
	switch {
	case err == nil:
		holder.Unfeature()
		if _, err := s.save(ctx, holder); err != nil {
			return nil, err
		}
		s.log.DebugContext(ctx, "gallery slot taken over",
			"slot", slot, "from", holder.ID.Hex(), "to", id.Hex())
	case !errors.Is(err, store.ErrNotFound):
		return nil, fromStore(s.label, err)
	}
	item.Feature(slot)
	return s.save(ctx, item)
}

// freeSlot returns the lowest unused slot. Callers hold the gallery lock.
func (s *GalleryService) freeSlot(ctx context.Context) (int, error) {
	featured, err := s.Find(ctx, bson.M{"isTopFive": true}, store.FindOptions{})
	if err != nil {
		return 0, err
	}
	slot := LowestFreeSlot(featured)
	if len(featured) >= models.MaxFeatured || slot == 0 {
		return 0, &Error{Kind: KindCapacityExceeded, Message: capacityMessage}
	}
	return slot, nil
}

// LowestFreeSlot returns the smallest slot in 1..5 not used by featured.
// It returns 0 when every slot is taken.
func LowestFreeSlot(featured []models.GalleryItem) int {
	var used [models.MaxFeatured + 1]bool
	for _, g := range featured {
		if g.IsTopFive && g.Order >= 1 && g.Order <= models.MaxFeatured {
			used[g.Order] = true
		}
	}
	for slot := 1; slot <= models.MaxFeatured; slot++ {
		if !used[slot] {
			return slot
		}
	}
	return 0
}

func (s *GalleryService) save(ctx context.Context, item *models.GalleryItem) (*models.GalleryItem, error) {
	item.Stamp(s.now())
	if err := s.repo.Replace(ctx, item.ID, item); err != nil {
		return nil, fromStore(s.label, err)
	}
	return item, nil
}

func (s *GalleryService) destroy(ctx context.Context, url string) {
	if s.images == nil || !s.images.Owns(url) {
		return
	}
	if err := s.images.Destroy(ctx, url); err != nil {
		s.log.WarnContext(ctx, "hosted image not removed", "url", url, "error", err)
	}
}

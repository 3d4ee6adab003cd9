package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/sports-academy-go/models"
	"github.com/phillip/sports-academy-go/store"
)

type HeroSlideService struct {
	*Content[models.HeroSlide, *models.HeroSlide]

	gallery *GalleryService
	log     *slog.Logger
}

type slideTemplate struct {
	title, subtitle, description, ctaText, ctaLink string
}

// Copy shown over each featured photo, by slot.
var slideTemplates = [models.MaxFeatured]slideTemplate{
	{"Welcome to Ledo Sports Academy", "Where Champions Are Born",
		"Join India's premier sports academy and unlock your potential with world-class training facilities and expert coaches.",
		"Join Today", "#members"},
	{"Championship Excellence", "Celebrating Our Victories",
		"Our dedication and hard work have led us to numerous victories and championships throughout the years.",
		"Our Journey", "#experiences"},
	{"Team Spirit & Unity", "Building Strong Teams",
		"Experience the power of teamwork and collaboration as we build stronger athletes and better individuals.",
		"Explore", "#activities"},
	{"Youth Development Program", "Nurturing Future Stars",
		"Investing in youth development to create the next generation of sports champions and leaders.",
		"Support Us", "#donations"},
	{"Community Sports Festival", "Building Tomorrow's Athletes",
		"Fostering sports culture and healthy competition with over 500 participants from local schools.",
		"View Gallery", "#gallery"},
}

// SyncFromGallery replaces every hero slide with one slide per featured
// photo. All five slots must be filled. The new slides are written before the
// old ones are removed, so a failed write leaves the previous set in place.
func (s *HeroSlideService) SyncFromGallery(ctx context.Context) ([]models.HeroSlide, error) {
	release, err := s.gallery.locker.Lock(ctx, galleryLock)
	if err != nil {
		return nil, lockErr(err)
	}
	defer release()

	featured, err := s.gallery.ListFeatured(ctx)
	if err != nil {
		return nil, err
	}
	if len(featured) < models.MaxFeatured {
		return nil, invalidf("five featured photos required (have %d)", len(featured))
	}
	old, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	// Slides are listed newest first, so slot 1 gets the latest timestamp.
	base := s.now()
	slides := make([]models.HeroSlide, len(featured))
	var written []primitive.ObjectID
	for i := len(featured) - 1; i >= 0; i-- {
		t := slideTemplates[i]
		slide := models.HeroSlide{
			Title:           t.title,
			Subtitle:        t.subtitle,
			Description:     t.description,
			BackgroundImage: featured[i].URL,
			CtaText:         t.ctaText,
			CtaLink:         t.ctaLink,
		}
		slide.Stamp(base.Add(time.Duration(len(featured)-1-i) * time.Millisecond))
		if err := s.repo.Insert(ctx, &slide); err != nil {
			s.discard(ctx, written)
			return nil, fromStore(s.label, err)
		}
		written = append(written, slide.ID)
		slides[i] = slide
	}

	stale := make([]primitive.ObjectID, 0, len(old))
	for _, o := range old {
		stale = append(stale, o.ID)
	}
	s.discard(ctx, stale)
	return slides, nil
}

// discard deletes slides by id. Failures are logged.
func (s *HeroSlideService) discard(ctx context.Context, ids []primitive.ObjectID) {
	for _, id := range ids {
		if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
			s.log.WarnContext(ctx, "hero slide not removed", "slide_id", id.Hex(), "error", err)
		}
	}
}

package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/phillip/sports-academy-go/models"
)

func addPhotos(t *testing.T, svc *Services, n int) []*models.GalleryItem {
	t.Helper()
	items := make([]*models.GalleryItem, n)
	for i := range items {
		item, err := svc.Gallery.Create(context.Background(), GalleryInput{
			Title: fmt.Sprintf("Photo %d", i+1),
			URL:   fmt.Sprintf("https://images.example.com/%d.jpg", i+1),
			Album: "training",
		})
		require.NoError(t, err)
		items[i] = item
	}
	return items
}

func featuredOrders(t *testing.T, svc *Services) []int {
	t.Helper()
	featured, err := svc.Gallery.ListFeatured(context.Background())
	require.NoError(t, err)
	orders := make([]int, len(featured))
	for i, g := range featured {
		orders[i] = g.Order
	}
	return orders
}

func TestToggleFeaturedFillsLowestSlot(t *testing.T) {
	svc := newTestServices(t, Deps{})
	ctx := context.Background()
	photos := addPhotos(t, svc, 6)

	for i := 0; i < 5; i++ {
		item, err := svc.Gallery.ToggleFeatured(ctx, photos[i].ID)
		require.NoError(t, err)
		assert.True(t, item.IsTopFive)
		assert.Equal(t, i+1, item.Order)
	}

	before, err := svc.Gallery.List(ctx)
	require.NoError(t, err)

	_, err = svc.Gallery.ToggleFeatured(ctx, photos[5].ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.EqualError(t, err, "Maximum 5 featured photos allowed. Remove one first.")

	after, err := svc.Gallery.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// freeing slot 3 lets the sixth photo take it
	item, err := svc.Gallery.ToggleFeatured(ctx, photos[2].ID)
	require.NoError(t, err)
	assert.False(t, item.IsTopFive)
	assert.Equal(t, 0, item.Order)

	item, err = svc.Gallery.ToggleFeatured(ctx, photos[5].ID)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Order)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, featuredOrders(t, svc))
}

func TestSetOrderEvictsHolder(t *testing.T) {
	svc := newTestServices(t, Deps{})
	ctx := context.Background()
	photos := addPhotos(t, svc, 3)

	_, err := svc.Gallery.ToggleFeatured(ctx, photos[0].ID) // slot 1
	require.NoError(t, err)

	moved, err := svc.Gallery.SetOrder(ctx, photos[1].ID, 1)
	require.NoError(t, err)
	assert.True(t, moved.IsTopFive)
	assert.Equal(t, 1, moved.Order)

	evicted, err := svc.Gallery.Get(ctx, photos[0].ID)
	require.NoError(t, err)
	assert.False(t, evicted.IsTopFive)
	assert.Equal(t, 0, evicted.Order)

	// re-setting its own slot is a no-op move
	same, err := svc.Gallery.SetOrder(ctx, photos[1].ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, same.Order)

	moved, err = svc.Gallery.SetOrder(ctx, photos[1].ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, moved.Order)
	assert.Equal(t, []int{4}, featuredOrders(t, svc))
}

func TestSetOrderValidation(t *testing.T) {
	svc := newTestServices(t, Deps{})
	photos := addPhotos(t, svc, 1)

	for _, slot := range []int{0, 6, -1} {
		_, err := svc.Gallery.SetOrder(context.Background(), photos[0].ID, slot)
		assert.ErrorIs(t, err, ErrValidation, "slot %d", slot)
	}
	_, err := svc.Gallery.SetOrder(context.Background(), primitive.NewObjectID(), 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateFeatured(t *testing.T) {
	svc := newTestServices(t, Deps{})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		item, err := svc.Gallery.Create(ctx, GalleryInput{
			Title: "Top", URL: fmt.Sprintf("https://x.example/%d.jpg", i), IsTopFive: true,
		})
		require.NoError(t, err)
		assert.Equal(t, i+1, item.Order)
	}
	_, err := svc.Gallery.Create(ctx, GalleryInput{Title: "Top", URL: "https://x.example/6.jpg", IsTopFive: true})
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = svc.Gallery.Create(ctx, GalleryInput{Title: "Bad", URL: "ftp://x.example/1.jpg"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestConcurrentTogglesNeverExceedFive(t *testing.T) {
	svc := newTestServices(t, Deps{})
	photos := addPhotos(t, svc, 12)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
	)
	for _, p := range photos {
		wg.Add(1)
		go func(id primitive.ObjectID) {
			defer wg.Done()
			_, err := svc.Gallery.ToggleFeatured(context.Background(), id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case KindOf(err) == KindCapacityExceeded:
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(p.ID)
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, 7, rejected)
	orders := featuredOrders(t, svc)
	sort.Ints(orders)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, orders)
}

func TestGalleryPatchLeavesFeaturedState(t *testing.T) {
	svc := newTestServices(t, Deps{})
	ctx := context.Background()
	photos := addPhotos(t, svc, 1)
	_, err := svc.Gallery.ToggleFeatured(ctx, photos[0].ID)
	require.NoError(t, err)

	title := "Renamed"
	item, err := svc.Gallery.Update(ctx, photos[0].ID, models.GalleryPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", item.Title)
	assert.True(t, item.IsTopFive)
	assert.Equal(t, 1, item.Order)

	bad := "not-a-url"
	_, err = svc.Gallery.Update(ctx, photos[0].ID, models.GalleryPatch{URL: &bad})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGalleryByAlbum(t *testing.T) {
	svc := newTestServices(t, Deps{})
	addPhotos(t, svc, 2)
	_, err := svc.Gallery.Create(context.Background(), GalleryInput{Title: "Cup", URL: "https://x.example/cup.jpg", Album: "events"})
	require.NoError(t, err)

	items, err := svc.Gallery.ByAlbum(context.Background(), "events")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Cup", items[0].Title)
}

func TestGalleryUploadAndDelete(t *testing.T) {
	images := &mockImages{}
	hosted := "https://res.cloudinary.com/demo/image/upload/v1/gallery/abc.jpg"
	images.On("Upload", mock.Anything, mock.Anything, "abc.jpg").Return(hosted, nil).Once()
	images.On("Owns", hosted).Return(true)
	images.On("Destroy", mock.Anything, hosted).Return(nil).Once()
	svc := newTestServices(t, Deps{Images: images})
	ctx := context.Background()

	item, err := svc.Gallery.Upload(ctx, strings.NewReader("jpeg bytes"), "abc.jpg", GalleryInput{Title: "Match day", Album: "events"})
	require.NoError(t, err)
	assert.Equal(t, hosted, item.URL)

	_, err = svc.Gallery.Delete(ctx, item.ID)
	require.NoError(t, err)
	images.AssertExpectations(t)
}

func TestGalleryUploadRollsBackOnCapacity(t *testing.T) {
	images := &mockImages{}
	hosted := "https://res.cloudinary.com/demo/image/upload/v1/gallery/six.jpg"
	images.On("Upload", mock.Anything, mock.Anything, "six.jpg").Return(hosted, nil).Once()
	images.On("Owns", hosted).Return(true)
	images.On("Destroy", mock.Anything, hosted).Return(nil).Once()
	svc := newTestServices(t, Deps{Images: images})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := svc.Gallery.Create(ctx, GalleryInput{Title: "Top", URL: fmt.Sprintf("https://x.example/%d.jpg", i), IsTopFive: true})
		require.NoError(t, err)
	}

	_, err := svc.Gallery.Upload(ctx, strings.NewReader("jpeg"), "six.jpg", GalleryInput{Title: "Six", IsTopFive: true})
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	images.AssertExpectations(t)
}

func TestGalleryUploadNotConfigured(t *testing.T) {
	svc := newTestServices(t, Deps{})
	_, err := svc.Gallery.Upload(context.Background(), strings.NewReader("x"), "a.jpg", GalleryInput{Title: "A"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLowestFreeSlot(t *testing.T) {
	items := []models.GalleryItem{
		{IsTopFive: true, Order: 1},
		{IsTopFive: true, Order: 3},
		{IsTopFive: false, Order: 2},
	}
	assert.Equal(t, 2, LowestFreeSlot(items))
	assert.Equal(t, 1, LowestFreeSlot(nil))

	full := []models.GalleryItem{}
	for slot := 1; slot <= models.MaxFeatured; slot++ {
		full = append(full, models.GalleryItem{IsTopFive: true, Order: slot})
	}
	assert.Equal(t, 0, LowestFreeSlot(full))
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	models "github.com/phillip/sports-academy-go/models"
	"github.com/phillip/sports-academy-go/services"
)

const maxUploadBytes = 10 << 20

// ---------------- LIST ----------------
func ListGallery(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		items, err := svc.Gallery.List(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		respondList(c, items)
	}
}

func ListFeaturedGallery(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		items, err := svc.Gallery.ListFeatured(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		respondList(c, items)
	}
}

func ListGalleryAlbum(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		items, err := svc.Gallery.ByAlbum(ctx, c.Param("album"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondList(c, items)
	}
}

// ---------------- GET ----------------
func GetGalleryItem(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		item, err := svc.Gallery.Get(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOne(c, item)
	}
}

// ---------------- CREATE ----------------
func CreateGalleryItem(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.GalleryInput
		if !bindJSON(c, &input) {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		item, err := svc.Gallery.Create(ctx, input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// ---------------- UPLOAD ----------------
func UploadGalleryItem(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

		var input struct {
			Title     string `form:"title" binding:"required"`
			Album     string `form:"album"`
			IsTopFive bool   `form:"isTopFive"`
		}
		if err := c.ShouldBind(&input); err != nil {
			badRequest(c, err.Error())
			return
		}

		fileHeader, err := c.FormFile("image") // key must be "image"
		if err != nil {
			badRequest(c, "image file is required")
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to open file"})
			return
		}
		defer file.Close()

		ctx, cancel := contextWithTimeout(c, uploadTimeout)
		defer cancel()

		item, err := svc.Gallery.Upload(ctx, file, fileHeader.Filename, services.GalleryInput{
			Title:     input.Title,
			Album:     input.Album,
			IsTopFive: input.IsTopFive,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// ---------------- UPDATE ----------------
func UpdateGalleryItem(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var input models.GalleryPatch
		if !bindJSON(c, &input) {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		item, err := svc.Gallery.Update(ctx, id, input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// ---------------- FEATURED ORDER ----------------
func ToggleGalleryTopFive(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		item, err := svc.Gallery.ToggleFeatured(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func UpdateGalleryOrder(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		order, err := strconv.Atoi(c.Param("order"))
		if err != nil {
			badRequest(c, "Order must be between 1 and 5")
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		item, err := svc.Gallery.SetOrder(ctx, id, order)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// ---------------- DELETE ----------------
func DeleteGalleryItem(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		if _, err := svc.Gallery.Delete(ctx, id); err != nil {
			respondError(c, err)
			return
		}
		deleted(c, "Gallery item")
	}
}

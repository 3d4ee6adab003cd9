package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phillip/sports-academy-go/services"
)

type patcher[T any] interface {
	Apply(*T) error
}

// Content serves list, get, create, update and delete for a plain
// collection. The request body for create and update is the patch type;
// create applies it to an empty record.
type Content[T any, P services.Document[T], Patch patcher[T]] struct {
	svc *services.Content[T, P]
}

func NewContent[T any, P services.Document[T], Patch patcher[T]](svc *services.Content[T, P]) Content[T, P, Patch] {
	return Content[T, P, Patch]{svc: svc}
}

// ---------------- LIST ----------------
func (h Content[T, P, Patch]) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		items, err := h.svc.List(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		respondList[T, P](c, items)
	}
}

// ---------------- GET ----------------
func (h Content[T, P, Patch]) Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		item, err := h.svc.Get(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOne[T](c, item)
	}
}

// ---------------- CREATE ----------------
func (h Content[T, P, Patch]) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input Patch
		if !bindJSON(c, &input) {
			return
		}
		item := P(new(T))
		if err := input.Apply((*T)(item)); err != nil {
			badRequest(c, err.Error())
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		created, err := h.svc.Create(ctx, item)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// ---------------- UPDATE ----------------
func (h Content[T, P, Patch]) Update() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var input Patch
		if !bindJSON(c, &input) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		updated, err := h.svc.Update(ctx, id, func(item P) error { return input.Apply((*T)(item)) })
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// ---------------- DELETE ----------------
func (h Content[T, P, Patch]) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		if _, err := h.svc.Delete(ctx, id); err != nil {
			respondError(c, err)
			return
		}
		deleted(c, h.svc.Label())
	}
}

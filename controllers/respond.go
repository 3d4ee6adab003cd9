package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/sports-academy-go/logger"
	"github.com/phillip/sports-academy-go/services"
	"github.com/phillip/sports-academy-go/utils"
)

const (
	requestTimeout   = 5 * time.Second
	reconcileTimeout = time.Minute
	uploadTimeout    = 90 * time.Second
)

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return contextWithTimeout(c, requestTimeout)
}

func contextWithTimeout(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), d)
}

func statusFor(err error) int {
	switch services.KindOf(err) {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindValidation, services.KindCapacityExceeded:
		return http.StatusBadRequest
	case services.KindConflict:
		return http.StatusConflict
	case services.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes {message} with the status mapped from the error kind.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "status", status, "error", err)
	}
	c.JSON(status, gin.H{"message": err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}

// parseID reads an ObjectID path parameter, answering 400 when malformed.
func parseID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		badRequest(c, "invalid "+param)
		return primitive.NilObjectID, false
	}
	return id, true
}

// bindJSON decodes the body into dst. An empty body leaves dst untouched.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

type record[T any] interface {
	*T
	Key() primitive.ObjectID
	Modified() time.Time
}

// respondList writes items with ETag and Last-Modified taken from the most
// recently updated item, or 304 when the client already has them.
func respondList[T any, P record[T]](c *gin.Context, items []T) {
	if len(items) == 0 {
		c.JSON(http.StatusOK, []T{})
		return
	}

	latest := P(&items[0])
	for i := range items {
		if p := P(&items[i]); p.Modified().After(latest.Modified()) {
			latest = p
		}
	}

	etag := utils.GenerateListETag(latest.Key(), latest.Modified(), len(items))
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("ETag", etag)
	c.Header("Last-Modified", latest.Modified().UTC().Format(http.TimeFormat))

	c.JSON(http.StatusOK, items)
}

func respondOne[T any, P record[T]](c *gin.Context, item P) {
	etag := utils.GenerateETag(item.Key(), item.Modified())
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("ETag", etag)
	if !item.Modified().IsZero() {
		c.Header("Last-Modified", item.Modified().UTC().Format(http.TimeFormat))
	}

	c.JSON(http.StatusOK, item)
}

func deleted(c *gin.Context, label string) {
	c.JSON(http.StatusOK, gin.H{"message": label + " deleted"})
}

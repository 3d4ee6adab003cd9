package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phillip/sports-academy-go/services"
)

func GetDashboard(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		snapshot, err := svc.Dashboard.Current(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		if snapshot.ID.IsZero() {
			c.JSON(http.StatusOK, snapshot)
			return
		}
		respondOne(c, snapshot)
	}
}

func UpdateDashboard(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		snapshot, err := svc.Dashboard.ComputeSnapshot(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, snapshot)
	}
}

func FinancialOverview(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		overview, err := svc.Dashboard.FinancialOverview(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, overview)
	}
}

func RecentActivities(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		items, err := svc.Dashboard.RecentActivities(ctx, services.RecentActivityLimit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// Health pings the store.
func Health(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		if err := svc.Store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

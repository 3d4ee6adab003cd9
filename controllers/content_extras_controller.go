package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phillip/sports-academy-go/services"
)

func ListMembers(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		members, err := svc.Members.List(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		respondList(c, members)
	}
}

func ActivitiesByStatus(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		items, err := svc.Activities.ByStatus(ctx, c.Param("status"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondList(c, items)
	}
}

func DonationsTotal(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		total, err := svc.Donations.Total(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, total)
	}
}

func ExpensesTotal(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		total, err := svc.Expenses.Total(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, total)
	}
}

func ExpensesByCategory(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		breakdown, err := svc.Expenses.Breakdown(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, breakdown)
	}
}

func ExpensesInCategory(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		items, err := svc.Expenses.InCategory(ctx, c.Param("category"))
		if err != nil {
			respondError(c, err)
			return
		}
		respondList(c, items)
	}
}

func SyncHeroSlidesFromGallery(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		slides, err := svc.HeroSlides.SyncFromGallery(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, slides)
	}
}

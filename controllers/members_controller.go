package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	models "github.com/phillip/sports-academy-go/models"
	"github.com/phillip/sports-academy-go/services"
)

// ---------------- CREATE ----------------
func CreateMember(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.MemberPatch
		if !bindJSON(c, &input) {
			return
		}
		var member models.Member
		if err := input.Apply(&member); err != nil {
			badRequest(c, err.Error())
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		created, err := svc.Members.Create(ctx, &member)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// ---------------- UPDATE ----------------
func UpdateMember(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var input models.MemberPatch
		if !bindJSON(c, &input) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		updated, err := svc.Members.Update(ctx, id, input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// ---------------- DELETE ----------------
func DeleteMember(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		if _, err := svc.Members.Delete(ctx, id); err != nil {
			respondError(c, err)
			return
		}
		deleted(c, "Member")
	}
}

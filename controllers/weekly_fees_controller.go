package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	models "github.com/phillip/sports-academy-go/models"
	"github.com/phillip/sports-academy-go/services"
)

type paymentDateInput struct {
	Date   string `json:"date" binding:"required"`
	Status string `json:"status"`
}

func (in paymentDateInput) parse(c *gin.Context) (time.Time, bool) {
	d, err := models.ParseDate(in.Date)
	if err != nil {
		badRequest(c, "invalid date format, use RFC3339 or YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}

// ---------------- LIST ----------------
func ListWeeklyFees(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		ledgers, err := svc.Fees.List(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		respondList(c, ledgers)
	}
}

// ---------------- GET ----------------
func GetWeeklyFee(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		ledger, err := svc.Fees.Get(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOne(c, ledger)
	}
}

// ---------------- CREATE ----------------
func CreateWeeklyFee(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.CreateLedgerInput
		if !bindJSON(c, &input) {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		ledger, err := svc.Fees.CreateLedger(ctx, input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, ledger)
	}
}

// ---------------- BY MEMBER ----------------
func ListMemberWeeklyFees(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		memberID, ok := parseID(c, "memberId")
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		ledgers, err := svc.Fees.ForMember(ctx, memberID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondList(c, ledgers)
	}
}

// ---------------- STATS ----------------
func WeeklyFeeStats(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		stats, err := svc.Fees.Stats(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// ---------------- CYCLE STATUS ----------------
func CycleWeeklyFeeStatus(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		memberID, ok := parseID(c, "memberId")
		if !ok {
			return
		}
		var input paymentDateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, "date is required")
			return
		}
		date, ok := input.parse(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		ledger, err := svc.Fees.CycleStatus(ctx, memberID, date)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ledger)
	}
}

// ---------------- SET PAYMENT STATUS ----------------
func SetWeeklyFeePaymentStatus(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var input paymentDateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, "date and status are required")
			return
		}
		date, ok := input.parse(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		ledger, err := svc.Fees.SetPaymentStatus(ctx, id, date, input.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ledger)
	}
}

// ---------------- PAYMENTS ----------------
func AddWeeklyFeePayment(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var input models.PaymentInput
		if !bindJSON(c, &input) {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		ledger, err := svc.Fees.AddPayment(ctx, id, input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, ledger)
	}
}

func UpdateWeeklyFeePayment(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		paymentID, ok := parseID(c, "paymentId")
		if !ok {
			return
		}
		var input models.PaymentInput
		if !bindJSON(c, &input) {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		ledger, err := svc.Fees.UpdatePayment(ctx, id, paymentID, input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ledger)
	}
}

// ---------------- UPDATE ----------------
func UpdateWeeklyFee(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var input services.WeeklyFeePatch
		if !bindJSON(c, &input) {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		ledger, err := svc.Fees.UpdateLedger(ctx, id, input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ledger)
	}
}

// ---------------- DELETE ----------------
func DeleteWeeklyFee(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		if _, err := svc.Fees.DeleteLedger(ctx, id); err != nil {
			respondError(c, err)
			return
		}
		deleted(c, "Weekly fee record")
	}
}

// ---------------- RECONCILE ----------------
func ReconcileWeeklyFees(svc *services.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := contextWithTimeout(c, reconcileTimeout)
		defer cancel()

		report, err := svc.Fees.Reconcile(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

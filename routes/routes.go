package routes

import (
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	controllers "github.com/phillip/sports-academy-go/controllers"
	middleware "github.com/phillip/sports-academy-go/middleware"
	models "github.com/phillip/sports-academy-go/models"
	"github.com/phillip/sports-academy-go/services"
)

type Options struct {
	AllowOrigins []string
	// StaticDir, when set, is served under /static and its index.html answers
	// every other non-API GET.
	StaticDir string
	// RefreshOnWrite recomputes the dashboard after successful writes to
	// members, activities, donations, expenses, experiences and weekly fees.
	RefreshOnWrite bool
	// OnRefresh is passed to the refresh middleware; tests use it to wait.
	OnRefresh func()
}

// NewRouter builds the engine with recovery, access logging and CORS, then
// mounts the API.
func NewRouter(svc *services.Services, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), cors.New(corsConfig(opts.AllowOrigins)))

	index := ""
	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
		index = filepath.Join(opts.StaticDir, "index.html")
	}
	r.NoRoute(fallback(index))

	SetupRoutes(r, svc, opts)
	return r
}

// fallback answers unknown API paths with a JSON 404 and hands every other
// GET to the single-page app's index.html, when one is configured.
func fallback(index string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if index == "" || c.Request.Method != http.MethodGet || path == "/api" || strings.HasPrefix(path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"message": "route not found"})
			return
		}
		c.File(index)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "If-None-Match", middleware.RequestIDHeader},
		ExposeHeaders: []string{"ETag", "Last-Modified", middleware.RequestIDHeader},
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func SetupRoutes(r *gin.Engine, svc *services.Services, opts Options) {
	api := r.Group("/api")
	api.GET("/health", controllers.Health(svc))

	// writes to these groups feed the dashboard
	var feeds []gin.HandlerFunc
	if opts.RefreshOnWrite {
		feeds = append(feeds, middleware.RefreshDashboard(svc.Dashboard, opts.OnRefresh))
	}

	members := api.Group("/members", feeds...)
	{
		crud := controllers.NewContent[models.Member, *models.Member, models.MemberPatch](svc.Members.Content)
		members.GET("", controllers.ListMembers(svc))
		members.GET("/:id", crud.Get())
		members.POST("", controllers.CreateMember(svc))
		members.PATCH("/:id", controllers.UpdateMember(svc))
		members.DELETE("/:id", controllers.DeleteMember(svc))
	}

	activities := api.Group("/activities", feeds...)
	{
		crud := controllers.NewContent[models.Activity, *models.Activity, models.ActivityPatch](svc.Activities.Content)
		activities.GET("", crud.List())
		activities.GET("/status/:status", controllers.ActivitiesByStatus(svc))
		activities.GET("/:id", crud.Get())
		activities.POST("", crud.Create())
		activities.PATCH("/:id", crud.Update())
		activities.DELETE("/:id", crud.Delete())
	}

	donations := api.Group("/donations", feeds...)
	{
		crud := controllers.NewContent[models.Donation, *models.Donation, models.DonationPatch](svc.Donations.Content)
		donations.GET("", crud.List())
		donations.GET("/total", controllers.DonationsTotal(svc))
		donations.GET("/:id", crud.Get())
		donations.POST("", crud.Create())
		donations.PATCH("/:id", crud.Update())
		donations.DELETE("/:id", crud.Delete())
	}

	expenses := api.Group("/expenses", feeds...)
	{
		crud := controllers.NewContent[models.Expense, *models.Expense, models.ExpensePatch](svc.Expenses.Content)
		expenses.GET("", crud.List())
		expenses.GET("/total", controllers.ExpensesTotal(svc))
		expenses.GET("/category", controllers.ExpensesByCategory(svc))
		expenses.GET("/category/:category", controllers.ExpensesInCategory(svc))
		expenses.GET("/:id", crud.Get())
		expenses.POST("", crud.Create())
		expenses.PATCH("/:id", crud.Update())
		expenses.DELETE("/:id", crud.Delete())
	}

	experiences := api.Group("/experiences", feeds...)
	{
		crud := controllers.NewContent[models.Experience, *models.Experience, models.ExperiencePatch](svc.Experiences.Content)
		experiences.GET("", crud.List())
		experiences.GET("/:id", crud.Get())
		experiences.POST("", crud.Create())
		experiences.PATCH("/:id", crud.Update())
		experiences.DELETE("/:id", crud.Delete())
	}

	weeklyFees := api.Group("/weekly-fees", feeds...)
	{
		weeklyFees.GET("", controllers.ListWeeklyFees(svc))
		weeklyFees.GET("/stats", controllers.WeeklyFeeStats(svc))
		weeklyFees.GET("/member/:memberId", controllers.ListMemberWeeklyFees(svc))
		weeklyFees.PATCH("/member/:memberId/cycle", controllers.CycleWeeklyFeeStatus(svc))
		weeklyFees.POST("/reconcile", controllers.ReconcileWeeklyFees(svc))
		weeklyFees.GET("/:id", controllers.GetWeeklyFee(svc))
		weeklyFees.POST("", controllers.CreateWeeklyFee(svc))
		weeklyFees.PATCH("/:id", controllers.UpdateWeeklyFee(svc))
		weeklyFees.PATCH("/:id/payment-status", controllers.SetWeeklyFeePaymentStatus(svc))
		weeklyFees.POST("/:id/payments", controllers.AddWeeklyFeePayment(svc))
		weeklyFees.PATCH("/:id/payments/:paymentId", controllers.UpdateWeeklyFeePayment(svc))
		weeklyFees.DELETE("/:id", controllers.DeleteWeeklyFee(svc))
	}

	gallery := api.Group("/gallery")
	{
		gallery.GET("", controllers.ListGallery(svc))
		gallery.GET("/top-five", controllers.ListFeaturedGallery(svc))
		gallery.GET("/album/:album", controllers.ListGalleryAlbum(svc))
		gallery.GET("/:id", controllers.GetGalleryItem(svc))
		gallery.POST("", controllers.CreateGalleryItem(svc))
		gallery.POST("/upload", controllers.UploadGalleryItem(svc))
		gallery.PATCH("/:id", controllers.UpdateGalleryItem(svc))
		gallery.PATCH("/:id/toggle-top-five", controllers.ToggleGalleryTopFive(svc))
		gallery.PATCH("/:id/update-order/:order", controllers.UpdateGalleryOrder(svc))
		gallery.DELETE("/:id", controllers.DeleteGalleryItem(svc))
	}

	heroSlides := api.Group("/hero-slides")
	{
		crud := controllers.NewContent[models.HeroSlide, *models.HeroSlide, models.HeroSlidePatch](svc.HeroSlides.Content)
		heroSlides.GET("", crud.List())
		heroSlides.GET("/:id", crud.Get())
		heroSlides.POST("", crud.Create())
		heroSlides.POST("/sync-from-gallery", controllers.SyncHeroSlidesFromGallery(svc))
		heroSlides.PATCH("/:id", crud.Update())
		heroSlides.DELETE("/:id", crud.Delete())
	}

	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("", controllers.GetDashboard(svc))
		dashboard.POST("/update", controllers.UpdateDashboard(svc))
		dashboard.GET("/financial-overview", controllers.FinancialOverview(svc))
		dashboard.GET("/recent-activities", controllers.RecentActivities(svc))
	}
}

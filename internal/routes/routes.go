package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-site/internal/audit"
	"github.com/BruksfildServices01/barbershop-site/internal/cache"
	"github.com/BruksfildServices01/barbershop-site/internal/config"
	"github.com/BruksfildServices01/barbershop-site/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barbershop-site/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-site/internal/media"
	"github.com/BruksfildServices01/barbershop-site/internal/middleware"
	"github.com/BruksfildServices01/barbershop-site/internal/notification"
	"github.com/BruksfildServices01/barbershop-site/internal/session"
	ucAppointment "github.com/BruksfildServices01/barbershop-site/internal/usecase/appointment"
	ucBarber "github.com/BruksfildServices01/barbershop-site/internal/usecase/barber"
	ucReview "github.com/BruksfildServices01/barbershop-site/internal/usecase/review"
	"github.com/BruksfildServices01/barbershop-site/internal/validators"
	"github.com/BruksfildServices01/barbershop-site/internal/web"
)

const bookedTimesTTL = 30 * time.Second

// Deps are the process-wide singletons the routes are built from. Cache may
// be nil; Images may be nil to disable barber photos.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Logger   *slog.Logger
	Cache    *cache.Client
	Images   *media.Images
	Notifier notification.Notifier
	Audit    *audit.Dispatcher
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	cfg := deps.Config
	logger := deps.Logger

	// ======================================================
	// VIEWS
	// ======================================================
	r.SetHTMLTemplate(web.MustTemplates())
	r.StaticFS("/static", web.Static())
	if cfg.MediaDriver == "" || cfg.MediaDriver == "local" {
		r.Static("/uploads", cfg.UploadDir)
	}

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	r.Use(sessions.Middleware())

	view := handlers.NewView(cfg.ShopName, logger)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(deps.DB, cfg.StoreTimeout)
	barberRepo := infraRepo.NewBarberGormRepository(deps.DB, cfg.StoreTimeout)
	reviewRepo := infraRepo.NewReviewGormRepository(deps.DB, cfg.StoreTimeout)
	adminRepo := infraRepo.NewAdminGormRepository(deps.DB, cfg.StoreTimeout)

	var bookedTimes ucAppointment.BookedTimesCache
	if deps.Cache != nil {
		bookedTimes = cache.NewBookedTimes(deps.Cache, bookedTimesTTL)
	}

	var images ucBarber.ImageStore
	if deps.Images != nil {
		images = deps.Images
	}

	validate := validators.New()

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	submitBookingUC := ucAppointment.NewSubmitBooking(appointmentRepo, barberRepo, deps.Notifier, deps.Audit)
	listBookedTimesUC := ucAppointment.NewListBookedTimes(appointmentRepo, bookedTimes)

	confirmUC := ucAppointment.NewConfirmAppointment(
		appointmentRepo,
		barberRepo,
		deps.Notifier,
		bookedTimes,
		deps.Audit,
		cfg.Timezone,
	)

	cancelUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		barberRepo,
		deps.Notifier,
		bookedTimes,
		deps.Audit,
		cfg.Timezone,
		cfg.DeletionDelay,
	)

	completeUC := ucAppointment.NewCompleteAppointment(appointmentRepo, bookedTimes, deps.Audit, cfg.Timezone)
	deleteUC := ucAppointment.NewDeleteAppointment(appointmentRepo, bookedTimes, deps.Audit)
	editUC := ucAppointment.NewEditAppointment(appointmentRepo, barberRepo, bookedTimes, deps.Audit)

	// ======================================================
	// USE CASES: BARBERS & REVIEWS
	// ======================================================
	listBarbersUC := ucBarber.NewListBarbers(barberRepo)
	createBarberUC := ucBarber.NewCreateBarber(barberRepo, images, validate, deps.Audit)
	deleteBarberUC := ucBarber.NewDeleteBarber(barberRepo, images, deps.Audit)
	setAvailabilityUC := ucBarber.NewSetAvailability(barberRepo, deps.Audit)

	listReviewsUC := ucReview.NewListReviews(reviewRepo)
	submitReviewUC := ucReview.NewSubmitReview(reviewRepo, validate)
	moderateReviewUC := ucReview.NewModerateReview(reviewRepo, deps.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	publicWebHandler := handlers.NewPublicWebHandler(view, logger, cfg.Timezone, handlers.PublicWebDeps{
		Barbers:      listBarbersUC,
		Reviews:      listReviewsUC,
		SubmitReview: submitReviewUC,
		Submit:       submitBookingUC,
		BookedTimes:  listBookedTimesUC,
	})

	publicHandler := handlers.NewPublicHandler(listBarbersUC, listReviewsUC, logger)
	authHandler := handlers.NewAuthHandler(adminRepo, view, deps.Audit, logger)

	adminHandler := handlers.NewAdminHandler(view, logger, handlers.AdminDeps{
		List:     ucAppointment.NewListAppointments(appointmentRepo, barberRepo),
		Stats:    ucAppointment.NewGetDashboardStats(appointmentRepo, reviewRepo),
		Get:      ucAppointment.NewGetAppointment(appointmentRepo),
		Confirm:  confirmUC,
		Cancel:   cancelUC,
		Complete: completeUC,
		Delete:   deleteUC,
		Edit:     editUC,
		Barbers:  listBarbersUC,
		Reviews:  listReviewsUC,
	})

	catalogHandler := handlers.NewCatalogHandler(
		logger,
		createBarberUC,
		deleteBarberUC,
		setAvailabilityUC,
		moderateReviewUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB)

	limiter := middleware.NewRateLimiter(deps.Cache.Redis(), cfg.RateLimit, cfg.RateWindow, "rl", logger)

	// ======================================================
	// WEB (HTML)
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/", publicWebHandler.Home)
	r.POST("/reviews", limiter.Middleware(), publicWebHandler.SubmitReview)

	booking := r.Group("/booking")
	{
		booking.GET("", publicWebHandler.BookingForm)
		booking.POST("", limiter.Middleware(), publicWebHandler.SubmitBooking)
		booking.GET("/success", publicWebHandler.BookingSuccess)
		booking.GET("/booked-times/:barberId/:date", publicWebHandler.BookedTimes)
	}

	// ======================================================
	// ADMIN
	// ======================================================
	r.GET("/admin/login", authHandler.LoginPage)
	r.POST("/admin/login", authHandler.Login)
	r.GET("/admin/logout", authHandler.Logout)

	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/dashboard", adminHandler.Dashboard)

		admin.POST("/appointments/:id/confirm", adminHandler.Confirm)
		admin.POST("/appointments/:id/cancel", adminHandler.Cancel)
		admin.POST("/appointments/:id/complete", adminHandler.Complete)
		admin.POST("/appointments/:id/delete", adminHandler.Delete)
		admin.GET("/appointments/:id/edit", adminHandler.EditPage)
		admin.POST("/appointments/:id/edit", adminHandler.SaveEdit)

		admin.POST("/reviews/:id/approve", catalogHandler.ApproveReview)
		admin.POST("/reviews/:id/delete", catalogHandler.DeleteReview)

		admin.POST("/barbers", catalogHandler.CreateBarber)
		admin.POST("/barbers/:id/delete", catalogHandler.DeleteBarber)
		admin.POST("/barbers/:id/availability", catalogHandler.SetAvailability)

		admin.GET("/audit-logs", auditLogsHandler.List)
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	{
		api.GET("/barbers", publicHandler.ListBarbers)
		api.GET("/reviews", publicHandler.ListReviews)

		// Preflight requests are answered by the CORS middleware.
		api.OPTIONS("/*path", func(c *gin.Context) {})
	}

	r.NoRoute(view.NotFound)
}

// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tradenet/portal-backend/internal/config"
	"github.com/tradenet/portal-backend/internal/handlers"
	"github.com/tradenet/portal-backend/internal/matching"
	"github.com/tradenet/portal-backend/internal/middleware"
	"github.com/tradenet/portal-backend/internal/services"
	"github.com/tradenet/portal-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)
	paymentService := services.NewPaymentService(db, cfg)

	matcher := matching.NewMatcher(matching.NewGormStore(db), notificationService)

	authService := services.NewAuthService(db, cfg, notificationService)
	userService := services.NewUserService(db)
	wishOfferService := services.NewWishOfferService(db, matcher, notificationService)
	taxonomyService := services.NewTaxonomyService(db)
	eventService := services.NewEventService(db, paymentService, notificationService)
	jobService := services.NewJobService(db, storageService, notificationService)
	clinicService := services.NewClinicService(db, storageService, notificationService)
	standardService := services.NewStandardService(db)
	pollService := services.NewPollService(db)
	adminService := services.NewAdminService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	wishOfferHandler := handlers.NewWishOfferHandler(wishOfferService)
	taxonomyHandler := handlers.NewTaxonomyHandler(taxonomyService)
	eventHandler := handlers.NewEventHandler(eventService)
	jobHandler := handlers.NewJobHandler(jobService)
	clinicHandler := handlers.NewClinicHandler(clinicService)
	standardHandler := handlers.NewStandardHandler(standardService)
	pollHandler := handlers.NewPollHandler(pollService)
	adminHandler := handlers.NewAdminHandler(adminService, userService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// User routes
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.GET("/profile", userHandler.GetProfile)
			users.PUT("/profile", userHandler.UpdateProfile)
			users.PUT("/password", userHandler.ChangePassword)
		}

		// Wish routes
		wishes := v1.Group("/wishes")
		{
			wishes.GET("", wishOfferHandler.ListWishes)
			wishes.GET("/:id", wishOfferHandler.GetWish)
			wishes.POST("", middleware.OptionalAuth(), middleware.SubmitRateLimit(), wishOfferHandler.CreateWish)
			wishes.PUT("/:id", middleware.AuthRequired(), wishOfferHandler.UpdateWish)
			wishes.DELETE("/:id", middleware.AuthRequired(), wishOfferHandler.DeleteWish)
			wishes.PUT("/:id/status", middleware.AuthRequired(), middleware.StaffRequired(), wishOfferHandler.SetWishStatus)
			wishes.GET("/:id/matches", middleware.AuthRequired(), middleware.StaffRequired(), wishOfferHandler.GetWishCandidates)
		}

		// Offer routes
		offers := v1.Group("/offers")
		{
			offers.GET("", wishOfferHandler.ListOffers)
			offers.GET("/:id", wishOfferHandler.GetOffer)
			offers.POST("", middleware.OptionalAuth(), middleware.SubmitRateLimit(), wishOfferHandler.CreateOffer)
			offers.PUT("/:id", middleware.AuthRequired(), wishOfferHandler.UpdateOffer)
			offers.DELETE("/:id", middleware.AuthRequired(), wishOfferHandler.DeleteOffer)
			offers.PUT("/:id/status", middleware.AuthRequired(), middleware.StaffRequired(), wishOfferHandler.SetOfferStatus)
			offers.GET("/:id/matches", middleware.AuthRequired(), middleware.StaffRequired(), wishOfferHandler.GetOfferCandidates)
		}

		// Match routes
		matches := v1.Group("/matches")
		{
			matches.GET("", middleware.AuthRequired(), middleware.StaffRequired(), wishOfferHandler.ListMatches)
			matches.GET("/mine", middleware.AuthRequired(), wishOfferHandler.ListMyMatches)
		}

		// Taxonomy routes
		hsCodes := v1.Group("/hs-codes")
		{
			hsCodes.GET("", taxonomyHandler.ListHSCodes)
			hsCodes.GET("/:code", taxonomyHandler.GetHSCode)
			hsCodes.POST("/import", middleware.AuthRequired(), middleware.AdminRequired(), middleware.UploadRateLimit(), taxonomyHandler.ImportHSCodes)
		}
		v1.GET("/products", taxonomyHandler.ListProducts)
		v1.POST("/products", middleware.AuthRequired(), middleware.StaffRequired(), taxonomyHandler.CreateProduct)
		v1.GET("/services", taxonomyHandler.ListServices)
		v1.POST("/services", middleware.AuthRequired(), middleware.StaffRequired(), taxonomyHandler.CreateService)
		v1.GET("/categories", taxonomyHandler.ListCategories)
		v1.POST("/categories", middleware.AuthRequired(), middleware.StaffRequired(), taxonomyHandler.CreateCategory)

		// Event routes
		events := v1.Group("/events")
		{
			events.GET("", eventHandler.ListEvents)
			events.GET("/:id", eventHandler.GetEvent)
			events.POST("", middleware.AuthRequired(), middleware.StaffRequired(), eventHandler.CreateEvent)
			events.PUT("/:id", middleware.AuthRequired(), middleware.StaffRequired(), eventHandler.UpdateEvent)
			events.POST("/:id/publish", middleware.AuthRequired(), middleware.StaffRequired(), eventHandler.PublishEvent)
			events.POST("/:id/cancel", middleware.AuthRequired(), middleware.StaffRequired(), eventHandler.CancelEvent)
			events.POST("/:id/register", middleware.OptionalAuth(), middleware.SubmitRateLimit(), eventHandler.Register)
			events.GET("/:id/registrations", middleware.AuthRequired(), middleware.StaffRequired(), eventHandler.ListRegistrations)
			events.POST("/registrations/:id/confirm-payment", eventHandler.ConfirmPayment)
			events.DELETE("/registrations/:id", middleware.AuthRequired(), eventHandler.CancelRegistration)
		}

		// Job board routes
		jobs := v1.Group("/jobs")
		{
			jobs.GET("", jobHandler.ListJobPosts)
			jobs.GET("/:id", jobHandler.GetJobPost)
			jobs.POST("", middleware.AuthRequired(), jobHandler.CreateJobPost)
			jobs.PUT("/:id", middleware.AuthRequired(), jobHandler.UpdateJobPost)
			jobs.DELETE("/:id", middleware.AuthRequired(), jobHandler.DeleteJobPost)
			jobs.POST("/:id/apply", middleware.OptionalAuth(), middleware.UploadRateLimit(), jobHandler.Apply)
			jobs.GET("/:id/applications", middleware.AuthRequired(), jobHandler.ListApplications)
			jobs.PUT("/applications/:id/status", middleware.AuthRequired(), jobHandler.SetApplicationStatus)
		}

		// Business clinic routes
		clinic := v1.Group("/clinic")
		{
			clinic.POST("/cases", middleware.OptionalAuth(), middleware.UploadRateLimit(), clinicHandler.SubmitCase)
			clinic.GET("/cases", middleware.AuthRequired(), middleware.StaffRequired(), clinicHandler.ListCases)
			clinic.GET("/cases/:id", middleware.AuthRequired(), middleware.StaffRequired(), clinicHandler.GetCase)
			clinic.PUT("/cases/:id/assign", middleware.AuthRequired(), middleware.StaffRequired(), clinicHandler.AssignCase)
			clinic.PUT("/cases/:id/resolve", middleware.AuthRequired(), middleware.StaffRequired(), clinicHandler.ResolveCase)
			clinic.PUT("/cases/:id/close", middleware.AuthRequired(), middleware.StaffRequired(), clinicHandler.CloseCase)
		}

		// Quality standard routes
		standards := v1.Group("/standards")
		{
			standards.GET("/criteria", standardHandler.ListCriteria)
			standards.POST("/criteria", middleware.AuthRequired(), middleware.AdminRequired(), standardHandler.CreateCriterion)
			standards.PUT("/criteria/:id", middleware.AuthRequired(), middleware.AdminRequired(), standardHandler.UpdateCriterion)
			standards.POST("/assessments", middleware.AuthRequired(), middleware.StaffRequired(), standardHandler.CreateAssessment)
			standards.GET("/assessments", middleware.AuthRequired(), middleware.StaffRequired(), standardHandler.ListAssessments)
			standards.GET("/assessments/:id", middleware.AuthRequired(), middleware.StaffRequired(), standardHandler.GetAssessment)
		}

		// Poll routes
		polls := v1.Group("/polls")
		{
			polls.GET("", pollHandler.ListPolls)
			polls.GET("/:id", pollHandler.GetPoll)
			polls.GET("/:id/results", pollHandler.Results)
			polls.POST("", middleware.AuthRequired(), middleware.StaffRequired(), pollHandler.CreatePoll)
			polls.POST("/:id/open", middleware.AuthRequired(), middleware.StaffRequired(), pollHandler.OpenPoll)
			polls.POST("/:id/close", middleware.AuthRequired(), middleware.StaffRequired(), pollHandler.ClosePoll)
			polls.POST("/:id/vote", middleware.AuthRequired(), pollHandler.Vote)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)
			admin.GET("/moderation-queue", adminHandler.GetModerationQueue)
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/status", adminHandler.SetUserStatus)
			admin.GET("/notifications", adminHandler.ListNotifications)
			admin.PUT("/notifications/:id/read", adminHandler.MarkNotificationRead)
			admin.GET("/audit-logs", adminHandler.ListAuditLogs)
		}
	}

	return r
}

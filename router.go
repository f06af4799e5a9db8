package main

import (
	"myarc/handler"
	"myarc/logger"
	"myarc/middleware"
	"myarc/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// app holds everything the router hands to handlers.
type app struct {
	log          *logger.Logger
	maxBodyBytes int64
	corsOrigins  []string

	tokens  middleware.TokenParser
	revoked middleware.RevocationChecker

	users      *usecase.UserService
	entries    *usecase.EntryService
	search     *usecase.SearchService
	shorts     *usecase.ShortService
	categories *usecase.CategoryService
	stats      *handler.StatsHandler
	storage    handler.ObjectStore
	health     *handler.HealthHandler
}

func setupRouter(a *app) *gin.Engine {
	router := gin.New()

	router.Use(middleware.EnhancedRecoveryMiddleware(a.log))
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.RequestLogger(a.log))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(a.corsOrigins))
	router.Use(middleware.RequestSizeLimiter(a.maxBodyBytes))

	router.GET("/health", a.health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", func(c *gin.Context) {
				handler.RegistrationHandler(c, a.users)
			})
			auth.POST("/login", func(c *gin.Context) {
				handler.LoginHandler(c, a.users)
			})
		}
	}

	// Protected routes (authentication required)
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(a.tokens, a.revoked))
	protected.Use(middleware.NoStoreMiddleware())
	{
		auth := protected.Group("/auth")
		{
			auth.POST("/logout", func(c *gin.Context) {
				handler.LogoutHandler(c, a.users)
			})
			auth.POST("/verify-pin", func(c *gin.Context) {
				handler.VerifyPINHandler(c, a.users)
			})
		}

		user := protected.Group("/user")
		{
			user.GET("/profile", func(c *gin.Context) {
				handler.GetUserProfileHandler(c, a.users)
			})
			user.PATCH("/profile", func(c *gin.Context) {
				handler.UpdateUserProfileHandler(c, a.users)
			})
			user.PUT("/pin", func(c *gin.Context) {
				handler.SetPINHandler(c, a.users)
			})
			user.GET("/momentum", a.stats.GetMomentum)
		}

		entries := protected.Group("/entries")
		{
			entries.GET("", func(c *gin.Context) {
				handler.SearchEntriesHandler(c, a.search)
			})
			entries.POST("", func(c *gin.Context) {
				handler.CreateEntryHandler(c, a.entries)
			})
			entries.GET("/tags", func(c *gin.Context) {
				handler.GetTagsHandler(c, a.entries)
			})
			entries.GET("/prompt", func(c *gin.Context) {
				handler.GetReflectionPromptHandler(c, a.entries)
			})
			entries.DELETE("/:id", func(c *gin.Context) {
				handler.DeleteEntryHandler(c, a.entries)
			})
		}

		protected.GET("/daily-arc", a.stats.GetDailyArc)

		shorts := protected.Group("/shorts")
		{
			shorts.GET("", func(c *gin.Context) {
				handler.GetShortsHandler(c, a.shorts)
			})
			shorts.POST("", func(c *gin.Context) {
				handler.CreateShortHandler(c, a.shorts)
			})
			shorts.GET("/categories", func(c *gin.Context) {
				handler.GetCategoriesHandler(c, a.categories)
			})
			shorts.POST("/categories", func(c *gin.Context) {
				handler.AddCategoryHandler(c, a.categories)
			})
			shorts.DELETE("/categories", func(c *gin.Context) {
				handler.RemoveCategoryHandler(c, a.categories)
			})
			shorts.PUT("/:id", func(c *gin.Context) {
				handler.UpdateShortHandler(c, a.shorts)
			})
			shorts.DELETE("/:id", func(c *gin.Context) {
				handler.DeleteShortHandler(c, a.shorts)
			})
		}

		uploads := protected.Group("/uploads")
		{
			uploads.POST("/presign", func(c *gin.Context) {
				handler.PresignUploadHandler(c, a.storage)
			})
			uploads.DELETE("", func(c *gin.Context) {
				handler.DeleteUploadHandler(c, a.storage)
			})
		}
	}

	return router
}

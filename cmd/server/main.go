package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/roomkit/roombook/internal/audit"
	"github.com/roomkit/roombook/internal/broker"
	"github.com/roomkit/roombook/internal/config"
	"github.com/roomkit/roombook/internal/database"
	"github.com/roomkit/roombook/internal/handler"
	"github.com/roomkit/roombook/internal/middleware"
	"github.com/roomkit/roombook/internal/oauth"
	"github.com/roomkit/roombook/internal/repository"
	"github.com/roomkit/roombook/internal/service"
	"github.com/roomkit/roombook/internal/session"
	"github.com/roomkit/roombook/pkg/logger"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	// Append-only moderation audit trail
	auditLog, err := audit.Open(cfg.AuditLogPath)
	if err != nil {
		log.Fatalf("Failed to open audit log: %v", err)
	}
	defer auditLog.Close()

	// Redis backs rate limiting, token revocation and the live feed
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	eventBroker, err := broker.NewRedisBroker(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize event broker: %v", err)
	}
	defer eventBroker.Close()

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	roomRepo := repository.NewRoomRepository(database.DB)
	eventRepo := repository.NewEventRepository(database.DB)

	// Services
	revoker := session.NewRevoker(redisClient)
	authService := service.NewAuthService(userRepo, revoker, cfg.JWTSecret, cfg.JWTExpiry, cfg.Environment)
	moderationService := service.NewModerationService(userRepo, auditLog)
	roomService := service.NewRoomService(roomRepo)
	eventService := service.NewEventService(eventRepo, roomRepo, eventBroker, cfg.ExclusiveBookings)

	// Handlers
	cookies := session.NewCookieManager(cfg.CookieName, cfg.IsProduction())
	google := oauth.NewGoogleClient(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.AppBaseURL)

	authHandler := handler.NewAuthHandler(authService, cookies)
	oauthHandler := handler.NewOAuthHandler(google, authService, cookies)
	roomHandler := handler.NewRoomHandler(roomService)
	eventHandler := handler.NewEventHandler(eventService)
	adminHandler := handler.NewAdminHandler(moderationService, eventService)
	liveHandler := handler.NewLiveHandler(eventBroker)
	go liveHandler.Run()

	rateLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
		BlockTime:   cfg.RateLimitBlockTime,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AppBaseURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(cfg.IsProduction()))
	router.Use(middleware.Authenticate(authService, cookies))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.Use(rateLimiter.Middleware())
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authHandler.Me)
			auth.GET("/google", oauthHandler.Begin)
			auth.GET("/google/callback", oauthHandler.Callback)
		}

		api.GET("/rooms", roomHandler.List)
		api.POST("/rooms", middleware.RequireAdmin(), roomHandler.Create)
		api.GET("/events", eventHandler.List)

		user := api.Group("")
		user.Use(middleware.RequireUser())
		{
			user.POST("/events", eventHandler.Create)
			user.PATCH("/events/:id", eventHandler.Update)
			user.DELETE("/events/:id", eventHandler.Delete)
			user.GET("/ws", liveHandler.Serve)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users/:id/approve", adminHandler.ApproveUser)
			admin.POST("/users/:id/reject", adminHandler.RejectUser)
			admin.POST("/users/:id/soft-delete", adminHandler.SoftDeleteUser)
			admin.POST("/users/:id/restore", adminHandler.RestoreUser)

			admin.GET("/events", adminHandler.ListEvents)
			admin.POST("/events/:id/cancel", adminHandler.CancelEvent)
			admin.POST("/events/:id/restore", adminHandler.RestoreEvent)
			admin.DELETE("/events/:id", adminHandler.DeleteEvent)
		}
	}

	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

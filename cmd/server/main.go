package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"escort-directory/internal/admin"
	"escort-directory/internal/agency"
	"escort-directory/internal/auth"
	"escort-directory/internal/billing"
	"escort-directory/internal/config"
	"escort-directory/internal/database"
	"escort-directory/internal/directory"
	"escort-directory/internal/editor"
	"escort-directory/internal/media"
	"escort-directory/internal/messaging"
	"escort-directory/internal/presence"
	"escort-directory/internal/profiles"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file in development
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found")
		}
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()

	redis, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redis.Close()

	minioClient, err := database.NewMinIOConnection(cfg.MinIO)
	if err != nil {
		log.Fatal("Failed to connect to MinIO:", err)
	}

	// Initialize services
	jwtService := auth.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenDuration,
		cfg.JWT.RefreshTokenDuration,
	)
	sessionStore := auth.NewSessionStore(redis)
	attemptLimiter := auth.NewAttemptLimiter(redis)

	profileService := profiles.NewService(db)
	billingService := billing.NewService(db)
	presenceTracker := presence.NewTracker(redis)
	messageService := messaging.NewService(db)

	storage := media.NewService(minioClient,
		cfg.MinIO.BucketPhotos, cfg.MinIO.BucketVideos, cfg.MinIO.BucketThumbs)
	thumbnails := media.NewThumbnailService(minioClient,
		cfg.MinIO.BucketThumbs, cfg.MinIO.BucketPhotos)
	validator := media.NewValidator(cfg.Media)
	quotas := media.NewQuotaCalculator(cfg.Billing.Tiers)

	agencyService := agency.NewService(db, profileService, billingService)
	adminService := admin.NewService(db, profileService)

	// Checkout provider selection
	var checkoutProvider billing.CheckoutProvider
	if cfg.Billing.CheckoutProvider == "stripe" && cfg.Billing.CheckoutAPIKey != "" {
		checkoutProvider = billing.NewStripeProvider(cfg.Billing.CheckoutAPIKey, cfg.Billing.PortalBaseURL)
		log.Println("Using Stripe checkout provider")
	} else {
		checkoutProvider = billing.NewMockCheckoutProvider(cfg.Billing.PortalBaseURL)
		log.Println("Using mock checkout provider (development mode)")
	}

	// Chat hub and editor session sweeper
	hub := messaging.NewHub(presenceTracker)
	go hub.Run()

	sessions := editor.NewManager(30 * time.Minute)
	stopSweeper := make(chan struct{})
	go sessions.Run(stopSweeper)

	// Flip users offline once their heartbeat lapses.
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := presenceTracker.CleanupInactive(context.Background(), 5*time.Minute); err != nil {
					log.Printf("Presence cleanup failed: %v", err)
				}
			case <-stopSweeper:
				return
			}
		}
	}()

	// Initialize handlers
	authHandler := auth.NewAuthHandler(db, jwtService, sessionStore, attemptLimiter)
	profileHandler := profiles.NewHandler(db)
	directoryHandler := directory.NewHandler(db, cfg.Media.PageSize)
	mediaHandler := media.NewHandler(db, storage, thumbnails, validator, quotas, billingService)
	editorHandler := editor.NewHandler(db, storage, sessions)
	messagingHandler := messaging.NewHandler(messageService, hub)
	billingHandler := billing.NewHandler(db, checkoutProvider)
	agencyHandler := agency.NewHandler(agencyService)
	adminHandler := admin.NewHandler(adminService)
	presenceHandler := presence.NewHandler(presenceTracker, profileService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Escort Directory",
		ServerHeader: "Directory",
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    int(cfg.Media.MaxVideoSize) + 1024*1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		if err := db.Ping(); err != nil {
			return c.Status(503).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  "Database connection failed",
			})
		}

		if err := redis.Ping(context.Background()).Err(); err != nil {
			return c.Status(503).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  "Redis connection failed",
			})
		}

		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": cfg.App.Version,
			"uptime":  time.Since(startTime).String(),
			"services": fiber.Map{
				"postgres": "connected",
				"redis":    "connected",
				"minio":    "connected",
			},
		})
	})

	// API routes
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register",
		auth.RateLimitMiddleware(attemptLimiter, 5, time.Hour), authHandler.Register)
	authGroup.Post("/login",
		auth.RateLimitMiddleware(attemptLimiter, 20, time.Hour), authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)

	// Public directory
	api.Get("/directory", directoryHandler.Browse)
	api.Get("/directory/:id", directoryHandler.GetProfile)

	// Protected routes
	protected := api.Group("/", auth.AuthMiddleware(jwtService))
	protected.Post("/auth/logout", authHandler.Logout)

	// Profile routes
	profileGroup := protected.Group("/profiles")
	profileGroup.Get("/me", profileHandler.GetMe)
	profileGroup.Put("/me", profileHandler.UpdateMe)
	profileGroup.Put("/:id",
		auth.RequireRole(profiles.RoleEscort, profiles.RoleAgency, profiles.RoleAdmin),
		profileHandler.UpdateEscort)
	profileGroup.Post("/me/deactivate", profileHandler.Deactivate)
	profileGroup.Post("/me/reactivate", profileHandler.Reactivate)

	// Media routes
	mediaGroup := protected.Group("/media",
		auth.RequireRole(profiles.RoleEscort, profiles.RoleAgency, profiles.RoleAdmin))
	mediaGroup.Get("/usage", mediaHandler.GetMyUsage)
	mediaGroup.Post("/profile-picture", mediaHandler.UploadProfilePicture)
	mediaGroup.Post("/gallery/photos", mediaHandler.UploadGalleryPhoto)
	mediaGroup.Post("/gallery/videos", mediaHandler.UploadGalleryVideo)
	mediaGroup.Delete("/gallery/photos", mediaHandler.DeleteGalleryPhoto)
	mediaGroup.Delete("/gallery/videos", mediaHandler.DeleteGalleryVideo)

	// Photo editor routes
	editorGroup := protected.Group("/editor",
		auth.RequireRole(profiles.RoleEscort, profiles.RoleAgency, profiles.RoleAdmin))
	editorGroup.Post("/sessions", editorHandler.Open)
	editorGroup.Post("/sessions/:id/strokes", editorHandler.Stroke)
	editorGroup.Post("/sessions/:id/undo", editorHandler.Undo)
	editorGroup.Post("/sessions/:id/redo", editorHandler.Redo)
	editorGroup.Post("/sessions/:id/save", editorHandler.Save)
	editorGroup.Delete("/sessions/:id", editorHandler.Cancel)

	// Messaging routes
	chatGroup := protected.Group("/chat")
	chatGroup.Get("/conversations", messagingHandler.ListConversations)
	chatGroup.Post("/conversations", messagingHandler.StartConversation)
	chatGroup.Get("/conversations/:id/messages", messagingHandler.ListMessages)
	chatGroup.Post("/conversations/:id/read", messagingHandler.MarkRead)

	// Presence routes
	protected.Post("/presence/heartbeat", presenceHandler.Heartbeat)
	protected.Get("/presence/:id", presenceHandler.OnlineStatus)

	// WebSocket endpoint for live chat
	app.Use("/ws", auth.WebSocketAuthMiddleware(jwtService), messaging.UpgradeMiddleware)
	app.Get("/ws/chat", messagingHandler.WebSocketHandler())

	// Billing routes
	billingGroup := protected.Group("/billing")
	billingGroup.Post("/checkout", billingHandler.CreateCheckout)
	billingGroup.Post("/agency-checkout",
		auth.RequireRole(profiles.RoleAgency), billingHandler.CreateAgencySubscription)
	billingGroup.Get("/subscription", billingHandler.CheckSubscription)
	billingGroup.Get("/portal", billingHandler.CustomerPortal)
	billingGroup.Delete("/subscription", billingHandler.CancelSubscription)
	billingGroup.Post("/confirm", billingHandler.ConfirmSubscription)
	billingGroup.Post("/agency-confirm", billingHandler.ConfirmAgencySubscription)

	// Agency routes
	agencyGroup := protected.Group("/agency", auth.RequireRole(profiles.RoleAgency))
	agencyGroup.Get("/roster", agencyHandler.Roster)
	agencyGroup.Delete("/roster/:escortId", agencyHandler.RemoveEscort)
	agencyGroup.Post("/invitations", agencyHandler.Invite)
	agencyGroup.Get("/invitations", agencyHandler.ListSent)
	agencyGroup.Delete("/invitations/:id", agencyHandler.Revoke)

	// Escort side of agency invitations
	invitationGroup := protected.Group("/invitations", auth.RequireRole(profiles.RoleEscort))
	invitationGroup.Get("/", agencyHandler.ListReceived)
	invitationGroup.Post("/:id/accept", agencyHandler.Accept)
	invitationGroup.Post("/:id/decline", agencyHandler.Decline)
	invitationGroup.Post("/leave", agencyHandler.Leave)

	// Verification submission (escorts)
	protected.Post("/verification",
		auth.RequireRole(profiles.RoleEscort), adminHandler.SubmitVerification)

	// Admin routes
	adminGroup := protected.Group("/admin", auth.RequireRole(profiles.RoleAdmin))
	adminGroup.Get("/profiles/pending", adminHandler.PendingProfiles)
	adminGroup.Post("/profiles/:id/approve", adminHandler.ApproveProfile)
	adminGroup.Post("/profiles/:id/reject", adminHandler.RejectProfile)
	adminGroup.Post("/profiles/:id/suspend", adminHandler.SuspendProfile)
	adminGroup.Post("/profiles/:id/restore", adminHandler.RestoreProfile)
	adminGroup.Get("/verifications", adminHandler.PendingVerifications)
	adminGroup.Post("/verifications/:id/review", adminHandler.ReviewVerification)
	adminGroup.Get("/stats", adminHandler.Stats)
	adminGroup.Get("/chat/stats", messagingHandler.Stats)

	// Start server with graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%s", cfg.App.Port)
		log.Printf("Server starting on %s", addr)
		log.Printf("Environment: %s", cfg.App.Env)
		log.Printf("Debug mode: %v", cfg.App.Debug)

		if err := app.Listen(addr); err != nil {
			log.Fatal("Server failed to start:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Println("Shutting down server...")
	close(stopSweeper)
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server stopped")
}

var startTime = time.Now()

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Log errors in development
	if os.Getenv("APP_ENV") != "production" {
		log.Printf("Error: %v", err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}

package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/andrewjordancampbell/TurnTogether/internal/books"
	"github.com/andrewjordancampbell/TurnTogether/internal/cache"
	"github.com/andrewjordancampbell/TurnTogether/internal/handlers"
	"github.com/andrewjordancampbell/TurnTogether/internal/httpx"
	"github.com/andrewjordancampbell/TurnTogether/internal/middleware"
	"github.com/andrewjordancampbell/TurnTogether/internal/repository"
	"github.com/andrewjordancampbell/TurnTogether/internal/service"
	"github.com/andrewjordancampbell/TurnTogether/internal/storage"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "TurnTogether Backend",
		// Support avatar uploads up to 5MB + overhead.
		BodyLimit: 8 * 1024 * 1024, // 8MB
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-TT-CSRF",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize database connection
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis cache
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisCache := cache.NewRedisCache(redisAddr, redisPassword, redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}

	searchCache := cache.NewSearchCache(redisCache)
	roomCache := cache.NewRoomCache(redisCache)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	passwordResetRepo := repository.NewPasswordResetRepository(db)
	clubRepo := repository.NewClubRepository(db)
	bookRepo := repository.NewBookRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	discussionRepo := repository.NewDiscussionRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	// Initialize services
	// nil sender: reset tokens are logged until a mailer is configured.
	authService := service.NewAuthService(userRepo, refreshTokenRepo, passwordResetRepo, nil)
	userService := service.NewUserService(userRepo)
	clubService := service.NewClubService(clubRepo, bookRepo, chapterRepo)
	discussionService := service.NewDiscussionService(discussionRepo, clubRepo)
	progressService := service.NewProgressService(progressRepo, bookRepo, clubRepo)

	// Initialize S3/MinIO storage (best-effort; avatar endpoints return 503 if missing)
	var s3Store *storage.S3Storage
	if cfg, err := storage.LoadS3ConfigFromEnv(); err != nil {
		log.Printf("WARNING: S3 storage not configured: %v", err)
	} else if st, err := storage.NewS3Storage(cfg); err != nil {
		log.Printf("WARNING: Failed to initialize S3 storage: %v", err)
	} else {
		s3Store = st
		log.Printf("S3 storage initialized successfully (bucket=%s)", cfg.Bucket)
	}

	avatarService := service.NewAvatarService(s3Store, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	avatarHandler := handlers.NewAvatarHandler(avatarService)
	clubHandler := handlers.NewClubHandler(clubService, roomCache)
	bookHandler := handlers.NewBookHandler(books.NewClient(), searchCache)
	discussionHandler := handlers.NewDiscussionHandler(discussionService)
	progressHandler := handlers.NewProgressHandler(progressService)
	roomHandler := handlers.NewRoomHandler(clubService, roomCache)

	// Public routes
	api := app.Group("/api", middleware.OriginAllowed())
	auth := api.Group("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))
	auth.Get("/csrf", authHandler.CSRF)
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh) // No CSRF required - protected by opaque refresh token
	auth.Post("/logout", middleware.CSRFRequired(), authHandler.Logout)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)

	api.Get("/books/search", bookHandler.Search)
	api.Get("/users/:id/avatar", avatarHandler.GetUserAvatar)

	// Protected routes
	protected := api.Group("/", middleware.AuthRequired(), middleware.CSRFRequired())
	protected.Get("/users/me", userHandler.GetMe)
	protected.Put("/users/me", userHandler.UpdateMe)
	protected.Post(
		"/users/me/avatar",
		limiter.New(limiter.Config{
			Max:        10,
			Expiration: 10 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				if uid, err := httpx.LocalUint(c, "userID"); err == nil {
					return "avatar:" + strconv.FormatUint(uint64(uid), 10)
				}
				return c.IP()
			},
		}),
		avatarHandler.UploadMyAvatar,
	)
	protected.Delete("/users/me/avatar", avatarHandler.DeleteMyAvatar)
	protected.Get("/users/:id", userHandler.GetUser)

	// Club routes
	protected.Post("/clubs", clubHandler.CreateClub)
	protected.Get("/clubs", clubHandler.GetMyClubs)
	protected.Get("/clubs/discover", clubHandler.DiscoverClubs)
	protected.Post("/clubs/join", clubHandler.JoinByInvite)
	protected.Get("/clubs/:id", clubHandler.GetClub)
	protected.Post("/clubs/:id/join", clubHandler.JoinClub)
	protected.Post("/clubs/:id/leave", clubHandler.LeaveClub)
	protected.Get("/clubs/:id/members", clubHandler.GetMembers)
	protected.Put("/clubs/:id/book", clubHandler.SetCurrentBook)
	protected.Get("/clubs/:id/chapters", clubHandler.ListChapters)
	protected.Post("/clubs/:id/chapters", clubHandler.AddChapter)
	protected.Delete("/clubs/:id/chapters/:chapterID", clubHandler.DeleteChapter)
	protected.Get("/clubs/:id/room", clubHandler.GetRoomOccupancy)

	// Progress routes
	protected.Put("/clubs/:id/progress", progressHandler.UpdateMyProgress)
	protected.Get("/clubs/:id/progress/me", progressHandler.GetMyProgress)
	protected.Get("/clubs/:id/progress", progressHandler.ListClubProgress)

	// Discussion routes
	protected.Get("/clubs/:id/discussions", discussionHandler.ListDiscussions)
	protected.Post("/clubs/:id/discussions", discussionHandler.CreateDiscussion)
	protected.Get("/discussions/:id", discussionHandler.GetDiscussion)
	protected.Post("/discussions/:id/comments", discussionHandler.AddComment)

	// WebSocket route (websocket upgrade needs special handling)
	app.Use(
		"/ws/rooms/:id",
		middleware.OriginAllowed(),
		middleware.AuthRequired(),
		roomHandler.RequireRoomAccess(),
	)
	app.Get("/ws/rooms/:id", websocket.New(roomHandler.HandleRoom))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "TurnTogether is running",
		})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/config"
	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/handlers"
	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/repositories"
	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	offerRepo := repositories.NewOfferRepository(db)
	matchRepo := repositories.NewMatchRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	chatRepo := repositories.NewChatMessageRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	chunker := services.NewTextChunker()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Worker.RetryMaxAttempts)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant
	vectorStore, err := services.NewVectorStoreService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.CVCollection,
		cfg.Qdrant.OfferCollection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := vectorStore.InitCollections(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collections: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize Redis match cache. Runs in bypass mode when Redis is down.
	matchCache := services.NewMatchCache(cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.TTL)

	// Initialize vectorizer and matcher
	vectorizer := services.NewVectorizerService(
		docRepo,
		offerRepo,
		pdfParser,
		chunker,
		geminiService,
		vectorStore,
	)

	matcher := services.NewMatcherService(
		matchRepo,
		userRepo,
		docRepo,
		offerRepo,
		geminiService,
		vectorStore,
		matchCache,
	)
	log.Println("✅ Matcher service initialized")

	// Initialize intake chatbot
	intake := services.NewIntakeService(userRepo, chatRepo)

	// Initialize worker
	worker := services.NewWorker(
		matchRepo,
		matcher,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
	)
	log.Println("✅ Worker initialized successfully")

	// Start worker
	ctx := context.Background()
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize Handlers
	userHandler := handlers.NewUserHandler(userRepo)
	uploadHandler := handlers.NewUploadHandler(
		docRepo,
		userRepo,
		storageService,
		vectorizer,
		cfg.Storage.MaxFileSize,
	)
	chatHandler := handlers.NewChatHandler(intake, chatRepo)
	matchHandler := handlers.NewMatchHandler(
		matchRepo,
		userRepo,
		offerRepo,
		worker,
		matchCache,
	)
	offerHandler := handlers.NewOfferHandler(offerRepo)
	boardHandler := handlers.NewBoardHandler(appRepo, userRepo, offerRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "OffHeadHunter API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Users and intake chat
	api.Post("/users", userHandler.HandleCreateUser)
	api.Get("/users/:id", userHandler.HandleGetUser)
	api.Patch("/users/:id/preferences", userHandler.HandleUpdatePreferences)
	api.Get("/users/:id/chat/history", chatHandler.HandleChatHistory)
	api.Get("/users/:id/chat", handlers.RequireWebSocketUpgrade, chatHandler.HandleChat())

	// CV upload
	api.Post("/upload", uploadHandler.HandleUpload)

	// Matching
	api.Post("/match", matchHandler.HandleMatch)
	api.Get("/match/:id", matchHandler.HandleGetRun)
	api.Get("/users/:id/matches", matchHandler.HandleGetUserMatches)

	// Offers
	api.Get("/offers", offerHandler.HandleListOffers)
	api.Get("/offers/:id", offerHandler.HandleGetOffer)

	// Application board
	api.Post("/applications", boardHandler.HandleCreateApplication)
	api.Patch("/applications/:id", boardHandler.HandleMoveApplication)
	api.Get("/users/:id/board", boardHandler.HandleGetBoard)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "OffHeadHunter API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/users",
				"GET /api/v1/users/:id",
				"PATCH /api/v1/users/:id/preferences",
				"GET /api/v1/users/:id/chat",
				"GET /api/v1/users/:id/chat/history",
				"POST /api/v1/upload",
				"POST /api/v1/match",
				"GET /api/v1/match/:id",
				"GET /api/v1/users/:id/matches",
				"GET /api/v1/offers",
				"GET /api/v1/offers/:id",
				"POST /api/v1/applications",
				"PATCH /api/v1/applications/:id",
				"GET /api/v1/users/:id/board",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

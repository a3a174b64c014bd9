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

	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/handlers"
	"alfredoptarigan/resume-matcher/internal/repositories"
	"alfredoptarigan/resume-matcher/internal/services"
	"alfredoptarigan/resume-matcher/internal/textproc"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	ctx := context.Background()

	// Vocabulary and tokenizer strategy are settled once
	vocab, strategy, err := textproc.ResolveVocabulary(
		cfg.Matching.VocabularyPath,
		textproc.ParseTokenizerStrategy(cfg.Matching.Tokenizer),
	)
	if err != nil {
		log.Printf("⚠️  Failed to load vocabulary, using simple tokenizer: %v\n", err)
	}

	keywordExtractor := textproc.NewKeywordExtractor(strategy, vocab)
	relevanceFilter := textproc.NewRelevanceFilter(vocab.RelevanceKeywords)
	splitter := textproc.NewSentenceSplitter()
	log.Printf("✅ Text processing initialized (tokenizer: %s)\n", keywordExtractor.Strategy())

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(services.GeminiOptions{
		APIKey:            cfg.Gemini.APIKey,
		EmbedModel:        cfg.Gemini.EmbedModel,
		OCRModel:          cfg.Gemini.OCRModel,
		RequestsPerSecond: cfg.Gemini.RequestsPerSecond,
		Burst:             cfg.Gemini.Burst,
		BatchSize:         cfg.Gemini.BatchSize,
	})
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize embedding cache
	var embedder services.Embedder = geminiService
	if cfg.Qdrant.URL != "" {
		cache, err := services.NewQdrantEmbeddingCache(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			cfg.Qdrant.VectorSize,
		)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}

		if err := cache.InitCollection(ctx); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}

		embedder = services.NewCachedEmbedder(geminiService, cache, geminiService.EmbedModel())
		log.Println("✅ Qdrant embedding cache initialized successfully")
	}

	// Initialize storage
	storageService, err := newStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize storage: %v", err)
	}
	log.Printf("✅ Storage initialized (driver: %s)\n", cfg.Storage.Driver)

	// Initialize match event publisher
	publisher := services.NewNoopPublisher()
	if cfg.RabbitMQ.URL != "" {
		publisher, err = services.NewMatchPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatalf("❌ Failed to connect to RabbitMQ: %v", err)
		}
		log.Println("✅ RabbitMQ publisher initialized successfully")
	}

	// Initialize match history
	db, err := config.OpenMatchHistory(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize match history: %v", err)
	}

	var matchRepo repositories.MatchRunRepository
	var historyHandler *handlers.HistoryHandler
	if db != nil {
		matchRepo = repositories.NewMatchRunRepository(db)
		historyHandler = handlers.NewHistoryHandler(matchRepo)
		log.Println("✅ Match history initialized successfully")
	}

	// Initialize services
	extractor := services.NewTextExtractor(services.NewPDFParserService(), geminiService)
	loader := services.NewDocumentLoader(extractor, relevanceFilter)
	scorer := services.NewScorer(splitter, embedder)
	comparator := services.NewComparator(scorer, keywordExtractor)
	log.Println("✅ Services initialized successfully")

	// Initialize Handlers
	matchHandler := handlers.NewMatchHandler(handlers.MatchHandlerConfig{
		Loader:           loader,
		Storage:          storageService,
		Scorer:           scorer,
		Comparator:       comparator,
		Keywords:         keywordExtractor,
		History:          matchRepo,
		Publisher:        publisher,
		MaxFileSize:      cfg.Storage.MaxFileSize,
		MinContentLength: cfg.Matching.MinContentLength,
		MaxResumes:       cfg.Matching.MaxResumes,
	})
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Matcher API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize)*(cfg.Matching.MaxResumes+1) + 1<<20,
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
		AllowMethods: "GET,POST,OPTIONS",
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

	// API endpoints
	handlers.RegisterRoutes(api, matchHandler, historyHandler)

	endpoints := []string{
		"POST /api/v1/match",
		"POST /api/v1/multi-match",
	}
	if historyHandler != nil {
		endpoints = append(endpoints, "GET /api/v1/matches/:id")
	}

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "Resume Matcher API",
			"version":   "1.0.0",
			"endpoints": endpoints,
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
		if err := publisher.Close(); err != nil {
			log.Printf("⚠️  Failed to close publisher: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 API Documentation: http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func newStorage(ctx context.Context, cfg *config.Config) (services.StorageService, error) {
	switch cfg.Storage.Driver {
	case "s3":
		return services.NewS3StorageService(ctx, services.S3Options{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
	case "local", "":
		local := services.NewStorageService(cfg.Storage.UploadPath)
		if err := local.EnsureUploadDir(); err != nil {
			return nil, err
		}
		return local, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
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

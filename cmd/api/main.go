package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/pflag"

	"github.com/HasnainAli47/ResumeParser/internal/config"
	"github.com/HasnainAli47/ResumeParser/internal/handlers"
	"github.com/HasnainAli47/ResumeParser/internal/logger"
	"github.com/HasnainAli47/ResumeParser/internal/ratelimit"
	"github.com/HasnainAli47/ResumeParser/internal/repositories"
	"github.com/HasnainAli47/ResumeParser/internal/services"
)

func main() {
	configPath := pflag.StringP("config", "c", os.Getenv("CONFIG_FILE"), "optional YAML config file")
	port := pflag.StringP("port", "p", "", "override the listen port")
	pflag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to load config")
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	logger.Init(cfg.Logger)
	logger.Info().Str("env", cfg.Server.Env).Msg("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to initialize database")
	}

	resumeRepo := repositories.NewResumeRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	logger.Info().Msg("✅ Repositories initialized successfully")

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to create upload directory")
	}

	llmClient, err := services.NewLLMClient(cfg.LLM)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to initialize LLM client")
	}
	if cfg.LLM.APIKey == "" {
		logger.Warn().Str("provider", cfg.LLM.Provider).Msg("⚠️ No LLM API key configured")
	}
	logger.Info().Str("provider", cfg.LLM.Provider).Str("model", cfg.LLM.Model).Msg("✅ LLM client initialized")

	validator, err := services.NewExtractionValidator()
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to compile extraction schema")
	}

	ocrEngine, err := services.NewOCREngine(cfg.OCR)
	if err != nil {
		logger.Warn().Err(err).Msg("⚠️ OCR fallback disabled")
	}

	parser := services.NewResumeParser(llmClient, validator, cfg.LLM)
	ingestor := services.NewResumeIngestor(services.NewTextExtractor(ocrEngine), parser, resumeRepo)
	searchService := services.NewSearchService(resumeRepo)
	chatService := services.NewChatService(chatRepo, llmClient, cfg.Chat, cfg.LLM)
	logger.Info().Msg("✅ Services initialized successfully")

	var limiterStorage fiber.Storage
	if cfg.Redis.Address != "" {
		redisStorage, err := ratelimit.NewRedisStorage(cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("❌ Failed to connect to Redis")
		}
		defer redisStorage.Close()
		limiterStorage = redisStorage
		logger.Info().Str("addr", cfg.Redis.Address).Msg("✅ Rate limiter backed by Redis")
	}

	app := fiber.New(fiber.Config{
		AppName:      "Resume Parser API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLM.Timeout + 30*time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.RegisterRoutes(app, handlers.Handlers{
		Upload:    handlers.NewUploadHandler(ingestor, storageService, cfg.Storage.MaxFileSize),
		Query:     handlers.NewQueryHandler(resumeRepo, chatRepo, chatService),
		Search:    handlers.NewSearchHandler(searchService),
		Candidate: handlers.NewCandidateHandler(resumeRepo, storageService),
	}, ratelimit.NewQueryLimiter(cfg.RateLimit, limiterStorage))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info().Msg("🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("❌ Server forced to shutdown")
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Msgf("🚀 Server starting on %s", addr)

	if err := app.Listen(addr); err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to start server")
	}
}

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
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/handlers"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	sessionRepo := repositories.NewSessionRepository(db)
	candidateRepo := repositories.NewCandidateRepository(db)
	usageRepo := repositories.NewUsageRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := services.NewMetrics(registry)

	// Initialize LLM
	llm, err := services.NewLLMService(cfg.LLM)
	if err != nil {
		log.Fatalf("❌ Failed to initialize LLM provider: %v", err)
	}
	log.Printf("✅ LLM provider %q initialized successfully\n", cfg.LLM.Provider)

	// Optional response cache
	rdb, err := services.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		log.Printf("⚠️  Redis unavailable, continuing without response cache: %v\n", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	pipeline := services.NewPipeline(cfg, llm, rdb, usageRepo, metrics)
	log.Println("✅ Screening pipeline initialized")

	// Optional candidate index
	var index services.CandidateIndex
	if cfg.Qdrant.URL != "" {
		qc, err := services.NewQdrantClient(cfg.Qdrant.URL, cfg.Qdrant.APIKey)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		defer qc.Close()

		index = services.NewCandidateIndex(
			qc,
			llm,
			services.NewTextChunker(services.DefaultChunkSize, services.DefaultChunkOverlap),
			cfg.Qdrant.Collection,
			cfg.Qdrant.VectorSize,
		)
		if err := index.InitCollection(ctx); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		log.Println("✅ Qdrant initialized successfully")
	}

	// Optional status events
	publisher := services.NewNopPublisher()
	if cfg.RabbitMQ.URL != "" {
		publisher, err = services.NewAMQPPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatalf("❌ Failed to connect to RabbitMQ: %v", err)
		}
		log.Printf("✅ Publishing session updates to exchange %s\n", cfg.RabbitMQ.Exchange)
	}
	defer publisher.Close()

	// Initialize worker
	worker := services.NewWorker(
		sessionRepo,
		candidateRepo,
		pipeline.Screener,
		index,
		publisher,
		metrics,
		services.WorkerConfig{
			Concurrency: cfg.Worker.Concurrency,
			QueueSize:   cfg.Worker.QueueSize,
			StaleAfter:  cfg.Worker.StaleAfter,
		},
	)
	worker.Start(ctx)

	// Initialize handlers
	screeningHandler := handlers.NewScreeningHandler(
		sessionRepo,
		worker,
		cfg.Storage.MaxFileSize,
		cfg.Storage.MaxFilesPerJob,
	)
	resultHandler := handlers.NewResultHandler(sessionRepo, candidateRepo)
	interviewHandler := handlers.NewInterviewHandler(sessionRepo, candidateRepo, pipeline.Interviews)
	similarHandler := handlers.NewSimilarHandler(sessionRepo, candidateRepo, index)
	deleteHandler := handlers.NewDeleteHandler(sessionRepo, candidateRepo, index)
	usageHandler := handlers.NewUsageHandler(usageRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Screener API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    bodyLimit(cfg.Storage),
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-User-Email",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/screenings", screeningHandler.HandleCreate)
	api.Get("/screenings/:id", resultHandler.HandleGetResult)
	api.Delete("/screenings/:id", deleteHandler.HandleDelete)
	api.Get("/screenings/:id/export.csv", resultHandler.HandleExportCSV)
	api.Post("/screenings/:id/candidates/:candidateId/interview", interviewHandler.HandleGenerate)
	api.Get("/screenings/:id/candidates/:candidateId/similar", similarHandler.HandleSimilar)
	api.Get("/usage", usageHandler.HandleSummary)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Screener API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/screenings",
				"GET /api/v1/screenings/:id",
				"DELETE /api/v1/screenings/:id",
				"GET /api/v1/screenings/:id/export.csv",
				"POST /api/v1/screenings/:id/candidates/:candidateId/interview",
				"GET /api/v1/screenings/:id/candidates/:candidateId/similar",
				"GET /api/v1/usage",
				"GET /metrics",
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
		cancel()
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

// bodyLimit leaves room for a full batch of maximum-size files plus form fields.
func bodyLimit(cfg config.StorageConfig) int {
	files := cfg.MaxFilesPerJob
	if files <= 0 {
		files = 1
	}
	return int(cfg.MaxFileSize)*files + 1<<20
}

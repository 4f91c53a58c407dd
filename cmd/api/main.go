package main

import (
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

	"swipe/interview-assistant/internal/config"
	"swipe/interview-assistant/internal/handlers"
	"swipe/interview-assistant/internal/jobs"
	"swipe/interview-assistant/internal/repositories"
	"swipe/interview-assistant/internal/services"
)

func main() {
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	candidateRepo := repositories.NewCandidateRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	reviewerRepo := repositories.NewReviewerRepository(db)
	log.Println("✅ Repositories initialized successfully")

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}
	resumeParser := services.NewResumeParser()

	var geminiService services.GeminiService
	if cfg.Gemini.APIKey != "" {
		geminiService, err = services.NewGeminiService(cfg.Gemini.APIKey)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
		}
		log.Println("✅ Gemini AI initialized successfully")
	} else {
		log.Println("⚠️  GEMINI_API_KEY not set. Using built-in questions and heuristic scoring.")
	}
	provider := services.NewQuestionProvider(geminiService, cfg.Gemini.MaxRetries)

	interviewService := services.NewInterviewService(
		candidateRepo,
		sessionRepo,
		provider,
		time.Second,
	)
	if err := interviewService.Restore(); err != nil {
		log.Printf("⚠️  Failed to restore persisted session: %v\n", err)
	}

	authService := services.NewAuthService(reviewerRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err := authService.SeedReviewer(cfg.Auth.ReviewerEmail, cfg.Auth.ReviewerPassword); err != nil {
		log.Fatalf("❌ Failed to seed reviewer account: %v", err)
	}
	log.Println("✅ Services initialized successfully")

	janitor := jobs.NewSessionJanitor(interviewService, cfg.Session.StaleAfter)
	if err := janitor.Start(); err != nil {
		log.Fatalf("❌ Failed to start session janitor: %v", err)
	}

	uploadHandler := handlers.NewUploadHandler(candidateRepo, storageService, resumeParser, cfg.Storage.MaxFileSize)
	candidateHandler := handlers.NewCandidateHandler(candidateRepo)
	interviewHandler := handlers.NewInterviewHandler(interviewService)
	dashboardHandler := handlers.NewDashboardHandler(candidateRepo)
	authHandler := handlers.NewAuthHandler(authService)
	log.Println("✅ Handlers initialized")

	app := fiber.New(fiber.Config{
		AppName:      "AI Interview Assistant API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Candidate flow
	api.Post("/upload", uploadHandler.HandleUpload)
	api.Get("/candidates/current", candidateHandler.HandleCurrent)
	api.Put("/candidates/:id/confirm", candidateHandler.HandleConfirmInfo)
	api.Post("/interview/start", interviewHandler.HandleStart)
	api.Get("/interview", interviewHandler.HandleState)
	api.Get("/interview/transcript", interviewHandler.HandleTranscript)
	api.Post("/interview/answer", interviewHandler.HandleAnswer)
	api.Post("/interview/resume", interviewHandler.HandleResume)
	api.Delete("/interview", interviewHandler.HandleAbandon)

	// Reviewer dashboard
	api.Post("/auth/login", authHandler.HandleLogin)
	reviewer := api.Group("/candidates", handlers.NewAuthMiddleware(cfg.Auth.JWTSecret, services.TokenIssuer))
	reviewer.Get("/", dashboardHandler.HandleList)
	reviewer.Get("/:id", dashboardHandler.HandleDetail)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Interview Assistant API",
			"version": "1.0.0",
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		janitor.Stop()
		interviewService.Shutdown()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

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

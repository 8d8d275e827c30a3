package main

import (
	"context"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/satiscrm/crm-api/internal/config"
	"github.com/satiscrm/crm-api/internal/dedup"
	"github.com/satiscrm/crm-api/internal/infra/database"
	"github.com/satiscrm/crm-api/internal/infra/http/handlers"
	"github.com/satiscrm/crm-api/internal/infra/http/middleware"
	"github.com/satiscrm/crm-api/internal/infra/integration/authgw"
	"github.com/satiscrm/crm-api/internal/infra/mail"
	"github.com/satiscrm/crm-api/internal/infra/queue"
	"github.com/satiscrm/crm-api/internal/infra/worker"
	"github.com/satiscrm/crm-api/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "crm-api",
	})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", "err", err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitUser, cfg.RabbitPass, cfg.RabbitHost, cfg.RabbitPort)
	if err != nil {
		logger.Fatal("rabbitmq connection failed", "err", err)
	}
	defer rabbitMQ.Close()

	// Repositories
	leadRepo := database.NewLeadRepository(db)
	customerRepo := database.NewCustomerRepository(db)
	contactRepo := database.NewContactRepository(db)
	dealRepo := database.NewDealRepository(db)
	stageRepo := database.NewStageRepository(db)
	activityRepo := database.NewActivityRepository(db)

	// Gateways and adapters
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
	authClient := authgw.NewClient(cfg.AuthGatewayKey, cfg.AuthGatewayURL)

	// Background workers
	conversionWorker := queue.NewWorker(rabbitMQ.Ch, mailSender, logger.With("component", "conversion-worker"))
	if err := conversionWorker.Start(queue.QueueName); err != nil {
		logger.Fatal("conversion worker failed to start", "err", err)
	}

	staleWorker := worker.NewStaleLeadWorker(leadRepo, logger.With("component", "stale-worker"))
	go staleWorker.Start(context.Background())

	// Use cases
	convertUC := usecase.NewConvertLeadUseCase(leadRepo, customerRepo, contactRepo, producer, logger)
	transitions := usecase.NewStageTransitionValidator(stageRepo, dealRepo, logger)
	dashboardUC := usecase.NewDashboardUseCase(dealRepo, activityRepo, logger)
	authUC := usecase.NewAuthUseCase(authClient, logger)
	detector := dedup.NewDetector(leadRepo, customerRepo, contactRepo, logger)

	// Handlers
	leadHandler := handlers.NewLeadHandler(leadRepo, convertUC)
	duplicateHandler := handlers.NewDuplicateHandler(detector)
	dealHandler := handlers.NewDealHandler(transitions)
	activityHandler := handlers.NewActivityHandler(activityRepo)
	dashboardHandler := handlers.NewDashboardHandler(dashboardUC)
	uploadHandler := handlers.NewUploadHandler()
	authHandler := handlers.NewAuthHandler(authUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Post("/leads", leadHandler.CaptureLead)
	r.Post("/leads/{id}/convert", leadHandler.Convert)
	r.Post("/leads/{id}/convert/validate", leadHandler.ValidateConversion)
	r.Post("/duplicates/check", duplicateHandler.Check)
	r.Post("/deals/{id}/stage", dealHandler.MoveStage)
	r.Post("/activities", activityHandler.Create)
	r.Post("/uploads/validate", uploadHandler.Validate)
	r.Get("/dashboard", dashboardHandler.Handle)

	r.Post("/auth/login", authHandler.SignIn)
	r.Post("/auth/signup", authHandler.SignUp)
	r.Post("/auth/logout", authHandler.SignOut)
	r.Post("/auth/reset-password", authHandler.ResetPassword)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	addr := ":" + cfg.Port
	logger.Info("server listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

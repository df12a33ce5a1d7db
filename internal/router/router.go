package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pattibytes/backend/internal/counters"
	"github.com/pattibytes/backend/internal/fanout"
	"github.com/pattibytes/backend/internal/handlers"
	"github.com/pattibytes/backend/internal/metrics"
	"github.com/pattibytes/backend/internal/middleware"
	"github.com/pattibytes/backend/internal/models"
	"github.com/pattibytes/backend/internal/push"
	"github.com/pattibytes/backend/internal/repositories"
	"github.com/pattibytes/backend/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, cfg *config.Config) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.Profile{},
		&models.Notification{},
		&models.PushToken{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	if cfg.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	// --- Initialize Repositories ---
	mongoDB := mgClient.Database(cfg.MongoDatabase)
	profileRepo := repositories.NewPostgresProfileRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	pushTokenRepo := repositories.NewPostgresPushTokenRepository(pgdb)
	counterRepo := repositories.NewMongoCounterRepository(mgClient, mongoDB)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	commentRepo := repositories.NewMongoCommentRepository(mongoDB)

	// --- Initialize Services ---
	counterService := counters.NewService(counterRepo, appMetrics)
	fanoutService := fanout.NewService(profileRepo, notificationRepo, appMetrics)
	pushClient := push.NewClient(cfg.ExpoPushURL, cfg.PushTimeout)
	pushDispatcher := push.NewDispatcher(pushTokenRepo, notificationRepo, pushClient, appMetrics)

	// --- Webhook routes (shared-secret guarded, no end-user surface) ---
	hooks := e.Group("/hooks")
	hooks.Use(middleware.WebhookSecretMiddleware(cfg.WebhookSecret))
	if cfg.WebhookSecret == "" {
		log.Println("WARNING: WEBHOOK_SECRET not set, webhook routes are unauthenticated.")
	}

	counterHandler := handlers.NewCounterHandler(counterService)
	counterHandler.RegisterCounterRoutes(hooks)
	log.Println("Counter webhook routes configured.")

	pushHookHandler := handlers.NewPushHookHandler(pushDispatcher)
	pushHookHandler.RegisterPushHookRoutes(hooks)
	log.Println("Push webhook route configured.")

	// --- Protected routes (require Firebase authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))
	log.Println("Firebase authentication middleware applied to /api/v1 group.")

	notifyHandler := handlers.NewNotifyHandler(profileRepo, fanoutService)
	notifyHandler.RegisterNotifyRoutes(api)
	log.Println("Notify route configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, profileRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	deviceHandler := handlers.NewDeviceHandler(pushTokenRepo, profileRepo)
	deviceHandler.RegisterDeviceRoutes(api)
	log.Println("Device routes configured.")

	contentHandler := handlers.NewContentHandler(postRepo, commentRepo)
	contentHandler.RegisterContentRoutes(api)
	log.Println("Content routes configured.")

	log.Println("All routes configured.")
}

package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"itrportal/internal/config"
	"itrportal/internal/handlers"
	"itrportal/internal/middleware"
	"itrportal/internal/models"
	"itrportal/internal/repository"
	"itrportal/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	db, err := services.InitDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := services.AutoMigrate(db); err != nil {
		logger.Fatal("failed to run database migrations", zap.Error(err))
	}

	// Initialize Redis (OTP store)
	cache, err := services.NewRedisCache(cfg.RedisURL)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer cache.Close()

	// Document storage
	storage, err := services.NewS3Storage(cfg)
	if err != nil {
		logger.Fatal("failed to initialize document storage", zap.Error(err))
	}

	// Repositories
	users := repository.NewUserRepository(db)
	payments := repository.NewPaymentRepository(db)

	// Services
	emailSvc := services.NewEmailService(cfg)
	notifier := services.NewMsg91Notifier(cfg, emailSvc, logger)
	otpStore := services.NewOTPStore(cache, cfg.OTPTTL, cfg.OTPMaxAttempts)
	gateway := services.NewRazorpayClient(cfg)

	authSvc := services.NewAuthService(users, otpStore, notifier, cfg, logger)
	onboardingSvc := services.NewOnboardingService(users, storage, logger)
	paymentSvc := services.NewPaymentService(users, payments, gateway, cfg.RazorpayWebhookSecret, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authSvc)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingSvc)
	paymentHandler := handlers.NewPaymentHandler(paymentSvc)
	adminHandler := handlers.NewAdminHandler(users, payments)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.JSONErrorHandler

	// Middleware
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	api := e.Group("/api/v1")

	// Public auth routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/login/otp", authHandler.RequestOTP)
	api.POST("/auth/verify-otp", authHandler.VerifyOTP)
	api.POST("/auth/resend-otp", authHandler.RequestOTP)

	// Gateway webhook, authenticated by its HMAC signature
	api.POST("/payments/webhook", paymentHandler.Webhook)

	// Client routes
	client := api.Group("", middleware.RequireAuth([]byte(cfg.JWTSecret), users))
	client.GET("/user/me", onboardingHandler.Profile)
	client.PUT("/onboarding/personal-details", onboardingHandler.UpdatePersonalDetails)
	client.PUT("/onboarding/income-sources", onboardingHandler.UpdateIncomeSources)
	client.POST("/onboarding/documents", onboardingHandler.UploadDocuments)
	client.PUT("/onboarding/tax-portal-password", onboardingHandler.UpdateTaxPortalPassword)
	client.POST("/payments/order", paymentHandler.CreateOrder)
	client.GET("/payments/latest", paymentHandler.LatestPayment)

	// Staff routes
	admin := api.Group("/admin",
		middleware.RequireAuth([]byte(cfg.JWTSecret), users),
		middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
	admin.POST("/staff", authHandler.CreateStaff, middleware.RequireRole(models.RoleSuperAdmin))
	admin.GET("/users", adminHandler.ListClients)
	admin.GET("/users/:id", adminHandler.GetClient)
	admin.PATCH("/users/:id", adminHandler.UpdateClient)
	admin.DELETE("/users/:id", adminHandler.BlockClient)

	logger.Info("server starting", zap.String("port", cfg.Port))
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

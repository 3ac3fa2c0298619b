package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"resumehub/database"
	"resumehub/internal/ai"
	"resumehub/internal/cache"
	"resumehub/internal/config"
	"resumehub/internal/email"
	"resumehub/internal/handlers"
	"resumehub/internal/logger"
	"resumehub/internal/middleware"
	"resumehub/internal/repositories"
	"resumehub/internal/routes"
	"resumehub/internal/services"
	"resumehub/internal/storage"
	"resumehub/internal/validator"
	"resumehub/internal/workers"
	"resumehub/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}
	logger.Info("Database connected")

	if err := seedPlans(gormDB); err != nil {
		logger.Fatal("Failed to seed subscription plans", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ginRouter := SetupRouter(ctx, cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		UseSSL:     cfg.Storage.UseSSL,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	// Кеш контекста чат-сессий. Без Redis сервис работает, но каждый
	// запрос будет собирать контекст из базы.
	var cacheClient *cache.Client
	if cfg.Redis.Addr != "" {
		cacheClient, err = cache.NewClient(cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, session caching disabled", "error", err)
			cacheClient = nil
		} else {
			logger.Info("Redis connected", "addr", cfg.Redis.Addr)
		}
	}

	aiRouter, err := ai.NewRouter(cfg.AI)
	if err != nil {
		logger.Warn("AI layer disabled", "error", err)
		aiRouter = nil
	}

	serviceContainer := initializeServices(cfg, gormDB, storageInstance, cacheClient, aiRouter)
	appHandlers := initializeHandlers(serviceContainer, cacheClient)

	wsManager := ws.NewManager()
	go wsManager.Run()
	wsHandler := ws.NewHandler(wsManager, serviceContainer.ChatService, serviceContainer.ResumeService)

	startWorkers(ctx, gormDB)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler, serviceContainer.APIKeyService, serviceContainer.AnalyticsService)

	return ginRouter
}

func initializeServices(
	cfg *config.Config,
	gormDB *gorm.DB,
	storageInstance storage.Storage,
	cacheClient *cache.Client,
	aiRouter *ai.Router,
) *services.ServiceContainer {
	var emailProvider email.Provider
	if cfg.Email.SMTPHost != "" {
		emailProvider = email.NewSMTPProvider(&email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			UseTLS:    cfg.Email.UseTLS,
		})
	} else {
		logger.Warn("SMTP not configured, emails are logged instead of sent")
		emailProvider = &logEmailProvider{}
	}

	userRepo := repositories.NewUserRepository(gormDB)
	resumeRepo := repositories.NewResumeRepository(gormDB)
	chatRepo := repositories.NewChatRepository(gormDB)
	apiKeyRepo := repositories.NewAPIKeyRepository(gormDB)
	subscriptionRepo := repositories.NewSubscriptionRepository(gormDB)
	teamRepo := repositories.NewTeamRepository(gormDB)
	analyticsRepo := repositories.NewAnalyticsRepository(gormDB)

	analyticsService := services.NewAnalyticsService(analyticsRepo)

	return &services.ServiceContainer{
		AuthService:   services.NewAuthService(userRepo, emailProvider),
		UserService:   services.NewUserService(userRepo),
		ResumeService: services.NewResumeService(resumeRepo, userRepo, storageInstance, aiRouter, cfg.Upload.MaxSize, analyticsService),
		ChatService:   services.NewChatService(chatRepo, resumeRepo, cacheClient, aiRouter),
		SubscriptionService: services.NewSubscriptionService(
			subscriptionRepo, userRepo, resumeRepo, chatRepo,
			cfg.Billing.CheckoutBaseURL, cfg.Billing.WebhookSecret,
		),
		APIKeyService:    services.NewAPIKeyService(apiKeyRepo, userRepo),
		TeamService:      services.NewTeamService(teamRepo, userRepo, analyticsService),
		AnalyticsService: analyticsService,
		EmailService:     emailProvider,
		Storage:          storageInstance,
	}
}

func initializeHandlers(sc *services.ServiceContainer, cacheClient *cache.Client) *handlers.AppHandlers {
	base := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(base, sc.AuthService),
		UserHandler:         handlers.NewUserHandler(base, sc.UserService),
		ResumeHandler:       handlers.NewResumeHandler(base, sc.ResumeService),
		ChatHandler:         handlers.NewChatHandler(base, sc.ChatService),
		SubscriptionHandler: handlers.NewSubscriptionHandler(base, sc.SubscriptionService),
		APIKeyHandler:       handlers.NewAPIKeyHandler(base, sc.APIKeyService),
		TeamHandler:         handlers.NewTeamHandler(base, sc.TeamService),
		AnalyticsHandler:    handlers.NewAnalyticsHandler(base, sc.AnalyticsService, sc.TeamService),
		HealthHandler:       handlers.NewHealthHandler(base, cacheClient),
	}
}

func startWorkers(ctx context.Context, gormDB *gorm.DB) {
	userRepo := repositories.NewUserRepository(gormDB)
	chatRepo := repositories.NewChatRepository(gormDB)
	subscriptionRepo := repositories.NewSubscriptionRepository(gormDB)
	apiKeyRepo := repositories.NewAPIKeyRepository(gormDB)

	workers.NewSubscriptionWorker(subscriptionRepo, userRepo, apiKeyRepo).Start(ctx)
	workers.NewCleanupWorker(userRepo, chatRepo).Start(ctx)
}

func initializeGinRouter(gormDB *gorm.DB) *gin.Engine {
	cfg := config.GetConfig()
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.DBMiddleware(gormDB))
	// В тестах все запросы идут с одного IP, лимитер там только мешает
	if cfg.Server.Env != "test" {
		r.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(20, 40)))
	}

	return r
}

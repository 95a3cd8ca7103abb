package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/config"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/controller"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/repository"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/service"
	"github.com/walberluis/e-learning-platform-lua-walber/pkg/database"
	"github.com/walberluis/e-learning-platform-lua-walber/pkg/logger"
	"github.com/walberluis/e-learning-platform-lua-walber/pkg/monitoring"
	"github.com/walberluis/e-learning-platform-lua-walber/pkg/security"
	"github.com/walberluis/e-learning-platform-lua-walber/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user        *repository.UserRepository
	trilha      *repository.TrilhaRepository
	performance *repository.PerformanceRepository
	chatbot     *repository.ChatbotRepository
}

type services struct {
	auth           *service.AuthService
	user           *service.UserService
	content        *service.ContentService
	storage        *service.StorageService
	analytics      *service.AnalyticsService
	ai             *service.AIService
	recommendation *service.RecommendationService
	chatbot        *service.ChatbotService
}

type controllers struct {
	auth           *controller.AuthController
	user           *controller.UserController
	trilha         *controller.TrilhaController
	content        *controller.ContentController
	recommendation *controller.RecommendationController
	chatbot        *controller.ChatbotController
	health         *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		trilha:      repository.NewTrilhaRepository(db, rdb),
		performance: repository.NewPerformanceRepository(db),
		chatbot:     repository.NewChatbotRepository(db, rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.analytics = service.NewAnalyticsService(repos.performance, repos.trilha)
	s.content = service.NewContentService(repos.trilha, repos.user, repos.performance, s.analytics)
	s.ai = service.NewAIService(cfg.AI)
	s.recommendation = service.NewRecommendationService(repos.user, repos.trilha, repos.performance, s.analytics, s.ai)
	s.chatbot = service.NewChatbotService(repos.user, repos.chatbot, s.analytics, s.recommendation, s.ai)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:           controller.NewAuthController(s.auth),
		user:           controller.NewUserController(s.user, s.analytics, s.content),
		trilha:         controller.NewTrilhaController(s.content, s.analytics),
		content:        controller.NewContentController(s.storage),
		recommendation: controller.NewRecommendationController(s.recommendation, s.analytics, s.content),
		chatbot:        controller.NewChatbotController(s.chatbot),
		health:         controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks keeps the popular-trilhas cache warm.
func (a *App) startBackgroundTasks(repos *repositories) {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		for range ticker.C {
			if err := repos.trilha.RefreshPopularCache(20); err != nil {
				logger.Log.Error("popular trilhas cache refresh failed", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("trilhas-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" || cfg.Storage.Type == "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	if err := repos.trilha.RefreshPopularCache(20); err != nil {
		logger.Log.Warn("initial popular trilhas cache refresh failed", zap.Error(err))
	}
	app.startBackgroundTasks(repos)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Sync()
	log.Println("Server exiting")
}

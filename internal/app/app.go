package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lingua_backend/internal/config"
	"lingua_backend/internal/controller"
	"lingua_backend/internal/repository"
	"lingua_backend/internal/service"
	"lingua_backend/pkg/configwatcher"
	"lingua_backend/pkg/database"
	"lingua_backend/pkg/logger"
	"lingua_backend/pkg/monitoring"
	"lingua_backend/pkg/security"
	"lingua_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
	tracer          *sdktrace.TracerProvider
	limiter         *security.RateLimiter
	cancel          context.CancelFunc
}

type repositories struct {
	user              *repository.UserRepository
	course            *repository.CourseRepository
	challenge         *repository.ChallengeRepository
	challengeProgress *repository.ChallengeProgressRepository
	userProgress      *repository.UserProgressRepository
	subscription      *repository.SubscriptionRepository
}

type services struct {
	auth         *service.AuthService
	storage      *service.StorageService
	subscription *service.SubscriptionService
	progress     *service.ProgressService
	course       *service.CourseService
	view         *service.ViewService
	viewHub      *service.ViewHub
}

type controllers struct {
	auth         *controller.AuthController
	course       *controller.CourseController
	learn        *controller.LearnController
	progress     *controller.ProgressController
	subscription *controller.SubscriptionController
	view         *controller.ViewController
	admin        *controller.AdminController
	health       *controller.HealthController
}

// RegisterConfigCallback 注册配置热更新回调
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) reloadConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

// CourseService 供导入命令使用
func (a *App) CourseService() *service.CourseService {
	return a.services.course
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:              repository.NewUserRepository(db),
		course:            repository.NewCourseRepository(db),
		challenge:         repository.NewChallengeRepository(db),
		challengeProgress: repository.NewChallengeProgressRepository(db),
		userProgress:      repository.NewUserProgressRepository(db),
		subscription:      repository.NewSubscriptionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	storage := service.NewStorageService(cfg)

	// 未配置密钥时 Stripe 会拒绝请求，错误原样返回给客户端
	if cfg.Payment.StripeSecretKey == "" {
		logger.Log.Warn("Stripe secret key not configured, checkout requests will fail")
	}
	provider := service.NewStripeProvider(cfg.Payment.StripeSecretKey)
	subscription := service.NewSubscriptionService(repos.subscription, repos.user, provider, cfg.Payment)

	progress := service.NewProgressService(db, repos.userProgress, repos.challenge, repos.challengeProgress, subscription, cfg.Game)

	return &services{
		auth:         service.NewAuthService(repos.user, cfg),
		storage:      storage,
		subscription: subscription,
		progress:     progress,
		course:       service.NewCourseService(db, repos.course, repos.challenge, repos.user, repos.userProgress, storage, progress),
		view:         service.NewViewService(repos.course, repos.challenge, repos.challengeProgress, repos.userProgress, subscription, progress),
		viewHub:      service.NewViewHub(rdb),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		course:       controller.NewCourseController(s.course, s.view, s.viewHub),
		learn:        controller.NewLearnController(s.view),
		progress:     controller.NewProgressController(s.progress, s.viewHub),
		subscription: controller.NewSubscriptionController(s.subscription),
		view:         controller.NewViewController(s.viewHub),
		admin:        controller.NewAdminController(s.course),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if cfg.RateLimit.MaxRequests > 0 && window > 0 {
		a.limiter = security.NewRateLimiter(cfg.RateLimit.MaxRequests, window)
		router.Use(a.limiter.Middleware())
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(ctx context.Context, s *services) {
	go s.viewHub.Run(ctx)
	if a.limiter != nil {
		go a.limiter.Cleanup(ctx)
	}

	// 游戏参数热更新，非法值保持原配置
	a.RegisterConfigCallback(func(cfg *config.Config) {
		if err := s.progress.UpdateGameConfig(cfg.Game); err != nil {
			logger.Log.Warn("Rejected game config reload", zap.Error(err))
			return
		}
		logger.Log.Info("Game config reloaded",
			zap.Int("maxHearts", cfg.Game.MaxHearts),
			zap.Int("pointsPerChallenge", cfg.Game.PointsPerChallenge),
			zap.Int("refillPrice", cfg.Game.RefillPrice),
		)
	})

	if a.Config.ConfigPath != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, a.Config.ConfigPath, a.reloadConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.Server.Mode == "debug" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Log.Info("Database migrated")
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	// 未配置 Redis 时视图失效通知只在本进程内投递
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
			log.Fatalf("Failed to initialize redis: %v", err)
		}
	} else {
		logger.Log.Warn("Redis not configured, view invalidation is process-local")
	}
	app.Redis = rdb

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("lingua-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	app.startBackgroundTasks(ctx, services)

	return app
}

// Close 释放后台任务与外部连接
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.services != nil && a.services.viewHub != nil {
		a.services.viewHub.Stop()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// 先关闭 WebSocket 连接，否则 Shutdown 会等待被劫持的连接
	if a.services != nil && a.services.viewHub != nil {
		a.services.viewHub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	a.Close()

	logger.Log.Info("Server exiting")
}

package app

import (
	"context"
	"course_progress/internal/backend"
	"course_progress/internal/config"
	"course_progress/internal/controller"
	"course_progress/internal/progress"
	"course_progress/internal/repository"
	"course_progress/internal/service"
	"course_progress/internal/util"
	"course_progress/pkg/configwatcher"
	"course_progress/pkg/database"
	"course_progress/pkg/logger"
	"course_progress/pkg/monitoring"
	"course_progress/pkg/security"
	"course_progress/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	rateLimiter     *security.RateLimiter
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type services struct {
	progress *service.ProgressService
	voucher  *service.VoucherService
}

type controllers struct {
	progress *controller.ProgressController
	voucher  *controller.VoucherController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// initSlots 按配置选择进度槽位的存储后端
func (a *App) initSlots(cfg *config.Config) progress.SlotStore {
	switch cfg.Persistence.Backend {
	case util.PersistenceRedis:
		rdb, err := database.InitRedis(context.Background(), &cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		a.Redis = rdb
		return repository.NewRedisSlotRepository(rdb)
	case util.PersistenceMemory:
		logger.Log.Warn("Using in-memory progress persistence; progress is lost on restart")
		return repository.NewMemorySlotRepository()
	case util.PersistenceSQL:
		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
		if err != nil {
			logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		}
		a.DB = db
		return repository.NewSQLSlotRepository(db)
	default:
		// normalize 已校验取值
		logger.Log.Fatal("Unknown persistence backend", zap.String("backend", cfg.Persistence.Backend))
		return nil
	}
}

func (a *App) initServices(cfg *config.Config, slots progress.SlotStore) *services {
	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	return &services{
		progress: service.NewProgressService(client, slots),
		voucher:  service.NewVoucherService(service.NewStorageProvider(&cfg.Storage)),
	}
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		progress: controller.NewProgressController(s.progress),
		voucher:  controller.NewVoucherController(s.voucher),
		health:   controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.rateLimiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func rateWindow(cfg *config.Config) time.Duration {
	return time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
}

func NewApp(cfg *config.Config, configDir string) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{
		Config:      cfg,
		ConfigDir:   configDir,
		rateLimiter: security.NewRateLimiter(cfg.RateLimit.MaxRequests, rateWindow(cfg)),
	}

	slots := app.initSlots(cfg)
	app.services = app.initServices(cfg, slots)
	controllers := app.initControllers(app.services)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	app.RegisterConfigCallback(logger.SetLevel)
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.rateLimiter.Update(newCfg.RateLimit.MaxRequests, rateWindow(newCfg))
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go func() {
		configFile := filepath.Join(a.ConfigDir, "config.yaml")
		err := configwatcher.WatchConfig(watchCtx, configFile, func(cfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(cfg)
			}
		})
		if err != nil {
			logger.Log.Warn("Config watcher disabled", zap.Error(err))
		}
	}()

	if idle := a.Config.Persistence.StoreIdle; idle > 0 {
		go a.services.progress.RunEviction(watchCtx, time.Minute, idle)
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	// 等待进度槽位的后台写入
	a.services.progress.Wait()

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}

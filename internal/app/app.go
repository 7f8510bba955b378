package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edu_portal_backend/internal/config"
	"edu_portal_backend/internal/controller"
	"edu_portal_backend/internal/repository"
	"edu_portal_backend/internal/service"
	"edu_portal_backend/pkg/database"
	"edu_portal_backend/pkg/logger"
	"edu_portal_backend/pkg/monitoring"
	"edu_portal_backend/pkg/security"
	"edu_portal_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	taxonomy *repository.TaxonomyRepository
	question *repository.QuestionRepository
	resource *repository.ResourceRepository
	link     *repository.LinkRepository
	paper    *repository.PaperRepository
}

type services struct {
	auth      *service.AuthService
	storage   *service.StorageService
	taxonomy  *service.TaxonomyService
	question  *service.QuestionService
	link      *service.LinkService
	assembler *service.AssemblerService
	paper     *service.PaperService
	render    *service.RenderService
	print     *service.PrintService
}

type controllers struct {
	health   *controller.HealthController
	auth     *controller.AuthController
	taxonomy *controller.TaxonomyController
	question *controller.QuestionController
	resource *controller.ResourceController
	paper    *controller.PaperController
	render   *controller.RenderController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 热更新可在线调整的配置项；数据库、Redis 等连接类配置仍需重启生效
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config.Print = cfg.Print
	a.Config.CORS = cfg.CORS
	a.Config.RateLimit = cfg.RateLimit

	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		taxonomy: repository.NewTaxonomyRepository(db),
		question: repository.NewQuestionRepository(db),
		resource: repository.NewResourceRepository(db),
		link:     repository.NewLinkRepository(db),
		paper:    repository.NewPaperRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.taxonomy = service.NewTaxonomyService(repos.taxonomy, rdb)
	s.question = service.NewQuestionService(repos.question)
	s.link = service.NewLinkService(repos.link, repos.question, repos.resource)
	s.assembler = service.NewAssemblerService(repos.paper, repos.question)
	s.paper = service.NewPaperService(repos.paper)
	s.render = service.NewRenderService(rdb, repos.question)
	s.print = service.NewPrintService(cfg.Print.Brand)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		health:   controller.NewHealthController(db),
		auth:     controller.NewAuthController(s.auth),
		taxonomy: controller.NewTaxonomyController(s.taxonomy),
		question: controller.NewQuestionController(s.question, s.storage),
		resource: controller.NewResourceController(s.link, repos.resource),
		paper:    controller.NewPaperController(s.assembler, s.paper),
		render:   controller.NewRenderController(s.render, s.print, s.link, s.paper),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000 // 每分钟100000次请求
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, repos, db)

	// 页脚品牌随配置热更新
	app.RegisterConfigCallback(func(c *config.Config) {
		if c.Print.Brand != "" {
			services.print.Brand = c.Print.Brand
		}
	})

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("edu-portal", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
		router.Static("/api/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

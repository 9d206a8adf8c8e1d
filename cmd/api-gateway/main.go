package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sma-duty-roster/api/api/swagger"
	internalhandler "github.com/sma-duty-roster/api/internal/handler"
	internalmiddleware "github.com/sma-duty-roster/api/internal/middleware"
	"github.com/sma-duty-roster/api/internal/repository"
	"github.com/sma-duty-roster/api/internal/service"
	"github.com/sma-duty-roster/api/pkg/cache"
	"github.com/sma-duty-roster/api/pkg/config"
	"github.com/sma-duty-roster/api/pkg/database"
	"github.com/sma-duty-roster/api/pkg/jobs"
	"github.com/sma-duty-roster/api/pkg/logger"
	"github.com/sma-duty-roster/api/pkg/middleware/cors"
	"github.com/sma-duty-roster/api/pkg/middleware/requestid"
	"github.com/sma-duty-roster/api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	var cacheRepo *repository.CacheRepository
	if cfg.Duty.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("roster cache disabled: redis unreachable", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	rosterCacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Duty.CacheTTL, logr, cacheRepo != nil)

	teacherRepo := repository.NewTeacherRepository(db)
	teacherPrefRepo := repository.NewTeacherPreferenceRepository(db)
	teacherScheduleRepo := repository.NewTeacherScheduleRepository(db)
	dutyConfigRepo := repository.NewDutyConfigRepository(db)

	teacherSvc := service.NewTeacherService(teacherRepo, validate, logr)
	teacherPrefSvc := service.NewTeacherPreferenceService(teacherRepo, teacherPrefRepo, validate, logr)
	teacherScheduleSvc := service.NewTeacherScheduleService(teacherScheduleRepo, validate, logr)
	dutyConfigSvc := service.NewDutyConfigService(dutyConfigRepo, rosterCacheSvc, logr)
	dutySolverSvc := service.NewDutySolverService(teacherScheduleRepo, dutyConfigRepo, teacherPrefRepo, cfg.Duty.MaxSolveNodes, cfg.Duty.FairnessPriorityDefault, logr, metricsSvc)

	teacherHandler := internalhandler.NewTeacherHandler(teacherSvc, teacherPrefSvc)
	scheduleHandler := internalhandler.NewScheduleHandler(teacherScheduleSvc)
	dutyConfigHandler := internalhandler.NewDutyConfigHandler(dutyConfigSvc)
	ocrHandler := internalhandler.NewOCRHandler(service.NewUnconfiguredVisionClient())

	exportStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	exportSigner := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportRenderSvc := service.NewExportRenderService(exportStorage, exportSigner, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr, nil, nil)

	solverHandler := internalhandler.NewSolverHandler(dutySolverSvc, exportRenderSvc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	exportJobRepo := repository.NewExportJobRepository(db)
	exportWorker := service.NewExportWorker(exportJobRepo, exportRenderSvc, cfg.Exports.WorkerRetries, logr)
	exportQueue := jobs.NewQueue("exports", exportWorker.Handle, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})
	exportJobSvc := service.NewExportJobService(exportJobRepo, exportQueue, exportRenderSvc, logr, service.ExportJobServiceConfig{
		ResultTTL:       cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
		MaxRetries:      cfg.Exports.WorkerRetries,
	})
	exportHandler := internalhandler.NewExportHandler(exportJobSvc)

	if cfg.Exports.Enabled {
		exportQueue.Start(ctx)
		exportJobSvc.RecoverPendingJobs(ctx)
		exportJobSvc.StartCleanup(ctx)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(cors.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.WithResponseMeta())
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)

	teachersGroup := api.Group("/teachers")
	teachersGroup.GET("", teacherHandler.List)
	teachersGroup.POST("", teacherHandler.Create)
	teachersGroup.GET("/:code", teacherHandler.Get)
	teachersGroup.PUT("/:code", teacherHandler.Update)
	teachersGroup.DELETE("/:code", teacherHandler.Delete)
	teachersGroup.GET("/:code/preferences", teacherHandler.GetPreferences)
	teachersGroup.PUT("/:code/preferences", teacherHandler.UpsertPreferences)

	schedulesGroup := api.Group("/schedules")
	schedulesGroup.GET("", scheduleHandler.List)
	schedulesGroup.POST("/parse-text", scheduleHandler.ParseText)
	schedulesGroup.GET("/:code", scheduleHandler.Get)
	schedulesGroup.PUT("/:code", scheduleHandler.Save)
	schedulesGroup.DELETE("/:code", scheduleHandler.Delete)

	configGroup := api.Group("/config")
	configGroup.GET("/:key", dutyConfigHandler.Get)
	configGroup.POST("/save", dutyConfigHandler.Save)

	solverGroup := api.Group("/solver")
	solverGroup.POST("/candidates", solverHandler.Candidates)
	solverGroup.POST("/generate", solverHandler.Generate)
	solverGroup.GET("/last", solverHandler.LastGenerated)
	solverGroup.POST("/export/pdf", solverHandler.ExportPDFByDay)
	solverGroup.POST("/export/pdf-zone", solverHandler.ExportPDFByZone)

	exportsGroup := api.Group("/exports")
	exportsGroup.POST("", exportHandler.GenerateExport)
	exportsGroup.GET("/status/:id", exportHandler.ExportStatus)
	exportsGroup.GET("/download/:token", exportHandler.DownloadExport)

	ocrGroup := api.Group("/ocr")
	ocrGroup.POST("/analyze", ocrHandler.Analyze)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	exportQueue.Stop()
	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server forced to shutdown", "error", err)
	}
}

package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "approval-engine/internal/adapter/http"
	idemp "approval-engine/internal/adapter/middleware"
	"approval-engine/internal/adapter/repository/mysql"
	"approval-engine/internal/config"
	domain "approval-engine/internal/domain/request"
	"approval-engine/internal/infrastructure/cache"
	"approval-engine/internal/infrastructure/db"
	"approval-engine/internal/notify"
	ucRequest "approval-engine/internal/usecase/request"
	ucWorkflow "approval-engine/internal/usecase/workflow"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		logger.Fatal("mysql", zap.Error(err))
	}
	if err := gdb.AutoMigrate(&domain.ApprovalRequest{}); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}

	repo := mysql.NewRequestRepository(gdb)
	requestUC := ucRequest.NewUsecase(repo, logger)
	workflowUC := ucWorkflow.NewUsecase(repo, logger)
	dispatcher := notify.NewLogDispatcher(logger, workflowUC)

	h := httpadp.NewHandler()
	requestH := httpadp.NewRequestHandler(requestUC)
	workflowH := httpadp.NewWorkflowHandler(workflowUC, dispatcher)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	// routes
	e.GET("/health", h.Health)
	e.GET("/requests", requestH.ListRequests)
	e.GET("/requests/:request_number", requestH.GetRequest)

	// mutating routes are deduped by client request id
	mut := e.Group("", idemp.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))
	mut.POST("/requests", requestH.CreateRequest)
	mut.POST("/requests/:request_number/approve", workflowH.Approve)
	mut.POST("/requests/:request_number/reject", workflowH.Reject)
	mut.POST("/requests/:request_number/cancel", workflowH.Cancel)
	mut.POST("/requests/:request_number/comments", workflowH.AddComment)

	addr := ":" + cfg.AppPort
	logger.Info("listening", zap.String("addr", addr))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}

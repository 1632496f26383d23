package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/techkaran9/AlgoTrader-India/internal/advisor"
	"github.com/techkaran9/AlgoTrader-India/internal/broker"
	"github.com/techkaran9/AlgoTrader-India/internal/config"
	cronrunner "github.com/techkaran9/AlgoTrader-India/internal/cron"
	"github.com/techkaran9/AlgoTrader-India/internal/db"
	"github.com/techkaran9/AlgoTrader-India/internal/handler"
	"github.com/techkaran9/AlgoTrader-India/internal/logger"
	gormrepository "github.com/techkaran9/AlgoTrader-India/internal/repository/gorm"
	"github.com/techkaran9/AlgoTrader-India/internal/risk"
	"github.com/techkaran9/AlgoTrader-India/internal/service"
)

func main() {
	cfgPath := os.Getenv("AT_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("AT_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	loc, err := time.LoadLocation(cfg.DB.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to UTC", zap.String("timezone", cfg.DB.Timezone), zap.Error(err))
		loc = time.UTC
	}

	store := gormrepository.New(dbConn.Gorm, loc)
	if err := service.SeedInstruments(context.Background(), store, logger); err != nil {
		logger.Warn("instrument seed failed", zap.Error(err))
	}

	gateway := broker.NewClient(cfg.Broker, store, logger)
	gate := &risk.Gate{Repo: store, Logger: logger, Loc: loc}
	executor := &service.StrategyExecutor{
		Repo:    store,
		Gateway: gateway,
		Gate:    gate,
		Logger:  logger,
	}
	monitor := &service.PositionMonitor{
		Repo:    store,
		Gateway: gateway,
		Logger:  logger,
	}
	advisorSvc := &advisor.Service{
		Completer: advisor.NewOpenAIClient(cfg.Advisor),
		Logger:    logger,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn}
	healthHandler.Register(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	strategyHandler := &handler.StrategyHandler{Repo: store, Executor: executor}
	strategyHandler.Register(engine)
	positionHandler := &handler.PositionHandler{Repo: store, Gateway: gateway}
	positionHandler.Register(engine)
	settingsHandler := &handler.SettingsHandler{Repo: store}
	settingsHandler.Register(engine)
	tradeHandler := &handler.TradeHandler{Repo: store}
	tradeHandler.Register(engine)
	logHandler := &handler.LogHandler{Repo: store}
	logHandler.Register(engine)
	advisorHandler := &handler.AdvisorHandler{Advisor: advisorSvc}
	advisorHandler.Register(engine)
	instrumentHandler := &handler.InstrumentHandler{Repo: store}
	instrumentHandler.Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Monitor.Enabled {
		interval := cfg.Monitor.Interval
		if interval <= 0 {
			interval = 5 * time.Second
		}
		spec := "@every " + interval.String()
		if _, err := cronRunner.Add(spec, monitor.TickAll); err != nil {
			logger.Warn("cron register position monitor failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,X-User-ID")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

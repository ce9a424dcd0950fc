package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/grenades-backend-go/internal/api"
	"github.com/jengzang/grenades-backend-go/internal/config"
	"github.com/jengzang/grenades-backend-go/internal/database"
	"github.com/jengzang/grenades-backend-go/internal/logging"
	"github.com/jengzang/grenades-backend-go/internal/middleware"
)

func main() {
	configFile := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a JSON or YAML config file")
	console := flag.Bool("console", false, "human readable logs")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configFile)
	if err != nil {
		bootLog := logging.NewConsole("info")
		bootLog.Fatal().Err(err).Msg("Failed to load config")
	}

	log := logging.New(cfg.LogLevel, os.Stdout)
	if *console {
		log = logging.NewConsole(cfg.LogLevel)
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化数据库
	db, err := database.Open(database.Config{Path: cfg.DBPath}, logging.Component(log, "database"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	migrator, err := database.NewMigrationManager(db, logging.Component(log, "migrations"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load migrations")
	}
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
	defer limiter.Stop()

	// 初始化路由
	svc := api.NewServices(db, cfg, log)
	router := api.SetupRouter(cfg, svc, limiter, logging.Component(log, "http"))

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	// 启动服务器
	log.Info().Str("port", cfg.Port).Msg("Server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
	log.Info().Msg("Server stopped")
}

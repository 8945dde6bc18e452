package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/intern-task-api/internal/config"
	"github.com/yukikurage/intern-task-api/internal/database"
	"github.com/yukikurage/intern-task-api/internal/handlers"
	"github.com/yukikurage/intern-task-api/internal/logger"
	"github.com/yukikurage/intern-task-api/internal/repository"
	"github.com/yukikurage/intern-task-api/internal/router"
	"github.com/yukikurage/intern-task-api/internal/services"
	"github.com/yukikurage/intern-task-api/internal/storage"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "optional path to a config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Connect to database
	db, err := database.Connect(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(db, zlog); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}

	uploads, err := storage.NewLocalStorage(cfg.Upload.Root)
	if err != nil {
		zlog.Fatal("Failed to prepare upload storage", zap.Error(err))
	}

	store := repository.NewStore(db)
	tokens := services.NewTokenService(cfg.Auth)
	users := services.NewUserService(store, uploads, zlog)

	r := router.New(router.Deps{
		Logger:      zlog,
		Auth:        services.NewAuthService(users, tokens, zlog),
		Users:       users,
		Tasks:       services.NewTaskService(store, uploads, zlog),
		TaskDetails: services.NewTaskDetailService(store, zlog),
		Cookies: handlers.CookieConfig{
			Secure: cfg.Auth.CookieSecure,
			Domain: cfg.Auth.CookieDomain,
		},
		MaxUploadBytes: cfg.Upload.MaxSizeMB << 20,
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zlog.Info("Server starting", zap.String("addr", addr), zap.String("db_driver", cfg.Database.Driver))
	if err := r.Run(addr); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}
}

package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"skillstreak/internal/api"
	"skillstreak/internal/middleware"
	"skillstreak/internal/repository"
	"skillstreak/internal/service"
	"skillstreak/internal/timer"
	"skillstreak/pkg/auth"
	"skillstreak/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		zapLogger.Fatal("Failed to create upload dir", zap.Error(err))
	}

	jwtAuth := auth.NewJWTAuth(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hub := api.NewHub()
	sessions := timer.NewManager()

	userService := service.NewUserService(repo, jwtAuth)
	categoryService := service.NewCategoryService(repo)
	sessionService := service.NewSessionService(repo, sessions, hub)
	practiceService := service.NewPracticeService(repo, sessions, hub)
	achievementService := service.NewAchievementService(repo)
	rewardService := service.NewRewardService(repo, cfg.RewardCatalog(), hub)
	messageService := service.NewMessageService(repo, hub)

	adminOnly := middleware.NewAuthorization(userService)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(rateLimiter.Handler())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"*"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	router.Static("/uploads", cfg.Uploads.Dir)

	a := router.Group("/api/v1")
	api.NewUserRoutes(a, userService, jwtAuth)
	api.NewCategoryRoutes(a, categoryService, jwtAuth, adminOnly)
	api.NewPracticeRoutes(a, practiceService, jwtAuth, cfg.Uploads.Dir)
	api.NewAchievementRoutes(a, achievementService, jwtAuth, adminOnly)
	api.NewRewardRoutes(a, rewardService, jwtAuth)
	api.NewMessageRoutes(a, messageService, jwtAuth)
	api.NewSessionRoutes(a, sessionService, jwtAuth)
	api.NewWSRoutes(a, hub, jwtAuth)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}

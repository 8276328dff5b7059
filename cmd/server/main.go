package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"core/internal/config"
	"core/internal/handler"
	"core/internal/logger"
	"core/internal/repository"
	"core/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Logging.JSON, cfg.Logging.Debug)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("starting lead qualifier",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer repo.Close()

	zlog.Info("connected to PostgreSQL database")

	// Initialize the model extraction path
	var extractor service.ModelExtractor
	if cfg.OpenAI.Enabled {
		extractor = service.NewOpenAIClient(&cfg.OpenAI, zlog)
		zlog.Info("model extractor initialized",
			zap.String("api_base", cfg.OpenAI.APIBase),
			zap.String("chat_model", cfg.OpenAI.ChatModel),
			zap.Int("timeout_s", cfg.OpenAI.Timeout),
		)
	} else {
		zlog.Warn("model extractor disabled, qualification will use the heuristic path only; set OPENAI_API_KEY to enable it")
	}

	// Initialize services
	heuristic := service.NewHeuristicExtractor(zlog)
	qualifier := service.NewQualifier(heuristic, extractor, zlog)
	matcher := service.NewMatcher(repo, cfg.Matching.TopK, zlog)

	// Initialize handlers
	qualifyHandler := handler.NewQualifyHandler(qualifier, matcher, repo)
	matchHandler := handler.NewMatchHandler(matcher, repo)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "lead-qualifier",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/qualify", qualifyHandler.Qualify)
		apiV1.POST("/sessions/:id/qualify", qualifyHandler.QualifySession)

		apiV1.POST("/match", matchHandler.Match)
		apiV1.GET("/properties/:id", matchHandler.GetProperty)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	zlog.Info("starting server", zap.String("addr", addr))

	go func() {
		if err := router.Run(addr); err != nil {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
}

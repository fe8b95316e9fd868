package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/docker/docker/client"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/codecoffee/judge/internal/adapter/docker/codeexecutor"
	"github.com/codecoffee/judge/internal/adapter/logging"
	"github.com/codecoffee/judge/internal/adapter/postgres/problemrepository"
	"github.com/codecoffee/judge/internal/adapter/postgres/submissionrepository"
	"github.com/codecoffee/judge/internal/adapter/redis/submissionqueue"
	"github.com/codecoffee/judge/internal/config"
	"github.com/codecoffee/judge/internal/core/services/judge"
	"github.com/codecoffee/judge/internal/core/services/submission"
	http2 "github.com/codecoffee/judge/internal/http"
	"github.com/codecoffee/judge/internal/workerpool"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sysCfg := config.NewSystemConfig()
	logger := logging.NewZapLogger(sysCfg.DebugMode)
	defer logger.Sync()
	logger.Info("Starting judge service")

	db, err := setupDatabase(sysCfg.PostgresConfig)
	if err != nil {
		logger.Error("Failed to set up database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password,
		DB:       sysCfg.RedisConfig.DB,
	})
	defer redisClient.Close()

	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		logger.Error("Failed to create sandbox client", "error", err)
		os.Exit(1)
	}
	defer dockerClient.Close()

	// SECONDARY PORTS
	problemRepo := problemrepository.NewProblemRepository(db, logger)
	submissionRepo := submissionrepository.NewSubmissionRepository(db, logger)
	queue := submissionqueue.NewQueue(redisClient, sysCfg.JudgeConfig.QueuePopTimeout, logger)
	executorFactory := codeexecutor.NewFactory(dockerClient, sysCfg.JudgeConfig, logger)

	// services
	judgeSvc := judge.NewJudgeService(problemRepo, submissionRepo, executorFactory, sysCfg.JudgeConfig, logger)
	submissionSvc := submission.NewSubmissionService(problemRepo, submissionRepo, queue, executorFactory, logger)

	pool := workerpool.NewWorkerPool(queue, judgeSvc, sysCfg.JudgeConfig, logger)
	pool.Start()

	serviceProvider := http2.NewServiceProvider(submissionSvc, pool, executorFactory.SupportedLanguages())
	httpServer := http2.NewServer(sysCfg.ServerConfig.Port, sysCfg.ServerConfig.ServiceName, *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		logger.Error("Failed to initialize http server", "error", err)
		os.Exit(1)
	}
	httpServer.Start(context.Background())

	<-quit
	logger.Info("Shutting down server...")

	pool.Stop()
	httpServer.Stop()

	logger.Info("successfully shutdown server")
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func InitReader() {
	if len(os.Args) < 2 {
		return // environment comes from the process env
	}
	environment := os.Args[1]
	if err := godotenv.Load(environment + ".env"); err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}

package main

import (
	"codecourse/internal/api"
	"codecourse/internal/app/executor"
	"codecourse/internal/app/service"
	"codecourse/internal/app/worker"
	"codecourse/internal/common/security"
	"codecourse/internal/domain/repository"
	"codecourse/internal/platform/config"
	"codecourse/internal/platform/database"
	"codecourse/internal/platform/logger"
	"codecourse/internal/platform/queue"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

func main() {
	// 1. Load Configuration
	config.Load()
	cfg := config.AppConfig
	log := logger.New(cfg.Env, cfg.LogLevel)
	log.Info().Str("env", cfg.Env).Str("execution_mode", cfg.ExecutionMode).Msg("Configuration loaded")

	// 2. Initialize JWT
	security.InitJWT(cfg.JWTKey, cfg.JWTExp)

	// 3. Initialize Database
	database.Connect(log)
	defer database.Close(log)

	// 4. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	courseRepo := repository.NewPgCourseRepository(database.DB)
	exerciseRepo := repository.NewPgExerciseRepository(database.DB)

	// 5. Initialize the sandbox
	exec, err := executor.New(executor.Options{
		Env:       cfg.ExecutionEnv,
		Image:     cfg.ExecutionImage,
		Timeout:   time.Duration(cfg.ExecutionTimeoutSeconds) * time.Second,
		RemoteURL: cfg.RemoteExecutorURL,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up executor")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	// 6. Runs go inline, or through Redis to the execution worker.
	var dispatcher service.Dispatcher = service.NewInlineDispatcher(exec)
	if cfg.UseQueue() {
		queue.ConnectRedis(log)
		defer queue.CloseRedis(log)

		resultTTL := time.Duration(cfg.ExecutionResultTTL) * time.Second
		jobRepo := repository.NewRedisExecutionJobRepository(queue.RDB, resultTTL)
		dispatcher = service.NewExecutionJobService(jobRepo, queue.RDB, cfg.ExecutionQueueName,
			time.Duration(cfg.ExecutionWaitSeconds)*time.Second, log)

		executionWorker := worker.NewExecutionWorker(queue.RDB, jobRepo, exec, worker.Options{
			QueueName: cfg.ExecutionQueueName,
			LockKey:   cfg.ExecutionLockKey,
			LockTTL:   time.Duration(cfg.ExecutionLockTTLSeconds) * time.Second,
		}, log)
		g.Go(func() error { return executionWorker.Start(gctx) })
	}

	// 7. Initialize Services
	var gen service.TextGenerator
	if cfg.GeminiAPIKey != "" {
		gen = service.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey)
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set; AI endpoints will report not configured")
	}

	services := api.Services{
		Auth:     service.NewAuthService(userRepo, log),
		Course:   service.NewCourseService(courseRepo, exerciseRepo, log),
		Exercise: service.NewExerciseService(courseRepo, exerciseRepo, log),
		Run:      service.NewRunService(dispatcher, log),
		AI:       service.NewAIService(gen, log),
	}

	// 8. Initialize Router & HTTP Server
	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           api.NewRouter(services, cfg.CORSOrigins, log),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g.Go(func() error {
		log.Info().Str("port", cfg.APIPort).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 9. Graceful Shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		return
	}
	log.Info().Msg("Server and worker stopped gracefully")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/jpillora/backoff"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/pipeline"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/scheduler"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/transport"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/workerhost"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/modules/dashboard/handlers"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/modules/dashboard/repositories"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/modules/dashboard/services"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/chart-pipeline-be/cmd/chart-api/docs"
)

// @title Chart Pipeline API
// @version 1.0
// @description Dashboard chart computation: aggregation and chart options compiled by a worker host
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	// Load config
	cfg := config.LoadConfig()
	logger := utils.InitLogger(cfg.LogLevel)
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("🚀 Starting chart-api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init database
	db, err := database.NewDB(cfg.DatabaseURL, !cfg.IsProduction(), logger)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Database unavailable")
	}
	defer db.Close()

	// Init repositories (use GORM instance)
	projectRepo := repositories.NewProjectRepo(db.GORM)
	dataSourceRepo := repositories.NewDataSourceRepo(db.GORM)
	widgetRepo := repositories.NewWidgetRepo(db.GORM)

	// Init worker host pipeline
	client := connectWorkerHost(ctx, cfg, logger)
	defer client.Close()

	// Init LLM service (chart summaries)
	llmService, err := llm.NewService(logger)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to load LLM config")
	}

	// Init services
	chartService, err := services.NewChartService(client, projectRepo, dataSourceRepo, widgetRepo, llmService, cfg.ChartCacheSize, cfg.ChartTimeout, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize chart service")
	}

	if cfg.DefaultDataSourceID != "" {
		if err := chartService.WarmSource(ctx, cfg.DefaultDataSourceID); err != nil {
			log.Warn().Err(err).Str("data_source_id", cfg.DefaultDataSourceID).Msg("⚠️  Failed to warm default data source")
		}
	}

	// Scheduled refresh of the active data source
	if cfg.SourceRefreshSchedule != "" {
		sched := scheduler.New(logger)
		if err := sched.ScheduleRefresh(cfg.SourceRefreshSchedule, cfg.ChartTimeout, chartService); err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to schedule source refresh")
		}
		sched.Start()
		defer sched.Stop()
	}

	// Init handlers
	chartHandler := handlers.NewChartHandler(chartService)
	healthHandler := handlers.NewHealthHandler(chartService)

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Chart Pipeline API",
	})

	// Middleware
	app.Use(cors.New())

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, chartHandler, healthHandler)

	go func() {
		<-ctx.Done()
		log.Info().Msg("🛑 Shutting down chart-api...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Info().Str("port", cfg.Port).Msg("✅ chart-api ready")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("❌ Server stopped")
	}
}

// connectWorkerHost runs the worker host in-process unless WORKER_HOST_URL points to a remote one.
// An unreachable remote host leaves the API up without a pipeline until a redial succeeds.
func connectWorkerHost(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *pipeline.Client {
	if cfg.WorkerHostURL == "" {
		caller, host := transport.NewPipe()
		go func() {
			if err := workerhost.Serve(ctx, host, logger); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("❌ In-process worker host stopped")
			}
		}()
		log.Info().Msg("🧮 Worker host running in-process")
		return pipeline.NewClient(caller, logger)
	}

	dial := func(ctx context.Context) (transport.Conn, error) {
		dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		conn, err := transport.Dial(dialCtx, cfg.WorkerHostURL, logger)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}

	client := pipeline.NewClient(nil, logger)
	if conn, err := dial(ctx); err != nil {
		log.Error().Err(err).Str("url", cfg.WorkerHostURL).Msg("⚠️  Worker host unreachable, charts disabled until it answers")
	} else {
		log.Info().Str("url", cfg.WorkerHostURL).Msg("🔌 Connected to worker host")
		client = pipeline.NewClient(conn, logger)
	}

	go keepConnected(ctx, client, dial, &backoff.Backoff{Min: time.Second, Max: 30 * time.Second, Factor: 2, Jitter: true}, logger)
	return client
}

type dialFunc func(ctx context.Context) (transport.Conn, error)

// keepConnected re-dials the worker host whenever the client's connection drops.
// It returns when ctx ends or the client is closed.
func keepConnected(ctx context.Context, client *pipeline.Client, dial dialFunc, retry *backoff.Backoff, logger zerolog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-client.Done():
		}
		if ctx.Err() != nil {
			return
		}

		conn, err := dial(ctx)
		if err != nil {
			wait := retry.Duration()
			logger.Warn().Err(err).Dur("retry_in", wait).Msg("⚠️  Worker host redial failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
			continue
		}

		if err := client.Attach(conn); err != nil {
			return
		}
		retry.Reset()
		logger.Info().Msg("🔌 Reconnected to worker host")
	}
}

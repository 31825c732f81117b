package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/readingtracker/internal/config"
	"github.com/mrlokans/readingtracker/internal/exporters"
	http_controllers "github.com/mrlokans/readingtracker/internal/http"
	"github.com/mrlokans/readingtracker/internal/logger"
	"github.com/mrlokans/readingtracker/internal/metadata"
	"github.com/mrlokans/readingtracker/internal/scheduler"
	"github.com/mrlokans/readingtracker/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT; SIGKILL can't be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Dur("timeout", timeout).Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener goes away
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown")
	}

	log.Info().Msg("Server exiting")
}

func Run(cfg *config.Config, version string) {
	logger.Setup(cfg.Log)
	log.Info().Str("version", version).Msg("Starting reading tracker")

	if cfg.Global.ShutdownTimeoutInSeconds <= 0 {
		cfg.Global.ShutdownTimeoutInSeconds = 2
	}
	if !cfg.Tracker.EnforceStatusTransitions {
		log.Info().Msg("Book detail status updates ignore the transition table; set ENFORCE_STATUS_TRANSITIONS=true to enforce it")
	}

	app, err := Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open tracker")
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			Attempts:        cfg.Tasks.MaxRetries,
			Backoff:         cfg.Tasks.RetryDelay,
			Timeout:         cfg.Tasks.TaskTimeout,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
			KeepFor:         cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize task queue")
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing task client")
			}
		}()

		taskClient.Register(
			tasks.NewPurgeStaleDraftsQueue(app.Reviews),
			tasks.NewPurgeBookDraftsQueue(app.Reviews),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Draft cleanup goes through the queue when there is one
	var queue scheduler.Enqueuer
	if taskClient != nil {
		queue = taskClient
	}
	cleanup := scheduler.NewDraftCleanupScheduler(cfg.DraftCleanup, app.Reviews, queue)
	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	if err := cleanup.Start(schedCtx); err != nil {
		log.Error().Err(err).Msg("Draft cleanup scheduler not started")
	}

	routerCfg := http_controllers.RouterConfig{
		Books:                    app.Books,
		Reviews:                  app.Reviews,
		Insights:                 app.Insights,
		Motivations:              app.Motivations,
		EnforceStatusTransitions: cfg.Tracker.EnforceStatusTransitions,
		Notes:                    exporters.NewCollector(app.Books, app.Reviews, app.Insights, app.Motivations),
		Database:                 app.DB,
		Scheduler:                cleanup,
		DraftPurger:              app.Reviews,
		DraftRetention:           cfg.DraftCleanup.Retention,
		Version:                  version,
	}
	if taskClient != nil {
		routerCfg.TaskQueue = taskClient
	}
	if cfg.Metadata.Enabled {
		client := metadata.NewClient(
			metadata.WithBaseURL(cfg.Metadata.BaseURL),
			metadata.WithHTTPClient(&http.Client{Timeout: cfg.Metadata.Timeout}),
		)
		routerCfg.Metadata = client
		routerCfg.Enricher = metadata.NewEnricher(client, app.Books)
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		cleanup.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

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

	"github.com/mrlokans/giftags/internal/audit"
	"github.com/mrlokans/giftags/internal/config"
	"github.com/mrlokans/giftags/internal/database"
	http_controllers "github.com/mrlokans/giftags/internal/http"
	"github.com/mrlokans/giftags/internal/logger"
	"github.com/mrlokans/giftags/internal/scheduler"
	"github.com/mrlokans/giftags/internal/services"
	"github.com/mrlokans/giftags/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Dur("timeout", timeout).Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop accepting requests before the stores behind them go away
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown")
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Info().Msg("Server exiting")
}

func Run(cfg *config.Config, version string) {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("version", version).Msg("Starting gif tags service")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Refusing to start")
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	gifTags := services.NewGifTagService(db)

	routerCfg := http_controllers.RouterConfig{
		GifTags:  gifTags,
		Database: db,
		Cleaner:  db,
		Version:  version,
	}

	if cfg.Audit.Dir != "" {
		routerCfg.Auditor = audit.NewAuditor(cfg.Audit.Dir)
		log.Info().Str("dir", cfg.Audit.Dir).Msg("Auditing tag changes")
	}

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		// The queue keeps its own sqlite file next to DATABASE_PATH, whichever driver serves the main store
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize task queue")
		}

		taskClient.Register(tasks.NewCleanupOrphanTagsQueue(db))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		taskClient.Start(taskCtx)

		routerCfg.TaskQueue = taskClient
	}

	var cleanupScheduler *scheduler.TagCleanupScheduler
	if cfg.TagCleanup.Enabled {
		var enqueuer scheduler.CleanupEnqueuer
		if taskClient != nil {
			enqueuer = taskClient
		}
		cleanupScheduler = scheduler.NewTagCleanupScheduler(cfg.TagCleanup.Schedule, db, enqueuer)
		if err := cleanupScheduler.Start(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to start tag cleanup scheduler")
		}
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
			if err := taskClient.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing task client")
			}
		}
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}

	Serve(router, cfg, onShutdown)
}

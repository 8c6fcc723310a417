package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/imgpipe/images-ms-go/internal/cache"
	"github.com/imgpipe/images-ms-go/internal/config"
	"github.com/imgpipe/images-ms-go/internal/db"
	"github.com/imgpipe/images-ms-go/internal/handler/api"
	"github.com/imgpipe/images-ms-go/internal/logger"
	cMiddleware "github.com/imgpipe/images-ms-go/internal/middleware"
	"github.com/imgpipe/images-ms-go/internal/port"
	"github.com/imgpipe/images-ms-go/internal/renderer"
	"github.com/imgpipe/images-ms-go/internal/repository/mariadb"
	"github.com/imgpipe/images-ms-go/internal/storage"
	"github.com/imgpipe/images-ms-go/internal/task"
	"github.com/imgpipe/images-ms-go/internal/transcoder"
	"github.com/imgpipe/images-ms-go/internal/usecase/pipeline"
	idkit "github.com/imgpipe/images-ms-go/internal/uuid"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)

	r := initRouter(ctx, cfg.JWTPublicKey)

	strg := initStorage(ctx, cfg)
	trans := transcoder.NewTranscoder(strg.StagingDir())

	artifactRepo := mariadb.NewArtifactRepository(database.DB)
	var ca port.Cache
	var dispatcher port.TaskDispatcher
	if cfg.RedisAddr != "" {
		ca = cache.NewCache(cfg.RedisAddr, cfg.RedisPassword)
		dispatcher = task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		logger.Info(ctx, "✅  Redis cache enabled")
	} else {
		ca = cache.NewNoop()
		dispatcher = task.NewNoopDispatcher()
		logger.Warn(ctx, "⚠️  Redis not configured — caching is disabled")
	}

	uploadSvc, err := pipeline.NewUploadProcessor(
		strg, trans, idkit.NewUUID,
		cfg.Options(), cfg.MaxUploadSizeBytes, int64(cfg.MaxConcurrentTransforms),
	)
	if err != nil {
		logger.Errorf(ctx, "❌  Invalid processing defaults: %v", err)
		os.Exit(1)
	}
	r.Post("/uploads", api.UploadHandler(uploadSvc, artifactRepo, cfg.Options()))

	getArtifactSvc := pipeline.NewArtifactGetter(artifactRepo)
	rendererSvc := renderer.NewHTTPRenderer(ca)
	r.With(cMiddleware.WithArtifactID()).
		Get("/artifacts/{id}", api.GetArtifactHandler(rendererSvc, getArtifactSvc))

	deleteArtifactSvc := pipeline.NewArtifactDeleter(artifactRepo, ca, strg)
	r.With(cMiddleware.WithArtifactID()).
		Delete("/artifacts/{id}", api.DeleteArtifactHandler(deleteArtifactSvc))

	r.With(cMiddleware.WithArtifactID()).
		Post("/artifacts/{id}/rebuild_thumbnail", api.RebuildThumbnailHandler(dispatcher))

	// published files are immutable, so clients may cache them hard
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(strg.PublicDir()))))

	listenRouter(ctx, r, cfg, database)
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")

	database, err := db.New(cfg.MariaDBDSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}

	return database
}

func initRouter(ctx context.Context, jwtKey string) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(cMiddleware.WithServiceAuth(jwtKey))

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	return r
}

func initStorage(ctx context.Context, cfg *config.Settings) *storage.LocalStore {
	strg, err := storage.NewLocalStore(cfg.DataDir)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize local store: %v", err)
		os.Exit(1)
	}

	return strg
}

func listenRouter(ctx context.Context, r *chi.Mux, cfg *config.Settings, database *db.Database) {
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.ServerPort), Handler: r}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	if err := database.Close(); err != nil {
		logger.Errorf(ctx, "DB close error: %v", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"forkify/internal/api"
	"forkify/internal/app"
	"forkify/internal/config"
	"forkify/internal/platform/cache"
	"forkify/internal/platform/forkify"
	"forkify/internal/platform/images"
	"forkify/internal/storage"
	"forkify/internal/view"
)

var (
	configDir string
	verbose   bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "forkify",
	Short: "Search recipes, plan servings, and keep a shopping list",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configDir)
		if err != nil {
			return err
		}
		logger, err = newLogger(cfg.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory containing config.json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// newRecipeClient builds the API client with Redis caching when configured
// and an in-memory cache otherwise.
func newRecipeClient(ctx context.Context) (*forkify.Client, func(), error) {
	var (
		ch      cache.Cache
		cleanup = func() {}
	)
	if cfg.RedisAddr != "" {
		rc, err := cache.DialRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		ch = rc
		cleanup = func() { rc.Close() }
	} else {
		mc := cache.NewMemoryCache()
		mc.StartJanitor(ctx, time.Minute)
		ch = mc
	}

	client := forkify.NewClient(cfg.APIBaseURL,
		forkify.WithRateLimit(cfg.APIRateLimit, cfg.APIBurst),
		forkify.WithCache(ch, cfg.CacheTTL),
		forkify.WithLogger(logger.Named("recipe-api")),
	)
	return client, cleanup, nil
}

func runServe(ctx context.Context) error {
	client, closeCache, err := newRecipeClient(ctx)
	if err != nil {
		return fmt.Errorf("error creating recipe client: %w", err)
	}
	defer closeCache()

	store, err := storage.NewSQLStore(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("error creating store: %w", err)
	}
	defer store.Close()

	thumbs := images.NewThumbnailer(filepath.Join(cfg.ImagesDir, "likes"), "/images/likes")

	application := app.New(client, store,
		app.WithThumbnailer(thumbs),
		app.WithPerPage(cfg.ResultsPerPage),
		app.WithLogger(logger.Named("app")),
	)
	if err := application.Restore(ctx); err != nil {
		return fmt.Errorf("error restoring state: %w", err)
	}

	handler := api.NewHandler(application, cfg.RequestTimeout, logger.Named("http"))
	r := setupRouter(handler, cfg.AllowedOrigins, logger)
	r.Static("/images", cfg.ImagesDir)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupRouter(handler *api.Handler, origins []string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.SetHTMLTemplate(view.Templates())
	handler.Register(r)
	return r
}

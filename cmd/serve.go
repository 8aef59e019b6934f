package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"migration-verifier/core/config"
	"migration-verifier/core/loader"
	"migration-verifier/core/logger"
	"migration-verifier/core/metrics"
	"migration-verifier/core/middleware/auth"
	"migration-verifier/core/middleware/rayid"
	"migration-verifier/core/report"
	"migration-verifier/core/storage"
	"migration-verifier/core/store"
	"migration-verifier/feature/integrity"
	"migration-verifier/feature/verify"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the verification HTTP server",
	Long: `Starts the HTTP server exposing reconciliation runs (POST /runs,
GET /runs/latest), dependency checks (GET /integrity) and Prometheus
metrics (GET /metrics).`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return &ExitError{Code: ExitFatal, Err: fmt.Errorf("failed to load config: %w", err)}
	}
	if err := cfg.Validate(); err != nil {
		return &ExitError{Code: ExitFatal, Err: fmt.Errorf("invalid configuration: %w", err)}
	}

	// 2. Initialize Logger
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return &ExitError{Code: ExitFatal, Err: fmt.Errorf("failed to initialize logger: %w", err)}
	}
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	// 3. Build the engine; runs are cancelled on shutdown
	source, target, err := openStores(cfg)
	if err != nil {
		return &ExitError{Code: ExitFatal, Err: err}
	}
	engine, err := buildEngine(cfg, source, target, logg)
	if err != nil {
		return &ExitError{Code: ExitFatal, Err: err}
	}

	// Object storage is only needed by the s3 sink
	var client storage.Client
	if cfg.Report.Sink == report.SinkS3 {
		if client, err = storage.NewClient(cfg.Storage); err != nil {
			return &ExitError{Code: ExitFatal, Err: fmt.Errorf("failed to create storage client: %w", err)}
		}
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()

	// 4. Initialize Fiber App
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true, // We will log our own startup message
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	// 5. Initialize Feature Loader
	mgr := loader.NewManager()
	mgr.Register(verify.NewFeature(ctx, engine, logg))
	mgr.Register(integrity.NewFeature([]store.Store{source, target}, client, cfg.Storage.Bucket, logg))

	// Middleware Registration
	// 1. RayID (Must be first to trace everything)
	app.Use(rayid.New())

	// 2. Logging Middleware (Zap + RayID)
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		start := time.Now()
		err := c.Next()
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("elapsed", time.Since(start)),
		}
		if err != nil {
			l.Error("Request error", append(fields, zap.Error(err))...)
			return err
		}
		l.Info("Request handled", fields...)
		return nil
	})

	// 3. Auth (Protect API, metrics stay scrapeable)
	app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{"/metrics"}}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 6. Load Features
	if err := mgr.LoadAll(app); err != nil {
		return &ExitError{Code: ExitFatal, Err: err}
	}

	// 7. Start Server
	listenErr := make(chan error, 1)
	go func() {
		logg.Info("Starting server",
			zap.String("port", cfg.Server.Port),
			zap.Strings("features", mgr.Loaded()),
		)
		listenErr <- app.Listen(cfg.Server.Address())
	}()

	// 8. Graceful Shutdown
	select {
	case err := <-listenErr:
		return &ExitError{Code: ExitFatal, Err: fmt.Errorf("server failed: %w", err)}
	case <-ctx.Done():
	}

	logg.Info("Shutting down server...")
	timeout := time.Duration(cfg.Server.ShutdownSeconds) * time.Second
	if err := app.ShutdownWithTimeout(timeout); err != nil {
		logg.Warn("Server shutdown incomplete", zap.Error(err))
	}
	return nil
}

package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"reconciler/core/config"
	"reconciler/core/database"
	"reconciler/core/loader"
	"reconciler/core/logger"
	"reconciler/core/metrics"
	"reconciler/core/middleware/auth"
	"reconciler/core/middleware/rayid"
	"reconciler/core/queue"
	"reconciler/core/staging"
	"reconciler/core/storage"

	"reconciler/feature/integrity"
	"reconciler/feature/reconciliation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "reconciler/docs/swagger"
)

// @title Reconciler API
// @version 1.0
// @description API for reconciling source and target datasets under typed rulesets.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the reconciliation server",
	Long:  `Starts the HTTP server, the job processor and the stale job sweeper.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Required, jobs and results live there)
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := reconciliation.Migrate(db); err != nil {
			logg.Fatal("Failed to migrate database", zap.Error(err))
		}
		logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

		// 4. Initialize Staging (object staging needs the storage bucket)
		var store storage.Client
		if cfg.Staging.Driver == staging.DriverObject {
			store, err = storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			if err := storage.EnsureBucket(context.Background(), store, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
				logg.Fatal("Failed to prepare storage bucket", zap.Error(err))
			}
		}
		stager, err := staging.New(cfg.Staging, store, cfg.Storage.Bucket)
		if err != nil {
			logg.Fatal("Failed to create stager", zap.Error(err))
		}

		// 5. Job Pipeline
		m := metrics.New()
		qcfg := cfg.Queue.WithDefaults()
		q := queue.NewFromConfig(qcfg)
		repo := reconciliation.NewRepository(db)
		processor := reconciliation.NewProcessor(repo, q, stager, m, logg, qcfg)
		jobs := reconciliation.NewManager(repo, q, processor, m, logg)
		jobs.Start(context.Background())

		sweeper := reconciliation.NewSweeper(repo, m, logg, qcfg)
		if err := sweeper.Start(); err != nil {
			logg.Fatal("Failed to start sweeper", zap.Error(err))
		}

		svc := reconciliation.NewService(repo, jobs, stager, logg)

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		mgr := loader.NewManager(logg)
		mgr.Register(reconciliation.NewFeature(svc))
		mgr.Register(integrity.NewFeature(db, repo, stager, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation and Metrics (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", m.Handler())

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("address", cfg.Server.Address()))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
		sweeper.Stop()
		if err := jobs.Stop(); err != nil {
			logg.Warn("Job processor did not stop cleanly", zap.Error(err))
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"switchyard/internal/config"
	"switchyard/internal/domain"
	"switchyard/internal/handler"
	"switchyard/internal/hub"
	"switchyard/internal/metrics"
	"switchyard/internal/natspub"
	"switchyard/internal/repository/sqlite"
	"switchyard/internal/service"
	"switchyard/internal/watcher"
	"switchyard/internal/worker"
)

func main() {
	// Command line flags override the config file
	addr := flag.String("addr", "", "HTTP listen address")
	dbPath := flag.String("db", "", "SQLite database path")
	configPath := flag.String("config", "", "config file path")
	seedPath := flag.String("seed", "", "YAML seed file applied at startup")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting switchyard server...")

	// Load configuration
	var (
		cfg       *config.Config
		cfgSource string
		err       error
	)
	if *configPath != "" {
		cfg, cfgSource, err = config.LoadFromPath(*configPath)
	} else {
		cfg, cfgSource, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfgSource != "" {
		log.Printf("Config loaded from %s", cfgSource)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	log.Println(cfg.Summary())

	// Initialize SQLite repository
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer repo.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	// Initialize event bus
	eventBus := service.NewEventBus()

	// Background context for the SSE hub and the seed watcher
	appCtx, appCancel := context.WithCancel(context.Background())

	// Initialize SSE hub
	sseHub := hub.New()
	go sseHub.Run(appCtx)

	// Connect event bus to SSE hub
	eventChan := make(chan domain.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for event := range eventChan {
			sseHub.Broadcast(event)
		}
	}()

	// Optional NATS publishing. A broken broker never stops the server.
	var publisher *natspub.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = natspub.New(cfg.NATS.URL)
		if err != nil {
			log.Printf("Warning: NATS publishing disabled: %v", err)
			publisher = nil
		} else {
			natsChan := make(chan domain.Event, 100)
			eventBus.Subscribe(natsChan)
			go publisher.Run(natsChan)
		}
	}

	// Initialize services
	clock := domain.SystemClock{}
	deploymentSvc := service.NewDeploymentService(repo, eventBus, clock)
	lifecycleSvc := service.NewLifecycleService(repo, eventBus, clock, domain.MathRandomness{})
	telemetrySvc := service.NewTelemetryService(repo, clock)
	analyticsSvc := service.NewAnalyticsService(repo, clock)

	// Apply seed deployments before the workers start, then keep the
	// file watched so edits are picked up without a restart.
	if *seedPath != "" {
		if err := applySeeds(context.Background(), deploymentSvc, *seedPath); err != nil {
			log.Fatalf("Failed to apply seed file: %v", err)
		}

		seedWatcher := watcher.New(*seedPath, func() {
			if err := applySeeds(context.Background(), deploymentSvc, *seedPath); err != nil {
				log.Printf("Failed to re-apply seed file: %v", err)
			}
		})
		go func() {
			if err := seedWatcher.Watch(appCtx); err != nil && err != context.Canceled {
				log.Printf("Seed watcher stopped: %v", err)
			}
		}()
	}

	// Start background workers
	runner := worker.NewRunner()
	if err := runner.Register("lifecycle", cfg.Workers.LifecycleInterval.Duration(), lifecycleSvc.Tick); err != nil {
		log.Fatalf("Failed to register lifecycle worker: %v", err)
	}
	if err := runner.Register("telemetry", cfg.Workers.TelemetryInterval.Duration(), telemetrySvc.Tick); err != nil {
		log.Fatalf("Failed to register telemetry worker: %v", err)
	}
	runner.Start(context.Background())

	// Initialize HTTP handlers
	deploymentHandler := handler.NewDeploymentHandler(deploymentSvc)
	telemetryHandler := handler.NewTelemetryHandler(telemetrySvc, analyticsSvc)
	healthHandler := handler.NewHealthHandler(repo, runner)

	// Setup routes
	mux := http.NewServeMux()

	// Deployment endpoints
	mux.HandleFunc("POST /api/deployments", deploymentHandler.Create)
	mux.HandleFunc("GET /api/deployments", deploymentHandler.List)
	mux.HandleFunc("GET /api/deployments/{id}", deploymentHandler.Get)
	mux.HandleFunc("DELETE /api/deployments/{id}", deploymentHandler.Delete)
	mux.HandleFunc("GET /api/deployments/{id}/nodes", deploymentHandler.ListNodes)
	mux.HandleFunc("GET /api/deployments/{id}/events", deploymentHandler.ListEvents)
	mux.HandleFunc("GET /api/deployments/{id}/export", deploymentHandler.Export)

	// Telemetry endpoints
	mux.HandleFunc("GET /api/deployments/{id}/telemetry", telemetryHandler.ListTelemetry)
	mux.HandleFunc("GET /api/deployments/{id}/bottlenecks", telemetryHandler.DetectBottlenecks)

	// SSE events endpoint
	mux.Handle("GET /api/events", sseHub)

	// Operational endpoints
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /{$}", healthHandler.ServiceInfo)

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS(cfg.Server.CORSOrigin),
		handler.Logger,
	)

	// Create server. No WriteTimeout: /api/events holds its connection open.
	server := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     finalHandler,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop workers first so no tick starts against a closing database
	runner.Stop()

	// Disconnect SSE clients and the seed watcher
	appCancel()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	if publisher != nil {
		publisher.Close()
	}

	log.Println("Server stopped")
}

// applySeeds creates any deployments from the seed file that don't exist
// yet. Names already present are skipped, so re-applying is safe.
func applySeeds(ctx context.Context, svc *service.DeploymentService, path string) error {
	seeds, err := config.LoadSeeds(path)
	if err != nil {
		return err
	}

	for _, seed := range seeds {
		created, err := svc.ApplySeed(ctx, service.CreateDeploymentInput{
			Name:            seed.Name,
			Description:     seed.Description,
			TargetNodeCount: seed.TargetNodeCount,
		})
		if err != nil {
			log.Printf("Failed to apply seed %s: %v", seed.Name, err)
			continue
		}
		if created {
			log.Printf("Seeded deployment %s with %d nodes", seed.Name, seed.TargetNodeCount)
		} else {
			log.Printf("Seed %s already exists, skipping", seed.Name)
		}
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/modelfactory/mes/internal/adapters/httpapi"
	"github.com/modelfactory/mes/internal/adapters/persistence"
	"github.com/modelfactory/mes/internal/adapters/simal"
	"github.com/modelfactory/mes/internal/application/bom"
	identityapp "github.com/modelfactory/mes/internal/application/identity"
	invapp "github.com/modelfactory/mes/internal/application/inventory"
	mdapp "github.com/modelfactory/mes/internal/application/masterdata"
	ordersapp "github.com/modelfactory/mes/internal/application/orders"
	"github.com/modelfactory/mes/internal/application/scheduler"
	"github.com/modelfactory/mes/internal/application/sysconfig"
	"github.com/modelfactory/mes/internal/domain/scheduling"
	"github.com/modelfactory/mes/internal/domain/shared"
	"github.com/modelfactory/mes/internal/infrastructure/config"
	"github.com/modelfactory/mes/internal/infrastructure/database"
	"github.com/modelfactory/mes/internal/infrastructure/seed"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: search ., ./configs, /etc/mes)")
	seedFlag := flag.Bool("seed", false, "Seed master data, demo stock and users before serving")
	flag.Parse()

	fmt.Println("Model Factory MES")
	fmt.Println("=================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configPath)
	fmt.Printf("Profile: %s\n", cfg.Profile)

	if err := run(cfg, *seedFlag); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config, seedData bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Database
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	fmt.Println("Database connected")

	// 2. Repositories and units of work
	orderUoW := persistence.NewGormOrderUnitOfWork(db)
	inventoryUoW := persistence.NewGormInventoryUnitOfWork(db)
	masterdataRepo := persistence.NewGormMasterDataRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	configStore := persistence.NewGormConfigStore(db)

	// 3. Application services
	clock := shared.NewRealClock()

	inventoryService := invapp.NewService(inventoryUoW, clock)
	masterdataService := mdapp.NewService(masterdataRepo, mdapp.DefaultBOMCacheTTL, clock)
	identityService := identityapp.NewService(userRepo, cfg.Auth.SigningSecret, cfg.Auth.TokenTTL, clock)
	configService := sysconfig.NewService(configStore)
	resolver := bom.NewResolver(masterdataService)

	// 4. Scheduling engine client
	var schedulingClient scheduling.Client
	switch cfg.Scheduler.Mode {
	case "http":
		fmt.Printf("Using SimAL scheduling service at %s\n", cfg.Scheduler.BaseURL)
		schedulingClient = simal.NewClientWithConfig(
			cfg.Scheduler.BaseURL,
			cfg.Scheduler.Timeout,
			cfg.Scheduler.RateLimit.Requests,
			cfg.Scheduler.RateLimit.Burst,
		)
	default:
		fmt.Println("Using in-process mock scheduler (configure scheduler.mode=http for SimAL)")
		schedulingClient = simal.NewMockScheduler(masterdataService, clock)
	}
	planner := scheduler.NewAdapterWithRetry(
		schedulingClient, clock,
		cfg.Scheduler.Retry.MaxAttempts, cfg.Scheduler.Retry.BackoffBase, cfg.Scheduler.Timeout,
	)

	orderService := ordersapp.NewService(orderUoW, inventoryService, masterdataService, resolver, planner, configService, clock)
	fmt.Println("Application services initialized")

	// 5. Optional startup overrides and seed data
	if cfg.Orders.LotSizeThreshold > 0 {
		if err := configService.SetLotSizeThreshold(ctx, cfg.Orders.LotSizeThreshold); err != nil {
			return fmt.Errorf("failed to apply lot size threshold override: %w", err)
		}
		fmt.Printf("Lot size threshold set to %d\n", cfg.Orders.LotSizeThreshold)
	}

	if seedData || cfg.Profile == "dev" {
		fmt.Println("Seeding master data, stock and users...")
		seeder := seed.NewSeeder(masterdataRepo, userRepo, inventoryService, clock)
		if err := seeder.Run(ctx); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
		fmt.Println("Seed complete")
	}

	// 6. HTTP server
	server := httpapi.NewServer(orderService, inventoryService, masterdataService, identityService, configService, httpapi.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestLog:     cfg.Logging.RequestLog,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	fmt.Printf("\nListening on %s\n", cfg.Server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx, srv, cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("http server error: %w", err)
	}

	fmt.Println("\nServer stopped")
	return nil
}

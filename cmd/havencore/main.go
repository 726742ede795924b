// Haven Core - open smart home platform
//
// This is the main entry point for the Haven Core application. It wires
// together the infrastructure (config, logging, SQLite, MQTT), the
// legacy extension registry, the supervisor client, the Info settings
// panel and the HTTP/WebSocket API, then waits for a shutdown signal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/havenhome/haven-core/migrations"

	"github.com/havenhome/haven-core/internal/api"
	"github.com/havenhome/haven-core/internal/extensions"
	"github.com/havenhome/haven-core/internal/infopanel"
	"github.com/havenhome/haven-core/internal/infrastructure/config"
	"github.com/havenhome/haven-core/internal/infrastructure/database"
	"github.com/havenhome/haven-core/internal/infrastructure/logging"
	"github.com/havenhome/haven-core/internal/infrastructure/mqtt"
	"github.com/havenhome/haven-core/internal/supervisor"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=2026.8.0 -X main.commit=abc123"
var (
	version      = "dev"     // Core semantic version (e.g., "2026.8.0")
	panelVersion = "dev"     // Frontend panel bundle version
	buildType    = "dev"     // "production" or "dev"
	commit       = "unknown" // Git commit hash
	date         = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Haven Core",
		"version", version,
		"panel_version", panelVersion,
		"build_type", buildType,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Initialise the legacy extension registry
	extRepo := extensions.NewSQLiteRepository(db.DB)
	extRegistry := extensions.NewRegistry(extRepo)
	extRegistry.SetLogger(log)

	if refreshErr := extRegistry.RefreshCache(ctx); refreshErr != nil {
		return fmt.Errorf("loading extension registry: %w", refreshErr)
	}
	log.Info("extension registry initialised", "extensions", extRegistry.Count())

	// Connect to MQTT broker (optional; extension announcements arrive here)
	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		if listenErr := extensions.ListenAnnouncements(mqttClient, extRegistry, log); listenErr != nil {
			return fmt.Errorf("subscribing to extension announcements: %w", listenErr)
		}
		log.Info("listening for extension announcements", "topic", mqtt.TopicExtensionAnnounce)
	} else {
		log.Info("MQTT disabled; extension announcements will not be received")
	}

	// Supervisor client (inert on installations without a supervisor)
	supClient := supervisor.New(cfg.Supervisor)
	log.Info("supervisor client initialised", "available", supClient.Available())

	// Info settings panel
	panel, err := infopanel.New(infopanel.Deps{
		Platform: cfg.Platform,
		Build: infopanel.BuildInfo{
			CoreVersion:  version,
			PanelVersion: panelVersion,
			BuildType:    buildType,
		},
		Supervisor: supClient,
		Extensions: extRegistry,
		Logger:     log,
	})
	if err != nil {
		return fmt.Errorf("creating info panel: %w", err)
	}
	if mountErr := panel.Mount(ctx); mountErr != nil {
		return fmt.Errorf("mounting info panel: %w", mountErr)
	}
	defer func() {
		log.Info("closing info panel")
		panel.Close()
	}()

	// HTTP/WebSocket API
	apiServer, err := api.New(api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  log,
		Panel:   panel,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error stopping API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	// Verify infrastructure is healthy
	if err := healthCheck(ctx, db, supClient, apiServer); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// API server, info panel, MQTT (if enabled), database

	log.Info("Haven Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses HAVEN_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HAVEN_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - sup: Supervisor client (inert when unavailable)
//   - apiServer: API server to check
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, sup *supervisor.Client, apiServer *api.Server) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := sup.HealthCheck(ctx); err != nil {
		return fmt.Errorf("supervisor: %w", err)
	}

	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"innkeep/internal/api"
	"innkeep/internal/config"
	"innkeep/internal/database"
	"innkeep/internal/domain"
	"innkeep/internal/events"
	"innkeep/internal/google"
	"innkeep/internal/logging"
	"innkeep/internal/metrics"
	"innkeep/internal/notify"
	"innkeep/internal/repository"
	"innkeep/internal/service"
	"innkeep/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	yamlv2 "gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, inv, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := initDatabase(cfg, inv, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, roomsCache := initRoomsCache(ctx, cfg, &logger)

	sheetsService := initGoogleSheets(ctx, cfg, &logger)

	var exportWorker *worker.ExportWorker
	if sheetsService != nil {
		retryPolicy := worker.RetryPolicy{MaxRetries: 5, InitialDelay: 2 * time.Second, MaxDelay: time.Minute, BackoffFactor: 2}
		exportWorker = worker.NewExportWorker(db, sheetsService, redisClient, retryPolicy, &logger)
		go exportWorker.Start(ctx)
	}

	notifier := initNotifier(cfg, &logger)

	eventBus := events.NewEventBus()
	subscribeBookingEvents(eventBus, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	var syncWorker domain.SyncWorker
	if exportWorker != nil {
		syncWorker = exportWorker
	}
	bookingService := service.NewBookingService(db, eventBus, syncWorker, notifier, &logger)

	cacheTTL := time.Duration(cfg.Cache.RoomsTTLSeconds) * time.Second
	httpServer := api.NewHTTPServer(cfg.API, bookingService, roomsCache, cacheTTL, &logger)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("reservation API started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("reservation API stopped")
	return nil
}

func loadConfigAndLogger() (*config.Config, config.Inventory, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, config.Inventory{}, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, config.Inventory{}, zerolog.Logger{}, nil, err
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	inventoryPath := os.Getenv("INVENTORY_PATH")
	if inventoryPath == "" {
		inventoryPath = cfg.Database.InventoryPath
	}
	inventoryData, err := os.ReadFile(inventoryPath)
	if err != nil {
		logger.Error().Err(err).Msgf("failed to read %s", inventoryPath)
		return nil, config.Inventory{}, zerolog.Logger{}, closer, err
	}

	var inv config.Inventory
	if err := yamlv2.Unmarshal(inventoryData, &inv); err != nil {
		logger.Error().Err(err).Msg("failed to parse inventory file")
		return nil, config.Inventory{}, zerolog.Logger{}, closer, err
	}

	if err := config.ValidateInventory(inv); err != nil {
		logger.Error().Err(err).Msg("inventory validation failed")
		return nil, config.Inventory{}, zerolog.Logger{}, closer, err
	}

	return cfg, inv, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg == nil {
		return os.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("failed to create database directory")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("failed to create exports directory")
		return err
	}
	return nil
}

func initDatabase(cfg *config.Config, inv config.Inventory, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize database")
		return nil, err
	}

	if err := db.SeedInventory(context.Background(), inv.RoomTypes, inv.Rooms); err != nil {
		logger.Error().Err(err).Msg("failed to seed inventory")
		return nil, err
	}
	return db, nil
}

// initRoomsCache builds the rooms cache: Redis primary with in-memory
// failover, or memory only when Redis is not configured.
func initRoomsCache(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, domain.RoomsCache) {
	memCache := repository.NewMemoryRoomsCache()

	if cfg.Redis.Address == "" {
		return nil, memCache
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable")
	}

	primary := repository.NewRedisRoomsCache(redisClient)
	return redisClient, repository.NewFailoverRoomsCache(primary, memCache, logger)
}

func initGoogleSheets(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.CredentialsFile == "" || cfg.Google.BookingsSpreadSheetID == "" {
		logger.Info().Msg("Google Sheets export disabled")
		return nil
	}

	sheetsSvc, err := google.NewSheetsService(cfg.Google.CredentialsFile, cfg.Google.BookingsSpreadSheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Google Sheets service")
		return nil
	}

	if err := sheetsSvc.TestConnection(ctx); err != nil {
		logger.Warn().Err(err).Msg("Google Sheets connection test failed")
		return nil
	}

	logger.Info().Msg("Google Sheets service initialized")
	return sheetsSvc
}

func initNotifier(cfg *config.Config, logger *zerolog.Logger) domain.Notifier {
	if !cfg.Telegram.Enabled {
		return nil
	}
	notifier, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize telegram notifier")
		return nil
	}
	return notifier
}

func subscribeBookingEvents(bus *events.EventBus, logger *zerolog.Logger) {
	bus.Subscribe(events.EventBookingCreated, func(event *events.Event) error {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			logger.Error().Err(err).Msg("bad booking event payload")
			return err
		}
		logger.Info().
			Int64("booking_id", payload.BookingID).
			Int64("room_type_id", payload.RoomTypeID).
			Int("rooms", len(payload.RoomIDs)).
			Int64("total", payload.Total).
			Msg("booking committed")
		return nil
	})
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

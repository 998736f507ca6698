package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fxsync/internal/adapters"
	"fxsync/internal/adapters/cache"
	"fxsync/internal/adapters/eximbank"
	"fxsync/internal/adapters/postgres"
	"fxsync/internal/adapters/sqlite"
	"fxsync/internal/api"
	"fxsync/internal/config"
	"fxsync/internal/domain"
	"fxsync/internal/platform/db"
	httpserver "fxsync/internal/platform/http"
	"fxsync/internal/rate"
	"fxsync/internal/rate/handler"

	"github.com/sirupsen/logrus"
)

const startupTimeout = 30 * time.Second

// storage is an opened rate database with both repositories bound to it.
type storage struct {
	current    adapters.CurrentRateRepository
	historical adapters.HistoricalRateRepository
	close      func()
}

// RunOnce performs a single sync in the given mode and closes everything it opened.
func RunOnce(ctx context.Context, configFile string, mode domain.SyncMode) (domain.BatchSummary, error) {
	appCfg, err := setup(configFile)
	if err != nil {
		return domain.BatchSummary{}, err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The source is built first so a missing credential fails before storage is touched.
	source, err := newSource(appCfg)
	if err != nil {
		return domain.BatchSummary{}, err
	}

	store, err := openStorage(ctx, appCfg)
	if err != nil {
		return domain.BatchSummary{}, err
	}
	defer store.close()

	syncer := newSyncer(appCfg, source, store)
	return syncer.Run(ctx, mode)
}

// Serve runs both syncs on their schedules and exposes the stored rates over
// HTTP until ctx is canceled or a termination signal arrives.
func Serve(ctx context.Context, configFile string) error {
	appCfg, err := setup(configFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := newSource(appCfg)
	if err != nil {
		return err
	}

	store, err := openStorage(ctx, appCfg)
	if err != nil {
		return err
	}
	defer store.close()

	probeCache, err := cache.NewProbeCache(appCfg.Cache.MaxItems)
	if err != nil {
		return err
	}
	defer probeCache.Close()
	logrus.Info("✅ Probe cache created")

	now := clock(appCfg)
	syncer := newSyncer(appCfg, rate.NewCachedSource(source, probeCache, now), store)

	scheduler := rate.NewScheduler(syncer, appCfg.Scheduler.CurrentCron, appCfg.Scheduler.HistoricalCron, appCfg.Sync.Location())
	// scheduler must stop before storage closes
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	logrus.Info("✅ Scheduler activation successful")

	rateHandler := handler.NewRateHandler(rate.NewValidator(now), rate.NewService(store.current, store.historical))
	router := api.NewRouter(rateHandler)

	logrus.Info("Starting http server")
	if serverErr := httpserver.NewServer(appCfg.HTTPServer, router).Run(ctx); serverErr != nil {
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}

func setup(configFile string) (*config.AppConfig, error) {
	appCfg, err := config.Init(configFile)
	if err != nil {
		return nil, err
	}
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(appCfg.Logging.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")
	return appCfg, nil
}

func newSource(appCfg *config.AppConfig) (*eximbank.Client, error) {
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	client, err := eximbank.NewClient(
		&http.Client{Timeout: httpTimeout},
		appCfg.ExchangeRateAPI.BaseURL,
		appCfg.ExchangeRateAPI.APIKey,
		appCfg.ExchangeRateAPI.DataCode,
	)
	if err != nil {
		logrus.WithError(err).Error("Failed to create rate source client")
		return nil, err
	}
	return client, nil
}

func newSyncer(appCfg *config.AppConfig, source adapters.RateSource, store *storage) *rate.Syncer {
	now := clock(appCfg)
	locator := rate.NewLocator(source, appCfg.Sync.MaxLookbackDays, now)
	window := domain.NewRetentionWindow(appCfg.Sync.RetentionDates)
	return rate.NewSyncer(
		locator,
		rate.NewCurrentStore(store.current),
		rate.NewHistoricalStore(store.historical, window),
		now,
	)
}

// clock reports the current time in the zone the provider publishes in.
func clock(appCfg *config.AppConfig) func() time.Time {
	loc := appCfg.Sync.Location()
	return func() time.Time { return time.Now().In(loc) }
}

func openStorage(ctx context.Context, appCfg *config.AppConfig) (*storage, error) {
	startupCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	switch appCfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
		if err != nil {
			logrus.WithError(err).Error("Error connecting to db")
			return nil, err
		}
		if err = db.MigratePostgres(startupCtx, pool); err != nil {
			pool.Close()
			logrus.WithError(err).Error("Error preparing db schema")
			return nil, err
		}
		logrus.Info("✅ Postgres connection successful")
		return &storage{
			current:    postgres.NewCurrentRateRepository(pool),
			historical: postgres.NewHistoricalRateRepository(pool),
			close:      pool.Close,
		}, nil
	case config.DriverSQLite:
		sqlDB, err := db.OpenSQLite(startupCtx, appCfg.Storage.SQLitePath)
		if err != nil {
			logrus.WithError(err).Error("Error opening db")
			return nil, err
		}
		if err = db.MigrateSQLite(startupCtx, sqlDB); err != nil {
			_ = sqlDB.Close()
			logrus.WithError(err).Error("Error preparing db schema")
			return nil, err
		}
		logrus.WithField("path", appCfg.Storage.SQLitePath).Info("✅ SQLite database ready")
		return &storage{
			current:    sqlite.NewCurrentRateRepository(sqlDB),
			historical: sqlite.NewHistoricalRateRepository(sqlDB),
			close:      closeSQLite(sqlDB),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", appCfg.Storage.Driver)
	}
}

func closeSQLite(sqlDB *sql.DB) func() {
	return func() {
		if err := sqlDB.Close(); err != nil {
			logrus.WithError(err).Warn("Error closing db")
		}
	}
}

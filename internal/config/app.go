package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type Storage struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type ExchangeRateAPI struct {
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	DataCode string `mapstructure:"data_code"`
}

type Sync struct {
	MaxLookbackDays int    `mapstructure:"max_lookback_days"`
	RetentionDates  int    `mapstructure:"retention_dates"`
	Timezone        string `mapstructure:"timezone"`
}

// Location resolves the time zone "today" is computed in. Init rejects zones
// that do not load, so the local fallback only serves an unset value.
func (s Sync) Location() *time.Location {
	if s.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

type Scheduler struct {
	CurrentCron    string `mapstructure:"current_cron"`
	HistoricalCron string `mapstructure:"historical_cron"`
}

type Cache struct {
	MaxItems int64 `mapstructure:"max_items"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	HTTPServer      HTTPServer      `mapstructure:"http_server"`
	DbServer        DbServer        `mapstructure:"db_server"`
	Storage         Storage         `mapstructure:"storage"`
	HTTPClient      HTTPClient      `mapstructure:"http_client"`
	ExchangeRateAPI ExchangeRateAPI `mapstructure:"exchange_rate_api"`
	Sync            Sync            `mapstructure:"sync"`
	Scheduler       Scheduler       `mapstructure:"scheduler"`
	Cache           Cache           `mapstructure:"cache"`
	Logging         Logging         `mapstructure:"logging"`
}

// Init reads configuration from .env, an optional yaml file and the environment.
// Both files are optional; the environment wins over the file.
func Init(configFile string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		// a file that was asked for has to exist
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	bindEnv(v)

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	switch cfg.Storage.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
	if cfg.Sync.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Sync.Timezone); err != nil {
			return nil, fmt.Errorf("invalid sync timezone %q: %w", cfg.Sync.Timezone, err)
		}
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", "8080")
	v.SetDefault("db_server.max_conns", 10)
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "exchange_rate.db")
	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("exchange_rate_api.base_url", "https://oapi.koreaexim.go.kr/site/program/financial/exchangeJSON")
	v.SetDefault("exchange_rate_api.data_code", "AP01")
	v.SetDefault("sync.max_lookback_days", 10)
	v.SetDefault("sync.retention_dates", 730)
	v.SetDefault("sync.timezone", "Asia/Seoul")
	v.SetDefault("scheduler.current_cron", "*/30 9-17 * * 1-5")
	v.SetDefault("scheduler.historical_cron", "30 18 * * *")
	v.SetDefault("cache.max_items", 256)
	v.SetDefault("logging.level", "info")
}

func bindEnv(v *viper.Viper) {
	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	_ = v.BindEnv("storage.driver", "STORAGE_DRIVER")
	_ = v.BindEnv("storage.sqlite_path", "SQLITE_PATH")

	// http client env vars
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	_ = v.BindEnv("exchange_rate_api.base_url", "EXCHANGE_RATE_API_BASE_URL")
	_ = v.BindEnv("exchange_rate_api.api_key", "EXCHANGE_RATE_API_KEY")
	_ = v.BindEnv("exchange_rate_api.data_code", "EXCHANGE_RATE_API_DATA_CODE")

	_ = v.BindEnv("sync.max_lookback_days", "SYNC_MAX_LOOKBACK_DAYS")
	_ = v.BindEnv("sync.retention_dates", "SYNC_RETENTION_DATES")
	_ = v.BindEnv("sync.timezone", "SYNC_TIMEZONE")

	_ = v.BindEnv("scheduler.current_cron", "SCHEDULER_CURRENT_CRON")
	_ = v.BindEnv("scheduler.historical_cron", "SCHEDULER_HISTORICAL_CRON")

	_ = v.BindEnv("http_server.port", "HTTP_PORT")
	_ = v.BindEnv("cache.max_items", "CACHE_MAX_ITEMS")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
}

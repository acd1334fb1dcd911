package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
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
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable pool_max_conns=10",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type CurrencyBeacon struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type Backfill struct {
	Concurrency int `mapstructure:"concurrency"`
}

type Scheduler struct {
	JobDurationSec int `mapstructure:"job_duration_sec"`
}

type Cache struct {
	MaxItems int64 `mapstructure:"max_items"`
}

type AppConfig struct {
	HTTPServer     HTTPServer     `mapstructure:"http_server"`
	DbServer       DbServer       `mapstructure:"db_server"`
	HTTPClient     HTTPClient     `mapstructure:"http_client"`
	Logging        Logging        `mapstructure:"logging"`
	CurrencyBeacon CurrencyBeacon `mapstructure:"currency_beacon"`
	Backfill       Backfill       `mapstructure:"backfill"`
	Scheduler      Scheduler      `mapstructure:"scheduler"`
	Cache          Cache          `mapstructure:"cache"`
}

// Init reads config.yaml, an optional .env file and the environment, in increasing precedence.
func Init() (*AppConfig, error) {
	return Load("config.yaml")
}

func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetDefault("http_server.port", "8080")
	v.SetDefault("db_server.max_conns", 10)
	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("logging.level", "info")
	v.SetDefault("currency_beacon.base_url", "https://api.currencybeacon.com/v1")
	v.SetDefault("backfill.concurrency", 10)
	v.SetDefault("scheduler.job_duration_sec", 3600)
	v.SetDefault("cache.max_items", 10000)

	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// http client env vars
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	// providers
	_ = v.BindEnv("currency_beacon.base_url", "CURRENCY_BEACON_BASE_URL")
	_ = v.BindEnv("currency_beacon.api_key", "CURRENCY_BEACON_API_KEY")

	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("backfill.concurrency", "BACKFILL_CONCURRENCY")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &cfg, nil
}

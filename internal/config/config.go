package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config содержит все конфигурационные параметры приложения
type Config struct {
	Database    DatabaseConfig
	Store       StoreConfig
	WPAffiliate WPAffiliateConfig
	Site        SiteConfig
	App         AppConfig
	Metrics     MetricsConfig
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MigrationPath string
}

// StoreConfig определяет, куда сохраняются сгенерированные сущности
type StoreConfig struct {
	Driver string // postgres, memory
}

// WPAffiliateConfig содержит настройки подключения к таблицам плагина WP Affiliate
type WPAffiliateConfig struct {
	DSN string // пусто = основная база данных
}

// SiteConfig содержит настройки сайта, которые генераторы получают явно
type SiteConfig struct {
	URL              string
	Name             string
	DefaultRole      string
	EmailDomain      string
	RequireApproval  bool
	CurrencyDecimals int32
}

type AppConfig struct {
	Env      string
	LogLevel string
}

// MetricsConfig содержит настройки экспорта метрик
type MetricsConfig struct {
	TextfilePath string
}

// Load загружает конфигурацию из переменных окружения и .env
func Load() (*Config, error) {
	return LoadWithDriver("")
}

// LoadWithDriver загружает конфигурацию, заменяя STORE_DRIVER непустым driver
func LoadWithDriver(driver string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// Database
	cfg.Database.Host = getEnvDefault("DB_HOST", "localhost")
	cfg.Database.Port = getEnvIntDefault("DB_PORT", 5432)
	cfg.Database.User = os.Getenv("DB_USER")
	cfg.Database.Password = os.Getenv("DB_PASSWORD")
	cfg.Database.Name = os.Getenv("DB_NAME")
	cfg.Database.SSLMode = getEnvDefault("DB_SSL_MODE", "disable")
	cfg.Database.MigrationPath = os.Getenv("MIGRATION_PATH") // пусто = встроенные миграции

	// Store
	cfg.Store.Driver = getEnvDefault("STORE_DRIVER", DriverPostgres)
	if driver != "" {
		cfg.Store.Driver = driver
	}
	cfg.WPAffiliate.DSN = os.Getenv("WPAFFILIATE_DSN")

	// Site
	cfg.Site.URL = strings.TrimRight(getEnvDefault("SITE_URL", "http://localhost"), "/")
	cfg.Site.Name = getEnvDefault("SITE_NAME", "AffiliateWP")
	cfg.Site.DefaultRole = getEnvDefault("SITE_DEFAULT_ROLE", "subscriber")
	cfg.Site.EmailDomain = getEnvDefault("SITE_EMAIL_DOMAIN", "affwp.dev")
	cfg.Site.RequireApproval = getEnvBoolDefault("AFFILIATE_REQUIRE_APPROVAL", false)
	cfg.Site.CurrencyDecimals = int32(getEnvIntDefault("CURRENCY_DECIMALS", 2))

	// App
	cfg.App.Env = getEnvDefault("APP_ENV", "development")
	cfg.App.LogLevel = getEnvDefault("LOG_LEVEL", "info")

	// Metrics
	cfg.Metrics.TextfilePath = os.Getenv("METRICS_TEXTFILE")

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return cfg, nil
}

func getEnvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if config.Store.Driver != DriverPostgres && config.Store.Driver != DriverMemory {
		return fmt.Errorf("поддерживаются только STORE_DRIVER: postgres, memory")
	}
	if config.Store.Driver == DriverPostgres {
		if err := config.Database.Validate(); err != nil {
			return err
		}
	}
	if config.Site.URL == "" {
		return fmt.Errorf("SITE_URL не установлен")
	}
	if config.Site.DefaultRole == "" {
		return fmt.Errorf("SITE_DEFAULT_ROLE не установлен")
	}
	if config.Site.CurrencyDecimals < 0 || config.Site.CurrencyDecimals > 8 {
		return fmt.Errorf("CURRENCY_DECIMALS должен быть от 0 до 8")
	}

	return nil
}

// Validate проверяет параметры подключения к базе данных
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("DB_HOST не установлен")
	}
	if c.User == "" {
		return fmt.Errorf("DB_USER не установлен")
	}
	if c.Password == "" {
		return fmt.Errorf("DB_PASSWORD не установлен")
	}
	if c.Name == "" {
		return fmt.Errorf("DB_NAME не установлен")
	}
	return nil
}

// GetDSN возвращает строку подключения к базе данных
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// GetURL возвращает строку подключения в формате URL для database/sql
func (c *DatabaseConfig) GetURL() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// SiteURL возвращает адрес сайта с добавленным путем, как site_url(path)
func (c *SiteConfig) SiteURL(path string) string {
	if path == "" {
		return c.URL
	}
	return c.URL + "/" + strings.TrimLeft(path, "/")
}

// IsDevelopment проверяет, запущено ли приложение в режиме разработки
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction проверяет, запущено ли приложение в продакшн режиме
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// GetLogLevel возвращает уровень логирования в формате zap
func (c *AppConfig) GetLogLevel() zap.AtomicLevel {
	switch c.LogLevel {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}

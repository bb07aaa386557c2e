package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Переменные окружения, которые перекрывают секреты из файла
const (
	EnvDBPassword    = "RENTAL_DB_PASSWORD"
	EnvPaymentAPIKey = "RENTAL_PAYMENT_API_KEY"
	EnvFile          = ".env"
)

// ErrInvalidConfig возвращается, если конфигурация неполная
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Payment  PaymentConfig  `toml:"payment"`
	Breaker  BreakerConfig  `toml:"breaker"`
	Auth     AuthConfig     `toml:"auth"`
}

// ServerConfig HTTP сервер (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig подключение к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	MigrationsPath  string `toml:"migrations_path"`   // пусто - миграции не применяются
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.DBName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return dsn.String()
}

// LogsConfig логирование
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // пусто - только stdout
}

// MetricsConfig Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// PaymentConfig платежный провайдер
type PaymentConfig struct {
	URL        string `toml:"url"`
	APIKey     string `toml:"api_key"`
	Currency   string `toml:"currency"`
	SuccessURL string `toml:"success_url"`
	CancelURL  string `toml:"cancel_url"`
	Timeout    int    `toml:"timeout"` // секунды
}

// BreakerConfig circuit breaker платежного клиента (интервалы в секундах)
type BreakerConfig struct {
	MaxRequests         uint32 `toml:"max_requests"`
	Interval            int    `toml:"interval"`
	Timeout             int    `toml:"timeout"`
	ConsecutiveFailures uint32 `toml:"consecutive_failures"`
}

// AuthConfig доступ к офисным маршрутам
type AuthConfig struct {
	AdminUserIDs []int64 `toml:"admin_user_ids"`
}

// Load читает TOML файл, затем .env (если есть) и переменные окружения с секретами
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load %s: %w", EnvFile, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvDBPassword); ok {
		c.Database.Password = v
	}
	if v, ok := os.LookupEnv(EnvPaymentAPIKey); ok {
		c.Payment.APIKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "rental-service"
	}
	if c.Payment.Currency == "" {
		c.Payment.Currency = "pln"
	}
	if c.Payment.Timeout == 0 {
		c.Payment.Timeout = 10
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, "server.http_port must be in 1..65535")
	}
	if c.Database.Host == "" {
		problems = append(problems, "database.host is required")
	}
	if c.Database.Port <= 0 {
		problems = append(problems, "database.port is required")
	}
	if c.Database.User == "" {
		problems = append(problems, "database.user is required")
	}
	if c.Database.DBName == "" {
		problems = append(problems, "database.dbname is required")
	}
	if c.Payment.URL == "" {
		problems = append(problems, "payment.url is required")
	}
	if c.Payment.APIKey == "" {
		problems = append(problems, fmt.Sprintf("payment.api_key is required (or %s)", EnvPaymentAPIKey))
	}
	if c.Payment.SuccessURL == "" || c.Payment.CancelURL == "" {
		problems = append(problems, "payment.success_url and payment.cancel_url are required")
	}
	if len(c.Auth.AdminUserIDs) == 0 {
		problems = append(problems, "auth.admin_user_ids must list at least one user")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, problems)
	}
	return nil
}

// PaymentTimeout таймаут запроса к платежному провайдеру
func (c *Config) PaymentTimeout() time.Duration {
	return time.Duration(c.Payment.Timeout) * time.Second
}

// BreakerInterval период сброса счетчиков breaker
func (c *Config) BreakerInterval() time.Duration {
	return time.Duration(c.Breaker.Interval) * time.Second
}

// BreakerTimeout время в открытом состоянии
func (c *Config) BreakerTimeout() time.Duration {
	return time.Duration(c.Breaker.Timeout) * time.Second
}

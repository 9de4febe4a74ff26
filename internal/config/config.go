package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

var (
	// ErrInvalidConfig возвращается, когда обязательное значение не задано или вне допустимого диапазона
	ErrInvalidConfig = errors.New("invalid config")
)

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Redis      RedisConfig      `toml:"redis"`
	Scheduling SchedulingConfig `toml:"scheduling"`
	RateLimit  RateLimitConfig  `toml:"rate_limit"`
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
}

// LogsConfig логирование
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig Prometheus метрики
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// RedisConfig распределенная блокировка. Если выключено - блокировка внутри процесса.
type RedisConfig struct {
	Enabled         bool   `toml:"enabled"`
	Addr            string `toml:"addr"`
	Password        string `toml:"password"`
	DB              int    `toml:"db"`
	LockTTLMs       int    `toml:"lock_ttl_ms"`
	LockRetryMs     int    `toml:"lock_retry_ms"`
	LockWaitTimeout int    `toml:"lock_wait_timeout_ms"`
}

// SchedulingConfig параметры генерации слотов
type SchedulingConfig struct {
	SlotGranularityMinutes int   `toml:"slot_granularity_minutes"`
	DefaultWorkingDays     []int `toml:"default_working_days"` // 0 - воскресенье
}

// RateLimitConfig ограничение запросов на клиента
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	TTLSeconds        int     `toml:"ttl_seconds"`
}

// Load читает .env (если есть), подставляет ${ENV} в TOML и проверяет значения
func Load(path string) (*Config, error) {
	// .env необязателен: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	return Parse(os.ExpandEnv(string(data)))
}

// Parse разбирает TOML, применяет значения по умолчанию и валидирует
func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "schedule_service"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	if c.Redis.LockTTLMs == 0 {
		c.Redis.LockTTLMs = 5000
	}
	if c.Redis.LockRetryMs == 0 {
		c.Redis.LockRetryMs = 25
	}
	if c.Redis.LockWaitTimeout == 0 {
		c.Redis.LockWaitTimeout = 3000
	}

	if c.Scheduling.SlotGranularityMinutes == 0 {
		c.Scheduling.SlotGranularityMinutes = domain.DefaultSlotGranularityMinutes
	}

	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 20
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 40
	}
	if c.RateLimit.TTLSeconds == 0 {
		c.RateLimit.TTLSeconds = 600
	}
}

// Validate проверяет обязательные значения
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	}
	if c.Database.User == "" {
		return fmt.Errorf("%w: database.user is required", ErrInvalidConfig)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}

	g := c.Scheduling.SlotGranularityMinutes
	if g < domain.MinSlotGranularityMinutes || g > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: scheduling.slot_granularity_minutes must be in [%d, %d], got %d",
			ErrInvalidConfig, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes, g)
	}
	for _, d := range c.Scheduling.DefaultWorkingDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: scheduling.default_working_days must be in [0, 6], got %d", ErrInvalidConfig, d)
		}
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}

	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: rate_limit.requests_per_second must be positive", ErrInvalidConfig)
	}

	return nil
}

// DSN строка подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// WorkingDays дни недели для fallback рабочих часов; пустой список - понедельник-пятница
func (s SchedulingConfig) WorkingDays() []time.Weekday {
	if len(s.DefaultWorkingDays) == 0 {
		return domain.DefaultWorkingDays
	}
	days := make([]time.Weekday, len(s.DefaultWorkingDays))
	for i, d := range s.DefaultWorkingDays {
		days[i] = time.Weekday(d)
	}
	return days
}

// LockTTL время жизни ключа блокировки в Redis
func (r RedisConfig) LockTTL() time.Duration {
	return time.Duration(r.LockTTLMs) * time.Millisecond
}

// LockRetry интервал повторной попытки захвата
func (r RedisConfig) LockRetry() time.Duration {
	return time.Duration(r.LockRetryMs) * time.Millisecond
}

// LockWait сколько ждать блокировку до ConcurrentModification
func (r RedisConfig) LockWait() time.Duration {
	return time.Duration(r.LockWaitTimeout) * time.Millisecond
}

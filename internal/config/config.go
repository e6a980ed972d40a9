package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Режимы допуска бронирования
const (
	AdmissionRelaxed = "relaxed"
	AdmissionStrict  = "strict"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config корневая конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Redis         RedisConfig         `toml:"redis"`
	Booking       BookingConfig       `toml:"booking"`
	Notifications NotificationsConfig `toml:"notifications"`
	Twilio        TwilioConfig        `toml:"twilio"`
	Push          PushConfig          `toml:"push"`
	Auth          AuthConfig          `toml:"auth"`
	CORS          CORSConfig          `toml:"cors"`
	RateLimit     RateLimitConfig     `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

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

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type BookingConfig struct {
	Timezone                 string  `toml:"timezone"`
	ServiceFee               float64 `toml:"service_fee"`
	TaxRate                  float64 `toml:"tax_rate"`
	AdmissionMode            string  `toml:"admission_mode"`
	LockTTLMs                int     `toml:"lock_ttl_ms"`
	LockWaitMs               int     `toml:"lock_wait_ms"`
	EnforceStatusTransitions bool    `toml:"enforce_status_transitions"`
}

// Location часовой пояс, в котором считается "сегодня"
func (b BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

func (b BookingConfig) LockTTL() time.Duration {
	return time.Duration(b.LockTTLMs) * time.Millisecond
}

func (b BookingConfig) LockWait() time.Duration {
	return time.Duration(b.LockWaitMs) * time.Millisecond
}

type NotificationsConfig struct {
	Workers       int    `toml:"workers"`
	MaxAttempts   int    `toml:"max_attempts"`
	RetrySchedule string `toml:"retry_schedule"`
	QueueKey      string `toml:"queue_key"`
	RetryKey      string `toml:"retry_key"`
	BufferSize    int    `toml:"buffer_size"`
	BrandName     string `toml:"brand_name"`
	// код страны для номеров без "+"
	DefaultCountryCode string `toml:"default_country_code"`
}

type TwilioConfig struct {
	AccountSID  string `toml:"account_sid"`
	AuthToken   string `toml:"auth_token"`
	PhoneNumber string `toml:"phone_number"`
}

// Configured true, если заданы все реквизиты Twilio
func (t TwilioConfig) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.PhoneNumber != ""
}

type PushConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

type AuthConfig struct {
	AccessSecret string `toml:"access_secret"`
	AdminRole    string `toml:"admin_role"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Load читает TOML файл, подгружает .env (если есть) и применяет переменные окружения
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse разбирает конфигурацию из строки (без окружения)
func Parse(data string) (*Config, error) {
	cfg := defaults()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "carwash_service"},
		Redis:   RedisConfig{Addr: "localhost:6379"},
		Booking: BookingConfig{
			Timezone:      "UTC",
			ServiceFee:    3.00,
			TaxRate:       0.00,
			AdmissionMode: AdmissionRelaxed,
			LockTTLMs:     5000,
			LockWaitMs:    2000,
		},
		Notifications: NotificationsConfig{
			Workers:       2,
			MaxAttempts:   5,
			RetrySchedule: "@every 1m",
			QueueKey:      "carwash:notifications",
			RetryKey:      "carwash:notifications:retry",
			BufferSize:    256,
			BrandName:     "CarWash",

			DefaultCountryCode: "+91",
		},
		Push:      PushConfig{Timeout: 5},
		Auth:      AuthConfig{AdminRole: "admin"},
		RateLimit: RateLimitConfig{RequestsPerSecond: 10, Burst: 20},
	}
}

func applyEnv(cfg *Config) {
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Auth.AccessSecret, "JWT_ACCESS_SECRET")
	setString(&cfg.Twilio.AccountSID, "TWILIO_ACCOUNT_SID")
	setString(&cfg.Twilio.AuthToken, "TWILIO_AUTH_TOKEN")
	setString(&cfg.Twilio.PhoneNumber, "TWILIO_PHONE_NUMBER")
	setString(&cfg.Push.URL, "PUSH_GATEWAY_URL")

	if v := os.Getenv("HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.HTTPPort = port
		}
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = strings.Split(v, ",")
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate проверяет значения, без которых сервис не может стартовать
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range", ErrInvalidConfig)
	}
	if c.Database.MaxOpenConns <= 0 || c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("%w: database pool sizes must be positive", ErrInvalidConfig)
	}
	if c.Booking.AdmissionMode != AdmissionRelaxed && c.Booking.AdmissionMode != AdmissionStrict {
		return fmt.Errorf("%w: booking.admission_mode must be %q or %q",
			ErrInvalidConfig, AdmissionRelaxed, AdmissionStrict)
	}
	if c.Booking.TaxRate < 0 || c.Booking.TaxRate > 1 {
		return fmt.Errorf("%w: booking.tax_rate must be within [0, 1]", ErrInvalidConfig)
	}
	if c.Booking.ServiceFee < 0 {
		return fmt.Errorf("%w: booking.service_fee must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Booking.AdmissionMode == AdmissionStrict && c.Booking.LockTTLMs <= 0 {
		return fmt.Errorf("%w: booking.lock_ttl_ms must be positive in strict mode", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Auth.AccessSecret) == "" {
		return fmt.Errorf("%w: auth.access_secret (JWT_ACCESS_SECRET) must be set", ErrInvalidConfig)
	}
	if c.Auth.AdminRole == "" {
		return fmt.Errorf("%w: auth.admin_role must not be empty", ErrInvalidConfig)
	}
	if c.Notifications.Workers <= 0 || c.Notifications.MaxAttempts <= 0 {
		return fmt.Errorf("%w: notifications.workers and max_attempts must be positive", ErrInvalidConfig)
	}
	return nil
}

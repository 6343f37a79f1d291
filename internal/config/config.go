package config

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/Freeeeeet/dentist_booking_bot/internal/slots"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN         string `mapstructure:"DB_DSN"`
	Environment   string `mapstructure:"ENV"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	MigrationsDir string `mapstructure:"MIGRATIONS_DIR"`

	ClinicAPIURL     string        `mapstructure:"CLINIC_API_URL"`
	ClinicAPITimeout time.Duration `mapstructure:"CLINIC_API_TIMEOUT"`
	ClinicAPIRPS     float64       `mapstructure:"CLINIC_API_RPS"`
	ClinicAPIBurst   int           `mapstructure:"CLINIC_API_BURST"`
	ClinicAPIRetries uint64        `mapstructure:"CLINIC_API_RETRIES"`

	ClinicTimezone   string        `mapstructure:"CLINIC_TIMEZONE"`
	BookingWeekAlign string        `mapstructure:"BOOKING_WEEK_ALIGN"`
	EditWeekAlign    string        `mapstructure:"EDIT_WEEK_ALIGN"`
	SessionIdleTTL   time.Duration `mapstructure:"SESSION_IDLE_TTL"`

	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	DentistCacheTTL time.Duration `mapstructure:"DENTIST_CACHE_TTL"`

	HTTPAddr string `mapstructure:"HTTP_ADDR"`

	OTelEnabled       bool    `mapstructure:"OTEL_ENABLED"`
	OTelEndpoint      string  `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelSamplingRatio float64 `mapstructure:"OTEL_SAMPLING_RATIO"`
	ServiceName       string  `mapstructure:"SERVICE_NAME"`

	// Разобранные значения
	Location     *time.Location  `mapstructure:"-"`
	BookingAlign slots.Alignment `mapstructure:"-"`
	EditAlign    slots.Alignment `mapstructure:"-"`
}

var keys = []string{
	"TELEGRAM_TOKEN",
	"DB_DSN",
	"ENV",
	"LOG_LEVEL",
	"MIGRATIONS_DIR",
	"CLINIC_API_URL",
	"CLINIC_API_TIMEOUT",
	"CLINIC_API_RPS",
	"CLINIC_API_BURST",
	"CLINIC_API_RETRIES",
	"CLINIC_TIMEZONE",
	"BOOKING_WEEK_ALIGN",
	"EDIT_WEEK_ALIGN",
	"SESSION_IDLE_TTL",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"REDIS_DB",
	"DENTIST_CACHE_TTL",
	"HTTP_ADDR",
	"OTEL_ENABLED",
	"OTEL_EXPORTER_OTLP_ENDPOINT",
	"OTEL_SAMPLING_RATIO",
	"SERVICE_NAME",
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("CLINIC_API_TIMEOUT", 10*time.Second)
	v.SetDefault("CLINIC_API_RPS", 5)
	v.SetDefault("CLINIC_API_BURST", 10)
	v.SetDefault("CLINIC_API_RETRIES", 2)
	v.SetDefault("BOOKING_WEEK_ALIGN", string(slots.AlignMonday))
	v.SetDefault("EDIT_WEEK_ALIGN", string(slots.AlignAnchor))
	v.SetDefault("SESSION_IDLE_TTL", 30*time.Minute)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("DENTIST_CACHE_TTL", 5*time.Minute)
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("OTEL_SAMPLING_RATIO", 1.0)
	v.SetDefault("SERVICE_NAME", "dentist-booking-bot")

	// Без BindEnv Unmarshal не видит ключи без значения по умолчанию
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Printf("Config loaded (env=%s, timezone=%s)\n", cfg.Environment, cfg.Location)

	return cfg, nil
}

// Validate проверяет обязательные поля и разбирает пояс и выравнивания
func (c *Config) Validate() error {
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required but not set")
	}

	if c.ClinicAPIURL == "" {
		return fmt.Errorf("CLINIC_API_URL is required but not set")
	}
	u, err := url.Parse(c.ClinicAPIURL)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("CLINIC_API_URL must be an absolute URL, got %q", c.ClinicAPIURL)
	}

	// Пояс клиники не угадывается по часовому поясу сервера
	if c.ClinicTimezone == "" {
		return fmt.Errorf("CLINIC_TIMEZONE is required but not set")
	}
	loc, err := time.LoadLocation(c.ClinicTimezone)
	if err != nil {
		return fmt.Errorf("CLINIC_TIMEZONE: %w", err)
	}
	c.Location = loc

	if c.BookingAlign, err = slots.ParseAlignment(c.BookingWeekAlign); err != nil {
		return fmt.Errorf("BOOKING_WEEK_ALIGN: %w", err)
	}
	if c.EditAlign, err = slots.ParseAlignment(c.EditWeekAlign); err != nil {
		return fmt.Errorf("EDIT_WEEK_ALIGN: %w", err)
	}

	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	if c.SessionIdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be positive")
	}
	if c.OTelSamplingRatio < 0 || c.OTelSamplingRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLING_RATIO must be within [0, 1], got %v", c.OTelSamplingRatio)
	}

	return nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// IsProduction true для ENV=production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// RedisEnabled кэш справочника включается только при заданном REDIS_ADDR
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

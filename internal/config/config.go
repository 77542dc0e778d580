package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig      `toml:"server"`
	Database      DatabaseConfig    `toml:"database"`
	Logs          LogsConfig        `toml:"logs"`
	Metrics       MetricsConfig     `toml:"metrics"`
	TutorService  IntegrationConfig `toml:"tutor_service"`
	NotifyService IntegrationConfig `toml:"notify_service"`
	Razorpay      RazorpayConfig    `toml:"razorpay"`
	Booking       BookingConfig     `toml:"booking"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к БД
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// IntegrationConfig настройки внешнего HTTP сервиса
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// RazorpayConfig настройки платежного шлюза
type RazorpayConfig struct {
	URL       string `toml:"url"`
	KeyID     string `toml:"key_id"`
	KeySecret string `toml:"key_secret"`
	Timeout   int    `toml:"timeout"` // секунды
}

// BookingConfig бизнес-настройки бронирований
type BookingConfig struct {
	PlatformFeeRate        float64 `toml:"platform_fee_rate"`
	PendingTTLMinutes      int     `toml:"pending_ttl_minutes"`
	SweepIntervalMinutes   int     `toml:"sweep_interval_minutes"`
	MeetingLinkBaseURL     string  `toml:"meeting_link_base_url"`
	DefaultSlotDurationMin int     `toml:"default_slot_duration_minutes"`
}

// Load читает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if cfg.Booking.PlatformFeeRate == 0 {
		cfg.Booking.PlatformFeeRate = domain.DefaultPlatformFeeRate
	}
	if cfg.Booking.PendingTTLMinutes == 0 {
		cfg.Booking.PendingTTLMinutes = 30
	}
	if cfg.Booking.SweepIntervalMinutes == 0 {
		cfg.Booking.SweepIntervalMinutes = 5
	}
	if cfg.Booking.DefaultSlotDurationMin == 0 {
		cfg.Booking.DefaultSlotDurationMin = domain.DefaultSlotDurationMinutes
	}

	return &cfg, nil
}

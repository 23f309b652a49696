// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Printer PrinterConfig `mapstructure:"printer"`
	Logging LoggingConfig `mapstructure:"logging"`
	Audit   AuditConfig   `mapstructure:"audit"`
	App     AppConfig     `mapstructure:"app"`
}

// ServerConfig represents the admin HTTP API configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host" validate:"required"`
	Port         string        `mapstructure:"port" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	TLS          TLSConfig     `mapstructure:"tls"`
}

// TLSConfig represents TLS configuration for the admin API.
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// PrinterConfig represents the virtual printer's TCP listener configuration.
// Paper size is a renderer concern per spec.md §6 and is not observed by the
// parser core; it is configured here but not read by any component of this
// service (it only appears in the configuration logged at startup).
type PrinterConfig struct {
	Host         string        `mapstructure:"host" validate:"required"`
	Port         string        `mapstructure:"port" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	BufferSize   int           `mapstructure:"buffer_size"`
	PaperWidthMM int           `mapstructure:"paper_width_mm"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"required"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// AuditConfig represents the optional Postgres audit sink configuration.
// Per SPEC_FULL.md §10b this never persists receipt content — only
// connection metadata (session id, remote addr, byte/element counters,
// open/close timestamps) — so it never collides with the Non-goal of
// cross-restart receipt persistence.
type AuditConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	DBName       string        `mapstructure:"dbname"`
	SSLMode      string        `mapstructure:"sslmode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
	MigrationDir string        `mapstructure:"migration_dir"`
}

// AppConfig represents application metadata, including spec.md §6's single
// `debug` diagnostic-tracing flag.
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Version     string `mapstructure:"version" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required"`
	Debug       bool   `mapstructure:"debug"`
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("../../internal/config")

	viper.SetEnvPrefix("PRINTER_SERVICE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8084")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.tls.enabled", false)

	viper.SetDefault("printer.host", "0.0.0.0")
	viper.SetDefault("printer.port", "9100")
	viper.SetDefault("printer.read_timeout", "0s")
	viper.SetDefault("printer.write_timeout", "5s")
	viper.SetDefault("printer.buffer_size", 4096)
	viper.SetDefault("printer.paper_width_mm", 80)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
	viper.SetDefault("logging.max_size", 100)
	viper.SetDefault("logging.max_backups", 3)
	viper.SetDefault("logging.max_age", 28)
	viper.SetDefault("logging.compress", true)

	viper.SetDefault("audit.enabled", false)
	viper.SetDefault("audit.host", "localhost")
	viper.SetDefault("audit.port", 5432)
	viper.SetDefault("audit.user", "postgres")
	viper.SetDefault("audit.password", "postgres")
	viper.SetDefault("audit.dbname", "printer_audit")
	viper.SetDefault("audit.sslmode", "disable")
	viper.SetDefault("audit.max_open_conns", 10)
	viper.SetDefault("audit.max_idle_conns", 2)
	viper.SetDefault("audit.max_lifetime", "5m")
	viper.SetDefault("audit.migration_dir", "file://internal/audit/migrations")

	viper.SetDefault("app.name", "escpos-printer-service")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.debug", false)
}

func validate(config *Config) error {
	if config.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if config.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if config.Printer.Port == "" {
		return fmt.Errorf("printer.port is required")
	}

	validEnvs := []string{"development", "staging", "production", "test"}
	isValidEnv := false
	for _, env := range validEnvs {
		if config.App.Environment == env {
			isValidEnv = true
			break
		}
	}
	if !isValidEnv {
		return fmt.Errorf("app.environment must be one of: %v", validEnvs)
	}

	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	isValidLevel := false
	for _, level := range validLevels {
		if config.Logging.Level == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	if config.Audit.Enabled && config.Audit.Host == "" {
		return fmt.Errorf("audit.host is required when audit.enabled is true")
	}

	return nil
}

// GetAuditDSN returns the audit database connection string.
func (c *Config) GetAuditDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Audit.Host, c.Audit.Port, c.Audit.User,
		c.Audit.Password, c.Audit.DBName, c.Audit.SSLMode)
}

// GetServerAddr returns the admin API listen address.
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// GetPrinterAddr returns the printer TCP listener address.
func (c *Config) GetPrinterAddr() string {
	return fmt.Sprintf("%s:%s", c.Printer.Host, c.Printer.Port)
}

// IsProduction checks if the environment is production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment checks if the environment is development.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsDebugEnabled checks if debug mode (spec.md §6's trace flag) is enabled.
func (c *Config) IsDebugEnabled() bool {
	return c.App.Debug || c.IsDevelopment()
}

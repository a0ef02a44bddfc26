package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Email    EmailConfig    `mapstructure:"email"`
	Invoice  InvoiceConfig  `mapstructure:"invoice"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds sqlite configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// OpenAIConfig holds completion API configuration
type OpenAIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// EmailConfig holds the transactional email provider configuration
type EmailConfig struct {
	APIURL     string        `mapstructure:"api_url"`
	APIKey     string        `mapstructure:"api_key"`
	FromName   string        `mapstructure:"from_name"`
	FromEmail  string        `mapstructure:"from_email"`
	APITimeout time.Duration `mapstructure:"api_timeout"`
}

// InvoiceConfig holds invoicing behaviour configuration
type InvoiceConfig struct {
	DueDays int `mapstructure:"due_days"`
}

// StorageConfig holds file storage paths
type StorageConfig struct {
	UploadDir string `mapstructure:"upload_dir"`
	PDFDir    string `mapstructure:"pdf_dir"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	viper.SetDefault("database.path", "data/invoicing.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	viper.SetDefault("openai.model", "gpt-4o")
	viper.SetDefault("openai.temperature", 0.2)
	viper.SetDefault("openai.timeout", 60*time.Second)

	viper.SetDefault("email.api_url", "https://api.resend.com/emails")
	viper.SetDefault("email.from_name", "Invoices")
	viper.SetDefault("email.api_timeout", 30*time.Second)

	viper.SetDefault("invoice.due_days", 14)

	viper.SetDefault("storage.upload_dir", "data/uploads")
	viper.SetDefault("storage.pdf_dir", "data/pdfs")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

func bindEnvVars() {
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("email.api_key", "EMAIL_API_KEY")
	viper.BindEnv("email.from_email", "EMAIL_FROM_ADDRESS")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required")
	}
	if c.Email.APIKey == "" {
		return fmt.Errorf("email.api_key is required")
	}
	if c.Email.FromEmail == "" {
		return fmt.Errorf("email.from_email is required")
	}
	return nil
}

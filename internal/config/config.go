package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Auth     Auth     `mapstructure:"auth"`
	Market   Market   `mapstructure:"market"`
	Catalog  Catalog  `mapstructure:"catalog"`
	SMTP     SMTP     `mapstructure:"smtp"`
	Logger   Logger   `mapstructure:"logger"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Auth holds the token signing configuration.
type Auth struct {
	SecretKey       string `mapstructure:"secret_key"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`
}

// Market holds the configuration for the upstream market-data client.
type Market struct {
	QuoteBaseURL   string  `mapstructure:"quote_base_url"`
	CatalogURL     string  `mapstructure:"catalog_url"`
	IndicesURL     string  `mapstructure:"indices_url"`
	LogoBaseURL    string  `mapstructure:"logo_base_url"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// Catalog holds the configuration for the symbol catalog cache.
type Catalog struct {
	RefreshHours    int `mapstructure:"refresh_hours"`
	LogoConcurrency int `mapstructure:"logo_concurrency"`
}

// SMTP holds the configuration for outbound registration mail.
type SMTP struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	From string `mapstructure:"from"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("auth.token_ttl_minutes", 30)
	viper.SetDefault("market.quote_base_url", "https://query2.finance.yahoo.com")
	viper.SetDefault("market.catalog_url", "https://archives.nseindia.com/content/equities/EQUITY_L.csv")
	viper.SetDefault("market.indices_url", "https://www.nseindia.com/api/allIndices")
	viper.SetDefault("market.logo_base_url", "https://logo.clearbit.com")
	viper.SetDefault("market.rate_limit", 5) // requests per second
	viper.SetDefault("market.rate_limit_burst", 2)
	viper.SetDefault("market.timeout_seconds", 5)
	viper.SetDefault("catalog.refresh_hours", 24)
	viper.SetDefault("catalog.logo_concurrency", 32)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "json")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}

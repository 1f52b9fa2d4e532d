// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"log"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	BackendURL     string `mapstructure:"BACKEND_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	RedisURL string `mapstructure:"REDIS_URL"`

	GoogleAPIKey       string `mapstructure:"GOOGLE_API_KEY"`
	GeminiModel        string `mapstructure:"GEMINI_MODEL"`
	ReferenceImagePath string `mapstructure:"REFERENCE_IMAGE_PATH"`

	R2EndpointURL     string `mapstructure:"R2_ENDPOINT_URL"`
	R2AccessKeyID     string `mapstructure:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `mapstructure:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `mapstructure:"R2_BUCKET_NAME"`
	R2PublicURL       string `mapstructure:"R2_PUBLIC_URL"`

	SupabaseURL        string `mapstructure:"SUPABASE_URL"`
	SupabaseServiceKey string `mapstructure:"SUPABASE_SERVICE_KEY"`
	SupabaseBucket     string `mapstructure:"SUPABASE_BUCKET"`

	UploadDir string `mapstructure:"UPLOAD_DIR"`

	PostRateLimit         int `mapstructure:"POST_RATE_LIMIT"`
	PostRateWindowMinutes int `mapstructure:"POST_RATE_WINDOW_MINUTES"`
	APIRateLimit          int `mapstructure:"API_RATE_LIMIT"`
	APIRateWindowMinutes  int `mapstructure:"API_RATE_WINDOW_MINUTES"`

	TracingEnabled      bool   `mapstructure:"TRACING_ENABLED"`
	TracingExporter     string `mapstructure:"TRACING_EXPORTER"`
	TracingOTLPEndpoint string `mapstructure:"TRACING_OTLP_ENDPOINT"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if errors.As(err, &notFoundErr) {
			log.Println("Config file not found; using environment variables and defaults")
		} else {
			return nil, err
		}
	}

	// Set default values for development
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("BACKEND_URL", "")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "fatherhood")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("GEMINI_MODEL", "gemini-3-pro-image-preview")
	viper.SetDefault("REFERENCE_IMAGE_PATH", "reference.jpeg")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("POST_RATE_LIMIT", 10)
	viper.SetDefault("POST_RATE_WINDOW_MINUTES", 60)
	viper.SetDefault("API_RATE_LIMIT", 100)
	viper.SetDefault("API_RATE_WINDOW_MINUTES", 60)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("TRACING_OTLP_ENDPOINT", "localhost:4318")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet
// production standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.PostRateLimit < 1 || c.APIRateLimit < 1 {
		return errors.New("rate limits must be positive")
	}
	if c.PostRateWindowMinutes < 1 || c.APIRateWindowMinutes < 1 {
		return errors.New("rate limit windows must be positive")
	}

	if c.IsProduction() {
		if c.GoogleAPIKey == "" {
			return errors.New("GOOGLE_API_KEY is required in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	}

	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// UseR2 reports whether all S3-compatible (Cloudflare R2) credentials are set.
func (c *Config) UseR2() bool {
	return c.R2EndpointURL != "" && c.R2AccessKeyID != "" &&
		c.R2SecretAccessKey != "" && c.R2BucketName != "" && c.R2PublicURL != ""
}

// UseSupabase reports whether Supabase Storage credentials are set.
func (c *Config) UseSupabase() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceKey != "" && c.SupabaseBucket != ""
}

// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Default admin passkey; accepted only outside production.
const defaultAdminPasskey = "admin123"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	Env            string `mapstructure:"APP_ENV"`

	// Admin authentication. When ADMIN_PASSKEY_HASH (bcrypt) is set it takes
	// precedence over the plaintext ADMIN_PASSKEY comparison.
	AdminPasskey        string `mapstructure:"ADMIN_PASSKEY"`
	AdminPasskeyHash    string `mapstructure:"ADMIN_PASSKEY_HASH"`
	AdminSessionSecret  string `mapstructure:"ADMIN_SESSION_SECRET"`
	AdminSessionTTLHour int    `mapstructure:"ADMIN_SESSION_TTL_HOURS"`

	// Moderation / lifecycle knobs.
	RecycleRetentionDays int `mapstructure:"RECYCLE_RETENTION_DAYS"`
	ListDefaultLimit     int `mapstructure:"LIST_DEFAULT_LIMIT"`
	ListMaxLimit         int `mapstructure:"LIST_MAX_LIMIT"`

	// Filesystem locations for media and the archive side channel.
	UploadsDir    string `mapstructure:"UPLOADS_DIR"`
	ArchiveDir    string `mapstructure:"ARCHIVE_DIR"`
	ArchiveLogDir string `mapstructure:"ARCHIVE_LOG_DIR"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// Initial read to get APP_ENV if set in base config
	// We intentionally ignore this error as the config file may not exist yet
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	// Set default values for development
	viper.SetDefault("PORT", "8465")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "murmur")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("ADMIN_PASSKEY", defaultAdminPasskey)
	viper.SetDefault("ADMIN_PASSKEY_HASH", "")
	viper.SetDefault("ADMIN_SESSION_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("ADMIN_SESSION_TTL_HOURS", 12)
	viper.SetDefault("RECYCLE_RETENTION_DAYS", 7)
	viper.SetDefault("LIST_DEFAULT_LIMIT", 20)
	viper.SetDefault("LIST_MAX_LIMIT", 100)
	viper.SetDefault("UPLOADS_DIR", "./uploads")
	viper.SetDefault("ARCHIVE_DIR", "./archive")
	viper.SetDefault("ARCHIVE_LOG_DIR", "./archive_logs")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.AdminSessionSecret == "" {
		return errors.New("ADMIN_SESSION_SECRET is required")
	}
	if c.AdminPasskey == "" && c.AdminPasskeyHash == "" {
		return errors.New("ADMIN_PASSKEY or ADMIN_PASSKEY_HASH is required")
	}
	if c.RecycleRetentionDays <= 0 {
		return errors.New("RECYCLE_RETENTION_DAYS must be positive")
	}
	if c.ListDefaultLimit <= 0 || c.ListMaxLimit < c.ListDefaultLimit {
		return errors.New("LIST_DEFAULT_LIMIT and LIST_MAX_LIMIT must be positive with max >= default")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	// Strict checks for production
	if isProduction {
		if c.AdminSessionSecret == "your-secret-key-change-in-production" {
			return errors.New("ADMIN_SESSION_SECRET must be changed from the default value in production")
		}
		if len(c.AdminSessionSecret) < 32 {
			return errors.New("ADMIN_SESSION_SECRET must be at least 32 characters in production")
		}
		if c.AdminPasskeyHash == "" && c.AdminPasskey == defaultAdminPasskey {
			return errors.New("ADMIN_PASSKEY must be changed from the default value in production")
		}
		if c.AdminPasskeyHash == "" {
			log.Println("WARNING: ADMIN_PASSKEY is stored in plaintext. Set ADMIN_PASSKEY_HASH (bcrypt) in production.")
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
	} else {
		// Development/Test warnings
		if len(c.AdminSessionSecret) < 32 {
			log.Println("WARNING: ADMIN_SESSION_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
		}
	}

	return nil
}

// SessionTTLHours returns the configured admin session lifetime, defaulting to 12.
func (c *Config) SessionTTLHours() int {
	if c.AdminSessionTTLHour <= 0 {
		return 12
	}
	return c.AdminSessionTTLHour
}

// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// DefaultSessionSecret is the development-only signing secret. Production
// deployments must override it: the session cookie is signed with this
// value, so it has to stay stable across restarts or every deploy logs
// everyone out.
const DefaultSessionSecret = "pulog-dev-secret-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port          string `mapstructure:"PORT"`
	Env           string `mapstructure:"APP_ENV"`
	SessionSecret string `mapstructure:"SESSION_SECRET"`
	DBDriver      string `mapstructure:"DB_DRIVER"`
	DBPath        string `mapstructure:"DB_PATH"`
	DBHost        string `mapstructure:"DB_HOST"`
	DBPort        string `mapstructure:"DB_PORT"`
	DBUser        string `mapstructure:"DB_USER"`
	DBPassword    string `mapstructure:"DB_PASSWORD"`
	DBName        string `mapstructure:"DB_NAME"`
	DBSSLMode     string `mapstructure:"DB_SSLMODE"`
	UploadDir     string `mapstructure:"UPLOAD_DIR"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// Initial read to get APP_ENV if set in base config.
	// The config file may not exist yet, so this error is ignored.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, fmt.Errorf("failed to merge profile config 'config.%s.yml': %w", env, err)
			}
		} else {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	// Defaults for development.
	viper.SetDefault("PORT", "3000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("SESSION_SECRET", DefaultSessionSecret)
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_PATH", "blog.db")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "pulog")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("UPLOAD_DIR", "static/thumbnails")

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
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.DBDriver != "sqlite" && c.DBDriver != "postgres" {
		return fmt.Errorf("unsupported DB_DRIVER %q (expected sqlite or postgres)", c.DBDriver)
	}
	if c.UploadDir == "" {
		return errors.New("UPLOAD_DIR is required")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	// Strict checks for production.
	if isProduction {
		if c.SessionSecret == DefaultSessionSecret {
			return errors.New("SESSION_SECRET must be changed from the default value in production")
		}
		if len(c.SessionSecret) < 32 {
			return errors.New("SESSION_SECRET must be at least 32 characters in production")
		}
		if c.DBDriver == "postgres" && (c.DBPassword == "password" || c.DBPassword == "") {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBDriver == "postgres" && (c.DBSSLMode == "disable" || c.DBSSLMode == "") {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	} else {
		if len(c.SessionSecret) < 32 {
			log.Println("WARNING: SESSION_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
		}
	}

	return nil
}

// IsProduction reports whether the application runs with a production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

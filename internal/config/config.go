// Package config loads process-wide settings once at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config is built once and passed by value; nothing mutates it afterwards.
type Config struct {
	AppPort      string
	DatabaseURL  string
	AutoMigrate  bool
	JWTSecret    string
	JWTAlgorithm string
	TokenTTL     time.Duration
	CORSOrigins  []string
	BcryptCost   int
	RabbitMQURL  string
	LogLevel     string
	LogFormat    string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8000")
	v.SetDefault("DATABASE_URL", "sqlite:///accountd.db")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ALGORITHM", "HS256")
	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 60)
	v.SetDefault("CORS_ORIGINS", "")
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// New returns a viper instance reading defaults, an optional config file and
// the environment. A .env file is honoured when ENV=dev.
func New(configFile string) (*viper.Viper, error) {
	if os.Getenv("ENV") == "dev" {
		_ = godotenv.Load()
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}
	return v, nil
}

// Load validates the settings held by v and freezes them into a Config.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppPort:      v.GetString("APP_PORT"),
		DatabaseURL:  strings.TrimSpace(v.GetString("DATABASE_URL")),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
		JWTSecret:    v.GetString("JWT_SECRET"),
		JWTAlgorithm: strings.ToUpper(strings.TrimSpace(v.GetString("JWT_ALGORITHM"))),
		TokenTTL:     time.Duration(v.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES")) * time.Minute,
		CORSOrigins:  ParseOrigins(v.GetString("CORS_ORIGINS")),
		BcryptCost:   v.GetInt("BCRYPT_COST"),
		RabbitMQURL:  strings.TrimSpace(v.GetString("RABBITMQ_URL")),
		LogLevel:     v.GetString("LOG_LEVEL"),
		LogFormat:    v.GetString("LOG_FORMAT"),
	}

	var errs []error
	if cfg.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if _, ok := jwt.GetSigningMethod(cfg.JWTAlgorithm).(*jwt.SigningMethodHMAC); !ok {
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not an HMAC algorithm (HS256, HS384, HS512)", cfg.JWTAlgorithm))
	}
	if cfg.TokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ParseOrigins splits a comma-separated origin list, dropping blanks.
func ParseOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

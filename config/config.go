package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Cloudinary CloudinaryConfig
	Paystack   PaystackConfig
	Plunk      PlunkConfig
	Redis      RedisConfig
	Admin      AdminConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type PaystackConfig struct {
	SecretKey string
	// WebhookSecret must equal the base64-decoded x-webhook-pred header
	// on transfer webhook deliveries.
	WebhookSecret string
}

type PlunkConfig struct {
	APIKey string
}

// RedisConfig backs the asynq email queue.
type RedisConfig struct {
	Addr string
}

// AdminConfig seeds the first admin account at boot.
type AdminConfig struct {
	Email    string
	Password string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// system environment only; fine in containers
	}
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "8080"),
			Env:          env("APP_ENV", "development"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             env("DATABASE_DSN", "root:@tcp(localhost:3306)/phrednetwork?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			Secret: env("JWT_SECRET", "change-me-in-production"),
			Expiry: 72 * time.Hour,
			Issuer: "phrednetwork",
		},
		Cloudinary: CloudinaryConfig{
			CloudName: env("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    env("CLOUDINARY_API_KEY", ""),
			APISecret: env("CLOUDINARY_API_SECRET", ""),
		},
		Paystack: PaystackConfig{
			SecretKey:     env("PS_SECRET_KEY", ""),
			WebhookSecret: env("PS_WEBHOOK_SECRET", ""),
		},
		Plunk: PlunkConfig{
			APIKey: env("PLUNK_API_KEY", ""),
		},
		Redis: RedisConfig{
			Addr: env("REDIS_ADDR", "localhost:6379"),
		},
		Admin: AdminConfig{
			Email:    env("ADMIN_EMAIL", "admin@phrednetwork.com"),
			Password: env("ADMIN_PASSWORD", "change-me"),
		},
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

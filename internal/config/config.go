package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Server configuration
	ServerPort  string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENV" env-default:"development"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`

	// Database configuration
	DBHost     string `env:"DB_HOST" env-default:"localhost"`
	DBPort     string `env:"DB_PORT" env-default:"5432"`
	DBUser     string `env:"DB_USER" env-default:"postgres"`
	DBPassword string `env:"DB_PASSWORD" env-default:"postgres"`
	DBName     string `env:"DB_NAME" env-default:"orion"`
	DBSSLMode  string `env:"DB_SSLMODE" env-default:"disable"`
	SeedData   bool   `env:"SEED_DATA" env-default:"false"`

	// Redis configuration
	RedisAddress string        `env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	CacheTTL     time.Duration `env:"CACHE_TTL" env-default:"24h"`

	// Identity token configuration
	JWTSecret string `env:"JWT_SECRET"`
	JWTIssuer string `env:"JWT_ISSUER" env-default:"orion-os"`

	// Font storage
	FontDir           string `env:"FONT_DIR" env-default:"./data/fonts"`
	FontURLPrefix     string `env:"FONT_URL_PREFIX" env-default:"/fonts"`
	FontPurgeOnDelete bool   `env:"FONT_PURGE_ON_DELETE" env-default:"false"`
	UploadMaxBytes    int64  `env:"UPLOAD_MAX_BYTES" env-default:"0"`

	WorkerPoolSize int `env:"WORKER_POOL_SIZE" env-default:"4"`

	FrontendAddress string `env:"FRONTEND_ADDRESS" env-default:"https://production-frontend.com"`
}

// Global application configuration
var AppConfig Config

// LoadConfig loads configuration from environment variables
func LoadConfig() error {
	// Find .env file
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		// Try to find .env in parent directories
		envPath = filepath.Join("..", ".env")
		if _, err := os.Stat(envPath); os.IsNotExist(err) {
			envPath = filepath.Join("..", "..", ".env")
		}
	}

	// Load .env file if it exists
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Warn().Err(err).Str("path", envPath).Msg("error loading .env file")
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return err
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = generateRandomSecret(32) // Generate a 32-byte random secret if not declared
		log.Warn().Msg("JWT_SECRET not set, generated a random secret")
	}

	AppConfig = cfg
	return nil
}

// IsProduction reports whether the service runs with ENV=production
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// generateRandomSecret generates a hex secret from n random bytes
func generateRandomSecret(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		log.Fatal().Err(err).Msg("failed to generate random secret")
	}
	return hex.EncodeToString(b)
}

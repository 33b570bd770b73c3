package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Model    ModelConfig
	Catalog  CatalogConfig
	Audit    AuditConfig
	Admin    AdminConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port         string
	AllowOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

// Enabled reports whether a redis host was configured; without it tokens are
// validated by signature only.
func (r RedisConfig) Enabled() bool {
	return r.RedisHost != ""
}

type ModelConfig struct {
	Dir               string
	ScoringConfigPath string
}

type CatalogConfig struct {
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

type AuditConfig struct {
	BufferSize   int
	WriteTimeout time.Duration
}

// AdminConfig seeds the admin account at startup. Empty Email disables it.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	breakerFailures, err := strconv.ParseUint(getEnv("CATALOG_BREAKER_FAILURES", "5"), 10, 32)
	if err != nil {
		return nil, errors.New("invalid catalog breaker failures")
	}

	breakerTimeout, err := time.ParseDuration(getEnv("CATALOG_BREAKER_TIMEOUT", "30s"))
	if err != nil {
		return nil, errors.New("invalid catalog breaker timeout")
	}

	auditBuffer, err := strconv.Atoi(getEnv("AUDIT_BUFFER_SIZE", "256"))
	if err != nil || auditBuffer < 0 {
		return nil, errors.New("invalid audit buffer size")
	}

	auditTimeout, err := time.ParseDuration(getEnv("AUDIT_WRITE_TIMEOUT", "5s"))
	if err != nil {
		return nil, errors.New("invalid audit write timeout")
	}

	jwtTTL, err := time.ParseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil {
		return nil, errors.New("invalid jwt ttl")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Segment Recommender API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			AllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:8080")),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "segment_reco"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
			TTL:       jwtTTL,
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", ""),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Model: ModelConfig{
			Dir:               getEnv("MODEL_DIR", "artifacts"),
			ScoringConfigPath: getEnv("SCORING_CONFIG", ""),
		},
		Catalog: CatalogConfig{
			BreakerFailures: uint32(breakerFailures),
			BreakerTimeout:  breakerTimeout,
		},
		Audit: AuditConfig{
			BufferSize:   auditBuffer,
			WriteTimeout: auditTimeout,
		},
		Admin: AdminConfig{
			Name:     getEnv("ADMIN_NAME", "Administrator"),
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Admin.Email != "" && cfg.Admin.Password == "" {
		return nil, errors.New("missing admin password for ADMIN_EMAIL")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

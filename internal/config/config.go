package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/report"
	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	Store      StoreConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Approval   ApprovalConfig
	Storage    StorageConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// StoreConfig selects the persistence driver
type StoreConfig struct {
	Driver string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	Version            string
	LogLevel           string
	Timezone           string
	CORSAllowedOrigins []string
}

type AttendanceConfig struct {
	LateCutoff report.Cutoff
}

// ApprovalConfig points at an optional chain definition. A file wins over an SSM parameter;
// with neither the built-in chains are used.
type ApprovalConfig struct {
	ChainFile         string
	ChainSSMParameter string
}

type StorageConfig struct {
	Type          string
	BasePath      string
	BaseURL       string
	S3Bucket      string
	S3Region      string
	S3Prefix      string
	PresignExpiry time.Duration
}

// RedisConfig - Addr empty disables the report cache
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type RateLimitConfig struct {
	PunchPerMinute int
}

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	StorageTypeLocal = "local"
	StorageTypeS3    = "s3"
)

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-hris"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	config.Store = StoreConfig{
		Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		Version:            getEnv("APP_VERSION", "dev"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Timezone:           getEnv("APP_TIMEZONE", "Asia/Jakarta"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	accessExpiration, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	cutoff, err := report.ParseCutoff(getEnv("ATTENDANCE_LATE_CUTOFF", "09:00"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_LATE_CUTOFF: %w", err)
	}
	config.Attendance = AttendanceConfig{LateCutoff: cutoff}

	config.Approval = ApprovalConfig{
		ChainFile:         getEnv("APPROVAL_CHAIN_FILE", ""),
		ChainSSMParameter: getEnv("APPROVAL_CHAIN_SSM_PARAMETER", ""),
	}

	// Storage configuration
	presignExpiry, err := time.ParseDuration(getEnv("S3_PRESIGN_EXPIRY", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid S3_PRESIGN_EXPIRY: %w", err)
	}

	config.Storage = StorageConfig{
		Type:          strings.ToLower(getEnv("STORAGE_TYPE", StorageTypeLocal)),
		BasePath:      getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:       getEnv("STORAGE_BASE_URL", "/uploads"),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Region:      getEnv("S3_REGION", ""),
		S3Prefix:      getEnv("S3_PREFIX", ""),
		PresignExpiry: presignExpiry,
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("REPORT_CACHE_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_CACHE_TTL: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
		CacheTTL: cacheTTL,
	}

	punchRate, err := strconv.Atoi(getEnv("PUNCH_RATE_PER_MINUTE", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid PUNCH_RATE_PER_MINUTE: %w", err)
	}
	config.RateLimit = RateLimitConfig{PunchPerMinute: punchRate}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %s or %s", StoreDriverPostgres, StoreDriverMemory)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}

	switch c.Storage.Type {
	case StorageTypeLocal:
	case StorageTypeS3:
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_TYPE is s3")
		}
	default:
		return fmt.Errorf("STORAGE_TYPE must be %s or %s", StorageTypeLocal, StorageTypeS3)
	}

	if c.RateLimit.PunchPerMinute < 0 {
		return fmt.Errorf("PUNCH_RATE_PER_MINUTE must not be negative")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location resolves APP_TIMEZONE, falling back to UTC when it is unknown
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

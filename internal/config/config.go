package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvProduction = "production"

	UploadDriverLocal  = "local"
	UploadDriverSpaces = "spaces"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Redis      RedisConfig
	Upload     UploadConfig
	Migrations MigrationsConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	BodyLimitMB int

	// AuthRatePerMinute caps auth requests per client IP; 0 disables the limiter.
	AuthRatePerMinute int
	AuthRateBurst     int
}

func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvProduction)
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	// SlowQueryThreshold logs statements slower than this; zero disables.
	SlowQueryThreshold time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type UploadConfig struct {
	Driver string
	Dir    string

	Spaces SpacesConfig
}

type SpacesConfig struct {
	AccessKeyID     string
	AccessKeySecret string
	Region          string
	BucketName      string
	Endpoint        string
}

type MigrationsConfig struct {
	Dir string
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}
	dur := func(key string, def time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	num := func(key string, def int) int {
		raw := opt(key)
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			invalid = append(invalid, key)
			return def
		}
		return n
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		BodyLimitMB: num("BODY_LIMIT_MB", 10),

		AuthRatePerMinute: num("AUTH_RATE_LIMIT_PER_MIN", 30),
		AuthRateBurst:     num("AUTH_RATE_LIMIT_BURST", 5),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     req("DB_HOST"),
		DBPort:     optDefault("DB_PORT", "5432"),
		DBName:     req("DB_NAME"),
		DBUser:     req("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  optDefault("DB_SSL_MODE", "disable"),

		ConnectTimeout:        dur("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(num("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(num("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   dur("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   dur("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: dur("DB_POOL_HEALTH_CHECK_PERIOD", 0),
		SlowQueryThreshold:    dur("DB_SLOW_QUERY_THRESHOLD", 500*time.Millisecond),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  dur("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: dur("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.Redis = RedisConfig{
		Host:     optDefault("REDIS_HOST", "localhost"),
		Port:     optDefault("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      time.Duration(num("REDIS_TTL", 600)) * time.Second,
	}

	cfg.Upload = UploadConfig{
		Driver: strings.ToLower(optDefault("UPLOAD_DRIVER", UploadDriverLocal)),
		Dir:    optDefault("UPLOAD_DIR", "uploads/cv"),
	}
	switch cfg.Upload.Driver {
	case UploadDriverLocal:
	case UploadDriverSpaces:
		cfg.Upload.Spaces = SpacesConfig{
			AccessKeyID:     req("SPACES_ACCESS_KEY_ID"),
			AccessKeySecret: req("SPACES_ACCESS_KEY_SECRET"),
			Region:          req("SPACES_REGION"),
			BucketName:      req("SPACES_BUCKET_NAME"),
			Endpoint:        opt("SPACES_ENDPOINT"),
		}
	default:
		invalid = append(invalid, "UPLOAD_DRIVER")
	}

	cfg.Migrations = MigrationsConfig{
		Dir: optDefault("MIGRATIONS_DIR", "migrations"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

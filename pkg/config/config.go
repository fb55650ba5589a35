package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string
	// TrustedProxies lists peers whose forwarding headers are believed.
	// Empty means the socket address is always the client IP.
	TrustedProxies []string

	Database    DatabaseConfig
	Redis       RedisConfig
	Session     SessionConfig
	Credentials CredentialsConfig
	RateLimit   RateLimitConfig
	Uploads     UploadsConfig
	Dashboard   DashboardConfig
	CORS        CORSConfig
	Log         LogConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig controls issuance and transport of the signed session token.
type SessionConfig struct {
	Secret         string
	Expiration     time.Duration
	Issuer         string
	CookieName     string
	CookieSecure   bool
	ReloadIdentity bool
}

// CredentialsConfig tunes password hashing.
type CredentialsConfig struct {
	BcryptCost int
}

// RateLimitConfig bounds unauthenticated auth endpoints per client IP.
type RateLimitConfig struct {
	AuthPerMinute int
	AuthBurst     int
}

// UploadsConfig controls profile photo storage.
type UploadsConfig struct {
	Dir              string
	PublicPrefix     string
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// DashboardConfig governs dashboard cache tuning.
type DashboardConfig struct {
	CacheTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.TrustedProxies = splitAndTrim(v.GetString("TRUSTED_PROXIES"))

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_CACHE"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Session = SessionConfig{
		Secret:         v.GetString("JWT_SECRET"),
		Expiration:     parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:         v.GetString("JWT_ISSUER"),
		CookieName:     v.GetString("SESSION_COOKIE_NAME"),
		CookieSecure:   v.GetBool("SESSION_COOKIE_SECURE"),
		ReloadIdentity: v.GetBool("SESSION_RELOAD_IDENTITY"),
	}
	if cfg.Env == EnvProduction && (cfg.Session.Secret == "" || cfg.Session.Secret == devSecret) {
		return nil, errors.New("JWT_SECRET must be set in production")
	}

	cost := v.GetInt("BCRYPT_COST")
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	cfg.Credentials = CredentialsConfig{BcryptCost: cost}

	cfg.RateLimit = RateLimitConfig{
		AuthPerMinute: v.GetInt("AUTH_RATE_PER_MINUTE"),
		AuthBurst:     v.GetInt("AUTH_RATE_BURST"),
	}

	maxUpload := v.GetInt64("UPLOADS_MAX_FILE_SIZE")
	if maxUpload <= 0 {
		maxUpload = 5 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		Dir:              v.GetString("UPLOADS_DIR"),
		PublicPrefix:     strings.TrimRight(v.GetString("UPLOADS_PUBLIC_PREFIX"), "/"),
		MaxFileSizeBytes: maxUpload,
		AllowedMIMEs:     splitAndTrim(v.GetString("UPLOADS_ALLOWED_MIME_TYPES")),
	}

	cfg.Dashboard = DashboardConfig{
		CacheTTL: parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

const devSecret = "dev_secret"

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("TRUSTED_PROXIES", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "research_collab")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", devSecret)
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "collab-portal")
	v.SetDefault("SESSION_COOKIE_NAME", "access_token")
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("SESSION_RELOAD_IDENTITY", false)

	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("AUTH_RATE_PER_MINUTE", 20)
	v.SetDefault("AUTH_RATE_BURST", 10)

	v.SetDefault("UPLOADS_DIR", "./static/profile_photos")
	v.SetDefault("UPLOADS_PUBLIC_PREFIX", "/static/profile_photos")
	v.SetDefault("UPLOADS_MAX_FILE_SIZE", 5*1024*1024)
	v.SetDefault("UPLOADS_ALLOWED_MIME_TYPES", "image/jpeg,image/png,image/gif,image/webp")

	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

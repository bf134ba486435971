package config

import (
	"fmt"
	"time"

	apperrors "cookbook-service/pkg/errors"

	"github.com/caarlos0/env/v11"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	TransportCookie = "cookie"
	TransportBearer = "bearer"
)

const (
	minJWTSecretLength       = 32
	minUniqueCharsInSecret   = 16
	minRepeatedCharThreshold = 4
	maxRepeatedChars         = 2
	minBcryptCost            = 4
	maxBcryptCost            = 31

	errPortRequired            = "PORT must be set"
	errDBPasswordRequired      = "DB_PASSWORD must be set"
	errJWTSecretRequired       = "JWT_SECRET must be set"
	errJWTSecretMinLengthFmt   = "JWT_SECRET must be at least %d characters"
	errJWTSecretLowEntropy     = "JWT_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errJWTLifetimePositive     = "JWT_LIFETIME must be positive"
	errCookieNameRequired      = "COOKIE_NAME must be set"
	errPhotoBucketRegion       = "AWS_REGION must be set when PHOTO_BUCKET is configured"
	errBcryptCostRangeFmt      = "BCRYPT_COST must be between %d and %d"
	errParseEnvironmentFmt     = "failed to parse environment: %w"
	errInvalidConfigurationFmt = "invalid configuration: %w"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Session  SessionConfig
	Redis    RedisConfig
	AWS      AWSConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	Environment     string        `env:"APP_ENV" envDefault:"development"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	EnableProfiling bool          `env:"ENABLE_PROFILING" envDefault:"false"`
}

type DatabaseConfig struct {
	Host        string `env:"DB_HOST" envDefault:"localhost"`
	Port        int    `env:"DB_PORT" envDefault:"5432"`
	Database    string `env:"DB_NAME" envDefault:"cookbook"`
	User        string `env:"DB_USER" envDefault:"cookbook_app"`
	Password    string `env:"DB_PASSWORD"`
	SSLMode     string `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxConns    int    `env:"DB_MAX_CONNS" envDefault:"25"`
	MinConns    int    `env:"DB_MIN_CONNS" envDefault:"5"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

// JWTConfig holds the signing secret. It is read once at startup and handed
// to the token codec; nothing reads it from the environment afterwards.
type JWTConfig struct {
	Secret   string        `env:"JWT_SECRET"`
	Lifetime time.Duration `env:"JWT_LIFETIME" envDefault:"168h"`
}

type SessionConfig struct {
	CookieName string `env:"COOKIE_NAME" envDefault:"cookbook_session"`
	Transport  string `env:"AUTH_TRANSPORT" envDefault:"cookie"`
}

type RedisConfig struct {
	Addr          string        `env:"REDIS_ADDR"`
	Password      string        `env:"REDIS_PASSWORD"`
	DB            int           `env:"REDIS_DB" envDefault:"0"`
	AssetCacheTTL time.Duration `env:"ASSET_CACHE_TTL" envDefault:"10m"`
}

type AWSConfig struct {
	Region          string        `env:"AWS_REGION"`
	AccessKeyID     string        `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string        `env:"AWS_SECRET_ACCESS_KEY"`
	PhotoBucket     string        `env:"PHOTO_BUCKET"`
	PhotoURLExpiry  time.Duration `env:"PHOTO_URL_EXPIRY" envDefault:"15m"`
}

type AppConfig struct {
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`
}

func Load() (*Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf(errParseEnvironmentFmt, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

// Validate rejects configurations the service must not start with. Every
// failure is a ConfigurationFatal error.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return apperrors.Configuration(errPortRequired, nil)
	}

	switch c.Server.Environment {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		return apperrors.Configuration(messages.invalidValue("APP_ENV", c.Server.Environment), nil)
	}

	if c.Database.Password == "" {
		return apperrors.Configuration(errDBPasswordRequired, nil)
	}

	if c.JWT.Secret == "" {
		return apperrors.Configuration(errJWTSecretRequired, nil)
	}

	if len(c.JWT.Secret) < minJWTSecretLength {
		return apperrors.Configuration(fmt.Sprintf(errJWTSecretMinLengthFmt, minJWTSecretLength), nil)
	}

	if !hasMinimumEntropy(c.JWT.Secret) {
		return apperrors.Configuration(errJWTSecretLowEntropy, nil)
	}

	if c.JWT.Lifetime <= 0 {
		return apperrors.Configuration(errJWTLifetimePositive, nil)
	}

	if c.Session.CookieName == "" {
		return apperrors.Configuration(errCookieNameRequired, nil)
	}

	switch c.Session.Transport {
	case TransportCookie, TransportBearer:
	default:
		return apperrors.Configuration(messages.invalidValue("AUTH_TRANSPORT", c.Session.Transport), nil)
	}

	if c.AWS.PhotoBucket != "" && c.AWS.Region == "" {
		return apperrors.Configuration(errPhotoBucketRegion, nil)
	}

	if c.App.BcryptCost < minBcryptCost || c.App.BcryptCost > maxBcryptCost {
		return apperrors.Configuration(fmt.Sprintf(errBcryptCostRangeFmt, minBcryptCost, maxBcryptCost), nil)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

func (c *Config) PhotosEnabled() bool {
	return c.AWS.PhotoBucket != ""
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minJWTSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	if len(charCounts) < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

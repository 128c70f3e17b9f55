// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string   `yaml:"port"`
	Environment string   `yaml:"environment"`
	Version     string   `yaml:"version"`
	DatabaseURL string   `yaml:"database_url"`
	CORSOrigins []string `yaml:"cors_origins"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	JWTSecret           string `yaml:"jwt_secret"`
	JWTIssuer           string `yaml:"jwt_issuer"`
	JWTAudience         string `yaml:"jwt_audience"`
	JWTExpiresInSeconds int64  `yaml:"jwt_expires_in_seconds"`

	// EmailProvider selects the reset-code transport: smtp, sendgrid or log.
	EmailProvider     string `yaml:"email_provider"`
	SMTPHost          string `yaml:"smtp_host"`
	SMTPPort          int    `yaml:"smtp_port"`
	SMTPUser          string `yaml:"smtp_user"`
	SMTPPassword      string `yaml:"smtp_password"`
	SMTPFrom          string `yaml:"smtp_from"`
	SendGridAPIKey    string `yaml:"sendgrid_api_key"`
	SendGridFromEmail string `yaml:"sendgrid_from_email"`
	SendGridFromName  string `yaml:"sendgrid_from_name"`

	RedisAddr              string `yaml:"redis_addr"`
	RedisPassword          string `yaml:"redis_password"`
	RedisDB                int    `yaml:"redis_db"`
	ResetRateLimit         int    `yaml:"reset_rate_limit"`
	ResetRateWindowSeconds int    `yaml:"reset_rate_window_seconds"`

	AWSRegion       string `yaml:"aws_region"`
	S3Bucket        string `yaml:"s3_bucket"`
	S3PublicBaseURL string `yaml:"s3_public_base_url"`

	TokenCleanupSchedule string `yaml:"token_cleanup_schedule"`

	AdminUserName string `yaml:"admin_username"`
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

func defaults() *Config {
	return &Config{
		Port:                   "8080",
		Environment:            "development",
		Version:                "1.0",
		CORSOrigins:            []string{"http://localhost:3000"},
		LogLevel:               "info",
		LogFormat:              "text",
		JWTSecret:              "dev",
		JWTIssuer:              "fleetmaster",
		JWTAudience:            "fleetmaster-clients",
		JWTExpiresInSeconds:    3600,
		EmailProvider:          "log",
		SMTPPort:               587,
		SendGridFromName:       "FleetMaster",
		ResetRateLimit:         5,
		ResetRateWindowSeconds: 900,
		TokenCleanupSchedule:   "@every 1h",
		AdminUserName:          "admin",
		AdminEmail:             "admin@fleetmaster.local",
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_PATH and the environment, in increasing order of precedence. A .env
// file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = databaseURLFromParts()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	envString(&c.Port, "PORT")
	envString(&c.Environment, "ENVIRONMENT")
	envString(&c.Version, "APP_VERSION")
	envString(&c.DatabaseURL, "DATABASE_URL")
	if v, ok := os.LookupEnv("CORS_ORIGIN"); ok {
		c.CORSOrigins = splitList(v)
	}

	envString(&c.LogLevel, "LOG_LEVEL")
	envString(&c.LogFormat, "LOG_FORMAT")

	envString(&c.JWTSecret, "JWT_SECRET")
	envString(&c.JWTIssuer, "JWT_ISSUER")
	envString(&c.JWTAudience, "JWT_AUDIENCE")
	envInt64(&c.JWTExpiresInSeconds, "JWT_EXPIRES_IN_SECONDS")

	envString(&c.EmailProvider, "EMAIL_PROVIDER")
	envString(&c.SMTPHost, "SMTP_HOST")
	envInt(&c.SMTPPort, "SMTP_PORT")
	envString(&c.SMTPUser, "SMTP_USER")
	envString(&c.SMTPPassword, "SMTP_PASSWORD")
	envString(&c.SMTPFrom, "SMTP_FROM")
	envString(&c.SendGridAPIKey, "SENDGRID_API_KEY")
	envString(&c.SendGridFromEmail, "SENDGRID_FROM_EMAIL")
	envString(&c.SendGridFromName, "SENDGRID_FROM_NAME")

	envString(&c.RedisAddr, "REDIS_ADDR")
	envString(&c.RedisPassword, "REDIS_PASSWORD")
	envInt(&c.RedisDB, "REDIS_DB")
	envInt(&c.ResetRateLimit, "RESET_RATE_LIMIT")
	envInt(&c.ResetRateWindowSeconds, "RESET_RATE_WINDOW_SECONDS")

	envString(&c.AWSRegion, "AWS_REGION")
	envString(&c.S3Bucket, "S3_BUCKET_NAME")
	envString(&c.S3PublicBaseURL, "S3_PUBLIC_BASE_URL")

	envString(&c.TokenCleanupSchedule, "TOKEN_CLEANUP_SCHEDULE")

	envString(&c.AdminUserName, "ADMIN_USERNAME")
	envString(&c.AdminEmail, "ADMIN_EMAIL")
	envString(&c.AdminPassword, "ADMIN_PASSWORD")
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("invalid port %q", c.Port))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT secret is required"))
	}
	if c.IsProduction() && c.JWTSecret == "dev" {
		errs = append(errs, errors.New("JWT secret must be changed in production"))
	}
	if c.JWTExpiresInSeconds <= 0 {
		errs = append(errs, errors.New("JWT expiry must be positive"))
	}
	switch c.EmailProvider {
	case "log":
	case "smtp":
		if c.SMTPHost == "" || c.SMTPFrom == "" {
			errs = append(errs, errors.New("smtp host and from address are required"))
		}
	case "sendgrid":
		if c.SendGridAPIKey == "" || c.SendGridFromEmail == "" {
			errs = append(errs, errors.New("sendgrid api key and from email are required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown email provider %q", c.EmailProvider))
	}
	if c.ResetRateLimit < 0 || c.ResetRateWindowSeconds < 0 {
		errs = append(errs, errors.New("reset rate limit settings must not be negative"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func databaseURLFromParts() string {
	host := getEnv("PSQL_HOST", "localhost")
	port := getEnv("PSQL_PORT", "5432")
	user := getEnv("PSQL_USER", "postgres")
	password := getEnv("PSQL_PASSWORD", "postgres")
	dbName := getEnv("PSQL_DB_NAME", "fleetmaster")

	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, password),
		Host:   host + ":" + port,
		Path:   dbName,
	}
	q := u.Query()
	q.Set("sslmode", getEnv("PSQL_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func envString(dst *string, key string) {
	if value, exists := os.LookupEnv(key); exists {
		*dst = value
	}
}

func envInt(dst *int, key string) {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			*dst = n
		}
	}
}

func envInt64(dst *int64, key string) {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			*dst = n
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

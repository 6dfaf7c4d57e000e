package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	ServiceName    string
	DatabaseURL    string
	HTTPListenAddr string
	LogLevel       string
	CORSOrigins    []string
	DevMode        bool

	// Session tokens are issued by the identity provider and verified locally.
	SessionSigningKey string
	SessionIssuer     string

	IdentityAPIURL    string
	IdentitySecretKey string

	// AppPublicURL is where invitation emails send the recipient.
	AppPublicURL string
	SignInURL    string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	NotificationPollInterval time.Duration
}

func Load() (*Config, error) {
	origins := getEnv("CORS_ORIGINS", "http://localhost:3000")
	var corsList []string
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			corsList = append(corsList, trimmed)
		}
	}

	pollInterval, err := time.ParseDuration(getEnv("NOTIFICATION_POLL_INTERVAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("parse NOTIFICATION_POLL_INTERVAL: %w", err)
	}

	cfg := &Config{
		ServiceName:              getEnv("SERVICE_NAME", "plura-api"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		HTTPListenAddr:           getEnv("HTTP_LISTEN_ADDR", ":8080"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		CORSOrigins:              corsList,
		DevMode:                  getEnv("DEV_MODE", "") == "true",
		SessionSigningKey:        getEnv("SESSION_SIGNING_KEY", ""),
		SessionIssuer:            getEnv("SESSION_ISSUER", ""),
		IdentityAPIURL:           getEnv("IDP_API_URL", ""),
		IdentitySecretKey:        getEnv("IDP_SECRET_KEY", ""),
		AppPublicURL:             getEnv("APP_PUBLIC_URL", "http://localhost:3000"),
		SignInURL:                getEnv("SIGN_IN_URL", "/sign-in"),
		S3Endpoint:               getEnv("S3_ENDPOINT", ""),
		S3Region:                 getEnv("S3_REGION", "us-east-1"),
		S3Bucket:                 getEnv("S3_BUCKET", "plura-uploads"),
		S3AccessKey:              getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:              getEnv("S3_SECRET_KEY", ""),
		S3PublicURL:              getEnv("S3_PUBLIC_URL", ""),
		NotificationPollInterval: pollInterval,
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.SessionSigningKey == "" {
		missing = append(missing, "SESSION_SIGNING_KEY")
	}
	if c.IdentityAPIURL == "" {
		missing = append(missing, "IDP_API_URL")
	}
	if c.IdentitySecretKey == "" {
		missing = append(missing, "IDP_SECRET_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	if len(c.SessionSigningKey) < 32 {
		return fmt.Errorf("SESSION_SIGNING_KEY must be at least 32 bytes")
	}
	if c.NotificationPollInterval <= 0 {
		return fmt.Errorf("NOTIFICATION_POLL_INTERVAL must be positive, got %s", c.NotificationPollInterval)
	}
	return nil
}

// UploadsEnabled reports whether object storage is configured.
func (c *Config) UploadsEnabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// InvitationRedirectURL is where accepted invitation emails land.
func (c *Config) InvitationRedirectURL() string {
	return strings.TrimSuffix(c.AppPublicURL, "/") + "/agency"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

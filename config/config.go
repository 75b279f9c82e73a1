package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const VERSION = "1.4"

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Security    SecurityConfig
	BSP         BSPConfig
	Media       MediaConfig
	SMTP        SMTPConfig
	Tracing     TracingConfig
	RootEmail   string
	Environment string
	APIEndpoint string
	LogLevel    string
	Version     string
}

type ServerConfig struct {
	Port int
	Host string
	SSL  SSLConfig
}

type SSLConfig struct {
	Enabled  bool
	CertFile string
	KeyFile  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	Prefix   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SecurityConfig struct {
	// SecretKey signs API tokens and encrypts message bodies at rest.
	SecretKey string
	// CronSecret guards the cron trigger endpoint. Empty disables the check.
	CronSecret string
}

// BSPConfig holds everything about the shared provider account. One account
// serves all workspaces; per-workspace state (phone ids, health) lives on the
// workspace records.
type BSPConfig struct {
	ParentWABAID       string
	ParentBusinessID   string
	SystemToken        string
	AppID              string
	AppSecret          string
	WebhookVerifyToken string
	APIVersion         string
	APIBaseURL         string

	// PhoneAssignmentMode is "manual" or "pool".
	PhoneAssignmentMode string
	PhoneNumberPool     []string

	StrictTenantIsolation bool
	CrossTenantLogging    bool
	MessageEncryption     bool

	// SkipSignatureVerification admits unsigned webhooks. Honored only
	// outside production.
	SkipSignatureVerification bool

	ReplayTTLSeconds     int
	MaxWebhookAgeSeconds int

	// DefaultCountryCode replaces a leading zero during phone normalization.
	DefaultCountryCode string

	// RateLimitOverrides maps workspace id to explicit limits that win over
	// plan defaults. Loaded from a JSON value.
	RateLimitOverrides map[string]RateLimitOverride
}

// RateLimitOverride carries per-workspace limits; zero fields fall back to
// the plan defaults.
type RateLimitOverride struct {
	MessagesPerSecond int `json:"messages_per_second"`
	MessagesPerDay    int `json:"messages_per_day"`
	MessagesPerMonth  int `json:"messages_per_month"`
	TemplatesPerDay   int `json:"templates_per_day"`
	APICallsPerMinute int `json:"api_calls_per_minute"`
}

type MediaConfig struct {
	// StorageDriver is "local" or "s3".
	StorageDriver string
	Root          string
	S3Region      string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

type TracingConfig struct {
	Enabled             bool
	ServiceName         string
	SamplingProbability float64

	// Trace exporter configuration
	TraceExporter string // "jaeger", "stackdriver", "zipkin", "datadog", "xray", "none"

	// Jaeger settings
	JaegerEndpoint string

	// Zipkin settings
	ZipkinEndpoint string

	// Stackdriver settings
	StackdriverProjectID string

	// Datadog settings
	DatadogAgentAddress string
	DatadogAPIKey       string

	// AWS X-Ray settings
	XRayRegion string

	// General agent endpoint (for exporters that support a common agent)
	AgentEndpoint string

	// Metrics exporter configuration
	MetricsExporter string // "prometheus", "stackdriver", "datadog", "none" or comma-separated list
	PrometheusPort  int
}

// LoadOptions contains options for loading configuration
type LoadOptions struct {
	EnvFile string // Optional environment file to load (e.g., ".env", ".env.test")
}

// Load loads the configuration with default options
func Load() (*Config, error) {
	// Try to load .env file but don't require it
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions loads the configuration with the specified options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_PREFIX", "waypost")
	v.SetDefault("DB_NAME", "waypost_system")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("VERSION", VERSION)

	// BSP defaults
	v.SetDefault("BSP_API_VERSION", "v21.0")
	v.SetDefault("BSP_API_BASE_URL", "https://graph.facebook.com")
	v.SetDefault("BSP_PHONE_ASSIGNMENT_MODE", "manual")
	v.SetDefault("BSP_STRICT_TENANT_ISOLATION", true)
	v.SetDefault("BSP_CROSS_TENANT_LOGGING", false)
	v.SetDefault("BSP_MESSAGE_ENCRYPTION", false)
	v.SetDefault("BSP_SKIP_SIGNATURE_VERIFICATION", false)
	v.SetDefault("BSP_REPLAY_TTL_SECONDS", 300)
	v.SetDefault("BSP_MAX_WEBHOOK_AGE_SECONDS", 0)
	v.SetDefault("BSP_DEFAULT_COUNTRY_CODE", "91")

	// Media defaults
	v.SetDefault("MEDIA_STORAGE_DRIVER", "local")
	v.SetDefault("MEDIA_ROOT", "./media")

	// SMTP defaults
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM_NAME", "Waypost")

	// Default tracing config
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_SERVICE_NAME", "waypost-api")
	v.SetDefault("TRACING_SAMPLING_PROBABILITY", 0.1)
	v.SetDefault("TRACING_TRACE_EXPORTER", "none")
	v.SetDefault("TRACING_JAEGER_ENDPOINT", "http://localhost:14268/api/traces")
	v.SetDefault("TRACING_ZIPKIN_ENDPOINT", "http://localhost:9411/api/v2/spans")
	v.SetDefault("TRACING_STACKDRIVER_PROJECT_ID", "")
	v.SetDefault("TRACING_DATADOG_AGENT_ADDRESS", "localhost:8126")
	v.SetDefault("TRACING_DATADOG_API_KEY", "")
	v.SetDefault("TRACING_XRAY_REGION", "us-west-2")
	v.SetDefault("TRACING_AGENT_ENDPOINT", "localhost:8126")
	v.SetDefault("TRACING_METRICS_EXPORTER", "none")
	v.SetDefault("TRACING_PROMETHEUS_PORT", 9464)

	// Load environment file if specified
	if opts.EnvFile != "" {
		v.SetConfigName(opts.EnvFile)
		v.SetConfigType("env")

		currentPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current directory: %w", err)
		}

		v.AddConfigPath(currentPath)

		if err := v.ReadInConfig(); err != nil {
			// It's okay if config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	// Read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Validate required configuration
	secretKey := v.GetString("SECRET_KEY")
	if secretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}
	systemToken := v.GetString("BSP_SYSTEM_TOKEN")
	if systemToken == "" {
		return nil, fmt.Errorf("BSP_SYSTEM_TOKEN is required")
	}
	parentWABAID := v.GetString("BSP_PARENT_WABA_ID")
	if parentWABAID == "" {
		return nil, fmt.Errorf("BSP_PARENT_WABA_ID is required")
	}
	verifyToken := v.GetString("BSP_WEBHOOK_VERIFY_TOKEN")
	if verifyToken == "" {
		return nil, fmt.Errorf("BSP_WEBHOOK_VERIFY_TOKEN is required")
	}

	var phonePool []string
	if raw := v.GetString("BSP_PHONE_NUMBER_POOL"); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				phonePool = append(phonePool, p)
			}
		}
	}

	overrides := make(map[string]RateLimitOverride)
	if raw := v.GetString("BSP_RATE_LIMIT_OVERRIDES"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
			return nil, fmt.Errorf("error parsing BSP_RATE_LIMIT_OVERRIDES: %w", err)
		}
	}

	assignmentMode := v.GetString("BSP_PHONE_ASSIGNMENT_MODE")
	if assignmentMode != "manual" && assignmentMode != "pool" {
		return nil, fmt.Errorf("BSP_PHONE_ASSIGNMENT_MODE must be manual or pool, got %q", assignmentMode)
	}

	config := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
			Host: v.GetString("SERVER_HOST"),
			SSL: SSLConfig{
				Enabled:  v.GetBool("SSL_ENABLED"),
				CertFile: v.GetString("SSL_CERT_FILE"),
				KeyFile:  v.GetString("SSL_KEY_FILE"),
			},
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			Prefix:   v.GetString("DB_PREFIX"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Security: SecurityConfig{
			SecretKey:  secretKey,
			CronSecret: v.GetString("CRON_SECRET"),
		},
		BSP: BSPConfig{
			ParentWABAID:              parentWABAID,
			ParentBusinessID:          v.GetString("BSP_PARENT_BUSINESS_ID"),
			SystemToken:               systemToken,
			AppID:                     v.GetString("BSP_APP_ID"),
			AppSecret:                 v.GetString("BSP_APP_SECRET"),
			WebhookVerifyToken:        verifyToken,
			APIVersion:                v.GetString("BSP_API_VERSION"),
			APIBaseURL:                v.GetString("BSP_API_BASE_URL"),
			PhoneAssignmentMode:       assignmentMode,
			PhoneNumberPool:           phonePool,
			StrictTenantIsolation:     v.GetBool("BSP_STRICT_TENANT_ISOLATION"),
			CrossTenantLogging:        v.GetBool("BSP_CROSS_TENANT_LOGGING"),
			MessageEncryption:         v.GetBool("BSP_MESSAGE_ENCRYPTION"),
			SkipSignatureVerification: v.GetBool("BSP_SKIP_SIGNATURE_VERIFICATION"),
			ReplayTTLSeconds:          v.GetInt("BSP_REPLAY_TTL_SECONDS"),
			MaxWebhookAgeSeconds:      v.GetInt("BSP_MAX_WEBHOOK_AGE_SECONDS"),
			DefaultCountryCode:        v.GetString("BSP_DEFAULT_COUNTRY_CODE"),
			RateLimitOverrides:        overrides,
		},
		Media: MediaConfig{
			StorageDriver: v.GetString("MEDIA_STORAGE_DRIVER"),
			Root:          v.GetString("MEDIA_ROOT"),
			S3Region:      v.GetString("MEDIA_S3_REGION"),
			S3Bucket:      v.GetString("MEDIA_S3_BUCKET"),
			S3AccessKey:   v.GetString("MEDIA_S3_ACCESS_KEY"),
			S3SecretKey:   v.GetString("MEDIA_S3_SECRET_KEY"),
		},
		SMTP: SMTPConfig{
			Host:      v.GetString("SMTP_HOST"),
			Port:      v.GetInt("SMTP_PORT"),
			Username:  v.GetString("SMTP_USERNAME"),
			Password:  v.GetString("SMTP_PASSWORD"),
			FromEmail: v.GetString("SMTP_FROM_EMAIL"),
			FromName:  v.GetString("SMTP_FROM_NAME"),
		},
		Tracing: TracingConfig{
			Enabled:              v.GetBool("TRACING_ENABLED"),
			ServiceName:          v.GetString("TRACING_SERVICE_NAME"),
			SamplingProbability:  v.GetFloat64("TRACING_SAMPLING_PROBABILITY"),
			TraceExporter:        v.GetString("TRACING_TRACE_EXPORTER"),
			JaegerEndpoint:       v.GetString("TRACING_JAEGER_ENDPOINT"),
			ZipkinEndpoint:       v.GetString("TRACING_ZIPKIN_ENDPOINT"),
			StackdriverProjectID: v.GetString("TRACING_STACKDRIVER_PROJECT_ID"),
			DatadogAgentAddress:  v.GetString("TRACING_DATADOG_AGENT_ADDRESS"),
			DatadogAPIKey:        v.GetString("TRACING_DATADOG_API_KEY"),
			XRayRegion:           v.GetString("TRACING_XRAY_REGION"),
			AgentEndpoint:        v.GetString("TRACING_AGENT_ENDPOINT"),
			MetricsExporter:      v.GetString("TRACING_METRICS_EXPORTER"),
			PrometheusPort:       v.GetInt("TRACING_PROMETHEUS_PORT"),
		},

		RootEmail:   v.GetString("ROOT_EMAIL"),
		Environment: v.GetString("ENVIRONMENT"),
		APIEndpoint: v.GetString("API_ENDPOINT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Version:     v.GetString("VERSION"),
	}

	return config, nil
}

// ReplayTTL returns the replay-defense key lifetime as a duration.
func (c *Config) ReplayTTL() time.Duration {
	return time.Duration(c.BSP.ReplayTTLSeconds) * time.Second
}

// MaxWebhookAge returns the maximum accepted webhook age; zero disables the
// staleness check.
func (c *Config) MaxWebhookAge() time.Duration {
	return time.Duration(c.BSP.MaxWebhookAgeSeconds) * time.Second
}

// IsDevelopment returns true if the environment is set to development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsDemo() bool {
	return c.Environment == "demo"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

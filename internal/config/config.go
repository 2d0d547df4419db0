package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppName  string
	AppPort  string
	AppEnv   string
	Location *time.Location // calendar used for "today" and "this week"

	LogLevel  string
	LogFormat string

	TelegramBotToken  string
	TelegramWebAppURL string
	InitDataMaxAge    time.Duration // 0 disables the auth_date freshness check
	BotPolling        bool

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	ExportBucket   string // empty disables data exports
	SNSTopicARN    string // empty disables account events

	RateLimitRPS   float64
	RateLimitBurst int
	// TrustProxyHeaders keys clients on forwarding headers instead of the
	// peer address. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
	AllowedOrigins    []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Accounts      string
	Workouts      string
	Meals         string
	WaterLogs     string
	ShoppingItems string
}

// IsDevelopment reports whether the service runs with APP_ENV=development.
func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }

// Load reads all configuration from environment variables.
func Load() *Config {
	webAppURL := getEnv("TELEGRAM_WEBAPP_URL", "http://localhost:5173")
	token := getEnv("TELEGRAM_BOT_TOKEN", "")
	defaultOrigins := strings.Join([]string{
		webAppURL,
		"http://localhost:5173",
		"http://localhost:3000",
		"https://telegram.org",
	}, ",")

	return &Config{
		AppName:  getEnv("APP_NAME", "Lifeguard"),
		AppPort:  getEnv("APP_PORT", "8000"),
		AppEnv:   getEnv("APP_ENV", "development"),
		Location: getEnvLocation("APP_TIMEZONE", time.UTC),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		TelegramBotToken:  token,
		TelegramWebAppURL: strings.TrimRight(webAppURL, "/"),
		InitDataMaxAge:    getEnvDuration("TELEGRAM_INIT_DATA_MAX_AGE", 0),
		BotPolling:        getEnvBool("BOT_POLLING", token != ""),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Accounts:      getEnv("DYNAMO_TABLE_ACCOUNTS", "accounts"),
			Workouts:      getEnv("DYNAMO_TABLE_WORKOUTS", "workouts"),
			Meals:         getEnv("DYNAMO_TABLE_MEALS", "meals"),
			WaterLogs:     getEnv("DYNAMO_TABLE_WATER_LOGS", "water_logs"),
			ShoppingItems: getEnv("DYNAMO_TABLE_SHOPPING_ITEMS", "shopping_items"),
		},
		ExportBucket: getEnv("EXPORT_BUCKET_NAME", ""),
		SNSTopicARN:  getEnv("SNS_TOPIC_ARN", ""),

		RateLimitRPS:      getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:    getEnvInt("RATE_LIMIT_BURST", 20),
		TrustProxyHeaders: getEnvBool("TRUST_PROXY_HEADERS", false),
		AllowedOrigins:    splitList(getEnv("ALLOWED_ORIGINS", defaultOrigins)),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvLocation(key string, fallback *time.Location) *time.Location {
	if v := os.Getenv(key); v != "" {
		if loc, err := time.LoadLocation(v); err == nil {
			return loc
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service and the evaluator CLI.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	CORSOrigins            string
	DatabaseURL            string
	DatabaseMaxOpenConns   int
	DatabaseMaxIdleConns   int
	DatabaseConnLifetime   time.Duration
	DatabaseSlowQuery      time.Duration
	RedisURL               string
	RedisPoolSize          int
	RedisDialTimeout       time.Duration
	NATSURL                string
	NATSSubjectPrefix      string
	JWTSecret              string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	AIProvider             string
	AIModel                string
	OpenAIAPIKey           string
	OpenAIBaseURL          string
	GeminiAPIKey           string
	GeminiBaseURL          string
	AITemperature          float64
	AIMaxTokens            int
	UploadMaxBytes         int64
	RankingCacheTTL        time.Duration
	SubmitRateLimit        int
	SubmitRateWindow       time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// AIAPIKey returns the key of the configured model provider.
func (c Config) AIAPIKey() string {
	if c.AIProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// AIBaseURL returns the endpoint override of the configured model provider.
func (c Config) AIBaseURL() string {
	if c.AIProvider == "openai" {
		return c.OpenAIBaseURL
	}
	return c.GeminiBaseURL
}

// Load reads configuration for the API server. A JWT secret is required.
func Load() (Config, error) {
	cfg, err := load()
	if err != nil {
		return Config{}, err
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}

// LoadEvaluator reads the subset of configuration the offline evaluator needs.
func LoadEvaluator() (Config, error) {
	return load()
}

func load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HIREFORM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Hireform API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cors.origins", "*")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_lifetime", "30m")
	v.SetDefault("database.slow_query", "500ms")
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("nats.subject_prefix", "hireform")
	v.SetDefault("cloudinary.folder", "hireform")
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("ai.max_tokens", 4096)
	v.SetDefault("upload.max_bytes", 10<<20)
	v.SetDefault("ranking.cache_ttl", "2m")
	v.SetDefault("submit.rate_limit", 20)
	v.SetDefault("submit.rate_window", "1m")

	cacheTTL, err := parseDuration(v, "ranking.cache_ttl", "2m")
	if err != nil {
		return Config{}, err
	}

	rateWindow, err := parseDuration(v, "submit.rate_window", "1m")
	if err != nil {
		return Config{}, err
	}

	connLifetime, err := parseDuration(v, "database.conn_lifetime", "30m")
	if err != nil {
		return Config{}, err
	}

	slowQuery, err := parseDuration(v, "database.slow_query", "500ms")
	if err != nil {
		return Config{}, err
	}

	redisDialTimeout, err := parseDuration(v, "redis.dial_timeout", "5s")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		CORSOrigins:            v.GetString("cors.origins"),
		DatabaseURL:            v.GetString("database.url"),
		DatabaseMaxOpenConns:   v.GetInt("database.max_open_conns"),
		DatabaseMaxIdleConns:   v.GetInt("database.max_idle_conns"),
		DatabaseConnLifetime:   connLifetime,
		DatabaseSlowQuery:      slowQuery,
		RedisURL:               v.GetString("redis.url"),
		RedisPoolSize:          v.GetInt("redis.pool_size"),
		RedisDialTimeout:       redisDialTimeout,
		NATSURL:                v.GetString("nats.url"),
		NATSSubjectPrefix:      v.GetString("nats.subject_prefix"),
		JWTSecret:              v.GetString("jwt.secret"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		AIProvider:             strings.ToLower(strings.TrimSpace(v.GetString("ai.provider"))),
		AIModel:                v.GetString("ai.model"),
		OpenAIAPIKey:           v.GetString("openai_api_key"),
		OpenAIBaseURL:          v.GetString("openai_base_url"),
		GeminiAPIKey:           v.GetString("gemini_api_key"),
		GeminiBaseURL:          v.GetString("gemini_base_url"),
		AITemperature:          v.GetFloat64("ai.temperature"),
		AIMaxTokens:            v.GetInt("ai.max_tokens"),
		UploadMaxBytes:         v.GetInt64("upload.max_bytes"),
		RankingCacheTTL:        cacheTTL,
		SubmitRateLimit:        v.GetInt("submit.rate_limit"),
		SubmitRateWindow:       rateWindow,
	}

	switch cfg.AIProvider {
	case "gemini", "openai":
	default:
		return Config{}, fmt.Errorf("unsupported ai provider %q", cfg.AIProvider)
	}

	if cfg.AIMaxTokens <= 0 {
		cfg.AIMaxTokens = 4096
	}

	if cfg.UploadMaxBytes <= 0 {
		cfg.UploadMaxBytes = 10 << 20
	}

	if cfg.SubmitRateLimit <= 0 {
		cfg.SubmitRateLimit = 20
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key, fallback string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		raw = fallback
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return value, nil
}

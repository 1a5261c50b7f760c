/*
Package config loads the runtime settings of the GymBuddy service.
Values come from the process environment, optionally seeded from a .env file,
and are validated before the server starts.
*/
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	BackendHuggingFace = "huggingface"
	BackendGemini      = "gemini"
)

// Config holds every tunable of the service.
type Config struct {
	Host      string `mapstructure:"HOST" validate:"required"`
	Port      int    `mapstructure:"PORT" validate:"min=1,max=65535"`
	AppEnv    string `mapstructure:"APP_ENV" validate:"oneof=development production test"`
	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"oneof=trace debug info warn error"`
	SecretKey string `mapstructure:"SECRET_KEY" validate:"required"`

	// Model backend
	Backend       string        `mapstructure:"GYM_BACKEND" validate:"oneof=huggingface gemini"`
	ModelID       string        `mapstructure:"GYM_MODEL_ID" validate:"required"`
	HFEndpointURL string        `mapstructure:"HF_ENDPOINT_URL" validate:"omitempty,url"`
	HFToken       string        `mapstructure:"-"`
	GeminiAPIKey  string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel   string        `mapstructure:"GEMINI_MODEL"`
	ModelTimeout  time.Duration `mapstructure:"MODEL_TIMEOUT" validate:"min=1s,max=10m"`

	// Sessions & storage
	SessionMaxAge    time.Duration `mapstructure:"SESSION_MAX_AGE" validate:"min=1m"`
	ProfileCacheSize int           `mapstructure:"PROFILE_CACHE_SIZE" validate:"min=1"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`

	ChatRateLimit float64 `mapstructure:"CHAT_RATE_LIMIT" validate:"gte=0"`
	// Comma-separated CIDRs whose X-Forwarded-For header is believed.
	TrustedProxies string `mapstructure:"TRUSTED_PROXIES"`
}

var defaults = map[string]interface{}{
	"HOST":               "127.0.0.1",
	"PORT":               5000,
	"APP_ENV":            "development",
	"LOG_LEVEL":          "info",
	"SECRET_KEY":         "dev-secret-change-me",
	"GYM_BACKEND":        BackendHuggingFace,
	"GYM_MODEL_ID":       "openai/gpt-oss-120b",
	"HF_ENDPOINT_URL":    "https://router.huggingface.co/v1/chat/completions",
	"GEMINI_API_KEY":     "",
	"GEMINI_MODEL":       "gemini-2.5-flash",
	"MODEL_TIMEOUT":      "60s",
	"SESSION_MAX_AGE":    "168h",
	"PROFILE_CACHE_SIZE": 10000,
	"DATABASE_URL":       "",
	"CHAT_RATE_LIMIT":    2.0,
	"TRUSTED_PROXIES":    "",
}

// Load reads .env (if present) and the environment into a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, reading from environment")
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	cfg.HFToken = HuggingFaceToken()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := cfg.TrustedProxyRanges(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Backend == BackendGemini && cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GYM_BACKEND=gemini but GEMINI_API_KEY is not set; chat replies will fail")
	}

	return cfg, nil
}

// HuggingFaceToken resolves the Hugging Face access token. HUGGINGFACE_HUB_TOKEN
// wins, then HF_TOKEN, then HUGGINGFACE_TOKEN.
func HuggingFaceToken() string {
	for _, key := range []string{"HUGGINGFACE_HUB_TOKEN", "HF_TOKEN", "HUGGINGFACE_TOKEN"} {
		if token := strings.TrimSpace(os.Getenv(key)); token != "" {
			return token
		}
	}
	return ""
}

// TrustedProxyRanges parses TrustedProxies. An empty value trusts no proxy.
func (c *Config) TrustedProxyRanges() ([]*net.IPNet, error) {
	var ranges []*net.IPNet
	for _, field := range strings.Split(c.TrustedProxies, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		_, ipNet, err := net.ParseCIDR(field)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
		ranges = append(ranges, ipNet)
	}
	return ranges, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

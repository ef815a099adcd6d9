package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider names accepted in LLM_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds the configuration for the application.
type Config struct {
	Env string

	// LLM Config
	LLMProvider   string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	GeminiAPIKey  string
	GeminiModel   string
	LLMTimeout    time.Duration
	LLMRateLimit  float64
	LLMBurst      int

	// HTTP Config
	Port           string
	APIPrefix      string
	FrontendURL    string
	AllowedOrigins []string
	MockDelay      time.Duration

	// Storage Config
	DatabasePath string
	RedisURL     string

	// Admin Config
	AdminJWTSecret string
}

// Load reads a .env file (if present) and then builds the Config from the environment.
func Load() (*Config, error) {
	// Missing .env is fine, the environment may be set by the platform.
	_ = godotenv.Load()
	return NewFromEnv()
}

// LoadTools is Load for commands that never call the provider.
func LoadTools() (*Config, error) {
	_ = godotenv.Load()
	return NewToolsFromEnv()
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	return fromEnv(true)
}

// NewToolsFromEnv is NewFromEnv with the provider keys optional. LLMProvider
// is empty when no usable provider is configured.
func NewToolsFromEnv() (*Config, error) {
	return fromEnv(false)
}

func fromEnv(requireProvider bool) (*Config, error) {
	openAIKey := os.Getenv("OPENAI_API_KEY")
	geminiKey := os.Getenv("GEMINI_API_KEY")

	provider, err := resolveProvider(openAIKey, geminiKey)
	if err != nil {
		if requireProvider {
			return nil, err
		}
		provider = ""
	}

	timeout, err := durationEnv("LLM_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	mockDelay, err := durationEnv("MOCK_DELAY", 0)
	if err != nil {
		return nil, err
	}

	rateLimit := 2.0
	if v := os.Getenv("LLM_RATE_LIMIT"); v != "" {
		rateLimit, err = strconv.ParseFloat(v, 64)
		if err != nil || rateLimit <= 0 {
			return nil, fmt.Errorf("invalid LLM_RATE_LIMIT %q", v)
		}
	}
	burst := 4
	if v := os.Getenv("LLM_BURST"); v != "" {
		burst, err = strconv.Atoi(v)
		if err != nil || burst < 1 {
			return nil, fmt.Errorf("invalid LLM_BURST %q", v)
		}
	}

	apiPrefix := getEnv("API_PREFIX", "/api")
	if apiPrefix != "" && !strings.HasPrefix(apiPrefix, "/") {
		apiPrefix = "/" + apiPrefix
	}
	apiPrefix = strings.TrimSuffix(apiPrefix, "/")

	frontendURL := getEnv("FRONTEND_URL", "http://localhost:5173")

	return &Config{
		Env:            getEnv("APP_ENV", "development"),
		LLMProvider:    provider,
		OpenAIAPIKey:   openAIKey,
		OpenAIBaseURL:  strings.TrimSuffix(getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		GeminiAPIKey:   geminiKey,
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		LLMTimeout:     timeout,
		LLMRateLimit:   rateLimit,
		LLMBurst:       burst,
		Port:           getEnv("PORT", "3001"),
		APIPrefix:      apiPrefix,
		FrontendURL:    frontendURL,
		AllowedOrigins: allowedOrigins(frontendURL, os.Getenv("CORS_ALLOWED_ORIGINS")),
		MockDelay:      mockDelay,
		DatabasePath:   getEnv("DATABASE_PATH", "data/kitchen.db"),
		RedisURL:       os.Getenv("REDIS_URL"),
		AdminJWTSecret: os.Getenv("ADMIN_JWT_SECRET"),
	}, nil
}

func resolveProvider(openAIKey, geminiKey string) (string, error) {
	if openAIKey == "" && geminiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY or GEMINI_API_KEY environment variable not set")
	}

	provider := strings.ToLower(os.Getenv("LLM_PROVIDER"))
	switch provider {
	case "":
		provider = ProviderOpenAI
		if openAIKey == "" {
			provider = ProviderGemini
		}
	case ProviderOpenAI:
		if openAIKey == "" {
			return "", fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case ProviderGemini:
		if geminiKey == "" {
			return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	default:
		return "", fmt.Errorf("unsupported LLM_PROVIDER %q", provider)
	}
	return provider, nil
}

// ProviderModel returns the model name of the configured provider.
func (c *Config) ProviderModel() string {
	if c.LLMProvider == ProviderGemini {
		return c.GeminiModel
	}
	return c.OpenAIModel
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return d, nil
}

// allowedOrigins keeps the frontend first, then the local dev ports, then any extras.
func allowedOrigins(frontendURL, extra string) []string {
	origins := []string{frontendURL, "http://localhost:3001", "http://localhost:3000"}
	for _, o := range strings.Split(extra, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}

	seen := make(map[string]struct{}, len(origins))
	out := origins[:0]
	for _, o := range origins {
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported LLM providers
const (
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
)

// AdapterConfig configures one logging adapter
type AdapterConfig struct {
	Name    string                 `yaml:"name"`
	Type    string                 `yaml:"type"`
	Enabled bool                   `yaml:"enabled"`
	Options map[string]interface{} `yaml:"options"`
}

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
		AITimeout    time.Duration `yaml:"ai_timeout" default:"2m"`
		BodyLimit    string        `yaml:"body_limit" default:"1M"`
		CORSOrigins  []string      `yaml:"cors_origins"`
	} `yaml:"server"`

	RateLimit struct {
		Enabled   bool          `yaml:"enabled" default:"true"`
		PerSecond float64       `yaml:"per_second" default:"2"`
		Burst     int           `yaml:"burst" default:"10"`
		ExpiresIn time.Duration `yaml:"expires_in" default:"3m"`
	} `yaml:"rate_limit"`

	LLM struct {
		Provider    string        `yaml:"provider" default:"claude"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model"`
		MaxTokens   int           `yaml:"max_tokens" default:"4096"`
		Temperature float32       `yaml:"temperature" default:"0.2"`
		Timeout     time.Duration `yaml:"timeout" default:"120s"`
	} `yaml:"llm"`

	Cache struct {
		Enabled bool          `yaml:"enabled" default:"false"`
		TTL     time.Duration `yaml:"ttl" default:"24h"`
	} `yaml:"cache"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`

	Logging struct {
		Level    string          `yaml:"level" default:"info"`
		Format   string          `yaml:"format" default:"json"`
		Output   string          `yaml:"output" default:"stdout"`
		Adapters []AdapterConfig `yaml:"adapters"`
	} `yaml:"logging"`
}

// Default model per provider, used when none is configured
var defaultModels = map[string]string{
	ProviderClaude: "claude-3-5-haiku-latest",
	ProviderGemini: "gemini-2.5-flash",
}

var (
	bracedVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainVarPattern  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax.
// Unset variables are left untouched.
func expandEnvVars(s string) string {
	s = bracedVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})

	return plainVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[1:]); val != "" {
			return val
		}
		return match
	})
}

// Default returns a configuration populated with defaults only
func Default() *Config {
	config := &Config{}

	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 2 * time.Minute
	config.Server.IdleTimeout = 60 * time.Second
	config.Server.AITimeout = 2 * time.Minute
	config.Server.BodyLimit = "1M"

	config.RateLimit.Enabled = true
	config.RateLimit.PerSecond = 2
	config.RateLimit.Burst = 10
	config.RateLimit.ExpiresIn = 3 * time.Minute

	config.LLM.Provider = ProviderClaude
	config.LLM.MaxTokens = 4096
	config.LLM.Temperature = 0.2
	config.LLM.Timeout = 120 * time.Second

	config.Cache.Enabled = false
	config.Cache.TTL = 24 * time.Hour

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	return config
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := Default()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))
			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
			}
		}
	}

	config.loadFromEnv()

	if config.LLM.Model == "" {
		config.LLM.Model = defaultModels[config.LLM.Provider]
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate reports configuration values the server cannot run with.
// A missing API key is not an error here: the server starts and rejects AI requests instead.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if _, ok := defaultModels[c.LLM.Provider]; !ok {
		return fmt.Errorf("unsupported LLM provider: %s", c.LLM.Provider)
	}
	if c.RateLimit.Enabled && (c.RateLimit.PerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit requires positive per_second and burst")
	}
	return nil
}

// HasAPIKey reports whether the LLM gateway credential is present
func (c *Config) HasAPIKey() bool {
	return c.LLM.APIKey != ""
}

// Address returns the listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = nil
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.Server.CORSOrigins = append(c.Server.CORSOrigins, origin)
			}
		}
	}

	// API_KEY is the name the hosted function used; LLM_API_KEY wins when both are set
	if apiKey := os.Getenv("API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if cacheEnabled := os.Getenv("CACHE_ENABLED"); cacheEnabled != "" {
		c.Cache.Enabled = cacheEnabled == "true" || cacheEnabled == "1"
	}

	if cacheTTL := os.Getenv("CACHE_TTL"); cacheTTL != "" {
		if ttl, err := time.ParseDuration(cacheTTL); err == nil {
			c.Cache.TTL = ttl
		}
	}

	if rateLimit := os.Getenv("RATE_LIMIT"); rateLimit != "" {
		if perSecond, err := strconv.ParseFloat(rateLimit, 64); err == nil {
			c.RateLimit.PerSecond = perSecond
		}
	}

	if rateBurst := os.Getenv("RATE_BURST"); rateBurst != "" {
		if burst, err := strconv.Atoi(rateBurst); err == nil {
			c.RateLimit.Burst = burst
		}
	}
}

package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

const (
	geminiKeyEnv = "GOOGLE_GEMINI_API_KEY"
	openAIKeyEnv = "OPENAI_API_KEY"
)

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
		CORSOrigins []string      `mapstructure:"corsOrigins"`
	} `mapstructure:"server"`
	LLM struct {
		Provider    string        `mapstructure:"provider"`
		Model       string        `mapstructure:"model"`
		Temperature float32       `mapstructure:"temperature"`
		Timeout     time.Duration `mapstructure:"timeout"`
		BaseURL     string        `mapstructure:"baseURL"`
		// APIKey is never read from a file; see resolveAPIKey.
		APIKey string `mapstructure:"-"`
	} `mapstructure:"llm"`
	Geocoding struct {
		Enabled           bool          `mapstructure:"enabled"`
		BaseURL           string        `mapstructure:"baseURL"`
		UserAgent         string        `mapstructure:"userAgent"`
		RequestsPerSecond float64       `mapstructure:"requestsPerSecond"`
		CacheTTL          time.Duration `mapstructure:"cacheTTL"`
		Timeout           time.Duration `mapstructure:"timeout"`
	} `mapstructure:"geocoding"`
	Cache struct {
		ItineraryTTL time.Duration `mapstructure:"itineraryTTL"`
	} `mapstructure:"cache"`
	RateLimit struct {
		RequestsPerMinute int `mapstructure:"requestsPerMinute"`
	} `mapstructure:"rateLimit"`
	Observability struct {
		ServiceName string `mapstructure:"serviceName"`
	} `mapstructure:"observability"`
}

// InitConfig loads config.yml from the usual locations, falling back to the
// embedded copy, then applies TRAVEL_* environment overrides
// (e.g. TRAVEL_LLM_PROVIDER, TRAVEL_SERVER_HTTPPORT).
func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/usr/local/bin")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix("TRAVEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.LLM.APIKey = resolveAPIKey(config.LLM.Provider)

	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// resolveAPIKey reads the generation credential for the provider from the environment.
func resolveAPIKey(provider string) string {
	if strings.EqualFold(provider, "openai") {
		return strings.TrimSpace(os.Getenv(openAIKeyEnv))
	}
	return strings.TrimSpace(os.Getenv(geminiKeyEnv))
}

// Validate rejects settings the process cannot start with.
// A missing API key is not an error here; generation is reported unavailable instead.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.LLM.Provider) {
	case "gemini", "openai":
	default:
		errs = append(errs, fmt.Errorf("llm.provider must be gemini or openai, got %q", c.LLM.Provider))
	}
	if c.Server.HTTPPort == "" {
		errs = append(errs, errors.New("server.HTTPPort is required"))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("llm.temperature must be within [0, 2], got %v", c.LLM.Temperature))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, errors.New("llm.timeout must be positive"))
	}
	if c.Geocoding.Enabled && c.Geocoding.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("geocoding.requestsPerSecond must be positive"))
	}
	if c.Geocoding.Enabled && c.Geocoding.CacheTTL <= 0 {
		errs = append(errs, errors.New("geocoding.cacheTTL must be positive"))
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("rateLimit.requestsPerMinute cannot be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// APIKeyEnv names the environment variable holding the credential for the configured provider.
func (c Config) APIKeyEnv() string {
	if strings.EqualFold(c.LLM.Provider, "openai") {
		return openAIKeyEnv
	}
	return geminiKeyEnv
}

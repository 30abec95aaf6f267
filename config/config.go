package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LLMProvider defines the structure for LLM provider configuration.
type LLMProvider struct {
	APIKey  string `mapstructure:"api_key"` // Name of the environment variable holding the API key
	BaseURL string `mapstructure:"base_url"`
	Kind    string `mapstructure:"kind"` // "openai" (any OpenAI-compatible API) or "gemini"
}

// ServerConfig configures the HTTP backend.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// DatabaseConfig configures persistence for the backend.
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"` // "memory", a SQLite file path, or a postgres:// URL
}

// ClientConfig configures the plan orchestrator's REST client.
type ClientConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	UserID         string `mapstructure:"user_id"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	ModeCachePath  string `mapstructure:"mode_cache_path"` // Empty uses the user cache dir; "memory" skips the file
}

// AIConfig configures AI plan generation.
type AIConfig struct {
	Model                string  `mapstructure:"model"`
	Temperature          float32 `mapstructure:"temperature"`
	DailyGenerationQuota int     `mapstructure:"daily_generation_quota"` // 0 disables the quota
}

// Config holds the application's configuration.
type Config struct {
	Server          ServerConfig           `mapstructure:"server"`
	Database        DatabaseConfig         `mapstructure:"database"`
	Client          ClientConfig           `mapstructure:"client"`
	AI              AIConfig               `mapstructure:"ai"`
	LLMSystemPrompt string                 `mapstructure:"llm_system_prompt"`
	LLMProviders    map[string]LLMProvider `mapstructure:"llm_providers"` // Map of provider key to provider config
	LLMModels       map[string]string      `mapstructure:"llm_models"`    // Map of model name to provider key
}

// AppConfig is the global configuration instance.
var AppConfig Config

// LoadConfig loads configuration into AppConfig and exits the process on malformed configuration.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("INFO: [Config] No .env file found, relying on process environment.")
	}

	cfg, err := Load("./config", ".", "../config")
	if err != nil {
		log.Fatalf("FATAL: [Config] %v", err)
	}
	AppConfig = cfg
	log.Println("INFO: [Config] Configuration loading complete.")
}

// Load reads config.yaml from the first matching search path, applies defaults and
// environment overrides, and resolves provider API keys from the environment.
func Load(searchPaths ...string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	v.SetDefault("server.port", "8080")
	v.SetDefault("database.dsn", "memory")
	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.user_id", "local-user")
	v.SetDefault("client.timeout_seconds", 30)
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.temperature", 0.4)
	v.SetDefault("ai.daily_generation_quota", 20)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("WARN: [Config] Configuration file (config.yaml) not found. Using environment variables and defaults.")
		} else {
			return Config{}, fmt.Errorf("error reading configuration file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	applyEnvOverrides(&cfg)
	resolveProviderKeys(&cfg)

	// Model names in YAML may use "__" for "." because viper splits keys on dots.
	models := make(map[string]string, len(cfg.LLMModels))
	for modelName, provider := range cfg.LLMModels {
		models[strings.Replace(modelName, "__", ".", 1)] = provider
	}
	cfg.LLMModels = models
	cfg.AI.Model = strings.Replace(cfg.AI.Model, "__", ".", 1)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
		log.Printf("INFO: [Config] Server port overridden by environment variable SERVER_PORT: %s", port)
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
		log.Println("INFO: [Config] Database DSN overridden by environment variable DATABASE_DSN.")
	}
	if url := os.Getenv("FLUXWELL_API_URL"); url != "" {
		cfg.Client.BaseURL = url
		log.Printf("INFO: [Config] API base URL overridden by environment variable FLUXWELL_API_URL: %s", url)
	}
	if userID := os.Getenv("FLUXWELL_USER_ID"); userID != "" {
		cfg.Client.UserID = userID
	}
}

// resolveProviderKeys replaces each provider's APIKey, which names an environment
// variable, with that variable's value.
func resolveProviderKeys(cfg *Config) {
	for providerKey, providerConfig := range cfg.LLMProviders {
		envVarNameForKey := providerConfig.APIKey
		if envValue := os.Getenv(envVarNameForKey); envValue != "" {
			providerConfig.APIKey = envValue
			cfg.LLMProviders[providerKey] = providerConfig
			log.Printf("INFO: [Config] Loaded API Key for provider '%s' from environment variable '%s'.", providerKey, envVarNameForKey)
		} else if providerConfig.APIKey != "" && !strings.HasSuffix(providerConfig.APIKey, "_KEY") {
			log.Printf("WARN: [Config] API Key for provider '%s' is directly set in config.yaml and not overridden by env var. Consider using env vars for keys.", providerKey)
		} else {
			log.Printf("WARN: [Config] API Key for provider '%s' (env var '%s') is not set and not provided directly in config.", providerKey, envVarNameForKey)
			providerConfig.APIKey = ""
			cfg.LLMProviders[providerKey] = providerConfig
		}
	}
}
